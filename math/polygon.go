// math/polygon.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"errors"
	"slices"
)

var ErrDegeneratePolygon = errors.New("Polygon must have at least three distinct vertices")

// Polygon is a simple closed polygon; the edge from the last vertex back
// to the first is implicit. Derived quantities are computed once by
// NewPolygon and the vertices must not be modified afterward.
type Polygon struct {
	Vertices []Point2
	Segments []Segment
	// Centroid is the average of the vertices.
	Centroid Point2
	// Maximum is the largest distance between any two vertices; rays are
	// sized from it so that they always cross the whole polygon.
	Maximum float64
	Extent  Extent2D
}

func NewPolygon(vertices []Point2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, ErrDegeneratePolygon
	}

	p := &Polygon{
		Vertices: slices.Clone(vertices),
		Extent:   Extent2DFromPoints(vertices...),
	}

	var sum Point2
	for i, v := range p.Vertices {
		sum = Add2(sum, v)
		p.Segments = append(p.Segments, Segment{v, p.Vertices[(i+1)%len(p.Vertices)]})
		for _, w := range p.Vertices[i+1:] {
			p.Maximum = max(p.Maximum, Distance2(v, w))
		}
	}
	if p.Maximum == 0 {
		return nil, ErrDegeneratePolygon
	}
	p.Centroid = Scale2(sum, 1/float64(len(p.Vertices)))

	return p, nil
}

func (p *Polygon) Count() int {
	return len(p.Vertices)
}

// Contains reports whether pt is inside the polygon by counting the
// distinct points where a ray running from pt to past the right side of
// the polygon crosses its edges.
func (p *Polygon) Contains(pt Point2) bool {
	ray := Segment{pt, Point2{max(p.Extent.P1.X, pt.X) + p.Maximum, pt.Y}}

	var hits []Point2
	for _, s := range p.Segments {
		if !SegmentsIntersect(ray, s) {
			continue
		}
		// Edges that run along the ray don't count; their neighbors do.
		if ip, ok := SegmentIntersection(ray, s); ok {
			ip = Round2(ip, 10)
			if !slices.Contains(hits, ip) {
				hits = append(hits, ip)
			}
		}
	}
	return len(hits)%2 == 1
}

// Raycast returns the nearest point where the ray from origin along the
// given angle crosses the polygon's boundary. Crossings at the origin
// itself are ignored.
func (p *Polygon) Raycast(origin Point2, angle float64) (Point2, bool) {
	ray := Segment{origin, Offset2(origin, p.Maximum+Distance2(origin, p.Centroid), angle)}
	eps := 1e-12 * p.Maximum

	var hit Point2
	found, best := false, 0.
	for _, s := range p.Segments {
		if !SegmentsIntersect(ray, s) {
			continue
		}
		ip, ok := SegmentIntersection(ray, s)
		if !ok {
			continue
		}
		if d := Distance2(origin, ip); d > eps && (!found || d < best) {
			hit, best, found = ip, d, true
		}
	}
	return hit, found
}

// Clearance returns the distance from pt to the closest polygon edge.
func (p *Polygon) Clearance(pt Point2) float64 {
	d := -1.
	for _, s := range p.Segments {
		if sd := PointSegmentDistance(pt, s.P0, s.P1); d < 0 || sd < d {
			d = sd
		}
	}
	return d
}

// LongestEdgeAngle returns the angle of the polygon's longest edge,
// measured from its second vertex toward its first. Ties go to the edge
// that comes first.
func (p *Polygon) LongestEdgeAngle() float64 {
	var angle, longest float64
	for _, s := range p.Segments {
		if s.P0 == s.P1 {
			continue
		}
		if l := s.Length(); l > longest {
			longest, angle = l, AngleOf(s.P1, s.P0)
		}
	}
	return angle
}
