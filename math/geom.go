// math/geom.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

///////////////////////////////////////////////////////////////////////////
// Extent2D

// Extent2D represents a 2D bounding box with the two vertices at its
// opposite minimum and maximum corners.
type Extent2D struct {
	P0, P1 Point2
}

// EmptyExtent2D returns an Extent2D representing an empty bounding box.
func EmptyExtent2D() Extent2D {
	// Degenerate bounds
	return Extent2D{P0: Point2{1e30, 1e30}, P1: Point2{-1e30, -1e30}}
}

// Extent2DFromPoints returns an Extent2D that bounds all of the provided
// points.
func Extent2DFromPoints(pts ...Point2) Extent2D {
	e := EmptyExtent2D()
	for _, p := range pts {
		e = Union(e, p)
	}
	return e
}

func Union(e Extent2D, p Point2) Extent2D {
	e.P0.X = min(e.P0.X, p.X)
	e.P0.Y = min(e.P0.Y, p.Y)
	e.P1.X = max(e.P1.X, p.X)
	e.P1.Y = max(e.P1.Y, p.Y)
	return e
}

///////////////////////////////////////////////////////////////////////////
// Segments

// Segment is the closed line segment between P0 and P1.
type Segment struct {
	P0, P1 Point2
}

func (s Segment) Length() float64 {
	return Distance2(s.P0, s.P1)
}

// Orientation classifies the turn made by an ordered triplet of points.
type Orientation int

const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	default:
		return "collinear"
	}
}

// Opposite returns the reverse rotation; Collinear is its own opposite.
func (o Orientation) Opposite() Orientation {
	switch o {
	case Clockwise:
		return CounterClockwise
	case CounterClockwise:
		return Clockwise
	default:
		return Collinear
	}
}

// Sign returns -1 for clockwise rotation, 1 for counterclockwise and 0
// for collinear.
func (o Orientation) Sign() float64 {
	switch o {
	case Clockwise:
		return -1
	case CounterClockwise:
		return 1
	default:
		return 0
	}
}

// OrientationOf returns the orientation of the ordered triplet (p, q, r).
// The cross product is rounded to 10 decimal places so that nearly
// collinear points are reported as collinear.
func OrientationOf(p, q, r Point2) Orientation {
	val := Round((q.Y-p.Y)*(r.X-q.X)-(q.X-p.X)*(r.Y-q.Y), 10)
	if val > 0 {
		return Clockwise
	} else if val < 0 {
		return CounterClockwise
	}
	return Collinear
}

// OnSegment reports whether q lies within the bounding box of the segment
// from p to r; it is only meaningful when p, q and r are collinear.
func OnSegment(p, q, r Point2) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}

// SegmentsIntersect reports whether the two closed segments share at
// least one point.
func SegmentsIntersect(s1, s2 Segment) bool {
	p1, q1, p2, q2 := s1.P0, s1.P1, s2.P0, s2.P1
	o1 := OrientationOf(p1, q1, p2)
	o2 := OrientationOf(p1, q1, q2)
	o3 := OrientationOf(p2, q2, p1)
	o4 := OrientationOf(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Collinear special cases
	return (o1 == Collinear && OnSegment(p1, p2, q1)) ||
		(o2 == Collinear && OnSegment(p1, q2, q1)) ||
		(o3 == Collinear && OnSegment(p2, p1, q2)) ||
		(o4 == Collinear && OnSegment(p2, q1, q2))
}

// SegmentIntersection returns the intersection point of the infinite
// lines through the two segments. The returned Boolean is false when the
// lines are parallel (including when either segment has zero length).
// The result does not depend on the order of the arguments.
func SegmentIntersection(s1, s2 Segment) (Point2, bool) {
	xdiff := Point2{s1.P0.X - s1.P1.X, s2.P0.X - s2.P1.X}
	ydiff := Point2{s1.P0.Y - s1.P1.Y, s2.P0.Y - s2.P1.Y}

	det := func(a, b Point2) float64 { return a.X*b.Y - a.Y*b.X }

	div := det(xdiff, ydiff)
	if div == 0 {
		return Point2{}, false
	}

	d := Point2{det(s1.P0, s1.P1), det(s2.P0, s2.P1)}
	return Point2{det(d, xdiff) / div, det(d, ydiff) / div}, true
}

// Return minimum distance between line segment vw and point p
// https://stackoverflow.com/a/1501725
func PointSegmentDistance(p, v, w Point2) float64 {
	l := Sub2(v, w)
	l2 := Dot(l, l)
	if l2 == 0 {
		return Distance2(p, v)
	}
	t := Clamp(Dot(Sub2(p, v), Sub2(w, v))/l2, 0, 1)
	proj := Add2(v, Scale2(Sub2(w, v), t))
	return Distance2(p, proj)
}
