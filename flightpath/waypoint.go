// flightpath/waypoint.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	gomath "math"

	"github.com/aerosurvey/pathgen/math"
)

type TurnShape int

const (
	// CircleTurn is a single arc joining two adjacent passes whose
	// spacing is between two and four turn radii.
	CircleTurn TurnShape = iota
	// DoubleCircleTurn joins widely spaced passes with a tangent circle at
	// each corner and a straight leg between them.
	DoubleCircleTurn
	// LightbulbTurn handles passes closer than two turn radii: the
	// vehicle swings out, turns through a large arc and swings back in.
	LightbulbTurn
	// SplineTurn is a single arc placed at a point-to-point waypoint.
	SplineTurn
	// ApproachTurn is the arc flown from the vehicle's current position
	// onto the tangent toward a target.
	ApproachTurn
)

func (s TurnShape) String() string {
	switch s {
	case CircleTurn:
		return "circle"
	case DoubleCircleTurn:
		return "double circle"
	case LightbulbTurn:
		return "lightbulb"
	case SplineTurn:
		return "spline"
	case ApproachTurn:
		return "approach"
	default:
		return "unknown"
	}
}

// classifyTurnShape picks the turn shape for raster passes spaced
// layerDistance apart given the turn radius.
func classifyTurnShape(radius, layerDistance float64) TurnShape {
	switch {
	case 4*radius < layerDistance:
		return DoubleCircleTurn
	case 2*radius < layerDistance:
		return CircleTurn
	default:
		return LightbulbTurn
	}
}

// Arc is a circular arc flown from Entrance to Exit rotating in
// Direction about Centre. Points holds its interpolated positions.
type Arc struct {
	Centre    math.Point2
	Radius    float64
	Entrance  math.Point2
	Exit      math.Point2
	Direction math.Orientation
	Points    []math.Point2
}

func (a Arc) EntranceAngle() float64 {
	return math.AngleOf(a.Centre, a.Entrance)
}

func (a Arc) ExitAngle() float64 {
	return math.AngleOf(a.Centre, a.Exit)
}

// Sweep returns the angle turned through flying the arc, in [0, 2pi).
func (a Arc) Sweep() float64 {
	return math.SweepAngle(a.EntranceAngle(), a.ExitAngle(), a.Direction)
}

func (a Arc) Length() float64 {
	return a.Sweep() * a.Radius
}

// At returns the point on the arc's circle reached after rotating by
// offset radians from the entrance in the arc's direction.
func (a Arc) At(offset float64) math.Point2 {
	return math.Offset2(a.Centre, a.Radius, a.EntranceAngle()+a.Direction.Sign()*offset)
}

// TangentAt returns the direction of travel at p, a point on the arc.
func (a Arc) TangentAt(p math.Point2) float64 {
	return math.NormalizeAngle(math.AngleOf(a.Centre, p) + a.Direction.Sign()*gomath.Pi/2)
}

// Turn is the geometry flown about a waypoint: one arc for most shapes,
// three for a lightbulb.
type Turn struct {
	Shape TurnShape
	Arcs  []Arc
}

func (t *Turn) Entrance() math.Point2 {
	return t.Arcs[0].Entrance
}

func (t *Turn) Exit() math.Point2 {
	return t.Arcs[len(t.Arcs)-1].Exit
}

// Points returns the interpolated points of all of the turn's arcs in
// flight order.
func (t *Turn) Points() []math.Point2 {
	var pts []math.Point2
	for _, a := range t.Arcs {
		pts = append(pts, a.Points...)
	}
	return pts
}

// Waypoint is a vertex of the rough path together with the turn flown
// about it. Waypoints are built fresh for each generation.
type Waypoint struct {
	Coords    math.Point2
	Direction math.Orientation
	// Turn is nil for straight pass-throughs.
	Turn *Turn
}

func makeWaypoints(pts []math.Point2) []Waypoint {
	wps := make([]Waypoint, len(pts))
	for i, p := range pts {
		wps[i].Coords = p
	}
	return wps
}
