// flightpath/spline_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/aerosurvey/pathgen/math"
)

func TestSplineSingleTurn(t *testing.T) {
	path, err := GenerateSpline(SplineParams{
		Waypoints:       []math.Point2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		TurnRadius:      1,
		CurveResolution: 10,
	}, nil)
	if err != nil {
		t.Fatalf("GenerateSpline: %v", err)
	}

	turn := path.Waypoints[1].Turn
	if turn == nil {
		t.Fatalf("expected a turn at the corner")
	}
	a := turn.Arcs[0]
	if a.Direction != math.CounterClockwise {
		t.Errorf("turn direction %s, expected counterclockwise", a.Direction)
	}
	// Tangent to both legs.
	if !nearPoint(a.Centre, math.Point2{X: 9, Y: 1}) {
		t.Errorf("centre %s, expected (9,1)", a.Centre)
	}
	if !nearPoint(a.Entrance, math.Point2{X: 9, Y: 0}) || !nearPoint(a.Exit, math.Point2{X: 10, Y: 1}) {
		t.Errorf("turn runs %s to %s, expected (9,0) to (10,1)", a.Entrance, a.Exit)
	}

	pts := path.Points
	if pts[0] != (math.Point2{X: 0, Y: 0}) || pts[len(pts)-1] != (math.Point2{X: 10, Y: 10}) {
		t.Errorf("path runs %s to %s", pts[0], pts[len(pts)-1])
	}
	if pts[1] != a.Entrance || pts[len(pts)-2] != a.Exit {
		t.Errorf("turn entrance and exit aren't emitted around the arc")
	}
	// ceil(pi/2 * 10) = 16 intervals
	if len(pts) != 2+2+15 {
		t.Errorf("got %d points, expected %d", len(pts), 2+2+15)
	}
	for _, p := range pts[1 : len(pts)-1] {
		if !near(math.Distance2(p, a.Centre), 1) {
			t.Errorf("arc point %s is not on the turn circle", p)
		}
	}
	if len(path.Violations) != 0 {
		t.Errorf("unexpected violations %v", path.Violations)
	}
}

func TestSplineStraight(t *testing.T) {
	wp := []math.Point2{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}
	path, err := GenerateSpline(SplineParams{Waypoints: wp, TurnRadius: 1, CurveResolution: 10}, nil)
	if err != nil {
		t.Fatalf("GenerateSpline: %v", err)
	}
	if len(path.Points) != 3 {
		t.Fatalf("got %d points, expected 3", len(path.Points))
	}
	for i := range wp {
		if path.Points[i] != wp[i] {
			t.Errorf("point %d = %s, expected %s", i, path.Points[i], wp[i])
		}
	}
	if path.Waypoints[1].Turn != nil || path.Waypoints[1].Direction != math.Collinear {
		t.Errorf("expected a straight pass-through")
	}
}

func TestSplineErrors(t *testing.T) {
	if _, err := GenerateSpline(SplineParams{Waypoints: []math.Point2{{X: 0, Y: 0}}, TurnRadius: 1, CurveResolution: 1}, nil); !errors.Is(err, ErrTooFewWaypoints) {
		t.Errorf("one waypoint: expected ErrTooFewWaypoints, got %v", err)
	}
	if _, err := GenerateSpline(SplineParams{Waypoints: []math.Point2{{X: 0, Y: 0}, {X: 1, Y: 1}}, TurnRadius: 0, CurveResolution: 1}, nil); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("zero radius: expected ErrInvalidParameters, got %v", err)
	}
}

func TestSplineHairpinBoundary(t *testing.T) {
	boundary, err := math.NewPolygon([]math.Point2{{X: -1, Y: -1}, {X: 12, Y: -1}, {X: 12, Y: 3}, {X: -1, Y: 3}})
	if err != nil {
		t.Fatal(err)
	}
	wp := []math.Point2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 2}, {X: 0, Y: 2}}

	t.Run("Solvable", func(t *testing.T) {
		path, err := GenerateSpline(SplineParams{
			Waypoints:          wp,
			TurnRadius:         0.5,
			Boundary:           boundary,
			BoundaryResolution: 100,
			BoundaryTolerance:  0.1,
			CurveResolution:    10,
		}, nil)
		if err != nil {
			t.Fatalf("GenerateSpline: %v", err)
		}

		t1, t2 := path.Waypoints[1].Turn, path.Waypoints[2].Turn
		if t1 == nil || t2 == nil {
			t.Fatalf("expected turns at both corners")
		}
		for _, turn := range []*Turn{t1, t2} {
			if c := boundary.Clearance(turn.Arcs[0].Centre); c < 0.6 {
				t.Errorf("centre %s only %f from the boundary", turn.Arcs[0].Centre, c)
			}
		}

		// The leg between the two turns is tangent to both.
		leg := math.Sub2(t2.Entrance(), t1.Exit())
		for _, c := range []struct{ p, centre math.Point2 }{
			{t1.Exit(), t1.Arcs[0].Centre},
			{t2.Entrance(), t2.Arcs[0].Centre},
		} {
			if d := math.Dot(leg, math.Sub2(c.p, c.centre)); !near(d, 0) {
				t.Errorf("leg isn't perpendicular to the radius at %s: %g", c.p, d)
			}
		}
		if !nearPoint(t1.Exit(), math.Point2{X: 10, Y: 0.5}) || !nearPoint(t2.Entrance(), math.Point2{X: 10, Y: 1.5}) {
			t.Errorf("connecting leg runs %s to %s, expected (10,0.5) to (10,1.5)", t1.Exit(), t2.Entrance())
		}

		if len(path.Violations) != 0 {
			t.Errorf("unexpected violations %v", path.Violations)
		}
	})

	t.Run("NoSolution", func(t *testing.T) {
		_, err := GenerateSpline(SplineParams{
			Waypoints:          wp,
			TurnRadius:         3,
			Boundary:           boundary,
			BoundaryResolution: 100,
			CurveResolution:    10,
		}, nil)
		if !errors.Is(err, ErrNoSolution) {
			t.Fatalf("expected ErrNoSolution, got %v", err)
		}
		var nse *NoSolutionError
		if !errors.As(err, &nse) || nse.Waypoint != 1 {
			t.Errorf("expected failure at waypoint 1, got %v", err)
		}
	})
}

func TestCommonTangent(t *testing.T) {
	a := Arc{Centre: math.Point2{X: 0, Y: 0}, Radius: 1, Direction: math.Clockwise}

	t.Run("SameDirection", func(t *testing.T) {
		b := Arc{Centre: math.Point2{X: 4, Y: 0}, Radius: 1, Direction: math.Clockwise}
		exit, entrance, err := commonTangent(a, b)
		if err != nil {
			t.Fatal(err)
		}
		if !near(exit, gomath.Pi/2) || !near(entrance, gomath.Pi/2) {
			t.Errorf("got %f %f, expected pi/2 pi/2", exit, entrance)
		}
	})

	t.Run("OppositeDirection", func(t *testing.T) {
		b := Arc{Centre: math.Point2{X: 4, Y: 0}, Radius: 1, Direction: math.CounterClockwise}
		exit, entrance, err := commonTangent(a, b)
		if err != nil {
			t.Fatal(err)
		}
		p := math.Offset2(a.Centre, 1, exit)
		q := math.Offset2(b.Centre, 1, entrance)
		leg := math.Sub2(q, p)
		if !near(math.Dot(leg, p), 0) || !near(math.Dot(leg, math.Sub2(q, b.Centre)), 0) {
			t.Errorf("leg %s to %s isn't tangent to both circles", p, q)
		}
		// Crosses between the centres.
		if p.Y <= 0 || q.Y >= 0 {
			t.Errorf("expected an internal tangent, got %s to %s", p, q)
		}
	})

	t.Run("TooClose", func(t *testing.T) {
		b := Arc{Centre: math.Point2{X: 1.5, Y: 0}, Radius: 1, Direction: math.CounterClockwise}
		if _, _, err := commonTangent(a, b); !errors.Is(err, ErrCirclesTooClose) {
			t.Errorf("expected ErrCirclesTooClose, got %v", err)
		}
	})
}
