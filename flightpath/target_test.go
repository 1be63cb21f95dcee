// flightpath/target_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/aerosurvey/pathgen/math"
)

func finite(pts []math.Point2) bool {
	for _, p := range pts {
		if gomath.IsNaN(p.X) || gomath.IsNaN(p.Y) || gomath.IsInf(p.X, 0) || gomath.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

func TestBearingToAngle(t *testing.T) {
	for _, test := range []struct{ bearing, angle float64 }{
		{0, gomath.Pi / 2},
		{90, 0},
		{180, -gomath.Pi / 2},
		{225, -3 * gomath.Pi / 4},
	} {
		if a := BearingToAngle(test.bearing); !near(a, test.angle) {
			t.Errorf("BearingToAngle(%g) = %f, expected %f", test.bearing, a, test.angle)
		}
	}
}

func TestCircleTarget(t *testing.T) {
	east := 0.
	for _, test := range []struct {
		name   string
		target math.Point2
	}{
		{name: "ThreeRadii", target: math.Point2{X: 0, Y: -3}},
		{name: "TwoRadii", target: math.Point2{X: 0, Y: -2}},
		{name: "Close", target: math.Point2{X: 0, Y: -1}},
	} {
		t.Run(test.name, func(t *testing.T) {
			path, err := GenerateCircleTarget(TargetParams{
				Plane:           math.Point2{X: 0, Y: 0},
				Heading:         &east,
				Target:          test.target,
				TurnRadius:      1,
				TargetRadius:    0.5,
				CurveResolution: 10,
			}, nil)
			if err != nil {
				t.Fatalf("GenerateCircleTarget: %v", err)
			}

			if path.Direction != math.Clockwise {
				t.Errorf("direction %s, expected clockwise toward a target on the right", path.Direction)
			}
			if sweep := path.Turn.Sweep(); !(sweep > 0) || gomath.IsInf(sweep, 0) {
				t.Errorf("turn sweep %f is not positive and finite", sweep)
			}
			if !finite(path.Points) {
				t.Fatalf("path has non-finite points")
			}
			if !near(math.Distance2(path.Entrance, test.target), 0.5) {
				t.Errorf("entrance %s is not on the target circle", path.Entrance)
			}

			// The joining leg is tangent to both circles.
			leg := math.Sub2(path.Entrance, path.Turn.Exit)
			if d := math.Dot(leg, math.Sub2(path.Turn.Exit, path.Turn.Centre)); !near(d, 0) {
				t.Errorf("leg isn't tangent to the turn circle: %g", d)
			}
			if d := math.Dot(leg, math.Sub2(path.Entrance, test.target)); !near(d, 0) {
				t.Errorf("leg isn't tangent to the target circle: %g", d)
			}
		})
	}
}

func TestCircleTargetStart(t *testing.T) {
	east := 0.
	path, err := GenerateCircleTarget(TargetParams{
		Plane:           math.Point2{X: 0, Y: 0},
		Heading:         &east,
		Target:          math.Point2{X: 0, Y: -1},
		TurnRadius:      1,
		TargetRadius:    0.5,
		MinimumDistance: 0.5,
		CurveResolution: 10,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Closer than two radii, so the start moves on by sqrt(4 - 1).
	if !nearPoint(path.Start, math.Point2{X: 0.5 + gomath.Sqrt(3), Y: 0}) {
		t.Errorf("start %s, expected (%f,0)", path.Start, 0.5+gomath.Sqrt(3))
	}
	if path.Points[0] != path.Start {
		t.Errorf("path doesn't begin at the start point")
	}
}

func TestCircleTargetLoops(t *testing.T) {
	east := 0.
	p := TargetParams{
		Plane:           math.Point2{X: 0, Y: 0},
		Heading:         &east,
		Target:          math.Point2{X: 0, Y: -3},
		TurnRadius:      1,
		TargetRadius:    0.5,
		CurveResolution: 10,
	}
	once, err := GenerateCircleTarget(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	p.TimesToCircle = 2
	twice, err := GenerateCircleTarget(p, nil)
	if err != nil {
		t.Fatal(err)
	}

	loop1 := len(once.Points) - len(once.Turn.Points)
	loop2 := len(twice.Points) - len(twice.Turn.Points)
	if loop2 <= loop1 {
		t.Errorf("two loops gave %d points, one loop %d", loop2, loop1)
	}
	if last := once.Points[len(once.Points)-1]; !nearPoint(last, once.Entrance) {
		t.Errorf("a full loop ends at %s, expected the entrance %s", last, once.Entrance)
	}
}

func TestCollinearTarget(t *testing.T) {
	east := 0.
	p := TargetParams{
		Plane:           math.Point2{X: 0, Y: 0},
		Heading:         &east,
		Target:          math.Point2{X: 5, Y: 0},
		TurnRadius:      1,
		TargetRadius:    0.5,
		CurveResolution: 10,
	}
	if _, err := GenerateCircleTarget(p, nil); !errors.Is(err, ErrCollinearTarget) {
		t.Errorf("circle target: expected ErrCollinearTarget, got %v", err)
	}

	path, err := GeneratePayloadApproach(p, nil)
	if err != nil {
		t.Fatalf("payload approach: %v", err)
	}
	if path.Direction != math.Clockwise {
		t.Errorf("payload approach direction %s, expected clockwise", path.Direction)
	}
}

func TestPayloadApproach(t *testing.T) {
	north := gomath.Pi / 2
	target := math.Point2{X: -4, Y: 3}
	path, err := GeneratePayloadApproach(TargetParams{
		Plane:           math.Point2{X: 0, Y: 0},
		Heading:         &north,
		Target:          target,
		TurnRadius:      1,
		CurveResolution: 10,
	}, nil)
	if err != nil {
		t.Fatalf("GeneratePayloadApproach: %v", err)
	}
	if path.Direction != math.CounterClockwise {
		t.Errorf("direction %s, expected counterclockwise toward a target on the left", path.Direction)
	}
	if last := path.Points[len(path.Points)-1]; last != target {
		t.Errorf("path ends at %s, expected the target", last)
	}
	if path.Entrance != target {
		t.Errorf("entrance %s, expected the target", path.Entrance)
	}
	leg := math.Sub2(target, path.Turn.Exit)
	if d := math.Dot(leg, math.Sub2(path.Turn.Exit, path.Turn.Centre)); !near(d, 0) {
		t.Errorf("final leg isn't tangent to the turn: %g", d)
	}
}

func TestTargetExistingPath(t *testing.T) {
	path, err := GenerateCircleTarget(TargetParams{
		ExistingPath:    []math.Point2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 10}},
		Target:          math.Point2{X: -3, Y: 5},
		TurnRadius:      1,
		TargetRadius:    0.5,
		MinimumDistance: 4,
		CurveResolution: 10,
	}, nil)
	if err != nil {
		t.Fatalf("GenerateCircleTarget: %v", err)
	}
	if !nearPoint(path.Start, math.Point2{X: 2, Y: 2}) {
		t.Errorf("start %s, expected (2,2)", path.Start)
	}
	if !near(path.Heading, gomath.Pi/2) {
		t.Errorf("heading %f, expected pi/2", path.Heading)
	}
}

func TestPayloadApproachHeadOn(t *testing.T) {
	east := 0.
	target := math.Point2{X: 10, Y: 0}
	path, err := GeneratePayloadApproach(TargetParams{
		Plane:           math.Point2{X: 0, Y: 0},
		Heading:         &east,
		Target:          target,
		TurnRadius:      1,
		CurveResolution: 10,
	}, nil)
	if err != nil {
		t.Fatalf("GeneratePayloadApproach: %v", err)
	}

	expect := []math.Point2{{X: 0, Y: 0}, target}
	if len(path.Points) != len(expect) {
		t.Fatalf("got points %v, expected %v", path.Points, expect)
	}
	for i := range expect {
		if !nearPoint(path.Points[i], expect[i]) {
			t.Errorf("point %d is %s, expected %s", i, path.Points[i], expect[i])
		}
	}
	if path.Turn.Sweep() != 0 {
		t.Errorf("turn sweeps %g, expected no turn", path.Turn.Sweep())
	}
	if len(path.Violations) != 0 {
		t.Errorf("unexpected violations %v", path.Violations)
	}
}

func TestTargetInsideTurn(t *testing.T) {
	east := 0.
	for _, test := range []struct {
		name   string
		target math.Point2
		radius float64
	}{
		{name: "AtCentre", target: math.Point2{X: 3, Y: -1}},
		{name: "InsidePayload", target: math.Point2{X: 3, Y: -0.5}},
		{name: "OnTurnCircle", target: math.Point2{X: 4, Y: -1}},
		{name: "InsideCircleTarget", target: math.Point2{X: 3, Y: -1.2}, radius: 0.5},
	} {
		t.Run(test.name, func(t *testing.T) {
			p := TargetParams{
				Plane:           math.Point2{X: 0, Y: 0},
				Heading:         &east,
				Target:          test.target,
				TurnRadius:      1,
				TargetRadius:    test.radius,
				MinimumDistance: 3,
				CurveResolution: 10,
			}
			var err error
			if test.radius == 0 {
				_, err = GeneratePayloadApproach(p, nil)
			} else {
				_, err = GenerateCircleTarget(p, nil)
			}
			if !errors.Is(err, ErrTargetInsideTurn) {
				t.Errorf("expected ErrTargetInsideTurn, got %v", err)
			}
		})
	}
}
