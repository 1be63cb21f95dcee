// flightpath/target.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"fmt"
	"log/slog"
	gomath "math"

	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/math"
)

// TargetParams describes a fly-to-target manoeuvre in the working frame.
type TargetParams struct {
	Plane math.Point2
	// Heading is the plane's direction of travel as a math angle. If nil,
	// ExistingPath must be given and the heading is taken from it.
	Heading *float64
	Target  math.Point2
	// ExistingPath is the path the plane is flying; the manoeuvre starts
	// MinimumDistance along it.
	ExistingPath    []math.Point2
	TurnRadius      float64
	TargetRadius    float64
	MinimumDistance float64
	TimesToCircle   float64
	CurveResolution float64
}

// TargetPath is a generated fly-to-target path.
type TargetPath struct {
	Start     math.Point2
	Heading   float64
	Direction math.Orientation
	Turn      Arc
	// Entrance is where the path joins the target circle; for a payload
	// approach it is the target itself.
	Entrance   math.Point2
	Points     []math.Point2
	Violations []string
	Stage      Stage
}

// BearingToAngle converts a compass bearing in degrees to a math angle in
// radians.
func BearingToAngle(bearing float64) float64 {
	return math.NormalizeAngle(gomath.Pi/2 - math.Radians(bearing))
}

// GenerateCircleTarget returns a turn onto the tangent to a circle of
// TargetRadius about the target followed by TimesToCircle loops of it.
func GenerateCircleTarget(p TargetParams, lg *log.Logger) (*TargetPath, error) {
	if p.TargetRadius <= 0 {
		return nil, fmt.Errorf("%w: target circle radius must be positive", ErrInvalidParameters)
	}
	if p.TimesToCircle <= 0 {
		p.TimesToCircle = 1
	}
	return generateTarget(p, false, lg)
}

// GeneratePayloadApproach returns a turn onto a straight line through the
// target.
func GeneratePayloadApproach(p TargetParams, lg *log.Logger) (*TargetPath, error) {
	p.TargetRadius = 0
	return generateTarget(p, true, lg)
}

func generateTarget(p TargetParams, payload bool, lg *log.Logger) (*TargetPath, error) {
	pr := progress{lg: lg}
	pr.advance(StageInitialized)

	if p.TurnRadius <= 0 || p.CurveResolution <= 0 || p.MinimumDistance < 0 {
		return nil, fmt.Errorf("%w: turn radius and curve resolution must be positive", ErrInvalidParameters)
	}
	if p.Heading == nil && len(p.ExistingPath) < 2 {
		return nil, fmt.Errorf("%w: a plane bearing or an existing path is required", ErrInvalidParameters)
	}
	pr.advance(StageParametersValidated)

	path := &TargetPath{}
	path.Start, path.Heading = targetStart(p)
	pr.advance(StageRoughPointsGenerated, slog.String("start", path.Start.String()),
		slog.Float64("heading", path.Heading))

	path.Direction = math.OrientationOf(p.Target, path.Start, math.Offset2(path.Start, 1, path.Heading))
	if path.Direction == math.Collinear {
		if !payload {
			return nil, ErrCollinearTarget
		}
		path.Direction = math.Clockwise
	}
	pr.advance(StageTurnsClassified, slog.String("direction", path.Direction.String()))

	centre := math.Offset2(path.Start, p.TurnRadius, path.Heading+path.Direction.Sign()*gomath.Pi/2)
	if math.Distance2(centre, p.Target) <= math.Abs(p.TurnRadius-p.TargetRadius) {
		return nil, ErrTargetInsideTurn
	}

	// The target circle is flown in the same direction as the turn, so
	// the joining leg is their external tangent.
	turn := Arc{Centre: centre, Radius: p.TurnRadius, Entrance: path.Start, Direction: path.Direction}
	circle := Arc{Centre: p.Target, Radius: p.TargetRadius, Direction: path.Direction}
	exit, entrance := externalTangent(turn, circle)
	turn.Exit = math.Offset2(centre, p.TurnRadius, exit)
	if turn.Sweep() < minArcSweep {
		// Already heading along the tangent.
		turn.Exit = path.Start
	}
	turn.Points = arcPoints(turn, p.CurveResolution)
	path.Turn = turn
	path.Entrance = math.Offset2(p.Target, p.TargetRadius, entrance)

	path.Points = append(path.Points, turn.Points...)
	if payload {
		path.Points = append(path.Points, p.Target)
	} else {
		path.Points = append(path.Points, loopPoints(p.Target, p.TargetRadius, path.Entrance,
			path.Direction, p.TimesToCircle, p.CurveResolution)...)
	}
	pr.advance(StageTurnsInterpolated, slog.Int("points", len(path.Points)))

	if hasConsecutiveDuplicates(path.Points) {
		path.Violations = append(path.Violations, ViolationDuplicatePoints)
	}
	path.Stage = pr.finish(path.Violations)

	return path, nil
}

// targetStart returns where the manoeuvre begins and the heading there.
func targetStart(p TargetParams) (math.Point2, float64) {
	if p.Heading == nil {
		return alongPath(p.ExistingPath, p.MinimumDistance)
	}

	dist := p.MinimumDistance
	if d := math.Distance2(p.Plane, p.Target); d < 2*p.TurnRadius {
		// Too close to turn onto the target; fly on until it's far enough
		// behind the turn.
		dist += gomath.Sqrt(4*p.TurnRadius*p.TurnRadius - d*d)
	}
	return math.Offset2(p.Plane, dist, *p.Heading), *p.Heading
}

// alongPath returns the point dist along the polyline and the direction of
// the leg it lies on. Distances past the end give the last point.
func alongPath(pts []math.Point2, dist float64) (math.Point2, float64) {
	for i := 0; i+1 < len(pts); i++ {
		heading := math.AngleOf(pts[i], pts[i+1])
		l := math.Distance2(pts[i], pts[i+1])
		if dist <= l || i+2 == len(pts) {
			return math.Offset2(pts[i], min(dist, l), heading), heading
		}
		dist -= l
	}
	return pts[len(pts)-1], 0
}

// externalTangent returns the angles about each centre of the line
// leaving a and arriving at b with both rotating the same way. b may have
// zero radius.
func externalTangent(a, b Arc) (exit, entrance float64) {
	psi := math.AngleOf(a.Centre, b.Centre)
	gamma := math.SafeACos((a.Radius - b.Radius) / math.Distance2(a.Centre, b.Centre))
	if a.Direction == math.CounterClockwise {
		gamma = -gamma
	}
	return psi + gamma, psi + gamma
}

// loopPoints returns points around the circle starting at start for the
// given number of revolutions, including the final point.
func loopPoints(centre math.Point2, radius float64, start math.Point2, dir math.Orientation, times, res float64) []math.Point2 {
	total := times * 2 * gomath.Pi
	n := 1 + int(gomath.Ceil(total*radius*res))
	step := total / float64(n)

	a := Arc{Centre: centre, Radius: radius, Entrance: start, Direction: dir}
	pts := make([]math.Point2, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, a.At(step*float64(i)))
	}
	return pts
}
