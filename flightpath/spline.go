// flightpath/spline.go
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

// DefaultBoundaryResolution is the number of candidate centre positions
// tried per waypoint beyond the first when none is specified.
const DefaultBoundaryResolution = 10

// SplineParams describes a point-to-point path in the working frame.
type SplineParams struct {
	Waypoints  []math.Point2
	TurnRadius float64
	// Boundary, if non-nil, is a polygon that turn circles must stay
	// inside, at least TurnRadius+BoundaryTolerance from every edge.
	Boundary           *math.Polygon
	BoundaryResolution int
	BoundaryTolerance  float64
	CurveResolution    float64
}

// SplinePath is a generated point-to-point path.
type SplinePath struct {
	Waypoints  []Waypoint
	Points     []math.Point2
	Violations []string
	Stage      Stage
}

// GenerateSpline joins the waypoints with straight legs and a circular
// turn at each interior waypoint.
func GenerateSpline(p SplineParams, lg *log.Logger) (*SplinePath, error) {
	pr := progress{lg: lg}
	pr.advance(StageInitialized)

	if len(p.Waypoints) < 2 {
		return nil, ErrTooFewWaypoints
	}
	if p.TurnRadius <= 0 || p.CurveResolution <= 0 || p.BoundaryTolerance < 0 {
		return nil, fmt.Errorf("%w: turn radius and curve resolution must be positive", ErrInvalidParameters)
	}
	res := p.BoundaryResolution
	if res <= 0 {
		res = DefaultBoundaryResolution
	}
	pr.advance(StageParametersValidated)

	wps := makeWaypoints(p.Waypoints)
	pr.advance(StageRoughPointsGenerated, slog.Int("waypoints", len(wps)))

	for i := 1; i+1 < len(wps); i++ {
		from := wps[i-1].Coords
		if t := wps[i-1].Turn; t != nil {
			from = t.Exit()
		}
		cur, next := wps[i].Coords, wps[i+1].Coords

		dir := math.OrientationOf(from, cur, next)
		wps[i].Direction = dir
		if dir == math.Collinear {
			continue
		}

		arc, ok := placeTurnCircle(from, cur, next, dir, p.TurnRadius, p.Boundary, res, p.BoundaryTolerance)
		if !ok {
			lg.Warn("no turn circle placement found", slog.Int("waypoint", i),
				slog.String("coords", cur.String()))
			return nil, &NoSolutionError{Waypoint: i}
		}
		wps[i].Turn = &Turn{Shape: SplineTurn, Arcs: []Arc{arc}}

		if err := repairTangents(wps, i); err != nil {
			return nil, err
		}
	}
	pr.advance(StageTurnsClassified)

	for i := range wps {
		if t := wps[i].Turn; t != nil && coincident(t.Entrance(), t.Exit()) {
			lg.Debug("dropping zero-length turn", slog.Int("waypoint", i))
			wps[i].Turn = nil
		}
	}

	path := &SplinePath{Waypoints: wps, Points: flattenSpline(wps, p.CurveResolution)}
	pr.advance(StageTurnsInterpolated, slog.Int("points", len(path.Points)))

	if hasConsecutiveDuplicates(path.Points) {
		path.Violations = append(path.Violations, ViolationDuplicatePoints)
	}
	if p.Boundary != nil && !allContained(p.Boundary, path.Points) {
		path.Violations = append(path.Violations, ViolationOutsideBoundary)
	}
	path.Stage = pr.finish(path.Violations)

	return path, nil
}

// placeTurnCircle scans candidate centres for the turn at cur, starting
// with the circle tangent to both legs and moving toward the circle that
// passes through cur tangent to the outgoing leg. It returns the first
// candidate that both neighbors lie outside of and that respects the
// boundary, with its entrance and exit tangent points.
func placeTurnCircle(from, cur, next math.Point2, dir math.Orientation, radius float64,
	boundary *math.Polygon, steps int, tolerance float64) (Arc, bool) {
	theta := math.InteriorAngle(from, cur, next)
	bisector := math.BisectionAngle(from, cur, next)
	side := math.AngleOf(cur, next) + dir.Sign()*gomath.Pi/2
	swing := math.NormalizeAngle(side - bisector)
	tangentDist := radius / max(gomath.Sin(theta/2), 1e-9)

	for k := 0; k <= steps; k++ {
		p := float64(k) / float64(steps)
		centre := math.Offset2(cur, math.Lerp(p, tangentDist, radius), bisector+p*swing)

		if math.Distance2(centre, from) <= radius || math.Distance2(centre, next) <= radius {
			continue
		}
		if boundary != nil && (!boundary.Contains(centre) || boundary.Clearance(centre) < radius+tolerance) {
			continue
		}

		a := Arc{Centre: centre, Radius: radius, Direction: dir}
		a.Entrance = tangentPoint(centre, radius, from, dir, true)
		a.Exit = tangentPoint(centre, radius, next, dir, false)
		return a, true
	}
	return Arc{}, false
}

// tangentPoint returns the point on the circle where a line through p
// touches it, choosing the side so that travel along the line continues
// around the circle in direction dir. If arriving is set the line runs
// from p to the circle, otherwise from the circle to p.
func tangentPoint(centre math.Point2, radius float64, p math.Point2, dir math.Orientation, arriving bool) math.Point2 {
	beta := math.SafeACos(radius / math.Distance2(centre, p))
	phi := math.AngleOf(centre, p)
	if arriving {
		return math.Offset2(centre, radius, phi+dir.Sign()*beta)
	}
	return math.Offset2(centre, radius, phi-dir.Sign()*beta)
}

// repairTangents replaces the leg between waypoint i's turn and the
// previous one with their common tangent. The previous turn's exit was
// aimed at waypoint i itself rather than at its turn circle. Moving that
// exit doesn't change the previous turn's entrance, so earlier legs are
// unaffected.
func repairTangents(wps []Waypoint, i int) error {
	prev, cur := wps[i-1].Turn, wps[i].Turn
	if prev == nil || cur == nil {
		return nil
	}

	a, b := &prev.Arcs[len(prev.Arcs)-1], &cur.Arcs[0]
	exit, entrance, err := commonTangent(*a, *b)
	if err != nil {
		return fmt.Errorf("waypoints %d and %d: %w", i-1, i, err)
	}
	a.Exit = math.Offset2(a.Centre, a.Radius, exit)
	b.Entrance = math.Offset2(b.Centre, b.Radius, entrance)
	return nil
}

// commonTangent returns the angles about each centre of the line that
// leaves a tangentially and arrives at b tangentially, both in the arcs'
// directions of rotation.
func commonTangent(a, b Arc) (exit, entrance float64, err error) {
	psi := math.AngleOf(a.Centre, b.Centre)
	d := math.Distance2(a.Centre, b.Centre)

	if a.Direction == b.Direction {
		if d == 0 || d <= math.Abs(a.Radius-b.Radius) {
			return 0, 0, ErrCirclesTooClose
		}
		exit, entrance = externalTangent(a, b)
		return exit, entrance, nil
	}

	if d <= a.Radius+b.Radius {
		return 0, 0, ErrCirclesTooClose
	}
	beta := math.SafeACos((a.Radius + b.Radius) / d)
	if a.Direction == math.CounterClockwise {
		beta = -beta
	}
	return psi + beta, psi + beta + gomath.Pi, nil
}

// flattenSpline returns the first waypoint, each turn's entrance, interior
// points and exit (or the waypoint itself when there is no turn), and the
// last waypoint.
func flattenSpline(wps []Waypoint, res float64) []math.Point2 {
	pts := []math.Point2{wps[0].Coords}
	for _, w := range wps[1 : len(wps)-1] {
		if w.Turn == nil {
			pts = append(pts, w.Coords)
			continue
		}
		a := &w.Turn.Arcs[0]
		a.Points = splineArcPoints(*a, res)
		pts = append(pts, a.Entrance)
		pts = append(pts, a.Points...)
		pts = append(pts, a.Exit)
	}
	return append(pts, wps[len(wps)-1].Coords)
}
