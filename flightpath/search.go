// flightpath/search.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"fmt"
	"log/slog"
	gomath "math"
	"slices"

	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/math"
)

// maxRasterSteps bounds the raster walk in each direction.
const maxRasterSteps = 100

// SearchAreaParams describes a search-area survey in the working frame.
type SearchAreaParams struct {
	Area *math.Polygon
	// TakeOff, if non-nil, is where the vehicle starts; the path is
	// ordered to begin at the end nearest to it and a connecting arc is
	// added.
	TakeOff         *math.Point2
	TurnRadius      float64
	LayerDistance   float64
	CurveResolution float64
	// Orientation is the angle of the sweep axis; if nil, the direction of
	// the area's longest edge is used.
	Orientation *float64
}

// SearchAreaPath is a generated search-area survey.
type SearchAreaPath struct {
	Orientation float64
	Shape       TurnShape
	// Rough holds the raster corner points before turns are added.
	Rough     []math.Point2
	Waypoints []Waypoint
	// Connector holds the take-off point and the arc from it onto the
	// survey; Points begins with it.
	Connector  []math.Point2
	Points     []math.Point2
	Violations []string
	Stage      Stage
}

// GenerateSearchArea covers the area with parallel passes LayerDistance
// apart joined by turns no tighter than TurnRadius.
func GenerateSearchArea(p SearchAreaParams, lg *log.Logger) (*SearchAreaPath, error) {
	pr := progress{lg: lg}
	pr.advance(StageInitialized)

	if p.Area == nil {
		return nil, fmt.Errorf("%w: no search area", ErrInvalidParameters)
	}
	if p.TurnRadius <= 0 || p.LayerDistance <= 0 || p.CurveResolution <= 0 {
		return nil, fmt.Errorf("%w: turn radius, layer distance and curve resolution must be positive",
			ErrInvalidParameters)
	}
	pr.advance(StageParametersValidated)

	path := &SearchAreaPath{
		Orientation: sweepOrientation(p.Area, p.Orientation),
		Shape:       classifyTurnShape(p.TurnRadius, p.LayerDistance),
	}

	path.Rough = rasterPoints(p.Area, p.TakeOff, path.Orientation, p.LayerDistance)
	if len(path.Rough) < 2 {
		return nil, ErrNoRasterPoints
	}
	pr.advance(StageRoughPointsGenerated, slog.Int("points", len(path.Rough)),
		slog.Float64("orientation", path.Orientation))

	path.Waypoints = classifyTurnDirections(path.Rough, path.Orientation)
	pr.advance(StageTurnsClassified, slog.String("shape", path.Shape.String()))

	createSearchTurns(path.Waypoints, path.Orientation, path.Shape, p.TurnRadius, p.LayerDistance, p.CurveResolution)
	pr.advance(StageTurnsInterpolated)

	path.Points = flattenSearchPath(path.Waypoints)
	if p.TakeOff != nil {
		path.Connector = takeOffConnector(*p.TakeOff, path.Waypoints, p.TurnRadius, p.CurveResolution, lg)
		path.Points = append(slices.Clone(path.Connector), path.Points...)
	}

	path.Violations = checkSearchPath(p.Area, path.Rough, path.Points)
	path.Stage = pr.finish(path.Violations)

	return path, nil
}

// sweepOrientation returns the sweep axis angle expressed in (-pi, 0].
func sweepOrientation(area *math.Polygon, o *float64) float64 {
	var a float64
	if o != nil {
		a = *o
	} else {
		a = area.LongestEdgeAngle()
	}
	a = math.NormalizeAngle(a)
	if a > 0 {
		a -= gomath.Pi
	}
	return a
}

// onSweepAxis reports whether the line through a and b runs along the
// sweep axis in either direction.
func onSweepAxis(a, b math.Point2, orientation float64) bool {
	const tolerance = 1e-8
	d := math.NormalizeAngle(math.AngleOf(b, a) - orientation)
	return math.Abs(d) < tolerance || math.Abs(d) > gomath.Pi-tolerance
}

///////////////////////////////////////////////////////////////////////////
// Raster

// rasterPoints walks outward from the area's centroid in both directions
// along the sweep axis and returns the corner points of the resulting
// boustrophedon, ordered to start at the end nearest the take-off point.
func rasterPoints(area *math.Polygon, takeOff *math.Point2, orientation, layer float64) []math.Point2 {
	fwd := rasterWalk(area, area.Centroid, orientation, layer)
	bwd := rasterWalk(area, area.Centroid, orientation+gomath.Pi, layer)

	// Drop the shared starting point from both walks.
	fwd, bwd = fwd[1:], bwd[1:]
	slices.Reverse(bwd)
	pts := append(bwd, fwd...)

	if takeOff != nil && len(pts) > 1 &&
		math.Distance2(*takeOff, pts[len(pts)-1]) < math.Distance2(*takeOff, pts[0]) {
		slices.Reverse(pts)
	}
	return pts
}

// rasterWalk produces corner points by cycling through four moves: along
// the axis to the far boundary, one layer sideways, back along the axis,
// and one layer sideways again. Sideways moves are always to the right of
// the axis. The walk stops when a move fails.
func rasterWalk(area *math.Polygon, start math.Point2, axis, layer float64) []math.Point2 {
	pts := []math.Point2{start}
	side := axis - gomath.Pi/2

	for i := 0; i < maxRasterSteps; i++ {
		last := pts[len(pts)-1]

		var next math.Point2
		var ok bool
		switch i % 4 {
		case 0:
			next, ok = rasterAdvance(area, last, axis, layer)
		case 1:
			next, ok = rasterSideStep(area, last, side, axis, layer)
		case 2:
			next, ok = rasterAdvance(area, last, axis+gomath.Pi, layer)
		case 3:
			next, ok = rasterSideStep(area, last, side, axis+gomath.Pi, layer)
		}
		if !ok {
			break
		}
		if next != last {
			pts = append(pts, next)
		}
	}
	return pts
}

// rasterAdvance moves from p along angle to one layer short of the
// boundary. It fails if that doesn't make progress.
func rasterAdvance(area *math.Polygon, p math.Point2, angle, layer float64) (math.Point2, bool) {
	hit, ok := area.Raycast(p, angle)
	if !ok {
		return math.Point2{}, false
	}
	next := math.Offset2(hit, layer, angle+gomath.Pi)
	if math.Dot(math.Sub2(next, p), math.Unit2(angle)) <= 0 {
		return math.Point2{}, false
	}
	return next, true
}

// rasterSideStep moves one layer from p toward side, then runs along
// angle to one layer short of the boundary. The result must be inside
// the area.
func rasterSideStep(area *math.Polygon, p math.Point2, side, angle, layer float64) (math.Point2, bool) {
	q := math.Offset2(p, layer, side)

	hit, ok := area.Raycast(q, angle)
	if !ok {
		if hit, ok = area.Raycast(q, angle+gomath.Pi); !ok {
			return math.Point2{}, false
		}
	}

	next := math.Offset2(hit, layer, angle+gomath.Pi)
	if !area.Contains(next) {
		return math.Point2{}, false
	}
	return next, true
}

///////////////////////////////////////////////////////////////////////////
// Turns

// classifyTurnDirections wraps the rough points in waypoints and records
// which way the path turns at each. An endpoint takes its neighbor's
// direction unless the two are on the same pass.
func classifyTurnDirections(rough []math.Point2, orientation float64) []Waypoint {
	wps := makeWaypoints(rough)
	n := len(wps)
	for i := 1; i+1 < n; i++ {
		wps[i].Direction = math.OrientationOf(rough[i-1], rough[i], rough[i+1])
	}

	if n >= 3 {
		if !onSweepAxis(rough[0], rough[1], orientation) {
			wps[0].Direction = wps[1].Direction
		}
		if !onSweepAxis(rough[n-1], rough[n-2], orientation) {
			wps[n-1].Direction = wps[n-2].Direction
		}
	}
	return wps
}

// createSearchTurns adds a turn for each pair of waypoints that joins
// two passes. Pairs start at the first waypoint unless the path begins
// with a pass, and likewise at the end.
func createSearchTurns(wps []Waypoint, orientation float64, shape TurnShape, radius, layer, res float64) {
	n := len(wps)
	first, last := 0, n-1
	if onSweepAxis(wps[0].Coords, wps[1].Coords, orientation) {
		first = 1
	}
	if onSweepAxis(wps[n-1].Coords, wps[n-2].Coords, orientation) {
		last = n - 2
	}

	for i := first; i+1 <= last; i += 2 {
		cur, next := &wps[i], &wps[i+1]
		dir := cur.Direction
		if dir == math.Collinear {
			continue
		}
		heading := approachHeading(cur.Coords, next.Coords, orientation, dir)

		switch shape {
		case DoubleCircleTurn:
			cur.Turn, next.Turn = doubleCircleTurn(cur.Coords, next.Coords, heading, dir, radius, res)
		case CircleTurn:
			cur.Turn = circleTurn(cur.Coords, next.Coords, heading, dir, res)
		case LightbulbTurn:
			cur.Turn = lightbulbTurn(cur.Coords, next.Coords, heading, dir, radius, layer, res)
		}
	}

	// The vehicle starts at the first waypoint and doesn't need to turn
	// onto it.
	if shape == DoubleCircleTurn {
		wps[0].Turn = nil
	}
}

// approachHeading returns the direction of travel along the pass that
// ends at cur, given that the path turns toward next in direction dir.
func approachHeading(cur, next math.Point2, orientation float64, dir math.Orientation) float64 {
	left := math.Dot(math.Sub2(next, cur), math.Unit2(orientation+gomath.Pi/2)) > 0
	if left == (dir == math.Clockwise) {
		return math.NormalizeAngle(orientation + gomath.Pi)
	}
	return orientation
}

// extendToSameDepth moves whichever of a and b lags behind along heading
// forward so that both are equally far along it.
func extendToSameDepth(a, b math.Point2, heading float64) (math.Point2, math.Point2) {
	u := math.Unit2(heading)
	if d := math.Dot(math.Sub2(b, a), u); d < 0 {
		b = math.Add2(b, math.Scale2(u, -d))
	} else {
		a = math.Add2(a, math.Scale2(u, d))
	}
	return a, b
}

// cornerCircle returns the circle of the given radius tangent to both
// legs of the corner at b.
func cornerCircle(a, b, c math.Point2, radius float64, dir math.Orientation) Arc {
	theta := math.InteriorAngle(a, b, c)
	centre := math.Offset2(b, radius/gomath.Sin(theta/2), math.BisectionAngle(a, b, c))

	toCorner := math.AngleOf(centre, b)
	off := (gomath.Pi - theta) / 2
	if dir == math.Clockwise {
		off = -off
	}
	return Arc{
		Centre:    centre,
		Radius:    radius,
		Entrance:  math.Offset2(centre, radius, toCorner-off),
		Exit:      math.Offset2(centre, radius, toCorner+off),
		Direction: dir,
	}
}

// doubleCircleTurn returns tangent circles at both corners of a turn
// between widely spaced passes.
func doubleCircleTurn(cur, next math.Point2, heading float64, dir math.Orientation, radius, res float64) (*Turn, *Turn) {
	back := heading + gomath.Pi
	prev := math.Offset2(cur, 1, back)
	nextNext := math.Offset2(next, 1, back)

	a0 := cornerCircle(prev, cur, next, radius, dir)
	a0.Points = arcPoints(a0, res)
	a1 := cornerCircle(cur, next, nextNext, radius, dir)
	a1.Points = arcPoints(a1, res)

	return &Turn{Shape: DoubleCircleTurn, Arcs: []Arc{a0}},
		&Turn{Shape: DoubleCircleTurn, Arcs: []Arc{a1}}
}

// circleTurn returns the half circle joining the ends of two passes.
func circleTurn(cur, next math.Point2, heading float64, dir math.Orientation, res float64) *Turn {
	e0, e1 := extendToSameDepth(cur, next, heading)
	centre := math.Mid2(e0, e1)
	a := Arc{
		Centre:    centre,
		Radius:    math.Distance2(centre, e0),
		Entrance:  e0,
		Exit:      e1,
		Direction: dir,
	}
	a.Points = arcPoints(a, res)
	return &Turn{Shape: CircleTurn, Arcs: []Arc{a}}
}

// lightbulbTurn returns the three arcs that join two passes closer than
// twice the turn radius: out away from the next pass, around through
// the middle circle, and back in.
func lightbulbTurn(cur, next math.Point2, heading float64, dir math.Orientation, radius, layer, res float64) *Turn {
	e0, e1 := extendToSameDepth(cur, next, heading)

	outward := gomath.Pi / 2
	if dir == math.CounterClockwise {
		outward = -outward
	}
	c0 := math.Offset2(e0, radius, heading+outward)
	c2 := math.Offset2(e1, radius, heading-outward)
	h := gomath.Sqrt(max(0, 4*radius*radius-math.Sqr(radius+layer/2)))
	c1 := math.Offset2(math.Mid2(e0, e1), h, heading)

	a01, a21 := math.AngleOf(c0, c1), math.AngleOf(c2, c1)
	t := &Turn{
		Shape: LightbulbTurn,
		Arcs: []Arc{
			{
				Centre:    c0,
				Radius:    radius,
				Entrance:  math.Offset2(c0, radius, math.AngleOf(c0, e0)),
				Exit:      math.Offset2(c0, radius, a01),
				Direction: dir.Opposite(),
			},
			{
				Centre:    c1,
				Radius:    radius,
				Entrance:  math.Offset2(c1, radius, a01+gomath.Pi),
				Exit:      math.Offset2(c1, radius, a21+gomath.Pi),
				Direction: dir,
			},
			{
				Centre:    c2,
				Radius:    radius,
				Entrance:  math.Offset2(c2, radius, a21),
				Exit:      math.Offset2(c2, radius, math.AngleOf(c2, e1)),
				Direction: dir.Opposite(),
			},
		},
	}
	lightbulbPoints(t, radius, res)
	return t
}

// flattenSearchPath returns the first waypoint, every turn's points and
// the last waypoint, skipping the end waypoints when a turn starts or
// finishes exactly on them.
func flattenSearchPath(wps []Waypoint) []math.Point2 {
	var curve []math.Point2
	for _, w := range wps {
		if w.Turn != nil {
			curve = append(curve, w.Turn.Points()...)
		}
	}

	first, last := wps[0].Coords, wps[len(wps)-1].Coords
	var pts []math.Point2
	if len(curve) == 0 || curve[0] != first {
		pts = append(pts, first)
	}
	pts = append(pts, curve...)
	if pts[len(pts)-1] != last {
		pts = append(pts, last)
	}
	return pts
}

// takeOffConnector returns the take-off point followed by the arc that
// brings the vehicle onto the survey's first point heading the way the
// first turn expects. It returns nil if the survey has no turns or no
// tangent from the take-off point exists.
func takeOffConnector(takeOff math.Point2, wps []Waypoint, radius, res float64, lg *log.Logger) []math.Point2 {
	idx := 0
	if wps[0].Turn == nil {
		idx = 1
	}
	if idx >= len(wps) || wps[idx].Turn == nil {
		return nil
	}

	first := wps[idx].Turn.Arcs[0]
	heading := first.TangentAt(first.Entrance)

	pts, ok := pathOnto(takeOff, wps[0].Coords, heading, radius, res)
	if !ok {
		lg.Warn("take-off point is too close to the survey start for a connecting turn",
			slog.String("take_off", takeOff.String()))
		return nil
	}
	return pts
}

// pathOnto returns start followed by the points of the arc of the given
// radius that ends at end travelling along heading and whose tangent
// passes through start. end itself is not included.
func pathOnto(start, end math.Point2, heading, radius, res float64) ([]math.Point2, bool) {
	behind := math.Offset2(end, 1, heading+gomath.Pi)
	dir := math.OrientationOf(start, behind, end)
	if dir != math.Clockwise {
		dir = math.CounterClockwise
	}
	centre := math.Offset2(end, radius, heading+dir.Sign()*gomath.Pi/2)

	d := math.Distance2(start, centre)
	if d == 0 || radius/d > 1 {
		return nil, false
	}
	beta := math.SafeACos(radius / d)
	entrance := math.AngleOf(centre, start) + dir.Sign()*beta

	a := Arc{
		Centre:    centre,
		Radius:    radius,
		Entrance:  math.Offset2(centre, radius, entrance),
		Exit:      end,
		Direction: dir,
	}
	pts := []math.Point2{start}
	for _, p := range approachPoints(a, res) {
		if p != pts[len(pts)-1] {
			pts = append(pts, p)
		}
	}
	return pts, true
}
