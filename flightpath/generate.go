// flightpath/generate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"fmt"
	"log/slog"

	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/math"
	"github.com/aerosurvey/pathgen/util"
)

// Generate validates the request, converts its metric parameters to the
// working frame and runs the generator for its kind.
func Generate(req Request, lg *log.Logger) (*Result, error) {
	if err := req.Validate(); err != nil {
		lg.Info("rejected request", slog.String("kind", string(req.Kind)), slog.Any("error", err))
		return nil, err
	}
	lg = lg.With(slog.String("kind", string(req.Kind)))

	var pts []math.Point2
	var violations []string
	var stage Stage
	id := 0

	switch req.Kind {
	case KindSearchArea:
		path, err := generateSearchArea(req, lg)
		if err != nil {
			return nil, err
		}
		pts, violations, stage = path.Points, path.Violations, path.Stage

	case KindPointToPoint:
		path, err := generatePointToPoint(req, lg)
		if err != nil {
			return nil, err
		}
		pts, violations, stage = path.Points, path.Violations, path.Stage

	case KindFlyToCircleTarget, KindFlyToTargetPayload:
		path, err := generateFlyToTarget(req, lg)
		if err != nil {
			return nil, err
		}
		pts, violations, stage = path.Points, path.Violations, path.Stage
		if req.Kind == KindFlyToTargetPayload {
			id = CommandNavWaypoint
		}
	}

	lg.Info("generated path", slog.Int("points", len(pts)), slog.Int("violations", len(violations)))
	return &Result{
		Kind:       req.Kind,
		Points:     makeOutputPoints(pts, *req.Altitude, id),
		Violations: violations,
		Stage:      stage,
	}, nil
}

func points(cs []Coordinate) []math.Point2 {
	return util.MapSlice(cs, Coordinate.Point)
}

func generateSearchArea(req Request, lg *log.Logger) (*SearchAreaPath, error) {
	area, err := math.NewPolygon(points(req.SearchArea))
	if err != nil {
		return nil, err
	}
	sc, err := NewScaler(area.Centroid.Y)
	if err != nil {
		return nil, err
	}
	layer, ok := req.LayerDistanceMetres()
	if !ok || !(layer > 0) {
		return nil, fmt.Errorf("%w: unable to determine layer distance", ErrInvalidParameters)
	}

	p := SearchAreaParams{
		Area:            area,
		TurnRadius:      sc.Distance(*req.MinimumTurnRadius),
		LayerDistance:   sc.Distance(layer),
		CurveResolution: sc.Resolution(*req.CurveResolution),
		Orientation:     req.Orientation,
	}
	if req.TakeOffPoint != nil {
		t := req.TakeOffPoint.Point()
		p.TakeOff = &t
	}
	return GenerateSearchArea(p, lg)
}

func generatePointToPoint(req Request, lg *log.Logger) (*SplinePath, error) {
	sc, err := NewScaler(req.Waypoints[0].Lat)
	if err != nil {
		return nil, err
	}

	p := SplineParams{
		Waypoints:       points(req.Waypoints),
		TurnRadius:      sc.Distance(*req.MinimumTurnRadius),
		CurveResolution: sc.Resolution(*req.CurveResolution),
	}
	if len(req.BoundaryPoints) > 0 {
		if p.Boundary, err = math.NewPolygon(points(req.BoundaryPoints)); err != nil {
			return nil, fmt.Errorf("boundary: %w", err)
		}
	}
	if req.BoundaryResolution != nil {
		p.BoundaryResolution = *req.BoundaryResolution
	}
	if req.BoundaryTolerance != nil {
		p.BoundaryTolerance = sc.Distance(*req.BoundaryTolerance)
	}
	return GenerateSpline(p, lg)
}

func generateFlyToTarget(req Request, lg *log.Logger) (*TargetPath, error) {
	sc, err := NewScaler(req.PlaneLocation.Lat)
	if err != nil {
		return nil, err
	}

	p := TargetParams{
		Plane:           req.PlaneLocation.Point(),
		Target:          req.TargetLocation.Point(),
		ExistingPath:    points(req.ExistingPath),
		TurnRadius:      sc.Distance(*req.MinimumTurnRadius),
		CurveResolution: sc.Resolution(*req.CurveResolution),
		TimesToCircle:   1,
	}
	if req.PlaneBearing != nil {
		h := BearingToAngle(*req.PlaneBearing)
		p.Heading = &h
	}
	if req.MinimumDistanceToStart != nil {
		p.MinimumDistance = sc.Distance(*req.MinimumDistanceToStart)
	}
	if req.TimesToCircle != nil {
		p.TimesToCircle = *req.TimesToCircle
	}

	if req.Kind == KindFlyToTargetPayload {
		return GeneratePayloadApproach(p, lg)
	}
	p.TargetRadius = sc.Distance(*req.TargetCircleRadius)
	return GenerateCircleTarget(p, lg)
}
