// flightpath/request.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"fmt"
	"slices"

	"github.com/aerosurvey/pathgen/util"

	"github.com/brunoga/deep"
)

type Kind string

const (
	KindSearchArea         Kind = "search_area"
	KindPointToPoint       Kind = "point_to_point"
	KindFlyToCircleTarget  Kind = "fly_to_circle_target"
	KindFlyToTargetPayload Kind = "fly_to_target_payload"
)

// SensorSize is the camera sensor size in millimetres.
type SensorSize struct {
	Width  float64 `json:"width" yaml:"width" msgpack:"width"`
	Height float64 `json:"height" yaml:"height" msgpack:"height"`
}

// Request is a path generation request. Distances are in metres, angles
// in radians except for PlaneBearing, which is in degrees. Unset optional
// values are nil so that they can be filled in from a profile.
type Request struct {
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty" msgpack:"kind,omitempty"`

	Altitude          *float64    `json:"altitude,omitempty" yaml:"altitude,omitempty" msgpack:"altitude,omitempty"`
	MinimumTurnRadius *float64    `json:"minimum_turn_radius,omitempty" yaml:"minimum_turn_radius,omitempty" msgpack:"minimum_turn_radius,omitempty"`
	MaximumTurnRadius *float64    `json:"maximum_turn_radius,omitempty" yaml:"maximum_turn_radius,omitempty" msgpack:"maximum_turn_radius,omitempty"`
	CurveResolution   *float64    `json:"curve_resolution,omitempty" yaml:"curve_resolution,omitempty" msgpack:"curve_resolution,omitempty"`
	TakeOffPoint      *Coordinate `json:"take_off_point,omitempty" yaml:"take_off_point,omitempty" msgpack:"take_off_point,omitempty"`

	// Search area
	SearchArea    []Coordinate `json:"search_area,omitempty" yaml:"search_area,omitempty" msgpack:"search_area,omitempty"`
	SensorSize    *SensorSize  `json:"sensor_size,omitempty" yaml:"sensor_size,omitempty" msgpack:"sensor_size,omitempty"`
	FocalLength   *float64     `json:"focal_length,omitempty" yaml:"focal_length,omitempty" msgpack:"focal_length,omitempty"`
	PaintOverlap  *float64     `json:"paint_overlap,omitempty" yaml:"paint_overlap,omitempty" msgpack:"paint_overlap,omitempty"`
	PaintRadius   *float64     `json:"paint_radius,omitempty" yaml:"paint_radius,omitempty" msgpack:"paint_radius,omitempty"`
	LayerDistance *float64     `json:"layer_distance,omitempty" yaml:"layer_distance,omitempty" msgpack:"layer_distance,omitempty"`
	Orientation   *float64     `json:"orientation,omitempty" yaml:"orientation,omitempty" msgpack:"orientation,omitempty"`

	// Point to point
	Waypoints          []Coordinate `json:"waypoints,omitempty" yaml:"waypoints,omitempty" msgpack:"waypoints,omitempty"`
	BoundaryPoints     []Coordinate `json:"boundary_points,omitempty" yaml:"boundary_points,omitempty" msgpack:"boundary_points,omitempty"`
	BoundaryResolution *int         `json:"boundary_resolution,omitempty" yaml:"boundary_resolution,omitempty" msgpack:"boundary_resolution,omitempty"`
	BoundaryTolerance  *float64     `json:"boundary_tolerance,omitempty" yaml:"boundary_tolerance,omitempty" msgpack:"boundary_tolerance,omitempty"`

	// Fly to target
	PlaneLocation          *Coordinate  `json:"plane_location,omitempty" yaml:"plane_location,omitempty" msgpack:"plane_location,omitempty"`
	PlaneBearing           *float64     `json:"plane_bearing,omitempty" yaml:"plane_bearing,omitempty" msgpack:"plane_bearing,omitempty"`
	TargetLocation         *Coordinate  `json:"target_location,omitempty" yaml:"target_location,omitempty" msgpack:"target_location,omitempty"`
	TargetCircleRadius     *float64     `json:"target_circle_radius,omitempty" yaml:"target_circle_radius,omitempty" msgpack:"target_circle_radius,omitempty"`
	MinimumDistanceToStart *float64     `json:"minimum_distance_to_start,omitempty" yaml:"minimum_distance_to_start,omitempty" msgpack:"minimum_distance_to_start,omitempty"`
	TimesToCircle          *float64     `json:"times_to_circle,omitempty" yaml:"times_to_circle,omitempty" msgpack:"times_to_circle,omitempty"`
	ExistingPath           []Coordinate `json:"existing_path,omitempty" yaml:"existing_path,omitempty" msgpack:"existing_path,omitempty"`
}

// Validate checks that the request has everything its kind needs. Missing
// parameters are reported together as a *MissingParametersError; values
// that are present but unusable are wrapped in ErrInvalidParameters.
func (r *Request) Validate() error {
	var missing []string
	need := func(have bool, name string) {
		if !have {
			missing = append(missing, name)
		}
	}

	switch r.Kind {
	case KindSearchArea:
		need(len(r.SearchArea) > 0, "Search area")
		need(r.Altitude != nil, "Altitude")
		need(r.MinimumTurnRadius != nil, "Turn radius")
		need(r.CurveResolution != nil, "Curve resolution")
		if r.LayerDistance == nil && r.PaintRadius == nil {
			need(r.SensorSize != nil, "Sensor size")
			need(r.FocalLength != nil, "Focal length")
		}

	case KindPointToPoint:
		need(len(r.Waypoints) > 0, "Waypoints")
		need(r.MinimumTurnRadius != nil, "Turn radius")
		need(r.CurveResolution != nil, "Curve resolution")
		need(r.Altitude != nil, "Altitude")

	case KindFlyToCircleTarget, KindFlyToTargetPayload:
		need(r.PlaneLocation != nil, "Plane coordinates")
		need(r.PlaneBearing != nil || len(r.ExistingPath) > 0, "Plane bearing")
		need(r.TargetLocation != nil, "Target coordinates")
		need(r.MinimumTurnRadius != nil, "Turn radius")
		if r.Kind == KindFlyToCircleTarget {
			need(r.TargetCircleRadius != nil, "Target circle radius")
		}
		need(r.CurveResolution != nil, "Curve resolution")
		need(r.Altitude != nil, "Altitude")

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}

	if len(missing) > 0 {
		return &MissingParametersError{Parameters: missing}
	}

	var e util.ErrorLogger
	r.checkValues(&e)
	if e.HaveErrors() {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, e.String())
	}
	return nil
}

func (r *Request) checkValues(e *util.ErrorLogger) {
	e.Push(string(r.Kind))
	defer e.Pop()

	positive := func(v *float64, name string) {
		if v != nil && !(*v > 0) {
			e.ErrorString("%s must be positive, got %g", name, *v)
		}
	}
	nonNegative := func(v *float64, name string) {
		if v != nil && !(*v >= 0) {
			e.ErrorString("%s must not be negative, got %g", name, *v)
		}
	}

	positive(r.MinimumTurnRadius, "minimum_turn_radius")
	positive(r.MaximumTurnRadius, "maximum_turn_radius")
	positive(r.CurveResolution, "curve_resolution")
	nonNegative(r.Altitude, "altitude")
	if r.MinimumTurnRadius != nil && r.MaximumTurnRadius != nil && *r.MaximumTurnRadius < *r.MinimumTurnRadius {
		e.Error(ErrInvalidRadiusRange)
	}

	switch r.Kind {
	case KindSearchArea:
		positive(r.LayerDistance, "layer_distance")
		positive(r.PaintRadius, "paint_radius")
		positive(r.FocalLength, "focal_length")
		if r.SensorSize != nil && !(r.SensorSize.Height > 0) {
			e.ErrorString("sensor_size height must be positive, got %g", r.SensorSize.Height)
		}
		if r.PaintOverlap != nil && !(*r.PaintOverlap >= 0 && *r.PaintOverlap < 1) {
			e.ErrorString("paint_overlap must be in [0, 1), got %g", *r.PaintOverlap)
		}

	case KindPointToPoint:
		if r.BoundaryResolution != nil && *r.BoundaryResolution <= 0 {
			e.ErrorString("boundary_resolution must be positive, got %d", *r.BoundaryResolution)
		}
		nonNegative(r.BoundaryTolerance, "boundary_tolerance")

	case KindFlyToCircleTarget, KindFlyToTargetPayload:
		positive(r.TargetCircleRadius, "target_circle_radius")
		nonNegative(r.MinimumDistanceToStart, "minimum_distance_to_start")
		positive(r.TimesToCircle, "times_to_circle")
	}
}

// LayerDistanceMetres returns the spacing between search passes: the
// explicit layer distance if given, otherwise the sensor's viewing radius
// (or the explicit paint radius) reduced by the overlap fraction.
func (r *Request) LayerDistanceMetres() (float64, bool) {
	if r.LayerDistance != nil {
		return *r.LayerDistance, true
	}

	var viewing float64
	switch {
	case r.PaintRadius != nil:
		viewing = *r.PaintRadius
	case r.SensorSize != nil && r.FocalLength != nil && r.Altitude != nil && *r.FocalLength > 0:
		// The tangent of half the field of view.
		viewing = *r.Altitude * r.SensorSize.Height / (2 * *r.FocalLength)
	default:
		return 0, false
	}

	var overlap float64
	if r.PaintOverlap != nil {
		overlap = *r.PaintOverlap
	}
	return viewing * (1 - overlap), true
}

// Merge returns a copy of the request with every unset field taken from
// defaults. Neither argument is modified and the result shares no memory
// with them.
func (r Request) Merge(defaults Request) Request {
	m := deep.MustCopy(r)
	d := deep.MustCopy(defaults)

	if m.Kind == "" {
		m.Kind = d.Kind
	}
	fill(&m.Altitude, d.Altitude)
	fill(&m.MinimumTurnRadius, d.MinimumTurnRadius)
	fill(&m.MaximumTurnRadius, d.MaximumTurnRadius)
	fill(&m.CurveResolution, d.CurveResolution)
	fill(&m.TakeOffPoint, d.TakeOffPoint)

	fillSlice(&m.SearchArea, d.SearchArea)
	fill(&m.SensorSize, d.SensorSize)
	fill(&m.FocalLength, d.FocalLength)
	fill(&m.PaintOverlap, d.PaintOverlap)
	fill(&m.PaintRadius, d.PaintRadius)
	fill(&m.LayerDistance, d.LayerDistance)
	fill(&m.Orientation, d.Orientation)

	fillSlice(&m.Waypoints, d.Waypoints)
	fillSlice(&m.BoundaryPoints, d.BoundaryPoints)
	fill(&m.BoundaryResolution, d.BoundaryResolution)
	fill(&m.BoundaryTolerance, d.BoundaryTolerance)

	fill(&m.PlaneLocation, d.PlaneLocation)
	fill(&m.PlaneBearing, d.PlaneBearing)
	fill(&m.TargetLocation, d.TargetLocation)
	fill(&m.TargetCircleRadius, d.TargetCircleRadius)
	fill(&m.MinimumDistanceToStart, d.MinimumDistanceToStart)
	fill(&m.TimesToCircle, d.TimesToCircle)
	fillSlice(&m.ExistingPath, d.ExistingPath)

	return m
}

func fill[T any](dst **T, src *T) {
	if *dst == nil {
		*dst = src
	}
}

func fillSlice[T any](dst *[]T, src []T) {
	if len(*dst) == 0 {
		*dst = src
	}
}

///////////////////////////////////////////////////////////////////////////
// Waypoint editing

// AddWaypoint inserts c before the waypoint at index; index may equal the
// number of waypoints to append.
func (r *Request) AddWaypoint(index int, c Coordinate) error {
	if index < 0 || index > len(r.Waypoints) {
		return fmt.Errorf("%w: %d", ErrWaypointIndex, index)
	}
	r.Waypoints = slices.Insert(r.Waypoints, index, c)
	return nil
}

func (r *Request) RemoveWaypoint(index int) error {
	if index < 0 || index >= len(r.Waypoints) {
		return fmt.Errorf("%w: %d", ErrWaypointIndex, index)
	}
	r.Waypoints = slices.Delete(r.Waypoints, index, index+1)
	return nil
}

// ReorderWaypoint moves the waypoint at second so that it is at first, or
// exchanges the two if swap is set.
func (r *Request) ReorderWaypoint(first, second int, swap bool) error {
	for _, i := range []int{first, second} {
		if i < 0 || i >= len(r.Waypoints) {
			return fmt.Errorf("%w: %d", ErrWaypointIndex, i)
		}
	}

	if swap {
		r.Waypoints[first], r.Waypoints[second] = r.Waypoints[second], r.Waypoints[first]
	} else {
		w := r.Waypoints[second]
		r.Waypoints = slices.Insert(slices.Delete(r.Waypoints, second, second+1), first, w)
	}
	return nil
}
