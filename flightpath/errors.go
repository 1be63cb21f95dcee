// flightpath/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCirclesTooClose    = errors.New("Turn circles are too close together to join")
	ErrCollinearTarget    = errors.New("Target lies directly along the plane's bearing")
	ErrInvalidLatitude    = errors.New("Reference latitude must be between -90 and 90 degrees")
	ErrInvalidParameters  = errors.New("Invalid parameters")
	ErrInvalidRadiusRange = errors.New("Maximum turn radius is less than the minimum turn radius")
	ErrNoRasterPoints     = errors.New("Unable to fit a search pattern inside the search area")
	ErrNoSolution         = errors.New("No solution found for turn circle placement")
	ErrParametersMissing  = errors.New("Parameters missing")
	ErrTargetInsideTurn   = errors.New("Target lies inside the turn circle")
	ErrTooFewWaypoints    = errors.New("At least two waypoints are required")
	ErrUnknownKind        = errors.New("Unknown path generation kind")
	ErrWaypointIndex      = errors.New("Waypoint index out of range")
)

// MissingParametersError lists, by their human-readable names, the
// parameters a request needs but does not have.
type MissingParametersError struct {
	Parameters []string
}

func (e *MissingParametersError) Error() string {
	return ErrParametersMissing.Error() + ": " + strings.Join(e.Parameters, ", ")
}

func (e *MissingParametersError) Is(target error) bool {
	return target == ErrParametersMissing
}

// NoSolutionError reports the waypoint for which no turn circle could be
// placed.
type NoSolutionError struct {
	Waypoint int
}

func (e *NoSolutionError) Error() string {
	return fmt.Sprintf("%s at waypoint %d", ErrNoSolution, e.Waypoint)
}

func (e *NoSolutionError) Is(target error) bool {
	return target == ErrNoSolution
}
