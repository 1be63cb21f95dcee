// server/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"errors"
	"net/http"

	"github.com/aerosurvey/pathgen/flightpath"
	"github.com/aerosurvey/pathgen/math"
)

var (
	ErrBadRequestBody   = errors.New("Unable to decode request body")
	ErrEmptyBatch       = errors.New("Batch contains no requests")
	ErrMethodNotAllowed = errors.New("Method not allowed")
	ErrNoListenPort     = errors.New("Unable to find a free port to listen on")
	ErrProfileSave      = errors.New("Unable to save parameter profile")
)

// Errors cross the wire as strings; this maps them back to the values
// callers can test for with errors.Is.
var errorStringToError = map[string]error{
	flightpath.ErrCirclesTooClose.Error():    flightpath.ErrCirclesTooClose,
	flightpath.ErrCollinearTarget.Error():    flightpath.ErrCollinearTarget,
	flightpath.ErrInvalidLatitude.Error():    flightpath.ErrInvalidLatitude,
	flightpath.ErrInvalidParameters.Error():  flightpath.ErrInvalidParameters,
	flightpath.ErrInvalidRadiusRange.Error(): flightpath.ErrInvalidRadiusRange,
	flightpath.ErrNoRasterPoints.Error():     flightpath.ErrNoRasterPoints,
	flightpath.ErrNoSolution.Error():         flightpath.ErrNoSolution,
	flightpath.ErrParametersMissing.Error():  flightpath.ErrParametersMissing,
	flightpath.ErrTargetInsideTurn.Error():   flightpath.ErrTargetInsideTurn,
	flightpath.ErrTooFewWaypoints.Error():    flightpath.ErrTooFewWaypoints,
	flightpath.ErrUnknownKind.Error():        flightpath.ErrUnknownKind,
	flightpath.ErrWaypointIndex.Error():      flightpath.ErrWaypointIndex,

	math.ErrDegeneratePolygon.Error(): math.ErrDegeneratePolygon,

	ErrBadRequestBody.Error():   ErrBadRequestBody,
	ErrEmptyBatch.Error():       ErrEmptyBatch,
	ErrMethodNotAllowed.Error(): ErrMethodNotAllowed,
	ErrNoListenPort.Error():     ErrNoListenPort,
	ErrProfileSave.Error():      ErrProfileSave,
}

func TryDecodeErrorString(s string) error {
	if err, ok := errorStringToError[s]; ok {
		return err
	}
	return nil
}

// rootError returns the registered error that err wraps, if any.
func rootError(err error) error {
	for _, known := range errorStringToError {
		if errors.Is(err, known) {
			return known
		}
	}
	return err
}

// statusForError returns the HTTP status for a failed request. Anything
// not attributable to the request's contents is geometric infeasibility.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrBadRequestBody), errors.Is(err, ErrEmptyBatch),
		errors.Is(err, flightpath.ErrParametersMissing), errors.Is(err, flightpath.ErrInvalidParameters),
		errors.Is(err, flightpath.ErrUnknownKind), errors.Is(err, flightpath.ErrInvalidLatitude),
		errors.Is(err, flightpath.ErrWaypointIndex), errors.Is(err, math.ErrDegeneratePolygon):
		return http.StatusBadRequest
	case errors.Is(err, ErrProfileSave):
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}
