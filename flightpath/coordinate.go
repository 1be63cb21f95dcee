// flightpath/coordinate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"fmt"
	gomath "math"

	"github.com/aerosurvey/pathgen/math"
)

// Coordinate is a geographic position in decimal degrees. Generators work
// on math.Point2 values with X=longitude and Y=latitude; Coordinates are
// only used at the request and result boundary.
type Coordinate struct {
	Long float64 `json:"long" yaml:"long" msgpack:"long"`
	Lat  float64 `json:"lat" yaml:"lat" msgpack:"lat"`
}

func (c Coordinate) Point() math.Point2 {
	return math.Point2{X: c.Long, Y: c.Lat}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.7f,%.7f", c.Lat, c.Long)
}

// MetresPerDegree is the length of one degree of latitude.
const MetresPerDegree = 111320

// Scaler converts metric request parameters into the degree-valued
// working frame used for path generation.
type Scaler struct {
	MetresPerDegree float64
}

// NewScaler returns the Scaler for the given reference latitude, using
// MetresPerDegree / cos(latitude) metres per working-frame unit.
func NewScaler(refLat float64) (Scaler, error) {
	if !(refLat > -90 && refLat < 90) {
		return Scaler{}, ErrInvalidLatitude
	}
	return Scaler{MetresPerDegree: MetresPerDegree / gomath.Cos(math.Radians(refLat))}, nil
}

// Distance converts a distance in metres to working-frame units.
func (s Scaler) Distance(m float64) float64 {
	return m / s.MetresPerDegree
}

// Metres converts a working-frame distance back to metres.
func (s Scaler) Metres(d float64) float64 {
	return d * s.MetresPerDegree
}

// Resolution converts a curve resolution in points per metre to points
// per working-frame unit.
func (s Scaler) Resolution(perMetre float64) float64 {
	return perMetre * s.MetresPerDegree
}
