// math/core.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d / 180 * gomath.Pi
}

// SafeASin and SafeACos clamp their argument to [-1,1] so that values
// that have drifted slightly out of range due to floating-point error
// don't produce NaNs.
func SafeASin(a float64) float64 {
	return gomath.Asin(Clamp(a, -1, 1))
}

func SafeACos(a float64) float64 {
	return gomath.Acos(Clamp(a, -1, 1))
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

func Clamp[T constraints.Ordered](x T, low T, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

// Lerp linearly interpolates x of the way between a and b.
func Lerp(x, a, b float64) float64 {
	return (1-x)*a + x*b
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	s := gomath.Pow(10, float64(places))
	return gomath.Round(v*s) / s
}
