// math/angle.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

// All angles here are in radians, measured counterclockwise from the +X
// axis.

// NormalizeAngle returns the equivalent angle in (-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = gomath.Atan2(gomath.Sin(a), gomath.Cos(a))
	if a <= -gomath.Pi {
		a += 2 * gomath.Pi
	}
	return a
}

// AngleOf returns the angle of the vector from one point to another.
func AngleOf(from, to Point2) float64 {
	return gomath.Atan2(to.Y-from.Y, to.X-from.X)
}

// InteriorAngle returns the unsigned angle at b between the rays b->a and
// b->c, computed with the law of cosines. If either arm has zero length,
// the corner is treated as straight and pi is returned.
func InteriorAngle(a, b, c Point2) float64 {
	ab, cb := Distance2(a, b), Distance2(c, b)
	if ab == 0 || cb == 0 {
		return gomath.Pi
	}
	ac := Distance2(a, c)
	return SafeACos((ab*ab + cb*cb - ac*ac) / (2 * ab * cb))
}

// BisectionAngle returns the angle, from b, of the line bisecting the
// smaller (less than pi) of the two angles formed at b by a and c.
func BisectionAngle(a, b, c Point2) float64 {
	ta, tc := AngleOf(b, a), AngleOf(b, c)
	avg := (ta + tc) / 2
	if Abs(ta-tc) > gomath.Pi {
		avg -= gomath.Pi
	}
	return NormalizeAngle(avg)
}

// SweepAngle returns the angle in [0, 2pi) traversed when rotating from
// start to end in the given direction. Rounding noise that would
// otherwise turn a zero sweep into a full circle is snapped to zero.
func SweepAngle(start, end float64, dir Orientation) float64 {
	var d float64
	if dir == Clockwise {
		d = start - end
	} else {
		d = end - start
	}
	d = gomath.Mod(d, 2*gomath.Pi)
	if d < 0 {
		d += 2 * gomath.Pi
	}
	if d > 2*gomath.Pi-1e-9 {
		d = 0
	}
	return d
}
