// math/vecmat.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

///////////////////////////////////////////////////////////////////////////
// Point2

// Point2 is a position (or vector) in the planar working frame. When the
// frame is geographic, X holds the longitude and Y the latitude, both in
// decimal degrees.
type Point2 struct {
	X, Y float64
}

func (p Point2) String() string {
	return fmt.Sprintf("(%.9f, %.9f)", p.X, p.Y)
}

// Various useful functions for arithmetic with 2D points/vectors.
// Names are brief in order to avoid clutter when they're used.

// a+b
func Add2(a, b Point2) Point2 {
	return Point2{a.X + b.X, a.Y + b.Y}
}

// midpoint of a and b
func Mid2(a, b Point2) Point2 {
	return Scale2(Add2(a, b), 0.5)
}

// a-b
func Sub2(a, b Point2) Point2 {
	return Point2{a.X - b.X, a.Y - b.Y}
}

// a*s
func Scale2(a Point2, s float64) Point2 {
	return Point2{s * a.X, s * a.Y}
}

func Dot(a, b Point2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Length of v
func Length2(v Point2) float64 {
	return gomath.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance between two points
func Distance2(a, b Point2) float64 {
	return Length2(Sub2(a, b))
}

// Unit2 returns the unit vector pointing along the given angle (radians,
// counterclockwise from +X).
func Unit2(angle float64) Point2 {
	s, c := gomath.Sincos(angle)
	return Point2{c, s}
}

// Offset2 returns the point dist away from p along the given angle.
func Offset2(p Point2, dist, angle float64) Point2 {
	return Add2(p, Scale2(Unit2(angle), dist))
}

// Round2 rounds both components of p to the given number of decimal
// places.
func Round2(p Point2, places int) Point2 {
	return Point2{Round(p.X, places), Round(p.Y, places)}
}
