// flightpath/interpolate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	gomath "math"

	"github.com/aerosurvey/pathgen/math"
)

// Curve resolutions are in points per unit of arc length in the working
// frame.

// Arcs sweeping less than this many radians are flown as a single point.
const minArcSweep = 1e-9

// arcPoints returns evenly spaced points along the arc from its entrance
// to its exit inclusive, using 1+ceil(length*res) intervals. A negligible
// arc gives just its entrance.
func arcPoints(a Arc, res float64) []math.Point2 {
	sweep := a.Sweep()
	if sweep < minArcSweep {
		return []math.Point2{a.Entrance}
	}
	n := 1 + int(gomath.Ceil(sweep*a.Radius*res))
	step := sweep / float64(n)

	pts := make([]math.Point2, 0, n+1)
	pts = append(pts, a.Entrance)
	for i := 1; i < n; i++ {
		pts = append(pts, a.At(step*float64(i)))
	}
	return append(pts, a.Exit)
}

// lightbulbPoints interpolates the three arcs of a lightbulb turn with a
// single angular step shared across all of them; the angle left over at
// the end of one arc carries into the next so that spacing stays even
// across the joins.
func lightbulbPoints(t *Turn, radius, res float64) {
	var total float64
	for _, a := range t.Arcs {
		total += a.Sweep()
	}
	n := max(1, gomath.Ceil(radius*total*res))
	step := total / n

	var offset float64
	for i := range t.Arcs {
		a := &t.Arcs[i]
		sweep := a.Sweep()
		a.Points = nil
		for ; offset <= sweep; offset += step {
			a.Points = append(a.Points, a.At(offset))
		}
		offset -= sweep
	}
}

// splineArcPoints returns the interior points of the arc, split into
// ceil(length*res) intervals; the entrance and exit are emitted
// separately.
func splineArcPoints(a Arc, res float64) []math.Point2 {
	sweep := a.Sweep()
	if sweep == 0 {
		return nil
	}
	n := int(gomath.Ceil(sweep * a.Radius * res))

	var pts []math.Point2
	step := sweep / float64(n)
	for i := 1; i < n; i++ {
		pts = append(pts, a.At(step*float64(i)))
	}
	return pts
}

// approachPoints returns points along the arc from its entrance up to
// but not including its exit, with the same spacing as arcPoints.
func approachPoints(a Arc, res float64) []math.Point2 {
	pts := arcPoints(a, res)
	return pts[:len(pts)-1]
}
