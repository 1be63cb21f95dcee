// flightpath/validate.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"github.com/aerosurvey/pathgen/math"
)

// Messages for the post-generation checks. Each is reported at most once
// per path.
const (
	ViolationOutsideSearchArea = "A point is not in the search area"
	ViolationSelfIntersection  = "Two path segments intersect"
	ViolationDuplicatePoints   = "Two consecutive points are equal"
	ViolationOutsideBoundary   = "A point is outside the boundary"
)

func allContained(poly *math.Polygon, pts []math.Point2) bool {
	for _, p := range pts {
		if !poly.Contains(p) {
			return false
		}
	}
	return true
}

// selfIntersects reports whether any two non-adjacent segments of the
// polyline through pts intersect.
func selfIntersects(pts []math.Point2) bool {
	for i := 0; i+1 < len(pts); i++ {
		s1 := math.Segment{P0: pts[i], P1: pts[i+1]}
		for j := i + 2; j+1 < len(pts); j++ {
			if math.SegmentsIntersect(s1, math.Segment{P0: pts[j], P1: pts[j+1]}) {
				return true
			}
		}
	}
	return false
}

// Points closer together than this are the same point.
const coincidenceTolerance = 1e-10

func coincident(a, b math.Point2) bool {
	return math.Distance2(a, b) <= coincidenceTolerance
}

func hasConsecutiveDuplicates(pts []math.Point2) bool {
	for i := 1; i < len(pts); i++ {
		if coincident(pts[i], pts[i-1]) {
			return true
		}
	}
	return false
}

// checkSearchPath runs all of the search-area checks: the rough points
// must be inside the area and the final path must neither cross itself
// nor repeat a point.
func checkSearchPath(area *math.Polygon, rough, pts []math.Point2) []string {
	var v []string
	if len(rough) > 1 && !allContained(area, rough) {
		v = append(v, ViolationOutsideSearchArea)
	}
	if selfIntersects(pts) {
		v = append(v, ViolationSelfIntersection)
	}
	if hasConsecutiveDuplicates(pts) {
		v = append(v, ViolationDuplicatePoints)
	}
	return v
}
