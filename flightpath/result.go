// flightpath/result.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package flightpath

import (
	"encoding/json"
	"log/slog"

	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/math"

	"github.com/iancoleman/orderedmap"
)

// Stage tracks how far a generator got; each transition is logged.
type Stage int

const (
	StageInitialized Stage = iota
	StageParametersValidated
	StageRoughPointsGenerated
	StageTurnsClassified
	StageTurnsInterpolated
	StageFinalized
	// StageErrored is the final stage of a path that was generated but
	// failed one or more post-generation checks.
	StageErrored
)

func (s Stage) String() string {
	return [...]string{"initialized", "parameters validated", "rough points generated",
		"turns classified", "turns interpolated", "finalized", "errored"}[s]
}

type progress struct {
	lg    *log.Logger
	stage Stage
}

func (p *progress) advance(s Stage, args ...any) {
	p.stage = s
	p.lg.Debug("path generation stage", append([]any{slog.String("stage", s.String())}, args...)...)
}

// finish moves to the final stage given the post-generation check results.
func (p *progress) finish(violations []string) Stage {
	if len(violations) > 0 {
		for _, v := range violations {
			p.lg.Warn("path check failed", slog.String("violation", v))
		}
		p.advance(StageErrored, slog.Int("violations", len(violations)))
	} else {
		p.advance(StageFinalized)
	}
	return p.stage
}

// MAVLink command id for a plain navigation waypoint; it is included with
// the points of the payload approach.
const CommandNavWaypoint = 16

// OutputPoint is a single position in a generated path. Altitude is in
// metres.
type OutputPoint struct {
	Long float64 `msgpack:"long"`
	Lat  float64 `msgpack:"lat"`
	Alt  float64 `msgpack:"alt"`
	// ID is the MAVLink command id, or zero if none is given.
	ID int `msgpack:"id,omitempty"`
}

// MarshalJSON emits the point's fields in a fixed order: long, lat, alt
// and, when set, id.
func (p OutputPoint) MarshalJSON() ([]byte, error) {
	o := orderedmap.New()
	o.Set("long", p.Long)
	o.Set("lat", p.Lat)
	o.Set("alt", p.Alt)
	if p.ID != 0 {
		o.Set("id", p.ID)
	}
	return json.Marshal(o)
}

func (p *OutputPoint) UnmarshalJSON(b []byte) error {
	var raw struct {
		Long float64 `json:"long"`
		Lat  float64 `json:"lat"`
		Alt  float64 `json:"alt"`
		ID   int     `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = OutputPoint{Long: raw.Long, Lat: raw.Lat, Alt: raw.Alt, ID: raw.ID}
	return nil
}

// Result is a generated path ready to be sent to the vehicle.
type Result struct {
	Kind   Kind          `json:"kind" msgpack:"kind"`
	Points []OutputPoint `json:"points" msgpack:"points"`
	// Violations lists the post-generation checks the path failed. They
	// are advisory: the points are still returned.
	Violations []string `json:"violations,omitempty" msgpack:"violations,omitempty"`
	Stage      Stage    `json:"-" msgpack:"stage"`
}

func (r *Result) Errored() bool {
	return len(r.Violations) > 0
}

func makeOutputPoints(pts []math.Point2, alt float64, id int) []OutputPoint {
	out := make([]OutputPoint, len(pts))
	for i, p := range pts {
		out[i] = OutputPoint{Long: p.X, Lat: p.Y, Alt: alt, ID: id}
	}
	return out
}
