// util/json_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"strings"
	"testing"
)

func TestFindDuplicateJSONKeys(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected []DuplicateJSONKey
	}{
		{
			name:     "no duplicates",
			json:     `{"a": 1, "b": 2, "c": 3}`,
			expected: nil,
		},
		{
			name: "simple duplicate at root",
			json: `{"altitude": 1, "kind": "search_area", "altitude": 3}`,
			expected: []DuplicateJSONKey{
				{Path: "", Key: "altitude"},
			},
		},
		{
			name: "duplicate in nested object",
			json: `{"take_off_point": {"lat": 1, "lat": 2}}`,
			expected: []DuplicateJSONKey{
				{Path: "take_off_point", Key: "lat"},
			},
		},
		{
			name: "multiple duplicates at different levels",
			json: `{"a": 1, "a": 2, "nested": {"deeper": {"b": 1, "b": 2}}}`,
			expected: []DuplicateJSONKey{
				{Path: "", Key: "a"},
				{Path: "nested.deeper", Key: "b"},
			},
		},
		{
			name:     "array with objects no duplicates",
			json:     `{"search_area": [{"long": 1, "lat": 2}, {"long": 3, "lat": 4}]}`,
			expected: nil,
		},
		{
			name: "duplicate inside array element",
			json: `{"waypoints": [{"long": 1}, {"long": 1, "long": 2}]}`,
			expected: []DuplicateJSONKey{
				{Path: "waypoints", Key: "long"},
			},
		},
		{
			name: "same key in sibling objects",
			json: `{"plane_location": {"lat": 1}, "target_location": {"lat": 1}}`,
		},
		{
			name: "truncated input",
			json: `{"a": 1, "a": 2, "b": [`,
			expected: []DuplicateJSONKey{
				{Path: "", Key: "a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindDuplicateJSONKeys([]byte(tt.json))

			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d duplicates, got %d: %+v", len(tt.expected), len(result), result)
			}

			for i, exp := range tt.expected {
				if result[i] != exp {
					t.Errorf("duplicate %d: expected %+v, got %+v", i, exp, result[i])
				}
			}
		})
	}
}

type checkPoint struct {
	Long float64 `json:"long"`
	Lat  float64 `json:"lat"`
}

type checkRequest struct {
	Kind     string       `json:"kind"`
	Altitude *float64     `json:"altitude,omitempty"`
	Points   []checkPoint `json:"points"`
	Ignored  int          `json:"-"`
	Enabled  bool         `json:"enabled"`
}

func TestCheckJSON(t *testing.T) {
	tests := []struct {
		name   string
		json   string
		errors []string
	}{
		{
			name: "valid",
			json: `{"kind": "a", "altitude": 100, "points": [{"long": 1, "lat": 2}], "enabled": true}`,
		},
		{
			name: "null optional",
			json: `{"altitude": null}`,
		},
		{
			name:   "misspelled key",
			json:   `{"altitud": 100}`,
			errors: []string{`The entry "altitud" is not an expected JSON object. Is it misspelled?`},
		},
		{
			name:   "nested misspelling",
			json:   `{"points": [{"long": 1, "lattitude": 2}]}`,
			errors: []string{`points / [0]: The entry "lattitude" is not an expected JSON object. Is it misspelled?`},
		},
		{
			name:   "string for number",
			json:   `{"altitude": "high"}`,
			errors: []string{"altitude: unexpected string value for float64"},
		},
		{
			name:   "object for array",
			json:   `{"points": {"long": 1}}`,
			errors: []string{"points: unexpected object value for []util.checkPoint"},
		},
		{
			name:   "ignored field",
			json:   `{"Ignored": 1}`,
			errors: []string{`The entry "Ignored" is not an expected JSON object. Is it misspelled?`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e ErrorLogger
			CheckJSON[checkRequest]([]byte(tt.json), &e)

			got := e.Errors()
			if len(got) != len(tt.errors) {
				t.Fatalf("expected errors %q, got %q", tt.errors, got)
			}
			for i := range got {
				if got[i] != tt.errors[i] {
					t.Errorf("expected %q, got %q", tt.errors[i], got[i])
				}
			}
		})
	}
}

func TestCheckJSONSyntaxError(t *testing.T) {
	var e ErrorLogger
	CheckJSON[checkRequest]([]byte("{\n  \"kind\": \"a\",\n  \"altitude\" 100\n}"), &e)
	if !e.HaveErrors() {
		t.Fatalf("expected a syntax error")
	}
	if s := e.String(); !strings.Contains(s, "line 3") {
		t.Errorf("expected the error to give the line number: %s", s)
	}
}

func TestTypeCheckJSON(t *testing.T) {
	if !TypeCheckJSON[[]checkPoint]([]any{map[string]any{"long": 1.0, "lat": 2.0}}) {
		t.Errorf("expected valid points to type check")
	}
	if TypeCheckJSON[[]checkPoint](map[string]any{"long": 1.0}) {
		t.Errorf("expected an object to fail to type check as a slice")
	}
}

func TestUnmarshalJSONBytes(t *testing.T) {
	var r checkRequest
	if err := UnmarshalJSONBytes([]byte(`{"kind": "a", "altitude": 50}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != "a" || r.Altitude == nil || *r.Altitude != 50 {
		t.Errorf("unexpected result %+v", r)
	}

	err := UnmarshalJSONBytes([]byte("{\n\"altitude\": \"x\"}"), &r)
	if err == nil || !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "altitude") {
		t.Errorf("expected a type error naming line 2 and the field, got %v", err)
	}
}
