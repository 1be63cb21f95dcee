// cmd/pathgen/main_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func setFlag[T any](t *testing.T, f *T, v T) {
	t.Helper()
	old := *f
	*f = v
	t.Cleanup(func() { *f = old })
}

func TestRunWritesProfilesOnFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"unsolvable.json": `{"kind": "point_to_point"}`,
	})

	for _, test := range []struct {
		name   string
		args   []string
		status int
	}{
		{name: "BadRequestFile", args: []string{filepath.Join(dir, "missing.json")}, status: 1},
		{name: "GenerationFailed", args: []string{filepath.Join(dir, "unsolvable.json")}, status: 2},
		{name: "NoArguments", status: 1},
	} {
		t.Run(test.name, func(t *testing.T) {
			tmp := t.TempDir()
			cpu, mem := filepath.Join(tmp, "cpu.prof"), filepath.Join(tmp, "mem.prof")
			setFlag(t, cpuprofile, cpu)
			setFlag(t, memprofile, mem)
			setFlag(t, logDir, tmp)
			setFlag(t, outputPath, filepath.Join(tmp, "out.json"))
			setFlag(t, parallel, 1)

			if s := run(test.args); s != test.status {
				t.Errorf("exit status %d, expected %d", s, test.status)
			}
			for _, fn := range []string{cpu, mem} {
				if fi, err := os.Stat(fn); err != nil {
					t.Errorf("%s: %v", fn, err)
				} else if fi.Size() == 0 {
					t.Errorf("%s: profile is empty", filepath.Base(fn))
				}
			}
		})
	}
}
