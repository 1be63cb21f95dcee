// util/util_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("new ErrorLogger has errors")
	}

	e.ErrorString("top level %d", 1)
	e.Push("search_area")
	e.Push("[2]")
	e.Error(errors.New("latitude out of range"))
	e.Pop()
	e.ErrorString("too few vertices")
	e.Pop()

	want := []string{
		"top level 1",
		"search_area / [2]: latitude out of range",
		"search_area: too few vertices",
	}
	if !slices.Equal(e.Errors(), want) {
		t.Errorf("got %q, expected %q", e.Errors(), want)
	}
	if e.CurrentDepth() != 0 {
		t.Errorf("depth %d after balanced Push/Pop", e.CurrentDepth())
	}
	if !e.HaveErrors() {
		t.Errorf("expected errors")
	}

	var nilLogger *ErrorLogger
	if nilLogger.HaveErrors() || nilLogger.CurrentDepth() != 0 || nilLogger.Errors() != nil {
		t.Errorf("nil ErrorLogger should be empty")
	}
}

type cachedResult struct {
	ID     string
	Points [][3]float64
}

func TestCacheStoreRetrieve(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("HOME", dir)

	obj := cachedResult{ID: "abc", Points: [][3]float64{{1, 2, 3}, {4, 5, 6}}}
	if err := CacheStoreObject(filepath.Join("results", "abc"), obj); err != nil {
		t.Fatalf("store: %v", err)
	}

	var back cachedResult
	if _, err := CacheRetrieveObject(filepath.Join("results", "abc"), &back); err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if back.ID != obj.ID || !slices.Equal(back.Points, obj.Points) {
		t.Errorf("got %+v, expected %+v", back, obj)
	}

	if _, err := CacheRetrieveObject("missing", &back); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}

	if err := CacheCullObjects(0); err != nil {
		t.Fatalf("cull: %v", err)
	}
	if _, err := CacheRetrieveObject(filepath.Join("results", "abc"), &back); err == nil {
		t.Errorf("expected culled object to be gone")
	}
}

func TestArchive(t *testing.T) {
	obj := []cachedResult{{ID: "a", Points: [][3]float64{{-1.5, 51.25, 100}}}, {ID: "b"}}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, obj); err != nil {
		t.Fatalf("write: %v", err)
	}

	var back []cachedResult
	if err := ReadArchive(&buf, &back); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(back) != 2 || back[0].ID != "a" || back[0].Points[0] != obj[0].Points[0] {
		t.Errorf("got %+v, expected %+v", back, obj)
	}

	path := filepath.Join(t.TempDir(), "results.msgpack.zst")
	if err := WriteArchiveFile(path, obj); err != nil {
		t.Fatalf("write file: %v", err)
	}
	back = nil
	if err := ReadArchiveFile(path, &back); err != nil || len(back) != 2 {
		t.Errorf("read file: %v, %d entries", err, len(back))
	}
}

func TestHashObject(t *testing.T) {
	a, err := HashObject(cachedResult{ID: "x", Points: [][3]float64{{1, 2, 3}}})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashObject(cachedResult{ID: "x", Points: [][3]float64{{1, 2, 3}}})
	c, _ := HashObject(cachedResult{ID: "x", Points: [][3]float64{{1, 2, 4}}})

	if a != b {
		t.Errorf("equal objects hashed differently")
	}
	if a == c {
		t.Errorf("different objects hashed the same")
	}
	if len(a) != 64 {
		t.Errorf("expected a hex SHA-256 digest, got %q", a)
	}

	m1, _ := HashObject(map[string]int{"a": 1, "b": 2, "c": 3})
	m2, _ := HashObject(map[string]int{"c": 3, "b": 2, "a": 1})
	if m1 != m2 {
		t.Errorf("map hashes depend on iteration order")
	}
}

func TestGeneric(t *testing.T) {
	if k := SortedMapKeys(map[string]int{"b": 1, "c": 2, "a": 3}); !slices.Equal(k, []string{"a", "b", "c"}) {
		t.Errorf("SortedMapKeys: got %v", k)
	}
	if s := MapSlice([]int{1, 2, 3}, func(i int) int { return i * i }); !slices.Equal(s, []int{1, 4, 9}) {
		t.Errorf("MapSlice: got %v", s)
	}
	if MapSlice[int, int](nil, func(i int) int { return i }) != nil {
		t.Errorf("MapSlice of nil should be nil")
	}
}
