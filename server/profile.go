// server/profile.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/aerosurvey/pathgen/flightpath"

	"github.com/brunoga/deep"
	"gopkg.in/yaml.v3"
)

// Profile holds the vehicle's persistent parameters (altitude, turn
// radius, sensor, ...). Incoming requests are overlaid on it so that
// clients only need to send what changes from one path to the next.
type Profile struct {
	mu       sync.Mutex
	path     string
	defaults flightpath.Request
}

// LoadProfile reads the YAML profile at path. A missing file gives an
// empty profile that will be created on the first update; an empty path
// gives one that is never saved.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{path: path}
	if path == "" {
		return p, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	} else if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(b, &p.defaults); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Profile) Defaults() flightpath.Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	return deep.MustCopy(p.defaults)
}

// Apply returns req with its unset parameters taken from the profile.
func (p *Profile) Apply(req flightpath.Request) flightpath.Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	return req.Merge(p.defaults)
}

// Update sets the parameters given in upd, leaving the others as they
// were, and saves the profile. The updated profile is returned.
func (p *Profile) Update(upd flightpath.Request) (flightpath.Request, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.defaults = upd.Merge(p.defaults)
	if err := p.save(); err != nil {
		return flightpath.Request{}, fmt.Errorf("%w: %v", ErrProfileSave, err)
	}
	return deep.MustCopy(p.defaults), nil
}

func (p *Profile) save() error {
	if p.path == "" {
		return nil
	}

	b, err := yaml.Marshal(&p.defaults)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
