// cmd/pathgen/requests.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aerosurvey/pathgen/flightpath"
	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/util"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"
)

// job is a single request read from a request file; a file holds either
// one request object or an array of them.
type job struct {
	File    string             `json:"file" msgpack:"file"`
	Index   int                `json:"index" msgpack:"index"`
	Request flightpath.Request `json:"request" msgpack:"request"`
}

type output struct {
	File      string             `json:"file" msgpack:"file"`
	Index     int                `json:"index" msgpack:"index"`
	Result    *flightpath.Result `json:"result,omitempty" msgpack:"result,omitempty"`
	Error     string             `json:"error,omitempty" msgpack:"error,omitempty"`
	Missing   []string           `json:"missing,omitempty" msgpack:"missing,omitempty"`
	FromCache bool               `json:"-" msgpack:"from_cache"`
}

// archive is what -archive saves: everything needed to reproduce and
// inspect a run.
type archive struct {
	Jobs    []job    `msgpack:"jobs"`
	Outputs []output `msgpack:"outputs"`
}

type options struct {
	defaults flightpath.Request
	parallel int
	cache    bool
	dump     io.Writer
}

// Cached results are culled back to this size after each run.
const maxCacheBytes = 64 * 1024 * 1024

// loadRequests reads and checks the given request files. Problems are
// accumulated in e so that all of them can be reported at once; duplicate
// keys are only warned about.
func loadRequests(filenames []string, e *util.ErrorLogger, warn io.Writer) []job {
	var jobs []job
	for _, fn := range filenames {
		e.Push(fn)

		contents, err := os.ReadFile(fn)
		if err != nil {
			e.Error(err)
			e.Pop()
			continue
		}

		for _, dup := range util.FindDuplicateJSONKeys(contents) {
			if dup.Path == "" {
				fmt.Fprintf(warn, "%s: warning: duplicate key %q\n", fn, dup.Key)
			} else {
				fmt.Fprintf(warn, "%s: warning: duplicate key %q in %s\n", fn, dup.Key, dup.Path)
			}
		}

		nerr := len(e.Errors())
		var reqs []flightpath.Request
		if bytes.HasPrefix(bytes.TrimSpace(contents), []byte("[")) {
			util.CheckJSON[[]flightpath.Request](contents, e)
			if len(e.Errors()) == nerr {
				if err := util.UnmarshalJSONBytes(contents, &reqs); err != nil {
					e.Error(err)
				}
			}
		} else {
			util.CheckJSON[flightpath.Request](contents, e)
			if len(e.Errors()) == nerr {
				var req flightpath.Request
				if err := util.UnmarshalJSONBytes(contents, &req); err != nil {
					e.Error(err)
				} else {
					reqs = append(reqs, req)
				}
			}
		}

		for i, req := range reqs {
			jobs = append(jobs, job{File: fn, Index: i, Request: req})
		}
		e.Pop()
	}
	return jobs
}

func cachePath(req flightpath.Request) (string, error) {
	h, err := util.HashObject(req)
	if err != nil {
		return "", err
	}
	return "paths/" + h + ".msgpack", nil
}

func generateJob(j job, opts options, lg *log.Logger) output {
	out := output{File: j.File, Index: j.Index}
	lg = lg.With(slog.String("file", j.File), slog.Int("index", j.Index))

	req := j.Request.Merge(opts.defaults)
	if opts.dump != nil {
		godump.Fdump(opts.dump, req)
	}

	var cp string
	if opts.cache {
		var err error
		if cp, err = cachePath(req); err != nil {
			lg.Warnf("%v: unable to hash request", err)
		} else {
			var res flightpath.Result
			if t, err := util.CacheRetrieveObject(cp, &res); err == nil {
				lg.Info("using cached path", slog.Time("generated", t))
				out.Result, out.FromCache = &res, true
				return out
			}
		}
	}

	res, err := flightpath.Generate(req, lg)
	if err != nil {
		out.Error = err.Error()
		var mpe *flightpath.MissingParametersError
		if errors.As(err, &mpe) {
			out.Missing = mpe.Parameters
		}
		return out
	}
	out.Result = res

	if cp != "" {
		if err := util.CacheStoreObject(cp, res); err != nil {
			lg.Warnf("%s: unable to cache path: %v", cp, err)
		}
	}
	return out
}

// generateAll generates the jobs in parallel, returning their outputs in
// the same order. It only fails if ctx is cancelled.
func generateAll(ctx context.Context, jobs []job, opts options, lg *log.Logger) ([]output, error) {
	outputs := make([]output, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, opts.parallel))
	for i, j := range jobs {
		i, j := i, j
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outputs[i] = generateJob(j, opts, lg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if opts.cache {
		if err := util.CacheCullObjects(maxCacheBytes); err != nil {
			lg.Warnf("unable to cull cache: %v", err)
		}
	}
	return outputs, nil
}
