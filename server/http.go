// server/http.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/aerosurvey/pathgen/flightpath"
	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/util"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const maxRequestBytes = 8 << 20

// Response is the reply to a single generation request, over HTTP or the
// WebSocket. Exactly one of Points and Error is set.
type Response struct {
	ID         string                   `json:"id"`
	Kind       flightpath.Kind          `json:"kind,omitempty"`
	Points     []flightpath.OutputPoint `json:"points,omitempty"`
	Violations []string                 `json:"violations,omitempty"`
	Error      string                   `json:"error,omitempty"`
	// Cause is the text of the underlying sentinel error, when there is
	// one, for use with TryDecodeErrorString.
	Cause   string   `json:"cause,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Err returns the response's error, decoded to a sentinel value where
// possible.
func (r *Response) Err() error {
	if r.Error == "" {
		return nil
	}
	if err := TryDecodeErrorString(r.Cause); err != nil {
		return err
	}
	return errors.New(r.Error)
}

func makeResponse(id string, res *flightpath.Result, err error) (Response, int) {
	if err != nil {
		resp := Response{ID: id, Error: err.Error()}
		if root := rootError(err); root != err {
			resp.Cause = root.Error()
		}
		var mpe *flightpath.MissingParametersError
		if errors.As(err, &mpe) {
			resp.Missing = mpe.Parameters
		}
		return resp, statusForError(err)
	}

	return Response{
		ID:         id,
		Kind:       res.Kind,
		Points:     res.Points,
		Violations: res.Violations,
	}, http.StatusOK
}

func (s *Server) makeMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/generate", s.generateHandler)
	mux.HandleFunc("/batch", s.batchHandler)
	mux.HandleFunc("/parameters", s.parametersHandler)
	mux.HandleFunc("/ws", s.websocketHandler)

	mux.HandleFunc("/sup", func(w http.ResponseWriter, r *http.Request) {
		s.statsHandler(w, r)
		s.lg.Infof("%s: served stats request", r.URL.String())
	})

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// startRequest assigns the request an id, returned to the client in the
// X-Request-Id header, and returns a logger tagged with it.
func (s *Server) startRequest(w http.ResponseWriter, r *http.Request) (string, *log.Logger) {
	id := uuid.NewString()
	w.Header().Set("X-Request-Id", id)
	return id, s.lg.With(slog.String("request_id", id), slog.String("path", r.URL.Path))
}

// decodeBody decodes the JSON request body into out, logging any
// duplicated keys.
func decodeBody[T any](r *http.Request, out *T, lg *log.Logger) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequestBody, err)
	}
	for _, dup := range util.FindDuplicateJSONKeys(b) {
		lg.Warn("duplicate JSON key", slog.String("key", dup.Key), slog.String("path", dup.Path))
	}
	if err := util.UnmarshalJSONBytes(b, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequestBody, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any, lg *log.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		lg.Warnf("%v: unable to write response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, id string, err error, lg *log.Logger) {
	resp, status := makeResponse(id, nil, err)
	lg.Info("request failed", slog.Int("status", status), slog.Any("error", err))
	writeJSON(w, status, resp, lg)
}

func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	id, lg := s.startRequest(w, r)
	if r.Method != http.MethodPost {
		s.writeError(w, id, ErrMethodNotAllowed, lg)
		return
	}

	var req flightpath.Request
	if err := decodeBody(r, &req, lg); err != nil {
		s.writeError(w, id, err, lg)
		return
	}

	res, err := s.Generate(req, lg)
	if err != nil {
		s.writeError(w, id, err, lg)
		return
	}
	resp, status := makeResponse(id, res, nil)
	writeJSON(w, status, resp, lg)
}

// batchHandler generates an array of requests in parallel. The reply is
// an array of responses in the same order; individual failures are
// reported in their own response rather than failing the batch.
func (s *Server) batchHandler(w http.ResponseWriter, r *http.Request) {
	id, lg := s.startRequest(w, r)
	if r.Method != http.MethodPost {
		s.writeError(w, id, ErrMethodNotAllowed, lg)
		return
	}

	var reqs []flightpath.Request
	if err := decodeBody(r, &reqs, lg); err != nil {
		s.writeError(w, id, err, lg)
		return
	} else if len(reqs) == 0 {
		s.writeError(w, id, ErrEmptyBatch, lg)
		return
	}

	responses := make([]Response, len(reqs))
	var eg errgroup.Group
	eg.SetLimit(s.config.MaxParallel)
	for i, req := range reqs {
		i, req := i, req
		eg.Go(func() error {
			res, err := s.Generate(req, lg.With(slog.Int("index", i)))
			responses[i], _ = makeResponse(fmt.Sprintf("%s-%d", id, i), res, err)
			return nil
		})
	}
	_ = eg.Wait()

	lg.Info("batch generated", slog.Int("requests", len(reqs)))
	writeJSON(w, http.StatusOK, responses, lg)
}

// parametersHandler returns the profile on GET and applies an update to
// it on POST, replying with the updated profile.
func (s *Server) parametersHandler(w http.ResponseWriter, r *http.Request) {
	id, lg := s.startRequest(w, r)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.profile.Defaults(), lg)

	case http.MethodPost, http.MethodPut:
		var upd flightpath.Request
		if err := decodeBody(r, &upd, lg); err != nil {
			s.writeError(w, id, err, lg)
			return
		}
		p, err := s.profile.Update(upd)
		if err != nil {
			s.writeError(w, id, err, lg)
			return
		}
		lg.Info("updated parameters")
		writeJSON(w, http.StatusOK, p, lg)

	default:
		s.writeError(w, id, ErrMethodNotAllowed, lg)
	}
}

///////////////////////////////////////////////////////////////////////////
// Status / statistics via HTTP...

type serverStats struct {
	Uptime           time.Duration
	AllocMemory      uint64
	TotalAllocMemory uint64
	SysMemory        uint64
	NumGC            uint32
	NumGoRoutines    int
	Port             int

	Requests, Failures, CacheHits int64
	CachedResults                 int
	WebSocketConnections          int64
}

var statsTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<title>pathgen</title>
</head>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>Port: {{.Port}}</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>Total allocated memory: {{.TotalAllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>

<h1>Paths</h1>
<ul>
  <li>Requests: {{.Requests}}</li>
  <li>Failures: {{.Failures}}</li>
  <li>Cache hits: {{.CacheHits}} ({{.CachedResults}} cached)</li>
  <li>WebSocket connections: {{.WebSocketConnections}}</li>
</ul>
</body>
</html>
`))

func (s *Server) stats() serverStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return serverStats{
		Uptime:           time.Since(s.startTime).Round(time.Second),
		AllocMemory:      m.Alloc / (1024 * 1024),
		TotalAllocMemory: m.TotalAlloc / (1024 * 1024),
		SysMemory:        m.Sys / (1024 * 1024),
		NumGC:            m.NumGC,
		NumGoRoutines:    runtime.NumGoroutine(),
		Port:             s.Port(),

		Requests:             s.requests.Load(),
		Failures:             s.failures.Load(),
		CacheHits:            s.cacheHits.Load(),
		CachedResults:        s.results.Len(),
		WebSocketConnections: s.wsConnections.Load(),
	}
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if err := statsTemplate.Execute(w, s.stats()); err != nil {
		s.lg.Warnf("%v: stats template", err)
	}
}
