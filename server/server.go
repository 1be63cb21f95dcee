// server/server.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aerosurvey/pathgen/flightpath"
	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/util"

	"github.com/goforj/godump"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultPort = 6502

// Number of successive ports tried, starting at Config.Port, before
// giving up.
const portAttempts = 10

type Config struct {
	Port        int // if 0, DefaultPort
	ProfilePath string
	CacheSize   int
	CacheTTL    time.Duration
	// MaxParallel limits how many requests of a batch are generated at
	// once; 0 means one per CPU.
	MaxParallel int
	// DumpRequests logs a dump of every request at debug level.
	DumpRequests bool
}

type Server struct {
	config    Config
	lg        *log.Logger
	profile   *Profile
	results   *expirable.LRU[string, *flightpath.Result]
	mux       *http.ServeMux
	startTime time.Time
	port      atomic.Int64

	requests, failures, cacheHits, wsConnections atomic.Int64
}

func New(config Config, lg *log.Logger) (*Server, error) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 256
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Hour
	}
	if config.MaxParallel <= 0 {
		config.MaxParallel = runtime.NumCPU()
	}

	profile, err := LoadProfile(config.ProfilePath)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    config,
		lg:        lg,
		profile:   profile,
		results:   expirable.NewLRU[string, *flightpath.Result](config.CacheSize, nil, config.CacheTTL),
		startTime: time.Now(),
	}
	s.mux = s.makeMux()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Profile() *Profile {
	return s.profile
}

// Port returns the port the server is listening on, or 0 before
// ListenAndServe has found one.
func (s *Server) Port() int {
	return int(s.port.Load())
}

func (s *Server) listen() (net.Listener, error) {
	var err error
	for i := 0; i < portAttempts; i++ {
		port := s.config.Port + i
		var listener net.Listener
		if listener, err = net.Listen("tcp", ":"+strconv.Itoa(port)); err == nil {
			s.port.Store(int64(port))
			return listener, nil
		}
		s.lg.Infof("%d: unable to listen: %v", port, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrNoListenPort, err)
}

// ListenAndServe serves on the first free port starting at the configured
// one until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	s.lg.Info("listening", slog.Int("port", s.Port()))

	srv := &http.Server{Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.lg.Warnf("shutdown: %v", err)
		}
	}()

	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Generate overlays req on the profile and generates its path. Results
// are cached by the hash of the overlaid request; failures are not.
func (s *Server) Generate(req flightpath.Request, lg *log.Logger) (*flightpath.Result, error) {
	s.requests.Add(1)
	req = s.profile.Apply(req)

	if s.config.DumpRequests {
		lg.Debug("request", slog.String("dump", godump.DumpStr(req)))
	}

	key, err := util.HashObject(req)
	if err != nil {
		lg.Warnf("%v: unable to hash request", err)
	} else if res, ok := s.results.Get(key); ok {
		s.cacheHits.Add(1)
		lg.Debug("cache hit", slog.String("hash", key))
		return res, nil
	}

	res, err := flightpath.Generate(req, lg)
	if err != nil {
		s.failures.Add(1)
		return nil, err
	}

	if key != "" {
		s.results.Add(key, res)
	}
	return res, nil
}
