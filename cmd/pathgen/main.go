// cmd/pathgen/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// pathgen generates flight paths from JSON request files, writing the
// results as JSON, or runs the path generation server.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/aerosurvey/pathgen/log"
	"github.com/aerosurvey/pathgen/server"
	"github.com/aerosurvey/pathgen/util"
)

var (
	cpuprofile  = flag.String("cpuprofile", "", "write CPU profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
	logLevel    = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "log file directory")
	runServer   = flag.Bool("runserver", false, "run the path generation server")
	serverPort  = flag.Int("port", server.DefaultPort, "port to listen on when running server")
	profilePath = flag.String("profile", "", "YAML file with default vehicle parameters")
	outputPath  = flag.String("o", "", "file to write generated paths to (default: standard output)")
	archivePath = flag.String("archive", "", "also save requests and results to this zstd-compressed msgpack file")
	useCache    = flag.Bool("cache", false, "reuse previously generated paths from the on-disk cache")
	dump        = flag.Bool("dump", false, "dump each request (after applying the profile) before generating it")
	checkOnly   = flag.Bool("check", false, "check the request files but don't generate paths")
	parallel    = flag.Int("j", runtime.NumCPU(), "number of requests to generate in parallel")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: pathgen [flags] request.json...\n       pathgen -runserver [flags]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	os.Exit(run(flag.Args()))
}

// run returns the process exit status so that deferred cleanup, notably
// flushing profiles, happens before the process exits.
func run(args []string) (status int) {
	// Initialize the logging system first and foremost.
	lg := log.New(*runServer, *logLevel, *logDir)
	status = 1 // if we crash
	defer lg.CatchAndReportCrash()

	profiler, err := util.CreateProfiler(*cpuprofile, *memprofile)
	if err != nil {
		lg.Errorf("%v", err)
	}
	defer profiler.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *runServer {
		s, err := server.New(server.Config{
			Port:         *serverPort,
			ProfilePath:  *profilePath,
			MaxParallel:  *parallel,
			DumpRequests: *dump,
		}, lg)
		if err != nil {
			lg.Errorf("%v", err)
			return 1
		}
		if err := s.ListenAndServe(ctx); err != nil {
			lg.Errorf("%v", err)
			return 1
		}
		return 0
	}

	if len(args) == 0 {
		usage()
		return 1
	}

	var e util.ErrorLogger
	jobs := loadRequests(args, &e, os.Stderr)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		return 1
	}
	if *checkOnly {
		fmt.Printf("%d requests ok\n", len(jobs))
		return 0
	}

	opts := options{parallel: *parallel, cache: *useCache}
	if *profilePath != "" {
		p, err := server.LoadProfile(*profilePath)
		if err != nil {
			lg.Errorf("%v", err)
			return 1
		}
		opts.defaults = p.Defaults()
	}
	if *dump {
		opts.dump = os.Stderr
	}

	outputs, err := generateAll(ctx, jobs, opts, lg)
	if err != nil {
		lg.Errorf("%v", err)
		return 1
	}

	if err := writeOutputs(outputs); err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	if *archivePath != "" {
		if err := util.WriteArchiveFile(*archivePath, archive{Jobs: jobs, Outputs: outputs}); err != nil {
			lg.Errorf("%s: %v", *archivePath, err)
			return 1
		}
	}

	failed := 0
	for _, o := range outputs {
		if o.Error != "" {
			fmt.Fprintf(os.Stderr, "%s[%d]: %s\n", o.File, o.Index, o.Error)
			failed++
		} else if o.Result.Errored() {
			fmt.Fprintf(os.Stderr, "%s[%d]: warning: %v\n", o.File, o.Index, o.Result.Violations)
		}
	}
	if failed > 0 {
		return 2
	}
	return 0
}

func writeOutputs(outputs []output) error {
	var w io.Writer = os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}
