// Command p6dofsim drives the flight-control core through the end-to-end
// scenarios of spec.md §8 (S1-S6), each built on a small built-in test
// controller. With -config it instead validates an autopilot_config JSON
// document and exits without running any scenario. Flag
// handling follows cmd/wxingest's package-level-flag-var plus usage()
// closure idiom.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/lanan07075/aldev-p6dof/config"
	"github.com/lanan07075/aldev-p6dof/log"
	"github.com/lanan07075/aldev-p6dof/recorder"
)

var (
	scenarioName = flag.String("scenario", "all", "scenario to run: s1, s2, s3, s4, s5, s6, or all")
	recordDir    = flag.String("record", "", "directory to write per-scenario recordings to (optional)")
	logDir       = flag.String("log-dir", "", "directory for log files (optional; logs to stderr if empty)")
	logLevel     = flag.String("log-level", "info", "log level: debug, info, warn, error")
	concurrent   = flag.Bool("concurrent", false, "run scenario \"all\" concurrently instead of sequentially")
	nWorkers     = flag.Int("nworkers", 4, "maximum concurrent scenarios when -concurrent is set")
	configPath   = flag.String("config", "", "validate an autopilot_config JSON document and exit, instead of running scenarios")
)

func main() {
	flag.Parse()

	usage := func() {
		fmt.Fprintf(os.Stderr, "usage: p6dofsim [flags]\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if len(flag.Args()) != 0 {
		usage()
	}

	logger := log.New(*logDir, *logLevel)

	if *configPath != "" {
		runValidateConfig(logger)
		return
	}

	var toRun []scenario
	if *scenarioName == "all" {
		toRun = scenarios
	} else {
		s := findScenario(*scenarioName)
		if s == nil {
			fmt.Fprintf(os.Stderr, "p6dofsim: unknown scenario %q\n", *scenarioName)
			usage()
		}
		toRun = []scenario{*s}
	}

	if *concurrent && len(toRun) > 1 {
		runConcurrently(toRun, logger)
		return
	}
	for _, s := range toRun {
		runOne(s, logger)
	}
}

// runValidateConfig loads an autopilot_config document through config.Load
// and reports success or the accumulated validation errors, without running
// any scenario.
func runValidateConfig(logger *log.Logger) {
	contents, err := os.ReadFile(*configPath)
	if err != nil {
		logger.Errorf("reading %s: %v", *configPath, err)
		fmt.Fprintf(os.Stderr, "p6dofsim: reading %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	c, err := config.Load(contents)
	if err != nil {
		fmt.Fprintf(os.Stderr, "p6dofsim: %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	logger.Infof("loaded config from %s: method=%v", *configPath, c.Method)
	fmt.Printf("%s: OK (control_method=%v)\n", *configPath, c.Method)
}

func runOne(s scenario, logger *log.Logger) {
	var rec *recorder.Recorder
	if *recordDir != "" {
		rec = recorder.New(filepath.Join(*recordDir, s.name+".msgpack.flate"), logger)
	}
	summary, err := s.run(rec, logger)
	if err != nil {
		logger.Errorf("%s: %v", s.name, err)
		fmt.Fprintf(os.Stderr, "%s: error: %v\n", s.name, err)
		return
	}
	fmt.Println(summary)
	if rec != nil {
		if err := rec.Close(context.Background()); err != nil {
			logger.Warnf("%s: recording flush failed: %v", s.name, err)
		}
	}
}

func runConcurrently(toRun []scenario, logger *log.Logger) {
	var eg errgroup.Group
	sem := make(chan struct{}, *nWorkers)
	results := make([]string, len(toRun))
	for i, s := range toRun {
		i, s := i, s
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			var rec *recorder.Recorder
			if *recordDir != "" {
				rec = recorder.New(filepath.Join(*recordDir, s.name+".msgpack.flate"), logger)
			}
			summary, err := s.run(rec, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			results[i] = summary
			if rec != nil {
				if cerr := rec.Close(context.Background()); cerr != nil {
					logger.Warnf("%s: recording flush failed: %v", s.name, cerr)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Errorf("scenario run failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
	}
	for _, r := range results {
		if r != "" {
			fmt.Println(r)
		}
	}
}
