package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/salvo-load/salvo/config"
	"github.com/salvo-load/salvo/metrics"
	"github.com/salvo-load/salvo/results"
	"github.com/salvo-load/salvo/runner"
)

var (
	// CLI flags
	configFlag         string
	resultsFlag        string
	metricsAddrFlag    string
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFlag, "config", "salvo.yml", "Scenario configuration file")
	flag.StringVar(&resultsFlag, "results", "results.db", "Results DB file name (use ':memory:' to discard)")
	flag.StringVar(&metricsAddrFlag, "metrics", "", "Address to serve Prometheus metrics on (empty to disable)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.InfoLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	metrics.Init()
	if metricsAddrFlag != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddrFlag, mux); err != nil {
				log.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	recorder, err := results.NewRecorder(resultsFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open results database")
	}
	defer recorder.Close()

	log.Info().
		Str("target", cfg.Target).
		Int("users", cfg.Users).
		Int("iterations", cfg.Iterations).
		Bool("caching", cfg.CachingEnabled()).
		Msg("Starting simulation")

	if err := runner.New(cfg, recorder, log.Logger).Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}

	summary, err := recorder.Summary()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not summarize results")
	}
	fmt.Printf("requests:          %d\n", summary.Requests)
	fmt.Printf("cache hits:        %d\n", summary.CacheHits)
	fmt.Printf("conditional:       %d\n", summary.Conditional)
	fmt.Printf("revalidated (304): %d\n", summary.NotModified)
	fmt.Printf("mean duration:     %.1f ms\n", summary.MeanMillis)
}
