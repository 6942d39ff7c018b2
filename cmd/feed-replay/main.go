package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/courtside/internal/feedreplay"
	"github.com/okian/courtside/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		league     = flag.String("league", feedreplay.DefaultLeague, "League of the generated games")
		games      = flag.Int("games", feedreplay.DefaultGames, "Number of games")
		events     = flag.Int("events", feedreplay.DefaultEventsPerGame, "Events per game")
		batch      = flag.Int("batch", feedreplay.DefaultBatchSize, "Events per POST")
		resend     = flag.Float64("resend", feedreplay.DefaultResend, "Fraction of batches posted twice")
		seed       = flag.Int64("seed", 1, "Generator seed")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait       = flag.Duration("wait", feedreplay.DefaultWait, "How long to wait for ingestion to settle")
		outputFile = flag.String("output", "", "Write the generated feeds to this JSON file")
		verbose    = flag.Bool("verbose", false, "Log every batch")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		feedreplay.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &feedreplay.Config{
		BaseURL:       *baseURL,
		League:        *league,
		Games:         *games,
		EventsPerGame: *events,
		BatchSize:     *batch,
		Resend:        *resend,
		Workers:       *workers,
		Seed:          *seed,
		Timeout:       *timeout,
		Wait:          *wait,
		OutputFile:    *outputFile,
		Verbose:       *verbose,
	}

	if _, err := feedreplay.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called above
	}
}
