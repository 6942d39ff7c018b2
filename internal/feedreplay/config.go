package feedreplay

import "time"

// Config holds configuration for a replay run.
type Config struct {
	BaseURL       string        // Base URL of the service
	League        string        // League code of the generated games
	Games         int           // Number of games to replay
	EventsPerGame int           // Timeline length per game
	BatchSize     int           // Events per POST
	Resend        float64       // Fraction of batches posted twice
	Workers       int           // Concurrent submitters
	Seed          int64         // Generator seed; equal seeds give equal feeds
	Timeout       time.Duration // HTTP request timeout
	Wait          time.Duration // How long to wait for ingestion to settle
	OutputFile    string        // Optional JSON dump of the generated feeds
	Verbose       bool          // Log every batch
}

// Stats holds replay statistics.
type Stats struct {
	RunID           string
	Games           int
	EventsGenerated int
	BatchesPosted   int
	Accepted        int
	Duplicates      int
	Retries         int
	Failed          int
	Groups          int
	Moments         int
	NotableMoments  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
