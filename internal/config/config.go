// Package config defines service configuration and how it is loaded.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects "text" or "json" log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory ingest queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many event keys are remembered for deduplication.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxFeedEvents caps the events stored per game. Zero means no cap.
	MaxFeedEvents int `koanf:"max_feed_events"`

	// SegmentRunWindow is how many recent events a scoring run is measured over.
	SegmentRunWindow int `koanf:"segment_run_window"`

	// SegmentMaxEvents closes a moment once it holds this many events. Zero disables.
	SegmentMaxEvents int `koanf:"segment_max_events"`

	// TopPlayers is how many contributors per team a moment lists.
	TopPlayers int `koanf:"top_players"`

	// RunThresholds overrides the sport default run threshold per league code.
	RunThresholds map[string]int `koanf:"run_thresholds"`

	// ResumeDBPath is the SQLite file for reading positions. ":memory:" keeps them in memory.
	ResumeDBPath string `koanf:"resume_db_path"`

	// RedisAddr enables the snapshot cache when set (host:port or redis:// URL).
	RedisAddr string `koanf:"redis_addr"`

	// RedisTTLSeconds is the snapshot lifetime.
	RedisTTLSeconds int `koanf:"redis_ttl_seconds"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		EventQueueSize:   10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       200_000,
		MaxFeedEvents:    5_000,
		SegmentRunWindow: 10,
		SegmentMaxEvents: 0,
		TopPlayers:       2,
		RunThresholds:    map[string]int{},
		ResumeDBPath:     "courtside.db",
		RedisAddr:        "",
		RedisTTLSeconds:  7200,
	}
}
