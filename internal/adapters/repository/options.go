package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithMaxEvents caps how many events a single game may hold. Zero means no cap.
func WithMaxEvents(n int) Option {
	return func(s *MemoryStore) {
		if n >= 0 {
			s.maxEvents = n
		}
	}
}
