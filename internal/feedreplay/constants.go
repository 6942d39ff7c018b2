package feedreplay

import "time"

// Default run parameters.
const (
	DefaultLeague        = "NBA"
	DefaultGames         = 4
	DefaultEventsPerGame = 400
	DefaultBatchSize     = 25
	DefaultResend        = 0.1
	DefaultWait          = 30 * time.Second
)

// Submission retry constants.
const (
	maxSubmitAttempts = 5
	retryBackoff      = 50 * time.Millisecond
	pollInterval      = 50 * time.Millisecond
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)
