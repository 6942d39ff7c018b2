package config

import "errors"

// Sentinel errors. Validation failures wrap ErrInvalidConfig; an override
// for a league with no sport profile also wraps ErrUnknownLeague.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
	ErrUnknownLeague = errors.New("unknown league")
)
