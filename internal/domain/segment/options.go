package segment

import (
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
)

// Default segmentation configuration constants.
const (
	defaultRunWindow  = 10
	defaultTopPlayers = 2
	minRunWindow      = 2
)

// Option applies a configuration option to the Segmenter.
type Option func(*Segmenter)

// WithProfile sets the sport profile. Without it the profile is selected
// from the game's league.
func WithProfile(p *sport.Profile) Option {
	return func(s *Segmenter) {
		if p != nil {
			s.profile = p
		}
	}
}

// WithGame sets the game metadata used for team ordering and narratives.
func WithGame(g model.Game) Option {
	return func(s *Segmenter) {
		s.game = g
	}
}

// WithRunWindow sets how many recent events are considered when looking
// for a scoring run. Values below 2 are ignored.
func WithRunWindow(n int) Option {
	return func(s *Segmenter) {
		if n >= minRunWindow {
			s.runWindow = n
		}
	}
}

// WithRunThreshold overrides the profile's run threshold. Non-positive
// values keep the profile default.
func WithRunThreshold(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.runThreshold = n
		}
	}
}

// WithMaxEvents closes a moment once it holds n events. Zero disables the limit.
func WithMaxEvents(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.maxEvents = n
		}
	}
}

// WithTopPlayers sets how many players per team a moment's box score lists.
func WithTopPlayers(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.topPlayers = n
		}
	}
}
