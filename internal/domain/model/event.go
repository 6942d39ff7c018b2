// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strings"
)

// EventKind identifies what a timeline entry represents.
type EventKind string

// Known event kinds. Anything else decodes to KindUnknown.
const (
	KindPlay       EventKind = "play"
	KindSocialPost EventKind = "social_post"
	KindOddsUpdate EventKind = "odds_update"
	KindUnknown    EventKind = "unknown"
)

// ParseEventKind maps a wire value to an EventKind (case-insensitive).
// "tweet" is accepted as a legacy alias for social posts.
func ParseEventKind(s string) EventKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "play":
		return KindPlay
	case "social_post", "socialpost", "tweet":
		return KindSocialPost
	case "odds_update", "oddsupdate", "odds":
		return KindOddsUpdate
	default:
		return KindUnknown
	}
}

// UnmarshalJSON normalizes unrecognized kinds to KindUnknown.
func (k *EventKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k = ParseEventKind(s)
	return nil
}

// StatCredit is a single stat increment a play produced for one player,
// e.g. {Player: "Brown", Team: "BOS", Stat: "PTS", Value: 3}.
type StatCredit struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Stat   string `json:"stat"`
	Value  int    `json:"value"`
}

// TimelineEvent is one entry in a game's chronological feed.
// Events are built once per fetch and never mutated afterwards.
type TimelineEvent struct {
	Kind        EventKind    `json:"kind"`
	Index       int          `json:"index"`
	Period      int          `json:"period,omitempty"` // 0: not tied to a period
	PeriodLabel string       `json:"period_label,omitempty"`
	Clock       string       `json:"clock,omitempty"` // "M:SS" remaining
	Description string       `json:"description,omitempty"`
	Team        string       `json:"team,omitempty"`
	HomeScore   *int         `json:"home_score,omitempty"`
	AwayScore   *int         `json:"away_score,omitempty"`
	Credits     []StatCredit `json:"credits,omitempty"`
}

// HasScore reports whether the event carries at least one score field.
func (e TimelineEvent) HasScore() bool {
	return e.HomeScore != nil || e.AwayScore != nil
}

// ScoreAfter returns the cumulative score after this event, filling any
// missing side from prior.
func (e TimelineEvent) ScoreAfter(prior Score) Score {
	s := prior
	if e.HomeScore != nil {
		s.Home = *e.HomeScore
	}
	if e.AwayScore != nil {
		s.Away = *e.AwayScore
	}
	return s
}

// IsPlay reports whether the event is a game play (unknown kinds count as plays).
func (e TimelineEvent) IsPlay() bool {
	return e.Kind == KindPlay || e.Kind == KindUnknown || e.Kind == ""
}

// Score is a home/away score pair.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Margin returns home minus away.
func (s Score) Margin() int { return s.Home - s.Away }

// Leader returns 1 when home leads, -1 when away leads and 0 when tied.
func (s Score) Leader() int {
	switch m := s.Margin(); {
	case m > 0:
		return 1
	case m < 0:
		return -1
	default:
		return 0
	}
}

// IntPtr is a small helper for building events with score fields.
func IntPtr(v int) *int { return &v }

// Game carries the metadata a feed needs to be interpreted.
type Game struct {
	ID       string `json:"id"`
	League   string `json:"league"`
	HomeTeam string `json:"home_team,omitempty"`
	AwayTeam string `json:"away_team,omitempty"`
	HomeAbbr string `json:"home_abbr,omitempty"`
	AwayAbbr string `json:"away_abbr,omitempty"`
}

// IngestItem is the payload flowing through the ingest queue.
type IngestItem struct {
	GameID string
	Event  TimelineEvent
}
