package model

import "time"

// ResumePosition is where a reader left off in a game's timeline.
type ResumePosition struct {
	GameID    string    `json:"game_id"`
	Index     int       `json:"index"`
	Period    int       `json:"period,omitempty"`
	Clock     string    `json:"clock,omitempty"`
	Score     Score     `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
