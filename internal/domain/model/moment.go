package model

// MomentReason says why a moment ended.
type MomentReason string

// Moment end reasons.
const (
	ReasonPeriodStart MomentReason = "period_start"
	ReasonLeadChange  MomentReason = "lead_change"
	ReasonScoringRun  MomentReason = "scoring_run"
	ReasonSizeLimit   MomentReason = "size_limit"
	ReasonEnd         MomentReason = "end"
)

// Moment is a contiguous narrative segment of the timeline.
// StartIndex and EndIndex are inclusive positions in the source sequence.
type Moment struct {
	StartIndex  int          `json:"start_index"`
	EndIndex    int          `json:"end_index"`
	Period      int          `json:"period"`
	PeriodLabel string       `json:"period_label,omitempty"`
	StartClock  string       `json:"start_clock,omitempty"`
	EndClock    string       `json:"end_clock,omitempty"`
	StartScore  Score        `json:"start_score"`
	EndScore    Score        `json:"end_score"`
	Narrative   string       `json:"narrative"`
	IsNotable   bool         `json:"is_notable"`
	Reason      MomentReason `json:"reason"`
	BoxScore    *BoxScore    `json:"box_score"`
}

// Len returns the number of events covered by the moment.
func (m Moment) Len() int { return m.EndIndex - m.StartIndex + 1 }

// BoxScore is a compact per-team snapshot of the top contributors.
type BoxScore struct {
	Teams []TeamContributors `json:"teams"`
}

// TeamContributors lists a team's top players for a moment.
type TeamContributors struct {
	Team    string       `json:"team"`
	Players []PlayerLine `json:"players"`
}

// PlayerLine holds cumulative stats at the end of a moment and what
// changed inside it.
type PlayerLine struct {
	Player string         `json:"player"`
	Team   string         `json:"team"`
	Stats  map[string]int `json:"stats"`
	Delta  map[string]int `json:"delta"`
}

// BoxScoreState is the cumulative stat state keyed by team then player.
type BoxScoreState map[string]map[string]map[string]int

// Clone returns a deep copy; nil stays nil.
func (b BoxScoreState) Clone() BoxScoreState {
	if b == nil {
		return nil
	}
	out := make(BoxScoreState, len(b))
	for team, players := range b {
		tp := make(map[string]map[string]int, len(players))
		for player, stats := range players {
			ps := make(map[string]int, len(stats))
			for k, v := range stats {
				ps[k] = v
			}
			tp[player] = ps
		}
		out[team] = tp
	}
	return out
}

// Apply adds a credit to the state.
func (b BoxScoreState) Apply(c StatCredit) {
	players, ok := b[c.Team]
	if !ok {
		players = make(map[string]map[string]int)
		b[c.Team] = players
	}
	stats, ok := players[c.Player]
	if !ok {
		stats = make(map[string]int)
		players[c.Player] = stats
	}
	stats[c.Stat] += c.Value
}
