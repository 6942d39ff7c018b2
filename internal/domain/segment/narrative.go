package segment

import (
	"fmt"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
)

const narrativeSep = " · "

// narrative renders the one-line caption for a moment, e.g.
// "Q3 · BOS 8-0 run" or "Q1 · LAL 12, BOS 10".
func (s *Segmenter) narrative(m model.Moment, window []swing) string {
	home, away := s.teamLabel(true), s.teamLabel(false)

	var body string
	switch m.Reason {
	case model.ReasonScoringRun:
		h, a := netSwing(window)
		if h >= a {
			body = fmt.Sprintf("%s %d-%d run", home, h, a)
		} else {
			body = fmt.Sprintf("%s %d-%d run", away, a, h)
		}
	case model.ReasonLeadChange:
		if m.EndScore.Leader() > 0 {
			body = fmt.Sprintf("Lead change, %s lead %d-%d", home, m.EndScore.Home, m.EndScore.Away)
		} else {
			body = fmt.Sprintf("Lead change, %s lead %d-%d", away, m.EndScore.Away, m.EndScore.Home)
		}
	default:
		body = fmt.Sprintf("%s %d, %s %d", away, m.EndScore.Away, home, m.EndScore.Home)
	}

	if m.PeriodLabel == "" {
		if m.Period == 0 {
			return "Pregame" + narrativeSep + body
		}
		return body
	}
	return m.PeriodLabel + narrativeSep + body
}

// teamLabel prefers the abbreviation, then one derived from the team name,
// then a neutral side name.
func (s *Segmenter) teamLabel(home bool) string {
	abbr, name, fallback := s.game.AwayAbbr, s.game.AwayTeam, "Away"
	if home {
		abbr, name, fallback = s.game.HomeAbbr, s.game.HomeTeam, "Home"
	}
	if abbr != "" {
		return abbr
	}
	if name != "" {
		return sport.Abbreviation(s.profile.League, name)
	}
	return fallback
}
