package sport

import (
	"fmt"
	"strings"
)

// Default run thresholds per family (net points over the run window).
const (
	basketballRun = 8
	footballRun   = 14
	hockeyRun     = 2
	soccerRun     = 2
	baseballRun   = 3
	genericRun    = 5
)

var basketballKeywords = keywords{
	scoring:  []string{"makes", "made", "3pt", "3-pt", "dunk", "and one", "free throw made"},
	negation: []string{"misses", "missed", "miss", "blocks", "blocked", "no good"},
	context: []string{
		"foul", "fouls", "turnover", "bad pass", "lost ball", "traveling",
		"steal", "steals", "block", "blocks", "timeout", "violation", "technical", "flagrant",
	},
}

var hockeyKeywords = keywords{
	scoring:  []string{"goal", "scores", "scored"},
	negation: []string{"no goal", "disallowed", "overturned", "on goal", "shot on goal"},
	context: []string{
		"penalty", "power play", "minor", "major", "misconduct", "hooking", "tripping",
		"slashing", "interference", "fighting", "takeaway", "giveaway", "blocked", "timeout", "challenge",
	},
}

var footballKeywords = keywords{
	scoring:  []string{"touchdown", "is good", "safety", "two-point conversion", "2-pt conversion"},
	negation: []string{"no good", "is no good", "nullified", "overturned", "blocked"},
	context: []string{
		"penalty", "fumble", "fumbles", "interception", "intercepted", "sack", "sacked",
		"timeout", "turnover on downs", "challenge",
	},
}

var soccerKeywords = keywords{
	scoring:  []string{"goal", "own goal", "scores"},
	negation: []string{"no goal", "disallowed", "on goal", "goal kick"},
	context: []string{
		"yellow card", "red card", "foul", "offside", "penalty", "var", "handball",
	},
}

var baseballKeywords = keywords{
	scoring:  []string{"homers", "home run", "scores", "grand slam"},
	negation: []string{"out at home"},
	context: []string{
		"error", "stolen base", "steals", "caught stealing", "pitching change", "ejected", "balk", "wild pitch",
	},
}

var genericKeywords = keywords{
	context: []string{"foul", "penalty", "timeout", "turnover"},
}

var registry = map[string]*Profile{}

func register(p *Profile, aliases ...string) {
	registry[strings.ToLower(p.League)] = p
	for _, a := range aliases {
		registry[strings.ToLower(a)] = p
	}
}

func init() {
	basketballStats := []string{"PTS", "REB", "AST"}
	register(newProfile("NBA", Basketball, basketballKeywords, basketballStats, basketballRun, quarterLabels), "basketball_nba")
	register(newProfile("WNBA", Basketball, basketballKeywords, basketballStats, basketballRun, quarterLabels), "basketball_wnba")
	register(newProfile("NCAAB", Basketball, basketballKeywords, basketballStats, basketballRun, halfLabels), "basketball_ncaab", "mens-college-basketball")
	register(newProfile("NHL", Hockey, hockeyKeywords, []string{"G", "A", "SOG"}, hockeyRun, hockeyLabels), "icehockey_nhl")
	register(newProfile("NFL", Football, footballKeywords, []string{"TD", "YDS"}, footballRun, quarterLabels), "americanfootball_nfl")
	register(newProfile("NCAAF", Football, footballKeywords, []string{"TD", "YDS"}, footballRun, quarterLabels), "americanfootball_ncaaf", "college-football")
	register(newProfile("MLS", Soccer, soccerKeywords, []string{"G", "A"}, soccerRun, soccerLabels), "soccer_usa_mls")
	register(newProfile("EPL", Soccer, soccerKeywords, []string{"G", "A"}, soccerRun, soccerLabels), "soccer_epl")
	register(newProfile("MLB", Baseball, baseballKeywords, []string{"R", "H", "RBI"}, baseballRun, inningLabels), "baseball_mlb")
}

var generic = newProfile("GENERIC", Generic, genericKeywords, nil, genericRun, func(p int) string {
	return fmt.Sprintf("P%d", p)
})

// For returns the profile for a league code (case-insensitive, accepts
// odds-feed sport keys like "basketball_nba"). Unknown leagues get a
// generic profile.
func For(league string) *Profile {
	if p, ok := registry[strings.ToLower(strings.TrimSpace(league))]; ok {
		return p
	}
	return generic
}

// Known reports whether a league code has a dedicated profile.
func Known(league string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(league))]
	return ok
}

func quarterLabels(p int) string {
	switch {
	case p <= 4:
		return fmt.Sprintf("Q%d", p)
	case p == 5:
		return "OT"
	default:
		return fmt.Sprintf("%dOT", p-4)
	}
}

func halfLabels(p int) string {
	switch {
	case p <= 2:
		return ordinal(p) + " Half"
	case p == 3:
		return "OT"
	default:
		return fmt.Sprintf("%dOT", p-2)
	}
}

func hockeyLabels(p int) string {
	switch {
	case p <= 3:
		return fmt.Sprintf("Period %d", p)
	case p == 4:
		return "OT"
	default:
		return fmt.Sprintf("%dOT", p-3)
	}
}

func soccerLabels(p int) string {
	switch {
	case p <= 2:
		return ordinal(p) + " Half"
	case p <= 4:
		return "ET"
	default:
		return "PK"
	}
}

func inningLabels(p int) string {
	return ordinal(p)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
