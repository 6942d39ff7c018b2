package segment

import (
	"sort"

	"github.com/okian/courtside/internal/domain/model"
)

// boxScore lists each team's top contributors inside one moment. state is
// the cumulative state at the moment's end, delta what changed inside it.
func (s *Segmenter) boxScore(state, delta model.BoxScoreState) *model.BoxScore {
	teams := make([]string, 0, len(delta))
	for team := range delta {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool {
		ri, rj := s.teamRank(teams[i]), s.teamRank(teams[j])
		if ri != rj {
			return ri < rj
		}
		return teams[i] < teams[j]
	})

	box := &model.BoxScore{Teams: make([]model.TeamContributors, 0, len(teams))}
	if s.topPlayers == 0 {
		return box
	}
	for _, team := range teams {
		lines := make([]model.PlayerLine, 0, len(delta[team]))
		for player, changed := range delta[team] {
			lines = append(lines, model.PlayerLine{
				Player: player,
				Team:   team,
				Stats:  copyStats(state[team][player]),
				Delta:  copyStats(changed),
			})
		}
		sort.Slice(lines, func(i, j int) bool {
			wi, wj := s.weight(lines[i].Delta), s.weight(lines[j].Delta)
			if wi != wj {
				return wi > wj
			}
			return lines[i].Player < lines[j].Player
		})
		if len(lines) > s.topPlayers {
			lines = lines[:s.topPlayers]
		}
		box.Teams = append(box.Teams, model.TeamContributors{Team: team, Players: lines})
	}
	return box
}

// weight sums a delta over the profile's key stats, or over every stat
// when the profile names none.
func (s *Segmenter) weight(delta map[string]int) int {
	total := 0
	if len(s.profile.KeyStats) == 0 {
		for _, v := range delta {
			total += v
		}
		return total
	}
	for _, stat := range s.profile.KeyStats {
		total += delta[stat]
	}
	return total
}

// teamRank orders home first, away second and everyone else after.
func (s *Segmenter) teamRank(team string) int {
	switch {
	case team != "" && (team == s.game.HomeAbbr || team == s.game.HomeTeam):
		return 0
	case team != "" && (team == s.game.AwayAbbr || team == s.game.AwayTeam):
		return 1
	default:
		return 2
	}
}

func copyStats(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
