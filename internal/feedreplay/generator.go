package feedreplay

import (
	"fmt"
	"math/rand"

	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
)

// Feed is one synthetic game: metadata plus its full ordered timeline.
type Feed struct {
	Game   model.Game            `json:"game"`
	Events []model.TimelineEvent `json:"events"`
}

// roster is one side of a generated matchup.
type roster struct {
	team    string
	players []string
}

var matchups = map[sport.Family][2]roster{
	sport.Basketball: {
		{team: "Boston Celtics", players: []string{"Tatum", "Brown", "White", "Holiday"}},
		{team: "Los Angeles Lakers", players: []string{"James", "Davis", "Reaves", "Russell"}},
	},
	sport.Hockey: {
		{team: "Boston Bruins", players: []string{"Pastrnak", "Marchand", "Coyle", "McAvoy"}},
		{team: "Toronto Maple Leafs", players: []string{"Matthews", "Marner", "Nylander", "Rielly"}},
	},
}

// sportShape is what the generator needs to know about a family.
type sportShape struct {
	periods       int
	periodSeconds int
}

var shapes = map[sport.Family]sportShape{
	sport.Basketball: {periods: 4, periodSeconds: 12 * 60},
	sport.Hockey:     {periods: 3, periodSeconds: 20 * 60},
}

// Generate builds a deterministic feed for a game. Two pre-game posts open
// the timeline and one post-game post closes it; everything between is
// spread evenly over the periods. Only basketball and hockey leagues are
// supported; other leagues are generated as basketball.
func Generate(rng *rand.Rand, id, league string, n int) Feed {
	family := sport.For(league).Family
	if _, ok := shapes[family]; !ok {
		family = sport.Basketball
	}
	shape, sides := shapes[family], matchups[family]

	game := model.Game{
		ID:       id,
		League:   league,
		HomeTeam: sides[0].team,
		AwayTeam: sides[1].team,
		HomeAbbr: sport.Abbreviation(league, sides[0].team),
		AwayAbbr: sport.Abbreviation(league, sides[1].team),
	}

	if n < 4 {
		n = 4
	}
	events := make([]model.TimelineEvent, 0, n)
	post := func(text string) {
		events = append(events, model.TimelineEvent{Kind: model.KindSocialPost, Index: len(events), Description: text})
	}

	post(fmt.Sprintf("%s vs %s tonight", game.AwayAbbr, game.HomeAbbr))
	post("Starting lineups are out")

	var score model.Score
	plays := n - 3
	perPeriod := (plays + shape.periods - 1) / shape.periods
	for i := 0; i < plays; i++ {
		period := 1 + i/perPeriod
		elapsed := (i % perPeriod) * shape.periodSeconds / perPeriod
		remaining := shape.periodSeconds - elapsed
		ev := model.TimelineEvent{
			Kind:   model.KindPlay,
			Index:  len(events),
			Period: period,
			Clock:  fmt.Sprintf("%d:%02d", remaining/60, remaining%60),
		}
		if family == sport.Hockey {
			hockeyPlay(rng, &ev, game, sides, &score)
		} else {
			basketballPlay(rng, &ev, game, sides, &score)
		}
		events = append(events, ev)
	}

	post(fmt.Sprintf("Final: %s %d, %s %d", game.AwayAbbr, score.Away, game.HomeAbbr, score.Home))

	return Feed{Game: game, Events: events}
}

// side picks a team and returns its abbreviation, roster and whether it is home.
func side(rng *rand.Rand, g model.Game, sides [2]roster) (string, roster, bool) {
	if rng.Intn(2) == 0 {
		return g.HomeAbbr, sides[0], true
	}
	return g.AwayAbbr, sides[1], false
}

func pick(rng *rand.Rand, players []string) string {
	return players[rng.Intn(len(players))]
}

func scored(ev *model.TimelineEvent, score *model.Score, home bool, pts int) {
	if home {
		score.Home += pts
	} else {
		score.Away += pts
	}
	ev.HomeScore, ev.AwayScore = model.IntPtr(score.Home), model.IntPtr(score.Away)
}

func basketballPlay(rng *rand.Rand, ev *model.TimelineEvent, g model.Game, sides [2]roster, score *model.Score) {
	abbr, r, home := side(rng, g, sides)
	ev.Team = abbr
	shooter := pick(rng, r.players)

	switch roll := rng.Intn(100); {
	case roll < 30:
		pts, shot := 2, "driving layup"
		if rng.Intn(3) == 0 {
			pts, shot = 3, "3-pt jump shot"
		}
		ev.Description = fmt.Sprintf("%s makes %s", shooter, shot)
		ev.Credits = []model.StatCredit{{Player: shooter, Team: abbr, Stat: "PTS", Value: pts}}
		if passer := pick(rng, r.players); passer != shooter && rng.Intn(2) == 0 {
			ev.Description += fmt.Sprintf(" (%s assists)", passer)
			ev.Credits = append(ev.Credits, model.StatCredit{Player: passer, Team: abbr, Stat: "AST", Value: 1})
		}
		scored(ev, score, home, pts)
	case roll < 38:
		ev.Description = fmt.Sprintf("%s free throw made", shooter)
		ev.Credits = []model.StatCredit{{Player: shooter, Team: abbr, Stat: "PTS", Value: 1}}
		scored(ev, score, home, 1)
	case roll < 58:
		ev.Description = fmt.Sprintf("%s misses %d-foot jumper", shooter, 8+rng.Intn(20))
	case roll < 73:
		ev.Description = fmt.Sprintf("%s defensive rebound", shooter)
		ev.Credits = []model.StatCredit{{Player: shooter, Team: abbr, Stat: "REB", Value: 1}}
	case roll < 81:
		ev.Description = fmt.Sprintf("%s personal foul", shooter)
	case roll < 87:
		ev.Description = fmt.Sprintf("%s bad pass turnover", shooter)
	case roll < 92:
		ev.Kind = model.KindOddsUpdate
		ev.Description = fmt.Sprintf("%s moneyline moves to %+d", abbr, -110-rng.Intn(200))
		ev.Team = ""
	case roll < 96:
		ev.Kind = model.KindSocialPost
		ev.Description = fmt.Sprintf("What a sequence from %s", shooter)
	default:
		ev.Description = fmt.Sprintf("%s full timeout", r.team)
	}
}

func hockeyPlay(rng *rand.Rand, ev *model.TimelineEvent, g model.Game, sides [2]roster, score *model.Score) {
	abbr, r, home := side(rng, g, sides)
	ev.Team = abbr
	skater := pick(rng, r.players)

	switch roll := rng.Intn(100); {
	case roll < 6:
		ev.Description = fmt.Sprintf("%s scores, wrist shot", skater)
		ev.Credits = []model.StatCredit{
			{Player: skater, Team: abbr, Stat: "G", Value: 1},
			{Player: skater, Team: abbr, Stat: "SOG", Value: 1},
		}
		if helper := pick(rng, r.players); helper != skater {
			ev.Credits = append(ev.Credits, model.StatCredit{Player: helper, Team: abbr, Stat: "A", Value: 1})
		}
		scored(ev, score, home, 1)
	case roll < 36:
		ev.Description = fmt.Sprintf("%s shot on goal, saved", skater)
		ev.Credits = []model.StatCredit{{Player: skater, Team: abbr, Stat: "SOG", Value: 1}}
	case roll < 60:
		ev.Description = fmt.Sprintf("Faceoff won by %s", skater)
	case roll < 70:
		ev.Description = fmt.Sprintf("%s minor penalty for hooking", skater)
	case roll < 80:
		ev.Description = fmt.Sprintf("%s takeaway", skater)
	case roll < 88:
		ev.Description = fmt.Sprintf("%s shot blocked", skater)
	case roll < 94:
		ev.Kind = model.KindOddsUpdate
		ev.Description = fmt.Sprintf("%s puck line %+.1f", abbr, 1.5)
		ev.Team = ""
	default:
		ev.Kind = model.KindSocialPost
		ev.Description = fmt.Sprintf("%s is flying tonight", skater)
	}
}

// Batches shuffles a copy of events and cuts it into batches of size.
func Batches(rng *rand.Rand, events []model.TimelineEvent, size int) [][]model.TimelineEvent {
	if size < 1 {
		size = 1
	}
	shuffled := make([]model.TimelineEvent, len(events))
	copy(shuffled, events)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	out := make([][]model.TimelineEvent, 0, (len(shuffled)+size-1)/size)
	for start := 0; start < len(shuffled); start += size {
		end := start + size
		if end > len(shuffled) {
			end = len(shuffled)
		}
		out = append(out, shuffled[start:end])
	}
	return out
}

// FinalScore returns the running score after the last event.
func FinalScore(events []model.TimelineEvent) model.Score {
	var s model.Score
	for i := range events {
		s = events[i].ScoreAfter(s)
	}
	return s
}
