// Package segment partitions a game timeline into narrative moments bounded
// by period transitions, lead changes and scoring runs.
package segment

import (
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
)

// Segmenter splits an ordered feed into moments. It holds configuration
// only and is safe for concurrent use.
type Segmenter struct {
	profile      *sport.Profile
	game         model.Game
	runWindow    int
	runThreshold int
	maxEvents    int
	topPlayers   int
}

// New creates a Segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		runWindow:  defaultRunWindow,
		topPlayers: defaultTopPlayers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.profile == nil {
		s.profile = sport.For(s.game.League)
	}
	if s.runThreshold == 0 {
		s.runThreshold = s.profile.RunThreshold
	}
	return s
}

// Segment is a convenience wrapper around New(opts...).Segment.
func Segment(events []model.TimelineEvent, prior model.BoxScoreState, opts ...Option) []model.Moment {
	return New(opts...).Segment(events, prior)
}

// swing is one event's contribution to the score.
type swing struct {
	home, away int
}

// cursor is the in-progress moment.
type cursor struct {
	open       bool
	start      int
	period     int
	label      string
	labelled   bool // label came from an event with a period or label
	startClock string
	endClock   string
	startScore model.Score
	count      int
	window     []swing
	delta      model.BoxScoreState
}

// Segment partitions events, which must be sorted by index, into
// contiguous moments. prior is the box-score state before the first event;
// when it is nil moments carry no box score. The input is not modified.
func (s *Segmenter) Segment(events []model.TimelineEvent, prior model.BoxScoreState) []model.Moment {
	moments := make([]model.Moment, 0, 8)
	if len(events) == 0 {
		return moments
	}

	state := prior.Clone()
	var (
		cur     cursor
		running model.Score
		period  int
		leader  int // last non-zero leader
	)

	closeMoment := func(end int, reason model.MomentReason, notable bool) {
		label := cur.label
		if !cur.labelled {
			label = s.profile.PeriodLabel(cur.period)
		}
		m := model.Moment{
			StartIndex:  cur.start,
			EndIndex:    end,
			Period:      cur.period,
			PeriodLabel: label,
			StartClock:  cur.startClock,
			EndClock:    cur.endClock,
			StartScore:  cur.startScore,
			EndScore:    running,
			IsNotable:   notable,
			Reason:      reason,
		}
		if state != nil {
			m.BoxScore = s.boxScore(state, cur.delta)
		}
		m.Narrative = s.narrative(m, cur.window)
		moments = append(moments, m)
		cur = cursor{}
	}

	for i, ev := range events {
		p := ev.Period
		if p <= 0 {
			p = period
		}
		if cur.open && p != period {
			closeMoment(i-1, model.ReasonPeriodStart, false)
		}
		period = p

		if !cur.open {
			cur = cursor{open: true, start: i, period: p, startScore: running}
			if state != nil {
				cur.delta = model.BoxScoreState{}
			}
		}
		if !cur.labelled && (ev.Period > 0 || ev.PeriodLabel != "") {
			cur.label = ev.PeriodLabel
			if cur.label == "" {
				cur.label = s.profile.PeriodLabel(p)
			}
			cur.labelled = true
		}
		if ev.Clock != "" {
			if cur.startClock == "" {
				cur.startClock = ev.Clock
			}
			cur.endClock = ev.Clock
		}

		before := running
		running = ev.ScoreAfter(running)
		if state != nil {
			for _, c := range ev.Credits {
				state.Apply(c)
				cur.delta.Apply(c)
			}
		}
		cur.count++
		cur.window = append(cur.window, swing{home: running.Home - before.Home, away: running.Away - before.Away})
		if len(cur.window) > s.runWindow {
			cur.window = cur.window[1:]
		}

		leadChanged := false
		if running != before {
			if now := running.Leader(); now != 0 {
				leadChanged = leader != 0 && now != leader
				leader = now
			}
		}

		switch {
		case leadChanged:
			closeMoment(i, model.ReasonLeadChange, true)
		case s.isRun(cur.window):
			closeMoment(i, model.ReasonScoringRun, true)
		case s.maxEvents > 0 && cur.count >= s.maxEvents:
			closeMoment(i, model.ReasonSizeLimit, false)
		}
	}
	if cur.open {
		closeMoment(len(events)-1, model.ReasonEnd, false)
	}

	return moments
}

// isRun reports whether the net differential over the window reaches the
// run threshold for either side.
func (s *Segmenter) isRun(window []swing) bool {
	if s.runThreshold <= 0 {
		return false
	}
	home, away := netSwing(window)
	diff := home - away
	if diff < 0 {
		diff = -diff
	}
	return diff >= s.runThreshold
}

func netSwing(window []swing) (home, away int) {
	for _, w := range window {
		home += w.home
		away += w.away
	}
	return home, away
}
