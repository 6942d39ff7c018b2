package tiering

import (
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
)

// Group classifies events in order and collapses consecutive tertiary
// plays into one group. Primary and secondary plays become singleton
// groups. The input must already be sorted by index and is not modified.
func Group(events []model.TimelineEvent, p *sport.Profile) []model.TieredGroup {
	c := NewClassifier(p)
	groups := make([]model.TieredGroup, 0, len(events))

	var pending []model.TimelineEvent
	flush := func() {
		if len(pending) == 0 {
			return
		}
		groups = append(groups, model.TieredGroup{Tier: model.TierTertiary, Events: pending})
		pending = nil
	}

	var running model.Score
	for _, ev := range events {
		tier := c.ClassifyAfter(ev, running)
		running = ev.ScoreAfter(running)

		if tier == model.TierTertiary {
			pending = append(pending, ev)
			continue
		}
		flush()
		groups = append(groups, model.TieredGroup{Tier: tier, Events: []model.TimelineEvent{ev}})
	}
	flush()

	return groups
}

// Flatten concatenates the groups' events in group order.
func Flatten(groups []model.TieredGroup) []model.TimelineEvent {
	n := 0
	for _, g := range groups {
		n += len(g.Events)
	}
	out := make([]model.TimelineEvent, 0, n)
	for _, g := range groups {
		out = append(out, g.Events...)
	}
	return out
}

// Summary counts events and groups per tier.
type Summary struct {
	Groups int                    `json:"groups"`
	Events map[model.PlayTier]int `json:"events"`
}

// Summarize returns per-tier event counts for a grouping.
func Summarize(groups []model.TieredGroup) Summary {
	s := Summary{Groups: len(groups), Events: make(map[model.PlayTier]int, 3)}
	for _, g := range groups {
		s.Events[g.Tier] += len(g.Events)
	}
	return s
}
