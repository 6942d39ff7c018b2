package feedreplay

import (
	"errors"
	"fmt"

	"github.com/okian/courtside/internal/domain/model"
)

// VerifyGroups checks a groups view against the feed it was built from:
// concatenated groups reproduce the feed, primary and secondary groups
// hold exactly one event and no two tertiary groups touch.
func VerifyGroups(events []model.TimelineEvent, groups []model.TieredGroup) error {
	var errs []error
	pos := 0
	for gi, g := range groups {
		if len(g.Events) == 0 {
			errs = append(errs, fmt.Errorf("group %d is empty", gi))
			continue
		}
		if g.Tier != model.TierTertiary && len(g.Events) != 1 {
			errs = append(errs, fmt.Errorf("group %d: %s group holds %d events", gi, g.Tier, len(g.Events)))
		}
		if gi > 0 && g.Tier == model.TierTertiary && groups[gi-1].Tier == model.TierTertiary {
			errs = append(errs, fmt.Errorf("group %d: adjacent tertiary groups", gi))
		}
		for _, ev := range g.Events {
			if pos >= len(events) {
				errs = append(errs, fmt.Errorf("group %d: event %d beyond the feed", gi, ev.Index))
				continue
			}
			if ev.Index != events[pos].Index || ev.Description != events[pos].Description {
				errs = append(errs, fmt.Errorf("group %d: got event %d at position %d, want %d", gi, ev.Index, pos, events[pos].Index))
			}
			pos++
		}
	}
	if pos != len(events) {
		errs = append(errs, fmt.Errorf("groups cover %d of %d events", pos, len(events)))
	}
	return errors.Join(errs...)
}

// VerifyMoments checks that moments tile the feed in order and that
// scores chain from 0-0 to the final score.
func VerifyMoments(events []model.TimelineEvent, moments []model.Moment) error {
	if len(events) == 0 {
		if len(moments) != 0 {
			return fmt.Errorf("empty feed produced %d moments", len(moments))
		}
		return nil
	}
	if len(moments) == 0 {
		return errors.New("no moments for a non-empty feed")
	}

	var errs []error
	if first := moments[0]; first.StartIndex != 0 || first.StartScore != (model.Score{}) {
		errs = append(errs, fmt.Errorf("first moment starts at %d with %+v", first.StartIndex, first.StartScore))
	}
	for i, m := range moments {
		if m.EndIndex < m.StartIndex {
			errs = append(errs, fmt.Errorf("moment %d: end %d before start %d", i, m.EndIndex, m.StartIndex))
		}
		if m.Narrative == "" {
			errs = append(errs, fmt.Errorf("moment %d: empty narrative", i))
		}
		if i == 0 {
			continue
		}
		prev := moments[i-1]
		if m.StartIndex != prev.EndIndex+1 {
			errs = append(errs, fmt.Errorf("moment %d: starts at %d after %d", i, m.StartIndex, prev.EndIndex))
		}
		if m.StartScore != prev.EndScore {
			errs = append(errs, fmt.Errorf("moment %d: start score %+v, previous end %+v", i, m.StartScore, prev.EndScore))
		}
	}

	last := moments[len(moments)-1]
	if last.EndIndex != len(events)-1 {
		errs = append(errs, fmt.Errorf("moments end at %d, feed has %d events", last.EndIndex, len(events)))
	}
	if want := FinalScore(events); last.EndScore != want {
		errs = append(errs, fmt.Errorf("final score %+v, want %+v", last.EndScore, want))
	}
	return errors.Join(errs...)
}
