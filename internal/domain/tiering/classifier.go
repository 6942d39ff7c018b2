// Package tiering classifies plays by importance and folds runs of
// low-signal plays into collapsible groups.
package tiering

import (
	"github.com/okian/courtside/internal/domain/model"
	"github.com/okian/courtside/internal/domain/sport"
)

// Classifier assigns tiers using one sport profile.
type Classifier struct {
	profile *sport.Profile
}

// NewClassifier returns a classifier for the profile. A nil profile uses
// the generic one.
func NewClassifier(p *sport.Profile) *Classifier {
	if p == nil {
		p = sport.For("")
	}
	return &Classifier{profile: p}
}

// Classify assigns a tier from the description alone.
func (c *Classifier) Classify(ev model.TimelineEvent) model.PlayTier {
	return c.classify(ev, false)
}

// ClassifyAfter assigns a tier using prior, the cumulative score before the
// event, as corroboration. A score field equal to prior never promotes a
// play by itself.
func (c *Classifier) ClassifyAfter(ev model.TimelineEvent, prior model.Score) model.PlayTier {
	return c.classify(ev, ev.HasScore() && ev.ScoreAfter(prior) != prior)
}

func (c *Classifier) classify(ev model.TimelineEvent, scoreChanged bool) model.PlayTier {
	if !ev.IsPlay() {
		// posts and odds are always shown on their own
		return model.TierSecondary
	}
	if scoreChanged || c.profile.IsScoringAction(ev.Description) {
		return model.TierPrimary
	}
	if c.profile.IsContextAction(ev.Description) {
		return model.TierSecondary
	}
	return model.TierTertiary
}

// Classify is a convenience wrapper for one-off classification.
func Classify(ev model.TimelineEvent, p *sport.Profile) model.PlayTier {
	return NewClassifier(p).Classify(ev)
}
