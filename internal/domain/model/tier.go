package model

// PlayTier controls the default visibility of a play.
type PlayTier string

// Tiers in decreasing importance.
const (
	TierPrimary   PlayTier = "primary"
	TierSecondary PlayTier = "secondary"
	TierTertiary  PlayTier = "tertiary"
)

// TieredGroup is a run of events sharing a tier. Primary and secondary
// groups always hold exactly one event.
type TieredGroup struct {
	Tier   PlayTier        `json:"tier"`
	Events []TimelineEvent `json:"events"`
}

// Len returns the number of events in the group.
func (g TieredGroup) Len() int { return len(g.Events) }

// FirstIndex returns the index of the first event, or -1 for an empty group.
func (g TieredGroup) FirstIndex() int {
	if len(g.Events) == 0 {
		return -1
	}
	return g.Events[0].Index
}

// LastIndex returns the index of the last event, or -1 for an empty group.
func (g TieredGroup) LastIndex() int {
	if len(g.Events) == 0 {
		return -1
	}
	return g.Events[len(g.Events)-1].Index
}
