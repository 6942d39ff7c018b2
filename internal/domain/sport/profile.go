// Package sport holds per-league configuration: period labels, play
// keyword sets, box-score key stats and run thresholds. A Profile is
// selected once per game by league code so the classifier and segmenter
// stay sport-agnostic.
package sport

import (
	"regexp"
	"strings"
)

// Family groups leagues that share rules.
type Family string

// Supported sport families.
const (
	Basketball Family = "basketball"
	Hockey     Family = "hockey"
	Football   Family = "football"
	Soccer     Family = "soccer"
	Baseball   Family = "baseball"
	Generic    Family = "generic"
)

// Profile is an immutable per-league strategy record.
type Profile struct {
	League       string
	Family       Family
	KeyStats     []string
	RunThreshold int

	periodLabel func(period int) string
	scoring     *regexp.Regexp
	negation    *regexp.Regexp
	context     *regexp.Regexp
}

// keywords is the raw material a Profile is compiled from.
type keywords struct {
	scoring  []string
	negation []string
	context  []string
}

func newProfile(league string, family Family, kw keywords, keyStats []string, runThreshold int, labels func(int) string) *Profile {
	return &Profile{
		League:       league,
		Family:       family,
		KeyStats:     keyStats,
		RunThreshold: runThreshold,
		periodLabel:  labels,
		scoring:      compileKeywords(kw.scoring),
		negation:     compileKeywords(kw.negation),
		context:      compileKeywords(kw.context),
	}
}

// compileKeywords builds one case-insensitive, word-bounded alternation.
// An empty list yields nil, which never matches.
func compileKeywords(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func matches(re *regexp.Regexp, s string) bool {
	return re != nil && s != "" && re.MatchString(s)
}

// IsScoringAction reports whether the description reads as a completed
// scoring action. Negations ("misses", "no good") veto a keyword hit.
func (p *Profile) IsScoringAction(desc string) bool {
	return matches(p.scoring, desc) && !matches(p.negation, desc)
}

// IsContextAction reports whether the description is a fouls/turnovers/
// penalties style play worth showing on its own.
func (p *Profile) IsContextAction(desc string) bool {
	return matches(p.context, desc)
}

// PeriodLabel formats a period number. Zero yields "".
func (p *Profile) PeriodLabel(period int) string {
	if period <= 0 {
		return ""
	}
	return p.periodLabel(period)
}

// WithRunThreshold returns a copy of the profile with a different run
// threshold. Non-positive values keep the current one.
func (p *Profile) WithRunThreshold(n int) *Profile {
	if n <= 0 || n == p.RunThreshold {
		return p
	}
	cp := *p
	cp.RunThreshold = n
	return &cp
}
