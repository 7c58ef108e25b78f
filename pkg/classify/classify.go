// Package classify implements a tiered heuristic content classifier.
//
// Signals are organized in ordered tiers with per-category confidence
// ceilings, plus a small set of high-precision patterns that force a fixed
// high confidence on match. The combination rule is max over matched
// ceilings, with one escalation: two or more matched signals across all
// tiers are jointly treated as at least suggestive evidence, even when no
// single match crosses that line on its own.
package classify

import (
	"strings"

	"github.com/carzl/leadradar/pkg/item"
)

// Tier is the classifier's output category.
type Tier string

const (
	TierExplicit   Tier = "EXPLICIT"
	TierSuggestive Tier = "SUGGESTIVE"
	TierAmbiguous  Tier = "AMBIGUOUS"
	TierSafe       Tier = "SAFE"
	TierUnknown    Tier = "UNKNOWN"
)

// MaturePolicy controls how a platform's own adult/mature flag interacts
// with text-derived signals.
type MaturePolicy string

const (
	// MatureOverride short-circuits to EXPLICIT with confidence 10.
	MatureOverride MaturePolicy = "override"
	// MatureFloor keeps text classification but floors confidence at 9.
	MatureFloor MaturePolicy = "floor"
)

// SignalGroup is one tier of catalog phrases with a confidence ceiling.
type SignalGroup struct {
	Category string   `yaml:"category" json:"category"`
	Ceiling  int      `yaml:"ceiling" json:"ceiling"`
	Phrases  []string `yaml:"phrases" json:"phrases"`
}

// Override is a high-precision pattern that forces confidence directly to
// a fixed value, independent of tier sums.
type Override struct {
	Name       string   `yaml:"name" json:"name"`
	Confidence int      `yaml:"confidence" json:"confidence"`
	Phrases    []string `yaml:"phrases" json:"phrases"`
}

// Match records one matched signal with its category tag.
type Match struct {
	Category string `json:"category"`
	Phrase   string `json:"phrase"`
}

// Result is the classification outcome for a single item.
type Result struct {
	URL            string  `json:"url"`
	Tier           Tier    `json:"tier"`
	Confidence     int     `json:"confidence"`
	MatchedSignals []Match `json:"matched_signals"`
}

// Classifier classifies text using the configured signal catalog.
// Classification never fails: arbitrary or empty text is always a valid
// input, and the result tier for empty text is UNKNOWN.
type Classifier struct {
	signals   []SignalGroup
	overrides []Override
	policy    MaturePolicy

	// escalation is the floor applied when >=2 signals match in total.
	escalation int
}

// New creates a classifier. Zero-value catalogs fall back to the defaults,
// and an empty policy defaults to MatureOverride.
func New(signals []SignalGroup, overrides []Override, policy MaturePolicy) *Classifier {
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	if len(overrides) == 0 {
		overrides = DefaultOverrides()
	}
	if policy == "" {
		policy = MatureOverride
	}

	lowered := make([]SignalGroup, len(signals))
	escalation := 0
	for i, g := range signals {
		lowered[i] = SignalGroup{Category: g.Category, Ceiling: g.Ceiling, Phrases: lowerAll(g.Phrases)}
		if g.Category == CategorySuggestive {
			escalation = g.Ceiling
		}
	}
	if escalation == 0 {
		escalation = 6
	}

	loweredOv := make([]Override, len(overrides))
	for i, o := range overrides {
		loweredOv[i] = Override{Name: o.Name, Confidence: o.Confidence, Phrases: lowerAll(o.Phrases)}
	}

	return &Classifier{
		signals:    lowered,
		overrides:  loweredOv,
		policy:     policy,
		escalation: escalation,
	}
}

// ClassifyItem classifies a normalized item, combining its title, body
// text, and source label into the match text.
func (c *Classifier) ClassifyItem(n item.NormalizedItem) Result {
	r := c.Classify(n.Title+" "+n.BodyText, n.SourceLabel, n.Mature)
	r.URL = n.URL
	return r
}

// Classify classifies body text plus an identifying label (community,
// channel, or feed name). mature is the platform's own out-of-band
// adult-content declaration.
func (c *Classifier) Classify(text, label string, mature bool) Result {
	if mature && c.policy == MatureOverride {
		// The platform's own declaration is ground truth over heuristics.
		return Result{
			Tier:           TierExplicit,
			Confidence:     10,
			MatchedSignals: []Match{{Category: "platform", Phrase: "mature flag"}},
		}
	}

	combined := strings.ToLower(strings.TrimSpace(text + " " + label))
	if combined == "" {
		return Result{Tier: TierUnknown, Confidence: 0}
	}

	confidence := 0
	var matches []Match

	for _, ov := range c.overrides {
		for _, phrase := range ov.Phrases {
			if strings.Contains(combined, phrase) {
				matches = append(matches, Match{Category: ov.Name, Phrase: phrase})
				confidence = max(confidence, ov.Confidence)
			}
		}
	}

	tierMatches := 0
	for _, g := range c.signals {
		for _, phrase := range g.Phrases {
			if strings.Contains(combined, phrase) {
				matches = append(matches, Match{Category: g.Category, Phrase: phrase})
				confidence = max(confidence, g.Ceiling)
				tierMatches++
			}
		}
	}

	// Co-occurring weak signals are jointly stronger evidence than any
	// one of them alone.
	if tierMatches >= 2 {
		confidence = max(confidence, c.escalation)
	}

	if mature && c.policy == MatureFloor {
		matches = append(matches, Match{Category: "platform", Phrase: "mature flag"})
		confidence = max(confidence, 9)
	}

	if confidence > 10 {
		confidence = 10
	}

	return Result{
		Tier:           tierFor(confidence),
		Confidence:     confidence,
		MatchedSignals: matches,
	}
}

func tierFor(confidence int) Tier {
	switch {
	case confidence >= 9:
		return TierExplicit
	case confidence >= 6:
		return TierSuggestive
	case confidence >= 1:
		return TierAmbiguous
	default:
		return TierSafe
	}
}

func lowerAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToLower(p)
	}
	return out
}
