package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carzl/leadradar/pkg/item"
)

func defaultClassifier() *Classifier {
	return New(nil, nil, "")
}

func TestClassifyBounds(t *testing.T) {
	c := defaultClassifier()
	texts := []string{
		"", "hello world", "hot sexy nsfw 18+ gone wild tribute",
		"porn porn porn", "a perfectly normal gardening post",
		"\x00\xff weird bytes", "HOT",
	}
	for _, text := range texts {
		r := c.Classify(text, "label", false)
		assert.GreaterOrEqual(t, r.Confidence, 0, "text %q", text)
		assert.LessOrEqual(t, r.Confidence, 10, "text %q", text)
		assert.Contains(t, []Tier{TierExplicit, TierSuggestive, TierAmbiguous, TierSafe, TierUnknown}, r.Tier)
	}
}

func TestClassifyEmptyTextIsUnknown(t *testing.T) {
	c := defaultClassifier()
	r := c.Classify("", "", false)
	assert.Equal(t, TierUnknown, r.Tier)
	assert.Equal(t, 0, r.Confidence)
}

func TestClassifySafe(t *testing.T) {
	c := defaultClassifier()
	r := c.Classify("how I automated my invoicing with a spreadsheet", "smallbusiness", false)
	assert.Equal(t, TierSafe, r.Tier)
	assert.Equal(t, 0, r.Confidence)
	assert.Empty(t, r.MatchedSignals)
}

func TestClassifyPatternOverride(t *testing.T) {
	c := defaultClassifier()
	r := c.Classify("NSFW 18+ adult content", "pics", false)
	assert.Equal(t, TierExplicit, r.Tier)
	assert.Equal(t, 10, r.Confidence)
}

func TestClassifyTiers(t *testing.T) {
	c := defaultClassifier()
	tests := []struct {
		name string
		text string
		tier Tier
	}{
		{"explicit keyword", "free porn links", TierExplicit},
		{"warning phrase", "mature content ahead", TierSuggestive},
		{"single suggestive", "feeling sexy today", TierSuggestive},
		{"single body", "new lingerie haul", TierAmbiguous},
		{"single community", "tribute requests open", TierAmbiguous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.Classify(tt.text, "", false)
			assert.Equal(t, tt.tier, r.Tier, "confidence %d", r.Confidence)
		})
	}
}

func TestClassifyWeakSignalsEscalate(t *testing.T) {
	c := defaultClassifier()

	// One weak signal stays below the suggestive line.
	single := c.Classify("new lingerie haul", "", false)
	require.Equal(t, TierAmbiguous, single.Tier)

	// Two co-occurring weak signals are jointly suggestive.
	double := c.Classify("lingerie tribute", "", false)
	assert.Equal(t, TierSuggestive, double.Tier)
	assert.GreaterOrEqual(t, double.Confidence, 6)
}

func TestClassifyMatureOverride(t *testing.T) {
	c := New(nil, nil, MatureOverride)
	r := c.Classify("a completely innocuous gardening post", "plants", true)
	assert.Equal(t, TierExplicit, r.Tier)
	assert.Equal(t, 10, r.Confidence)
}

func TestClassifyMatureFloor(t *testing.T) {
	c := New(nil, nil, MatureFloor)
	r := c.Classify("a completely innocuous gardening post", "plants", true)
	assert.Equal(t, TierExplicit, r.Tier)
	assert.Equal(t, 9, r.Confidence)
}

func TestClassifyItemCombinesFields(t *testing.T) {
	c := defaultClassifier()
	n := item.NormalizedItem{
		URL:         "https://example.com/x",
		Title:       "rate me",
		SourceLabel: "gonewild",
	}
	r := c.ClassifyItem(n)
	assert.Equal(t, "https://example.com/x", r.URL)
	assert.Equal(t, TierExplicit, r.Tier, "explicit community label dominates")
}

func TestClassifyNeverPanics(t *testing.T) {
	c := New([]SignalGroup{{Category: "custom", Ceiling: 15, Phrases: []string{"zzz"}}}, nil, "")
	r := c.Classify("zzz", "", false)
	// Ceilings above the scale are clamped.
	assert.Equal(t, 10, r.Confidence)
	assert.Equal(t, TierExplicit, r.Tier)
}
