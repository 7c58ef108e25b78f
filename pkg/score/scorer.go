package score

import (
	"sort"
	"strings"

	"github.com/carzl/leadradar/pkg/item"
)

// Result is the relevance score for a single item.
type Result struct {
	URL             string   `json:"url"`
	MatchedKeywords []string `json:"matched_keywords"`
	EngagementScore int      `json:"engagement_score"`
	CompositeScore  int      `json:"composite_score"`
}

// Relevant reports whether the item qualifies for downstream processing.
// Engagement alone is never evidence of relevance: an item with no keyword
// matches always has a zero composite score.
func (r Result) Relevant() bool {
	return r.CompositeScore > 0
}

// Scorer scores normalized items against a keyword catalog.
// It is a pure function of (item, catalog): identical inputs always
// produce identical results, and scoring never fails.
type Scorer struct {
	catalog Catalog
}

// NewScorer creates a scorer for the given catalog.
func NewScorer(catalog Catalog) *Scorer {
	return &Scorer{catalog: catalog.normalized()}
}

// Score computes the relevance score for one item.
func (s *Scorer) Score(n item.NormalizedItem) Result {
	text := strings.ToLower(n.Title + " " + n.BodyText)
	if s.catalog.matchesLabel(n.Platform) {
		text += " " + strings.ToLower(n.SourceLabel)
	}

	var matched []string
	bonus := 0
	seenCategory := make(map[string]bool)
	for _, kw := range s.catalog.Keywords {
		if kw.Phrase == "" || !strings.Contains(text, kw.Phrase) {
			continue
		}
		matched = append(matched, kw.Phrase)
		if b, ok := s.catalog.CategoryBonus[kw.Category]; ok && !seenCategory[kw.Category] {
			bonus += b
			seenCategory[kw.Category] = true
		}
	}

	engagement := n.EngagementScore(s.catalog.CommentWeight)

	result := Result{
		URL:             n.URL,
		MatchedKeywords: matched,
		EngagementScore: engagement,
	}
	if len(matched) == 0 {
		return result // composite stays 0, item excluded downstream
	}

	result.CompositeScore = len(matched)*s.catalog.KeywordWeight + engagement + bonus
	return result
}

// EngagementScore exposes the scorer's engagement computation so the
// velocity stage compares the same value the scorer used.
func (s *Scorer) EngagementScore(n item.NormalizedItem) int {
	return n.EngagementScore(s.catalog.CommentWeight)
}

// Scored pairs an item with its score for ordering.
type Scored struct {
	Item   item.NormalizedItem
	Result Result
}

// SortScored orders qualifying items deterministically: composite score
// descending, ties broken by higher raw engagement, then by earliest
// observation time.
func SortScored(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Result.CompositeScore != b.Result.CompositeScore {
			return a.Result.CompositeScore > b.Result.CompositeScore
		}
		if a.Result.EngagementScore != b.Result.EngagementScore {
			return a.Result.EngagementScore > b.Result.EngagementScore
		}
		return a.Item.ObservedAt.Before(b.Item.ObservedAt)
	})
}
