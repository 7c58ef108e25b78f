package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carzl/leadradar/pkg/item"
)

func testItem(title, body string) item.NormalizedItem {
	return item.NormalizedItem{
		Platform: item.PlatformReddit,
		URL:      "https://example.com/post",
		Title:    title,
		BodyText: body,
	}
}

func TestScoreNoMatchesIsZero(t *testing.T) {
	// Engagement alone is not evidence of relevance.
	s := NewScorer(DefaultCatalog())
	n := testItem("cat pictures", "look at this cat")
	n.Engagement = item.Engagement{Upvotes: 100, Comments: 20}

	r := s.Score(n)
	assert.Empty(t, r.MatchedKeywords)
	assert.Equal(t, 140, r.EngagementScore)
	assert.Equal(t, 0, r.CompositeScore)
	assert.False(t, r.Relevant())
}

func TestScoreComposite(t *testing.T) {
	catalog := Catalog{
		Keywords: []Keyword{
			{Phrase: "startup", Category: CategoryBusiness},
			{Phrase: "just launched", Category: CategoryLaunch},
		},
		KeywordWeight: 10,
		CommentWeight: 2,
		CategoryBonus: map[string]int{CategoryLaunch: 20},
	}
	s := NewScorer(catalog)

	n := testItem("Just Launched my startup", "")
	n.Engagement = item.Engagement{Upvotes: 30, Comments: 5}

	r := s.Score(n)
	require.Equal(t, []string{"startup", "just launched"}, r.MatchedKeywords)
	// 2 matches * 10 + (30 + 5*2) engagement + 20 launch bonus
	assert.Equal(t, 80, r.CompositeScore)
}

func TestScoreCategoryBonusOncePerCategory(t *testing.T) {
	catalog := Catalog{
		Keywords: []Keyword{
			{Phrase: "launched", Category: CategoryLaunch},
			{Phrase: "shipped", Category: CategoryLaunch},
		},
		KeywordWeight: 10,
		CategoryBonus: map[string]int{CategoryLaunch: 20},
	}
	s := NewScorer(catalog)

	r := s.Score(testItem("launched and shipped", ""))
	// Two matches, one launch bonus.
	assert.Equal(t, 2*10+20, r.CompositeScore)
}

func TestScoreIdempotent(t *testing.T) {
	s := NewScorer(DefaultCatalog())
	n := testItem("My SaaS hit 5k MRR", "automation workflow for freelancers")
	n.Engagement = item.Engagement{Upvotes: 12, Comments: 4}

	first := s.Score(n)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Score(n))
	}
}

func TestScoreSourceLabelPerPlatform(t *testing.T) {
	catalog := Catalog{
		Keywords:       []Keyword{{Phrase: "entrepreneur", Category: CategoryBusiness}},
		LabelPlatforms: []item.Platform{item.PlatformReddit},
	}
	s := NewScorer(catalog)

	reddit := testItem("need advice", "")
	reddit.SourceLabel = "Entrepreneur"
	assert.True(t, s.Score(reddit).Relevant(), "reddit sourceLabel joins the match text")

	tweet := reddit
	tweet.Platform = item.PlatformTwitter
	assert.False(t, s.Score(tweet).Relevant(), "twitter sourceLabel does not")
}

func TestSortScoredOrdering(t *testing.T) {
	early := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	scored := []Scored{
		{Item: item.NormalizedItem{URL: "c", ObservedAt: late}, Result: Result{CompositeScore: 50, EngagementScore: 10}},
		{Item: item.NormalizedItem{URL: "a", ObservedAt: late}, Result: Result{CompositeScore: 90, EngagementScore: 10}},
		{Item: item.NormalizedItem{URL: "d", ObservedAt: early}, Result: Result{CompositeScore: 50, EngagementScore: 10}},
		{Item: item.NormalizedItem{URL: "b", ObservedAt: early}, Result: Result{CompositeScore: 50, EngagementScore: 40}},
	}

	SortScored(scored)

	var urls []string
	for _, s := range scored {
		urls = append(urls, s.Item.URL)
	}
	// Composite desc, then engagement desc, then earliest observation.
	assert.Equal(t, []string{"a", "b", "d", "c"}, urls)
}
