package score

import (
	"strings"

	"github.com/carzl/leadradar/pkg/item"
)

// Keyword category names. Categories in the bonus table are treated as
// high-value: a match adds a fixed bonus on top of the per-keyword weight.
const (
	CategoryBusiness = "business"
	CategoryTooling  = "tooling"
	CategoryAsk      = "ask"
	CategoryLaunch   = "launch"
	CategoryRevenue  = "revenue"
)

// Keyword is a catalog phrase with its category tag.
type Keyword struct {
	Phrase   string `yaml:"phrase" json:"phrase"`
	Category string `yaml:"category" json:"category"`
}

// Catalog is the keyword/weight configuration the scorer runs against.
// It is supplied externally; DefaultCatalog gives a usable baseline.
type Catalog struct {
	Keywords []Keyword `yaml:"keywords" json:"keywords"`

	// KeywordWeight is the per-match contribution to the composite score.
	KeywordWeight int `yaml:"keyword_weight" json:"keyword_weight"`

	// CommentWeight is how many upvote-equivalents a comment is worth.
	CommentWeight int `yaml:"comment_weight" json:"comment_weight"`

	// CategoryBonus adds a flat amount when a matched keyword belongs to
	// the named category.
	CategoryBonus map[string]int `yaml:"category_bonus" json:"category_bonus"`

	// LabelPlatforms lists platforms whose sourceLabel (subreddit,
	// channel, feed name) participates in keyword matching.
	LabelPlatforms []item.Platform `yaml:"label_platforms" json:"label_platforms"`
}

// DefaultCatalog returns the baseline business-lead catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		Keywords:      DefaultKeywords(),
		KeywordWeight: 10,
		CommentWeight: 2,
		CategoryBonus: map[string]int{
			CategoryLaunch:  20,
			CategoryRevenue: 20,
		},
		LabelPlatforms: []item.Platform{item.PlatformReddit, item.PlatformMoltbook},
	}
}

// DefaultKeywords is the baseline phrase list for business-lead detection.
func DefaultKeywords() []Keyword {
	business := []string{
		"entrepreneur", "small business", "startup", "saas",
		"side hustle", "passive income", "ecommerce", "freelance",
		"consulting", "agency", "marketing", "digital nomad",
	}
	tooling := []string{
		"automation", "workflow", "productivity", "no code", "nocode",
		"api", "integration", "spreadsheet", "crm",
	}
	ask := []string{
		"how do i", "looking for a tool", "is there a tool",
		"any recommendations", "what do you use", "need help with",
		"tired of doing", "manually",
	}
	launch := []string{
		"just launched", "launched", "shipping", "shipped", "released",
		"building in public",
	}
	revenue := []string{
		"revenue", "mrr", "arr", "paying customers", "first customer",
	}

	var kws []Keyword
	add := func(category string, phrases []string) {
		for _, p := range phrases {
			kws = append(kws, Keyword{Phrase: p, Category: category})
		}
	}
	add(CategoryBusiness, business)
	add(CategoryTooling, tooling)
	add(CategoryAsk, ask)
	add(CategoryLaunch, launch)
	add(CategoryRevenue, revenue)
	return kws
}

// matchesLabel reports whether p's sourceLabel should join the match text.
func (c Catalog) matchesLabel(p item.Platform) bool {
	for _, lp := range c.LabelPlatforms {
		if lp == p {
			return true
		}
	}
	return false
}

// normalized returns the catalog with phrases lowercased and defaults
// applied, so matching is case-insensitive and weights are never zero.
func (c Catalog) normalized() Catalog {
	out := c
	out.Keywords = make([]Keyword, len(c.Keywords))
	for i, kw := range c.Keywords {
		out.Keywords[i] = Keyword{
			Phrase:   strings.ToLower(kw.Phrase),
			Category: kw.Category,
		}
	}
	if out.KeywordWeight == 0 {
		out.KeywordWeight = 10
	}
	if out.CommentWeight == 0 {
		out.CommentWeight = 2
	}
	return out
}
