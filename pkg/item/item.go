package item

import (
	"time"
)

// Platform identifies which platform an item was scraped from.
type Platform string

const (
	PlatformReddit   Platform = "reddit"
	PlatformTwitter  Platform = "twitter"
	PlatformYouTube  Platform = "youtube"
	PlatformMoltbook Platform = "moltbook"
	PlatformRSS      Platform = "rss"
)

// AllPlatforms returns all known platforms.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformReddit,
		PlatformTwitter,
		PlatformYouTube,
		PlatformMoltbook,
		PlatformRSS,
	}
}

// Valid reports whether p is a member of the closed platform set.
func (p Platform) Valid() bool {
	switch p {
	case PlatformReddit, PlatformTwitter, PlatformYouTube, PlatformMoltbook, PlatformRSS:
		return true
	}
	return false
}

// Engagement holds the raw engagement counters a scraper observed.
// Platforms without separate upvote/comment counts report RawScore only.
type Engagement struct {
	Upvotes  int `json:"upvotes"`
	Comments int `json:"comments"`
	RawScore int `json:"raw_score"`
}

// RawItem is a platform-specific record as delivered by a scraper adapter,
// prior to normalization.
type RawItem struct {
	Platform    string     `json:"platform"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	BodyText    string     `json:"body_text"`
	SourceLabel string     `json:"source_label"`
	Engagement  Engagement `json:"engagement"`
	Mature      bool       `json:"mature"`
	ObservedAt  time.Time  `json:"observed_at"`
}

// NormalizedItem is the canonical cross-platform representation.
// URL is the identity key: unique per item instance within a run.
type NormalizedItem struct {
	Platform    Platform   `json:"platform"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	BodyText    string     `json:"body_text"`
	SourceLabel string     `json:"source_label"`
	Engagement  Engagement `json:"engagement"`
	Mature      bool       `json:"mature"`
	ObservedAt  time.Time  `json:"observed_at"`
}

// EngagementScore collapses the raw counters into a single engagement value.
// Comments are weighted heavier than upvotes (a comment signals deeper
// discussion than a passive vote). Platforms that only expose a single raw
// score use that value directly.
func (n NormalizedItem) EngagementScore(commentWeight int) int {
	if n.Engagement.Upvotes == 0 && n.Engagement.Comments == 0 {
		return n.Engagement.RawScore
	}
	return n.Engagement.Upvotes + n.Engagement.Comments*commentWeight
}
