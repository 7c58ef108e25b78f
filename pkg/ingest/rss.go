package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/carzl/leadradar/pkg/item"
)

// Feed is a named RSS/Atom feed URL.
type Feed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// RSS fetches raw items from RSS/Atom feeds. It is the reference adapter
// implementation; platform scrapers live outside this module and hand
// batches over in the same RawItem format.
type RSS struct {
	client *http.Client
	parser *gofeed.Parser
	feeds  []Feed
	maxAge time.Duration
	warnf  func(format string, args ...any)
}

// NewRSS creates an RSS adapter. Entries older than maxAge are skipped
// (default 24h). warnf receives per-feed fetch failures and may be nil.
func NewRSS(feeds []Feed, maxAge time.Duration, warnf func(format string, args ...any)) *RSS {
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &RSS{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
		feeds:  feeds,
		maxAge: maxAge,
		warnf:  warnf,
	}
}

func (r *RSS) Name() item.Platform { return item.PlatformRSS }

// Fetch collects raw items from all configured feeds. A failing feed is
// logged and skipped; the rest of the batch continues.
func (r *RSS) Fetch(ctx context.Context) ([]item.RawItem, error) {
	var all []item.RawItem
	for _, feed := range r.feeds {
		raws, err := r.fetchFeed(ctx, feed)
		if err != nil {
			r.warnf("rss feed %s: %v", feed.Name, err)
			continue
		}
		all = append(all, raws...)
	}
	return all, nil
}

func (r *RSS) fetchFeed(ctx context.Context, feed Feed) ([]item.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "leadradar/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	cutoff := time.Now().Add(-r.maxAge)

	var raws []item.RawItem
	for _, entry := range parsed.Items {
		published := time.Now().UTC()
		if entry.PublishedParsed != nil {
			published = entry.PublishedParsed.UTC()
		} else if entry.UpdatedParsed != nil {
			published = entry.UpdatedParsed.UTC()
		}
		if published.Before(cutoff) {
			continue
		}

		link := entry.Link
		if link == "" && len(entry.Links) > 0 {
			link = entry.Links[0]
		}

		raws = append(raws, item.RawItem{
			Platform:    string(item.PlatformRSS),
			URL:         link,
			Title:       entry.Title,
			BodyText:    entry.Description,
			SourceLabel: feed.Name,
			ObservedAt:  time.Now().UTC(),
		})
	}
	return raws, nil
}
