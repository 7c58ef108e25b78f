package item

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedItem marks a raw item that cannot be normalized
// (missing url or platform, or a platform outside the closed set).
var ErrMalformedItem = errors.New("malformed item")

// Normalize converts a raw scraper record into the canonical form.
// URL and platform are required; everything else is defaulted.
func Normalize(raw RawItem) (NormalizedItem, error) {
	url := strings.TrimSpace(raw.URL)
	if url == "" {
		return NormalizedItem{}, fmt.Errorf("%w: missing url", ErrMalformedItem)
	}

	platform := Platform(strings.ToLower(strings.TrimSpace(raw.Platform)))
	if platform == "" {
		return NormalizedItem{}, fmt.Errorf("%w: missing platform (url %s)", ErrMalformedItem, url)
	}
	if !platform.Valid() {
		return NormalizedItem{}, fmt.Errorf("%w: unknown platform %q (url %s)", ErrMalformedItem, raw.Platform, url)
	}

	observed := raw.ObservedAt
	if observed.IsZero() {
		observed = time.Now().UTC()
	}

	return NormalizedItem{
		Platform:    platform,
		URL:         url,
		Title:       strings.TrimSpace(raw.Title),
		BodyText:    strings.TrimSpace(raw.BodyText),
		SourceLabel: strings.TrimSpace(raw.SourceLabel),
		Engagement:  raw.Engagement,
		Mature:      raw.Mature,
		ObservedAt:  observed.UTC(),
	}, nil
}

// NormalizeBatch normalizes a batch of raw records. Malformed records are
// dropped and reported through warn; the rest of the batch is unaffected.
// Returns the normalized items and the number dropped.
func NormalizeBatch(raws []RawItem, warn func(format string, args ...any)) ([]NormalizedItem, int) {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	items := make([]NormalizedItem, 0, len(raws))
	dropped := 0
	for i, raw := range raws {
		n, err := Normalize(raw)
		if err != nil {
			warn("dropping item %d: %v", i, err)
			dropped++
			continue
		}
		items = append(items, n)
	}
	return items, dropped
}
