// Package pipeline orchestrates one batch run: normalization, concurrent
// scoring and classification, history lookup, velocity detection, and the
// single atomic store commit at the end.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/carzl/leadradar/internal/store"
	"github.com/carzl/leadradar/pkg/classify"
	"github.com/carzl/leadradar/pkg/item"
	"github.com/carzl/leadradar/pkg/score"
)

// Lead is one enriched output item.
type Lead struct {
	Item           item.NormalizedItem `json:"item"`
	Score          score.Result        `json:"score"`
	Classification classify.Result     `json:"classification"`
	IsNew          bool                `json:"is_new"`
	IsTrending     bool                `json:"is_trending"`
	Hot            *HotEvent           `json:"hot,omitempty"`
}

// Options tunes a Runner. Zero values fall back to defaults.
type Options struct {
	// Workers is the scoring/classification worker count.
	Workers int

	// JumpThreshold is the engagement ratio (inclusive) that counts as a
	// hot/trending jump between two observations of the same URL.
	JumpThreshold float64

	// Retention is how long a seen record is kept after first observation.
	Retention time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.JumpThreshold == 0 {
		o.JumpThreshold = 1.5
	}
	if o.Retention == 0 {
		o.Retention = 7 * 24 * time.Hour
	}
	return o
}

// Result is the outcome of one pipeline run.
type Result struct {
	Leads   []Lead           `json:"leads"`
	Dropped int              `json:"dropped"`
	Skipped int              `json:"skipped"`
	Summary store.RunSummary `json:"summary"`
}

// Runner executes batch runs against a shared store.
type Runner struct {
	store      store.Store
	scorer     *score.Scorer
	classifier *classify.Classifier
	opts       Options
	warnf      func(format string, args ...any)
	now        func() time.Time
}

// NewRunner creates a pipeline runner. warnf receives recoverable
// conditions (dropped items, unreadable history) and may be nil.
func NewRunner(s store.Store, scorer *score.Scorer, classifier *classify.Classifier, opts Options, warnf func(format string, args ...any)) *Runner {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Runner{
		store:      s,
		scorer:     scorer,
		classifier: classifier,
		opts:       opts.withDefaults(),
		warnf:      warnf,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run processes one batch of raw items and commits the updated history in
// a single transaction at the end.
func (r *Runner) Run(ctx context.Context, raws []item.RawItem) (*Result, error) {
	items, dropped := item.NormalizeBatch(raws, r.warnf)

	enriched, err := r.enrich(ctx, items)
	if err != nil {
		return nil, err
	}

	// Items with no keyword match are excluded downstream regardless of
	// engagement.
	leads := make([]Lead, 0, len(enriched))
	skipped := 0
	for _, e := range enriched {
		if !e.Score.Relevant() {
			skipped++
			continue
		}
		leads = append(leads, e)
	}
	sortLeads(leads)

	now := r.now()
	cutoff := now.Add(-r.opts.Retention)

	seen, err := r.store.LoadSeen(ctx, cutoff)
	if err != nil {
		// Losing one run's velocity detection beats blocking the
		// pipeline: degrade to treating every item as new.
		r.warnf("history unreadable, treating all items as new: %v", err)
		seen = make(map[string]store.SeenRecord)
	}

	for i := range leads {
		r.mark(&leads[i], seen, now)
	}

	summary := r.summarize(leads, now)
	if err := r.store.CommitRun(ctx, seen, summary); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}

	return &Result{
		Leads:   leads,
		Dropped: dropped,
		Skipped: skipped,
		Summary: summary,
	}, nil
}

// enrich scores and classifies items concurrently. Both stages are pure
// functions over independent items, so workers share no mutable state and
// need no ordering between items.
func (r *Runner) enrich(ctx context.Context, items []item.NormalizedItem) ([]Lead, error) {
	results := make([]Lead, len(items))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Lead{
					Item:           items[i],
					Score:          r.scorer.Score(items[i]),
					Classification: r.classifier.ClassifyItem(items[i]),
				}
			}
		}()
	}

	var cancelled error
	for i := range items {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		case jobs <- i:
			continue
		}
		break
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

// mark applies the history contract for one lead: create on first sight,
// otherwise detect an engagement jump and update to the latest observation.
func (r *Runner) mark(lead *Lead, seen map[string]store.SeenRecord, now time.Time) {
	engagement := lead.Score.EngagementScore
	rec, ok := seen[lead.Item.URL]
	if !ok {
		lead.IsNew = true
		rec = store.SeenRecord{URL: lead.Item.URL, FirstSeen: now}
		rec.Observe(engagement, now)
		seen[lead.Item.URL] = rec
		return
	}

	if hot := DetectJump(rec.LastEngagement, engagement, r.opts.JumpThreshold); hot != nil {
		lead.IsTrending = true
		lead.Hot = hot
	}
	rec.Observe(engagement, now)
	seen[lead.Item.URL] = rec
}

func (r *Runner) summarize(leads []Lead, now time.Time) store.RunSummary {
	counts := make(map[item.Platform]int)
	tops := make(map[item.Platform]int)
	for _, lead := range leads {
		p := lead.Item.Platform
		counts[p]++
		if lead.Score.CompositeScore > tops[p] {
			tops[p] = lead.Score.CompositeScore
		}
	}
	return store.RunSummary{RunAt: now, LeadCounts: counts, TopScores: tops}
}

// sortLeads applies the scorer's deterministic ordering: composite score
// descending, then raw engagement, then earliest observation.
func sortLeads(leads []Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i], leads[j]
		if a.Score.CompositeScore != b.Score.CompositeScore {
			return a.Score.CompositeScore > b.Score.CompositeScore
		}
		if a.Score.EngagementScore != b.Score.EngagementScore {
			return a.Score.EngagementScore > b.Score.EngagementScore
		}
		return a.Item.ObservedAt.Before(b.Item.ObservedAt)
	})
}
