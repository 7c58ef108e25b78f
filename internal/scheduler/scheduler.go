// Package scheduler runs periodic scans and, on a slower cadence,
// longitudinal trend evaluation.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/carzl/leadradar/internal/store"
	"github.com/carzl/leadradar/pkg/alert"
	"github.com/carzl/leadradar/pkg/ingest"
	"github.com/carzl/leadradar/pkg/item"
	"github.com/carzl/leadradar/pkg/pipeline"
	"github.com/carzl/leadradar/pkg/trend"
)

// Scheduler drives the pipeline and trend evaluator on their intervals.
type Scheduler struct {
	store     store.Store
	sources   []ingest.Source
	runner    *pipeline.Runner
	evaluator *trend.Evaluator
	alertMgr  *alert.Manager
	scanInt   time.Duration
	trendInt  time.Duration
}

// New creates a new scheduler.
func New(
	s store.Store,
	sources []ingest.Source,
	runner *pipeline.Runner,
	evaluator *trend.Evaluator,
	alertMgr *alert.Manager,
	scanInt, trendInt time.Duration,
) *Scheduler {
	if scanInt == 0 {
		scanInt = time.Hour
	}
	if trendInt == 0 {
		trendInt = 24 * time.Hour
	}
	return &Scheduler{
		store:     s,
		sources:   sources,
		runner:    runner,
		evaluator: evaluator,
		alertMgr:  alertMgr,
		scanInt:   scanInt,
		trendInt:  trendInt,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled. A run may
// be aborted between scans; the store only changes at each run's final
// commit, so an abort never leaves a partially applied update.
func (s *Scheduler) Run(ctx context.Context) error {
	scanTicker := time.NewTicker(s.scanInt)
	trendTicker := time.NewTicker(s.trendInt)
	defer scanTicker.Stop()
	defer trendTicker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial scan...")
	s.scanOnce(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (scan every %s, trends every %s)\n",
		s.scanInt, s.trendInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-scanTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: scanning...")
			s.scanOnce(ctx)
		case <-trendTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: evaluating trends...")
			s.evaluateAndAlert(ctx)
		}
	}
}

func (s *Scheduler) scanOnce(ctx context.Context) {
	var raws []item.RawItem
	for _, src := range s.sources {
		batch, err := src.Fetch(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s: %d items\n", src.Name(), len(batch))
		raws = append(raws, batch...)
	}

	result, err := s.runner.Run(ctx, raws)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  pipeline error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "  %d leads (%d dropped, %d irrelevant)\n",
		len(result.Leads), result.Dropped, result.Skipped)

	s.alertHotLeads(ctx, result.Leads)
}

// alertHotLeads broadcasts the trending subset of a run's output.
func (s *Scheduler) alertHotLeads(ctx context.Context, leads []pipeline.Lead) {
	if !s.alertMgr.HasNotifiers() {
		return
	}

	var hot []pipeline.Lead
	for _, lead := range leads {
		if lead.IsTrending {
			hot = append(hot, lead)
		}
	}
	if len(hot) == 0 {
		return
	}

	n := &alert.Notification{
		Title: fmt.Sprintf("%d leads trending", len(hot)),
		Body:  "Engagement jumped 50%+ since the last observation.",
		Leads: hot,
	}
	if err := s.alertMgr.Broadcast(ctx, n); err != nil {
		fmt.Fprintf(os.Stderr, "  alert error: %v\n", err)
	}
}

func (s *Scheduler) evaluateAndAlert(ctx context.Context) {
	summaries, err := s.store.ListRunSummaries(ctx, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  trend evaluation error: %v\n", err)
		return
	}

	report := s.evaluator.Evaluate(summaries)
	if report.Status != trend.StatusOK {
		fmt.Fprintf(os.Stderr, "  trends: %s\n", report.Status)
		return
	}

	for _, insight := range report.Insights {
		fmt.Fprintf(os.Stderr, "  insight: %s\n", insight)
	}

	if !s.alertMgr.HasNotifiers() {
		return
	}
	n := &alert.Notification{
		Title: fmt.Sprintf("Trend report (%d runs)", report.Runs),
		Body:  strings.Join(report.Insights, "\n"),
	}
	if err := s.alertMgr.Broadcast(ctx, n); err != nil {
		fmt.Fprintf(os.Stderr, "  alert error: %v\n", err)
	}
}
