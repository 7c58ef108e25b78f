package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/carzl/leadradar/internal/config"
	"github.com/carzl/leadradar/internal/scheduler"
	"github.com/carzl/leadradar/internal/store"
	"github.com/carzl/leadradar/pkg/alert"
	"github.com/carzl/leadradar/pkg/classify"
	"github.com/carzl/leadradar/pkg/ingest"
	"github.com/carzl/leadradar/pkg/item"
	"github.com/carzl/leadradar/pkg/pipeline"
	"github.com/carzl/leadradar/pkg/score"
	"github.com/carzl/leadradar/pkg/trend"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

func buildRunner(cfg *config.Config, db store.Store) *pipeline.Runner {
	scorer := score.NewScorer(cfg.Scoring.Catalog)
	classifier := classify.New(cfg.Classify.Signals, cfg.Classify.Overrides, cfg.Classify.MaturePolicy)
	opts := pipeline.Options{
		Workers:       cfg.Pipeline.Workers,
		JumpThreshold: cfg.Pipeline.JumpThreshold,
		Retention:     cfg.Pipeline.Retention(),
	}
	return pipeline.NewRunner(db, scorer, classifier, opts, warnf)
}

func buildEvaluator(cfg *config.Config) *trend.Evaluator {
	return trend.NewEvaluator(cfg.Trend.Window, cfg.Trend.Thresholds)
}

func buildSources(cfg *config.Config) []ingest.Source {
	var sources []ingest.Source
	if cfg.Sources.RSS.Enabled {
		sources = append(sources, ingest.NewRSS(cfg.Sources.RSS.Feeds, cfg.Sources.RSS.ParseMaxAge(), warnf))
	}
	return sources
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runScan(inputs []string, useRSS, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(inputs) == 0 {
		inputs = cfg.Sources.Inputs
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	var raws []item.RawItem
	for _, path := range inputs {
		batch, err := ingest.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "read %d items from %s\n", len(batch), path)
		raws = append(raws, batch...)
	}

	if useRSS {
		for _, src := range buildSources(cfg) {
			batch, err := src.Fetch(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s error: %v\n", src.Name(), err)
				continue
			}
			fmt.Fprintf(os.Stderr, "fetched %d items from %s\n", len(batch), src.Name())
			raws = append(raws, batch...)
		}
	}

	if len(raws) == 0 {
		return errors.New("no input items (use --input or --rss, or configure sources)")
	}

	runner := buildRunner(cfg, db)
	result, err := runner.Run(ctx, raws)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(os.Stderr, "\n%d leads (%d malformed dropped, %d irrelevant skipped)\n\n",
		len(result.Leads), result.Dropped, result.Skipped)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tTIER\tFLAGS\tPLATFORM\tTITLE")
	for _, lead := range result.Leads {
		flags := ""
		if lead.IsNew {
			flags += "new "
		}
		if lead.IsTrending {
			flags += fmt.Sprintf("hot(%d->%d)", lead.Hot.Old, lead.Hot.New)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			lead.Score.CompositeScore, lead.Classification.Tier, flags,
			lead.Item.Platform, lead.Item.Title)
	}
	return w.Flush()
}

func runTrends(jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	summaries, err := db.ListRunSummaries(context.Background(), 0)
	if err != nil {
		return fmt.Errorf("list run summaries: %w", err)
	}

	report := buildEvaluator(cfg).Evaluate(summaries)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.Status != trend.StatusOK {
		fmt.Printf("status: %s (%d runs recorded, need at least 2)\n", report.Status, report.Runs)
		return nil
	}

	fmt.Printf("trend report over last %d runs\n\n", report.Runs)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tAVG LEADS\tAVG TOP SCORE\tTREND")
	for _, p := range item.AllPlatforms() {
		pt, ok := report.Platforms[p]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%s\n", pt.Platform, pt.AvgLeads, pt.AvgTopScore, pt.Direction)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, insight := range report.Insights {
		fmt.Printf("- %s\n", insight)
	}
	return nil
}

func runDaemon() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	sources := buildSources(cfg)
	if len(sources) == 0 {
		return errors.New("no sources enabled; the daemon needs at least one (sources.rss)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(db, sources, buildRunner(cfg, db), buildEvaluator(cfg),
		buildAlertManager(cfg),
		cfg.Schedule.ParseScanInterval(),
		cfg.Schedule.ParseTrendInterval(),
	)

	if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintln(os.Stderr, "shut down")
	return nil
}
