// Package trend analyzes run-summary history over a bounded window and
// produces per-platform trend labels and qualitative insights.
package trend

import (
	"fmt"
	"sort"

	"github.com/carzl/leadradar/internal/store"
	"github.com/carzl/leadradar/pkg/item"
)

// Report status values.
const (
	StatusOK               = "ok"
	StatusInsufficientData = "insufficient-data"
)

// Direction is the binary trend label for a platform.
type Direction string

const (
	DirectionImproving Direction = "IMPROVING"
	DirectionDeclining Direction = "DECLINING"
)

// Thresholds are the fixed rules that trigger qualitative insights.
type Thresholds struct {
	// MinAvgLeads is the per-platform lead floor; averages below it
	// trigger a warning.
	MinAvgLeads float64 `yaml:"min_avg_leads"`

	// MinTopScore is the quality floor for the average top score.
	MinTopScore float64 `yaml:"min_top_score"`

	// StrongAvgLeads marks consistently good performance when every
	// platform clears it.
	StrongAvgLeads float64 `yaml:"strong_avg_leads"`
}

// DefaultThresholds returns the baseline insight thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinAvgLeads:    10,
		MinTopScore:    100,
		StrongAvgLeads: 20,
	}
}

// PlatformTrend is the evaluated trend for one platform.
type PlatformTrend struct {
	Platform    item.Platform `json:"platform"`
	AvgLeads    float64       `json:"avg_leads"`
	AvgTopScore float64       `json:"avg_top_score"`
	Direction   Direction     `json:"direction"`
}

// Report is the structured trend evaluation output.
type Report struct {
	Status    string                          `json:"status"`
	Runs      int                             `json:"runs"`
	Platforms map[item.Platform]PlatformTrend `json:"platforms,omitempty"`
	Insights  []string                        `json:"insights,omitempty"`
}

// Evaluator computes trend reports from run summaries.
type Evaluator struct {
	window     int
	thresholds Thresholds
}

// NewEvaluator creates an evaluator over the most recent window runs
// (default 7).
func NewEvaluator(window int, thresholds Thresholds) *Evaluator {
	if window <= 0 {
		window = 7
	}
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	return &Evaluator{window: window, thresholds: thresholds}
}

// Evaluate analyzes summaries (chronological, most recent last). With
// fewer than two historical runs it reports insufficient-data rather than
// extrapolating.
func (e *Evaluator) Evaluate(summaries []store.RunSummary) Report {
	if len(summaries) < 2 {
		return Report{Status: StatusInsufficientData, Runs: len(summaries)}
	}

	recent := summaries
	if len(recent) > e.window {
		recent = recent[len(recent)-e.window:]
	}
	latest := recent[len(recent)-1]

	platforms := make(map[item.Platform]PlatformTrend)
	for _, p := range platformsIn(recent) {
		leadSum, scoreSum := 0, 0
		for _, run := range recent {
			leadSum += run.LeadCounts[p]
			scoreSum += run.TopScores[p]
		}
		avgLeads := float64(leadSum) / float64(len(recent))
		avgTop := float64(scoreSum) / float64(len(recent))

		direction := DirectionDeclining
		if float64(latest.LeadCounts[p]) > avgLeads {
			direction = DirectionImproving
		}

		platforms[p] = PlatformTrend{
			Platform:    p,
			AvgLeads:    avgLeads,
			AvgTopScore: avgTop,
			Direction:   direction,
		}
	}

	return Report{
		Status:    StatusOK,
		Runs:      len(recent),
		Platforms: platforms,
		Insights:  e.insights(platforms),
	}
}

// insights applies the fixed threshold rules, with a generic fallback when
// nothing fires.
func (e *Evaluator) insights(platforms map[item.Platform]PlatformTrend) []string {
	var out []string

	ordered := make([]item.Platform, 0, len(platforms))
	for p := range platforms {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	strong := len(ordered) > 0
	for _, p := range ordered {
		pt := platforms[p]
		if pt.AvgLeads < e.thresholds.MinAvgLeads {
			out = append(out, fmt.Sprintf("low %s leads (avg %.1f) - consider expanding the %s source list", p, pt.AvgLeads, p))
		}
		if pt.AvgTopScore < e.thresholds.MinTopScore {
			out = append(out, fmt.Sprintf("%s engagement quality low (avg top score %.1f) - focus on more active communities", p, pt.AvgTopScore))
		}
		if pt.AvgLeads < e.thresholds.StrongAvgLeads {
			strong = false
		}
	}

	if strong {
		out = append(out, "strong performance across all platforms")
	}
	if len(out) == 0 {
		out = append(out, "performance within expected range")
	}
	return out
}

func platformsIn(runs []store.RunSummary) []item.Platform {
	set := make(map[item.Platform]bool)
	for _, run := range runs {
		for p := range run.LeadCounts {
			set[p] = true
		}
	}
	out := make([]item.Platform, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
