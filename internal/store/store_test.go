package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carzl/leadradar/pkg/item"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "leadradar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCommitAndLoadSeen(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	rec := SeenRecord{URL: "https://example.com/a", FirstSeen: now}
	rec.Observe(100, now)

	seen := map[string]SeenRecord{rec.URL: rec}
	summary := RunSummary{
		RunAt:      now,
		LeadCounts: map[item.Platform]int{item.PlatformReddit: 3},
		TopScores:  map[item.Platform]int{item.PlatformReddit: 120},
	}
	require.NoError(t, s.CommitRun(ctx, seen, summary))

	loaded, err := s.LoadSeen(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded["https://example.com/a"]
	assert.Equal(t, 100, got.LastEngagement)
	require.Len(t, got.History, 1)
	assert.Equal(t, 100, got.History[0].Engagement)
}

func TestCommitReplacesWholeSet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := SeenRecord{URL: "https://example.com/a", FirstSeen: now}
	first.Observe(10, now)
	require.NoError(t, s.CommitRun(ctx, map[string]SeenRecord{first.URL: first}, RunSummary{RunAt: now}))

	// Second commit omits the first URL entirely; the store holds only
	// what the run handed over.
	second := SeenRecord{URL: "https://example.com/b", FirstSeen: now}
	second.Observe(20, now)
	require.NoError(t, s.CommitRun(ctx, map[string]SeenRecord{second.URL: second}, RunSummary{RunAt: now}))

	loaded, err := s.LoadSeen(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.NotContains(t, loaded, "https://example.com/a")
	assert.Contains(t, loaded, "https://example.com/b")
}

func TestLoadSeenPrunesExpired(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	fresh := SeenRecord{URL: "https://example.com/fresh", FirstSeen: now.Add(-time.Hour)}
	fresh.Observe(5, now)
	stale := SeenRecord{URL: "https://example.com/stale", FirstSeen: now.Add(-8 * 24 * time.Hour)}
	stale.Observe(5, now)

	seen := map[string]SeenRecord{fresh.URL: fresh, stale.URL: stale}
	require.NoError(t, s.CommitRun(ctx, seen, RunSummary{RunAt: now}))

	loaded, err := s.LoadSeen(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Contains(t, loaded, fresh.URL)
	assert.NotContains(t, loaded, stale.URL)
}

func TestObserveBoundsHistory(t *testing.T) {
	rec := SeenRecord{URL: "https://example.com/a"}
	base := time.Now().UTC()
	for i := 0; i < MaxObservations+5; i++ {
		rec.Observe(i, base.Add(time.Duration(i)*time.Minute))
	}

	assert.Len(t, rec.History, MaxObservations)
	// Ring keeps the most recent observations and the latest value.
	assert.Equal(t, MaxObservations+4, rec.LastEngagement)
	assert.Equal(t, 5, rec.History[0].Engagement)
}

func TestRunSummaryCap(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-40 * time.Hour)

	for i := 0; i < MaxRunSummaries+5; i++ {
		summary := RunSummary{
			RunAt:      base.Add(time.Duration(i) * time.Hour),
			LeadCounts: map[item.Platform]int{item.PlatformReddit: i},
		}
		require.NoError(t, s.CommitRun(ctx, nil, summary))
	}

	summaries, err := s.ListRunSummaries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, MaxRunSummaries)

	// Oldest evicted, chronological order, most recent last.
	assert.Equal(t, 5, summaries[0].LeadCounts[item.PlatformReddit])
	assert.Equal(t, MaxRunSummaries+4, summaries[len(summaries)-1].LeadCounts[item.PlatformReddit])
}

func TestListRunSummariesLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-10 * time.Hour)

	for i := 0; i < 10; i++ {
		summary := RunSummary{RunAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.CommitRun(ctx, nil, summary))
	}

	summaries, err := s.ListRunSummaries(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, summaries, 3)
}
