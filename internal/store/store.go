// Package store persists the per-URL dedup/velocity state and the capped
// run-summary log.
//
// The seen-record set follows a snapshot-then-batch-commit discipline: it
// is read once at run start, mutated only in memory during the run, and
// replaced as a whole in a single transaction at run end. An interrupted
// run therefore leaves either the prior state or the fully-updated state,
// never a partial write.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/carzl/leadradar/pkg/item"
)

// MaxObservations bounds the per-URL observation history ring.
const MaxObservations = 10

// MaxRunSummaries caps the run-summary log; the oldest entry is evicted.
const MaxRunSummaries = 30

// Observation is one engagement reading of a URL.
type Observation struct {
	Engagement int       `json:"engagement"`
	SeenAt     time.Time `json:"seen_at"`
}

// SeenRecord is the persisted dedup/velocity state for one URL.
type SeenRecord struct {
	URL            string        `db:"url" json:"url"`
	FirstSeen      time.Time     `db:"first_seen" json:"first_seen"`
	LastSeen       time.Time     `db:"last_seen" json:"last_seen"`
	LastEngagement int           `db:"last_engagement" json:"last_engagement"`
	History        []Observation `db:"-" json:"history"`
	HistoryJSON    string        `db:"history" json:"-"`
}

// Observe records a new engagement reading. LastEngagement always holds
// the latest observed value, never a cumulative sum, and the history ring
// is trimmed on every write.
func (r *SeenRecord) Observe(engagement int, at time.Time) {
	r.LastSeen = at
	r.LastEngagement = engagement
	r.History = append(r.History, Observation{Engagement: engagement, SeenAt: at})
	if len(r.History) > MaxObservations {
		r.History = r.History[len(r.History)-MaxObservations:]
	}
}

// RunSummary is the per-execution aggregate appended after each pipeline run.
type RunSummary struct {
	ID             int64                 `db:"id" json:"id"`
	RunAt          time.Time             `db:"run_at" json:"run_at"`
	LeadCounts     map[item.Platform]int `db:"-" json:"lead_counts"`
	TopScores      map[item.Platform]int `db:"-" json:"top_scores"`
	LeadCountsJSON string                `db:"lead_counts" json:"-"`
	TopScoresJSON  string                `db:"top_scores" json:"-"`
}

// TotalLeads returns the lead count summed across platforms.
func (s RunSummary) TotalLeads() int {
	total := 0
	for _, n := range s.LeadCounts {
		total += n
	}
	return total
}

// Store is the persistence interface for history and run summaries.
type Store interface {
	// LoadSeen returns the full seen-record snapshot, with records whose
	// firstSeen is older than cutoff already pruned.
	LoadSeen(ctx context.Context, cutoff time.Time) (map[string]SeenRecord, error)

	// CommitRun atomically replaces the seen set and appends the run
	// summary, evicting summaries beyond the cap.
	CommitRun(ctx context.Context, seen map[string]SeenRecord, summary RunSummary) error

	// ListRunSummaries returns up to limit summaries in chronological
	// order, most recent last.
	ListRunSummaries(ctx context.Context, limit int) ([]RunSummary, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB

	// mu serializes the store swap across concurrent runs.
	mu sync.Mutex
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadSeen(ctx context.Context, cutoff time.Time) (map[string]SeenRecord, error) {
	var rows []SeenRecord
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM seen_records"); err != nil {
		return nil, fmt.Errorf("load seen records: %w", err)
	}

	seen := make(map[string]SeenRecord, len(rows))
	for _, rec := range rows {
		// Prune before any lookups happen; retention bounds store growth.
		if rec.FirstSeen.Before(cutoff) {
			continue
		}
		if err := json.Unmarshal([]byte(rec.HistoryJSON), &rec.History); err != nil {
			return nil, fmt.Errorf("decode history for %s: %w", rec.URL, err)
		}
		rec.HistoryJSON = ""
		seen[rec.URL] = rec
	}
	return seen, nil
}

func (s *SQLiteStore) CommitRun(ctx context.Context, seen map[string]SeenRecord, summary RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM seen_records"); err != nil {
		return fmt.Errorf("clear seen records: %w", err)
	}

	for _, rec := range seen {
		historyJSON, err := json.Marshal(rec.History)
		if err != nil {
			return fmt.Errorf("encode history for %s: %w", rec.URL, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO seen_records (url, first_seen, last_seen, last_engagement, history)
			VALUES (?, ?, ?, ?, ?)
		`, rec.URL, rec.FirstSeen, rec.LastSeen, rec.LastEngagement, string(historyJSON))
		if err != nil {
			return fmt.Errorf("insert seen record %s: %w", rec.URL, err)
		}
	}

	leadCountsJSON, err := json.Marshal(summary.LeadCounts)
	if err != nil {
		return fmt.Errorf("encode lead counts: %w", err)
	}
	topScoresJSON, err := json.Marshal(summary.TopScores)
	if err != nil {
		return fmt.Errorf("encode top scores: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO run_summaries (run_at, lead_counts, top_scores)
		VALUES (?, ?, ?)
	`, summary.RunAt, string(leadCountsJSON), string(topScoresJSON))
	if err != nil {
		return fmt.Errorf("insert run summary: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM run_summaries WHERE id NOT IN (
			SELECT id FROM run_summaries ORDER BY run_at DESC, id DESC LIMIT ?
		)
	`, MaxRunSummaries)
	if err != nil {
		return fmt.Errorf("evict old run summaries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListRunSummaries(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = MaxRunSummaries
	}

	// Fetch newest first, then reverse to chronological order.
	var rows []RunSummary
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM run_summaries ORDER BY run_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list run summaries: %w", err)
	}

	summaries := make([]RunSummary, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		rec := rows[i]
		if err := json.Unmarshal([]byte(rec.LeadCountsJSON), &rec.LeadCounts); err != nil {
			return nil, fmt.Errorf("decode lead counts for run %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(rec.TopScoresJSON), &rec.TopScores); err != nil {
			return nil, fmt.Errorf("decode top scores for run %d: %w", rec.ID, err)
		}
		rec.LeadCountsJSON, rec.TopScoresJSON = "", ""
		summaries = append(summaries, rec)
	}
	return summaries, nil
}
