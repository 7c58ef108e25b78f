package store

const schema = `
CREATE TABLE IF NOT EXISTS seen_records (
    url             TEXT PRIMARY KEY,
    first_seen      DATETIME NOT NULL,
    last_seen       DATETIME NOT NULL,
    last_engagement INTEGER NOT NULL DEFAULT 0,
    history         TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_seen_first_seen ON seen_records(first_seen);

CREATE TABLE IF NOT EXISTS run_summaries (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_at      DATETIME NOT NULL,
    lead_counts TEXT NOT NULL DEFAULT '{}',
    top_scores  TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_summaries_run_at ON run_summaries(run_at);
`
