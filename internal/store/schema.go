package store

const schema = `
CREATE TABLE IF NOT EXISTS launch_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    app_id TEXT NOT NULL,
    app_name TEXT NOT NULL,
    path TEXT NOT NULL,
    success BOOLEAN NOT NULL,
    error TEXT,
    timestamp TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS scan_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP NOT NULL,
    duration_ms INTEGER NOT NULL,
    cause TEXT NOT NULL,
    app_count INTEGER NOT NULL,
    candidate_count INTEGER NOT NULL,
    failures INTEGER NOT NULL,
    error TEXT
);

CREATE INDEX IF NOT EXISTS idx_launch_app ON launch_events(app_id);
CREATE INDEX IF NOT EXISTS idx_launch_timestamp ON launch_events(timestamp);
CREATE INDEX IF NOT EXISTS idx_scan_started ON scan_runs(started_at);
`
