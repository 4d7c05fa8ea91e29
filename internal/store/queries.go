package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Launch event operations

// InsertLaunchEvent records a launch attempt.
func (s *Store) InsertLaunchEvent(event *LaunchEvent) error {
	query := `
		INSERT INTO launch_events (app_id, app_name, path, success, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		event.AppID,
		event.AppName,
		event.Path,
		event.Success,
		event.Error,
		event.Timestamp.UTC().Format(time.RFC3339),
	)
	return wrapErr(fmt.Sprintf("insert launch event for %s", event.AppID), err)
}

// RecentLaunches returns up to limit launch events, newest first.
func (s *Store) RecentLaunches(limit int) ([]*LaunchEvent, error) {
	query := `
		SELECT id, app_id, app_name, path, success, COALESCE(error, ''), timestamp
		FROM launch_events
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, wrapErr("list launch events", err)
	}
	defer rows.Close()

	var events []*LaunchEvent
	for rows.Next() {
		var event LaunchEvent
		var timestamp string

		if err := rows.Scan(&event.ID, &event.AppID, &event.AppName, &event.Path, &event.Success, &event.Error, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan launch event row: %w", err)
		}
		event.Timestamp, err = time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse launch timestamp: %w", err)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}

// CountLaunches returns the number of successful launches of appID.
func (s *Store) CountLaunches(appID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM launch_events WHERE app_id = ? AND success = 1`, appID).Scan(&n)
	if err != nil {
		return 0, wrapErr(fmt.Sprintf("count launches for %s", appID), err)
	}
	return n, nil
}

// Scan run operations

// InsertScanRun records a rebuild and returns its ID.
func (s *Store) InsertScanRun(run *ScanRun) (int64, error) {
	query := `
		INSERT INTO scan_runs (started_at, duration_ms, cause, app_count, candidate_count, failures, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.Duration.Milliseconds(),
		run.Cause,
		run.AppCount,
		run.CandidateCount,
		run.Failures,
		run.Error,
	)
	if err != nil {
		return 0, wrapErr("insert scan run", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan run ID: %w", err)
	}
	return id, nil
}

// ListScanRuns returns up to limit scan runs, newest first.
func (s *Store) ListScanRuns(limit int) ([]*ScanRun, error) {
	query := `
		SELECT id, started_at, duration_ms, cause, app_count, candidate_count, failures, COALESCE(error, '')
		FROM scan_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, wrapErr("list scan runs", err)
	}
	defer rows.Close()

	var runs []*ScanRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LastScanRun returns the most recent scan run, or nil if none exist.
func (s *Store) LastScanRun() (*ScanRun, error) {
	runs, err := s.ListScanRuns(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// PruneLaunchEvents deletes launch events older than before and returns
// how many were removed.
func (s *Store) PruneLaunchEvents(before time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM launch_events WHERE timestamp < ?`, before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, wrapErr("prune launch events", err)
	}
	return result.RowsAffected()
}

func scanRun(rows *sql.Rows) (*ScanRun, error) {
	var (
		run        ScanRun
		startedAt  string
		durationMS int64
	)
	if err := rows.Scan(&run.ID, &startedAt, &durationMS, &run.Cause, &run.AppCount, &run.CandidateCount, &run.Failures, &run.Error); err != nil {
		return nil, fmt.Errorf("failed to scan scan run row: %w", err)
	}
	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	run.StartedAt = t
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
