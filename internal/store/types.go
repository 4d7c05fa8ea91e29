package store

import "time"

// LaunchEvent records one attempt to open an application.
type LaunchEvent struct {
	ID        int64
	AppID     string
	AppName   string
	Path      string
	Success   bool
	Error     string
	Timestamp time.Time
}

// ScanRun records one inventory rebuild.
type ScanRun struct {
	ID             int64
	StartedAt      time.Time
	Duration       time.Duration
	Cause          string // "startup", "stale", "periodic", "forced", "watch"
	AppCount       int
	CandidateCount int
	Failures       int
	Error          string
}
