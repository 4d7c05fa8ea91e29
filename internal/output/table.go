// Package output provides terminal output utilities for appdex.
//
// This package includes:
//   - Table rendering for application records, launch history and scan runs
//   - A progress bar for scans and a spinner for indeterminate work
//   - Human-readable formatting for relative times and durations
//
// Tables use plain text columns and emit ANSI color codes only when stdout
// is a terminal and NO_COLOR is unset. Progress indicators are safe for use
// from multiple goroutines.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/appdex/internal/apps"
	"github.com/blackwell-systems/appdex/internal/store"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderAppTable renders application records in the order given, which is
// the ranking order for search and recent results.
func RenderAppTable(records []apps.Record) string {
	if len(records) == 0 {
		return "No applications found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-8s  %-28s %-20s %-6s %-15s %s\n",
		"ID", "Name", "Category", "Uses", "Last Used", "Source"))
	sb.WriteString(strings.Repeat("─", 92))
	sb.WriteString("\n")

	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%-8s  %-28s %-20s %-6d %-15s %s\n",
			shortID(rec.ID),
			truncate(rec.Name, 28),
			truncate(rec.Category, 20),
			rec.AccessCount,
			formatRelativeTime(rec.LastAccessedTime()),
			rec.Source))
	}
	return sb.String()
}

// RenderAppDetail renders a single record, including the full path.
func RenderAppDetail(rec apps.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:        %s\n", rec.ID))
	sb.WriteString(fmt.Sprintf("Name:      %s\n", rec.Name))
	sb.WriteString(fmt.Sprintf("Path:      %s\n", rec.Path))
	sb.WriteString(fmt.Sprintf("Category:  %s\n", rec.Category))
	sb.WriteString(fmt.Sprintf("Source:    %s\n", rec.Source))
	sb.WriteString(fmt.Sprintf("Icon:      %s\n", rec.Icon))
	sb.WriteString(fmt.Sprintf("Uses:      %d (last %s)\n", rec.AccessCount, formatRelativeTime(rec.LastAccessedTime())))
	return sb.String()
}

// RenderStatus renders the index status block. last may be nil.
func RenderStatus(building bool, appCount int, lastUpdate int64, last *store.ScanRun) string {
	var sb strings.Builder

	state := colorize(colorGreen, "ready")
	if building {
		state = colorize(colorYellow, "building")
	}
	sb.WriteString(fmt.Sprintf("Index:        %s\n", state))
	sb.WriteString(fmt.Sprintf("Applications: %d\n", appCount))
	sb.WriteString(fmt.Sprintf("Last update:  %s\n", formatUnix(lastUpdate)))

	if last != nil {
		result := "ok"
		if last.Error != "" {
			result = colorize(colorRed, "failed: "+last.Error)
		}
		sb.WriteString(fmt.Sprintf("Last scan:    %s (%s, %s, %s)\n",
			formatRelativeTime(last.StartedAt), last.Cause, formatDuration(last.Duration), result))
	}
	return sb.String()
}

// RenderScanSummary renders the outcome of a rebuild with per-source
// candidate counts.
func RenderScanSummary(counts map[string]int, appCount, candidates, failures int, d time.Duration) string {
	var sb strings.Builder

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  %-12s %d\n", name, counts[name]))
	}
	sb.WriteString(fmt.Sprintf("Indexed %d applications from %d candidates in %s",
		appCount, candidates, formatDuration(d)))
	if failures > 0 {
		sb.WriteString(colorize(colorYellow, fmt.Sprintf(" (%d unavailable sources)", failures)))
	}
	sb.WriteString("\n")
	return sb.String()
}

// RenderHistoryTable renders launch events, newest first.
func RenderHistoryTable(events []*store.LaunchEvent) string {
	if len(events) == 0 {
		return "No launches recorded.\n"
	}

	sorted := make([]*store.LaunchEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-17s %-28s %-8s %s\n", "When", "Application", "Result", "Detail"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, ev := range sorted {
		result := colorize(colorGreen, "ok")
		detail := ev.Path
		if !ev.Success {
			result = colorize(colorRed, "failed")
			detail = ev.Error
		}
		// Pad before coloring so escape codes do not break alignment.
		pad := strings.Repeat(" ", max(0, 8-len(resultLabel(ev.Success))))
		sb.WriteString(fmt.Sprintf("%-17s %-28s %s%s %s\n",
			formatRelativeTime(ev.Timestamp),
			truncate(ev.AppName, 28),
			result, pad,
			truncate(detail, 40)))
	}
	return sb.String()
}

func resultLabel(success bool) string {
	if success {
		return "ok"
	}
	return "failed"
}

// RenderScanRunTable renders journaled rebuilds, newest first.
func RenderScanRunTable(runs []*store.ScanRun) string {
	if len(runs) == 0 {
		return "No scans recorded.\n"
	}

	sorted := make([]*store.ScanRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-17s %-9s %-9s %-6s %-10s %s\n",
		"Started", "Cause", "Duration", "Apps", "Failures", "Error"))
	sb.WriteString(strings.Repeat("─", 72))
	sb.WriteString("\n")

	for _, run := range sorted {
		errText := "—"
		if run.Error != "" {
			errText = truncate(run.Error, 30)
		}
		sb.WriteString(fmt.Sprintf("%-17s %-9s %-9s %-6d %-10d %s\n",
			formatRelativeTime(run.StartedAt),
			run.Cause,
			formatDuration(run.Duration),
			run.AppCount,
			run.Failures,
			errText))
	}
	return sb.String()
}

// formatUnix formats a Unix-seconds timestamp relative to now; 0 is never.
func formatUnix(sec int64) string {
	if sec <= 0 {
		return "never"
	}
	return formatRelativeTime(time.Unix(sec, 0))
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24/7), "week")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/24/30), "month")
	default:
		return plural(int(diff.Hours()/24/365), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

// shortID returns the first 8 characters of id.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate truncates a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
