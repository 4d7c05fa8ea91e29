// Package query ranks inventory records for search and the recent list.
// Functions here are pure and operate on a snapshot of records.
package query

import (
	"sort"
	"strings"

	"github.com/blackwell-systems/appdex/internal/apps"
)

const (
	// MaxResults caps every result list.
	MaxResults = 10
	// MinRecent is the recent-list length below which it is topped up with
	// popular apps.
	MinRecent = 5
)

// Search returns up to MaxResults records whose name contains q,
// case-insensitively. Exact name matches come first, then records by
// descending access count. Ties are broken by name, then ID. A blank query
// matches every record, so it lists the most-launched apps.
func Search(records []apps.Record, q string) []apps.Record {
	needle := strings.ToLower(strings.TrimSpace(q))

	type hit struct {
		rec   apps.Record
		exact bool
	}
	var hits []hit
	for _, r := range records {
		name := strings.ToLower(r.Name)
		if strings.Contains(name, needle) {
			hits = append(hits, hit{rec: r, exact: name == needle})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.exact != b.exact {
			return a.exact
		}
		if a.rec.AccessCount != b.rec.AccessCount {
			return a.rec.AccessCount > b.rec.AccessCount
		}
		return byName(a.rec, b.rec)
	})

	out := make([]apps.Record, 0, min(len(hits), MaxResults))
	for i := 0; i < len(hits) && i < MaxResults; i++ {
		out = append(out, hits[i].rec)
	}
	return out
}

// Recent returns up to MaxResults records ordered by most recent launch.
// When fewer than MinRecent records were ever launched, the list is
// topped up with the most-launched remaining records.
func Recent(records []apps.Record) []apps.Record {
	var accessed []apps.Record
	for _, r := range records {
		if r.Accessed() {
			accessed = append(accessed, r)
		}
	}
	sort.Slice(accessed, func(i, j int) bool {
		a, b := accessed[i], accessed[j]
		if a.LastAccessed != b.LastAccessed {
			return a.LastAccessed > b.LastAccessed
		}
		return byName(a, b)
	})
	if len(accessed) > MaxResults {
		accessed = accessed[:MaxResults]
	}
	if len(accessed) >= MinRecent {
		return accessed
	}

	included := make(map[string]bool, len(accessed))
	for _, r := range accessed {
		included[r.ID] = true
	}
	var rest []apps.Record
	for _, r := range records {
		if !included[r.ID] {
			rest = append(rest, r)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		a, b := rest[i], rest[j]
		if a.AccessCount != b.AccessCount {
			return a.AccessCount > b.AccessCount
		}
		return byName(a, b)
	})

	out := accessed
	for _, r := range rest {
		if len(out) >= MaxResults {
			break
		}
		out = append(out, r)
	}
	if out == nil {
		out = []apps.Record{}
	}
	return out
}

func byName(a, b apps.Record) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}
