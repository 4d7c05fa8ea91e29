// Package merge reconciles freshly discovered applications with the
// existing inventory.
//
// Records are matched by identity key. A matched record keeps its ID and
// usage statistics while its descriptive fields are refreshed. Records the
// fresh scan did not see are kept unchanged, so manual entries and apps on
// temporarily unavailable drives survive a rescan.
package merge

import (
	"github.com/google/uuid"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// Candidate is a raw candidate after classification and icon lookup.
type Candidate struct {
	apps.RawCandidate
	Category string
	Icon     string
}

// IDFunc generates record IDs.
type IDFunc func() string

// NewID returns a random UUID v4 string.
func NewID() string {
	return uuid.New().String()
}

// sourceRank orders sources by how much they know about an application.
var sourceRank = map[string]int{
	apps.SourceRegistry:   3,
	apps.SourceShortcut:   2,
	apps.SourceFilesystem: 1,
}

// Merge returns a new inventory combining existing with fresh. existing is
// not modified. The result's LastUpdate is copied from existing; callers
// stamp it once the rebuild is complete.
func Merge(existing apps.Inventory, fresh []Candidate, newID IDFunc) apps.Inventory {
	if newID == nil {
		newID = NewID
	}

	out := existing.Clone()
	if out.Apps == nil {
		out.Apps = make(map[string]apps.Record)
	}

	byKey := make(map[string]string, len(out.Apps))
	for id, rec := range out.Apps {
		byKey[rec.Key()] = id
	}

	for _, c := range Dedupe(fresh) {
		key := apps.IdentityKey(c.Path)
		if id, ok := byKey[key]; ok {
			rec := out.Apps[id]
			rec.Name = c.Name
			rec.Path = c.Path
			rec.Icon = c.Icon
			rec.Category = c.Category
			rec.Source = c.Source
			out.Apps[id] = rec
			continue
		}

		id := newID()
		out.Apps[id] = apps.Record{
			ID:       id,
			Name:     c.Name,
			Path:     c.Path,
			Icon:     c.Icon,
			Category: c.Category,
			Source:   c.Source,
		}
		byKey[key] = id
	}
	return out
}

// Dedupe collapses candidates sharing an identity key, keeping the one
// from the most informative source. Ties keep the earlier candidate.
// Order of first appearance is preserved.
func Dedupe(cs []Candidate) []Candidate {
	index := make(map[string]int, len(cs))
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		key := apps.IdentityKey(c.Path)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			if sourceRank[c.Source] > sourceRank[out[i].Source] {
				out[i] = c
			}
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}
