package apps

import "time"

// Category names assigned by the classifier.
const (
	CategoryApplications = "Applications"
	CategoryGames        = "Games"
	CategoryOffice       = "Office"
	CategoryMedia        = "Media"
	CategorySocial       = "Social"
	CategoryDevelopment  = "Development"
	CategoryDesign       = "Design"
	CategoryBrowsers     = "Browsers"
	CategoryUtilities    = "Utilities"
	CategorySystemTools  = "System Tools"
)

// Source names identify which reader produced a record.
const (
	SourceRegistry   = "registry"
	SourceShortcut   = "shortcut"
	SourceFilesystem = "filesystem"
	SourceManual     = "manual"
)

// Record is a single launchable application in the inventory.
// The JSON field names match the app_index.json document written by
// earlier launcher versions, so existing caches load unchanged.
type Record struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Icon         string `json:"icon"`
	Category     string `json:"category"`
	LastAccessed int64  `json:"last_accessed,omitempty"` // unix seconds, 0 = never
	AccessCount  uint32 `json:"access_count"`
	Source       string `json:"source,omitempty"`
}

// Accessed reports whether the record has ever been launched.
func (r Record) Accessed() bool {
	return r.LastAccessed > 0
}

// LastAccessedTime returns LastAccessed as a time.Time (zero if never).
func (r Record) LastAccessedTime() time.Time {
	if r.LastAccessed <= 0 {
		return time.Time{}
	}
	return time.Unix(r.LastAccessed, 0)
}

// Key returns the record's identity key.
func (r Record) Key() string {
	return IdentityKey(r.Path)
}

// Inventory is the full id -> Record mapping plus the time of the last
// successful build. LastUpdate == 0 means the inventory was never built.
type Inventory struct {
	Apps       map[string]Record `json:"apps"`
	LastUpdate int64             `json:"last_update"`
}

// NewInventory returns an empty, never-built inventory.
func NewInventory() Inventory {
	return Inventory{Apps: make(map[string]Record)}
}

// Clone returns a copy whose map can be mutated without affecting inv.
func (inv Inventory) Clone() Inventory {
	out := Inventory{
		Apps:       make(map[string]Record, len(inv.Apps)),
		LastUpdate: inv.LastUpdate,
	}
	for id, rec := range inv.Apps {
		out.Apps[id] = rec
	}
	return out
}

// Records returns the inventory's records as a slice in no particular order.
func (inv Inventory) Records() []Record {
	out := make([]Record, 0, len(inv.Apps))
	for _, rec := range inv.Apps {
		out = append(out, rec)
	}
	return out
}

// Built reports whether the inventory has ever been built.
func (inv Inventory) Built() bool {
	return inv.LastUpdate != 0
}

// IsStale reports whether the inventory is at least ttl old at now.
// A never-built inventory is always stale.
func (inv Inventory) IsStale(now time.Time, ttl time.Duration) bool {
	if !inv.Built() {
		return true
	}
	age := now.Unix() - inv.LastUpdate
	return age >= int64(ttl/time.Second)
}

// RawCandidate is an application discovered by exactly one reader
// invocation. It is consumed by the classifier and merger and never
// persisted.
type RawCandidate struct {
	Name   string
	Path   string
	Source string
}
