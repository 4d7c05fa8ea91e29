package merge

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// ErrInvalidManualEntry is returned for manual entries with a blank name or
// a path that does not exist.
var ErrInvalidManualEntry = errors.New("invalid manual entry")

// ManualEntry is an application the user registered by hand.
type ManualEntry struct {
	Name     string
	Path     string
	Category string
	Icon     string
}

// ValidateManual checks a manual entry against the filesystem. It performs
// disk I/O and must not be called while holding the index lock.
func ValidateManual(name, path string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidManualEntry)
	}
	exe := apps.Executable(path)
	if exe == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidManualEntry)
	}
	info, err := os.Stat(exe)
	if err != nil {
		return fmt.Errorf("%w: %s does not exist", ErrInvalidManualEntry, exe)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidManualEntry, exe)
	}
	return nil
}

// AddManual inserts e into a copy of inv. An existing record with the same
// identity key, or failing that the same name (case-insensitive), is
// updated in place and keeps its ID and usage statistics.
func AddManual(inv apps.Inventory, e ManualEntry, newID IDFunc) (apps.Inventory, apps.Record) {
	if newID == nil {
		newID = NewID
	}
	out := inv.Clone()
	if out.Apps == nil {
		out.Apps = make(map[string]apps.Record)
	}

	name := strings.TrimSpace(e.Name)
	path := strings.TrimSpace(e.Path)
	key := apps.IdentityKey(path)

	ids := make([]string, 0, len(out.Apps))
	for id := range out.Apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var match *apps.Record
	for _, id := range ids {
		if rec := out.Apps[id]; rec.Key() == key {
			match = &rec
			break
		}
	}
	if match == nil {
		for _, id := range ids {
			if rec := out.Apps[id]; strings.EqualFold(rec.Name, name) {
				match = &rec
				break
			}
		}
	}

	var rec apps.Record
	if match != nil {
		rec = *match
	} else {
		rec = apps.Record{ID: newID()}
	}
	rec.Name = name
	rec.Path = path
	rec.Category = e.Category
	rec.Icon = e.Icon
	rec.Source = apps.SourceManual
	out.Apps[rec.ID] = rec
	return out, rec
}
