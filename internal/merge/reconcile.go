package merge

import (
	"github.com/blackwell-systems/appdex/internal/apps"
)

// Reconcile folds disk, an inventory written by another process, into
// cur and returns the result. cur is not modified.
//
// Records are matched by ID, then by identity key. A matched record keeps
// cur's fields and takes the higher access count and the later access
// time. Records only present on disk are added; their ID is kept unless
// cur already uses it for a different application.
func Reconcile(cur, disk apps.Inventory, newID IDFunc) apps.Inventory {
	if newID == nil {
		newID = NewID
	}

	out := cur.Clone()
	if out.Apps == nil {
		out.Apps = make(map[string]apps.Record)
	}
	if len(disk.Apps) == 0 {
		return out
	}

	byKey := make(map[string]string, len(out.Apps))
	for id, rec := range out.Apps {
		byKey[rec.Key()] = id
	}

	for id, theirs := range disk.Apps {
		key := theirs.Key()
		matched, ok := "", false
		if rec, found := out.Apps[id]; found && rec.Key() == key {
			matched, ok = id, true
		} else if kid, found := byKey[key]; found {
			matched, ok = kid, true
		}

		if ok {
			rec := out.Apps[matched]
			if theirs.AccessCount > rec.AccessCount {
				rec.AccessCount = theirs.AccessCount
			}
			if theirs.LastAccessed > rec.LastAccessed {
				rec.LastAccessed = theirs.LastAccessed
			}
			out.Apps[matched] = rec
			continue
		}

		if _, taken := out.Apps[id]; taken || id == "" {
			id = newID()
		}
		theirs.ID = id
		out.Apps[id] = theirs
		byKey[key] = id
	}

	if disk.LastUpdate > out.LastUpdate {
		out.LastUpdate = disk.LastUpdate
	}
	return out
}
