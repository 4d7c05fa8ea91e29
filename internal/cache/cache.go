// Package cache persists the application inventory as a JSON document.
//
// The on-disk format is the app_index.json document of earlier launcher
// versions: {"apps": {id: record}, "last_update": unix-seconds}. A missing
// or unreadable cache is never fatal; Load falls back to an empty,
// never-built inventory so the first refresh rebuilds it.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/apps"
)

// FileName is the cache file's name inside the data directory.
const FileName = "app_index.json"

// Cache reads and writes the inventory file at a fixed path.
type Cache struct {
	path   string
	logger *zap.Logger

	// mu serializes saves so concurrent writers never share the temp file.
	mu sync.Mutex
}

// New returns a cache backed by path. A nil logger discards log output.
func New(path string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{path: path, logger: logger}
}

// PathIn returns the cache path inside dataDir.
func PathIn(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the inventory. A missing file yields an empty inventory; a
// corrupt one is logged and also yields an empty inventory.
func (c *Cache) Load() apps.Inventory {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return apps.NewInventory()
	}
	if err != nil {
		c.logger.Warn("failed to read app index cache", zap.String("path", c.path), zap.Error(err))
		return apps.NewInventory()
	}

	inv, err := decode(data)
	if err != nil {
		c.logger.Warn("app index cache is corrupt, starting empty", zap.String("path", c.path), zap.Error(err))
		return apps.NewInventory()
	}
	return inv
}

// Save writes inv atomically: the document goes to a temp file that is
// renamed over the cache, then read back to confirm the app count.
func (c *Cache) Save(inv apps.Inventory) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if inv.Apps == nil {
		inv.Apps = make(map[string]apps.Record)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := sonic.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode app index: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	written, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to verify cache file: %w", err)
	}
	check, err := decode(written)
	if err != nil {
		return fmt.Errorf("failed to verify cache file: %w", err)
	}
	if len(check.Apps) != len(inv.Apps) {
		return fmt.Errorf("cache verification failed: wrote %d apps, read back %d", len(inv.Apps), len(check.Apps))
	}

	c.logger.Debug("saved app index", zap.String("path", c.path), zap.Int("apps", len(inv.Apps)))
	return nil
}

// decode parses a cache document. Records keep the ID they are stored
// under, which repairs entries whose id field is missing.
func decode(data []byte) (apps.Inventory, error) {
	var inv apps.Inventory
	if err := sonic.Unmarshal(data, &inv); err != nil {
		return apps.Inventory{}, err
	}
	if inv.Apps == nil {
		inv.Apps = make(map[string]apps.Record)
	}
	for id, rec := range inv.Apps {
		if rec.ID != id {
			rec.ID = id
			inv.Apps[id] = rec
		}
	}
	collapse(inv.Apps)
	return inv, nil
}

// collapse removes records that share an identity key with another record.
// The survivor is the most launched one, ties going to the smaller ID, and
// it takes the group's highest count and latest access time.
func collapse(recs map[string]apps.Record) {
	keep := make(map[string]string, len(recs))
	for id, rec := range recs {
		key := rec.Key()
		if key == "" {
			continue
		}
		other, seen := keep[key]
		if !seen {
			keep[key] = id
			continue
		}

		winner, loser := recs[other], rec
		if rec.AccessCount > winner.AccessCount ||
			(rec.AccessCount == winner.AccessCount && id < other) {
			winner, loser = rec, winner
		}
		if loser.AccessCount > winner.AccessCount {
			winner.AccessCount = loser.AccessCount
		}
		if loser.LastAccessed > winner.LastAccessed {
			winner.LastAccessed = loser.LastAccessed
		}
		delete(recs, loser.ID)
		recs[winner.ID] = winner
		keep[key] = winner.ID
	}
}
