// Package index holds the live application inventory.
//
// Store guards the inventory with a single RWMutex. Every operation under
// the lock is memory-only; persistence happens after the lock is released,
// so queries never wait on disk or on a rebuild in progress.
package index

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/apps"
	"github.com/blackwell-systems/appdex/internal/merge"
	"github.com/blackwell-systems/appdex/internal/query"
)

// Persister writes inventory snapshots to durable storage.
type Persister interface {
	Save(inv apps.Inventory) error
}

// Loader reads back what a Persister wrote. A persister that also
// implements Loader may be shared with other processes: before each save
// the store folds the stored inventory into memory, so entries and launch
// counts written elsewhere are not overwritten.
type Loader interface {
	Load() apps.Inventory
}

// Status summarizes the inventory.
type Status struct {
	AppCount   int
	LastUpdate int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for access timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides record ID generation for manual entries.
func WithIDFunc(fn merge.IDFunc) Option {
	return func(s *Store) { s.newID = fn }
}

// WithSaveErrorHandler registers fn to be called when a background save
// fails, after the failure is logged.
func WithSaveErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onSaveError = fn }
}

// Store is the in-memory inventory shared by queries and the refresher.
type Store struct {
	mu  sync.RWMutex
	inv apps.Inventory

	persister   Persister
	logger      *zap.Logger
	now         func() time.Time
	newID       merge.IDFunc
	onSaveError func(error)

	saveMu  sync.Mutex
	queued  atomic.Bool
	pending sync.WaitGroup
}

// New returns a store seeded with inv, typically the cached inventory.
// A nil persister disables saving.
func New(inv apps.Inventory, p Persister, logger *zap.Logger, opts ...Option) *Store {
	if inv.Apps == nil {
		inv.Apps = make(map[string]apps.Record)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		inv:       inv,
		persister: p,
		logger:    logger,
		now:       time.Now,
		newID:     merge.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the inventory.
func (s *Store) Snapshot() apps.Inventory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inv.Clone()
}

// Replace swaps in inv wholesale.
func (s *Store) Replace(inv apps.Inventory) {
	if inv.Apps == nil {
		inv.Apps = make(map[string]apps.Record)
	}
	s.mu.Lock()
	s.inv = inv
	s.mu.Unlock()
}

// Update replaces the inventory with fn's result, computed under the write
// lock. fn receives the live inventory: it must not modify it or retain
// it, and must not block.
func (s *Store) Update(fn func(cur apps.Inventory) apps.Inventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.inv)
	if next.Apps == nil {
		next.Apps = make(map[string]apps.Record)
	}
	s.inv = next
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (apps.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.inv.Apps[id]
	return rec, ok
}

// Search ranks records matching q.
func (s *Store) Search(q string) []apps.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Search(s.inv.Records(), q)
}

// Recent returns the recently launched records.
func (s *Store) Recent() []apps.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Recent(s.inv.Records())
}

// Status reports the app count and last build time.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{AppCount: len(s.inv.Apps), LastUpdate: s.inv.LastUpdate}
}

// RecordAccess counts a launch of id and schedules a background save.
// It reports false, changing nothing, when id is unknown.
func (s *Store) RecordAccess(id string) (apps.Record, bool) {
	s.mu.Lock()
	rec, ok := s.inv.Apps[id]
	if !ok {
		s.mu.Unlock()
		return apps.Record{}, false
	}
	if rec.AccessCount < math.MaxUint32 {
		rec.AccessCount++
	}
	rec.LastAccessed = s.now().Unix()
	s.inv.Apps[id] = rec
	s.mu.Unlock()

	s.SaveAsync()
	return rec, true
}

// AddManual inserts or updates a manual entry. The entry must already be
// validated with merge.ValidateManual.
func (s *Store) AddManual(e merge.ManualEntry) apps.Record {
	s.mu.Lock()
	next, rec := merge.AddManual(s.inv, e, s.newID)
	s.inv = next
	s.mu.Unlock()
	return rec
}

// SaveAsync schedules a background save. Saves run one at a time and each
// writes the inventory as it is when the save starts, so the last save
// always reflects the latest state. A save already waiting to start
// absorbs further requests.
func (s *Store) SaveAsync() {
	if s.persister == nil || !s.queued.CompareAndSwap(false, true) {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.save(); err != nil {
			s.logger.Warn("background save of app index failed", zap.Error(err))
			if s.onSaveError != nil {
				s.onSaveError(err)
			}
		}
	}()
}

// Flush saves the inventory synchronously.
func (s *Store) Flush() error {
	if s.persister == nil {
		return nil
	}
	return s.save()
}

// Wait blocks until scheduled background saves have finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

func (s *Store) save() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.queued.Store(false)
	if l, ok := s.persister.(Loader); ok {
		disk := l.Load()
		s.mu.Lock()
		s.inv = merge.Reconcile(s.inv, disk, s.newID)
		s.mu.Unlock()
	}
	return s.persister.Save(s.Snapshot())
}
