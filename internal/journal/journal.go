// Package journal owns the entry collection and every state transition on
// it: create, archive, soft delete, restore and permanent removal.
package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/quota"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/utils"
)

// Locker serializes writers across processes.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// QuotaCheck receives the number of entries dated today and reports whether
// one more may be created.
type QuotaCheck func(countToday int) bool

// Journal is the single writer of the entry collection. All methods are safe
// for concurrent use.
type Journal struct {
	mu      sync.Mutex
	store   *storage.EntryStore
	clock   utils.Clock
	locker  Locker
	newID   func() string
	entries []models.JournalEntry
}

type Option func(*Journal)

// WithLocker makes every mutation take l and reload the stored collection
// first, so writes from other processes are never overwritten.
func WithLocker(l Locker) Option {
	return func(j *Journal) { j.locker = l }
}

func WithIDGenerator(fn func() string) Option {
	return func(j *Journal) { j.newID = fn }
}

func New(store *storage.EntryStore, clock utils.Clock, opts ...Option) *Journal {
	j := &Journal{
		store:   store,
		clock:   clock,
		newID:   uuid.NewString,
		entries: []models.JournalEntry{},
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Load replaces the in-memory collection with the stored one. Loading may
// quarantine bad records and rewrite the collection, so with a locker
// configured it runs under the lock like any mutation.
func (j *Journal) Load(ctx context.Context) (storage.LoadResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.locker != nil {
		unlock, err := j.locker.Lock(ctx)
		if err != nil {
			return storage.LoadResult{}, err
		}
		defer unlock()
	}
	return j.reload(ctx)
}

// Refresh picks up writes made by other processes since the last load.
func (j *Journal) Refresh(ctx context.Context) error {
	_, err := j.Load(ctx)
	return err
}

// reload reads the stored collection. Callers hold j.mu and the locker.
func (j *Journal) reload(ctx context.Context) (storage.LoadResult, error) {
	result, err := j.store.Load(ctx)
	if err != nil {
		return storage.LoadResult{}, err
	}
	for _, q := range result.Quarantined {
		logger.Warn("Quarantined journal record", "reason", q.Reason)
	}
	j.entries = result.Entries
	logger.Debug("Journal loaded", "entries", len(j.entries))
	return result, nil
}

// Entries returns a copy of the collection, newest insertion first.
func (j *Journal) Entries() []models.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return models.CloneEntries(j.entries)
}

func (j *Journal) Get(id string) (models.JournalEntry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if i := indexOf(j.entries, id); i >= 0 {
		return j.entries[i].Clone(), true
	}
	return models.JournalEntry{}, false
}

// Create admits a new entry dated now. quotaCheck may be nil for no limit.
func (j *Journal) Create(ctx context.Context, text string, mood models.Mood, tags []string, quotaCheck QuotaCheck) (models.JournalEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.JournalEntry{}, ErrEmptyText
	}
	if mood != "" && !mood.Valid() {
		return models.JournalEntry{}, fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}
	tags = cleanTags(tags)

	var created models.JournalEntry
	err := j.mutate(ctx, "create", func(current []models.JournalEntry, now time.Time) ([]models.JournalEntry, bool, error) {
		if quotaCheck != nil && !quotaCheck(quota.CountToday(current, now, j.clock.Location())) {
			return nil, false, ErrQuotaExceeded
		}

		created = models.JournalEntry{
			ID:        j.newID(),
			Text:      text,
			Date:      now,
			CreatedAt: now,
			Mood:      mood,
			Tags:      tags,
		}
		next := make([]models.JournalEntry, 0, len(current)+1)
		next = append(next, created)
		next = append(next, current...)
		return next, true, nil
	})
	if err != nil {
		return models.JournalEntry{}, err
	}
	logger.Debug("Entry created", "id", created.ID)
	return created.Clone(), nil
}

// Delete removes the entry when permanent is set and soft-deletes it
// otherwise. Soft-deleting an already deleted entry keeps its original
// deletedAt. Unknown ids are ignored.
func (j *Journal) Delete(ctx context.Context, id string, permanent bool) error {
	if permanent {
		return j.mutate(ctx, "delete", func(current []models.JournalEntry, _ time.Time) ([]models.JournalEntry, bool, error) {
			i := indexOf(current, id)
			if i < 0 {
				return nil, false, nil
			}
			next := make([]models.JournalEntry, 0, len(current)-1)
			next = append(next, current[:i]...)
			next = append(next, current[i+1:]...)
			return next, true, nil
		})
	}

	return j.update(ctx, "soft delete", id, func(e *models.JournalEntry, now time.Time) bool {
		if e.IsDeleted {
			return false
		}
		e.IsDeleted = true
		e.DeletedAt = &now
		return true
	})
}

// Archive files the entry to the calendar. There is no way back.
func (j *Journal) Archive(ctx context.Context, id string) error {
	return j.update(ctx, "archive", id, func(e *models.JournalEntry, _ time.Time) bool {
		if e.IsArchivedToCalendar {
			return false
		}
		e.IsArchivedToCalendar = true
		return true
	})
}

// Restore undoes a soft delete. The archive flag is left as it was.
func (j *Journal) Restore(ctx context.Context, id string) error {
	return j.update(ctx, "restore", id, func(e *models.JournalEntry, _ time.Time) bool {
		if !e.IsDeleted {
			return false
		}
		e.IsDeleted = false
		e.DeletedAt = nil
		return true
	})
}

// ClearAll removes every entry and returns how many there were.
func (j *Journal) ClearAll(ctx context.Context) (int, error) {
	cleared := 0
	err := j.mutate(ctx, "clear", func(current []models.JournalEntry, _ time.Time) ([]models.JournalEntry, bool, error) {
		cleared = len(current)
		return []models.JournalEntry{}, true, nil
	})
	return cleared, err
}

// PurgeDeleted permanently removes soft-deleted entries whose deletedAt is at
// or before cutoff and returns them.
func (j *Journal) PurgeDeleted(ctx context.Context, cutoff time.Time) ([]models.JournalEntry, error) {
	var purged []models.JournalEntry
	err := j.mutate(ctx, "purge", func(current []models.JournalEntry, _ time.Time) ([]models.JournalEntry, bool, error) {
		purged = nil
		next := make([]models.JournalEntry, 0, len(current))
		for _, e := range current {
			if e.IsDeleted && e.DeletedAt != nil && !e.DeletedAt.After(cutoff) {
				purged = append(purged, e)
				continue
			}
			next = append(next, e)
		}
		return next, len(purged) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return models.CloneEntries(purged), nil
}

// update applies fn to a copy of the entry with the given id and swaps the
// copy into a new collection. fn reports whether it changed anything.
func (j *Journal) update(ctx context.Context, op, id string, fn func(e *models.JournalEntry, now time.Time) bool) error {
	return j.mutate(ctx, op, func(current []models.JournalEntry, now time.Time) ([]models.JournalEntry, bool, error) {
		i := indexOf(current, id)
		if i < 0 {
			logger.Debug("Ignoring unknown entry", "op", op, "id", id)
			return nil, false, nil
		}
		updated := current[i].Clone()
		if !fn(&updated, now) {
			return nil, false, nil
		}
		next := make([]models.JournalEntry, len(current))
		copy(next, current)
		next[i] = updated
		return next, true, nil
	})
}

// mutate runs one read-modify-write of the collection. fn must not modify
// current; it returns the replacement and whether to persist it. The
// replacement becomes visible only after the store accepted it.
func (j *Journal) mutate(ctx context.Context, op string, fn func(current []models.JournalEntry, now time.Time) ([]models.JournalEntry, bool, error)) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.locker != nil {
		unlock, err := j.locker.Lock(ctx)
		if err != nil {
			return err
		}
		defer unlock()

		if _, err := j.reload(ctx); err != nil {
			return fmt.Errorf("failed to refresh journal: %w", err)
		}
	}

	next, changed, err := fn(j.entries, j.clock.Now())
	if err != nil || !changed {
		return err
	}

	if err := j.store.Save(ctx, next); err != nil {
		logger.Error("Failed to persist journal", "op", op, "error", err)
		return &PersistError{Op: op, Err: err}
	}
	j.entries = next
	logger.Debug("Journal updated", "op", op, "entries", len(next))
	return nil
}

func indexOf(entries []models.JournalEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
