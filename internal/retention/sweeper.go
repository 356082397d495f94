// Package retention permanently removes entries that have sat in the
// deleted view longer than the configured retention window.
package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/murmur/internal/logger"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
)

// Purger is the slice of the journal the sweeper needs.
type Purger interface {
	Entries() []models.JournalEntry
	PurgeDeleted(ctx context.Context, cutoff time.Time) ([]models.JournalEntry, error)
}

// Snapshotter takes a backup before anything is destroyed.
type Snapshotter interface {
	CreateBackup(ctx context.Context) (string, error)
}

type Sweeper struct {
	journal  Purger
	clock    utils.Clock
	days     int
	snapshot Snapshotter
}

// NewSweeper purges entries deleted more than days ago. snapshot may be nil.
func NewSweeper(journal Purger, clock utils.Clock, days int, snapshot Snapshotter) *Sweeper {
	return &Sweeper{journal: journal, clock: clock, days: days, snapshot: snapshot}
}

// Cutoff is the latest deletedAt that is old enough to purge.
func (s *Sweeper) Cutoff() time.Time {
	return s.clock.Now().AddDate(0, 0, -s.days)
}

// Due lists the entries the next Sweep would remove.
func (s *Sweeper) Due() []models.JournalEntry {
	cutoff := s.Cutoff()
	var due []models.JournalEntry
	for _, e := range s.journal.Entries() {
		if e.IsDeleted && e.DeletedAt != nil && !e.DeletedAt.After(cutoff) {
			due = append(due, e)
		}
	}
	return due
}

// Sweep purges expired entries, snapshotting first when anything is due.
func (s *Sweeper) Sweep(ctx context.Context) ([]models.JournalEntry, error) {
	if s.days < 0 {
		return nil, fmt.Errorf("retention days must not be negative, got %d", s.days)
	}
	if len(s.Due()) == 0 {
		return nil, nil
	}

	if s.snapshot != nil {
		if _, err := s.snapshot.CreateBackup(ctx); err != nil {
			return nil, fmt.Errorf("failed to snapshot journal before purge: %w", err)
		}
	}

	purged, err := s.journal.PurgeDeleted(ctx, s.Cutoff())
	if err != nil {
		return nil, err
	}
	logger.Info("Purged deleted entries", "count", len(purged), "retention_days", s.days)
	return purged, nil
}
