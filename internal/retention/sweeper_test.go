package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/utils"
)

type recordingSnapshotter struct {
	calls int
	err   error
}

func (r *recordingSnapshotter) CreateBackup(context.Context) (string, error) {
	r.calls++
	return "snapshot", r.err
}

type mutableClock struct{ now time.Time }

func (c *mutableClock) Now() time.Time           { return c.now }
func (c *mutableClock) Location() *time.Location { return time.UTC }

func setupJournal(t *testing.T, clock *mutableClock) *journal.Journal {
	t.Helper()
	j := journal.New(storage.NewEntryStore(storage.NewMemoryStore()), clock)
	if _, err := j.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return j
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	clock := &mutableClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	j := setupJournal(t, clock)

	old, _ := j.Create(ctx, "old", "", nil, nil)
	fresh, _ := j.Create(ctx, "fresh", "", nil, nil)
	kept, _ := j.Create(ctx, "kept", "", nil, nil)

	_ = j.Delete(ctx, old.ID, false)
	clock.now = clock.now.AddDate(0, 0, 20)
	_ = j.Delete(ctx, fresh.ID, false)
	clock.now = clock.now.AddDate(0, 0, 10) // old was deleted exactly 30 days ago

	snap := &recordingSnapshotter{}
	sweeper := NewSweeper(j, clock, 30, snap)

	if due := sweeper.Due(); len(due) != 1 || due[0].ID != old.ID {
		t.Fatalf("Due() = %+v, want only the old entry", due)
	}

	purged, err := sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(purged) != 1 || purged[0].ID != old.ID {
		t.Errorf("Sweep() purged %+v", purged)
	}
	if snap.calls != 1 {
		t.Errorf("expected one snapshot, got %d", snap.calls)
	}

	if _, ok := j.Get(fresh.ID); !ok {
		t.Error("recently deleted entry was purged")
	}
	if _, ok := j.Get(kept.ID); !ok {
		t.Error("active entry was purged")
	}
}

func TestSweepNothingDue(t *testing.T) {
	clock := &mutableClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	j := setupJournal(t, clock)
	_, _ = j.Create(context.Background(), "active", "", nil, nil)

	snap := &recordingSnapshotter{}
	purged, err := NewSweeper(j, clock, 30, snap).Sweep(context.Background())
	if err != nil || len(purged) != 0 {
		t.Errorf("Sweep() = %v, %v", purged, err)
	}
	if snap.calls != 0 {
		t.Error("snapshot taken with nothing to purge")
	}
}

func TestSweepAbortsWhenSnapshotFails(t *testing.T) {
	ctx := context.Background()
	clock := &mutableClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	j := setupJournal(t, clock)
	e, _ := j.Create(ctx, "old", "", nil, nil)
	_ = j.Delete(ctx, e.ID, false)
	clock.now = clock.now.AddDate(0, 0, 31)

	snap := &recordingSnapshotter{err: errors.New("disk full")}
	if _, err := NewSweeper(j, clock, 30, snap).Sweep(ctx); err == nil {
		t.Fatal("expected error when snapshot fails")
	}
	if _, ok := j.Get(e.ID); !ok {
		t.Error("entry purged despite failed snapshot")
	}
}
