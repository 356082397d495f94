package diskv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/murmur/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "kv"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func TestLoadMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading missing directory")
	}
}

func TestSetGetRemove(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "journal_entries"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "journal_entries", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "subscription", []byte(`{}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "journal_entries")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %q, want []", got)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "journal_entries" || keys[1] != "subscription" {
		t.Errorf("Keys() = %v", keys)
	}

	if err := store.Remove(ctx, "journal_entries"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := store.Remove(ctx, "journal_entries"); err != nil {
		t.Errorf("second Remove failed: %v", err)
	}
	if _, err := store.Get(ctx, "journal_entries"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after Remove, got %v", err)
	}
}

func TestPersistsAcrossInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	ctx := context.Background()

	first := NewStore(dir)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := first.Set(ctx, "journal_entries", []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second := NewStore(dir)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := second.Get(ctx, "journal_entries")
	if err != nil || string(got) != "[1]" {
		t.Errorf("Get() = %q, %v", got, err)
	}
}

func TestGetSeesWritesFromOtherInstances(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")
	ctx := context.Background()

	a := NewStore(dir)
	if err := a.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	b := NewStore(dir)
	if err := b.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := a.Set(ctx, "journal_entries", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, err := a.Get(ctx, "journal_entries"); err != nil || string(got) != `[{"id":"a"}]` {
		t.Fatalf("Get() = %q, %v", got, err)
	}

	if err := b.Set(ctx, "journal_entries", []byte(`[{"id":"b"},{"id":"a"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := a.Get(ctx, "journal_entries")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"b"},{"id":"a"}]` {
		t.Errorf("stale read after another instance wrote: %s", got)
	}

	if err := b.Remove(ctx, "journal_entries"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := a.Get(ctx, "journal_entries"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after another instance removed the key, got %v", err)
	}
}

func TestSatisfiesProvider(t *testing.T) {
	var _ storage.Provider = NewStore("x")
}
