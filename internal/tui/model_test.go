package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/storage"
	"github.com/julianstephens/murmur/internal/utils"
)

var testNow = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

func setupModel(t *testing.T, texts ...string) (Model, *journal.Journal) {
	t.Helper()
	clock := utils.FixedClock{T: testNow}
	j := journal.New(storage.NewEntryStore(storage.NewMemoryStore()), clock)
	for _, text := range texts {
		if _, err := j.Create(context.Background(), text, models.MoodCalm, nil, nil); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}
	return NewModel(context.Background(), j, clock), j
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and feeds any resulting command message back in.
func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, isQuit := out.(tea.QuitMsg); !isQuit {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestNewModelShowsActiveEntries(t *testing.T) {
	m, _ := setupModel(t, "first", "second")

	if m.Mode() != models.ViewActive {
		t.Errorf("expected active view, got %s", m.Mode())
	}
	if len(m.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m.entries))
	}
	view := m.View()
	for _, want := range []string{"Active (2)", "Friday, March 15, 2024", "first", "second"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestTabCyclesViews(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != models.ViewArchived {
		t.Errorf("expected archived, got %s", m.Mode())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != models.ViewDeleted {
		t.Errorf("expected deleted, got %s", m.Mode())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != models.ViewActive {
		t.Errorf("expected wrap to active, got %s", m.Mode())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Mode() != models.ViewDeleted {
		t.Errorf("expected shift+tab to go back to deleted, got %s", m.Mode())
	}
}

func TestDayNavigation(t *testing.T) {
	m, _ := setupModel(t, "today")

	m = press(t, m, runes("h"))
	if m.date.Day() != 14 {
		t.Errorf("expected March 14, got %v", m.date)
	}
	if len(m.entries) != 0 {
		t.Errorf("expected no active entries on a past day, got %d", len(m.entries))
	}

	m = press(t, m, runes("t"))
	if m.date.Day() != 15 || len(m.entries) != 1 {
		t.Errorf("expected today with 1 entry, got %v with %d", m.date, len(m.entries))
	}
}

func TestArchiveDeleteRestoreKeys(t *testing.T) {
	m, j := setupModel(t, "lifecycle")
	entry, _ := m.Selected()

	m = press(t, m, runes("a"))
	if m.err != nil {
		t.Fatalf("archive failed: %v", m.err)
	}
	got, _ := j.Get(entry.ID)
	if !got.IsArchivedToCalendar {
		t.Fatal("expected entry to be archived")
	}
	if len(m.entries) != 0 {
		t.Errorf("expected archived entry to leave the active view")
	}

	// Move to archived view and delete
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("d"))
	got, _ = j.Get(entry.ID)
	if !got.IsDeleted {
		t.Fatal("expected entry to be deleted")
	}

	// Deleted view: restore
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if len(m.entries) != 1 {
		t.Fatalf("expected 1 deleted entry, got %d", len(m.entries))
	}
	m = press(t, m, runes("r"))
	got, _ = j.Get(entry.ID)
	if got.IsDeleted {
		t.Error("expected entry to be restored")
	}
	if m.status != "Entry restored" {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestPermanentDeleteRequiresConfirmation(t *testing.T) {
	m, j := setupModel(t, "doomed")
	entry, _ := m.Selected()

	m = press(t, m, runes("d"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Mode() != models.ViewDeleted {
		t.Fatalf("expected deleted view, got %s", m.Mode())
	}

	m = press(t, m, runes("x"))
	if m.confirmPurge != entry.ID {
		t.Fatal("expected confirmation prompt")
	}
	if !strings.Contains(m.View(), "cannot be undone") {
		t.Error("expected confirmation in view")
	}

	m = press(t, m, runes("n"))
	if _, ok := j.Get(entry.ID); !ok {
		t.Fatal("cancel should keep the entry")
	}

	m = press(t, m, runes("x"))
	m = press(t, m, runes("y"))
	if _, ok := j.Get(entry.ID); ok {
		t.Error("expected entry to be removed")
	}
	if len(m.entries) != 0 {
		t.Errorf("expected empty deleted view, got %d", len(m.entries))
	}
}

func TestActionsIgnoredInWrongView(t *testing.T) {
	m, j := setupModel(t, "stay")
	entry, _ := m.Selected()

	// Restore and purge do nothing in the active view
	m = press(t, m, runes("r"))
	m = press(t, m, runes("x"))
	if m.confirmPurge != "" {
		t.Error("purge prompt should not open outside the deleted view")
	}
	if got, _ := j.Get(entry.ID); got.IsDeleted || got.IsArchivedToCalendar {
		t.Error("entry should be untouched")
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.(Model).View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestReloadPicksUpOtherWriters(t *testing.T) {
	kv := storage.NewMemoryStore()
	clock := utils.FixedClock{T: testNow}
	j := journal.New(storage.NewEntryStore(kv), clock)
	m := NewModel(context.Background(), j, clock)
	if len(m.entries) != 0 {
		t.Fatalf("expected empty view, got %d", len(m.entries))
	}

	other := journal.New(storage.NewEntryStore(kv), clock)
	if _, err := other.Create(context.Background(), "written elsewhere", "", nil, nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	m = press(t, m, reloadTickMsg{})
	if len(m.entries) != 1 || m.entries[0].Text != "written elsewhere" {
		t.Errorf("expected reload to show the other writer's entry, got %+v", m.entries)
	}
	if m.counts.Active != 1 {
		t.Errorf("expected active count 1, got %d", m.counts.Active)
	}
}
