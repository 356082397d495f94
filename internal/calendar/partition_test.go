package calendar

import (
	"fmt"
	"testing"
	"time"

	"github.com/julianstephens/murmur/internal/models"
)

func entryAt(id string, at time.Time) models.JournalEntry {
	return models.JournalEntry{ID: id, Text: id, Date: at, CreatedAt: at}
}

func ids(entries []models.JournalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIsSameDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name string
		a, b time.Time
		loc  *time.Location
		want bool
	}{
		{
			name: "same day different times",
			a:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC),
			loc:  time.UTC,
			want: true,
		},
		{
			name: "adjacent days",
			a:    time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC),
			b:    time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC),
			loc:  time.UTC,
			want: false,
		},
		{
			name: "same UTC day splits in local time",
			a:    time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC), // 22:00 on the 14th in New York
			b:    time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
			loc:  ny,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSameDay(tt.a, tt.b, tt.loc); got != tt.want {
				t.Errorf("IsSameDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntriesOnDayBoundaries(t *testing.T) {
	day := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		entryAt("late", time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)),
		entryAt("next", time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)),
		entryAt("midnight", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		entryAt("prev", time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)),
	}

	got := ids(EntriesOnDay(entries, day, time.UTC, Any))
	if !equalIDs(got, []string{"late", "midnight"}) {
		t.Errorf("EntriesOnDay() = %v, want [late midnight]", got)
	}
}

func TestPredicatesWithDualFlag(t *testing.T) {
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	deletedAt := at
	both := entryAt("both", at)
	both.IsArchivedToCalendar = true
	both.IsDeleted = true
	both.DeletedAt = &deletedAt

	if Active(&both) || Archived(&both) || !Deleted(&both) {
		t.Error("archived and deleted entry must only match Deleted")
	}
}

func TestEntriesUpToIsMonotonic(t *testing.T) {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	var entries []models.JournalEntry
	for i := 0; i < 30; i++ {
		e := entryAt(fmt.Sprintf("e%d", i), base.AddDate(0, 0, i).Add(time.Duration(i%12)*time.Hour))
		e.IsArchivedToCalendar = i%2 == 0
		entries = append(entries, e)
	}

	prev := 0
	for d := 0; d < 35; d++ {
		n := len(EntriesUpTo(entries, base.AddDate(0, 0, d), time.UTC, Archived))
		if n < prev {
			t.Fatalf("EntriesUpTo decreased from %d to %d on day %d", prev, n, d)
		}
		prev = n
	}
	if prev != 15 {
		t.Errorf("expected all 15 archived entries by the end, got %d", prev)
	}
}

func TestEntriesUpToIncludesWholeDay(t *testing.T) {
	entries := []models.JournalEntry{
		entryAt("end", time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC)),
		entryAt("after", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)),
	}
	got := ids(EntriesUpTo(entries, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), time.UTC, Any))
	if !equalIDs(got, []string{"end"}) {
		t.Errorf("EntriesUpTo() = %v, want [end]", got)
	}
}

func TestEntriesBetween(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		entryAt("before", start.Add(-time.Second)),
		entryAt("start", start),
		entryAt("end", end),
		entryAt("after", end.Add(time.Second)),
	}
	got := ids(EntriesBetween(entries, start, end, Any))
	if !equalIDs(got, []string{"start", "end"}) {
		t.Errorf("EntriesBetween() = %v", got)
	}
}

func TestFilterReturnsCopies(t *testing.T) {
	entries := []models.JournalEntry{entryAt("a", time.Now())}
	entries[0].Tags = []string{"x"}

	out := Filter(entries, Any)
	out[0].Tags[0] = "changed"
	if entries[0].Tags[0] != "x" {
		t.Error("Filter shares tag slices with its input")
	}
	if none := Filter(nil, Any); none == nil {
		t.Error("Filter should return an empty, non-nil slice")
	}
}

func TestSortNewestFirstIsStable(t *testing.T) {
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	entries := []models.JournalEntry{
		entryAt("old", at.Add(-time.Hour)),
		entryAt("tie1", at),
		entryAt("new", at.Add(time.Hour)),
		entryAt("tie2", at),
	}
	SortNewestFirst(entries)
	if got := ids(entries); !equalIDs(got, []string{"new", "tie1", "tie2", "old"}) {
		t.Errorf("SortNewestFirst() = %v", got)
	}
}
