// Package calendar buckets journal entries by local calendar day.
//
// Every comparison here is made on the year/month/day of a timestamp in a
// location; two instants are never compared for exact equality.
package calendar

import (
	"sort"
	"time"

	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
)

// Predicate selects entries by lifecycle state.
type Predicate func(e *models.JournalEntry) bool

var (
	// Any matches every entry.
	Any Predicate = func(e *models.JournalEntry) bool { return true }
	// Active matches entries that are neither archived nor deleted.
	Active Predicate = func(e *models.JournalEntry) bool { return !e.IsArchivedToCalendar && !e.IsDeleted }
	// Archived matches archived entries that are not deleted.
	Archived Predicate = func(e *models.JournalEntry) bool { return e.IsArchivedToCalendar && !e.IsDeleted }
	// Deleted matches soft-deleted entries, archived or not.
	Deleted Predicate = func(e *models.JournalEntry) bool { return e.IsDeleted }
)

// IsSameDay reports whether a and b fall on the same calendar day in loc.
func IsSameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EntriesOnDay returns the entries dated on date's calendar day that match pred,
// in collection order.
func EntriesOnDay(entries []models.JournalEntry, date time.Time, loc *time.Location, pred Predicate) []models.JournalEntry {
	return filter(entries, func(e *models.JournalEntry) bool {
		return IsSameDay(e.Date, date, loc) && pred(e)
	})
}

// EntriesUpTo returns the entries dated on or before the end of date's
// calendar day that match pred, in collection order.
func EntriesUpTo(entries []models.JournalEntry, date time.Time, loc *time.Location, pred Predicate) []models.JournalEntry {
	end := utils.EndOfDay(date, loc)
	return filter(entries, func(e *models.JournalEntry) bool {
		return !e.Date.After(end) && pred(e)
	})
}

// EntriesBetween returns entries whose date lies in [start, end] inclusive.
func EntriesBetween(entries []models.JournalEntry, start, end time.Time, pred Predicate) []models.JournalEntry {
	return filter(entries, func(e *models.JournalEntry) bool {
		return !e.Date.Before(start) && !e.Date.After(end) && pred(e)
	})
}

// Filter returns the entries matching pred in collection order.
func Filter(entries []models.JournalEntry, pred Predicate) []models.JournalEntry {
	return filter(entries, pred)
}

// SortNewestFirst orders entries by date descending. Entries with equal dates
// keep their relative order.
func SortNewestFirst(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

func filter(entries []models.JournalEntry, pred Predicate) []models.JournalEntry {
	out := make([]models.JournalEntry, 0)
	for i := range entries {
		if pred(&entries[i]) {
			out = append(out, entries[i].Clone())
		}
	}
	return out
}
