package calendar

import (
	"time"

	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
)

// DayMarker summarises one calendar cell.
type DayMarker struct {
	Day         int
	Total       int
	HasActive   bool
	HasArchived bool
	HasDeleted  bool
}

// EntriesInMonth returns every entry whose date falls in the given month in loc,
// regardless of state.
func EntriesInMonth(entries []models.JournalEntry, year int, month time.Month, loc *time.Location) []models.JournalEntry {
	return filter(entries, func(e *models.JournalEntry) bool {
		d := e.Date.In(loc)
		return d.Year() == year && d.Month() == month
	})
}

// DatesWithEntries returns the set of days of the month (1-based) that have at
// least one entry.
func DatesWithEntries(entries []models.JournalEntry, year int, month time.Month, loc *time.Location) map[int]bool {
	days := make(map[int]bool)
	for _, e := range EntriesInMonth(entries, year, month, loc) {
		days[e.Date.In(loc).Day()] = true
	}
	return days
}

// MonthMarkers returns one marker per day of the month. Archived and deleted
// flags use the same precedence as the views: a deleted entry never marks a
// day as archived.
func MonthMarkers(entries []models.JournalEntry, year int, month time.Month, loc *time.Location) []DayMarker {
	markers := make([]DayMarker, utils.DaysIn(year, month))
	for i := range markers {
		markers[i].Day = i + 1
	}
	for _, e := range EntriesInMonth(entries, year, month, loc) {
		m := &markers[e.Date.In(loc).Day()-1]
		m.Total++
		switch {
		case Deleted(&e):
			m.HasDeleted = true
		case Archived(&e):
			m.HasArchived = true
		default:
			m.HasActive = true
		}
	}
	return markers
}
