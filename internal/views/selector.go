package views

import (
	"fmt"
	"time"

	"github.com/julianstephens/murmur/internal/calendar"
	"github.com/julianstephens/murmur/internal/models"
)

// Select returns the entries to display for selectedDate in the given mode,
// newest first.
//
// Archived and deleted views are cumulative up to and including the selected
// day. The active view on today's date shows every active entry in the
// collection, not only today's, so entries do not drop out of the primary
// view when the date changes. Any other date shows that day's active entries.
func Select(entries []models.JournalEntry, selectedDate time.Time, mode models.ViewMode, now time.Time, loc *time.Location) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	switch mode {
	case models.ViewArchived:
		out = calendar.EntriesUpTo(entries, selectedDate, loc, calendar.Archived)
	case models.ViewDeleted:
		out = calendar.EntriesUpTo(entries, selectedDate, loc, calendar.Deleted)
	case models.ViewActive:
		if calendar.IsSameDay(selectedDate, now, loc) {
			out = calendar.Filter(entries, calendar.Active)
		} else {
			out = calendar.EntriesOnDay(entries, selectedDate, loc, calendar.Active)
		}
	default:
		return nil, fmt.Errorf("invalid view mode: %s", mode)
	}
	calendar.SortNewestFirst(out)
	return out, nil
}

// Counts holds the number of entries each view would show for a date.
type Counts struct {
	Active   int
	Archived int
	Deleted  int
}

// CountAll evaluates every view mode for selectedDate.
func CountAll(entries []models.JournalEntry, selectedDate, now time.Time, loc *time.Location) Counts {
	var c Counts
	if v, err := Select(entries, selectedDate, models.ViewActive, now, loc); err == nil {
		c.Active = len(v)
	}
	if v, err := Select(entries, selectedDate, models.ViewArchived, now, loc); err == nil {
		c.Archived = len(v)
	}
	if v, err := Select(entries, selectedDate, models.ViewDeleted, now, loc); err == nil {
		c.Deleted = len(v)
	}
	return c
}
