package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
)

// FormatEntry renders one entry for terminal listings.
func FormatEntry(e models.JournalEntry, now time.Time, loc *time.Location) string {
	var b strings.Builder

	header := e.Date.In(loc).Format("Jan 2, 2006 3:04 PM")
	fmt.Fprintf(&b, "%s  %s\n", TitleStyle.Render(header), MetaStyle.Render(humanize.RelTime(e.Date, now, "ago", "from now")))
	fmt.Fprintf(&b, "%s\n", MetaStyle.Render("id: "+e.ID))

	var meta []string
	if e.Mood != "" {
		meta = append(meta, MoodStyle.Render(e.Mood.Title()))
	}
	for _, t := range e.Tags {
		meta = append(meta, TagStyle.Render("#"+t))
	}
	if e.IsArchivedToCalendar {
		meta = append(meta, MetaStyle.Render("[archived]"))
	}
	if e.IsDeleted && e.DeletedAt != nil {
		meta = append(meta, WarningStyle.Render("[deleted "+humanize.RelTime(*e.DeletedAt, now, "ago", "from now")+"]"))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "%s\n", strings.Join(meta, " "))
	}

	fmt.Fprintf(&b, "%s\n", e.Text)
	return b.String()
}

// ParseDateOr parses a YYYY-MM-DD date in loc, falling back to fallback when
// s is empty.
func ParseDateOr(s string, fallback time.Time, loc *time.Location) (time.Time, error) {
	if s = strings.TrimSpace(s); s == "" {
		return fallback, nil
	}
	return utils.ParseDateInLocation(s, loc)
}
