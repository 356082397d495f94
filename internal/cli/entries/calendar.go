package entries

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/murmur/internal/calendar"
	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/utils"
)

var (
	activeDay   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	archivedDay = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	deletedDay  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

type CalendarCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	now := ctx.Clock.Now()
	loc := ctx.Clock.Location()
	year, month := now.Year(), now.Month()
	if c.Month != "" {
		var err error
		if year, month, err = utils.ParseMonth(c.Month); err != nil {
			return err
		}
	}

	markers := calendar.MonthMarkers(ctx.Journal.Entries(), year, month, loc)
	fmt.Print(RenderMonth(year, month, markers, loc))
	fmt.Println(cli.MetaStyle.Render("bold: active · colored: archived · struck: deleted only"))
	return nil
}

// RenderMonth draws a Sunday-first month grid with each day styled by the
// entries it holds.
func RenderMonth(year int, month time.Month, markers []calendar.DayMarker, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", cli.TitleStyle.Render(fmt.Sprintf("%s %d", month, year)))
	b.WriteString("Su Mo Tu We Th Fr Sa\n")

	offset := int(time.Date(year, month, 1, 0, 0, 0, 0, loc).Weekday())
	b.WriteString(strings.Repeat("   ", offset))

	for i, m := range markers {
		cell := fmt.Sprintf("%2d", m.Day)
		switch {
		case m.HasActive:
			cell = activeDay.Render(cell)
		case m.HasArchived:
			cell = archivedDay.Render(cell)
		case m.HasDeleted:
			cell = deletedDay.Render(cell)
		}
		b.WriteString(cell)

		if (offset+i+1)%7 == 0 || i == len(markers)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}
