package entries

import (
	"fmt"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/views"
)

type ListCmd struct {
	Date string `help:"Selected day (YYYY-MM-DD). Defaults to today."`
	View string `help:"Which entries to show." enum:"active,archived,deleted" default:"active"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	now := ctx.Clock.Now()
	loc := ctx.Clock.Location()
	selected, err := cli.ParseDateOr(c.Date, now, loc)
	if err != nil {
		return err
	}
	mode, err := models.ParseViewMode(c.View)
	if err != nil {
		return err
	}

	all := ctx.Journal.Entries()
	list, err := views.Select(all, selected, mode, now, loc)
	if err != nil {
		return err
	}
	counts := views.CountAll(all, selected, now, loc)

	fmt.Println(cli.TitleStyle.Render(selected.Format("Monday, January 2, 2006")))
	fmt.Println(cli.MetaStyle.Render(fmt.Sprintf("active %d · archived %d · deleted %d", counts.Active, counts.Archived, counts.Deleted)))
	fmt.Println()

	if len(list) == 0 {
		fmt.Println(cli.EmptyStyle.Render(emptyMessage(mode)))
		return nil
	}
	for _, e := range list {
		fmt.Println(cli.FormatEntry(e, now, loc))
	}
	return nil
}

func emptyMessage(mode models.ViewMode) string {
	switch mode {
	case models.ViewArchived:
		return "No archived entries for this day."
	case models.ViewDeleted:
		return "No deleted entries."
	default:
		return "No entries yet today."
	}
}
