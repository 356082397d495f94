package entries

import (
	"fmt"

	"github.com/julianstephens/murmur/internal/cli"
)

type ShowCmd struct {
	ID string `arg:"" help:"Entry id."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}
	entry, err := lookup(ctx, c.ID)
	if err != nil {
		return err
	}
	fmt.Print(cli.FormatEntry(entry, ctx.Clock.Now(), ctx.Clock.Location()))
	return nil
}
