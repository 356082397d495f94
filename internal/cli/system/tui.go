package system

import (
	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}
	return tui.Run(ctx.Context(), ctx.Journal, ctx.Clock)
}
