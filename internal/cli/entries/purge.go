package entries

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/murmur/internal/cli"
)

// PurgeCmd permanently removes entries deleted longer ago than the retention
// window.
type PurgeCmd struct {
	DryRun bool `help:"List what would be purged without removing anything."`
}

func (c *PurgeCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	due := ctx.Sweeper.Due()
	if len(due) == 0 {
		fmt.Printf("Nothing to purge (retention: %d days).\n", ctx.Config.Retention.Days)
		return nil
	}

	if c.DryRun {
		now := ctx.Clock.Now()
		fmt.Printf("%d entries would be purged:\n", len(due))
		for _, e := range due {
			fmt.Printf("  %s  deleted %s\n", e.ID, humanize.RelTime(*e.DeletedAt, now, "ago", "from now"))
		}
		return nil
	}

	purged, err := ctx.Sweeper.Sweep(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Purged %d entries\n", len(purged))
	return nil
}
