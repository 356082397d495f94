package entries

import (
	"fmt"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/models"
)

type ArchiveCmd struct {
	ID string `arg:"" help:"Entry id."`
}

func (c *ArchiveCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}
	entry, err := lookup(ctx, c.ID)
	if err != nil {
		return err
	}
	if entry.IsArchivedToCalendar {
		fmt.Println("Entry is already archived.")
		return nil
	}
	if err := ctx.Journal.Archive(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Archived entry %s to the calendar\n", c.ID)
	return nil
}

type DeleteCmd struct {
	ID        string `arg:"" help:"Entry id."`
	Permanent bool   `help:"Remove the entry for good instead of moving it to the deleted view."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}
	if _, err := lookup(ctx, c.ID); err != nil {
		return err
	}
	if c.Permanent {
		ctx.PerformAutomaticBackup()
	}
	if err := ctx.Journal.Delete(ctx.Context(), c.ID, c.Permanent); err != nil {
		return err
	}

	if c.Permanent {
		fmt.Printf("✓ Permanently deleted entry %s\n", c.ID)
	} else {
		fmt.Printf("✓ Deleted entry %s (restore with 'murmur restore %s')\n", c.ID, c.ID)
	}
	return nil
}

type RestoreCmd struct {
	ID string `arg:"" help:"Entry id."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}
	entry, err := lookup(ctx, c.ID)
	if err != nil {
		return err
	}
	if !entry.IsDeleted {
		fmt.Println("Entry is not deleted.")
		return nil
	}
	if err := ctx.Journal.Restore(ctx.Context(), c.ID); err != nil {
		return err
	}
	fmt.Printf("✓ Restored entry %s\n", c.ID)
	return nil
}

func lookup(ctx *cli.Context, id string) (models.JournalEntry, error) {
	entry, ok := ctx.Journal.Get(id)
	if !ok {
		return models.JournalEntry{}, fmt.Errorf("entry not found: %s", id)
	}
	return entry, nil
}
