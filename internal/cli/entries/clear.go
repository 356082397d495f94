package entries

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/murmur/internal/cli"
)

type ClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}
	total := len(ctx.Journal.Entries())
	if total == 0 {
		fmt.Println("Journal is already empty.")
		return nil
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Permanently remove all %d entries?", total)).
				Description("A backup is taken first.").
				Affirmative("Clear").
				Negative("Cancel").
				Value(&confirmed),
		)).WithTheme(huh.ThemeDracula()).Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Clear cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	n, err := ctx.Journal.ClearAll(ctx.Context())
	if err != nil {
		return err
	}
	fmt.Printf("✓ Removed %d entries\n", n)
	return nil
}
