package account

import (
	"fmt"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/models"
)

type QuotaCmd struct{}

func (c *QuotaCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	st, err := ctx.Gate.Status(ctx.Context(), ctx.Journal.Entries(), ctx.Clock.Now(), ctx.Clock.Location())
	if err != nil {
		return err
	}

	fmt.Printf("Plan: %s\n", tierLabel(st.Tier))
	if st.Limit == nil {
		fmt.Printf("Entries today: %d (unlimited)\n", st.Used)
		return nil
	}
	fmt.Printf("Entries today: %d of %d\n", st.Used, *st.Limit)
	if st.Exhausted() {
		fmt.Println(cli.WarningStyle.Render("Daily limit reached. Run 'murmur subscription upgrade' for unlimited entries."))
	} else {
		fmt.Printf("Remaining: %d\n", *st.Remaining)
	}
	return nil
}

func tierLabel(t models.Tier) string {
	if t == models.TierPremium {
		return "Premium"
	}
	return "Free"
}
