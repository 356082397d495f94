package entries

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/models"
)

type AddCmd struct {
	Text        []string `arg:"" optional:"" help:"Entry text. Prompted for when omitted with --interactive."`
	Mood        string   `help:"Mood tag (happy, sad, excited, calm, anxious, grateful, frustrated, content, energetic, peaceful)."`
	Tags        []string `help:"Comma-separated tags." sep:","`
	Interactive bool     `short:"i" help:"Pick the mood and tags in a form."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	text := strings.Join(c.Text, " ")
	moodStr := c.Mood
	tagStr := strings.Join(c.Tags, ",")

	if c.Interactive {
		if err := newEntryForm(&text, &moodStr, &tagStr).Run(); err != nil {
			return err
		}
	}

	mood, err := models.ParseMood(moodStr)
	if err != nil {
		return err
	}
	var tags []string
	if tagStr != "" {
		tags = strings.Split(tagStr, ",")
	}

	check, err := ctx.Gate.Check(ctx.Context())
	if err != nil {
		return err
	}
	entry, err := ctx.Journal.Create(ctx.Context(), text, mood, tags, journal.QuotaCheck(check))
	if err != nil {
		return err
	}

	fmt.Printf("✓ Entry saved (%s)\n", entry.ID)
	return nil
}

func newEntryForm(text, mood, tags *string) *huh.Form {
	options := []huh.Option[string]{huh.NewOption("None", "")}
	for _, m := range models.Moods {
		options = append(options, huh.NewOption(m.Title(), string(m)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Entry").
				Value(text).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("entry text cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Mood").
				Options(options...).
				Value(mood),
			huh.NewInput().
				Title("Tags").
				Description("Comma-separated").
				Value(tags),
		),
	).WithTheme(huh.ThemeDracula())
}
