package entries

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/murmur/internal/cli"
	"github.com/julianstephens/murmur/internal/export"
	"github.com/julianstephens/murmur/internal/utils"
)

type ExportCmd struct {
	Format string `help:"Document format." enum:"text,rtf" default:"text"`
	From   string `help:"First day to include (YYYY-MM-DD)."`
	To     string `help:"Last day to include (YYYY-MM-DD)."`
	Moods  bool   `help:"Include mood lines."`
	Tags   bool   `help:"Include tag lines."`
	Output string `short:"o" help:"Output file, '-' for stdout. Defaults to journal-export-<date> in the current directory."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	if err := ctx.LoadJournal(); err != nil {
		return err
	}

	now := ctx.Clock.Now()
	loc := ctx.Clock.Location()
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	opts := export.Options{
		Format:       format,
		IncludeMoods: c.Moods,
		IncludeTags:  c.Tags,
		Location:     loc,
		GeneratedAt:  now,
	}
	if c.From != "" {
		start, err := utils.ParseDateInLocation(c.From, loc)
		if err != nil {
			return err
		}
		opts.Start = &start
	}
	if c.To != "" {
		end, err := utils.ParseDateInLocation(c.To, loc)
		if err != nil {
			return err
		}
		end = utils.EndOfDay(end, loc)
		opts.End = &end
	}
	if opts.Start != nil && opts.End != nil && opts.End.Before(*opts.Start) {
		return fmt.Errorf("--to (%s) is before --from (%s)", c.To, c.From)
	}

	if c.Output == "-" {
		return export.Write(os.Stdout, ctx.Journal.Entries(), opts)
	}

	path := c.Output
	if path == "" {
		path = export.FileName(format, now)
	}
	size, err := writeExport(path, ctx, opts)
	if err != nil {
		return err
	}

	count := len(export.Select(ctx.Journal.Entries(), opts))
	fmt.Printf("✓ Exported %d entries to %s (%s)\n", count, path, humanize.Bytes(uint64(size)))
	return nil
}

func writeExport(path string, ctx *cli.Context, opts export.Options) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return 0, fmt.Errorf("failed to create export file: %w", err)
	}
	cw := &countingWriter{w: f}
	if err := export.Write(cw, ctx.Journal.Entries(), opts); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to write export file: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

