// Package export renders journal entries as a plain text or RTF document.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/julianstephens/murmur/internal/calendar"
	"github.com/julianstephens/murmur/internal/models"
)

type Format string

const (
	FormatText Format = "text"
	FormatRTF  Format = "rtf"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "rtf", "word":
		return FormatRTF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (expected text|rtf)", s)
	}
}

func (f Format) Extension() string {
	if f == FormatRTF {
		return ".rtf"
	}
	return ".txt"
}

const emptyMessage = "No journal entries found for the selected period."

type Options struct {
	Format Format
	// Start and End bound entry dates inclusively when set.
	Start        *time.Time
	End          *time.Time
	IncludeMoods bool
	IncludeTags  bool
	Location     *time.Location
	GeneratedAt  time.Time
}

// FileName is the default output name for an export generated at t.
func FileName(f Format, t time.Time) string {
	return "journal-export-" + t.Format("2006-01-02") + f.Extension()
}

// Select applies the date range to entries, keeping their order.
func Select(entries []models.JournalEntry, opts Options) []models.JournalEntry {
	return calendar.Filter(entries, func(e *models.JournalEntry) bool {
		if opts.Start != nil && e.Date.Before(*opts.Start) {
			return false
		}
		if opts.End != nil && e.Date.After(*opts.End) {
			return false
		}
		return true
	})
}

// Write renders the selected entries to w.
func Write(w io.Writer, entries []models.JournalEntry, opts Options) error {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	selected := Select(entries, opts)
	var doc string
	switch opts.Format {
	case FormatText, "":
		doc = renderText(selected, opts)
	case FormatRTF:
		doc = renderRTF(selected, opts)
	default:
		return fmt.Errorf("unsupported export format %q", opts.Format)
	}
	_, err := io.WriteString(w, doc)
	return err
}

func title(opts Options) string {
	return "Journal Export - " + opts.GeneratedAt.In(opts.Location).Format("1/2/2006")
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("January 2, 2006 at 03:04 PM")
}

// details returns the per-entry header lines after the entry number.
func details(e models.JournalEntry, opts Options) []string {
	lines := []string{"Date: " + formatDate(e.Date, opts.Location)}
	if opts.IncludeMoods && e.Mood != "" {
		lines = append(lines, "Mood: "+e.Mood.Title())
	}
	if opts.IncludeTags && len(e.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(e.Tags, ", "))
	}
	return lines
}

func renderText(entries []models.JournalEntry, opts Options) string {
	var b strings.Builder
	b.WriteString(title(opts) + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(entries) == 0 {
		b.WriteString(emptyMessage + "\n")
		return b.String()
	}

	for i, e := range entries {
		fmt.Fprintf(&b, "Entry %d\n", i+1)
		for _, line := range details(e, opts) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + e.Text + "\n\n")
		b.WriteString(strings.Repeat("-", 30) + "\n\n")
	}
	return b.String()
}

func renderRTF(entries []models.JournalEntry, opts Options) string {
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0 {\fonttbl {\f0 Times New Roman;}}\f0\fs24 `)
	b.WriteString(`{\b ` + rtfEscape(title(opts)) + `}\par\par`)

	if len(entries) == 0 {
		b.WriteString(emptyMessage + `\par`)
	}

	for i, e := range entries {
		fmt.Fprintf(&b, `{\b Entry %d}\par`, i+1)
		for _, line := range details(e, opts) {
			b.WriteString(rtfEscape(line) + `\par`)
		}
		b.WriteString(`\par`)
		b.WriteString(rtfEscape(e.Text) + `\par\par`)
		b.WriteString(`\line\par`)
	}

	b.WriteString("}")
	return b.String()
}

// rtfEscape quotes RTF control characters, turns newlines into paragraph
// breaks and writes non-ASCII runes as \uN? escapes.
func rtfEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\par `)
		case r == '\r':
		case r > 127:
			if r > 0xFFFF {
				// RTF takes UTF-16 code units as signed 16-bit values
				r -= 0x10000
				writeRTFUnit(&b, 0xD800+(r>>10))
				writeRTFUnit(&b, 0xDC00+(r&0x3FF))
				continue
			}
			writeRTFUnit(&b, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeRTFUnit(b *strings.Builder, unit rune) {
	fmt.Fprintf(b, `\u%d?`, int16(uint16(unit)))
}
