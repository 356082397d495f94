package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/murmur/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	if m.confirmPurge != "" {
		content = m.viewConfirmPurge()
	} else {
		content = docStyle.Render(m.viewEntries())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	labels := []string{
		fmt.Sprintf("Active (%d)", m.counts.Active),
		fmt.Sprintf("Archived (%d)", m.counts.Archived),
		fmt.Sprintf("Deleted (%d)", m.counts.Deleted),
	}
	var tabs []string
	for i, title := range labels {
		if m.mode == i {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewEntries() string {
	var b strings.Builder
	b.WriteString(dateStyle.Render(m.date.Format("Monday, January 2, 2006")))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString(metaStyle.Render(emptyMessage(m.Mode())))
		return b.String()
	}

	loc := m.clock.Location()
	for i, e := range m.entries {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("▸ ")
		}
		meta := e.Date.In(loc).Format("3:04 PM")
		if e.Mood != "" {
			meta += " · " + e.Mood.Title()
		}
		if len(e.Tags) > 0 {
			meta += " · #" + strings.Join(e.Tags, " #")
		}
		fmt.Fprintf(&b, "%s%s\n  %s\n", prefix, metaStyle.Render(meta), e.Text)
	}
	return b.String()
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewConfirmPurge() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Permanently delete this entry? This cannot be undone."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func emptyMessage(mode models.ViewMode) string {
	switch mode {
	case models.ViewArchived:
		return "No archived entries up to this day."
	case models.ViewDeleted:
		return "No deleted entries up to this day."
	default:
		return "No entries for this day."
	}
}
