package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case mutationMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		m.refresh()

	case reloadTickMsg:
		return m, m.reload()

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.refresh()
		}
		return m, scheduleReload()

	case tea.KeyMsg:
		if m.confirmPurge != "" {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmPurge
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirmPurge = ""
		ctx := m.ctx
		j := m.journal
		return m, func() tea.Msg {
			return mutationMsg{status: "Entry permanently deleted", err: j.Delete(ctx, id, true)}
		}
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.confirmPurge = ""
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loc := m.clock.Location()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		m.mode = (m.mode + 1) % len(modes)
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.ShiftTab):
		m.mode = (m.mode - 1 + len(modes)) % len(modes)
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevDay):
		m.date = utils.StartOfDay(m.date.AddDate(0, 0, -1), loc)
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.NextDay):
		m.date = utils.NextDay(m.date, loc)
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.Today):
		m.date = utils.StartOfDay(m.clock.Now(), loc)
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.Archive):
		if m.Mode() == models.ViewActive {
			return m, m.mutate("Entry archived", m.journal.Archive)
		}
	case key.Matches(msg, m.keys.Delete):
		if m.Mode() != models.ViewDeleted {
			return m, m.mutate("Entry deleted", func(ctx context.Context, id string) error {
				return m.journal.Delete(ctx, id, false)
			})
		}
	case key.Matches(msg, m.keys.Restore):
		if m.Mode() == models.ViewDeleted {
			return m, m.mutate("Entry restored", m.journal.Restore)
		}
	case key.Matches(msg, m.keys.Permanent):
		if entry, ok := m.Selected(); ok && m.Mode() == models.ViewDeleted {
			m.confirmPurge = entry.ID
		}
	}

	return m, nil
}
