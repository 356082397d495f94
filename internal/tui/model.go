// Package tui is an interactive browser over the journal's three views.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/murmur/internal/constants"
	"github.com/julianstephens/murmur/internal/journal"
	"github.com/julianstephens/murmur/internal/models"
	"github.com/julianstephens/murmur/internal/utils"
	"github.com/julianstephens/murmur/internal/views"
)

var modes = []models.ViewMode{models.ViewActive, models.ViewArchived, models.ViewDeleted}

type Model struct {
	ctx     context.Context
	journal *journal.Journal
	clock   utils.Clock

	mode    int
	date    time.Time
	entries []models.JournalEntry
	counts  views.Counts
	cursor  int

	confirmPurge string
	status       string
	err          error

	keys     KeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// mutationMsg reports the outcome of a journal write.
type mutationMsg struct {
	status string
	err    error
}

type reloadTickMsg struct{}

// reloadedMsg follows a reload of the stored journal.
type reloadedMsg struct {
	err error
}

func NewModel(ctx context.Context, j *journal.Journal, clock utils.Clock) Model {
	m := Model{
		ctx:     ctx,
		journal: j,
		clock:   clock,
		date:    utils.StartOfDay(clock.Now(), clock.Location()),
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	m.refresh()
	return m
}

func (m Model) Mode() models.ViewMode {
	return modes[m.mode]
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (models.JournalEntry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return models.JournalEntry{}, false
	}
	return m.entries[m.cursor], true
}

func (m *Model) refresh() {
	now := m.clock.Now()
	loc := m.clock.Location()
	all := m.journal.Entries()

	entries, err := views.Select(all, m.date, m.Mode(), now, loc)
	if err != nil {
		m.err = err
		return
	}
	m.entries = entries
	m.counts = views.CountAll(all, m.date, now, loc)
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) mutate(status string, fn func(ctx context.Context, id string) error) tea.Cmd {
	entry, ok := m.Selected()
	if !ok {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return mutationMsg{status: status, err: fn(ctx, entry.ID)}
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.PrevDay, m.keys.NextDay, m.keys.Quit, m.keys.Help}
	switch m.Mode() {
	case models.ViewActive:
		keys = append(keys, m.keys.Archive, m.keys.Delete)
	case models.ViewArchived:
		keys = append(keys, m.keys.Delete)
	case models.ViewDeleted:
		keys = append(keys, m.keys.Restore, m.keys.Permanent)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return scheduleReload()
}

func scheduleReload() tea.Cmd {
	return tea.Tick(constants.TUIReloadInterval, func(time.Time) tea.Msg {
		return reloadTickMsg{}
	})
}

// reload picks up entries written by other processes.
func (m Model) reload() tea.Cmd {
	ctx := m.ctx
	j := m.journal
	return func() tea.Msg {
		return reloadedMsg{err: j.Refresh(ctx)}
	}
}

// Run starts the program on the terminal.
func Run(ctx context.Context, j *journal.Journal, clock utils.Clock) error {
	_, err := tea.NewProgram(NewModel(ctx, j, clock), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
