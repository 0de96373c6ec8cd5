// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

// ListModel displays the entries held in the store.
type ListModel struct {
	entries []sqlite.StoredEntry
	table   table.Model
	keys    styles.ListKeyMap
	help    help.Model
	loading bool
	err     error
	width   int
	height  int

	store *sqlite.Store
	limit int64
	theme *styles.Theme
}

// NewListModel creates a new store listing model. A negative limit lists
// every entry.
func NewListModel(theme *styles.Theme, store *sqlite.Store, limit int64) ListModel {
	return ListModel{
		store:   store,
		limit:   limit,
		theme:   theme,
		keys:    styles.DefaultListKeyMap(),
		help:    styles.NewStyledHelp(theme),
		loading: true,
		width:   80,
		height:  24,
	}
}

// entriesLoadedMsg is sent when the store listing is loaded.
type entriesLoadedMsg struct {
	entries []sqlite.StoredEntry
	err     error
}

// Init implements tea.Model.
func (m ListModel) Init() tea.Cmd {
	return m.loadEntries
}

// loadEntries reads the listing from the store.
func (m ListModel) loadEntries() tea.Msg {
	ctx := context.Background()
	entries, err := m.store.Entries(ctx, m.limit)
	return entriesLoadedMsg{entries: entries, err: err}
}

// Update implements tea.Model.
func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateTable()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.entries = msg.entries
			m.updateTable()
		}
	}

	return m, nil
}

// updateTable builds the entries table.
func (m *ListModel) updateTable() {
	if len(m.entries) == 0 {
		return
	}

	columns := styles.EntriesTableColumns()

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			e.Key,
			styles.FormatBytes(e.Size),
			styles.RelativeTime(e.UpdatedAt),
		}
	}

	tableHeight := len(rows)
	if tableHeight > m.height-8 {
		tableHeight = m.height - 8
	}
	if tableHeight < 3 {
		tableHeight = 3
	}

	m.table = styles.NewStyledTable(m.theme, columns, rows, m.width-4, tableHeight)
}

// View implements tea.Model.
func (m ListModel) View() string {
	t := m.theme

	if m.loading {
		spinner := styles.NewLoading(t, "Loading entries...")
		return t.Box.Render(spinner.View())
	}

	if m.err != nil {
		return t.Box.Render(t.ErrorStyle.Render("Error: " + m.err.Error()))
	}

	if len(m.entries) == 0 {
		return t.Box.Render(t.Subtle.Render("No entries stored"))
	}

	var totalBytes int64
	for _, e := range m.entries {
		totalBytes += e.Size
	}

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		t.Title.Render("Stored Entries"),
		"",
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			t.Badge.Render(formatCount(len(m.entries), "entry", "entries")),
			" ",
			t.BadgeMuted.Render(styles.FormatBytes(totalBytes)),
		),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		m.table.View(),
		"",
		m.help.View(m.keys),
	)
}

// formatCount renders a count with a singular or plural noun.
func formatCount(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Ensure interface compliance.
var _ tea.Model = (*ListModel)(nil)
