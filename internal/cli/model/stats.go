package model

import (
	"context"
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

// StatsModel displays store statistics and storage details.
type StatsModel struct {
	stats   sqlite.StoreStats
	version int64
	loading bool
	err     error
	width   int
	height  int

	cfg   StatsConfig
	theme *styles.Theme
}

// StatsConfig carries the dependencies the stats model reads from.
type StatsConfig struct {
	Store         *sqlite.Store
	DB            *sql.DB
	DatabasePath  string
	CapacityBytes int64
}

// NewStatsModel creates a new stats display model.
func NewStatsModel(theme *styles.Theme, cfg StatsConfig) StatsModel {
	return StatsModel{
		cfg:     cfg,
		theme:   theme,
		loading: true,
		width:   80,
		height:  24,
	}
}

// statsLoadedMsg is sent when store statistics are loaded.
type statsLoadedMsg struct {
	stats   sqlite.StoreStats
	version int64
	err     error
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return m.loadStats
}

// loadStats reads statistics and the schema version from the store.
func (m StatsModel) loadStats() tea.Msg {
	ctx := context.Background()

	stats, err := m.cfg.Store.Stats(ctx)
	if err != nil {
		return statsLoadedMsg{err: err}
	}

	version, err := sqlite.GetMigrationStatus(m.cfg.DB)
	return statsLoadedMsg{stats: stats, version: version, err: err}
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case statsLoadedMsg:
		m.loading = false
		m.stats = msg.stats
		m.version = msg.version
		m.err = msg.err
	}

	return m, nil
}

// View implements tea.Model.
func (m StatsModel) View() string {
	t := m.theme

	if m.loading {
		spinner := styles.NewLoading(t, "Loading stats...")
		return t.Box.Render(spinner.View())
	}

	if m.err != nil {
		return t.Box.Render(t.ErrorStyle.Render("Error: " + m.err.Error()))
	}

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		t.Title.Render("Store Stats"),
		"",
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			t.Badge.Render(formatCount(int(m.stats.Entries), "entry", "entries")),
			" ",
			t.BadgeMuted.Render(styles.FormatBytes(m.stats.SizeBytes)),
		),
	)

	storeLines := []string{
		fmt.Sprintf("%s %s", t.Subtle.Render("Path"), t.Normal.Render(m.cfg.DatabasePath)),
		fmt.Sprintf("%s %s", t.Subtle.Render("Schema"), t.Normal.Render(fmt.Sprintf("v%d", m.version))),
	}
	storeBox := t.Box.Render(
		t.BoxHeader.Render(fmt.Sprintf("%s Store", t.Highlight.Render(styles.IconDatabase))) +
			"\n" + lipgloss.JoinVertical(lipgloss.Left, storeLines...),
	)

	cacheLines := []string{
		fmt.Sprintf("%s %s", t.Subtle.Render("Capacity"), t.Normal.Render(styles.FormatBytes(m.cfg.CapacityBytes))),
		fmt.Sprintf("%s %s", t.Subtle.Render("Policy"), t.Normal.Render("FIFO, write-through")),
	}
	cacheBox := t.Box.Render(
		t.BoxHeader.Render(fmt.Sprintf("%s Cache", t.Highlight.Render(styles.IconCache))) +
			"\n" + lipgloss.JoinVertical(lipgloss.Left, cacheLines...),
	)

	helpView := t.Subtle.Render("q to quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		storeBox,
		"",
		cacheBox,
		"",
		helpView,
	)
}

// Ensure interface compliance.
var _ tea.Model = (*StatsModel)(nil)
