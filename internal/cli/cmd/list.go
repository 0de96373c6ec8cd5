package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/model"
)

var (
	listJSON bool
	listMax  int64
)

const defaultListMax = 50

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored entries",
	Long:  `Interactive listing of the entries held in the store, ordered by key.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().Int64Var(&listMax, "max", defaultListMax, "maximum entries to show (for --json)")
}

func runList(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	// JSON output mode (non-interactive)
	if listJSON {
		return runListJSON()
	}

	// Interactive TUI mode
	return runListTUI()
}

// runListTUI runs the interactive store listing.
func runListTUI() error {
	app := GetApp()

	m := model.NewListModel(app.Theme, app.Store, -1)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// runListJSON outputs the store listing as JSON.
func runListJSON() error {
	app := GetApp()

	ctx, cancel := context.WithTimeout(app.Ctx(), app.Config.Database.QueryTimeout)
	defer cancel()

	entries, err := app.Store.Entries(ctx, listMax)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
