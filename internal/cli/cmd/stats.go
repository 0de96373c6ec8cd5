package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/model"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Long:  `Display entry counts, total size, schema version, and the cache budget.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	if statsJSON {
		return runStatsJSON()
	}

	m := model.NewStatsModel(app.Theme, model.StatsConfig{
		Store:         app.Store,
		DB:            app.DB(),
		DatabasePath:  app.Config.Database.Path,
		CapacityBytes: app.Config.Cache.CapacityBytes,
	})

	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

// runStatsJSON outputs store statistics as JSON.
func runStatsJSON() error {
	app := GetApp()

	ctx, cancel := context.WithTimeout(app.Ctx(), app.Config.Database.QueryTimeout)
	defer cancel()

	stats, err := app.Store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("store stats: %w", err)
	}

	version, err := sqlite.GetMigrationStatus(app.DB())
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	out := struct {
		Entries       int64 `json:"entries"`
		SizeBytes     int64 `json:"size_bytes"`
		SchemaVersion int64 `json:"schema_version"`
		CapacityBytes int64 `json:"cache_capacity_bytes"`
	}{
		Entries:       stats.Entries,
		SizeBytes:     stats.SizeBytes,
		SchemaVersion: version,
		CapacityBytes: app.Config.Cache.CapacityBytes,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
