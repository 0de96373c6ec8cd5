// Package cmd provides Cobra CLI commands for kvstore.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/build"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cli"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "kvstore",
		Short: "A durable key-value store fronted by a bounded FIFO cache",
		Long: `KeyValueStore - a durable key-value store fronted by a bounded FIFO cache.

Writes go to SQLite first, then into an in-memory cache with a byte
budget. When the budget overflows, the oldest entries are evicted in
insertion order. Reads that miss the cache are served from the store
and promoted back in.

Use 'kvstore put' and 'kvstore get' for single operations, 'kvstore list'
and 'kvstore stats' to inspect the store, 'kvstore demo' for a guided
walkthrough of the eviction policy, or 'kvstore bench' to measure
throughput.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			// Set build info from main.go
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
