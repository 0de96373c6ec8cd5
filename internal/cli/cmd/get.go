package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read the value for a key",
	Long: `Read the value for a key.

The cache is consulted first; on a miss the store is read and the entry
is promoted into the cache. The raw value is written to stdout. Exits
with status 1 when the key does not exist.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, cancel := context.WithTimeout(app.Ctx(), app.Config.Database.QueryTimeout)
	defer cancel()

	key := args[0]
	value, found, err := app.Cache.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %q: %w", key, err)
	}
	if !found {
		theme := app.Theme
		fmt.Fprintf(os.Stderr, "%s %s\n",
			theme.WarningStyle.Render(styles.IconX),
			theme.Subtle.Render(fmt.Sprintf("%q not found", key)))
		_ = app.Close()
		os.Exit(1)
	}

	if _, err := os.Stdout.Write(value); err != nil {
		return err
	}
	if len(value) == 0 || value[len(value)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
