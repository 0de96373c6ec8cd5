package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
)

var removeCmd = &cobra.Command{
	Use:     "remove <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a key from the store and cache",
	Long: `Delete a key from both the store and the cache.

Reports whether the key existed anywhere. Removing an absent key is not
an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	ctx, cancel := context.WithTimeout(app.Ctx(), app.Config.Database.QueryTimeout)
	defer cancel()

	key := args[0]
	removed, err := app.Cache.Remove(ctx, key)
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}

	theme := app.Theme
	if removed {
		fmt.Printf("%s %s\n",
			theme.SuccessStyle.Render(styles.IconCheck),
			theme.Normal.Render(key))
	} else {
		fmt.Printf("%s %s\n",
			theme.WarningStyle.Render(styles.IconX),
			theme.Subtle.Render(fmt.Sprintf("%q not found", key)))
	}
	return nil
}
