package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
)

var putCmd = &cobra.Command{
	Use:   "put <key> [value]",
	Short: "Write a key-value pair",
	Long: `Write a key-value pair.

The value is taken from the second argument, or read from stdin when
omitted. The entry is written to the store first and then cached;
entries larger than the cache budget are stored without being cached.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	key := args[0]
	theme := app.Theme

	if key == "" {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			theme.WarningStyle.Render(styles.IconWarning),
			theme.Subtle.Render("empty key ignored"))
		return nil
	}

	var value []byte
	if len(args) == 2 {
		value = []byte(args[1])
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		value = data
	}

	ctx, cancel := context.WithTimeout(app.Ctx(), app.Config.Database.QueryTimeout)
	defer cancel()

	if err := app.Cache.Put(ctx, key, value); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	fmt.Printf("%s %s %s\n",
		theme.SuccessStyle.Render(styles.IconCheck),
		theme.Normal.Render(key),
		theme.Subtle.Render(styles.FormatBytes(int64(len(key)+len(value)))))
	return nil
}
