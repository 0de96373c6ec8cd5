package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

// demoCapacity keeps the walkthrough small enough that three entries
// overflow the cache.
const demoCapacity = 50

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a guided walkthrough of the cache",
	Long: `Run a guided walkthrough against a throwaway store.

Uses a 50 byte cache budget so evictions are easy to follow: fill the
cache, overflow it, read an evicted key back from the store, write an
entry too large to cache, then run concurrent writers and removers.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	tmpDir, err := os.MkdirTemp("", "kvstore-demo-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	ctx := app.Ctx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(tmpDir, "demo.sqlite"))
	if err != nil {
		return fmt.Errorf("open demo database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	kv, err := cache.New(sqlite.NewStore(db), demoCapacity)
	if err != nil {
		return fmt.Errorf("create demo cache: %w", err)
	}

	theme := app.Theme
	r := styles.NewDemoRenderer(theme)

	fmt.Println(theme.Title.Render("Cache Walkthrough"))
	fmt.Println(theme.Subtle.Render(fmt.Sprintf("throwaway store, %s cache budget", styles.FormatBytes(demoCapacity))))
	fmt.Println()

	// Two 21 byte entries fit the 50 byte budget.
	fmt.Println(r.Step(1, "Fill the cache"))
	if err := kv.Put(ctx, "a", bytes.Repeat([]byte{'A'}, 20)); err != nil {
		return err
	}
	if err := kv.Put(ctx, "b", bytes.Repeat([]byte{'B'}, 20)); err != nil {
		return err
	}
	fmt.Println(r.CacheState(kv.Entries(), kv.Stats()))
	fmt.Println()

	// A third entry overflows the budget and evicts "a".
	fmt.Println(r.Step(2, "Overflow evicts the oldest entry"))
	if err := kv.Put(ctx, "c", bytes.Repeat([]byte{'C'}, 20)); err != nil {
		return err
	}
	fmt.Println(r.CacheState(kv.Entries(), kv.Stats()))
	fmt.Println()

	// "a" is gone from the cache but not from the store. Reading it
	// promotes it back in, which evicts "b".
	fmt.Println(r.Step(3, "Evicted key is served from the store"))
	value, found, err := kv.Get(ctx, "a")
	if err != nil {
		return err
	}
	fmt.Println(r.Lookup("a", value, found))
	fmt.Println(r.CacheState(kv.Entries(), kv.Stats()))
	fmt.Println()

	fmt.Println(r.Step(4, "Oversized entry is stored, not cached"))
	if err := kv.Put(ctx, "huge", bytes.Repeat([]byte{'X'}, 100)); err != nil {
		return err
	}
	fmt.Println(r.CacheState(kv.Entries(), kv.Stats()))
	fmt.Println()

	fmt.Println(r.Step(5, "Concurrent put, remove, and get"))
	var (
		removedC bool
		dValue   []byte
		dFound   bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return kv.Put(gctx, "e", []byte("Image5"))
	})
	g.Go(func() error {
		var err error
		removedC, err = kv.Remove(gctx, "c")
		return err
	})
	g.Go(func() error {
		var err error
		dValue, dFound, err = kv.Get(gctx, "d")
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("concurrent step: %w", err)
	}
	fmt.Println(r.Removed("c", removedC))
	fmt.Println(r.Lookup("d", dValue, dFound))
	fmt.Println()

	fmt.Println(r.Step(6, "Final state"))
	fmt.Println(r.CacheState(kv.Entries(), kv.Stats()))
	fmt.Println(r.Counters(kv.Stats()))

	return nil
}
