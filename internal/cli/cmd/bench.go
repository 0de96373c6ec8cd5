package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biraysutcuoglu/KeyValueStore/internal/bench"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

var (
	benchOps       int
	benchWorkers   int
	benchReadRatio float64
	benchValueSize int
	benchKeySpace  int
	benchSeed      int64
	benchCapacity  int64
)

const defaultBenchCapacity = 1 << 20

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure cache and store throughput",
	Long: `Run a three-phase load test against a throwaway store.

Phases: sequential preload of the key space, sequential reads over it,
then a concurrent mixed read/write workload. Reports throughput and
latency percentiles per phase plus cache counters.`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchOps, "ops", 10000, "operations in the mixed phase")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 4, "concurrent workers in the mixed phase")
	benchCmd.Flags().Float64Var(&benchReadRatio, "read-ratio", 0.5, "fraction of mixed operations that are reads")
	benchCmd.Flags().IntVar(&benchValueSize, "value-size", 128, "value size in bytes")
	benchCmd.Flags().IntVar(&benchKeySpace, "keyspace", 0, "distinct keys (default ops/10)")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 0, "random seed (default derived from the clock)")
	benchCmd.Flags().Int64Var(&benchCapacity, "capacity", defaultBenchCapacity, "cache capacity in bytes")
}

func runBench(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	tmpDir, err := os.MkdirTemp("", "kvstore-bench-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(tmpDir)
	}()

	ctx := app.Ctx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(tmpDir, "bench.sqlite"))
	if err != nil {
		return fmt.Errorf("open bench database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	kv, err := cache.New(sqlite.NewStore(db), benchCapacity)
	if err != nil {
		return fmt.Errorf("create bench cache: %w", err)
	}

	report, err := bench.Run(ctx, kv, bench.Options{
		Ops:       benchOps,
		Workers:   benchWorkers,
		ReadRatio: benchReadRatio,
		ValueSize: benchValueSize,
		KeySpace:  benchKeySpace,
		Seed:      benchSeed,
	})
	if err != nil {
		return fmt.Errorf("run bench: %w", err)
	}

	renderer := styles.NewBenchRenderer(app.Theme)
	fmt.Println(renderer.Render(report))
	return nil
}
