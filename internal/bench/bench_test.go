package bench

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
	"github.com/biraysutcuoglu/KeyValueStore/internal/logging"
	"github.com/biraysutcuoglu/KeyValueStore/internal/persistence/sqlite"
)

func TestOptionsNormalize_Defaults(t *testing.T) {
	var opts Options
	opts.normalize()

	assert.Equal(t, defaultOps, opts.Ops)
	assert.Equal(t, defaultWorkers, opts.Workers)
	assert.InDelta(t, defaultReadRatio, opts.ReadRatio, 0.001)
	assert.Equal(t, defaultValueSize, opts.ValueSize)
	assert.Equal(t, defaultOps/10, opts.KeySpace)
	assert.NotZero(t, opts.Seed)
}

func TestOptionsNormalize_ClampsWorkers(t *testing.T) {
	opts := Options{Ops: 3, Workers: 16}
	opts.normalize()

	assert.Equal(t, 3, opts.Workers, "never more workers than operations")
}

func TestOptionsNormalize_KeySpaceFloor(t *testing.T) {
	opts := Options{Ops: 50}
	opts.normalize()

	assert.Equal(t, 16, opts.KeySpace)
}

func TestOptionsNormalize_BadReadRatio(t *testing.T) {
	opts := Options{ReadRatio: 1.5}
	opts.normalize()
	assert.InDelta(t, defaultReadRatio, opts.ReadRatio, 0.001)

	opts = Options{ReadRatio: -0.1}
	opts.normalize()
	assert.InDelta(t, defaultReadRatio, opts.ReadRatio, 0.001)
}

func TestSummarize(t *testing.T) {
	// 1ms through 10ms, unsorted on purpose
	samples := []time.Duration{
		7 * time.Millisecond,
		1 * time.Millisecond,
		10 * time.Millisecond,
		3 * time.Millisecond,
		5 * time.Millisecond,
		2 * time.Millisecond,
		9 * time.Millisecond,
		4 * time.Millisecond,
		6 * time.Millisecond,
		8 * time.Millisecond,
	}

	s := Summarize(samples)

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 10*time.Millisecond, s.Max)
	assert.Equal(t, 5500*time.Microsecond, s.Avg)

	// Index-based percentiles over the sorted samples
	assert.Equal(t, 6*time.Millisecond, s.P50)
	assert.Equal(t, 10*time.Millisecond, s.P95)
	assert.Equal(t, 10*time.Millisecond, s.P99)

	// The input slice is untouched
	assert.Equal(t, 7*time.Millisecond, samples[0])
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarize_SingleSample(t *testing.T) {
	s := Summarize([]time.Duration{42 * time.Millisecond})

	assert.Equal(t, 42*time.Millisecond, s.Min)
	assert.Equal(t, 42*time.Millisecond, s.Max)
	assert.Equal(t, 42*time.Millisecond, s.P50)
	assert.Equal(t, 42*time.Millisecond, s.P99)
}

func TestRun_SmallWorkload(t *testing.T) {
	logger := logging.NewFromConfigValues("warn", "console")
	ctx := logging.WithContext(context.Background(), logger)

	dbPath := filepath.Join(t.TempDir(), "bench.sqlite")
	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c, err := cache.New(sqlite.NewStore(db), 1<<20)
	require.NoError(t, err)

	report, err := Run(ctx, c, Options{
		Ops:       100,
		Workers:   4,
		ReadRatio: 0.5,
		ValueSize: 32,
		KeySpace:  20,
		Seed:      1,
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 20, report.Preload.Ops, "preload writes the whole key space")
	assert.Equal(t, 20, report.Reads.Ops)
	assert.Equal(t, 100, report.Mixed.Ops)
	assert.Equal(t, 100, report.Mixed.Reads+report.Mixed.Writes)

	assert.Positive(t, report.Duration)
	assert.Positive(t, report.Mixed.Latency.Max)
	assert.Positive(t, report.Mixed.Throughput())

	// The whole key space fits in the cache, so reads never miss
	assert.Zero(t, report.Cache.Misses)
	assert.Zero(t, report.Cache.Evictions)
	assert.GreaterOrEqual(t, report.Cache.Hits, int64(20))
	assert.LessOrEqual(t, report.Cache.SizeBytes, report.Cache.Capacity)
}
