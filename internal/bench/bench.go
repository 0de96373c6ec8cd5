// Package bench drives synthetic load against the cache and summarizes
// per-operation latencies.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
	"github.com/biraysutcuoglu/KeyValueStore/internal/logging"
)

// Options configure a benchmark run. Zero fields fall back to defaults.
type Options struct {
	Ops       int     // operations in the mixed phase, split across workers
	Workers   int     // concurrent workers in the mixed phase
	ReadRatio float64 // fraction of mixed ops that are reads, 0..1
	ValueSize int     // bytes per value
	KeySpace  int     // distinct keys
	Seed      int64   // rng seed; 0 derives one from the clock
}

const (
	defaultOps       = 10000
	defaultWorkers   = 4
	defaultReadRatio = 0.5
	defaultValueSize = 128
)

func (o *Options) normalize() {
	if o.Ops <= 0 {
		o.Ops = defaultOps
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.Workers > o.Ops {
		o.Workers = o.Ops
	}
	if o.ReadRatio < 0 || o.ReadRatio > 1 {
		o.ReadRatio = defaultReadRatio
	}
	if o.ValueSize <= 0 {
		o.ValueSize = defaultValueSize
	}
	if o.KeySpace <= 0 {
		o.KeySpace = o.Ops / 10
		if o.KeySpace < 16 {
			o.KeySpace = 16
		}
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
}

// Summary holds latency percentiles over one phase.
type Summary struct {
	Avg time.Duration
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration
	Min time.Duration
	Max time.Duration
}

// Phase is the outcome of one benchmark phase.
type Phase struct {
	Name     string
	Ops      int
	Reads    int
	Writes   int
	Duration time.Duration
	Latency  Summary
}

// Throughput returns operations per second for the phase.
func (p Phase) Throughput() float64 {
	if p.Duration <= 0 {
		return 0
	}
	return float64(p.Ops) / p.Duration.Seconds()
}

// Report is the outcome of a full benchmark run.
type Report struct {
	Options  Options
	Duration time.Duration

	Preload Phase // sequential writes seeding the key space
	Reads   Phase // sequential reads over the key space
	Mixed   Phase // concurrent read/write mix

	Cache cache.Stats // counters observed after the run
}

// Run executes the three benchmark phases against c. The preload phase
// writes every key once, the read phase reads them back in order, and the
// mixed phase hammers random keys from the configured worker count.
func Run(ctx context.Context, c *cache.Cache, opts Options) (*Report, error) {
	opts.normalize()
	log := logging.FromContext(ctx)

	value := make([]byte, opts.ValueSize)
	for i := range value {
		value[i] = byte('a' + i%26)
	}

	start := time.Now()

	preload, err := runPreload(ctx, c, opts, value)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("ops", preload.Ops).Dur("took", preload.Duration).Msg("preload phase done")

	reads, err := runReads(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("ops", reads.Ops).Dur("took", reads.Duration).Msg("read phase done")

	mixed, err := runMixed(ctx, c, opts, value)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("ops", mixed.Ops).Dur("took", mixed.Duration).Msg("mixed phase done")

	return &Report{
		Options:  opts,
		Duration: time.Since(start),
		Preload:  preload,
		Reads:    reads,
		Mixed:    mixed,
		Cache:    c.Stats(),
	}, nil
}

func runPreload(ctx context.Context, c *cache.Cache, opts Options, value []byte) (Phase, error) {
	samples := make([]time.Duration, 0, opts.KeySpace)
	start := time.Now()
	for i := 0; i < opts.KeySpace; i++ {
		opStart := time.Now()
		if err := c.Put(ctx, benchKey(i), value); err != nil {
			return Phase{}, fmt.Errorf("preload key %d: %w", i, err)
		}
		samples = append(samples, time.Since(opStart))
	}
	return Phase{
		Name:     "preload",
		Ops:      opts.KeySpace,
		Writes:   opts.KeySpace,
		Duration: time.Since(start),
		Latency:  Summarize(samples),
	}, nil
}

func runReads(ctx context.Context, c *cache.Cache, opts Options) (Phase, error) {
	samples := make([]time.Duration, 0, opts.KeySpace)
	start := time.Now()
	for i := 0; i < opts.KeySpace; i++ {
		opStart := time.Now()
		if _, _, err := c.Get(ctx, benchKey(i)); err != nil {
			return Phase{}, fmt.Errorf("read key %d: %w", i, err)
		}
		samples = append(samples, time.Since(opStart))
	}
	return Phase{
		Name:     "reads",
		Ops:      opts.KeySpace,
		Reads:    opts.KeySpace,
		Duration: time.Since(start),
		Latency:  Summarize(samples),
	}, nil
}

func runMixed(ctx context.Context, c *cache.Cache, opts Options, value []byte) (Phase, error) {
	g, gctx := errgroup.WithContext(ctx)

	perWorker := opts.Ops / opts.Workers
	remainder := opts.Ops % opts.Workers

	samples := make([][]time.Duration, opts.Workers)
	reads := make([]int, opts.Workers)
	writes := make([]int, opts.Workers)

	start := time.Now()
	for w := 0; w < opts.Workers; w++ {
		w := w
		count := perWorker
		if w < remainder {
			count++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewSource(opts.Seed + int64(w)))
			local := make([]time.Duration, 0, count)
			for i := 0; i < count; i++ {
				key := benchKey(rng.Intn(opts.KeySpace))
				opStart := time.Now()
				var err error
				if rng.Float64() < opts.ReadRatio {
					_, _, err = c.Get(gctx, key)
					reads[w]++
				} else {
					err = c.Put(gctx, key, value)
					writes[w]++
				}
				local = append(local, time.Since(opStart))
				if err != nil {
					return fmt.Errorf("worker %d op %d: %w", w, i, err)
				}
			}
			samples[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Phase{}, err
	}
	duration := time.Since(start)

	var merged []time.Duration
	var totalReads, totalWrites int
	for w := 0; w < opts.Workers; w++ {
		merged = append(merged, samples[w]...)
		totalReads += reads[w]
		totalWrites += writes[w]
	}

	return Phase{
		Name:     "mixed",
		Ops:      opts.Ops,
		Reads:    totalReads,
		Writes:   totalWrites,
		Duration: duration,
		Latency:  Summarize(merged),
	}, nil
}

func benchKey(i int) string {
	return fmt.Sprintf("bench:key:%06d", i)
}

// Summarize computes latency percentiles over samples. The input is not
// modified.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return Summary{
		Avg: total / time.Duration(len(sorted)),
		P50: percentile(sorted, 0.50),
		P95: percentile(sorted, 0.95),
		P99: percentile(sorted, 0.99),
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
