package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/biraysutcuoglu/KeyValueStore/internal/bench"
)

// BenchRenderer renders benchmark reports.
type BenchRenderer struct {
	theme *Theme
}

// NewBenchRenderer creates a new bench renderer with the given theme.
func NewBenchRenderer(theme *Theme) *BenchRenderer {
	return &BenchRenderer{theme: theme}
}

// Render renders run parameters, one section per phase, and the cache
// counters observed after the run.
func (r *BenchRenderer) Render(report *bench.Report) string {
	t := r.theme

	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		t.Title.Render("Benchmark"),
		"  ",
		t.MutedBadge(fmt.Sprintf("%d ops", report.Options.Ops)),
		" ",
		t.MutedBadge(fmt.Sprintf("%d workers", report.Options.Workers)),
		" ",
		t.MutedBadge(fmt.Sprintf("%.0f%% reads", report.Options.ReadRatio*100)),
		" ",
		t.MutedBadge(FormatBytes(int64(report.Options.ValueSize))+" values"),
	)

	sections := []string{
		r.renderPhase(report.Preload),
		r.renderPhase(report.Reads),
		r.renderPhase(report.Mixed),
		r.renderCache(report.Cache.Hits, report.Cache.Misses, report.Cache.HitRate(),
			report.Cache.Promotions, report.Cache.Evictions,
			report.Cache.Entries, report.Cache.SizeBytes, report.Cache.Capacity),
	}

	footer := t.Subtle.Render("total " + report.Duration.Round(time.Millisecond).String())

	return lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(sections, "\n\n"), "", footer)
}

func (r *BenchRenderer) renderPhase(p bench.Phase) string {
	t := r.theme

	counts := fmt.Sprintf("%d ops in %s (%.0f ops/s)", p.Ops,
		p.Duration.Round(time.Millisecond), p.Throughput())
	if p.Reads > 0 && p.Writes > 0 {
		counts = fmt.Sprintf("%d ops (%d reads, %d writes) in %s (%.0f ops/s)",
			p.Ops, p.Reads, p.Writes, p.Duration.Round(time.Millisecond), p.Throughput())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		t.Subtitle.Render(p.Name),
		"  "+t.Normal.Render(counts),
		"  "+r.renderLatency(p.Latency),
	)
}

func (r *BenchRenderer) renderLatency(s bench.Summary) string {
	t := r.theme
	pair := func(k string, v time.Duration) string {
		return t.HelpKey.Render(k) + " " + t.Normal.Render(formatLatency(v))
	}
	return strings.Join([]string{
		pair("avg", s.Avg),
		pair("p50", s.P50),
		pair("p95", s.P95),
		pair("p99", s.P99),
		pair("min", s.Min),
		pair("max", s.Max),
	}, "  ")
}

func (r *BenchRenderer) renderCache(hits, misses int64, hitRate float64, promotions, evictions int64, entries int, size, capacity int64) string {
	t := r.theme

	badges := lipgloss.JoinHorizontal(
		lipgloss.Top,
		t.AccentBadge(fmt.Sprintf("%.1f%% hit rate", hitRate)),
		" ",
		t.MutedBadge(fmt.Sprintf("%d hits", hits)),
		" ",
		t.MutedBadge(fmt.Sprintf("%d misses", misses)),
	)

	occupancy := fmt.Sprintf("promotions %d  evictions %d  resident %d entries, %s of %s",
		promotions, evictions, entries, FormatBytes(size), FormatBytes(capacity))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		t.Subtitle.Render("cache"),
		"  "+badges,
		"  "+t.Normal.Render(occupancy),
	)
}

// formatLatency keeps sub-millisecond readings readable without drowning
// larger ones in digits.
func formatLatency(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	case d >= time.Microsecond:
		return d.Round(100 * time.Nanosecond).String()
	default:
		return d.String()
	}
}
