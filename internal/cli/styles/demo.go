package styles

import (
	"fmt"
	"strings"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cache"
)

// DemoRenderer renders the walkthrough output of the demo command.
type DemoRenderer struct {
	theme *Theme
}

func NewDemoRenderer(theme *Theme) *DemoRenderer {
	return &DemoRenderer{theme: theme}
}

// Step renders a numbered walkthrough step header.
func (r *DemoRenderer) Step(n int, title string) string {
	marker := r.theme.Highlight.Render(fmt.Sprintf("%s %d.", IconArrow, n))
	return fmt.Sprintf("%s %s", marker, r.theme.Subtitle.Render(title))
}

// Lookup renders the outcome of a single Get.
func (r *DemoRenderer) Lookup(key string, value []byte, found bool) string {
	if !found {
		return fmt.Sprintf("  %s %s %s",
			r.theme.WarningStyle.Render(IconX),
			r.theme.Normal.Render(key),
			r.theme.Subtle.Render("not found"))
	}
	return fmt.Sprintf("  %s %s %s %s",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Normal.Render(key),
		r.theme.Subtle.Render("="),
		r.theme.Normal.Render(fmt.Sprintf("%q", value)))
}

// Removed renders the outcome of a single Remove.
func (r *DemoRenderer) Removed(key string, removed bool) string {
	if removed {
		return fmt.Sprintf("  %s %s %s",
			r.theme.SuccessStyle.Render(IconCheck),
			r.theme.Normal.Render(key),
			r.theme.Subtle.Render("removed"))
	}
	return fmt.Sprintf("  %s %s %s",
		r.theme.WarningStyle.Render(IconX),
		r.theme.Normal.Render(key),
		r.theme.Subtle.Render("not found"))
}

// CacheState renders the resident entries oldest first with the byte budget.
func (r *DemoRenderer) CacheState(entries []cache.Entry, stats cache.Stats) string {
	lines := make([]string, 0, len(entries)+2)

	if len(entries) == 0 {
		lines = append(lines, r.theme.Subtle.Render("empty"))
	}
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			r.theme.Subtle.Render(fmt.Sprintf("%2d.", i+1)),
			r.theme.Normal.Render(e.Key),
			r.theme.Subtle.Render(FormatBytes(e.Size))))
	}

	lines = append(lines, "", fmt.Sprintf("%s %s",
		r.theme.Subtle.Render("used"),
		r.theme.Normal.Render(fmt.Sprintf("%s of %s", FormatBytes(stats.SizeBytes), FormatBytes(stats.Capacity)))))

	body := strings.Join(lines, "\n")
	header := r.theme.BoxHeader.Render(fmt.Sprintf("%s Cache (oldest first)", r.theme.Highlight.Render(IconCache)))
	return r.theme.Box.Render(header + "\n" + body)
}

// Counters renders the final hit and eviction tallies.
func (r *DemoRenderer) Counters(stats cache.Stats) string {
	rate := r.theme.AccentBadge(fmt.Sprintf("%.1f%% hit rate", stats.HitRate()))
	hits := r.theme.MutedBadge(fmt.Sprintf("%d hits", stats.Hits))
	misses := r.theme.MutedBadge(fmt.Sprintf("%d misses", stats.Misses))
	tallies := fmt.Sprintf("%s %s %s", rate, hits, misses)

	detail := r.theme.Subtle.Render(fmt.Sprintf("promotions %d  evictions %d", stats.Promotions, stats.Evictions))
	return tallies + "\n" + detail
}
