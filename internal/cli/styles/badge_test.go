package styles_test

import (
	"testing"
	"time"

	"github.com/biraysutcuoglu/KeyValueStore/internal/cli/styles"
	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "zero", n: 0, want: "0 B"},
		{name: "bytes", n: 512, want: "512 B"},
		{name: "almost a KiB", n: 1023, want: "1023 B"},
		{name: "exactly one KiB", n: 1 << 10, want: "1.0 KiB"},
		{name: "kibibytes", n: 1536, want: "1.5 KiB"},
		{name: "mebibytes", n: 16 << 20, want: "16.0 MiB"},
		{name: "fractional mebibytes", n: 5<<20 + 256<<10, want: "5.2 MiB"},
		{name: "gibibytes", n: 2 << 30, want: "2.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.FormatBytes(tt.n))
		})
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		tm   time.Time
		want string
	}{
		{name: "seconds ago", tm: now.Add(-30 * time.Second), want: "just now"},
		{name: "one minute", tm: now.Add(-90 * time.Second), want: "1m ago"},
		{name: "minutes", tm: now.Add(-45 * time.Minute), want: "45m ago"},
		{name: "one hour", tm: now.Add(-90 * time.Minute), want: "1h ago"},
		{name: "hours", tm: now.Add(-7 * time.Hour), want: "7h ago"},
		{name: "one day", tm: now.Add(-30 * time.Hour), want: "1d ago"},
		{name: "days", tm: now.Add(-3 * 24 * time.Hour), want: "3d ago"},
		{name: "one week", tm: now.Add(-8 * 24 * time.Hour), want: "1w ago"},
		{name: "weeks", tm: now.Add(-20 * 24 * time.Hour), want: "2w ago"},
		{name: "months", tm: now.Add(-90 * 24 * time.Hour), want: "3mo ago"},
		{name: "one year", tm: now.Add(-400 * 24 * time.Hour), want: "1y ago"},
		{name: "years", tm: now.Add(-800 * 24 * time.Hour), want: "2y ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.RelativeTime(tt.tm))
		})
	}
}
