package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleDate(t *testing.T) {
	fallback := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		input  string
		want   time.Time
		parsed bool
	}{
		{"ISO", "2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"day first", "15/03/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"RFC3339", "2026-03-15T10:30:00Z", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"slashes", "2026/03/15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"short day first", "5/3/2026", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"month name", "Mar 15, 2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"dashes day first", "15-03-2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"garbage", "not a date", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), false},
		{"whitespace only", "   ", time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, parsed := ParseFlexibleDate(tt.input, fallback)
			assert.Equal(t, tt.parsed, parsed)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDateOnlyStripsTime(t *testing.T) {
	in := time.Date(2026, 8, 28, 23, 59, 59, 999, time.FixedZone("X", 3600))
	out := DateOnly(in)

	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), out)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, daysBetween(a, b))
	assert.Equal(t, -30, daysBetween(b, a))
	assert.Equal(t, 0, daysBetween(a, a))
}
