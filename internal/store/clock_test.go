package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mimic/internal/testutil"
)

func TestClockMonotonic(t *testing.T) {
	c := NewClock()

	prev := c.NowISO()
	for i := 0; i < 1000; i++ {
		next := c.NowISO()
		require.Greater(t, next, prev, "stamps must strictly increase, lexically and chronologically")
		prev = next
	}
}

func TestClockCollisionAdvancesOneMicrosecond(t *testing.T) {
	frozen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewClockAt(func() time.Time { return frozen })

	assert.Equal(t, "2024-03-01T12:00:00.000000Z", c.NowISO())
	assert.Equal(t, "2024-03-01T12:00:00.000001Z", c.NowISO())
	assert.Equal(t, "2024-03-01T12:00:00.000002Z", c.NowISO())
}

func TestClockFormat(t *testing.T) {
	at := time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC)
	c := NewClockAt(func() time.Time { return at })

	// Nanoseconds truncate to microseconds; fractional digits are fixed
	// width.
	assert.Equal(t, "2024-12-31T23:59:59.123456Z", c.NowISO())
}

func TestClockIgnoresWallClockRegression(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC),
		time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC), // wall clock stepped back
	}
	i := 0
	c := NewClockAt(func() time.Time {
		t := times[i]
		i++
		return t
	})

	first := c.NowISO()
	second := c.NowISO()
	assert.Greater(t, second, first)
	assert.Equal(t, "2024-03-01T12:00:05.000001Z", second)
}

func TestClockWithSteppingSource(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewClockAt(testutil.NewSteppingClock(start, time.Second).Now)

	assert.Equal(t, "2024-03-01T12:00:00.000000Z", c.NowISO())
	assert.Equal(t, "2024-03-01T12:00:01.000000Z", c.NowISO())
	assert.Equal(t, "2024-03-01T12:00:02.000000Z", c.NowISO())
}

func TestClockLast(t *testing.T) {
	c := NewClock()
	assert.True(t, c.Last().IsZero())

	c.NowISO()
	assert.False(t, c.Last().IsZero())
}

func TestParseISO(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"microseconds with Z", "2024-03-01T12:00:00.000001Z", true},
		{"seconds with Z", "2024-03-01T12:00:00Z", true},
		{"no zone", "2024-03-01T12:00:00", true},
		{"date only", "2024-03-01", true},
		{"numeric offset", "2024-03-01T12:00:00+02:00", true},
		{"garbage", "not-a-date", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseISO(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, time.UTC, parsed.Location())
			}
		})
	}
}

func TestParseISORoundTripsClockOutput(t *testing.T) {
	at := time.Date(2024, 6, 15, 8, 30, 0, 42000, time.UTC)
	c := NewClockAt(func() time.Time { return at })

	parsed, ok := ParseISO(c.NowISO())
	require.True(t, ok)
	assert.True(t, parsed.Equal(at))
}
