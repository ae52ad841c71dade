package store

import (
	"sync"
	"time"
)

// isoFormat renders UTC time as ISO-8601 with microsecond precision and a
// literal Z suffix. Fixed-width fractional digits keep the lexical order of
// issued stamps identical to their chronological order.
const isoFormat = "2006-01-02T15:04:05.000000"

// Clock issues strictly increasing ISO-8601 UTC timestamps for audit
// fields. Successive calls within the same wall-clock instant advance by
// one microsecond past the last issued value, so callers that sort by
// created_at/updated_at always see a total order.
//
// Thread-safety: Clock is safe for concurrent use, though the store's
// single-writer design means one goroutine typically calls NowISO().
type Clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewClock creates a clock backed by the system wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockAt creates a clock with an injected time source.
// Used by tests to pin timestamps.
func NewClockAt(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// NowISO returns the current UTC time as an ISO-8601 string, guaranteed
// strictly greater than every previously issued stamp.
func (c *Clock) NowISO() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t.Format(isoFormat) + "Z"
}

// Last returns the most recently issued stamp, or the zero time if none
// has been issued yet. Useful for checkpoint-style assertions in tests.
func (c *Clock) Last() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// ParseISO parses an ISO-8601 timestamp in any of the shapes the simulated
// datasets carry: date-only, seconds precision, or fractional seconds, with
// either a Z suffix or a numeric offset.
func ParseISO(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
