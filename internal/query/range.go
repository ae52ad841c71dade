package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/roach88/mimic/internal/store"
)

// Range qualifiers share one grammar across numeric and date fields:
//
//	bare value   exact match (for dates: anywhere within that calendar day)
//	>V <V >=V <=V  prefixed comparison
//	A..B         inclusive range, either bound may be * (open-ended)
//
// A malformed operand rejects the item rather than raising, so a bad
// query degrades to fewer results.

// matchNumberRange evaluates the range grammar over a numeric field
// value.
func matchNumberRange(actual float64, expr string) bool {
	if lo, hi, ok := strings.Cut(expr, ".."); ok {
		low, lowOK := parseNumberBound(lo, false)
		high, highOK := parseNumberBound(hi, true)
		if !lowOK || !highOK {
			return false
		}
		return actual >= low && actual <= high
	}

	op, operand := splitOperator(expr)
	n, err := strconv.ParseInt(operand, 10, 64)
	if err != nil {
		return false
	}
	bound := float64(n)
	switch op {
	case ">=":
		return actual >= bound
	case "<=":
		return actual <= bound
	case ">":
		return actual > bound
	case "<":
		return actual < bound
	default:
		return actual == bound
	}
}

// parseNumberBound parses one side of A..B; "*" is an open bound.
func parseNumberBound(s string, upper bool) (float64, bool) {
	if s == "*" {
		if upper {
			return float64(int64(^uint64(0) >> 1)), true
		}
		return -float64(int64(^uint64(0) >> 1)), true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// matchDateRange evaluates the range grammar over an ISO-8601 field
// value. An unparsable field value or operand fails the match.
func matchDateRange(actualISO, expr string) bool {
	actual, ok := store.ParseISO(actualISO)
	if !ok {
		return false
	}

	if lo, hi, found := strings.Cut(expr, ".."); found {
		start := time.Time{}
		if lo != "*" {
			start, ok = parseQueryDate(lo, false)
			if !ok {
				return false
			}
		}
		end := time.Date(9999, 12, 31, 23, 59, 59, 999999000, time.UTC)
		if hi != "*" {
			end, ok = parseQueryDate(hi, true)
			if !ok {
				return false
			}
		}
		return !actual.Before(start) && !actual.After(end)
	}

	op, operand := splitOperator(expr)
	bound, ok := parseQueryDate(operand, false)
	if !ok {
		return false
	}
	switch op {
	case ">=":
		return !actual.Before(bound)
	case "<=":
		return !actual.After(bound)
	case ">":
		return actual.After(bound)
	case "<":
		return actual.Before(bound)
	default:
		// Bare date: match anywhere within that calendar day.
		dayStart := bound.Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24*time.Hour - time.Microsecond)
		return !actual.Before(dayStart) && !actual.After(dayEnd)
	}
}

// parseQueryDate parses a range operand. Date-only operands with
// endOfDay set resolve to the last instant of that day, so A..B ranges
// include the whole end day.
func parseQueryDate(s string, endOfDay bool) (time.Time, bool) {
	t, ok := store.ParseISO(s)
	if !ok {
		return time.Time{}, false
	}
	if endOfDay && !strings.Contains(s, "T") {
		t = t.Add(24*time.Hour - time.Microsecond)
	}
	return t, true
}

// splitOperator strips a leading comparison operator off a range operand.
func splitOperator(expr string) (op, operand string) {
	switch {
	case strings.HasPrefix(expr, ">="), strings.HasPrefix(expr, "<="):
		return expr[:2], expr[2:]
	case strings.HasPrefix(expr, ">"), strings.HasPrefix(expr, "<"):
		return expr[:1], expr[1:]
	default:
		return "", expr
	}
}
