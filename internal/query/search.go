package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

// Pagination bounds. per_page is clamped into [1, MaxPerPage]; a zero
// value selects DefaultPerPage.
const (
	DefaultPerPage = 30
	MaxPerPage     = 100
)

// SortKind selects the comparison used for a sort key.
type SortKind int

const (
	// SortNumeric compares a numeric field; missing values sort as 0.
	SortNumeric SortKind = iota
	// SortDate compares an ISO-8601 string field; missing or unparsable
	// values sort as the earliest possible instant, keeping the order
	// total and deterministic.
	SortDate
)

// SortKey maps a caller-facing sort name to a field extractor.
type SortKey struct {
	Field string
	Kind  SortKind
}

// Options configures one search call.
type Options struct {
	// Sort names a key in SortKeys. Empty means best match: descending
	// numeric score with ties kept in collection order.
	Sort string

	// Order is "asc" or "desc". Anything other than "asc" sorts
	// descending.
	Order string

	// Page is the 1-indexed page number. Values below 1 are clamped.
	Page int

	// PerPage is the page size, clamped into [1, MaxPerPage].
	PerPage int

	// TextFields are the default fields plain terms match against,
	// overridable per query with an in: qualifier.
	TextFields []string

	// Evaluators is the qualifier table for this item kind.
	Evaluators Evaluators

	// SortKeys are the sort names this item kind accepts.
	SortKeys map[string]SortKey

	// StrictSort rejects unknown sort names as a hard error. When false
	// an unknown sort silently falls back to best match, which is how
	// issue search behaves; only repository search rejects.
	StrictSort bool
}

// Result is one page of matches plus the pre-pagination total.
type Result struct {
	TotalCount int
	Items      []record.Object
}

// Search parses the raw query, filters items by qualifiers and
// whole-word terms, sorts, and returns the requested page.
//
// Hard errors are limited to what the caller got structurally wrong: a
// query that does not tokenize or an unknown sort name. Everything about
// individual items degrades softly: a malformed qualifier operand or an
// unparsable field value just excludes items.
func Search(items []record.Object, raw string, opts Options) (Result, error) {
	q, err := Parse(raw)
	if err != nil {
		return Result{}, err
	}

	if opts.Sort != "" {
		if _, ok := opts.SortKeys[opts.Sort]; !ok {
			if opts.StrictSort {
				return Result{}, fmt.Errorf("invalid sort option %q", opts.Sort)
			}
			opts.Sort = ""
		}
	}

	textFields := opts.TextFields
	if in, ok := q.Qualifiers["in"]; ok {
		textFields = strings.Split(in, ",")
	}

	var matched []record.Object
	for _, item := range items {
		if !Matches(item, q.Qualifiers, opts.Evaluators) {
			continue
		}
		if !MatchTerms(item, q.Terms, textFields) {
			continue
		}
		matched = append(matched, item)
	}

	sortItems(matched, opts)

	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	switch {
	case perPage == 0:
		perPage = DefaultPerPage
	case perPage < 1:
		perPage = 1
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return Result{TotalCount: len(matched), Items: matched[start:end]}, nil
}

// sortItems orders matches in place. All sorts are stable so that ties
// preserve the collection's insertion order.
func sortItems(items []record.Object, opts Options) {
	if opts.Sort == "" {
		// Best match: numeric relevance score, descending.
		sort.SliceStable(items, func(i, j int) bool {
			si, _ := items[i].GetNumber("score")
			sj, _ := items[j].GetNumber("score")
			return si > sj
		})
		return
	}

	key := opts.SortKeys[opts.Sort]
	desc := opts.Order != "asc"

	switch key.Kind {
	case SortDate:
		sort.SliceStable(items, func(i, j int) bool {
			ti := dateSortValue(items[i], key.Field)
			tj := dateSortValue(items[j], key.Field)
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			ni, _ := items[i].GetNumber(key.Field)
			nj, _ := items[j].GetNumber(key.Field)
			if desc {
				return ni > nj
			}
			return ni < nj
		})
	}
}

func dateSortValue(item record.Object, field string) time.Time {
	s, ok := item.GetString(field)
	if !ok {
		return time.Time{}
	}
	t, ok := store.ParseISO(s)
	if !ok {
		return time.Time{}
	}
	return t
}

// RepositorySortKeys returns the sort names repository search accepts.
func RepositorySortKeys() map[string]SortKey {
	return map[string]SortKey{
		"stars":   {Field: "stargazers_count", Kind: SortNumeric},
		"forks":   {Field: "forks_count", Kind: SortNumeric},
		"updated": {Field: "updated_at", Kind: SortDate},
	}
}

// IssueSortKeys returns the sort names issue and pull request search
// accepts.
func IssueSortKeys() map[string]SortKey {
	return map[string]SortKey{
		"comments": {Field: "comments", Kind: SortNumeric},
		"created":  {Field: "created_at", Kind: SortDate},
		"updated":  {Field: "updated_at", Kind: SortDate},
	}
}
