package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/text/cases"
)

// qualifierPattern recognizes a key:value qualifier at the start of a
// token. Anything else is a plain search term.
var qualifierPattern = regexp.MustCompile(`^([a-zA-Z_]+):(.*)$`)

// termFold performs full Unicode case folding on search terms, so that
// matching is caseless beyond what ASCII lowercasing covers.
var termFold = cases.Fold()

// Query is a parsed search query: plain terms (case-folded) plus
// key:value qualifiers with lowercased keys. A key that appears twice
// keeps its last value.
type Query struct {
	Terms      []string
	Qualifiers map[string]string
}

// Parse tokenizes a raw query with shell-like quoting rules, so
// `label:"needs triage"` is one token, and splits tokens into terms and
// qualifiers. Mismatched quotes are a hard parse error; everything past
// tokenization is soft.
func Parse(raw string) (Query, error) {
	parts, err := shlex.Split(raw)
	if err != nil {
		return Query{}, &MalformedQueryError{Query: raw, Reason: "mismatched quotes"}
	}

	q := Query{Qualifiers: make(map[string]string)}
	for _, part := range parts {
		if m := qualifierPattern.FindStringSubmatch(part); m != nil {
			q.Qualifiers[strings.ToLower(m[1])] = m[2]
		} else {
			q.Terms = append(q.Terms, termFold.String(part))
		}
	}
	return q, nil
}

// MalformedQueryError reports a query that does not tokenize.
type MalformedQueryError struct {
	Query  string
	Reason string
}

// Error implements the error interface.
func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("invalid query syntax: %s (query=%q)", e.Reason, e.Query)
}
