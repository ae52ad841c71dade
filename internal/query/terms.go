package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/mimic/internal/record"
)

// MatchTerms reports whether every search term appears as a whole word in
// the item's text fields. The fields are joined into one case-folded blob
// and each term must match at a word boundary; substring matching would
// let "feat" match "feature".
func MatchTerms(item record.Object, terms []string, fields []string) bool {
	if len(terms) == 0 {
		return true
	}

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if s, ok := item.GetString(strings.TrimSpace(field)); ok && s != "" {
			parts = append(parts, termFold.String(s))
		}
	}
	blob := strings.Join(parts, " ")

	for _, term := range terms {
		re, err := regexp.Compile(wordBoundaryPattern(term))
		if err != nil {
			return false
		}
		if !re.MatchString(blob) {
			return false
		}
	}
	return true
}

// nonWord matches one rune outside the word class (letters, digits,
// underscore). Go's \b is ASCII-only, so boundaries are spelled out
// explicitly to keep terms like "café" matchable.
const nonWord = `[^\p{L}\p{N}_]`

// wordBoundaryPattern quotes the term and anchors whichever of its edges
// is a word rune to a word boundary. Edges that are already non-word
// runes need no anchor.
func wordBoundaryPattern(term string) string {
	var b strings.Builder
	if r, _ := utf8.DecodeRuneInString(term); isWordRune(r) {
		b.WriteString(`(?:\A|` + nonWord + `)`)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if r, _ := utf8.DecodeLastRuneInString(term); isWordRune(r) {
		b.WriteString(`(?:` + nonWord + `|\z)`)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
