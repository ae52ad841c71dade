// Package query implements search over in-memory record collections.
//
// A query string is tokenized shell-style, then split into qualifiers
// (key:value pairs filtered through per-kind evaluator tables) and plain
// terms (matched as whole words against a configurable set of text
// fields). Numeric and date qualifiers accept a small range grammar:
// bare values, >N, >=N, <N, <=N, and A..B with * as an open bound.
//
// All filters AND together. Unknown qualifier keys match everything, so
// a query never fails just because the caller used a key this collection
// does not index.
package query
