// Package diff computes file-level changes between two commit
// snapshots.
//
// The comparison is blob-identity based: files pair up by path, equal
// SHAs at the same path are unchanged, and a SHA that moves between
// paths is a rename. Line counts use a set-difference approximation
// rather than a full LCS diff, which is cheap and adequate for change
// summaries.
package diff
