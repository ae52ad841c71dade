package store

import (
	"fmt"
	"strconv"
	"strings"
)

// ContentKey identifies one file version in the content index:
// which repository, at which commit, at which path.
//
// The wire form is "{repository_id}:{commit_sha}:{path}". Seeded datasets
// carry keys in this string form and may carry malformed ones; parsing
// returns a MalformedKeyError which consumers downgrade to a warning.
type ContentKey struct {
	RepositoryID int64
	CommitSHA    string
	Path         string
}

// Format renders the key in its wire form.
func (k ContentKey) Format() string {
	return fmt.Sprintf("%d:%s:%s", k.RepositoryID, k.CommitSHA, k.Path)
}

// DedupKey renders the "{repository_id}:{path}" form the derived search
// index deduplicates on. Distinct commits of the same path share one entry.
func (k ContentKey) DedupKey() string {
	return fmt.Sprintf("%d:%s", k.RepositoryID, k.Path)
}

// ParseContentKey parses the wire form of a content key.
// Paths may contain ':'; only the first two separators are structural.
func ParseContentKey(raw string) (ContentKey, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 3 {
		return ContentKey{}, &MalformedKeyError{Key: raw, Reason: "expected {repository_id}:{commit_sha}:{path}"}
	}
	repoID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ContentKey{}, &MalformedKeyError{Key: raw, Reason: "repository ID is not an integer"}
	}
	if parts[1] == "" {
		return ContentKey{}, &MalformedKeyError{Key: raw, Reason: "empty commit SHA"}
	}
	return ContentKey{RepositoryID: repoID, CommitSHA: parts[1], Path: parts[2]}, nil
}

// MalformedKeyError reports a content key that does not parse.
// It is recoverable by design: repair and sync passes skip the entry and
// surface the key in their warning list.
type MalformedKeyError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed content key %q: %s", e.Key, e.Reason)
}
