package consistency

import (
	"fmt"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

// inferRepositoryID recovers the owning repository of an unlinked commit
// via an ordered strategy chain, each tried only if the previous failed:
//
//  1. content-key lookup: scan the content index for an entry with this
//     SHA and recover the repository ID from its composite key. Malformed
//     keys encountered along the way are collected as warnings.
//  2. author-identity matching: adopt the repository of another commit by
//     the same author.
//  3. activity-correlation matching: adopt the first repository whose
//     already-linked commits share an author with this one.
//
// Returns the repository ID, the name of the strategy that succeeded, and
// any warnings gathered. ok is false when every strategy failed.
func (r *Repairer) inferRepositoryID(commit record.Object, sha string) (repoID int64, strategy string, warnings []Warning, ok bool) {
	if repoID, warnings, ok = r.inferFromContentKeys(sha); ok {
		return repoID, "content-key lookup", warnings, true
	}

	author, hasAuthor := commit.StringAt("author", "login")

	if hasAuthor && author != "" {
		if repoID, ok = r.inferFromAuthorIdentity(sha, author); ok {
			return repoID, "author-identity matching", warnings, true
		}
		if repoID, ok = r.inferFromRepositoryActivity(author); ok {
			return repoID, "activity-correlation matching", warnings, true
		}
	}

	return 0, "", warnings, false
}

// inferFromContentKeys scans the content index (in sorted key order, for
// determinism) for an entry carrying the commit's SHA and parses the
// repository ID out of its key.
func (r *Repairer) inferFromContentKeys(sha string) (int64, []Warning, bool) {
	var warnings []Warning

	for _, raw := range r.store.ContentKeys() {
		content, _ := r.store.Content(raw)
		if contentSHA, ok := content.GetString("sha"); !ok || contentSHA != sha {
			continue
		}

		key, err := store.ParseContentKey(raw)
		if err != nil {
			warnings = append(warnings, Warning{
				Code:    WarnMalformedKey,
				Entity:  "commit " + shortSHA(sha),
				Message: fmt.Sprintf("skipped while inferring repository: %v", err),
			})
			continue
		}
		return key.RepositoryID, warnings, true
	}
	return 0, warnings, false
}

// inferFromAuthorIdentity adopts the repository of another commit that is
// already linked and shares this commit's author.
func (r *Repairer) inferFromAuthorIdentity(sha, author string) (int64, bool) {
	for _, other := range r.store.Table(store.TableCommits).Records() {
		otherSHA, _ := other.GetString("sha")
		if otherSHA == sha {
			continue
		}
		repoID, linked := other.GetInt("repository_id")
		if !linked {
			continue
		}
		if otherAuthor, ok := other.StringAt("author", "login"); ok && otherAuthor == author {
			return repoID, true
		}
	}
	return 0, false
}

// inferFromRepositoryActivity walks repositories in table order and adopts
// the first whose linked commits include one by this author. Broader than
// author-identity matching: it keys off the repository's whole activity
// set rather than a single sibling commit, so it also catches authors
// whose only linked work predates the dangling commit.
func (r *Repairer) inferFromRepositoryActivity(author string) (int64, bool) {
	commits := r.store.Table(store.TableCommits).Records()

	for _, repo := range r.store.Table(store.TableRepositories).Records() {
		repoID, ok := repo.GetInt("id")
		if !ok {
			continue
		}
		for _, commit := range commits {
			linked, ok := commit.GetInt("repository_id")
			if !ok || linked != repoID {
				continue
			}
			if commitAuthor, ok := commit.StringAt("author", "login"); ok && commitAuthor == author {
				return repoID, true
			}
		}
	}
	return 0, false
}
