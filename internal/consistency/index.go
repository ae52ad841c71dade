package consistency

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

// syncSearchIndex backfills the derived code search index from the
// content index. Every file entry whose key parses and whose repository
// exists gets exactly one index entry, deduplicated on
// {repository_id}:{path}; unparsable keys are skipped with a warning and
// directory entries are ignored.
func (r *Repairer) syncSearchIndex() []Warning {
	var warnings []Warning

	index := r.store.Table(store.TableSearchIndex)
	present := make(map[string]bool, index.Len())
	for _, entry := range index.Records() {
		repoID, ok := entry.At("repository", "id")
		if !ok {
			continue
		}
		id, ok := repoID.(record.Int)
		if !ok {
			continue
		}
		entryPath, ok := entry.GetString("path")
		if !ok {
			continue
		}
		present[fmt.Sprintf("%d:%s", int64(id), entryPath)] = true
	}

	repositories := r.store.Table(store.TableRepositories)

	for _, raw := range r.store.ContentKeys() {
		content, _ := r.store.Content(raw)
		if kind, ok := content.GetString("type"); ok && kind != "file" {
			continue
		}

		key, err := store.ParseContentKey(raw)
		if err != nil {
			warnings = append(warnings, Warning{
				Code:    WarnMalformedKey,
				Entity:  "content " + raw,
				Message: fmt.Sprintf("skipped during search index sync: %v", err),
			})
			continue
		}

		repo, ok := repositories.FindByID(record.Int(key.RepositoryID))
		if !ok {
			continue
		}
		if present[key.DedupKey()] {
			continue
		}

		index.Append(searchIndexEntry(key, content, repo))
		present[key.DedupKey()] = true
		slog.Debug("search index entry added", "repository_id", key.RepositoryID, "path", key.Path)
	}
	return warnings
}

// searchIndexEntry builds the denormalized index record for one file.
func searchIndexEntry(key store.ContentKey, content, repo record.Object) record.Object {
	name, ok := content.GetString("name")
	if !ok || name == "" {
		name = path.Base(key.Path)
	}
	sha, _ := content.GetString("sha")
	repoName, _ := repo.GetString("name")
	fullName, _ := repo.GetString("full_name")
	ownerLogin, _ := repo.StringAt("owner", "login")

	owner := record.Object{"login": record.String(ownerLogin)}
	if ownerID, ok := repo.At("owner", "id"); ok {
		owner["id"] = ownerID
	}

	return record.Object{
		"name": record.String(name),
		"path": record.String(key.Path),
		"sha":  record.String(sha),
		"repository": record.Object{
			"id":        record.Int(key.RepositoryID),
			"name":      record.String(repoName),
			"full_name": record.String(fullName),
			"owner":     owner,
		},
		"score": record.Float(1.0),
	}
}
