package diff

import (
	"fmt"
	"strings"

	"github.com/roach88/mimic/internal/store"
)

// SnapshotAt collects the files reachable from one commit of a
// repository out of the store's content index. Directory listings and
// other non-file entries are skipped. A file whose content is null is
// kept as binary.
func SnapshotAt(s *store.Store, repositoryID int64, commitSHA string) Snapshot {
	snapshot := make(Snapshot)
	prefix := fmt.Sprintf("%d:%s:", repositoryID, commitSHA)

	for _, key := range s.ContentKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		entry, ok := s.Content(key)
		if !ok {
			continue
		}
		if kind, _ := entry.GetString("type"); kind != "file" {
			continue
		}

		path := key[len(prefix):]
		sha, _ := entry.GetString("sha")

		var body *string
		if text, ok := entry.GetString("content"); ok {
			body = &text
		}
		snapshot[path] = Content{SHA: sha, Body: body}
	}

	return snapshot
}
