package diff

import (
	"sort"
	"strings"

	"github.com/roach88/mimic/internal/record"
)

// FileStatus classifies one file's change between two snapshots.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusRemoved  FileStatus = "removed"
	StatusRenamed  FileStatus = "renamed"
)

// Content is one file blob in a snapshot. A nil Body marks a binary
// file: it has an identity but no line structure.
type Content struct {
	SHA  string
	Body *string
}

// Snapshot is the set of files reachable from one commit, keyed by
// repository-relative path.
type Snapshot map[string]Content

// FileChange describes how one file differs between two snapshots.
// Patch is always nil for now; the field keeps the output shape stable
// for callers that expect it.
type FileChange struct {
	SHA              string     `json:"sha"`
	Filename         string     `json:"filename"`
	Status           FileStatus `json:"status"`
	Additions        int        `json:"additions"`
	Deletions        int        `json:"deletions"`
	Changes          int        `json:"changes"`
	Patch            *string    `json:"patch"`
	PreviousFilename string     `json:"previous_filename,omitempty"`
}

// Changes compares two snapshots and returns the per-file changes,
// ordered by path. Unchanged files (same blob SHA at the same path) are
// omitted, so Changes(s, s) is always empty.
//
// A blob that disappears from one path and reappears at another with the
// same SHA is reported as a single rename with zero line changes, not as
// a remove plus an add.
func Changes(base, head Snapshot) []FileChange {
	paths := make([]string, 0, len(base)+len(head))
	seen := make(map[string]bool, len(base)+len(head))
	for path := range base {
		paths = append(paths, path)
		seen[path] = true
	}
	for path := range head {
		if !seen[path] {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	baseBySHA := indexBySHA(base, paths)
	headBySHA := indexBySHA(head, paths)

	var changes []FileChange
	processed := make(map[string]bool)

	for _, path := range paths {
		if processed[path] {
			continue
		}

		baseFile, inBase := base[path]
		headFile, inHead := head[path]

		switch {
		case !inBase:
			if oldPath, ok := baseBySHA[headFile.SHA]; ok && oldPath != path {
				if _, stillPresent := head[oldPath]; !stillPresent {
					processed[oldPath] = true
					processed[path] = true
					changes = append(changes, FileChange{
						SHA:              headFile.SHA,
						Filename:         path,
						Status:           StatusRenamed,
						PreviousFilename: oldPath,
					})
					continue
				}
			}
			n := countLines(headFile.Body)
			changes = append(changes, FileChange{
				SHA:       headFile.SHA,
				Filename:  path,
				Status:    StatusAdded,
				Additions: n,
				Changes:   n,
			})

		case !inHead:
			if newPath, ok := headBySHA[baseFile.SHA]; ok && newPath != path {
				if _, wasPresent := base[newPath]; !wasPresent {
					// The rename is emitted when the new path is
					// visited; the old path contributes nothing here.
					processed[path] = true
					continue
				}
			}
			n := countLines(baseFile.Body)
			changes = append(changes, FileChange{
				SHA:       baseFile.SHA,
				Filename:  path,
				Status:    StatusRemoved,
				Deletions: n,
				Changes:   n,
			})

		case baseFile.SHA != headFile.SHA:
			additions, deletions := lineDiff(baseFile.Body, headFile.Body)
			changes = append(changes, FileChange{
				SHA:       headFile.SHA,
				Filename:  path,
				Status:    StatusModified,
				Additions: additions,
				Deletions: deletions,
				Changes:   additions + deletions,
			})

		default:
			continue
		}
		processed[path] = true
	}

	return changes
}

// indexBySHA maps blob SHAs back to paths. Paths are visited in sorted
// order so duplicate SHAs resolve deterministically to the last path.
func indexBySHA(files Snapshot, sortedPaths []string) map[string]string {
	index := make(map[string]string, len(files))
	for _, path := range sortedPaths {
		file, ok := files[path]
		if !ok || file.SHA == "" {
			continue
		}
		index[file.SHA] = path
	}
	return index
}

// lineDiff approximates line additions and deletions by set difference:
// a head line absent from the base counts as an addition, a base line
// absent from the head as a deletion. Duplicate lines all count on the
// side where the other version lacks them entirely.
//
// Binary files (nil body) have no line structure. Binary on both sides
// diffs as zero; binary on one side counts every line of the text side.
func lineDiff(base, head *string) (additions, deletions int) {
	switch {
	case base == nil && head == nil:
		return 0, 0
	case base == nil:
		return countLines(head), 0
	case head == nil:
		return 0, countLines(base)
	}

	baseLines := splitLines(*base)
	headLines := splitLines(*head)

	baseSet := make(map[string]bool, len(baseLines))
	for _, line := range baseLines {
		baseSet[line] = true
	}
	headSet := make(map[string]bool, len(headLines))
	for _, line := range headLines {
		headSet[line] = true
	}

	for _, line := range headLines {
		if !baseSet[line] {
			additions++
		}
	}
	for _, line := range baseLines {
		if !headSet[line] {
			deletions++
		}
	}
	return additions, deletions
}

func countLines(body *string) int {
	if body == nil {
		return 0
	}
	return len(splitLines(*body))
}

// splitLines splits on line breaks without counting a phantom line
// after a trailing newline. An empty body has zero lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ToRecords converts file changes into record objects suitable for
// canonical serialization and API-shaped responses.
func ToRecords(changes []FileChange) record.Array {
	out := make(record.Array, 0, len(changes))
	for _, c := range changes {
		obj := record.Object{
			"sha":       record.String(c.SHA),
			"filename":  record.String(c.Filename),
			"status":    record.String(string(c.Status)),
			"additions": record.Int(int64(c.Additions)),
			"deletions": record.Int(int64(c.Deletions)),
			"changes":   record.Int(int64(c.Changes)),
			"patch":     record.Null{},
		}
		if c.Patch != nil {
			obj["patch"] = record.String(*c.Patch)
		}
		if c.PreviousFilename != "" {
			obj["previous_filename"] = record.String(c.PreviousFilename)
		}
		out = append(out, obj)
	}
	return out
}
