package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
	"github.com/roach88/mimic/internal/testutil"
)

func TestSearchIndexSyncBuildsEntries(t *testing.T) {
	s := store.New()
	s.Table(store.TableRepositories).Append(testutil.Repository(1, "acme/tools", 7, "octocat"))
	s.SetContent(
		testutil.ContentKey(1, "aaaa1111", "src/main.go"),
		testutil.FileContent("src/main.go", "blob1", "package main\n"),
	)

	NewRepairer(s).Repair()

	index := s.Table(store.TableSearchIndex)
	require.Equal(t, 1, index.Len())
	entry := index.Records()[0]

	name, _ := entry.GetString("name")
	assert.Equal(t, "main.go", name)
	path, _ := entry.GetString("path")
	assert.Equal(t, "src/main.go", path)
	sha, _ := entry.GetString("sha")
	assert.Equal(t, "blob1", sha)
	fullName, _ := entry.StringAt("repository", "full_name")
	assert.Equal(t, "acme/tools", fullName)
	owner, _ := entry.StringAt("repository", "owner", "login")
	assert.Equal(t, "octocat", owner)
	score, ok := entry.GetNumber("score")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestSearchIndexSyncDeduplicatesAcrossCommits(t *testing.T) {
	s := store.New()
	s.Table(store.TableRepositories).Append(testutil.Repository(1, "acme/tools", 7, "octocat"))

	// The same path at two commits collapses to one entry; a different
	// repository's copy of the path stays separate.
	s.Table(store.TableRepositories).Append(testutil.Repository(2, "acme/fork", 7, "octocat"))
	s.SetContent(testutil.ContentKey(1, "aaaa1111", "src/main.go"), testutil.FileContent("src/main.go", "v1", "a\n"))
	s.SetContent(testutil.ContentKey(1, "bbbb2222", "src/main.go"), testutil.FileContent("src/main.go", "v2", "b\n"))
	s.SetContent(testutil.ContentKey(2, "aaaa1111", "src/main.go"), testutil.FileContent("src/main.go", "v1", "a\n"))

	NewRepairer(s).Repair()

	index := s.Table(store.TableSearchIndex)
	assert.Equal(t, 2, index.Len())
}

func TestSearchIndexSyncSkipsDirectoriesAndMissingRepos(t *testing.T) {
	s := store.New()
	s.Table(store.TableRepositories).Append(testutil.Repository(1, "acme/tools", 7, "octocat"))

	s.SetContent(testutil.ContentKey(1, "aaaa1111", "src"), record.Object{
		"type": record.String("dir"),
		"path": record.String("src"),
	})
	s.SetContent(testutil.ContentKey(42, "aaaa1111", "ghost.go"), testutil.FileContent("ghost.go", "v1", "x\n"))

	warnings := NewRepairer(s).Repair()

	assert.Equal(t, 0, s.Table(store.TableSearchIndex).Len())
	for _, w := range warnings {
		assert.NotEqual(t, WarnMalformedKey, w.Code, "well-formed keys produce no warnings")
	}
}

func TestSearchIndexSyncRespectsExistingEntries(t *testing.T) {
	s := store.New()
	s.Table(store.TableRepositories).Append(testutil.Repository(1, "acme/tools", 7, "octocat"))
	s.SetContent(testutil.ContentKey(1, "aaaa1111", "src/main.go"), testutil.FileContent("src/main.go", "v1", "a\n"))

	// A pre-seeded entry for the same repository and path blocks the
	// backfill.
	s.Table(store.TableSearchIndex).Append(record.Object{
		"path":       record.String("src/main.go"),
		"repository": record.Object{"id": record.Int(1)},
	})

	NewRepairer(s).Repair()
	assert.Equal(t, 1, s.Table(store.TableSearchIndex).Len())
}
