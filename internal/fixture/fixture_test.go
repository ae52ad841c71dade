package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

const sampleDataset = `
name: sample
description: small dataset for loader tests
current_user: 7
tables:
  Users:
    - id: 7
      login: octocat
  Repositories:
    - id: 1
      name: tools
      full_name: acme/tools
      owner:
        id: 7
        login: octocat
      stargazers_count: 42
  Branches:
    - name: main
      repository_id: 99
      commit:
        sha: feedbeef
contents:
  "1:feedbeef:src/main.go":
    type: file
    name: main.go
    path: src/main.go
    sha: blob1
    content: |
      package main
`

func TestParseAndBuild(t *testing.T) {
	ds, err := Parse([]byte(sampleDataset))
	require.NoError(t, err)
	assert.Equal(t, "sample", ds.Name)

	s, err := Build(ds)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Table(store.TableUsers).Len())
	assert.Equal(t, 1, s.Table(store.TableRepositories).Len())

	repo, ok := s.FindRepository(record.String("acme/tools"))
	require.True(t, ok)
	stars, _ := repo.GetInt("stargazers_count")
	assert.Equal(t, int64(42), stars)

	// Rows load verbatim: the dangling branch reference survives for the
	// repair pass to deal with.
	branch := s.Table(store.TableBranches).Records()[0]
	repoID, _ := branch.GetInt("repository_id")
	assert.Equal(t, int64(99), repoID)

	entry, ok := s.Content("1:feedbeef:src/main.go")
	require.True(t, ok)
	body, _ := entry.GetString("content")
	assert.Equal(t, "package main\n", body)

	user, ok := s.CurrentUser()
	require.True(t, ok)
	login, _ := user.GetString("login")
	assert.Equal(t, "octocat", login)
}

func TestBuildDerivesMissingContentSHA(t *testing.T) {
	ds, err := Parse([]byte(`
name: sha-derivation
tables: {}
contents:
  "1:abc:a.go":
    type: file
    path: a.go
    content: "package a\n"
  "1:abc:b.go":
    type: file
    path: b.go
    sha: explicit
    content: "package b\n"
`))
	require.NoError(t, err)

	s, err := Build(ds)
	require.NoError(t, err)

	derived, _ := s.Content("1:abc:a.go")
	sha, ok := derived.GetString("sha")
	require.True(t, ok)
	assert.Equal(t, record.ContentSHA([]byte("package a\n")), sha)

	explicit, _ := s.Content("1:abc:b.go")
	sha, _ = explicit.GetString("sha")
	assert.Equal(t, "explicit", sha, "an explicit SHA is never overwritten")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: x\ntable:\n  Users: []\n"))
	assert.Error(t, err, "typo in a section name fails loudly")
}

func TestParseRequiresName(t *testing.T) {
	_, err := Parse([]byte("description: nameless\n"))
	assert.Error(t, err)
}

func TestBuildUnknownCurrentUser(t *testing.T) {
	ds, err := Parse([]byte("name: x\ncurrent_user: 5\n"))
	require.NoError(t, err)

	_, err = Build(ds)
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestLoadStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDataset), 0o644))

	s, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, 3, len(s.TableNames()))

	_, err = LoadStore(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
