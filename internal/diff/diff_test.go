package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *string {
	return &s
}

func TestChangesIdenticalSnapshotsEmpty(t *testing.T) {
	snap := Snapshot{
		"main.go":   {SHA: "a1", Body: text("package main\n")},
		"README.md": {SHA: "b2", Body: text("# readme\n")},
	}

	assert.Empty(t, Changes(snap, snap))
}

func TestChangesAddedFile(t *testing.T) {
	base := Snapshot{}
	head := Snapshot{"main.go": {SHA: "a1", Body: text("one\ntwo\nthree\n")}}

	changes := Changes(base, head)
	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, StatusAdded, c.Status)
	assert.Equal(t, "main.go", c.Filename)
	assert.Equal(t, 3, c.Additions)
	assert.Equal(t, 0, c.Deletions)
	assert.Equal(t, 3, c.Changes)
	assert.Nil(t, c.Patch)
}

func TestChangesRemovedFile(t *testing.T) {
	base := Snapshot{"old.go": {SHA: "a1", Body: text("one\ntwo\n")}}
	head := Snapshot{}

	changes := Changes(base, head)
	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, StatusRemoved, c.Status)
	assert.Equal(t, 0, c.Additions)
	assert.Equal(t, 2, c.Deletions)
}

func TestChangesModifiedFileLineCounts(t *testing.T) {
	base := Snapshot{"f.txt": {SHA: "a1", Body: text("keep\ndrop\n")}}
	head := Snapshot{"f.txt": {SHA: "a2", Body: text("keep\nnew one\nnew two\n")}}

	changes := Changes(base, head)
	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, StatusModified, c.Status)
	assert.Equal(t, "a2", c.SHA, "modified entries carry the head SHA")
	assert.Equal(t, 2, c.Additions)
	assert.Equal(t, 1, c.Deletions)
	assert.Equal(t, 3, c.Changes)
}

func TestChangesRenameDetectedBySHA(t *testing.T) {
	base := Snapshot{"old/name.go": {SHA: "same", Body: text("content\n")}}
	head := Snapshot{"new/name.go": {SHA: "same", Body: text("content\n")}}

	changes := Changes(base, head)
	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, StatusRenamed, c.Status)
	assert.Equal(t, "new/name.go", c.Filename)
	assert.Equal(t, "old/name.go", c.PreviousFilename)
	assert.Equal(t, 0, c.Additions)
	assert.Equal(t, 0, c.Deletions)
}

func TestChangesCopyIsNotRename(t *testing.T) {
	// The old path survives alongside the new one, so this is an add,
	// not a rename.
	base := Snapshot{"a.go": {SHA: "same", Body: text("content\n")}}
	head := Snapshot{
		"a.go": {SHA: "same", Body: text("content\n")},
		"b.go": {SHA: "same", Body: text("content\n")},
	}

	changes := Changes(base, head)
	require.Len(t, changes, 1)
	assert.Equal(t, StatusAdded, changes[0].Status)
	assert.Equal(t, "b.go", changes[0].Filename)
}

func TestChangesBinaryRules(t *testing.T) {
	tests := []struct {
		name      string
		base      Content
		head      Content
		additions int
		deletions int
	}{
		{
			"binary to binary",
			Content{SHA: "a1", Body: nil},
			Content{SHA: "a2", Body: nil},
			0, 0,
		},
		{
			"binary to text",
			Content{SHA: "a1", Body: nil},
			Content{SHA: "a2", Body: text("one\ntwo\n")},
			2, 0,
		},
		{
			"text to binary",
			Content{SHA: "a1", Body: text("one\ntwo\nthree\n")},
			Content{SHA: "a2", Body: nil},
			0, 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := Changes(
				Snapshot{"f.bin": tt.base},
				Snapshot{"f.bin": tt.head},
			)
			require.Len(t, changes, 1)
			assert.Equal(t, StatusModified, changes[0].Status)
			assert.Equal(t, tt.additions, changes[0].Additions)
			assert.Equal(t, tt.deletions, changes[0].Deletions)
		})
	}
}

func TestChangesSortedByPath(t *testing.T) {
	base := Snapshot{}
	head := Snapshot{
		"zz.go": {SHA: "c", Body: text("z\n")},
		"aa.go": {SHA: "a", Body: text("a\n")},
		"mm.go": {SHA: "b", Body: text("m\n")},
	}

	changes := Changes(base, head)
	require.Len(t, changes, 3)
	assert.Equal(t, "aa.go", changes[0].Filename)
	assert.Equal(t, "mm.go", changes[1].Filename)
	assert.Equal(t, "zz.go", changes[2].Filename)
}

func TestChangesEmptyFiles(t *testing.T) {
	base := Snapshot{"f.txt": {SHA: "a1", Body: text("")}}
	head := Snapshot{"f.txt": {SHA: "a2", Body: text("line\n")}}

	changes := Changes(base, head)
	require.Len(t, changes, 1)
	assert.Equal(t, 1, changes[0].Additions)
	assert.Equal(t, 0, changes[0].Deletions)
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"), "trailing newline adds no phantom line")
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{""}, splitLines("\n"), "a lone newline is one empty line")
}
