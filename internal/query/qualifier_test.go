package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/testutil"
)

func testRepo(opts ...func(record.Object)) record.Object {
	repo := testutil.Repository(1, "acme/tools", 7, "octocat")
	repo["language"] = record.String("Go")
	repo["stargazers_count"] = record.Int(120)
	repo["created_at"] = record.String("2023-06-01T10:00:00.000000Z")
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func TestRepositoryQualifiers(t *testing.T) {
	evals := RepositoryEvaluators()

	tests := []struct {
		name       string
		qualifiers map[string]string
		want       bool
	}{
		{"public repo", map[string]string{"is": "public"}, true},
		{"private filter excludes public", map[string]string{"is": "private"}, false},
		{"language match is caseless", map[string]string{"language": "go"}, true},
		{"language mismatch", map[string]string{"language": "rust"}, false},
		{"user matches owner", map[string]string{"user": "OctoCat"}, true},
		{"org matches owner too", map[string]string{"org": "octocat"}, true},
		{"stars range", map[string]string{"stars": ">100"}, true},
		{"stars range excludes", map[string]string{"stars": ">1000"}, false},
		{"created range", map[string]string{"created": "2023-01-01..2023-12-31"}, true},
		{"all must hold", map[string]string{"language": "go", "stars": ">1000"}, false},
		{"unknown key constrains nothing", map[string]string{"flavor": "mint"}, true},
		{"fork false matches non-fork", map[string]string{"fork": "false"}, true},
		{"fork only excludes non-fork", map[string]string{"fork": "only"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(testRepo(), tt.qualifiers, evals))
		})
	}
}

func TestIssueQualifiers(t *testing.T) {
	evals := IssueEvaluators()
	issue := testutil.Issue(1, 17, "acme/tools", "Crash on start", "open")
	issue["user"] = record.Object{"login": record.String("mona")}
	issue["labels"] = record.Array{
		record.Object{"name": record.String("bug")},
		record.Object{"name": record.String("Needs Triage")},
	}
	issue["comments"] = record.Int(5)

	tests := []struct {
		name       string
		qualifiers map[string]string
		want       bool
	}{
		{"is issue", map[string]string{"is": "issue"}, true},
		{"is pr excludes issue", map[string]string{"is": "pr"}, false},
		{"state", map[string]string{"state": "open"}, true},
		{"repo", map[string]string{"repo": "acme/tools"}, true},
		{"author", map[string]string{"author": "mona"}, true},
		{"author mismatch", map[string]string{"author": "ghost"}, false},
		{"label caseless", map[string]string{"label": "needs triage"}, true},
		{"label absent", map[string]string{"label": "wontfix"}, false},
		{"comments range", map[string]string{"comments": ">=5"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(issue, tt.qualifiers, evals))
		})
	}
}

func TestIssueQualifiersPullRequest(t *testing.T) {
	evals := IssueEvaluators()
	pr := testutil.Issue(2, 18, "acme/tools", "Add feature", "open")
	pr["is_pr"] = record.Bool(true)

	assert.True(t, Matches(pr, map[string]string{"is": "pr"}, evals))
	assert.False(t, Matches(pr, map[string]string{"is": "issue"}, evals))
}

func TestCodeQualifiers(t *testing.T) {
	evals := CodeEvaluators()
	entry := record.Object{
		"name": record.String("views.py"),
		"path": record.String("src/app/views.py"),
		"repository": record.Object{
			"id":        record.Int(1),
			"full_name": record.String("acme/tools"),
			"owner":     record.Object{"login": record.String("octocat")},
			"private":   record.Bool(false),
			"fork":      record.Bool(false),
		},
	}

	tests := []struct {
		name       string
		qualifiers map[string]string
		want       bool
	}{
		{"repo", map[string]string{"repo": "acme/tools"}, true},
		{"repo mismatch", map[string]string{"repo": "acme/other"}, false},
		{"path substring", map[string]string{"path": "src/app"}, true},
		{"extension", map[string]string{"extension": "py"}, true},
		{"extension mismatch", map[string]string{"extension": "go"}, false},
		{"language via extension", map[string]string{"language": "python"}, true},
		{"unknown language", map[string]string{"language": "cobol"}, false},
		{"user via nested repo", map[string]string{"user": "octocat"}, true},
		{"is public via nested repo", map[string]string{"is": "public"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(entry, tt.qualifiers, evals))
		})
	}
}
