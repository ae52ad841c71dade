package testutil

import (
	"fmt"

	"github.com/roach88/mimic/internal/record"
)

// Builders for the record shapes tests use over and over. Each returns
// a fully valid object; tests that need a broken reference mutate or
// delete fields afterwards.

// User builds a user record with the given ID and login.
func User(id int64, login string) record.Object {
	return record.Object{
		"id":    record.Int(id),
		"login": record.String(login),
		"type":  record.String("User"),
	}
}

// Repository builds a repository record owned by the given login.
func Repository(id int64, fullName string, ownerID int64, ownerLogin string) record.Object {
	return record.Object{
		"id":        record.Int(id),
		"name":      record.String(nameOf(fullName)),
		"full_name": record.String(fullName),
		"owner": record.Object{
			"id":    record.Int(ownerID),
			"login": record.String(ownerLogin),
		},
		"private":          record.Bool(false),
		"fork":             record.Bool(false),
		"archived":         record.Bool(false),
		"stargazers_count": record.Int(0),
		"forks_count":      record.Int(0),
		"watchers_count":   record.Int(0),
		"updated_at":       record.String("2024-01-01T00:00:00.000000Z"),
	}
}

// Branch builds a branch record pointing at a commit SHA.
func Branch(name string, repositoryID int64, commitSHA string) record.Object {
	return record.Object{
		"name":          record.String(name),
		"repository_id": record.Int(repositoryID),
		"commit": record.Object{
			"sha": record.String(commitSHA),
		},
		"protected": record.Bool(false),
	}
}

// Commit builds a commit record authored by the given identity.
func Commit(sha string, repositoryID int64, authorName, authorEmail string) record.Object {
	return record.Object{
		"sha":           record.String(sha),
		"repository_id": record.Int(repositoryID),
		"message":       record.String("commit " + sha[:min(8, len(sha))]),
		"author": record.Object{
			"name":  record.String(authorName),
			"email": record.String(authorEmail),
			"date":  record.String("2024-01-01T00:00:00.000000Z"),
		},
		"parents": record.Array{},
	}
}

// Issue builds an issue record in the given repository.
func Issue(id, number int64, repoFullName, title, state string) record.Object {
	return record.Object{
		"id":             record.Int(id),
		"number":         record.Int(number),
		"repo_full_name": record.String(repoFullName),
		"title":          record.String(title),
		"state":          record.String(state),
		"is_pr":          record.Bool(false),
		"labels":         record.Array{},
		"comments":       record.Int(0),
		"created_at":     record.String("2024-01-01T00:00:00.000000Z"),
		"updated_at":     record.String("2024-01-01T00:00:00.000000Z"),
	}
}

// FileContent builds a content index entry for a text file.
func FileContent(path, sha, body string) record.Object {
	return record.Object{
		"type":    record.String("file"),
		"name":    record.String(nameOf(path)),
		"path":    record.String(path),
		"sha":     record.String(sha),
		"content": record.String(body),
	}
}

// BinaryContent builds a content index entry for a binary file, which
// carries a SHA but no text content.
func BinaryContent(path, sha string) record.Object {
	return record.Object{
		"type":    record.String("file"),
		"name":    record.String(nameOf(path)),
		"path":    record.String(path),
		"sha":     record.String(sha),
		"content": record.Null{},
	}
}

// ContentKey formats a content index key the way the store expects it.
func ContentKey(repositoryID int64, commitSHA, path string) string {
	return fmt.Sprintf("%d:%s:%s", repositoryID, commitSHA, path)
}

func nameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
