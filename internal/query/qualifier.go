package query

import (
	"strings"

	"github.com/roach88/mimic/internal/record"
)

// Evaluator decides whether an item satisfies one qualifier value.
type Evaluator func(item record.Object, value string) bool

// Evaluators maps qualifier keys to their per-key logic. Each search
// endpoint supplies its own table; the composition rule is shared: an
// item must satisfy every qualifier present in the query (AND), and a
// key with no evaluator constrains nothing.
type Evaluators map[string]Evaluator

// Matches reports whether the item satisfies all qualifiers under the
// given evaluator table.
func Matches(item record.Object, qualifiers map[string]string, evaluators Evaluators) bool {
	for key, value := range qualifiers {
		eval, ok := evaluators[key]
		if !ok {
			continue
		}
		if !eval(item, value) {
			return false
		}
	}
	return true
}

// RepositoryEvaluators returns the qualifier table for repository search.
func RepositoryEvaluators() Evaluators {
	return Evaluators{
		"is": func(item record.Object, value string) bool {
			private, _ := item.GetBool("private")
			switch value {
			case "public":
				return !private
			case "private":
				return private
			case "archived":
				b, _ := item.GetBool("archived")
				return b
			case "template":
				b, _ := item.GetBool("is_template")
				return b
			default:
				return false
			}
		},
		"fork": func(item record.Object, value string) bool {
			fork, _ := item.GetBool("fork")
			switch value {
			case "true", "only":
				return fork
			case "false":
				return !fork
			default:
				// fork with any other value includes forks
				return true
			}
		},
		"user":     ownerLoginEquals,
		"org":      ownerLoginEquals,
		"language": stringFieldEquals("language"),
		"stars":    numberRange("stargazers_count"),
		"forks":    numberRange("forks_count"),
		"watchers": numberRange("watchers_count"),
		"size":     numberRange("size"),
		"created":  dateRange("created_at"),
		"pushed":   dateRange("pushed_at"),
		"updated":  dateRange("updated_at"),
	}
}

// IssueEvaluators returns the qualifier table for issue and pull request
// search. Items carry an is_pr marker so one table serves both kinds.
func IssueEvaluators() Evaluators {
	return Evaluators{
		"is": func(item record.Object, value string) bool {
			isPR, _ := item.GetBool("is_pr")
			switch strings.ToLower(value) {
			case "pr":
				return isPR
			case "issue":
				return !isPR
			default:
				return true
			}
		},
		"repo":     stringFieldEquals("repo_full_name"),
		"state":    stringFieldEquals("state"),
		"author":   pathLoginEquals("user"),
		"assignee": pathLoginEquals("assignee"),
		"label": func(item record.Object, value string) bool {
			labels, _ := item.GetArray("labels")
			for _, l := range labels {
				label, ok := l.(record.Object)
				if !ok {
					continue
				}
				if name, ok := label.GetString("name"); ok && strings.EqualFold(name, value) {
					return true
				}
			}
			return false
		},
		"comments": numberRange("comments"),
		"created":  dateRange("created_at"),
		"updated":  dateRange("updated_at"),
	}
}

// CodeEvaluators returns the qualifier table for code search results.
// Results are denormalized index entries carrying a nested repository.
func CodeEvaluators() Evaluators {
	repoQuals := RepositoryEvaluators()
	viaRepository := func(key string) Evaluator {
		return func(item record.Object, value string) bool {
			repo, ok := item.GetObject("repository")
			if !ok {
				return false
			}
			return repoQuals[key](repo, value)
		}
	}

	return Evaluators{
		"is":   viaRepository("is"),
		"fork": viaRepository("fork"),
		"user": viaRepository("user"),
		"org":  viaRepository("org"),
		"repo": func(item record.Object, value string) bool {
			fullName, ok := item.StringAt("repository", "full_name")
			return ok && strings.EqualFold(fullName, value)
		},
		"path": func(item record.Object, value string) bool {
			p, ok := item.GetString("path")
			return ok && strings.Contains(strings.ToLower(p), strings.ToLower(value))
		},
		"extension": func(item record.Object, value string) bool {
			p, ok := item.GetString("path")
			return ok && strings.HasSuffix(strings.ToLower(p), "."+strings.ToLower(value))
		},
		"language": func(item record.Object, value string) bool {
			// Simplified: file extension stands in for language detection.
			ext, ok := languageExtensions[strings.ToLower(value)]
			if !ok {
				return false
			}
			p, _ := item.GetString("path")
			return strings.HasSuffix(strings.ToLower(p), ext)
		},
	}
}

// languageExtensions maps language qualifier values to file extensions
// for code search.
var languageExtensions = map[string]string{
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"go":         ".go",
	"html":       ".html",
	"css":        ".css",
}

// ownerLoginEquals matches the nested owner login case-insensitively.
func ownerLoginEquals(item record.Object, value string) bool {
	login, ok := item.StringAt("owner", "login")
	return ok && strings.EqualFold(login, value)
}

// pathLoginEquals matches the login of a nested user sub-document.
func pathLoginEquals(field string) Evaluator {
	return func(item record.Object, value string) bool {
		login, ok := item.StringAt(field, "login")
		return ok && strings.EqualFold(login, value)
	}
}

// stringFieldEquals matches a top-level string field case-insensitively.
func stringFieldEquals(field string) Evaluator {
	return func(item record.Object, value string) bool {
		s, ok := item.GetString(field)
		return ok && strings.EqualFold(s, value)
	}
}

// numberRange builds an evaluator applying the shared range grammar to a
// numeric field. Items without the field never match.
func numberRange(field string) Evaluator {
	return func(item record.Object, value string) bool {
		n, ok := item.GetNumber(field)
		if !ok {
			return false
		}
		return matchNumberRange(n, value)
	}
}

// dateRange builds an evaluator applying the shared range grammar to an
// ISO-8601 string field. Items without the field never match.
func dateRange(field string) Evaluator {
	return func(item record.Object, value string) bool {
		s, ok := item.GetString(field)
		if !ok {
			return false
		}
		return matchDateRange(s, value)
	}
}
