package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mimic/internal/consistency"
	"github.com/roach88/mimic/internal/fixture"
	"github.com/roach88/mimic/internal/query"
	"github.com/roach88/mimic/internal/record"
	"github.com/roach88/mimic/internal/store"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Kind    string
	Sort    string
	Order   string
	Page    int
	PerPage int
}

// searchReport is the JSON shape of a search result page.
type searchReport struct {
	TotalCount int   `json:"total_count"`
	Items      []any `json:"items"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search repositories, issues, or code in a dataset",
		Long: `Search a dataset with qualifier syntax.

The query combines plain terms (whole-word matched) with key:value
qualifiers, e.g. 'language:go stars:>=100' or 'is:pr state:open'.
The dataset is repaired before searching so derived state like the
code search index is current.

Examples:
  mimic search --data ./data.yaml 'web language:go stars:>100'
  mimic search --data ./data.yaml --kind issues 'is:pr state:open' --sort created
  mimic search --data ./data.yaml --kind code 'extension:py repo:acme/tools'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "repos", "what to search (repos|issues|code)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort key (empty for best match)")
	cmd.Flags().StringVar(&opts.Order, "order", "desc", "sort order (asc|desc)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", query.DefaultPerPage, "results per page")

	return cmd
}

func runSearch(opts *SearchOptions, cmd *cobra.Command, raw string) error {
	s, err := fixture.LoadStore(opts.Data)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}
	consistency.NewRepairer(s).Repair()

	items, searchOpts, err := searchTarget(s, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid search", err)
	}

	result, err := query.Search(items, raw, searchOpts)
	if err != nil {
		return WrapExitError(ExitFailure, "search failed", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		report := searchReport{TotalCount: result.TotalCount, Items: make([]any, 0, len(result.Items))}
		for _, item := range result.Items {
			report.Items = append(report.Items, record.ToAny(item))
		}
		return out.JSON(report)
	}

	out.Textf("%d result(s)", result.TotalCount)
	for _, item := range result.Items {
		out.Textf("  %s", summarize(opts.Kind, item))
	}
	return nil
}

// searchTarget resolves the item collection and per-kind search options.
func searchTarget(s *store.Store, opts *SearchOptions) ([]record.Object, query.Options, error) {
	base := query.Options{
		Sort:    opts.Sort,
		Order:   opts.Order,
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}

	switch opts.Kind {
	case "repos":
		base.TextFields = []string{"name", "full_name", "description"}
		base.Evaluators = query.RepositoryEvaluators()
		base.SortKeys = query.RepositorySortKeys()
		base.StrictSort = true
		return s.Table(store.TableRepositories).Records(), base, nil
	case "issues":
		base.TextFields = []string{"title", "body"}
		base.Evaluators = query.IssueEvaluators()
		base.SortKeys = query.IssueSortKeys()
		return issueSearchItems(s), base, nil
	case "code":
		base.TextFields = []string{"name", "path"}
		base.Evaluators = query.CodeEvaluators()
		base.SortKeys = map[string]query.SortKey{}
		return s.Table(store.TableSearchIndex).Records(), base, nil
	default:
		return nil, query.Options{}, fmt.Errorf("unknown kind %q: must be repos, issues, or code", opts.Kind)
	}
}

// issueSearchItems merges issues and pull requests into one searchable
// set. Each item is marked is_pr so the shared qualifier table can tell
// them apart, and repo_full_name is filled in where the row itself does
// not carry it: issues resolve it through repository_id, pull requests
// through their head repository.
func issueSearchItems(s *store.Store) []record.Object {
	repos := s.Table(store.TableRepositories)

	var items []record.Object
	for _, issue := range s.Table(store.TableIssues).Records() {
		item := issue.Clone()
		item["is_pr"] = record.Bool(false)
		if _, ok := item.GetString("repo_full_name"); !ok {
			if repoID, ok := item.GetInt("repository_id"); ok {
				if repo, found := repos.FindByID(record.Int(repoID)); found {
					if fullName, ok := repo.GetString("full_name"); ok {
						item["repo_full_name"] = record.String(fullName)
					}
				}
			}
		}
		items = append(items, item)
	}

	for _, pr := range s.Table(store.TablePullRequests).Records() {
		item := pr.Clone()
		item["is_pr"] = record.Bool(true)
		if _, ok := item.GetString("repo_full_name"); !ok {
			if fullName, ok := item.StringAt("head", "repo", "full_name"); ok {
				item["repo_full_name"] = record.String(fullName)
			}
		}
		items = append(items, item)
	}
	return items
}

func summarize(kind string, item record.Object) string {
	switch kind {
	case "issues":
		number, _ := item.GetInt("number")
		title, _ := item.GetString("title")
		state, _ := item.GetString("state")
		return fmt.Sprintf("#%d [%s] %s", number, state, title)
	case "code":
		path, _ := item.GetString("path")
		repo, _ := item.StringAt("repository", "full_name")
		return fmt.Sprintf("%s: %s", repo, path)
	default:
		fullName, _ := item.GetString("full_name")
		stars, _ := item.GetInt("stargazers_count")
		return fmt.Sprintf("%s (%d stars)", fullName, stars)
	}
}
