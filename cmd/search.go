package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleverdevil/nz/filter"
	"github.com/cleverdevil/nz/newznab"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		categories []string
		limit      int
		filterExpr string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search for content",
		Long: `Search the indexer and print the results as a table.

Categories are indexer category IDs as shown by "nz categories list". The
--filter expression is evaluated locally against every result, e.g.
  Size > 2 * GB and attrInt("grabs") >= 10`,
		Example: `  nz search ubuntu
  nz search --category 4000 --limit 20 "debian netinst"
  nz search --filter 'icontains(Title, "1080p") and age() < 7' big buck bunny`,
		PreRunE: a.initialize,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return usageErrorf("--limit must not be negative, got %d", limit)
			}

			var compiled filter.CompiledFilter
			if filterExpr != "" {
				var err error
				compiled, err = filter.CompileFilter(filterExpr)
				if err != nil {
					return &usageError{err: err}
				}
			}

			query := strings.Join(args, " ")
			items, err := a.client.Search(cmd.Context(), newznab.SearchOptions{
				Query:      query,
				Categories: categories,
				Limit:      limit,
			})
			if err != nil {
				return handled(cmd, err)
			}

			if compiled != nil {
				total := len(items)
				items, err = filter.Apply(compiled, items)
				if err != nil {
					return err
				}
				a.logger.Debug().
					Str("filter", compiled.Expression()).
					Int("total", total).
					Int("matched", len(items)).
					Msg("Applied filter")
			}

			out, err := a.formatter.FormatSearchResults(query, items)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&categories, "category", "c", nil, "category ID to search in (repeatable)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of results requested from the indexer")
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "expression results must match")

	return cmd
}
