package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/output"
	"github.com/raphi011/kvview/internal/ui/static"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newQueriesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "queries",
		Short:   "List saved queries",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `List the saved queries from the global and local config.

Select one with -Q/--query on any key command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			queries := config.FromContext(ctx).Queries()

			if jsonOutput {
				type jsonQuery struct {
					Title     string `json:"title"`
					Namespace string `json:"namespace"`
					Prefix    string `json:"prefix"`
				}
				items := make([]jsonQuery, len(queries))
				for i, q := range queries {
					items[i] = jsonQuery{Title: q.Title, Namespace: q.Namespace.String(), Prefix: q.Prefix}
				}
				return out.JSON(items)
			}

			if len(queries) == 0 {
				out.Println(styles.MutedStyle.Render("No saved queries. Add [[queries]] to the config (kvview config init)."))
				return nil
			}
			rows := make([][]string, len(queries))
			for i, q := range queries {
				rows[i] = static.QueryTableRow(q)
			}
			out.Print(static.RenderTable(static.QueryHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
