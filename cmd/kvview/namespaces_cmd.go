package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/output"
	"github.com/raphi011/kvview/internal/ui/static"
	"github.com/raphi011/kvview/internal/ui/styles"
)

func newNamespacesCmd() *cobra.Command {
	var (
		dir        string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "namespaces",
		Short:   "List KV bindings of the worker in this directory",
		Aliases: []string{"ns"},
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `List the kv_namespaces declared in wrangler.toml or wrangler.json,
including those of [env.*] sections.`,
		Example: `  kvview namespaces
  kvview ns --dir ~/src/worker --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if dir == "" {
				dir = workDir
			}
			m, err := config.LoadManifest(dir)
			if err != nil {
				return err
			}
			if m == nil {
				out.Println(styles.MutedStyle.Render("No wrangler.toml or wrangler.json in " + dir))
				return nil
			}

			if jsonOutput {
				return out.JSON(m)
			}

			rows := make([][]string, len(m.Namespaces))
			for i, n := range m.Namespaces {
				env := n.Env
				if env == "" {
					env = "-"
				}
				rows[i] = []string{n.Binding, env, n.ID, n.PreviewID}
			}
			if m.Name != "" {
				out.Println(styles.Bold.Render(m.Name) + " " + styles.MutedStyle.Render(m.Path))
			}
			out.Print(static.RenderTable([]string{"BINDING", "ENV", "ID", "PREVIEW ID"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Worker directory (default: current directory)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
