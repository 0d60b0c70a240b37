package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage kvview configuration.

Global config: ~/.config/kvview/config.toml
Local config:  .kvview.toml (in the current directory)`,
		Example: `  kvview config init          # Create default global config
  kvview config init --local  # Create local project config
  kvview config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates global config at ~/.config/kvview/config.toml.
With --local, creates .kvview.toml in the current directory.`,
		Example: `  kvview config init           # Create global config
  kvview config init --local   # Create local config
  kvview config init -f        # Overwrite existing config
  kvview config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if stdout {
				if local {
					out.Print(config.DefaultLocalConfig())
				} else {
					out.Print(config.DefaultConfig())
				}
				return nil
			}

			var (
				path string
				err  error
			)
			if local {
				path, err = config.InitLocal(workDir, force)
			} else {
				path, err = config.Init(force)
			}
			if err != nil {
				return err
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create .kvview.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show the effective configuration: the global config merged with
.kvview.toml and environment overrides.`,
		Example: `  kvview config show
  kvview config show --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if jsonOutput {
				return out.JSON(cfg)
			}

			path, _ := config.Path()
			out.Printf("# Global config: %s\n", path)
			out.Printf("# Local config:  %s\n", config.LocalConfigFileName)
			out.Printf("# Wrangler:      %s %s\n\n", cfg.Wrangler, strings.Join(cfg.Subcommand, " "))

			if err := toml.NewEncoder(out.Writer()).Encode(cfg); err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
