package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/kvview/internal/config"
	"github.com/raphi011/kvview/internal/log"
	"github.com/raphi011/kvview/internal/output"
	"github.com/raphi011/kvview/internal/storage"
	"github.com/raphi011/kvview/internal/ui/styles"
)

var (
	// Global flags
	verbose     bool
	quiet       bool
	journalPath string

	// Shared state injected into commands
	workDir string
)

// Command group IDs for organizing help output
const (
	GroupKeys   = "keys"
	GroupBrowse = "browse"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kvview",
	Short: "Browse and edit Workers KV namespaces through wrangler",
	Long: `kvview lists, reads and edits Workers KV keys by driving the wrangler CLI.

Listings, metadata and values are cached so repeated reads do not spawn
wrangler again, and every write is reflected in the cached listings that
contain the key.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		ctx := cmd.Context()
		cfg := config.FromContext(ctx)

		logger := log.New(os.Stderr, verbose, quiet)
		ctx = log.WithLogger(ctx, logger)

		styles.Init(cfg.Theme.Name, cfg.Theme.Mode)

		w, err := openJournal(cfg)
		if err != nil {
			// The journal is diagnostic only; commands still work without it.
			logger.Printf("Warning: journal disabled: %v\n", err)
			w = io.Discard
		}
		ctx = log.WithJournal(ctx, log.NewJournal(w, nil))

		cmd.SetContext(ctx)
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// openJournal opens the journal sink: --journal wins over the config, "-"
// is stderr, and the default is ~/.kvview/wrangler.log.
func openJournal(cfg *config.Config) (io.Writer, error) {
	path := journalPath
	if path == "" {
		path = cfg.Journal
	}
	if path == "-" {
		return os.Stderr, nil
	}
	if path == "" {
		var err error
		if path, err = storage.DefaultJournalPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	// The file stays open for the life of the process.
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	var err error
	workDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kvview: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Resolve(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		def := config.Default()
		cfg = &def
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, cfg)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'kvview -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show wrangler commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Journal file for wrangler output (- for stderr)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupKeys, Title: "Key Commands:"},
		&cobra.Group{ID: GroupBrowse, Title: "Browse Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Key commands
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newPutCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newMetaCmd())
	rootCmd.AddCommand(newExpireCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newCopyCmd())

	// Browse commands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newShellCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	// Config commands
	rootCmd.AddCommand(newQueriesCmd())
	rootCmd.AddCommand(newNamespacesCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
