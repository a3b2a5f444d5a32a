package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iksnae/smartnotes/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	apiURL     string
	dataDir    string
	logLevel   string
	timeout    time.Duration
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smartnotes",
	Short: "Browse and manage Smart Notes from the terminal",
	Long: `A terminal client for Smart Notes.

Notes live in notebooks and notebooks live in folders. Everything is stored by
the Smart Notes Data Provider; this client keeps only your refresh credential,
in a local SQLite file, so the next run starts already logged in.

Features:
  • Log in once, stay logged in across runs
  • Browse folders, notebooks and notes in a three-column view
  • Fuzzy-find any note by title or content
  • Create, edit and delete folders, notebooks and notes
  • Export notebooks (JSONL, Markdown, YAML, JSON)

Quick Start:
  smartnotes login --email you@example.com   # Log in
  smartnotes browse                          # Open the browser
  smartnotes export <notebook-id> -f md      # Export a notebook as Markdown`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		internal.PrintError(fmt.Sprintf("Error: %v", err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <config dir>/smartnotes/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Data Provider base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for the credential database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (overrides config)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
