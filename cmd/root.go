package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dialogue-recorder",
	Short: "Record and search dialogue from observed development sessions",
	Long: `A CLI tool that records speaker-attributed dialogue from an observed
development session and makes it searchable.

Raw output lines are classified through a layered heuristic pipeline
(noise rejection, explicit role markers, implicit content inference,
validity gates) into USER / AGENT_BUILDER / AGENT_CHAT records, appended
to a local SQLite store grouped by session.

Quick Start:
  dialogue-recorder listen               # Classify lines from stdin
  dialogue-recorder list                 # List recorded sessions
  dialogue-recorder show <session-id>    # View one session
  dialogue-recorder search -k logger     # Ranked keyword search
  dialogue-recorder export --format md   # Export sessions as Markdown`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Custom database location (path to the records database file)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openStore resolves the database location and returns a store handle. The
// database itself is opened lazily on first use.
func openStore() (*internal.Store, string, error) {
	path, err := internal.DefaultDBPath(dbPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve database path: %w", err)
	}
	return internal.NewStore(path), path, nil
}
