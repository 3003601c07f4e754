package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if dialogue-recorder can locate and access its record store",
	Long: `Check the health of dialogue-recorder by verifying:
  • Database path detection
  • Database accessibility
  • Record and session counts

This command is useful for debugging storage issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Dialogue Recorder Health Check"))
		fmt.Println()

		// Step 1: Resolve database path
		fmt.Println(infoStyle.Render("Step 1: Resolving database path..."))
		path, err := internal.DefaultDBPath(dbPath)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to resolve database path:"), err)
			return err
		}
		fmt.Println(successStyle.Render("✅ Database path resolved"))
		fmt.Printf("   %s\n", path)
		if !internal.DBExists(path) {
			fmt.Println(warningStyle.Render("⚠️  Database file does not exist yet (it is created on first record)"))
		}
		fmt.Println()

		// Step 2: Open the store
		fmt.Println(infoStyle.Render("Step 2: Opening record store..."))
		store := internal.NewStore(path)
		defer func() { _ = store.Close() }()

		count, err := store.Count(cmd.Context())
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Store is not accessible:"), err)
			return err
		}
		fmt.Println(successStyle.Render("✅ Store is accessible"))
		fmt.Println()

		// Step 3: Counts
		fmt.Println(infoStyle.Render("Step 3: Counting records..."))
		ids, err := store.SessionIDs(cmd.Context())
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to list sessions:"), err)
			return err
		}
		fmt.Println(successStyle.Render(
			fmt.Sprintf("✅ %d record(s) across %d session(s)", count, len(ids))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
