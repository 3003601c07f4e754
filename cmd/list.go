package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	roleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	Long:  `List all recorded sessions with record counts, time span and observed roles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		aggregator := internal.NewAggregator(store)
		summaries, err := aggregator.SessionSummaries(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load session summaries: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println(dateStyle.Render("No sessions recorded yet. Try: dialogue-recorder listen"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Sessions (%d)", len(summaries))))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tRECORDS\tLAST ACTIVITY\tROLES")
		for _, s := range summaries {
			roles := make([]string, 0, len(s.Roles))
			for _, r := range s.Roles {
				roles = append(roles, string(r))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				idStyle.Render(s.SessionID),
				countStyle.Render(fmt.Sprintf("%d", s.RecordCount)),
				dateStyle.Render(s.LastTimestamp.Format(time.RFC3339)),
				roleStyle.Render(strings.Join(roles, ", ")))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
