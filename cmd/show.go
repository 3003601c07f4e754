package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
)

var (
	showLimit int
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userRecordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 1)

	builderRecordStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	chatRecordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true).
			Padding(0, 1)

	recordContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show records for a specific session",
	Long:  `Display the full ordered record list of one recorded session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		aggregator := internal.NewAggregator(store)
		detail, err := aggregator.SessionDetail(cmd.Context(), sessionID)
		if err != nil {
			if errors.Is(err, internal.ErrSessionNotFound) {
				return fmt.Errorf("no session found with id %q", sessionID)
			}
			return fmt.Errorf("failed to load session: %w", err)
		}

		fmt.Println(sessionHeaderStyle.Render(fmt.Sprintf("Session %s", detail.SessionID)))
		fmt.Println(sessionMetaStyle.Render(
			fmt.Sprintf("%d record(s), duration %s", len(detail.Records), detail.Duration)))

		records := detail.Records
		if showLimit > 0 && len(records) > showLimit {
			fmt.Println(sessionMetaStyle.Render(
				fmt.Sprintf("(showing last %d of %d)", showLimit, len(records))))
			records = records[len(records)-showLimit:]
		}

		for _, rec := range records {
			fmt.Printf("%s %s\n",
				roleLabelStyle(rec.Role).Render(string(rec.Role)),
				timestampStyle.Render(rec.Timestamp.Format(time.RFC3339)))
			fmt.Println(recordContentStyle.Render(rec.Text))
		}
		return nil
	},
}

func roleLabelStyle(role internal.Role) lipgloss.Style {
	switch role {
	case internal.RoleUser:
		return userRecordStyle
	case internal.RoleAgentBuilder:
		return builderRecordStyle
	default:
		return chatRecordStyle
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "Show only the last N records (0 = all)")
}
