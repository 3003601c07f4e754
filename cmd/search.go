package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
)

var (
	searchKeyword string
	searchFrom    string
	searchTo      string
	searchRole    string
	searchKind    string
	searchExt     string
	searchLimit   int
)

var (
	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	excerptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	resultMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search records with relevance ranking",
	Long: `Search stored records by keyword, time window, role, kind and file
extension. All filters combine conjunctively. Results are ordered by
relevance; with no keyword, every match scores the neutral 0.5.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := buildQuery()
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		ranker := internal.NewRanker(store)
		results, err := ranker.Search(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			fmt.Println(resultMetaStyle.Render("No matching records."))
			return nil
		}

		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Results (%d)", len(results))))
		fmt.Println()
		for i, res := range results {
			rec := res.Record
			fmt.Printf("%d. %s %s %s\n",
				i+1,
				scoreStyle.Render(fmt.Sprintf("%.2f", res.Relevance)),
				roleLabelStyle(rec.Role).Render(string(rec.Role)),
				resultMetaStyle.Render(fmt.Sprintf("%s session=%s", rec.Timestamp.Format(time.RFC3339), rec.SessionID)))
			fmt.Println(recordContentStyle.Render(rec.Text))
			for _, excerpt := range res.Excerpts {
				fmt.Printf("   %s\n", excerptStyle.Render("…"+excerpt+"…"))
			}
		}
		return nil
	},
}

// buildQuery converts command flags into a structured query, rejecting
// malformed bounds instead of silently dropping them.
func buildQuery() (internal.Query, error) {
	q := internal.Query{
		Keyword:       searchKeyword,
		FileExtension: searchExt,
	}

	if searchFrom != "" {
		t, err := parseTimeFlag(searchFrom)
		if err != nil {
			return internal.Query{}, fmt.Errorf("invalid --from: %w", err)
		}
		q.Start = &t
	}
	if searchTo != "" {
		t, err := parseTimeFlag(searchTo)
		if err != nil {
			return internal.Query{}, fmt.Errorf("invalid --to: %w", err)
		}
		q.End = &t
	}
	if searchRole != "" {
		role, err := internal.ParseRole(strings.ToUpper(searchRole))
		if err != nil {
			return internal.Query{}, err
		}
		q.Role = &role
	}
	if searchKind != "" {
		kind, err := internal.ParseKind(strings.ToUpper(searchKind))
		if err != nil {
			return internal.Query{}, err
		}
		q.Kind = &kind
	}
	return q, nil
}

func parseTimeFlag(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (use RFC3339 or YYYY-MM-DD)", value)
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchKeyword, "keyword", "k", "", "Keyword to search for (case-insensitive substring)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Inclusive lower time bound")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Inclusive upper time bound")
	searchCmd.Flags().StringVar(&searchRole, "role", "", "Filter by role (USER, AGENT_BUILDER, AGENT_CHAT)")
	searchCmd.Flags().StringVar(&searchKind, "kind", "", "Filter by kind (DIALOGUE, FILE_CHANGE, UNDO, REDO)")
	searchCmd.Flags().StringVar(&searchExt, "ext", "", "Filter by file extension of the record's file path")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Show only the top N results (0 = all)")
}
