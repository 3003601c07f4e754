package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
)

var (
	listenSession string
	listenFile    string
	listenName    string
)

var (
	listenInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	listenRecordStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	listenSummaryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("212")).
				Bold(true)
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Classify observed output lines into dialogue records",
	Long: `Read raw lines from stdin (or a file) and run each through the
classification pipeline, appending accepted records to the store.

A fresh session id is generated per run unless --session pins one.
Session start and stop lifecycle records bracket the run. Lines that
match noise keywords or fail the content gates are silently dropped;
store failures are logged and the line is skipped, never fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, path, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		internal.LogDebug("Using database at %s", path)

		sessionID := listenSession
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		var in io.Reader = cmd.InOrStdin()
		if listenFile != "" {
			f, err := os.Open(listenFile)
			if err != nil {
				return fmt.Errorf("failed to open input file: %w", err)
			}
			defer func() { _ = f.Close() }()
			in = f
		}

		classifier := internal.NewClassifier(store)
		ctx := cmd.Context()

		fmt.Println(listenInfoStyle.Render(fmt.Sprintf("Recording session %s", sessionID)))

		if _, err := classifier.ClassifyEvent(ctx, sessionID, internal.LifecycleEvent{
			Type: internal.EventSessionStart,
			Name: listenName,
		}); err != nil {
			internal.LogWarn("Failed to record session start: %v", err)
		}

		var seen, recorded int
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			seen++
			rec, err := classifier.ClassifyLine(ctx, sessionID, scanner.Text())
			if err != nil {
				// A lost line is acceptable; a crash is not.
				internal.LogWarn("Failed to persist record: %v", err)
				continue
			}
			if rec != nil {
				recorded++
				internal.LogDebug("Recorded %s as %s", rec.ID, rec.Role)
				if verbose {
					fmt.Println(listenRecordStyle.Render(fmt.Sprintf("  + [%s] %s", rec.Role, rec.Text)))
				}
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if _, err := classifier.ClassifyEvent(ctx, sessionID, internal.LifecycleEvent{
			Type: internal.EventSessionStop,
			Name: listenName,
		}); err != nil {
			internal.LogWarn("Failed to record session stop: %v", err)
		}

		fmt.Println(listenSummaryStyle.Render(
			fmt.Sprintf("Recorded %d of %d line(s) in session %s", recorded, seen, sessionID)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listenCmd)
	listenCmd.Flags().StringVar(&listenSession, "session", "", "Session id to record into (default: generate a new one)")
	listenCmd.Flags().StringVarP(&listenFile, "file", "f", "", "Read lines from a file instead of stdin")
	listenCmd.Flags().StringVar(&listenName, "name", "observed session", "Session name used in lifecycle records")
}
