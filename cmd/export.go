package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wzrazsh/dialogue-recorder/internal"
	"github.com/wzrazsh/dialogue-recorder/internal/export"
)

var (
	exportFormat    string
	exportOutputDir string
	exportSessionID string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to file",
	Long: `Export recorded sessions to various formats (jsonl, md, yaml, json).

You can export all sessions or a specific session by id.
Use 'dialogue-recorder list' to see available session ids.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		store, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		aggregator := internal.NewAggregator(store)
		ctx := cmd.Context()

		var ids []string
		if exportSessionID != "" {
			ids = []string{exportSessionID}
		} else {
			ids, err = aggregator.ListSessions(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println("No sessions to export.")
				return nil
			}
		}

		if err := os.MkdirAll(exportOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		exported := 0
		for _, id := range ids {
			detail, err := aggregator.SessionDetail(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", id, err)
			}

			outPath := filepath.Join(exportOutputDir, fmt.Sprintf("%s.%s", id, exporter.Extension()))
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := exporter.Export(detail, f); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to export session %s: %w", id, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			internal.LogInfo("Exported session %s to %s", id, outPath)
			exported++
		}

		fmt.Printf("Exported %d session(s) to %s\n", exported, exportOutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().StringVar(&exportSessionID, "session", "", "Export only this session id")
}
