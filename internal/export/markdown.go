package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wzrazsh/dialogue-recorder/internal"
)

// MarkdownExporter exports a session in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(detail *internal.SessionDetail, w io.Writer) error {
	// Header
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", detail.SessionID)
	_, _ = fmt.Fprintf(w, "**Records:** %d  \n", len(detail.Records))
	_, _ = fmt.Fprintf(w, "**Duration:** %s\n\n", detail.Duration)

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Records\n\n")

	for i, rec := range detail.Records {
		timestamp := rec.Timestamp.Format(time.RFC3339)
		label := string(rec.Role)
		if rec.Kind != internal.KindDialogue {
			label = fmt.Sprintf("%s / %s", rec.Role, rec.Kind)
		}

		content := escapeMarkdown(rec.Text)
		_, _ = fmt.Fprintf(w, "**%s:** (%s)\n\n%s\n\n", label, timestamp, content)

		if path := rec.FilePath(); path != "" {
			_, _ = fmt.Fprintf(w, "*File:* `%s`\n\n", path)
		}

		// Horizontal rule after each record (except the last one)
		if i < len(detail.Records)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
