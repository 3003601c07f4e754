package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/wzrazsh/dialogue-recorder/internal"
)

// JSONLExporter exports a session in JSONL format (one record per line)
type JSONLExporter struct{}

// Export writes each record of the session as a single JSON line
func (e *JSONLExporter) Export(detail *internal.SessionDetail, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, rec := range detail.Records {
		obj := map[string]interface{}{
			"id":        rec.ID,
			"sessionId": rec.SessionID,
			"timestamp": rec.Timestamp.Format(time.RFC3339),
			"role":      rec.Role,
			"kind":      rec.Kind,
			"text":      rec.Text,
		}
		if rec.Detail != nil {
			obj["detail"] = rec.Detail
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
