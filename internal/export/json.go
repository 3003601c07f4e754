package export

import (
	"encoding/json"
	"io"

	"github.com/wzrazsh/dialogue-recorder/internal"
)

// JSONExporter exports a session in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a session to JSON format
func (e *JSONExporter) Export(detail *internal.SessionDetail, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(detail)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
