package export

import (
	"io"

	"github.com/wzrazsh/dialogue-recorder/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports a session in YAML format
type YAMLExporter struct{}

// Export exports a session to YAML format
func (e *YAMLExporter) Export(detail *internal.SessionDetail, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(detail)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
