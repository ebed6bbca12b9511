package report

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/jsonlscan/internal/model"
)

// YAMLWriter outputs the Summary as YAML.
type YAMLWriter struct {
	baseWriter
}

// NewYAMLWriter creates a YAMLWriter that outputs to the given writer.
func NewYAMLWriter(output io.Writer) *YAMLWriter {
	return &YAMLWriter{baseWriter: newBaseWriter(output)}
}

// Write encodes the summary with two-space indentation.
func (w *YAMLWriter) Write(summary *model.Summary) (int, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
