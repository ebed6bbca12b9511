package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/jsonlscan/internal/model"
)

// Writer renders a Summary to its destination.
type Writer interface {
	// Write renders the summary and returns the number of bytes written.
	Write(summary *model.Summary) (int, error)
}

// Format names a report format.
type Format string

const (
	// FormatText is the plain-text report.
	FormatText Format = "text"
	// FormatMarkdown is the Markdown report.
	FormatMarkdown Format = "markdown"
	// FormatJSON is the Summary as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is the Summary as YAML.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON, FormatYAML}
}

// ParseFormat converts a name into a Format. Matching ignores case; "md"
// is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// NewWriter returns the Writer for format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	f, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatYAML:
		return NewYAMLWriter(output), nil
	default:
		return NewSimpleWriter(output), nil
	}
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the summary with every Writer.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output  io.Writer
	printer *message.Printer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{
		output:  output,
		printer: message.NewPrinter(language.English),
	}
}

// number formats n with English thousands separators.
func (b baseWriter) number(n int) string {
	return b.printer.Sprintf("%d", n)
}

// occurrences returns "1 occurrence" or "N occurrences".
func (b baseWriter) occurrences(n int) string {
	if n == 1 {
		return b.number(n) + " occurrence"
	}
	return b.number(n) + " occurrences"
}

// rowList renders row indices as "[0, 2]".
func rowList(rows []int) string {
	parts := make([]string, len(rows))
	for i, row := range rows {
		parts[i] = fmt.Sprint(row)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// failureLines lists the physical line numbers of sampled failures.
func failureLines(failures []model.LineFailure) []int {
	lines := make([]int, len(failures))
	for i, f := range failures {
		lines[i] = f.Line
	}
	return lines
}

// combinationsTitle is the heading above the ranked combinations.
func combinationsTitle(summary *model.Summary) string {
	if summary.TopN <= 0 {
		return "All key combinations by frequency"
	}
	return fmt.Sprintf("Top %d most frequent key combinations", summary.TopN)
}
