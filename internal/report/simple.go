package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nao1215/jsonlscan/internal/model"
)

// ruleWidth is the width of the separator lines.
const ruleWidth = 60

// SimpleWriter outputs the human-readable text report.
// The output contains no colors or timestamps, so the same input always
// renders byte-identically.
type SimpleWriter struct {
	baseWriter

	// verbose adds the full failure sample to the header.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists each sampled failure with its reason.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the summary as text.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeKeys(&sb, summary)
	w.writeMissing(&sb, summary)
	w.writeCombinations(&sb, summary)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "JSONL analysis of %s\n", summary.Source)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Rows processed: %s\n", w.number(summary.RowsSeen))
	fmt.Fprintf(sb, "Rows analyzed:  %s\n", w.number(summary.RowsParsed))

	if summary.HasFailures() {
		fmt.Fprintf(sb, "Lines failed:   %s", w.number(summary.FailedLines))
		if len(summary.Failures) > 0 {
			fmt.Fprintf(sb, " (lines %s", strings.Trim(rowList(failureLines(summary.Failures)), "[]"))
			if len(summary.Failures) < summary.FailedLines {
				sb.WriteString(", ...")
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")

		if w.verbose {
			for _, f := range summary.Failures {
				fmt.Fprintf(sb, "  line %d (row %d): %s\n", f.Line, f.Row, f.Message)
			}
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeKeys(sb *strings.Builder, summary *model.Summary) {
	w.writeSection(sb, "KEYS")

	fmt.Fprintf(sb, "Found %s unique JSON keys in file %s\n",
		w.number(summary.UniqueKeyCount()), summary.Source)

	if len(summary.KeyCounts) == 0 {
		sb.WriteString("\n")
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Count"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	for _, kc := range summary.KeyCounts {
		t.AppendRow(table.Row{kc.Key, w.number(kc.Count)})
	}

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeMissing(sb *strings.Builder, summary *model.Summary) {
	w.writeSection(sb, "MISSING KEYS")

	if !summary.HasMissingKeyRows() {
		sb.WriteString("Rows with missing keys: none\n\n")
		return
	}
	fmt.Fprintf(sb, "Rows with missing keys: %s\n\n", rowList(summary.MissingKeyRows))
}

func (w *SimpleWriter) writeCombinations(sb *strings.Builder, summary *model.Summary) {
	w.writeSection(sb, "KEY COMBINATIONS")

	if len(summary.TopCombinations) == 0 {
		sb.WriteString("No key combinations found.\n")
		return
	}

	fmt.Fprintf(sb, "%s:\n", combinationsTitle(summary))
	for i, c := range summary.TopCombinations {
		fmt.Fprintf(sb, "%d. %s - %s\n", i+1, c.Keys.String(), w.occurrences(c.Count))
	}
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
}
