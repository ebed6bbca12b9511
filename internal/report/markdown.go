package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/jsonlscan/internal/model"
)

// maxChartSlices bounds the pie chart; the remaining combinations are
// folded into an "other" slice.
const maxChartSlices = 8

// MarkdownWriter outputs the report as GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the summary as Markdown.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeAlert(md, summary)
	w.writeKeys(md, summary)
	w.writeMissing(md, summary)
	w.writeCombinations(md, summary)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("JSONL Analysis: " + summary.Source)
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + summary.Source + "`"},
		{"Rows processed", w.number(summary.RowsSeen)},
		{"Rows analyzed", w.number(summary.RowsParsed)},
		{"Lines failed", w.number(summary.FailedLines)},
		{"Unique keys", w.number(summary.UniqueKeyCount())},
		{"Distinct key combinations", w.number(summary.DistinctCombinations)},
	}
	if summary.SchemaFingerprint != "" {
		rows = append(rows, []string{"Schema fingerprint", "`" + summary.SchemaFingerprint + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.HasFailures():
		md.Warningf(
			"%s line(s) failed to parse and were excluded from the analysis.",
			w.number(summary.FailedLines),
		)
	case summary.HasMissingKeyRows():
		md.Note(fmt.Sprintf(
			"%s row(s) are missing at least one key.",
			w.number(len(summary.MissingKeyRows)),
		))
	case summary.RowsParsed > 0:
		md.Tip("Every row has the same set of keys.")
	default:
		md.Note("The input contains no rows.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeKeys(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Keys")
	md.PlainText("")

	if len(summary.KeyCounts) == 0 {
		md.PlainText("No keys found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.KeyCounts))
	for i, kc := range summary.KeyCounts {
		rows[i] = []string{codeCell(kc.Key), w.number(kc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Key", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeMissing(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Rows With Missing Keys")
	md.PlainText("")

	if !summary.HasMissingKeyRows() {
		md.PlainText("None.")
		md.PlainText("")
		return
	}

	md.PlainText(rowList(summary.MissingKeyRows))
	md.PlainText("")
}

func (w *MarkdownWriter) writeCombinations(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Key Combinations")
	md.PlainText("")

	if len(summary.TopCombinations) == 0 {
		md.PlainText("No key combinations found.")
		md.PlainText("")
		return
	}

	md.PlainText(combinationsTitle(summary) + ":")
	md.PlainText("")

	rows := make([][]string, len(summary.TopCombinations))
	for i, c := range summary.TopCombinations {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			codeCell(c.Keys.String()),
			w.number(c.Count),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Keys", "Occurrences"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, summary)
}

// writePieChart charts how the analyzed rows split across the listed
// combinations.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Rows per Key Combination"),
		piechart.WithShowData(true),
	)

	shown := 0
	for i, c := range summary.TopCombinations {
		if i == maxChartSlices {
			break
		}
		chart.LabelAndIntValue(chartLabel(c.Keys), uint64(c.Count))
		shown += c.Count
	}
	if other := summary.RowsParsed - shown; other > 0 {
		chart.LabelAndIntValue("other", uint64(other))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// chartLabel renders keys without characters that break mermaid labels.
func chartLabel(keys model.KeySet) string {
	label := strings.Join(keys, ", ")
	if label == "" {
		label = "(no keys)"
	}
	return strings.NewReplacer(`"`, "'", "\n", " ").Replace(label)
}

// codeCell renders s as an inline code span that is safe inside a table
// cell. The fence is one backtick longer than any backtick run in s.
func codeCell(s string) string {
	if s == "" {
		return `""`
	}

	s = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ").Replace(s)

	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)

	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}
