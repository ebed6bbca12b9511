package pipeline

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/nao1215/jsonlscan/internal/analyzer"
	"github.com/nao1215/jsonlscan/internal/model"
	"github.com/nao1215/jsonlscan/internal/record"
	"github.com/nao1215/jsonlscan/internal/source"
)

// ErrRowNotFound is returned when the requested row index does not exist.
var ErrRowNotFound = errors.New("row not found")

// RowDetail describes one row in the context of the whole source.
type RowDetail struct {
	// Row is the zero-based row index.
	Row int

	// Line is the 1-based physical line number.
	Line int

	// Text is the raw line.
	Text string

	// Keys is the row's KeySet, empty when the line failed to parse.
	Keys model.KeySet

	// AllKeys is the union of keys over every row of the source.
	AllKeys model.KeySet

	// Missing lists the keys of AllKeys the row lacks.
	Missing model.KeySet

	// ParseErr is the parse failure, if any.
	ParseErr error
}

// Parsed reports whether the row decoded into a JSON object.
func (d *RowDetail) Parsed() bool {
	return d.ParseErr == nil
}

// Pretty returns the row's object as indented JSON with sorted keys.
// Numbers keep their original text.
func (d *RowDetail) Pretty() (string, error) {
	if !d.Parsed() {
		return "", d.ParseErr
	}

	var v any
	dec := json.NewDecoder(strings.NewReader(d.Text))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// InspectRow loads src and returns the detail of the row with index row.
// It runs the same load and aggregate steps as Analyze, so row numbers and
// missing keys match the analysis report.
func InspectRow(src source.Source, row int, compression source.Compression) (*RowDetail, error) {
	if row < 0 {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, row)
	}

	logger := slog.New(slog.DiscardHandler)
	p := New(WithLogger(logger))
	p.AddSteps(
		NewLoadStep(compression, logger),
		NewAggregateStep(0, logger),
	)

	run := NewRun(src)
	if err := p.Execute(run); err != nil {
		return nil, err
	}

	if row >= len(run.Rows) {
		return nil, fmt.Errorf("%w: %d (source has %d rows)", ErrRowNotFound, row, len(run.Rows))
	}

	line := run.Rows[row]
	detail := &RowDetail{
		Row:     row,
		Line:    line.Number,
		Text:    line.Text,
		AllKeys: run.Aggregator.AllKeys(),
	}

	if keys, ok := parsedKeys(run.Aggregator, row); ok {
		detail.Keys = keys
		detail.Missing = analyzer.MissingKeysFor(detail.AllKeys, keys)
		return detail, nil
	}

	// The aggregator keeps only the failure tally; parse again for the error.
	_, detail.ParseErr = record.Parse(line.Text)
	detail.Keys = model.NewKeySet()
	detail.Missing = detail.AllKeys
	return detail, nil
}

// parsedKeys returns the KeySet of row if it parsed.
func parsedKeys(agg *analyzer.Aggregator, row int) (model.KeySet, bool) {
	rows := agg.RowKeys()
	i, found := slices.BinarySearchFunc(rows, row, func(r model.RowKeys, target int) int {
		return cmp.Compare(r.Row, target)
	})
	if !found {
		return nil, false
	}
	return rows[i].Keys, true
}
