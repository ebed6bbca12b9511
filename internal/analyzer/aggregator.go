package analyzer

import (
	"errors"
	"fmt"
	"maps"

	"github.com/nao1215/jsonlscan/internal/model"
)

// DefaultFailureSampleLimit is the number of failures kept for reporting.
const DefaultFailureSampleLimit = 10

// ErrRowOutOfOrder is returned when a row index does not follow the
// previously added one.
var ErrRowOutOfOrder = errors.New("row index out of order")

// Aggregator accumulates key statistics across rows.
// It is not safe for concurrent use.
type Aggregator struct {
	allKeys   map[string]struct{}
	keyCounts map[string]int
	rows      []model.RowKeys

	rowsSeen    int
	failedLines int
	failures    []model.LineFailure
	sampleLimit int

	// nextRow is the smallest index the next Add or AddFailure may use.
	nextRow int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFailureSampleLimit sets how many failures are retained for
// diagnostics. Failures beyond the limit are still counted.
// A negative limit is treated as zero.
func WithFailureSampleLimit(n int) Option {
	return func(a *Aggregator) {
		a.sampleLimit = max(n, 0)
	}
}

// NewAggregator creates an empty Aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		allKeys:     make(map[string]struct{}),
		keyCounts:   make(map[string]int),
		rows:        make([]model.RowKeys, 0),
		failures:    make([]model.LineFailure, 0),
		sampleLimit: DefaultFailureSampleLimit,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Add records a successfully parsed row.
// keys must be canonical (as produced by model.NewKeySet).
func (a *Aggregator) Add(row int, keys model.KeySet) error {
	if err := a.advance(row); err != nil {
		return err
	}

	for _, key := range keys {
		a.allKeys[key] = struct{}{}
		a.keyCounts[key]++
	}
	a.rows = append(a.rows, model.RowKeys{Row: row, Keys: keys})

	return nil
}

// AddFailure records a row whose line failed to parse.
// The row contributes no keys.
func (a *Aggregator) AddFailure(failure model.LineFailure) error {
	if err := a.advance(failure.Row); err != nil {
		return err
	}

	a.failedLines++
	if len(a.failures) < a.sampleLimit {
		a.failures = append(a.failures, failure)
	}

	return nil
}

func (a *Aggregator) advance(row int) error {
	if row < a.nextRow {
		return fmt.Errorf("%w: got %d, want >= %d", ErrRowOutOfOrder, row, a.nextRow)
	}
	a.nextRow = row + 1
	a.rowsSeen++
	return nil
}

// RowsSeen returns the number of rows added, parsed or failed.
func (a *Aggregator) RowsSeen() int {
	return a.rowsSeen
}

// RowsParsed returns the number of rows that contributed keys.
func (a *Aggregator) RowsParsed() int {
	return len(a.rows)
}

// FailedLines returns the number of rows that failed to parse.
func (a *Aggregator) FailedLines() int {
	return a.failedLines
}

// Failures returns the retained failure samples in row order.
func (a *Aggregator) Failures() []model.LineFailure {
	out := make([]model.LineFailure, len(a.failures))
	copy(out, a.failures)
	return out
}

// AllKeys returns the union of every row's keys.
func (a *Aggregator) AllKeys() model.KeySet {
	keys := make([]string, 0, len(a.allKeys))
	for key := range a.allKeys {
		keys = append(keys, key)
	}
	return model.NewKeySet(keys...)
}

// UniqueKeyCount returns the number of distinct keys seen.
func (a *Aggregator) UniqueKeyCount() int {
	return len(a.allKeys)
}

// KeyCounts returns a copy of the key -> row count mapping.
func (a *Aggregator) KeyCounts() map[string]int {
	return maps.Clone(a.keyCounts)
}

// RowKeys returns the key set of every parsed row in ascending row order.
// The KeySets are shared and must not be modified.
func (a *Aggregator) RowKeys() []model.RowKeys {
	out := make([]model.RowKeys, len(a.rows))
	copy(out, a.rows)
	return out
}
