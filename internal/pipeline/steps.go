package pipeline

import (
	"errors"
	"log/slog"

	"github.com/nao1215/jsonlscan/internal/analyzer"
	"github.com/nao1215/jsonlscan/internal/model"
	"github.com/nao1215/jsonlscan/internal/record"
	"github.com/nao1215/jsonlscan/internal/source"
)

// previewLength bounds how much of a failing line is logged.
const previewLength = 120

// ErrNotLoaded is returned when a step needs data an earlier step did
// not provide.
var ErrNotLoaded = errors.New("dataset not loaded")

// LoadStep reads the run's source into memory.
type LoadStep struct {
	compression source.Compression
	logger      *slog.Logger
}

// NewLoadStep creates a LoadStep. An empty compression means auto-detect.
func NewLoadStep(compression source.Compression, logger *slog.Logger) *LoadStep {
	if compression == "" {
		compression = source.CompressionAuto
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{compression: compression, logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do loads the source.
func (s *LoadStep) Do(run *Run) error {
	ds, err := source.Load(run.Source, source.WithCompression(s.compression))
	if err != nil {
		return err
	}

	s.logger.Debug("source loaded",
		"source", ds.Name,
		"lines", len(ds.Lines),
		"compression", string(ds.Compression),
	)
	run.Dataset = ds
	return nil
}

// AggregateStep parses every non-blank line and feeds the aggregator.
// Parse failures are tallied, never returned.
type AggregateStep struct {
	sampleLimit int
	logger      *slog.Logger
}

// NewAggregateStep creates an AggregateStep that keeps up to sampleLimit
// failures for the report.
func NewAggregateStep(sampleLimit int, logger *slog.Logger) *AggregateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregateStep{sampleLimit: sampleLimit, logger: logger}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do parses the loaded lines.
func (s *AggregateStep) Do(run *Run) error {
	if run.Dataset == nil {
		return ErrNotLoaded
	}

	agg := analyzer.NewAggregator(analyzer.WithFailureSampleLimit(s.sampleLimit))
	rows := make([]source.Line, 0, len(run.Dataset.Lines))
	for _, line := range run.Dataset.Lines {
		if record.IsBlank(line.Text) {
			continue
		}
		row := len(rows)
		rows = append(rows, line)

		keys, err := record.Parse(line.Text)
		if err != nil {
			failure := model.LineFailure{
				Row:     row,
				Line:    line.Number,
				Kind:    record.FailureKind(err),
				Message: err.Error(),
			}
			s.logger.Debug("line failed to parse",
				"row", failure.Row,
				"line", failure.Line,
				"kind", string(failure.Kind),
				"preview", preview(line.Text),
			)
			if err := agg.AddFailure(failure); err != nil {
				return err
			}
		} else if err := agg.Add(row, keys); err != nil {
			return err
		}
	}

	if agg.FailedLines() > 0 {
		s.logger.Warn("some lines failed to parse",
			"source", run.Dataset.Name,
			"failed", agg.FailedLines(),
			"parsed", agg.RowsParsed(),
		)
	}

	run.Rows = rows
	run.Aggregator = agg
	return nil
}

// SummarizeStep builds the final Summary from the aggregator.
type SummarizeStep struct {
	topN int
}

// NewSummarizeStep creates a SummarizeStep that keeps the top n
// combinations. n <= 0 keeps all of them.
func NewSummarizeStep(topN int) *SummarizeStep {
	return &SummarizeStep{topN: topN}
}

// Name returns the step name.
func (s *SummarizeStep) Name() string {
	return "summarize"
}

// Do derives the summary and releases the loaded rows.
func (s *SummarizeStep) Do(run *Run) error {
	if run.Aggregator == nil {
		return ErrNotLoaded
	}

	summary := analyzer.Summarize(run.Aggregator, s.topN)
	summary.Source = run.Source.Name()
	if run.Dataset != nil {
		summary.Digest = run.Dataset.Digest
	}

	run.Summary = summary
	run.Dataset = nil
	run.Rows = nil
	return nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}
