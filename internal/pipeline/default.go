package pipeline

import (
	"log/slog"

	"github.com/nao1215/jsonlscan/internal/analyzer"
	"github.com/nao1215/jsonlscan/internal/model"
	"github.com/nao1215/jsonlscan/internal/source"
)

// Settings holds the knobs of the default pipeline.
type Settings struct {
	// TopN is the number of combinations kept in the summary.
	TopN int

	// FailureSamples is the number of failed lines kept in the summary.
	FailureSamples int

	// Compression selects the input encoding; empty means auto-detect.
	Compression source.Compression
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		TopN:           analyzer.DefaultTopN,
		FailureSamples: analyzer.DefaultFailureSampleLimit,
		Compression:    source.CompressionAuto,
	}
}

// DefaultPipeline creates the load -> aggregate -> summarize pipeline.
func DefaultPipeline(settings Settings, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewLoadStep(settings.Compression, p.logger),
		NewAggregateStep(settings.FailureSamples, p.logger),
		NewSummarizeStep(settings.TopN),
	)
	return p
}

// Analyze runs the default pipeline over src and returns its summary.
func Analyze(src source.Source, settings Settings, logger *slog.Logger) (*model.Summary, error) {
	run := NewRun(src)
	if err := DefaultPipeline(settings, WithLogger(logger)).Execute(run); err != nil {
		return nil, err
	}
	return run.Summary, nil
}
