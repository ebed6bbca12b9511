package pipeline

import (
	"log/slog"

	"github.com/nao1215/jsonlscan/internal/analyzer"
	"github.com/nao1215/jsonlscan/internal/model"
	"github.com/nao1215/jsonlscan/internal/source"
)

// Run carries the state of one analysis through the pipeline.
type Run struct {
	// Source is the input being analyzed.
	Source source.Source

	// Dataset is the loaded input. It is released once the summary exists.
	Dataset *source.Dataset

	// Rows holds the non-blank lines of Dataset; Rows[i] is row i.
	// It is released together with Dataset.
	Rows []source.Line

	// Aggregator accumulates row statistics.
	Aggregator *analyzer.Aggregator

	// Summary is the final outcome.
	Summary *model.Summary

	// PerformedSteps lists the names of steps that ran, in order.
	PerformedSteps []string
}

// NewRun creates a Run for src.
func NewRun(src source.Source) *Run {
	return &Run{
		Source:         src,
		PerformedSteps: make([]string, 0),
	}
}

// Step defines the interface that all pipeline steps implement.
type Step interface {
	// Do executes the step against the run.
	// A returned error is fatal to the run.
	Do(run *Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and stops at the first error.
func (p *Pipeline) Execute(run *Run) error {
	p.logger.Debug("starting pipeline",
		"source", run.Source.Name(),
		"steps", p.StepNames(),
	)

	for _, step := range p.steps {
		p.logger.Info("executing step",
			"step", step.Name(),
			"source", run.Source.Name(),
		)

		if err := step.Do(run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", run.Source.Name(),
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"source", run.Source.Name(),
		)
		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
