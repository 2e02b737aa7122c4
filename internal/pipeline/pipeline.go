package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/embedprobe/internal/model"
)

// Run carries the data passed between steps.
type Run struct {
	// Channels is the candidate URL list produced by the catalog stage.
	Channels []string
	// Reports holds one probe report per channel.
	Reports []model.ProbeReport
	// Accepted is the accepted list produced by the classify stage.
	Accepted []string
	// Completed lists the names of the steps that finished.
	Completed []string
}

// Step is one stage of a run.
type Step interface {
	// Do executes the step. An error stops the pipeline.
	Do(ctx context.Context, run *Run) error

	// Name returns the step name for logging.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps. Steps run in the order they are added.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return names
}

// Execute runs every step on run and stops at the first error. Cancellation
// is checked between steps; steps handle it themselves while running.
func (p *Pipeline) Execute(ctx context.Context, run *Run) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			return err
		}

		p.logger.Debug("executing step", "step", step.Name())
		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "error", err)
			return err
		}
		run.Completed = append(run.Completed, step.Name())
	}
	return nil
}
