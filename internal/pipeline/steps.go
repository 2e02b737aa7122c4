package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/embedprobe/internal/catalog"
	"github.com/nao1215/embedprobe/internal/classify"
	"github.com/nao1215/embedprobe/internal/report"
)

// CatalogStep loads the candidate URLs, from a local snapshot when one is
// set and from the remote catalog otherwise.
type CatalogStep struct {
	client       *http.Client
	apiURL       string
	snapshotPath string
	limit        int
	output       string
	timeout      time.Duration
}

// CatalogStepOption configures a CatalogStep.
type CatalogStepOption func(*CatalogStep)

// WithSnapshot reads channels from path instead of the remote catalog.
func WithSnapshot(path string) CatalogStepOption {
	return func(s *CatalogStep) {
		s.snapshotPath = path
	}
}

// WithCatalogOutput writes the channel list to path.
func WithCatalogOutput(path string) CatalogStepOption {
	return func(s *CatalogStep) {
		s.output = path
	}
}

// WithFetchTimeout bounds the remote catalog request.
func WithFetchTimeout(d time.Duration) CatalogStepOption {
	return func(s *CatalogStep) {
		s.timeout = d
	}
}

// NewCatalogStep creates a CatalogStep fetching at most limit URLs from apiURL.
func NewCatalogStep(client *http.Client, apiURL string, limit int, opts ...CatalogStepOption) *CatalogStep {
	s := &CatalogStep{client: client, apiURL: apiURL, limit: limit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Step.
func (s *CatalogStep) Name() string {
	return "catalog"
}

// Do implements Step.
func (s *CatalogStep) Do(ctx context.Context, run *Run) error {
	if s.snapshotPath != "" {
		run.Channels = catalog.LoadSnapshot(s.snapshotPath, s.limit)
	} else {
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		channels, err := catalog.FetchRemote(ctx, s.client, s.apiURL, s.limit)
		if err != nil {
			return err
		}
		run.Channels = channels
	}

	if s.output != "" {
		if err := report.WriteChannels(s.output, run.Channels); err != nil {
			return err
		}
	}
	return nil
}

// ProbeStep probes every channel of the run.
type ProbeStep struct {
	batch  *BatchProber
	output string
}

// NewProbeStep creates a ProbeStep. When output is set the report
// collection is written there, even if the run was cancelled midway.
func NewProbeStep(batch *BatchProber, output string) *ProbeStep {
	return &ProbeStep{batch: batch, output: output}
}

// Name implements Step.
func (s *ProbeStep) Name() string {
	return "probe"
}

// Do implements Step.
func (s *ProbeStep) Do(ctx context.Context, run *Run) error {
	reports, probeErr := s.batch.ProbeAll(ctx, run.Channels)
	run.Reports = reports

	if s.output != "" {
		if err := report.WriteReports(s.output, reports); err != nil {
			return err
		}
	}
	if probeErr != nil {
		return fmt.Errorf("probing interrupted: %w", probeErr)
	}
	return nil
}

// ClassifyStep derives the accepted list from the probe reports.
type ClassifyStep struct {
	output string
	logger *slog.Logger
}

// NewClassifyStep creates a ClassifyStep writing the accepted list to output
// when it is set.
func NewClassifyStep(output string) *ClassifyStep {
	return &ClassifyStep{output: output, logger: slog.Default()}
}

// Name implements Step.
func (s *ClassifyStep) Name() string {
	return "classify"
}

// Do implements Step.
func (s *ClassifyStep) Do(_ context.Context, run *Run) error {
	run.Accepted = classify.Filter(run.Reports)
	s.logger.Info("classified reports", "total", len(run.Reports), "accepted", len(run.Accepted))

	if s.output != "" {
		return report.WriteChannels(s.output, run.Accepted)
	}
	return nil
}
