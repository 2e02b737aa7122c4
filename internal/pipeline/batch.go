package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/embedprobe/internal/config"
	"github.com/nao1215/embedprobe/internal/model"
	"golang.org/x/sync/errgroup"
)

// Prober probes a single URL. *probe.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, rawURL string) model.ProbeReport
}

// ProgressFunc is called after each probe completes. done counts completed
// probes (1..total). Calls are serialized.
type ProgressFunc func(done, total int, report model.ProbeReport)

// BatchProber probes a list of URLs with bounded concurrency.
type BatchProber struct {
	prober      Prober
	concurrency int
	logger      *slog.Logger
	progress    ProgressFunc
}

// BatchOption configures a BatchProber.
type BatchOption func(*BatchProber)

// WithConcurrency sets the maximum number of probes in flight.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProber) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProber) {
		b.logger = logger
	}
}

// WithProgress sets a callback invoked after each completed probe.
func WithProgress(fn ProgressFunc) BatchOption {
	return func(b *BatchProber) {
		b.progress = fn
	}
}

// NewBatchProber creates a BatchProber. Concurrency defaults to
// config.DefaultConcurrency.
func NewBatchProber(prober Prober, opts ...BatchOption) *BatchProber {
	b := &BatchProber{
		prober:      prober,
		concurrency: config.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// ProbeAll probes every URL and returns one report per URL in input order.
//
// The returned slice is always complete. When ctx is cancelled, probes that
// have not started are recorded as error reports and ctx.Err() is returned
// alongside the reports.
func (b *BatchProber) ProbeAll(ctx context.Context, urls []string) ([]model.ProbeReport, error) {
	total := len(urls)
	b.logger.Info("starting batch probe", "total", total, "concurrency", b.concurrency)
	start := time.Now()

	reports := make([]model.ProbeReport, total)

	var (
		mu   sync.Mutex
		done int
	)

	// errgroup.WithContext is not used: a failed probe must not cancel the rest.
	var g errgroup.Group
	g.SetLimit(b.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			var report model.ProbeReport
			if err := ctx.Err(); err != nil {
				report = cancelledReport(u, err)
			} else {
				b.logger.Info("probing", "index", i+1, "total", total, "url", u)
				report = b.prober.Probe(ctx, u)
			}
			reports[i] = report

			mu.Lock()
			done++
			if b.progress != nil {
				b.progress(done, total, report)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return an error

	b.logger.Info("batch probe complete", "total", total, "elapsed", time.Since(start))
	return reports, ctx.Err()
}

func cancelledReport(rawURL string, err error) model.ProbeReport {
	report := model.NewProbeReport(rawURL)
	report.Error = model.Ptr("probe not run: " + err.Error())
	return report
}
