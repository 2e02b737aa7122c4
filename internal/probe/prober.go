package probe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/embedprobe/internal/config"
	"github.com/nao1215/embedprobe/internal/httpclient"
	"github.com/nao1215/embedprobe/internal/model"
)

// Prober probes URLs for framing restrictions.
// A Prober holds no per-URL state and is safe for concurrent use.
type Prober struct {
	// client sends both the HEAD and the GET attempt.
	client *http.Client

	// timeout bounds each attempt separately, so a HEAD timeout leaves the
	// GET fallback its full budget.
	timeout time.Duration

	// sampleSize is the body prefix inspected on the fallback path.
	sampleSize int64

	// limiter, when set, admits each attempt to its host before the
	// attempt's deadline starts.
	limiter Limiter

	logger *slog.Logger
}

// Limiter admits requests to a host. *httpclient.HostLimiter implements it.
type Limiter interface {
	Wait(ctx context.Context, host string) error
}

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithSampleSize sets the number of body bytes read on the fallback path.
func WithSampleSize(n int64) Option {
	return func(p *Prober) {
		if n > 0 {
			p.sampleSize = n
		}
	}
}

// WithLimiter takes a token from l for every attempt before its timeout
// starts. Pass the limiter the client was built with (httpclient.WithHostLimiter)
// so that the client does not limit the same request twice.
func WithLimiter(l Limiter) Option {
	return func(p *Prober) {
		p.limiter = l
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// New creates a Prober that sends requests with client. The client is
// expected to set the User-Agent and follow redirects (see httpclient.New).
func New(client *http.Client, opts ...Option) *Prober {
	p := &Prober{
		client:     client,
		timeout:    config.DefaultTimeout,
		sampleSize: config.DefaultSampleSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}

	return p
}

// Probe runs the two-stage probe for rawURL and returns its report.
// It always returns; failures are recorded in the report's Error field.
func (p *Prober) Probe(ctx context.Context, rawURL string) model.ProbeReport {
	stage := StageInitial
	p.logger.Debug("probe started", "url", rawURL, "stage", stage)

	light := p.LightProbe(ctx, rawURL)
	stage = StageLightProbeSent
	p.logAttempt(rawURL, stage, light)

	final := light
	if stage = AfterLightProbe(light); stage == StageFallbackSent {
		final = p.FallbackProbe(ctx, rawURL)
		p.logAttempt(rawURL, stage, final)
	}

	report := Finalize(rawURL, final)
	p.logger.Debug("probe finished",
		"url", rawURL,
		"stage", StageTerminal,
		"decided_by", final.Method,
		"status", report.StatusCode(),
	)
	return report
}

// LightProbe sends the HEAD request. No body is transferred.
func (p *Prober) LightProbe(ctx context.Context, rawURL string) Attempt {
	return p.send(ctx, http.MethodHead, rawURL, false)
}

// FallbackProbe sends the GET request and samples the start of the body.
func (p *Prober) FallbackProbe(ctx context.Context, rawURL string) Attempt {
	return p.send(ctx, http.MethodGet, rawURL, true)
}

// send performs one attempt bounded by the per-attempt timeout. Waiting for
// the host's rate limit is not part of the attempt. The body, when sampled, is
// read under the same deadline so a stalled stream cannot hang the probe.
func (p *Prober) send(ctx context.Context, method, rawURL string, sample bool) Attempt {
	ctx, err := p.admit(ctx, rawURL)
	if err != nil {
		return Failed(method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return Failed(method, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Failed(method, err)
	}
	defer resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	attempt := Responded(method, resp.StatusCode, finalURL, ExtractFrameHeaders(resp.Header))
	if sample {
		attempt.Referrer = SampleBody(resp.Body, p.sampleSize)
		if attempt.Referrer.Outcome == SampleFailed {
			p.logger.Debug("body sampling failed", "url", rawURL, "error", attempt.Referrer.Err)
		}
	}
	return attempt
}

// admit waits for the host's rate limit on the parent context and marks the
// returned context as admitted. Without a limiter it returns ctx unchanged.
func (p *Prober) admit(ctx context.Context, rawURL string) (context.Context, error) {
	if p.limiter == nil {
		return ctx, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Request construction reports the bad URL.
		return ctx, nil
	}
	if err := p.limiter.Wait(ctx, u.Host); err != nil {
		return ctx, err
	}
	return httpclient.WithAdmission(ctx, u.Host), nil
}

// logAttempt logs the outcome of one attempt at debug level.
func (p *Prober) logAttempt(rawURL string, stage Stage, a Attempt) {
	if a.Kind == AttemptFailed {
		p.logger.Debug("probe attempt failed",
			"url", rawURL,
			"stage", stage,
			"method", a.Method,
			"error", a.Err,
		)
		return
	}
	p.logger.Debug("probe attempt completed",
		"url", rawURL,
		"stage", stage,
		"method", a.Method,
		"status", a.Status,
		"final_url", a.FinalURL,
	)
}
