package httpclient

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter keeps one token bucket per host. A nil *HostLimiter never waits.
type HostLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewHostLimiter allows perSecond requests to each host. It returns nil when
// perSecond is zero or negative.
func NewHostLimiter(perSecond float64) *HostLimiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until host may receive another request or ctx is done.
// The wait is bounded by ctx only, so callers that also bound the request
// itself should call Wait before starting that deadline.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	if h == nil {
		return nil
	}
	return h.get(host).Wait(ctx)
}

// get returns the limiter for host, creating it on first use.
func (h *HostLimiter) get(host string) *rate.Limiter {
	host = strings.ToLower(host)

	h.mu.Lock()
	defer h.mu.Unlock()

	lim, ok := h.limiters[host]
	if !ok {
		lim = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = lim
	}
	return lim
}

type admittedKey struct{}

// WithAdmission marks ctx as already holding a token for host, taken with
// HostLimiter.Wait. The first request to host made with the returned context
// is not limited again. Redirect hops always wait for their own token.
func WithAdmission(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, admittedKey{}, strings.ToLower(host))
}

func admitted(req *http.Request) bool {
	if req.Response != nil {
		return false
	}
	host, ok := req.Context().Value(admittedKey{}).(string)
	return ok && host == strings.ToLower(req.URL.Host)
}

// rateLimitedTransport waits for the host's limiter before each round trip
// that was not admitted in advance.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *HostLimiter
}

// RoundTrip implements http.RoundTripper.
func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !admitted(req) {
		if err := t.limiter.Wait(req.Context(), req.URL.Host); err != nil {
			return nil, err
		}
	}
	return t.base.RoundTrip(req)
}
