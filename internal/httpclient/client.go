package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultMaxRedirects is the number of redirects followed before a request fails.
const DefaultMaxRedirects = 10

// options holds the settings collected from Option values.
type options struct {
	userAgent    string
	timeout      time.Duration
	proxyAddress string
	limiter      *HostLimiter
	maxRedirects int
	base         http.RoundTripper
}

// Option configures a client built by New.
type Option func(*options)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithTimeout sets http.Client.Timeout. Probes leave this at zero and bound
// each attempt with a context deadline instead.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithProxy routes connections through the SOCKS5 proxy at address ("host:port").
func WithProxy(address string) Option {
	return func(o *options) {
		o.proxyAddress = address
	}
}

// WithRatePerHost limits requests to any single host to r per second.
// Zero or negative disables limiting.
func WithRatePerHost(r float64) Option {
	return func(o *options) {
		o.limiter = NewHostLimiter(r)
	}
}

// WithHostLimiter limits requests with l, which may be shared with callers
// that take tokens up front (see WithAdmission). A nil l disables limiting.
func WithHostLimiter(l *HostLimiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithMaxRedirects sets the redirect limit.
func WithMaxRedirects(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRedirects = n
		}
	}
}

// WithTransport replaces the underlying transport. Mostly useful in tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

// New creates an HTTP client. It fails only when the proxy address is invalid.
func New(opts ...Option) (*http.Client, error) {
	o := &options{
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(o)
	}

	base := o.base
	if base == nil {
		transport, err := newTransport(o.proxyAddress)
		if err != nil {
			return nil, err
		}
		base = transport
	}

	var rt http.RoundTripper = base
	if o.limiter != nil {
		rt = &rateLimitedTransport{base: rt, limiter: o.limiter}
	}
	if o.userAgent != "" {
		rt = &userAgentTransport{base: rt, userAgent: o.userAgent}
	}

	maxRedirects := o.maxRedirects
	return &http.Client{
		Transport: rt,
		Timeout:   o.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
			}
			return nil
		},
	}, nil
}

// newTransport clones the default transport and, when proxyAddress is set,
// replaces its dialer with a SOCKS5 dialer.
func newTransport(proxyAddress string) (*http.Transport, error) {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		transport = &http.Transport{}
	} else {
		transport = transport.Clone()
	}

	// Probes hit many distinct hosts once each; keeping a few idle
	// connections per host is enough for the HEAD/GET pair.
	transport.MaxIdleConns = 100
	transport.MaxIdleConnsPerHost = 2
	transport.IdleConnTimeout = 30 * time.Second

	if proxyAddress == "" {
		return transport, nil
	}

	if _, _, err := net.SplitHostPort(proxyAddress); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProxyAddress, proxyAddress)
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	// The environment proxy must not apply on top of SOCKS5.
	transport.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return transport, nil
}

// userAgentTransport sets the User-Agent on every request, redirect hops included.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(clone)
}
