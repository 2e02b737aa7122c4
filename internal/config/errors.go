package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with
// errors.Is() by callers.
var (
	// ErrInvalidTimeout is returned when the probe timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCatalogTimeout is returned when the catalog fetch timeout is not positive.
	ErrInvalidCatalogTimeout = errors.New("invalid catalog timeout: must be positive")

	// ErrInvalidConcurrency is returned when the number of concurrent probes is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidLimit is returned when the catalog cap is not positive.
	ErrInvalidLimit = errors.New("invalid limit: must be positive")

	// ErrInvalidSampleSize is returned when the body sample size is not positive.
	ErrInvalidSampleSize = errors.New("invalid sample size: must be positive")

	// ErrInvalidRatePerHost is returned when the per-host rate is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRatePerHost = errors.New("invalid rate per host: must be non-negative")

	// ErrEmptyUserAgent is returned when no User-Agent is configured.
	// Every outbound request must identify the client.
	ErrEmptyUserAgent = errors.New("invalid user agent: must not be empty")

	// ErrEmptyAPIURL is returned when the remote catalog endpoint is empty.
	ErrEmptyAPIURL = errors.New("invalid api url: must not be empty")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidLogFormat is returned for an unknown log format.
	ErrInvalidLogFormat = errors.New("invalid log format: must be \"text\" or \"json\"")
)
