package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "embedprobe"

	// DefaultAPIURL is the remote catalog endpoint.
	DefaultAPIURL = "https://topembed.pw/api.php?format=json"

	// DefaultLimit caps the number of catalog URLs handed to the prober.
	DefaultLimit = 120

	// DefaultTimeout bounds each individual probe attempt (HEAD or GET).
	// Stream hosts are frequently slow to answer, but anything beyond a few
	// seconds is not usable inside an iframe anyway.
	DefaultTimeout = 10 * time.Second

	// DefaultCatalogTimeout bounds the remote catalog fetch.
	DefaultCatalogTimeout = 15 * time.Second

	// DefaultConcurrency is the number of URLs probed in parallel.
	// Tens of in-flight requests keep a run short without flooding a single
	// stream host, since catalogs tend to cluster on a few domains.
	DefaultConcurrency = 20

	// DefaultUserAgent identifies embedprobe in outbound requests.
	DefaultUserAgent = "embedprobe/1.0"

	// DefaultSampleSize is the number of body bytes read on the fallback path
	// when looking for a referrer meta tag.
	DefaultSampleSize = 8 * 1024

	// DefaultOutputDir is where stage artifacts are written.
	DefaultOutputDir = "out"

	// DefaultLogFormat is the slog handler used for diagnostics.
	DefaultLogFormat = "text"
)

// Stage artifact file names inside OutputDir.
const (
	ChannelsFile = "channels.json"
	ReportFile   = "embed_report.json"
	AcceptedFile = "pruned_channels.json"
)

// Config holds all configuration options for embedprobe.
// It is populated from defaults, the optional config file and CLI flags,
// and passed explicitly to every component.
type Config struct {
	// APIURL is the remote catalog endpoint.
	APIURL string

	// Limit caps the number of URLs produced by the catalog loader.
	Limit int

	// Timeout bounds each probe attempt. The HEAD and GET attempts of the
	// same URL each get the full timeout.
	Timeout time.Duration

	// CatalogTimeout bounds the remote catalog request.
	CatalogTimeout time.Duration

	// Concurrency is the maximum number of URLs probed at the same time.
	Concurrency int

	// UserAgent is sent with every outbound request.
	UserAgent string

	// SampleSize is the body prefix length inspected on the fallback path.
	SampleSize int64

	// ProxyAddress routes outbound requests through a SOCKS5 proxy
	// in "host:port" format. Empty means direct connections.
	ProxyAddress string

	// RatePerHost limits requests per second to a single host.
	// Zero disables rate limiting.
	RatePerHost float64

	// OutputDir is the directory for stage artifacts.
	OutputDir string

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool

	// LogFormat selects the slog handler: "text" or "json".
	LogFormat string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		Limit:          DefaultLimit,
		Timeout:        DefaultTimeout,
		CatalogTimeout: DefaultCatalogTimeout,
		Concurrency:    DefaultConcurrency,
		UserAgent:      DefaultUserAgent,
		SampleSize:     DefaultSampleSize,
		OutputDir:      DefaultOutputDir,
		LogFormat:      DefaultLogFormat,
	}
}

// ChannelsPath returns the catalog artifact path.
func (c *Config) ChannelsPath() string {
	return filepath.Join(c.OutputDir, ChannelsFile)
}

// ReportPath returns the probe report artifact path.
func (c *Config) ReportPath() string {
	return filepath.Join(c.OutputDir, ReportFile)
}

// AcceptedPath returns the accepted list artifact path.
func (c *Config) AcceptedPath() string {
	return filepath.Join(c.OutputDir, AcceptedFile)
}

// XDGConfigDir returns the XDG config directory for embedprobe.
// On Linux: ~/.config/embedprobe
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrEmptyAPIURL
	}
	if c.Limit <= 0 {
		return ErrInvalidLimit
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CatalogTimeout <= 0 {
		return ErrInvalidCatalogTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.UserAgent == "" {
		return ErrEmptyUserAgent
	}
	if c.SampleSize <= 0 {
		return ErrInvalidSampleSize
	}
	if c.RatePerHost < 0 {
		return ErrInvalidRatePerHost
	}
	if c.ProxyAddress != "" && !IsValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}
	return nil
}

// IsValidProxyAddress checks if the address is in "host:port" format with a
// port between 1 and 65535.
func IsValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
