package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".embedprobe"

// xdgConfigFile is the file name looked up inside the XDG config directory.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .embedprobe configuration file.
// Zero values mean "not set" and leave the corresponding default in place.
type File struct {
	APIURL         string        `yaml:"api_url,omitempty"`
	Limit          int           `yaml:"limit,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"`
	CatalogTimeout time.Duration `yaml:"catalog_timeout,omitempty"`
	Concurrency    int           `yaml:"concurrency,omitempty"`
	UserAgent      string        `yaml:"user_agent,omitempty"`
	SampleSize     int64         `yaml:"sample_size,omitempty"`
	Proxy          string        `yaml:"proxy,omitempty"`
	RatePerHost    float64       `yaml:"rate_per_host,omitempty"`
	OutputDir      string        `yaml:"output_dir,omitempty"`
	LogFormat      string        `yaml:"log_format,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every value set in the file onto c.
func (cf *File) Apply(c *Config) {
	if cf.APIURL != "" {
		c.APIURL = cf.APIURL
	}
	if cf.Limit != 0 {
		c.Limit = cf.Limit
	}
	if cf.Timeout != 0 {
		c.Timeout = cf.Timeout
	}
	if cf.CatalogTimeout != 0 {
		c.CatalogTimeout = cf.CatalogTimeout
	}
	if cf.Concurrency != 0 {
		c.Concurrency = cf.Concurrency
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if cf.SampleSize != 0 {
		c.SampleSize = cf.SampleSize
	}
	if cf.Proxy != "" {
		c.ProxyAddress = cf.Proxy
	}
	if cf.RatePerHost != 0 {
		c.RatePerHost = cf.RatePerHost
	}
	if cf.OutputDir != "" {
		c.OutputDir = cf.OutputDir
	}
	if cf.LogFormat != "" {
		c.LogFormat = cf.LogFormat
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if specified
//  2. .embedprobe in the current directory
//  3. config.yaml in the XDG config directory
//  4. .embedprobe in the user's home directory
//
// Returns the path to the configuration file, or "" if none was found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigPath())
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// XDGConfigPath returns the configuration file path inside the XDG config directory.
func XDGConfigPath() string {
	return filepath.Join(XDGConfigDir(), xdgConfigFile)
}
