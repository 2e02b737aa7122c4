package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nao1215/embedprobe/internal/config"
	"github.com/nao1215/embedprobe/internal/httpclient"
	applog "github.com/nao1215/embedprobe/internal/log"
	"github.com/nao1215/embedprobe/internal/model"
	"github.com/nao1215/embedprobe/internal/pipeline"
	"github.com/nao1215/embedprobe/internal/probe"
	"github.com/nao1215/embedprobe/internal/report"
	"github.com/spf13/cobra"
)

// Flag names shared by several commands.
const (
	flagOutput         = "output"
	flagInput          = "input"
	flagAPIURL         = "api-url"
	flagLimit          = "limit"
	flagInputChannels  = "input-channels"
	flagCatalogTimeout = "catalog-timeout"
	flagTimeout        = "timeout"
	flagConcurrency    = "concurrency"
	flagUserAgent      = "user-agent"
	flagSampleSize     = "sample-size"
	flagProxy          = "proxy"
	flagRatePerHost    = "rate-per-host"
	flagMarkdown       = "markdown"
	flagJSON           = "json"
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagOutput, "o", config.DefaultOutputDir, "Output directory")
}

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagUserAgent, config.DefaultUserAgent, "User-Agent sent with every request")
	cmd.Flags().String(flagProxy, "", "Route requests through a SOCKS5 proxy (host:port)")
}

func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagAPIURL, config.DefaultAPIURL, "Remote catalog endpoint")
	cmd.Flags().IntP(flagLimit, "n", config.DefaultLimit, "Maximum number of channels")
	cmd.Flags().StringP(flagInputChannels, "i", "",
		"Read channels from a local JSON file instead of the remote catalog")
	cmd.Flags().Duration(flagCatalogTimeout, config.DefaultCatalogTimeout, "Timeout of the catalog request")
}

func addProbeFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP(flagTimeout, "t", config.DefaultTimeout, "Timeout of each probe attempt")
	cmd.Flags().Int(flagConcurrency, config.DefaultConcurrency, "Number of URLs probed at the same time")
	cmd.Flags().Int64(flagSampleSize, config.DefaultSampleSize, "Body bytes inspected for a referrer meta tag")
	cmd.Flags().Float64(flagRatePerHost, 0, "Maximum requests per second to a single host (0 = unlimited)")
}

func addSummaryFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagMarkdown, "", "Also write a Markdown summary to this file")
	cmd.Flags().Bool(flagJSON, false, "Print the probe reports as JSON instead of the text summary")
}

// buildConfig returns defaults, overridden by the configuration file, then
// by flags that were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	if path := config.FindConfigFile(configPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags into cfg. Flags a command does not
// define are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed(flagOutput) {
		if cfg.OutputDir, err = flags.GetString(flagOutput); err != nil {
			return err
		}
	}
	if changed(flagAPIURL) {
		if cfg.APIURL, err = flags.GetString(flagAPIURL); err != nil {
			return err
		}
	}
	if changed(flagLimit) {
		if cfg.Limit, err = flags.GetInt(flagLimit); err != nil {
			return err
		}
	}
	if changed(flagCatalogTimeout) {
		if cfg.CatalogTimeout, err = flags.GetDuration(flagCatalogTimeout); err != nil {
			return err
		}
	}
	if changed(flagTimeout) {
		if cfg.Timeout, err = flags.GetDuration(flagTimeout); err != nil {
			return err
		}
	}
	if changed(flagConcurrency) {
		if cfg.Concurrency, err = flags.GetInt(flagConcurrency); err != nil {
			return err
		}
	}
	if changed(flagUserAgent) {
		if cfg.UserAgent, err = flags.GetString(flagUserAgent); err != nil {
			return err
		}
	}
	if changed(flagSampleSize) {
		if cfg.SampleSize, err = flags.GetInt64(flagSampleSize); err != nil {
			return err
		}
	}
	if changed(flagProxy) {
		if cfg.ProxyAddress, err = flags.GetString(flagProxy); err != nil {
			return err
		}
	}
	if changed(flagRatePerHost) {
		if cfg.RatePerHost, err = flags.GetFloat64(flagRatePerHost); err != nil {
			return err
		}
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return err
	}
	logJSON, err := flags.GetBool("log-json")
	if err != nil {
		return err
	}
	if logJSON {
		cfg.LogFormat = applog.FormatJSON
	}
	return nil
}

// setupLogger installs the sanitizing logger as the slog default.
func setupLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := applog.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// newHTTPClient builds the client shared by the catalog fetch and the probes,
// and returns the per-host limiter it applies (nil when limiting is off).
func newHTTPClient(cfg *config.Config) (*http.Client, *httpclient.HostLimiter, error) {
	limiter := httpclient.NewHostLimiter(cfg.RatePerHost)
	client, err := httpclient.New(
		httpclient.WithUserAgent(cfg.UserAgent),
		httpclient.WithProxy(cfg.ProxyAddress),
		httpclient.WithHostLimiter(limiter),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, limiter, nil
}

// newBatchProber wires a prober for cfg with progress printed to w.
func newBatchProber(cfg *config.Config, client *http.Client, limiter *httpclient.HostLimiter,
	logger *slog.Logger, w io.Writer) *pipeline.BatchProber {
	opts := []probe.Option{
		probe.WithTimeout(cfg.Timeout),
		probe.WithSampleSize(cfg.SampleSize),
		probe.WithLogger(logger),
	}
	if limiter != nil {
		opts = append(opts, probe.WithLimiter(limiter))
	}
	return pipeline.NewBatchProber(probe.New(client, opts...),
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
		pipeline.WithProgress(progressPrinter(w)),
	)
}

// progressPrinter prints one line per completed probe.
func progressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(done, total int, r model.ProbeReport) {
		outcome := "error"
		if r.HasStatus() {
			outcome = strconv.Itoa(r.StatusCode())
		}
		fmt.Fprintf(w, "[%d/%d] %s %s\n", done, total, outcome, applog.SanitizeURL(r.URL))
	}
}

// writeSummary prints the run summary to stdout (text or JSON) and, when
// requested, writes the Markdown summary file.
func writeSummary(cmd *cobra.Command, cfg *config.Config, reports []model.ProbeReport) error {
	result := report.NewResult(reports)

	asJSON, err := cmd.Flags().GetBool(flagJSON)
	if err != nil {
		return err
	}
	var out report.Writer = report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(cfg.Verbose))
	if asJSON {
		out = report.NewJSONWriter(cmd.OutOrStdout())
	}

	mdPath, err := cmd.Flags().GetString(flagMarkdown)
	if err != nil {
		return err
	}
	if mdPath != "" {
		if dir := filepath.Dir(mdPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("%w: %s: %w", report.ErrWriteFailed, mdPath, err)
			}
		}
		f, err := os.Create(mdPath) //nolint:gosec // path is supplied by the operator
		if err != nil {
			return fmt.Errorf("%w: %s: %w", report.ErrWriteFailed, mdPath, err)
		}
		defer f.Close()
		out = report.NewMultiWriter(out, report.NewMarkdownWriter(f))
	}

	if _, err := out.Write(result); err != nil {
		return fmt.Errorf("%w: summary: %w", report.ErrWriteFailed, err)
	}
	return nil
}

// inputPath returns the --input flag value, or fallback when it is unset.
func inputPath(cmd *cobra.Command, fallback string) (string, error) {
	path, err := cmd.Flags().GetString(flagInput)
	if err != nil {
		return "", err
	}
	if path == "" {
		return fallback, nil
	}
	return path, nil
}
