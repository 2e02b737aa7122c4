package main

import (
	"fmt"

	"github.com/nao1215/embedprobe/internal/report"
	"github.com/spf13/cobra"
)

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe every channel for framing restrictions",
		Long: `Probe reads a channel list and checks every URL with a HEAD request,
falling back to a single GET when the server rejects HEAD (status >= 400)
or the request fails. It records the final status and URL, the
X-Frame-Options and Content-Security-Policy frame-ancestors headers, and,
on the GET path, whether the page sets a referrer meta tag.

The reports are written to <output>/embed_report.json in input order.

Examples:
  embedprobe probe
  embedprobe probe --input saved/channels.json --concurrency 50
  embedprobe probe --proxy 127.0.0.1:1080 --rate-per-host 2
  embedprobe probe --markdown out/summary.md`,
		Args: cobra.NoArgs,
		RunE: runProbeCmd,
	}

	addOutputFlag(cmd)
	cmd.Flags().String(flagInput, "", "Channel list to probe (default: <output>/channels.json)")
	addProbeFlags(cmd)
	addClientFlags(cmd)
	addSummaryFlags(cmd)

	return cmd
}

func runProbeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	ctx, cancel := signalContext(logger)
	defer cancel()

	input, err := inputPath(cmd, cfg.ChannelsPath())
	if err != nil {
		return err
	}
	channels, err := report.ReadChannels(input)
	if err != nil {
		return err
	}

	client, limiter, err := newHTTPClient(cfg)
	if err != nil {
		return err
	}

	reports, probeErr := newBatchProber(cfg, client, limiter, logger, cmd.ErrOrStderr()).ProbeAll(ctx, channels)

	path := cfg.ReportPath()
	if err := report.WriteReports(path, reports); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d reports)\n", path, len(reports))

	if err := writeSummary(cmd, cfg, reports); err != nil {
		return err
	}
	if probeErr != nil {
		return fmt.Errorf("probing interrupted: %w", probeErr)
	}
	return nil
}
