package main

import (
	"fmt"

	"github.com/nao1215/embedprobe/internal/classify"
	"github.com/nao1215/embedprobe/internal/report"
	"github.com/spf13/cobra"
)

// NewPruneCmd creates the prune command.
func NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Write the list of embeddable channels",
		Long: `Prune reads the probe reports and keeps the URLs that:

  - answered with status 200
  - sent no X-Frame-Options header
  - sent no Content-Security-Policy frame-ancestors directive
  - use https

The accepted URLs are written to <output>/pruned_channels.json in report
order. The referrer meta flag and probe errors are informational only.

Examples:
  embedprobe prune
  embedprobe prune --input saved/embed_report.json -v`,
		Args: cobra.NoArgs,
		RunE: runPruneCmd,
	}

	addOutputFlag(cmd)
	cmd.Flags().String(flagInput, "", "Probe reports to classify (default: <output>/embed_report.json)")
	addSummaryFlags(cmd)

	return cmd
}

func runPruneCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd, cfg)

	input, err := inputPath(cmd, cfg.ReportPath())
	if err != nil {
		return err
	}
	reports, err := report.ReadReports(input)
	if err != nil {
		return err
	}

	accepted := classify.Filter(reports)

	path := cfg.AcceptedPath()
	if err := report.WriteChannels(path, accepted); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d channels)\n", path, len(accepted))

	return writeSummary(cmd, cfg, reports)
}
