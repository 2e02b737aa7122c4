package main

import (
	"fmt"

	"github.com/nao1215/embedprobe/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, probe and prune in one go",
		Long: `Run executes catalog, probe and prune in sequence and writes the same
files as running them one by one:

  <output>/channels.json
  <output>/embed_report.json
  <output>/pruned_channels.json

A catalog failure stops the run before any URL is probed. Interrupting
the run (Ctrl+C) still writes the reports gathered so far; unfinished
probes are recorded as errors.

Examples:
  embedprobe run
  embedprobe run -n 50 --concurrency 10 --markdown out/summary.md
  embedprobe run -i saved_channels.json`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addOutputFlag(cmd)
	addCatalogFlags(cmd)
	addProbeFlags(cmd)
	addClientFlags(cmd)
	addSummaryFlags(cmd)

	return cmd
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd, cfg)

	ctx, cancel := signalContext(logger)
	defer cancel()

	snapshot, err := cmd.Flags().GetString(flagInputChannels)
	if err != nil {
		return err
	}

	client, limiter, err := newHTTPClient(cfg)
	if err != nil {
		return err
	}

	catalogOpts := []pipeline.CatalogStepOption{
		pipeline.WithCatalogOutput(cfg.ChannelsPath()),
		pipeline.WithFetchTimeout(cfg.CatalogTimeout),
	}
	if snapshot != "" {
		catalogOpts = append(catalogOpts, pipeline.WithSnapshot(snapshot))
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewCatalogStep(client, cfg.APIURL, cfg.Limit, catalogOpts...),
		pipeline.NewProbeStep(newBatchProber(cfg, client, limiter, logger, cmd.ErrOrStderr()), cfg.ReportPath()),
		pipeline.NewClassifyStep(cfg.AcceptedPath()),
	)

	// A catalog error keeps Reports nil, so no summary is printed and the
	// error maps to the catalog exit code.
	run := &pipeline.Run{}
	runErr := p.Execute(ctx, run)

	if run.Reports != nil {
		if err := writeSummary(cmd, cfg, run.Reports); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d channels)\n", cfg.AcceptedPath(), len(run.Accepted))
	return nil
}
