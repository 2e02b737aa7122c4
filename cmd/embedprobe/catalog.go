package main

import (
	"context"
	"fmt"

	"github.com/nao1215/embedprobe/internal/catalog"
	"github.com/nao1215/embedprobe/internal/report"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Fetch the channel catalog and write channels.json",
		Long: `Catalog fetches the remote event catalog, flattens it into a list of
unique channel URLs (in catalog order, up to --limit) and writes
<output>/channels.json.

With --input-channels the list is read from a local JSON file instead
(either {"channels": [...]} or a bare array). Local lists are truncated
to --limit but duplicates are kept, and an unreadable file yields an
empty list.

Examples:
  embedprobe catalog
  embedprobe catalog -n 50 -o build
  embedprobe catalog -i saved_channels.json`,
		Args: cobra.NoArgs,
		RunE: runCatalogCmd,
	}

	addOutputFlag(cmd)
	addCatalogFlags(cmd)
	addClientFlags(cmd)

	return cmd
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
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

	var channels []string
	if snapshot != "" {
		channels = catalog.LoadSnapshot(snapshot, cfg.Limit)
	} else {
		client, _, err := newHTTPClient(cfg)
		if err != nil {
			return err
		}

		fetchCtx, fetchCancel := context.WithTimeout(ctx, cfg.CatalogTimeout)
		defer fetchCancel()

		fmt.Fprintf(cmd.ErrOrStderr(), "Fetching catalog %s\n", cfg.APIURL)
		channels, err = catalog.FetchRemote(fetchCtx, client, cfg.APIURL, cfg.Limit)
		if err != nil {
			return &exitError{code: exitCatalogFailure, err: err}
		}
	}

	path := cfg.ChannelsPath()
	if err := report.WriteChannels(path, channels); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d channels)\n", path, len(channels))
	return nil
}
