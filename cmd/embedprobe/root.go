package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/embedprobe/internal/catalog"
	"github.com/nao1215/embedprobe/internal/report"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK             = 0
	exitFailure        = 1
	exitInputMissing   = 2
	exitCatalogFailure = 3
)

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// exitCode maps err to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var ee *exitError
	switch {
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, report.ErrInputNotFound):
		return exitInputMissing
	case errors.Is(err, catalog.ErrFetchFailed),
		errors.Is(err, catalog.ErrUnexpectedStatus),
		errors.Is(err, catalog.ErrMalformedCatalog):
		return exitCatalogFailure
	default:
		return exitFailure
	}
}

// NewRootCmd creates the root command for embedprobe.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embedprobe",
		Short: "Find stream URLs that can be embedded in an iframe",
		Long: `embedprobe checks candidate video-stream URLs for framing restrictions
(X-Frame-Options, Content-Security-Policy frame-ancestors) and transport
security, and keeps only the URLs that are safe to embed in a third-party page.

Each stage reads and writes a JSON file in the output directory:

  catalog  -> channels.json
  probe    -> embed_report.json
  prune    -> pruned_channels.json

'run' executes all stages in one go.

Exit codes: 0 success, 1 failure, 2 missing input file, 3 catalog fetch failure.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .embedprobe in current directory, XDG config dir or home)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewProbeCmd())
	cmd.AddCommand(NewPruneCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with the mapped exit code on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
