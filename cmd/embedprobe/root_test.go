package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nao1215/embedprobe/internal/catalog"
	"github.com/nao1215/embedprobe/internal/report"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "embedprobe" {
			t.Errorf("expected use 'embedprobe', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has persistent flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"verbose", "config", "log-json"} {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("expected persistent flag %q", name)
			}
		}
		if f := cmd.PersistentFlags().Lookup("verbose"); f != nil && f.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", f.Shorthand)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"catalog": false, "probe": false, "prune": false, "run": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected subcommand %q", name)
			}
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"generic", errors.New("boom"), exitFailure},
		{"missing input", fmt.Errorf("%w: out/channels.json", report.ErrInputNotFound), exitInputMissing},
		{"catalog status", fmt.Errorf("%w: 503", catalog.ErrUnexpectedStatus), exitCatalogFailure},
		{"catalog fetch", fmt.Errorf("x: %w", catalog.ErrFetchFailed), exitCatalogFailure},
		{"catalog json", catalog.ErrMalformedCatalog, exitCatalogFailure},
		{"explicit", &exitError{code: 7, err: errors.New("custom")}, 7},
		{"wrapped explicit", fmt.Errorf("outer: %w", &exitError{code: exitCatalogFailure, err: errors.New("x")}), exitCatalogFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	err := &exitError{code: exitFailure, err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected exitError to unwrap")
	}
	if err.Error() != "inner" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
