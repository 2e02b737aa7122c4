package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/embedprobe/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.DefValue != config.DefaultConfigFile {
		t.Errorf("expected default %q, got %q", config.DefaultConfigFile, flag.DefValue)
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected force flag")
	}
}

func TestRunInitCmd(t *testing.T) {
	t.Run("creates a loadable config file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "nested", ".embedprobe")

		var buf bytes.Buffer
		cmd := NewInitCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-o", outputPath})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), outputPath) {
			t.Errorf("expected output to name the file, got %q", buf.String())
		}

		file, err := config.LoadConfigFile(outputPath)
		if err != nil {
			t.Fatalf("template is not valid YAML: %v", err)
		}

		cfg := config.NewConfig()
		file.Apply(cfg)
		if err := cfg.Validate(); err != nil {
			t.Errorf("template values do not validate: %v", err)
		}
		if cfg.Limit != config.DefaultLimit || cfg.Timeout != config.DefaultTimeout {
			t.Errorf("template does not match defaults: %+v", cfg)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), ".embedprobe")
		if err := os.WriteFile(outputPath, []byte("limit: 5\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", outputPath})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Fatalf("expected already exists error, got %v", err)
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), ".embedprobe")
		if err := os.WriteFile(outputPath, []byte("limit: 5\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", outputPath, "-f"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "api_url:") {
			t.Error("expected template content")
		}
	})
}
