package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/jsonlscan/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "init" {
			t.Errorf("expected use 'init', got %q", cmd.Use)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultConfigFile {
			t.Errorf("expected default %q, got %q", config.DefaultConfigFile, flag.DefValue)
		}
	})

	t.Run("has force flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("force")
		if flag == nil {
			t.Fatal("expected force flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
	})
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "jsonlscan.yaml")
		out, err := executeCmd(t, "init", "-o", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Created configuration file: "+path) {
			t.Errorf("unexpected output:\n%s", out)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected file to exist: %v", err)
		}
	})

	t.Run("generated file loads with defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "jsonlscan.yaml")
		if _, err := executeCmd(t, "init", "-o", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg, err := config.Load(path, nil)
		if err != nil {
			t.Fatalf("failed to load generated config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("generated config is invalid: %v", err)
		}
		if cfg.Top != config.DefaultTop {
			t.Errorf("expected top %d, got %d", config.DefaultTop, cfg.Top)
		}
		if !cfg.History {
			t.Error("expected history to be enabled")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "jsonlscan.yaml")
		if err := os.WriteFile(path, []byte("top: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := executeCmd(t, "init", "-o", path); err == nil {
			t.Fatal("expected error for existing file")
		}

		content, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "top: 1\n" {
			t.Error("existing file was modified")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "jsonlscan.yaml")
		if err := os.WriteFile(path, []byte("top: 1\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := executeCmd(t, "init", "-f", "-o", path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "failure_samples:") {
			t.Error("expected template content")
		}
	})
}
