package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/nao1215/jsonlscan/internal/config"
	"github.com/nao1215/jsonlscan/internal/database"
	"github.com/nao1215/jsonlscan/internal/model"
)

func TestNewAnalyzeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCmd()

	if cmd.Use != "analyze [file]" {
		t.Errorf("expected use 'analyze [file]', got %q", cmd.Use)
	}

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "filename", shorthand: "f", defValue: ""},
		{name: "top", shorthand: "n", defValue: "5"},
		{name: "format", shorthand: "", defValue: "text"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "compression", shorthand: "", defValue: "auto"},
		{name: "tee", shorthand: "", defValue: "false"},
		{name: "no-history", shorthand: "", defValue: "false"},
		{name: "db-dir", shorthand: "", defValue: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("expected default %q, got %q", tt.defValue, flag.DefValue)
			}
		})
	}
}

func TestRunAnalyzeCmd(t *testing.T) {
	t.Parallel()

	t.Run("text report", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		out, err := executeCmd(t, "analyze", "--no-history", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"JSONL analysis of data.jsonl",
			"Rows processed: 4",
			"Rows analyzed:  3",
			"Lines failed:   1",
			"Found 3 unique JSON keys in file data.jsonl",
			"Rows with missing keys: [0, 1]",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("filename flag", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		out, err := executeCmd(t, "analyze", "--no-history", "--filename", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Found 3 unique JSON keys") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("json report", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		out, err := executeCmd(t, "analyze", "--no-history", "--format", "json", "-n", "1", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var summary model.Summary
		if err := json.Unmarshal([]byte(out), &summary); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, out)
		}
		if summary.RowsParsed != 3 {
			t.Errorf("expected 3 rows parsed, got %d", summary.RowsParsed)
		}
		if summary.FailedLines != 1 {
			t.Errorf("expected 1 failed line, got %d", summary.FailedLines)
		}
		if len(summary.TopCombinations) != 1 {
			t.Errorf("expected 1 combination, got %d", len(summary.TopCombinations))
		}
		if summary.DistinctCombinations != 3 {
			t.Errorf("expected 3 distinct combinations, got %d", summary.DistinctCombinations)
		}
	})

	t.Run("writes report to output file", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		output := filepath.Join(t.TempDir(), "reports", "summary.md")
		out, err := executeCmd(t, "analyze", "--no-history", "--format", "markdown", "-o", output, path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got:\n%s", out)
		}

		content, err := os.ReadFile(output) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(content), "# ") {
			t.Errorf("expected markdown heading, got:\n%s", content)
		}
	})

	t.Run("verbose lists failed lines", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		out, err := executeCmd(t, "analyze", "--no-history", "-v", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "line 3 (row 2): invalid JSON") {
			t.Errorf("expected failure detail, got:\n%s", out)
		}
	})

	t.Run("tee writes file and text to stdout", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		output := filepath.Join(t.TempDir(), "summary.json")
		out, err := executeCmd(t, "analyze", "--no-history", "--format", "json", "-o", output, "--tee", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "JSONL analysis of data.jsonl") {
			t.Errorf("expected text report on stdout, got:\n%s", out)
		}

		content, err := os.ReadFile(output) //nolint:gosec // test file
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var summary model.Summary
		if err := json.Unmarshal(content, &summary); err != nil {
			t.Fatalf("output file is not JSON: %v", err)
		}
		if summary.RowsParsed != 3 {
			t.Errorf("expected 3 rows parsed, got %d", summary.RowsParsed)
		}
	})

	t.Run("records history", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		dbDir := t.TempDir()
		if _, err := executeCmd(t, "analyze", "--db-dir", dbDir, path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		db, err := database.Open(dbDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		key, err := historyKey(path)
		if err != nil {
			t.Fatalf("historyKey: %v", err)
		}
		latest, err := db.LatestAnalysis(t.Context(), key)
		if err != nil {
			t.Fatalf("LatestAnalysis: %v", err)
		}
		if latest == nil {
			t.Fatal("expected a recorded analysis")
		}
		if latest.Summary.RowsParsed != 3 {
			t.Errorf("expected 3 rows parsed, got %d", latest.Summary.RowsParsed)
		}
	})

	t.Run("no-history leaves database empty", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		dbDir := t.TempDir()
		if _, err := executeCmd(t, "analyze", "--no-history", "--db-dir", dbDir, path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); !os.IsNotExist(err) {
			t.Errorf("expected no database file, stat returned %v", err)
		}
	})

	t.Run("file not found", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "missing.jsonl")
		if _, err := executeCmd(t, "analyze", "--no-history", missing); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("invalid top", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		if _, err := executeCmd(t, "analyze", "--no-history", "--top=-1", path); err == nil {
			t.Fatal("expected error for negative top")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		path := writeSample(t, "data.jsonl", sampleLines...)
		if _, err := executeCmd(t, "analyze", "--no-history", "--format", "csv", path); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestResolveInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		args     []string
		want     string
		wantErr  bool
	}{
		{name: "argument only", args: []string{"a.jsonl"}, want: "a.jsonl"},
		{name: "flag only", filename: "a.jsonl", want: "a.jsonl"},
		{name: "same file twice", filename: "a.jsonl", args: []string{"a.jsonl"}, want: "a.jsonl"},
		{name: "conflict", filename: "a.jsonl", args: []string{"b.jsonl"}, wantErr: true},
		{name: "neither", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Filename = tt.filename

			err := resolveInput(cfg, tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Filename != tt.want {
				t.Errorf("expected filename %q, got %q", tt.want, cfg.Filename)
			}
		})
	}
}
