package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/jsonlscan/internal/config"
	"github.com/nao1215/jsonlscan/internal/database"
	"github.com/nao1215/jsonlscan/internal/model"
	"github.com/nao1215/jsonlscan/internal/pipeline"
	"github.com/nao1215/jsonlscan/internal/report"
	"github.com/nao1215/jsonlscan/internal/source"
)

// errConflictingInput is returned when --filename and the positional
// argument name different files.
var errConflictingInput = errors.New("conflicting input: --filename and the file argument differ")

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze the keys of a JSONL file",
		Long: `Analyze reads a JSONL file and reports:
- the number of unique top-level keys and how many rows contain each
- the rows missing at least one key
- the most frequent key combinations

Blank lines are ignored. Lines that are not JSON objects are counted as
failures and excluded; they never change the exit status. Each analysis
is recorded in the history database unless --no-history is given.

Examples:
  # Analyze a file
  jsonlscan analyze data.jsonl

  # Same, with the file given as a flag
  jsonlscan analyze --filename=data.jsonl

  # Show the ten most frequent combinations as Markdown
  jsonlscan analyze -n 10 --format markdown data.jsonl

  # Write a JSON summary to a file
  jsonlscan analyze --format json -o summary.json data.jsonl.zst`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("filename", "f", "", "JSONL file to analyze")
	cmd.Flags().IntP("top", "n", config.DefaultTop,
		"Number of key combinations to show (0 shows all)")
	cmd.Flags().String("format", config.DefaultFormat,
		"Report format: text, markdown, json or yaml")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().String("compression", config.DefaultCompression,
		"Input compression: auto, none, gzip, zstd or lz4")
	cmd.Flags().Int("failure-samples", config.DefaultFailureSamples,
		"Number of failing lines listed in the report")
	cmd.Flags().Bool("tee", false,
		"Also print the text report to stdout when --output is set")
	cmd.Flags().Bool("no-history", false, "Do not record this analysis in the history database")
	cmd.Flags().String("db-dir", "", "History database directory (default: XDG data directory)")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := resolveInput(cfg, args); err != nil {
		return err
	}
	if err := cfg.RequireInput(); err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())

	src := source.NewFileSource(cfg.Filename)
	summary, err := pipeline.Analyze(src, pipeline.Settings{
		TopN:           cfg.Top,
		FailureSamples: cfg.FailureSamples,
		Compression:    cfg.InputCompression(),
	}, logger)
	if err != nil {
		return err
	}

	tee, err := cmd.Flags().GetBool("tee")
	if err != nil {
		return err
	}

	if err := outputReport(cfg, cmd.OutOrStdout(), tee, summary); err != nil {
		return err
	}

	if cfg.History {
		saveAnalysis(cmd.Context(), cfg, summary, logger)
	}

	return nil
}

// resolveInput merges the positional file argument into cfg.
func resolveInput(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if cfg.Filename != "" && cfg.Filename != args[0] {
		return fmt.Errorf("%w: %s and %s", errConflictingInput, cfg.Filename, args[0])
	}
	cfg.Filename = args[0]
	return nil
}

// outputReport renders summary to cfg.Output, or stdout when unset.
// With tee, the text report is also written to stdout.
func outputReport(cfg *config.Config, stdout io.Writer, tee bool, summary *model.Summary) error {
	if cfg.Output == "" {
		writer, err := newReportWriter(cfg.ReportFormat(), stdout, cfg.Verbose)
		if err != nil {
			return err
		}
		_, err = writer.Write(summary)
		return err
	}

	dir := filepath.Dir(cfg.Output)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer, err := newReportWriter(cfg.ReportFormat(), f, cfg.Verbose)
	if err != nil {
		return err
	}
	if tee {
		writer = report.NewMultiWriter(writer, report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose)))
	}

	_, err = writer.Write(summary)
	return err
}

// newReportWriter returns the writer for format. Verbose text reports
// list every sampled failure with its reason.
func newReportWriter(format report.Format, w io.Writer, verbose bool) (report.Writer, error) {
	f, err := report.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if f == report.FormatText {
		return report.NewSimpleWriter(w, report.WithVerbose(verbose)), nil
	}
	return report.NewWriter(f, w)
}

// saveAnalysis records summary in the history database. Failures are
// logged; history is never allowed to fail an analysis.
func saveAnalysis(ctx context.Context, cfg *config.Config, summary *model.Summary, logger *slog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}

	key, err := historyKey(cfg.Filename)
	if err != nil {
		logger.Warn("failed to resolve input path for history", "error", err)
		return
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	id, err := db.SaveAnalysis(ctx, key, summary)
	if err != nil {
		logger.Warn("failed to save analysis", "error", err)
		return
	}
	logger.Info("analysis saved to history", "id", id, "source", key)
}

// historyKey identifies a file in the history database.
func historyKey(path string) (string, error) {
	return filepath.Abs(path)
}
