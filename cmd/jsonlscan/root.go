package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/jsonlscan/internal/config"
	"github.com/nao1215/jsonlscan/internal/log"
)

// NewRootCmd creates the root command for jsonlscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsonlscan",
		Short: "Summarize the key shape of JSON Lines files",
		Long: `jsonlscan analyzes JSON Lines (JSONL) files, one JSON object per line.

It reports the distinct top-level keys and how many rows contain each,
the rows that lack at least one key, and the most frequent combinations
of keys. Lines that are not JSON objects are counted and skipped.

Gzip, zstd and lz4 compressed files are decompressed transparently.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: text or json")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .jsonlscan.yaml in current or home directory)")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers the configuration file, environment and the
// command's flags, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cfg, nil
}

// setupLogger builds the logger selected by cfg and makes it the default.
func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var logger *slog.Logger
	if cfg.LogFormat == config.LogFormatJSON {
		logger = log.NewJSONLogger(w, cfg.Verbose)
	} else {
		logger = log.NewLogger(w, cfg.Verbose)
	}
	slog.SetDefault(logger)
	return logger
}
