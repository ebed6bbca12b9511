package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/nao1215/jsonlscan/internal/analyzer"
	"github.com/nao1215/jsonlscan/internal/report"
	"github.com/nao1215/jsonlscan/internal/source"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "jsonlscan"

	// DefaultTop is the number of key combinations shown.
	DefaultTop = analyzer.DefaultTopN

	// DefaultFormat renders the plain-text report.
	DefaultFormat = string(report.FormatText)

	// DefaultCompression detects the input encoding from magic bytes.
	DefaultCompression = string(source.CompressionAuto)

	// DefaultFailureSamples is the number of failing lines listed in reports.
	DefaultFailureSamples = analyzer.DefaultFailureSampleLimit

	// DefaultLogFormat writes human-readable log lines.
	DefaultLogFormat = LogFormatText
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all settings for one invocation.
type Config struct {
	// Filename is the JSONL file to analyze.
	Filename string `koanf:"filename" yaml:"-"`

	// Top is how many key combinations the report lists. Zero lists all.
	Top int `koanf:"top" yaml:"top"`

	// Format is the report format: text, markdown, json or yaml.
	Format string `koanf:"format" yaml:"format"`

	// Output is the report file. Empty writes to stdout.
	Output string `koanf:"output" yaml:"output"`

	// Compression is the input encoding: auto, none, gzip, zstd or lz4.
	Compression string `koanf:"compression" yaml:"compression"`

	// FailureSamples is how many failing lines are kept for the report.
	FailureSamples int `koanf:"failure_samples" yaml:"failure_samples"`

	// History records each analysis in the history database.
	History bool `koanf:"history" yaml:"history"`

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/jsonlscan on Linux).
	DBDir string `koanf:"db_dir" yaml:"db_dir"`

	// Verbose lowers the log level to Debug.
	Verbose bool `koanf:"verbose" yaml:"verbose"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format" yaml:"log_format"`

	// ConfigFile is the configuration file that was loaded, if any.
	ConfigFile string `koanf:"-" yaml:"-"`
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Top:            DefaultTop,
		Format:         DefaultFormat,
		Compression:    DefaultCompression,
		FailureSamples: DefaultFailureSamples,
		History:        true,
		DBDir:          XDGDataDir(),
		LogFormat:      DefaultLogFormat,
	}
}

// XDGDataDir returns the XDG data directory for jsonlscan.
// On Linux: ~/.local/share/jsonlscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for jsonlscan.
// On Linux: ~/.config/jsonlscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ReportFormat returns Format as a report.Format.
func (c *Config) ReportFormat() report.Format {
	return report.Format(c.Format)
}

// InputCompression returns Compression as a source.Compression.
func (c *Config) InputCompression() source.Compression {
	return source.Compression(c.Compression)
}

// Validate checks the settings and returns the first problem found.
// It does not require an input file; see RequireInput.
func (c *Config) Validate() error {
	if c.Top < 0 {
		return ErrInvalidTopN
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}

	if _, err := source.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCompression, c.Compression)
	}

	if c.FailureSamples < 0 {
		return ErrInvalidFailureSamples
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	return nil
}

// RequireInput returns ErrNoInput when no input file is set.
func (c *Config) RequireInput() error {
	if c.Filename == "" {
		return ErrNoInput
	}
	return nil
}
