package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultConfigFile is the configuration file name searched for in the
// current and home directories.
const DefaultConfigFile = ".jsonlscan.yaml"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// EnvPrefix prefixes environment variables: JSONLSCAN_TOP sets top.
const EnvPrefix = "JSONLSCAN_"

// flagKeys maps command-line flag names to configuration keys.
// Flags missing here (--config, --list, ...) are not configuration.
var flagKeys = map[string]string{
	"filename":        "filename",
	"top":             "top",
	"format":          "format",
	"output":          "output",
	"compression":     "compression",
	"failure-samples": "failure_samples",
	"no-history":      "history",
	"db-dir":          "db_dir",
	"verbose":         "verbose",
	"log-format":      "log_format",
}

// FindConfigFile searches for the configuration file in the following order:
//  1. configPath, if given
//  2. .jsonlscan.yaml in the current directory
//  3. .jsonlscan.yaml in the home directory
//  4. config.yaml in the XDG config directory
//
// It returns an empty string when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load builds a Config from, lowest precedence first: defaults, the
// configuration file, JSONLSCAN_* environment variables and the flags in
// flags that were explicitly set. configPath names the file; empty means
// search with FindConfigFile. flags may be nil.
//
// The result is not validated.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	defaults := NewConfig()

	if err := k.Load(confmap.Provider(map[string]any{
		"top":             defaults.Top,
		"format":          defaults.Format,
		"output":          defaults.Output,
		"compression":     defaults.Compression,
		"failure_samples": defaults.FailureSamples,
		"history":         defaults.History,
		"db_dir":          defaults.DBDir,
		"verbose":         defaults.Verbose,
		"log_format":      defaults.LogFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := FindConfigFile(configPath)
	if configPath != "" && used == "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", used, err)
		}
	}

	// JSONLSCAN_FAILURE_SAMPLES -> failure_samples
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			if f.Name == "no-history" {
				noHistory, _ := flags.GetBool(f.Name)
				return key, !noHistory
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFile = used

	return cfg, nil
}
