// Package config holds jsonlscan's settings and loads them from defaults,
// a YAML file, JSONLSCAN_* environment variables and command-line flags,
// in increasing order of precedence.
package config
