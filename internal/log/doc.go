// Package log provides the application's slog setup.
//
// Every logger built here wraps its output handler in a RedactingHandler,
// which:
//   - masks attributes whose key names suggest credentials (token,
//     password, authorization, ...)
//   - masks string values that look like secrets (JWTs, bearer tokens,
//     AWS access keys, PEM private keys)
//   - truncates very long string values such as line previews
//
// JSONL datasets routinely carry API tokens and session identifiers, and
// failing lines are logged as previews in verbose mode; the handler keeps
// those values out of logs that may be shared.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("line failed to parse",
//	    "row", 3,
//	    "preview", `{"token":"eyJhbGciOi...`,
//	)
package log
