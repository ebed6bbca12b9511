// Package database stores the history of analyses in SQLite.
//
// Each analysis is saved with its full model.Summary as JSON plus a few
// denormalized columns (digest, schema fingerprint, row counts) so that
// listings do not need to decode summaries. The history command compares
// stored summaries to show how a file's key shape changed between runs.
//
// The store uses modernc.org/sqlite, a CGO-free driver, and keeps the
// database in a single file.
package database
