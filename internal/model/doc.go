// Package model defines the data structures shared by the jsonlscan packages.
//
// This package contains the following main types:
//   - KeySet: the canonical, sorted set of top-level keys of one JSON object
//   - RowKeys: a row index paired with its KeySet
//   - Combination: a distinct KeySet and the number of rows exhibiting it
//   - LineFailure: a line that could not be turned into a JSON object
//   - Summary: the structured outcome of analyzing one JSONL source
//   - SchemaDiff: the difference between two summaries of the same source
//
// Models are kept in their own package so that the parser, analyzer, report
// writers and history store can share them without import cycles. All of
// them serialize to JSON and YAML.
package model
