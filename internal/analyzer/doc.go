// Package analyzer aggregates per-row key sets into dataset statistics.
//
// The Aggregator consumes rows one at a time in file order and tracks the
// union of all keys, per-key row counts, parse failures and the key set of
// every row. Once all rows are in, MissingKeyRows and RankCombinations
// derive the rows lacking keys and the frequency ranking of key
// combinations; Summarize packages everything as a model.Summary.
//
// Nothing in this package logs or performs I/O.
package analyzer
