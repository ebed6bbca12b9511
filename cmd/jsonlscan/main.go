// Package main provides the entry point for the jsonlscan CLI.
//
// jsonlscan summarizes the key shape of a JSON Lines file: which top-level
// keys appear, how often, which rows lack some of them and which key
// combinations are most common.
//
// Usage:
//
//	jsonlscan analyze data.jsonl
//	jsonlscan analyze --filename=data.jsonl.gz --top 10
//
// See --help for all available options.
package main

func main() {
	Execute()
}
