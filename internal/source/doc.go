// Package source reads JSONL input into memory.
//
// A Source is anything that can be opened for reading: a file on disk or
// an in-memory buffer. Load reads a Source line by line into a Dataset,
// transparently decompressing gzip, zstd and lz4 input and computing a
// BLAKE2b digest of the raw bytes.
//
// Failing to open or read a source is fatal to a run and is reported as a
// *FileAccessError. Individual line contents are not interpreted here.
package source
