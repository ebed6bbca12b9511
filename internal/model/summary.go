package model

import (
	"cmp"
	"slices"
)

// FailureKind classifies why a line could not be analyzed.
type FailureKind string

const (
	// FailureSyntax means the line is not valid JSON.
	FailureSyntax FailureKind = "syntax"

	// FailureNotObject means the line is valid JSON but its top level
	// is an array, a scalar or null instead of an object.
	FailureNotObject FailureKind = "not_object"
)

// String returns a human-readable label for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureSyntax:
		return "invalid JSON"
	case FailureNotObject:
		return "not a JSON object"
	default:
		return string(k)
	}
}

// LineFailure records a line that was excluded from the statistics.
type LineFailure struct {
	// Row is the zero-based row index the line would have occupied.
	Row int `json:"row" yaml:"row"`

	// Line is the 1-based physical line number in the source.
	Line int `json:"line" yaml:"line"`

	// Kind classifies the failure.
	Kind FailureKind `json:"kind" yaml:"kind"`

	// Message is the decoder's error text.
	Message string `json:"message" yaml:"message"`
}

// KeyCount is the number of rows in which a key appeared.
type KeyCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Combination is a distinct KeySet and the number of rows that have
// exactly that set of keys.
type Combination struct {
	// ID is the xxhash fingerprint of Keys.
	ID    string `json:"id" yaml:"id"`
	Keys  KeySet `json:"keys" yaml:"keys"`
	Count int    `json:"count" yaml:"count"`
}

// NewCombination creates a Combination for keys with the given count.
func NewCombination(keys KeySet, count int) Combination {
	return Combination{
		ID:    keys.Fingerprint(),
		Keys:  keys,
		Count: count,
	}
}

// Summary is the structured outcome of analyzing one JSONL source.
// It holds only derived statistics; the parsed rows themselves are
// discarded once the summary has been built.
//
// Summary carries no timestamps so that analyzing the same input twice
// produces identical output in every format.
type Summary struct {
	// Source names the analyzed input (typically the file name).
	Source string `json:"source" yaml:"source"`

	// Digest is the BLAKE2b-256 digest of the raw input bytes, hex encoded.
	// Empty when the source did not compute one.
	Digest string `json:"digest,omitempty" yaml:"digest,omitempty"`

	// SchemaFingerprint identifies AllKeys; two runs with the same
	// fingerprint discovered exactly the same keys.
	SchemaFingerprint string `json:"schema_fingerprint" yaml:"schema_fingerprint"`

	// RowsSeen counts non-blank lines, parsed or not.
	RowsSeen int `json:"rows_seen" yaml:"rows_seen"`

	// RowsParsed counts lines that parsed into a JSON object.
	RowsParsed int `json:"rows_parsed" yaml:"rows_parsed"`

	// FailedLines counts lines excluded because they failed to parse.
	FailedLines int `json:"failed_lines" yaml:"failed_lines"`

	// Failures holds the first few failures for diagnostics.
	// len(Failures) may be smaller than FailedLines.
	Failures []LineFailure `json:"failures" yaml:"failures"`

	// AllKeys is the union of every row's KeySet.
	AllKeys KeySet `json:"all_keys" yaml:"all_keys"`

	// KeyCounts lists each key with its row count, sorted by key.
	KeyCounts []KeyCount `json:"key_counts" yaml:"key_counts"`

	// MissingKeyRows lists, in ascending order, rows lacking at least one key
	// of AllKeys. It is empty, never nil, when no row is missing keys.
	MissingKeyRows []int `json:"missing_key_rows" yaml:"missing_key_rows"`

	// DistinctCombinations is the size of the full combination ranking.
	DistinctCombinations int `json:"distinct_combinations" yaml:"distinct_combinations"`

	// TopN is the display limit that produced TopCombinations.
	TopN int `json:"top_n" yaml:"top_n"`

	// TopCombinations is the head of the combination ranking.
	TopCombinations []Combination `json:"top_combinations" yaml:"top_combinations"`
}

// UniqueKeyCount returns the number of distinct keys found.
func (s *Summary) UniqueKeyCount() int {
	return s.AllKeys.Len()
}

// HasFailures reports whether any line failed to parse.
func (s *Summary) HasFailures() bool {
	return s.FailedLines > 0
}

// HasMissingKeyRows reports whether at least one row lacks a key.
func (s *Summary) HasMissingKeyRows() bool {
	return len(s.MissingKeyRows) > 0
}

// KeyCountMap returns KeyCounts as a map.
func (s *Summary) KeyCountMap() map[string]int {
	counts := make(map[string]int, len(s.KeyCounts))
	for _, kc := range s.KeyCounts {
		counts[kc.Key] = kc.Count
	}
	return counts
}

// SortedKeyCounts converts a key -> count map to a slice sorted by key.
func SortedKeyCounts(counts map[string]int) []KeyCount {
	result := make([]KeyCount, 0, len(counts))
	for key, count := range counts {
		result = append(result, KeyCount{Key: key, Count: count})
	}
	slices.SortFunc(result, func(a, b KeyCount) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return result
}
