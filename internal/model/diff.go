package model

// KeyDelta records how a key's row count changed between two summaries.
type KeyDelta struct {
	Key      string `json:"key" yaml:"key"`
	OldCount int    `json:"old_count" yaml:"old_count"`
	NewCount int    `json:"new_count" yaml:"new_count"`
}

// Delta returns NewCount - OldCount.
func (d KeyDelta) Delta() int {
	return d.NewCount - d.OldCount
}

// SchemaDiff describes how the key shape of a source changed between two
// analyses.
type SchemaDiff struct {
	AddedKeys   KeySet     `json:"added_keys" yaml:"added_keys"`
	RemovedKeys KeySet     `json:"removed_keys" yaml:"removed_keys"`
	CountDeltas []KeyDelta `json:"count_deltas" yaml:"count_deltas"`

	RowsParsedDelta  int `json:"rows_parsed_delta" yaml:"rows_parsed_delta"`
	FailedLinesDelta int `json:"failed_lines_delta" yaml:"failed_lines_delta"`

	// SchemaChanged is true when the two runs discovered different key sets.
	SchemaChanged bool `json:"schema_changed" yaml:"schema_changed"`
}

// HasChanges reports whether anything differs between the two summaries.
func (d *SchemaDiff) HasChanges() bool {
	return d.SchemaChanged ||
		len(d.CountDeltas) > 0 ||
		d.RowsParsedDelta != 0 ||
		d.FailedLinesDelta != 0
}

// CompareSummaries computes the difference from older to newer.
// Count deltas are reported for keys present in both summaries whose
// counts differ, in ascending key order.
func CompareSummaries(older, newer *Summary) *SchemaDiff {
	diff := &SchemaDiff{
		AddedKeys:        newer.AllKeys.Difference(older.AllKeys),
		RemovedKeys:      older.AllKeys.Difference(newer.AllKeys),
		CountDeltas:      []KeyDelta{},
		RowsParsedDelta:  newer.RowsParsed - older.RowsParsed,
		FailedLinesDelta: newer.FailedLines - older.FailedLines,
	}
	diff.SchemaChanged = !older.AllKeys.Equal(newer.AllKeys)

	oldCounts := older.KeyCountMap()
	for _, kc := range newer.KeyCounts {
		oldCount, ok := oldCounts[kc.Key]
		if !ok || oldCount == kc.Count {
			continue
		}
		diff.CountDeltas = append(diff.CountDeltas, KeyDelta{
			Key:      kc.Key,
			OldCount: oldCount,
			NewCount: kc.Count,
		})
	}

	return diff
}
