package analyzer

import (
	"github.com/nao1215/jsonlscan/internal/model"
)

// Summarize runs the missing-key analysis and combination ranking over
// the aggregator's state and returns the resulting Summary.
// Source and Digest are left for the caller to fill in.
func Summarize(agg *Aggregator, topN int) *model.Summary {
	allKeys := agg.AllKeys()
	rows := agg.RowKeys()
	ranking := RankCombinations(rows)

	return &model.Summary{
		SchemaFingerprint:    allKeys.Fingerprint(),
		RowsSeen:             agg.RowsSeen(),
		RowsParsed:           agg.RowsParsed(),
		FailedLines:          agg.FailedLines(),
		Failures:             agg.Failures(),
		AllKeys:              allKeys,
		KeyCounts:            model.SortedKeyCounts(agg.KeyCounts()),
		MissingKeyRows:       MissingKeyRows(allKeys, rows),
		DistinctCombinations: len(ranking),
		TopN:                 topN,
		TopCombinations:      TopCombinations(ranking, topN),
	}
}
