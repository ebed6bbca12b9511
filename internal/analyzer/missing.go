package analyzer

import "github.com/nao1215/jsonlscan/internal/model"

// MissingKeyRows returns, in ascending order, the indices of rows whose
// key set differs from all. Rows are expected in ascending order, as
// returned by Aggregator.RowKeys.
//
// The result is never nil: an empty slice means no row lacks a key.
func MissingKeyRows(all model.KeySet, rows []model.RowKeys) []int {
	missing := make([]int, 0)
	for _, rk := range rows {
		if !rk.Keys.Equal(all) {
			missing = append(missing, rk.Row)
		}
	}
	return missing
}

// MissingKeysFor returns the keys of all that row lacks.
func MissingKeysFor(all, row model.KeySet) model.KeySet {
	return all.Difference(row)
}
