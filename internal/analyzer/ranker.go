package analyzer

import (
	"cmp"
	"slices"

	"github.com/nao1215/jsonlscan/internal/model"
)

// DefaultTopN is the default number of combinations shown in reports.
const DefaultTopN = 5

// RankCombinations groups rows by identical key set and returns every
// distinct combination ordered by descending count. Equal counts are
// ordered by ascending lexicographic comparison of the sorted key names.
func RankCombinations(rows []model.RowKeys) []model.Combination {
	counts := make(map[string]int)
	sets := make(map[string]model.KeySet)

	for _, rk := range rows {
		id := rk.Keys.Key()
		if _, ok := sets[id]; !ok {
			sets[id] = rk.Keys
		}
		counts[id]++
	}

	ranking := make([]model.Combination, 0, len(sets))
	for id, keys := range sets {
		ranking = append(ranking, model.NewCombination(keys, counts[id]))
	}

	slices.SortFunc(ranking, func(a, b model.Combination) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return a.Keys.Compare(b.Keys)
	})

	return ranking
}

// TopCombinations returns the first n entries of ranking.
// n <= 0 returns the full ranking.
func TopCombinations(ranking []model.Combination, n int) []model.Combination {
	if n <= 0 || n >= len(ranking) {
		return ranking
	}
	return ranking[:n]
}
