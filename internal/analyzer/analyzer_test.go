package analyzer

import (
	"slices"
	"testing"

	"github.com/nao1215/jsonlscan/internal/model"
)

// TestMissingKeyRows tests detection of rows lacking keys.
func TestMissingKeyRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sets []model.KeySet
		want []int
	}{
		{
			name: "rows without b are missing keys",
			sets: []model.KeySet{
				model.NewKeySet("a"),
				model.NewKeySet("a", "b"),
				model.NewKeySet("a"),
			},
			want: []int{0, 2},
		},
		{
			name: "identical rows are not missing keys",
			sets: []model.KeySet{
				model.NewKeySet("a", "b"),
				model.NewKeySet("b", "a"),
			},
			want: []int{},
		},
		{
			name: "no rows",
			sets: nil,
			want: []int{},
		},
		{
			name: "disjoint rows all miss keys",
			sets: []model.KeySet{
				model.NewKeySet("a"),
				model.NewKeySet("b"),
			},
			want: []int{0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			agg := addRows(t, tt.sets...)
			got := MissingKeyRows(agg.AllKeys(), agg.RowKeys())
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMissingKeysFor(t *testing.T) {
	t.Parallel()

	got := MissingKeysFor(model.NewKeySet("a", "b", "c"), model.NewKeySet("b"))
	if !got.Equal(model.KeySet{"a", "c"}) {
		t.Errorf("got %v, want (a, c)", got)
	}
}

// TestRankCombinations tests ranking order and tie-breaks.
func TestRankCombinations(t *testing.T) {
	t.Parallel()

	t.Run("orders by descending count", func(t *testing.T) {
		t.Parallel()

		agg := addRows(t,
			model.NewKeySet("a"),
			model.NewKeySet("a", "b"),
			model.NewKeySet("a"),
		)
		ranking := RankCombinations(agg.RowKeys())

		if len(ranking) != 2 {
			t.Fatalf("got %d combinations, want 2", len(ranking))
		}
		if !ranking[0].Keys.Equal(model.KeySet{"a"}) || ranking[0].Count != 2 {
			t.Errorf("first: got %v x%d", ranking[0].Keys, ranking[0].Count)
		}
		if !ranking[1].Keys.Equal(model.KeySet{"a", "b"}) || ranking[1].Count != 1 {
			t.Errorf("second: got %v x%d", ranking[1].Keys, ranking[1].Count)
		}
	})

	t.Run("breaks ties by ascending key sequence", func(t *testing.T) {
		t.Parallel()

		agg := addRows(t,
			model.NewKeySet("b"),
			model.NewKeySet("a", "c"),
			model.NewKeySet("a"),
			model.NewKeySet("a", "b"),
		)
		ranking := RankCombinations(agg.RowKeys())

		want := []model.KeySet{{"a"}, {"a", "b"}, {"a", "c"}, {"b"}}
		if len(ranking) != len(want) {
			t.Fatalf("got %d combinations, want %d", len(ranking), len(want))
		}
		for i, keys := range want {
			if !ranking[i].Keys.Equal(keys) {
				t.Errorf("position %d: got %v, want %v", i, ranking[i].Keys, keys)
			}
		}
	})

	t.Run("ranking is deterministic", func(t *testing.T) {
		t.Parallel()

		var sets []model.KeySet
		for i := range 50 {
			switch i % 4 {
			case 0:
				sets = append(sets, model.NewKeySet("x", "y"))
			case 1:
				sets = append(sets, model.NewKeySet("y"))
			case 2:
				sets = append(sets, model.NewKeySet("x"))
			default:
				sets = append(sets, model.NewKeySet("z"))
			}
		}
		agg := addRows(t, sets...)
		first := RankCombinations(agg.RowKeys())

		for range 20 {
			again := RankCombinations(agg.RowKeys())
			for i := range first {
				if !first[i].Keys.Equal(again[i].Keys) || first[i].Count != again[i].Count {
					t.Fatalf("ranking changed at %d: %v vs %v", i, first[i], again[i])
				}
			}
		}
	})

	t.Run("carries fingerprints", func(t *testing.T) {
		t.Parallel()

		agg := addRows(t, model.NewKeySet("a"))
		ranking := RankCombinations(agg.RowKeys())
		if ranking[0].ID != model.NewKeySet("a").Fingerprint() {
			t.Errorf("unexpected id %q", ranking[0].ID)
		}
	})
}

func TestTopCombinations(t *testing.T) {
	t.Parallel()

	ranking := []model.Combination{
		model.NewCombination(model.NewKeySet("a"), 3),
		model.NewCombination(model.NewKeySet("b"), 2),
		model.NewCombination(model.NewKeySet("c"), 1),
	}

	tests := []struct {
		n    int
		want int
	}{
		{0, 3},
		{-1, 3},
		{2, 2},
		{3, 3},
		{10, 3},
	}

	for _, tt := range tests {
		if got := TopCombinations(ranking, tt.n); len(got) != tt.want {
			t.Errorf("TopCombinations(n=%d): got %d entries, want %d", tt.n, len(got), tt.want)
		}
	}
}

// TestSummarize_Properties checks invariants over a mixed dataset.
func TestSummarize_Properties(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	sets := []model.KeySet{
		model.NewKeySet("id", "name"),
		model.NewKeySet("id"),
		model.NewKeySet("id", "name", "email"),
		model.NewKeySet("id", "name"),
		model.NewKeySet("email"),
	}
	row := 0
	for i, keys := range sets {
		if i == 2 {
			if err := agg.AddFailure(model.LineFailure{Row: row, Line: row + 1, Kind: model.FailureSyntax}); err != nil {
				t.Fatal(err)
			}
			row++
		}
		if err := agg.Add(row, keys); err != nil {
			t.Fatal(err)
		}
		row++
	}

	summary := Summarize(agg, 0)

	t.Run("combination counts sum to parsed rows", func(t *testing.T) {
		t.Parallel()
		total := 0
		for _, c := range summary.TopCombinations {
			total += c.Count
		}
		if total != summary.RowsParsed {
			t.Errorf("sum %d != rows parsed %d", total, summary.RowsParsed)
		}
	})

	t.Run("every row key set is a subset of all keys", func(t *testing.T) {
		t.Parallel()
		for _, rk := range agg.RowKeys() {
			if !rk.Keys.IsSubsetOf(summary.AllKeys) {
				t.Errorf("row %d keys %v not in %v", rk.Row, rk.Keys, summary.AllKeys)
			}
		}
	})

	t.Run("key counts are bounded by parsed rows", func(t *testing.T) {
		t.Parallel()
		for _, kc := range summary.KeyCounts {
			if kc.Count <= 0 || kc.Count > summary.RowsParsed {
				t.Errorf("count for %q out of range: %d", kc.Key, kc.Count)
			}
		}
	})

	t.Run("failed row keeps its index", func(t *testing.T) {
		t.Parallel()
		if summary.RowsSeen != 6 || summary.RowsParsed != 5 || summary.FailedLines != 1 {
			t.Errorf("rows seen/parsed/failed = %d/%d/%d", summary.RowsSeen, summary.RowsParsed, summary.FailedLines)
		}
		want := []int{0, 1, 4, 5}
		if !slices.Equal(summary.MissingKeyRows, want) {
			t.Errorf("MissingKeyRows: got %v, want %v", summary.MissingKeyRows, want)
		}
	})

	t.Run("key counts sorted by key", func(t *testing.T) {
		t.Parallel()
		for i := 1; i < len(summary.KeyCounts); i++ {
			if summary.KeyCounts[i-1].Key >= summary.KeyCounts[i].Key {
				t.Errorf("key counts not sorted: %v", summary.KeyCounts)
			}
		}
	})
}

// TestSummarize_Scenarios covers the reference datasets.
func TestSummarize_Scenarios(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		s := Summarize(NewAggregator(), DefaultTopN)
		if s.UniqueKeyCount() != 0 || len(s.KeyCounts) != 0 {
			t.Errorf("expected no keys, got %v", s.AllKeys)
		}
		if s.MissingKeyRows == nil || len(s.MissingKeyRows) != 0 {
			t.Errorf("expected empty non-nil missing rows, got %#v", s.MissingKeyRows)
		}
		if len(s.TopCombinations) != 0 {
			t.Errorf("expected no combinations, got %v", s.TopCombinations)
		}
		if s.RowsSeen != 0 {
			t.Errorf("expected zero rows, got %d", s.RowsSeen)
		}
	})

	t.Run("identical key sets", func(t *testing.T) {
		t.Parallel()

		agg := addRows(t,
			model.NewKeySet("a", "b"),
			model.NewKeySet("a", "b"),
			model.NewKeySet("a", "b"),
		)
		s := Summarize(agg, DefaultTopN)
		if len(s.MissingKeyRows) != 0 {
			t.Errorf("expected no missing rows, got %v", s.MissingKeyRows)
		}
		if len(s.TopCombinations) != 1 || s.TopCombinations[0].Count != 3 {
			t.Errorf("expected one combination with count 3, got %v", s.TopCombinations)
		}
	})

	t.Run("top N slices the ranking", func(t *testing.T) {
		t.Parallel()

		agg := addRows(t,
			model.NewKeySet("a"),
			model.NewKeySet("b"),
			model.NewKeySet("c"),
		)
		s := Summarize(agg, 2)
		if len(s.TopCombinations) != 2 {
			t.Errorf("expected 2 combinations, got %d", len(s.TopCombinations))
		}
		if s.DistinctCombinations != 3 {
			t.Errorf("expected 3 distinct combinations, got %d", s.DistinctCombinations)
		}
		if s.TopN != 2 {
			t.Errorf("expected TopN 2, got %d", s.TopN)
		}
	})
}
