package analyzer

import (
	"errors"
	"testing"

	"github.com/nao1215/jsonlscan/internal/model"
)

// addRows feeds key sets to a new aggregator as rows 0..n-1.
func addRows(t *testing.T, sets ...model.KeySet) *Aggregator {
	t.Helper()

	agg := NewAggregator()
	for i, keys := range sets {
		if err := agg.Add(i, keys); err != nil {
			t.Fatalf("Add(%d): %v", i, err)
		}
	}
	return agg
}

// TestAggregator tests the counts exposed after a pass.
func TestAggregator(t *testing.T) {
	t.Parallel()

	agg := addRows(t,
		model.NewKeySet("a"),
		model.NewKeySet("a", "b"),
		model.NewKeySet("a"),
	)

	t.Run("counts rows", func(t *testing.T) {
		t.Parallel()
		if agg.RowsSeen() != 3 {
			t.Errorf("RowsSeen: got %d, want 3", agg.RowsSeen())
		}
		if agg.RowsParsed() != 3 {
			t.Errorf("RowsParsed: got %d, want 3", agg.RowsParsed())
		}
		if agg.FailedLines() != 0 {
			t.Errorf("FailedLines: got %d, want 0", agg.FailedLines())
		}
	})

	t.Run("collects all keys", func(t *testing.T) {
		t.Parallel()
		if !agg.AllKeys().Equal(model.KeySet{"a", "b"}) {
			t.Errorf("AllKeys: got %v", agg.AllKeys())
		}
		if agg.UniqueKeyCount() != 2 {
			t.Errorf("UniqueKeyCount: got %d, want 2", agg.UniqueKeyCount())
		}
	})

	t.Run("counts keys per row", func(t *testing.T) {
		t.Parallel()
		counts := agg.KeyCounts()
		if counts["a"] != 3 || counts["b"] != 1 || len(counts) != 2 {
			t.Errorf("KeyCounts: got %v", counts)
		}
	})

	t.Run("key counts are a copy", func(t *testing.T) {
		t.Parallel()
		counts := agg.KeyCounts()
		counts["a"] = 100
		if agg.KeyCounts()["a"] != 3 {
			t.Error("modifying returned map changed aggregator state")
		}
	})

	t.Run("records row key sets in order", func(t *testing.T) {
		t.Parallel()
		rows := agg.RowKeys()
		if len(rows) != 3 {
			t.Fatalf("got %d rows, want 3", len(rows))
		}
		for i, rk := range rows {
			if rk.Row != i {
				t.Errorf("row %d has index %d", i, rk.Row)
			}
		}
		if !rows[1].Keys.Equal(model.KeySet{"a", "b"}) {
			t.Errorf("row 1 keys: got %v", rows[1].Keys)
		}
	})
}

// TestAggregator_Failures tests that failures are tallied but contribute no keys.
func TestAggregator_Failures(t *testing.T) {
	t.Parallel()

	agg := NewAggregator(WithFailureSampleLimit(1))

	if err := agg.Add(0, model.NewKeySet("a")); err != nil {
		t.Fatal(err)
	}
	if err := agg.AddFailure(model.LineFailure{Row: 1, Line: 2, Kind: model.FailureNotObject}); err != nil {
		t.Fatal(err)
	}
	if err := agg.AddFailure(model.LineFailure{Row: 2, Line: 4, Kind: model.FailureSyntax}); err != nil {
		t.Fatal(err)
	}

	if agg.RowsSeen() != 3 {
		t.Errorf("RowsSeen: got %d, want 3", agg.RowsSeen())
	}
	if agg.RowsParsed() != 1 {
		t.Errorf("RowsParsed: got %d, want 1", agg.RowsParsed())
	}
	if agg.FailedLines() != 2 {
		t.Errorf("FailedLines: got %d, want 2", agg.FailedLines())
	}
	failures := agg.Failures()
	if len(failures) != 1 || failures[0].Line != 2 {
		t.Errorf("Failures: got %+v, want only the first sample", failures)
	}
	if !agg.AllKeys().Equal(model.KeySet{"a"}) {
		t.Errorf("AllKeys: got %v", agg.AllKeys())
	}
}

func TestAggregator_RowOrder(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	if err := agg.Add(2, model.NewKeySet("a")); err != nil {
		t.Fatal(err)
	}

	err := agg.Add(1, model.NewKeySet("b"))
	if !errors.Is(err, ErrRowOutOfOrder) {
		t.Errorf("expected ErrRowOutOfOrder, got %v", err)
	}
	err = agg.AddFailure(model.LineFailure{Row: 2})
	if !errors.Is(err, ErrRowOutOfOrder) {
		t.Errorf("expected ErrRowOutOfOrder for repeated index, got %v", err)
	}
	if agg.RowsSeen() != 1 {
		t.Errorf("rejected rows must not be counted, RowsSeen = %d", agg.RowsSeen())
	}
}

// TestAggregator_OrderIndependence checks that KeyCounts and AllKeys do
// not depend on the order rows arrive in.
func TestAggregator_OrderIndependence(t *testing.T) {
	t.Parallel()

	sets := []model.KeySet{
		model.NewKeySet("a", "b"),
		model.NewKeySet("c"),
		model.NewKeySet("a"),
		model.NewKeySet("b", "c"),
	}
	reversed := make([]model.KeySet, len(sets))
	for i, s := range sets {
		reversed[len(sets)-1-i] = s
	}

	forward := addRows(t, sets...)
	backward := addRows(t, reversed...)

	if !forward.AllKeys().Equal(backward.AllKeys()) {
		t.Errorf("AllKeys differ: %v vs %v", forward.AllKeys(), backward.AllKeys())
	}
	fc, bc := forward.KeyCounts(), backward.KeyCounts()
	for key, count := range fc {
		if bc[key] != count {
			t.Errorf("count for %q differs: %d vs %d", key, count, bc[key])
		}
	}
}

func TestAggregator_Empty(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	if agg.AllKeys().Len() != 0 {
		t.Errorf("expected no keys, got %v", agg.AllKeys())
	}
	if len(agg.RowKeys()) != 0 {
		t.Error("expected no rows")
	}
	if len(agg.KeyCounts()) != 0 {
		t.Error("expected empty key counts")
	}
}
