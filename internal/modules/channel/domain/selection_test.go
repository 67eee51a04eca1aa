package domain

import "testing"

func TestSelection_Contains(t *testing.T) {
	sel := NewSelection([]int64{1, 3})
	if !sel.Contains(1) || !sel.Contains(3) {
		t.Fatalf("expected 1 and 3 to be selected")
	}
	if sel.Contains(2) {
		t.Fatalf("2 should not be selected")
	}
}

func TestSelection_IDsSortedAndDeduplicated(t *testing.T) {
	sel := NewSelection([]int64{5, 1, 5, 3})
	ids := sel.IDs()
	want := []int64{1, 3, 5}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(ids), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
	if sel.Len() != 3 {
		t.Fatalf("expected Len 3, got %d", sel.Len())
	}
}

func TestEmptySelection(t *testing.T) {
	sel := EmptySelection()
	if sel.Len() != 0 {
		t.Fatalf("expected empty selection, got %d members", sel.Len())
	}
	if sel.Contains(0) {
		t.Fatalf("empty selection should contain nothing")
	}
}
