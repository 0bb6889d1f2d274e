package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func sum(parts []int64) int64 {
	var s int64
	for _, p := range parts {
		s += p
	}
	return s
}

func TestAllocate(t *testing.T) {
	cases := []struct {
		name     string
		total    int64
		weights  []decimal.Decimal
		expected []int64
	}{
		{"remainder to last bucket", 10000, IntWeights(1, 1, 1), []int64{3333, 3333, 3334}},
		{"exact split", 10000, IntWeights(2, 3, 5), []int64{2000, 3000, 5000}},
		{"single bucket", 12345, IntWeights(7), []int64{12345}},
		{"all zero weights", 10000, IntWeights(0, 0, 0), []int64{0, 0, 0}},
		{"zero weight bucket", 100, IntWeights(0, 1, 1), []int64{0, 50, 50}},
		{"fractional weights", 100, []decimal.Decimal{dec("0.5"), dec("0.25"), dec("0.25")}, []int64{50, 25, 25}},
		{"negative total floors", -100, IntWeights(1, 1, 1), []int64{-34, -34, -32}},
		{"zero total", 0, IntWeights(3, 4), []int64{0, 0}},
	}
	for _, tc := range cases {
		got, err := Allocate(tc.total, tc.weights)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(got) != len(tc.expected) {
			t.Fatalf("%s: expected %d parts, got %d", tc.name, len(tc.expected), len(got))
		}
		for i := range got {
			if got[i] != tc.expected[i] {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.expected, got)
			}
		}
	}
}

func TestAllocateConservesTotal(t *testing.T) {
	weightSets := [][]int64{
		{1}, {1, 2}, {3, 3, 3}, {1, 1, 1, 1, 1, 1, 1}, {17, 0, 5, 99}, {1, 1000000},
	}
	for _, total := range []int64{1, 7, 100, 9999, 10001, 123456789, -500} {
		for _, ws := range weightSets {
			got, err := Allocate(total, IntWeights(ws...))
			if err != nil {
				t.Fatalf("Allocate(%d, %v): %v", total, ws, err)
			}
			if sum(got) != total {
				t.Fatalf("Allocate(%d, %v) = %v sums to %d", total, ws, got, sum(got))
			}
		}
	}
}

func TestAllocateRejectsInvalidInput(t *testing.T) {
	if _, err := Allocate(100, nil); !errors.Is(err, ErrInvalidAllocationInput) {
		t.Fatalf("expected ErrInvalidAllocationInput for empty weights, got %v", err)
	}
	if _, err := Allocate(100, IntWeights(1, -1)); !errors.Is(err, ErrInvalidAllocationInput) {
		t.Fatalf("expected ErrInvalidAllocationInput for negative weight, got %v", err)
	}
}

func TestAllocateByKey(t *testing.T) {
	got, err := AllocateByKey(1000, []int{10, 20, 30}, IntWeights(1, 1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[10] != 250 || got[20] != 250 || got[30] != 500 {
		t.Fatalf("unexpected allocation: %v", got)
	}

	if _, err := AllocateByKey(1000, []int{1, 2}, IntWeights(1)); !errors.Is(err, ErrInvalidAllocationInput) {
		t.Fatalf("expected ErrInvalidAllocationInput for length mismatch, got %v", err)
	}
	if _, err := AllocateByKey(1000, []int{1, 1}, IntWeights(1, 1)); !errors.Is(err, ErrInvalidAllocationInput) {
		t.Fatalf("expected ErrInvalidAllocationInput for duplicate key, got %v", err)
	}
}
