package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidAllocationInput = errors.New("invalid allocation input")

// Allocate splits total across weights so that the parts always sum to total.
// Each part is floor(total * w / sum(w)); the remainder goes to the last bucket.
//
// All-zero weights return all-zero parts and the total is left undistributed.
// Callers that cannot accept that must check the weights first.
func Allocate(total int64, weights []decimal.Decimal) ([]int64, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidAllocationInput)
	}
	sum := decimal.Zero
	for i, w := range weights {
		if w.IsNegative() {
			return nil, fmt.Errorf("%w: weight[%d] is negative (%s)", ErrInvalidAllocationInput, i, w)
		}
		sum = sum.Add(w)
	}

	parts := make([]int64, len(weights))
	if sum.IsZero() {
		return parts, nil
	}

	t := decimal.NewFromInt(total)
	var allocated int64
	for i, w := range weights {
		parts[i] = floorDiv(t.Mul(w), sum)
		allocated += parts[i]
	}
	parts[len(parts)-1] += total - allocated
	return parts, nil
}

// AllocateByKey is Allocate for callers that carry their own bucket keys.
// keys and weights must have the same length; duplicate keys are rejected.
func AllocateByKey[K comparable](total int64, keys []K, weights []decimal.Decimal) (map[K]int64, error) {
	if len(keys) != len(weights) {
		return nil, fmt.Errorf("%w: %d keys for %d weights", ErrInvalidAllocationInput, len(keys), len(weights))
	}
	parts, err := Allocate(total, weights)
	if err != nil {
		return nil, err
	}
	result := make(map[K]int64, len(keys))
	for i, k := range keys {
		if _, dup := result[k]; dup {
			return nil, fmt.Errorf("%w: duplicate key %v", ErrInvalidAllocationInput, k)
		}
		result[k] = parts[i]
	}
	return result, nil
}

// IntWeights converts integer weights (quantities, minor-unit subtotals) for Allocate.
func IntWeights(ws ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ws))
	for i, w := range ws {
		out[i] = decimal.NewFromInt(w)
	}
	return out
}
