package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormat(t *testing.T) {
	e := NewEngine(Config{CurrencySymbol: "NT$", DefaultTaxRate: decimal.NewFromInt(5)})
	cases := []struct {
		amount   int64
		symbol   []string
		expected string
		decimals string
	}{
		{0, nil, "NT$0", "NT$0.00"},
		{1234550, nil, "NT$12,346", "NT$12,345.50"},
		{1234549, nil, "NT$12,345", "NT$12,345.49"},
		{-1234550, nil, "-NT$12,346", "-NT$12,345.50"},
		{5, []string{"$"}, "$0", "$0.05"},
		{100000000, []string{"¥"}, "¥1,000,000", "¥1,000,000.00"},
		{math.MaxInt64, nil, "NT$92,233,720,368,547,758", "NT$92,233,720,368,547,758.07"},
		{math.MinInt64, nil, "-NT$92,233,720,368,547,758", "-NT$92,233,720,368,547,758.08"},
		{-1, nil, "NT$0", "-NT$0.01"},
	}
	for _, tc := range cases {
		if got := e.Format(tc.amount, tc.symbol...); got != tc.expected {
			t.Fatalf("Format(%d) expected %q, got %q", tc.amount, tc.expected, got)
		}
		if got := e.FormatWithDecimals(tc.amount, tc.symbol...); got != tc.decimals {
			t.Fatalf("FormatWithDecimals(%d) expected %q, got %q", tc.amount, tc.decimals, got)
		}
	}
}
