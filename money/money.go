// Package money holds amounts as int64 minor units (cents) and converts, taxes and
// splits them without floating point. Every rounding point rounds half away from zero.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Config is the currency configuration an Engine formats and taxes with.
type Config struct {
	CurrencySymbol string
	DefaultTaxRate decimal.Decimal // percent, e.g. 5 for 5%
}

// Engine binds the pure money functions to a Config.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// ToMinorUnits converts a major-unit amount to minor units, rounding at the cent.
// A nil amount stays nil.
func ToMinorUnits(major *decimal.Decimal) *int64 {
	if major == nil {
		return nil
	}
	v := roundHalfAway(major.Mul(hundred), one)
	return &v
}

// ToMajorUnits converts minor units back to a major-unit amount. A nil amount stays nil.
func ToMajorUnits(minor *int64) *decimal.Decimal {
	if minor == nil {
		return nil
	}
	v := decimal.New(*minor, -2)
	return &v
}

// PriceWithTax returns round(amountExclTax * (1 + rate/100)).
func PriceWithTax(amountExclTax int64, taxRatePercent decimal.Decimal) int64 {
	if taxRatePercent.IsZero() {
		return amountExclTax
	}
	return roundHalfAway(decimal.NewFromInt(amountExclTax).Mul(hundred.Add(taxRatePercent)), hundred)
}

// TaxPortionFromInclusive extracts the tax contained in a tax-inclusive amount:
// round(amountInclTax * rate / (100 + rate)). Zero or negative rates extract nothing.
func TaxPortionFromInclusive(amountInclTax int64, taxRatePercent decimal.Decimal) int64 {
	if taxRatePercent.Sign() <= 0 {
		return 0
	}
	return roundHalfAway(decimal.NewFromInt(amountInclTax).Mul(taxRatePercent), hundred.Add(taxRatePercent))
}

// TaxPortionFromExclusive returns round(amountExclTax * rate / 100).
func TaxPortionFromExclusive(amountExclTax int64, taxRatePercent decimal.Decimal) int64 {
	return roundHalfAway(decimal.NewFromInt(amountExclTax).Mul(taxRatePercent), hundred)
}

// ProfitMargin returns (sell - cost) / sell * 100 as a percentage.
// A zero sell price yields 0 instead of dividing by zero.
func ProfitMargin(sellPriceMinor, costMinor int64) float64 {
	if sellPriceMinor == 0 {
		return 0.0
	}
	sell := decimal.NewFromInt(sellPriceMinor)
	margin := sell.Sub(decimal.NewFromInt(costMinor)).Mul(hundred).Div(sell)
	return margin.InexactFloat64()
}

func (e *Engine) PriceWithDefaultTax(amountExclTax int64) int64 {
	return PriceWithTax(amountExclTax, e.cfg.DefaultTaxRate)
}

func (e *Engine) TaxPortionFromInclusiveDefault(amountInclTax int64) int64 {
	return TaxPortionFromInclusive(amountInclTax, e.cfg.DefaultTaxRate)
}

func (e *Engine) TaxPortionFromExclusiveDefault(amountExclTax int64) int64 {
	return TaxPortionFromExclusive(amountExclTax, e.cfg.DefaultTaxRate)
}

// roundHalfAway computes num/den exactly and rounds half away from zero.
func roundHalfAway(num, den decimal.Decimal) int64 {
	q, r := num.QuoRem(den, 0)
	if r.Abs().Mul(two).GreaterThanOrEqual(den.Abs()) {
		if num.Sign()*den.Sign() < 0 {
			q = q.Sub(one)
		} else {
			q = q.Add(one)
		}
	}
	return q.IntPart()
}

// floorDiv computes floor(num/den) exactly.
func floorDiv(num, den decimal.Decimal) int64 {
	q, r := num.QuoRem(den, 0)
	if !r.IsZero() && (r.Sign() < 0) != (den.Sign() < 0) {
		q = q.Sub(one)
	}
	return q.IntPart()
}
