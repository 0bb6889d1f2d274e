package config

import (
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/backorder_backend/money"
	"github.com/shopspring/decimal"
)

const (
	defaultCurrencySymbol = "NT$"
	defaultTaxRate        = 5
)

// LoadMoneyConfig reads CURRENCY_SYMBOL and DEFAULT_TAX_RATE (percent).
// A malformed or negative rate falls back to the default and is logged.
func LoadMoneyConfig() money.Config {
	cfg := money.Config{
		CurrencySymbol: defaultCurrencySymbol,
		DefaultTaxRate: decimal.NewFromInt(defaultTaxRate),
	}
	if v := strings.TrimSpace(os.Getenv("CURRENCY_SYMBOL")); v != "" {
		cfg.CurrencySymbol = v
	}
	if v := strings.TrimSpace(os.Getenv("DEFAULT_TAX_RATE")); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil || rate.IsNegative() {
			GetLogger().WithField("DEFAULT_TAX_RATE", v).Warn("invalid default tax rate; using default")
		} else {
			cfg.DefaultTaxRate = rate
		}
	}
	return cfg
}
