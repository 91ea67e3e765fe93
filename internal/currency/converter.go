// Package currency converts foreign-currency amounts into the base
// currency using a static rate table. Rates are configuration data, not a
// live feed; conversion is deterministic and side-effect-free.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBase is the base currency code transactions are stored in.
const DefaultBase = "RUB"

// DefaultRates holds approximate base-currency rates for the codes the
// parser recognizes. One unit of the key currency equals the value in the
// base currency. Overridable via configuration.
func DefaultRates() map[string]string {
	return map[string]string{
		"USD": "90",
		"EUR": "100",
		"GBP": "115",
		"CNY": "12.5",
		"KZT": "0.2",
		"BYN": "28",
		"TRY": "2.8",
		"AED": "24.5",
		"GEL": "33",
		"AMD": "0.23",
		"RSD": "0.85",
		"UZS": "0.0075",
	}
}

// Converter maps (amount, code) pairs into the base currency.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewConverter builds a Converter from a base code and a code → rate
// table (decimal strings). Malformed rate strings are skipped.
func NewConverter(base string, rates map[string]string) *Converter {
	c := &Converter{
		base:  strings.ToUpper(strings.TrimSpace(base)),
		rates: make(map[string]decimal.Decimal, len(rates)),
	}
	if c.base == "" {
		c.base = DefaultBase
	}
	for code, rate := range rates {
		d, err := decimal.NewFromString(rate)
		if err != nil || d.Sign() <= 0 {
			continue
		}
		c.rates[strings.ToUpper(strings.TrimSpace(code))] = d
	}
	return c
}

// Default returns a Converter with the built-in base and rate table.
func Default() *Converter {
	return NewConverter(DefaultBase, DefaultRates())
}

// Base returns the base currency code.
func (c *Converter) Base() string {
	return c.base
}

// Known reports whether code is the base currency or has a rate.
func (c *Converter) Known(code string) bool {
	code = strings.ToUpper(code)
	if code == c.base {
		return true
	}
	_, ok := c.rates[code]
	return ok
}

// Convert converts amount from the given code into the base currency.
// The base code and unknown codes pass through unchanged; the second
// return value reports whether a conversion was applied.
func (c *Converter) Convert(amount decimal.Decimal, from string) (decimal.Decimal, bool) {
	from = strings.ToUpper(strings.TrimSpace(from))
	if from == "" || from == c.base {
		return amount, false
	}
	rate, ok := c.rates[from]
	if !ok {
		return amount, false
	}
	return amount.Mul(rate), true
}
