// Package fx provides the fixed-table currency conversion consumed by
// reporting. It is incidental to the amortization core: schedules and
// entries always stay in the contract currency.
package fx

import "github.com/shopspring/decimal"

// BaseCurrency anchors the rate table.
const BaseCurrency = "USD"

// DefaultRates holds units of each currency per one USD.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"USD": 1,
		"IQD": 1310,
		"EUR": 0.92,
	}
}

// Table converts amounts between currencies over a fixed base-currency
// rate table. Read-only after construction.
type Table struct {
	base  string
	rates map[string]float64
}

// NewTable builds a table from units-per-base rates, defaulting to
// DefaultRates when rates is nil.
func NewTable(base string, rates map[string]float64) *Table {
	if base == "" {
		base = BaseCurrency
	}
	if rates == nil {
		rates = DefaultRates()
	}
	return &Table{base: base, rates: rates}
}

// Base returns the table's anchor currency.
func (t *Table) Base() string { return t.base }

// Rates returns a copy of the rate table.
func (t *Table) Rates() map[string]float64 {
	out := make(map[string]float64, len(t.rates))
	for k, v := range t.rates {
		out[k] = v
	}
	return out
}

// Rate returns the multiplier that converts from into to. Unknown codes
// fall back to 1:1 rather than failing a report over a missing rate.
func (t *Table) Rate(from, to string) float64 {
	fromRate, okFrom := t.rates[from]
	toRate, okTo := t.rates[to]
	if !okFrom || !okTo || fromRate == 0 {
		return 1
	}
	r, _ := decimal.NewFromFloat(toRate).Div(decimal.NewFromFloat(fromRate)).Float64()
	return r
}

// Convert converts an amount between currencies, rounding to two decimal
// places. Zero in, zero out; same currency is returned untouched.
func (t *Table) Convert(amount float64, from, to string) float64 {
	if amount == 0 {
		return 0
	}
	if from == to {
		return amount
	}
	rate := decimal.NewFromFloat(t.Rate(from, to))
	out, _ := decimal.NewFromFloat(amount).Mul(rate).Round(2).Float64()
	return out
}
