// Package journal turns amortization rows into balanced double-entry
// postings against a configurable chart of ledger accounts.
package journal

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/leasebook/leasebook/internal/errs"
)

// AccountKey names a semantic posting event. Keys are stable; the code and
// label behind each one are configuration.
type AccountKey string

const (
	AccountROUAsset            AccountKey = "rou_asset"
	AccountLeaseLiability      AccountKey = "lease_liability"
	AccountAccumDepreciation   AccountKey = "accum_depreciation"
	AccountCash                AccountKey = "cash"
	AccountInterestExpense     AccountKey = "interest_expense"
	AccountDepreciationExpense AccountKey = "depreciation_expense"
	AccountShortTermExpense    AccountKey = "short_term_expense"
	AccountLowValueExpense     AccountKey = "low_value_expense"
	AccountVariableExpense     AccountKey = "variable_expense"
	AccountModificationGainLoss AccountKey = "modification_gain_loss"
)

// requiredKeys is the closed set of keys every chart must define.
var requiredKeys = []AccountKey{
	AccountROUAsset,
	AccountLeaseLiability,
	AccountAccumDepreciation,
	AccountCash,
	AccountInterestExpense,
	AccountDepreciationExpense,
	AccountShortTermExpense,
	AccountLowValueExpense,
	AccountVariableExpense,
	AccountModificationGainLoss,
}

// Account is a display code plus label for one posting key.
type Account struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Ref renders the account the way entries reference it, e.g.
// "2100 - Lease Liability".
func (a Account) Ref() string { return a.Code + " - " + a.Name }

// Chart maps posting keys to ledger accounts.
type Chart map[AccountKey]Account

// DefaultChart returns the standard account mapping used when no override
// is configured.
func DefaultChart() Chart {
	return Chart{
		AccountROUAsset:            {Code: "1600", Name: "Right-of-Use Asset"},
		AccountLeaseLiability:      {Code: "2100", Name: "Lease Liability"},
		AccountAccumDepreciation:   {Code: "1650", Name: "ROU Asset Accum Dep"},
		AccountCash:                {Code: "1000", Name: "Cash/Bank"},
		AccountInterestExpense:     {Code: "6100", Name: "Interest Expense"},
		AccountDepreciationExpense: {Code: "6200", Name: "Depreciation Expense"},
		AccountShortTermExpense:    {Code: "6300", Name: "Rent Exp - Short Term"},
		AccountLowValueExpense:     {Code: "6310", Name: "Rent Exp - Low Value"},
		AccountVariableExpense:     {Code: "6320", Name: "Variable Rent Expense"},
		AccountModificationGainLoss: {Code: "8000", Name: "Gain/Loss on Lease Mods"},
	}
}

// Validate checks that the chart defines every required key with a
// non-empty code and name.
func (c Chart) Validate() error {
	for _, k := range requiredKeys {
		a, ok := c[k]
		if !ok {
			return fmt.Errorf("%w: missing account %q", errs.ErrUnprocessable, k)
		}
		if a.Code == "" || a.Name == "" {
			return fmt.Errorf("%w: account %q needs code and name", errs.ErrUnprocessable, k)
		}
	}
	return nil
}

// Ref resolves a posting key to its entry reference string.
func (c Chart) Ref(k AccountKey) string { return c[k].Ref() }

// clone returns an independent copy of the chart.
func (c Chart) clone() Chart {
	out := make(Chart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// LoadChart reads a YAML account-mapping file and overlays it on the
// defaults. Keys absent from the file keep their default code and label.
func LoadChart(path string) (Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts file: %w", err)
	}
	var overrides map[AccountKey]Account
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse accounts file: %w", err)
	}
	chart := DefaultChart()
	for k, v := range overrides {
		chart[k] = v
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	return chart, nil
}

// Registry holds the chart of accounts in effect. It is an explicit
// dependency of callers, never package state: entry generation reads a
// snapshot via Get, so replacing the chart changes the next generation,
// not entries already produced.
type Registry struct {
	mu    sync.RWMutex
	chart Chart
}

// NewRegistry builds a registry around the given chart, falling back to
// defaults when chart is nil.
func NewRegistry(chart Chart) *Registry {
	if chart == nil {
		chart = DefaultChart()
	}
	return &Registry{chart: chart}
}

// Get returns a copy of the chart currently in effect.
func (r *Registry) Get() Chart {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.chart.clone()
}

// Replace swaps in a new chart wholesale after validating it.
func (r *Registry) Replace(chart Chart) error {
	if err := chart.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.chart = chart.clone()
	r.mu.Unlock()
	return nil
}
