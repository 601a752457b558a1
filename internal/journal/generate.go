package journal

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/leasebook/leasebook/internal/engine"
	"github.com/leasebook/leasebook/internal/lease"
)

// Entry is one balanced ledger posting derived from a schedule row. Entries
// are disposable artifacts: IDs are deterministic composites of lease,
// period and posting tag so recomputation yields identical output.
type Entry struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	LeaseID       uuid.UUID `json:"lease_id"`
	Description   string    `json:"description"`
	DebitAccount  string    `json:"debit_account"`
	CreditAccount string    `json:"credit_account"`
	DebitAmount   float64   `json:"debit_amount"`
	CreditAmount  float64   `json:"credit_amount"`
	Currency      string    `json:"currency"`
}

// PostedAmount returns the entry's debit amount as a scale-2 money value.
func (e Entry) PostedAmount() (money.Amount, error) {
	return money.NewAmount(e.Currency, minorUnits(e.DebitAmount), 2)
}

// Balanced reports whether debit and credit agree to the cent.
func (e Entry) Balanced() bool {
	return minorUnits(e.DebitAmount) == minorUnits(e.CreditAmount)
}

func minorUnits(v float64) int64 { return int64(math.Round(v * 100)) }

// adjustmentThreshold filters remeasurement noise below a cent.
const adjustmentThreshold = 0.01

// ForPeriod derives the ledger postings for one schedule row. The chart is
// an explicit argument: account references are resolved against the mapping
// in effect at generation time and are never cached.
//
// Each event posts independently; postings within a period are not merged
// or netted.
func ForPeriod(c lease.Contract, row engine.Row, chart Chart) []Entry {
	entries := make([]Entry, 0, 4)
	baseID := fmt.Sprintf("%s-%d", c.ID, row.Period)

	post := func(tag, desc string, debit, credit AccountKey, amount float64) {
		entries = append(entries, Entry{
			ID:            baseID + "-" + tag,
			Date:          row.Date,
			LeaseID:       c.ID,
			Description:   desc,
			DebitAccount:  chart.Ref(debit),
			CreditAccount: chart.Ref(credit),
			DebitAmount:   amount,
			CreditAmount:  amount,
			Currency:      c.Currency,
		})
	}

	if row.Event == engine.EventInitialRecognition {
		// The inception row's payment field holds the period-0 payment made
		// under the in-advance convention; the gross liability recognized is
		// the closing balance before that payment.
		grossLiability := row.ClosingLiability + row.Payment
		post("INIT-LIAB", "Initial Recognition - ROU Asset & Lease Liability",
			AccountROUAsset, AccountLeaseLiability, grossLiability)

		if row.Payment > 0 {
			post("INIT-PMT", "Initial Lease Payment (Advance)",
				AccountLeaseLiability, AccountCash, row.Payment)
		}
		if c.InitialDirectCosts > 0 {
			post("INIT-COST", "Initial Direct Costs Capitalization",
				AccountROUAsset, AccountCash, c.InitialDirectCosts)
		}
		if c.LeaseIncentives > 0 {
			post("INIT-INC", "Lease Incentives Received",
				AccountCash, AccountROUAsset, c.LeaseIncentives)
		}
		return entries
	}

	if math.Abs(row.Adjustment) > adjustmentThreshold {
		amount := math.Abs(row.Adjustment)
		desc := fmt.Sprintf("Lease Modification Adjustment (%s)", row.Event)
		if row.Adjustment > 0 {
			post("MOD", desc, AccountROUAsset, AccountLeaseLiability, amount)
		} else {
			post("MOD", desc, AccountLeaseLiability, AccountROUAsset, amount)
		}
	}

	if row.Interest > 0 {
		post("INT", fmt.Sprintf("Interest Expense - Period %d", row.Period),
			AccountInterestExpense, AccountLeaseLiability, row.Interest)
	}

	if row.Depreciation > 0 {
		post("DEP", fmt.Sprintf("ROU Depreciation - Period %d", row.Period),
			AccountDepreciationExpense, AccountAccumDepreciation, row.Depreciation)
	}

	if row.Payment > 0 {
		post("PMT", fmt.Sprintf("Lease Payment - Period %d", row.Period),
			AccountLeaseLiability, AccountCash, row.Payment)
	}

	return entries
}

// ForSchedule derives the postings for every row of a schedule in period
// order.
func ForSchedule(c lease.Contract, s engine.Schedule, chart Chart) []Entry {
	var out []Entry
	for _, row := range s.Rows {
		out = append(out, ForPeriod(c, row, chart)...)
	}
	return out
}
