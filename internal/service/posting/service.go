// Package posting orchestrates the amortization engine and the journal
// generator for API consumers. It owns the chart-of-accounts registry and
// the portfolio-level reporting aggregates.
package posting

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leasebook/leasebook/internal/engine"
	"github.com/leasebook/leasebook/internal/errs"
	"github.com/leasebook/leasebook/internal/fx"
	"github.com/leasebook/leasebook/internal/journal"
	"github.com/leasebook/leasebook/internal/lease"
)

var (
	schedulesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leasebook",
		Name:      "schedules_generated_total",
		Help:      "Total number of amortization schedules generated",
	})
	schedulesTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leasebook",
		Name:      "schedules_truncated_total",
		Help:      "Schedules cut short by the period safety cap",
	})
)

// Service derives schedules, journal entries, and portfolio reports from
// contracts. It is safe for concurrent use; the registry is the only
// shared mutable state and is locked internally.
type Service struct {
	registry *journal.Registry
	rates    *fx.Table
	log      *slog.Logger
}

// New constructs the posting service.
func New(registry *journal.Registry, rates *fx.Table, log *slog.Logger) *Service {
	return &Service{registry: registry, rates: rates, log: log}
}

// Schedule generates the amortization timeline for a contract. Hitting the
// period safety cap is surfaced on the schedule and logged; the rows up to
// the cap are still returned.
func (s *Service) Schedule(c lease.Contract) engine.Schedule {
	sched := engine.GenerateSchedule(c)
	schedulesGenerated.Inc()
	if sched.Truncated {
		schedulesTruncated.Inc()
		s.log.Warn("schedule truncated at period safety cap",
			"lease_id", c.ID, "term_months", c.Terms.TermMonths, "cap", engine.MaxPeriods)
	}
	return sched
}

// EntriesForPeriod derives the postings for one schedule row using the
// chart in effect right now.
func (s *Service) EntriesForPeriod(c lease.Contract, row engine.Row) []journal.Entry {
	return journal.ForPeriod(c, row, s.registry.Get())
}

// AllEntries derives the postings for the contract's whole schedule. The
// chart is snapshotted once so a concurrent replace cannot produce a
// mixed-mapping run.
func (s *Service) AllEntries(c lease.Contract) []journal.Entry {
	chart := s.registry.Get()
	return journal.ForSchedule(c, s.Schedule(c), chart)
}

// EntriesAt derives the postings for a single period index.
func (s *Service) EntriesAt(c lease.Contract, period int) ([]journal.Entry, error) {
	sched := s.Schedule(c)
	if period < 0 || period >= len(sched.Rows) {
		return nil, fmt.Errorf("%w: period %d out of range", errs.ErrNotFound, period)
	}
	return s.EntriesForPeriod(c, sched.Rows[period]), nil
}

// PresentValue values the contract's remaining payment stream at its
// current terms.
func (s *Service) PresentValue(c lease.Contract) float64 {
	return engine.ContractPresentValue(c)
}

// Chart returns the chart of accounts currently in effect.
func (s *Service) Chart() journal.Chart { return s.registry.Get() }

// ReplaceChart swaps the chart wholesale. Entries generated afterwards use
// the new mapping; already-generated entries are unaffected.
func (s *Service) ReplaceChart(chart journal.Chart) error { return s.registry.Replace(chart) }

// Rates exposes the fixed conversion table for the reporting surface.
func (s *Service) Rates() *fx.Table { return s.rates }

// Summary aggregates portfolio-level figures in the base currency.
type Summary struct {
	Currency          string  `json:"currency"`
	TotalLeases       int     `json:"total_leases"`
	ActiveLeases      int     `json:"active_leases"`
	TotalLiabilityPV  float64 `json:"total_liability_pv"`
	MonthlyCashOut    float64 `json:"monthly_cash_out"`
	TotalInterest     float64 `json:"total_interest"`
	TotalDepreciation float64 `json:"total_depreciation"`
}

// PortfolioSummary rolls the portfolio up into base-currency totals:
// liability at present value, monthly cash out across active contracts
// (payments normalized to a monthly figure), and lifetime interest and
// depreciation summed over each schedule.
func (s *Service) PortfolioSummary(leases []lease.Contract, base string) Summary {
	if base == "" {
		base = s.rates.Base()
	}
	out := Summary{Currency: base, TotalLeases: len(leases)}
	for _, c := range leases {
		out.TotalLiabilityPV += s.rates.Convert(engine.ContractPresentValue(c), c.Currency, base)

		if c.Status == lease.StatusActive {
			monthly := c.Terms.PaymentAmount
			if c.Terms.PaymentsPerYear > 0 && c.Terms.PaymentsPerYear != 12 {
				monthly = c.Terms.PaymentAmount / (12 / float64(c.Terms.PaymentsPerYear))
			}
			out.ActiveLeases++
			out.MonthlyCashOut += s.rates.Convert(monthly, c.Currency, base)
		}

		var interest, depreciation float64
		for _, row := range s.Schedule(c).Rows {
			interest += row.Interest
			depreciation += row.Depreciation
		}
		out.TotalInterest += s.rates.Convert(interest, c.Currency, base)
		out.TotalDepreciation += s.rates.Convert(depreciation, c.Currency, base)
	}
	return out
}
