// Package engine implements the lease amortization core: present-value
// discounting, inception-state reconstruction, and the month-by-month
// timeline simulation. Everything here is a pure function of its inputs;
// given the same contract and modification history the output is
// bit-for-bit identical on every run.
package engine

import (
	"math"

	"github.com/leasebook/leasebook/internal/lease"
)

// PresentValue discounts a level-payment stream to present value.
//
// The rate is an annual percentage; periodsPerYear is the payment frequency
// (12 monthly, 4 quarterly, 1 annual). remainingMonths may not divide evenly
// into payment periods; the fractional period count is kept as a real number.
// Degenerate input never panics: NaN payment or rate is treated as zero, a
// non-positive frequency falls back to monthly, and a non-positive remaining
// term yields zero.
func PresentValue(payment, annualRatePercent float64, periodsPerYear, remainingMonths int, timing lease.Timing) float64 {
	if math.IsNaN(payment) {
		payment = 0
	}
	if math.IsNaN(annualRatePercent) {
		annualRatePercent = 0
	}
	if periodsPerYear <= 0 {
		periodsPerYear = 12
	}
	if remainingMonths <= 0 {
		return 0
	}

	monthsPerPeriod := 12 / float64(periodsPerYear)
	ratePerPeriod := (annualRatePercent / 100) / monthsPerPeriod
	periods := float64(remainingMonths) / monthsPerPeriod

	if ratePerPeriod == 0 {
		return payment * periods
	}

	pv := payment * ((1 - math.Pow(1+ratePerPeriod, -periods)) / ratePerPeriod)

	// Annuity due: each payment lands one period earlier, so the stream is
	// worth one period of discounting more.
	if timing == lease.TimingAdvance {
		pv *= 1 + ratePerPeriod
	}
	return pv
}

// ContractPresentValue values the full remaining payment stream of a
// contract at its current terms. Reporting collaborators use this for
// liability totals.
func ContractPresentValue(c lease.Contract) float64 {
	t := c.Terms
	return PresentValue(t.PaymentAmount, t.AnnualRatePercent, t.PaymentsPerYear, t.TermMonths, t.Timing)
}
