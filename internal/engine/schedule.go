package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/leasebook/leasebook/internal/lease"
)

// MaxPeriods caps the simulation at 50 years of monthly periods. It is a
// defensive bound against malformed contract data, not a business rule;
// Schedule.Truncated reports when it was hit.
const MaxPeriods = 600

// EventInitialRecognition labels the inception row of a schedule.
const EventInitialRecognition = "Initial Recognition"

// Row is one simulated period of the amortization schedule. Period 0 is
// initial recognition. Rows are emitted in strictly increasing period order
// and never mutated afterwards.
type Row struct {
	Period  int       `json:"period"`
	Date    time.Time `json:"date"`
	Payment float64   `json:"payment"`
	// Interest accrued on the opening liability this month.
	Interest float64 `json:"interest"`
	// Principal is payment minus interest; negative in months with no
	// payment, where the liability grows by pure accrual.
	Principal        float64 `json:"principal"`
	ClosingLiability float64 `json:"closing_liability"`
	Depreciation     float64 `json:"depreciation"`
	ClosingROU       float64 `json:"closing_rou"`
	// Event labels inception and modification rows; empty otherwise.
	Event string `json:"event,omitempty"`
	// Adjustment is the liability remeasurement recognized this period,
	// zero outside modification rows.
	Adjustment float64 `json:"adjustment,omitempty"`
}

// Schedule is the full amortization timeline of a contract.
type Schedule struct {
	Rows []Row `json:"rows"`
	// Truncated is set when the simulation hit MaxPeriods before the
	// contractual term ran out.
	Truncated bool `json:"truncated"`
}

// GenerateSchedule replays a contract from inception through term end one
// calendar month at a time. Modifications take force in their effective
// month: the simulation terms are overwritten with the modification's new
// values, the liability is remeasured as the present value of the remaining
// payments under the updated terms, and the right-of-use asset absorbs the
// same adjustment so the balance sheet stays coherent.
func GenerateSchedule(c lease.Contract) Schedule {
	terms := normalize(InceptionTerms(c))

	// The cadence convention is fixed at inception; a modification may still
	// change the frequency or the amounts it drives.
	timing := terms.Timing

	mods := c.ModificationsAsc()

	liability := PresentValue(terms.PaymentAmount, terms.AnnualRatePercent, terms.PaymentsPerYear, terms.TermMonths, timing)
	rou := liability + c.InitialDirectCosts - c.LeaseIncentives
	monthlyDep := 0.0
	if terms.TermMonths > 0 {
		monthlyDep = rou / float64(terms.TermMonths)
	}

	// Inception row. Under the in-advance convention the first payment is
	// due immediately and reduces the opening liability.
	inception := Row{
		Period:           0,
		Date:             c.StartDate,
		ClosingLiability: liability,
		ClosingROU:       rou,
		Event:            EventInitialRecognition,
	}
	if timing == lease.TimingAdvance {
		inception.Payment = terms.PaymentAmount
		inception.Principal = terms.PaymentAmount
		liability -= terms.PaymentAmount
		inception.ClosingLiability = liability
	}

	rows := []Row{inception}
	truncated := false

	for month := 1; month <= terms.TermMonths; month++ {
		if month > MaxPeriods {
			truncated = true
			break
		}
		date := c.StartDate.AddDate(0, month, 0)

		var event string
		var adjustment float64

		if m, ok := modificationFor(mods, date); ok {
			terms = normalize(m.New.Apply(terms))

			// Remeasurement: post-modification terms, pre-modification
			// remaining term count.
			remaining := terms.TermMonths - (month - 1)
			newLiability := PresentValue(terms.PaymentAmount, terms.AnnualRatePercent, terms.PaymentsPerYear, remaining, terms.Timing)

			adjustment = newLiability - liability
			liability = newLiability
			// The asset absorbs the adjustment but cannot go negative.
			rou = math.Max(0, rou+adjustment)

			monthlyDep = 0
			if remaining > 0 {
				monthlyDep = rou / float64(remaining)
			}
			event = fmt.Sprintf("Modification: %s", m.Kind)
		}

		// Interest always compounds monthly on the outstanding balance,
		// whatever the payment frequency.
		interest := liability * (terms.AnnualRatePercent / 100) / 12

		payment := 0.0
		monthsPerPayment := 12 / terms.PaymentsPerYear
		if month%monthsPerPayment == 0 {
			if timing == lease.TimingArrears || month < terms.TermMonths {
				// In-advance pays at the start of each cycle, so the final
				// period's payment was already made one cycle earlier.
				payment = terms.PaymentAmount
			}
		}

		liability = liability + interest - payment
		rou -= monthlyDep

		// Snap drift to zero so the schedule cleanly terminates.
		if math.Abs(liability) < 1 {
			liability = 0
		}
		if math.Abs(rou) < 1 {
			rou = 0
		}

		rows = append(rows, Row{
			Period:           month,
			Date:             date,
			Payment:          payment,
			Interest:         interest,
			Principal:        payment - interest,
			ClosingLiability: liability,
			Depreciation:     monthlyDep,
			ClosingROU:       rou,
			Event:            event,
			Adjustment:       adjustment,
		})
	}

	return Schedule{Rows: rows, Truncated: truncated}
}

// modificationFor finds the modification effective in the calendar month of
// date. Modifications must be sorted ascending; when several share an
// effective month the earliest wins and the rest are ignored, matching the
// documented one-modification-per-period rule.
func modificationFor(mods []lease.Modification, date time.Time) (lease.Modification, bool) {
	for _, m := range mods {
		if m.EffectiveDate.Year() == date.Year() && m.EffectiveDate.Month() == date.Month() {
			return m, true
		}
	}
	return lease.Modification{}, false
}

// normalize coerces degenerate term values the same way the PV calculator
// does, so the timeline cannot divide by zero or loop on garbage.
func normalize(t lease.Terms) lease.Terms {
	if math.IsNaN(t.PaymentAmount) {
		t.PaymentAmount = 0
	}
	if math.IsNaN(t.AnnualRatePercent) {
		t.AnnualRatePercent = 0
	}
	if t.PaymentsPerYear <= 0 {
		t.PaymentsPerYear = 12
	}
	if t.TermMonths < 0 {
		t.TermMonths = 0
	}
	if t.Timing == "" {
		t.Timing = lease.TimingArrears
	}
	return t
}
