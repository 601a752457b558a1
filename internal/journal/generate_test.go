package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasebook/leasebook/internal/engine"
	"github.com/leasebook/leasebook/internal/lease"
)

func testContract() lease.Contract {
	return lease.Contract{
		ID:             uuid.MustParse("6f1e1d6a-0000-4000-8000-000000000001"),
		ContractNumber: "L-100",
		Lessee:         "Acme Logistics",
		Asset:          "Forklift",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Terms: lease.Terms{
			TermMonths:        12,
			PaymentAmount:     1000,
			AnnualRatePercent: 6,
			PaymentsPerYear:   12,
			Timing:            lease.TimingArrears,
		},
		Currency: "USD",
		Status:   lease.StatusActive,
	}
}

func entryByID(t *testing.T, entries []Entry, id string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("entry %q not found", id)
	return Entry{}
}

func TestForSchedule_AllEntriesBalance(t *testing.T) {
	c := testContract()
	c.InitialDirectCosts = 500
	c.LeaseIncentives = 200
	s := engine.GenerateSchedule(c)

	entries := ForSchedule(c, s, DefaultChart())
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, e.Balanced(), "entry %s", e.ID)
		assert.Greater(t, e.DebitAmount, 0.0, "entry %s", e.ID)
		assert.Equal(t, "USD", e.Currency)
		assert.Equal(t, c.ID, e.LeaseID)
	}
}

func TestForPeriod_InceptionPostings(t *testing.T) {
	c := testContract()
	c.Terms.Timing = lease.TimingAdvance
	c.InitialDirectCosts = 500
	c.LeaseIncentives = 200
	s := engine.GenerateSchedule(c)

	entries := ForPeriod(c, s.Rows[0], DefaultChart())
	require.Len(t, entries, 4)

	recog := entryByID(t, entries, c.ID.String()+"-0-INIT-LIAB")
	assert.Equal(t, "1600 - Right-of-Use Asset", recog.DebitAccount)
	assert.Equal(t, "2100 - Lease Liability", recog.CreditAccount)
	// Recognition is gross of the advance payment made at commencement.
	assert.InDelta(t, s.Rows[0].ClosingLiability+1000, recog.DebitAmount, 0.001)

	pmt := entryByID(t, entries, c.ID.String()+"-0-INIT-PMT")
	assert.Equal(t, "2100 - Lease Liability", pmt.DebitAccount)
	assert.Equal(t, "1000 - Cash/Bank", pmt.CreditAccount)
	assert.Equal(t, 1000.0, pmt.DebitAmount)

	cost := entryByID(t, entries, c.ID.String()+"-0-INIT-COST")
	assert.Equal(t, "1600 - Right-of-Use Asset", cost.DebitAccount)
	assert.Equal(t, 500.0, cost.DebitAmount)

	inc := entryByID(t, entries, c.ID.String()+"-0-INIT-INC")
	assert.Equal(t, "1000 - Cash/Bank", inc.DebitAccount)
	assert.Equal(t, "1600 - Right-of-Use Asset", inc.CreditAccount)
	assert.Equal(t, 200.0, inc.DebitAmount)
}

func TestForPeriod_MonthlyPostings(t *testing.T) {
	c := testContract()
	s := engine.GenerateSchedule(c)

	entries := ForPeriod(c, s.Rows[1], DefaultChart())
	require.Len(t, entries, 3)

	interest := entryByID(t, entries, c.ID.String()+"-1-INT")
	assert.Equal(t, "6100 - Interest Expense", interest.DebitAccount)
	assert.Equal(t, "2100 - Lease Liability", interest.CreditAccount)
	assert.InDelta(t, s.Rows[1].Interest, interest.DebitAmount, 0.001)

	dep := entryByID(t, entries, c.ID.String()+"-1-DEP")
	assert.Equal(t, "6200 - Depreciation Expense", dep.DebitAccount)
	assert.Equal(t, "1650 - ROU Asset Accum Dep", dep.CreditAccount)

	pmt := entryByID(t, entries, c.ID.String()+"-1-PMT")
	assert.Equal(t, "2100 - Lease Liability", pmt.DebitAccount)
	assert.Equal(t, "1000 - Cash/Bank", pmt.CreditAccount)
	assert.Equal(t, 1000.0, pmt.DebitAmount)
}

func TestForPeriod_AdjustmentDirection(t *testing.T) {
	c := testContract()
	date := c.StartDate.AddDate(0, 6, 0)

	up := engine.Row{Period: 6, Date: date, Adjustment: 900, Event: "Modification: payment_change"}
	entries := ForPeriod(c, up, DefaultChart())
	mod := entryByID(t, entries, c.ID.String()+"-6-MOD")
	assert.Equal(t, "1600 - Right-of-Use Asset", mod.DebitAccount)
	assert.Equal(t, "2100 - Lease Liability", mod.CreditAccount)
	assert.Equal(t, 900.0, mod.DebitAmount)

	down := engine.Row{Period: 6, Date: date, Adjustment: -900, Event: "Modification: termination"}
	entries = ForPeriod(c, down, DefaultChart())
	mod = entryByID(t, entries, c.ID.String()+"-6-MOD")
	assert.Equal(t, "2100 - Lease Liability", mod.DebitAccount)
	assert.Equal(t, "1600 - Right-of-Use Asset", mod.CreditAccount)
	assert.Equal(t, 900.0, mod.DebitAmount)
}

func TestForPeriod_SubCentAdjustmentSkipped(t *testing.T) {
	c := testContract()
	row := engine.Row{Period: 3, Date: c.StartDate.AddDate(0, 3, 0), Adjustment: 0.004}
	for _, e := range ForPeriod(c, row, DefaultChart()) {
		assert.NotContains(t, e.ID, "-MOD")
	}
}

func TestForSchedule_Deterministic(t *testing.T) {
	c := testContract()
	s := engine.GenerateSchedule(c)
	chart := DefaultChart()
	assert.Equal(t, ForSchedule(c, s, chart), ForSchedule(c, s, chart))
}

func TestEntry_PostedAmount(t *testing.T) {
	e := Entry{DebitAmount: 1234.56, CreditAmount: 1234.56, Currency: "USD"}
	amt, err := e.PostedAmount()
	require.NoError(t, err)
	minor, ok := amt.MinorUnits()
	require.True(t, ok)
	assert.Equal(t, int64(123456), minor)
}
