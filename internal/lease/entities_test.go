package lease

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestSnapshotCovers(t *testing.T) {
	prev := Snapshot{PaymentAmount: ptr(1000.0), TermMonths: ptr(12)}
	next := Snapshot{PaymentAmount: ptr(1200.0)}
	assert.True(t, prev.Covers(next))
	assert.False(t, next.Covers(prev))
	assert.True(t, Snapshot{}.IsZero())
	assert.False(t, next.IsZero())
}

func TestSnapshotApply(t *testing.T) {
	terms := Terms{TermMonths: 12, PaymentAmount: 1000, AnnualRatePercent: 6, PaymentsPerYear: 12, Timing: TimingArrears}
	got := Snapshot{PaymentAmount: ptr(1200.0), Timing: ptr(TimingAdvance)}.Apply(terms)
	assert.Equal(t, 1200.0, got.PaymentAmount)
	assert.Equal(t, TimingAdvance, got.Timing)
	// Unset fields pass through.
	assert.Equal(t, 12, got.TermMonths)
	assert.Equal(t, 6.0, got.AnnualRatePercent)
}

func TestContractEndDate(t *testing.T) {
	c := Contract{
		StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Terms:     Terms{TermMonths: 24},
	}
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), c.EndDate())
}

func TestModificationOrdering(t *testing.T) {
	early := Modification{EffectiveDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	late := Modification{EffectiveDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)}
	c := Contract{Modifications: []Modification{late, early}}

	asc := c.ModificationsAsc()
	assert.Equal(t, early.EffectiveDate, asc[0].EffectiveDate)
	desc := c.ModificationsDesc()
	assert.Equal(t, late.EffectiveDate, desc[0].EffectiveDate)
	// Stored order untouched.
	assert.Equal(t, late.EffectiveDate, c.Modifications[0].EffectiveDate)
}

func TestClone(t *testing.T) {
	c := Contract{Modifications: []Modification{{Reason: "original"}}}
	clone := c.Clone()
	clone.Modifications[0].Reason = "changed"
	assert.Equal(t, "original", c.Modifications[0].Reason)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.False(t, Status("frozen").Valid())
	assert.True(t, ModExtension.Valid())
	assert.False(t, ModKind("repaint").Valid())
}
