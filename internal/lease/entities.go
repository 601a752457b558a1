package lease

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of a lease contract.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusTerminated Status = "terminated"
	StatusEnded      Status = "ended"
	StatusArchived   Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusTerminated, StatusEnded, StatusArchived:
		return true
	}
	return false
}

// Timing selects the annuity convention for lease payments.
type Timing string

const (
	// TimingArrears pays at the end of each payment cycle (ordinary annuity).
	TimingArrears Timing = "in_arrears"
	// TimingAdvance pays at the start of each payment cycle (annuity due).
	TimingAdvance Timing = "in_advance"
)

// Standard identifies the accounting standard the contract is reported under.
type Standard string

const (
	StandardIFRS16 Standard = "ifrs16"
	StandardASC842 Standard = "asc842"
)

// Classification is supplied by the contract-management layer; the engine
// does not decide it.
type Classification string

const (
	ClassificationFinance   Classification = "finance"
	ClassificationOperating Classification = "operating"
)

// ModKind enumerates the categories of contract modifications.
type ModKind string

const (
	ModExtension     ModKind = "extension"
	ModTermination   ModKind = "termination"
	ModPaymentChange ModKind = "payment_change"
	ModScopeDecrease ModKind = "scope_decrease"
	ModOther         ModKind = "other"
)

// Valid reports whether k is a known modification kind.
func (k ModKind) Valid() bool {
	switch k {
	case ModExtension, ModTermination, ModPaymentChange, ModScopeDecrease, ModOther:
		return true
	}
	return false
}

// Terms holds the financial terms the amortization engine simulates on.
// A modification may change any subset of these.
type Terms struct {
	TermMonths        int     `json:"term_months"`
	PaymentAmount     float64 `json:"payment_amount"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	// PaymentsPerYear is the payment frequency (12 monthly, 4 quarterly, 1 annual).
	PaymentsPerYear int    `json:"payments_per_year"`
	Timing          Timing `json:"timing"`
}

// Snapshot is a partial view over Terms. A modification carries two of
// these: the values before the change and the values after it. Only the
// fields the change touches are set.
type Snapshot struct {
	TermMonths        *int     `json:"term_months,omitempty"`
	PaymentAmount     *float64 `json:"payment_amount,omitempty"`
	AnnualRatePercent *float64 `json:"annual_rate_percent,omitempty"`
	PaymentsPerYear   *int     `json:"payments_per_year,omitempty"`
	Timing            *Timing  `json:"timing,omitempty"`
}

// IsZero reports whether the snapshot sets no fields at all.
func (s Snapshot) IsZero() bool {
	return s.TermMonths == nil && s.PaymentAmount == nil &&
		s.AnnualRatePercent == nil && s.PaymentsPerYear == nil && s.Timing == nil
}

// Covers reports whether every field set in other is also set in s.
// A modification's Previous snapshot must cover its New snapshot so the
// change can be unwound exactly.
func (s Snapshot) Covers(other Snapshot) bool {
	if other.TermMonths != nil && s.TermMonths == nil {
		return false
	}
	if other.PaymentAmount != nil && s.PaymentAmount == nil {
		return false
	}
	if other.AnnualRatePercent != nil && s.AnnualRatePercent == nil {
		return false
	}
	if other.PaymentsPerYear != nil && s.PaymentsPerYear == nil {
		return false
	}
	if other.Timing != nil && s.Timing == nil {
		return false
	}
	return true
}

// Apply overlays the set fields of the snapshot onto t and returns the result.
func (s Snapshot) Apply(t Terms) Terms {
	if s.TermMonths != nil {
		t.TermMonths = *s.TermMonths
	}
	if s.PaymentAmount != nil {
		t.PaymentAmount = *s.PaymentAmount
	}
	if s.AnnualRatePercent != nil {
		t.AnnualRatePercent = *s.AnnualRatePercent
	}
	if s.PaymentsPerYear != nil {
		t.PaymentsPerYear = *s.PaymentsPerYear
	}
	if s.Timing != nil {
		t.Timing = *s.Timing
	}
	return t
}

// Modification is an immutable contract-change event. Previous and New are
// exact inverses over the fields the change touches.
type Modification struct {
	ID            uuid.UUID `json:"id"`
	RecordedAt    time.Time `json:"recorded_at"`
	EffectiveDate time.Time `json:"effective_date"`
	Kind          ModKind   `json:"kind"`
	Reason        string    `json:"reason"`
	Previous      Snapshot  `json:"previous"`
	New           Snapshot  `json:"new"`
}

// Contract is a lease contract together with its modification history.
// Modifications are kept newest-first for display; the engine sorts them
// chronologically before replay.
type Contract struct {
	ID             uuid.UUID      `json:"id"`
	ContractNumber string         `json:"contract_number"`
	Lessee         string         `json:"lessee"`
	Asset          string         `json:"asset"`
	StartDate      time.Time      `json:"start_date"`
	Terms          Terms          `json:"terms"`
	// Adjustments to the right-of-use asset at initial recognition.
	InitialDirectCosts float64        `json:"initial_direct_costs"`
	LeaseIncentives    float64        `json:"lease_incentives"`
	ResidualValue      float64        `json:"residual_value"`
	Currency           string         `json:"currency"`
	Standard           Standard       `json:"standard"`
	Classification     Classification `json:"classification"`
	Status             Status         `json:"status"`
	Modifications      []Modification `json:"modifications,omitempty"`
}

// EndDate derives the contract end from start date plus term.
func (c Contract) EndDate() time.Time {
	return c.StartDate.AddDate(0, c.Terms.TermMonths, 0)
}

// ModificationsAsc returns the modifications sorted ascending by effective
// date, earliest first. The receiver's slice is not touched.
func (c Contract) ModificationsAsc() []Modification {
	out := make([]Modification, len(c.Modifications))
	copy(out, c.Modifications)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveDate.Before(out[j].EffectiveDate)
	})
	return out
}

// ModificationsDesc returns the modifications sorted descending by effective
// date, most recent first.
func (c Contract) ModificationsDesc() []Modification {
	out := make([]Modification, len(c.Modifications))
	copy(out, c.Modifications)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].EffectiveDate.Before(out[i].EffectiveDate)
	})
	return out
}

// Clone returns a deep copy of the contract, including its modification list.
func (c Contract) Clone() Contract {
	out := c
	if c.Modifications != nil {
		out.Modifications = make([]Modification, len(c.Modifications))
		copy(out.Modifications, c.Modifications)
	}
	return out
}
