package v1

import (
	"time"

	"github.com/google/uuid"

	"github.com/leasebook/leasebook/internal/engine"
	"github.com/leasebook/leasebook/internal/journal"
	"github.com/leasebook/leasebook/internal/lease"
)

type postLeaseRequest struct {
	ContractNumber     string               `json:"contract_number"`
	Lessee             string               `json:"lessee"`
	Asset              string               `json:"asset"`
	StartDate          time.Time            `json:"start_date"`
	Terms              lease.Terms          `json:"terms"`
	InitialDirectCosts float64              `json:"initial_direct_costs"`
	LeaseIncentives    float64              `json:"lease_incentives"`
	ResidualValue      float64              `json:"residual_value"`
	Currency           string               `json:"currency"`
	Standard           lease.Standard       `json:"standard,omitempty"`
	Classification     lease.Classification `json:"classification,omitempty"`
	Status             lease.Status         `json:"status,omitempty"`
}

func (r postLeaseRequest) toContract() lease.Contract {
	return lease.Contract{
		ContractNumber:     r.ContractNumber,
		Lessee:             r.Lessee,
		Asset:              r.Asset,
		StartDate:          r.StartDate,
		Terms:              r.Terms,
		InitialDirectCosts: r.InitialDirectCosts,
		LeaseIncentives:    r.LeaseIncentives,
		ResidualValue:      r.ResidualValue,
		Currency:           r.Currency,
		Standard:           r.Standard,
		Classification:     r.Classification,
		Status:             r.Status,
	}
}

type leaseResponse struct {
	lease.Contract
	EndDate time.Time `json:"end_date"`
}

func toLeaseResponse(c lease.Contract) leaseResponse {
	return leaseResponse{Contract: c, EndDate: c.EndDate()}
}

type patchStatusRequest struct {
	Status lease.Status `json:"status"`
}

type postModificationRequest struct {
	EffectiveDate time.Time      `json:"effective_date"`
	Kind          lease.ModKind  `json:"kind"`
	Reason        string         `json:"reason"`
	Previous      lease.Snapshot `json:"previous"`
	New           lease.Snapshot `json:"new"`
}

func (r postModificationRequest) toModification() lease.Modification {
	return lease.Modification{
		EffectiveDate: r.EffectiveDate,
		Kind:          r.Kind,
		Reason:        r.Reason,
		Previous:      r.Previous,
		New:           r.New,
	}
}

type scheduleResponse struct {
	LeaseID   uuid.UUID    `json:"lease_id"`
	Currency  string       `json:"currency"`
	Truncated bool         `json:"truncated"`
	Rows      []engine.Row `json:"rows"`
}

type entryResponse struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	LeaseID       uuid.UUID `json:"lease_id"`
	Description   string    `json:"description"`
	DebitAccount  string    `json:"debit_account"`
	CreditAccount string    `json:"credit_account"`
	DebitMinor    int64     `json:"debit_minor"`
	CreditMinor   int64     `json:"credit_minor"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
}

func toEntryResponse(e journal.Entry) entryResponse {
	resp := entryResponse{
		ID:            e.ID,
		Date:          e.Date,
		LeaseID:       e.LeaseID,
		Description:   e.Description,
		DebitAccount:  e.DebitAccount,
		CreditAccount: e.CreditAccount,
		Currency:      e.Currency,
	}
	if amt, err := e.PostedAmount(); err == nil {
		minor, _ := amt.MinorUnits()
		resp.DebitMinor = minor
		resp.CreditMinor = minor
		resp.Amount = amt.String()
	}
	return resp
}

type entriesResponse struct {
	LeaseID uuid.UUID       `json:"lease_id"`
	Items   []entryResponse `json:"items"`
}

type pvResponse struct {
	LeaseID      uuid.UUID `json:"lease_id"`
	PresentValue float64   `json:"present_value"`
	Currency     string    `json:"currency"`
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}
