// Package contract manages lease contracts and their modification logs.
// It owns input validation; the engine downstream assumes contracts that
// reach it have passed through here.
package contract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leasebook/leasebook/internal/errs"
	"github.com/leasebook/leasebook/internal/lease"
)

// Repo defines read operations needed by the service.
type Repo interface {
	GetLease(ctx context.Context, id uuid.UUID) (lease.Contract, error)
	ListLeases(ctx context.Context) ([]lease.Contract, error)
	LeaseByContractNumber(ctx context.Context, number string) (lease.Contract, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateLease(ctx context.Context, c lease.Contract) (lease.Contract, error)
	UpdateLease(ctx context.Context, c lease.Contract) (lease.Contract, error)
	AppendModification(ctx context.Context, leaseID uuid.UUID, m lease.Modification) (lease.Contract, error)
}

// Service exposes validation and persistence of lease contracts.
type Service interface {
	Create(ctx context.Context, c lease.Contract) (lease.Contract, error)
	Get(ctx context.Context, id uuid.UUID) (lease.Contract, error)
	List(ctx context.Context) ([]lease.Contract, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status lease.Status) (lease.Contract, error)
	AddModification(ctx context.Context, leaseID uuid.UUID, m lease.Modification) (lease.Contract, error)
}

type service struct {
	repo   Repo
	writer Writer
}

// New constructs the contract service.
func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// Create validates and persists a new contract. Duplicate contract numbers
// conflict.
func (s *service) Create(ctx context.Context, c lease.Contract) (lease.Contract, error) {
	if err := validateContract(c); err != nil {
		return lease.Contract{}, err
	}
	if _, err := s.repo.LeaseByContractNumber(ctx, c.ContractNumber); err == nil {
		return lease.Contract{}, fmt.Errorf("%w: contract number %q exists", errs.ErrConflict, c.ContractNumber)
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = lease.StatusDraft
	}
	if c.Terms.Timing == "" {
		c.Terms.Timing = lease.TimingArrears
	}
	if c.Standard == "" {
		c.Standard = lease.StandardIFRS16
	}
	c.Currency = strings.ToUpper(c.Currency)
	c.Modifications = nil
	return s.writer.CreateLease(ctx, c)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (lease.Contract, error) {
	if id == uuid.Nil {
		return lease.Contract{}, errs.ErrInvalid
	}
	return s.repo.GetLease(ctx, id)
}

func (s *service) List(ctx context.Context) ([]lease.Contract, error) {
	return s.repo.ListLeases(ctx)
}

// UpdateStatus moves a contract through its lifecycle.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status lease.Status) (lease.Contract, error) {
	if id == uuid.Nil || !status.Valid() {
		return lease.Contract{}, errs.ErrInvalid
	}
	c, err := s.repo.GetLease(ctx, id)
	if err != nil {
		return lease.Contract{}, err
	}
	c.Status = status
	return s.writer.UpdateLease(ctx, c)
}

// AddModification validates and records a contract change event. The
// previous snapshot must cover the new one, so the event can be unwound
// exactly during inception-state reconstruction.
func (s *service) AddModification(ctx context.Context, leaseID uuid.UUID, m lease.Modification) (lease.Contract, error) {
	if leaseID == uuid.Nil {
		return lease.Contract{}, errs.ErrInvalid
	}
	if !m.Kind.Valid() {
		return lease.Contract{}, fmt.Errorf("%w: unknown modification kind %q", errs.ErrInvalid, m.Kind)
	}
	if m.New.IsZero() {
		return lease.Contract{}, errs.ErrEmptyChange
	}
	if !m.Previous.Covers(m.New) {
		return lease.Contract{}, errs.ErrAsymmetricChange
	}
	c, err := s.repo.GetLease(ctx, leaseID)
	if err != nil {
		return lease.Contract{}, err
	}
	if m.EffectiveDate.Before(c.StartDate) {
		return lease.Contract{}, fmt.Errorf("%w: effective date precedes lease start", errs.ErrUnprocessable)
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	return s.writer.AppendModification(ctx, leaseID, m)
}

func validateContract(c lease.Contract) error {
	switch {
	case strings.TrimSpace(c.ContractNumber) == "":
		return fmt.Errorf("%w: contract_number required", errs.ErrInvalid)
	case strings.TrimSpace(c.Lessee) == "":
		return fmt.Errorf("%w: lessee required", errs.ErrInvalid)
	case strings.TrimSpace(c.Asset) == "":
		return fmt.Errorf("%w: asset required", errs.ErrInvalid)
	case c.StartDate.IsZero():
		return fmt.Errorf("%w: start_date required", errs.ErrInvalid)
	case c.Terms.TermMonths <= 0:
		return fmt.Errorf("%w: term_months must be positive", errs.ErrInvalid)
	case c.Terms.PaymentAmount < 0:
		return fmt.Errorf("%w: payment_amount must not be negative", errs.ErrInvalid)
	case c.Terms.AnnualRatePercent < 0:
		return fmt.Errorf("%w: annual_rate_percent must not be negative", errs.ErrInvalid)
	case c.InitialDirectCosts < 0 || c.LeaseIncentives < 0 || c.ResidualValue < 0:
		return fmt.Errorf("%w: adjustment fields must not be negative", errs.ErrInvalid)
	case len(c.Currency) != 3:
		return fmt.Errorf("%w: currency must be a 3-letter code", errs.ErrInvalid)
	}
	freq := c.Terms.PaymentsPerYear
	if freq <= 0 || 12%freq != 0 {
		return fmt.Errorf("%w: payments_per_year must divide 12", errs.ErrInvalid)
	}
	if c.Terms.Timing != "" && c.Terms.Timing != lease.TimingArrears && c.Terms.Timing != lease.TimingAdvance {
		return fmt.Errorf("%w: timing must be in_arrears or in_advance", errs.ErrInvalid)
	}
	return nil
}
