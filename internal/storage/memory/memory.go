package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing
// a real DB to be plugged in behind the same interfaces.
import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/leasebook/leasebook/internal/errs"
	"github.com/leasebook/leasebook/internal/lease"
)

// Store is an in-memory implementation of the contract repository and
// writer. It is guarded by an RWMutex for concurrent reads/writes.
type Store struct {
	mu     sync.RWMutex
	leases map[uuid.UUID]lease.Contract
	// byNumber indexes lease IDs by contract number for conflict checks.
	byNumber map[string]uuid.UUID
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		leases:   make(map[uuid.UUID]lease.Contract),
		byNumber: make(map[string]uuid.UUID),
	}
}

// SeedLease inserts a contract directly, bypassing validation. For local
// dev and tests.
func (s *Store) SeedLease(c lease.Contract) {
	s.mu.Lock()
	s.leases[c.ID] = c.Clone()
	s.byNumber[c.ContractNumber] = c.ID
	s.mu.Unlock()
}

// Reset clears all state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.leases = map[uuid.UUID]lease.Contract{}
	s.byNumber = map[string]uuid.UUID{}
	s.mu.Unlock()
}

// GetLease returns a contract by id.
func (s *Store) GetLease(_ context.Context, id uuid.UUID) (lease.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.leases[id]
	if !ok {
		return lease.Contract{}, errs.ErrNotFound
	}
	return c.Clone(), nil
}

// ListLeases returns all contracts ordered by contract number.
func (s *Store) ListLeases(_ context.Context) ([]lease.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lease.Contract, 0, len(s.leases))
	for _, c := range s.leases {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractNumber < out[j].ContractNumber })
	return out, nil
}

// LeaseByContractNumber resolves a contract by its business key.
func (s *Store) LeaseByContractNumber(_ context.Context, number string) (lease.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[number]
	if !ok {
		return lease.Contract{}, errs.ErrNotFound
	}
	return s.leases[id].Clone(), nil
}

// CreateLease inserts a new contract.
func (s *Store) CreateLease(_ context.Context, c lease.Contract) (lease.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leases[c.ID]; ok {
		return lease.Contract{}, errs.ErrConflict
	}
	if _, ok := s.byNumber[c.ContractNumber]; ok {
		return lease.Contract{}, errs.ErrConflict
	}
	s.leases[c.ID] = c.Clone()
	s.byNumber[c.ContractNumber] = c.ID
	return c, nil
}

// UpdateLease replaces an existing contract's fields.
func (s *Store) UpdateLease(_ context.Context, c lease.Contract) (lease.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.leases[c.ID]
	if !ok {
		return lease.Contract{}, errs.ErrNotFound
	}
	if prev.ContractNumber != c.ContractNumber {
		delete(s.byNumber, prev.ContractNumber)
		s.byNumber[c.ContractNumber] = c.ID
	}
	s.leases[c.ID] = c.Clone()
	return c, nil
}

// AppendModification records a modification at the head of the contract's
// list (newest-first display order; the engine re-sorts chronologically).
func (s *Store) AppendModification(_ context.Context, leaseID uuid.UUID, m lease.Modification) (lease.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.leases[leaseID]
	if !ok {
		return lease.Contract{}, errs.ErrNotFound
	}
	mods := make([]lease.Modification, 0, len(c.Modifications)+1)
	mods = append(mods, m)
	mods = append(mods, c.Modifications...)
	c.Modifications = mods
	s.leases[leaseID] = c
	return c.Clone(), nil
}
