package postgres

// Package postgres provides a pgx-backed storage implementation satisfying
// the repository and writer interfaces used by the HTTP API and services.
//
// It is intentionally small and explicit: mapping between the domain
// entities and SQL rows, plus the necessary statements/transactions. The
// schema is created on Open when missing.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leasebook/leasebook/internal/errs"
	"github.com/leasebook/leasebook/internal/lease"
)

const schema = `
create table if not exists leases (
	id uuid primary key,
	contract_number text not null unique,
	lessee text not null,
	asset text not null,
	start_date timestamptz not null,
	term_months integer not null,
	payment_amount double precision not null,
	annual_rate_percent double precision not null,
	payments_per_year integer not null,
	timing text not null,
	initial_direct_costs double precision not null default 0,
	lease_incentives double precision not null default 0,
	residual_value double precision not null default 0,
	currency text not null,
	standard text not null,
	classification text not null,
	status text not null
);

create table if not exists lease_modifications (
	seq bigserial primary key,
	id uuid not null unique,
	lease_id uuid not null references leases(id),
	recorded_at timestamptz not null,
	effective_date timestamptz not null,
	kind text not null,
	reason text not null,
	previous_values jsonb not null,
	new_values jsonb not null
);

create index if not exists idx_modifications_lease on lease_modifications(lease_id);
`

// Store holds a pgx connection pool and implements the read/write
// interfaces used across the service layer. All methods are safe for
// concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string and
// ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

const leaseColumns = `id, contract_number, lessee, asset, start_date, term_months,
	payment_amount, annual_rate_percent, payments_per_year, timing,
	initial_direct_costs, lease_incentives, residual_value,
	currency, standard, classification, status`

// GetLease returns a contract by id with modifications populated.
func (s *Store) GetLease(ctx context.Context, id uuid.UUID) (lease.Contract, error) {
	row := s.pool.QueryRow(ctx, `select `+leaseColumns+` from leases where id = $1`, id)
	c, err := scanLease(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return lease.Contract{}, errs.ErrNotFound
	}
	if err != nil {
		return lease.Contract{}, err
	}
	if err := s.loadModifications(ctx, &c); err != nil {
		return lease.Contract{}, err
	}
	return c, nil
}

// LeaseByContractNumber resolves a contract by its business key.
func (s *Store) LeaseByContractNumber(ctx context.Context, number string) (lease.Contract, error) {
	row := s.pool.QueryRow(ctx, `select `+leaseColumns+` from leases where contract_number = $1`, number)
	c, err := scanLease(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return lease.Contract{}, errs.ErrNotFound
	}
	if err != nil {
		return lease.Contract{}, err
	}
	if err := s.loadModifications(ctx, &c); err != nil {
		return lease.Contract{}, err
	}
	return c, nil
}

// ListLeases returns all contracts ordered by contract number.
func (s *Store) ListLeases(ctx context.Context) ([]lease.Contract, error) {
	rows, err := s.pool.Query(ctx, `select `+leaseColumns+` from leases order by contract_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]lease.Contract, 0)
	for rows.Next() {
		c, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadModifications(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CreateLease inserts a contract row.
func (s *Store) CreateLease(ctx context.Context, c lease.Contract) (lease.Contract, error) {
	_, err := s.pool.Exec(ctx, `
		insert into leases (`+leaseColumns+`)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, c.ID, c.ContractNumber, c.Lessee, c.Asset, c.StartDate,
		c.Terms.TermMonths, c.Terms.PaymentAmount, c.Terms.AnnualRatePercent,
		c.Terms.PaymentsPerYear, string(c.Terms.Timing),
		c.InitialDirectCosts, c.LeaseIncentives, c.ResidualValue,
		strings.ToUpper(c.Currency), string(c.Standard), string(c.Classification), string(c.Status))
	if err != nil {
		return lease.Contract{}, err
	}
	return c, nil
}

// UpdateLease updates the mutable contract fields.
func (s *Store) UpdateLease(ctx context.Context, c lease.Contract) (lease.Contract, error) {
	ct, err := s.pool.Exec(ctx, `
		update leases
		set contract_number=$1, lessee=$2, asset=$3, start_date=$4, term_months=$5,
			payment_amount=$6, annual_rate_percent=$7, payments_per_year=$8, timing=$9,
			initial_direct_costs=$10, lease_incentives=$11, residual_value=$12,
			currency=$13, standard=$14, classification=$15, status=$16
		where id=$17
	`, c.ContractNumber, c.Lessee, c.Asset, c.StartDate,
		c.Terms.TermMonths, c.Terms.PaymentAmount, c.Terms.AnnualRatePercent,
		c.Terms.PaymentsPerYear, string(c.Terms.Timing),
		c.InitialDirectCosts, c.LeaseIncentives, c.ResidualValue,
		strings.ToUpper(c.Currency), string(c.Standard), string(c.Classification), string(c.Status),
		c.ID)
	if err != nil {
		return lease.Contract{}, err
	}
	if ct.RowsAffected() == 0 {
		return lease.Contract{}, errs.ErrNotFound
	}
	return c, nil
}

// AppendModification records a modification event and returns the
// refreshed contract.
func (s *Store) AppendModification(ctx context.Context, leaseID uuid.UUID, m lease.Modification) (lease.Contract, error) {
	prev, err := json.Marshal(m.Previous)
	if err != nil {
		return lease.Contract{}, err
	}
	next, err := json.Marshal(m.New)
	if err != nil {
		return lease.Contract{}, err
	}
	ct, err := s.pool.Exec(ctx, `
		insert into lease_modifications (id, lease_id, recorded_at, effective_date, kind, reason, previous_values, new_values)
		select $1, id, $2, $3, $4, $5, $6, $7 from leases where id = $8
	`, m.ID, m.RecordedAt, m.EffectiveDate, string(m.Kind), m.Reason, prev, next, leaseID)
	if err != nil {
		return lease.Contract{}, err
	}
	if ct.RowsAffected() == 0 {
		return lease.Contract{}, errs.ErrNotFound
	}
	return s.GetLease(ctx, leaseID)
}

// loadModifications fills the contract's modification list, newest first.
func (s *Store) loadModifications(ctx context.Context, c *lease.Contract) error {
	rows, err := s.pool.Query(ctx, `
		select id, recorded_at, effective_date, kind, reason, previous_values, new_values
		from lease_modifications
		where lease_id = $1
		order by seq desc
	`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			m            lease.Modification
			kind         string
			prevB, nextB []byte
		)
		if err := rows.Scan(&m.ID, &m.RecordedAt, &m.EffectiveDate, &kind, &m.Reason, &prevB, &nextB); err != nil {
			return err
		}
		m.Kind = lease.ModKind(kind)
		if err := json.Unmarshal(prevB, &m.Previous); err != nil {
			return err
		}
		if err := json.Unmarshal(nextB, &m.New); err != nil {
			return err
		}
		c.Modifications = append(c.Modifications, m)
	}
	return rows.Err()
}

func scanLease(r pgx.Row) (lease.Contract, error) {
	var (
		c                            lease.Contract
		timing, standard, class, sts string
	)
	err := r.Scan(&c.ID, &c.ContractNumber, &c.Lessee, &c.Asset, &c.StartDate,
		&c.Terms.TermMonths, &c.Terms.PaymentAmount, &c.Terms.AnnualRatePercent,
		&c.Terms.PaymentsPerYear, &timing,
		&c.InitialDirectCosts, &c.LeaseIncentives, &c.ResidualValue,
		&c.Currency, &standard, &class, &sts)
	if err != nil {
		return lease.Contract{}, err
	}
	c.Terms.Timing = lease.Timing(timing)
	c.Standard = lease.Standard(standard)
	c.Classification = lease.Classification(class)
	c.Status = lease.Status(sts)
	return c, nil
}
