package sqlite

// Package sqlite provides a file-backed store for single-node deployments.
// The schema is auto-migrated on Open; WAL mode keeps readers from blocking
// the writer.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/leasebook/leasebook/internal/errs"
	"github.com/leasebook/leasebook/internal/lease"
)

const schema = `
create table if not exists leases (
	id text primary key,
	contract_number text not null unique,
	lessee text not null,
	asset text not null,
	start_date text not null,
	term_months integer not null,
	payment_amount real not null,
	annual_rate_percent real not null,
	payments_per_year integer not null,
	timing text not null,
	initial_direct_costs real not null default 0,
	lease_incentives real not null default 0,
	residual_value real not null default 0,
	currency text not null,
	standard text not null,
	classification text not null,
	status text not null
);

create table if not exists lease_modifications (
	id text primary key,
	lease_id text not null references leases(id),
	recorded_at text not null,
	effective_date text not null,
	kind text not null,
	reason text not null,
	previous_values text not null,
	new_values text not null
);

create index if not exists idx_modifications_lease on lease_modifications(lease_id);
`

// Store implements the contract repository and writer over SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`pragma journal_mode=WAL; pragma foreign_keys=on;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ready pings the database to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.db.PingContext(ctx) }

const leaseColumns = `id, contract_number, lessee, asset, start_date, term_months,
	payment_amount, annual_rate_percent, payments_per_year, timing,
	initial_direct_costs, lease_incentives, residual_value,
	currency, standard, classification, status`

// GetLease returns a contract by id with its modifications populated.
func (s *Store) GetLease(ctx context.Context, id uuid.UUID) (lease.Contract, error) {
	row := s.db.QueryRowContext(ctx, `select `+leaseColumns+` from leases where id = ?`, id.String())
	c, err := scanLease(row)
	if errors.Is(err, sql.ErrNoRows) {
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
	row := s.db.QueryRowContext(ctx, `select `+leaseColumns+` from leases where contract_number = ?`, number)
	c, err := scanLease(row)
	if errors.Is(err, sql.ErrNoRows) {
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

// ListLeases returns all contracts ordered by contract number, with
// modifications populated.
func (s *Store) ListLeases(ctx context.Context) ([]lease.Contract, error) {
	rows, err := s.db.QueryContext(ctx, `select `+leaseColumns+` from leases order by contract_number`)
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
	_, err := s.db.ExecContext(ctx, `
		insert into leases (`+leaseColumns+`)
		values (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, c.ID.String(), c.ContractNumber, c.Lessee, c.Asset, c.StartDate.UTC().Format(time.RFC3339),
		c.Terms.TermMonths, c.Terms.PaymentAmount, c.Terms.AnnualRatePercent,
		c.Terms.PaymentsPerYear, string(c.Terms.Timing),
		c.InitialDirectCosts, c.LeaseIncentives, c.ResidualValue,
		c.Currency, string(c.Standard), string(c.Classification), string(c.Status))
	if err != nil {
		return lease.Contract{}, err
	}
	return c, nil
}

// UpdateLease updates the mutable contract fields.
func (s *Store) UpdateLease(ctx context.Context, c lease.Contract) (lease.Contract, error) {
	res, err := s.db.ExecContext(ctx, `
		update leases
		set contract_number=?, lessee=?, asset=?, start_date=?, term_months=?,
			payment_amount=?, annual_rate_percent=?, payments_per_year=?, timing=?,
			initial_direct_costs=?, lease_incentives=?, residual_value=?,
			currency=?, standard=?, classification=?, status=?
		where id=?
	`, c.ContractNumber, c.Lessee, c.Asset, c.StartDate.UTC().Format(time.RFC3339),
		c.Terms.TermMonths, c.Terms.PaymentAmount, c.Terms.AnnualRatePercent,
		c.Terms.PaymentsPerYear, string(c.Terms.Timing),
		c.InitialDirectCosts, c.LeaseIncentives, c.ResidualValue,
		c.Currency, string(c.Standard), string(c.Classification), string(c.Status),
		c.ID.String())
	if err != nil {
		return lease.Contract{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lease.Contract{}, errs.ErrNotFound
	}
	return c, nil
}

// AppendModification records a modification event for a contract and
// returns the refreshed contract.
func (s *Store) AppendModification(ctx context.Context, leaseID uuid.UUID, m lease.Modification) (lease.Contract, error) {
	prev, err := json.Marshal(m.Previous)
	if err != nil {
		return lease.Contract{}, err
	}
	next, err := json.Marshal(m.New)
	if err != nil {
		return lease.Contract{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		insert into lease_modifications (id, lease_id, recorded_at, effective_date, kind, reason, previous_values, new_values)
		select ?, id, ?, ?, ?, ?, ?, ? from leases where id = ?
	`, m.ID.String(), m.RecordedAt.UTC().Format(time.RFC3339), m.EffectiveDate.UTC().Format(time.RFC3339),
		string(m.Kind), m.Reason, string(prev), string(next), leaseID.String())
	if err != nil {
		return lease.Contract{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lease.Contract{}, errs.ErrNotFound
	}
	return s.GetLease(ctx, leaseID)
}

// loadModifications fills the contract's modification list, newest first.
func (s *Store) loadModifications(ctx context.Context, c *lease.Contract) error {
	rows, err := s.db.QueryContext(ctx, `
		select id, recorded_at, effective_date, kind, reason, previous_values, new_values
		from lease_modifications
		where lease_id = ?
		order by rowid desc
	`, c.ID.String())
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			m                    lease.Modification
			id, recorded, eff    string
			kind, prevJS, nextJS string
		)
		if err := rows.Scan(&id, &recorded, &eff, &kind, &m.Reason, &prevJS, &nextJS); err != nil {
			return err
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return err
		}
		if m.RecordedAt, err = time.Parse(time.RFC3339, recorded); err != nil {
			return err
		}
		if m.EffectiveDate, err = time.Parse(time.RFC3339, eff); err != nil {
			return err
		}
		m.Kind = lease.ModKind(kind)
		if err := json.Unmarshal([]byte(prevJS), &m.Previous); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(nextJS), &m.New); err != nil {
			return err
		}
		c.Modifications = append(c.Modifications, m)
	}
	return rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(r rowScanner) (lease.Contract, error) {
	var (
		c                            lease.Contract
		id, start                    string
		timing, standard, class, sts string
	)
	err := r.Scan(&id, &c.ContractNumber, &c.Lessee, &c.Asset, &start,
		&c.Terms.TermMonths, &c.Terms.PaymentAmount, &c.Terms.AnnualRatePercent,
		&c.Terms.PaymentsPerYear, &timing,
		&c.InitialDirectCosts, &c.LeaseIncentives, &c.ResidualValue,
		&c.Currency, &standard, &class, &sts)
	if err != nil {
		return lease.Contract{}, err
	}
	if c.ID, err = uuid.Parse(id); err != nil {
		return lease.Contract{}, err
	}
	if c.StartDate, err = time.Parse(time.RFC3339, start); err != nil {
		return lease.Contract{}, err
	}
	c.Terms.Timing = lease.Timing(timing)
	c.Standard = lease.Standard(standard)
	c.Classification = lease.Classification(class)
	c.Status = lease.Status(sts)
	return c, nil
}
