// Package postgres provides a pgx-backed record store behind the same
// interfaces as the in-memory one. It is intentionally small and explicit:
// mapping between domain records and SQL rows, nothing more. Amount columns
// are stored as text so the lenient numeric policy applies uniformly on the
// way back out.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatalabs/khata/internal/errs"
	"github.com/khatalabs/khata/internal/khata"
	"github.com/khatalabs/khata/internal/numeric"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
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
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// ensureSchema creates the three tables when missing. The pos column keeps
// insertion order so an exported snapshot matches what was loaded.
// Statements run one at a time; pgx's extended protocol takes a single
// statement per Exec.
func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`create table if not exists company (
			only_row                bool primary key default true check (only_row),
			name                    text not null default '',
			currency                text not null default '',
			fiscal_year_start_month int  not null default 0
		)`,
		`create table if not exists parties (
			pos             bigint generated always as identity,
			id              text not null,
			kind            text not null,
			name            text not null,
			phone           text not null default '',
			address         text not null default '',
			notes           text not null default '',
			opening_balance text not null default '0',
			primary key (kind, id)
		)`,
		`create table if not exists entries (
			pos        bigint generated always as identity,
			id         text primary key,
			date       text not null,
			type       text not null,
			party_type text,
			party_id   text,
			ref        text not null default '',
			descr      text not null default '',
			category   text not null default '',
			amount     text not null default '0',
			paid       text not null default '0',
			method     text not null default ''
		)`,
		`insert into company (only_row) values (true) on conflict do nothing`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- Party operations ---

const partyCols = `id, name, phone, address, notes, opening_balance`

func scanParty(row pgx.Row) (khata.Party, error) {
	var p khata.Party
	var opening string
	if err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.Address, &p.Notes, &opening); err != nil {
		return khata.Party{}, err
	}
	p.OpeningBalance = numeric.Lenient(opening)
	return p, nil
}

// ListParties returns one collection in insertion order.
func (s *Store) ListParties(ctx context.Context, t khata.PartyType) ([]khata.Party, error) {
	rows, err := s.pool.Query(ctx, `
		select `+partyCols+` from parties where kind = $1 order by pos
	`, string(t))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]khata.Party, 0)
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetParty returns a party by id within its collection.
func (s *Store) GetParty(ctx context.Context, t khata.PartyType, id string) (khata.Party, error) {
	row := s.pool.QueryRow(ctx, `
		select `+partyCols+` from parties where kind = $1 and id = $2
	`, string(t), id)
	p, err := scanParty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return khata.Party{}, errs.ErrNotFound
	}
	return p, err
}

// UpsertParty inserts or replaces a party, keeping its original position.
func (s *Store) UpsertParty(ctx context.Context, t khata.PartyType, p khata.Party) (khata.Party, error) {
	_, err := s.pool.Exec(ctx, `
		insert into parties (id, kind, name, phone, address, notes, opening_balance)
		values ($1,$2,$3,$4,$5,$6,$7)
		on conflict (kind, id) do update set
			name = excluded.name,
			phone = excluded.phone,
			address = excluded.address,
			notes = excluded.notes,
			opening_balance = excluded.opening_balance
	`, p.ID, string(t), p.Name, p.Phone, p.Address, p.Notes, p.OpeningBalance.String())
	return p, err
}

// RemoveParty deletes a party. Entries referencing it are left alone.
func (s *Store) RemoveParty(ctx context.Context, t khata.PartyType, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from parties where kind = $1 and id = $2`, string(t), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Entry operations ---

const entryCols = `id, date, type, party_type, party_id, ref, descr, category, amount, paid, method`

func scanEntry(row pgx.Row) (khata.LedgerEntry, error) {
	var e khata.LedgerEntry
	var partyType, partyID *string
	var amount, paid string
	if err := row.Scan(&e.ID, &e.Date, &e.Type, &partyType, &partyID, &e.Ref, &e.Desc, &e.Category, &amount, &paid, &e.Method); err != nil {
		return khata.LedgerEntry{}, err
	}
	if partyType != nil {
		pt := khata.PartyType(*partyType)
		e.PartyType = &pt
	}
	e.PartyID = partyID
	e.Amount = numeric.Lenient(amount)
	e.Paid = numeric.Lenient(paid)
	return e, nil
}

// ListEntries returns all entries sorted ascending by (date, id).
func (s *Store) ListEntries(ctx context.Context) ([]khata.LedgerEntry, error) {
	rows, err := s.pool.Query(ctx, `
		select `+entryCols+` from entries order by date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]khata.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEntry returns an entry by id.
func (s *Store) GetEntry(ctx context.Context, id string) (khata.LedgerEntry, error) {
	row := s.pool.QueryRow(ctx, `select `+entryCols+` from entries where id = $1`, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return khata.LedgerEntry{}, errs.ErrNotFound
	}
	return e, err
}

// UpsertEntry inserts or replaces an entry verbatim.
func (s *Store) UpsertEntry(ctx context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error) {
	var partyType *string
	if e.PartyType != nil {
		pt := string(*e.PartyType)
		partyType = &pt
	}
	_, err := s.pool.Exec(ctx, `
		insert into entries (id, date, type, party_type, party_id, ref, descr, category, amount, paid, method)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		on conflict (id) do update set
			date = excluded.date,
			type = excluded.type,
			party_type = excluded.party_type,
			party_id = excluded.party_id,
			ref = excluded.ref,
			descr = excluded.descr,
			category = excluded.category,
			amount = excluded.amount,
			paid = excluded.paid,
			method = excluded.method
	`, e.ID, e.Date, string(e.Type), partyType, e.PartyID, e.Ref, e.Desc, e.Category, e.Amount.String(), e.Paid.String(), e.Method)
	return e, err
}

// RemoveEntry deletes an entry by id.
func (s *Store) RemoveEntry(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `delete from entries where id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- Company and snapshot ---

// Company returns the stored company profile.
func (s *Store) Company(ctx context.Context) (khata.Company, error) {
	var c khata.Company
	err := s.pool.QueryRow(ctx, `
		select name, currency, fiscal_year_start_month from company where only_row
	`).Scan(&c.Name, &c.Currency, &c.FiscalYearStartMonth)
	if errors.Is(err, pgx.ErrNoRows) {
		return khata.Company{}, nil
	}
	return c, err
}

// SetCompany replaces the company profile.
func (s *Store) SetCompany(ctx context.Context, c khata.Company) error {
	_, err := s.pool.Exec(ctx, `
		update company set name = $1, currency = $2, fiscal_year_start_month = $3 where only_row
	`, c.Name, c.Currency, c.FiscalYearStartMonth)
	return err
}

// Snapshot reads the full store state in insertion order.
func (s *Store) Snapshot(ctx context.Context) (khata.Snapshot, error) {
	snap := khata.Snapshot{Clients: []khata.Party{}, Vendors: []khata.Party{}, Ledger: []khata.LedgerEntry{}}
	c, err := s.Company(ctx)
	if err != nil {
		return khata.Snapshot{}, err
	}
	snap.Company = c
	if snap.Clients, err = s.ListParties(ctx, khata.PartyTypeClient); err != nil {
		return khata.Snapshot{}, err
	}
	if snap.Vendors, err = s.ListParties(ctx, khata.PartyTypeVendor); err != nil {
		return khata.Snapshot{}, err
	}
	rows, err := s.pool.Query(ctx, `select `+entryCols+` from entries order by pos`)
	if err != nil {
		return khata.Snapshot{}, err
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return khata.Snapshot{}, err
		}
		snap.Ledger = append(snap.Ledger, e)
	}
	return snap, rows.Err()
}

// ReplaceSnapshot swaps the entire store state inside one transaction.
func (s *Store) ReplaceSnapshot(ctx context.Context, snap khata.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `delete from parties`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `delete from entries`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		update company set name = $1, currency = $2, fiscal_year_start_month = $3 where only_row
	`, snap.Company.Name, snap.Company.Currency, snap.Company.FiscalYearStartMonth); err != nil {
		return err
	}
	insertParty := func(kind khata.PartyType, p khata.Party) error {
		_, err := tx.Exec(ctx, `
			insert into parties (id, kind, name, phone, address, notes, opening_balance)
			values ($1,$2,$3,$4,$5,$6,$7)
		`, p.ID, string(kind), p.Name, p.Phone, p.Address, p.Notes, p.OpeningBalance.String())
		return err
	}
	for _, p := range snap.Clients {
		if err := insertParty(khata.PartyTypeClient, p); err != nil {
			return err
		}
	}
	for _, p := range snap.Vendors {
		if err := insertParty(khata.PartyTypeVendor, p); err != nil {
			return err
		}
	}
	for _, e := range snap.Ledger {
		var partyType *string
		if e.PartyType != nil {
			pt := string(*e.PartyType)
			partyType = &pt
		}
		if _, err := tx.Exec(ctx, `
			insert into entries (id, date, type, party_type, party_id, ref, descr, category, amount, paid, method)
			values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, e.ID, e.Date, string(e.Type), partyType, e.PartyID, e.Ref, e.Desc, e.Category, e.Amount.String(), e.Paid.String(), e.Method); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
