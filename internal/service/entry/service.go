// Package entry implements write-side rules for ledger entries: a real
// ISO date, a known type, and a party reference that matches the entry
// type's side. Validation happens here, at the caller boundary; the store
// itself stays tolerant so odd records already on disk keep loading.
package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khatalabs/khata/internal/errs"
	"github.com/khatalabs/khata/internal/khata"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ListEntries(ctx context.Context) ([]khata.LedgerEntry, error)
	GetEntry(ctx context.Context, id string) (khata.LedgerEntry, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	UpsertEntry(ctx context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error)
	RemoveEntry(ctx context.Context, id string) error
}

// Service exposes validation and CRUD for ledger entries.
type Service interface {
	Validate(e khata.LedgerEntry) error
	Create(ctx context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error)
	Update(ctx context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]khata.LedgerEntry, error)
	Get(ctx context.Context, id string) (khata.LedgerEntry, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// Validate checks the cross-field rules for a new or edited entry:
// date is a real YYYY-MM-DD, type is one of the five kinds, and a party
// reference (when present) sits on the side the type allows. Amounts are
// deliberately not checked against each other: amount < paid is a legal
// overpayment and is recorded as-is.
func (s *service) Validate(e khata.LedgerEntry) error {
	if e.Date == "" {
		return fmt.Errorf("%w: date is required", errs.ErrInvalid)
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", errs.ErrInvalid)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown entry type", errs.ErrInvalid)
	}
	if e.PartyType != nil {
		want, ok := e.Type.PartySide()
		if !ok {
			return fmt.Errorf("%w: entry type takes no party", errs.ErrInvalid)
		}
		if *e.PartyType != want {
			return fmt.Errorf("%w: party type does not match entry type", errs.ErrInvalid)
		}
	}
	if e.PartyID != nil && e.PartyType == nil {
		return fmt.Errorf("%w: party id without party type", errs.ErrInvalid)
	}
	if e.Amount.IsNeg() || e.Paid.IsNeg() {
		return fmt.Errorf("%w: amounts must not be negative", errs.ErrInvalid)
	}
	return nil
}

func (s *service) Create(ctx context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error) {
	if err := s.Validate(e); err != nil {
		return khata.LedgerEntry{}, err
	}
	e.ID = uuid.NewString()
	return s.writer.UpsertEntry(ctx, e)
}

func (s *service) Update(ctx context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error) {
	if e.ID == "" {
		return khata.LedgerEntry{}, errs.ErrInvalid
	}
	if err := s.Validate(e); err != nil {
		return khata.LedgerEntry{}, err
	}
	if _, err := s.repo.GetEntry(ctx, e.ID); err != nil {
		return khata.LedgerEntry{}, err
	}
	return s.writer.UpsertEntry(ctx, e)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errs.ErrInvalid
	}
	return s.writer.RemoveEntry(ctx, id)
}

func (s *service) List(ctx context.Context) ([]khata.LedgerEntry, error) {
	return s.repo.ListEntries(ctx)
}

func (s *service) Get(ctx context.Context, id string) (khata.LedgerEntry, error) {
	if id == "" {
		return khata.LedgerEntry{}, errs.ErrInvalid
	}
	return s.repo.GetEntry(ctx, id)
}
