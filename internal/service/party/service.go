// Package party implements the client/vendor rules: ids are immutable,
// name is required, edits replace every field, and deleting a party leaves
// its ledger entries in place.
package party

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/khatalabs/khata/internal/errs"
	"github.com/khatalabs/khata/internal/khata"
)

// Repo defines read operations needed by the service.
type Repo interface {
	ListParties(ctx context.Context, t khata.PartyType) ([]khata.Party, error)
	GetParty(ctx context.Context, t khata.PartyType, id string) (khata.Party, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	UpsertParty(ctx context.Context, t khata.PartyType, p khata.Party) (khata.Party, error)
	RemoveParty(ctx context.Context, t khata.PartyType, id string) error
}

// Service exposes validation and CRUD for the two party collections.
type Service interface {
	Create(ctx context.Context, t khata.PartyType, p khata.Party) (khata.Party, error)
	Update(ctx context.Context, t khata.PartyType, p khata.Party) (khata.Party, error)
	Delete(ctx context.Context, t khata.PartyType, id string) error
	List(ctx context.Context, t khata.PartyType) ([]khata.Party, error)
	Get(ctx context.Context, t khata.PartyType, id string) (khata.Party, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func validate(t khata.PartyType, p khata.Party) error {
	if !t.Valid() {
		return errs.ErrInvalid
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", errs.ErrInvalid)
	}
	return nil
}

func (s *service) Create(ctx context.Context, t khata.PartyType, p khata.Party) (khata.Party, error) {
	if err := validate(t, p); err != nil {
		return khata.Party{}, err
	}
	p.ID = uuid.NewString()
	return s.writer.UpsertParty(ctx, t, p)
}

// Update replaces every field of an existing party. The id never changes.
func (s *service) Update(ctx context.Context, t khata.PartyType, p khata.Party) (khata.Party, error) {
	if err := validate(t, p); err != nil {
		return khata.Party{}, err
	}
	if p.ID == "" {
		return khata.Party{}, errs.ErrInvalid
	}
	if _, err := s.repo.GetParty(ctx, t, p.ID); err != nil {
		return khata.Party{}, err
	}
	return s.writer.UpsertParty(ctx, t, p)
}

// Delete removes the party only. Referencing entries stay; their lookups
// degrade to the unknown-party sentinel on the read side.
func (s *service) Delete(ctx context.Context, t khata.PartyType, id string) error {
	if !t.Valid() || id == "" {
		return errs.ErrInvalid
	}
	return s.writer.RemoveParty(ctx, t, id)
}

func (s *service) List(ctx context.Context, t khata.PartyType) ([]khata.Party, error) {
	if !t.Valid() {
		return nil, errs.ErrInvalid
	}
	return s.repo.ListParties(ctx, t)
}

func (s *service) Get(ctx context.Context, t khata.PartyType, id string) (khata.Party, error) {
	if !t.Valid() || id == "" {
		return khata.Party{}, errs.ErrInvalid
	}
	return s.repo.GetParty(ctx, t, id)
}
