// Package memory provides a simple in-memory implementation used for
// development and tests. Collections keep their insertion order so an
// exported snapshot matches what was loaded; reads hand out copies so an
// in-flight report never observes a concurrent mutation.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/khatalabs/khata/internal/errs"
	"github.com/khatalabs/khata/internal/khata"
)

// Store is an in-memory record store guarded by an RWMutex.
type Store struct {
	mu      sync.RWMutex
	company khata.Company
	clients []khata.Party
	vendors []khata.Party
	entries []khata.LedgerEntry
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Reset clears all collections. Test helper.
func (s *Store) Reset() {
	s.mu.Lock()
	s.company = khata.Company{}
	s.clients = nil
	s.vendors = nil
	s.entries = nil
	s.mu.Unlock()
}

// partiesLocked returns the slice backing the given collection.
// Caller must hold s.mu.
func (s *Store) partiesLocked(t khata.PartyType) *[]khata.Party {
	if t == khata.PartyTypeVendor {
		return &s.vendors
	}
	return &s.clients
}

// ListParties returns a copy of the requested collection in stored order.
func (s *Store) ListParties(_ context.Context, t khata.PartyType) ([]khata.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := *s.partiesLocked(t)
	out := make([]khata.Party, len(src))
	copy(out, src)
	return out, nil
}

// GetParty returns a party by id, or ErrNotFound.
func (s *Store) GetParty(_ context.Context, t khata.PartyType, id string) (khata.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range *s.partiesLocked(t) {
		if p.ID == id {
			return p, nil
		}
	}
	return khata.Party{}, errs.ErrNotFound
}

// UpsertParty inserts or replaces a party by id. The store accepts the
// record as given; cross-field validation lives in the service layer.
func (s *Store) UpsertParty(_ context.Context, t khata.PartyType, p khata.Party) (khata.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.partiesLocked(t)
	for i := range *list {
		if (*list)[i].ID == p.ID {
			(*list)[i] = p
			return p, nil
		}
	}
	*list = append(*list, p)
	return p, nil
}

// RemoveParty deletes a party by id. Entries referencing it are left
// untouched; read-side lookups degrade to the unknown-party sentinel.
func (s *Store) RemoveParty(_ context.Context, t khata.PartyType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.partiesLocked(t)
	for i := range *list {
		if (*list)[i].ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

// ListEntries returns a copy of all entries sorted ascending by (Date, ID).
// ISO dates sort lexicographically equal to chronologically.
func (s *Store) ListEntries(_ context.Context) ([]khata.LedgerEntry, error) {
	s.mu.RLock()
	out := make([]khata.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

// GetEntry returns an entry by id, or ErrNotFound.
func (s *Store) GetEntry(_ context.Context, id string) (khata.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return khata.LedgerEntry{}, errs.ErrNotFound
}

// UpsertEntry inserts or replaces an entry by id, stored verbatim.
// Tolerance over rejection: a semantically odd record (say, an expense
// carrying a party id) is kept as given.
func (s *Store) UpsertEntry(_ context.Context, e khata.LedgerEntry) (khata.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == e.ID {
			s.entries[i] = e
			return e, nil
		}
	}
	s.entries = append(s.entries, e)
	return e, nil
}

// RemoveEntry deletes an entry by id.
func (s *Store) RemoveEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

// Company returns the stored company profile.
func (s *Store) Company(_ context.Context) (khata.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.company, nil
}

// SetCompany replaces the company profile.
func (s *Store) SetCompany(_ context.Context, c khata.Company) error {
	s.mu.Lock()
	s.company = c
	s.mu.Unlock()
	return nil
}

// cloneEntries copies the slice and the party reference pointees, so the
// result shares no memory with the source.
func cloneEntries(src []khata.LedgerEntry) []khata.LedgerEntry {
	out := make([]khata.LedgerEntry, len(src))
	copy(out, src)
	for i := range out {
		if out[i].PartyType != nil {
			pt := *out[i].PartyType
			out[i].PartyType = &pt
		}
		if out[i].PartyID != nil {
			id := *out[i].PartyID
			out[i].PartyID = &id
		}
	}
	return out
}

// Snapshot returns a deep copy of the full store state in stored order.
func (s *Store) Snapshot(_ context.Context) (khata.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := khata.Snapshot{
		Company: s.company,
		Clients: make([]khata.Party, len(s.clients)),
		Vendors: make([]khata.Party, len(s.vendors)),
		Ledger:  cloneEntries(s.entries),
	}
	copy(snap.Clients, s.clients)
	copy(snap.Vendors, s.vendors)
	return snap, nil
}

// ReplaceSnapshot swaps the entire store state for the given snapshot.
// Import replaces wholesale; there is no merge.
func (s *Store) ReplaceSnapshot(_ context.Context, snap khata.Snapshot) error {
	clients := make([]khata.Party, len(snap.Clients))
	copy(clients, snap.Clients)
	vendors := make([]khata.Party, len(snap.Vendors))
	copy(vendors, snap.Vendors)
	entries := cloneEntries(snap.Ledger)

	s.mu.Lock()
	s.company = snap.Company
	s.clients = clients
	s.vendors = vendors
	s.entries = entries
	s.mu.Unlock()
	return nil
}
