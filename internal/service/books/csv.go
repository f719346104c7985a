package books

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/khatalabs/khata/internal/khata"
)

// csvHeader is the fixed column set of an entry export.
var csvHeader = []string{"date", "type", "party", "ref", "desc", "category", "amount", "paid", "method"}

// CSVFilter narrows an export to one entry type and/or one party.
// Zero values mean no filtering.
type CSVFilter struct {
	Type      khata.EntryType
	PartyType khata.PartyType
	PartyID   string
}

func (f CSVFilter) match(e khata.LedgerEntry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.PartyID != "" && !e.References(f.PartyType, f.PartyID) {
		return false
	}
	return true
}

// ExportCSV writes the filtered entries as CSV, one row per entry, party
// resolved to its display name. encoding/csv handles RFC 4180 quoting,
// doubling embedded quotes. Missing or dangling parties render as "-".
func (s *service) ExportCSV(ctx context.Context, w io.Writer, f CSVFilter) error {
	clients, vendors, entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	names := partyNames(clients, vendors)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if !f.match(e) {
			continue
		}
		row := []string{
			e.Date,
			string(e.Type),
			resolveName(names, e),
			e.Ref,
			e.Desc,
			e.Category,
			e.Amount.String(),
			e.Paid.String(),
			e.Method,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type partyKey struct {
	t  khata.PartyType
	id string
}

func partyNames(clients, vendors []khata.Party) map[partyKey]string {
	names := make(map[partyKey]string, len(clients)+len(vendors))
	for _, c := range clients {
		names[partyKey{khata.PartyTypeClient, c.ID}] = c.Name
	}
	for _, v := range vendors {
		names[partyKey{khata.PartyTypeVendor, v.ID}] = v.Name
	}
	return names
}

func resolveName(names map[partyKey]string, e khata.LedgerEntry) string {
	t, id, ok := e.PartyRef()
	if !ok {
		return khata.UnknownPartyName
	}
	if name, found := names[partyKey{t, id}]; found {
		return name
	}
	return khata.UnknownPartyName
}
