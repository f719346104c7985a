package httpapi

import (
	"io"
	"net/http"

	"github.com/khatalabs/khata/internal/khata"
	"github.com/khatalabs/khata/internal/service/books"
)

// maxImportBytes bounds an import payload; the target scale is a few
// thousand entries, far below this.
const maxImportBytes = 32 << 20

// exportSnapshot serialises the live store state. Export and import
// round-trip losslessly for any valid snapshot.
func (s *Server) exportSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snap.Snapshot(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, snap)
}

// importSnapshot validates the payload eagerly and replaces the store
// wholesale. A payload missing any top-level key is rejected before the
// core ever sees it.
func (s *Server) importSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		badRequest(w, "could not read body")
		return
	}
	snap, err := khata.ParseSnapshot(body)
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	if err := s.snap.ReplaceSnapshot(r.Context(), snap); err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, importResponse{
		Clients: len(snap.Clients),
		Vendors: len(snap.Vendors),
		Entries: len(snap.Ledger),
	})
}

// exportCSV streams the (optionally filtered) entries as CSV.
// Query params: type, party_type, party_id. party_id requires party_type.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	var f books.CSVFilter
	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		t := khata.EntryType(v)
		if !t.Valid() {
			badRequest(w, "unknown entry type")
			return
		}
		f.Type = t
	}
	if v := q.Get("party_id"); v != "" {
		pt := khata.PartyType(q.Get("party_type"))
		if !pt.Valid() {
			badRequest(w, "party_id requires a valid party_type")
			return
		}
		f.PartyType = pt
		f.PartyID = v
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ledger.csv"`)
	if err := s.books.ExportCSV(r.Context(), w, f); err != nil {
		s.log.Error("csv export failed", "err", err)
	}
}
