package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/khatalabs/khata/internal/khata"
)

func (s *Server) postParty(t khata.PartyType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req partyRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid JSON: "+err.Error())
			return
		}
		saved, err := s.partySvc.Create(r.Context(), t, req.toParty(""))
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		toJSON(w, http.StatusCreated, saved)
	}
}

func (s *Server) listParties(t khata.PartyType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parties, err := s.partySvc.List(r.Context(), t)
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		toJSON(w, http.StatusOK, parties)
	}
}

func (s *Server) getParty(t khata.PartyType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.partySvc.Get(r.Context(), t, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		toJSON(w, http.StatusOK, p)
	}
}

// putParty replaces every field of an existing party; the id in the URL wins.
func (s *Server) putParty(t khata.PartyType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req partyRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid JSON: "+err.Error())
			return
		}
		saved, err := s.partySvc.Update(r.Context(), t, req.toParty(chi.URLParam(r, "id")))
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		toJSON(w, http.StatusOK, saved)
	}
}

// deleteParty removes the party only. Ledger entries that reference it stay
// and keep counting toward the aggregate totals.
func (s *Server) deleteParty(t khata.PartyType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.partySvc.Delete(r.Context(), t, chi.URLParam(r, "id")); err != nil {
			writeServiceErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// getPartyBalance reports the party's running balance. A deleted party
// answers with the sentinel name and a zero opening balance rather than 404:
// the balance endpoint never fails on a dangling reference.
func (s *Server) getPartyBalance(t khata.PartyType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		name := khata.UnknownPartyName
		if p, err := s.partySvc.Get(r.Context(), t, id); err == nil {
			name = p.Name
		}
		bal, err := s.books.BalanceOf(r.Context(), t, id)
		if err != nil {
			writeServiceErr(w, err)
			return
		}
		toJSON(w, http.StatusOK, balanceResponse{PartyType: t, PartyID: id, Name: name, Balance: bal})
	}
}
