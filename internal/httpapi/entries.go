package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
)

func (s *Server) postEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.entrySvc.Create(r.Context(), req.toEntry(""))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, saved)
}

// listEntries returns all entries sorted ascending by (date, id).
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entrySvc.List(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, entries)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entrySvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, e)
}

func (s *Server) putEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	saved, err := s.entrySvc.Update(r.Context(), req.toEntry(chi.URLParam(r, "id")))
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, saved)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.entrySvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
