package httpapi

import (
	"net/http"
)

// Report endpoints are pure reads: every call recomputes from the current
// store snapshot, so two calls without a mutation in between are identical.

func (s *Server) getTotals(w http.ResponseWriter, r *http.Request) {
	t, err := s.books.Totals(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, t)
}

func (s *Server) getBalanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := s.books.BalanceSheet(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, bs)
}

func (s *Server) getCashFlow(w http.ResponseWriter, r *http.Request) {
	cf, err := s.books.CashFlow(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, cf)
}
