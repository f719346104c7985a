package httpapi

import (
	"net/http"

	"github.com/khatalabs/khata/internal/khata"
)

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.company.Company(r.Context())
	if err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, c)
}

func (s *Server) putCompany(w http.ResponseWriter, r *http.Request) {
	var c khata.Company
	if err := decodeJSON(r, &c); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if err := c.Validate(); err != nil {
		writeServiceErr(w, err)
		return
	}
	if err := s.company.SetCompany(r.Context(), c); err != nil {
		writeServiceErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, c)
}
