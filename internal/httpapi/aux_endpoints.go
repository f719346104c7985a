package httpapi

import (
	"net/http"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// readyz reports readiness; stores that can lose connectivity (Postgres)
// implement ReadyChecker, the in-memory store is always ready.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if rc, ok := s.snap.(ReadyChecker); ok {
		if err := rc.Ready(r.Context()); err != nil {
			writeErr(w, http.StatusServiceUnavailable, "not ready", "not_ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
