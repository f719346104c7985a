package httpapi

import (
	"errors"
	"net/http"

	"github.com/khatalabs/khata/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter)               { writeErr(w, http.StatusNotFound, "not_found", "not_found") }

// writeServiceErr maps sentinel errors to HTTP statuses. Validation errors
// from the service layer read as 400 with the error text as the message.
func writeServiceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrUnprocessable):
		writeErr(w, http.StatusUnprocessableEntity, err.Error(), "unprocessable")
	case errors.Is(err, errs.ErrBadSnapshot):
		writeErr(w, http.StatusBadRequest, err.Error(), "bad_snapshot")
	case errors.Is(err, errs.ErrInvalid):
		writeErr(w, http.StatusBadRequest, err.Error(), "invalid")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
