package v1

import (
	"errors"
	"net/http"

	"github.com/leasebook/leasebook/internal/errs"
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

// writeDomainErr maps sentinel errors from the service layer onto HTTP
// status codes.
func writeDomainErr(w http.ResponseWriter, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, errs.ErrNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, msg, "conflict")
	case errors.Is(err, errs.ErrInvalid):
		writeErr(w, http.StatusBadRequest, msg, "invalid")
	case errors.Is(err, errs.ErrEmptyChange):
		writeErr(w, http.StatusUnprocessableEntity, msg, "empty_change")
	case errors.Is(err, errs.ErrAsymmetricChange):
		writeErr(w, http.StatusUnprocessableEntity, msg, "asymmetric_change")
	case errors.Is(err, errs.ErrUnprocessable):
		writeErr(w, http.StatusUnprocessableEntity, msg, "unprocessable")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
