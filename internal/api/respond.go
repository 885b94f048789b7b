package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/patogeno/family-budget-app/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps service errors onto HTTP statuses: missing/invalid input is
// a 400, unknown references a 404, anything else a 500.
func writeError(w http.ResponseWriter, err error) {
	var formatErr *service.UnsupportedFormatError
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Fields: validationErr.Fields})
	case errors.As(err, &formatErr),
		errors.Is(err, service.ErrMissingFile),
		errors.Is(err, service.ErrMissingAccount):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUnknownAccount),
		errors.Is(err, service.ErrUnknownBudgetGroup),
		errors.Is(err, service.ErrUnknownTransactionType):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}
