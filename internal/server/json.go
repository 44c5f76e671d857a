package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chronoplay/histquiz/internal/scoring"
	"github.com/chronoplay/histquiz/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeValidationError maps the validator's taxonomy onto HTTP statuses.
// Every branch surfaces the distinct reason; a rejected submission is shown
// honestly, never silently corrected into a score.
func writeValidationError(w http.ResponseWriter, err error) {
	var mismatch *validate.AttemptMismatchError
	switch {
	case errors.Is(err, validate.ErrIdentityMismatch):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, validate.ErrPlaySealed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scoring.ErrWidthExceeded),
		errors.Is(err, scoring.ErrInvertedRange),
		errors.Is(err, validate.ErrNoAttempts):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, validate.ErrNotSolved),
		errors.Is(err, validate.ErrFinalAttemptNotSolved),
		errors.As(err, &mismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
