package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huangsam/analyzer/core"
)

// requestError marks a malformed request body or parameter.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return &requestError{err: err} }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps core errors onto HTTP statuses. Conflicts carry the names
// involved so a client can explain the rejection.
func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": err.Error()}

	var (
		notFound  *core.NotFoundError
		duplicate *core.DuplicatePropertyError
		rename    *core.RenameConflictError
		retype    *core.RetypeConflictError
		invalid   *core.InvalidPropertyError
		value     *core.ValueError
		request   *requestError
	)
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, body)
	case errors.As(err, &rename):
		body["old"], body["new"], body["specimen"] = rename.OldName, rename.NewName, rename.Specimen
		writeJSON(w, http.StatusConflict, body)
	case errors.As(err, &retype):
		body["property"], body["specimen"] = retype.Property, retype.Specimen
		body["old"], body["new"] = retype.OldType, retype.NewType
		writeJSON(w, http.StatusConflict, body)
	case errors.As(err, &duplicate):
		writeJSON(w, http.StatusConflict, body)
	case errors.As(err, &invalid), errors.As(err, &value), errors.As(err, &request),
		errors.Is(err, core.ErrNameRequired), errors.Is(err, core.ErrSpecimenNameRequired), errors.Is(err, core.ErrNoPath):
		writeJSON(w, http.StatusBadRequest, body)
	default:
		writeJSON(w, http.StatusInternalServerError, body)
	}
}
