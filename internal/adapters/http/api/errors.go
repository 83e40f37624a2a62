package api

import (
	"errors"
	"net/http"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/model"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeded")
)

// writeDomainError maps engine failures to HTTP responses. The mapping
// keeps the engine's distinction alive: an empty filter result is a plain
// 200 elsewhere, these statuses mean the computation itself failed.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrLimitExceeded):
		writeError(w, http.StatusBadRequest, "limit_exceeded", err)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, model.ErrInvalidParameter):
		writeError(w, http.StatusBadRequest, "invalid_parameter", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "player_not_found", err)
	case errors.Is(err, model.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_data", err)
	case errors.Is(err, model.ErrEmptyCandidatePool):
		writeError(w, http.StatusUnprocessableEntity, "empty_candidate_pool", err)
	case errors.Is(err, repository.ErrNoSnapshot):
		writeError(w, http.StatusServiceUnavailable, "no_snapshot", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
