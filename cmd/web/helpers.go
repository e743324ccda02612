package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/halteresai/server/internal/account"
	"github.com/halteresai/server/internal/billing"
	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/importer"
	"github.com/halteresai/server/internal/program"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to write response", errors.SlogError(err))
	}
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// handleError maps service errors to HTTP statuses. Anything unmapped is a 500.
func (app *application) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, program.ErrNotFound), errors.Is(err, account.ErrNotFound):
		app.writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, program.ErrNotOwner):
		app.writeError(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, account.ErrInvalidCredentials):
		app.writeError(w, r, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, account.ErrEmailTaken):
		app.writeError(w, r, http.StatusBadRequest, "email already registered")
	case errors.Is(err, account.ErrWeakPassword):
		app.writeError(w, r, http.StatusBadRequest, "password must be at least 8 characters")
	case errors.Is(err, billing.ErrAlreadySubscribed):
		app.writeError(w, r, http.StatusBadRequest, "already subscribed")
	case errors.Is(err, billing.ErrNoCustomer):
		app.writeError(w, r, http.StatusBadRequest, "no billing account")
	case errors.Is(err, importer.ErrTooManyPages):
		app.writeError(w, r, http.StatusBadRequest, "too many pages requested")
	case errors.Is(err, program.ErrScheduleUnsatisfiable):
		app.writeError(w, r, http.StatusBadRequest, "schedule cannot be satisfied")
	default:
		app.serverError(w, r, err)
	}
}

// decodeJSON decodes the request body into dst. On failure it writes a 400
// and reports false.
func (app *application) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		app.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
