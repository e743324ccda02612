package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/halteresai/server/internal/contexthelpers"
	"github.com/halteresai/server/internal/errors"
)

type programCreateRequest struct {
	ClientID    string         `json:"client_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Settings    map[string]any `json:"settings"`
}

func (app *application) programCreatePOST(w http.ResponseWriter, r *http.Request) {
	var req programCreateRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		app.writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	prog, err := app.programs.CreateProgram(r.Context(), userID, req.ClientID, req.Title, req.Description, req.Settings)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, prog)
}

func (app *application) programListGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	programs, err := app.programs.ListPrograms(r.Context(), userID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, programs)
}

func (app *application) programGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	prog, err := app.programs.GetProgram(r.Context(), userID, r.PathValue("programID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, prog)
}

func (app *application) programDELETE(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	if err := app.programs.DeleteProgram(r.Context(), userID, r.PathValue("programID")); err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// generationListGET returns the audit trail of generation runs for a program.
func (app *application) generationListGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	generations, err := app.programs.ListGenerations(r.Context(), userID, r.PathValue("programID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, generations)
}

// programGeneratePOST runs the generation pipeline. The body holds the raw
// generation settings; an empty body generates with defaults.
func (app *application) programGeneratePOST(w http.ResponseWriter, r *http.Request) {
	raw := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		app.writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	userID := contexthelpers.AuthenticatedUserID(r.Context())
	normalized, err := app.programs.Generate(r.Context(), userID, r.PathValue("programID"), raw)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, normalized)
}
