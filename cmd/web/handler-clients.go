package main

import (
	"net/http"

	"github.com/halteresai/server/internal/contexthelpers"
	"github.com/halteresai/server/internal/program"
)

type clientCreateRequest struct {
	Name    string                `json:"name"`
	Metrics program.ClientMetrics `json:"metrics"`
}

func (app *application) clientCreatePOST(w http.ResponseWriter, r *http.Request) {
	var req clientCreateRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		app.writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	client, err := app.programs.CreateClient(r.Context(), userID, req.Name, req.Metrics)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, client)
}

func (app *application) clientListGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	clients, err := app.programs.ListClients(r.Context(), userID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, clients)
}

func (app *application) clientGET(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	client, err := app.programs.GetClient(r.Context(), userID, r.PathValue("clientID"))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, client)
}

func (app *application) clientMetricsPUT(w http.ResponseWriter, r *http.Request) {
	var metrics program.ClientMetrics
	if !app.decodeJSON(w, r, &metrics) {
		return
	}
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	client, err := app.programs.UpdateClientMetrics(r.Context(), userID, r.PathValue("clientID"), metrics)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, client)
}
