package main

import (
	"net/http"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (app *application) signupPOST(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	user, err := app.accounts.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if err = app.accounts.LogIn(r.Context(), user); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, user)
}

func (app *application) loginPOST(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !app.decodeJSON(w, r, &req) {
		return
	}
	user, err := app.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if err = app.accounts.LogIn(r.Context(), user); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, user)
}

func (app *application) logoutPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.accounts.LogOut(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
