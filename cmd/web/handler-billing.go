package main

import (
	"io"
	"net/http"

	"github.com/halteresai/server/internal/billing"
	"github.com/halteresai/server/internal/contexthelpers"
	"github.com/halteresai/server/internal/errors"
)

// maxWebhookBytes bounds Stripe webhook payloads.
const maxWebhookBytes = 64 * 1024

func (app *application) billingCheckoutPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	user, err := app.accounts.Get(r.Context(), userID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	url, err := app.billing.CheckoutURL(r.Context(), user)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"url": url})
}

func (app *application) billingPortalPOST(w http.ResponseWriter, r *http.Request) {
	userID := contexthelpers.AuthenticatedUserID(r.Context())
	user, err := app.accounts.Get(r.Context(), userID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	url, err := app.billing.PortalURL(r.Context(), user)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]string{"url": url})
}

func (app *application) stripeWebhookPOST(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		app.writeError(w, r, http.StatusBadRequest, "unreadable payload")
		return
	}
	err = app.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if errors.Is(err, billing.ErrBadSignature) {
		app.writeError(w, r, http.StatusBadRequest, "invalid signature")
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"received": true})
}
