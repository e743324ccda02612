package main

import (
	"net/http"
)

func (app *application) routes() *http.ServeMux {
	mux := http.NewServeMux()

	var (
		shared = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				app.timeout(next))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(shared(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.accounts.AuthenticateMiddleware(shared(next)))))
		}
		mustSession = func(next http.Handler) http.Handler {
			return session(app.mustAuthenticate(next))
		}
		mustAdmin = func(next http.Handler) http.Handler {
			return session(app.mustAdmin(next))
		}
		// Stripe authenticates webhooks with its signature, not a session.
		webhook = func(next http.Handler) http.Handler {
			return app.recoverPanic(app.logAndTraceRequest(app.timeout(next)))
		}
	)

	mux.Handle("POST /api/signup", session(http.HandlerFunc(app.signupPOST)))
	mux.Handle("POST /api/login", session(http.HandlerFunc(app.loginPOST)))
	mux.Handle("POST /api/logout", session(http.HandlerFunc(app.logoutPOST)))
	mux.Handle("GET /api/healthy", noAuth(http.HandlerFunc(app.healthy)))

	mux.Handle("POST /api/programs", mustSession(http.HandlerFunc(app.programCreatePOST)))
	mux.Handle("GET /api/programs", mustSession(http.HandlerFunc(app.programListGET)))
	mux.Handle("GET /api/programs/{programID}", mustSession(http.HandlerFunc(app.programGET)))
	mux.Handle("DELETE /api/programs/{programID}", mustSession(http.HandlerFunc(app.programDELETE)))
	mux.Handle("POST /api/programs/{programID}/generate", mustSession(http.HandlerFunc(app.programGeneratePOST)))
	mux.Handle("GET /api/programs/{programID}/generations", mustSession(http.HandlerFunc(app.generationListGET)))

	mux.Handle("GET /api/programs/{programID}/workouts", mustSession(http.HandlerFunc(app.workoutListGET)))
	mux.Handle("POST /api/programs/{programID}/workouts", mustSession(http.HandlerFunc(app.workoutCreatePOST)))
	mux.Handle("POST /api/programs/{programID}/references/import",
		mustSession(http.HandlerFunc(app.referenceImportPOST)))
	mux.Handle("GET /api/workouts/{workoutID}", mustSession(http.HandlerFunc(app.workoutGET)))

	mux.Handle("POST /api/clients", mustSession(http.HandlerFunc(app.clientCreatePOST)))
	mux.Handle("GET /api/clients", mustSession(http.HandlerFunc(app.clientListGET)))
	mux.Handle("GET /api/clients/{clientID}", mustSession(http.HandlerFunc(app.clientGET)))
	mux.Handle("PUT /api/clients/{clientID}/metrics", mustSession(http.HandlerFunc(app.clientMetricsPUT)))

	mux.Handle("POST /api/billing/checkout", mustSession(http.HandlerFunc(app.billingCheckoutPOST)))
	mux.Handle("POST /api/billing/portal", mustSession(http.HandlerFunc(app.billingPortalPOST)))
	mux.Handle("POST /api/webhooks/stripe", webhook(http.HandlerFunc(app.stripeWebhookPOST)))

	mux.Handle("POST /api/admin/traces/capture", mustAdmin(http.HandlerFunc(app.adminTraceCapturePOST)))

	return mux
}
