package main

import (
	"net/http"
)

// adminTraceCapturePOST snapshots the flight recorder buffer so an operator
// can inspect a misbehaving deployment without waiting for a timeout.
func (app *application) adminTraceCapturePOST(w http.ResponseWriter, r *http.Request) {
	if app.flightRecorder == nil {
		app.writeError(w, r, http.StatusBadRequest, "trace capture is not enabled")
		return
	}
	app.flightRecorder.Capture(r.Context(), "manual")
	app.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
