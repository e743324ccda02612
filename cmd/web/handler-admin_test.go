package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/halteresai/server/internal/contexthelpers"
	"github.com/halteresai/server/internal/e2etest"
	"github.com/halteresai/server/internal/flightrecorder"
	"github.com/halteresai/server/internal/testhelpers"
)

func Test_application_adminTraceCaptureRequiresAdmin(t *testing.T) {
	ctx := t.Context()
	server := startTestServer(t, &stubGenerator{response: cannedResponse})
	client := server.Client()

	// Anonymous.
	resp, err := client.PostJSON(ctx, "/api/admin/traces/capture", map[string]any{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	e2etest.RequireStatus(t, resp, http.StatusUnauthorized)
	_ = resp.Body.Close()

	// Signed in but not admin.
	if err = client.SignUp(ctx, "coach@example.com", "correct horse", "Coach"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	resp, err = client.PostJSON(ctx, "/api/admin/traces/capture", map[string]any{})
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	e2etest.RequireStatus(t, resp, http.StatusUnauthorized)
	_ = resp.Body.Close()
}

func Test_application_adminTraceCapture(t *testing.T) {
	ctx := t.Context()
	traceDir := t.TempDir()

	recorder, err := flightrecorder.New(flightrecorder.Config{
		Logger:          testhelpers.NewLogger(testhelpers.NewWriter(t)),
		TracesDirectory: traceDir,
	})
	if err != nil {
		t.Fatalf("new flight recorder: %v", err)
	}
	if err = recorder.Start(ctx); err != nil {
		t.Fatalf("start flight recorder: %v", err)
	}
	defer recorder.Stop(ctx)

	app := &application{
		logger:         testhelpers.NewLogger(testhelpers.NewWriter(t)),
		flightRecorder: recorder,
	}

	handler := app.mustAdmin(http.HandlerFunc(app.adminTraceCapturePOST))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/traces/capture", nil)
	req = contexthelpers.AuthenticateContext(req, "admin-user", true)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("read trace directory: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d trace files, want 1", len(entries))
	}
}
