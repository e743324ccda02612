package flightrecorder_test

import (
	"os"
	"strings"
	"testing"

	"github.com/halteresai/server/internal/flightrecorder"
	"github.com/halteresai/server/internal/testhelpers"
)

func newTestService(t *testing.T, traceDir string) *flightrecorder.Service {
	t.Helper()

	service, err := flightrecorder.New(flightrecorder.Config{
		Logger:          testhelpers.NewLogger(testhelpers.NewWriter(t)),
		TracesDirectory: traceDir,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return service
}

func TestService_StartStop(t *testing.T) {
	service := newTestService(t, t.TempDir())

	ctx := t.Context()
	if err := service.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	service.Stop(ctx)
}

func TestService_Capture(t *testing.T) {
	traceDir := t.TempDir()
	service := newTestService(t, traceDir)

	ctx := t.Context()
	if err := service.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer service.Stop(ctx)

	service.Capture(ctx, "timeout")

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("failed to read trace directory: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected a trace file to be created")
	}

	filename := entries[0].Name()
	if !strings.HasPrefix(filename, "timeout-") {
		t.Errorf("expected filename to start with 'timeout-', got %s", filename)
	}
	if !strings.HasSuffix(filename, ".trace") {
		t.Errorf("expected filename to end with '.trace', got %s", filename)
	}
}

func TestService_CooldownPreventsCapture(t *testing.T) {
	traceDir := t.TempDir()
	service := newTestService(t, traceDir)

	ctx := t.Context()
	if err := service.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer service.Stop(ctx)

	service.Capture(ctx, "manual")
	// Second capture lands inside the cooldown window and must be dropped.
	service.Capture(ctx, "manual")

	entries, err := os.ReadDir(traceDir)
	if err != nil {
		t.Fatalf("failed to read trace directory: %v", err)
	}
	if len(entries) > 1 {
		t.Error("expected cooldown to prevent rapid successive captures")
	}
}
