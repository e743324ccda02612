package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/halteresai/server/internal/e2etest"
	"github.com/halteresai/server/internal/program"
	"github.com/halteresai/server/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "HALTERES_SQLITE_URL":
		return ":memory:", true
	case "HALTERES_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

// stubGenerator replaces the language model in end-to-end tests.
type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) GenerateText(_ context.Context, _, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func startTestServer(t *testing.T, generator program.TextGenerator) *e2etest.Server {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv,
		func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
			return runWithGenerator(ctx, logger, lookupEnv, generator)
		})
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return server
}
