package e2etest

import (
	"encoding/json"
	"net/http"
	"testing"
)

// DecodeJSON decodes a JSON response body into T and closes the body.
func DecodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

// ErrorMessage decodes the {"error": "..."} failure body and closes the body.
func ErrorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := DecodeJSON[struct {
		Error string `json:"error"`
	}](t, resp)
	return body.Error
}

// RequireStatus fails the test unless the response carries the wanted status.
func RequireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status code = %d, want %d", resp.StatusCode, want)
	}
}
