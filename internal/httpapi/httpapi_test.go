package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"terrasim/internal/engine"
)

func TestHealthDoesNotRequireAPIKey(t *testing.T) {
	s := New(Config{Addr: ":0", APIKey: "secret"})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGatedEndpointRejectsMissingKey(t *testing.T) {
	s := New(Config{Addr: ":0", APIKey: "secret"})
	handler := s.gated(s.handleStats)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	handler(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestGatedEndpointAcceptsCorrectKey(t *testing.T) {
	engine.ResetForTest()
	defer engine.ResetForTest()

	s := New(Config{Addr: ":0", APIKey: "secret"})
	handler := s.gated(s.handleSnapshot)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("X-API-Key", "secret")
	handler(rr, req)

	// no engine running: service unavailable, but the gate itself passed
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with no engine running, got %d", rr.Code)
	}
}
