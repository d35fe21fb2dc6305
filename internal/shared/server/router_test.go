package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
)

func TestRouterServesHealthAndMetricsPublicly(t *testing.T) {
	r := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"ok":true`) {
		t.Fatalf("health: got %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics: got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, "ingest_started_total") {
		t.Fatalf("metrics body missing ingestion counters: %s", body)
	}
}

func TestRouterRejectsUnauthenticatedAPI(t *testing.T) {
	r := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	for port, want := range map[string]string{
		"":      ":8080",
		"9000":  ":9000",
		":7777": ":7777",
	} {
		if got := Addr(port); got != want {
			t.Errorf("Addr(%q) = %q, want %q", port, got, want)
		}
	}
}
