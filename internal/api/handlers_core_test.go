package api

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	health := env.do(t, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, health, http.StatusOK)
	if status := decodeBody[map[string]string](t, health)["status"]; status != "ok" {
		t.Fatalf("unexpected health status %q", status)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/api/moods", "", nil), http.StatusOK)

	metrics := env.do(t, http.MethodGet, "/metrics", "", nil)
	expectStatus(t, metrics, http.StatusOK)
	body, err := io.ReadAll(metrics.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), "moodtune_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	env := newTestEnv(t)
	response := env.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	expectStatus(t, response, http.StatusNotFound)
	if message := readAPIError(t, response); message != "not found" {
		t.Fatalf("unexpected message %q", message)
	}
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	env := newTestEnv(t)
	response := env.do(t, http.MethodGet, "/healthz", "", nil)
	if response.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}
