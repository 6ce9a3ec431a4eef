// ABOUTME: Tests for HTTP server wiring
// ABOUTME: Verifies middleware order, preflight handling, metrics exposure, and rate limits

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amazingchow/LLMToolset/backend/config"
	"github.com/amazingchow/LLMToolset/backend/handlers"
	"github.com/prometheus/client_golang/prometheus"
)

func testConfig() *config.Config {
	return &config.Config{
		CacheTTL:           60,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		RateLimitEnabled:   true,
		RateLimitDefault:   100,
		RateLimitCalculate: 1,
	}
}

func TestNewMux_ServesRoutesAndMetrics(t *testing.T) {
	cfg := testConfig()
	h := handlers.NewHandler(cfg, nil)
	defer h.Close()
	reg := prometheus.NewRegistry()
	h.RegisterMetrics(reg)
	mux := newMux(cfg, h, reg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gpus/h100_80", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected metrics 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `gpu_memory_http_requests_total{method="GET",route="GET /api/v1/gpus/{id}",status="200"} 1`) {
		t.Errorf("Expected request counter for gpu route, got:\n%s", w.Body.String())
	}
}

func TestNewMux_NoMetricsWhenDisabled(t *testing.T) {
	cfg := testConfig()
	h := handlers.NewHandler(cfg, nil)
	defer h.Close()
	mux := newMux(cfg, h, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 without registry, got %d", w.Code)
	}
}

func TestNewMux_Preflight(t *testing.T) {
	cfg := testConfig()
	h := handlers.NewHandler(cfg, nil)
	defer h.Close()
	mux := newMux(cfg, h, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/memory/inference", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for allowed preflight, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/memory/inference", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for disallowed preflight, got %d", w.Code)
	}
}

func TestNewMux_CalculationRateLimit(t *testing.T) {
	cfg := testConfig()
	h := handlers.NewHandler(cfg, nil)
	defer h.Close()
	mux := newMux(cfg, h, nil)

	// No calculator is configured, so the first call is a 503 but still counts.
	for i, want := range []int{http.StatusServiceUnavailable, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/memory/inference", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("Request %d: expected %d, got %d", i+1, want, w.Code)
		}
	}
}
