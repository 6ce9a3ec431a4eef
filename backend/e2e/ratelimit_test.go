// ABOUTME: End-to-end tests for rate limiting
// ABOUTME: Verifies the calculation limit, the default limit and the disabled mode

package e2e

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestE2E_CalculationRateLimit(t *testing.T) {
	calc := newFakeCalculator(t)
	cfg := testConfig(calc.server.URL)
	cfg.RateLimitEnabled = true
	cfg.RateLimitCalculate = 2
	cfg.RateLimitDefault = 100
	server := newBackend(t, cfg)

	body := `{"model_name":"Qwen/Qwen3-8B","gpu":"h100_80","gpu_count":1}`
	for i := 0; i < 2; i++ {
		resp := postJSON(t, server.URL+"/api/v1/memory/inference", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.StatusCode)
		}
	}

	resp := postJSON(t, server.URL+"/api/v1/memory/inference", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode 429 body: %v", err)
	}
	if payload["error"] != "Rate limit exceeded" {
		t.Errorf("unexpected error %v", payload["error"])
	}
	if n := calc.calcCalls.Load(); n != 2 {
		t.Errorf("expected 2 upstream calculations, got %d", n)
	}

	// Cheap routes use their own bucket.
	gpus, err := http.Get(server.URL + "/api/v1/gpus")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	gpus.Body.Close()
	if gpus.StatusCode != http.StatusOK {
		t.Errorf("expected catalog to stay available, got %d", gpus.StatusCode)
	}
}

func TestE2E_DefaultRateLimit(t *testing.T) {
	cfg := testConfig("")
	cfg.RateLimitEnabled = true
	cfg.RateLimitCalculate = 30
	cfg.RateLimitDefault = 3
	server := newBackend(t, cfg)

	var last int
	for i := 0; i < 4; i++ {
		resp, err := http.Get(server.URL + "/api/v1/gpus")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 4th request to be limited, got %d", last)
	}
}

func TestE2E_RateLimitDisabled(t *testing.T) {
	server := newBackend(t, testConfig(""))

	for i := 0; i < 20; i++ {
		resp, err := http.Get(server.URL + "/api/v1/gpus")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: expected 200 with limiting disabled, got %d", i+1, resp.StatusCode)
		}
	}
}
