// ABOUTME: Test helpers for e2e tests
// ABOUTME: Provides a fake calculation service and a backend wired the way main.go wires it

package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amazingchow/LLMToolset/backend/config"
	"github.com/amazingchow/LLMToolset/backend/handlers"
	"github.com/amazingchow/LLMToolset/backend/middleware"
	"github.com/amazingchow/LLMToolset/backend/services"
)

// fakeCalculator is an in-process stand-in for the external calculation service.
type fakeCalculator struct {
	server      *httptest.Server
	modelCalls  atomic.Int32
	calcCalls   atomic.Int32
	lastRequest atomic.Value // map[string]any
}

func newFakeCalculator(t *testing.T) *fakeCalculator {
	t.Helper()
	f := &fakeCalculator{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/models", func(w http.ResponseWriter, r *http.Request) {
		f.modelCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"models": []string{"Qwen/Qwen3-8B", "meta-llama/Llama-3.1-70B"}, "count": 2})
	})
	mux.HandleFunc("GET /api/models/{name...}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if name != "Qwen/Qwen3-8B" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Model " + name + " not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"model_name":       name,
			"extracted_params": map[string]any{"model_size": 8.19, "hidden_size": 4096, "num_hidden_layers": 36},
		})
	})
	mux.HandleFunc("GET /api/config/options", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data_types":       []string{"float32", "float16", "bfloat16", "int8", "int4"},
			"optimizers":       []string{"Adam", "AdamW", "Quantized AdamW", "SGD"},
			"available_models": []string{"Qwen/Qwen3-8B"},
		})
	})
	mux.HandleFunc("POST /api/memory/{type}", func(w http.ResponseWriter, r *http.Request) {
		f.calcCalls.Add(1)
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		f.lastRequest.Store(req)

		if req["model_name"] == "meta-llama/Llama-3.1-70B" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "config download failed"})
			return
		}

		calcType := r.PathValue("type")
		mem := map[string]string{
			"model_weights_memory": "15.26 GB",
			"kv_cache_memory":      "1.13 GB",
			"activation_memory":    "512.00 MB",
			"overhead_memory":      "1.00 GB",
			"inference_memory":     "17.89 GB",
		}
		if calcType == "training" {
			mem = map[string]string{
				"model_weights_memory": "15.26 GB",
				"activation_memory":    "2.00 GB",
				"optimizer_memory":     "0.12 GB",
				"gradients_memory":     "0.15 GB",
				"overhead_memory":      "1.00 GB",
				"training_memory":      "18.53 GB *",
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"calculation_type":    calcType,
			"parameters":          req,
			"memory_requirements": mem,
		})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// newBackend serves every route through the same middleware chain as main.go.
func newBackend(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	var calc handlers.Calculator
	if cfg.CalculatorURL != "" {
		calc = services.NewCalculatorClient(cfg.CalculatorURL, cfg.CalculatorTimeout, cfg.CalculatorRetryMax)
	}
	h := handlers.NewHandler(cfg, calc)
	t.Cleanup(h.Close)

	var defaultLimiter, calculateLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		calculateLimiter = middleware.NewRateLimiter(cfg.RateLimitCalculate, time.Minute)
	}
	cors := middleware.CORSWithConfig(cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		limiter := defaultLimiter
		if route.Expensive {
			limiter = calculateLimiter
		}
		mux.HandleFunc(route.Pattern(), middleware.Chain(route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiter, middleware.ClientIP),
		))
	}
	mux.HandleFunc("OPTIONS /api/v1/", middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, middleware.LogRequest, cors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(calculatorURL string) *config.Config {
	return &config.Config{
		CacheTTL:           300,
		CalculatorURL:      calculatorURL,
		CalculatorTimeout:  5 * time.Second,
		CalculatorRetryMax: 0,
		CORSAllowedOrigins: []string{"https://example.com"},
	}
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}
