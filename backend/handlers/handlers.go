// ABOUTME: HTTP handler wiring for the GPU memory analyzer API
// ABOUTME: Holds the upstream calculator, caches, derived-state engine, and JSON helpers

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/amazingchow/LLMToolset/backend/cache"
	"github.com/amazingchow/LLMToolset/backend/config"
	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/backend/services"
	"github.com/prometheus/client_golang/prometheus"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

const defaultCacheTTL = 5 * time.Minute

// Calculator is the subset of the calculation service client the handlers use.
type Calculator interface {
	Health(ctx context.Context) error
	Models(ctx context.Context) ([]string, error)
	ModelInfo(ctx context.Context, name string) (*models.ModelInfo, error)
	ConfigOptions(ctx context.Context) (*models.ConfigOptions, error)
	Calculate(ctx context.Context, calcType models.CalculationType, req models.CalculationRequest) (*models.CalculationResponse, error)
}

type Handler struct {
	cfg        *config.Config
	calculator Calculator
	capacity   *services.CapacityCalculator
	modelList  *cache.Cache[[]string]
	modelInfo  *cache.Cache[*models.ModelInfo]
	options    *cache.Cache[*models.ConfigOptions]
	metrics    *analysisMetrics
}

// NewHandler creates a handler. calc may be nil, in which case only the
// GPU catalog and the pure analysis endpoint are usable.
func NewHandler(cfg *config.Config, calc Calculator) *Handler {
	ttl := defaultCacheTTL
	if cfg != nil {
		ttl = time.Duration(cfg.CacheTTL) * time.Second
	}

	return &Handler{
		cfg:        cfg,
		calculator: calc,
		capacity:   services.NewCapacityCalculator(),
		modelList:  cache.New[[]string](ttl),
		modelInfo:  cache.New[*models.ModelInfo](ttl),
		options:    cache.New[*models.ConfigOptions](ttl),
	}
}

// RegisterMetrics registers analysis and cache collectors with reg.
func (h *Handler) RegisterMetrics(reg prometheus.Registerer) {
	h.metrics = newAnalysisMetrics(reg, h.cacheStats)
}

// Close stops background cache cleanup.
func (h *Handler) Close() {
	h.modelList.Close()
	h.modelInfo.Close()
	h.options.Close()
}

func (h *Handler) cacheStats() cache.Stats {
	var total cache.Stats
	for _, s := range []cache.Stats{h.modelList.Stats(), h.modelInfo.Stats(), h.options.Stats()} {
		total.Hits += s.Hits
		total.Misses += s.Misses
	}
	return total
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorDetails(w, message, "", code)
}

func (h *Handler) writeErrorDetails(w http.ResponseWriter, message, details string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error:   message,
		Details: details,
		Code:    code,
	})
}

// decodeBody reads a size-limited JSON body into v, writing a 400 on failure.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return false
		}
		h.writeErrorDetails(w, "Invalid JSON", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeUpstreamError maps calculation-service and validation failures to HTTP codes.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	var upErr *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrValidation):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		h.writeErrorDetails(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.As(err, &upErr) && upErr.StatusCode >= 400 && upErr.StatusCode < 500:
		h.writeErrorDetails(w, "Calculation service rejected the request", upErr.Message, http.StatusBadRequest)
	case errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, "Calculation service timed out", http.StatusGatewayTimeout)
	default:
		slog.Error("Calculation service call failed", "path", r.URL.Path, "error", err)
		h.writeErrorDetails(w, "Calculation service unavailable", err.Error(), http.StatusBadGateway)
	}
}

func (h *Handler) requireCalculator(w http.ResponseWriter) bool {
	if h.calculator == nil {
		h.writeError(w, "Calculation service not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}
