// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service identity and calculation-service reachability

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/amazingchow/LLMToolset/backend/models"
)

const (
	serviceName    = "GPU Memory Analyzer API"
	serviceVersion = "1.0.0"
)

// Health returns API health status. The service stays "healthy" when the
// calculation service is down since the catalog and analysis still work.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:     "healthy",
		Service:    serviceName,
		Version:    serviceVersion,
		Calculator: "not_configured",
	}

	if h.calculator != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := h.calculator.Health(ctx); err != nil {
			slog.Warn("Calculation service health check failed", "error", err)
			resp.Calculator = "unreachable"
		} else {
			resp.Calculator = "ok"
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}
