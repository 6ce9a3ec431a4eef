// ABOUTME: Entry point for the GPU memory analyzer backend service
// ABOUTME: Serves the GPU catalog, proxies the calculation service, and derives capacity fit

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amazingchow/LLMToolset/backend/config"
	"github.com/amazingchow/LLMToolset/backend/handlers"
	"github.com/amazingchow/LLMToolset/backend/logger"
	"github.com/amazingchow/LLMToolset/backend/middleware"
	"github.com/amazingchow/LLMToolset/backend/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting GPU Memory Analyzer Backend")
	slog.Info("Calculation service configured",
		"url", cfg.CalculatorURL,
		"timeout", cfg.CalculatorTimeout,
		"retry_max", cfg.CalculatorRetryMax,
	)

	calc := services.NewCalculatorClient(cfg.CalculatorURL, cfg.CalculatorTimeout, cfg.CalculatorRetryMax)
	h := handlers.NewHandler(cfg, calc)
	defer h.Close()
	slog.Info("Cache initialized", "ttl", time.Duration(cfg.CacheTTL)*time.Second)

	var reg *prometheus.Registry
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		h.RegisterMetrics(reg)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(cfg, h, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}

// newMux registers every API route behind logging, CORS, rate limiting and
// metrics. reg may be nil to disable /metrics.
func newMux(cfg *config.Config, h *handlers.Handler, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	var httpMetrics *middleware.HTTPMetrics
	if reg != nil {
		httpMetrics = middleware.NewHTTPMetrics(reg)
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	var defaultLimiter, calculateLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		calculateLimiter = middleware.NewRateLimiter(cfg.RateLimitCalculate, time.Minute)
		slog.Info("Rate limiting enabled", "default_rpm", cfg.RateLimitDefault, "calculate_rpm", cfg.RateLimitCalculate)
	}

	cors := middleware.CORSWithConfig(cfg.CORSAllowedOrigins)

	for _, route := range h.Routes() {
		limiter := defaultLimiter
		if route.Expensive {
			limiter = calculateLimiter
		}
		mux.HandleFunc(route.Pattern(), middleware.Chain(route.Handler,
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiter, middleware.ClientIP),
			httpMetrics.Instrument(route.Pattern()),
		))
	}

	// Preflight requests never reach a method-specific pattern.
	mux.HandleFunc("OPTIONS /api/v1/", middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, middleware.LogRequest, cors))

	return mux
}
