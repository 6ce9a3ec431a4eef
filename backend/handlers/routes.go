// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL pattern (e.g., "/api/v1/gpus/{id}")
	Handler http.HandlerFunc // Handler function
	// Expensive routes call the calculation service and use the tighter rate limit.
	Expensive bool
}

// Pattern returns the ServeMux pattern for the route.
func (r Route) Pattern() string {
	return r.Method + " " + r.Path
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// GPU catalog
		{Method: http.MethodGet, Path: "/api/v1/gpus", Handler: h.ListGPUs},
		{Method: http.MethodGet, Path: "/api/v1/gpus/{id}", Handler: h.GetGPU},
		{Method: http.MethodGet, Path: "/api/v1/catalog", Handler: h.Catalog},

		// Calculation service passthrough
		{Method: http.MethodGet, Path: "/api/v1/models", Handler: h.ListModels},
		{Method: http.MethodGet, Path: "/api/v1/models/{name...}", Handler: h.GetModel},
		{Method: http.MethodGet, Path: "/api/v1/config/options", Handler: h.ConfigOptions},

		// Calculation and analysis
		{Method: http.MethodPost, Path: "/api/v1/memory/inference", Handler: h.CalculateInference, Expensive: true},
		{Method: http.MethodPost, Path: "/api/v1/memory/training", Handler: h.CalculateTraining, Expensive: true},
		{Method: http.MethodPost, Path: "/api/v1/analysis", Handler: h.Analyze},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}
