// ABOUTME: Tests for route table definitions
// ABOUTME: Verifies all routes have required fields and no duplicates

package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestRoutes_AllRoutesHaveRequiredFields(t *testing.T) {
	h := NewHandler(nil, nil)
	defer h.Close()
	routes := h.Routes()

	if len(routes) == 0 {
		t.Fatal("Routes() returned empty slice")
	}

	for i, route := range routes {
		if route.Method == "" {
			t.Errorf("Route %d: Method is empty", i)
		}
		if route.Path == "" {
			t.Errorf("Route %d: Path is empty", i)
		}
		if route.Handler == nil {
			t.Errorf("Route %d: Handler is nil", i)
		}
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			t.Errorf("Route %d: Path %q must start with /api/v1/", i, route.Path)
		}
	}
}

func TestRoutes_NoDuplicatePaths(t *testing.T) {
	h := NewHandler(nil, nil)
	defer h.Close()

	seen := make(map[string]bool)
	for _, route := range h.Routes() {
		key := route.Pattern()
		if seen[key] {
			t.Errorf("Duplicate route: %s", key)
		}
		seen[key] = true
	}
}

func TestRoutes_ExpectedEndpoints(t *testing.T) {
	h := NewHandler(nil, nil)
	defer h.Close()

	expected := map[string]bool{
		"GET /api/v1/health":           false,
		"GET /api/v1/gpus":             false,
		"GET /api/v1/gpus/{id}":        false,
		"GET /api/v1/catalog":          false,
		"GET /api/v1/models":           false,
		"GET /api/v1/models/{name...}": false,
		"GET /api/v1/config/options":   false,
		"POST /api/v1/memory/inference": false,
		"POST /api/v1/memory/training":  false,
		"POST /api/v1/analysis":         false,
		"GET /api/v1/openapi.yaml":     false,
	}

	for _, route := range h.Routes() {
		if _, ok := expected[route.Pattern()]; ok {
			expected[route.Pattern()] = true
		}
	}

	for key, found := range expected {
		if !found {
			t.Errorf("Missing expected route: %s", key)
		}
	}
}

func TestRoutes_OnlyCalculationsAreExpensive(t *testing.T) {
	h := NewHandler(nil, nil)
	defer h.Close()

	for _, route := range h.Routes() {
		wantExpensive := route.Method == http.MethodPost && strings.HasPrefix(route.Path, "/api/v1/memory/")
		if route.Expensive != wantExpensive {
			t.Errorf("%s: Expensive = %v, want %v", route.Pattern(), route.Expensive, wantExpensive)
		}
	}
}
