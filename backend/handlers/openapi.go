// ABOUTME: Serves the embedded OpenAPI 3 description of the /api/v1 surface
// ABOUTME: The document is compiled into the binary from openapi.yaml

package handlers

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

//go:embed openapi.yaml
var openapiSpec []byte

var startedAt = time.Now()

// OpenAPISpec serves the document with conditional-request support so
// documentation viewers can revalidate cheaply.
func (h *Handler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, "openapi.yaml", startedAt, bytes.NewReader(openapiSpec))
}
