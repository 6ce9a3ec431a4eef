// ABOUTME: JSON error responses written by middleware
// ABOUTME: Uses the same ErrorResponse body as the handlers

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/amazingchow/LLMToolset/backend/models"
)

func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message, Code: code})
}
