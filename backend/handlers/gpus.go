// ABOUTME: HTTP handlers for the static GPU catalog
// ABOUTME: Lists profiles with optional category and memory-range filters

package handlers

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/amazingchow/LLMToolset/backend/models"
)

// ListGPUs returns the catalog, filtered by ?category=, ?min_memory=, ?max_memory=.
func (h *Handler) ListGPUs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gpus := models.GPUCatalog()

	if c := q.Get("category"); c != "" {
		category, ok := models.ParseGPUCategory(c)
		if !ok {
			h.writeError(w, "Unknown category, use nvidia or apple", http.StatusBadRequest)
			return
		}
		gpus = models.GPUsByCategory(category)
	}

	minGB, ok := h.floatParam(w, q.Get("min_memory"), 0)
	if !ok {
		return
	}
	maxGB, ok := h.floatParam(w, q.Get("max_memory"), 0)
	if !ok {
		return
	}
	if minGB > 0 || maxGB > 0 {
		if maxGB == 0 {
			maxGB = maxFloat
		}
		if minGB > maxGB {
			h.writeError(w, "min_memory must not exceed max_memory", http.StatusBadRequest)
			return
		}
		inRange := models.GPUsByMemoryRange(minGB, maxGB)
		gpus = slices.DeleteFunc(gpus, func(g models.GPUProfile) bool {
			return !slices.ContainsFunc(inRange, func(r models.GPUProfile) bool { return r.ID == g.ID })
		})
	}

	if gpus == nil {
		gpus = []models.GPUProfile{}
	}
	h.writeJSON(w, http.StatusOK, gpus)
}

// GetGPU returns one profile by id.
func (h *Handler) GetGPU(w http.ResponseWriter, r *http.Request) {
	gpu, ok := models.GPUByID(r.PathValue("id"))
	if !ok {
		h.writeError(w, "GPU not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, gpu)
}

const maxFloat = 1 << 53

func (h *Handler) floatParam(w http.ResponseWriter, raw string, def float64) (float64, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		h.writeError(w, "Memory filters must be non-negative numbers", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}
