// ABOUTME: HTTP handlers proxying the calculation service's model and option lists
// ABOUTME: Responses are cached per TTL; the catalog endpoint fans out with errgroup

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/backend/services"
	"golang.org/x/sync/errgroup"
)

const modelListKey = "models"
const optionsKey = "options"

// ListModels returns the model names the calculation service knows.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	if !h.requireCalculator(w) {
		return
	}
	names, err := h.models(r.Context())
	if err != nil {
		h.writeUpstreamError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, models.ModelsResponse{Models: names, Count: len(names)})
}

// GetModel returns architecture details for one model. Names may contain
// an organization prefix, so the path wildcard spans segments.
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	if !h.requireCalculator(w) {
		return
	}
	name := r.PathValue("name")
	if err := services.ValidateModelName(name); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if info, ok := h.modelInfo.Get(name); ok {
		h.writeJSON(w, http.StatusOK, info)
		return
	}
	info, err := h.calculator.ModelInfo(r.Context(), name)
	if err != nil {
		// A cached list may still advertise a model the service dropped.
		if errors.Is(err, services.ErrNotFound) {
			h.modelList.Clear(modelListKey)
		}
		h.writeUpstreamError(w, r, err)
		return
	}
	h.modelInfo.Set(name, info)
	h.writeJSON(w, http.StatusOK, info)
}

// ConfigOptions returns accepted data types, optimizers and models.
func (h *Handler) ConfigOptions(w http.ResponseWriter, r *http.Request) {
	if !h.requireCalculator(w) {
		return
	}
	opts, err := h.configOptions(r.Context())
	if err != nil {
		h.writeUpstreamError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, opts)
}

// Catalog bundles GPUs, models and options for building a selection form.
// Without a calculation service it still returns the static GPU data.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	resp := models.CatalogResponse{
		GPUs:          models.GPUCatalog(),
		Models:        []string{},
		MemoryOptions: models.GPUMemoryOptions(),
	}

	if h.calculator != nil {
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			names, err := h.models(ctx)
			if err != nil {
				return err
			}
			resp.Models = names
			return nil
		})
		g.Go(func() error {
			opts, err := h.configOptions(ctx)
			if err != nil {
				return err
			}
			resp.Options = opts
			return nil
		})
		if err := g.Wait(); err != nil {
			h.writeUpstreamError(w, r, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) models(ctx context.Context) ([]string, error) {
	if names, ok := h.modelList.Get(modelListKey); ok {
		return names, nil
	}
	names, err := h.calculator.Models(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	h.modelList.Set(modelListKey, names)
	return names, nil
}

func (h *Handler) configOptions(ctx context.Context) (*models.ConfigOptions, error) {
	if opts, ok := h.options.Get(optionsKey); ok {
		return opts, nil
	}
	opts, err := h.calculator.ConfigOptions(ctx)
	if err != nil {
		return nil, err
	}
	h.options.Set(optionsKey, opts)
	return opts, nil
}
