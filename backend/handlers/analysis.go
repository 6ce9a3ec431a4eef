// ABOUTME: HTTP handlers for memory calculations and derived-state analysis
// ABOUTME: Forwards calculations upstream, then compares results against the selected GPUs

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/backend/services"
)

// CalculateInference sizes an inference workload and derives its fit.
func (h *Handler) CalculateInference(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, models.CalculationInference)
}

// CalculateTraining sizes a training workload and derives its fit.
func (h *Handler) CalculateTraining(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, models.CalculationTraining)
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request, calcType models.CalculationType) {
	if !h.requireCalculator(w) {
		return
	}

	var in models.MemoryCalculationInput
	if !h.decodeBody(w, r, &in) {
		return
	}

	in.ApplyDefaults(calcType)
	if err := services.ValidateCalculationRequest(in.CalculationRequest, calcType); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	gpu, err := services.ResolveGPU(in.GPUSelection)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	calc, err := h.calculator.Calculate(r.Context(), calcType, in.CalculationRequest)
	if err != nil {
		h.writeUpstreamError(w, r, err)
		return
	}

	state := h.capacity.Derive(services.DeriveInput{
		GPU:             gpu,
		GPUCount:        services.ClampGPUCount(in.GPUCount),
		CustomMemoryGB:  in.CustomMemoryGB,
		CalculationType: calcType,
		Result:          &calc.MemoryRequirements,
	})
	h.metrics.observe(state)

	slog.Info("Memory calculation complete",
		"type", calcType,
		"model", in.ModelName,
		"gpu", gpu.Name,
		"gpu_count", state.GPUCount,
		"required_gb", state.TotalRequiredGB,
		"utilization", state.RawUtilizationPercent,
		"tier", state.Tier,
	)

	h.writeJSON(w, http.StatusOK, models.AnalysisResponse{Calculation: calc, State: state})
}

// Analyze derives state for a result the client already holds. It never
// contacts the calculation service.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in models.AnalysisInput
	if !h.decodeBody(w, r, &in) {
		return
	}

	calcType := models.CalculationInference
	if in.CalculationType != "" {
		parsed, err := models.ParseCalculationType(string(in.CalculationType))
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		calcType = parsed
	}

	gpu, err := services.ResolveGPU(in.GPUSelection)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := h.capacity.Derive(services.DeriveInput{
		GPU:             gpu,
		GPUCount:        services.ClampGPUCount(in.GPUCount),
		CustomMemoryGB:  in.CustomMemoryGB,
		CalculationType: calcType,
		Result:          in.Result,
	})
	h.metrics.observe(state)

	h.writeJSON(w, http.StatusOK, models.AnalysisResponse{State: state})
}
