// ABOUTME: Derived-state engine comparing a memory requirement to GPU capacity
// ABOUTME: Produces capacity, utilization (raw and clamped), tier, and breakdown

package services

import (
	"math"
	"strings"

	"github.com/amazingchow/LLMToolset/backend/models"
)

// DeriveInput is the full set of inputs the derived state depends on.
type DeriveInput struct {
	GPU             models.GPUProfile
	GPUCount        int
	CustomMemoryGB  float64 // used when GPU.MemoryGB is 0 (the custom sentinel)
	CalculationType models.CalculationType
	Result          *models.MemoryResult // nil before any calculation has run
}

// CapacityCalculator recomputes derived state from raw inputs on every call.
type CapacityCalculator struct{}

// NewCapacityCalculator creates a new capacity calculator
func NewCapacityCalculator() *CapacityCalculator {
	return &CapacityCalculator{}
}

// Derive computes the derived state for one GPU selection and result.
func (c *CapacityCalculator) Derive(in DeriveInput) models.DerivedState {
	calcType := in.CalculationType
	if calcType == "" {
		calcType = models.CalculationInference
	}

	perGPU := EffectiveGPUMemory(in.GPU, in.CustomMemoryGB)
	capacity := 0.0
	if in.GPUCount > 0 {
		capacity = perGPU * float64(in.GPUCount)
	}

	state := models.DerivedState{
		GPU:             in.GPU.Name,
		GPUCount:        in.GPUCount,
		GPUMemoryGB:     perGPU,
		CalculationType: calcType,
		TotalCapacityGB: capacity,
		Components:      models.ComputeBreakdown(in.Result, calcType),
	}

	if in.Result != nil {
		total := models.ParseMemory(in.Result.Total(calcType))
		state.TotalRequiredGB = total.ToGB()
		state.Estimated = total.Estimated
		state.UnrecognizedUnits = unrecognized(total)
		for _, comp := range state.Components {
			if unrecognized(comp.Quantity) {
				state.UnrecognizedUnits = true
			}
		}
	}

	if capacity > 0 {
		state.RawUtilizationPercent = state.TotalRequiredGB / capacity * 100
	}
	state.ClampedUtilizationPercent = math.Min(state.RawUtilizationPercent, 100)
	state.HeadroomGB = capacity - state.TotalRequiredGB
	state.Tier = models.ClassifyUtilization(state.RawUtilizationPercent)
	state.TierLabel = state.Tier.Label()

	return state
}

// unrecognized reports a non-empty figure that fell back to zero or whose
// unit was read as GB. Absent optional figures do not count.
func unrecognized(q models.MemoryQuantity) bool {
	if strings.TrimSpace(q.Raw) == "" {
		return false
	}
	return !q.Parsed || !q.KnownUnit()
}

// EffectiveGPUMemory returns the per-GPU memory, substituting the custom
// value when the profile carries none.
func EffectiveGPUMemory(gpu models.GPUProfile, customGB float64) float64 {
	if gpu.MemoryGB > 0 {
		return gpu.MemoryGB
	}
	if customGB > 0 {
		return customGB
	}
	return 0
}
