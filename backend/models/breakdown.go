// ABOUTME: Memory breakdown schema and share-of-total aggregation
// ABOUTME: Turns a calculation result into an ordered list of components with percentages

package models

import (
	"fmt"
	"strings"
)

// CalculationType selects which memory requirement is being broken down.
type CalculationType string

const (
	CalculationInference CalculationType = "inference"
	CalculationTraining  CalculationType = "training"
)

// ParseCalculationType accepts "inference" or "training" in any case.
func ParseCalculationType(s string) (CalculationType, error) {
	switch CalculationType(strings.ToLower(strings.TrimSpace(s))) {
	case CalculationInference:
		return CalculationInference, nil
	case CalculationTraining:
		return CalculationTraining, nil
	}
	return "", fmt.Errorf("unknown calculation type %q (want inference or training)", s)
}

// MemoryResult is the set of formatted figures returned by the calculation service.
type MemoryResult struct {
	ModelWeightsMemory string `json:"model_weights_memory"`
	KVCacheMemory      string `json:"kv_cache_memory,omitempty"`
	ActivationMemory   string `json:"activation_memory"`
	InferenceMemory    string `json:"inference_memory,omitempty"`
	OptimizerMemory    string `json:"optimizer_memory,omitempty"`
	GradientsMemory    string `json:"gradients_memory,omitempty"`
	TrainingMemory     string `json:"training_memory,omitempty"`
	OverheadMemory     string `json:"overhead_memory"`
}

// Total returns the raw total figure for the calculation type.
func (r *MemoryResult) Total(calcType CalculationType) string {
	if r == nil {
		return ""
	}
	if calcType == CalculationTraining {
		return r.TrainingMemory
	}
	return r.InferenceMemory
}

// ComponentSpec describes one fixed slot of the breakdown schema.
type ComponentSpec struct {
	Key   string
	Label string
	Color string
	value func(*MemoryResult) string
}

var inferenceComponents = []ComponentSpec{
	{Key: "model_weights", Label: "Model Weights", Color: "blue", value: func(r *MemoryResult) string { return r.ModelWeightsMemory }},
	{Key: "kv_cache", Label: "KV Cache", Color: "purple", value: func(r *MemoryResult) string { return r.KVCacheMemory }},
	{Key: "activation", Label: "Activation", Color: "green", value: func(r *MemoryResult) string { return r.ActivationMemory }},
	{Key: "overhead", Label: "Overhead", Color: "red", value: func(r *MemoryResult) string { return r.OverheadMemory }},
}

var trainingComponents = append(append([]ComponentSpec{}, inferenceComponents...),
	ComponentSpec{Key: "optimizer", Label: "Optimizer States", Color: "orange", value: func(r *MemoryResult) string { return r.OptimizerMemory }},
	ComponentSpec{Key: "gradients", Label: "Gradients", Color: "yellow", value: func(r *MemoryResult) string { return r.GradientsMemory }},
)

// ComponentSchema returns the ordered component slots for a calculation type.
func ComponentSchema(calcType CalculationType) []ComponentSpec {
	if calcType == CalculationTraining {
		return append([]ComponentSpec{}, trainingComponents...)
	}
	return append([]ComponentSpec{}, inferenceComponents...)
}

// BreakdownEntry is one labeled input to Breakdown.
type BreakdownEntry struct {
	Key   string
	Label string
	Color string
	Raw   string
}

// BreakdownComponent is one contributor to a total memory requirement.
type BreakdownComponent struct {
	Key          string         `json:"key"`
	Label        string         `json:"label"`
	Color        string         `json:"color,omitempty"`
	Quantity     MemoryQuantity `json:"quantity"`
	GB           float64        `json:"gb"`
	ShareOfTotal float64        `json:"share_of_total"`
}

// Breakdown converts each entry to GB and computes its percentage of totalRaw.
// When the total is not positive every share is 0.
func Breakdown(entries []BreakdownEntry, totalRaw string) []BreakdownComponent {
	total := ParseMemoryToGB(totalRaw)

	out := make([]BreakdownComponent, 0, len(entries))
	for _, e := range entries {
		q := ParseMemory(e.Raw)
		gb := q.ToGB()
		share := 0.0
		if total > 0 {
			share = gb / total * 100
		}
		out = append(out, BreakdownComponent{
			Key:          e.Key,
			Label:        e.Label,
			Color:        e.Color,
			Quantity:     q,
			GB:           gb,
			ShareOfTotal: share,
		})
	}
	return out
}

// ComputeBreakdown applies the fixed schema for calcType to result.
// A nil result yields the schema with every value and share at zero.
func ComputeBreakdown(result *MemoryResult, calcType CalculationType) []BreakdownComponent {
	schema := ComponentSchema(calcType)
	entries := make([]BreakdownEntry, len(schema))
	for i, spec := range schema {
		raw := ""
		if result != nil {
			raw = spec.value(result)
		}
		if raw == "" {
			raw = "0 GB"
		}
		entries[i] = BreakdownEntry{Key: spec.Key, Label: spec.Label, Color: spec.Color, Raw: raw}
	}
	return Breakdown(entries, result.Total(calcType))
}
