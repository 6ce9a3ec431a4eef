package models

import (
	"math"
	"testing"
)

func inferenceResult() *MemoryResult {
	return &MemoryResult{
		ModelWeightsMemory: "15.26 GB",
		KVCacheMemory:      "1.13 GB",
		ActivationMemory:   "512.00 MB",
		OverheadMemory:     "1.00 GB",
		InferenceMemory:    "17.89 GB",
	}
}

func TestComputeBreakdown_InferenceOrderAndSum(t *testing.T) {
	components := ComputeBreakdown(inferenceResult(), CalculationInference)

	wantKeys := []string{"model_weights", "kv_cache", "activation", "overhead"}
	if len(components) != len(wantKeys) {
		t.Fatalf("Expected %d components, got %d", len(wantKeys), len(components))
	}

	sum := 0.0
	for i, c := range components {
		if c.Key != wantKeys[i] {
			t.Errorf("components[%d].Key = %s; want %s", i, c.Key, wantKeys[i])
		}
		sum += c.ShareOfTotal
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Errorf("Expected shares to sum to 100, got %v", sum)
	}

	if components[2].GB != 0.5 {
		t.Errorf("Expected activation 0.5 GB, got %v", components[2].GB)
	}
}

func TestComputeBreakdown_TrainingAddsOptimizerAndGradients(t *testing.T) {
	result := &MemoryResult{
		ModelWeightsMemory: "2 GB",
		KVCacheMemory:      "1 GB",
		ActivationMemory:   "1 GB",
		OverheadMemory:     "1 GB",
		OptimizerMemory:    "3 GB",
		GradientsMemory:    "2 GB",
		TrainingMemory:     "10 GB",
	}

	components := ComputeBreakdown(result, CalculationTraining)

	wantKeys := []string{"model_weights", "kv_cache", "activation", "overhead", "optimizer", "gradients"}
	if len(components) != len(wantKeys) {
		t.Fatalf("Expected %d components, got %d", len(wantKeys), len(components))
	}
	for i, c := range components {
		if c.Key != wantKeys[i] {
			t.Errorf("components[%d].Key = %s; want %s", i, c.Key, wantKeys[i])
		}
	}
	if components[4].ShareOfTotal != 30 {
		t.Errorf("Expected optimizer share 30, got %v", components[4].ShareOfTotal)
	}
}

func TestComputeBreakdown_ZeroTotal(t *testing.T) {
	result := inferenceResult()
	result.InferenceMemory = "0 GB"

	for _, c := range ComputeBreakdown(result, CalculationInference) {
		if c.ShareOfTotal != 0 || math.IsNaN(c.ShareOfTotal) {
			t.Errorf("%s: expected share 0 with zero total, got %v", c.Key, c.ShareOfTotal)
		}
	}
}

func TestComputeBreakdown_NilResult(t *testing.T) {
	components := ComputeBreakdown(nil, CalculationTraining)
	if len(components) != 6 {
		t.Fatalf("Expected full training schema, got %d components", len(components))
	}
	for _, c := range components {
		if c.GB != 0 || c.ShareOfTotal != 0 {
			t.Errorf("%s: expected zero values, got %v GB / %v%%", c.Key, c.GB, c.ShareOfTotal)
		}
	}
}

func TestComputeBreakdown_MissingComponentDefaultsToZero(t *testing.T) {
	result := inferenceResult()
	result.KVCacheMemory = ""

	components := ComputeBreakdown(result, CalculationInference)
	kv := components[1]
	if kv.Quantity.Raw != "0 GB" {
		t.Errorf("Expected missing kv cache to read as 0 GB, got %q", kv.Quantity.Raw)
	}
	if !kv.Quantity.Parsed {
		t.Error("Expected default 0 GB to count as parsed")
	}
}

func TestBreakdown_ExplicitEntries(t *testing.T) {
	entries := []BreakdownEntry{
		{Key: "a", Label: "A", Raw: "1 GB"},
		{Key: "b", Label: "B", Raw: "1024 MB"},
	}
	got := Breakdown(entries, "4 GB")
	if got[0].ShareOfTotal != 25 || got[1].ShareOfTotal != 25 {
		t.Errorf("Expected 25/25, got %v/%v", got[0].ShareOfTotal, got[1].ShareOfTotal)
	}
	if got[1].Label != "B" {
		t.Errorf("Expected label preserved, got %s", got[1].Label)
	}
}

func TestComponentSchema_ReturnsCopy(t *testing.T) {
	schema := ComponentSchema(CalculationInference)
	schema[0].Label = "mutated"
	if ComponentSchema(CalculationInference)[0].Label != "Model Weights" {
		t.Error("ComponentSchema must not expose the shared table")
	}
}

func TestParseCalculationType(t *testing.T) {
	if ct, err := ParseCalculationType(" Training "); err != nil || ct != CalculationTraining {
		t.Errorf("Expected training, got %v (%v)", ct, err)
	}
	if _, err := ParseCalculationType("finetune"); err == nil {
		t.Error("Expected error for unknown type")
	}
}
