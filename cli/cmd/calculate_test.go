// ABOUTME: Tests for the calculate command
// ABOUTME: Verifies request building, backend round trip and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amazingchow/LLMToolset/backend/models"
)

func defaultCalculateOptions() calculateOptions {
	return calculateOptions{
		model:     "Qwen/Qwen3-8B",
		calcType:  "inference",
		precision: "bfloat16",
		batch:     1,
		seq:       8192,
		optimizer: "AdamW",
		trainable: 1,
		gpu:       "h100_80",
		count:     2,
		failOn:    "critical",
	}
}

func TestBuildCalculationInput(t *testing.T) {
	calcType, in, err := buildCalculationInput(defaultCalculateOptions())
	if err != nil {
		t.Fatal(err)
	}
	if calcType != models.CalculationInference {
		t.Errorf("expected inference, got %s", calcType)
	}
	if in.KVCachePrecision != "bfloat16" {
		t.Errorf("expected kv precision to follow precision, got %q", in.KVCachePrecision)
	}
	if in.Optimizer != "" || in.TrainableParameters != 0 {
		t.Error("expected no training fields for inference")
	}
	if in.GPU != "h100_80" || in.GPUCount != 2 {
		t.Errorf("unexpected GPU selection %+v", in.GPUSelection)
	}

	opts := defaultCalculateOptions()
	opts.calcType = "Training"
	opts.kvPrecision = "int8"
	calcType, in, err = buildCalculationInput(opts)
	if err != nil {
		t.Fatal(err)
	}
	if calcType != models.CalculationTraining || in.Optimizer != "AdamW" || in.TrainableParameters != 1 {
		t.Errorf("unexpected training input %s %+v", calcType, in.CalculationRequest)
	}
	if in.KVCachePrecision != "int8" {
		t.Errorf("expected explicit kv precision, got %q", in.KVCachePrecision)
	}

	opts = defaultCalculateOptions()
	opts.model = ""
	if _, _, err := buildCalculationInput(opts); err == nil {
		t.Error("expected error without a model")
	}
}

func calculateServer(t *testing.T, state models.DerivedState) (*httptest.Server, *models.MemoryCalculationInput) {
	t.Helper()
	var got models.MemoryCalculationInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/memory/inference" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AnalysisResponse{State: state})
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestCalculateCommand_Success(t *testing.T) {
	server, got := calculateServer(t, models.DerivedState{
		GPU: "H100 (80GB)", GPUCount: 2, GPUMemoryGB: 80,
		CalculationType: models.CalculationInference,
		TotalCapacityGB: 160, TotalRequiredGB: 20, HeadroomGB: 140,
		RawUtilizationPercent: 12.5, ClampedUtilizationPercent: 12.5,
		Tier: models.TierNormal,
	})
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf, defaultCalculateOptions()); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if got.ModelName != "Qwen/Qwen3-8B" || got.GPUCount != 2 {
		t.Errorf("unexpected request body %+v", got)
	}
	out := buf.String()
	for _, want := range []string{"Qwen/Qwen3-8B (inference)", "2 x H100 (80GB)", "12.5% [Normal]", "Headroom:     140.00 GB"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestCalculateCommand_ThresholdExceeded(t *testing.T) {
	server, _ := calculateServer(t, models.DerivedState{
		GPU: "H100 (80GB)", GPUCount: 2, TotalCapacityGB: 160, TotalRequiredGB: 150,
		RawUtilizationPercent: 93.75, Tier: models.TierSevere,
	})
	apiURL = server.URL
	defer func() { apiURL = "" }()

	opts := defaultCalculateOptions()
	opts.failOn = "severe"

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf, opts); code != exitThreshold {
		t.Fatalf("expected exit 1, got %d: %s", code, buf.String())
	}
}

func TestCalculateCommand_BackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "validation failed: batch_size must be between 1 and 32", Code: 400})
	}))
	defer server.Close()
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf, defaultCalculateOptions()); code != exitError {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "batch_size") {
		t.Errorf("expected backend error message, got %s", buf.String())
	}
}

func TestCalculateCommand_BadType(t *testing.T) {
	opts := defaultCalculateOptions()
	opts.calcType = "serving"

	var buf bytes.Buffer
	if code := runCalculate(context.Background(), &buf, opts); code != exitError {
		t.Fatalf("expected exit 2, got %d", code)
	}
}
