// ABOUTME: Tests for the analyze command
// ABOUTME: Verifies result file parsing, local derivation and threshold exit codes

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amazingchow/LLMToolset/backend/models"
)

const upstreamResult = `{
	"calculation_type": "inference",
	"parameters": {"model_name": "Qwen/Qwen3-8B"},
	"memory_requirements": {
		"model_weights_memory": "16 GB",
		"kv_cache_memory": "2 GB",
		"activation_memory": "1024 MB",
		"overhead_memory": "1 GB",
		"inference_memory": "20 GB"
	}
}`

func writeResult(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "result.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultAnalyzeOptions(path string) analyzeOptions {
	return analyzeOptions{resultFile: path, gpu: "4090_24", count: 1, failOn: "critical"}
}

func TestLoadResult_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTotal string
		wantType  models.CalculationType
		wantErr   bool
	}{
		{"upstream response", upstreamResult, "20 GB", models.CalculationInference, false},
		{"backend response", `{"calculation":{"calculation_type":"training","memory_requirements":{"training_memory":"40 GB"}},"state":{}}`, "", models.CalculationTraining, false},
		{"bare result", `{"inference_memory":"12 GB","model_weights_memory":"10 GB"}`, "12 GB", "", false},
		{"empty object", `{}`, "", "", true},
		{"not json", `memory`, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := loadResult(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadResult() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if calc.CalculationType != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, calc.CalculationType)
			}
			if calc.MemoryRequirements.InferenceMemory != tt.wantTotal {
				t.Errorf("expected inference total %q, got %q", tt.wantTotal, calc.MemoryRequirements.InferenceMemory)
			}
		})
	}
}

func TestAnalyzeCommand_Passes(t *testing.T) {
	var buf bytes.Buffer
	code := runAnalyze(nil, &buf, defaultAnalyzeOptions(writeResult(t, upstreamResult)))

	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	for _, want := range []string{
		"Model:        Qwen/Qwen3-8B (inference)",
		"1 x RTX 4090 (24GB) (24GiB each)",
		"Required:     20.00 GB",
		"Headroom:     4.00 GB",
		"83.3% [High usage]",
		"COMPONENT",
		"Model Weights",
		"PASSED",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommand_UnrecognizedUnitsWarning(t *testing.T) {
	var buf bytes.Buffer
	runAnalyze(nil, &buf, defaultAnalyzeOptions(writeResult(t, upstreamResult)))
	if strings.Contains(buf.String(), "Warning:") {
		t.Errorf("expected no warning for known units, got:\n%s", buf.String())
	}

	path := writeResult(t, `{"memory_requirements":{"model_weights_memory":"16 PB","inference_memory":"16 GB"}}`)
	buf.Reset()
	runAnalyze(nil, &buf, defaultAnalyzeOptions(path))
	if !strings.Contains(buf.String(), "Warning:      some figures had no readable size or unit") {
		t.Errorf("expected unit warning, got:\n%s", buf.String())
	}
}

func TestAnalyzeCommand_FailOnWarning(t *testing.T) {
	opts := defaultAnalyzeOptions(writeResult(t, upstreamResult))
	opts.failOn = "warning"

	var buf bytes.Buffer
	if code := runAnalyze(nil, &buf, opts); code != exitThreshold {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "FAILED") {
		t.Errorf("expected FAILED in output, got:\n%s", buf.String())
	}
}

func TestAnalyzeCommand_MoreGPUsLowersTier(t *testing.T) {
	opts := defaultAnalyzeOptions(writeResult(t, upstreamResult))
	opts.count = 2
	opts.failOn = "warning"

	var buf bytes.Buffer
	if code := runAnalyze(nil, &buf, opts); code != exitOK {
		t.Fatalf("expected exit 0 with two GPUs, got %d:\n%s", code, buf.String())
	}
}

func TestAnalyzeCommand_OverCapacity(t *testing.T) {
	path := writeResult(t, `{"memory_requirements":{"training_memory":"48 GB"}}`)
	opts := defaultAnalyzeOptions(path)
	opts.calcType = "training"

	var buf bytes.Buffer
	if code := runAnalyze(nil, &buf, opts); code != exitThreshold {
		t.Fatalf("expected exit 1, got %d", code)
	}
	out := buf.String()
	if !strings.Contains(out, "Short by:     24.00 GB") {
		t.Errorf("expected shortfall, got:\n%s", out)
	}
	if !strings.Contains(out, "200.0% [Exceeds capacity]") {
		t.Errorf("expected raw 200%% utilization, got:\n%s", out)
	}
	if !strings.Contains(out, "Gradients") {
		t.Errorf("expected training components, got:\n%s", out)
	}
}

func TestAnalyzeCommand_Stdin(t *testing.T) {
	opts := defaultAnalyzeOptions("-")
	opts.gpu = models.CustomGPUID
	opts.customMemory = 40

	var buf bytes.Buffer
	if code := runAnalyze(strings.NewReader(`{"inference_memory":"20 GB"}`), &buf, opts); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "50.0% [Normal]") {
		t.Errorf("expected 50%% on a 40 GB custom GPU, got:\n%s", buf.String())
	}
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	var buf bytes.Buffer
	code := runAnalyze(nil, &buf, defaultAnalyzeOptions(writeResult(t, `{"inference_memory":"12.00 GB * "}`)))
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}

	var out struct {
		State             models.DerivedState `json:"state"`
		FailOn            string              `json:"fail_on"`
		ThresholdExceeded bool                `json:"threshold_exceeded"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if !out.State.Estimated {
		t.Error("expected estimated flag in JSON")
	}
	if out.State.RawUtilizationPercent != 50 {
		t.Errorf("expected 50%%, got %v", out.State.RawUtilizationPercent)
	}
	if out.FailOn != "critical" || out.ThresholdExceeded {
		t.Errorf("unexpected threshold fields %+v", out)
	}
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	path := writeResult(t, upstreamResult)
	tests := []struct {
		name   string
		mutate func(o *analyzeOptions)
		want   string
	}{
		{"missing file", func(o *analyzeOptions) { o.resultFile = filepath.Join(t.TempDir(), "nope.json") }, "failed to open result"},
		{"unknown gpu", func(o *analyzeOptions) { o.gpu = "tpu" }, "unknown GPU"},
		{"custom without memory", func(o *analyzeOptions) { o.gpu = models.CustomGPUID }, "custom_memory_gb"},
		{"bad type", func(o *analyzeOptions) { o.calcType = "serving" }, "Error:"},
		{"bad fail-on", func(o *analyzeOptions) { o.failOn = "panic" }, "--fail-on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultAnalyzeOptions(path)
			tt.mutate(&opts)

			var buf bytes.Buffer
			if code := runAnalyze(nil, &buf, opts); code != exitError {
				t.Fatalf("expected exit 2, got %d", code)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q in output, got %s", tt.want, buf.String())
			}
		})
	}
}
