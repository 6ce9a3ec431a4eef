// ABOUTME: Tests for calculation history persistence
// ABOUTME: Covers load fallbacks, recording, ordering and model merging

package history

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/amazingchow/LLMToolset/backend/models"
)

func input(model string) *models.MemoryCalculationInput {
	return &models.MemoryCalculationInput{
		CalculationRequest: models.CalculationRequest{ModelName: model, Precision: "bfloat16", BatchSize: 1},
		GPUSelection:       models.GPUSelection{GPU: "h100_80", GPUCount: 2},
	}
}

func TestLoadMissingFile(t *testing.T) {
	e := New(t.TempDir()).Load()
	if e.LastInput != nil || len(e.RecentModels) != 0 {
		t.Errorf("expected empty history, got %+v", e)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "history.json"), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}
	e := New(dir).Load()
	if e.LastInput != nil || e.RecentModels == nil {
		t.Errorf("expected empty history for corrupt file, got %+v", e)
	}
}

func TestRecordAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Record(models.CalculationTraining, input("Qwen/Qwen3-8B")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	e := store.Load()
	if e.CalculationType != models.CalculationTraining {
		t.Errorf("expected training, got %s", e.CalculationType)
	}
	if e.LastInput == nil || e.LastInput.GPU != "h100_80" || e.LastInput.GPUCount != 2 {
		t.Errorf("unexpected last input %+v", e.LastInput)
	}
}

func TestRecordOrdersRecentModels(t *testing.T) {
	store := New(t.TempDir())
	for _, m := range []string{"a", "b", "c", "d", "e", "f", "b"} {
		if err := store.Record(models.CalculationInference, input(m)); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"b", "f", "e", "d", "c"}
	if got := store.Load().RecentModels; !reflect.DeepEqual(got, want) {
		t.Errorf("recent models = %v, want %v", got, want)
	}
}

func TestEmptyDirKeepsNothing(t *testing.T) {
	store := New("")
	if err := store.Record(models.CalculationInference, input("x")); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if e := store.Load(); e.LastInput != nil {
		t.Error("expected nothing stored")
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("GPU_MEMORY_CONFIG_DIR", "/tmp/gm")
	if got := DefaultDir(); got != "/tmp/gm" {
		t.Errorf("expected override, got %s", got)
	}

	t.Setenv("GPU_MEMORY_CONFIG_DIR", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultDir(); got != filepath.Join("/tmp/xdg", "gpu-memory") {
		t.Errorf("expected XDG path, got %s", got)
	}
}

func TestMergeModels(t *testing.T) {
	got := MergeModels([]string{"custom/model", "Qwen/Qwen3-8B", "custom/model"}, []string{"Qwen/Qwen3-8B", "meta-llama/Llama-3.1-8B"})
	want := []string{"custom/model", "Qwen/Qwen3-8B", "meta-llama/Llama-3.1-8B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeModels() = %v, want %v", got, want)
	}
}
