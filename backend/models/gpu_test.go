package models

import "testing"

func TestGPUCatalog_IDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, g := range GPUCatalog() {
		if seen[g.ID] {
			t.Errorf("Duplicate GPU id %s", g.ID)
		}
		seen[g.ID] = true
		if g.MemoryGB < 0 {
			t.Errorf("%s has negative memory", g.ID)
		}
	}
}

func TestGPUCatalog_CustomSentinel(t *testing.T) {
	g, ok := GPUByID(CustomGPUID)
	if !ok {
		t.Fatal("Expected custom sentinel in catalog")
	}
	if g.MemoryGB != 0 || !g.IsCustom() {
		t.Errorf("Expected custom entry with 0 GB, got %+v", g)
	}
}

func TestGPUCatalog_IsCopy(t *testing.T) {
	c := GPUCatalog()
	c[0].MemoryGB = 9999
	if GPUCatalog()[0].MemoryGB == 9999 {
		t.Error("GPUCatalog must return a copy")
	}
}

func TestLookupGPU(t *testing.T) {
	tests := []struct {
		ref      string
		wantID   string
		wantFind bool
	}{
		{"4090_24", "4090_24", true},
		{DefaultGPUName, "4090_24", true},
		{"h100 (80gb)", "h100_80", true},
		{"M3 Ultra (512GB)", "m3_ultra_512", true},
		{"Voodoo 2", "", false},
	}
	for _, tt := range tests {
		g, ok := LookupGPU(tt.ref)
		if ok != tt.wantFind {
			t.Errorf("LookupGPU(%q) found=%v; want %v", tt.ref, ok, tt.wantFind)
			continue
		}
		if ok && g.ID != tt.wantID {
			t.Errorf("LookupGPU(%q) = %s; want %s", tt.ref, g.ID, tt.wantID)
		}
	}
}

func TestGPUsByCategory(t *testing.T) {
	apple := GPUsByCategory(CategoryAppleSilicon)
	if len(apple) == 0 {
		t.Fatal("Expected Apple Silicon entries")
	}
	for _, g := range apple {
		if g.Category != CategoryAppleSilicon {
			t.Errorf("%s has category %s", g.ID, g.Category)
		}
	}
	if len(apple)+len(GPUsByCategory(CategoryDiscreteGPU)) != len(GPUCatalog()) {
		t.Error("Categories should partition the catalog")
	}
}

func TestGPUsByMemoryRange(t *testing.T) {
	for _, g := range GPUsByMemoryRange(80, 96) {
		if g.MemoryGB < 80 || g.MemoryGB > 96 {
			t.Errorf("%s (%v GB) outside range", g.ID, g.MemoryGB)
		}
	}
	if len(GPUsByMemoryRange(1000, 2000)) != 0 {
		t.Error("Expected no GPUs above 1000 GB")
	}
}

func TestGPUMemoryOptions(t *testing.T) {
	opts := GPUMemoryOptions()
	if len(opts) == 0 {
		t.Fatal("Expected memory options")
	}
	if opts[0] <= 0 {
		t.Errorf("Expected only positive sizes, first is %v", opts[0])
	}
	for i := 1; i < len(opts); i++ {
		if opts[i] <= opts[i-1] {
			t.Errorf("Options not strictly ascending at %d: %v <= %v", i, opts[i], opts[i-1])
		}
	}
}

func TestParseGPUCategory(t *testing.T) {
	if c, ok := ParseGPUCategory("Apple"); !ok || c != CategoryAppleSilicon {
		t.Errorf("Expected Apple Silicon, got %q", c)
	}
	if c, ok := ParseGPUCategory("Nvidia GPU"); !ok || c != CategoryDiscreteGPU {
		t.Errorf("Expected Nvidia GPU, got %q", c)
	}
	if _, ok := ParseGPUCategory("tpu"); ok {
		t.Error("Expected unknown category")
	}
}

func TestGPUNames(t *testing.T) {
	names := GPUNames()
	if len(names) != len(GPUCatalog()) {
		t.Errorf("Expected one name per entry, got %d", len(names))
	}
}
