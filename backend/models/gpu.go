// ABOUTME: Static GPU reference catalog with memory sizes
// ABOUTME: Read-only lookup table used to resolve a selected GPU to its capacity

package models

import (
	"slices"
	"strings"
)

// GPUCategory groups GPUs for display.
type GPUCategory string

const (
	CategoryDiscreteGPU  GPUCategory = "Nvidia GPU"
	CategoryAppleSilicon GPUCategory = "Apple Silicon"
)

// CustomGPUID is the sentinel entry whose memory must be supplied by the user.
const CustomGPUID = "custom_discrete"

// DefaultGPUName is the GPU preselected by clients.
const DefaultGPUName = "RTX 4090 (24GB)"

// GPUProfile is one entry of the GPU catalog.
type GPUProfile struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	MemoryGB float64     `json:"memory_gb"`
	Category GPUCategory `json:"category"`
}

// IsCustom reports whether the profile is the user-sized sentinel.
func (g GPUProfile) IsCustom() bool {
	return g.ID == CustomGPUID
}

var gpuCatalog = []GPUProfile{
	{ID: "3060_12", Name: "RTX 3060 (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "3060ti_8", Name: "RTX 3060 Ti (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "3070_8", Name: "RTX 3070 (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "3070ti_8", Name: "RTX 3070 Ti (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "3080_10", Name: "RTX 3080 (10GB)", MemoryGB: 10, Category: CategoryDiscreteGPU},
	{ID: "3080_12", Name: "RTX 3080 (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "3080ti_12", Name: "RTX 3080 Ti (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "3090_24", Name: "RTX 3090 (24GB)", MemoryGB: 24, Category: CategoryDiscreteGPU},
	{ID: "3090ti_24", Name: "RTX 3090 Ti (24GB)", MemoryGB: 24, Category: CategoryDiscreteGPU},
	{ID: "4060_8", Name: "RTX 4060 (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "4060ti_8", Name: "RTX 4060 Ti (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "4060ti_16", Name: "RTX 4060 Ti (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "4070_12", Name: "RTX 4070 (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "4070ti_12", Name: "RTX 4070 Ti (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "4070tisuper_16", Name: "RTX 4070 Ti SUPER (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "4070super_12", Name: "RTX 4070 SUPER (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "4080_16", Name: "RTX 4080 (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "4080super_16", Name: "RTX 4080 SUPER (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "4090_24", Name: "RTX 4090 (24GB)", MemoryGB: 24, Category: CategoryDiscreteGPU},
	{ID: "5060_8", Name: "RTX 5060 (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "5060ti_8", Name: "RTX 5060 Ti (8GB)", MemoryGB: 8, Category: CategoryDiscreteGPU},
	{ID: "5060ti_16", Name: "RTX 5060 Ti (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "5070_12", Name: "RTX 5070 (12GB)", MemoryGB: 12, Category: CategoryDiscreteGPU},
	{ID: "5070ti_16", Name: "RTX 5070 Ti (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "5080_16", Name: "RTX 5080 (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "5090_32", Name: "RTX 5090 (32GB)", MemoryGB: 32, Category: CategoryDiscreteGPU},
	{ID: "rtx_2000_ada_16", Name: "RTX 2000 Ada Generation (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "rtx_a4000_16", Name: "RTX A4000 (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "rtx_a5000_24", Name: "RTX A5000 (24GB)", MemoryGB: 24, Category: CategoryDiscreteGPU},
	{ID: "rtx_a6000_48", Name: "RTX A6000 (48GB)", MemoryGB: 48, Category: CategoryDiscreteGPU},
	{ID: "rtx_4000_blackwell_24", Name: "RTX 4000 Blackwell SFF (24GB)", MemoryGB: 24, Category: CategoryDiscreteGPU},
	{ID: "rtx_4500_blackwell_32", Name: "RTX 4500 Blackwell (32GB)", MemoryGB: 32, Category: CategoryDiscreteGPU},
	{ID: "rtx_5000_blackwell_48", Name: "RTX 5000 Blackwell (48GB)", MemoryGB: 48, Category: CategoryDiscreteGPU},
	{ID: "rtx_6000_blackwell_96", Name: "RTX 6000 Blackwell (96GB)", MemoryGB: 96, Category: CategoryDiscreteGPU},
	{ID: "l40_48", Name: "L40 (48GB)", MemoryGB: 48, Category: CategoryDiscreteGPU},
	{ID: "l40s_48", Name: "L40S (48GB)", MemoryGB: 48, Category: CategoryDiscreteGPU},
	{ID: "a2_16", Name: "A2 (16GB)", MemoryGB: 16, Category: CategoryDiscreteGPU},
	{ID: "a16_64", Name: "A16 (64GB)", MemoryGB: 64, Category: CategoryDiscreteGPU},
	{ID: "a30_24", Name: "A30 (24GB)", MemoryGB: 24, Category: CategoryDiscreteGPU},
	{ID: "a40_48", Name: "A40 (48GB)", MemoryGB: 48, Category: CategoryDiscreteGPU},
	{ID: "a100_40", Name: "A100 (40GB)", MemoryGB: 40, Category: CategoryDiscreteGPU},
	{ID: "a100_80", Name: "A100 (80GB)", MemoryGB: 80, Category: CategoryDiscreteGPU},
	{ID: "a800_40", Name: "A800 (40GB)", MemoryGB: 40, Category: CategoryDiscreteGPU},
	{ID: "a800_80", Name: "A800 (80GB)", MemoryGB: 80, Category: CategoryDiscreteGPU},
	{ID: "h100_80", Name: "H100 (80GB)", MemoryGB: 80, Category: CategoryDiscreteGPU},
	{ID: "h100nvl_188", Name: "H100 NVL (188GB)", MemoryGB: 188, Category: CategoryDiscreteGPU},
	{ID: "h200_141", Name: "H200 (141GB)", MemoryGB: 141, Category: CategoryDiscreteGPU},
	{ID: "h800_80", Name: "H800 (80GB)", MemoryGB: 80, Category: CategoryDiscreteGPU},
	{ID: "b100_192", Name: "B100 (192GB)", MemoryGB: 192, Category: CategoryDiscreteGPU},
	{ID: "b200_192", Name: "B200 (192GB)", MemoryGB: 192, Category: CategoryDiscreteGPU},
	{ID: "custom_discrete", Name: "Custom (GPU)", MemoryGB: 0, Category: CategoryDiscreteGPU},
	{ID: "m2_pro_16", Name: "M2 Pro (16GB)", MemoryGB: 16, Category: CategoryAppleSilicon},
	{ID: "m2_max_32", Name: "M2 Max (32GB)", MemoryGB: 32, Category: CategoryAppleSilicon},
	{ID: "m2_max_64", Name: "M2 Max (64GB)", MemoryGB: 64, Category: CategoryAppleSilicon},
	{ID: "m2_max_96", Name: "M2 Max (96GB)", MemoryGB: 96, Category: CategoryAppleSilicon},
	{ID: "m2_ultra_64", Name: "M2 Ultra (64GB)", MemoryGB: 64, Category: CategoryAppleSilicon},
	{ID: "m2_ultra_128", Name: "M2 Ultra (128GB)", MemoryGB: 128, Category: CategoryAppleSilicon},
	{ID: "m2_ultra_192", Name: "M2 Ultra (192GB)", MemoryGB: 192, Category: CategoryAppleSilicon},
	{ID: "m3_pro_18", Name: "M3 Pro (18GB)", MemoryGB: 18, Category: CategoryAppleSilicon},
	{ID: "m3_pro_36", Name: "M3 Pro (36GB)", MemoryGB: 36, Category: CategoryAppleSilicon},
	{ID: "m3_max_36", Name: "M3 Max (36GB)", MemoryGB: 36, Category: CategoryAppleSilicon},
	{ID: "m3_max_48", Name: "M3 Max (48GB)", MemoryGB: 48, Category: CategoryAppleSilicon},
	{ID: "m3_max_64", Name: "M3 Max (64GB)", MemoryGB: 64, Category: CategoryAppleSilicon},
	{ID: "m3_max_96", Name: "M3 Max (96GB)", MemoryGB: 96, Category: CategoryAppleSilicon},
	{ID: "m3_max_128", Name: "M3 Max (128GB)", MemoryGB: 128, Category: CategoryAppleSilicon},
	{ID: "m3_ultra_256", Name: "M3 Ultra (256GB)", MemoryGB: 256, Category: CategoryAppleSilicon},
	{ID: "m3_ultra_512", Name: "M3 Ultra (512GB)", MemoryGB: 512, Category: CategoryAppleSilicon},
	{ID: "m4_16", Name: "M4 (16GB)", MemoryGB: 16, Category: CategoryAppleSilicon},
	{ID: "m4_24", Name: "M4 (24GB)", MemoryGB: 24, Category: CategoryAppleSilicon},
	{ID: "m4_32", Name: "M4 (32GB)", MemoryGB: 32, Category: CategoryAppleSilicon},
	{ID: "m4_pro_32", Name: "M4 Pro (32GB)", MemoryGB: 32, Category: CategoryAppleSilicon},
	{ID: "m4_pro_64", Name: "M4 Pro (64GB)", MemoryGB: 64, Category: CategoryAppleSilicon},
	{ID: "m4_max_64", Name: "M4 Max (64GB)", MemoryGB: 64, Category: CategoryAppleSilicon},
	{ID: "m4_max_96", Name: "M4 Max (96GB)", MemoryGB: 96, Category: CategoryAppleSilicon},
	{ID: "m4_max_128", Name: "M4 Max (128GB)", MemoryGB: 128, Category: CategoryAppleSilicon},
}

var gpuByID = func() map[string]GPUProfile {
	m := make(map[string]GPUProfile, len(gpuCatalog))
	for _, g := range gpuCatalog {
		m[g.ID] = g
	}
	return m
}()

// GPUCatalog returns a copy of every catalog entry in display order.
func GPUCatalog() []GPUProfile {
	return slices.Clone(gpuCatalog)
}

// GPUByID looks up a profile by its identifier.
func GPUByID(id string) (GPUProfile, bool) {
	g, ok := gpuByID[id]
	return g, ok
}

// GPUByName looks up a profile by display name, ignoring case.
func GPUByName(name string) (GPUProfile, bool) {
	for _, g := range gpuCatalog {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return GPUProfile{}, false
}

// LookupGPU resolves either an ID or a display name.
func LookupGPU(ref string) (GPUProfile, bool) {
	if g, ok := GPUByID(ref); ok {
		return g, true
	}
	return GPUByName(ref)
}

// ParseGPUCategory accepts the display name or a short alias ("nvidia", "apple").
func ParseGPUCategory(s string) (GPUCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nvidia", "nvidia gpu", "gpu", "discrete":
		return CategoryDiscreteGPU, true
	case "apple", "apple silicon", "silicon":
		return CategoryAppleSilicon, true
	}
	return "", false
}

// GPUsByCategory returns the profiles of one category in catalog order.
func GPUsByCategory(category GPUCategory) []GPUProfile {
	var out []GPUProfile
	for _, g := range gpuCatalog {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}

// GPUsByMemoryRange returns profiles with minGB <= memory <= maxGB.
func GPUsByMemoryRange(minGB, maxGB float64) []GPUProfile {
	var out []GPUProfile
	for _, g := range gpuCatalog {
		if g.MemoryGB >= minGB && g.MemoryGB <= maxGB {
			out = append(out, g)
		}
	}
	return out
}

// GPUNames returns the display names in catalog order.
func GPUNames() []string {
	names := make([]string, len(gpuCatalog))
	for i, g := range gpuCatalog {
		names[i] = g.Name
	}
	return names
}

// GPUMemoryOptions returns the distinct non-zero memory sizes, ascending.
func GPUMemoryOptions() []float64 {
	var sizes []float64
	for _, g := range gpuCatalog {
		if g.MemoryGB > 0 {
			sizes = append(sizes, g.MemoryGB)
		}
	}
	slices.Sort(sizes)
	return slices.Compact(sizes)
}
