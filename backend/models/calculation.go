// ABOUTME: Request and response types exchanged with the memory calculation service
// ABOUTME: Also holds supported data types, optimizers, and request defaults

package models

// Precision names accepted for weights and KV cache.
const (
	PrecisionFloat32  = "float32"
	PrecisionFloat16  = "float16"
	PrecisionBFloat16 = "bfloat16"
	PrecisionInt8     = "int8"
	PrecisionInt4     = "int4"
)

// DataTypeSizes is the storage size in bytes of one parameter per precision.
var DataTypeSizes = map[string]float64{
	PrecisionFloat32:  4,
	PrecisionFloat16:  2,
	PrecisionBFloat16: 2,
	PrecisionInt8:     1,
	PrecisionInt4:     0.5,
}

// DataTypes lists precisions in display order.
var DataTypes = []string{PrecisionFloat32, PrecisionFloat16, PrecisionBFloat16, PrecisionInt8, PrecisionInt4}

// OptimizerSizes is the optimizer state size in bytes per trainable parameter.
var OptimizerSizes = map[string]float64{
	"Adam":            8,
	"AdamW":           8,
	"Quantized AdamW": 2,
	"SGD":             4,
}

// Optimizers lists optimizers in display order.
var Optimizers = []string{"Adam", "AdamW", "Quantized AdamW", "SGD"}

// FineTuneMethods are the training strategies offered by the calculator UI.
var FineTuneMethods = []string{"SFT", "LoRA", "QLoRA"}

// Request defaults and bounds.
const (
	DefaultPrecision           = PrecisionBFloat16
	DefaultBatchSize           = 1
	DefaultSequenceLength      = 8192
	DefaultOptimizer           = "AdamW"
	DefaultTrainableParameters = 1.0
	MinBatchSize               = 1
	MaxBatchSize               = 32
	MinGPUCount                = 1
	MaxGPUCount                = 100000
)

// CalculationRequest is the body sent to the calculation service.
type CalculationRequest struct {
	ModelName           string  `json:"model_name"`
	Precision           string  `json:"precision"`
	BatchSize           int     `json:"batch_size"`
	SequenceLength      int     `json:"sequence_length"`
	KVCachePrecision    string  `json:"kv_cache_precision,omitempty"`
	Optimizer           string  `json:"optimizer,omitempty"`
	TrainableParameters float64 `json:"trainable_parameters,omitempty"`
	UseFlashAttention   *bool   `json:"use_flash_attention,omitempty"`
	UsePageAttention    *bool   `json:"use_page_attention,omitempty"`
}

// ApplyDefaults fills zero-valued fields with the calculator's defaults.
func (r *CalculationRequest) ApplyDefaults(calcType CalculationType) {
	if r.Precision == "" {
		r.Precision = DefaultPrecision
	}
	if r.BatchSize == 0 {
		r.BatchSize = DefaultBatchSize
	}
	if r.SequenceLength == 0 {
		r.SequenceLength = DefaultSequenceLength
	}
	if r.KVCachePrecision == "" {
		r.KVCachePrecision = DefaultPrecision
	}
	if r.UseFlashAttention == nil {
		on := true
		r.UseFlashAttention = &on
	}
	if r.UsePageAttention == nil {
		on := true
		r.UsePageAttention = &on
	}
	if calcType == CalculationTraining {
		if r.Optimizer == "" {
			r.Optimizer = DefaultOptimizer
		}
		if r.TrainableParameters == 0 {
			r.TrainableParameters = DefaultTrainableParameters
		}
	}
}

// CalculationResponse is what the calculation service returns.
type CalculationResponse struct {
	CalculationType    CalculationType `json:"calculation_type"`
	Parameters         map[string]any  `json:"parameters"`
	MemoryRequirements MemoryResult    `json:"memory_requirements"`
}

// ModelParams are the architecture figures the calculation service extracts from a model config.
type ModelParams struct {
	ModelSize         float64 `json:"model_size"`
	Precision         string  `json:"precision"`
	HiddenSize        int     `json:"hidden_size"`
	NumHiddenLayers   int     `json:"num_hidden_layers"`
	NumAttentionHeads int     `json:"num_attention_heads"`
	NumKeyValueHeads  int     `json:"num_key_value_heads"`
}

// ModelInfo describes a model known to the calculation service.
type ModelInfo struct {
	ModelName       string         `json:"model_name"`
	Config          map[string]any `json:"config,omitempty"`
	ExtractedParams ModelParams    `json:"extracted_params"`
}

// ConfigOptions lists the choices the calculation service accepts.
type ConfigOptions struct {
	DataTypes       []string `json:"data_types"`
	Optimizers      []string `json:"optimizers"`
	AvailableModels []string `json:"available_models"`
}

// ModelsResponse wraps the model list endpoint.
type ModelsResponse struct {
	Models []string `json:"models"`
	Count  int      `json:"count"`
}

// GPUSelection identifies the hardware a result is compared against.
type GPUSelection struct {
	GPU            string  `json:"gpu"`
	GPUCount       int     `json:"gpu_count"`
	CustomMemoryGB float64 `json:"custom_memory_gb,omitempty"`
}

// MemoryCalculationInput is the body accepted by the backend's calculation endpoints.
type MemoryCalculationInput struct {
	CalculationRequest
	GPUSelection
}

// AnalysisInput is the body of the pure analysis endpoint.
type AnalysisInput struct {
	CalculationType CalculationType `json:"calculation_type"`
	Result          *MemoryResult   `json:"result,omitempty"`
	GPUSelection
}

// DerivedState is everything a client renders for one result on one GPU setup.
type DerivedState struct {
	GPU                       string               `json:"gpu"`
	GPUCount                  int                  `json:"gpu_count"`
	GPUMemoryGB               float64              `json:"gpu_memory_gb"`
	CalculationType           CalculationType      `json:"calculation_type"`
	TotalCapacityGB           float64              `json:"total_capacity_gb"`
	TotalRequiredGB           float64              `json:"total_required_gb"`
	HeadroomGB                float64              `json:"headroom_gb"`
	RawUtilizationPercent     float64              `json:"raw_utilization_percent"`
	ClampedUtilizationPercent float64              `json:"clamped_utilization_percent"`
	Tier                      UtilizationTier      `json:"tier"`
	TierLabel                 string               `json:"tier_label"`
	Components                []BreakdownComponent `json:"components"`
	// Estimated is set when the upstream total carried the estimate marker.
	Estimated bool `json:"estimated,omitempty"`
	// UnrecognizedUnits is set when the total or a component did not parse
	// or carried a unit outside TB, GB, MB, KB and BYTES.
	UnrecognizedUnits bool `json:"unrecognized_units,omitempty"`
}

// AnalysisResponse pairs an upstream calculation with its derived state.
type AnalysisResponse struct {
	Calculation *CalculationResponse `json:"calculation,omitempty"`
	State       DerivedState         `json:"state"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	Calculator string `json:"calculator"`
}

// CatalogResponse bundles everything a client needs to build a selection form.
type CatalogResponse struct {
	GPUs          []GPUProfile   `json:"gpus"`
	Models        []string       `json:"models"`
	Options       *ConfigOptions `json:"options,omitempty"`
	MemoryOptions []float64      `json:"memory_options"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
