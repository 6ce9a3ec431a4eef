// ABOUTME: Input validation for calculation requests and GPU selections
// ABOUTME: Rejects unsafe model names before they are placed in upstream URLs

package services

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/amazingchow/LLMToolset/backend/models"
)

// modelNamePattern matches Hugging Face style ids such as "Qwen/Qwen3-8B".
var modelNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// ErrValidation is wrapped by every validation failure.
var ErrValidation = errors.New("validation failed")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// ValidateModelName rejects empty names and anything that could escape a URL path segment.
func ValidateModelName(name string) error {
	if name == "" {
		return invalid("model_name is required")
	}
	if strings.Contains(name, "..") || !modelNamePattern.MatchString(name) {
		return invalid("invalid model name format: %s", sanitizeForLog(name))
	}
	return nil
}

// ValidateCalculationRequest checks a request after defaults have been applied.
func ValidateCalculationRequest(req models.CalculationRequest, calcType models.CalculationType) error {
	if err := ValidateModelName(req.ModelName); err != nil {
		return err
	}
	if req.BatchSize < models.MinBatchSize || req.BatchSize > models.MaxBatchSize {
		return invalid("batch_size must be between %d and %d", models.MinBatchSize, models.MaxBatchSize)
	}
	if req.SequenceLength < 1 {
		return invalid("sequence_length must be positive")
	}
	if !slices.Contains(models.DataTypes, req.Precision) {
		return invalid("invalid precision %q, must be one of: %s", sanitizeForLog(req.Precision), strings.Join(models.DataTypes, ", "))
	}
	if req.KVCachePrecision != "" && !slices.Contains(models.DataTypes, req.KVCachePrecision) {
		return invalid("invalid kv_cache_precision %q, must be one of: %s", sanitizeForLog(req.KVCachePrecision), strings.Join(models.DataTypes, ", "))
	}

	if calcType == models.CalculationTraining {
		if _, ok := models.OptimizerSizes[req.Optimizer]; !ok {
			return invalid("invalid optimizer %q, must be one of: %s", sanitizeForLog(req.Optimizer), strings.Join(models.Optimizers, ", "))
		}
		if req.TrainableParameters <= 0 || req.TrainableParameters > 100 {
			return invalid("trainable_parameters must be in (0, 100]")
		}
	}
	return nil
}

// ClampGPUCount bounds a user-entered GPU count to [1, 100000].
func ClampGPUCount(n int) int {
	return min(max(n, models.MinGPUCount), models.MaxGPUCount)
}

// ResolveGPU finds the selected GPU by id or name, defaulting when empty.
// The custom sentinel requires a positive custom memory size.
func ResolveGPU(sel models.GPUSelection) (models.GPUProfile, error) {
	ref := sel.GPU
	if ref == "" {
		ref = models.DefaultGPUName
	}
	gpu, ok := models.LookupGPU(ref)
	if !ok {
		return models.GPUProfile{}, invalid("unknown GPU %q", sanitizeForLog(ref))
	}
	if gpu.MemoryGB == 0 && sel.CustomMemoryGB <= 0 {
		return models.GPUProfile{}, invalid("custom_memory_gb is required for %s", gpu.Name)
	}
	if sel.CustomMemoryGB < 0 {
		return models.GPUProfile{}, invalid("custom_memory_gb must not be negative")
	}
	return gpu, nil
}
