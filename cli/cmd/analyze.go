// ABOUTME: Analyze command for gpu-memory CLI
// ABOUTME: Derives utilization and breakdown for a saved calculation result without calling the backend

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/backend/services"
)

type analyzeOptions struct {
	resultFile   string
	gpu          string
	count        int
	customMemory float64
	calcType     string
	failOn       string
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Check a saved calculation result against GPU capacity",
	Long: `Analyze a calculation result saved as JSON and report whether it fits the
selected GPUs. The file may hold a calculation service response, a backend
analysis response, or a bare memory_requirements object. Use "-" to read
from stdin.

Exit codes:
  0 - Utilization tier is below --fail-on
  1 - Utilization tier is at or above --fail-on
  2 - Error (unreadable file, unknown GPU, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runAnalyze(os.Stdin, os.Stdout, analyzeOpts); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeOpts.resultFile, "result", "", "Path to a saved result JSON file, or - for stdin")
	analyzeCmd.Flags().StringVar(&analyzeOpts.gpu, "gpu", models.DefaultGPUName, "GPU id or name")
	analyzeCmd.Flags().IntVar(&analyzeOpts.count, "count", 1, "Number of GPUs")
	analyzeCmd.Flags().Float64Var(&analyzeOpts.customMemory, "custom-memory", 0, "Memory per GPU in GB for custom_discrete")
	analyzeCmd.Flags().StringVar(&analyzeOpts.calcType, "type", "", "Calculation type: inference or training (default from file, else inference)")
	analyzeCmd.Flags().StringVar(&analyzeOpts.failOn, "fail-on", "critical", "Exit 1 at or above this tier: normal, warning, severe, critical")
	analyzeCmd.MarkFlagRequired("result")
	analyzeCmd.RegisterFlagCompletionFunc("gpu", completeGPUNames)
}

// savedResult accepts the shapes a result file can take
type savedResult struct {
	CalculationType    models.CalculationType      `json:"calculation_type"`
	Parameters         map[string]any              `json:"parameters"`
	MemoryRequirements *models.MemoryResult        `json:"memory_requirements"`
	Calculation        *models.CalculationResponse `json:"calculation"`
}

// loadResult decodes a saved result into a calculation response
func loadResult(r io.Reader) (*models.CalculationResponse, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var saved savedResult
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("invalid result JSON: %w", err)
	}

	switch {
	case saved.Calculation != nil:
		return saved.Calculation, nil
	case saved.MemoryRequirements != nil:
		return &models.CalculationResponse{
			CalculationType:    saved.CalculationType,
			Parameters:         saved.Parameters,
			MemoryRequirements: *saved.MemoryRequirements,
		}, nil
	}

	var bare models.MemoryResult
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("invalid result JSON: %w", err)
	}
	if bare == (models.MemoryResult{}) {
		return nil, fmt.Errorf("result contains no memory figures")
	}
	return &models.CalculationResponse{MemoryRequirements: bare}, nil
}

func openResult(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result: %w", err)
	}
	return f, nil
}

func runAnalyze(stdin io.Reader, w io.Writer, opts analyzeOptions) int {
	failOn, err := parseFailOn(opts.failOn)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	rc, err := openResult(opts.resultFile, stdin)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	calc, err := loadResult(rc)
	rc.Close()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	calcType := calc.CalculationType
	if opts.calcType != "" {
		if calcType, err = models.ParseCalculationType(opts.calcType); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}
	if calcType == "" {
		calcType = models.CalculationInference
	}
	calc.CalculationType = calcType

	sel := models.GPUSelection{GPU: opts.gpu, GPUCount: opts.count, CustomMemoryGB: opts.customMemory}
	gpu, err := services.ResolveGPU(sel)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	state := services.NewCapacityCalculator().Derive(services.DeriveInput{
		GPU:             gpu,
		GPUCount:        services.ClampGPUCount(opts.count),
		CustomMemoryGB:  opts.customMemory,
		CalculationType: calcType,
		Result:          &calc.MemoryRequirements,
	})

	resp := &models.AnalysisResponse{Calculation: calc, State: state}
	writeAnalysis(w, resp, modelNameOf(calc), failOn)

	if thresholdExceeded(state, failOn) {
		return exitThreshold
	}
	return exitOK
}

// modelNameOf returns the model named in a response's echoed parameters
func modelNameOf(calc *models.CalculationResponse) string {
	if calc == nil {
		return ""
	}
	name, _ := calc.Parameters["model_name"].(string)
	return name
}
