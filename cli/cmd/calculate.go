// ABOUTME: Calculate command for gpu-memory CLI
// ABOUTME: Sizes a model through the backend and checks the result against GPU capacity

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/client"
)

type calculateOptions struct {
	model        string
	calcType     string
	precision    string
	kvPrecision  string
	batch        int
	seq          int
	optimizer    string
	trainable    float64
	gpu          string
	count        int
	customMemory float64
	failOn       string
}

var calculateOpts calculateOptions

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate memory requirements for a model",
	Long: `Ask the backend to size an inference or training workload and compare it
with the selected GPUs.

Examples:
  gpu-memory calculate --model Qwen/Qwen3-8B --gpu h100_80 --count 2
  gpu-memory calculate --model Qwen/Qwen3-8B --type training --optimizer SGD --fail-on severe

Exit codes:
  0 - Utilization tier is below --fail-on
  1 - Utilization tier is at or above --fail-on
  2 - Error (connectivity, invalid input, upstream failure)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runCalculate(ctx, os.Stdout, calculateOpts); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(calculateCmd)
	f := calculateCmd.Flags()
	f.StringVar(&calculateOpts.model, "model", "", "Model name, e.g. Qwen/Qwen3-8B")
	f.StringVar(&calculateOpts.calcType, "type", string(models.CalculationInference), "Calculation type: inference or training")
	f.StringVar(&calculateOpts.precision, "precision", models.DefaultPrecision, "Weight precision")
	f.StringVar(&calculateOpts.kvPrecision, "kv-precision", "", "KV cache precision (default: same as --precision)")
	f.IntVar(&calculateOpts.batch, "batch", models.DefaultBatchSize, "Batch size")
	f.IntVar(&calculateOpts.seq, "seq", models.DefaultSequenceLength, "Sequence length")
	f.StringVar(&calculateOpts.optimizer, "optimizer", models.DefaultOptimizer, "Optimizer (training only)")
	f.Float64Var(&calculateOpts.trainable, "trainable", models.DefaultTrainableParameters, "Trainable parameters in percent (training only)")
	f.StringVar(&calculateOpts.gpu, "gpu", models.DefaultGPUName, "GPU id or name")
	f.IntVar(&calculateOpts.count, "count", 1, "Number of GPUs")
	f.Float64Var(&calculateOpts.customMemory, "custom-memory", 0, "Memory per GPU in GB for custom_discrete")
	f.StringVar(&calculateOpts.failOn, "fail-on", "critical", "Exit 1 at or above this tier: normal, warning, severe, critical")
	calculateCmd.MarkFlagRequired("model")
	calculateCmd.RegisterFlagCompletionFunc("gpu", completeGPUNames)
}

// buildCalculationInput converts flags into the backend request body
func buildCalculationInput(opts calculateOptions) (models.CalculationType, *models.MemoryCalculationInput, error) {
	calcType, err := models.ParseCalculationType(opts.calcType)
	if err != nil {
		return "", nil, err
	}
	if opts.model == "" {
		return "", nil, fmt.Errorf("--model is required")
	}

	kv := opts.kvPrecision
	if kv == "" {
		kv = opts.precision
	}
	in := &models.MemoryCalculationInput{
		CalculationRequest: models.CalculationRequest{
			ModelName:        opts.model,
			Precision:        opts.precision,
			BatchSize:        opts.batch,
			SequenceLength:   opts.seq,
			KVCachePrecision: kv,
		},
		GPUSelection: models.GPUSelection{
			GPU:            opts.gpu,
			GPUCount:       opts.count,
			CustomMemoryGB: opts.customMemory,
		},
	}
	if calcType == models.CalculationTraining {
		in.Optimizer = opts.optimizer
		in.TrainableParameters = opts.trainable
	}
	return calcType, in, nil
}

func runCalculate(ctx context.Context, w io.Writer, opts calculateOptions) int {
	failOn, err := parseFailOn(opts.failOn)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	calcType, in, err := buildCalculationInput(opts)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	resp, err := client.New(GetAPIURL()).Calculate(ctx, calcType, in)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	writeAnalysis(w, resp, in.ModelName, failOn)
	if thresholdExceeded(resp.State, failOn) {
		return exitThreshold
	}
	return exitOK
}
