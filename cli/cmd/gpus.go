// ABOUTME: GPUs command for gpu-memory CLI
// ABOUTME: Lists the GPU catalog with optional category and memory filters

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/client"
)

var gpuFilter client.GPUFilter

var gpusCmd = &cobra.Command{
	Use:   "gpus",
	Short: "List known GPUs and their memory",
	Long: `List the GPU catalog used for capacity comparisons.

Examples:
  gpu-memory gpus --category apple
  gpu-memory gpus --min-memory 48 --max-memory 96`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runGPUs(ctx, os.Stdout, gpuFilter); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(gpusCmd)
	gpusCmd.Flags().StringVar(&gpuFilter.Category, "category", "", "Filter by category: nvidia or apple")
	gpusCmd.Flags().Float64Var(&gpuFilter.MinMemoryGB, "min-memory", 0, "Minimum memory per GPU in GB")
	gpusCmd.Flags().Float64Var(&gpuFilter.MaxMemoryGB, "max-memory", 0, "Maximum memory per GPU in GB")
}

func runGPUs(ctx context.Context, w io.Writer, filter client.GPUFilter) int {
	if filter.Category != "" {
		if _, ok := models.ParseGPUCategory(filter.Category); !ok {
			fmt.Fprintln(w, "Error: --category must be nvidia or apple")
			return exitError
		}
	}
	if filter.MinMemoryGB < 0 || filter.MaxMemoryGB < 0 {
		fmt.Fprintln(w, "Error: memory filters must not be negative")
		return exitError
	}

	gpus, err := client.New(GetAPIURL()).GPUs(ctx, filter)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(gpus, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	if len(gpus) == 0 {
		fmt.Fprintln(w, "No GPUs match the given filters")
		return exitOK
	}
	fmt.Fprint(w, formatGPUsHuman(gpus))
	return exitOK
}

func formatGPUsHuman(gpus []models.GPUProfile) string {
	var buf strings.Builder
	table := newTable(&buf, "ID", "Name", "Memory", "Category")
	for _, g := range gpus {
		table.Append([]string{g.ID, g.Name, humanGPUMemory(g.MemoryGB), string(g.Category)})
	}
	table.Render()
	fmt.Fprintf(&buf, "\n%d GPU(s)\n", len(gpus))
	return buf.String()
}

// completeGPUNames offers catalog display names for --gpu. The flag also
// accepts ids, which the gpus command lists.
func completeGPUNames(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range models.GPUNames() {
		if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
