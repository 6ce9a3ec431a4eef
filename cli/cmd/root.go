// ABOUTME: Root command for gpu-memory CLI
// ABOUTME: Handles global flags, configuration and launching the interactive TUI

package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amazingchow/LLMToolset/cli/internal/client"
	"github.com/amazingchow/LLMToolset/cli/internal/tui"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// Exit codes shared by every command
const (
	exitOK        = 0
	exitThreshold = 1
	exitError     = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "gpu-memory",
	Short: "CLI for the GPU Memory Analyzer",
	Long: `gpu-memory sizes LLM inference and training workloads against GPU memory.

Run without arguments in a terminal to open the interactive calculator.
Subcommands print plain text or JSON and exit non-zero when a utilization
threshold is exceeded, which makes them usable in CI/CD pipelines.

Environment Variables:
  GPU_MEMORY_API_URL      Backend API URL (default: http://localhost:8080)
  GPU_MEMORY_DEBUG        Write TUI debug logs to ~/.config/gpu-memory/debug.log
  GPU_MEMORY_NERD_FONTS   Force Nerd Font icons on (1) or off (0)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout.Fd()) {
			return cmd.Help()
		}
		return tui.Run(client.New(GetAPIURL()))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides GPU_MEMORY_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("GPU_MEMORY_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
