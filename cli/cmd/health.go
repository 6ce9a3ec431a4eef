// ABOUTME: Health command for gpu-memory CLI
// ABOUTME: Checks backend connectivity and calculation service status

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the GPU Memory Analyzer backend and report whether it can reach the calculation service.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runHealth(ctx, os.Stdout); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}
	return exitOK
}

func formatHealthHuman(url string, resp *models.HealthResponse) string {
	return fmt.Sprintf(`Backend:     %s
Status:      %s
Version:     %s
Calculator:  %s`, url, resp.Status, resp.Version, resp.Calculator)
}

func formatHealthJSON(url string, resp *models.HealthResponse) string {
	output := map[string]any{
		"backend":    url,
		"status":     resp.Status,
		"service":    resp.Service,
		"version":    resp.Version,
		"calculator": resp.Calculator,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
