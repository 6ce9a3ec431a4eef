// ABOUTME: Shared output formatting for gpu-memory commands
// ABOUTME: Renders derived memory state as aligned text tables or JSON

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/amazingchow/LLMToolset/backend/models"
)

// analysisOutput is the JSON document printed by analyze and calculate
type analysisOutput struct {
	*models.AnalysisResponse
	FailOn            string `json:"fail_on"`
	ThresholdExceeded bool   `json:"threshold_exceeded"`
}

// parseFailOn validates the --fail-on flag
func parseFailOn(s string) (models.UtilizationTier, error) {
	tier, err := models.ParseUtilizationTier(s)
	if err != nil {
		return tier, fmt.Errorf("--fail-on must be one of normal, warning, severe, critical")
	}
	return tier, nil
}

// thresholdExceeded reports whether the state is at or above the fail-on tier
func thresholdExceeded(state models.DerivedState, failOn models.UtilizationTier) bool {
	return state.Tier >= failOn
}

// humanGPUMemory renders a per-GPU memory size in binary units
func humanGPUMemory(gb float64) string {
	if gb <= 0 {
		return "user-defined"
	}
	return units.BytesSize(gb * units.GiB)
}

// newTable returns a borderless, left-aligned table
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

func writeAnalysis(w io.Writer, resp *models.AnalysisResponse, modelName string, failOn models.UtilizationTier) {
	exceeded := thresholdExceeded(resp.State, failOn)
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(analysisOutput{
			AnalysisResponse:  resp,
			FailOn:            failOn.String(),
			ThresholdExceeded: exceeded,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprint(w, formatAnalysisHuman(resp.State, modelName, failOn))
}

func formatAnalysisHuman(s models.DerivedState, modelName string, failOn models.UtilizationTier) string {
	var sb strings.Builder

	if modelName != "" {
		fmt.Fprintf(&sb, "Model:        %s (%s)\n", modelName, s.CalculationType)
	} else {
		fmt.Fprintf(&sb, "Calculation:  %s\n", s.CalculationType)
	}
	fmt.Fprintf(&sb, "GPUs:         %s x %s (%s each)\n", humanize.Comma(int64(s.GPUCount)), s.GPU, humanGPUMemory(s.GPUMemoryGB))
	fmt.Fprintf(&sb, "Capacity:     %s\n", models.FormatGB(s.TotalCapacityGB))

	required := models.FormatGB(s.TotalRequiredGB)
	if s.Estimated {
		required += " (estimated)"
	}
	fmt.Fprintf(&sb, "Required:     %s\n", required)
	if s.UnrecognizedUnits {
		sb.WriteString("Warning:      some figures had no readable size or unit and were counted as GB\n")
	}

	switch {
	case s.TotalCapacityGB == 0:
		sb.WriteString("Headroom:     n/a (no GPU capacity)\n")
	case s.HeadroomGB < 0:
		fmt.Fprintf(&sb, "Short by:     %s\n", models.FormatGB(math.Abs(s.HeadroomGB)))
	default:
		fmt.Fprintf(&sb, "Headroom:     %s\n", models.FormatGB(s.HeadroomGB))
	}
	fmt.Fprintf(&sb, "Utilization:  %.1f%% [%s]\n", s.RawUtilizationPercent, s.Tier.Label())

	sb.WriteString("\n")
	table := newTable(&sb, "Component", "Size", "Share")
	for _, c := range s.Components {
		table.Append([]string{c.Label, models.FormatGB(c.GB), fmt.Sprintf("%.1f%%", c.ShareOfTotal)})
	}
	table.Render()

	sb.WriteString("\n")
	if thresholdExceeded(s, failOn) {
		fmt.Fprintf(&sb, "FAILED: utilization tier %s is at or above %s\n", s.Tier, failOn)
	} else {
		fmt.Fprintf(&sb, "PASSED: utilization tier %s is below %s\n", s.Tier, failOn)
	}
	return sb.String()
}
