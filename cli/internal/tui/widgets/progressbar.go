// ABOUTME: Utilization and breakdown bars for capacity-aware displays
// ABOUTME: Shows tier threshold zones and per-component stacked segments

package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the utilization bar
type ProgressBarConfig struct {
	Width         int
	WarnThreshold float64 // Percentage where warning zone starts (default 70)
	SevThreshold  float64 // Percentage where severe zone starts (default 90)
	EmptyColor    lipgloss.Color
	ShowZones     bool // Show threshold markers in the bar
}

// DefaultProgressBarConfig matches the utilization tier thresholds.
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:         20,
		WarnThreshold: models.WarningThresholdPercent,
		SevThreshold:  models.SevereThresholdPercent,
		EmptyColor:    styles.Surface,
		ShowZones:     true,
	}
}

// filledCells converts a percentage to filled cells, clamped to [0, width].
func filledCells(percent float64, width int) int {
	return min(max(int(percent/100.0*float64(width)), 0), width)
}

// UtilizationBar renders a bar filled to the clamped utilization. Filled
// cells take the color of the tier their position falls in; an
// over-capacity result paints the whole bar in the critical color.
func UtilizationBar(rawPercent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}

	filled := filledCells(rawPercent, config.Width)
	warnPos := filledCells(config.WarnThreshold, config.Width)
	sevPos := filledCells(config.SevThreshold, config.Width)
	over := models.ClassifyUtilization(rawPercent) == models.TierCritical

	var bar strings.Builder
	bar.WriteString("[")

	for i := 0; i < config.Width; i++ {
		char := "█"
		var color lipgloss.Color

		switch {
		case i >= filled:
			char = "░"
			if config.ShowZones && (i == warnPos || i == sevPos) {
				char = "│"
			}
			color = config.EmptyColor
		case over:
			color = styles.Danger
		case i >= sevPos:
			color = styles.Severe
		case i >= warnPos:
			color = styles.Warning
		default:
			color = styles.Secondary
		}

		bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(char))
	}

	bar.WriteString("]")
	return bar.String()
}

// UtilizationBarWithLabel appends the raw percentage and tier icon.
func UtilizationBarWithLabel(rawPercent float64, config ProgressBarConfig) string {
	tier := models.ClassifyUtilization(rawPercent)
	percent := lipgloss.NewStyle().Foreground(styles.TierColor(tier)).Render(fmt.Sprintf("%5.1f%%", rawPercent))
	return fmt.Sprintf("%s %s %s", UtilizationBar(rawPercent, config), percent, TierIcon(tier))
}

// BreakdownBar renders components as adjacent colored segments sized by
// their share of the total. Rounding leftovers go to the largest component.
func BreakdownBar(components []models.BreakdownComponent, width int) string {
	if width <= 0 {
		width = 20
	}

	// Components need not sum to the reported total, so scale by whichever is larger.
	sum := 0.0
	for _, c := range components {
		sum += max(c.ShareOfTotal, 0)
	}
	scale := max(100.0, sum)

	cells := make([]int, len(components))
	used, largest := 0, -1
	for i, c := range components {
		cells[i] = int(max(c.ShareOfTotal, 0) / scale * float64(width))
		used += cells[i]
		if c.ShareOfTotal > 0 && (largest < 0 || c.ShareOfTotal > components[largest].ShareOfTotal) {
			largest = i
		}
	}
	target := int(math.Round(sum / scale * float64(width)))
	if largest >= 0 && used < target {
		cells[largest] += target - used
		used = target
	}

	var bar strings.Builder
	for i, c := range components {
		if cells[i] > 0 {
			bar.WriteString(lipgloss.NewStyle().Foreground(styles.ComponentColor(c.Color)).Render(strings.Repeat("█", cells[i])))
		}
	}
	if used < width {
		bar.WriteString(lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("░", width-used)))
	}
	return bar.String()
}
