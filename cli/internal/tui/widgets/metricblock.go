// ABOUTME: Compact metric block widget for results displays
// ABOUTME: Combines icon, value, optional utilization bar, and subtitle in a bordered panel

package widgets

import (
	"fmt"
	"strings"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/icons"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// MetricBlockConfig holds configuration for a metric block
type MetricBlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultMetricBlockConfig returns sensible defaults
func DefaultMetricBlockConfig() MetricBlockConfig {
	return MetricBlockConfig{
		Width:       24,
		BorderColor: styles.Muted,
		TitleColor:  styles.Primary,
		ValueColor:  styles.Text,
	}
}

// MetricBlock renders a compact metric display block
func MetricBlock(icon icons.Icon, title, value, subtitle string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 24
	}
	innerWidth := config.Width - 4

	valueStyle := lipgloss.NewStyle().Foreground(config.ValueColor).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	return frame(icon, title, config, []string{
		valueStyle.Render(truncate(value, innerWidth)),
		subtitleStyle.Render(truncate(subtitle, innerWidth)),
	})
}

// MetricBlockWithBar renders a utilization block with a threshold bar
func MetricBlockWithBar(icon icons.Icon, title string, rawPercent float64, details string, config MetricBlockConfig) string {
	if config.Width <= 0 {
		config.Width = 24
	}
	innerWidth := config.Width - 4

	barConfig := DefaultProgressBarConfig()
	barConfig.Width = max(innerWidth-2, 1) // brackets

	detailStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	return frame(icon, title, config, []string{
		percentStyle(rawPercent).Render(fmt.Sprintf("%.1f%%", rawPercent)) + " " + TierIcon(models.ClassifyUtilization(rawPercent)),
		UtilizationBar(rawPercent, barConfig),
		detailStyle.Render(truncate(details, innerWidth)),
	})
}

func percentStyle(rawPercent float64) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(styles.TierColor(models.ClassifyUtilization(rawPercent)))
}

// frame draws the title-in-border box around pre-rendered lines.
func frame(icon icons.Icon, title string, config MetricBlockConfig, lines []string) string {
	innerWidth := config.Width - 4
	borderStyle := lipgloss.NewStyle().Foreground(config.BorderColor)
	titleStyle := lipgloss.NewStyle().Foreground(config.TitleColor)

	titleStr := truncate(fmt.Sprintf("%s %s", icon.String(), title), innerWidth)
	topFill := max(0, config.Width-5-lipgloss.Width(titleStr))
	out := []string{
		borderStyle.Render("┌─ ") + titleStyle.Render(titleStr) + borderStyle.Render(" "+strings.Repeat("─", topFill)+"┐"),
	}

	for _, line := range lines {
		pad := max(0, innerWidth-lipgloss.Width(line))
		out = append(out, borderStyle.Render("│  ")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}

	out = append(out, borderStyle.Render("└"+strings.Repeat("─", config.Width-2)+"┘"))
	return strings.Join(out, "\n")
}

// truncate shortens a string to maxLen display cells with ellipsis if needed
func truncate(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:min(maxLen, len(r))])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+3 > maxLen {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
