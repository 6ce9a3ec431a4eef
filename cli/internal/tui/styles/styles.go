// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors, tier colors, panels, and text styles used across components

package styles

import (
	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Severe    = lipgloss.Color("#F97316") // Orange
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light

	// Colors - Extended palette
	Accent  = lipgloss.Color("#8B5CF6") // Lighter purple for highlights
	Surface = lipgloss.Color("#374151") // Elevated surface background
	Info    = lipgloss.Color("#3B82F6") // Blue - informational

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)

// componentColors maps breakdown color names to terminal colors.
var componentColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("#3B82F6"),
	"purple": lipgloss.Color("#8B5CF6"),
	"green":  lipgloss.Color("#10B981"),
	"red":    lipgloss.Color("#EF4444"),
	"orange": lipgloss.Color("#F97316"),
	"yellow": lipgloss.Color("#EAB308"),
}

// ComponentColor returns the terminal color for a breakdown component color name.
func ComponentColor(name string) lipgloss.Color {
	if c, ok := componentColors[name]; ok {
		return c
	}
	return Muted
}

// TierColor returns the color used for a utilization tier.
func TierColor(tier models.UtilizationTier) lipgloss.Color {
	switch tier {
	case models.TierWarning:
		return Warning
	case models.TierSevere:
		return Severe
	case models.TierCritical:
		return Danger
	default:
		return Secondary
	}
}
