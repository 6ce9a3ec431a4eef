// ABOUTME: Status badge widgets for quick visual tier indication
// ABOUTME: Provides colored inline badges, tier badges, and status text

package widgets

import (
	"fmt"
	"strings"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/icons"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// Badge foreground colors per tier; backgrounds come from styles.TierColor.
var (
	BadgeLightFg = lipgloss.Color("#FFFFFF")
	BadgeDarkFg  = lipgloss.Color("#000000")
)

// Badge renders text on a colored background.
func Badge(text string, bg, fg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// TierBadge renders the short tier name, e.g. "WARNING".
func TierBadge(tier models.UtilizationTier) string {
	fg := BadgeLightFg
	if tier == models.TierWarning {
		fg = BadgeDarkFg
	}
	return Badge(tierShortName(tier), styles.TierColor(tier), fg)
}

func tierShortName(tier models.UtilizationTier) string {
	switch tier {
	case models.TierNormal:
		return "OK"
	case models.TierWarning:
		return "HIGH"
	case models.TierSevere:
		return "NEAR CAP"
	case models.TierCritical:
		return "OVER"
	default:
		return "--"
	}
}

// TierIcon returns the colored status icon for a tier.
func TierIcon(tier models.UtilizationTier) string {
	icon := icons.CheckOK
	switch tier {
	case models.TierWarning, models.TierSevere:
		icon = icons.Warning
	case models.TierCritical:
		icon = icons.Critical
	}
	return lipgloss.NewStyle().Foreground(styles.TierColor(tier)).Render(icon.String())
}

// TierText returns the tier's human label with its icon, e.g. "⚠ High usage".
func TierText(tier models.UtilizationTier) string {
	label := lipgloss.NewStyle().Foreground(styles.TierColor(tier)).Render(tier.Label())
	return fmt.Sprintf("%s %s", TierIcon(tier), label)
}

// SeverityMeter shows how far up the tier scale a result sits, e.g. "●●○○".
func SeverityMeter(tier models.UtilizationTier) string {
	top := models.TierCritical.Level()
	level := min(max(tier.Level(), 0), top)
	filled := strings.Repeat("●", level)
	empty := strings.Repeat("○", top-level)
	return lipgloss.NewStyle().Foreground(styles.TierColor(tier)).Render(filled) +
		lipgloss.NewStyle().Foreground(styles.Muted).Render(empty)
}

// EstimateBadge marks figures the calculation service flagged as estimates.
func EstimateBadge(estimated bool) string {
	if !estimated {
		return ""
	}
	return Badge("ESTIMATE", styles.Info, BadgeLightFg)
}
