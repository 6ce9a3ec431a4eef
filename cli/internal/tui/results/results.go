// ABOUTME: Results component showing the derived state of a memory calculation
// ABOUTME: Renders requirement, capacity, utilization tier, and the per-component breakdown

package results

import (
	"fmt"
	"math"
	"strings"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/icons"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/styles"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/widgets"
	"github.com/charmbracelet/lipgloss"
)

const (
	blockWidth     = 24
	breakdownBarW  = 16
	labelColumnW   = 18
	sideBySideMinW = 3*blockWidth + 2
)

// Results displays one analysis response
type Results struct {
	resp      *models.AnalysisResponse
	modelName string
	width     int
	height    int
}

// New creates a results view
func New(resp *models.AnalysisResponse, modelName string, width, height int) *Results {
	return &Results{resp: resp, modelName: modelName, width: width, height: height}
}

// Update replaces the displayed response
func (r *Results) Update(resp *models.AnalysisResponse) {
	r.resp = resp
}

// SetSize updates the view dimensions
func (r *Results) SetSize(width, height int) {
	r.width = width
	r.height = height
}

// State returns the displayed derived state, or nil before any result.
func (r *Results) State() *models.DerivedState {
	if r.resp == nil {
		return nil
	}
	return &r.resp.State
}

// View renders the results
func (r *Results) View() string {
	if r.resp == nil {
		return lipgloss.NewStyle().Width(r.width).Render("Calculating...")
	}
	s := r.resp.State

	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Memory Requirements", icons.Model.String())))
	sb.WriteString("\n")
	subtitle := string(s.CalculationType)
	if r.modelName != "" {
		subtitle = r.modelName + " · " + subtitle
	}
	sb.WriteString(styles.Subtitle.Render(subtitle))
	sb.WriteString("\n")

	sb.WriteString(r.renderBlocks(s))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Status: %s %s %s\n", widgets.TierBadge(s.Tier), widgets.TierText(s.Tier), widgets.SeverityMeter(s.Tier)))
	if s.UnrecognizedUnits {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Warning).
			Render(icons.Warning.String() + " Some figures had no readable size or unit and were counted as GB"))
		sb.WriteString("\n")
	}
	sb.WriteString(renderHeadroom(s))
	sb.WriteString("\n\n")

	sb.WriteString(styles.ValueStyle.Render("Breakdown"))
	sb.WriteString("\n")
	sb.WriteString(widgets.BreakdownBar(s.Components, breakdownBarW+labelColumnW))
	sb.WriteString("\n")
	for _, c := range s.Components {
		sb.WriteString(renderComponent(c))
		sb.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(r.width).
		Height(r.height).
		Render(sb.String())
}

func (r *Results) renderBlocks(s models.DerivedState) string {
	config := widgets.DefaultMetricBlockConfig()
	config.Width = blockWidth

	required := widgets.MetricBlock(icons.Memory, "Required", models.FormatGB(s.TotalRequiredGB), requiredSubtitle(s), config)
	capacity := widgets.MetricBlock(icons.GPU, "Capacity", models.FormatGB(s.TotalCapacityGB),
		fmt.Sprintf("%d x %s", s.GPUCount, s.GPU), config)
	utilization := widgets.MetricBlockWithBar(icons.Gauge, "Utilization", s.RawUtilizationPercent,
		fmt.Sprintf("%.0f%% of capacity used", s.ClampedUtilizationPercent), config)

	if r.width >= sideBySideMinW {
		return lipgloss.JoinHorizontal(lipgloss.Top, required, " ", capacity, " ", utilization)
	}
	return lipgloss.JoinVertical(lipgloss.Left, required, capacity, utilization)
}

func requiredSubtitle(s models.DerivedState) string {
	if s.Estimated {
		return "estimated"
	}
	return "per calculation"
}

func renderHeadroom(s models.DerivedState) string {
	if s.TotalCapacityGB == 0 {
		return styles.StatusWarning.Render("No GPU capacity selected")
	}
	if s.HeadroomGB < 0 {
		return styles.StatusCritical.Render(fmt.Sprintf("Short by %s", models.FormatGB(math.Abs(s.HeadroomGB))))
	}
	return styles.StatusOK.Render(fmt.Sprintf("Headroom %s", models.FormatGB(s.HeadroomGB)))
}

func renderComponent(c models.BreakdownComponent) string {
	swatch := lipgloss.NewStyle().Foreground(styles.ComponentColor(c.Color)).Render("■")
	label := fmt.Sprintf("%-*s", labelColumnW-2, c.Label)
	share := widgets.BreakdownBar([]models.BreakdownComponent{c}, breakdownBarW)
	return fmt.Sprintf("%s %s %10s %5.1f%% %s", swatch, label, models.FormatGB(c.GB), c.ShareOfTotal, share)
}
