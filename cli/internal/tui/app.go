// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/backend/services"
	"github.com/amazingchow/LLMToolset/cli/internal/client"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/debuglog"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/history"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/icons"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/results"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/styles"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenWizard
	ScreenResults
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
	requestTimeout   = 90 * time.Second
)

// catalogLoadedMsg is sent when the selection catalog is loaded
type catalogLoadedMsg struct {
	catalog *models.CatalogResponse
	err     error
}

// calculatedMsg is sent when a calculation round trip completes
type calculatedMsg struct {
	resp *models.AnalysisResponse
	err  error
}

// App is the root model for the TUI
type App struct {
	client     *client.Client
	screen     Screen
	width      int
	height     int
	err        error
	catalog    *models.CatalogResponse
	lastUpdate time.Time
	busy       bool
	history    *history.Store
	recent     []string

	// Last submitted calculation
	calcType models.CalculationType
	input    *models.MemoryCalculationInput
	resp     *models.AnalysisResponse
	// GPU count awaiting re-analysis; 0 when none is in flight
	pendingCount int

	// Child models
	spinner      spinner.Model
	wizardScreen *wizard.Wizard
	resultsView  *results.Results
}

// New creates a new TUI application
func New(apiClient *client.Client) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &App{
		client:   apiClient,
		screen:   ScreenLoading,
		spinner:  s,
		calcType: models.CalculationInference,
		busy:     true,
		history:  history.New(""),
	}
}

// SetHistory restores the last calculation from store and records new ones to it
func (a *App) SetHistory(store *history.Store) {
	a.history = store
	e := store.Load()
	a.recent = e.RecentModels
	if e.LastInput != nil {
		a.input = e.LastInput
	}
	if e.CalculationType != "" {
		a.calcType = e.CalculationType
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadCatalog())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.resultsView != nil {
			a.resultsView.SetSize(a.resultsWidth(), a.contentHeight())
		}
		if a.wizardScreen != nil {
			a.wizardScreen.SetWidth(a.frameWidth() - 1)
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.screen {
		case ScreenLoading:
			return a.updateLoading(msg)
		case ScreenWizard:
			return a.updateWizard(msg)
		case ScreenResults:
			return a.updateResults(msg)
		}

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case catalogLoadedMsg:
		a.busy = false
		if msg.err != nil {
			debuglog.Error("load catalog", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.catalog = msg.catalog
		if a.catalog != nil && len(a.recent) > 0 {
			a.catalog.Models = history.MergeModels(a.recent, a.catalog.Models)
		}
		a.lastUpdate = time.Now()
		return a, a.runWizard()

	case wizard.WizardCompleteMsg:
		a.wizardScreen = nil
		a.calcType = msg.CalculationType
		a.input = msg.Input
		a.resp = nil
		a.resultsView = nil
		a.screen = ScreenResults
		return a, a.calculate()

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		if a.resp == nil {
			return a, tea.Quit
		}
		a.screen = ScreenResults
		return a, nil

	case calculatedMsg:
		a.busy = false
		pending := a.pendingCount
		a.pendingCount = 0
		if msg.err != nil {
			debuglog.Error("calculate", msg.err)
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		if pending > 0 && a.input != nil {
			a.input.GPUCount = pending
		}
		if msg.resp.Calculation == nil && a.resp != nil {
			msg.resp.Calculation = a.resp.Calculation
		}
		a.resp = msg.resp
		a.lastUpdate = time.Now()
		debuglog.Log("calculation complete", "type", a.calcType, "tier", a.resp.State.Tier,
			"raw_utilization", a.resp.State.RawUtilizationPercent)
		if err := a.history.Record(a.calcType, a.input); err != nil {
			debuglog.Error("save history", err)
		}
		if a.resultsView == nil {
			a.resultsView = results.New(a.resp, a.modelName(), a.resultsWidth(), a.contentHeight())
		} else {
			a.resultsView.Update(a.resp)
		}
		return a, nil

	default:
		// huh forms rely on their own internal messages
		if a.screen == ScreenWizard && a.wizardScreen != nil {
			return a.updateWizard(msg)
		}
	}

	return a, nil
}

func (a *App) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.busy {
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	}
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		a.err = nil
		a.busy = true
		return a, tea.Batch(a.spinner.Tick, a.loadCatalog())
	case "w":
		// Continue with the built-in GPU list
		a.err = nil
		return a, a.runWizard()
	}
	return a, nil
}

func (a *App) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "w":
		return a, a.runWizard()
	case "r":
		if a.input != nil {
			return a, a.calculate()
		}
	case "+", "=":
		return a, a.adjustGPUCount(1)
	case "-":
		return a, a.adjustGPUCount(-1)
	}
	return a, nil
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizardScreen == nil {
		return a, nil
	}
	model, cmd := a.wizardScreen.Update(msg)
	a.wizardScreen = model.(*wizard.Wizard)
	return a, cmd
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenWizard:
		content = a.viewWizard()
	case ScreenResults:
		content = a.viewResults()
	default:
		content = a.viewLoading()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLoading() string {
	if a.err != nil {
		return a.renderError() + "\n\n" +
			styles.Help.Render("Press r to retry or w to continue with the built-in GPU list")
	}
	return fmt.Sprintf("\n %s Loading models and GPUs from %s\n", a.spinner.View(), a.backendURL())
}

func (a *App) viewWizard() string {
	if a.wizardScreen != nil {
		return a.wizardScreen.View()
	}
	return ""
}

func (a *App) viewResults() string {
	var body string
	switch {
	case a.resultsView != nil:
		body = a.resultsView.View()
	case a.busy:
		body = fmt.Sprintf("%s Calculating...", a.spinner.View())
	default:
		body = "No results yet"
	}

	var sb strings.Builder
	sb.WriteString(styles.ActivePanel.Width(a.frameWidth() - 2).Render(body))
	if a.err != nil {
		sb.WriteString("\n")
		sb.WriteString(a.renderError())
	} else if a.busy && a.resultsView != nil {
		sb.WriteString("\n ")
		sb.WriteString(a.spinner.View() + " Recalculating...")
	}
	return sb.String()
}

func (a *App) renderError() string {
	return styles.StatusCritical.Render(icons.Critical.String() + " Error: " + a.err.Error())
}

// frameWidth is one column short of the terminal to avoid wrapping
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// resultsWidth calculates the content width inside the results panel
func (a *App) resultsWidth() int {
	return a.frameWidth() - 2 - panelPadding
}

// contentHeight calculates the height available for results content
func (a *App) contentHeight() int {
	// Header, footer, and the panel's border and padding
	return max(a.height-8, 0)
}

func (a *App) modelName() string {
	if a.input == nil {
		return ""
	}
	return a.input.ModelName
}

func (a *App) backendURL() string {
	if a.client == nil {
		return "backend"
	}
	return a.client.BaseURL()
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("GPU Memory Analyzer"))

	rightText := ""
	if a.screen == ScreenResults && a.modelName() != "" {
		rightText = " " + contextStyle.Render(a.modelName()) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLoading:
		if a.err != nil {
			shortcuts = []string{"r Retry", "w Wizard", "q Quit"}
		} else {
			shortcuts = []string{"q Quit"}
		}
	case ScreenWizard:
		shortcuts = []string{"↑↓ Select", "Enter Confirm", "Esc Cancel"}
	case ScreenResults:
		shortcuts = []string{"w New", "r Recalculate", "+/- GPUs", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		key, label, _ := strings.Cut(s, " ")
		styledShortcuts = append(styledShortcuts, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenResults {
		rightText = " " + statusStyle.Render("Updated "+humanize.Time(a.lastUpdate)) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╰─ and ─╯
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// loadCatalog creates a command to fetch the selection catalog
func (a *App) loadCatalog() tea.Cmd {
	c := a.client
	return func() tea.Msg {
		if c == nil {
			return catalogLoadedMsg{err: fmt.Errorf("no backend configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		catalog, err := c.Catalog(ctx)
		return catalogLoadedMsg{catalog: catalog, err: err}
	}
}

// runWizard transitions to the wizard screen
func (a *App) runWizard() tea.Cmd {
	a.wizardScreen = wizard.New(a.catalog, a.input, a.calcType)
	a.wizardScreen.SetWidth(a.frameWidth() - 1)
	a.screen = ScreenWizard
	return a.wizardScreen.Init()
}

// calculate submits the last wizard input to the backend
func (a *App) calculate() tea.Cmd {
	if a.client == nil || a.input == nil {
		return nil
	}
	a.busy = true
	return tea.Batch(a.spinner.Tick, a.calculateRequest())
}

func (a *App) calculateRequest() tea.Cmd {
	c, calcType, input := a.client, a.calcType, *a.input
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := c.Calculate(ctx, calcType, &input)
		return calculatedMsg{resp: resp, err: err}
	}
}

// adjustGPUCount re-derives the current result for a different GPU count
// without recalculating upstream. The count is committed once the analysis succeeds.
func (a *App) adjustGPUCount(delta int) tea.Cmd {
	if a.client == nil || a.input == nil || a.resp == nil || a.resp.Calculation == nil {
		return nil
	}
	count := services.ClampGPUCount(a.input.GPUCount + delta)
	if count == a.input.GPUCount {
		return nil
	}
	a.pendingCount = count
	a.busy = true
	return tea.Batch(a.spinner.Tick, a.analyzeRequest(count))
}

func (a *App) analyzeRequest(count int) tea.Cmd {
	c := a.client
	result := a.resp.Calculation.MemoryRequirements
	sel := a.input.GPUSelection
	sel.GPUCount = count
	in := &models.AnalysisInput{
		CalculationType: a.calcType,
		Result:          &result,
		GPUSelection:    sel,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := c.Analyze(ctx, in)
		return calculatedMsg{resp: resp, err: err}
	}
}

// Run starts the TUI
func Run(apiClient *client.Client) error {
	if err := debuglog.Init(debuglog.DefaultDir()); err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer debuglog.Close()

	app := New(apiClient)
	app.SetHistory(history.New(history.DefaultDir()))

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
