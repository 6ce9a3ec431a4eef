// ABOUTME: Memory calculation wizard as a bubbletea model
// ABOUTME: Uses huh forms to collect model, precision and GPU settings step by step

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/amazingchow/LLMToolset/backend/models"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/icons"
	"github.com/amazingchow/LLMToolset/cli/internal/tui/styles"
)

// WizardCompleteMsg is sent when the wizard finishes successfully
type WizardCompleteMsg struct {
	CalculationType models.CalculationType
	Input           *models.MemoryCalculationInput
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard manages the calculation wizard flow as a bubbletea model
type Wizard struct {
	catalog *models.CatalogResponse
	input   *models.MemoryCalculationInput
	form    *huh.Form
	step    int
	width   int

	// Form field values (strings for huh)
	calcType     string
	modelName    string
	precision    string
	batchSize    string
	seqLength    string
	optimizer    string
	trainable    string
	gpu          string
	gpuCount     string
	customMemory string
}

// Step names for progress indicator
var stepNames = []string{"Model", "Settings", "Hardware"}

var sequenceOptions = []huh.Option[string]{
	huh.NewOption("1K", "1024"),
	huh.NewOption("2K", "2048"),
	huh.NewOption("4K", "4096"),
	huh.NewOption("8K", "8192"),
	huh.NewOption("16K", "16384"),
	huh.NewOption("32K", "32768"),
	huh.NewOption("64K", "65536"),
	huh.NewOption("128K", "131072"),
}

// createTheme returns a huh theme matching the dashboard colors
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	cyan := lipgloss.Color("#06B6D4")
	cyanLight := lipgloss.Color("#22D3EE")
	blue := lipgloss.Color("#3B82F6")
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")
	slate := lipgloss.Color("#334155")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(cyan)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(cyanLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)

	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(cyan).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true)
	t.Focused.NextIndicator = lipgloss.NewStyle().
		Foreground(cyan).
		MarginLeft(1).
		SetString("→")
	t.Focused.PrevIndicator = lipgloss.NewStyle().
		Foreground(cyan).
		MarginRight(1).
		SetString("←")

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(cyan)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)
	t.Blurred.SelectSelector = lipgloss.NewStyle().
		Foreground(gray).
		SetString("  ")
	t.Blurred.Option = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates a wizard seeded from the catalog and, when set, the previous input.
func New(catalog *models.CatalogResponse, previous *models.MemoryCalculationInput, calcType models.CalculationType) *Wizard {
	input := &models.MemoryCalculationInput{}
	if previous != nil {
		*input = *previous
	}
	if input.GPU == "" {
		input.GPU = defaultGPUID()
	}
	if input.GPUCount <= 0 {
		input.GPUCount = 1
	}
	if input.ModelName == "" && catalog != nil && len(catalog.Models) > 0 {
		input.ModelName = catalog.Models[0]
	}
	if calcType == "" {
		calcType = models.CalculationInference
	}
	input.ApplyDefaults(models.CalculationTraining)

	w := &Wizard{
		catalog:   catalog,
		input:     input,
		step:      1,
		calcType:  string(calcType),
		modelName: input.ModelName,
		precision: input.Precision,
		batchSize: strconv.Itoa(input.BatchSize),
		seqLength: strconv.Itoa(input.SequenceLength),
		optimizer: input.Optimizer,
		trainable: strconv.FormatFloat(input.TrainableParameters, 'f', -1, 64),
		gpu:       input.GPU,
		gpuCount:  strconv.Itoa(input.GPUCount),
	}
	if input.CustomMemoryGB > 0 {
		w.customMemory = strconv.FormatFloat(input.CustomMemoryGB, 'f', -1, 64)
	}

	w.form = w.createStep1Form()
	return w
}

func defaultGPUID() string {
	if g, ok := models.GPUByName(models.DefaultGPUName); ok {
		return g.ID
	}
	return ""
}

func (w *Wizard) modelField() huh.Field {
	if w.catalog != nil && len(w.catalog.Models) > 0 {
		return huh.NewSelect[string]().
			Title("Model").
			Description("Use ↑/↓ or / to filter, Enter to confirm").
			Options(huh.NewOptions(w.catalog.Models...)...).
			Height(10).
			Value(&w.modelName)
	}
	return huh.NewInput().
		Title("Model").
		Description("Hugging Face model id").
		Placeholder("e.g., Qwen/Qwen3-8B").
		Value(&w.modelName).
		Validate(validateModelName)
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Calculation").
				Options(
					huh.NewOption("Inference", string(models.CalculationInference)),
					huh.NewOption("Training", string(models.CalculationTraining)),
				).
				Value(&w.calcType),
			w.modelField(),
		).Title("Step 1: Model").
			Description("Choose what to size and which model to size it for"),
	).WithTheme(createTheme())
}

func (w *Wizard) precisionOptions() []string {
	if w.catalog != nil && w.catalog.Options != nil && len(w.catalog.Options.DataTypes) > 0 {
		return w.catalog.Options.DataTypes
	}
	return models.DataTypes
}

func (w *Wizard) optimizerOptions() []string {
	if w.catalog != nil && w.catalog.Options != nil && len(w.catalog.Options.Optimizers) > 0 {
		return w.catalog.Options.Optimizers
	}
	return models.Optimizers
}

// sizedOptions labels each name with its bytes per parameter when known.
// The option value stays the bare name sent to the calculation service.
func sizedOptions(names []string, sizes map[string]float64) []huh.Option[string] {
	opts := make([]huh.Option[string], len(names))
	for i, name := range names {
		label := name
		if size, ok := sizes[name]; ok {
			label = fmt.Sprintf("%s · %s B/param", name, strconv.FormatFloat(size, 'f', -1, 64))
		}
		opts[i] = huh.NewOption(label, name)
	}
	return opts
}

func (w *Wizard) createStep2Form() *huh.Form {
	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Precision").
			Options(sizedOptions(w.precisionOptions(), models.DataTypeSizes)...).
			Value(&w.precision),
		huh.NewInput().
			Title("Batch size").
			Description(fmt.Sprintf("Between %d and %d", models.MinBatchSize, models.MaxBatchSize)).
			CharLimit(2).
			Value(&w.batchSize).
			Validate(validateBatchSize),
		huh.NewSelect[string]().
			Title("Sequence length").
			Options(sequenceOptions...).
			Value(&w.seqLength),
	}
	if w.isTraining() {
		fields = append(fields,
			huh.NewSelect[string]().
				Title("Optimizer").
				Options(sizedOptions(w.optimizerOptions(), models.OptimizerSizes)...).
				Value(&w.optimizer),
			huh.NewInput().
				Title("Trainable parameters (%)").
				Description("100 for full fine-tuning, lower for adapters").
				CharLimit(6).
				Value(&w.trainable).
				Validate(validateTrainable),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title("Step 2: Settings").
			Description("Configure precision and workload shape"),
	).WithTheme(createTheme())
}

func (w *Wizard) gpuOptions() []huh.Option[string] {
	gpus := models.GPUCatalog()
	if w.catalog != nil && len(w.catalog.GPUs) > 0 {
		gpus = w.catalog.GPUs
	}
	opts := make([]huh.Option[string], len(gpus))
	for i, g := range gpus {
		opts[i] = huh.NewOption(fmt.Sprintf("%s · %s", g.Name, g.Category), g.ID)
	}
	return opts
}

func (w *Wizard) createStep3Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("GPU").
				Description("Use ↑/↓ or / to filter, Enter to confirm").
				Options(w.gpuOptions()...).
				Height(10).
				Value(&w.gpu),
			huh.NewInput().
				Title("GPU count").
				Placeholder("e.g., 4").
				CharLimit(6).
				Value(&w.gpuCount).
				Validate(validatePositiveInt),
		).Title("Step 3: Hardware").
			Description("Pick the GPUs the model must fit on"),
		huh.NewGroup(
			huh.NewInput().
				Title("Memory per GPU (GB)").
				Placeholder("e.g., 48").
				CharLimit(6).
				Value(&w.customMemory).
				Validate(validatePositiveFloat),
		).Title("Custom GPU").
			Description("Enter the memory of one custom GPU").
			WithHideFunc(func() bool { return w.gpu != models.CustomGPUID }),
	).WithTheme(createTheme())
}

func (w *Wizard) isTraining() bool {
	return w.calcType == string(models.CalculationTraining)
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.applyStep1()
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.applyStep2()
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		w.applyStep3()
		calcType := w.CalculationType()
		input := w.Input()
		return w, func() tea.Msg {
			return WizardCompleteMsg{CalculationType: calcType, Input: input}
		}
	}

	return w, nil
}

func (w *Wizard) applyStep1() {
	w.input.ModelName = strings.TrimSpace(w.modelName)
}

func (w *Wizard) applyStep2() {
	w.input.Precision = w.precision
	w.input.KVCachePrecision = w.precision
	w.input.BatchSize, _ = strconv.Atoi(w.batchSize)
	w.input.SequenceLength, _ = strconv.Atoi(w.seqLength)
	if w.isTraining() {
		w.input.Optimizer = w.optimizer
		w.input.TrainableParameters, _ = strconv.ParseFloat(w.trainable, 64)
	}
}

func (w *Wizard) applyStep3() {
	w.input.GPU = w.gpu
	count, _ := strconv.Atoi(w.gpuCount)
	w.input.GPUCount = count
	w.input.CustomMemoryGB = 0
	if w.gpu == models.CustomGPUID {
		w.input.CustomMemoryGB, _ = strconv.ParseFloat(w.customMemory, 64)
	}
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())
	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	title := "Inference"
	if w.isTraining() {
		title = "Training"
	}
	topFillWidth := max(0, width-5-lipgloss.Width(title))
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"
	progressLinePadded := "│  " + filledBar + emptyBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// Input returns the collected calculation input
func (w *Wizard) Input() *models.MemoryCalculationInput {
	in := *w.input
	if !w.isTraining() {
		in.Optimizer = ""
		in.TrainableParameters = 0
	}
	return &in
}

// CalculationType returns the selected calculation type
func (w *Wizard) CalculationType() models.CalculationType {
	if w.isTraining() {
		return models.CalculationTraining
	}
	return models.CalculationInference
}

// Step returns the current 1-based step
func (w *Wizard) Step() int {
	return w.step
}

func validateModelName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateBatchSize(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil || v < models.MinBatchSize || v > models.MaxBatchSize {
		return fmt.Errorf("must be between %d and %d", models.MinBatchSize, models.MaxBatchSize)
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateTrainable(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v > 100 {
		return fmt.Errorf("must be greater than 0 and at most 100")
	}
	return nil
}
