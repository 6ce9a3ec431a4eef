// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"slices"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// nerdFontTerminals are terminals whose users usually run a patched font.
var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

// detectNerdFonts honours GPU_MEMORY_NERD_FONTS, then guesses from the terminal.
func detectNerdFonts() bool {
	if env := os.Getenv("GPU_MEMORY_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	if slices.ContainsFunc(nerdFontTerminals, func(t string) bool {
		return strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t))
	}) {
		return true
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts reports whether patched glyphs should be used. Detection
// runs once per process.
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Nerd Font codepoints with Unicode fallbacks
var (
	App    = Icon{"󰢮", "◈"} // nf-md-expansion_card
	GPU    = Icon{"󰾲", "▣"} // nf-md-chip
	Memory = Icon{"󰍛", "◆"} // nf-md-memory
	Model  = Icon{"󰧑", "◎"} // nf-md-brain
	Gauge  = Icon{"󰓅", "◐"} // nf-md-gauge

	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
)
