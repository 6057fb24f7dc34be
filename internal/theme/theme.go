package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/costa-amore/JiraUtil-sub000/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
)

// HeaderStyle is used for the section header printed before each
// command's result block.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// SuccessBannerStyle renders the closing banner of a passing run.
var SuccessBannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// FailureBannerStyle renders the closing banner of a failing run.
var FailureBannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// MutedStyle is used for context lines and hints.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorStyle highlights error entries.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// ResultStyle returns a color-coded style for an assertion verdict.
func ResultStyle(result model.Result) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch result {
	case model.ResultPass:
		return base.Foreground(ColorGreen)
	case model.ResultFail:
		return base.Foreground(ColorRed)
	case model.ResultSkip:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}

// DisableColor turns off all styling, for example when output is not a
// terminal or the user asked for plain text.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
