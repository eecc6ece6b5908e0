package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// NoColor reports whether NO_COLOR is set (to any value, even empty).
func NoColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

var (
	ColorSuccess = lipgloss.Color("#2ECC71") // green
	ColorWarning = lipgloss.Color("#F39C12") // orange
	ColorError   = lipgloss.Color("#E74C3C") // red
	ColorMuted   = lipgloss.Color("#95A5A6") // gray
	ColorAccent  = lipgloss.Color("#9B59B6") // purple
)

var (
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Styled renders text with style unless colours are disabled.
func Styled(style lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return style.Render(text)
}
