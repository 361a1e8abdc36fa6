package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/androidlens/internal/fields"
)

// Palette is the colour set of one theme
type Palette struct {
	Accent    lipgloss.Color // Orange - borders, titles, active nav
	Positive  lipgloss.Color // Green - current patch, not rooted, compliant
	Negative  lipgloss.Color // Red - rooted, stale patch, errors
	Muted     lipgloss.Color // Gray - labels, help
	Text      lipgloss.Color // Main content
	Highlight lipgloss.Color // Search match background
}

var (
	darkPalette = Palette{
		Accent:    lipgloss.Color("#FF6500"),
		Positive:  lipgloss.Color("#43BF6D"),
		Negative:  lipgloss.Color("#FF5555"),
		Muted:     lipgloss.Color("#8A8A8A"),
		Text:      lipgloss.Color("#FFFFFF"),
		Highlight: lipgloss.Color("#5C2E0E"),
	}
	lightPalette = Palette{
		Accent:    lipgloss.Color("#D95500"),
		Positive:  lipgloss.Color("#1E8E4A"),
		Negative:  lipgloss.Color("#C62828"),
		Muted:     lipgloss.Color("#6B6B6B"),
		Text:      lipgloss.Color("#1E1E1E"),
		Highlight: lipgloss.Color("#FFE0CC"),
	}
)

// PaletteFor returns the colours of theme t
func PaletteFor(t Theme) Palette {
	if t == ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
)

// Styles are the lipgloss styles derived from a palette
type Styles struct {
	Palette Palette

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Positive  lipgloss.Style
	Negative  lipgloss.Style
	Muted     lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
}

// NewStyles builds the style set for theme t
func NewStyles(t Theme) Styles {
	p := PaletteFor(t)
	return Styles{
		Palette: p,
		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted),
		Label: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(18),
		Value: lipgloss.NewStyle().
			Foreground(p.Text),
		Positive: lipgloss.NewStyle().
			Foreground(p.Positive).
			Bold(true),
		Negative: lipgloss.NewStyle().
			Foreground(p.Negative).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),
		Highlight: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Highlight),
		Selected: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
	}
}

// Tone returns the value style for a semantic tone
func (s Styles) Tone(t fields.Tone) lipgloss.Style {
	switch t {
	case fields.TonePositive:
		return s.Positive
	case fields.ToneNegative:
		return s.Negative
	default:
		return s.Value
	}
}

// Box returns a rounded bordered box of the given outer width
func (s Styles) Box(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Palette.Accent).
		Width(width-2). // Account for border characters
		Padding(0, 1)
}

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	MatchMarker   = "●"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// IsTerminal reports whether stdout is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
