package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/androidlens/internal/view"
)

// Param is one labelled line under a header
type Param struct {
	Key   string
	Value string
}

// Header is the banner printed above one-shot command output
type Header struct {
	Title   string  // e.g., "ANDROID LENS"
	Command string  // e.g., "androidlens show"
	Params  []Param // e.g., Source: http, Updated: ...
	Width   int
	Styles  Styles
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params []Param, styles Styles) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
		Styles:  styles,
	}
}

// Render returns the styled header
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{
		h.Styles.Title.Render(strings.ToUpper(h.Title)),
		h.Styles.Subtitle.Render(h.Command),
	}

	if len(h.Params) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(h.Styles.Palette.Accent).
			Render(strings.Repeat("─", dividerWidth)))

		for _, p := range h.Params {
			lines = append(lines, h.Styles.Label.Render(p.Key+":")+" "+h.Styles.Value.Render(p.Value))
		}
	}

	return h.Styles.Box(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}

// RenderSection renders one dashboard section as a titled card. Highlighted
// items are marked and drawn with the highlight style.
func RenderSection(sec view.Section, styles Styles, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{styles.Title.Render(sec.Title), ""}
	for _, it := range sec.Items {
		marker := " "
		value := styles.Tone(it.Tone).Render(it.Text)
		if it.Highlighted {
			marker = styles.Selected.Render(MatchMarker)
			value = styles.Highlight.Render(it.Text)
		}
		lines = append(lines, marker+" "+styles.Label.Render(it.Label)+" "+value)
	}

	return styles.Box(width).Render(strings.Join(lines, "\n"))
}

// RenderModel renders every section of m stacked vertically
func RenderModel(m view.Model, styles Styles, width int) string {
	cards := make([]string, 0, len(m.Sections))
	for _, sec := range m.Sections {
		cards = append(cards, RenderSection(sec, styles, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
