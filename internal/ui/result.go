package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
)

// Result is the box printed after a one-shot command finishes
type Result struct {
	Type    ResultType
	Title   string  // e.g., "Device data exported successfully"
	Details []Param // Shown in order
	Error   error   // Failure results only
	Width   int
	Styles  Styles
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details []Param, styles Styles) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
		Styles:  styles,
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, styles Styles) *Result {
	return &Result{
		Type:   ResultFailure,
		Title:  title,
		Error:  err,
		Width:  GetTerminalWidth(),
		Styles: styles,
	}
}

// Render returns the styled result box
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	marker, label, color := SuccessMarker, "SUCCESS", r.Styles.Palette.Positive
	if r.Type == ResultFailure {
		marker, label, color = FailureMarker, "FAILED", r.Styles.Palette.Negative
	}

	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	lines := []string{"", titleStyle.Render(fmt.Sprintf(" %s  %s  ─  %s", marker, label, r.Title)), ""}

	if r.Error != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(color).Render(" Error: "+r.Error.Error()), "")
	}

	for _, d := range r.Details {
		lines = append(lines, " "+r.Styles.Label.Render(d.Key+":")+" "+r.Styles.Value.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
