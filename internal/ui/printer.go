package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/androidlens/internal/view"
)

// Printer writes styled one-shot output for CLI commands
type Printer struct {
	out    io.Writer
	width  int
	styles Styles
}

// NewPrinter creates a Printer for theme t. If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer, t Theme) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(),
		styles: NewStyles(t),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Styles returns the printer's style set
func (p *Printer) Styles() Styles {
	return p.styles
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params []Param) {
	h := NewHeader(title, command, params, p.styles)
	h.Width = p.width
	p.Println(h.Render())
}

// PrintModel prints every dashboard section
func (p *Printer) PrintModel(m view.Model) {
	p.Println(RenderModel(m, p.styles, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details []Param) {
	r := NewSuccessResult(title, details, p.styles)
	r.Width = p.width
	p.Println(r.Render())
}

// PrintError prints a failure result box
func (p *Printer) PrintError(title string, err error) {
	r := NewFailureResult(title, err, p.styles)
	r.Width = p.width
	p.Println(r.Render())
}
