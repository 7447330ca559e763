// Package term prints human-facing progress lines to stderr and answers
// questions about the terminal.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Printer writes styled status lines.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter writes to w, coloring only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	f, ok := w.(*os.File)
	return &Printer{w: w, color: ok && IsTerminal(f)}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// Step announces the start of a unit of work.
func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(stepStyle, "==>"), fmt.Sprintf(format, args...))
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Dim prints a de-emphasized line, such as a command about to run.
func (p *Printer) Dim(format string, args ...any) {
	fmt.Fprintln(p.w, p.render(dimStyle, fmt.Sprintf(format, args...)))
}

// Error prints a failure line.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(errorStyle, "error:"), fmt.Sprintf(format, args...))
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
