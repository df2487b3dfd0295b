package errz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors for terminal display.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorPipe      = color.New(color.FgHiBlack)
	colorCaret     = color.New(color.FgHiRed)
)

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders err. Structured errors get a header with their code, an
// arrow with the source location and a caret under the offending token.
// Any other error is rendered as a plain "error: message" line.
func (f *Formatter) Format(err error) string {
	var se *StructuredError
	if !errors.As(err, &se) {
		return f.paint(colorErrorBold, "error") + ": " + err.Error() + "\n"
	}
	var b strings.Builder
	b.WriteString(f.paint(colorErrorBold, se.Kind.String()))
	if se.Code != "" {
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", se.Code)))
	}
	b.WriteString(": ")
	b.WriteString(se.Message)
	b.WriteString("\n")

	loc := se.Location
	if loc.IsZero() {
		return b.String()
	}
	width := len(fmt.Sprintf("%d", loc.Line))
	padding := strings.Repeat(" ", width)
	b.WriteString(padding)
	b.WriteString(f.paint(colorLocation, "--> "+loc.String()))
	b.WriteString("\n")
	if loc.Source == "" {
		return b.String()
	}
	b.WriteString(padding)
	b.WriteString(f.paint(colorPipe, " |"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%*d", width, loc.Line))
	b.WriteString(f.paint(colorPipe, " | "))
	b.WriteString(loc.Source)
	b.WriteString("\n")
	if loc.Column > 0 {
		b.WriteString(padding)
		b.WriteString(f.paint(colorPipe, " | "))
		b.WriteString(strings.Repeat(" ", loc.Column-1))
		b.WriteString(f.paint(colorCaret, "^"))
		b.WriteString("\n")
	}
	return b.String()
}
