// Package table renders rows of text as an aligned ASCII table.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// width is the number of visible characters in s.
func width(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

type Table struct {
	w         io.Writer
	header    []string
	headAlign []Alignment
	colAlign  []Alignment
	rows      [][]string
}

func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithHeaderAlignment(align []Alignment) *Table {
	t.headAlign = align
	return t
}

func (t *Table) WithColumnAlignment(align []Alignment) *Table {
	t.colAlign = align
	return t
}

func (t *Table) Append(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table. Colored cells are padded by their visible width.
func (t *Table) Render() {
	widths := t.widths()
	sep := separator(widths)
	fmt.Fprintln(t.w, sep)
	if len(t.header) > 0 {
		fmt.Fprintln(t.w, formatRow(t.header, widths, t.headAlign))
		fmt.Fprintln(t.w, sep)
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.w, formatRow(row, widths, t.colAlign))
	}
	fmt.Fprintln(t.w, sep)
}

func (t *Table) widths() []int {
	n := len(t.header)
	for _, row := range t.rows {
		n = max(n, len(row))
	}
	widths := make([]int, n)
	for i, cell := range t.header {
		widths[i] = width(cell)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], width(cell))
		}
	}
	return widths
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	return b.String()
}

func formatRow(row []string, widths []int, align []Alignment) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		a := AlignLeft
		if i < len(align) {
			a = align[i]
		}
		b.WriteString(" ")
		b.WriteString(pad(cell, w, a))
		b.WriteString(" |")
	}
	return b.String()
}

func pad(s string, w int, a Alignment) string {
	gap := w - width(s)
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
