// Package ui - Terminal user interface
// Status lines and tables for the console, plus line-oriented prompts.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI escapes for status lines
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"
	Red   = "\033[31m"
	Green = "\033[32m"
	Blue  = "\033[34m"
	Cyan  = "\033[36m"
)

// Verbosity levels
const (
	Quiet   = 0
	Normal  = 1
	Verbose = 2
)

// Writer prints console output, optionally coloured
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a writer at Normal verbosity; nil out means stdout
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out, noColor: noColor, verbosity: Normal}
}

// SetVerbosity sets Quiet, Normal or Verbose
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

func (w *Writer) paint(code, text string) string {
	if w.noColor {
		return text
	}
	return code + text + Reset
}

// Print writes formatted text without a newline
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes formatted text and a newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// status prints a marked line when the writer is at least minLevel
func (w *Writer) status(minLevel int, code, mark, format string, args []interface{}) {
	if w.verbosity < minLevel {
		return
	}
	fmt.Fprintf(w.out, "%s%s\n", w.paint(code, mark), fmt.Sprintf(format, args...))
}

// Header prints a title between blank lines
func (w *Writer) Header(title string) {
	fmt.Fprintf(w.out, "\n%s\n\n", w.paint(Bold+Cyan, "━━━ "+title+" ━━━"))
}

// Success prints a "✓" line
func (w *Writer) Success(format string, args ...interface{}) {
	w.status(Quiet, Green, "✓ ", format, args)
}

// Error prints a "✗" line
func (w *Writer) Error(format string, args ...interface{}) {
	w.status(Quiet, Red, "✗ ", format, args)
}

// Info prints an "ℹ" line, hidden when Quiet
func (w *Writer) Info(format string, args ...interface{}) {
	w.status(Normal, Blue, "ℹ ", format, args)
}

// Debug prints an indented dim line, shown only when Verbose
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < Verbose {
		return
	}
	fmt.Fprintln(w.out, w.paint(Dim, "  "+fmt.Sprintf(format, args...)))
}

// Table collects rows and prints them with aligned columns
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers
func (w *Writer) NewTable(headers ...string) *Table {
	return &Table{w: w, headers: headers}
}

// AddRow adds a row. Missing cells are blank; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for _, row := range append([][]string{t.headers}, t.rows...) {
		for i, cell := range row {
			if n := len(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

func joinPadded(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
	}
	return strings.TrimRight(strings.Join(padded, " │ "), " ")
}

// Render prints the header, a rule and every row
func (t *Table) Render() {
	widths := t.widths()

	fmt.Fprintln(t.w.out, t.w.paint(Bold, joinPadded(t.headers, widths)))

	rule := make([]string, len(widths))
	for i, n := range widths {
		rule[i] = strings.Repeat("─", n)
	}
	fmt.Fprintln(t.w.out, strings.Join(rule, "─┼─"))

	for _, row := range t.rows {
		fmt.Fprintln(t.w.out, joinPadded(row, widths))
	}
}
