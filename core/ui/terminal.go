// Package ui - Terminal user interface
// Styled CLI output: headers, status lines, tables and cost boxes.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
	styles    styles
}

type styles struct {
	header  lipgloss.Style
	bold    lipgloss.Style
	dim     lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
	money   lipgloss.Style
	box     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		bold:    r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(true),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		info:    r.NewStyle().Foreground(lipgloss.Color("4")),
		money:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		box:     r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
	}
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		noColor:   noColor,
		verbosity: 1,
		styles:    newStyles(lipgloss.NewRenderer(out)),
	}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

// render applies style unless color is disabled
func (w *Writer) render(style lipgloss.Style, text string) string {
	if w.noColor {
		return text
	}
	return style.Render(text)
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.render(w.styles.header, "━━━ "+title+" ━━━"))
	w.Println("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.render(w.styles.bold, "▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s%s", w.render(w.styles.success, "✓ "), fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.render(w.styles.warning, "⚠ "), fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s%s", w.render(w.styles.failure, "✗ "), fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	w.Println("%s%s", w.render(w.styles.info, "ℹ "), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	w.Println("%s", w.render(w.styles.dim, "  "+fmt.Sprintf(format, args...)))
}

// Dim renders secondary text
func (w *Writer) Dim(text string) string {
	return w.render(w.styles.dim, text)
}

// Money renders an amount
func (w *Writer) Money(text string) string {
	return w.render(w.styles.money, text)
}

// Table renders a table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	widths  []int
	align   []bool // true = right aligned
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
		align:   make([]bool, len(headers)),
	}
}

// AlignRight right-aligns the given columns
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.align) {
			t.align[c] = true
		}
	}
	return t
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	// Pad or truncate cells to match header count
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if w := lipgloss.Width(row[i]); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render prints the table
func (t *Table) Render() {
	t.w.Println("%s", t.w.render(t.w.styles.bold, t.line(t.headers)))

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.w.Println("%s", strings.Join(sep, "─┼─"))

	for _, row := range t.rows {
		t.w.Println("%s", t.line(row))
	}
}

func (t *Table) line(cells []string) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		gap := strings.Repeat(" ", t.widths[i]-lipgloss.Width(cell))
		if t.align[i] {
			padded[i] = gap + cell
		} else {
			padded[i] = cell + gap
		}
	}
	return strings.TrimRight(strings.Join(padded, " │ "), " ")
}

// CostSummary renders a boxed total
type CostSummary struct {
	w     *Writer
	Title string
	Total string
	Lines []string
}

// NewCostSummary creates a cost summary
func (w *Writer) NewCostSummary(title string) *CostSummary {
	return &CostSummary{w: w, Title: title}
}

// Render prints the cost summary
func (s *CostSummary) Render() {
	body := s.Title + ": " + s.w.Money(s.Total)
	for _, l := range s.Lines {
		body += "\n" + s.w.Dim(l)
	}
	if s.w.noColor {
		s.w.Println("%s", body)
		return
	}
	s.w.Println("%s", s.w.styles.box.Render(body))
}
