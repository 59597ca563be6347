// Package table renders a window of a string grid with a highlighted row.
package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/lazydb/ui/theme"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 40
)

// Column represents a table column with title and width
type Column struct {
	Title string
	Width int
}

// Row is a slice of strings representing a table row
type Row []string

// Grid is everything needed to draw one frame of the table.
type Grid struct {
	Columns []Column
	Rows    []Row
	// Cursor indexes Rows; -1 hides the highlight.
	Cursor int
	// ColOffset is the first column drawn.
	ColOffset int
	Width     int
	Height    int
	Focused   bool
	// Footer is shown right aligned on the status line.
	Footer string
}

// Columns sizes titles to fit their content, clamped to a readable range.
func Columns(titles []string, rows [][]string) []Column {
	cols := make([]Column, len(titles))
	for i, t := range titles {
		w := lipgloss.Width(t)
		for _, r := range rows {
			if i < len(r) {
				w = max(w, lipgloss.Width(r[i]))
			}
		}
		cols[i] = Column{Title: t, Width: max(minColumnWidth, min(w, maxColumnWidth))}
	}
	return cols
}

// Rows converts plain string rows.
func Rows(rows [][]string) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row(r)
	}
	return out
}

// visibleRows returns the number of rows that can be displayed
func (g Grid) visibleRows() int {
	return max(0, g.Height-3)
}

// visibleCols calculates how many columns fit in the current width
func (g Grid) visibleCols() int {
	if len(g.Columns) == 0 {
		return 0
	}
	used, count := 0, 0
	for i := g.ColOffset; i < len(g.Columns); i++ {
		w := g.Columns[i].Width + 3
		if used+w > g.Width {
			break
		}
		used += w
		count++
	}
	return max(1, count)
}

// rowOffset keeps the cursor inside the drawn window.
func (g Grid) rowOffset() int {
	visible := g.visibleRows()
	if visible == 0 || g.Cursor < visible {
		return 0
	}
	return min(g.Cursor-visible+1, max(0, len(g.Rows)-visible))
}

// Render draws the grid.
func Render(g Grid) string {
	if g.Width <= 0 || g.Height <= 0 {
		return ""
	}
	t := theme.Current
	if len(g.Columns) == 0 {
		return t.TableNull.Render("No data")
	}

	g.ColOffset = max(0, min(g.ColOffset, len(g.Columns)-1))
	endCol := min(g.ColOffset+g.visibleCols(), len(g.Columns))

	lines := []string{
		g.renderHeaderLine(g.ColOffset, endCol),
		g.renderSeparator(g.ColOffset, endCol),
	}

	offset := g.rowOffset()
	endRow := min(offset+g.visibleRows(), len(g.Rows))
	for i := offset; i < endRow; i++ {
		lines = append(lines, g.renderDataRow(i, g.ColOffset, endCol))
	}
	for i := endRow - offset; i < g.visibleRows(); i++ {
		lines = append(lines, g.renderEmptyRow(g.ColOffset, endCol))
	}

	lines = append(lines, g.renderStatusBar(endCol))
	return strings.Join(lines, "\n")
}

func separator() string {
	return lipgloss.NewStyle().Foreground(theme.Current.Colors.BorderUnfocused).Render("│")
}

func (g Grid) renderHeaderLine(startCol, endCol int) string {
	t := theme.Current
	cells := make([]string, 0, endCol-startCol)
	for i := startCol; i < endCol; i++ {
		col := g.Columns[i]
		cells = append(cells, t.TableHeader.Render(" "+truncateOrPad(col.Title, col.Width)+" "))
	}
	return strings.Join(cells, separator())
}

func (g Grid) renderSeparator(startCol, endCol int) string {
	t := theme.Current
	parts := make([]string, 0, endCol-startCol)
	for i := startCol; i < endCol; i++ {
		parts = append(parts, strings.Repeat("─", g.Columns[i].Width+2))
	}
	return lipgloss.NewStyle().Foreground(t.Colors.BorderUnfocused).Render(strings.Join(parts, "┼"))
}

func (g Grid) renderDataRow(rowIdx, startCol, endCol int) string {
	t := theme.Current
	row := g.Rows[rowIdx]
	selected := rowIdx == g.Cursor

	cells := make([]string, 0, endCol-startCol)
	for i := startCol; i < endCol; i++ {
		col := g.Columns[i]
		content := ""
		if i < len(row) {
			content = row[i]
		}
		text := " " + truncateOrPad(content, col.Width) + " "

		switch {
		case selected && g.Focused:
			cells = append(cells, t.TableSelected.Render(text))
		case content == "NULL":
			cells = append(cells, t.TableNull.Render(text))
		default:
			cells = append(cells, t.TableCell.Render(text))
		}
	}
	return strings.Join(cells, separator())
}

func (g Grid) renderEmptyRow(startCol, endCol int) string {
	t := theme.Current
	cells := make([]string, 0, endCol-startCol)
	for i := startCol; i < endCol; i++ {
		cells = append(cells, t.TableCell.Render(strings.Repeat(" ", g.Columns[i].Width+2)))
	}
	return strings.Join(cells, separator())
}

func (g Grid) renderStatusBar(endCol int) string {
	t := theme.Current
	left := t.StatusBar.Render(fmt.Sprintf("Row %d/%d", g.Cursor+1, len(g.Rows)))
	right := fmt.Sprintf("Cols %d-%d/%d", g.ColOffset+1, endCol, len(g.Columns))
	if g.Footer != "" {
		right = g.Footer + " | " + right
	}
	right = t.StatusBar.Render(right)

	spacing := max(g.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", spacing) + right
}

func truncateOrPad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	current := lipgloss.Width(s)
	if current > width {
		if width <= 3 {
			return string([]rune(s)[:width])
		}
		var b strings.Builder
		w := 0
		for _, r := range s {
			rw := lipgloss.Width(string(r))
			if w+rw > width-3 {
				break
			}
			b.WriteRune(r)
			w += rw
		}
		return b.String() + "..." + strings.Repeat(" ", width-3-w)
	}
	return s + strings.Repeat(" ", width-current)
}
