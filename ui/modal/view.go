package modal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/syntax"
	"github.com/sheenazien8/lazydb/ui/theme"
)

const (
	dialogWidth = 56
	listHeight  = 10
)

// Context is the read-only application data a dialog displays.
type Context struct {
	Projects    []string
	Connections []string
	Tables      []string
	History     []history.Entry
	Visibility  *model.ColumnVisibility
}

// Render draws s centred in a width x height area. A nil state renders
// as the empty string.
func Render(s State, ctx Context, width, height int) string {
	if s == nil {
		return ""
	}

	var body, help string
	switch m := s.(type) {
	case *AddConnection:
		body, help = renderConnectionForm(m), "Tab: next field | Enter: confirm | Esc: cancel"
	case *AddProject:
		body, help = renderProjectForm(&m.ProjectForm), "Tab: next field | Enter: confirm | Esc: cancel"
	case *EditProject:
		body, help = renderProjectForm(&m.ProjectForm), "Tab: next field | Enter: confirm | Esc: cancel"
	case *DeleteProject:
		body, help = renderDelete(m), "Tab: switch | Enter: confirm | Esc: cancel"
	case *SearchProject:
		body, help = renderSearch(&m.Filter, ctx.Projects), "Type to filter | ↑↓: move | Enter: select | Esc: close"
	case *SearchConnection:
		body, help = renderSearch(&m.Filter, ctx.Connections), "Type to filter | ↑↓: move | Enter: select | Esc: close"
	case *SearchTable:
		body, help = renderSearch(&m.Filter, ctx.Tables), "Type to filter | ↑↓: move | Enter: select | Esc: close"
	case *UnifiedSearch:
		body, help = renderUnified(m, ctx), "Type to filter | ↑↓: move | ←→: section | Enter: select | Esc: close"
	case *History:
		body, help = renderHistory(m, ctx.History), "↑↓: move | Enter: load | c: clear | Esc: close"
	case *ColumnVisibility:
		body, help = renderVisibility(m, ctx.Visibility), "↑↓: move | Space: toggle | Enter/Esc: close"
	case *QueryInput:
		body, help = renderQueryInput(m), "Ctrl+E/F5: run | Ctrl+F: format | Ctrl+L: clear | Esc: close"
	}

	t := theme.Current
	dialog := t.Dialog.Width(dialogWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.DialogTitle.Render(s.Title()),
		"",
		body,
		"",
		t.Help.Render(help),
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}

func inputRow(label, value string, focused bool) string {
	t := theme.Current
	style := t.InputBlurred
	if focused {
		style = t.InputFocused
		value += "▏"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		t.Label.Render(label),
		style.Width(dialogWidth-14).Render(value),
	)
}

func buttons(labels []string, focused int) string {
	t := theme.Current
	parts := make([]string, 0, len(labels)*2)
	for i, l := range labels {
		if i > 0 {
			parts = append(parts, "   ")
		}
		if i == focused {
			parts = append(parts, t.ButtonActive.Render("[ "+l+" ]"))
		} else {
			parts = append(parts, t.ButtonInactive.Render("  "+l+"  "))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return lipgloss.NewStyle().Width(dialogWidth - 4).Align(lipgloss.Center).Render(row)
}

func renderConnectionForm(m *AddConnection) string {
	rows := []string{
		inputRow("Name:", m.Name, m.Focus == FieldName),
		inputRow("Host:", m.Host, m.Focus == FieldHost),
		inputRow("Port:", m.Port, m.Focus == FieldPort),
		inputRow("User:", m.User, m.Focus == FieldUser),
		inputRow("Password:", strings.Repeat("•", len([]rune(m.Password))), m.Focus == FieldPassword),
		inputRow("Database:", m.Database, m.Focus == FieldDatabase),
		"",
	}
	focused := -1
	switch m.Focus {
	case FieldOK:
		focused = 0
	case FieldCancel:
		focused = 1
	}
	rows = append(rows, buttons([]string{"OK", "Cancel"}, focused))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderProjectForm(m *ProjectForm) string {
	focused := -1
	switch m.Focus {
	case ProjectOK:
		focused = 0
	case ProjectCancel:
		focused = 1
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		inputRow("Name:", m.Name, m.Focus == ProjectName),
		"",
		buttons([]string{"OK", "Cancel"}, focused),
	)
}

func renderDelete(m *DeleteProject) string {
	msg := fmt.Sprintf("Delete project %q and all of its connections?", m.ProjectName)
	focused := 1
	if m.Focus == ConfirmOK {
		focused = 0
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(dialogWidth-4).Render(msg),
		"",
		buttons([]string{"Delete", "Cancel"}, focused),
	)
}

// window returns the [start, end) slice of n rows that keeps cursor visible.
func window(n, cursor, height int) (int, int) {
	if n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = max(0, min(start, n-height))
	return start, start + height
}

func renderList(f *Filter, names []string, active bool) []string {
	t := theme.Current
	if f.Len() == 0 {
		return []string{t.SidebarDim.Render("  no matches")}
	}
	start, end := window(f.Len(), f.Cursor, listHeight)
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		idx := f.Indices[i]
		name := "?"
		if idx < len(names) {
			name = names[idx]
		}
		if i == f.Cursor && active {
			lines = append(lines, t.SidebarSelected.Render("> "+name))
		} else {
			lines = append(lines, t.SidebarItem.Render("  "+name))
		}
	}
	return lines
}

func renderSearch(f *Filter, names []string) string {
	lines := []string{inputRow("Search:", f.Query, true), ""}
	lines = append(lines, renderList(f, names, true)...)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderUnified(m *UnifiedSearch, ctx Context) string {
	t := theme.Current
	header := func(label string, n int, active bool) string {
		text := fmt.Sprintf("%s (%d)", label, n)
		if active {
			return t.TabActive.Render(text)
		}
		return t.TabInactive.Render(text)
	}
	conns := append([]string{header("Connections", m.Connections.Len(), m.Active == SectionConnections)},
		renderList(&m.Connections, ctx.Connections, m.Active == SectionConnections)...)
	tables := append([]string{header("Tables", m.Tables.Len(), m.Active == SectionTables)},
		renderList(&m.Tables, ctx.Tables, m.Active == SectionTables)...)

	lines := []string{inputRow("Search:", m.Query, true), ""}
	if m.TablesFirst {
		lines = append(append(append(lines, tables...), ""), conns...)
	} else {
		lines = append(append(append(lines, conns...), ""), tables...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHistory(m *History, entries []history.Entry) string {
	t := theme.Current
	if len(entries) == 0 {
		return t.SidebarDim.Render("No query history")
	}
	start, end := window(len(entries), m.Cursor, listHeight)
	var lines []string
	for i := start; i < end; i++ {
		e := entries[i]
		status := lipgloss.NewStyle().Foreground(t.Colors.Success).Render("✓")
		if !e.Success {
			status = lipgloss.NewStyle().Foreground(t.Colors.Error).Render("✗")
		}
		q := strings.Join(strings.Fields(e.Query), " ")
		if r := []rune(q); len(r) > dialogWidth-24 {
			q = string(r[:dialogWidth-27]) + "..."
		}
		line := fmt.Sprintf("%s %s  %s", status, e.ExecutedAt.Format("01-02 15:04"), q)
		if i == m.Cursor {
			line = t.SidebarSelected.Render(line)
		}
		lines = append(lines, line)
	}
	if m.Cursor < len(entries) {
		sel := entries[m.Cursor]
		detail := fmt.Sprintf("%s / %s", sel.ConnectionName, sel.DatabaseName)
		if sel.Success {
			detail += fmt.Sprintf(" | %d rows in %s", sel.RowCount, sel.Duration)
		} else {
			detail += " | " + sel.ErrorMessage
		}
		lines = append(lines, "", t.Help.Render(detail), syntax.Highlight(sel.Query))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderVisibility(m *ColumnVisibility, v *model.ColumnVisibility) string {
	t := theme.Current
	cols := model.VisibilityColumns(m.Tab)
	if len(cols) == 0 {
		return t.SidebarDim.Render(m.Tab.String() + " has no columns to toggle")
	}
	if v == nil {
		v = &model.ColumnVisibility{}
	}
	lines := []string{t.Help.Render(m.Tab.String()), ""}
	for i, c := range cols {
		box := "[ ]"
		if v.Visible(m.Tab, i) {
			box = "[x]"
		}
		line := box + " " + c
		if i == m.Cursor {
			line = t.SidebarSelected.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderQueryInput(m *QueryInput) string {
	t := theme.Current
	cursor := lipgloss.NewStyle().Reverse(true)

	under := " "
	rest := m.Query[m.Cursor:]
	if rest != "" && rest[0] != '\n' {
		r := []rune(rest)[0]
		under = string(r)
		rest = rest[len(under):]
	}
	text := syntax.Highlight(m.Query[:m.Cursor]) + cursor.Render(under) + syntax.Highlight(rest)

	line, col := m.Position()
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(dialogWidth-4).Render(text),
		"",
		t.Help.Render(fmt.Sprintf("Ln %d, Col %d", line+1, col+1)),
	)
}
