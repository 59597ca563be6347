package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/modal"
	"github.com/sheenazien8/lazydb/ui/sidebar"
	"github.com/sheenazien8/lazydb/ui/syntax"
	"github.com/sheenazien8/lazydb/ui/tab"
	"github.com/sheenazien8/lazydb/ui/table"
	"github.com/sheenazien8/lazydb/ui/theme"
)

const (
	minSidebarWidth = 24
	editorLines     = 3
)

// View renders the main application view
func (p *Program) View() string {
	if p.width == 0 || p.height == 0 {
		return "Loading..."
	}
	a := p.App

	if a.Modal != nil {
		return modal.Render(a.Modal, a.ModalContext(), p.width, p.height)
	}

	sidebarWidth := max(minSidebarWidth, p.width/4)
	mainWidth := max(10, p.width-sidebarWidth)
	bodyHeight := max(6, p.height-1)
	editorHeight := editorLines + 2

	side := sidebar.Render(p.sidebarView(sidebarWidth, bodyHeight))
	editor := p.renderQueryEditor(mainWidth, editorHeight)
	panel := p.renderMainPanel(mainWidth, bodyHeight-editorHeight)

	right := lipgloss.JoinVertical(lipgloss.Left, editor, panel)
	body := lipgloss.JoinHorizontal(lipgloss.Top, side, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, p.renderStatusBar())
}

func (p *Program) sidebarView(width, height int) sidebar.View {
	a := p.App
	v := sidebar.View{
		Width:        width,
		Height:       height,
		Focused:      a.Focus == FocusSidebar,
		ShowRowCount: p.rowCounts,
	}

	if a.Mode == ModeProjects {
		v.Title = "Projects"
		for i, proj := range a.Projects {
			v.Items = append(v.Items, sidebar.Item{
				Kind:     sidebar.KindProject,
				Label:    proj.Name,
				Selected: i == a.SelectedProject,
			})
		}
		return v
	}

	proj, ok := a.CurrentProject()
	if !ok {
		v.Title = "Connections"
		return v
	}
	v.Title = proj.Name

	items := a.navItems()
	pos := a.navPosition(items)
	for i, it := range items {
		c := &proj.Connections[it.conn]
		item := sidebar.Item{Selected: i == pos}
		switch {
		case it.table != none:
			t := c.Tables[it.table]
			item.Kind = sidebar.KindTable
			item.Label = t.Name
			item.RowCount = t.RowCount
			item.IsView = t.IsView()
		case it.routine != none:
			item.Kind = sidebar.KindRoutine
			item.Label = c.Routines[it.routine].Name
		default:
			item.Kind = sidebar.KindConnection
			item.Label = c.Name
			item.Driver = c.Driver
			item.Expanded = c.Expanded
			item.Loading = a.Loading.IsFetchingTablesFor(a.SelectedProject, it.conn)
		}
		if item.Kind != sidebar.KindConnection && (i+1 == len(items) || items[i+1].conn != it.conn) {
			item.Last = true
		}
		v.Items = append(v.Items, item)
	}
	return v
}

func (p *Program) renderQueryEditor(width, height int) string {
	a := p.App
	t := theme.Current
	inner := max(1, width-2)

	var content string
	if strings.TrimSpace(a.Query) == "" {
		content = t.Help.Render("Press Enter or i to write a query")
	} else {
		lines := strings.Split(syntax.Highlight(a.Query), "\n")
		if len(lines) > editorLines {
			lines = lines[:editorLines]
		}
		content = strings.Join(lines, "\n")
	}

	border := t.BorderUnfocused
	if a.Focus == FocusQueryEditor {
		border = t.BorderFocused
	}
	return border.Width(inner).Height(height - 2).MaxHeight(height).Render(content)
}

func (p *Program) renderMainPanel(width, height int) string {
	a := p.App
	t := theme.Current
	inner := max(1, width-2)
	contentHeight := max(1, height-3)

	tabs := tab.Bar([]string{"Schema", "Data", "Relations"}, int(a.Panel))

	var content string
	switch a.Panel {
	case PanelData:
		content = p.renderData(inner, contentHeight)
	case PanelRelations:
		content = p.renderRelations(inner, contentHeight)
	default:
		content = p.renderSchema(inner, contentHeight)
	}

	border := t.BorderUnfocused
	if a.Focus == FocusMainPanel {
		border = t.BorderFocused
	}
	return border.Width(inner).Height(height - 2).MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, tabs, content))
}

func (p *Program) placeholder(text string) string {
	return theme.Current.Help.Render(text)
}

func (p *Program) renderSchema(width, height int) string {
	a := p.App

	if r, ok := a.CurrentRoutine(); ok {
		header := theme.Current.Title.Render(r.Type.String() + " " + r.QualifiedName())
		return lipgloss.JoinVertical(lipgloss.Left, header, syntax.Highlight(r.Definition))
	}

	tbl, ok := a.CurrentTable()
	if !ok {
		return p.placeholder("Select a table")
	}
	if !tbl.DetailsLoaded {
		if a.Loading.FetchingDetails != nil {
			return p.spinner.View() + " " + p.placeholder(a.Loading.Message)
		}
		return p.placeholder("No details loaded for " + tbl.Name)
	}

	active := int(a.SchemaTab)
	bar := tab.Bar(tab.SchemaLabels(*tbl), active)

	if a.SchemaTab == model.SchemaDefinition {
		return lipgloss.JoinVertical(lipgloss.Left, bar, syntax.Highlight(tbl.ViewDefinition))
	}

	titles, rows := tab.SchemaGrid(*tbl, a.SchemaTab, &a.Visibility)
	if len(titles) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, bar, p.placeholder("All columns hidden (c: columns)"))
	}
	grid := table.Render(table.Grid{
		Columns: table.Columns(titles, rows),
		Rows:    table.Rows(rows),
		Cursor:  -1,
		Width:   width,
		Height:  height - 1,
	})
	return lipgloss.JoinVertical(lipgloss.Left, bar, grid)
}

func (p *Program) renderData(width, height int) string {
	a := p.App
	if a.Result == nil {
		if a.Loading.ExecutingQuery {
			return p.spinner.View() + " " + p.placeholder(a.Loading.Message)
		}
		return p.placeholder("No results")
	}

	rows := a.PageRows()
	start := a.Pagination.StartIndex()
	footer := fmt.Sprintf("Page %d/%d | %d rows | %d ms",
		a.Pagination.CurrentPage+1, a.Pagination.TotalPages(),
		a.Pagination.TotalRows, a.Result.ExecutionTimeMs)

	return table.Render(table.Grid{
		Columns: table.Columns(a.Result.Columns, rows),
		Rows:    table.Rows(rows),
		Cursor:  a.DataCursor - start,
		Width:   width,
		Height:  height,
		Focused: a.Focus == FocusMainPanel,
		Footer:  footer,
	})
}

func (p *Program) renderRelations(width, height int) string {
	a := p.App
	tbl, ok := a.CurrentTable()
	if !ok {
		return p.placeholder("Select a table")
	}
	conn, _ := a.CurrentConnection()
	titles, rows := tab.Relations(*tbl, conn.Tables)
	if len(rows) == 0 {
		return p.placeholder("No relations for " + tbl.Name)
	}
	return table.Render(table.Grid{
		Columns: table.Columns(titles, rows),
		Rows:    table.Rows(rows),
		Cursor:  -1,
		Width:   width,
		Height:  height,
	})
}

func (p *Program) renderStatusBar() string {
	a := p.App
	t := theme.Current

	var left string
	switch {
	case a.Loading.IsLoading():
		left = p.spinner.View() + " " + t.Loading.Render(a.Loading.Message)
	case isErrorStatus(a.Status):
		left = t.StatusError.Render(a.Status)
	default:
		left = t.StatusBar.Render(a.Status)
	}

	hint := "tab: focus | enter: open | i: query | ctrl+r: history | q: quit"
	if a.Mode == ModeProjects {
		hint = "a: add | e: edit | d: delete | /: search | enter: open | q: quit"
	}
	right := t.Help.Render("[" + a.Focus.String() + "] " + hint)

	spacing := max(1, p.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", spacing) + right
}

func isErrorStatus(s string) bool {
	return strings.HasPrefix(s, "Failed") || strings.HasPrefix(s, "Query failed") ||
		strings.HasPrefix(s, "Invalid") || strings.HasPrefix(s, "Format failed")
}
