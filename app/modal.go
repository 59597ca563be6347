package app

import (
	"errors"
	"strings"

	"github.com/sheenazien8/lazydb/logger"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/modal"
	"github.com/sheenazien8/lazydb/ui/syntax"
)

const (
	statusInvalidConnection = "Invalid: fill name, host, user, database and valid port (1-65535)"
	statusEmptyProjectName  = "Project name cannot be empty"
	formatWidth             = 80
)

// ModalContext returns the names the open dialog filters and displays.
func (a *App) ModalContext() modal.Context {
	return modal.Context{
		Projects:    a.projectNames(),
		Connections: a.connectionNames(),
		Tables:      a.tableNames(),
		History:     a.History.Entries(),
		Visibility:  &a.Visibility,
	}
}

func (a *App) projectNames() []string {
	names := make([]string, len(a.Projects))
	for i, p := range a.Projects {
		names[i] = p.Name
	}
	return names
}

func (a *App) connectionNames() []string {
	p, ok := a.CurrentProject()
	if !ok {
		return nil
	}
	names := make([]string, len(p.Connections))
	for i, c := range p.Connections {
		names[i] = c.Name
	}
	return names
}

// tableNames lists the tables of the selected connection while it is
// expanded.
func (a *App) tableNames() []string {
	c, ok := a.CurrentConnection()
	if !ok || !c.Expanded {
		return nil
	}
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.Name
	}
	return names
}

func (a *App) openEditProject() {
	if a.Mode != ModeProjects {
		return
	}
	if p, ok := a.CurrentProject(); ok {
		a.Modal = modal.NewEditProject(a.SelectedProject, p.Name)
	}
}

func (a *App) openDeleteProject() {
	if a.Mode != ModeProjects {
		return
	}
	if p, ok := a.CurrentProject(); ok {
		a.Modal = modal.NewDeleteProject(a.SelectedProject, p.Name)
	}
}

func (a *App) openSearchProject() {
	if a.Mode == ModeProjects && len(a.Projects) > 0 {
		a.Modal = modal.NewSearchProject(len(a.Projects))
	}
}

func (a *App) openSearchConnection() {
	if a.Mode != ModeConnections {
		return
	}
	if p, ok := a.CurrentProject(); ok {
		a.Modal = modal.NewSearchConnection(len(p.Connections))
	}
}

func (a *App) openSearchTable() {
	if a.Mode != ModeConnections {
		return
	}
	if c, ok := a.CurrentConnection(); ok && c.Expanded && len(c.Tables) > 0 {
		a.Modal = modal.NewSearchTable(len(c.Tables))
	}
}

func (a *App) openUnifiedSearch() {
	if a.Mode != ModeConnections {
		return
	}
	p, ok := a.CurrentProject()
	if !ok {
		return
	}
	expanded := false
	tables := 0
	if c, ok := a.CurrentConnection(); ok && c.Expanded {
		expanded = true
		tables = len(c.Tables)
	}
	a.Modal = modal.NewUnifiedSearch(len(p.Connections), tables, expanded)
}

func (a *App) openColumnVisibility() {
	if a.Panel == PanelSchema {
		a.Modal = modal.NewColumnVisibility(a.SchemaTab)
	}
}

func (a *App) openHistory() {
	if a.History.IsEmpty() {
		a.Status = "No query history"
		return
	}
	a.Modal = &modal.History{}
}

func (a *App) openQueryInput() {
	a.Modal = modal.NewQueryInput(a.Query)
}

func (a *App) modalInputChar(r rune) {
	in, ok := a.Modal.(modal.TextInput)
	if !ok {
		return
	}
	in.InputChar(r)
	a.refilter()
}

func (a *App) modalBackspace() {
	in, ok := a.Modal.(modal.TextInput)
	if !ok {
		return
	}
	in.Backspace()
	a.refilter()
}

// refilter recomputes the search results against the full source lists.
func (a *App) refilter() {
	switch m := a.Modal.(type) {
	case *modal.SearchProject:
		m.Apply(a.projectNames())
	case *modal.SearchConnection:
		m.Apply(a.connectionNames())
	case *modal.SearchTable:
		m.Apply(a.tableNames())
	case *modal.UnifiedSearch:
		m.Apply(a.connectionNames(), a.tableNames())
	}
}

func (a *App) modalNextField() {
	if c, ok := a.Modal.(modal.FieldCycler); ok {
		c.NextField()
	}
}

func (a *App) modalPrevField() {
	if c, ok := a.Modal.(modal.FieldCycler); ok {
		c.PrevField()
	}
}

// modalConfirm commits the open form. Invalid input keeps the dialog open.
func (a *App) modalConfirm() {
	switch m := a.Modal.(type) {
	case *modal.AddConnection:
		conn, ok := m.Connection()
		if !ok {
			a.Status = statusInvalidConnection
			return
		}
		p, ok := a.CurrentProject()
		if !ok {
			a.Status = "No project selected"
			a.Modal = nil
			return
		}
		p.Connections = append(p.Connections, conn)
		a.ProjectsDirty = true
		a.Status = "Connection added"
	case *modal.AddProject:
		name := m.TrimmedName()
		if name == "" {
			a.Status = statusEmptyProjectName
			return
		}
		a.Projects = append(a.Projects, model.NewProject(name))
		a.SelectedProject = len(a.Projects) - 1
		a.ProjectsDirty = true
		a.Status = "Project added"
	case *modal.EditProject:
		name := m.TrimmedName()
		if name == "" {
			a.Status = statusEmptyProjectName
			return
		}
		if m.ProjectIdx >= 0 && m.ProjectIdx < len(a.Projects) {
			a.Projects[m.ProjectIdx].Name = name
			a.ProjectsDirty = true
			a.Status = "Project updated"
		}
	case *modal.DeleteProject:
		if m.Confirmed() {
			a.deleteProject(m.ProjectIdx)
		}
	case *modal.SearchProject:
		a.searchConfirm()
		return
	case *modal.SearchConnection:
		a.searchConnectionConfirm()
		return
	case *modal.SearchTable:
		a.tableSearchConfirm()
		return
	case *modal.UnifiedSearch:
		a.unifiedSearchConfirm()
		return
	case *modal.History:
		a.historySelect()
		return
	case *modal.QueryInput:
		a.executeQueryInput()
		return
	}
	a.Modal = nil
}

// ModalButtonFocused reports whether the open form has an OK or Cancel
// button focused, so movement keys change focus instead of typing.
func (a *App) ModalButtonFocused() bool {
	switch m := a.Modal.(type) {
	case *modal.AddConnection:
		return m.Focus == modal.FieldOK || m.Focus == modal.FieldCancel
	case *modal.AddProject:
		return m.Focus != modal.ProjectName
	case *modal.EditProject:
		return m.Focus != modal.ProjectName
	case *modal.DeleteProject:
		return true
	}
	return false
}

// ModalCancelFocused reports whether Enter would press a Cancel button.
func (a *App) ModalCancelFocused() bool {
	switch m := a.Modal.(type) {
	case *modal.AddConnection:
		return m.Focus == modal.FieldCancel
	case *modal.AddProject:
		return m.Focus == modal.ProjectCancel
	case *modal.EditProject:
		return m.Focus == modal.ProjectCancel
	}
	return false
}

func (a *App) deleteProject(idx int) {
	if idx < 0 || idx >= len(a.Projects) {
		return
	}
	name := a.Projects[idx].Name
	a.Projects = append(a.Projects[:idx], a.Projects[idx+1:]...)
	if a.SelectedProject >= len(a.Projects) {
		a.SelectedProject = max(0, len(a.Projects)-1)
	}
	a.ProjectsDirty = true
	a.Status = "Project deleted"
	logger.Info("Project deleted", map[string]any{"name": name})
}

func (a *App) searchConfirm() {
	if m, ok := a.Modal.(*modal.SearchProject); ok {
		if idx, ok := m.Selected(); ok && idx < len(a.Projects) {
			a.SelectedProject = idx
			a.Status = "Selected: " + a.Projects[idx].Name
		}
	}
	a.Modal = nil
}

func (a *App) selectConnection(idx int) {
	p, ok := a.CurrentProject()
	if !ok || idx < 0 || idx >= len(p.Connections) {
		return
	}
	a.SelectedConnection = idx
	a.SelectedTable = none
	a.SelectedRoutine = none
	a.Status = "Selected: " + p.Connections[idx].Name
}

func (a *App) selectTable(idx int) {
	c, ok := a.CurrentConnection()
	if !ok {
		return
	}
	t, ok := c.Table(idx)
	if !ok {
		return
	}
	a.SelectedTable = idx
	a.SelectedRoutine = none
	a.Status = "Selected: " + t.Name
	a.fetchTableDetailsIfNeeded()
}

func (a *App) searchConnectionConfirm() {
	if m, ok := a.Modal.(*modal.SearchConnection); ok {
		if idx, ok := m.Selected(); ok {
			a.selectConnection(idx)
		}
	}
	a.Modal = nil
}

func (a *App) tableSearchConfirm() {
	if m, ok := a.Modal.(*modal.SearchTable); ok {
		if idx, ok := m.Selected(); ok {
			a.selectTable(idx)
		}
	}
	a.Modal = nil
}

func (a *App) unifiedSearchConfirm() {
	if m, ok := a.Modal.(*modal.UnifiedSearch); ok {
		switch m.Active {
		case modal.SectionConnections:
			if idx, ok := m.Connections.Selected(); ok {
				a.selectConnection(idx)
			}
		case modal.SectionTables:
			if idx, ok := m.Tables.Selected(); ok {
				a.selectTable(idx)
			}
		}
	}
	a.Modal = nil
}

func (a *App) unifiedSwitchSection() {
	if m, ok := a.Modal.(*modal.UnifiedSearch); ok {
		m.SwitchSection()
	}
}

func (a *App) toggleColumnVisibility() {
	if m, ok := a.Modal.(*modal.ColumnVisibility); ok {
		a.Visibility.Toggle(m.Tab, m.Cursor)
	}
}

func (a *App) historyUp() {
	if m, ok := a.Modal.(*modal.History); ok {
		m.Up(a.History.Len())
	}
}

func (a *App) historyDown() {
	if m, ok := a.Modal.(*modal.History); ok {
		m.Down(a.History.Len())
	}
}

func (a *App) historySelect() {
	m, ok := a.Modal.(*modal.History)
	if !ok {
		return
	}
	if e, ok := a.History.Get(m.Cursor); ok {
		a.Query = e.Query
		a.Status = "Loaded query from history (" + e.ConnectionName + ")"
	}
	a.Modal = nil
}

func (a *App) clearHistory() {
	a.History.Clear()
	a.HistoryDirty = true
	a.Modal = nil
	a.Status = "Query history cleared"
}

func (a *App) queryInput() (*modal.QueryInput, bool) {
	m, ok := a.Modal.(*modal.QueryInput)
	return m, ok
}

func (a *App) formatQueryInput() {
	m, ok := a.queryInput()
	if !ok {
		return
	}
	formatted, err := syntax.Format(m.Query, formatWidth)
	if err != nil {
		if errors.Is(err, syntax.ErrEmptyQuery) {
			a.Status = "Query is empty"
			return
		}
		a.Status = "Format failed: " + err.Error()
		return
	}
	m.SetQuery(formatted)
	a.Status = "Query formatted"
}

// executeQueryInput runs the dialog's query on the selected connection.
func (a *App) executeQueryInput() {
	m, ok := a.queryInput()
	if !ok {
		return
	}
	query := strings.TrimSpace(m.Query)
	if query == "" {
		a.Status = "Query is empty"
		return
	}
	conn, ok := a.CurrentConnection()
	if a.Mode != ModeConnections || !ok {
		a.Status = "No connection selected"
		return
	}
	if a.Loading.ExecutingQuery {
		a.Status = "A query is already running"
		return
	}
	a.Query = query
	a.Modal = nil
	a.Panel = PanelData
	a.sendExecuteQuery(conn, strings.TrimSuffix(query, ";"), a.SelectedProject)
}
