package app

import (
	"strings"

	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/logger"
)

func (a *App) activate() {
	if a.Mode == ModeProjects {
		p, ok := a.CurrentProject()
		if !ok {
			return
		}
		a.Mode = ModeConnections
		a.SelectedConnection = 0
		a.SelectedTable = none
		a.SelectedRoutine = none
		a.Status = "Project: " + p.Name
		return
	}
	if a.SelectedTable != none {
		a.activateTable()
		return
	}
	if a.SelectedRoutine != none {
		a.activateRoutine()
		return
	}
	a.toggleConnectionExpand()
}

func (a *App) goBack() {
	if a.Mode == ModeConnections {
		a.Mode = ModeProjects
		a.Status = "Projects"
	}
}

func (a *App) toggleConnectionExpand() {
	pi, ci := a.SelectedProject, a.SelectedConnection
	if a.Loading.IsFetchingTablesFor(pi, ci) {
		return
	}
	conn, ok := a.CurrentConnection()
	if !ok {
		return
	}

	shouldFetch := !conn.Expanded && len(conn.Tables) == 0
	conn.Expanded = !conn.Expanded
	if !conn.Expanded {
		a.SelectedTable = none
		a.SelectedRoutine = none
	}
	logger.Debug("Toggled connection", map[string]any{
		"connection": conn.Name,
		"expanded":   conn.Expanded,
	})
	if shouldFetch {
		a.sendFetchTables(conn, pi, ci)
	}
}

// selectAllQuery builds the browse query for a table in the connection's
// dialect.
func selectAllQuery(driver, name string) string {
	switch driver {
	case drivers.DriverMySQL:
		return "SELECT * FROM `" + strings.ReplaceAll(name, "`", "``") + "`"
	case drivers.DriverMongoDB:
		return "db." + name + ".find({})"
	default:
		return `SELECT * FROM "` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

func (a *App) activateTable() {
	if a.Loading.ExecutingQuery {
		return
	}
	conn, ok := a.CurrentConnection()
	if !ok {
		return
	}
	table, ok := conn.Table(a.SelectedTable)
	if !ok {
		return
	}
	query := selectAllQuery(conn.Driver, table.Name)
	a.Query = query + ";"
	a.Panel = PanelData
	a.sendExecuteQuery(conn, query, a.SelectedProject)
}

// activateRoutine loads the routine definition into the query buffer.
func (a *App) activateRoutine() {
	r, ok := a.CurrentRoutine()
	if !ok {
		return
	}
	if r.Definition == "" {
		a.Status = "No definition for " + r.QualifiedName()
		return
	}
	a.Query = r.Definition
	a.Status = "Loaded definition of " + r.QualifiedName()
}
