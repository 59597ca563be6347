// Package app holds the application state and the reducer that mutates it.
// Update applies one Message at a time; ProcessDBResponses applies worker
// responses once per tick. Neither blocks nor performs I/O directly.
package app

import (
	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/modal"
	"github.com/sheenazien8/lazydb/worker"
)

// none marks an empty table or routine selection.
const none = -1

// Focus represents which panel is currently focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusQueryEditor
	FocusMainPanel
)

func (f Focus) String() string {
	switch f {
	case FocusQueryEditor:
		return "query"
	case FocusMainPanel:
		return "main"
	default:
		return "sidebar"
	}
}

// PanelTab is the tab shown in the main panel.
type PanelTab int

const (
	PanelSchema PanelTab = iota
	PanelData
	PanelRelations
)

func (t PanelTab) String() string {
	switch t {
	case PanelData:
		return "Data"
	case PanelRelations:
		return "Relations"
	default:
		return "Schema"
	}
}

// SidebarMode is either the project list or the connection tree of the
// selected project.
type SidebarMode int

const (
	ModeProjects SidebarMode = iota
	ModeConnections
)

// DBWorker is the part of worker.Handle the reducer uses.
type DBWorker interface {
	Send(cmd worker.Command) error
	TryRecv() (worker.Response, error)
}

type pendingQuery struct {
	connection string
	database   string
	query      string
}

// Options seeds a new App.
type Options struct {
	Projects  []model.Project
	History   *history.History
	Worker    DBWorker
	Schema    string
	PageSizes []int
}

// App is the application state. Only the UI goroutine touches it.
type App struct {
	Projects []model.Project

	Mode               SidebarMode
	SelectedProject    int
	SelectedConnection int
	SelectedTable      int
	SelectedRoutine    int

	Focus     Focus
	Panel     PanelTab
	SchemaTab model.SchemaTab

	Modal modal.State

	Query      string
	Result     *drivers.QueryResult
	Pagination model.Pagination
	DataCursor int

	History    *history.History
	Visibility model.ColumnVisibility
	Loading    LoadingState
	Status     string

	// HistoryDirty and ProjectsDirty are cleared by whoever persists them.
	HistoryDirty  bool
	ProjectsDirty bool

	worker    DBWorker
	requestID uint64
	pending   *pendingQuery
	schema    string

	pendingYank *yank
}

func New(opts Options) *App {
	h := opts.History
	if h == nil {
		h = history.New(history.DefaultMaxEntries)
	}
	schema := opts.Schema
	if schema == "" {
		schema = "public"
	}
	return &App{
		Projects:        opts.Projects,
		SelectedTable:   none,
		SelectedRoutine: none,
		Pagination:      model.NewPaginationWithSizes(0, opts.PageSizes),
		History:         h,
		Status:          "Projects",
		worker:          opts.Worker,
		schema:          schema,
	}
}

// SetWorker attaches the DB worker after construction.
func (a *App) SetWorker(w DBWorker) {
	a.worker = w
}

// CurrentProject returns the project whose connections are listed.
func (a *App) CurrentProject() (*model.Project, bool) {
	if a.SelectedProject < 0 || a.SelectedProject >= len(a.Projects) {
		return nil, false
	}
	return &a.Projects[a.SelectedProject], true
}

func (a *App) CurrentConnection() (*model.Connection, bool) {
	p, ok := a.CurrentProject()
	if !ok {
		return nil, false
	}
	return p.Connection(a.SelectedConnection)
}

func (a *App) CurrentTable() (*drivers.Table, bool) {
	c, ok := a.CurrentConnection()
	if !ok || a.SelectedTable == none {
		return nil, false
	}
	return c.Table(a.SelectedTable)
}

func (a *App) CurrentRoutine() (*drivers.Routine, bool) {
	c, ok := a.CurrentConnection()
	if !ok || a.SelectedRoutine < 0 || a.SelectedRoutine >= len(c.Routines) {
		return nil, false
	}
	return &c.Routines[a.SelectedRoutine], true
}

// connectionTarget snapshots where a connection-level response must land.
func (a *App) connectionTarget(projectIdx, connIdx int) worker.ConnectionTarget {
	t := worker.ConnectionTarget{ProjectIdx: projectIdx, ConnectionIdx: connIdx}
	if projectIdx >= 0 && projectIdx < len(a.Projects) {
		if c, ok := a.Projects[projectIdx].Connection(connIdx); ok {
			t.ConnectionID = c.ID
		}
	}
	return t
}

// resolveConnection re-validates a target against the current tree.
func (a *App) resolveConnection(t worker.ConnectionTarget) (*model.Connection, bool) {
	if t.ProjectIdx < 0 || t.ProjectIdx >= len(a.Projects) {
		return nil, false
	}
	c, ok := a.Projects[t.ProjectIdx].Connection(t.ConnectionIdx)
	if !ok || c.ID != t.ConnectionID {
		return nil, false
	}
	return c, true
}

func (a *App) resolveTable(t worker.TableTarget) (*drivers.Table, bool) {
	c, ok := a.resolveConnection(t.ConnectionTarget)
	if !ok || c.TablesGeneration != t.TablesGeneration {
		return nil, false
	}
	return c.Table(t.TableIdx)
}

// PageRows returns the rows of the current page.
func (a *App) PageRows() [][]string {
	if a.Result == nil {
		return nil
	}
	start, end := a.Pagination.StartIndex(), a.Pagination.EndIndex()
	end = min(end, len(a.Result.Rows))
	if start >= end {
		return nil
	}
	return a.Result.Rows[start:end]
}

// SelectedRow returns the row under the data cursor.
func (a *App) SelectedRow() ([]string, bool) {
	if a.Result == nil || a.DataCursor < 0 || a.DataCursor >= len(a.Result.Rows) {
		return nil, false
	}
	return a.Result.Rows[a.DataCursor], true
}
