package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/logger"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/worker"
)

const (
	statusSendFailed = "Failed to send command to DB worker"
	statusNoWorker   = "DB worker not initialized"
)

func (a *App) nextRequestID() uint64 {
	a.requestID++
	return a.requestID
}

// send hands cmd to the worker and reports whether it was queued. Failures
// become a status message.
func (a *App) send(cmd worker.Command) bool {
	if a.worker == nil {
		a.Status = statusNoWorker
		return false
	}
	if err := a.worker.Send(cmd); err != nil {
		logger.Error("Failed to send command", map[string]any{
			"command": fmt.Sprintf("%T", cmd),
			"error":   err.Error(),
		})
		a.Status = statusSendFailed
		return false
	}
	return true
}

func (a *App) sendFetchTables(conn *model.Connection, projectIdx, connIdx int) {
	target := a.connectionTarget(projectIdx, connIdx)
	cmd := worker.FetchTables{
		RequestID: a.nextRequestID(),
		Params:    conn.Params(),
		Schema:    a.schema,
		Target:    target,
	}
	if a.send(cmd) {
		a.Loading.startFetchingTables(target)
	}
}

func (a *App) sendFetchRoutines(conn *model.Connection, projectIdx, connIdx int) {
	target := a.connectionTarget(projectIdx, connIdx)
	cmd := worker.FetchRoutines{
		RequestID: a.nextRequestID(),
		Params:    conn.Params(),
		Schema:    a.schema,
		Target:    target,
	}
	if a.send(cmd) {
		a.Loading.startFetchingRoutines(target)
	}
}

func (a *App) sendFetchTableDetails(conn *model.Connection, projectIdx, connIdx, tableIdx int) {
	table, ok := conn.Table(tableIdx)
	if !ok {
		return
	}
	schema := table.Schema
	if schema == "" {
		schema = a.schema
	}
	target := worker.TableTarget{
		ConnectionTarget: a.connectionTarget(projectIdx, connIdx),
		TableIdx:         tableIdx,
		TablesGeneration: conn.TablesGeneration,
	}
	cmd := worker.FetchTableDetails{
		RequestID: a.nextRequestID(),
		Params:    conn.Params(),
		TableName: table.Name,
		Schema:    schema,
		Target:    target,
	}
	if a.send(cmd) {
		a.Loading.startFetchingDetails(target)
	}
}

func (a *App) sendExecuteQuery(conn *model.Connection, query string, projectIdx int) {
	a.pending = &pendingQuery{connection: conn.Name, database: conn.Database, query: query}
	cmd := worker.ExecuteQuery{
		RequestID:  a.nextRequestID(),
		Params:     conn.Params(),
		Query:      query,
		ProjectIdx: projectIdx,
	}
	if a.send(cmd) {
		a.Loading.startExecutingQuery()
		return
	}
	a.pending = nil
}

// fetchTableDetailsIfNeeded requests details for the selected table unless
// they are loaded or any details fetch is already in flight.
func (a *App) fetchTableDetailsIfNeeded() {
	conn, ok := a.CurrentConnection()
	if !ok {
		return
	}
	table, ok := conn.Table(a.SelectedTable)
	if !ok || table.DetailsLoaded || a.Loading.FetchingDetails != nil {
		return
	}
	a.sendFetchTableDetails(conn, a.SelectedProject, a.SelectedConnection, a.SelectedTable)
}

// ProcessDBResponses drains every response that is ready and applies them
// in arrival order. It never blocks.
func (a *App) ProcessDBResponses() {
	if a.worker == nil {
		return
	}
	for {
		resp, err := a.worker.TryRecv()
		if err != nil {
			if errors.Is(err, worker.ErrClosed) {
				logger.Debug("DB worker closed", nil)
			}
			return
		}
		a.handleResponse(resp)
	}
}

func (a *App) handleResponse(resp worker.Response) {
	switch r := resp.(type) {
	case worker.TablesLoaded:
		a.handleTablesLoaded(r)
	case worker.TableDetailsLoaded:
		a.handleTableDetailsLoaded(r)
	case worker.RoutinesLoaded:
		a.handleRoutinesLoaded(r)
	case worker.QueryExecuted:
		a.handleQueryExecuted(r)
	default:
		logger.Warn("Unknown DB response", map[string]any{"type": fmt.Sprintf("%T", resp)})
	}
}

func dropStale(kind string, id uint64, target any) {
	logger.Debug("Dropping stale response", map[string]any{
		"kind":       kind,
		"request_id": id,
		"target":     fmt.Sprintf("%+v", target),
	})
}

func (a *App) handleTablesLoaded(r worker.TablesLoaded) {
	a.Loading.doneFetchingTables(r.Target)
	defer a.Loading.finish()

	conn, ok := a.resolveConnection(r.Target)
	if !ok {
		dropStale("tables", r.RequestID, r.Target)
		return
	}
	if r.Failed() {
		conn.Expanded = false
		a.Status = "Failed to get tables: " + r.Err
		return
	}
	conn.SetTables(r.Tables)
	a.Status = fmt.Sprintf("Loaded %d tables", len(r.Tables))

	// routines follow the table list so the first expand fills the whole tree
	if !conn.RoutinesLoaded && !a.Loading.IsFetchingRoutinesFor(r.Target.ProjectIdx, r.Target.ConnectionIdx) {
		a.sendFetchRoutines(conn, r.Target.ProjectIdx, r.Target.ConnectionIdx)
	}
}

func (a *App) handleTableDetailsLoaded(r worker.TableDetailsLoaded) {
	a.Loading.doneFetchingDetails(r.Target)
	a.applyTableDetails(r)

	// the selection may have moved on while these details were in flight
	if !a.isSelected(r.Target) {
		a.fetchTableDetailsIfNeeded()
	}
	a.Loading.finish()
}

func (a *App) isSelected(t worker.TableTarget) bool {
	return t.ProjectIdx == a.SelectedProject &&
		t.ConnectionIdx == a.SelectedConnection &&
		t.TableIdx == a.SelectedTable
}

func (a *App) applyTableDetails(r worker.TableDetailsLoaded) {
	table, ok := a.resolveTable(r.Target)
	if !ok {
		dropStale("details", r.RequestID, r.Target)
		return
	}
	if r.Failed() {
		a.Status = "Failed to get table details: " + r.Err
		return
	}
	d := r.Table
	table.Columns = d.Columns
	table.Indexes = d.Indexes
	table.ForeignKeys = d.ForeignKeys
	table.Constraints = d.Constraints
	table.Triggers = d.Triggers
	if d.ViewDefinition != "" {
		table.ViewDefinition = d.ViewDefinition
	}
	if d.RowCount >= 0 {
		table.RowCount = d.RowCount
	}
	if d.SizeBytes >= 0 {
		table.SizeBytes = d.SizeBytes
	}
	if d.Comment != "" {
		table.Comment = d.Comment
	}
	table.DetailsLoaded = true
	a.Status = "Loaded schema for " + table.Name
}

func (a *App) handleRoutinesLoaded(r worker.RoutinesLoaded) {
	a.Loading.doneFetchingRoutines(r.Target)
	defer a.Loading.finish()

	conn, ok := a.resolveConnection(r.Target)
	if !ok {
		dropStale("routines", r.RequestID, r.Target)
		return
	}
	if r.Failed() {
		a.Status = "Failed to get routines: " + r.Err
		return
	}
	conn.Routines = r.Routines
	conn.RoutinesLoaded = true
	a.Status = fmt.Sprintf("Loaded %d routines", len(r.Routines))
}

func (a *App) handleQueryExecuted(r worker.QueryExecuted) {
	a.Loading.ExecutingQuery = false
	defer a.Loading.finish()

	info := a.pending
	a.pending = nil

	if r.Failed() {
		if info != nil {
			a.History.Add(history.Error(info.query, info.connection, info.database, r.Err))
			a.HistoryDirty = true
		}
		a.Result = nil
		a.Pagination.Reset(0)
		a.DataCursor = 0
		a.Status = "Query failed: " + r.Err
		return
	}

	result := r.Result
	rows := len(result.Rows)
	if info != nil {
		elapsed := time.Duration(result.ExecutionTimeMs) * time.Millisecond
		a.History.Add(history.Success(info.query, info.connection, info.database, elapsed, rows))
		a.HistoryDirty = true
		a.Status = fmt.Sprintf("Fetched %d rows from %s", rows, info.database)
	}
	a.Pagination.Reset(rows)
	a.Result = &result
	a.DataCursor = 0
}
