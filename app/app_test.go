package app

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/history"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/modal"
	"github.com/sheenazien8/lazydb/worker"
)

type fakeWorker struct {
	sent    []worker.Command
	ready   []worker.Response
	sendErr error
}

func (f *fakeWorker) Send(cmd worker.Command) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeWorker) TryRecv() (worker.Response, error) {
	if len(f.ready) == 0 {
		return nil, worker.ErrEmpty
	}
	r := f.ready[0]
	f.ready = f.ready[1:]
	return r, nil
}

func tables(names ...string) []drivers.Table {
	out := make([]drivers.Table, len(names))
	for i, n := range names {
		out[i] = drivers.NewTable(n, "public", drivers.TableTypeBase)
	}
	return out
}

func conn(name string, expanded bool, tableNames ...string) model.Connection {
	c := model.NewConnection(name, "localhost", 5432, "app", "me", "")
	c.Expanded = expanded
	if len(tableNames) > 0 {
		c.SetTables(tables(tableNames...))
	}
	return c
}

// newTestApp opens a project with C0(expanded: T0, T1), C1 and C2(expanded,
// no tables) in the connection tree.
func newTestApp(t *testing.T) (*App, *fakeWorker) {
	t.Helper()
	w := &fakeWorker{}
	p := model.NewProject("demo")
	p.Connections = []model.Connection{
		conn("C0", true, "T0", "T1"),
		conn("C1", false),
		conn("C2", true),
	}
	a := New(Options{Projects: []model.Project{p}, Worker: w})
	a.Update(Msg(Activate))
	return a, w
}

func send(a *App, kinds ...Kind) {
	for _, k := range kinds {
		a.Update(Msg(k))
	}
}

func typeText(a *App, k Kind, s string) {
	for _, r := range s {
		a.Update(Char(k, r))
	}
}

func TestFlattenAndWrap(t *testing.T) {
	a, _ := newTestApp(t)

	want := []navItem{
		{0, none, none}, {0, 0, none}, {0, 1, none}, {1, none, none}, {2, none, none},
	}
	if got := a.navItems(); !reflect.DeepEqual(got, want) {
		t.Fatalf("navItems = %v, want %v", got, want)
	}

	for i := 1; i <= len(want); i++ {
		a.Update(Msg(NavigateDown))
		w := want[i%len(want)]
		if a.SelectedConnection != w.conn || a.SelectedTable != w.table {
			t.Errorf("step %d: at (%d, %d), want (%d, %d)", i, a.SelectedConnection, a.SelectedTable, w.conn, w.table)
		}
	}

	a.Update(Msg(NavigateUp))
	if a.SelectedConnection != 2 || a.SelectedTable != none {
		t.Errorf("up from C0 = (%d, %d), want C2", a.SelectedConnection, a.SelectedTable)
	}
}

func TestNavigationRequiresSidebarFocus(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(Msg(NextFocus))
	a.Update(Msg(NavigateDown))
	if a.SelectedTable != none {
		t.Errorf("navigated while %v had focus", a.Focus)
	}
}

func TestLandingOnTableFetchesDetailsOnce(t *testing.T) {
	a, w := newTestApp(t)
	send(a, NavigateDown, NavigateDown)

	if len(w.sent) != 1 {
		t.Fatalf("sent %d commands, want 1", len(w.sent))
	}
	cmd, ok := w.sent[0].(worker.FetchTableDetails)
	if !ok || cmd.TableName != "T0" || cmd.Target.TableIdx != 0 {
		t.Fatalf("sent %+v", w.sent[0])
	}
	if a.Loading.Message != "Loading table details..." {
		t.Errorf("loading message = %q", a.Loading.Message)
	}
}

func TestProjectsMode(t *testing.T) {
	w := &fakeWorker{}
	a := New(Options{
		Projects: []model.Project{model.NewProject("one"), model.NewProject("two")},
		Worker:   w,
	})
	a.Update(Msg(NavigateUp))
	if a.SelectedProject != 1 {
		t.Errorf("up from first project = %d", a.SelectedProject)
	}
	a.Update(Msg(Activate))
	if a.Mode != ModeConnections || a.Status != "Project: two" {
		t.Errorf("mode %v, status %q", a.Mode, a.Status)
	}
	a.Update(Msg(GoBack))
	if a.Mode != ModeProjects || a.Status != "Projects" {
		t.Errorf("mode %v, status %q", a.Mode, a.Status)
	}
}

func TestActivateTableSingleInFlight(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedTable = 1
	a.Update(Msg(Activate))

	if len(w.sent) != 1 {
		t.Fatalf("sent %d commands, want 1", len(w.sent))
	}
	cmd := w.sent[0].(worker.ExecuteQuery)
	if cmd.Query != `SELECT * FROM "T1"` || a.Query != `SELECT * FROM "T1";` {
		t.Errorf("query = %q, buffer = %q", cmd.Query, a.Query)
	}
	if !a.Loading.ExecutingQuery {
		t.Fatal("executing flag not set")
	}

	before := a.Query
	a.SelectedTable = 0
	a.Update(Msg(Activate))
	if len(w.sent) != 1 || a.Query != before {
		t.Errorf("second activate while executing sent %d commands, query %q", len(w.sent), a.Query)
	}
}

func TestSelectAllQuoting(t *testing.T) {
	tests := []struct {
		driver, name, want string
	}{
		{drivers.DriverPostgreSQL, `we"ird`, `SELECT * FROM "we""ird"`},
		{drivers.DriverMySQL, "we`ird", "SELECT * FROM `we``ird`"},
		{drivers.DriverSQLite, "users", `SELECT * FROM "users"`},
		{drivers.DriverMongoDB, "events", "db.events.find({})"},
	}
	for _, tt := range tests {
		if got := selectAllQuery(tt.driver, tt.name); got != tt.want {
			t.Errorf("selectAllQuery(%s, %q) = %q, want %q", tt.driver, tt.name, got, tt.want)
		}
	}
}

func TestToggleExpandFetchesTablesThenRoutines(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedConnection = 1
	a.Update(Msg(Activate))

	if len(w.sent) != 1 {
		t.Fatalf("sent %d commands", len(w.sent))
	}
	ft := w.sent[0].(worker.FetchTables)
	if ft.Schema != "public" || ft.Target.ConnectionIdx != 1 {
		t.Errorf("FetchTables = %+v", ft)
	}

	// collapsing and re-expanding while the fetch is in flight is ignored
	a.Update(Msg(Activate))
	if !a.Projects[0].Connections[1].Expanded {
		t.Error("toggle applied while tables were loading")
	}

	w.ready = append(w.ready, worker.TablesLoaded{RequestID: ft.RequestID, Target: ft.Target, Tables: tables("a", "b", "c")})
	a.ProcessDBResponses()

	c := a.Projects[0].Connections[1]
	if len(c.Tables) != 3 || a.Status != "Loaded 3 tables" {
		t.Errorf("tables = %d, status %q", len(c.Tables), a.Status)
	}
	if len(a.Loading.FetchingTables) != 0 {
		t.Error("fetching tables flag not cleared")
	}
	fr, ok := w.sent[len(w.sent)-1].(worker.FetchRoutines)
	if !ok {
		t.Fatalf("last command = %T, want FetchRoutines", w.sent[len(w.sent)-1])
	}

	w.ready = append(w.ready, worker.RoutinesLoaded{
		RequestID: fr.RequestID,
		Target:    fr.Target,
		Routines:  []drivers.Routine{{Name: "f"}},
	})
	a.ProcessDBResponses()
	c = a.Projects[0].Connections[1]
	if !c.RoutinesLoaded || a.Status != "Loaded 1 routines" || a.Loading.IsLoading() {
		t.Errorf("routines loaded=%v status=%q loading=%v", c.RoutinesLoaded, a.Status, a.Loading.IsLoading())
	}

	// routines follow the tables in the tree
	items := a.navItems()
	if last := items[len(items)-2]; last.conn != 1 || last.routine != 0 {
		t.Errorf("routine item = %+v", last)
	}
}

func TestTablesLoadedFailureCollapses(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedConnection = 1
	a.Update(Msg(Activate))
	ft := w.sent[0].(worker.FetchTables)

	w.ready = append(w.ready, worker.TablesLoaded{RequestID: ft.RequestID, Target: ft.Target, Err: "connection: refused"})
	a.ProcessDBResponses()
	if a.Projects[0].Connections[1].Expanded {
		t.Error("connection still expanded after failure")
	}
	if a.Status != "Failed to get tables: connection: refused" {
		t.Errorf("status = %q", a.Status)
	}
}

func TestStaleDetailsDropped(t *testing.T) {
	a, w := newTestApp(t)
	send(a, NavigateDown, NavigateDown, NavigateDown)
	fd := w.sent[0].(worker.FetchTableDetails)

	// the table list is replaced before the response arrives
	a.Projects[0].Connections[0].SetTables(tables("X0", "X1"))
	w.ready = append(w.ready, worker.TableDetailsLoaded{
		RequestID: fd.RequestID,
		Target:    fd.Target,
		Table:     drivers.Table{Name: "T0", Columns: []drivers.Column{{Name: "id"}}},
	})
	a.ProcessDBResponses()

	for _, tb := range a.Projects[0].Connections[0].Tables {
		if tb.DetailsLoaded || len(tb.Columns) > 0 {
			t.Errorf("stale response mutated %s", tb.Name)
		}
	}
	if a.Loading.FetchingDetails != nil {
		t.Error("details flag not cleared by the dropped response")
	}

	// out of range index
	target := fd.Target
	target.TablesGeneration = a.Projects[0].Connections[0].TablesGeneration
	target.TableIdx = 7
	w.ready = append(w.ready, worker.TableDetailsLoaded{RequestID: 99, Target: target})
	a.ProcessDBResponses()

	// a removed connection
	a.Projects[0].Connections = a.Projects[0].Connections[1:]
	w.ready = append(w.ready, worker.TablesLoaded{RequestID: 100, Target: fd.Target.ConnectionTarget, Tables: tables("z")})
	a.ProcessDBResponses()
	for _, c := range a.Projects[0].Connections {
		if len(c.Tables) == 1 && c.Tables[0].Name == "z" {
			t.Errorf("tables landed on %s", c.Name)
		}
	}
}

func fetchTablesFor(w *fakeWorker, connIdx int) []worker.FetchTables {
	var out []worker.FetchTables
	for _, c := range w.sent {
		if ft, ok := c.(worker.FetchTables); ok && ft.Target.ConnectionIdx == connIdx {
			out = append(out, ft)
		}
	}
	return out
}

func TestTableFetchesGuardedPerConnection(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedConnection = 1
	a.Update(Msg(Activate))
	a.SelectedConnection = 2
	send(a, Activate, Activate)

	c1, c2 := fetchTablesFor(w, 1), fetchTablesFor(w, 2)
	if len(c1) != 1 || len(c2) != 1 {
		t.Fatalf("fetches sent: C1=%d C2=%d", len(c1), len(c2))
	}

	w.ready = append(w.ready, worker.TablesLoaded{RequestID: c1[0].RequestID, Target: c1[0].Target, Tables: tables("a")})
	a.ProcessDBResponses()
	if !a.Loading.IsFetchingTablesFor(0, 2) {
		t.Fatal("C1 response cleared the C2 fetch")
	}
	if !a.Loading.IsFetchingRoutinesFor(0, 1) {
		t.Fatal("routines not requested for C1")
	}

	send(a, Activate, Activate)
	if n := len(fetchTablesFor(w, 2)); n != 1 {
		t.Errorf("FetchTables for C2 sent %d times while one was outstanding", n)
	}
	if !a.Projects[0].Connections[2].Expanded {
		t.Error("C2 toggled while its tables were loading")
	}

	w.ready = append(w.ready, worker.TablesLoaded{RequestID: c2[0].RequestID, Target: c2[0].Target, Tables: tables("b")})
	a.ProcessDBResponses()
	if !a.Loading.IsFetchingRoutinesFor(0, 1) || !a.Loading.IsFetchingRoutinesFor(0, 2) {
		t.Errorf("routine fetches in flight = %v", a.Loading.FetchingRoutines)
	}
	if a.Projects[0].Connections[2].TablesGeneration != 1 {
		t.Errorf("C2 table list replaced %d times", a.Projects[0].Connections[2].TablesGeneration)
	}
}

func TestDetailsFetchedForTableSelectedWhileLoading(t *testing.T) {
	a, w := newTestApp(t)
	send(a, NavigateDown, NavigateDown)
	if len(w.sent) != 1 {
		t.Fatalf("sent %d commands, want details for T0 only", len(w.sent))
	}
	fd := w.sent[0].(worker.FetchTableDetails)

	w.ready = append(w.ready, worker.TableDetailsLoaded{
		RequestID: fd.RequestID,
		Target:    fd.Target,
		Table:     drivers.Table{Name: "T0", Columns: []drivers.Column{{Name: "id"}}},
	})
	a.ProcessDBResponses()

	if !a.Projects[0].Connections[0].Tables[0].DetailsLoaded {
		t.Error("T0 details not applied")
	}
	next, ok := w.sent[len(w.sent)-1].(worker.FetchTableDetails)
	if !ok || next.TableName != "T1" || next.Target.TableIdx != 1 {
		t.Fatalf("last command = %+v, want details for T1", w.sent[len(w.sent)-1])
	}
	if a.Loading.FetchingDetails == nil || *a.Loading.FetchingDetails != next.Target {
		t.Errorf("details slot = %v", a.Loading.FetchingDetails)
	}
}

func TestDetailsApplied(t *testing.T) {
	a, w := newTestApp(t)
	send(a, NavigateDown)
	fd := w.sent[0].(worker.FetchTableDetails)

	detail := drivers.Table{
		Name:    "T0",
		Columns: []drivers.Column{{Name: "id", IsPrimaryKey: true}},
		Indexes: []drivers.Index{{Name: "t0_pkey"}},
	}
	w.ready = append(w.ready, worker.TableDetailsLoaded{RequestID: fd.RequestID, Target: fd.Target, Table: detail})
	a.ProcessDBResponses()

	tb := a.Projects[0].Connections[0].Tables[0]
	if !tb.DetailsLoaded || len(tb.Columns) != 1 || len(tb.Indexes) != 1 {
		t.Errorf("table = %+v", tb)
	}
	if a.Status != "Loaded schema for T0" {
		t.Errorf("status = %q", a.Status)
	}

	// moving away and back does not refetch
	send(a, NavigateUp, NavigateDown)
	if len(w.sent) != 1 {
		t.Errorf("refetched loaded details: %d commands", len(w.sent))
	}
}

func TestQueryExecuted(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedTable = 0
	a.Update(Msg(Activate))
	q := w.sent[0].(worker.ExecuteQuery)

	result := drivers.QueryResult{Columns: []string{"id"}, Rows: [][]string{{"1"}, {"2"}}, ExecutionTimeMs: 12}
	w.ready = append(w.ready, worker.QueryExecuted{RequestID: q.RequestID, Result: result})
	a.ProcessDBResponses()

	if a.Result == nil || a.Pagination.TotalRows != 2 {
		t.Fatalf("result %v, pagination %+v", a.Result, a.Pagination)
	}
	if a.Status != "Fetched 2 rows from app" {
		t.Errorf("status = %q", a.Status)
	}
	e, _ := a.History.Get(0)
	if a.History.Len() != 1 || !e.Success || e.RowCount != 2 || e.ConnectionName != "C0" {
		t.Errorf("history entry = %+v", e)
	}
	if !a.HistoryDirty || a.Loading.ExecutingQuery {
		t.Errorf("dirty=%v executing=%v", a.HistoryDirty, a.Loading.ExecutingQuery)
	}

	a.Update(Msg(Activate))
	q = w.sent[1].(worker.ExecuteQuery)
	w.ready = append(w.ready, worker.QueryExecuted{RequestID: q.RequestID, Err: "query: boom"})
	a.ProcessDBResponses()
	if a.Result != nil || a.Status != "Query failed: query: boom" {
		t.Errorf("result %v, status %q", a.Result, a.Status)
	}
	// same query on the same target replaces the newest entry
	if e, _ := a.History.Get(0); a.History.Len() != 1 || e.Success {
		t.Errorf("history = %d entries, newest %+v", a.History.Len(), e)
	}
}

func TestSendFailures(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedTable = 0
	w.sendErr = errors.New("closed")
	a.Update(Msg(Activate))
	if a.Status != "Failed to send command to DB worker" || a.Loading.ExecutingQuery {
		t.Errorf("status %q, executing %v", a.Status, a.Loading.ExecutingQuery)
	}
	if a.pending != nil {
		t.Error("pending query kept after a failed send")
	}

	a.SetWorker(nil)
	a.Update(Msg(Activate))
	if a.Status != "DB worker not initialized" {
		t.Errorf("status = %q", a.Status)
	}
	a.ProcessDBResponses()
}

func TestRequestIDsIncrease(t *testing.T) {
	a, w := newTestApp(t)
	a.SelectedConnection = 1
	a.Update(Msg(Activate))
	send(a, NavigateDown)
	a.SelectedTable = 0
	a.SelectedConnection = 0
	a.Update(Msg(Activate))

	var last uint64
	for _, c := range w.sent {
		id := reflect.ValueOf(c).FieldByName("RequestID").Uint()
		if id <= last {
			t.Errorf("request id %d after %d", id, last)
		}
		last = id
	}
}

func TestAddConnectionForm(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(Msg(OpenAddConnectionModal))
	if _, ok := a.Modal.(*modal.AddConnection); !ok {
		t.Fatalf("modal = %T", a.Modal)
	}

	typeText(a, ModalInputChar, "local")
	send(a, ModalNextField, ModalNextField)
	send(a, ModalInputBackspace, ModalInputBackspace, ModalInputBackspace, ModalInputBackspace)
	a.Update(Char(ModalInputChar, '0'))
	a.Update(Msg(ModalConfirm))

	if _, ok := a.Modal.(*modal.AddConnection); !ok {
		t.Fatal("invalid form closed the dialog")
	}
	if a.Status != statusInvalidConnection || len(a.Projects[0].Connections) != 3 {
		t.Errorf("status %q, %d connections", a.Status, len(a.Projects[0].Connections))
	}

	m := a.Modal.(*modal.AddConnection)
	m.Port, m.User, m.Database = "5433", "me", "app"
	a.Update(Msg(ModalConfirm))
	if a.Modal != nil || a.Status != "Connection added" || !a.ProjectsDirty {
		t.Errorf("modal %T, status %q", a.Modal, a.Status)
	}
	if got := a.Projects[0].Connections[3]; got.Name != "local" || got.Port != 5433 {
		t.Errorf("added %+v", got)
	}
}

func TestProjectDialogs(t *testing.T) {
	a := New(Options{Projects: []model.Project{model.NewProject("one")}})

	a.Update(Msg(OpenAddProjectModal))
	a.Update(Char(ModalInputChar, ' '))
	a.Update(Msg(ModalConfirm))
	if a.Status != "Project name cannot be empty" || a.Modal == nil {
		t.Fatalf("blank name: status %q, modal %T", a.Status, a.Modal)
	}
	typeText(a, ModalInputChar, "two")
	a.Update(Msg(ModalConfirm))
	if len(a.Projects) != 2 || a.SelectedProject != 1 || a.Status != "Project added" {
		t.Fatalf("projects %d, selected %d, status %q", len(a.Projects), a.SelectedProject, a.Status)
	}

	a.Update(Msg(OpenEditProjectModal))
	typeText(a, ModalInputChar, "!")
	a.Update(Msg(ModalConfirm))
	if a.Projects[1].Name != "two!" || a.Status != "Project updated" {
		t.Errorf("name %q, status %q", a.Projects[1].Name, a.Status)
	}

	// confirming on Cancel closes without deleting
	a.Update(Msg(DeleteProject))
	a.Update(Msg(ModalConfirm))
	if a.Modal != nil || len(a.Projects) != 2 {
		t.Fatalf("cancelled delete: modal %T, %d projects", a.Modal, len(a.Projects))
	}

	a.Update(Msg(DeleteProject))
	a.Update(Msg(ModalNextField))
	a.Update(Msg(ModalConfirm))
	if len(a.Projects) != 1 || a.SelectedProject != 0 || a.Status != "Project deleted" {
		t.Errorf("projects %d, selected %d, status %q", len(a.Projects), a.SelectedProject, a.Status)
	}
}

func TestModalOpenRules(t *testing.T) {
	a, _ := newTestApp(t)

	a.Update(Msg(OpenEditProjectModal))
	a.Update(Msg(OpenSearchProjectModal))
	if a.Modal != nil {
		t.Errorf("project dialog %T opened in connections mode", a.Modal)
	}

	a.SelectedConnection = 1
	a.Update(Msg(OpenSearchTableModal))
	if a.Modal != nil {
		t.Error("table search opened on a collapsed connection")
	}

	a.Panel = PanelData
	a.Update(Msg(OpenColumnVisibilityModal))
	if a.Modal != nil {
		t.Error("column visibility opened outside the schema tab")
	}

	a.Update(Msg(OpenHistoryModal))
	if a.Modal != nil || a.Status != "No query history" {
		t.Errorf("empty history: modal %T, status %q", a.Modal, a.Status)
	}
}

func TestSearchDialogs(t *testing.T) {
	a, _ := newTestApp(t)

	a.Update(Msg(OpenSearchConnectionModal))
	typeText(a, ModalInputChar, "c2")
	a.Update(Msg(SearchConnectionConfirm))
	if a.SelectedConnection != 2 || a.Status != "Selected: C2" || a.Modal != nil {
		t.Errorf("selected %d, status %q", a.SelectedConnection, a.Status)
	}

	a.SelectedConnection = 0
	a.Update(Msg(OpenUnifiedSearchModal))
	us := a.Modal.(*modal.UnifiedSearch)
	if us.Active != modal.SectionTables || us.Tables.Len() != 2 {
		t.Fatalf("unified search = %+v", us)
	}
	typeText(a, ModalInputChar, "t1")
	a.Update(Msg(UnifiedSearchConfirm))
	if a.SelectedTable != 1 || a.Status != "Selected: T1" {
		t.Errorf("selected table %d, status %q", a.SelectedTable, a.Status)
	}

	a.Update(Msg(OpenUnifiedSearchModal))
	a.Update(Msg(UnifiedSearchSwitchSection))
	a.Update(Msg(ModalNextField))
	a.Update(Msg(ModalConfirm))
	if a.SelectedConnection != 1 || a.SelectedTable != none {
		t.Errorf("unified connection confirm = (%d, %d)", a.SelectedConnection, a.SelectedTable)
	}
}

func TestColumnVisibilityToggle(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(Msg(SwitchToIndexes))
	a.Update(Msg(OpenColumnVisibilityModal))
	a.Update(Msg(ModalNextField))
	a.Update(Msg(ToggleColumnVisibility))
	if a.Visibility.Visible(model.SchemaIndexes, 1) {
		t.Error("Type column still visible")
	}
	a.Update(Msg(ModalConfirm))
	if a.Modal != nil {
		t.Error("confirm did not close the dialog")
	}
}

func TestSwitchToDefinitionOnlyForViews(t *testing.T) {
	a, _ := newTestApp(t)
	a.SelectedTable = 0
	a.Update(Msg(SwitchToDefinition))
	if a.SchemaTab == model.SchemaDefinition {
		t.Error("definition tab opened for a base table")
	}
	a.Projects[0].Connections[0].Tables[0].Type = drivers.TableTypeView
	a.Update(Msg(SwitchToDefinition))
	if a.SchemaTab != model.SchemaDefinition || a.Panel != PanelSchema {
		t.Errorf("tab %v, panel %v", a.SchemaTab, a.Panel)
	}
}

func TestFocusCycle(t *testing.T) {
	a, _ := newTestApp(t)
	want := []Focus{FocusQueryEditor, FocusMainPanel, FocusSidebar}
	for _, f := range want {
		a.Update(Msg(NextFocus))
		if a.Focus != f {
			t.Fatalf("NextFocus = %v, want %v", a.Focus, f)
		}
	}
	a.Update(Msg(PrevFocus))
	if a.Focus != FocusMainPanel {
		t.Errorf("PrevFocus from sidebar = %v", a.Focus)
	}
	send(a, FocusUp)
	if a.Focus != FocusQueryEditor {
		t.Errorf("FocusUp = %v", a.Focus)
	}
	send(a, FocusLeft, FocusRight, FocusDown)
	if a.Focus != FocusMainPanel {
		t.Errorf("left, right, down = %v", a.Focus)
	}
}

func TestDataTableStaysOnPage(t *testing.T) {
	a, _ := newTestApp(t)
	rows := make([][]string, 125)
	for i := range rows {
		rows[i] = []string{"r"}
	}
	a.Result = &drivers.QueryResult{Columns: []string{"c"}, Rows: rows}
	a.Pagination = model.NewPagination(125)

	steps := []struct {
		kind Kind
		want int
	}{
		{DataTableUp, 0},
		{DataTablePageDown, 10},
		{DataTableLast, 49},
		{DataTableDown, 49},
		{PageNext, 50},
		{DataTablePageUp, 50},
		{DataTableLast, 99},
		{PageLast, 100},
		{DataTableLast, 124},
		{DataTablePageDown, 124},
		{DataTableFirst, 100},
		{PageFirst, 0},
	}
	for _, s := range steps {
		a.Update(Msg(s.kind))
		if a.DataCursor != s.want {
			t.Fatalf("after %v cursor = %d, want %d", s.kind, a.DataCursor, s.want)
		}
	}
}

func TestQueryInputExecute(t *testing.T) {
	w := &fakeWorker{}
	p := model.NewProject("demo")
	p.Connections = []model.Connection{conn("C0", false)}
	a := New(Options{Projects: []model.Project{p}, Worker: w})

	a.Update(Msg(OpenQueryInputModal))
	a.Update(Msg(QueryInputExecute))
	if a.Status != "Query is empty" {
		t.Errorf("status = %q", a.Status)
	}

	typeText(a, QueryInputChar, "SELECT 1;")
	a.Update(Msg(QueryInputExecute))
	if a.Status != "No connection selected" || len(w.sent) != 0 {
		t.Errorf("status %q, sent %d", a.Status, len(w.sent))
	}

	a.Modal = nil
	a.Update(Msg(Activate))
	a.Update(Msg(OpenQueryInputModal))
	typeText(a, QueryInputChar, "SELECT 1;")
	a.Update(Msg(QueryInputExecute))
	if len(w.sent) != 1 || a.Modal != nil {
		t.Fatalf("sent %d, modal %T", len(w.sent), a.Modal)
	}
	if q := w.sent[0].(worker.ExecuteQuery).Query; q != "SELECT 1" {
		t.Errorf("query = %q", q)
	}
}

func TestQueryInputFormat(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(Msg(OpenQueryInputModal))
	typeText(a, QueryInputChar, "SELEC FROM")
	a.Update(Msg(QueryInputFormat))
	if !strings.HasPrefix(a.Status, "Format failed: ") {
		t.Errorf("status = %q", a.Status)
	}

	a.Update(Msg(QueryInputClear))
	typeText(a, QueryInputChar, "select a from t")
	a.Update(Msg(QueryInputFormat))
	m := a.Modal.(*modal.QueryInput)
	if !strings.Contains(m.Query, "SELECT") || a.Status != "Query formatted" {
		t.Errorf("formatted %q, status %q", m.Query, a.Status)
	}
}

func TestHistoryDialog(t *testing.T) {
	h := history.New(10)
	h.Add(history.Success("SELECT 1", "c1", "d", 0, 1))
	h.Add(history.Success("SELECT 2", "c2", "d", 0, 1))
	a := New(Options{History: h})

	a.Update(Msg(OpenHistoryModal))
	a.Update(Msg(HistoryNavigateDown))
	a.Update(Msg(HistorySelectEntry))
	if a.Query != "SELECT 1" || a.Status != "Loaded query from history (c1)" || a.Modal != nil {
		t.Errorf("query %q, status %q", a.Query, a.Status)
	}

	a.Update(Msg(OpenHistoryModal))
	a.Update(Msg(ClearHistory))
	if !h.IsEmpty() || !a.HistoryDirty || a.Modal != nil || a.Status != "Query history cleared" {
		t.Errorf("len %d, dirty %v, status %q", h.Len(), a.HistoryDirty, a.Status)
	}
}

func TestYank(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(Msg(YankQuery))
	if _, _, ok := a.TakeYank(); ok || a.Status != "Nothing to copy" {
		t.Errorf("empty query yanked, status %q", a.Status)
	}

	a.Result = &drivers.QueryResult{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "x"}}}
	a.Pagination = model.NewPagination(1)
	a.Update(Msg(YankRow))
	text, label, ok := a.TakeYank()
	if !ok || text != "1\tx" || label != "row" {
		t.Errorf("TakeYank = %q, %q, %v", text, label, ok)
	}
	if _, _, ok := a.TakeYank(); ok {
		t.Error("yank not cleared")
	}
}

func TestQuit(t *testing.T) {
	a, _ := newTestApp(t)
	if a.Update(Msg(NavigateDown)) {
		t.Error("navigation asked to quit")
	}
	if !a.Update(Msg(Quit)) {
		t.Error("Quit did not quit")
	}
}
