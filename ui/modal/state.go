// Package modal is the single dialog slot of the application. A State is
// one of a closed set of variants, each owning its own form buffers,
// focus and filter cursors. A nil State means no dialog is open.
package modal

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sheenazien8/lazydb/model"
)

// State is implemented only by the variants in this package.
type State interface {
	Title() string
	sealed()
}

// TextInput is implemented by variants that accept typed characters.
type TextInput interface {
	State
	InputChar(r rune)
	Backspace()
}

// FieldCycler is implemented by variants with Tab/Shift+Tab movement.
type FieldCycler interface {
	State
	NextField()
	PrevField()
}

type ConnectionField int

const (
	FieldName ConnectionField = iota
	FieldHost
	FieldPort
	FieldUser
	FieldPassword
	FieldDatabase
	FieldOK
	FieldCancel
	connectionFieldCount
)

type ProjectField int

const (
	ProjectName ProjectField = iota
	ProjectOK
	ProjectCancel
	projectFieldCount
)

type ConfirmField int

const (
	ConfirmOK ConfirmField = iota
	ConfirmCancel
)

func cycle(v, n, step int) int { return ((v+step)%n + n) % n }

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// AddConnection is the new-connection form.
type AddConnection struct {
	Name     string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Focus    ConnectionField
}

func NewAddConnection() *AddConnection {
	return &AddConnection{Host: "localhost", Port: "5432"}
}

func (*AddConnection) Title() string { return "Add Connection" }
func (*AddConnection) sealed()       {}

func (m *AddConnection) field() *string {
	switch m.Focus {
	case FieldName:
		return &m.Name
	case FieldHost:
		return &m.Host
	case FieldPort:
		return &m.Port
	case FieldUser:
		return &m.User
	case FieldPassword:
		return &m.Password
	case FieldDatabase:
		return &m.Database
	}
	return nil
}

// InputChar appends r to the focused field. The port only takes up to
// five ASCII digits.
func (m *AddConnection) InputChar(r rune) {
	f := m.field()
	if f == nil {
		return
	}
	if m.Focus == FieldPort && (r < '0' || r > '9' || len(m.Port) >= 5) {
		return
	}
	*f += string(r)
}

func (m *AddConnection) Backspace() {
	if f := m.field(); f != nil {
		*f = dropLastRune(*f)
	}
}

func (m *AddConnection) NextField() {
	m.Focus = ConnectionField(cycle(int(m.Focus), int(connectionFieldCount), 1))
}

func (m *AddConnection) PrevField() {
	m.Focus = ConnectionField(cycle(int(m.Focus), int(connectionFieldCount), -1))
}

// Connection builds the connection the form describes. It reports false
// when a required field is empty or the port is outside 1-65535.
func (m *AddConnection) Connection() (model.Connection, bool) {
	port, err := strconv.ParseUint(m.Port, 10, 16)
	if err != nil || port == 0 {
		return model.Connection{}, false
	}
	if m.Name == "" || m.Host == "" || m.Database == "" || m.User == "" {
		return model.Connection{}, false
	}
	return model.NewConnection(m.Name, m.Host, int(port), m.Database, m.User, m.Password), true
}

// ProjectForm is shared by the add and rename dialogs.
type ProjectForm struct {
	Name  string
	Focus ProjectField
}

func (m *ProjectForm) InputChar(r rune) {
	if m.Focus == ProjectName {
		m.Name += string(r)
	}
}

func (m *ProjectForm) Backspace() {
	if m.Focus == ProjectName {
		m.Name = dropLastRune(m.Name)
	}
}

func (m *ProjectForm) NextField() {
	m.Focus = ProjectField(cycle(int(m.Focus), int(projectFieldCount), 1))
}

func (m *ProjectForm) PrevField() {
	m.Focus = ProjectField(cycle(int(m.Focus), int(projectFieldCount), -1))
}

// TrimmedName is the name to store, or "" if it is blank.
func (m *ProjectForm) TrimmedName() string { return strings.TrimSpace(m.Name) }

type AddProject struct{ ProjectForm }

func (*AddProject) Title() string { return "Add Project" }
func (*AddProject) sealed()       {}

// EditProject renames the project at ProjectIdx.
type EditProject struct {
	ProjectForm
	ProjectIdx int
}

func NewEditProject(idx int, name string) *EditProject {
	return &EditProject{ProjectForm: ProjectForm{Name: name}, ProjectIdx: idx}
}

func (*EditProject) Title() string { return "Edit Project" }
func (*EditProject) sealed()       {}

// DeleteProject asks for confirmation. Focus starts on Cancel.
type DeleteProject struct {
	ProjectIdx  int
	ProjectName string
	Focus       ConfirmField
}

func NewDeleteProject(idx int, name string) *DeleteProject {
	return &DeleteProject{ProjectIdx: idx, ProjectName: name, Focus: ConfirmCancel}
}

func (*DeleteProject) Title() string { return "Delete Project" }
func (*DeleteProject) sealed()       {}

func (m *DeleteProject) NextField() { m.Focus = ConfirmField(cycle(int(m.Focus), 2, 1)) }
func (m *DeleteProject) PrevField() { m.Focus = ConfirmField(cycle(int(m.Focus), 2, -1)) }

// Confirmed reports whether the OK button has focus.
func (m *DeleteProject) Confirmed() bool { return m.Focus == ConfirmOK }

// searchList is the behaviour shared by the single-list search dialogs.
type searchList struct{ Filter }

func (m *searchList) InputChar(r rune) { m.appendRune(r) }
func (m *searchList) Backspace()       { m.backspace() }
func (m *searchList) NextField()       { m.Down() }
func (m *searchList) PrevField()       { m.Up() }

type SearchProject struct{ searchList }

func NewSearchProject(n int) *SearchProject {
	return &SearchProject{searchList{NewFilter(n)}}
}

func (*SearchProject) Title() string { return "Search Projects" }
func (*SearchProject) sealed()       {}

type SearchConnection struct{ searchList }

func NewSearchConnection(n int) *SearchConnection {
	return &SearchConnection{searchList{NewFilter(n)}}
}

func (*SearchConnection) Title() string { return "Search Connections" }
func (*SearchConnection) sealed()       {}

type SearchTable struct{ searchList }

func NewSearchTable(n int) *SearchTable {
	return &SearchTable{searchList{NewFilter(n)}}
}

func (*SearchTable) Title() string { return "Search Tables" }
func (*SearchTable) sealed()       {}

type Section int

const (
	SectionConnections Section = iota
	SectionTables
)

// UnifiedSearch filters connections and tables with one query. Each
// section keeps its own cursor.
type UnifiedSearch struct {
	Query       string
	Connections Filter
	Tables      Filter
	Active      Section
	TablesFirst bool
}

// NewUnifiedSearch lists tables first, and selects them, when tablesFirst
// is set.
func NewUnifiedSearch(connections, tables int, tablesFirst bool) *UnifiedSearch {
	m := &UnifiedSearch{
		Connections: NewFilter(connections),
		Tables:      NewFilter(tables),
		TablesFirst: tablesFirst,
	}
	if tablesFirst {
		m.Active = SectionTables
	}
	return m
}

func (*UnifiedSearch) Title() string { return "Search" }
func (*UnifiedSearch) sealed()       {}

func (m *UnifiedSearch) InputChar(r rune) { m.Query += string(r) }
func (m *UnifiedSearch) Backspace()       { m.Query = dropLastRune(m.Query) }

// Apply refilters both sections.
func (m *UnifiedSearch) Apply(connections, tables []string) {
	m.Connections.Query = m.Query
	m.Tables.Query = m.Query
	m.Connections.Apply(connections)
	m.Tables.Apply(tables)
}

func (m *UnifiedSearch) SwitchSection() {
	if m.Active == SectionConnections {
		m.Active = SectionTables
	} else {
		m.Active = SectionConnections
	}
}

func (m *UnifiedSearch) active() *Filter {
	if m.Active == SectionTables {
		return &m.Tables
	}
	return &m.Connections
}

func (m *UnifiedSearch) NextField() { m.active().Down() }
func (m *UnifiedSearch) PrevField() { m.active().Up() }

// History browses the query history; the list itself lives in the app.
type History struct {
	Cursor int
}

func (*History) Title() string { return "Query History" }
func (*History) sealed()       {}

func (m *History) Up(n int) {
	switch {
	case m.Cursor > 0:
		m.Cursor--
	case n > 0:
		m.Cursor = n - 1
	}
}

func (m *History) Down(n int) {
	if m.Cursor+1 < n {
		m.Cursor++
	} else {
		m.Cursor = 0
	}
}

// ColumnVisibility toggles columns of one schema tab.
type ColumnVisibility struct {
	Tab    model.SchemaTab
	Cursor int
}

func NewColumnVisibility(tab model.SchemaTab) *ColumnVisibility {
	return &ColumnVisibility{Tab: tab}
}

func (*ColumnVisibility) Title() string { return "Column Visibility" }
func (*ColumnVisibility) sealed()       {}

func (m *ColumnVisibility) count() int { return len(model.VisibilityColumns(m.Tab)) }

func (m *ColumnVisibility) NextField() {
	if n := m.count(); n > 0 {
		m.Cursor = cycle(m.Cursor, n, 1)
	}
}

func (m *ColumnVisibility) PrevField() {
	if n := m.count(); n > 0 {
		m.Cursor = cycle(m.Cursor, n, -1)
	}
}
