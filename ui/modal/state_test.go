package modal

import (
	"strings"
	"testing"

	"github.com/sheenazien8/lazydb/model"
)

func TestAddConnectionDefaults(t *testing.T) {
	m := NewAddConnection()
	if m.Host != "localhost" || m.Port != "5432" || m.Focus != FieldName {
		t.Errorf("defaults = %+v", m)
	}
}

func TestAddConnectionPortInput(t *testing.T) {
	m := NewAddConnection()
	m.Focus = FieldPort
	m.Port = ""
	for _, r := range "12a3456789" {
		m.InputChar(r)
	}
	if m.Port != "12345" {
		t.Errorf("Port = %q, want 12345", m.Port)
	}
	m.Backspace()
	if m.Port != "1234" {
		t.Errorf("Port after backspace = %q", m.Port)
	}
}

func TestAddConnectionButtonsIgnoreInput(t *testing.T) {
	m := NewAddConnection()
	m.Focus = FieldOK
	m.InputChar('x')
	m.Backspace()
	if m.Name != "" || m.Host != "localhost" {
		t.Errorf("button focus edited a field: %+v", m)
	}
}

func TestAddConnectionFieldCycle(t *testing.T) {
	m := NewAddConnection()
	m.PrevField()
	if m.Focus != FieldCancel {
		t.Errorf("PrevField from Name = %v, want Cancel", m.Focus)
	}
	m.NextField()
	if m.Focus != FieldName {
		t.Errorf("NextField from Cancel = %v, want Name", m.Focus)
	}
	for i := 0; i < 6; i++ {
		m.NextField()
	}
	if m.Focus != FieldOK {
		t.Errorf("six NextField = %v, want OK", m.Focus)
	}
}

func TestAddConnectionValidation(t *testing.T) {
	valid := func() *AddConnection {
		return &AddConnection{Name: "local", Host: "localhost", Port: "5432", User: "me", Database: "app"}
	}

	c, ok := valid().Connection()
	if !ok {
		t.Fatal("valid form rejected")
	}
	if c.Port != 5432 || c.Username != "me" || c.ID == "" {
		t.Errorf("connection = %+v", c)
	}

	tests := []struct {
		name   string
		mutate func(*AddConnection)
	}{
		{"port zero", func(m *AddConnection) { m.Port = "0" }},
		{"port too large", func(m *AddConnection) { m.Port = "65536" }},
		{"port empty", func(m *AddConnection) { m.Port = "" }},
		{"no name", func(m *AddConnection) { m.Name = "" }},
		{"no host", func(m *AddConnection) { m.Host = "" }},
		{"no user", func(m *AddConnection) { m.User = "" }},
		{"no database", func(m *AddConnection) { m.Database = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)
			if _, ok := m.Connection(); ok {
				t.Error("invalid form accepted")
			}
		})
	}

	m := valid()
	m.Password = ""
	if _, ok := m.Connection(); !ok {
		t.Error("empty password should be allowed")
	}
	m.Port = "65535"
	if _, ok := m.Connection(); !ok {
		t.Error("port 65535 rejected")
	}
}

func TestProjectForm(t *testing.T) {
	m := NewEditProject(2, "old")
	m.Backspace()
	m.InputChar('D')
	if m.Name != "olD" || m.ProjectIdx != 2 {
		t.Errorf("form = %+v", m)
	}
	m.NextField()
	m.InputChar('x')
	if m.Name != "olD" {
		t.Errorf("typing on a button changed the name: %q", m.Name)
	}

	add := &AddProject{}
	add.InputChar(' ')
	if add.TrimmedName() != "" {
		t.Errorf("TrimmedName = %q", add.TrimmedName())
	}
}

func TestDeleteProjectStartsOnCancel(t *testing.T) {
	m := NewDeleteProject(0, "p")
	if m.Confirmed() {
		t.Error("delete dialog opened focused on OK")
	}
	m.NextField()
	if !m.Confirmed() {
		t.Error("NextField did not move to OK")
	}
	m.PrevField()
	if m.Confirmed() {
		t.Error("PrevField did not move back to Cancel")
	}
}

func TestStateIsClosed(t *testing.T) {
	states := []State{
		NewAddConnection(), &AddProject{}, NewEditProject(0, ""), NewDeleteProject(0, ""),
		NewSearchProject(0), NewSearchConnection(0), NewSearchTable(0), NewUnifiedSearch(0, 0, false),
		&History{}, NewColumnVisibility(model.SchemaColumns), NewQueryInput(""),
	}
	titles := map[string]bool{}
	for _, s := range states {
		if s.Title() == "" {
			t.Errorf("%T has no title", s)
		}
		titles[s.Title()] = true
	}
	if len(titles) != len(states) {
		t.Errorf("titles not distinct: %v", titles)
	}

	// typed input reaches the forms and searches but not the pickers
	for _, s := range []State{&History{}, NewColumnVisibility(model.SchemaColumns)} {
		if _, ok := s.(TextInput); ok {
			t.Errorf("%T should not accept text", s)
		}
	}
}

func TestHistoryWrap(t *testing.T) {
	m := &History{}
	m.Up(3)
	if m.Cursor != 2 {
		t.Errorf("Up from 0 = %d, want 2", m.Cursor)
	}
	m.Down(3)
	if m.Cursor != 0 {
		t.Errorf("Down from last = %d, want 0", m.Cursor)
	}
	m.Up(0)
	if m.Cursor != 0 {
		t.Errorf("Up with empty history = %d", m.Cursor)
	}
}

func TestColumnVisibilityNavigation(t *testing.T) {
	m := NewColumnVisibility(model.SchemaIndexes)
	m.PrevField()
	if m.Cursor != 3 {
		t.Errorf("PrevField from 0 = %d, want 3", m.Cursor)
	}
	m.NextField()
	if m.Cursor != 0 {
		t.Errorf("NextField from last = %d, want 0", m.Cursor)
	}

	d := NewColumnVisibility(model.SchemaDefinition)
	d.NextField()
	if d.Cursor != 0 {
		t.Errorf("definition tab moved cursor to %d", d.Cursor)
	}
}

func TestRenderVariants(t *testing.T) {
	ctx := Context{
		Projects:    []string{"alpha", "beta"},
		Connections: []string{"local"},
		Tables:      []string{"users"},
	}
	if Render(nil, ctx, 80, 24) != "" {
		t.Error("nil state rendered")
	}
	cases := []struct {
		state State
		want  string
	}{
		{NewAddConnection(), "Add Connection"},
		{NewSearchProject(2), "beta"},
		{NewUnifiedSearch(1, 1, true), "users"},
		{NewDeleteProject(0, "alpha"), "alpha"},
		{NewQueryInput("SELECT 1"), "Ln 1, Col 9"},
		{NewColumnVisibility(model.SchemaTriggers), "Timing"},
	}
	for _, c := range cases {
		if out := Render(c.state, ctx, 100, 40); !strings.Contains(out, c.want) {
			t.Errorf("Render(%T) missing %q", c.state, c.want)
		}
	}
}
