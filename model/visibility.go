package model

// SchemaTab selects one of the sub-views of the schema panel.
type SchemaTab int

const (
	SchemaColumns SchemaTab = iota
	SchemaIndexes
	SchemaForeignKeys
	SchemaConstraints
	SchemaTriggers
	SchemaDefinition
)

var schemaTabNames = [...]string{"Columns", "Indexes", "Foreign Keys", "Constraints", "Triggers", "Definition"}

func (t SchemaTab) String() string {
	if t < 0 || int(t) >= len(schemaTabNames) {
		return "Unknown"
	}
	return schemaTabNames[t]
}

// Next cycles forward through the schema tabs. Definition is only offered
// when the selected table is a view.
func (t SchemaTab) Next(isView bool) SchemaTab {
	last := SchemaTriggers
	if isView {
		last = SchemaDefinition
	}
	if t >= last {
		return SchemaColumns
	}
	return t + 1
}

func (t SchemaTab) Prev(isView bool) SchemaTab {
	last := SchemaTriggers
	if isView {
		last = SchemaDefinition
	}
	if t <= SchemaColumns || t > last {
		return last
	}
	return t - 1
}

var visibilityColumns = map[SchemaTab][]string{
	SchemaColumns:     {"Icon", "Name", "Type", "Null", "Default", "Key"},
	SchemaIndexes:     {"Name", "Type", "Method", "Columns"},
	SchemaForeignKeys: {"Name", "Column", "References", "ON DELETE", "ON UPDATE"},
	SchemaConstraints: {"Name", "Type", "Columns", "Definition"},
	SchemaTriggers:    {"Name", "Timing", "Event", "Statement"},
}

// VisibilityColumns lists the toggleable columns of a schema tab. The
// definition tab has none.
func VisibilityColumns(tab SchemaTab) []string {
	return visibilityColumns[tab]
}

// ColumnVisibility records which schema columns the user has hidden.
// The zero value shows everything.
type ColumnVisibility struct {
	hidden map[SchemaTab]map[int]bool
}

func (v *ColumnVisibility) Visible(tab SchemaTab, idx int) bool {
	if idx < 0 || idx >= len(visibilityColumns[tab]) {
		return false
	}
	return !v.hidden[tab][idx]
}

func (v *ColumnVisibility) Toggle(tab SchemaTab, idx int) {
	if idx < 0 || idx >= len(visibilityColumns[tab]) {
		return
	}
	if v.hidden == nil {
		v.hidden = make(map[SchemaTab]map[int]bool)
	}
	if v.hidden[tab] == nil {
		v.hidden[tab] = make(map[int]bool)
	}
	v.hidden[tab][idx] = !v.hidden[tab][idx]
}

// VisibleIndices returns the indices of the shown columns for tab, in order.
func (v *ColumnVisibility) VisibleIndices(tab SchemaTab) []int {
	var out []int
	for i := range visibilityColumns[tab] {
		if v.Visible(tab, i) {
			out = append(out, i)
		}
	}
	return out
}
