package model

import (
	"reflect"
	"testing"
)

func TestSchemaTabCycle(t *testing.T) {
	if got := SchemaTriggers.Next(false); got != SchemaColumns {
		t.Errorf("Triggers.Next(table) = %v, want Columns", got)
	}
	if got := SchemaTriggers.Next(true); got != SchemaDefinition {
		t.Errorf("Triggers.Next(view) = %v, want Definition", got)
	}
	if got := SchemaColumns.Prev(false); got != SchemaTriggers {
		t.Errorf("Columns.Prev(table) = %v, want Triggers", got)
	}
	if got := SchemaDefinition.Prev(false); got != SchemaTriggers {
		t.Errorf("Definition.Prev(table) = %v, want Triggers", got)
	}
}

func TestColumnVisibilityToggle(t *testing.T) {
	var v ColumnVisibility
	if got := v.VisibleIndices(SchemaIndexes); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Fatalf("zero value VisibleIndices = %v", got)
	}

	v.Toggle(SchemaIndexes, 1)
	v.Toggle(SchemaIndexes, 3)
	if got := v.VisibleIndices(SchemaIndexes); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("after hiding 1 and 3: %v", got)
	}
	if !v.Visible(SchemaColumns, 1) {
		t.Error("hiding index columns affected the columns tab")
	}

	v.Toggle(SchemaIndexes, 1)
	if !v.Visible(SchemaIndexes, 1) {
		t.Error("second toggle did not show the column again")
	}

	v.Toggle(SchemaIndexes, 99)
	if v.Visible(SchemaIndexes, 99) {
		t.Error("out of range index reported visible")
	}
	if got := v.VisibleIndices(SchemaDefinition); got != nil {
		t.Errorf("definition tab has toggleable columns: %v", got)
	}
}
