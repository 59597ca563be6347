// Package tab builds the tab bars and the schema and relations grids of
// the main panel.
package tab

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/lazydb/drivers"
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/theme"
)

// Bar renders labels as a row of tabs with active highlighted.
func Bar(labels []string, active int) string {
	t := theme.Current
	items := make([]string, 0, len(labels))
	for i, label := range labels {
		if i == active {
			items = append(items, t.TabActive.Render(label))
		} else {
			items = append(items, t.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

// SchemaLabels returns the numbered sub-tab labels with their row counts.
// Definition is listed only for views.
func SchemaLabels(tbl drivers.Table) []string {
	labels := []string{
		"1:Columns (" + strconv.Itoa(len(tbl.Columns)) + ")",
		"2:Indexes (" + strconv.Itoa(len(tbl.Indexes)) + ")",
		"3:Foreign Keys (" + strconv.Itoa(len(tbl.ForeignKeys)) + ")",
		"4:Constraints (" + strconv.Itoa(len(tbl.Constraints)) + ")",
		"5:Triggers (" + strconv.Itoa(len(tbl.Triggers)) + ")",
	}
	if tbl.IsView() {
		labels = append(labels, "6:Definition")
	}
	return labels
}

// SchemaGrid returns the titles and rows of one schema sub-tab, keeping
// only the columns vis marks visible.
func SchemaGrid(tbl drivers.Table, tab model.SchemaTab, vis *model.ColumnVisibility) ([]string, [][]string) {
	var rows [][]string
	switch tab {
	case model.SchemaColumns:
		rows = columnRows(tbl.Columns)
	case model.SchemaIndexes:
		rows = indexRows(tbl.Indexes)
	case model.SchemaForeignKeys:
		rows = foreignKeyRows(tbl.ForeignKeys)
	case model.SchemaConstraints:
		rows = constraintRows(tbl.Constraints)
	case model.SchemaTriggers:
		rows = triggerRows(tbl.Triggers)
	default:
		return nil, nil
	}
	if vis == nil {
		vis = &model.ColumnVisibility{}
	}
	return project(model.VisibilityColumns(tab), rows, vis.VisibleIndices(tab))
}

func project(titles []string, rows [][]string, keep []int) ([]string, [][]string) {
	outTitles := make([]string, len(keep))
	for i, k := range keep {
		outTitles[i] = titles[k]
	}
	outRows := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(keep))
		for i, k := range keep {
			cells[i] = row[k]
		}
		outRows[r] = cells
	}
	return outTitles, outRows
}

func columnRows(columns []drivers.Column) [][]string {
	rows := make([][]string, 0, len(columns))
	for _, col := range columns {
		icon, key := "", ""
		switch {
		case col.IsPrimaryKey:
			icon, key = "🔑", "PRI"
		case col.IsUnique:
			icon, key = "◆", "UNI"
		}
		nullable := "NO"
		if col.Nullable {
			nullable = "YES"
		}
		def := col.Default
		if def == "" {
			def = "NULL"
		}
		rows = append(rows, []string{icon, col.Name, col.DataType, nullable, def, key})
	}
	return rows
}

func indexRows(indexes []drivers.Index) [][]string {
	rows := make([][]string, 0, len(indexes))
	for _, idx := range indexes {
		rows = append(rows, []string{idx.Name, idx.Type.String(), string(idx.Method), idx.ColumnNames()})
	}
	return rows
}

func foreignKeyRows(fks []drivers.ForeignKey) [][]string {
	rows := make([][]string, 0, len(fks))
	for _, fk := range fks {
		ref := fk.ReferencedTable + "(" + strings.Join(fk.ReferencedColumns, ", ") + ")"
		rows = append(rows, []string{
			fk.Name,
			strings.Join(fk.Columns, ", "),
			ref,
			fk.OnDelete.String(),
			fk.OnUpdate.String(),
		})
	}
	return rows
}

func constraintRows(constraints []drivers.Constraint) [][]string {
	rows := make([][]string, 0, len(constraints))
	for _, c := range constraints {
		rows = append(rows, []string{c.Name, c.Type.String(), strings.Join(c.Columns, ", "), c.Definition})
	}
	return rows
}

func triggerRows(triggers []drivers.Trigger) [][]string {
	rows := make([][]string, 0, len(triggers))
	for _, trig := range triggers {
		rows = append(rows, []string{trig.Name, trig.Timing, trig.Event, trig.Statement})
	}
	return rows
}

var relationTitles = []string{"Direction", "Name", "Columns", "Table", "Ref Columns"}

// Relations lists the foreign keys of tbl and the ones in all that point
// at it.
func Relations(tbl drivers.Table, all []drivers.Table) ([]string, [][]string) {
	var rows [][]string
	for _, fk := range tbl.ForeignKeys {
		rows = append(rows, []string{
			"→",
			fk.Name,
			strings.Join(fk.Columns, ", "),
			fk.ReferencedTable,
			strings.Join(fk.ReferencedColumns, ", "),
		})
	}
	for _, ref := range tbl.IncomingReferences(all) {
		rows = append(rows, []string{
			"←",
			ref.ForeignKey.Name,
			strings.Join(ref.ForeignKey.ReferencedColumns, ", "),
			ref.Table,
			strings.Join(ref.ForeignKey.Columns, ", "),
		})
	}
	return relationTitles, rows
}
