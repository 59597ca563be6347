package app

// navItem is one visible sidebar row in the connection tree.
type navItem struct {
	conn    int
	table   int
	routine int
}

// navItems flattens the tree: every connection, followed by its tables and
// routines when expanded.
func (a *App) navItems() []navItem {
	p, ok := a.CurrentProject()
	if !ok {
		return nil
	}
	var items []navItem
	for ci, c := range p.Connections {
		items = append(items, navItem{conn: ci, table: none, routine: none})
		if !c.Expanded {
			continue
		}
		for ti := range c.Tables {
			items = append(items, navItem{conn: ci, table: ti, routine: none})
		}
		for ri := range c.Routines {
			items = append(items, navItem{conn: ci, table: none, routine: ri})
		}
	}
	return items
}

// navPosition returns the index of the current selection, or 0 when the
// selection is no longer visible.
func (a *App) navPosition(items []navItem) int {
	cur := navItem{conn: a.SelectedConnection, table: a.SelectedTable, routine: a.SelectedRoutine}
	for i, it := range items {
		if it == cur {
			return i
		}
	}
	return 0
}

func (a *App) applyNav(it navItem) {
	a.SelectedConnection = it.conn
	a.SelectedTable = it.table
	a.SelectedRoutine = it.routine
	if it.table != none {
		a.fetchTableDetailsIfNeeded()
	}
}

func (a *App) navigate(step int) {
	if a.Mode == ModeProjects {
		if n := len(a.Projects); n > 0 {
			a.SelectedProject = wrap(a.SelectedProject+step, n)
		}
		return
	}
	items := a.navItems()
	if len(items) == 0 {
		return
	}
	pos := wrap(a.navPosition(items)+step, len(items))
	a.applyNav(items[pos])
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// navigateDataTable moves the row cursor by delta, never leaving the
// current page.
func (a *App) navigateDataTable(delta int) {
	if a.Result == nil || len(a.Result.Rows) == 0 {
		return
	}
	start, end := a.pageBounds()
	a.DataCursor = max(start, min(a.DataCursor+delta, end-1))
}

func (a *App) pageBounds() (int, int) {
	start := a.Pagination.StartIndex()
	end := min(a.Pagination.EndIndex(), len(a.Result.Rows))
	return start, max(end, start+1)
}

// clampDataCursor pulls the cursor back onto the current page after the
// page or page size changed.
func (a *App) clampDataCursor() {
	if a.Result == nil || len(a.Result.Rows) == 0 {
		a.DataCursor = 0
		return
	}
	start, end := a.pageBounds()
	if a.DataCursor < start || a.DataCursor >= end {
		a.DataCursor = start
	}
}

func (a *App) dataTableFirst() {
	if a.Result == nil || len(a.Result.Rows) == 0 {
		return
	}
	a.DataCursor, _ = a.pageBounds()
}

func (a *App) dataTableLast() {
	if a.Result == nil || len(a.Result.Rows) == 0 {
		return
	}
	_, end := a.pageBounds()
	a.DataCursor = end - 1
}

func (a *App) nextFocus() {
	switch a.Focus {
	case FocusSidebar:
		a.Focus = FocusQueryEditor
	case FocusQueryEditor:
		a.Focus = FocusMainPanel
	default:
		a.Focus = FocusSidebar
	}
}

func (a *App) prevFocus() {
	switch a.Focus {
	case FocusSidebar:
		a.Focus = FocusMainPanel
	case FocusMainPanel:
		a.Focus = FocusQueryEditor
	default:
		a.Focus = FocusSidebar
	}
}

func (a *App) focusLeft() {
	if a.Focus != FocusSidebar {
		a.Focus = FocusSidebar
	}
}

func (a *App) focusRight() {
	if a.Focus == FocusSidebar {
		a.Focus = FocusQueryEditor
	}
}

func (a *App) focusUp() {
	if a.Focus == FocusMainPanel {
		a.Focus = FocusQueryEditor
	}
}

func (a *App) focusDown() {
	if a.Focus == FocusQueryEditor {
		a.Focus = FocusMainPanel
	}
}
