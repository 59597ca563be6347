package app

import "strings"

// yank holds text waiting to be copied to the clipboard by the program loop.
type yank struct {
	text  string
	label string
}

func (a *App) yankQuery() {
	q := a.Query
	if m, ok := a.queryInput(); ok {
		q = m.Query
	}
	if strings.TrimSpace(q) == "" {
		a.Status = "Nothing to copy"
		return
	}
	a.pendingYank = &yank{text: q, label: "query"}
}

// yankRow copies the selected data row as tab separated values.
func (a *App) yankRow() {
	row, ok := a.SelectedRow()
	if !ok {
		a.Status = "Nothing to copy"
		return
	}
	a.pendingYank = &yank{text: strings.Join(row, "\t"), label: "row"}
}

// TakeYank returns and clears the pending clipboard text.
func (a *App) TakeYank() (text, label string, ok bool) {
	y := a.pendingYank
	if y == nil {
		return "", "", false
	}
	a.pendingYank = nil
	return y.text, y.label, true
}
