// Package sidebar renders the project list and the connection tree.
package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sheenazien8/lazydb/ui/theme"
)

type Kind int

const (
	KindProject Kind = iota
	KindConnection
	KindTable
	KindRoutine
)

// Item is one row of the tree.
type Item struct {
	Kind     Kind
	Label    string
	Driver   string
	Expanded bool
	Loading  bool
	// RowCount is -1 when unknown.
	RowCount int64
	IsView   bool
	// Last marks the last child of a connection.
	Last     bool
	Selected bool
}

// View is one frame of the sidebar.
type View struct {
	Title   string
	Items   []Item
	Width   int
	Height  int
	Focused bool
	// ShowRowCount appends known row counts to table rows.
	ShowRowCount bool
}

func (v View) visibleItems() int {
	// border, title, separator, status line
	return max(0, v.Height-6)
}

func (v View) cursor() int {
	for i, it := range v.Items {
		if it.Selected {
			return i
		}
	}
	return 0
}

// offset keeps the selected row inside the window.
func (v View) offset() int {
	visible := v.visibleItems()
	c := v.cursor()
	if visible == 0 || c < visible {
		return 0
	}
	return min(c-visible+1, max(0, len(v.Items)-visible))
}

// Render draws the sidebar
func Render(v View) string {
	if v.Width <= 0 || v.Height <= 0 {
		return ""
	}
	t := theme.Current
	innerWidth := max(1, v.Width-4)

	lines := []string{
		t.Title.Width(innerWidth).Render(truncateString(v.Title, innerWidth-2)),
		lipgloss.NewStyle().Foreground(t.Colors.BorderUnfocused).Render(strings.Repeat("─", innerWidth)),
	}

	if len(v.Items) == 0 {
		empty := "No projects (a: add)"
		if v.Title != "Projects" {
			empty = "No connections (a: add)"
		}
		lines = append(lines, t.SidebarDim.Render(empty))
	}

	start := v.offset()
	end := min(start+v.visibleItems(), len(v.Items))
	for _, it := range v.Items[start:end] {
		lines = append(lines, renderItem(it, innerWidth, v.Focused, v.ShowRowCount))
	}

	for i := end - start; i < v.visibleItems(); i++ {
		lines = append(lines, "")
	}

	status := ""
	if len(v.Items) > 0 {
		status = fmt.Sprintf("%d/%d", v.cursor()+1, len(v.Items))
	}
	lines = append(lines, t.StatusBar.Width(innerWidth).Align(lipgloss.Right).Render(status))

	border := t.BorderUnfocused
	if v.Focused {
		border = t.BorderFocused
	}
	return border.Width(innerWidth).Height(v.Height - 2).Render(strings.Join(lines, "\n"))
}

func renderItem(it Item, width int, focused, showRowCount bool) string {
	t := theme.Current

	var prefix, suffix string
	switch it.Kind {
	case KindProject:
		prefix = "󰉋 "
	case KindConnection:
		prefix = "▶ "
		if it.Expanded {
			prefix = "▼ "
		}
		prefix += connectionIcon(it.Driver) + " "
		if it.Loading {
			suffix = " …"
		}
	case KindTable, KindRoutine:
		prefix = "  ├─ "
		if it.Last {
			prefix = "  └─ "
		}
		switch {
		case it.Kind == KindRoutine:
			prefix += "ƒ "
		case it.IsView:
			prefix += "◇ "
		default:
			prefix += "󰓫 "
		}
		if it.Kind == KindTable && showRowCount && it.RowCount >= 0 {
			suffix = fmt.Sprintf(" (%d)", it.RowCount)
		}
	}

	avail := width - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	text := prefix + truncateString(it.Label, avail) + suffix

	style := t.SidebarItem
	switch {
	case it.Selected && focused:
		style = t.SidebarSelected
	case it.Selected:
		style = t.SidebarActive
	case it.Kind == KindRoutine:
		style = t.SidebarDim
	}
	return style.Width(width).Render(text)
}

// connectionIcon returns an icon for the database type
func connectionIcon(driver string) string {
	switch driver {
	case "mysql":
		return "[M]"
	case "postgres", "postgresql":
		return "[P]"
	case "sqlite":
		return "[S]"
	case "mongodb":
		return "[m]"
	default:
		return "[?]"
	}
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		if maxLen > 3 {
			return string(runes[:maxLen-3]) + "..."
		}
		return string(runes[:maxLen])
	}
	return s
}
