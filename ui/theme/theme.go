// Package theme holds the colour palettes and the prebuilt lipgloss styles
// every renderer draws with.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type Colors struct {
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	BorderFocused   lipgloss.Color
	BorderUnfocused lipgloss.Color

	SelectionBg lipgloss.Color
	SelectionFg lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

type Theme struct {
	Name   string
	Colors Colors

	Title           lipgloss.Style
	BorderFocused   lipgloss.Style
	BorderUnfocused lipgloss.Style

	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
	TableSelected lipgloss.Style
	TableNull     lipgloss.Style

	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarActive   lipgloss.Style
	SidebarDim      lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Dialog         lipgloss.Style
	DialogTitle    lipgloss.Style
	Label          lipgloss.Style
	InputFocused   lipgloss.Style
	InputBlurred   lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
	Help           lipgloss.Style

	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	Loading     lipgloss.Style
}

// Current is the theme all renderers read.
var Current = build("default", palettes["default"])

func build(name string, c Colors) *Theme {
	t := &Theme{Name: name, Colors: c}
	base := lipgloss.NewStyle()

	t.Title = base.Foreground(c.Foreground).Background(c.Primary).Bold(true).Padding(0, 1)
	t.BorderFocused = base.Border(lipgloss.RoundedBorder()).BorderForeground(c.BorderFocused)
	t.BorderUnfocused = base.Border(lipgloss.RoundedBorder()).BorderForeground(c.BorderUnfocused)

	t.TableHeader = base.Foreground(c.Foreground).Background(c.Primary).Bold(true)
	t.TableCell = base.Foreground(c.Foreground)
	t.TableSelected = base.Foreground(c.SelectionFg).Background(c.SelectionBg)
	t.TableNull = base.Foreground(c.ForegroundDim).Italic(true)

	t.SidebarItem = base.Foreground(c.Foreground)
	t.SidebarSelected = base.Foreground(c.SelectionFg).Background(c.SelectionBg).Bold(true)
	t.SidebarActive = base.Foreground(c.Primary)
	t.SidebarDim = base.Foreground(c.ForegroundDim)

	t.TabActive = base.Foreground(c.Foreground).Background(c.Primary).Bold(true).Padding(0, 1)
	t.TabInactive = base.Foreground(c.ForegroundDim).Padding(0, 1)

	t.Dialog = base.Border(lipgloss.DoubleBorder()).BorderForeground(c.Primary).Padding(1, 2)
	t.DialogTitle = base.Foreground(c.Primary).Bold(true)
	t.Label = base.Foreground(c.Foreground).Bold(true).Width(10)
	t.InputFocused = base.Foreground(c.Foreground).Background(c.SelectionBg)
	t.InputBlurred = base.Foreground(c.ForegroundDim)
	t.ButtonActive = base.Foreground(c.Foreground).Background(c.Primary).Bold(true).Padding(0, 2)
	t.ButtonInactive = base.Foreground(c.ForegroundDim).Background(c.SelectionBg).Padding(0, 2)
	t.Help = base.Foreground(c.ForegroundDim)

	t.StatusBar = base.Foreground(c.ForegroundDim)
	t.StatusError = base.Foreground(c.Error)
	t.Loading = base.Foreground(c.Warning)
	return t
}

var palettes = map[string]Colors{
	"default": {
		Background: "#1a1a2e", Foreground: "#FAFAFA", ForegroundDim: "#888888",
		Primary: "#7D56F4", Secondary: "#5A4FCF", Accent: "#9D7BFF",
		BorderFocused: "#7D56F4", BorderUnfocused: "#3C3C3C",
		SelectionBg: "#5A4FCF", SelectionFg: "#FAFAFA",
		Success: "#50FA7B", Warning: "#FFB86C", Error: "#FF5555", Info: "#8BE9FD",
	},
	"dracula": {
		Background: "#282a36", Foreground: "#f8f8f2", ForegroundDim: "#6272a4",
		Primary: "#bd93f9", Secondary: "#ff79c6", Accent: "#8be9fd",
		BorderFocused: "#bd93f9", BorderUnfocused: "#44475a",
		SelectionBg: "#44475a", SelectionFg: "#f8f8f2",
		Success: "#50fa7b", Warning: "#ffb86c", Error: "#ff5555", Info: "#8be9fd",
	},
	"nord": {
		Background: "#2e3440", Foreground: "#eceff4", ForegroundDim: "#4c566a",
		Primary: "#5e81ac", Secondary: "#81a1c1", Accent: "#88c0d0",
		BorderFocused: "#88c0d0", BorderUnfocused: "#3b4252",
		SelectionBg: "#434c5e", SelectionFg: "#eceff4",
		Success: "#a3be8c", Warning: "#ebcb8b", Error: "#bf616a", Info: "#81a1c1",
	},
	"gruvbox": {
		Background: "#282828", Foreground: "#ebdbb2", ForegroundDim: "#928374",
		Primary: "#fe8019", Secondary: "#fabd2f", Accent: "#8ec07c",
		BorderFocused: "#fe8019", BorderUnfocused: "#3c3836",
		SelectionBg: "#504945", SelectionFg: "#ebdbb2",
		Success: "#b8bb26", Warning: "#fabd2f", Error: "#fb4934", Info: "#83a598",
	},
	"tokyo-night": {
		Background: "#1a1b26", Foreground: "#c0caf5", ForegroundDim: "#565f89",
		Primary: "#7aa2f7", Secondary: "#bb9af7", Accent: "#7dcfff",
		BorderFocused: "#7aa2f7", BorderUnfocused: "#3b4261",
		SelectionBg: "#33467c", SelectionFg: "#c0caf5",
		Success: "#9ece6a", Warning: "#e0af68", Error: "#f7768e", Info: "#7dcfff",
	},
}

// Names lists the available themes, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply switches Current to the named theme. Unknown names leave the
// current theme in place and return false.
func Apply(name string) bool {
	c, ok := palettes[name]
	if !ok {
		return false
	}
	Current = build(name, c)
	return true
}
