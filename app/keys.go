package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sheenazien8/lazydb/ui/modal"
)

// KeyMap binds keys to messages. Which binding applies depends on the
// open dialog, the focused panel and the sidebar mode.
type KeyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	NextFocus  key.Binding
	PrevFocus  key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding
	FocusUp    key.Binding
	FocusDown  key.Binding
	Activate   key.Binding
	Back       key.Binding

	Schema     key.Binding
	Data       key.Binding
	Relations  key.Binding
	SubTabs    [6]key.Binding
	NextSubTab key.Binding
	PrevSubTab key.Binding

	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Search     key.Binding
	Columns    key.Binding
	QueryInput key.Binding
	History    key.Binding

	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	PageSize  key.Binding
	FirstRow  key.Binding
	LastRow   key.Binding

	YankRow   key.Binding
	YankQuery key.Binding

	Close   key.Binding
	Confirm key.Binding
	Toggle  key.Binding
	Clear   key.Binding
	Run     key.Binding
	Format  key.Binding
	Wipe    key.Binding

	// CopyQuery copies from inside the query dialog, where Y is typed.
	CopyQuery key.Binding
}

func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		NextFocus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		PrevFocus:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		FocusLeft:  key.NewBinding(key.WithKeys("shift+left", "H")),
		FocusRight: key.NewBinding(key.WithKeys("shift+right", "L")),
		FocusUp:    key.NewBinding(key.WithKeys("shift+up", "K")),
		FocusDown:  key.NewBinding(key.WithKeys("shift+down", "J")),
		Activate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:       key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "back")),

		Schema:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "schema")),
		Data:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "data")),
		Relations:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "relations")),
		NextSubTab: key.NewBinding(key.WithKeys("]")),
		PrevSubTab: key.NewBinding(key.WithKeys("[")),

		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Columns:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		QueryInput: key.NewBinding(key.WithKeys("i", ":"), key.WithHelp("i", "query")),
		History:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "history")),

		NextPage:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
		FirstPage: key.NewBinding(key.WithKeys("<")),
		LastPage:  key.NewBinding(key.WithKeys(">")),
		PageSize:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "page size")),
		FirstRow:  key.NewBinding(key.WithKeys("g", "home")),
		LastRow:   key.NewBinding(key.WithKeys("G", "end")),

		YankRow:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy row")),
		YankQuery: key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy query")),

		Close:   key.NewBinding(key.WithKeys("esc")),
		Confirm: key.NewBinding(key.WithKeys("enter")),
		Toggle:  key.NewBinding(key.WithKeys(" ")),
		Clear:   key.NewBinding(key.WithKeys("c")),
		Run:     key.NewBinding(key.WithKeys("ctrl+e", "f5")),
		Format:  key.NewBinding(key.WithKeys("ctrl+f")),
		Wipe:    key.NewBinding(key.WithKeys("ctrl+l")),

		CopyQuery: key.NewBinding(key.WithKeys("ctrl+y")),
	}
	for i := range km.SubTabs {
		k := string(rune('1' + i))
		km.SubTabs[i] = key.NewBinding(key.WithKeys(k))
	}
	return km
}

var subTabKinds = [6]Kind{
	SwitchToColumns, SwitchToIndexes, SwitchToForeignKeys,
	SwitchToConstraints, SwitchToTriggers, SwitchToDefinition,
}

// Translate maps a key press to a message for the current state of a.
func (km KeyMap) Translate(a *App, k tea.KeyMsg) (Message, bool) {
	if a.Modal != nil {
		return km.translateModal(a, k)
	}

	if a.Focus == FocusMainPanel && a.Panel == PanelData && a.Result != nil {
		if msg, ok := km.translateDataTable(k); ok {
			return msg, true
		}
	}

	switch {
	case key.Matches(k, km.Quit):
		return Msg(Quit), true
	case key.Matches(k, km.FocusLeft):
		return Msg(FocusLeft), true
	case key.Matches(k, km.FocusRight):
		return Msg(FocusRight), true
	case key.Matches(k, km.FocusUp):
		return Msg(FocusUp), true
	case key.Matches(k, km.FocusDown):
		return Msg(FocusDown), true
	case key.Matches(k, km.Up):
		return Msg(NavigateUp), true
	case key.Matches(k, km.Down):
		return Msg(NavigateDown), true
	case key.Matches(k, km.NextFocus):
		return Msg(NextFocus), true
	case key.Matches(k, km.PrevFocus):
		return Msg(PrevFocus), true
	case key.Matches(k, km.Activate):
		if a.Focus == FocusQueryEditor {
			return Msg(OpenQueryInputModal), true
		}
		return Msg(Activate), true
	case key.Matches(k, km.Back):
		return Msg(GoBack), true
	case key.Matches(k, km.History):
		return Msg(OpenHistoryModal), true
	}

	if a.Mode == ModeProjects && a.Focus == FocusSidebar {
		switch {
		case key.Matches(k, km.Add):
			return Msg(OpenAddProjectModal), true
		case key.Matches(k, km.Edit):
			return Msg(OpenEditProjectModal), true
		case key.Matches(k, km.Delete):
			return Msg(DeleteProject), true
		case key.Matches(k, km.Search):
			return Msg(OpenSearchProjectModal), true
		}
		return Message{}, false
	}

	switch {
	case key.Matches(k, km.Add):
		return Msg(OpenAddConnectionModal), true
	case key.Matches(k, km.Search):
		return Msg(OpenUnifiedSearchModal), true
	case key.Matches(k, km.QueryInput):
		return Msg(OpenQueryInputModal), true
	case key.Matches(k, km.YankQuery):
		return Msg(YankQuery), true
	case key.Matches(k, km.Schema):
		return Msg(SwitchToSchema), true
	case key.Matches(k, km.Data) && a.Focus != FocusSidebar:
		return Msg(SwitchToData), true
	case key.Matches(k, km.Relations):
		return Msg(SwitchToRelations), true
	case key.Matches(k, km.Columns) && a.Focus == FocusMainPanel && a.Panel == PanelSchema:
		return Msg(OpenColumnVisibilityModal), true
	case key.Matches(k, km.NextSubTab):
		return Msg(NextSchemaTab), true
	case key.Matches(k, km.PrevSubTab):
		return Msg(PrevSchemaTab), true
	}
	for i, b := range km.SubTabs {
		if key.Matches(k, b) {
			return Msg(subTabKinds[i]), true
		}
	}
	return Message{}, false
}

func (km KeyMap) translateDataTable(k tea.KeyMsg) (Message, bool) {
	switch {
	case key.Matches(k, km.Up):
		return Msg(DataTableUp), true
	case key.Matches(k, km.Down):
		return Msg(DataTableDown), true
	case key.Matches(k, km.PageUp):
		return Msg(DataTablePageUp), true
	case key.Matches(k, km.PageDown):
		return Msg(DataTablePageDown), true
	case key.Matches(k, km.FirstRow):
		return Msg(DataTableFirst), true
	case key.Matches(k, km.LastRow):
		return Msg(DataTableLast), true
	case key.Matches(k, km.NextPage):
		return Msg(PageNext), true
	case key.Matches(k, km.PrevPage):
		return Msg(PagePrev), true
	case key.Matches(k, km.FirstPage):
		return Msg(PageFirst), true
	case key.Matches(k, km.LastPage):
		return Msg(PageLast), true
	case key.Matches(k, km.PageSize):
		return Msg(PageSizeCycle), true
	case key.Matches(k, km.YankRow):
		return Msg(YankRow), true
	}
	return Message{}, false
}

func (km KeyMap) translateModal(a *App, k tea.KeyMsg) (Message, bool) {
	if key.Matches(k, km.Close) {
		return Msg(CloseModal), true
	}

	switch a.Modal.(type) {
	case *modal.QueryInput:
		return km.translateQueryInput(k)

	case *modal.History:
		switch {
		case key.Matches(k, km.Up):
			return Msg(HistoryNavigateUp), true
		case key.Matches(k, km.Down):
			return Msg(HistoryNavigateDown), true
		case key.Matches(k, km.Confirm):
			return Msg(HistorySelectEntry), true
		case key.Matches(k, km.Clear):
			return Msg(ClearHistory), true
		case key.Matches(k, km.Quit):
			return Msg(CloseModal), true
		}
		return Message{}, false

	case *modal.ColumnVisibility:
		switch {
		case key.Matches(k, km.Up):
			return Msg(ModalPrevField), true
		case key.Matches(k, km.Down):
			return Msg(ModalNextField), true
		case key.Matches(k, km.Toggle):
			return Msg(ToggleColumnVisibility), true
		case key.Matches(k, km.Confirm):
			return Msg(CloseModal), true
		}
		return Message{}, false

	case *modal.SearchProject, *modal.SearchConnection, *modal.SearchTable, *modal.UnifiedSearch:
		return km.translateSearch(a, k)
	}

	return km.translateForm(a, k)
}

// translateSearch keeps letters typeable, so only arrows move the cursor.
func (km KeyMap) translateSearch(a *App, k tea.KeyMsg) (Message, bool) {
	switch k.Type {
	case tea.KeyUp:
		return Msg(ModalPrevField), true
	case tea.KeyDown:
		return Msg(ModalNextField), true
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		if _, ok := a.Modal.(*modal.UnifiedSearch); ok {
			return Msg(UnifiedSearchSwitchSection), true
		}
	case tea.KeyEnter:
		switch a.Modal.(type) {
		case *modal.SearchProject:
			return Msg(SearchConfirm), true
		case *modal.SearchConnection:
			return Msg(SearchConnectionConfirm), true
		case *modal.SearchTable:
			return Msg(TableSearchConfirm), true
		default:
			return Msg(UnifiedSearchConfirm), true
		}
	case tea.KeyBackspace:
		return Msg(ModalInputBackspace), true
	}
	if r, ok := typedRune(k); ok {
		return Char(ModalInputChar, r), true
	}
	return Message{}, false
}

func (km KeyMap) translateForm(a *App, k tea.KeyMsg) (Message, bool) {
	buttons := a.ModalButtonFocused()
	switch k.Type {
	case tea.KeyTab, tea.KeyDown:
		return Msg(ModalNextField), true
	case tea.KeyShiftTab, tea.KeyUp:
		return Msg(ModalPrevField), true
	case tea.KeyEnter:
		if a.ModalCancelFocused() {
			return Msg(CloseModal), true
		}
		return Msg(ModalConfirm), true
	case tea.KeyBackspace:
		return Msg(ModalInputBackspace), true
	}
	if buttons {
		switch k.String() {
		case "left", "h":
			return Msg(ModalPrevField), true
		case "right", "l":
			return Msg(ModalNextField), true
		}
		return Message{}, false
	}
	if r, ok := typedRune(k); ok {
		return Char(ModalInputChar, r), true
	}
	return Message{}, false
}

func (km KeyMap) translateQueryInput(k tea.KeyMsg) (Message, bool) {
	switch {
	case key.Matches(k, km.Run):
		return Msg(QueryInputExecute), true
	case key.Matches(k, km.Format):
		return Msg(QueryInputFormat), true
	case key.Matches(k, km.Wipe):
		return Msg(QueryInputClear), true
	case key.Matches(k, km.CopyQuery):
		return Msg(YankQuery), true
	}
	switch k.Type {
	case tea.KeyEnter:
		return Msg(QueryInputNewline), true
	case tea.KeyBackspace:
		return Msg(QueryInputBackspace), true
	case tea.KeyDelete:
		return Msg(QueryInputDelete), true
	case tea.KeyLeft:
		return Msg(QueryInputCursorLeft), true
	case tea.KeyRight:
		return Msg(QueryInputCursorRight), true
	case tea.KeyUp:
		return Msg(QueryInputCursorUp), true
	case tea.KeyDown:
		return Msg(QueryInputCursorDown), true
	case tea.KeyHome, tea.KeyCtrlA:
		return Msg(QueryInputCursorHome), true
	case tea.KeyEnd:
		return Msg(QueryInputCursorEnd), true
	case tea.KeyTab:
		return Char(QueryInputChar, '\t'), true
	}
	if r, ok := typedRune(k); ok {
		return Char(QueryInputChar, r), true
	}
	return Message{}, false
}

// typedRune returns the character of a single printable key press.
func typedRune(k tea.KeyMsg) (rune, bool) {
	switch k.Type {
	case tea.KeySpace:
		return ' ', true
	case tea.KeyRunes:
		if len(k.Runes) == 1 && !k.Alt {
			return k.Runes[0], true
		}
	}
	return 0, false
}
