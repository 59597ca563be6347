package app

import (
	"github.com/sheenazien8/lazydb/model"
	"github.com/sheenazien8/lazydb/ui/modal"
)

// Update applies msg and reports whether the application should quit.
func (a *App) Update(msg Message) bool {
	switch msg.Kind {
	case Quit:
		return true

	case NavigateUp:
		if a.Focus == FocusSidebar {
			a.navigate(-1)
		}
	case NavigateDown:
		if a.Focus == FocusSidebar {
			a.navigate(1)
		}
	case NextFocus:
		a.nextFocus()
	case PrevFocus:
		a.prevFocus()
	case FocusLeft:
		a.focusLeft()
	case FocusRight:
		a.focusRight()
	case FocusUp:
		a.focusUp()
	case FocusDown:
		a.focusDown()
	case Activate:
		if a.Focus == FocusSidebar {
			a.activate()
		}
	case GoBack:
		if a.Focus == FocusSidebar {
			a.goBack()
		}

	case SwitchToSchema:
		a.Panel = PanelSchema
	case SwitchToData:
		a.Panel = PanelData
	case SwitchToRelations:
		a.Panel = PanelRelations
	case SwitchToColumns, SwitchToIndexes, SwitchToForeignKeys, SwitchToConstraints, SwitchToTriggers:
		a.Panel = PanelSchema
		a.SchemaTab = schemaTabFor(msg.Kind)
	case SwitchToDefinition:
		if t, ok := a.CurrentTable(); ok && t.IsView() {
			a.Panel = PanelSchema
			a.SchemaTab = schemaTabFor(msg.Kind)
		}
	case NextSchemaTab:
		a.SchemaTab = a.SchemaTab.Next(a.selectedIsView())
	case PrevSchemaTab:
		a.SchemaTab = a.SchemaTab.Prev(a.selectedIsView())

	case OpenAddConnectionModal:
		a.openAddConnection()
	case OpenAddProjectModal:
		a.openAddProject()
	case OpenEditProjectModal:
		a.openEditProject()
	case DeleteProject:
		a.openDeleteProject()
	case OpenSearchProjectModal:
		a.openSearchProject()
	case OpenSearchConnectionModal:
		a.openSearchConnection()
	case OpenSearchTableModal:
		a.openSearchTable()
	case OpenUnifiedSearchModal:
		a.openUnifiedSearch()
	case OpenColumnVisibilityModal:
		a.openColumnVisibility()
	case OpenQueryInputModal:
		a.openQueryInput()

	case CloseModal:
		a.Modal = nil
	case ModalConfirm:
		a.modalConfirm()
	case ModalInputChar:
		a.modalInputChar(msg.Char)
	case ModalInputBackspace:
		a.modalBackspace()
	case ModalNextField:
		a.modalNextField()
	case ModalPrevField:
		a.modalPrevField()

	case SearchConfirm:
		a.searchConfirm()
	case SearchConnectionConfirm:
		a.searchConnectionConfirm()
	case TableSearchConfirm:
		a.tableSearchConfirm()
	case UnifiedSearchConfirm:
		a.unifiedSearchConfirm()
	case UnifiedSearchSwitchSection:
		a.unifiedSwitchSection()

	case ToggleColumnVisibility:
		a.toggleColumnVisibility()

	case OpenHistoryModal:
		a.openHistory()
	case HistoryNavigateUp:
		a.historyUp()
	case HistoryNavigateDown:
		a.historyDown()
	case HistorySelectEntry:
		a.historySelect()
	case ClearHistory:
		a.clearHistory()

	case QueryInputChar, QueryInputBackspace, QueryInputDelete, QueryInputNewline,
		QueryInputCursorLeft, QueryInputCursorRight, QueryInputCursorUp, QueryInputCursorDown,
		QueryInputCursorHome, QueryInputCursorEnd, QueryInputClear:
		a.editQueryInput(msg)
	case QueryInputFormat:
		a.formatQueryInput()
	case QueryInputExecute:
		a.executeQueryInput()

	case PageNext:
		a.Pagination.NextPage()
		a.clampDataCursor()
	case PagePrev:
		a.Pagination.PrevPage()
		a.clampDataCursor()
	case PageFirst:
		a.Pagination.FirstPage()
		a.clampDataCursor()
	case PageLast:
		a.Pagination.LastPage()
		a.clampDataCursor()
	case PageSizeCycle:
		a.Pagination.CyclePageSize()
		a.clampDataCursor()

	case DataTableUp:
		a.navigateDataTable(-1)
	case DataTableDown:
		a.navigateDataTable(1)
	case DataTablePageUp:
		a.navigateDataTable(-10)
	case DataTablePageDown:
		a.navigateDataTable(10)
	case DataTableFirst:
		a.dataTableFirst()
	case DataTableLast:
		a.dataTableLast()

	case YankQuery:
		a.yankQuery()
	case YankRow:
		a.yankRow()
	}
	return false
}

func (a *App) openAddConnection() {
	if a.Mode == ModeConnections {
		a.Modal = modal.NewAddConnection()
	}
}

func (a *App) openAddProject() {
	if a.Mode == ModeProjects {
		a.Modal = &modal.AddProject{}
	}
}

func schemaTabFor(k Kind) model.SchemaTab {
	switch k {
	case SwitchToIndexes:
		return model.SchemaIndexes
	case SwitchToForeignKeys:
		return model.SchemaForeignKeys
	case SwitchToConstraints:
		return model.SchemaConstraints
	case SwitchToTriggers:
		return model.SchemaTriggers
	case SwitchToDefinition:
		return model.SchemaDefinition
	default:
		return model.SchemaColumns
	}
}

func (a *App) selectedIsView() bool {
	t, ok := a.CurrentTable()
	return ok && t.IsView()
}

func (a *App) editQueryInput(msg Message) {
	m, ok := a.queryInput()
	if !ok {
		return
	}
	switch msg.Kind {
	case QueryInputChar:
		m.InputChar(msg.Char)
	case QueryInputBackspace:
		m.Backspace()
	case QueryInputDelete:
		m.Delete()
	case QueryInputNewline:
		m.Newline()
	case QueryInputCursorLeft:
		m.Left()
	case QueryInputCursorRight:
		m.Right()
	case QueryInputCursorUp:
		m.Up()
	case QueryInputCursorDown:
		m.Down()
	case QueryInputCursorHome:
		m.Home()
	case QueryInputCursorEnd:
		m.End()
	case QueryInputClear:
		m.Clear()
	}
}
