package app

// Kind enumerates every intent the reducer accepts.
type Kind int

const (
	Quit Kind = iota

	NavigateUp
	NavigateDown
	NextFocus
	PrevFocus
	FocusLeft
	FocusRight
	FocusUp
	FocusDown
	Activate
	GoBack

	SwitchToSchema
	SwitchToData
	SwitchToRelations
	SwitchToColumns
	SwitchToIndexes
	SwitchToForeignKeys
	SwitchToConstraints
	SwitchToTriggers
	SwitchToDefinition
	NextSchemaTab
	PrevSchemaTab

	OpenAddConnectionModal
	OpenAddProjectModal
	OpenEditProjectModal
	DeleteProject
	OpenSearchProjectModal
	OpenSearchConnectionModal
	OpenSearchTableModal
	OpenUnifiedSearchModal
	OpenColumnVisibilityModal
	OpenQueryInputModal

	CloseModal
	ModalConfirm
	ModalInputChar
	ModalInputBackspace
	ModalNextField
	ModalPrevField

	SearchConfirm
	SearchConnectionConfirm
	TableSearchConfirm
	UnifiedSearchConfirm
	UnifiedSearchSwitchSection

	ToggleColumnVisibility

	OpenHistoryModal
	HistoryNavigateUp
	HistoryNavigateDown
	HistorySelectEntry
	ClearHistory

	QueryInputChar
	QueryInputBackspace
	QueryInputDelete
	QueryInputNewline
	QueryInputCursorLeft
	QueryInputCursorRight
	QueryInputCursorUp
	QueryInputCursorDown
	QueryInputCursorHome
	QueryInputCursorEnd
	QueryInputClear
	QueryInputFormat
	QueryInputExecute

	PageNext
	PagePrev
	PageFirst
	PageLast
	PageSizeCycle

	DataTableUp
	DataTableDown
	DataTablePageUp
	DataTablePageDown
	DataTableFirst
	DataTableLast

	YankQuery
	YankRow
)

// Message is the only input to Update. Char is set for the *Char kinds.
type Message struct {
	Kind Kind
	Char rune
}

// Msg builds a payload-free message.
func Msg(k Kind) Message {
	return Message{Kind: k}
}

// Char builds a character input message of kind k.
func Char(k Kind, r rune) Message {
	return Message{Kind: k, Char: r}
}
