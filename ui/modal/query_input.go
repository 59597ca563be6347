package modal

import (
	"strings"
	"unicode/utf8"
)

// QueryInput is a small multi-line SQL editor. Cursor is a byte offset
// that always sits on a rune boundary.
type QueryInput struct {
	Query  string
	Cursor int
}

// NewQueryInput starts with initial and the cursor at its end.
func NewQueryInput(initial string) *QueryInput {
	return &QueryInput{Query: initial, Cursor: len(initial)}
}

func (*QueryInput) Title() string { return "Query" }
func (*QueryInput) sealed()       {}

func (m *QueryInput) InputChar(r rune) {
	s := string(r)
	m.Query = m.Query[:m.Cursor] + s + m.Query[m.Cursor:]
	m.Cursor += len(s)
}

func (m *QueryInput) Newline() { m.InputChar('\n') }

// Backspace removes the rune before the cursor.
func (m *QueryInput) Backspace() {
	if m.Cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(m.Query[:m.Cursor])
	m.Query = m.Query[:m.Cursor-size] + m.Query[m.Cursor:]
	m.Cursor -= size
}

// Delete removes the rune under the cursor.
func (m *QueryInput) Delete() {
	if m.Cursor >= len(m.Query) {
		return
	}
	_, size := utf8.DecodeRuneInString(m.Query[m.Cursor:])
	m.Query = m.Query[:m.Cursor] + m.Query[m.Cursor+size:]
}

func (m *QueryInput) Left() {
	if m.Cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(m.Query[:m.Cursor])
	m.Cursor -= size
}

func (m *QueryInput) Right() {
	if m.Cursor >= len(m.Query) {
		return
	}
	_, size := utf8.DecodeRuneInString(m.Query[m.Cursor:])
	m.Cursor += size
}

func (m *QueryInput) lineStart(pos int) int {
	return strings.LastIndexByte(m.Query[:pos], '\n') + 1
}

func (m *QueryInput) lineEnd(pos int) int {
	if i := strings.IndexByte(m.Query[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(m.Query)
}

func (m *QueryInput) Home() { m.Cursor = m.lineStart(m.Cursor) }
func (m *QueryInput) End()  { m.Cursor = m.lineEnd(m.Cursor) }

// Up keeps the byte column where the previous line is long enough.
func (m *QueryInput) Up() {
	start := m.lineStart(m.Cursor)
	if start == 0 {
		return
	}
	col := m.Cursor - start
	prevStart := m.lineStart(start - 1)
	prevLen := start - 1 - prevStart
	m.Cursor = m.snap(prevStart + min(col, prevLen))
}

func (m *QueryInput) Down() {
	end := m.lineEnd(m.Cursor)
	if end == len(m.Query) {
		return
	}
	col := m.Cursor - m.lineStart(m.Cursor)
	nextStart := end + 1
	nextLen := m.lineEnd(nextStart) - nextStart
	m.Cursor = m.snap(nextStart + min(col, nextLen))
}

// snap moves pos back to the start of the rune containing it.
func (m *QueryInput) snap(pos int) int {
	for pos > 0 && pos < len(m.Query) && !utf8.RuneStart(m.Query[pos]) {
		pos--
	}
	return pos
}

func (m *QueryInput) Clear() {
	m.Query = ""
	m.Cursor = 0
}

// SetQuery replaces the text and moves the cursor to the end.
func (m *QueryInput) SetQuery(q string) {
	m.Query = q
	m.Cursor = len(q)
}

// Empty reports whether the query is blank.
func (m *QueryInput) Empty() bool { return strings.TrimSpace(m.Query) == "" }

// Position returns the zero-based line and rune column of the cursor.
func (m *QueryInput) Position() (line, col int) {
	before := m.Query[:m.Cursor]
	line = strings.Count(before, "\n")
	col = utf8.RuneCountInString(before[m.lineStart(m.Cursor):])
	return line, col
}
