package modal

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter narrows a list of names to those containing Query, ignoring case.
// Indices point into the unfiltered list; Cursor points into Indices.
type Filter struct {
	Query   string
	Indices []int
	Cursor  int
}

// NewFilter starts with every one of n items matching.
func NewFilter(n int) Filter {
	f := Filter{Indices: make([]int, n)}
	for i := range f.Indices {
		f.Indices[i] = i
	}
	return f
}

// Apply recomputes Indices against names and pulls the cursor back inside
// the new result.
func (f *Filter) Apply(names []string) {
	fold := cases.Fold()
	needle := fold.String(f.Query)
	f.Indices = make([]int, 0, len(names))
	for i, name := range names {
		if needle == "" || strings.Contains(fold.String(name), needle) {
			f.Indices = append(f.Indices, i)
		}
	}
	if f.Cursor >= len(f.Indices) {
		f.Cursor = max(len(f.Indices)-1, 0)
	}
}

// Selected returns the source index under the cursor.
func (f *Filter) Selected() (int, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.Indices) {
		return 0, false
	}
	return f.Indices[f.Cursor], true
}

func (f *Filter) Len() int { return len(f.Indices) }

func (f *Filter) Up() {
	if len(f.Indices) == 0 {
		return
	}
	if f.Cursor > 0 {
		f.Cursor--
	} else {
		f.Cursor = len(f.Indices) - 1
	}
}

func (f *Filter) Down() {
	if len(f.Indices) == 0 {
		return
	}
	if f.Cursor+1 < len(f.Indices) {
		f.Cursor++
	} else {
		f.Cursor = 0
	}
}

func (f *Filter) appendRune(r rune) { f.Query += string(r) }

func (f *Filter) backspace() { f.Query = dropLastRune(f.Query) }
