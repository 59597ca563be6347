package table

import (
	"strings"
	"testing"
)

func TestColumnsWidth(t *testing.T) {
	cols := Columns([]string{"id", "description"}, [][]string{
		{"1", strings.Repeat("x", 100)},
		{"12345", "short"},
	})
	if cols[0].Width != 5 {
		t.Errorf("id width = %d, want 5", cols[0].Width)
	}
	if cols[1].Width != maxColumnWidth {
		t.Errorf("description width = %d, want %d", cols[1].Width, maxColumnWidth)
	}
	if Columns([]string{"a"}, nil)[0].Width != minColumnWidth {
		t.Error("narrow column not widened")
	}
}

func TestTruncateOrPad(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdefgh", 6, "abc..."},
		{"line\nbreak", 10, "line break"},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncateOrPad(tt.in, tt.width); got != tt.want {
			t.Errorf("truncateOrPad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestRowOffsetFollowsCursor(t *testing.T) {
	g := Grid{Rows: make([]Row, 50), Height: 13}
	if g.rowOffset() != 0 {
		t.Errorf("offset at top = %d", g.rowOffset())
	}
	g.Cursor = 25
	if off := g.rowOffset(); off != 16 {
		t.Errorf("offset = %d, want 16", off)
	}
	g.Cursor = 49
	if off := g.rowOffset(); off != 40 {
		t.Errorf("offset at end = %d, want 40", off)
	}
}

func TestRender(t *testing.T) {
	rows := [][]string{{"1", "alice"}, {"2", "NULL"}}
	out := Render(Grid{
		Columns: Columns([]string{"id", "name"}, rows),
		Rows:    Rows(rows),
		Cursor:  1,
		Width:   60,
		Height:  8,
		Footer:  "Page 1/1",
	})
	for _, want := range []string{"alice", "name", "Row 2/2", "Page 1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	if got := strings.Count(out, "\n") + 1; got != 8 {
		t.Errorf("rendered %d lines, want 8", got)
	}
	if Render(Grid{Width: 10, Height: 5}) == "" {
		t.Error("empty grid rendered nothing")
	}
}
