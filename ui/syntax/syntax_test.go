package syntax

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
)

func TestTokensCoverInput(t *testing.T) {
	in := "SELECT id, 'x' FROM users -- trailing\nWHERE id = 1"
	var b strings.Builder
	sawKeyword := false
	for _, seg := range Tokens(in) {
		b.WriteString(seg.Text)
		if seg.Type.InCategory(chroma.Keyword) && strings.EqualFold(seg.Text, "SELECT") {
			sawKeyword = true
		}
	}
	if b.String() != in {
		t.Errorf("joined tokens = %q, want %q", b.String(), in)
	}
	if !sawKeyword {
		t.Error("SELECT not tokenised as a keyword")
	}
	if Tokens("") != nil {
		t.Error("Tokens(\"\") should be nil")
	}
}

func TestHighlightKeepsLines(t *testing.T) {
	out := Highlight("SELECT 1\nFROM t")
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("newlines = %d, want 1", got)
	}
	if !strings.Contains(out, "SELECT") || !strings.Contains(out, "FROM") {
		t.Errorf("Highlight lost text: %q", out)
	}
}

func TestSplit(t *testing.T) {
	stmts, err := Split("SELECT 1; SELECT 2;")
	if err != nil {
		t.Fatalf("Split() error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("len = %d, want 2 (%q)", len(stmts), stmts)
	}

	if _, err := Split("   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Split(blank) error = %v, want ErrEmptyQuery", err)
	}
	if _, err := Split("SELEC 1 FRM"); err == nil {
		t.Error("Split() accepted invalid SQL")
	}
}

func TestFormat(t *testing.T) {
	out, err := Format("select id, name from users where id = 1", 40)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	for _, want := range []string{"SELECT", "FROM", "WHERE"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() = %q, missing %s", out, want)
		}
	}
	if strings.HasSuffix(out, "\n") {
		t.Errorf("Format() kept trailing newline: %q", out)
	}

	if _, err := Format("not sql at all (", 80); err == nil {
		t.Error("Format() accepted invalid SQL")
	}
}
