// Package syntax colours and pretty-prints SQL for the query views.
package syntax

import (
	"errors"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/parser"
	"github.com/cockroachdb/cockroachdb-parser/pkg/sql/sem/tree"
	"github.com/mjibson/sqlfmt"
	"github.com/sheenazien8/lazydb/ui/theme"
)

// ErrEmptyQuery is returned by Format and Split for blank input.
var ErrEmptyQuery = errors.New("empty query")

// Segment is a run of text sharing one token type.
type Segment struct {
	Text string
	Type chroma.TokenType
}

func sqlLexer() chroma.Lexer {
	l := lexers.Get("sql")
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// Tokens splits text into highlighted segments. On a lexer failure the
// whole text comes back as a single plain segment.
func Tokens(text string) []Segment {
	if text == "" {
		return nil
	}
	it, err := sqlLexer().Tokenise(nil, text)
	if err != nil {
		return []Segment{{Text: text, Type: chroma.Text}}
	}
	var out []Segment
	for tok := it(); tok != chroma.EOF; tok = it() {
		out = append(out, Segment{Text: tok.Value, Type: tok.Type})
	}
	return out
}

// Style maps a token type onto the active theme.
func Style(tt chroma.TokenType) lipgloss.Style {
	c := theme.Current.Colors
	s := lipgloss.NewStyle()
	switch {
	case tt == chroma.KeywordType:
		return s.Foreground(c.Accent)
	case tt.InCategory(chroma.Keyword):
		return s.Foreground(c.Primary).Bold(true)
	case tt.InSubCategory(chroma.LiteralString):
		return s.Foreground(c.Success)
	case tt.InSubCategory(chroma.LiteralNumber):
		return s.Foreground(c.Warning)
	case tt.InCategory(chroma.Comment):
		return s.Foreground(c.ForegroundDim).Italic(true)
	case tt == chroma.NameFunction, tt == chroma.NameBuiltin:
		return s.Foreground(c.Info)
	case tt.InCategory(chroma.Operator):
		return s.Foreground(c.Warning)
	case tt.InCategory(chroma.Punctuation):
		return s.Foreground(c.ForegroundDim)
	default:
		return s.Foreground(c.Foreground)
	}
}

// Highlight renders text with ANSI colours. Newlines are preserved so the
// result can be split into lines by the caller.
func Highlight(text string) string {
	var b strings.Builder
	for _, seg := range Tokens(text) {
		st := Style(seg.Type)
		// lipgloss pads multi-line renders, so colour each line on its own
		lines := strings.Split(seg.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(st.Render(line))
			}
		}
	}
	return b.String()
}

// Split breaks query into its individual statements.
func Split(query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	stmts, err := parser.Parse(query)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, s.SQL)
	}
	return out, nil
}

// Format pretty-prints query with upper-case keywords, wrapping at width
// columns. Each statement ends with a semicolon.
func Format(query string, width int) (string, error) {
	stmts, err := Split(query)
	if err != nil {
		return "", err
	}
	cfg := tree.DefaultPrettyCfg()
	cfg.UseTabs = false
	cfg.TabWidth = 2
	cfg.Case = strings.ToUpper
	if width > 0 {
		cfg.LineWidth = width
	}
	out, err := sqlfmt.FmtSQL(cfg, stmts)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
