package highlight

import (
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/kobzarvs/qcore/internal/rope"
)

func TestTokenScope(t *testing.T) {
	tests := []struct {
		tok  chroma.TokenType
		want string
		ok   bool
	}{
		{chroma.Keyword, "keyword", true},
		{chroma.KeywordDeclaration, "keyword", true},
		{chroma.KeywordType, "type.builtin", true},
		{chroma.LiteralStringDouble, "string", true},
		{chroma.LiteralStringEscape, "escape", true},
		{chroma.LiteralNumberInteger, "number", true},
		{chroma.CommentSingle, "comment", true},
		{chroma.NameFunction, "function", true},
		{chroma.NameVariableGlobal, "variable", true},
		{chroma.Text, "", false},
		{chroma.Name, "", false},
	}
	for _, tt := range tests {
		got, ok := tokenScope(tt.tok)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("tokenScope(%v) = %q, %v; want %q, %v", tt.tok, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTokenizeOffsets(t *testing.T) {
	content := "# comment\nx = 42\n"
	lexer := chroma.Coalesce(lexers.Get("python"))
	spans, err := Tokenize(lexer, content)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(spans) == 0 {
		t.Fatalf("no spans")
	}
	for i, sp := range spans {
		if sp.Start < 0 || sp.End > len(content) || sp.Start >= sp.End {
			t.Fatalf("span %d out of range: %+v", i, sp)
		}
		if i > 0 && spans[i-1].End > sp.Start {
			t.Fatalf("spans overlap: %+v %+v", spans[i-1], sp)
		}
	}
	if spans[0].Start != 0 || spans[0].Tag != "comment" {
		t.Fatalf("first span = %+v, want the comment", spans[0])
	}
	var number bool
	for _, sp := range spans {
		if sp.Tag == "number" && content[sp.Start:sp.End] == "42" {
			number = true
		}
	}
	if !number {
		t.Fatalf("no number span in %+v", spans)
	}
}

func TestSpansCachePerRevision(t *testing.T) {
	h := New()
	text := rope.FromString("SELECT 1;\n")
	first, ok, err := h.Spans("query.sql", 1, text)
	if err != nil || !ok {
		t.Fatalf("Spans = %v, %v", ok, err)
	}
	again, _, _ := h.Spans("query.sql", 1, rope.FromString("ignored"))
	if len(again) != len(first) {
		t.Fatalf("cached result not reused")
	}
	h.Invalidate("query.sql")
	fresh, _, _ := h.Spans("query.sql", 1, rope.FromString("-- note\n"))
	if len(fresh) == 0 || fresh[0].Tag != "comment" {
		t.Fatalf("after Invalidate = %+v", fresh)
	}
}

func TestUnknownFile(t *testing.T) {
	if _, ok, _ := New().Spans("notes.qqqzzz", 0, rope.New()); ok {
		t.Fatalf("empty unknown file should have no lexer")
	}
	if Name("main.py") == "" {
		t.Fatalf("Name(main.py) is empty")
	}
}
