// Package highlight tags text with chroma's regex lexers. It covers the
// file types no tree-sitter grammar is bundled for, producing the same
// span format the syntax package does.
package highlight

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/syntax"
)

type cached struct {
	rev   uint64
	spans syntax.Spans
}

// Highlighter remembers the spans of the last revision it saw per path.
type Highlighter struct {
	mu    sync.Mutex
	cache map[string]cached
}

func New() *Highlighter {
	return &Highlighter{cache: make(map[string]cached)}
}

// Invalidate drops what is cached for path.
func (h *Highlighter) Invalidate(path string) {
	h.mu.Lock()
	delete(h.cache, path)
	h.mu.Unlock()
}

// LexerFor picks a lexer by file name, then by content. It returns nil
// when neither is recognised.
func LexerFor(path, content string) chroma.Lexer {
	lexer := lexers.Match(path)
	if lexer == nil && content != "" {
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// Name is the lexer name for path, or "" when none matches.
func Name(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil || lexer.Config() == nil {
		return ""
	}
	return lexer.Config().Name
}

// Spans highlights text, reusing the result for a repeated rev of path.
// It reports false when no lexer recognises the file.
func (h *Highlighter) Spans(path string, rev uint64, text rope.Rope) (syntax.Spans, bool, error) {
	h.mu.Lock()
	if c, ok := h.cache[path]; ok && c.rev == rev {
		h.mu.Unlock()
		return c.spans, true, nil
	}
	h.mu.Unlock()

	content := text.String()
	lexer := LexerFor(path, content)
	if lexer == nil {
		return nil, false, nil
	}
	spans, err := Tokenize(lexer, content)
	if err != nil {
		return nil, true, fmt.Errorf("highlight %s: %w", path, err)
	}

	h.mu.Lock()
	h.cache[path] = cached{rev: rev, spans: spans}
	h.mu.Unlock()
	return spans, true, nil
}

// Tokenize runs lexer over content and keeps the tokens that map to a
// highlight scope. Lexers that rewrite their input (some append a final
// newline) stop contributing spans where the token text no longer lines
// up with content.
func Tokenize(lexer chroma.Lexer, content string) (syntax.Spans, error) {
	it, err := lexer.Tokenise(nil, content)
	if err != nil {
		return nil, err
	}
	var spans syntax.Spans
	offset := 0
	for _, tok := range it.Tokens() {
		end := offset + len(tok.Value)
		if end > len(content) || content[offset:end] != tok.Value {
			break
		}
		if tag, ok := tokenScope(tok.Type); ok && strings.TrimSpace(tok.Value) != "" {
			if n := len(spans); n > 0 && spans[n-1].End == offset && spans[n-1].Tag == tag {
				spans[n-1].End = end
			} else {
				spans = append(spans, syntax.Span{Start: offset, End: end, Tag: tag})
			}
		}
		offset = end
	}
	return spans, nil
}

// tokenScope maps a chroma token type onto the scope names used by the
// tree-sitter queries.
func tokenScope(t chroma.TokenType) (string, bool) {
	var name string
	switch {
	case t == chroma.KeywordConstant:
		name = "constant.builtin"
	case t == chroma.KeywordType:
		name = "type.builtin"
	case t.InCategory(chroma.Keyword):
		name = "keyword"
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		name = "function.builtin"
	case t == chroma.NameFunction || t == chroma.NameFunctionMagic:
		name = "function"
	case t == chroma.NameClass || t == chroma.NameException:
		name = "type"
	case t == chroma.NameNamespace:
		name = "namespace"
	case t == chroma.NameConstant:
		name = "constant"
	case t == chroma.NameAttribute || t == chroma.NameDecorator:
		name = "attribute"
	case t == chroma.NameTag:
		name = "keyword"
	case t == chroma.NameLabel:
		name = "label"
	case t == chroma.NameProperty:
		name = "property"
	case t >= chroma.NameVariable && t <= chroma.NameVariableMagic:
		name = "variable"
	case t == chroma.LiteralStringEscape:
		name = "escape"
	case t.InSubCategory(chroma.LiteralString):
		name = "string"
	case t.InSubCategory(chroma.LiteralNumber):
		name = "number"
	case t.InCategory(chroma.Comment):
		name = "comment"
	case t.InCategory(chroma.Operator):
		name = "operator"
	case t.InCategory(chroma.Punctuation):
		name = "punctuation"
	case t == chroma.GenericHeading || t == chroma.GenericSubheading:
		name = "markup.heading"
	default:
		return "", false
	}
	return syntax.ScopeTag(name)
}
