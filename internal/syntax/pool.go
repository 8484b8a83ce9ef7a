package syntax

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/qcore/internal/language"
	"github.com/kobzarvs/qcore/internal/logger"
)

// ParserPool hands out parsers and compiled highlight queries per
// language. Parsers are reused; a parser is used by one goroutine at a
// time.
type ParserPool struct {
	mu       sync.Mutex
	parsers  map[language.Language][]*sitter.Parser
	queries  map[language.Language]*sitter.Query
	queryErr map[language.Language]error
}

func NewParserPool() *ParserPool {
	return &ParserPool{
		parsers:  make(map[language.Language][]*sitter.Parser),
		queries:  make(map[language.Language]*sitter.Query),
		queryErr: make(map[language.Language]error),
	}
}

func (p *ParserPool) get(lang language.Language) (*sitter.Parser, error) {
	grammar := lang.Grammar()
	if grammar == nil {
		return nil, fmt.Errorf("%v: no grammar", lang)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if free := p.parsers[lang]; len(free) > 0 {
		parser := free[len(free)-1]
		p.parsers[lang] = free[:len(free)-1]
		return parser, nil
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	return parser, nil
}

func (p *ParserPool) put(lang language.Language, parser *sitter.Parser) {
	p.mu.Lock()
	p.parsers[lang] = append(p.parsers[lang], parser)
	p.mu.Unlock()
}

// query compiles the highlight query once. A query that fails to compile
// is remembered so the failure is logged a single time.
func (p *ParserPool) query(lang language.Language) (*sitter.Query, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if q, ok := p.queries[lang]; ok {
		return q, nil
	}
	if err, ok := p.queryErr[lang]; ok {
		return nil, err
	}
	grammar := lang.Grammar()
	if grammar == nil {
		return nil, fmt.Errorf("%v: no grammar", lang)
	}
	q, err := sitter.NewQuery([]byte(lang.HighlightQuery()), grammar)
	if err != nil {
		err = fmt.Errorf("compile %v highlight query: %w", lang, err)
		p.queryErr[lang] = err
		logger.Warn("highlight query disabled", "language", lang.String(), "err", err)
		return nil, err
	}
	p.queries[lang] = q
	return q, nil
}
