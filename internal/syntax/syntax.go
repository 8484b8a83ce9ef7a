// Package syntax keeps the parse tree of one buffer and the state derived
// from it: the lines that stay at full height when folding, the lens built
// from them, and highlight spans. Everything is tied to the buffer
// revision it was computed from.
package syntax

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/language"
	"github.com/kobzarvs/qcore/internal/lens"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/rope"
)

// Options are the heights used to build the lens.
type Options struct {
	LineHeight int
	LensHeight int
}

// Syntax is not safe for concurrent use; Service serializes access.
type Syntax struct {
	rev         uint64
	lang        language.Language
	pool        *ParserPool
	opts        Options
	tree        *sitter.Tree
	text        rope.Rope
	source      []byte
	normalLines []int
	lens        lens.Lens
	styles      Spans
	log         *zap.SugaredLogger
}

// New prepares an empty Syntax for lang. Nothing is parsed until Parse.
// It reports false for a language without a grammar: such files simply
// have no syntax features.
func New(lang language.Language, pool *ParserPool, opts Options) (*Syntax, bool) {
	if lang.Grammar() == nil {
		return nil, false
	}
	if pool == nil {
		pool = NewParserPool()
	}
	return &Syntax{
		lang: lang,
		pool: pool,
		opts: opts,
		log:  logger.Named("syntax"),
	}, true
}

// Init detects the language of path and prepares a Syntax for it.
func Init(path string, pool *ParserPool, opts Options) (*Syntax, bool) {
	return New(language.FromPath(path), pool, opts)
}

func (s *Syntax) Rev() uint64                 { return s.rev }
func (s *Syntax) Language() language.Language { return s.lang }
func (s *Syntax) HasTree() bool               { return s.tree != nil }
func (s *Syntax) Text() rope.Rope             { return s.text }
func (s *Syntax) Lens() lens.Lens             { return s.lens }

// NormalLines returns the sorted lines kept at full height.
func (s *Syntax) NormalLines() []int { return s.normalLines }

// Styles returns the highlight spans, or nil when they have not been
// computed for the current revision.
func (s *Syntax) Styles() Spans { return s.styles }

// Edit is the change that turns the text parsed at revision From into the
// text being parsed.
type Edit struct {
	From  uint64
	Delta delta.Delta
}

// reusable reports whether the current tree can be edited by e and handed
// to the parser. Only one contiguous insert or delete from the parsed
// revision qualifies.
func (s *Syntax) reusable(e *Edit, text rope.Rope) bool {
	if s.tree == nil || e == nil || e.From != s.rev {
		return false
	}
	if e.Delta.BaseLen() != s.text.Len() || e.Delta.NewLen() != text.Len() {
		return false
	}
	if _, _, ok := e.Delta.AsSimpleInsert(); ok {
		return true
	}
	_, _, ok := e.Delta.AsSimpleDelete()
	return ok
}

// Parse brings the tree to text at revision newRev. When e is a simple
// edit from the revision last parsed, a copy of the old tree is edited and
// reused; otherwise the text is parsed from scratch. On failure the
// previous state is kept. Styles are dropped and must be recomputed with
// Highlight.
func (s *Syntax) Parse(ctx context.Context, newRev uint64, text rope.Rope, e *Edit) error {
	parser, err := s.pool.get(s.lang)
	if err != nil {
		return err
	}
	defer s.pool.put(s.lang, parser)

	var old *sitter.Tree
	if s.reusable(e, text) {
		old = s.tree.Copy()
		for _, edit := range buffer.SyntaxEditFromDelta(s.text, e.Delta) {
			old.Edit(edit)
		}
	}

	source := []byte(text.String())
	tree, err := parser.ParseCtx(ctx, old, source)
	if err != nil {
		return fmt.Errorf("parse rev %d: %w", newRev, err)
	}
	if tree == nil {
		return fmt.Errorf("parse rev %d: no tree", newRev)
	}

	s.tree = tree
	s.text = text
	s.source = source
	s.rev = newRev
	s.styles = nil
	s.normalLines = s.walkNormalLines()
	s.lens = lens.FromNormalLines(text.NumLines(), s.opts.LineHeight, s.opts.LensHeight, s.normalLines)
	s.log.Debugw("parsed", "rev", newRev, "incremental", old != nil, "bytes", len(source))
	return nil
}

func (s *Syntax) walkNormalLines() []int {
	if s.tree == nil {
		return nil
	}
	descend, ignore := s.lang.FoldKinds()
	seen := make(map[int]struct{})
	walkTree(s.tree.RootNode(), seen, descend, ignore)
	lines := make([]int, 0, len(seen))
	for l := range seen {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return lines
}

func contains(list []string, kind string) bool {
	for _, k := range list {
		if k == kind {
			return true
		}
	}
	return false
}

// walkTree marks the first and last row of every node whose kind is not
// ignored, and only walks into nodes whose kind is in descend.
func walkTree(n *sitter.Node, normal map[int]struct{}, descend, ignore []string) {
	if n == nil {
		return
	}
	kind := strings.TrimSpace(n.Type())
	if kind != "" && !contains(ignore, kind) {
		normal[int(n.StartPoint().Row)] = struct{}{}
		normal[int(n.EndPoint().Row)] = struct{}{}
	}
	if !contains(descend, kind) {
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		walkTree(n.Child(i), normal, descend, ignore)
	}
}

// descendantAt returns the smallest node whose byte range contains offset.
func descendantAt(root *sitter.Node, offset uint32) *sitter.Node {
	n := root
	for {
		next := (*sitter.Node)(nil)
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			if c.StartByte() <= offset && offset < c.EndByte() {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

// FindTag looks for a token of kind tag near offset: first among the
// siblings of the node at offset (before it when previous is set), then
// as that node's first child, then among the siblings of each ancestor.
func (s *Syntax) FindTag(offset int, previous bool, tag string) (int, bool) {
	if s.tree == nil || offset < 0 {
		return 0, false
	}
	node := descendantAt(s.tree.RootNode(), uint32(offset))
	if node == nil {
		return 0, false
	}
	if off, ok := findTagInSiblings(node, previous, tag); ok {
		return off, true
	}
	if child := node.Child(0); child != nil && child.Type() == tag {
		return int(child.StartByte()), true
	}
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if off, ok := findTagInSiblings(parent, previous, tag); ok {
			return off, true
		}
	}
	return 0, false
}

func findTagInSiblings(n *sitter.Node, previous bool, tag string) (int, bool) {
	for {
		if previous {
			n = n.PrevSibling()
		} else {
			n = n.NextSibling()
		}
		if n == nil {
			return 0, false
		}
		if n.Type() == tag {
			return int(n.StartByte()), true
		}
	}
}

// NodeRange is a node's span in lines and byte columns.
type NodeRange struct {
	StartRow, StartCol int
	EndRow, EndCol     int
}

// NodeStackAt returns the named nodes covering row and col, innermost
// first. Adjacent duplicates are dropped.
func (s *Syntax) NodeStackAt(row, col int) []NodeRange {
	if s.tree == nil {
		return nil
	}
	point := sitter.Point{Row: uint32(row), Column: uint32(col)}
	node := s.tree.RootNode().NamedDescendantForPointRange(point, point)
	var stack []NodeRange
	for node != nil {
		start, end := node.StartPoint(), node.EndPoint()
		nr := NodeRange{int(start.Row), int(start.Column), int(end.Row), int(end.Column)}
		if len(stack) == 0 || stack[len(stack)-1] != nr {
			stack = append(stack, nr)
		}
		node = node.Parent()
	}
	return stack
}
