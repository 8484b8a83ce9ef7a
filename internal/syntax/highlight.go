package syntax

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/qcore/internal/delta"
)

// Span tags the bytes [Start, End) with a highlight scope such as
// "keyword" or "function.method".
type Span struct {
	Start, End int
	Tag        string
}

// Spans are sorted and do not overlap.
type Spans []Span

// scopes are the tags a span can carry. Captures with other names fall
// back to their longest dotted prefix in this set, or are dropped.
var scopes = map[string]bool{
	"attribute": true, "comment": true, "constant": true, "constant.builtin": true,
	"escape": true, "function": true, "function.builtin": true, "function.macro": true,
	"function.method": true, "keyword": true, "label": true, "markup.heading": true,
	"markup.link": true, "markup.list": true, "markup.raw": true, "namespace": true,
	"number": true, "operator": true, "property": true, "punctuation": true,
	"punctuation.bracket": true, "punctuation.delimiter": true, "string": true,
	"type": true, "type.builtin": true, "variable": true, "variable.builtin": true,
	"variable.parameter": true,
}

// ScopeTag resolves a capture name to a known scope.
func ScopeTag(name string) (string, bool) {
	for name != "" {
		if scopes[name] {
			return name, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return "", false
}

type capture struct {
	start, end int
	pattern    uint16
	tag        string
}

// Highlight runs the language's highlight query over the current tree and
// stores the resulting spans. Nested captures win over the nodes that
// contain them; when several patterns capture the same node the earliest
// pattern wins.
func (s *Syntax) Highlight(ctx context.Context) (Spans, error) {
	if s.tree == nil {
		return nil, nil
	}
	query, err := s.pool.query(s.lang)
	if err != nil {
		return nil, err
	}
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, s.tree.RootNode())

	var caps []capture
	for n := 0; ; n++ {
		if n%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, s.source)
		if match == nil {
			continue
		}
		for _, c := range match.Captures {
			tag, ok := ScopeTag(query.CaptureNameForId(c.Index))
			if !ok || c.Node == nil {
				continue
			}
			start, end := int(c.Node.StartByte()), int(c.Node.EndByte())
			if start >= end {
				continue
			}
			caps = append(caps, capture{start: start, end: end, pattern: match.PatternIndex, tag: tag})
		}
	}
	s.styles = flatten(caps)
	return s.styles, nil
}

// flatten turns properly nested captures into non-overlapping spans.
func flatten(caps []capture) Spans {
	sort.SliceStable(caps, func(i, j int) bool {
		a, b := caps[i], caps[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end > b.end
		}
		return a.pattern < b.pattern
	})

	out := Spans{}
	var stack []capture
	pos := 0
	emit := func(upTo int) {
		if upTo <= pos {
			return
		}
		if len(stack) > 0 {
			tag := stack[len(stack)-1].tag
			if n := len(out); n > 0 && out[n-1].End == pos && out[n-1].Tag == tag {
				out[n-1].End = upTo
			} else {
				out = append(out, Span{Start: pos, End: upTo, Tag: tag})
			}
		}
		pos = upTo
	}

	for i, c := range caps {
		if i > 0 && caps[i-1].start == c.start && caps[i-1].end == c.end {
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].end <= c.start {
			emit(stack[len(stack)-1].end)
			stack = stack[:len(stack)-1]
		}
		emit(c.start)
		if len(stack) > 0 && c.end > stack[len(stack)-1].end {
			c.end = stack[len(stack)-1].end
		}
		stack = append(stack, c)
	}
	for len(stack) > 0 {
		emit(stack[len(stack)-1].end)
		stack = stack[:len(stack)-1]
	}
	return out
}

// ApplyDelta shifts spans through d so stale styles stay roughly in place
// until the next Highlight. Text inserted at a span's edges is left
// unstyled; spans that collapse are dropped.
func (sp Spans) ApplyDelta(d delta.Delta) Spans {
	out := make(Spans, 0, len(sp))
	for _, s := range sp {
		start := d.Transform(s.Start, true)
		end := d.Transform(s.End, false)
		if start < end {
			out = append(out, Span{Start: start, End: end, Tag: s.Tag})
		}
	}
	return out
}

// InRange returns the spans that intersect [start, end), clipped to it.
func (sp Spans) InRange(start, end int) Spans {
	i := sort.Search(len(sp), func(i int) bool { return sp[i].End > start })
	var out Spans
	for ; i < len(sp) && sp[i].Start < end; i++ {
		s := sp[i]
		out = append(out, Span{Start: max(s.Start, start), End: min(s.End, end), Tag: s.Tag})
	}
	return out
}
