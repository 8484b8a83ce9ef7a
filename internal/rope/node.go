package rope

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	minLeaf = 128
	maxLeaf = 256

	minChildren = 4
	maxChildren = 8
)

// summary is the monoid cached on every node.
type summary struct {
	bytes    int
	newlines int
	utf16    int
}

func (s summary) add(o summary) summary {
	return summary{
		bytes:    s.bytes + o.bytes,
		newlines: s.newlines + o.newlines,
		utf16:    s.utf16 + o.utf16,
	}
}

func summarize(s string) summary {
	sum := summary{bytes: len(s)}
	for _, r := range s {
		if r == '\n' {
			sum.newlines++
		}
		sum.utf16 += utf16Len(r)
	}
	return sum
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// node is immutable once built. Leaves (height 0) hold text, internal
// nodes hold 1..maxChildren children of equal height.
type node struct {
	height   int
	sum      summary
	leaf     string
	children []*node
}

func newLeaf(s string) *node {
	return &node{leaf: s, sum: summarize(s)}
}

func newInternal(children []*node) *node {
	n := &node{height: children[0].height + 1, children: children}
	for _, c := range children {
		n.sum = n.sum.add(c.sum)
	}
	return n
}

func (n *node) isLeaf() bool { return n.height == 0 }

func (n *node) isOKChild() bool {
	if n.isLeaf() {
		return len(n.leaf) >= minLeaf
	}
	return len(n.children) >= minChildren
}

// splitPoint finds a char boundary at or before limit, preferring the
// byte just after a newline when one falls in the upper half.
func splitPoint(s string, limit int) int {
	if limit >= len(s) {
		return len(s)
	}
	if i := strings.LastIndexByte(s[:limit], '\n'); i >= limit/2 {
		return i + 1
	}
	p := limit
	for p > 0 && !utf8.RuneStart(s[p]) {
		p--
	}
	if p == 0 {
		// A single rune wider than limit; keep it whole.
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return p
}

// buildLeaves splits s into leaves of at most maxLeaf bytes.
func buildLeaves(s string) []*node {
	var leaves []*node
	for len(s) > maxLeaf {
		p := splitPoint(s, maxLeaf)
		leaves = append(leaves, newLeaf(s[:p]))
		s = s[p:]
	}
	if len(s) > 0 {
		leaves = append(leaves, newLeaf(s))
	}
	return leaves
}

// fromNodes builds a balanced tree over nodes of equal height.
func fromNodes(nodes []*node) *node {
	if len(nodes) == 0 {
		return nil
	}
	for len(nodes) > 1 {
		var parents []*node
		for i := 0; i < len(nodes); {
			end := min(i+maxChildren, len(nodes))
			// Avoid an undersized trailing group.
			if rem := len(nodes) - end; rem > 0 && rem < minChildren {
				end -= minChildren - rem
			}
			parents = append(parents, newInternal(nodes[i:end:end]))
			i = end
		}
		nodes = parents
	}
	return nodes[0]
}

func mergeLeaves(a, b *node) *node {
	if a.isOKChild() && b.isOKChild() {
		return newInternal([]*node{a, b})
	}
	s := a.leaf + b.leaf
	if len(s) <= maxLeaf {
		return newLeaf(s)
	}
	p := splitPoint(s, len(s)/2+1)
	return newInternal([]*node{newLeaf(s[:p]), newLeaf(s[p:])})
}

func mergeNodes(left, right []*node) *node {
	n := len(left) + len(right)
	all := make([]*node, 0, n)
	all = append(all, left...)
	all = append(all, right...)
	if n <= maxChildren {
		return newInternal(all)
	}
	sp := maxChildren
	if n-minChildren < sp {
		sp = n - minChildren
	}
	return newInternal([]*node{newInternal(all[:sp:sp]), newInternal(all[sp:])})
}

// concat joins two trees, sharing every untouched subtree.
func concat(a, b *node) *node {
	if a == nil || a.sum.bytes == 0 {
		return b
	}
	if b == nil || b.sum.bytes == 0 {
		return a
	}
	h1, h2 := a.height, b.height
	switch {
	case h1 < h2:
		kids := b.children
		if h1 == h2-1 && a.isOKChild() {
			return mergeNodes([]*node{a}, kids)
		}
		merged := concat(a, kids[0])
		if merged.height == h2-1 {
			return mergeNodes([]*node{merged}, kids[1:])
		}
		return mergeNodes(merged.children, kids[1:])
	case h1 > h2:
		kids := a.children
		last := len(kids) - 1
		if h2 == h1-1 && b.isOKChild() {
			return mergeNodes(kids, []*node{b})
		}
		merged := concat(kids[last], b)
		if merged.height == h1-1 {
			return mergeNodes(kids[:last], []*node{merged})
		}
		return mergeNodes(kids[:last], merged.children)
	default:
		if a.isOKChild() && b.isOKChild() {
			return newInternal([]*node{a, b})
		}
		if h1 == 0 {
			return mergeLeaves(a, b)
		}
		return mergeNodes(a.children, b.children)
	}
}

// slice returns the subtree covering [start, end). Callers clamp.
func (n *node) slice(start, end int) *node {
	if start >= end {
		return nil
	}
	if start == 0 && end == n.sum.bytes {
		return n
	}
	if n.isLeaf() {
		return newLeaf(n.leaf[start:end])
	}
	var out *node
	off := 0
	for _, c := range n.children {
		cEnd := off + c.sum.bytes
		if cEnd > start && off < end {
			s := max(start-off, 0)
			e := min(end-off, c.sum.bytes)
			out = concat(out, c.slice(s, e))
		}
		if cEnd >= end {
			break
		}
		off = cEnd
	}
	return out
}

func (n *node) appendRange(sb *strings.Builder, start, end int) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.leaf[start:end])
		return
	}
	off := 0
	for _, c := range n.children {
		cEnd := off + c.sum.bytes
		if cEnd > start && off < end {
			c.appendRange(sb, max(start-off, 0), min(end-off, c.sum.bytes))
		}
		if cEnd >= end {
			return
		}
		off = cEnd
	}
}

// prefix measures the summary of [0, offset).
func (n *node) prefix(offset int) summary {
	var acc summary
	for !n.isLeaf() {
		var next *node
		for _, c := range n.children {
			if offset < c.sum.bytes {
				next = c
				break
			}
			offset -= c.sum.bytes
			acc = acc.add(c.sum)
		}
		if next == nil {
			return acc
		}
		n = next
	}
	return acc.add(summarize(n.leaf[:min(offset, len(n.leaf))]))
}

// offsetOfNewline returns the offset just past the k-th newline (k >= 1).
// k must not exceed n.sum.newlines.
func (n *node) offsetOfNewline(k int) int {
	off := 0
	for !n.isLeaf() {
		last := len(n.children) - 1
		i := 0
		for ; i < last; i++ {
			c := n.children[i]
			if k <= c.sum.newlines {
				break
			}
			k -= c.sum.newlines
			off += c.sum.bytes
		}
		n = n.children[i]
	}
	s := n.leaf
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			k--
			if k == 0 {
				return off + i + 1
			}
		}
	}
	return off + len(s)
}

// offsetOfUTF16 returns the byte offset of the u-th UTF-16 unit and
// whether that unit starts a code point.
func (n *node) offsetOfUTF16(u int) (int, bool) {
	off := 0
	for !n.isLeaf() {
		descended := false
		for _, c := range n.children {
			if u < c.sum.utf16 {
				n = c
				descended = true
				break
			}
			u -= c.sum.utf16
			off += c.sum.bytes
		}
		if !descended {
			return off, u == 0
		}
	}
	for i, r := range n.leaf {
		if u == 0 {
			return off + i, true
		}
		w := utf16Len(r)
		if u < w {
			return off + i, false
		}
		u -= w
	}
	return off + len(n.leaf), u == 0
}

// leafAt returns the leaf containing offset and the leaf's start offset.
// An offset equal to the length resolves to the last leaf.
func (n *node) leafAt(offset int) (*node, int) {
	base := 0
	for !n.isLeaf() {
		last := len(n.children) - 1
		i := 0
		for ; i < last; i++ {
			c := n.children[i]
			if offset < base+c.sum.bytes {
				break
			}
			base += c.sum.bytes
		}
		n = n.children[i]
	}
	return n, base
}
