// Package rope provides an immutable, persistent B+-tree of UTF-8 text.
//
// A Rope is a value type wrapping a shared root node. Every operation that
// changes text returns a new Rope that reuses the untouched subtrees of the
// old one, so snapshots are free and may be read from any goroutine.
//
// All offsets are byte offsets. Read-side queries clamp out-of-range inputs
// instead of failing: an offset past the end behaves like the end, an empty
// or inverted range yields empty text.
package rope

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Rope is an immutable text sequence. The zero value is an empty rope.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString builds a rope from s. Invalid UTF-8 is replaced with U+FFFD.
func FromString(s string) Rope {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return Rope{root: fromNodes(buildLeaves(s))}
}

// FromReader streams r into a rope without holding the whole input twice.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := io.Copy(&b, r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// Len returns the length in bytes.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.bytes
}

// IsEmpty reports whether the rope holds no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// UTF16Len returns the length in UTF-16 code units.
func (r Rope) UTF16Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.utf16
}

// String materializes the whole text.
func (r Rope) String() string {
	return r.Slice(0, r.Len())
}

func (r Rope) clampRange(start, end int) (int, int) {
	n := r.Len()
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	return start, end
}

// Slice returns the text in [start, end).
func (r Rope) Slice(start, end int) string {
	start, end = r.clampRange(start, end)
	if start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(end - start)
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// SubRope returns [start, end) as a rope sharing structure with r.
func (r Rope) SubRope(start, end int) Rope {
	start, end = r.clampRange(start, end)
	if start >= end {
		return Rope{}
	}
	return Rope{root: r.root.slice(start, end)}
}

// Concat appends other to r.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: concat(r.root, other.root)}
}

// Replace substitutes [start, end) with text.
func (r Rope) Replace(start, end int, text string) Rope {
	start, end = r.clampRange(start, end)
	if end < start {
		end = start
	}
	return r.SubRope(0, start).Concat(FromString(text)).Concat(r.SubRope(end, r.Len()))
}

// Insert adds text at offset.
func (r Rope) Insert(offset int, text string) Rope {
	return r.Replace(offset, offset, text)
}

// Delete removes [start, end).
func (r Rope) Delete(start, end int) Rope {
	return r.Replace(start, end, "")
}

// Equal compares the text of two ropes.
func (r Rope) Equal(other Rope) bool {
	if r.root == other.root {
		return true
	}
	if r.Len() != other.Len() {
		return false
	}
	return r.String() == other.String()
}

// ByteAt returns the byte at offset, or 0 when offset is out of range.
func (r Rope) ByteAt(offset int) byte {
	if offset < 0 || offset >= r.Len() {
		return 0
	}
	leaf, base := r.root.leafAt(offset)
	return leaf.leaf[offset-base]
}

// IsCharBoundary reports whether offset begins a code point (or is the end).
func (r Rope) IsCharBoundary(offset int) bool {
	if offset == 0 || offset == r.Len() {
		return true
	}
	if offset < 0 || offset > r.Len() {
		return false
	}
	return utf8.RuneStart(r.ByteAt(offset))
}

// SnapToChar moves offset back to the nearest code point boundary.
func (r Rope) SnapToChar(offset int) int {
	offset = min(max(offset, 0), r.Len())
	for offset > 0 && !r.IsCharBoundary(offset) {
		offset--
	}
	return offset
}

// Builder accumulates text into a rope. It implements io.Writer so that
// file content can be streamed in chunks. Code points split across Write
// calls are carried over to the next call.
type Builder struct {
	leaves  []*node
	pending []byte
}

// Write appends p.
func (b *Builder) Write(p []byte) (int, error) {
	b.pending = append(b.pending, p...)
	// Keep at most one leaf worth of text pending, and never cut a code point.
	for len(b.pending) > 2*maxLeaf {
		cut := len(b.pending) - utf8.UTFMax
		for cut > 0 && !utf8.RuneStart(b.pending[cut]) {
			cut--
		}
		b.flush(b.pending[:cut])
		b.pending = append([]byte(nil), b.pending[cut:]...)
	}
	return len(p), nil
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

func (b *Builder) flush(p []byte) {
	if len(p) == 0 {
		return
	}
	s := strings.ToValidUTF8(string(p), string(utf8.RuneError))
	b.leaves = append(b.leaves, buildLeaves(s)...)
}

// Build finishes the rope. The builder may not be reused.
func (b *Builder) Build() Rope {
	b.flush(b.pending)
	b.pending = nil
	return Rope{root: fromNodes(b.leaves)}
}
