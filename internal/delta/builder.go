package delta

import (
	"fmt"

	"github.com/kobzarvs/qcore/internal/rope"
)

// Builder assembles a delta from replacements given in ascending order.
type Builder struct {
	d       Delta
	lastEnd int
}

// NewBuilder starts a delta over a base of baseLen bytes.
func NewBuilder(baseLen int) *Builder {
	return &Builder{d: Delta{baseLen: baseLen}}
}

// Replace substitutes [start, end) of the base with text. Intervals must
// not overlap and must arrive sorted; two insertions at the same offset
// are kept in call order.
func (b *Builder) Replace(start, end int, text rope.Rope) {
	if start < b.lastEnd || end < start || end > b.d.baseLen {
		panic(fmt.Sprintf("delta: replace [%d,%d) after %d in base of %d", start, end, b.lastEnd, b.d.baseLen))
	}
	b.d.push(Copy{b.lastEnd, start})
	b.d.push(Insert{text})
	b.lastEnd = end
}

// Delete removes [start, end) of the base.
func (b *Builder) Delete(start, end int) {
	b.Replace(start, end, rope.Rope{})
}

// IsEmpty reports whether no replacement has been recorded.
func (b *Builder) IsEmpty() bool {
	return b.lastEnd == 0 && len(b.d.els) == 0
}

// Build finishes the delta.
func (b *Builder) Build() Delta {
	b.d.push(Copy{b.lastEnd, b.d.baseLen})
	b.lastEnd = b.d.baseLen
	return b.d
}
