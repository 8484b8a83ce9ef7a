// Package delta describes edits as a sequence of copies from the old text
// and inserted literals.
//
// A Delta is the unit of undo/redo and of cross-process synchronization.
// Applying it is pure. Building one from unsorted or overlapping intervals,
// or applying it to text of the wrong length, is a caller bug and panics;
// offset transforms clamp.
package delta

import (
	"fmt"

	"github.com/kobzarvs/qcore/internal/rope"
)

// Element is a Copy or an Insert.
type Element interface {
	isElement()
}

// Copy keeps [Start, End) of the base text.
type Copy struct {
	Start, End int
}

// Insert adds new text.
type Insert struct {
	Text rope.Rope
}

func (Copy) isElement()   {}
func (Insert) isElement() {}

// Delta transforms a base text of BaseLen bytes into a new text.
type Delta struct {
	els     []Element
	baseLen int
}

// New builds a delta from raw elements, kept exactly as given. Copies must
// be ascending and non-overlapping.
func New(els []Element, baseLen int) Delta {
	d := Delta{baseLen: baseLen}
	last := 0
	for _, el := range els {
		if c, ok := el.(Copy); ok {
			if c.Start < last || c.End < c.Start || c.End > baseLen {
				panic(fmt.Sprintf("delta: copy [%d,%d) out of order (prev end %d, base %d)", c.Start, c.End, last, baseLen))
			}
			last = c.End
		}
		d.els = append(d.els, el)
	}
	return d
}

// Simple returns a delta replacing [start, end) of a base with text.
func Simple(baseLen, start, end int, text string) Delta {
	b := NewBuilder(baseLen)
	b.Replace(start, end, rope.FromString(text))
	return b.Build()
}

// push appends el, merging touching copies and adjacent inserts.
func (d *Delta) push(el Element) {
	switch e := el.(type) {
	case Copy:
		if e.Start == e.End {
			return
		}
		if n := len(d.els); n > 0 {
			if prev, ok := d.els[n-1].(Copy); ok && prev.End == e.Start {
				d.els[n-1] = Copy{prev.Start, e.End}
				return
			}
		}
	case Insert:
		if e.Text.IsEmpty() {
			return
		}
		if n := len(d.els); n > 0 {
			if prev, ok := d.els[n-1].(Insert); ok {
				d.els[n-1] = Insert{prev.Text.Concat(e.Text)}
				return
			}
		}
	}
	d.els = append(d.els, el)
}

// Elements returns the elements in order. The slice must not be modified.
func (d Delta) Elements() []Element { return d.els }

// BaseLen is the length of the text the delta applies to.
func (d Delta) BaseLen() int { return d.baseLen }

// NewLen is the length of the text the delta produces.
func (d Delta) NewLen() int {
	return totalLen(d.els)
}

func totalLen(els []Element) int {
	n := 0
	for _, el := range els {
		switch e := el.(type) {
		case Copy:
			n += e.End - e.Start
		case Insert:
			n += e.Text.Len()
		}
	}
	return n
}

// IsIdentity reports whether applying the delta changes nothing.
func (d Delta) IsIdentity() bool {
	if d.baseLen == 0 {
		return len(d.els) == 0
	}
	if len(d.els) != 1 {
		return false
	}
	c, ok := d.els[0].(Copy)
	return ok && c.Start == 0 && c.End == d.baseLen
}

// Apply produces the new text. base must be the text the delta was
// computed against.
func (d Delta) Apply(base rope.Rope) rope.Rope {
	if base.Len() != d.baseLen {
		panic(fmt.Sprintf("delta: base length %d, want %d", base.Len(), d.baseLen))
	}
	var out rope.Rope
	for _, el := range d.els {
		switch e := el.(type) {
		case Copy:
			out = out.Concat(base.SubRope(e.Start, e.End))
		case Insert:
			out = out.Concat(e.Text)
		}
	}
	return out
}

// interior strips a leading Copy from 0 and a trailing Copy to the end.
func (d Delta) interior() (start, end int, middle []Element) {
	els := d.els
	if len(els) > 0 {
		if c, ok := els[0].(Copy); ok && c.Start == 0 {
			start = c.End
			els = els[1:]
		}
	}
	end = d.baseLen
	if len(els) > 0 {
		if c, ok := els[len(els)-1].(Copy); ok && c.End == d.baseLen {
			end = c.Start
			els = els[:len(els)-1]
		}
	}
	return start, end, els
}

// Summary returns the changed interval [start, end) of the base and the
// length of the text replacing it.
func (d Delta) Summary() (start, end, newLen int) {
	start, end, middle := d.interior()
	return start, end, totalLen(middle)
}

// AsSimpleInsert reports whether the delta only inserts one contiguous
// piece of text, and where.
func (d Delta) AsSimpleInsert() (offset int, text rope.Rope, ok bool) {
	start, end, middle := d.interior()
	if start != end || len(middle) != 1 {
		return 0, rope.Rope{}, false
	}
	ins, ok := middle[0].(Insert)
	if !ok {
		return 0, rope.Rope{}, false
	}
	return start, ins.Text, true
}

// AsSimpleDelete reports whether the delta only removes one contiguous
// range, and which.
func (d Delta) AsSimpleDelete() (start, end int, ok bool) {
	start, end, middle := d.interior()
	if start >= end || len(middle) != 0 {
		return 0, 0, false
	}
	return start, end, true
}

// Transform maps an offset in the base text to the new text. after decides
// whether an offset sitting exactly at an insertion point lands after the
// inserted text (true) or before it (false).
func (d Delta) Transform(offset int, after bool) int {
	result := 0
	for i, el := range d.els {
		switch e := el.(type) {
		case Copy:
			if offset <= e.Start {
				return result
			}
			if offset < e.End || (offset == e.End && !after) {
				return result + offset - e.Start
			}
			result += e.End - e.Start
		case Insert:
			if !after && offset <= d.nextCopyStart(i+1) {
				return result
			}
			result += e.Text.Len()
		}
	}
	return result
}

// nextCopyStart is the base offset of the first copy at or after index i.
func (d Delta) nextCopyStart(i int) int {
	for _, el := range d.els[i:] {
		if c, ok := el.(Copy); ok {
			return c.Start
		}
	}
	return d.baseLen
}

// Span is a piece of inserted text located in the new text.
type Span struct {
	Offset int
	Text   rope.Rope
}

// Inserts lists the inserted pieces in new-text coordinates.
func (d Delta) Inserts() []Span {
	var out []Span
	pos := 0
	for _, el := range d.els {
		switch e := el.(type) {
		case Copy:
			pos += e.End - e.Start
		case Insert:
			out = append(out, Span{Offset: pos, Text: e.Text})
			pos += e.Text.Len()
		}
	}
	return out
}

// Interval is a half-open byte range.
type Interval struct {
	Start, End int
}

// Len returns End - Start.
func (iv Interval) Len() int { return iv.End - iv.Start }

// Deletions lists the base ranges that do not survive, ascending.
func (d Delta) Deletions() []Interval {
	var out []Interval
	last := 0
	for _, el := range d.els {
		if c, ok := el.(Copy); ok {
			if c.Start > last {
				out = append(out, Interval{last, c.Start})
			}
			last = c.End
		}
	}
	if last < d.baseLen {
		out = append(out, Interval{last, d.baseLen})
	}
	return out
}

// Change is one replaced region of the base.
type Change struct {
	Start, End int
	Text       rope.Rope
}

// Changes lists the replaced regions of the base in ascending order. Each
// change's Start and End are base offsets; Text is what replaces them.
func (d Delta) Changes() []Change {
	var out []Change
	oldPos := 0
	var pending rope.Rope
	hasPending := false
	for _, el := range d.els {
		switch e := el.(type) {
		case Copy:
			if e.Start > oldPos || hasPending {
				out = append(out, Change{Start: oldPos, End: e.Start, Text: pending})
			}
			pending, hasPending = rope.Rope{}, false
			oldPos = e.End
		case Insert:
			pending = pending.Concat(e.Text)
			hasPending = true
		}
	}
	if oldPos < d.baseLen || hasPending {
		out = append(out, Change{Start: oldPos, End: d.baseLen, Text: pending})
	}
	return out
}
