package delta

import (
	"fmt"

	"github.com/kobzarvs/qcore/internal/rope"
)

// Inverse returns the delta that turns the new text back into base.
func (d Delta) Inverse(base rope.Rope) Delta {
	if base.Len() != d.baseLen {
		panic(fmt.Sprintf("delta: inverse base length %d, want %d", base.Len(), d.baseLen))
	}
	inv := Delta{baseLen: d.NewLen()}
	oldPos, newPos := 0, 0
	for _, el := range d.els {
		switch e := el.(type) {
		case Copy:
			if e.Start > oldPos {
				inv.push(Insert{base.SubRope(oldPos, e.Start)})
			}
			inv.push(Copy{newPos, newPos + e.End - e.Start})
			newPos += e.End - e.Start
			oldPos = e.End
		case Insert:
			newPos += e.Text.Len()
		}
	}
	if oldPos < d.baseLen {
		inv.push(Insert{base.SubRope(oldPos, d.baseLen)})
	}
	return inv
}

// Compose returns a single delta equivalent to applying d then next.
func (d Delta) Compose(next Delta) Delta {
	if next.baseLen != d.NewLen() {
		panic(fmt.Sprintf("delta: compose base length %d, want %d", next.baseLen, d.NewLen()))
	}
	out := Delta{baseLen: d.baseLen}
	for _, el := range next.els {
		switch e := el.(type) {
		case Insert:
			out.push(e)
		case Copy:
			d.appendRange(&out, e.Start, e.End)
		}
	}
	return out
}

// appendRange pushes the elements of d that produce [start, end) of its
// output.
func (d Delta) appendRange(out *Delta, start, end int) {
	pos := 0
	for _, el := range d.els {
		if pos >= end {
			return
		}
		switch e := el.(type) {
		case Copy:
			n := e.End - e.Start
			if pos+n > start {
				lo := max(start-pos, 0)
				hi := min(end-pos, n)
				out.push(Copy{e.Start + lo, e.Start + hi})
			}
			pos += n
		case Insert:
			n := e.Text.Len()
			if pos+n > start {
				lo := max(start-pos, 0)
				hi := min(end-pos, n)
				out.push(Insert{e.Text.SubRope(lo, hi)})
			}
			pos += n
		}
	}
}
