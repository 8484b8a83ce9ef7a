// Package selection holds multi-region selections and maps them through
// deltas.
package selection

import (
	"sort"

	"github.com/kobzarvs/qcore/internal/delta"
)

// ColPosition remembers the horizontal target of vertical motions.
type ColPosition interface {
	isColPosition()
}

type (
	// ColFirstNonBlank targets the first non-blank character of a line.
	ColFirstNonBlank struct{}
	// ColStart targets the start of a line.
	ColStart struct{}
	// ColEnd targets the end of a line.
	ColEnd struct{}
	// Col targets a display column.
	Col struct{ X float64 }
)

func (ColFirstNonBlank) isColPosition() {}
func (ColStart) isColPosition()         {}
func (ColEnd) isColPosition()           {}
func (Col) isColPosition()              {}

// InsertDrift decides where regions sitting on an insertion point go.
type InsertDrift int

const (
	// DriftDefault moves every endpoint by the delta's after flag.
	DriftDefault InsertDrift = iota
	// DriftInside grows a non-caret region to include text inserted at
	// either edge.
	DriftInside
	// DriftOutside keeps text inserted at either edge out of a non-caret
	// region.
	DriftOutside
)

// SelRegion is a range with a caret at End. Start == End is a caret.
type SelRegion struct {
	Start, End int
	Horiz      ColPosition
}

// NewRegion returns a region without horizontal affinity.
func NewRegion(start, end int) SelRegion {
	return SelRegion{Start: start, End: end}
}

// CaretRegion returns a caret at offset.
func CaretRegion(offset int) SelRegion {
	return SelRegion{Start: offset, End: offset}
}

func (r SelRegion) Min() int { return min(r.Start, r.End) }
func (r SelRegion) Max() int { return max(r.Start, r.End) }

// IsCaret reports whether the region is empty.
func (r SelRegion) IsCaret() bool { return r.Start == r.End }

// shouldMerge expects other to sort after r.
func (r SelRegion) shouldMerge(other SelRegion) bool {
	return other.Min() < r.Max() ||
		((r.IsCaret() || other.IsCaret()) && other.Min() == r.Max())
}

func (r SelRegion) mergeWith(other SelRegion) SelRegion {
	lo := min(r.Min(), other.Min())
	hi := max(r.Max(), other.Max())
	if r.End >= r.Start {
		return NewRegion(lo, hi)
	}
	return NewRegion(hi, lo)
}

// Selection is an ordered set of non-overlapping regions.
type Selection struct {
	regions      []SelRegion
	lastInserted int
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{}
}

// Caret returns a selection holding one caret.
func Caret(offset int) *Selection {
	return &Selection{regions: []SelRegion{CaretRegion(offset)}}
}

// Region returns a selection holding [start, end) with the caret at end.
func Region(start, end int) *Selection {
	return &Selection{regions: []SelRegion{NewRegion(start, end)}}
}

// Regions returns the regions sorted by position.
func (s *Selection) Regions() []SelRegion { return s.regions }

// Len returns the number of regions.
func (s *Selection) Len() int { return len(s.regions) }

// IsEmpty reports whether the selection has no regions.
func (s *Selection) IsEmpty() bool { return len(s.regions) == 0 }

// IsCaret reports whether every region is a caret.
func (s *Selection) IsCaret() bool {
	for _, r := range s.regions {
		if !r.IsCaret() {
			return false
		}
	}
	return true
}

// Clone copies the selection.
func (s *Selection) Clone() *Selection {
	return &Selection{
		regions:      append([]SelRegion(nil), s.regions...),
		lastInserted: s.lastInserted,
	}
}

// First returns the first region by position.
func (s *Selection) First() (SelRegion, bool) {
	if len(s.regions) == 0 {
		return SelRegion{}, false
	}
	return s.regions[0], true
}

// Last returns the last region by position.
func (s *Selection) Last() (SelRegion, bool) {
	if len(s.regions) == 0 {
		return SelRegion{}, false
	}
	return s.regions[len(s.regions)-1], true
}

// Primary returns the most recently added region.
func (s *Selection) Primary() (SelRegion, bool) {
	if len(s.regions) == 0 {
		return SelRegion{}, false
	}
	return s.regions[s.lastInserted], true
}

// CursorOffset is the end of the primary region, or 0 when empty.
func (s *Selection) CursorOffset() int {
	r, ok := s.Primary()
	if !ok {
		return 0
	}
	return r.End
}

// MinOffset returns the smallest offset covered.
func (s *Selection) MinOffset() int {
	if len(s.regions) == 0 {
		return 0
	}
	return s.regions[0].Min()
}

// MaxOffset returns the largest offset covered.
func (s *Selection) MaxOffset() int {
	if len(s.regions) == 0 {
		return 0
	}
	return s.regions[len(s.regions)-1].Max()
}

// search finds the first region whose max is >= offset.
func (s *Selection) search(offset int) int {
	n := len(s.regions)
	if n == 0 || offset > s.regions[n-1].Max() {
		return n
	}
	return sort.Search(n, func(i int) bool { return s.regions[i].Max() >= offset })
}

// AddRegion inserts region, merging it with every region it overlaps or
// touches as a caret. The merged region becomes primary.
func (s *Selection) AddRegion(region SelRegion) {
	ix := s.search(region.Min())
	if ix == len(s.regions) {
		s.regions = append(s.regions, region)
		s.lastInserted = len(s.regions) - 1
		return
	}
	endIx := ix
	if s.regions[ix].Min() <= region.Min() {
		if s.regions[ix].shouldMerge(region) {
			region = region.mergeWith(s.regions[ix])
		} else {
			ix++
		}
		endIx++
	}
	for endIx < len(s.regions) && region.shouldMerge(s.regions[endIx]) {
		region = region.mergeWith(s.regions[endIx])
		endIx++
	}
	if ix == endIx {
		s.regions = append(s.regions, SelRegion{})
		copy(s.regions[ix+1:], s.regions[ix:])
		s.regions[ix] = region
	} else {
		s.regions[ix] = region
		s.regions = append(s.regions[:ix+1], s.regions[endIx:]...)
	}
	s.lastInserted = ix
}

// SetHoriz sets the horizontal affinity of every region.
func (s *Selection) SetHoriz(h ColPosition) {
	for i := range s.regions {
		s.regions[i].Horiz = h
	}
}

// ApplyDelta maps every region through d. after places endpoints sitting
// on an insertion point after the inserted text; drift overrides that for
// non-caret regions. Horizontal affinity is dropped.
func (s *Selection) ApplyDelta(d delta.Delta, after bool, drift InsertDrift) *Selection {
	out := New()
	for _, r := range s.regions {
		forward := r.Start < r.End
		startAfter, endAfter := after, after
		if !r.IsCaret() {
			switch drift {
			case DriftInside:
				startAfter, endAfter = !forward, forward
			case DriftOutside:
				startAfter, endAfter = forward, !forward
			}
		}
		out.AddRegion(NewRegion(d.Transform(r.Start, startAfter), d.Transform(r.End, endAfter)))
	}
	return out
}
