// Package cursor implements the modal cursor: a single offset in Normal
// mode, an anchored range in Visual mode, and a full multi-region
// selection in Insert mode.
package cursor

import (
	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

// VisualMode is the shape of a visual selection.
type VisualMode int

const (
	VisualNormal VisualMode = iota
	VisualLinewise
	VisualBlockwise
)

func (m VisualMode) String() string {
	switch m {
	case VisualLinewise:
		return "linewise"
	case VisualBlockwise:
		return "blockwise"
	default:
		return "normal"
	}
}

// MotionMode is a pending operator waiting for a motion.
type MotionMode int

const (
	MotionNone MotionMode = iota
	MotionDelete
	MotionYank
	MotionIndent
	MotionOutdent
)

// Mode is one of Normal, Visual or Insert.
type Mode interface {
	isMode()
}

// Normal rests on one character.
type Normal struct {
	Offset int
}

// Visual spans from Start to End, both inclusive of their character.
type Visual struct {
	Start, End int
	Mode       VisualMode
}

// Insert carries a full selection.
type Insert struct {
	Selection *selection.Selection
}

func (Normal) isMode() {}
func (Visual) isMode() {}
func (Insert) isMode() {}

type Cursor struct {
	Mode       Mode
	Horiz      selection.ColPosition
	MotionMode MotionMode
}

// New returns a cursor in mode.
func New(mode Mode) *Cursor {
	return &Cursor{Mode: mode}
}

// Offset returns the position the cursor is drawn at.
func (c *Cursor) Offset() int {
	switch m := c.Mode.(type) {
	case Normal:
		return m.Offset
	case Visual:
		return m.End
	case Insert:
		return m.Selection.CursorOffset()
	}
	return 0
}

// IsNormal reports whether the cursor is in Normal mode.
func (c *Cursor) IsNormal() bool {
	_, ok := c.Mode.(Normal)
	return ok
}

// IsInsert reports whether the cursor is in Insert mode.
func (c *Cursor) IsInsert() bool {
	_, ok := c.Mode.(Insert)
	return ok
}

// IsVisual reports whether the cursor is in any Visual mode.
func (c *Cursor) IsVisual() bool {
	_, ok := c.Mode.(Visual)
	return ok
}

// ToggleVisual enters mode from Normal or Insert, switches between visual
// shapes, and collapses back to Normal at End when mode is already active.
func (c *Cursor) ToggleVisual(mode VisualMode) {
	if v, ok := c.Mode.(Visual); ok {
		if v.Mode == mode {
			c.Mode = Normal{Offset: v.End}
			return
		}
		c.Mode = Visual{Start: v.Start, End: v.End, Mode: mode}
		return
	}
	offset := c.Offset()
	c.Mode = Visual{Start: offset, End: offset, Mode: mode}
}

// blockColumns returns the byte columns [left, right) of a block, before
// clipping to each line.
func blockColumns(text rope.Rope, start, end int) (startLine, endLine, left, right int) {
	startLine, startCol := text.OffsetToLineCol(min(start, end))
	endLine, endCol := text.OffsetToLineCol(max(start, end))
	return startLine, endLine, min(startCol, endCol), max(startCol, endCol) + 1
}

// blockRegions clips a block to each covered line. Lines shorter than the
// block's left edge are skipped.
func (c *Cursor) blockRegions(text rope.Rope, start, end int) []selection.SelRegion {
	startLine, endLine, left, right := blockColumns(text, start, end)
	var out []selection.SelRegion
	for line := startLine; line <= endLine; line++ {
		maxCol := text.LineEndCol(line, true)
		if left > maxCol {
			continue
		}
		r := min(right, maxCol)
		if _, ok := c.Horiz.(selection.ColEnd); ok {
			r = maxCol
		}
		out = append(out, selection.NewRegion(
			text.OffsetOfLineCol(line, left),
			text.OffsetOfLineCol(line, r),
		))
	}
	return out
}

func linewiseRange(text rope.Rope, start, end int) (int, int) {
	from := text.OffsetOfLine(text.LineOfOffset(min(start, end)))
	to := text.OffsetOfLine(text.LineOfOffset(max(start, end)) + 1)
	return from, to
}

// EditSelection turns the current mode into a selection suitable for
// Buffer.Edit.
func (c *Cursor) EditSelection(text rope.Rope) *selection.Selection {
	switch m := c.Mode.(type) {
	case Insert:
		return m.Selection.Clone()
	case Normal:
		return selection.Region(m.Offset, text.NextGraphemeOffset(m.Offset, 1, text.Len()))
	case Visual:
		switch m.Mode {
		case VisualLinewise:
			return selection.Region(linewiseRange(text, m.Start, m.End))
		case VisualBlockwise:
			sel := selection.New()
			for _, r := range c.blockRegions(text, m.Start, m.End) {
				sel.AddRegion(r)
			}
			return sel
		default:
			return selection.Region(
				min(m.Start, m.End),
				text.NextGraphemeOffset(max(m.Start, m.End), 1, text.Len()),
			)
		}
	}
	return selection.New()
}

// ApplyDelta re-projects the cursor through d and forgets the horizontal
// affinity.
func (c *Cursor) ApplyDelta(d delta.Delta) {
	switch m := c.Mode.(type) {
	case Normal:
		c.Mode = Normal{Offset: d.Transform(m.Offset, true)}
	case Visual:
		c.Mode = Visual{
			Start: d.Transform(m.Start, false),
			End:   d.Transform(m.End, true),
			Mode:  m.Mode,
		}
	case Insert:
		c.Mode = Insert{Selection: m.Selection.ApplyDelta(d, true, selection.DriftDefault)}
	}
	c.Horiz = nil
}

// SetInsert switches to Insert mode with sel.
func (c *Cursor) SetInsert(sel *selection.Selection) {
	c.Mode = Insert{Selection: sel}
}

// SetNormal switches to Normal mode at offset.
func (c *Cursor) SetNormal(offset int) {
	c.Mode = Normal{Offset: offset}
}
