package buffer

import (
	"errors"

	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/selection"
)

var (
	ErrNothingToUndo = errors.New("buffer: nothing to undo")
	ErrNothingToRedo = errors.New("buffer: nothing to redo")
)

type entry struct {
	forward  delta.Delta
	inverse  delta.Delta
	editType EditType
	before   *selection.Selection
	after    *selection.Selection
}

type history struct {
	undos []entry
	redos []entry
}

func (h *history) record(e entry) {
	h.undos = append(h.undos, e)
	h.redos = nil
}

// SetLastSelections attaches the selections around the latest edit so Undo
// and Redo can restore them.
func (b *Buffer) SetLastSelections(before, after *selection.Selection) {
	if n := len(b.history.undos); n > 0 {
		b.history.undos[n-1].before = before
		b.history.undos[n-1].after = after
	}
}

// CanUndo reports whether Undo has an entry to revert.
func (b *Buffer) CanUndo() bool { return len(b.history.undos) > 0 }

// CanRedo reports whether Redo has an entry to reapply.
func (b *Buffer) CanRedo() bool { return len(b.history.redos) > 0 }

// Undo reverts the latest edit as a new revision and returns the selection
// recorded before it, which may be nil.
func (b *Buffer) Undo() (delta.Delta, InvalLines, SyntaxEdit, *selection.Selection, error) {
	n := len(b.history.undos)
	if n == 0 {
		return delta.Delta{}, InvalLines{}, nil, nil, ErrNothingToUndo
	}
	e := b.history.undos[n-1]
	b.history.undos = b.history.undos[:n-1]
	d, inval, edits := b.apply(e.inverse)
	b.history.redos = append(b.history.redos, e)
	return d, inval, edits, e.before, nil
}

// Redo reapplies the latest undone edit and returns the selection recorded
// after it, which may be nil.
func (b *Buffer) Redo() (delta.Delta, InvalLines, SyntaxEdit, *selection.Selection, error) {
	n := len(b.history.redos)
	if n == 0 {
		return delta.Delta{}, InvalLines{}, nil, nil, ErrNothingToRedo
	}
	e := b.history.redos[n-1]
	b.history.redos = b.history.redos[:n-1]
	d, inval, edits := b.apply(e.forward)
	b.history.undos = append(b.history.undos, e)
	return d, inval, edits, e.after, nil
}
