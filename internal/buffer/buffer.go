// Package buffer owns a document's text, its revision counter and its
// undo history.
//
// A Buffer is not safe for concurrent mutation; callers serialize Edit,
// Undo and Redo. The text itself is an immutable rope, so snapshots taken
// with Text may be handed to background goroutines, which poll AtomicRev
// to learn when their work has been superseded.
//
// Read helpers clamp out-of-range offsets. Edit clamps region endpoints to
// the text and snaps them to code point boundaries, but regions that
// overlap after clamping are a caller bug and panic in the delta builder:
// silently merging them would corrupt the edit.
package buffer

import (
	"io"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
)

type Buffer struct {
	text      rope.Rope
	rev       uint64
	atomicRev *atomic.Uint64

	pristine rope.Rope
	history  history
}

// New returns an empty buffer at revision 0.
func New() *Buffer {
	return &Buffer{atomicRev: new(atomic.Uint64)}
}

// FromString returns a buffer holding s at revision 0.
func FromString(s string) *Buffer {
	b := New()
	b.text = rope.FromString(s)
	b.pristine = b.text
	return b
}

// LoadContent replaces the whole text with content as one new revision.
// Invalid UTF-8 is replaced with U+FFFD. History is cleared and the new
// text becomes the pristine state.
func (b *Buffer) LoadContent(content []byte) (delta.Delta, InvalLines, SyntaxEdit) {
	s := string(content)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return b.load(rope.FromString(s))
}

// LoadReader streams r into the buffer like LoadContent.
func (b *Buffer) LoadReader(r io.Reader) (delta.Delta, InvalLines, SyntaxEdit, error) {
	text, err := rope.FromReader(r)
	if err != nil {
		return delta.Delta{}, InvalLines{}, nil, err
	}
	d, inval, edits := b.load(text)
	return d, inval, edits, nil
}

func (b *Buffer) load(text rope.Rope) (delta.Delta, InvalLines, SyntaxEdit) {
	builder := delta.NewBuilder(b.text.Len())
	builder.Replace(0, b.text.Len(), text)
	d, inval, edits := b.apply(builder.Build())
	b.history = history{}
	b.pristine = b.text
	return d, inval, edits
}

// Text returns the current text snapshot.
func (b *Buffer) Text() rope.Rope { return b.text }

// Rev returns the current revision.
func (b *Buffer) Rev() uint64 { return b.rev }

// AtomicRev returns the revision mirror shared with background workers.
func (b *Buffer) AtomicRev() *atomic.Uint64 { return b.atomicRev }

// Len returns the length of the text in bytes.
func (b *Buffer) Len() int { return b.text.Len() }

// NumLines returns the number of lines.
func (b *Buffer) NumLines() int { return b.text.NumLines() }

// LastLine returns the index of the final line.
func (b *Buffer) LastLine() int { return b.text.LastLine() }

// IsPristine reports whether the text matches the last saved state.
func (b *Buffer) IsPristine() bool { return b.text.Equal(b.pristine) }

// SetPristine marks the current text as saved.
func (b *Buffer) SetPristine() { b.pristine = b.text }

// String returns the whole text.
func (b *Buffer) String() string { return b.text.String() }

// CharAtOffset returns the code point starting at offset.
func (b *Buffer) CharAtOffset(offset int) (rune, bool) {
	return b.text.CharAt(offset)
}

// SliceToCow returns the text in [start, end).
func (b *Buffer) SliceToCow(start, end int) string {
	return b.text.Slice(start, end)
}

// IndentOnLine returns the leading whitespace of line.
func (b *Buffer) IndentOnLine(line int) string {
	return b.text.IndentOnLine(line)
}

func (b *Buffer) LineOfOffset(offset int) int { return b.text.LineOfOffset(offset) }
func (b *Buffer) OffsetOfLine(line int) int   { return b.text.OffsetOfLine(line) }

func (b *Buffer) OffsetToLineCol(offset int) (int, int) {
	return b.text.OffsetToLineCol(offset)
}

func (b *Buffer) OffsetOfLineCol(line, col int) int {
	return b.text.OffsetOfLineCol(line, col)
}

func (b *Buffer) LineEndOffset(line int, caret bool) int {
	return b.text.LineEndOffset(line, caret)
}

func (b *Buffer) LineContent(line int) string { return b.text.LineContent(line) }

func (b *Buffer) OffsetToPosition(offset int) (rope.Position, bool) {
	return b.text.OffsetToPosition(offset)
}

func (b *Buffer) OffsetOfPosition(pos rope.Position) (int, bool) {
	return b.text.OffsetOfPosition(pos)
}

func (b *Buffer) NextGraphemeOffset(offset, count, limit int) int {
	return b.text.NextGraphemeOffset(offset, count, limit)
}

func (b *Buffer) PrevGraphemeOffset(offset, count, limit int) int {
	return b.text.PrevGraphemeOffset(offset, count, limit)
}
