package buffer

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

// EditType labels an edit for history and collaborators.
type EditType int

const (
	EditOther EditType = iota
	EditInsertChars
	EditInsertNewline
	EditDelete
	EditCut
	EditPaste
	EditCompletion
	EditUndo
	EditRedo
)

func (t EditType) String() string {
	switch t {
	case EditInsertChars:
		return "insert_chars"
	case EditInsertNewline:
		return "insert_newline"
	case EditDelete:
		return "delete"
	case EditCut:
		return "cut"
	case EditPaste:
		return "paste"
	case EditCompletion:
		return "completion"
	case EditUndo:
		return "undo"
	case EditRedo:
		return "redo"
	default:
		return "other"
	}
}

// SelectionEdit replaces every region of Selection with Text.
type SelectionEdit struct {
	Selection *selection.Selection
	Text      string
}

// InvalLines is the line range an edit invalidated. StartLine and
// InvalCount are in the old text, NewCount lines replace them in the new
// text.
type InvalLines struct {
	StartLine  int
	InvalCount int
	NewCount   int
	OldText    rope.Rope
}

// SyntaxEdit is the edit description handed to the parser. The entries are
// in descending offset order so they can be applied to a tree one after
// another.
type SyntaxEdit []sitter.EditInput

type interval struct {
	start, end int
	text       rope.Rope
}

// Edit applies every (selection, text) pair as one delta. The revision
// advances once and one undo entry is recorded.
func (b *Buffer) Edit(edits []SelectionEdit, editType EditType) (delta.Delta, InvalLines, SyntaxEdit) {
	var ivs []interval
	for _, e := range edits {
		if e.Selection == nil {
			continue
		}
		text := rope.FromString(e.Text)
		for _, r := range e.Selection.Regions() {
			ivs = append(ivs, interval{
				start: b.text.SnapToChar(r.Min()),
				end:   b.text.SnapToChar(r.Max()),
				text:  text,
			})
		}
	}
	sort.SliceStable(ivs, func(i, j int) bool {
		if ivs[i].start != ivs[j].start {
			return ivs[i].start < ivs[j].start
		}
		return ivs[i].end < ivs[j].end
	})

	builder := delta.NewBuilder(b.text.Len())
	for _, iv := range ivs {
		builder.Replace(iv.start, iv.end, iv.text)
	}
	d := builder.Build()
	inverse := d.Inverse(b.text)
	d, inval, syntaxEdit := b.apply(d)
	b.history.record(entry{forward: d, inverse: inverse, editType: editType})
	return d, inval, syntaxEdit
}

// apply swaps in the new text and bumps the revision.
func (b *Buffer) apply(d delta.Delta) (delta.Delta, InvalLines, SyntaxEdit) {
	old := b.text
	start, end, newLen := d.Summary()
	startLine := old.LineOfOffset(start)
	oldEndLine := old.LineOfOffset(end) + 1
	syntaxEdit := SyntaxEditFromDelta(old, d)

	b.text = d.Apply(old)
	b.rev++
	b.atomicRev.Store(b.rev)

	newEndLine := b.text.LineOfOffset(start+newLen) + 1
	inval := InvalLines{
		StartLine:  startLine,
		InvalCount: oldEndLine - startLine,
		NewCount:   newEndLine - startLine,
		OldText:    old,
	}
	return d, inval, syntaxEdit
}

func point(text rope.Rope, offset int) sitter.Point {
	line, col := text.OffsetToLineCol(offset)
	return sitter.Point{Row: uint32(line), Column: uint32(col)}
}

// endPoint advances p over inserted text.
func endPoint(p sitter.Point, inserted string) sitter.Point {
	for i := 0; i < len(inserted); i++ {
		if inserted[i] == '\n' {
			p.Row++
			p.Column = 0
		} else {
			p.Column++
		}
	}
	return p
}

// SyntaxEditFromDelta describes d, computed against old, as parser edits in
// descending offset order.
func SyntaxEditFromDelta(old rope.Rope, d delta.Delta) SyntaxEdit {
	changes := d.Changes()
	edits := make(SyntaxEdit, 0, len(changes))
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		startPoint := point(old, c.Start)
		edits = append(edits, sitter.EditInput{
			StartIndex:  uint32(c.Start),
			OldEndIndex: uint32(c.End),
			NewEndIndex: uint32(c.Start + c.Text.Len()),
			StartPoint:  startPoint,
			OldEndPoint: point(old, c.End),
			NewEndPoint: endPoint(startPoint, c.Text.String()),
		})
	}
	return edits
}
