package editor

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/lsp"
	"github.com/kobzarvs/qcore/internal/register"
	"github.com/kobzarvs/qcore/internal/selection"
)

// Undo reverts the latest edit. The cursor goes back to the selection
// recorded before that edit when there is one.
func Undo(cur *cursor.Cursor, buf *buffer.Buffer) (EditResult, error) {
	d, inval, se, sel, err := buf.Undo()
	if err != nil {
		return EditResult{}, err
	}
	restore(cur, buf, d, sel)
	return EditResult{d, inval, se}, nil
}

// Redo reapplies the latest undone edit.
func Redo(cur *cursor.Cursor, buf *buffer.Buffer) (EditResult, error) {
	d, inval, se, sel, err := buf.Redo()
	if err != nil {
		return EditResult{}, err
	}
	restore(cur, buf, d, sel)
	return EditResult{d, inval, se}, nil
}

func restore(cur *cursor.Cursor, buf *buffer.Buffer, d delta.Delta, sel *selection.Selection) {
	text := buf.Text()
	if sel != nil {
		if cur.IsInsert() {
			cur.SetInsert(sel.Clone())
		} else {
			offset := min(sel.CursorOffset(), text.Len())
			cur.SetNormal(min(offset, text.LineEndOffset(text.LineOfOffset(offset), false)))
		}
		cur.Horiz = nil
		return
	}
	if next, ok := cur.GetFirstSelectionAfter(text, d); ok {
		cur.Mode = next.Mode
		cur.Horiz = nil
		return
	}
	cur.ApplyDelta(d)
}

// DeleteSelection removes what the cursor covers and stores it in reg when
// reg is not nil. Normal and Visual cursors land in Normal mode at the
// start of the removed text.
func DeleteSelection(cur *cursor.Cursor, buf *buffer.Buffer, reg *register.Register) EditResult {
	text := buf.Text()
	data := cur.Yank(text)
	sel := cur.EditSelection(text)
	d, inval, se := buf.Edit([]buffer.SelectionEdit{{Selection: sel}}, buffer.EditDelete)
	if reg != nil {
		reg.Add(data)
	}

	newText := buf.Text()
	switch cur.Mode.(type) {
	case cursor.Insert:
		after := sel.ApplyDelta(d, true, selection.DriftDefault)
		buf.SetLastSelections(sel, after.Clone())
		cur.SetInsert(after)
	default:
		offset := min(sel.MinOffset(), newText.Len())
		offset = min(offset, newText.LineEndOffset(newText.LineOfOffset(offset), false))
		buf.SetLastSelections(selection.Caret(cur.Offset()), selection.Caret(offset))
		cur.SetNormal(offset)
	}
	cur.Horiz = nil
	return EditResult{d, inval, se}
}

// Paste inserts data. In Normal mode characterwise text goes after the
// cursor character and line-oriented text goes below the current line;
// Visual mode replaces the selection and Insert mode types at every region.
func Paste(cur *cursor.Cursor, buf *buffer.Buffer, data cursor.RegisterData) EditResult {
	text := buf.Text()
	switch m := cur.Mode.(type) {
	case cursor.Insert:
		d, inval, se := buf.Edit([]buffer.SelectionEdit{{Selection: m.Selection, Text: data.Content}}, buffer.EditPaste)
		after := m.Selection.ApplyDelta(d, true, selection.DriftDefault)
		buf.SetLastSelections(m.Selection.Clone(), after.Clone())
		cur.SetInsert(after)
		return EditResult{d, inval, se}

	case cursor.Visual:
		sel := cur.EditSelection(text)
		content := data.Content
		if m.Mode == cursor.VisualLinewise && data.Mode != cursor.VisualLinewise && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		d, inval, se := buf.Edit([]buffer.SelectionEdit{{Selection: sel, Text: content}}, buffer.EditPaste)
		offset := clampNormal(buf, sel.MinOffset())
		buf.SetLastSelections(sel, selection.Caret(offset))
		cur.SetNormal(offset)
		return EditResult{d, inval, se}

	case cursor.Normal:
		if data.Mode == cursor.VisualNormal {
			at := text.NextGraphemeOffset(m.Offset, 1, text.LineEndOffset(text.LineOfOffset(m.Offset), true))
			d, inval, se := buf.Edit([]buffer.SelectionEdit{{Selection: selection.Caret(at), Text: data.Content}}, buffer.EditPaste)
			offset := m.Offset
			if data.Content != "" {
				newText := buf.Text()
				offset = clampNormal(buf, newText.PrevGraphemeOffset(at+len(data.Content), 1, 0))
			}
			buf.SetLastSelections(selection.Caret(m.Offset), selection.Caret(offset))
			cur.SetNormal(offset)
			return EditResult{d, inval, se}
		}

		line := text.LineOfOffset(m.Offset)
		at := text.OffsetOfLine(line + 1)
		content := data.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		start := at
		if line == text.LastLine() && (text.Len() == 0 || text.ByteAt(text.Len()-1) != '\n') {
			content = "\n" + strings.TrimSuffix(content, "\n")
			start = at + 1
		}
		d, inval, se := buf.Edit([]buffer.SelectionEdit{{Selection: selection.Caret(at), Text: content}}, buffer.EditPaste)
		newText := buf.Text()
		offset := clampNormal(buf, newText.FirstNonBlankOffset(newText.LineOfOffset(start)))
		buf.SetLastSelections(selection.Caret(m.Offset), selection.Caret(offset))
		cur.SetNormal(offset)
		return EditResult{d, inval, se}
	}
	return EditResult{}
}

func clampNormal(buf *buffer.Buffer, offset int) int {
	text := buf.Text()
	offset = max(0, min(offset, text.Len()))
	return min(offset, text.LineEndOffset(text.LineOfOffset(offset), false))
}

// ApplyTextEdits applies edits computed by a protocol collaborator against
// the current text as a single revision. Edits whose positions do not land
// on the text are rejected before anything is applied.
func ApplyTextEdits(cur *cursor.Cursor, buf *buffer.Buffer, edits []lsp.TextEdit) (EditResult, error) {
	text := buf.Text()
	sels := make([]buffer.SelectionEdit, 0, len(edits))
	for i, e := range edits {
		start, end, err := e.Range.Offsets(text)
		if err != nil {
			return EditResult{}, fmt.Errorf("text edit %d: %w", i, err)
		}
		sels = append(sels, buffer.SelectionEdit{
			Selection: selection.Region(start, end),
			Text:      e.NewText,
		})
	}
	if len(sels) == 0 {
		return EditResult{}, nil
	}
	d, inval, se := buf.Edit(sels, buffer.EditOther)
	newText := buf.Text()
	if next, ok := cur.GetFirstSelectionAfter(newText, d); ok {
		cur.Mode = next.Mode
		cur.Horiz = nil
	} else {
		cur.ApplyDelta(d)
	}
	return EditResult{d, inval, se}, nil
}
