package editor

import (
	"errors"
	"testing"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/lsp"
	"github.com/kobzarvs/qcore/internal/register"
	"github.com/kobzarvs/qcore/internal/selection"
)

func TestUndoRedoInsert(t *testing.T) {
	buf, cur := insertAt("", 0)
	Insert(cur, buf, "(", nil, pairing)
	if buf.String() != "()" {
		t.Fatalf("text = %q", buf.String())
	}

	steps := []struct {
		op     func(*cursor.Cursor, *buffer.Buffer) (EditResult, error)
		text   string
		cursor int
	}{
		{Undo, "(", 1},
		{Undo, "", 0},
		{Redo, "(", 1},
		{Redo, "()", 1},
	}
	for i, s := range steps {
		if _, err := s.op(cur, buf); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if buf.String() != s.text || cur.Offset() != s.cursor || !cur.IsInsert() {
			t.Fatalf("step %d: %q cursor %d insert %v; want %q at %d", i, buf.String(), cur.Offset(), cur.IsInsert(), s.text, s.cursor)
		}
	}
	if _, err := Redo(cur, buf); !errors.Is(err, buffer.ErrNothingToRedo) {
		t.Fatalf("Redo past end = %v", err)
	}
}

func TestDeleteSelection(t *testing.T) {
	reg := register.New(false)
	buf := buffer.FromString("abc")
	cur := cursor.New(cursor.Normal{Offset: 1})
	DeleteSelection(cur, buf, reg)
	if buf.String() != "ac" || cur.Offset() != 1 {
		t.Fatalf("text %q cursor %d", buf.String(), cur.Offset())
	}
	data, err := reg.Unnamed()
	if err != nil || data.Content != "b" {
		t.Fatalf("register = %+v, %v", data, err)
	}

	if _, err := Undo(cur, buf); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.String() != "abc" || !cur.IsNormal() || cur.Offset() != 1 {
		t.Fatalf("after undo: %q %#v", buf.String(), cur.Mode)
	}

	buf = buffer.FromString("one\ntwo\nthree\n")
	cur = cursor.New(cursor.Visual{Start: 4, End: 5, Mode: cursor.VisualLinewise})
	DeleteSelection(cur, buf, reg)
	if buf.String() != "one\nthree\n" || cur.Offset() != 4 || !cur.IsNormal() {
		t.Fatalf("linewise delete: %q cursor %d", buf.String(), cur.Offset())
	}
	data, _ = reg.Unnamed()
	if data.Content != "two\n" || data.Mode != cursor.VisualLinewise {
		t.Fatalf("register = %+v", data)
	}
	if prev, err := reg.Numbered(2); err != nil || prev.Content != "b" {
		t.Fatalf("Numbered(2) = %+v, %v", prev, err)
	}
}

func TestPaste(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		mode   cursor.Mode
		data   cursor.RegisterData
		want   string
		cursor int
	}{
		{"normal charwise", "ac", cursor.Normal{Offset: 0}, cursor.RegisterData{Content: "b"}, "abc", 1},
		{"normal linewise", "one\ntwo\n", cursor.Normal{Offset: 1}, cursor.RegisterData{Content: "  new", Mode: cursor.VisualLinewise}, "one\n  new\ntwo\n", 6},
		{"linewise on last line", "one", cursor.Normal{Offset: 0}, cursor.RegisterData{Content: "two\n", Mode: cursor.VisualLinewise}, "one\ntwo", 4},
		{"visual replaces", "hello world", cursor.Visual{Start: 0, End: 4}, cursor.RegisterData{Content: "bye"}, "bye world", 0},
		{"insert types", "ab", cursor.Insert{Selection: selection.Caret(1)}, cursor.RegisterData{Content: "XY"}, "aXYb", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.FromString(tt.text)
			cur := cursor.New(tt.mode)
			Paste(cur, buf, tt.data)
			if got := buf.String(); got != tt.want {
				t.Fatalf("text = %q, want %q", got, tt.want)
			}
			if got := cur.Offset(); got != tt.cursor {
				t.Fatalf("cursor = %d, want %d", got, tt.cursor)
			}
		})
	}
}

func TestApplyTextEdits(t *testing.T) {
	buf := buffer.FromString("hello world")
	cur := cursor.New(cursor.Normal{Offset: 8})
	edits := []lsp.TextEdit{
		{Range: lsp.Range{Start: lsp.Position{Line: 0, Character: 6}, End: lsp.Position{Line: 0, Character: 11}}, NewText: "all"},
		{Range: lsp.Range{Start: lsp.Position{Line: 0, Character: 0}, End: lsp.Position{Line: 0, Character: 5}}, NewText: "bye"},
	}
	res, err := ApplyTextEdits(cur, buf, edits)
	if err != nil {
		t.Fatalf("ApplyTextEdits: %v", err)
	}
	if buf.String() != "bye all" || buf.Rev() != 1 {
		t.Fatalf("text %q rev %d", buf.String(), buf.Rev())
	}
	if res.Delta.BaseLen() != 11 {
		t.Fatalf("delta base = %d", res.Delta.BaseLen())
	}
	if cur.Offset() > buf.Len() {
		t.Fatalf("cursor %d past end", cur.Offset())
	}

	_, err = ApplyTextEdits(cur, buf, []lsp.TextEdit{{Range: lsp.Range{Start: lsp.Position{Line: 3}}}})
	if !errors.Is(err, lsp.ErrPositionNotRepresentable) {
		t.Fatalf("bad position error = %v", err)
	}
	if buf.Rev() != 1 {
		t.Fatalf("rejected edits changed the buffer")
	}
}
