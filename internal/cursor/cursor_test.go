package cursor

import (
	"testing"

	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

func TestYank(t *testing.T) {
	text := rope.FromString("abc\nghi\nmno\n")
	tests := []struct {
		name string
		mode Mode
		want RegisterData
	}{
		{"normal", Normal{Offset: 1}, RegisterData{"b", VisualNormal}},
		{"visual charwise", Visual{Start: 5, End: 1}, RegisterData{"bc\ngh", VisualNormal}},
		{"visual linewise", Visual{Start: 1, End: 5, Mode: VisualLinewise}, RegisterData{"abc\nghi\n", VisualLinewise}},
		{"visual blockwise", Visual{Start: 1, End: 10, Mode: VisualBlockwise}, RegisterData{"bc\nhi\nno\n", VisualBlockwise}},
		{"insert caret", Insert{Selection: selection.Caret(5)}, RegisterData{"ghi\n", VisualLinewise}},
		{"insert region", Insert{Selection: selection.Region(0, 2)}, RegisterData{"ab", VisualNormal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.mode).Yank(text)
			if got != tt.want {
				t.Fatalf("Yank = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBlockwiseSkipsShortLines(t *testing.T) {
	text := rope.FromString("abcd\nx\nefgh\n")
	c := New(Visual{Start: 2, End: 10, Mode: VisualBlockwise})
	sel := c.EditSelection(text)
	if sel.Len() != 2 {
		t.Fatalf("regions = %d, want 2", sel.Len())
	}
	if got := c.Yank(text).Content; got != "cd\ngh\n" {
		t.Fatalf("Yank = %q", got)
	}

	c.Horiz = selection.ColEnd{}
	c.Mode = Visual{Start: 1, End: 8, Mode: VisualBlockwise}
	if got := c.Yank(text).Content; got != "bcd\n\nfgh\n" {
		t.Fatalf("Yank to line end = %q", got)
	}
}

func TestEditSelection(t *testing.T) {
	text := rope.FromString("héllo\n")
	sel := New(Normal{Offset: 1}).EditSelection(text)
	if r, _ := sel.First(); r.Start != 1 || r.End != 3 {
		t.Fatalf("normal selection = %+v, want the whole é", r)
	}
	sel = New(Visual{Start: 3, End: 0}).EditSelection(text)
	if r, _ := sel.First(); r.Min() != 0 || r.Max() != 4 {
		t.Fatalf("visual selection = %+v", r)
	}
}

func TestToggleVisual(t *testing.T) {
	c := New(Normal{Offset: 2})
	c.ToggleVisual(VisualNormal)
	if v, ok := c.Mode.(Visual); !ok || v.Start != 2 || v.End != 2 {
		t.Fatalf("mode = %#v", c.Mode)
	}
	c.Mode = Visual{Start: 2, End: 4}
	c.ToggleVisual(VisualLinewise)
	if v, ok := c.Mode.(Visual); !ok || v.Mode != VisualLinewise || v.End != 4 {
		t.Fatalf("switch shape: %#v", c.Mode)
	}
	c.ToggleVisual(VisualLinewise)
	if !c.IsNormal() || c.Offset() != 4 {
		t.Fatalf("collapse: %#v", c.Mode)
	}
}

func TestApplyDelta(t *testing.T) {
	d := delta.Simple(10, 0, 0, "abc")
	c := New(Visual{Start: 0, End: 4})
	c.Horiz = selection.Col{X: 3}
	c.ApplyDelta(d)
	v := c.Mode.(Visual)
	if v.Start != 0 || v.End != 7 || c.Horiz != nil {
		t.Fatalf("visual after delta = %#v horiz %v", v, c.Horiz)
	}
}

func TestGetFirstSelectionAfter(t *testing.T) {
	old := rope.FromString("hello world")
	d := delta.Simple(old.Len(), 0, 6, "")
	newText := d.Apply(old)

	next, ok := New(Normal{Offset: 5}).GetFirstSelectionAfter(newText, d)
	if !ok {
		t.Fatalf("no selection found")
	}
	if next.Offset() != 4 || !next.IsNormal() {
		t.Fatalf("next = %#v, want Normal at the last char", next.Mode)
	}

	next, ok = New(Insert{Selection: selection.Caret(5)}).GetFirstSelectionAfter(newText, d)
	if !ok || next.Offset() != 5 || !next.IsInsert() {
		t.Fatalf("insert next = %#v, %v", next, ok)
	}

	zero := delta.New([]delta.Element{delta.Copy{Start: 2, End: 2}, delta.Insert{Text: rope.FromString("x")}}, 5)
	if _, ok := New(Normal{}).GetFirstSelectionAfter(rope.FromString("x"), zero); ok {
		t.Fatalf("zero-width copy must not produce a selection")
	}
}

func TestGetFirstSelectionAfterRuns(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		d      func(n int) delta.Delta
		offset int
		want   int
	}{
		{
			name:   "deletion joins the runs around it",
			base:   "abcdef",
			d:      func(n int) delta.Delta { return delta.Simple(n, 2, 4, "") },
			offset: 1,
			want:   4,
		},
		{
			name:   "insert splits the runs",
			base:   "abc",
			d:      func(n int) delta.Delta { return delta.Simple(n, 1, 1, "XY") },
			offset: 2,
			want:   1,
		},
		{
			name: "nearest of several edits",
			base: "0123456789",
			d: func(n int) delta.Delta {
				b := delta.NewBuilder(n)
				b.Replace(2, 3, rope.FromString("ab"))
				b.Delete(6, 7)
				return b.Build()
			},
			offset: 8,
			want:   10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := rope.FromString(tt.base)
			d := tt.d(old.Len())
			next, ok := New(Insert{Selection: selection.Caret(tt.offset)}).GetFirstSelectionAfter(d.Apply(old), d)
			if !ok || next.Offset() != tt.want {
				t.Fatalf("GetFirstSelectionAfter = %v, %v; want %d", next, ok, tt.want)
			}
		})
	}
}

func TestDisplayColumn(t *testing.T) {
	text := rope.FromString("\tab世x\n")
	if got := DisplayColumn(text, 6, 4); got != 8 {
		t.Fatalf("DisplayColumn = %d, want 8", got)
	}
	tests := []struct {
		horiz selection.ColPosition
		want  int
	}{
		{selection.Col{X: 5}, 2},
		{selection.Col{X: 7}, 3},
		{selection.Col{X: 100}, 7},
		{selection.ColStart{}, 0},
		{selection.ColEnd{}, 7},
		{selection.ColFirstNonBlank{}, 1},
	}
	for _, tt := range tests {
		if got := OffsetForHoriz(text, 0, tt.horiz, 4, true); got != tt.want {
			t.Fatalf("OffsetForHoriz(%#v) = %d, want %d", tt.horiz, got, tt.want)
		}
	}
	if got := OffsetForHoriz(text, 0, selection.ColEnd{}, 4, false); got != 6 {
		t.Fatalf("block caret end = %d, want 6", got)
	}
}
