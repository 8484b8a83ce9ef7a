package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	m := Open(path)
	if _, ok := m.FileState("/a.go"); ok {
		t.Fatalf("fresh session has state")
	}
	m.SetFileState("/a.go", FileState{Mode: "normal", Offset: 7})
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	again := Open(path)
	st, ok := again.FileState("/a.go")
	if !ok || st.Offset != 7 || st.Mode != "normal" {
		t.Fatalf("reloaded = %+v, %v", st, ok)
	}
	if again.ActiveFile() != "/a.go" {
		t.Fatalf("ActiveFile = %q", again.ActiveFile())
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := Open(path)
	if m.ActiveFile() != "" {
		t.Fatalf("corrupt session loaded")
	}
	m.SetFileState("/b", FileState{})
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestCaptureRestore(t *testing.T) {
	text := rope.FromString("hello\nworld\n")
	sel := selection.Caret(2)
	sel.AddRegion(selection.NewRegion(6, 9))

	tests := []struct {
		name string
		cur  *cursor.Cursor
	}{
		{"normal", cursor.New(cursor.Normal{Offset: 4})},
		{"visual", cursor.New(cursor.Visual{Start: 1, End: 7, Mode: cursor.VisualLinewise})},
		{"insert", cursor.New(cursor.Insert{Selection: sel})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Capture(tt.cur, 3).Restore(text)
			if got.Offset() != tt.cur.Offset() {
				t.Fatalf("offset = %d, want %d", got.Offset(), tt.cur.Offset())
			}
			if v, ok := tt.cur.Mode.(cursor.Visual); ok && got.Mode != cursor.Mode(v) {
				t.Fatalf("visual = %#v, want %#v", got.Mode, v)
			}
			if ins, ok := tt.cur.Mode.(cursor.Insert); ok {
				if got.Mode.(cursor.Insert).Selection.Len() != ins.Selection.Len() {
					t.Fatalf("regions lost")
				}
			}
		})
	}
}

func TestRestoreClamps(t *testing.T) {
	tests := []struct {
		text   string
		offset int
		want   int
	}{
		{"ab", 99, 1},
		{"ab\ncd", 2, 1},
		{"ab\n", 99, 3},
		{"h\u00e9", 2, 1},
	}
	for _, tt := range tests {
		c := FileState{Mode: "normal", Offset: tt.offset}.Restore(rope.FromString(tt.text))
		if c.Offset() != tt.want {
			t.Fatalf("Restore(%q, %d) offset = %d, want %d", tt.text, tt.offset, c.Offset(), tt.want)
		}
	}
}
