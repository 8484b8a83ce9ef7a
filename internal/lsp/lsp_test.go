package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
)

// readMessage reads one Content-Length framed body, as a server would.
func readMessage(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		name, val, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "content-length") {
			if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				length = n
			}
		}
	}
	if length < 0 {
		return nil, errors.New("missing content-length")
	}
	buf := make([]byte, length)
	_, err := io.ReadFull(r, buf)
	return buf, err
}

func TestFileURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file with spaces.go")
	uri := FileURI(path)
	if !strings.HasPrefix(uri, "file://") {
		t.Fatalf("FileURI = %q, want file:// prefix", uri)
	}
	if got := URIToPath(uri); got != path {
		t.Fatalf("URIToPath = %q, want %q", got, path)
	}
	if got := URIToPath("untitled:1"); got != "untitled:1" {
		t.Fatalf("URIToPath(non-file) = %q", got)
	}
}

func TestRangeOffsets(t *testing.T) {
	text := rope.FromString("héllo\n😀x\n")
	tests := []struct {
		name       string
		r          Range
		start, end int
		wantErr    bool
	}{
		{"first line", Range{Position{0, 1}, Position{0, 2}}, 1, 3, false},
		{"after surrogate pair", Range{Position{1, 2}, Position{1, 3}}, 11, 12, false},
		{"mid surrogate", Range{Position{1, 1}, Position{1, 2}}, 0, 0, true},
		{"past line end", Range{Position{0, 0}, Position{0, 9}}, 0, 0, true},
		{"line out of range", Range{Position{5, 0}, Position{5, 0}}, 0, 0, true},
		{"reversed", Range{Position{0, 2}, Position{0, 1}}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.r.Offsets(text)
			if tt.wantErr {
				if !errors.Is(err, ErrPositionNotRepresentable) {
					t.Fatalf("err = %v, want ErrPositionNotRepresentable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.start || end != tt.end {
				t.Fatalf("Offsets = (%d, %d), want (%d, %d)", start, end, tt.start, tt.end)
			}
		})
	}
}

func TestContentChangesDescending(t *testing.T) {
	old := rope.FromString("one\ntwo\nthree\n")
	b := delta.NewBuilder(old.Len())
	b.Replace(0, 3, rope.FromString("ONE"))
	b.Replace(8, 13, rope.FromString("3"))
	d := b.Build()

	changes := ContentChanges(old, d)
	if len(changes) != 2 {
		t.Fatalf("len = %d, want 2", len(changes))
	}
	if changes[0].Range.Start != (Position{2, 0}) || changes[0].Text != "3" {
		t.Fatalf("first change = %+v", changes[0])
	}
	if changes[1].Range.Start != (Position{0, 0}) || changes[1].Range.End != (Position{0, 3}) {
		t.Fatalf("second change = %+v", changes[1])
	}

	// Applying in order against the evolving text reproduces the result.
	text := old
	for _, c := range changes {
		start, end, err := c.Range.Offsets(text)
		if err != nil {
			t.Fatalf("Offsets: %v", err)
		}
		text = text.Replace(start, end, c.Text)
	}
	if got, want := text.String(), d.Apply(old).String(); got != want {
		t.Fatalf("replayed = %q, want %q", got, want)
	}
}

func TestWriterDidChange(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	old := rope.FromString("abc")
	msg := NewDeltaMessage(7, old, delta.Simple(old.Len(), 1, 2, "X"))
	if err := w.DidChange("file:///tmp/a.go", msg); err != nil {
		t.Fatalf("DidChange: %v", err)
	}

	body, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	var got struct {
		Method string                      `json:"method"`
		Params DidChangeTextDocumentParams `json:"params"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Method != "textDocument/didChange" {
		t.Fatalf("method = %q", got.Method)
	}
	if got.Params.TextDocument.Version != 7 || len(got.Params.ContentChanges) != 1 {
		t.Fatalf("params = %+v", got.Params)
	}
	if got.Params.ContentChanges[0].Text != "X" {
		t.Fatalf("change text = %q", got.Params.ContentChanges[0].Text)
	}
}
