// Package lsp holds the language-server protocol surface of the editor
// core: position types, document URIs, change notifications derived from
// deltas and the Content-Length framing used on the wire.
package lsp

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/kobzarvs/qcore/internal/rope"
)

// ErrPositionNotRepresentable is returned when a protocol position does
// not land on the text.
var ErrPositionNotRepresentable = errors.New("lsp: position not representable")

// Position is a zero-based line and UTF-16 column.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is a range inside a resource.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// TextEdit replaces Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

// TextDocumentContentChangeEvent is an incremental change when Range is
// set and a full replacement otherwise.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// PositionOf converts a byte offset of text.
func PositionOf(text rope.Rope, offset int) (Position, error) {
	p, ok := text.OffsetToPosition(offset)
	if !ok {
		return Position{}, fmt.Errorf("offset %d: %w", offset, ErrPositionNotRepresentable)
	}
	return Position{Line: p.Line, Character: p.Character}, nil
}

// Offset resolves p against text.
func (p Position) Offset(text rope.Rope) (int, error) {
	off, ok := text.OffsetOfPosition(rope.Position{Line: p.Line, Character: p.Character})
	if !ok {
		return 0, fmt.Errorf("%d:%d: %w", p.Line, p.Character, ErrPositionNotRepresentable)
	}
	return off, nil
}

// Offsets resolves both ends of r against text.
func (r Range) Offsets(text rope.Rope) (int, int, error) {
	start, err := r.Start.Offset(text)
	if err != nil {
		return 0, 0, err
	}
	end, err := r.End.Offset(text)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("range ends before it starts: %w", ErrPositionNotRepresentable)
	}
	return start, end, nil
}

// FileURI returns the file:// URI of path, made absolute first.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// URIToPath converts a file:// URI to a filesystem path. Other URIs are
// returned unchanged.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	if u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}
