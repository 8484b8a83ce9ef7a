package lsp

import (
	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
)

// DeltaMessage is what a document publishes after an edit: the revision
// it produced and the incremental changes that lead to it.
type DeltaMessage struct {
	Rev     uint64
	Changes []TextDocumentContentChangeEvent
}

// ContentChanges describes d, computed against old, as incremental
// changes. The changes are ordered from the end of the document backwards
// so each range is still valid when the previous one has been applied.
// When a position cannot be expressed the whole new text is sent instead.
func ContentChanges(old rope.Rope, d delta.Delta) []TextDocumentContentChangeEvent {
	changes := d.Changes()
	out := make([]TextDocumentContentChangeEvent, 0, len(changes))
	for i := len(changes) - 1; i >= 0; i-- {
		c := changes[i]
		start, err := PositionOf(old, c.Start)
		if err != nil {
			return fullChange(old, d)
		}
		end, err := PositionOf(old, c.End)
		if err != nil {
			return fullChange(old, d)
		}
		out = append(out, TextDocumentContentChangeEvent{
			Range: &Range{Start: start, End: end},
			Text:  c.Text.String(),
		})
	}
	return out
}

func fullChange(old rope.Rope, d delta.Delta) []TextDocumentContentChangeEvent {
	return []TextDocumentContentChangeEvent{{Text: d.Apply(old).String()}}
}

// NewDeltaMessage builds the message for revision rev.
func NewDeltaMessage(rev uint64, old rope.Rope, d delta.Delta) DeltaMessage {
	return DeltaMessage{Rev: rev, Changes: ContentChanges(old, d)}
}

// DidChange wraps m as textDocument/didChange parameters for uri.
func (m DeltaMessage) DidChange(uri string) DidChangeTextDocumentParams {
	return DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uri, Version: int(m.Rev)},
		ContentChanges: m.Changes,
	}
}
