package lsp

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

type rpcNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Writer frames JSON-RPC notifications with a Content-Length header. It is
// safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Notify sends method with params.
func (w *Writer) Notify(method string, params any) error {
	payload, err := json.Marshal(rpcNotification{JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(payload))
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := io.WriteString(w.w, header); err != nil {
		return err
	}
	_, err = w.w.Write(payload)
	return err
}

// DidChange sends m for the document at uri.
func (w *Writer) DidChange(uri string, m DeltaMessage) error {
	return w.Notify("textDocument/didChange", m.DidChange(uri))
}
