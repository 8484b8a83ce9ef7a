// Package document ties one open file together: its buffer and cursor,
// the background parse, the diff against the committed version, and the
// change notifications sent to a language server.
package document

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/config"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/diff"
	"github.com/kobzarvs/qcore/internal/editor"
	"github.com/kobzarvs/qcore/internal/gitinfo"
	"github.com/kobzarvs/qcore/internal/highlight"
	"github.com/kobzarvs/qcore/internal/language"
	"github.com/kobzarvs/qcore/internal/lens"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/lsp"
	"github.com/kobzarvs/qcore/internal/register"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
	"github.com/kobzarvs/qcore/internal/session"
	"github.com/kobzarvs/qcore/internal/syntax"
)

// Options configure a document.
type Options struct {
	Pairs        editor.Options
	Syntax       syntax.Options
	HighlightMax int
	DiffContext  int
	Clipboard    bool
	Languages    config.Languages
	TabWidth     int
}

// OptionsFromConfig reads the editor section of cfg.
func OptionsFromConfig(cfg config.Config, langs config.Languages) Options {
	e := cfg.Editor
	return Options{
		Pairs: editor.Options{
			AutoClosingMatchingPairs: e.AutoClosing(),
			AutoSurround:             e.Surround(),
		},
		Syntax:       syntax.Options{LineHeight: e.LineHeight, LensHeight: e.LensHeight},
		HighlightMax: e.HighlightMaxBytes,
		DiffContext:  e.DiffContextLines,
		Clipboard:    e.UseClipboard(),
		Languages:    langs,
		TabWidth:     e.TabWidth,
	}
}

// Sink receives the edits made to a document. *lsp.Writer is one.
type Sink interface {
	DidChange(uri string, m lsp.DeltaMessage) error
}

// DiffResult is the line diff of the buffer against its reference.
type DiffResult struct {
	Rev            uint64
	Changes        []diff.Lines
	Added, Removed int
}

type diffRequest struct {
	rev  uint64
	text rope.Rope
}

// Document is used from one goroutine. Parsing and diffing run in the
// background and are picked up by Refresh, Styles, Folds and Diff once
// they match the current revision.
type Document struct {
	ID   uuid.UUID
	path string
	uri  string
	lang language.Language
	opts Options
	log  *zap.SugaredLogger

	buf  *buffer.Buffer
	cur  *cursor.Cursor
	reg  *register.Register
	syn  *syntax.Service
	hl   *highlight.Highlighter
	sink Sink

	styles    syntax.Spans
	stylesRev uint64

	refMu     sync.Mutex
	reference *rope.Rope

	diffMu      sync.Mutex
	diffPending *diffRequest
	diffNotify  chan struct{}
	diffUpdates chan uint64
	diffLatest  atomic.Pointer[DiffResult]

	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
	stopOnce sync.Once
}

// New makes a document holding content. pool may be shared between
// documents; reg may be nil for a register of its own.
func New(path string, content []byte, pool *syntax.ParserPool, reg *register.Register, opts Options) *Document {
	return newDocument(path, buffer.FromString(string(content)), pool, reg, opts)
}

// Open streams path from disk into a new document.
func Open(path string, pool *syntax.ParserPool, reg *register.Register, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	buf := buffer.New()
	if _, _, _, err := buf.LoadReader(f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return newDocument(path, buf, pool, reg, opts), nil
}

func newDocument(path string, buf *buffer.Buffer, pool *syntax.ParserPool, reg *register.Register, opts Options) *Document {
	id := uuid.New()
	d := &Document{
		ID:          id,
		path:        path,
		uri:         lsp.FileURI(path),
		lang:        language.Detect(path, opts.Languages),
		opts:        opts,
		log:         logger.Named("document").With("id", id.String(), "path", path),
		buf:         buf,
		cur:         cursor.New(cursor.Normal{Offset: 0}),
		reg:         reg,
		hl:          highlight.New(),
		diffNotify:  make(chan struct{}, 1),
		diffUpdates: make(chan uint64, 1),
		stopCh:      make(chan struct{}),
	}
	if d.reg == nil {
		d.reg = register.New(opts.Clipboard)
	}
	if syn, ok := syntax.New(d.lang, pool, opts.Syntax); ok {
		d.syn = syntax.NewService(syn, d.buf.AtomicRev(), opts.HighlightMax)
	}
	return d
}

// Start runs the background parse and diff and requests the first parse.
func (d *Document) Start() {
	if d.started {
		return
	}
	d.started = true
	if d.syn != nil {
		d.syn.Start()
		d.syn.Request(d.buf.Rev(), d.buf.Text(), nil)
	}
	d.wg.Add(1)
	go d.diffLoop()
	d.scheduleDiff()
}

// Close stops the background work.
func (d *Document) Close() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
		if d.started && d.syn != nil {
			d.syn.Stop()
		}
		d.wg.Wait()
	})
}

func (d *Document) Path() string                { return d.path }
func (d *Document) URI() string                 { return d.uri }
func (d *Document) Language() language.Language { return d.lang }
func (d *Document) Buffer() *buffer.Buffer      { return d.buf }
func (d *Document) Cursor() *cursor.Cursor      { return d.cur }
func (d *Document) Text() rope.Rope             { return d.buf.Text() }
func (d *Document) Rev() uint64                 { return d.buf.Rev() }

func (d *Document) Register() *register.Register { return d.reg }

// SetSink sends every later edit to s.
func (d *Document) SetSink(s Sink) { d.sink = s }

// SyntaxUpdates delivers the revision of each finished parse, or is nil
// when the language has no grammar.
func (d *Document) SyntaxUpdates() <-chan uint64 {
	if d.syn == nil {
		return nil
	}
	return d.syn.Updates()
}

// DiffUpdates delivers the revision of each finished diff.
func (d *Document) DiffUpdates() <-chan uint64 { return d.diffUpdates }

// finder exposes the parse tree to matching-pair lookups only while it
// describes the current text.
func (d *Document) finder() buffer.TagFinder {
	if d.syn == nil {
		return nil
	}
	if snap := d.syn.Snapshot(); snap == nil || snap.Rev != d.buf.Rev() {
		return nil
	}
	return d.syn
}

// Insert types s at every caret. It does nothing outside Insert mode.
func (d *Document) Insert(s string) {
	for _, res := range editor.Insert(d.cur, d.buf, s, d.finder(), d.opts.Pairs) {
		d.afterEdit(res)
	}
}

// Indent inserts one level of the language's indentation at every caret.
func (d *Document) Indent() {
	d.Insert(d.lang.IndentUnit())
}

// MoveLines moves the cursor count lines down, or up when count is
// negative. The display column of the first move in a row is kept, so
// passing through a short line does not lose it.
func (d *Document) MoveLines(count int) {
	text := d.buf.Text()
	offset := d.cur.Offset()
	if d.cur.Horiz == nil {
		d.cur.Horiz = cursor.HorizAt(text, offset, d.opts.TabWidth)
	}
	line := min(max(text.LineOfOffset(offset)+count, 0), text.LastLine())
	switch m := d.cur.Mode.(type) {
	case cursor.Insert:
		d.cur.SetInsert(selection.Caret(cursor.OffsetForHoriz(text, line, d.cur.Horiz, d.opts.TabWidth, true)))
	case cursor.Visual:
		m.End = cursor.OffsetForHoriz(text, line, d.cur.Horiz, d.opts.TabWidth, false)
		d.cur.Mode = m
	default:
		d.cur.SetNormal(cursor.OffsetForHoriz(text, line, d.cur.Horiz, d.opts.TabWidth, false))
	}
}

// Delete removes what the cursor covers into the register.
func (d *Document) Delete() {
	res := editor.DeleteSelection(d.cur, d.buf, d.reg)
	if !res.Delta.IsIdentity() {
		d.afterEdit(res)
	}
}

// Yank copies what the cursor covers. A Visual cursor returns to Normal
// mode at the start of the copied text.
func (d *Document) Yank() cursor.RegisterData {
	data := d.cur.Yank(d.buf.Text())
	d.reg.AddYank(data)
	if v, ok := d.cur.Mode.(cursor.Visual); ok {
		d.cur.SetNormal(min(v.Start, v.End))
	}
	return data
}

// Paste inserts the unnamed register.
func (d *Document) Paste() error {
	data, err := d.reg.Unnamed()
	if err != nil {
		return err
	}
	res := editor.Paste(d.cur, d.buf, data)
	if !res.Delta.IsIdentity() {
		d.afterEdit(res)
	}
	return nil
}

func (d *Document) Undo() error {
	res, err := editor.Undo(d.cur, d.buf)
	if err != nil {
		return err
	}
	d.afterEdit(res)
	return nil
}

func (d *Document) Redo() error {
	res, err := editor.Redo(d.cur, d.buf)
	if err != nil {
		return err
	}
	d.afterEdit(res)
	return nil
}

// ApplyTextEdits applies edits received from a language server.
func (d *Document) ApplyTextEdits(edits []lsp.TextEdit) error {
	res, err := editor.ApplyTextEdits(d.cur, d.buf, edits)
	if err != nil {
		return err
	}
	if !res.Delta.IsIdentity() {
		d.afterEdit(res)
	}
	return nil
}

// Reload replaces the whole text, as after the file changed on disk. The
// cursor stays at its offset, clamped to the new text.
func (d *Document) Reload(content []byte) {
	offset := d.cur.Offset()
	dl, inval, se := d.buf.LoadContent(content)
	st := session.FileState{Mode: "normal", Offset: offset}
	d.cur = st.Restore(d.buf.Text())
	d.hl.Invalidate(d.path)
	d.afterEdit(editor.EditResult{Delta: dl, InvalLines: inval, SyntaxEdit: se})
}

func (d *Document) afterEdit(res editor.EditResult) {
	rev := d.buf.Rev()
	text := d.buf.Text()
	dl := res.Delta

	d.styles = d.styles.ApplyDelta(dl)
	if d.syn != nil {
		d.syn.Request(rev, text, &syntax.Edit{From: rev - 1, Delta: dl})
	}
	if d.sink != nil {
		if err := d.sink.DidChange(d.uri, lsp.NewDeltaMessage(rev, res.InvalLines.OldText, dl)); err != nil {
			d.log.Warnw("change notification failed", "rev", rev, "err", err)
		}
	}
	d.log.Debugw("edit", "rev", rev, "lines", res.InvalLines.StartLine, "inval", res.InvalLines.InvalCount, "new", res.InvalLines.NewCount)
	d.scheduleDiff()
}

// Refresh adopts the latest parse when it matches the current revision.
func (d *Document) Refresh() bool {
	if d.syn == nil {
		return false
	}
	snap := d.syn.Snapshot()
	if snap == nil || snap.Rev != d.buf.Rev() || d.stylesRev == snap.Rev && d.styles != nil {
		return false
	}
	if snap.Styles != nil {
		d.styles = snap.Styles
		d.stylesRev = snap.Rev
	}
	return true
}

// Styles returns highlight spans for the current text. Spans of an older
// revision are shifted through the edits made since; files without a
// grammar are highlighted by lexer.
func (d *Document) Styles() syntax.Spans {
	if d.syn != nil {
		d.Refresh()
		return d.styles
	}
	rev := d.buf.Rev()
	if d.styles != nil && d.stylesRev == rev {
		return d.styles
	}
	text := d.buf.Text()
	if d.opts.HighlightMax > 0 && text.Len() > d.opts.HighlightMax {
		return d.styles
	}
	spans, ok, err := d.hl.Spans(d.path, rev, text)
	switch {
	case err != nil:
		d.log.Warnw("highlight failed", "err", err)
	case ok:
		d.styles = spans
		d.stylesRev = rev
	}
	return d.styles
}

// Folds returns the lines kept at full height and the lens built from
// them, when a parse of the current revision is available.
func (d *Document) Folds() ([]int, lens.Lens, bool) {
	if d.syn == nil {
		return nil, lens.Lens{}, false
	}
	snap := d.syn.Snapshot()
	if snap == nil || snap.Rev != d.buf.Rev() {
		return nil, lens.Lens{}, false
	}
	return snap.NormalLines, snap.Lens, true
}

// NodeStack returns the syntax nodes around offset, innermost first, when
// a parse of the current revision is available.
func (d *Document) NodeStack(offset int) ([]syntax.NodeRange, bool) {
	if d.finder() == nil {
		return nil, false
	}
	line, col := d.buf.Text().OffsetToLineCol(offset)
	return d.syn.NodeStackAt(line, col), true
}

// Sync parses and diffs the current revision on the caller's goroutine.
func (d *Document) Sync(ctx context.Context) {
	rev, text := d.buf.Rev(), d.buf.Text()
	if d.syn != nil {
		d.syn.Parse(ctx, rev, text, nil)
	}
	d.runDiff(&diffRequest{rev: rev, text: text})
	d.Refresh()
}

// Modified reports whether the text differs from what was last loaded or
// saved.
func (d *Document) Modified() bool { return !d.buf.IsPristine() }

// Save writes the text back to the document's path, keeping the file's
// permissions when it exists.
func (d *Document) Save() error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(d.path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(d.path, []byte(d.buf.String()), perm); err != nil {
		return fmt.Errorf("save %s: %w", d.path, err)
	}
	d.buf.SetPristine()
	d.log.Debugw("saved", "rev", d.buf.Rev())
	return nil
}

// SetReference sets the text the buffer is diffed against.
func (d *Document) SetReference(ref rope.Rope) {
	d.refMu.Lock()
	d.reference = &ref
	d.refMu.Unlock()
	d.scheduleDiff()
}

// LoadGitReference uses the committed version of the file as reference.
func (d *Document) LoadGitReference(ctx context.Context) error {
	content, err := gitinfo.HeadContent(ctx, d.path)
	if err != nil {
		return err
	}
	d.SetReference(rope.FromString(string(content)))
	return nil
}

// Reference returns the diff reference, if one is set.
func (d *Document) Reference() (rope.Rope, bool) {
	d.refMu.Lock()
	defer d.refMu.Unlock()
	if d.reference == nil {
		return rope.Rope{}, false
	}
	return *d.reference, true
}

// Diff returns the diff of the current revision, once computed.
func (d *Document) Diff() (*DiffResult, bool) {
	res := d.diffLatest.Load()
	if res == nil || res.Rev != d.buf.Rev() {
		return nil, false
	}
	return res, true
}

func (d *Document) scheduleDiff() {
	if !d.started {
		return
	}
	d.diffMu.Lock()
	d.diffPending = &diffRequest{rev: d.buf.Rev(), text: d.buf.Text()}
	d.diffMu.Unlock()
	select {
	case d.diffNotify <- struct{}{}:
	default:
	}
}

func (d *Document) diffLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stopCh:
			return
		case <-d.diffNotify:
			d.diffMu.Lock()
			req := d.diffPending
			d.diffPending = nil
			d.diffMu.Unlock()
			if req != nil {
				d.runDiff(req)
			}
		}
	}
}

func (d *Document) runDiff(req *diffRequest) {
	ref, ok := d.Reference()
	if !ok {
		return
	}
	changes, ok := diff.RopeDiff(ref, req.text, req.rev, d.buf.AtomicRev(), d.opts.DiffContext)
	if !ok {
		d.log.Debugw("diff cancelled", "rev", req.rev)
		return
	}
	added, removed := diff.Stats(changes)
	d.diffLatest.Store(&DiffResult{Rev: req.rev, Changes: changes, Added: added, Removed: removed})
	select {
	case <-d.diffUpdates:
	default:
	}
	select {
	case d.diffUpdates <- req.rev:
	default:
	}
}

// SaveState records the cursor in m.
func (d *Document) SaveState(m *session.Manager) {
	m.SetFileState(d.path, session.Capture(d.cur, d.buf.Rev()))
}

// RestoreState puts the cursor back where m last saw it.
func (d *Document) RestoreState(m *session.Manager) bool {
	st, ok := m.FileState(d.path)
	if !ok {
		return false
	}
	d.cur = st.Restore(d.buf.Text())
	return true
}

var _ Sink = (*lsp.Writer)(nil)
