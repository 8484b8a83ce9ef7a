package syntax

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/lens"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/rope"
)

var (
	_ buffer.TagFinder = (*Syntax)(nil)
	_ buffer.TagFinder = (*Service)(nil)
)

// Snapshot is the immutable state published after a parse.
type Snapshot struct {
	Rev         uint64
	NormalLines []int
	Lens        lens.Lens
	Styles      Spans
}

type parseRequest struct {
	rev  uint64
	text rope.Rope
	edit *Edit
}

// Service parses one buffer in the background. Requests coalesce: when
// several arrive while a parse runs, only the latest text is parsed, with
// their deltas composed. A finished parse is published only if the buffer
// has not moved past it in the meantime.
type Service struct {
	mu      sync.RWMutex
	syntax  *Syntax
	current *atomic.Uint64

	pendingMu sync.Mutex
	pending   *parseRequest

	highlightMax int
	latest       atomic.Pointer[Snapshot]
	notify       chan struct{}
	updates      chan uint64
	stopCh       chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	log          *zap.SugaredLogger
}

// NewService wraps syn. current is the buffer's revision counter;
// highlightMax caps the text size that gets highlight spans, 0 meaning no
// limit.
func NewService(syn *Syntax, current *atomic.Uint64, highlightMax int) *Service {
	return &Service{
		syntax:       syn,
		current:      current,
		highlightMax: highlightMax,
		notify:       make(chan struct{}, 1),
		updates:      make(chan uint64, 1),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		log:          logger.Named("syntax.service"),
	}
}

func (s *Service) Start() {
	go s.loop()
}

// Stop ends the loop and waits for a running parse to finish.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.done
}

// Updates delivers the revision of each published snapshot. Only the
// latest undelivered revision is kept.
func (s *Service) Updates() <-chan uint64 { return s.updates }

// Snapshot returns the latest published state, or nil before the first
// parse completes.
func (s *Service) Snapshot() *Snapshot { return s.latest.Load() }

// Request schedules a parse of text at rev. e is the edit that produced
// text, or nil for a full parse. An edit that follows a pending request is
// composed onto that request's edit and keeps its starting revision.
func (s *Service) Request(rev uint64, text rope.Rope, e *Edit) {
	s.pendingMu.Lock()
	if p := s.pending; p != nil {
		if p.edit != nil && e != nil && e.From == p.rev && p.edit.Delta.NewLen() == e.Delta.BaseLen() {
			e = &Edit{From: p.edit.From, Delta: p.edit.Delta.Compose(e.Delta)}
		} else {
			e = nil
		}
	}
	s.pending = &parseRequest{rev: rev, text: text, edit: e}
	s.pendingMu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Service) take() *parseRequest {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

func (s *Service) loop() {
	defer close(s.done)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-s.stopCh:
			return
		case <-s.notify:
			req := s.take()
			if req == nil {
				continue
			}
			s.run(ctx, req)
		}
	}
}

func (s *Service) run(ctx context.Context, req *parseRequest) {
	s.mu.Lock()
	err := s.syntax.Parse(ctx, req.rev, req.text, req.edit)
	var snap *Snapshot
	if err == nil {
		var styles Spans
		if s.highlightMax == 0 || req.text.Len() <= s.highlightMax {
			styles, err = s.syntax.Highlight(ctx)
			if err != nil && ctx.Err() == nil {
				s.log.Warnw("highlight failed", "rev", req.rev, "err", err)
				err = nil
			}
		}
		snap = &Snapshot{
			Rev:         req.rev,
			NormalLines: s.syntax.NormalLines(),
			Lens:        s.syntax.Lens(),
			Styles:      styles,
		}
	}
	s.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			s.log.Warnw("parse failed", "rev", req.rev, "err", err)
		}
		return
	}
	if s.current != nil && s.current.Load() != req.rev {
		s.log.Debugw("discarding stale parse", "rev", req.rev, "current", s.current.Load())
		return
	}
	s.latest.Store(snap)
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- req.rev:
	default:
	}
}

// Parse runs a parse synchronously on the caller's goroutine and
// publishes the result the same way the background loop does.
func (s *Service) Parse(ctx context.Context, rev uint64, text rope.Rope, e *Edit) {
	s.run(ctx, &parseRequest{rev: rev, text: text, edit: e})
}

// HasTree reports whether a tree has been parsed.
func (s *Service) HasTree() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syntax.HasTree()
}

// FindTag searches the latest tree. The tree can lag the buffer by the
// edits still pending.
func (s *Service) FindTag(offset int, previous bool, tag string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syntax.FindTag(offset, previous, tag)
}

// NodeStackAt reports the nodes of the latest tree around row and col.
func (s *Service) NodeStackAt(row, col int) []NodeRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syntax.NodeStackAt(row, col)
}
