// Package session persists per-file cursor state between runs.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/logger"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

// FileState is the cursor of one file, in byte offsets.
type FileState struct {
	Mode    string   `json:"mode"` // "normal", "visual", "insert"
	Offset  int      `json:"offset"`
	Anchor  int      `json:"anchor,omitempty"`
	Visual  string   `json:"visual,omitempty"`
	Regions [][2]int `json:"regions,omitempty"`
	Rev     uint64   `json:"rev,omitempty"`
}

// Session is the file format.
type Session struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager guards a session and writes it back when it changes.
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// DefaultPath is $XDG_STATE_HOME/qcore/session.json, or
// ~/.local/state/qcore/session.json.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "qcore", "session.json"), nil
}

// Open loads the session stored at path. A missing or unreadable file
// starts an empty session.
func Open(path string) *Manager {
	m := &Manager{
		session:  Session{Files: make(map[string]FileState)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	return m
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("session read failed", "path", m.path, "err", err)
		}
		return
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("session file ignored", "path", m.path, "err", err)
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.session = s
}

// StartAutosave saves every interval until Stop.
func (m *Manager) StartAutosave(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.Save(); err != nil {
					logger.Warn("session autosave failed", "err", err)
				}
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Save writes the session if it changed since the last save.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// FileState returns the saved state of absPath.
func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.session.Files[absPath]
	return st, ok
}

// SetFileState records st for absPath and makes it the active file.
func (m *Manager) SetFileState(absPath string, st FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Files[absPath] = st
	m.session.ActiveFile = absPath
	m.dirty = true
}

// ActiveFile returns the file recorded last.
func (m *Manager) ActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

// Stop ends autosave and writes the session one last time.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.Save()
}

// Capture describes c.
func Capture(c *cursor.Cursor, rev uint64) FileState {
	st := FileState{Offset: c.Offset(), Rev: rev}
	switch m := c.Mode.(type) {
	case cursor.Normal:
		st.Mode = "normal"
	case cursor.Visual:
		st.Mode = "visual"
		st.Anchor = m.Start
		st.Visual = m.Mode.String()
	case cursor.Insert:
		st.Mode = "insert"
		for _, r := range m.Selection.Regions() {
			st.Regions = append(st.Regions, [2]int{r.Start, r.End})
		}
	}
	return st
}

// Restore rebuilds a cursor from st, clamped to text. Offsets inside a
// code point snap back to its start, and Normal-mode offsets stay on the
// last character of their line.
func (st FileState) Restore(text rope.Rope) *cursor.Cursor {
	clamp := func(o int) int { return text.SnapToChar(o) }
	block := func(o int) int {
		o = clamp(o)
		return min(o, text.LineEndOffset(text.LineOfOffset(o), false))
	}
	switch st.Mode {
	case "insert":
		sel := selection.New()
		for _, r := range st.Regions {
			sel.AddRegion(selection.NewRegion(clamp(r[0]), clamp(r[1])))
		}
		if sel.IsEmpty() {
			sel.AddRegion(selection.CaretRegion(clamp(st.Offset)))
		}
		return cursor.New(cursor.Insert{Selection: sel})
	case "visual":
		mode := cursor.VisualNormal
		switch st.Visual {
		case cursor.VisualLinewise.String():
			mode = cursor.VisualLinewise
		case cursor.VisualBlockwise.String():
			mode = cursor.VisualBlockwise
		}
		return cursor.New(cursor.Visual{Start: block(st.Anchor), End: block(st.Offset), Mode: mode})
	default:
		return cursor.New(cursor.Normal{Offset: block(st.Offset)})
	}
}
