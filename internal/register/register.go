// Package register stores yanked and deleted text. The unnamed register can
// mirror the system clipboard.
package register

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/logger"
)

// ErrEmpty is returned when a register holds nothing.
var ErrEmpty = errors.New("register: empty")

const numbered = 9

// Register keeps the unnamed register, the last yank and a ring of the
// last deletions.
type Register struct {
	unnamed   *cursor.RegisterData
	yank      *cursor.RegisterData
	deletes   []cursor.RegisterData
	clipboard bool
}

// New returns an empty register set. With useClipboard the unnamed
// register is written to and read from the system clipboard when it is
// available.
func New(useClipboard bool) *Register {
	return &Register{clipboard: useClipboard && !clipboard.Unsupported}
}

// Add records deleted text.
func (r *Register) Add(data cursor.RegisterData) {
	r.unnamed = &data
	r.deletes = append([]cursor.RegisterData{data}, r.deletes...)
	if len(r.deletes) > numbered {
		r.deletes = r.deletes[:numbered]
	}
	r.sync(data)
}

// AddYank records yanked text.
func (r *Register) AddYank(data cursor.RegisterData) {
	r.unnamed = &data
	r.yank = &data
	r.sync(data)
}

func (r *Register) sync(data cursor.RegisterData) {
	if !r.clipboard {
		return
	}
	if err := clipboard.WriteAll(data.Content); err != nil {
		logger.Warn("clipboard write failed", "err", err)
	}
}

// Unnamed returns what a paste uses. When the clipboard holds text that
// differs from the unnamed register, the clipboard wins; text ending in a
// newline pastes linewise.
func (r *Register) Unnamed() (cursor.RegisterData, error) {
	if r.clipboard {
		content, err := clipboard.ReadAll()
		if err != nil {
			logger.Warn("clipboard read failed", "err", err)
		} else if content != "" && (r.unnamed == nil || r.unnamed.Content != content) {
			mode := cursor.VisualNormal
			if strings.HasSuffix(content, "\n") {
				mode = cursor.VisualLinewise
			}
			return cursor.RegisterData{Content: content, Mode: mode}, nil
		}
	}
	if r.unnamed == nil {
		return cursor.RegisterData{}, ErrEmpty
	}
	return *r.unnamed, nil
}

// LastYank returns the most recent yank.
func (r *Register) LastYank() (cursor.RegisterData, error) {
	if r.yank == nil {
		return cursor.RegisterData{}, ErrEmpty
	}
	return *r.yank, nil
}

// Numbered returns the n-th most recent deletion, counting from 1.
func (r *Register) Numbered(n int) (cursor.RegisterData, error) {
	if n < 1 || n > len(r.deletes) {
		return cursor.RegisterData{}, ErrEmpty
	}
	return r.deletes[n-1], nil
}
