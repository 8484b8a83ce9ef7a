// Package editor implements editing commands on top of a Buffer and a
// Cursor: typed characters with bracket pairing, deletion into registers,
// paste, undo and redo, and edits arriving from protocol collaborators.
package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kobzarvs/qcore/internal/buffer"
	"github.com/kobzarvs/qcore/internal/cursor"
	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/selection"
)

// Options toggles the bracket pairing behaviour of Insert.
type Options struct {
	AutoClosingMatchingPairs bool
	AutoSurround             bool
}

// EditResult is one delta applied to the buffer with its invalidation data.
type EditResult struct {
	Delta      delta.Delta
	InvalLines buffer.InvalLines
	SyntaxEdit buffer.SyntaxEdit
}

// pairDirection reports whether c opens (true) or closes (false) a
// bracket pair.
func pairDirection(c rune) (opens bool, ok bool) {
	switch c {
	case '(', '[', '{':
		return true, true
	case ')', ']', '}':
		return false, true
	}
	return false, false
}

func isQuote(c rune) bool { return c == '"' || c == '\'' }

// closerFor returns what a typed opener or quote is paired with.
func closerFor(c rune) rune {
	if isQuote(c) {
		return c
	}
	m, _ := buffer.MatchingPair(c)
	return m
}

// isWhitespaceOrPunct treats a missing character (end of text) as a
// boundary too.
func isWhitespaceOrPunct(c rune, ok bool) bool {
	if !ok {
		return true
	}
	if unicode.IsSpace(c) {
		return true
	}
	if c < utf8.RuneSelf {
		return strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~", c)
	}
	return unicode.IsPunct(c)
}

type lateEdit struct {
	region int
	closer rune
}

// Insert types s at every region of an Insert-mode cursor. A single
// character goes through bracket pairing, region by region:
//
//   - an opener or quote typed over a non-empty region wraps it when
//     AutoSurround is on;
//   - a closer or quote typed in front of the same character steps over it;
//   - a closer typed on a blank line is re-indented to its opener's line;
//   - an opener or quote typed before whitespace, punctuation or the end of
//     text gets its closer inserted after the caret;
//   - anything else is inserted as is.
//
// Closers are inserted by a second edit placed after the regions produced
// by the first one. Insert returns one result per applied delta, in order.
func Insert(cur *cursor.Cursor, buf *buffer.Buffer, s string, finder buffer.TagFinder, opts Options) []EditResult {
	ins, ok := cur.Mode.(cursor.Insert)
	if !ok {
		return nil
	}
	if utf8.RuneCountInString(s) != 1 {
		d, inval, se := buf.Edit([]buffer.SelectionEdit{{Selection: ins.Selection, Text: s}}, buffer.EditInsertChars)
		cur.Mode = cursor.Insert{Selection: ins.Selection.ApplyDelta(d, true, selection.DriftDefault)}
		return []EditResult{{d, inval, se}}
	}

	c, _ := utf8.DecodeRuneInString(s)
	opens, isPair := pairDirection(c)
	isOpener := (isPair && opens) || isQuote(c)

	sel := ins.Selection.Clone()
	regions := sel.Regions()
	original := ins.Selection.Regions()
	var edits []buffer.SelectionEdit
	var late []lateEdit

	for idx := range regions {
		region := &regions[idx]
		offset := region.End
		text := buf.Text()
		cursorChar, hasCursorChar := text.CharAt(offset)
		lineStart := text.OffsetOfLine(text.LineOfOffset(offset))
		prevOffset := text.PrevGraphemeOffset(offset, 1, lineStart)
		prevChar, hasPrevChar := rune(0), false
		if prevOffset < offset {
			prevChar, hasPrevChar = text.CharAt(prevOffset)
		}

		if !region.IsCaret() && opts.AutoSurround && isOpener {
			edits = append(edits, buffer.SelectionEdit{
				Selection: selection.Caret(region.Min()),
				Text:      string(c),
			})
			late = append(late, lateEdit{region: idx, closer: closerFor(c)})
			continue
		}

		if opts.AutoClosingMatchingPairs {
			if isQuote(c) && hasCursorChar && cursorChar == c {
				*region = selection.CaretRegion(text.NextGraphemeOffset(offset, 1, text.Len()))
				continue
			}

			if isPair && !opens {
				if hasCursorChar && cursorChar == c {
					*region = selection.CaretRegion(text.NextGraphemeOffset(offset, 1, text.Len()))
					continue
				}
				// A dedent replaces the line prefix, so it may not reach back
				// over an earlier region on the same line.
				free := idx == 0 || lineStart > original[idx-1].Max()
				if free && strings.TrimSpace(text.Slice(lineStart, offset)) == "" {
					opener := closerFor(c)
					if prev, ok := buf.PreviousUnmatched(finder, opener, offset); ok {
						indent := buf.IndentOnLine(buf.LineOfOffset(prev))
						edits = append(edits, buffer.SelectionEdit{
							Selection: selection.Region(lineStart, offset),
							Text:      indent + string(c),
						})
						continue
					}
				}
			}

			if isOpener {
				insertPair := isWhitespaceOrPunct(cursorChar, hasCursorChar)
				if isQuote(c) {
					insertPair = insertPair && isWhitespaceOrPunct(prevChar, hasPrevChar)
				}
				if insertPair {
					late = append(late, lateEdit{region: idx, closer: closerFor(c)})
				}
			}
		}

		edits = append(edits, buffer.SelectionEdit{
			Selection: selection.Region(region.Start, region.End),
			Text:      string(c),
		})
	}

	// Every region stepped over a closer: nothing to record.
	if len(edits) == 0 {
		cur.Mode = cursor.Insert{Selection: sel}
		return nil
	}

	var results []EditResult
	d, inval, se := buf.Edit(edits, buffer.EditInsertChars)
	results = append(results, EditResult{d, inval, se})
	before := ins.Selection.Clone()
	sel = sel.ApplyDelta(d, true, selection.DriftDefault)
	buf.SetLastSelections(before, sel.Clone())

	if len(late) > 0 {
		after := sel.Regions()
		lateEdits := make([]buffer.SelectionEdit, 0, len(late))
		for _, l := range late {
			if l.region >= len(after) {
				continue
			}
			at := after[l.region].Max()
			lateEdits = append(lateEdits, buffer.SelectionEdit{
				Selection: selection.Caret(at),
				Text:      string(l.closer),
			})
		}
		if len(lateEdits) > 0 {
			d, inval, se := buf.Edit(lateEdits, buffer.EditInsertChars)
			results = append(results, EditResult{d, inval, se})
			beforeLate := sel.Clone()
			sel = sel.ApplyDelta(d, false, selection.DriftDefault)
			buf.SetLastSelections(beforeLate, sel.Clone())
		}
	}

	cur.Mode = cursor.Insert{Selection: sel}
	return results
}
