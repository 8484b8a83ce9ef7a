package rope

import (
	"strings"
	"unicode/utf8"
)

// NumNewlines returns the number of '\n' bytes in the text.
func (r Rope) NumNewlines() int {
	if r.root == nil {
		return 0
	}
	return r.root.sum.newlines
}

// NumLines returns the number of lines. An empty rope has one line, and a
// trailing newline opens a final empty line.
func (r Rope) NumLines() int {
	return r.NumNewlines() + 1
}

// LastLine is the index of the final line.
func (r Rope) LastLine() int {
	return r.NumNewlines()
}

// LineOfOffset returns the line containing offset.
func (r Rope) LineOfOffset(offset int) int {
	offset = min(max(offset, 0), r.Len())
	if r.root == nil {
		return 0
	}
	return r.root.prefix(offset).newlines
}

// OffsetOfLine returns the offset where line starts. Lines past the end
// clamp to the length of the text.
func (r Rope) OffsetOfLine(line int) int {
	if line <= 0 {
		return 0
	}
	if line > r.NumNewlines() {
		return r.Len()
	}
	return r.root.offsetOfNewline(line)
}

// OffsetToLineCol converts offset to a line and a byte column.
func (r Rope) OffsetToLineCol(offset int) (int, int) {
	offset = min(max(offset, 0), r.Len())
	line := r.LineOfOffset(offset)
	return line, offset - r.OffsetOfLine(line)
}

// OffsetOfLineCol converts a line and byte column back to an offset. The
// column stops at the line terminator, and a column inside a multi-byte
// character resolves to the start of that character.
func (r Rope) OffsetOfLineCol(line, col int) int {
	offset := r.OffsetOfLine(line)
	content := r.Slice(offset, r.OffsetOfLine(line+1))
	pos := 0
	for _, c := range content {
		if c == '\n' {
			return offset
		}
		n := utf8.RuneLen(c)
		if n < 0 {
			n = 1
		}
		if pos+n > col {
			return offset
		}
		pos += n
		offset += n
	}
	return offset
}

// LineContent returns line including its terminator.
func (r Rope) LineContent(line int) string {
	return r.Slice(r.OffsetOfLine(line), r.OffsetOfLine(line+1))
}

// LineEndOffset returns the offset at the end of line's content, before any
// "\n" or "\r\n". With caret false the result is pulled back one grapheme
// so that a block caret rests on the last character, unless the line is
// empty.
func (r Rope) LineEndOffset(line int, caret bool) int {
	offset := r.OffsetOfLine(line + 1)
	content := r.LineContent(line)
	switch {
	case strings.HasSuffix(content, "\r\n"):
		offset -= 2
		content = content[:len(content)-2]
	case strings.HasSuffix(content, "\n"):
		offset--
		content = content[:len(content)-1]
	}
	if !caret && content != "" {
		offset = r.PrevGraphemeOffset(offset, 1, 0)
	}
	return offset
}

// LineEndCol is LineEndOffset expressed as a byte column.
func (r Rope) LineEndCol(line int, caret bool) int {
	return r.LineEndOffset(line, caret) - r.OffsetOfLine(line)
}

// IndentOnLine returns the leading whitespace of line verbatim.
func (r Rope) IndentOnLine(line int) string {
	content := r.LineContent(line)
	end := strings.IndexFunc(content, func(c rune) bool {
		return c != ' ' && c != '\t'
	})
	if end < 0 {
		end = len(content)
	}
	return content[:end]
}

// FirstNonBlankOffset returns the offset of the first character on line
// that is not a space or tab, or the line end when there is none.
func (r Rope) FirstNonBlankOffset(line int) int {
	start := r.OffsetOfLine(line)
	indent := len(r.IndentOnLine(line))
	return min(start+indent, r.LineEndOffset(line, true))
}

// CharAt returns the code point starting at offset.
func (r Rope) CharAt(offset int) (rune, bool) {
	if offset < 0 || offset >= r.Len() || !r.IsCharBoundary(offset) {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(r.Slice(offset, offset+utf8.UTFMax))
	return c, true
}

// PrevChar returns the code point ending at offset.
func (r Rope) PrevChar(offset int) (rune, bool) {
	offset = min(offset, r.Len())
	if offset <= 0 || !r.IsCharBoundary(offset) {
		return 0, false
	}
	c, _ := utf8.DecodeLastRuneInString(r.Slice(offset-utf8.UTFMax, offset))
	return c, true
}

// Lines returns every line without its terminator. A trailing newline
// does not produce an extra empty line, and an empty rope has no lines.
func (r Rope) Lines() []string {
	if r.IsEmpty() {
		return nil
	}
	lines := strings.SplitAfter(r.String(), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		l = strings.TrimSuffix(l, "\n")
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
