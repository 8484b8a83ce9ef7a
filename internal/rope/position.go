package rope

// Position is a protocol position: a zero-based line and a column counted
// in UTF-16 code units.
type Position struct {
	Line      int
	Character int
}

// OffsetToPosition converts a byte offset to a UTF-16 position. It reports
// false when offset is past the end or falls inside a code point.
func (r Rope) OffsetToPosition(offset int) (Position, bool) {
	if offset < 0 || offset > r.Len() || !r.IsCharBoundary(offset) {
		return Position{}, false
	}
	line := r.LineOfOffset(offset)
	if r.root == nil {
		return Position{Line: line}, true
	}
	lineStart := r.OffsetOfLine(line)
	units := r.root.prefix(offset).utf16 - r.root.prefix(lineStart).utf16
	return Position{Line: line, Character: units}, true
}

// OffsetOfPosition converts a UTF-16 position back to a byte offset. It
// reports false for lines past the end, characters past the line content,
// and characters that land between the halves of a surrogate pair.
func (r Rope) OffsetOfPosition(pos Position) (int, bool) {
	if pos.Line < 0 || pos.Character < 0 || pos.Line > r.LastLine() {
		return 0, false
	}
	lineStart := r.OffsetOfLine(pos.Line)
	if r.root == nil {
		return 0, pos.Character == 0
	}
	lineEnd := r.LineEndOffset(pos.Line, true)
	base := r.root.prefix(lineStart).utf16
	endUnits := r.root.prefix(lineEnd).utf16
	if base+pos.Character > endUnits {
		return 0, false
	}
	offset, ok := r.root.offsetOfUTF16(base + pos.Character)
	if !ok {
		return 0, false
	}
	return offset, true
}
