package cursor

import (
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

// DisplayColumn measures the cell width from the start of offset's line to
// offset. Tabs advance to the next multiple of tabWidth.
func DisplayColumn(text rope.Rope, offset, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	line := text.LineOfOffset(offset)
	col := 0
	it := text.CharIndices(text.OffsetOfLine(line), offset)
	for it.Next() {
		if it.Char() == '\t' {
			col += tabWidth - col%tabWidth
			continue
		}
		col += runewidth.RuneWidth(it.Char())
	}
	return col
}

// HorizAt returns the column affinity to remember for offset.
func HorizAt(text rope.Rope, offset, tabWidth int) selection.ColPosition {
	return selection.Col{X: float64(DisplayColumn(text, offset, tabWidth))}
}

// OffsetForHoriz resolves a column affinity on line. With caret false the
// result never passes the last character, as in Normal mode.
func OffsetForHoriz(text rope.Rope, line int, horiz selection.ColPosition, tabWidth int, caret bool) int {
	lineEnd := text.LineEndOffset(line, caret)
	switch h := horiz.(type) {
	case selection.ColStart:
		return text.OffsetOfLine(line)
	case selection.ColEnd:
		return lineEnd
	case selection.ColFirstNonBlank:
		return min(text.FirstNonBlankOffset(line), lineEnd)
	case selection.Col:
		if tabWidth < 1 {
			tabWidth = 1
		}
		target := int(h.X)
		col := 0
		it := text.CharIndices(text.OffsetOfLine(line), lineEnd)
		for it.Next() {
			w := runewidth.RuneWidth(it.Char())
			if it.Char() == '\t' {
				w = tabWidth - col%tabWidth
			}
			if col+w > target {
				return it.Offset()
			}
			col += w
		}
		return lineEnd
	}
	return text.OffsetOfLine(line)
}
