package cursor

import (
	"sort"
	"strings"

	"github.com/kobzarvs/qcore/internal/delta"
	"github.com/kobzarvs/qcore/internal/rope"
	"github.com/kobzarvs/qcore/internal/selection"
)

// RegisterData is yanked text together with the shape it was taken in.
type RegisterData struct {
	Content string
	Mode    VisualMode
}

// Yank copies the text the cursor covers. Carets in Insert mode yank their
// whole line; blockwise yanks are line-oriented and always end in "\n".
func (c *Cursor) Yank(text rope.Rope) RegisterData {
	switch m := c.Mode.(type) {
	case Insert:
		mode := VisualNormal
		var sb strings.Builder
		for _, r := range m.Selection.Regions() {
			var part string
			if r.IsCaret() {
				mode = VisualLinewise
				part = text.LineContent(text.LineOfOffset(r.Start))
			} else {
				part = text.Slice(r.Min(), r.Max())
			}
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
			sb.WriteString(part)
		}
		return RegisterData{Content: sb.String(), Mode: mode}
	case Normal:
		end := text.NextGraphemeOffset(m.Offset, 1, text.Len())
		return RegisterData{Content: text.Slice(m.Offset, end), Mode: VisualNormal}
	case Visual:
		switch m.Mode {
		case VisualLinewise:
			from, to := linewiseRange(text, m.Start, m.End)
			return RegisterData{Content: text.Slice(from, to), Mode: VisualLinewise}
		case VisualBlockwise:
			var lines []string
			for _, r := range c.blockRegions(text, m.Start, m.End) {
				lines = append(lines, text.Slice(r.Start, r.End))
			}
			return RegisterData{Content: strings.Join(lines, "\n") + "\n", Mode: VisualBlockwise}
		default:
			end := text.NextGraphemeOffset(max(m.Start, m.End), 1, text.Len())
			return RegisterData{Content: text.Slice(min(m.Start, m.End), end), Mode: VisualNormal}
		}
	}
	return RegisterData{}
}

// GetFirstSelectionAfter picks a cursor for the text produced by d, which
// was computed against the text the cursor currently points into. The new
// text splits into inserted pieces and the runs between them; among the
// ends of those runs it takes the one nearest the current offset,
// preferring the earlier one on a tie. It reports false when d holds a
// zero-width copy, since no position can be derived from it.
func (c *Cursor) GetFirstSelectionAfter(newText rope.Rope, d delta.Delta) (*Cursor, bool) {
	for _, el := range d.Elements() {
		if cp, ok := el.(delta.Copy); ok && cp.Start == cp.End {
			return nil, false
		}
	}
	offset := c.Offset()
	var candidates []int
	pos := 0
	for _, ins := range d.Inserts() {
		if ins.Offset > pos {
			candidates = append(candidates, ins.Offset)
		}
		pos = ins.Offset + ins.Text.Len()
	}
	if n := d.NewLen(); n > pos {
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := abs(candidates[i]-offset), abs(candidates[j]-offset)
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})
	best := min(candidates[0], newText.Len())
	switch c.Mode.(type) {
	case Insert:
		return &Cursor{Mode: Insert{Selection: selection.Caret(best)}}, true
	default:
		line := newText.LineOfOffset(best)
		return &Cursor{Mode: Normal{Offset: min(best, newText.LineEndOffset(line, false))}}, true
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
