package rope

import "github.com/rivo/uniseg"

// NextGraphemeOffset steps count grapheme clusters forward from offset and
// never returns a position past limit.
func (r Rope) NextGraphemeOffset(offset, count, limit int) int {
	offset = min(max(offset, 0), r.Len())
	result := offset
	for i := 0; i < count; i++ {
		next, ok := r.nextGrapheme(result)
		if !ok || next > limit {
			return result
		}
		result = next
	}
	return result
}

// PrevGraphemeOffset steps count grapheme clusters back from offset and
// never returns a position before limit.
func (r Rope) PrevGraphemeOffset(offset, count, limit int) int {
	offset = min(max(offset, 0), r.Len())
	result := offset
	for i := 0; i < count; i++ {
		prev, ok := r.prevGrapheme(result)
		if !ok || prev < limit {
			return result
		}
		result = prev
	}
	return result
}

func isASCII(b byte) bool { return b < 0x80 }

// nextGrapheme returns the end of the cluster containing offset.
func (r Rope) nextGrapheme(offset int) (int, bool) {
	n := r.Len()
	if offset >= n {
		return offset, false
	}
	b := r.ByteAt(offset)
	if isASCII(b) && b != '\r' && (offset+1 == n || isASCII(r.ByteAt(offset+1))) {
		return offset + 1, true
	}
	// Line starts are always cluster boundaries, so segment from there.
	line := r.LineOfOffset(offset)
	start := r.OffsetOfLine(line)
	window := r.Slice(start, r.OffsetOfLine(line+2))
	pos, state := start, -1
	for window != "" {
		var cluster string
		cluster, window, _, state = uniseg.FirstGraphemeClusterInString(window, state)
		pos += len(cluster)
		if pos > offset {
			return pos, true
		}
	}
	return n, true
}

// prevGrapheme returns the start of the cluster ending at or spanning offset.
func (r Rope) prevGrapheme(offset int) (int, bool) {
	if offset <= 0 {
		return 0, false
	}
	offset = min(offset, r.Len())
	b := r.ByteAt(offset - 1)
	if isASCII(b) && b != '\n' && (offset == 1 || isASCII(r.ByteAt(offset-2))) {
		return offset - 1, true
	}
	line := r.LineOfOffset(offset)
	start := r.OffsetOfLine(max(line-1, 0))
	window := r.Slice(start, offset)
	// Segment past offset only far enough to find the cluster spanning it.
	window += r.Slice(offset, r.OffsetOfLine(line+1))
	pos, state, prev := start, -1, start
	for window != "" {
		var cluster string
		cluster, window, _, state = uniseg.FirstGraphemeClusterInString(window, state)
		if pos >= offset {
			break
		}
		prev = pos
		pos += len(cluster)
	}
	return prev, true
}
