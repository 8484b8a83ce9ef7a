package rope

import "unicode/utf8"

type iterFrame struct {
	node *node
	next int
}

// ChunkIter walks the leaves overlapping a byte range in order.
type ChunkIter struct {
	stack      []iterFrame
	start, end int
	pos        int
	chunk      string
	chunkStart int
}

// Chunks returns an iterator over the text in [start, end).
func (r Rope) Chunks(start, end int) *ChunkIter {
	start, end = r.clampRange(start, end)
	it := &ChunkIter{start: start, end: end}
	if r.root != nil && start < end {
		it.stack = append(it.stack, iterFrame{node: r.root})
	}
	return it
}

// Next advances to the next non-empty chunk.
func (it *ChunkIter) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		n := top.node
		if n.isLeaf() {
			it.stack = it.stack[:len(it.stack)-1]
			base := it.pos
			it.pos += len(n.leaf)
			if it.pos <= it.start {
				continue
			}
			if base >= it.end {
				it.stack = nil
				return false
			}
			lo := max(it.start-base, 0)
			hi := min(it.end-base, len(n.leaf))
			it.chunk = n.leaf[lo:hi]
			it.chunkStart = base + lo
			return true
		}
		if top.next >= len(n.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		c := n.children[top.next]
		top.next++
		// Skip whole subtrees that end before the range.
		if it.pos+c.sum.bytes <= it.start {
			it.pos += c.sum.bytes
			continue
		}
		if it.pos >= it.end {
			it.stack = nil
			return false
		}
		it.stack = append(it.stack, iterFrame{node: c})
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIter) Chunk() string { return it.chunk }

// Offset returns the absolute offset of the current chunk.
func (it *ChunkIter) Offset() int { return it.chunkStart }

// CharIndicesJoin yields (offset, char) pairs across chunk boundaries
// without materializing the text. Leaves never split a code point, so
// each chunk decodes independently; the iterator only carries the
// running base offset.
type CharIndicesJoin struct {
	chunks *ChunkIter
	rest   string
	base   int
	offset int
	char   rune
}

// CharIndices iterates the code points in [start, end).
func (r Rope) CharIndices(start, end int) *CharIndicesJoin {
	return &CharIndicesJoin{chunks: r.Chunks(start, end)}
}

// Next advances to the next code point.
func (c *CharIndicesJoin) Next() bool {
	for c.rest == "" {
		if !c.chunks.Next() {
			return false
		}
		c.rest = c.chunks.Chunk()
		c.base = c.chunks.Offset()
	}
	ch, size := utf8.DecodeRuneInString(c.rest)
	c.offset, c.char = c.base, ch
	c.rest = c.rest[size:]
	c.base += size
	return true
}

// Offset returns the byte offset of the current code point.
func (c *CharIndicesJoin) Offset() int { return c.offset }

// Char returns the current code point.
func (c *CharIndicesJoin) Char() rune { return c.char }
