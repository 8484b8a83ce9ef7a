// Package lens maps logical lines to rendered heights. Lines are grouped
// into runs of equal height held in an immutable balanced tree, so both
// directions of the mapping are logarithmic in the number of runs.
package lens

import "sort"

type run struct {
	lines  int
	height int
}

type node struct {
	left, right *node
	run         run
	lines       int
	height      int
}

func (n *node) totalLines() int {
	if n == nil {
		return 0
	}
	return n.lines
}

func (n *node) totalHeight() int {
	if n == nil {
		return 0
	}
	return n.height
}

func build(runs []run) *node {
	if len(runs) == 0 {
		return nil
	}
	mid := len(runs) / 2
	n := &node{
		left:  build(runs[:mid]),
		right: build(runs[mid+1:]),
		run:   runs[mid],
	}
	n.lines = n.left.totalLines() + n.run.lines + n.right.totalLines()
	n.height = n.left.totalHeight() + n.run.lines*n.run.height + n.right.totalHeight()
	return n
}

// Lens is immutable; a new one is built whenever the folding changes.
type Lens struct {
	root *node
}

// Builder collects runs in line order.
type Builder struct {
	runs []run
}

// AddSection appends lines lines of height each. Adjacent sections of the
// same height are merged.
func (b *Builder) AddSection(lines, height int) {
	if lines <= 0 {
		return
	}
	height = max(height, 0)
	if n := len(b.runs); n > 0 && b.runs[n-1].height == height {
		b.runs[n-1].lines += lines
		return
	}
	b.runs = append(b.runs, run{lines: lines, height: height})
}

func (b *Builder) Build() Lens {
	return Lens{root: build(b.runs)}
}

// FromNormalLines gives every normal line lineHeight and every other line
// lensHeight. normalLines may be unsorted; entries past totalLines are
// ignored.
func FromNormalLines(totalLines, lineHeight, lensHeight int, normalLines []int) Lens {
	sorted := append([]int(nil), normalLines...)
	sort.Ints(sorted)

	var b Builder
	current := 0
	for _, l := range sorted {
		if l < current || l >= totalLines {
			continue
		}
		if l > current {
			b.AddSection(l-current, lensHeight)
		}
		b.AddSection(1, lineHeight)
		current = l + 1
	}
	if current < totalLines {
		b.AddSection(totalLines-current, lensHeight)
	}
	return b.Build()
}

// NumLines returns the number of lines covered.
func (l Lens) NumLines() int { return l.root.totalLines() }

// TotalHeight returns the height of all lines.
func (l Lens) TotalHeight() int { return l.root.totalHeight() }

// HeightOfLine returns the height above line. Lines past the end return
// the total height.
func (l Lens) HeightOfLine(line int) int {
	if line <= 0 {
		return 0
	}
	n := l.root
	acc := 0
	for n != nil {
		if line < n.left.totalLines() {
			n = n.left
			continue
		}
		line -= n.left.totalLines()
		acc += n.left.totalHeight()
		if line < n.run.lines {
			return acc + line*n.run.height
		}
		line -= n.run.lines
		acc += n.run.lines * n.run.height
		n = n.right
	}
	return acc
}

// LineOfHeight returns the line drawn at height h. Heights at or past the
// total resolve to the last line and negative heights are treated as 0.
// A line of zero height is only returned by that clamp.
func (l Lens) LineOfHeight(h int) int {
	total := l.NumLines()
	if total == 0 {
		return 0
	}
	h = max(h, 0)
	if h >= l.TotalHeight() {
		return total - 1
	}
	n := l.root
	line := 0
	for n != nil {
		if h < n.left.totalHeight() {
			n = n.left
			continue
		}
		h -= n.left.totalHeight()
		line += n.left.totalLines()
		runHeight := n.run.lines * n.run.height
		if h < runHeight {
			return line + h/n.run.height
		}
		h -= runHeight
		line += n.run.lines
		n = n.right
	}
	return total - 1
}
