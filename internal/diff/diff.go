// Package diff aligns the lines of two texts with a longest common
// subsequence table. Computations are tied to a buffer revision and give
// up as soon as the buffer moves on.
package diff

import (
	"sync/atomic"

	"github.com/kobzarvs/qcore/internal/rope"
)

// Range is a half-open range of line indexes.
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// Lines is one aligned block: Left, Right or Both.
type Lines interface {
	isLines()
}

// Left lines exist only in the left text.
type Left struct {
	Range Range
}

// Right lines exist only in the right text.
type Right struct {
	Range Range
}

// Both lines are equal on both sides. Skip, when set, is the part of the
// block that can be collapsed, relative to the start of the block.
type Both struct {
	Left, Right Range
	Skip        *Range
}

func (Left) isLines()  {}
func (Right) isLines() {}
func (Both) isLines()  {}

type decision int

const (
	takeLeft decision = iota
	takeRight
	takeBoth
)

// RopeDiff aligns left against right. It reports false as soon as
// atomicRev no longer holds rev. contextLines below zero disables skip
// marking.
func RopeDiff(left, right rope.Rope, rev uint64, atomicRev *atomic.Uint64, contextLines int) ([]Lines, bool) {
	stale := func() bool { return atomicRev != nil && atomicRev.Load() != rev }
	return ropeDiff(left.Lines(), right.Lines(), stale, contextLines)
}

// Diff aligns two line slices without cancellation.
func Diff(left, right []string, contextLines int) []Lines {
	out, _ := ropeDiff(left, right, func() bool { return false }, contextLines)
	return out
}

func ropeDiff(left, right []string, stale func() bool, contextLines int) ([]Lines, bool) {
	leftCount, rightCount := len(left), len(right)
	minCount := min(leftCount, rightCount)

	leading := 0
	for leading < minCount && left[leading] == right[leading] {
		leading++
	}
	trailing := 0
	for trailing < minCount-leading && left[leftCount-1-trailing] == right[rightCount-1-trailing] {
		trailing++
	}

	leftMid := left[leading : leftCount-trailing]
	rightMid := right[leading : rightCount-trailing]
	n, m := len(leftMid), len(rightMid)

	table := make([][]uint32, n+1)
	for i := range table {
		table[i] = make([]uint32, m+1)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if stale() {
				return nil, false
			}
			if leftMid[i] == rightMid[j] {
				table[i+1][j+1] = table[i][j] + 1
			} else {
				table[i+1][j+1] = max(table[i][j+1], table[i+1][j])
			}
		}
	}

	// Backtrack from the end; decisions come out in reverse order.
	decisions := make([]decision, 0, n+m)
	i, j := n, m
backtrack:
	for {
		if stale() {
			return nil, false
		}
		switch {
		case j > 0 && (i == 0 || table[i][j] == table[i][j-1]):
			j--
			decisions = append(decisions, takeRight)
		case i > 0 && (j == 0 || table[i][j] == table[i-1][j]):
			i--
			decisions = append(decisions, takeLeft)
		case i > 0 && j > 0:
			i--
			j--
			decisions = append(decisions, takeBoth)
		default:
			break backtrack
		}
	}

	var changes []Lines
	if leading > 0 {
		changes = append(changes, Both{Left: Range{0, leading}, Right: Range{0, leading}})
	}
	leftLine, rightLine := leading, leading
	for k := len(decisions) - 1; k >= 0; k-- {
		if stale() {
			return nil, false
		}
		switch decisions[k] {
		case takeLeft:
			changes = pushLeft(changes, leftLine)
			leftLine++
		case takeRight:
			changes = pushRight(changes, rightLine)
			rightLine++
		case takeBoth:
			changes = pushBoth(changes, leftLine, rightLine, 1)
			leftLine++
			rightLine++
		}
	}
	if trailing > 0 {
		changes = pushBoth(changes, leftCount-trailing, rightCount-trailing, trailing)
	}

	if contextLines >= 0 && len(changes) > 0 {
		last := len(changes) - 1
		for k, c := range changes {
			if stale() {
				return nil, false
			}
			b, ok := c.(Both)
			if !ok {
				continue
			}
			size := b.Right.Len()
			switch {
			case k == 0:
				if size > contextLines {
					b.Skip = &Range{0, size - contextLines}
				}
			case k == last:
				if size > contextLines {
					b.Skip = &Range{contextLines, size}
				}
			default:
				if size > 2*contextLines {
					b.Skip = &Range{contextLines, size - contextLines}
				}
			}
			changes[k] = b
		}
	}
	return changes, true
}

func pushLeft(changes []Lines, line int) []Lines {
	if n := len(changes); n > 0 {
		if l, ok := changes[n-1].(Left); ok {
			l.Range.End = line + 1
			changes[n-1] = l
			return changes
		}
	}
	return append(changes, Left{Range{line, line + 1}})
}

func pushRight(changes []Lines, line int) []Lines {
	if n := len(changes); n > 0 {
		if r, ok := changes[n-1].(Right); ok {
			r.Range.End = line + 1
			changes[n-1] = r
			return changes
		}
	}
	return append(changes, Right{Range{line, line + 1}})
}

func pushBoth(changes []Lines, leftLine, rightLine, count int) []Lines {
	if n := len(changes); n > 0 {
		if b, ok := changes[n-1].(Both); ok && b.Left.End == leftLine && b.Right.End == rightLine {
			b.Left.End += count
			b.Right.End += count
			changes[n-1] = b
			return changes
		}
	}
	return append(changes, Both{
		Left:  Range{leftLine, leftLine + count},
		Right: Range{rightLine, rightLine + count},
	})
}

// Stats counts the lines only present on each side.
func Stats(changes []Lines) (added, removed int) {
	for _, c := range changes {
		switch c := c.(type) {
		case Left:
			removed += c.Range.Len()
		case Right:
			added += c.Range.Len()
		}
	}
	return added, removed
}
