package buffer

// TagFinder locates bracket tokens in a parse tree. A finder without a
// tree reports HasTree false and is ignored.
type TagFinder interface {
	HasTree() bool
	FindTag(offset int, previous bool, tag string) (int, bool)
}

// MatchingPair returns the counterpart of a bracket or quote.
func MatchingPair(c rune) (rune, bool) {
	switch c {
	case '(':
		return ')', true
	case ')':
		return '(', true
	case '[':
		return ']', true
	case ']':
		return '[', true
	case '{':
		return '}', true
	case '}':
		return '{', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '`':
		return '`', true
	}
	return 0, false
}

// PreviousUnmatched finds the nearest open before offset that is not
// closed before offset. With a parse tree the search uses token kinds, so
// brackets inside strings and comments do not count; without one it
// scans the text.
func (b *Buffer) PreviousUnmatched(finder TagFinder, open rune, offset int) (int, bool) {
	if finder != nil && finder.HasTree() {
		return finder.FindTag(offset, true, string(open))
	}
	closer, ok := MatchingPair(open)
	if !ok {
		return 0, false
	}
	depth := 0
	it := b.text.SnapToChar(offset)
	for it > 0 {
		c, ok := b.text.PrevChar(it)
		if !ok {
			return 0, false
		}
		it -= len(string(c))
		switch c {
		case open:
			if depth == 0 {
				return it, true
			}
			depth--
		case closer:
			depth++
		}
	}
	return 0, false
}
