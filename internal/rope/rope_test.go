package rope

import (
	"strings"
	"testing"
	"testing/quick"
)

func TestFromStringRoundTrip(t *testing.T) {
	f := func(s string) bool {
		r := FromString(s)
		want := strings.ToValidUTF8(s, "\uFFFD")
		return r.String() == want && r.Len() == len(want)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestLineColRoundTrip(t *testing.T) {
	f := func(s string) bool {
		r := FromString(s)
		for o := 0; o <= r.Len(); o++ {
			if !r.IsCharBoundary(o) {
				continue
			}
			if back := r.OffsetOfLineCol(r.OffsetToLineCol(o)); back != o {
				t.Logf("%q: offset %d came back as %d", s, o, back)
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
	// Lines and multi-byte characters that random strings rarely produce.
	for _, s := range []string{"a\nb\r\nc", "héllo\n😀x\n", "\n\n", ""} {
		if !f(s) {
			t.Fatalf("round trip failed for %q", s)
		}
	}
}

func TestLargeTextSpansLeaves(t *testing.T) {
	line := "0123456789 héllo wörld 😀\n"
	text := strings.Repeat(line, 500)
	r := FromString(text)
	if r.String() != text {
		t.Fatalf("String mismatch")
	}
	if got := r.NumLines(); got != 501 {
		t.Fatalf("NumLines = %d, want 501", got)
	}
	if got := r.OffsetOfLine(250); got != 250*len(line) {
		t.Fatalf("OffsetOfLine(250) = %d", got)
	}
	if got := r.LineOfOffset(250*len(line) + 3); got != 250 {
		t.Fatalf("LineOfOffset = %d", got)
	}
	if got := r.Slice(100*len(line), 101*len(line)); got != line {
		t.Fatalf("Slice = %q", got)
	}

	var sb strings.Builder
	it := r.Chunks(10, r.Len()-10)
	for it.Next() {
		sb.WriteString(it.Chunk())
	}
	if sb.String() != text[10:len(text)-10] {
		t.Fatalf("Chunks did not reassemble the range")
	}
}

func TestReplaceMatchesStrings(t *testing.T) {
	f := func(base, ins string, a, b uint8) bool {
		base = strings.ToValidUTF8(base, "")
		ins = strings.ToValidUTF8(ins, "")
		r := FromString(base)
		start := r.SnapToChar(int(a) % (len(base) + 1))
		end := r.SnapToChar(int(b) % (len(base) + 1))
		if start > end {
			start, end = end, start
		}
		got := r.Replace(start, end, ins).String()
		return got == base[:start]+ins+base[end:]
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBuilderStreams(t *testing.T) {
	text := strings.Repeat("añb😀\n", 300)
	var b Builder
	// Write in 7-byte pieces so code points straddle calls.
	for i := 0; i < len(text); i += 7 {
		b.WriteString(text[i:min(i+7, len(text))])
	}
	if got := b.Build().String(); got != text {
		t.Fatalf("Builder lost text: len %d, want %d", len(got), len(text))
	}

	r, err := FromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}
	if !r.Equal(FromString(text)) {
		t.Fatalf("FromReader mismatch")
	}
}

func TestLineQueries(t *testing.T) {
	r := FromString("  foo\r\n\tbar\n\nbaz")
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"NumLines", r.NumLines(), 4},
		{"LastLine", r.LastLine(), 3},
		{"OffsetOfLine(1)", r.OffsetOfLine(1), 7},
		{"OffsetOfLine past end", r.OffsetOfLine(10), r.Len()},
		{"LineEndOffset crlf caret", r.LineEndOffset(0, true), 5},
		{"LineEndOffset crlf block", r.LineEndOffset(0, false), 4},
		{"LineEndOffset empty line", r.LineEndOffset(2, false), 12},
		{"LineEndOffset last line", r.LineEndOffset(3, true), r.Len()},
		{"FirstNonBlankOffset", r.FirstNonBlankOffset(1), 8},
		{"LineOfOffset clamps", r.LineOfOffset(1000), 3},
		{"OffsetOfLineCol stops at newline", r.OffsetOfLineCol(1, 99), 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
	if got := r.IndentOnLine(0); got != "  " {
		t.Fatalf("IndentOnLine(0) = %q", got)
	}
	if got := r.LineContent(1); got != "\tbar\n" {
		t.Fatalf("LineContent(1) = %q", got)
	}
	if got := r.Lines(); len(got) != 4 || got[0] != "  foo" || got[3] != "baz" {
		t.Fatalf("Lines = %q", got)
	}
}

func TestGraphemeSteps(t *testing.T) {
	// "e" + combining acute, then a family emoji joined by ZWJ.
	s := "ae\u0301\U0001F468\u200d\U0001F469\u200d\U0001F467b"
	r := FromString(s)
	eEnd := 1 + len("e\u0301")
	family := eEnd + len("\U0001F468\u200d\U0001F469\u200d\U0001F467")

	if got := r.NextGraphemeOffset(1, 1, r.Len()); got != eEnd {
		t.Fatalf("next over combining mark = %d, want %d", got, eEnd)
	}
	if got := r.NextGraphemeOffset(eEnd, 1, r.Len()); got != family {
		t.Fatalf("next over ZWJ sequence = %d, want %d", got, family)
	}
	if got := r.PrevGraphemeOffset(family, 1, 0); got != eEnd {
		t.Fatalf("prev over ZWJ sequence = %d, want %d", got, eEnd)
	}
	if got := r.NextGraphemeOffset(0, 10, eEnd); got != eEnd {
		t.Fatalf("next past limit = %d, want %d", got, eEnd)
	}
	if got := r.PrevGraphemeOffset(r.Len(), 100, 0); got != 0 {
		t.Fatalf("prev to start = %d", got)
	}

	crlf := FromString("a\r\nb")
	if got := crlf.NextGraphemeOffset(1, 1, crlf.Len()); got != 3 {
		t.Fatalf("CRLF is one cluster: got %d", got)
	}
}

func TestCharAccess(t *testing.T) {
	r := FromString("h😀")
	if c, ok := r.CharAt(1); !ok || c != '😀' {
		t.Fatalf("CharAt(1) = %q, %v", c, ok)
	}
	if _, ok := r.CharAt(2); ok {
		t.Fatalf("CharAt inside code point should fail")
	}
	if c, ok := r.PrevChar(r.Len()); !ok || c != '😀' {
		t.Fatalf("PrevChar = %q, %v", c, ok)
	}
	if got := r.SnapToChar(3); got != 1 {
		t.Fatalf("SnapToChar(3) = %d", got)
	}
	var chars []rune
	it := r.CharIndices(0, r.Len())
	for it.Next() {
		chars = append(chars, it.Char())
	}
	if string(chars) != "h😀" {
		t.Fatalf("CharIndices = %q", string(chars))
	}
}

func TestPositions(t *testing.T) {
	r := FromString("héllo\n😀x\n")
	tests := []struct {
		offset int
		pos    Position
	}{
		{0, Position{0, 0}},
		{3, Position{0, 2}},
		{7, Position{1, 0}},
		{11, Position{1, 2}},
		{13, Position{2, 0}},
	}
	for _, tt := range tests {
		got, ok := r.OffsetToPosition(tt.offset)
		if !ok || got != tt.pos {
			t.Fatalf("OffsetToPosition(%d) = %v, %v; want %v", tt.offset, got, ok, tt.pos)
		}
		back, ok := r.OffsetOfPosition(tt.pos)
		if !ok || back != tt.offset {
			t.Fatalf("OffsetOfPosition(%v) = %d, %v; want %d", tt.pos, back, ok, tt.offset)
		}
	}
	if _, ok := r.OffsetToPosition(8); ok {
		t.Fatalf("offset inside emoji must not convert")
	}
	if _, ok := r.OffsetOfPosition(Position{1, 1}); ok {
		t.Fatalf("position inside surrogate pair must not convert")
	}
	if _, ok := r.OffsetOfPosition(Position{0, 9}); ok {
		t.Fatalf("position past line end must not convert")
	}
	if _, ok := r.OffsetOfPosition(Position{5, 0}); ok {
		t.Fatalf("line past end must not convert")
	}
}
