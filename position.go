package latextree

// Span is a half-open range of rune offsets into the source text.
type Span struct {
	Pos int
	End int
}

func (s Span) Len() int {
	return s.End - s.Pos
}

func (s Span) Empty() bool {
	return s.End <= s.Pos
}

// Text returns the source text covered by the span.
func (s Span) Text(src []rune) string {
	if s.Pos < 0 || s.End > len(src) || s.Empty() {
		return ""
	}

	return string(src[s.Pos:s.End])
}

// lineIndex holds the rune offset of the first character of every line.
type lineIndex []int

func newLineIndex(src []rune) lineIndex {
	idx := lineIndex{0}
	for i, r := range src {
		if r == '\n' {
			idx = append(idx, i+1)
		}
	}

	return idx
}

// locate returns the 1-based line and column for a rune offset.
func (idx lineIndex) locate(pos int) (line, col int) {
	lo, hi := 0, len(idx)
	for lo < hi {
		mid := (lo + hi) / 2
		if idx[mid] <= pos {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	line = lo
	col = pos - idx[line-1] + 1
	return line, col
}
