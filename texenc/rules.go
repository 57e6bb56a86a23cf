package texenc

import (
	"regexp"
	"unicode/utf8"
)

// Rule proposes a replacement for the input at one position. The rule kinds
// are MapRule, RegexRule and FuncRule; the first rule in an encoder's chain
// that matches wins and the scan continues past the matched text.
type Rule interface {
	apply(src string, pos int) (replacement string, width int, ok bool)
}

// MapRule replaces single runes by table lookup.
type MapRule map[rune]string

func (m MapRule) apply(src string, pos int) (string, int, bool) {
	r, size := utf8.DecodeRuneInString(src[pos:])
	if out, ok := m[r]; ok {
		return out, size, true
	}

	return "", 0, false
}

// FuncRule replaces single runes through a function returning the
// replacement and whether the rune is covered.
type FuncRule func(r rune) (string, bool)

func (f FuncRule) apply(src string, pos int) (string, int, bool) {
	r, size := utf8.DecodeRuneInString(src[pos:])
	if out, ok := f(r); ok {
		return out, size, true
	}

	return "", 0, false
}

// RegexRule replaces a pattern matched at the current position. Rewrite
// receives the matched text; a nil Rewrite keeps the match unchanged.
type RegexRule struct {
	Pattern *regexp.Regexp
	Rewrite func(match string) string
}

func (r RegexRule) apply(src string, pos int) (string, int, bool) {
	loc := r.Pattern.FindStringIndex(src[pos:])
	if loc == nil || loc[0] != 0 {
		return "", 0, false
	}

	match := src[pos : pos+loc[1]]
	if r.Rewrite == nil {
		return match, loc[1], true
	}

	return r.Rewrite(match), loc[1], true
}
