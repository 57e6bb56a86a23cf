package latextree

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Tokenizer reads tokens out of an in-memory source buffer. All positions
// are rune offsets into the source. The tokenizer holds no grammar of its
// own: every read takes the parsing state that conditions recognition, so
// one reader can continue across state changes in the middle of a document.
type Tokenizer struct {
	src   []rune
	lines lineIndex
	pos   int
}

func NewTokenizer(source string) *Tokenizer {
	src := []rune(source)
	return &Tokenizer{src: src, lines: newLineIndex(src)}
}

// NewTokenizerAt starts reading at the given rune offset, for parsing a
// fragment out of the middle of a larger document.
func NewTokenizerAt(source string, offset int) *Tokenizer {
	tz := NewTokenizer(source)
	if offset < 0 {
		offset = 0
	}
	if offset > len(tz.src) {
		offset = len(tz.src)
	}
	tz.pos = offset

	return tz
}

func (tz *Tokenizer) Source() string {
	return string(tz.src)
}

// Pos returns the current read position.
func (tz *Tokenizer) Pos() int {
	return tz.pos
}

// MoveTo jumps to an absolute rune offset.
func (tz *Tokenizer) MoveTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(tz.src) {
		pos = len(tz.src)
	}
	tz.pos = pos
}

// MoveToToken rewinds to the start of the token's pre-space, so the next
// read returns the token again.
func (tz *Tokenizer) MoveToToken(tok *Token) {
	tz.MoveTo(tok.Pos - utf8.RuneCountInString(tok.PreSpace))
}

// MovePastToken jumps past the token, its post-space included.
func (tz *Tokenizer) MovePastToken(tok *Token) {
	tz.MoveTo(tok.End)
}

// AtEnd reports whether the read position reached the end of the buffer.
func (tz *Tokenizer) AtEnd() bool {
	return tz.pos >= len(tz.src)
}

// LineCol converts a rune offset to a 1-based line and column.
func (tz *Tokenizer) LineCol(pos int) (line, col int) {
	return tz.lines.locate(pos)
}

// SkipSpace consumes the whitespace run at the current position and
// returns it.
func (tz *Tokenizer) SkipSpace() string {
	space, _, end := tz.peekSpace()
	tz.pos = end

	return space
}

// PeekToken reads the next token without consuming it.
func (tz *Tokenizer) PeekToken(state *ParsingState) (*Token, error) {
	return tz.read(state)
}

// NextToken reads the next token and moves past it.
func (tz *Tokenizer) NextToken(state *ParsingState) (*Token, error) {
	tok, err := tz.read(state)
	if err != nil {
		return tok, err
	}
	tz.pos = tok.End

	return tok, nil
}

func (tz *Tokenizer) read(state *ParsingState) (*Token, error) {
	pre, spacePos, spaceEnd := tz.peekSpace()

	if state.EnableParagraphs && strings.Count(pre, "\n") >= 2 {
		return tz.readParagraph(state, pre, spacePos), nil
	}

	if spaceEnd >= len(tz.src) {
		return nil, &EndOfStream{FinalSpace: pre}
	}

	pos := spaceEnd

	// math delimiters come before the escape character so that \( is a
	// math delimiter, not a macro call
	if state.EnableMath {
		if tok := tz.readMathDelimiter(state, pre, pos); tok != nil {
			return tok, nil
		}
	}

	c := tz.src[pos]

	if state.EnableMacros && c == state.MacroEscape {
		return tz.readEscape(state, pre, pos)
	}

	if state.EnableComments && tz.matchString(pos, state.CommentStart) {
		return tz.readComment(state, pre, pos), nil
	}

	if state.EnableGroups {
		if open, ok := tz.matchGroupOpen(state, pos); ok {
			return tz.makeToken(TokGroupOpen, open, pre, pos, pos+runeCount(open)), nil
		}
		if closer, ok := tz.matchGroupClose(state, pos); ok {
			return tz.makeToken(TokGroupClose, closer, pre, pos, pos+runeCount(closer)), nil
		}
	}

	if state.EnableSpecials && state.Context != nil {
		if spec := state.Context.SpecialsLongestMatch(tz.src, pos); spec != nil {
			tok := tz.makeToken(TokSpecials, spec.Text, pre, pos, pos+len(spec.textRunes))
			tok.Spec = spec
			return tok, nil
		}
	}

	if state.isForbidden(c) {
		rec := tz.makeToken(TokChars, string(c), pre, pos, pos+1)
		return nil, &TokenError{
			Msg:      fmt.Sprintf("forbidden character %q", c),
			Pos:      pos,
			Recovery: rec,
			State:    state,
		}
	}

	return tz.readChars(state, pre, pos), nil
}

// readParagraph turns a blank-line run into its own token. Whitespace
// before the first newline stays pre-space, whitespace after the last
// newline is left in the buffer for the next token.
func (tz *Tokenizer) readParagraph(state *ParsingState, space string, spacePos int) *Token {
	sp := []rune(space)
	first, last := -1, -1
	for i, r := range sp {
		if r == '\n' {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	pos := spacePos + first
	end := spacePos + last + 1

	tok := tz.makeToken(TokChars, string(tz.src[pos:end]), string(sp[:first]), pos, end)
	if state.Context != nil {
		if spec := state.Context.lookupSpecials(paragraphSpecials); spec != nil {
			tok.Kind = TokSpecials
			tok.Spec = spec
		}
	}

	return tok
}

// readMathDelimiter matches a math delimiter at pos. Inside math mode the
// delimiter that closes the current region wins over every other, so
// $a$$b$ closes at the first $ instead of opening a display region.
func (tz *Tokenizer) readMathDelimiter(state *ParsingState, pre string, pos int) *Token {
	if !state.mathStartRunes[tz.src[pos]] {
		return nil
	}

	if state.InMathMode && state.MathCloseDelim != "" && tz.matchString(pos, state.MathCloseDelim) {
		kind := TokMathInline
		if state.MathDisplay {
			kind = TokMathDisplay
		}
		return tz.makeToken(kind, state.MathCloseDelim, pre, pos, pos+runeCount(state.MathCloseDelim))
	}

	for _, d := range state.mathDelims {
		kind := TokMathInline
		if d.Display {
			kind = TokMathDisplay
		}
		if tz.matchString(pos, d.Open) {
			return tz.makeToken(kind, d.Open, pre, pos, pos+runeCount(d.Open))
		}
		if d.Close != d.Open && tz.matchString(pos, d.Close) {
			return tz.makeToken(kind, d.Close, pre, pos, pos+runeCount(d.Close))
		}
	}

	return nil
}

func (tz *Tokenizer) readEscape(state *ParsingState, pre string, pos int) (*Token, error) {
	next := pos + 1
	if next >= len(tz.src) {
		rec := tz.makeToken(TokChars, string(state.MacroEscape), pre, pos, next)
		return nil, &TokenError{
			Msg:      fmt.Sprintf("expected macro name after %q", state.MacroEscape),
			Pos:      pos,
			Recovery: rec,
			State:    state,
		}
	}

	if state.EnableEnvironments {
		tok, err := tz.readEnvironmentTag(state, pre, pos)
		if tok != nil || err != nil {
			return tok, err
		}
	}

	c := tz.src[next]
	nameEnd := next + 1
	if isLetter(c) {
		for nameEnd < len(tz.src) && isLetter(tz.src[nameEnd]) {
			nameEnd++
		}
	}

	tok := tz.makeToken(TokMacro, string(tz.src[next:nameEnd]), pre, pos, nameEnd)

	// single-character macros like \% keep the following space visible,
	// named macros absorb it as post-space
	if isLetter(c) {
		post, postEnd := tz.macroPostSpace(state, nameEnd)
		tok.PostSpace = post
		tok.End = postEnd
	}

	return tok, nil
}

// readEnvironmentTag recognizes \begin{name} and \end{name}, with optional
// space before the brace. A letter right after the keyword means this is an
// ordinary macro like \endinput, so (nil, nil) sends the caller down the
// macro path.
func (tz *Tokenizer) readEnvironmentTag(state *ParsingState, pre string, pos int) (*Token, error) {
	kind := TokBeginEnv
	keyword := "begin"
	p := pos + 1

	switch {
	case tz.matchString(p, "begin"):
		p += 5
	case tz.matchString(p, "end"):
		kind = TokEndEnv
		keyword = "end"
		p += 3
	default:
		return nil, nil
	}

	if p < len(tz.src) && isLetter(tz.src[p]) {
		return nil, nil
	}

	fail := func() (*Token, error) {
		rec := tz.makeToken(TokChars, string(tz.src[pos:p]), pre, pos, p)
		return nil, &TokenError{
			Msg:      fmt.Sprintf("bad \\%s: expected {environment name}", keyword),
			Pos:      pos,
			Recovery: rec,
			State:    state,
		}
	}

	for p < len(tz.src) && isWhitespace(tz.src[p]) {
		p++
	}
	if p >= len(tz.src) || tz.src[p] != '{' {
		return fail()
	}
	p++

	nameStart := p
	for p < len(tz.src) && isEnvNameRune(tz.src[p]) {
		p++
	}
	if p == nameStart || p >= len(tz.src) || tz.src[p] != '}' {
		return fail()
	}

	return tz.makeToken(kind, string(tz.src[nameStart:p]), pre, pos, p+1), nil
}

// macroPostSpace measures the whitespace after a named macro. The run stops
// before the first newline of a blank line so the paragraph break stays
// visible to the next read.
func (tz *Tokenizer) macroPostSpace(state *ParsingState, pos int) (string, int) {
	end := pos
	firstNL := -1
	for end < len(tz.src) && isWhitespace(tz.src[end]) {
		if tz.src[end] == '\n' {
			if firstNL >= 0 && state.EnableParagraphs {
				return string(tz.src[pos:firstNL]), firstNL
			}
			if firstNL < 0 {
				firstNL = end
			}
		}
		end++
	}

	return string(tz.src[pos:end]), end
}

// readComment reads from the comment start through the end of the line.
//
// When LaTeX encounters a % character it ignores the rest of the line, the
// line break, and the whitespace at the beginning of the next line, so all
// of that travels as the token's post-space. When a blank line follows the
// comment, the break is left in the buffer instead and becomes a paragraph
// token.
func (tz *Tokenizer) readComment(state *ParsingState, pre string, pos int) *Token {
	bodyStart := pos + runeCount(state.CommentStart)
	end := bodyStart
	for end < len(tz.src) && tz.src[end] != '\n' {
		end++
	}

	tok := tz.makeToken(TokComment, string(tz.src[bodyStart:end]), pre, pos, end)

	if end >= len(tz.src) {
		return tok
	}

	newlines := 0
	runEnd := end
	for runEnd < len(tz.src) && isWhitespace(tz.src[runEnd]) {
		if tz.src[runEnd] == '\n' {
			newlines++
		}
		runEnd++
	}

	if newlines >= 2 && state.EnableParagraphs {
		return tok
	}

	tok.PostSpace = string(tz.src[end:runEnd])
	tok.End = runEnd

	return tok
}

// readChars takes the maximal run of plain characters: everything up to the
// next whitespace or the next position where another token could start
// under the current state.
func (tz *Tokenizer) readChars(state *ParsingState, pre string, pos int) *Token {
	end := pos + 1
	for end < len(tz.src) && !isWhitespace(tz.src[end]) && !tz.tokenStartsAt(state, end) {
		end++
	}

	return tz.makeToken(TokChars, string(tz.src[pos:end]), pre, pos, end)
}

// tokenStartsAt mirrors the dispatch of read: it reports whether anything
// other than a plain character begins at pos.
func (tz *Tokenizer) tokenStartsAt(state *ParsingState, pos int) bool {
	c := tz.src[pos]

	if state.EnableMath && state.mathStartRunes[c] {
		if state.InMathMode && state.MathCloseDelim != "" && tz.matchString(pos, state.MathCloseDelim) {
			return true
		}
		for _, d := range state.mathDelims {
			if tz.matchString(pos, d.Open) || tz.matchString(pos, d.Close) {
				return true
			}
		}
	}

	if state.EnableMacros && c == state.MacroEscape {
		return true
	}
	if state.EnableComments && tz.matchString(pos, state.CommentStart) {
		return true
	}
	if state.EnableGroups {
		if _, ok := tz.matchGroupOpen(state, pos); ok {
			return true
		}
		if _, ok := tz.matchGroupClose(state, pos); ok {
			return true
		}
	}
	if state.EnableSpecials && state.Context != nil && state.Context.SpecialsLongestMatch(tz.src, pos) != nil {
		return true
	}

	return state.isForbidden(c)
}

func (tz *Tokenizer) matchGroupOpen(state *ParsingState, pos int) (string, bool) {
	best := ""
	for _, pair := range state.GroupDelims {
		if runeCount(pair[0]) > runeCount(best) && tz.matchString(pos, pair[0]) {
			best = pair[0]
		}
	}

	return best, best != ""
}

func (tz *Tokenizer) matchGroupClose(state *ParsingState, pos int) (string, bool) {
	best := ""
	for _, pair := range state.GroupDelims {
		if runeCount(pair[1]) > runeCount(best) && tz.matchString(pos, pair[1]) {
			best = pair[1]
		}
	}

	return best, best != ""
}

// peekSpace measures the whitespace run at the current position without
// moving.
func (tz *Tokenizer) peekSpace() (space string, start, end int) {
	start = tz.pos
	end = start
	for end < len(tz.src) && isWhitespace(tz.src[end]) {
		end++
	}

	return string(tz.src[start:end]), start, end
}

// matchString reports whether the source at pos starts with s.
func (tz *Tokenizer) matchString(pos int, s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if pos >= len(tz.src) || tz.src[pos] != r {
			return false
		}
		pos++
	}

	return true
}

func (tz *Tokenizer) makeToken(kind TokenKind, arg, pre string, pos, end int) *Token {
	return &Token{Kind: kind, Arg: arg, Pos: pos, End: end, PreSpace: pre}
}

// paragraphSpecials is the canonical specials string for a paragraph break.
const paragraphSpecials = "\n\n"

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

// isLetter returns true for an ASCII letter, the only characters allowed in
// multi-character macro names.
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\n', '\t', '\r':
		return true
	default:
		return false
	}
}

// isEnvNameRune covers the characters allowed inside {...} of \begin and
// \end tags.
func isEnvNameRune(r rune) bool {
	if isLetter(r) || '0' <= r && r <= '9' {
		return true
	}

	switch r {
	case '*', '.', '_', ' ', ':', '/', '!', '^', '(', ')', '[', ']', '-':
		return true
	default:
		return false
	}
}
