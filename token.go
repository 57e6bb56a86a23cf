package latextree

import "fmt"

// TokenKind tells the parsers how a token should be interpreted.
type TokenKind int

const (
	TokChars TokenKind = iota
	TokMacro
	TokBeginEnv
	TokEndEnv
	TokComment
	TokGroupOpen
	TokGroupClose
	TokMathInline
	TokMathDisplay
	TokSpecials
)

func (k TokenKind) String() string {
	switch k {
	case TokChars:
		return "chars"
	case TokMacro:
		return "macro"
	case TokBeginEnv:
		return "begin-environment"
	case TokEndEnv:
		return "end-environment"
	case TokComment:
		return "comment"
	case TokGroupOpen:
		return "group-open"
	case TokGroupClose:
		return "group-close"
	case TokMathInline:
		return "math-inline"
	case TokMathDisplay:
		return "math-display"
	case TokSpecials:
		return "specials"
	default:
		return fmt.Sprintf("token-kind(%d)", int(k))
	}
}

// Token is a single lexical unit read from the source.
//
// Arg holds the payload: the text of a chars run, the macro or environment
// name, the comment body, the delimiter of a group or math token, or the
// specials string. Pos and End delimit the token in the source; End includes
// PostSpace while PreSpace sits before Pos.
type Token struct {
	Kind TokenKind
	Arg  string
	Pos  int
	End  int

	// PreSpace is the whitespace skipped before the token.
	PreSpace string

	// PostSpace is whitespace following the token. It is set only on macro
	// and comment tokens and never reaches across a paragraph break.
	PostSpace string

	// Spec is the matched specification on specials tokens.
	Spec *SpecialsSpec
}

func (t *Token) Span() Span {
	return Span{Pos: t.Pos, End: t.End}
}

// IsMath reports whether the token is a math delimiter of either flavor.
func (t *Token) IsMath() bool {
	return t.Kind == TokMathInline || t.Kind == TokMathDisplay
}

func (t *Token) String() string {
	return fmt.Sprintf("%v %q at %d..%d", t.Kind, t.Arg, t.Pos, t.End)
}
