package latextree

import (
	"errors"
	"fmt"
	"strings"
)

// EndOfStream reports that the tokenizer ran out of input. It is a sentinel
// rather than a true failure: list parsers treat it as their natural end.
// FinalSpace holds trailing whitespace found before the end of input.
type EndOfStream struct {
	FinalSpace string
}

func (e *EndOfStream) Error() string {
	return "end of stream"
}

// IsEndOfStream reports whether err is an end-of-stream condition.
func IsEndOfStream(err error) bool {
	var eos *EndOfStream
	return errors.As(err, &eos)
}

// TokenError is a malformed lexical construct: a bad environment name, an
// escape character at the very end of input, a forbidden character.
//
// Recovery describes how a tolerant reader may proceed: it stands in for the
// broken token, and RecoveryPos is where reading should resume.
type TokenError struct {
	Msg         string
	Pos         int
	Recovery    *Token
	RecoveryPos int
	State       *ParsingState
}

func (e *TokenError) Error() string {
	return e.Msg
}

// OpenContext names an enclosing construct that was still unfinished when an
// error occurred, for example "environment {itemize}" begun at Pos.
type OpenContext struct {
	What string
	Pos  int
}

// ParseError is a structural error: a missing opener or closer, a stray
// closing token, an argument that does not match its declared shape.
//
// RecoveryNodes holds whatever was successfully parsed before the failure.
// RecoveryToken, when set, is where a tolerant parser resumes: at the token,
// or just past it if RecoveryPastToken is set.
type ParseError struct {
	Msg          string
	Pos          int
	OpenContexts []OpenContext
	State        *ParsingState

	RecoveryNodes     NodeList
	RecoveryToken     *Token
	RecoveryPastToken bool
	RecoveryState     *ParsingState
}

func (e *ParseError) Error() string {
	return e.Msg
}

// ConstructKind distinguishes the three registries of a context database.
type ConstructKind int

const (
	MacroConstruct ConstructKind = iota
	EnvironmentConstruct
	SpecialsConstruct
)

func (k ConstructKind) String() string {
	switch k {
	case MacroConstruct:
		return "macro"
	case EnvironmentConstruct:
		return "environment"
	case SpecialsConstruct:
		return "specials"
	default:
		return fmt.Sprintf("construct-kind(%d)", int(k))
	}
}

// UnknownConstructError is returned by context database lookups when a name
// resolves to nothing and no fallback specification is configured for that
// construct kind. Whether this aborts a parse depends only on the fallback
// configuration, never on the tolerant flag.
type UnknownConstructError struct {
	Kind ConstructKind
	Name string
	Pos  int
}

func (e *UnknownConstructError) Error() string {
	switch e.Kind {
	case MacroConstruct:
		return fmt.Sprintf("unknown macro \\%s", e.Name)
	case EnvironmentConstruct:
		return fmt.Sprintf("unknown environment {%s}", e.Name)
	default:
		return fmt.Sprintf("unknown specials %q", e.Name)
	}
}

// DepthError reports that markup nesting exceeded the configured limit.
type DepthError struct {
	Pos   int
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("nesting depth limit of %d exceeded", e.Depth)
}

// LocatedError decorates another error with a line and column derived from
// its source offset.
type LocatedError struct {
	Err  error
	Pos  int
	Line int
	Col  int
}

func (e *LocatedError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Col, e.Err)
}

func (e *LocatedError) Unwrap() error {
	return e.Err
}

// errorPos digs the source offset out of any error of this package.
// The second value is false when the error carries no position.
func errorPos(err error) (int, bool) {
	var (
		tokErr *TokenError
		parErr *ParseError
		unkErr *UnknownConstructError
		depErr *DepthError
		locErr *LocatedError
	)

	switch {
	case errors.As(err, &locErr):
		return locErr.Pos, true
	case errors.As(err, &tokErr):
		return tokErr.Pos, true
	case errors.As(err, &parErr):
		return parErr.Pos, true
	case errors.As(err, &unkErr):
		return unkErr.Pos, true
	case errors.As(err, &depErr):
		return depErr.Pos, true
	}

	return 0, false
}

// FormatErrorWithSource renders err for humans, quoting the offending source
// line with a caret under the failing column and listing any constructs that
// were still open.
func FormatErrorWithSource(source string, err error) string {
	pos, ok := errorPos(err)
	if !ok {
		return err.Error()
	}

	src := []rune(source)
	if pos > len(src) {
		pos = len(src)
	}

	idx := newLineIndex(src)
	line, col := idx.locate(pos)

	start := idx[line-1]
	end := len(src)
	if line < len(idx) {
		end = idx[line] - 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "line %d, column %d: %s\n", line, col, baseMessage(err))
	fmt.Fprintf(&b, "  | %s\n", string(src[start:end]))
	fmt.Fprintf(&b, "  | %s^\n", strings.Repeat(" ", col-1))

	var parErr *ParseError
	if errors.As(err, &parErr) && len(parErr.OpenContexts) > 0 {
		b.WriteString("open constructs (innermost first):\n")
		for _, oc := range parErr.OpenContexts {
			l, c := idx.locate(oc.Pos)
			fmt.Fprintf(&b, "  %s started at line %d, column %d\n", oc.What, l, c)
		}
	}

	return b.String()
}

func baseMessage(err error) string {
	var locErr *LocatedError
	if errors.As(err, &locErr) {
		return locErr.Err.Error()
	}

	return err.Error()
}
