package latextree

import "fmt"

// ArgKind is the shape of a single declared argument.
type ArgKind int

const (
	// ArgMandatory takes a braced group, or failing that a single token.
	ArgMandatory ArgKind = iota

	// ArgOptional takes a bracketed group if one follows, otherwise nothing.
	ArgOptional

	// ArgStar takes a literal star if one follows.
	ArgStar

	// ArgToken takes one specific character if it follows, as in the
	// optional star-like modifiers of some constructs.
	ArgToken

	// ArgDelimited takes content enclosed in the declared delimiter pair.
	ArgDelimited

	// ArgOptDelimited is ArgDelimited, but absent when the opener is missing.
	ArgOptDelimited

	// ArgVerbatim takes delimiter-bracketed literal content, the delimiter
	// being the first character found.
	ArgVerbatim
)

func (k ArgKind) String() string {
	switch k {
	case ArgMandatory:
		return "mandatory"
	case ArgOptional:
		return "optional"
	case ArgStar:
		return "star"
	case ArgToken:
		return "token"
	case ArgDelimited:
		return "delimited"
	case ArgOptDelimited:
		return "optional-delimited"
	case ArgVerbatim:
		return "verbatim"
	default:
		return fmt.Sprintf("arg-kind(%d)", int(k))
	}
}

// ArgSpec declares one argument of a macro, environment or specials
// construct. Open and Close carry the delimiters of delimited kinds; Open
// alone carries the character of ArgToken. Name optionally makes the parsed
// value addressable by name.
type ArgSpec struct {
	Kind  ArgKind
	Open  string
	Close string
	Name  string
}

// ParseArgSpec reads the compact argument shape notation: each argument is
// one of '{' or 'm' (mandatory group), '[' or 'o' (optional group), '*' or
// 's' (optional star), 't' plus the token character, 'r' plus an opening and
// closing delimiter, 'd' plus the same for an optional delimited argument,
// or 'v' (verbatim). Spaces between arguments are ignored.
//
// For example "*{[[{" declares a star, a mandatory group, two optional
// groups and a final mandatory group.
func ParseArgSpec(spec string) ([]ArgSpec, error) {
	var args []ArgSpec

	runes := []rune(spec)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case ' ':
			continue
		case '{', 'm':
			args = append(args, ArgSpec{Kind: ArgMandatory})
		case '[', 'o':
			args = append(args, ArgSpec{Kind: ArgOptional, Open: "[", Close: "]"})
		case '*', 's':
			args = append(args, ArgSpec{Kind: ArgStar})
		case 't':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("argument shape %q: 't' needs a token character", spec)
			}
			args = append(args, ArgSpec{Kind: ArgToken, Open: string(runes[i+1])})
			i++
		case 'r', 'd':
			if i+2 >= len(runes) {
				return nil, fmt.Errorf("argument shape %q: %q needs two delimiter characters", spec, runes[i])
			}
			kind := ArgDelimited
			if runes[i] == 'd' {
				kind = ArgOptDelimited
			}
			args = append(args, ArgSpec{Kind: kind, Open: string(runes[i+1]), Close: string(runes[i+2])})
			i += 2
		case 'v':
			args = append(args, ArgSpec{Kind: ArgVerbatim})
		default:
			return nil, fmt.Errorf("argument shape %q: unknown argument letter %q", spec, runes[i])
		}
	}

	return args, nil
}

// MustArgSpec is ParseArgSpec for known-good literals; it panics on error.
func MustArgSpec(spec string) []ArgSpec {
	args, err := ParseArgSpec(spec)
	if err != nil {
		panic(err)
	}

	return args
}

// ParsedArguments holds the argument values matched against a declared
// shape, in declared order. Absent optional arguments stay as nil entries,
// so indexes always line up with the shape.
type ParsedArguments struct {
	Spec []ArgSpec
	Args []Node
	Pos  int
	End  int
}

func (a *ParsedArguments) Len() int {
	if a == nil {
		return 0
	}

	return len(a.Args)
}

// Get returns the i-th argument value, nil when absent or out of range.
func (a *ParsedArguments) Get(i int) Node {
	if a == nil || i < 0 || i >= len(a.Args) {
		return nil
	}

	return a.Args[i]
}

// Present reports whether the i-th argument was given.
func (a *ParsedArguments) Present(i int) bool {
	return a.Get(i) != nil
}

// Named returns the argument declared under the given name, nil when the
// shape has no such argument or it was absent.
func (a *ParsedArguments) Named(name string) Node {
	if a == nil || name == "" {
		return nil
	}

	for i, as := range a.Spec {
		if as.Name == name {
			return a.Get(i)
		}
	}

	return nil
}

func (a *ParsedArguments) Span() Span {
	if a == nil {
		return Span{}
	}

	return Span{Pos: a.Pos, End: a.End}
}
