// Package texenc encodes unicode text into markup escape sequences, the
// reverse direction of parsing. An Encoder runs an ordered rule chain over
// the input; runes outside ASCII that no rule covers fall to a configurable
// unknown-character policy.
package texenc

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type unknownMode int

const (
	unknownKeep unknownMode = iota
	unknownReplace
	unknownDrop
	unknownFail
	unknownHex
)

// UnknownPolicy decides what happens to a non-ASCII rune no rule covers.
type UnknownPolicy struct {
	mode        unknownMode
	replacement string
}

// Keep passes uncovered runes through unchanged. This is the default.
func Keep() UnknownPolicy {
	return UnknownPolicy{mode: unknownKeep}
}

// Replace substitutes uncovered runes with the given text.
func Replace(with string) UnknownPolicy {
	return UnknownPolicy{mode: unknownReplace, replacement: with}
}

// Drop removes uncovered runes.
func Drop() UnknownPolicy {
	return UnknownPolicy{mode: unknownDrop}
}

// Fail makes an uncovered rune an encoding error.
func Fail() UnknownPolicy {
	return UnknownPolicy{mode: unknownFail}
}

// Hex encodes uncovered runes as a \x{...} escape of the code point.
func Hex() UnknownPolicy {
	return UnknownPolicy{mode: unknownHex}
}

// ParseUnknownPolicy resolves the policy names used on the command line.
// The replace policy substitutes a question mark.
func ParseUnknownPolicy(name string) (UnknownPolicy, error) {
	switch name {
	case "keep":
		return Keep(), nil
	case "replace":
		return Replace("?"), nil
	case "drop":
		return Drop(), nil
	case "fail":
		return Fail(), nil
	case "hex":
		return Hex(), nil
	default:
		return UnknownPolicy{}, fmt.Errorf("unknown policy %q", name)
	}
}

// ProtectMode controls brace wrapping of replacements, which keeps command
// replacements from fusing with the text that follows them.
type ProtectMode int

const (
	// ProtectNone emits replacements as they stand in the table.
	ProtectNone ProtectMode = iota

	// ProtectBraces wraps replacements that end in a command letter, the
	// ones that would fuse with a following letter.
	ProtectBraces

	// ProtectAll wraps every replacement.
	ProtectAll
)

// ParseProtectMode resolves the protection mode names used on the command
// line.
func ParseProtectMode(name string) (ProtectMode, error) {
	switch name {
	case "none":
		return ProtectNone, nil
	case "braces":
		return ProtectBraces, nil
	case "all":
		return ProtectAll, nil
	default:
		return ProtectNone, fmt.Errorf("unknown protection mode %q", name)
	}
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithRules sets the rule chain, replacing the builtin table.
func WithRules(rules ...Rule) Option {
	return func(e *Encoder) {
		e.rules = rules
	}
}

// WithUnknown sets the policy for non-ASCII runes no rule covers.
func WithUnknown(p UnknownPolicy) Option {
	return func(e *Encoder) {
		e.unknown = p
	}
}

// NonASCIIOnly leaves ASCII input untouched, so text that already carries
// markup keeps it and only unicode gets encoded.
func NonASCIIOnly() Option {
	return func(e *Encoder) {
		e.nonASCIIOnly = true
	}
}

// InMathMode selects the math-mode builtin table: sub- and superscript
// characters stay, symbols encode to their bare commands instead of
// delimited math.
func InMathMode() Option {
	return func(e *Encoder) {
		e.math = true
	}
}

// WithProtect sets the brace protection mode.
func WithProtect(m ProtectMode) Option {
	return func(e *Encoder) {
		e.protect = m
	}
}

// Encoder rewrites text into escape sequences using its rule chain.
type Encoder struct {
	rules        []Rule
	unknown      UnknownPolicy
	nonASCIIOnly bool
	math         bool
	protect      ProtectMode
}

// New builds an encoder. Without WithRules it carries the builtin table,
// the math variant when InMathMode is set.
func New(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}

	if e.rules == nil {
		if e.math {
			e.rules = MathRules()
		} else {
			e.rules = DefaultRules()
		}
	}

	return e
}

// Encode rewrites s, applying the first matching rule at every position.
func (e *Encoder) Encode(s string) (string, error) {
	var b strings.Builder

	pos := 0
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])

		if e.nonASCIIOnly && r < utf8.RuneSelf {
			b.WriteByte(byte(r))
			pos += size
			continue
		}

		if width, ok := e.applyRules(&b, s, pos); ok {
			pos += width
			continue
		}

		if r < utf8.RuneSelf {
			b.WriteByte(byte(r))
			pos += size
			continue
		}

		out, err := e.unknownText(r, pos)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		pos += size
	}

	return b.String(), nil
}

func (e *Encoder) applyRules(b *strings.Builder, s string, pos int) (int, bool) {
	for _, rule := range e.rules {
		out, width, ok := rule.apply(s, pos)
		if !ok {
			continue
		}
		// a zero width match would stall the scan
		if width <= 0 {
			continue
		}

		b.WriteString(e.protected(out))
		return width, true
	}

	return 0, false
}

func (e *Encoder) protected(out string) string {
	switch e.protect {
	case ProtectAll:
		return "{" + out + "}"
	case ProtectBraces:
		if fusesWithText(out) {
			return "{" + out + "}"
		}
	}

	return out
}

// fusesWithText reports whether a replacement ends in a command letter and
// would change meaning when a letter follows it in the output.
func fusesWithText(out string) bool {
	if !strings.HasPrefix(out, `\`) {
		return false
	}

	last, _ := utf8.DecodeLastRuneInString(out)
	return unicode.IsLetter(last)
}

func (e *Encoder) unknownText(r rune, pos int) (string, error) {
	switch e.unknown.mode {
	case unknownReplace:
		return e.unknown.replacement, nil
	case unknownDrop:
		return "", nil
	case unknownHex:
		return fmt.Sprintf("\\x{%X}", r), nil
	case unknownFail:
		return "", fmt.Errorf("no escape for character %q at offset %d", r, pos)
	default:
		return string(r), nil
	}
}
