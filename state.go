package latextree

import "sort"

// ParsingState is an immutable snapshot of the lexical context a token is
// read in: which grammar is active, whether we are inside math mode, which
// delimiters and features are recognized. States are never mutated in place;
// Derive produces adjusted copies, so sibling parses can keep using the old
// state.
type ParsingState struct {
	// Context is the grammar registry used to resolve macro, environment
	// and specials names. It freezes when first attached to a state.
	Context *ContextDb

	MacroEscape  rune
	CommentStart string

	// GroupDelims lists recognized delimiter pairs for plain groups.
	GroupDelims [][2]string

	// InlineMathDelims and DisplayMathDelims list opening/closing pairs
	// that toggle math mode.
	InlineMathDelims  [][2]string
	DisplayMathDelims [][2]string

	// InMathMode is set while parsing the interior of a math region.
	// MathOpenDelim and MathCloseDelim are the delimiters of the innermost
	// open region; they stay empty for math environments, which are closed
	// by their end marker instead of a delimiter.
	InMathMode     bool
	MathOpenDelim  string
	MathCloseDelim string
	MathDisplay    bool

	EnableMacros       bool
	EnableEnvironments bool
	EnableComments     bool
	EnableGroups       bool
	EnableMath         bool
	EnableSpecials     bool
	EnableParagraphs   bool

	ForbiddenChars []rune

	// lexical caches derived from the delimiter lists
	mathDelims     []mathDelim
	mathStartRunes map[rune]bool
}

type mathDelim struct {
	Open    string
	Close   string
	Display bool
}

// NewParsingState returns a state with the usual lexical setup: backslash
// escape, percent comments, braces for groups, dollar and backslash-bracket
// math delimiters, everything enabled. The database freezes on attachment.
func NewParsingState(db *ContextDb, opts ...StateOption) *ParsingState {
	if db != nil {
		db.freeze()
	}

	s := &ParsingState{
		Context:            db,
		MacroEscape:        '\\',
		CommentStart:       "%",
		GroupDelims:        [][2]string{{"{", "}"}},
		InlineMathDelims:   [][2]string{{"$", "$"}, {`\(`, `\)`}},
		DisplayMathDelims:  [][2]string{{"$$", "$$"}, {`\[`, `\]`}},
		EnableMacros:       true,
		EnableEnvironments: true,
		EnableComments:     true,
		EnableGroups:       true,
		EnableMath:         true,
		EnableSpecials:     true,
		EnableParagraphs:   true,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.refresh()
	return s
}

// StateOption adjusts a single aspect of a derived parsing state.
type StateOption func(*ParsingState)

// Derive returns a copy of the state with the given adjustments applied.
func (s *ParsingState) Derive(opts ...StateOption) *ParsingState {
	c := *s
	for _, opt := range opts {
		opt(&c)
	}

	c.refresh()
	return &c
}

// WithContext swaps the grammar registry; the new database freezes.
func WithContext(db *ContextDb) StateOption {
	return func(s *ParsingState) {
		if db != nil {
			db.freeze()
		}
		s.Context = db
	}
}

// WithMathMode marks the state as inside a math region delimited by the
// given pair. Empty delimiters describe a math environment body.
func WithMathMode(open, close string, display bool) StateOption {
	return func(s *ParsingState) {
		s.InMathMode = true
		s.MathOpenDelim = open
		s.MathCloseDelim = close
		s.MathDisplay = display
	}
}

// WithoutMathMode leaves any open math region.
func WithoutMathMode() StateOption {
	return func(s *ParsingState) {
		s.InMathMode = false
		s.MathOpenDelim = ""
		s.MathCloseDelim = ""
		s.MathDisplay = false
	}
}

func WithComments(enabled bool) StateOption {
	return func(s *ParsingState) {
		s.EnableComments = enabled
	}
}

func WithoutParagraphs() StateOption {
	return func(s *ParsingState) {
		s.EnableParagraphs = false
	}
}

// WithExtraGroupDelims adds delimiter pairs recognized as plain groups, on
// top of the ones already active. The receiver's slice is not touched.
func WithExtraGroupDelims(pairs ...[2]string) StateOption {
	return func(s *ParsingState) {
		delims := make([][2]string, 0, len(s.GroupDelims)+len(pairs))
		delims = append(delims, s.GroupDelims...)
		delims = append(delims, pairs...)
		s.GroupDelims = delims
	}
}

// WithCharsOnly disables every construct except groups, so that the interior
// of a literal argument reads as plain characters.
func WithCharsOnly() StateOption {
	return func(s *ParsingState) {
		s.EnableMacros = false
		s.EnableEnvironments = false
		s.EnableComments = false
		s.EnableMath = false
		s.EnableSpecials = false
		s.EnableParagraphs = false
	}
}

func WithForbiddenChars(chars string) StateOption {
	return func(s *ParsingState) {
		s.ForbiddenChars = []rune(chars)
	}
}

// refresh rebuilds the lexical caches after the delimiter lists changed.
func (s *ParsingState) refresh() {
	delims := make([]mathDelim, 0, len(s.InlineMathDelims)+len(s.DisplayMathDelims))
	for _, d := range s.InlineMathDelims {
		delims = append(delims, mathDelim{Open: d[0], Close: d[1]})
	}
	for _, d := range s.DisplayMathDelims {
		delims = append(delims, mathDelim{Open: d[0], Close: d[1], Display: true})
	}

	// longest opener first, so that a doubled delimiter wins over a single one
	sort.SliceStable(delims, func(i, j int) bool {
		return len(delims[i].Open) > len(delims[j].Open)
	})

	starts := make(map[rune]bool, len(delims))
	for _, d := range delims {
		for _, r := range d.Open {
			starts[r] = true
			break
		}
		for _, r := range d.Close {
			starts[r] = true
			break
		}
	}

	s.mathDelims = delims
	s.mathStartRunes = starts
}

// mathDelimForOpen reports the delimiter pair opened by the given text.
func (s *ParsingState) mathDelimForOpen(open string) (mathDelim, bool) {
	for _, d := range s.mathDelims {
		if d.Open == open {
			return d, true
		}
	}

	return mathDelim{}, false
}

// groupCloser returns the closing delimiter matching an open delimiter.
func (s *ParsingState) groupCloser(open string) (string, bool) {
	for _, d := range s.GroupDelims {
		if d[0] == open {
			return d[1], true
		}
	}

	return "", false
}

func (s *ParsingState) isGroupOpen(text string) bool {
	for _, d := range s.GroupDelims {
		if d[0] == text {
			return true
		}
	}

	return false
}

func (s *ParsingState) isGroupClose(text string) bool {
	for _, d := range s.GroupDelims {
		if d[1] == text {
			return true
		}
	}

	return false
}

func (s *ParsingState) isForbidden(r rune) bool {
	for _, f := range s.ForbiddenChars {
		if f == r {
			return true
		}
	}

	return false
}
