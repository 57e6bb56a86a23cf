package latextree

import "errors"

// DefaultMaxDepth caps construct nesting before a parse aborts with a
// DepthError. Deliberately generous; real documents stay far below it.
const DefaultMaxDepth = 500

// Walker drives one parse over one source text. It owns the tolerant-mode
// policy, the nesting guard, the stack of open constructs quoted in error
// reports, and the list of errors recovered from along the way.
type Walker struct {
	source       string
	tz           *Tokenizer
	tolerant     bool
	keepComments bool
	maxDepth     int
	onEvent      func(WalkerEvent)

	open []OpenContext
	errs []error
}

// WalkerOption adjusts a walker at construction time.
type WalkerOption func(*Walker)

// WithTolerant makes the walker recover from recoverable errors, recording
// them and leaving error nodes in the tree instead of aborting. Unknown
// constructs stay fatal either way; register fallback specifications to
// accept them.
func WithTolerant(tolerant bool) WalkerOption {
	return func(w *Walker) {
		w.tolerant = tolerant
	}
}

// WithKeepComments controls whether comments become nodes in the tree.
// They do unless turned off here; either way the tokenizer still reads over
// them.
func WithKeepComments(keep bool) WalkerOption {
	return func(w *Walker) {
		w.keepComments = keep
	}
}

// WithMaxDepth overrides the nesting depth limit. Zero disables the guard.
func WithMaxDepth(depth int) WalkerOption {
	return func(w *Walker) {
		w.maxDepth = depth
	}
}

// WithEventHandler registers a callback for events emitted by state deltas
// during the parse.
func WithEventHandler(fn func(WalkerEvent)) WalkerOption {
	return func(w *Walker) {
		w.onEvent = fn
	}
}

func NewWalker(source string, opts ...WalkerOption) *Walker {
	w := &Walker{
		source:       source,
		tz:           NewTokenizer(source),
		keepComments: true,
		maxDepth:     DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Parse reads sibling nodes from the current position to the end of input.
func (w *Walker) Parse(state *ParsingState) (NodeList, error) {
	p := &GeneralNodesParser{}
	nodes, _, err := p.ParseNodes(w, w.tz, state)
	if err != nil {
		return nodes, w.locate(err)
	}

	return nodes, nil
}

// ParseAt parses a fragment starting at the given rune offset.
func (w *Walker) ParseAt(state *ParsingState, offset int) (NodeList, error) {
	w.tz.MoveTo(offset)
	return w.Parse(state)
}

// ParseWith runs an arbitrary construct parser at the given rune offset,
// for partial re-parses of a construct whose position is already known.
func (w *Walker) ParseWith(p NodesParser, state *ParsingState, offset int) (NodeList, *Carryover, error) {
	w.tz.MoveTo(offset)
	nodes, carry, err := p.ParseNodes(w, w.tz, state)
	if err != nil {
		return nodes, carry, w.locate(err)
	}

	return nodes, carry, nil
}

// ParseSingle reads exactly one node from the current position. At the end
// of input the error satisfies IsEndOfStream.
func (w *Walker) ParseSingle(state *ParsingState) (Node, error) {
	p := &SingleNodeParser{}
	node, _, err := p.ParseNode(w, w.tz, state)
	if err != nil {
		if IsEndOfStream(err) {
			return nil, err
		}
		return nil, w.locate(err)
	}

	return node, nil
}

// Tokenizer exposes the walker's reader, for parsers that need to inspect
// or reposition it.
func (w *Walker) Tokenizer() *Tokenizer {
	return w.tz
}

func (w *Walker) Source() string {
	return w.source
}

func (w *Walker) Tolerant() bool {
	return w.tolerant
}

// LineCol reports the 1-based line and column of a rune offset.
func (w *Walker) LineCol(pos int) (line, col int) {
	return w.tz.LineCol(pos)
}

// Located wraps an error with the line and column of its source offset, if
// it carries one.
func (w *Walker) Located(err error) error {
	return w.locate(err)
}

// Errors lists the recoverable errors collected so far, each located in the
// source. Empty after a clean parse.
func (w *Walker) Errors() []error {
	return w.errs
}

// FormatError renders an error against the walker's source, quoting the
// offending line with a caret.
func (w *Walker) FormatError(err error) string {
	return FormatErrorWithSource(w.source, err)
}

// ApplyDelta produces the parsing state after applying a delta. A nil delta
// leaves the state as it is.
func (w *Walker) ApplyDelta(state *ParsingState, delta StateDelta) *ParsingState {
	if delta == nil {
		return state
	}

	return delta.apply(state, w)
}

// locate wraps an error with the line and column of its source offset.
func (w *Walker) locate(err error) error {
	var lerr *LocatedError
	if errors.As(err, &lerr) {
		return err
	}

	pos, ok := errorPos(err)
	if !ok {
		return err
	}

	line, col := w.tz.LineCol(pos)
	return &LocatedError{Err: err, Pos: pos, Line: line, Col: col}
}

func (w *Walker) recordError(err error) {
	w.errs = append(w.errs, w.locate(err))
}

func (w *Walker) emit(ev WalkerEvent) {
	if w.onEvent != nil {
		w.onEvent(ev)
	}
}

func (w *Walker) checkDepth(pos int) error {
	if w.maxDepth > 0 && len(w.open) >= w.maxDepth {
		return &DepthError{Pos: pos, Depth: w.maxDepth}
	}

	return nil
}

func (w *Walker) pushContext(what string, pos int) {
	w.open = append(w.open, OpenContext{What: what, Pos: pos})
}

func (w *Walker) popContext() {
	if len(w.open) > 0 {
		w.open = w.open[:len(w.open)-1]
	}
}

// openContextList snapshots the open constructs, innermost first.
func (w *Walker) openContextList() []OpenContext {
	if len(w.open) == 0 {
		return nil
	}

	out := make([]OpenContext, len(w.open))
	for i, oc := range w.open {
		out[len(out)-1-i] = oc
	}

	return out
}

// Parse parses a complete document with the standard grammar. Errors abort
// the parse unless WithTolerant is given.
func Parse(source string, opts ...WalkerOption) (NodeList, error) {
	w := NewWalker(source, opts...)
	return w.Parse(NewParsingState(StandardContext()))
}
