package latextree

// StateDelta describes a parsing state transition as a value. Deltas come
// out of construct specifications and parsers, and are applied through the
// walker so that observer events reach its handler.
type StateDelta interface {
	apply(s *ParsingState, w *Walker) *ParsingState
}

// ReplaceState swaps the whole parsing state.
type ReplaceState struct {
	State *ParsingState
}

func (d ReplaceState) apply(s *ParsingState, w *Walker) *ParsingState {
	if d.State == nil {
		return s
	}

	return d.State
}

// SetAttributes patches individual state attributes.
type SetAttributes struct {
	Options []StateOption
}

func (d SetAttributes) apply(s *ParsingState, w *Walker) *ParsingState {
	if len(d.Options) == 0 {
		return s
	}

	return s.Derive(d.Options...)
}

// EnterMath switches the state into a math region with the given delimiters.
type EnterMath struct {
	Open    string
	Close   string
	Display bool
}

func (d EnterMath) apply(s *ParsingState, w *Walker) *ParsingState {
	return s.Derive(WithMathMode(d.Open, d.Close, d.Display))
}

// LeaveMath leaves the innermost math region.
type LeaveMath struct{}

func (d LeaveMath) apply(s *ParsingState, w *Walker) *ParsingState {
	return s.Derive(WithoutMathMode())
}

// ChainedDelta applies its children in order.
type ChainedDelta struct {
	Deltas []StateDelta
}

func (d ChainedDelta) apply(s *ParsingState, w *Walker) *ParsingState {
	for _, child := range d.Deltas {
		if child == nil {
			continue
		}
		s = child.apply(s, w)
	}

	return s
}

// WalkerEvent does not change parse semantics at all: it notifies the walker
// of something a construct parser discovered, through the handler installed
// with WithEventHandler.
type WalkerEvent struct {
	Name string
	Data any
}

func (d WalkerEvent) apply(s *ParsingState, w *Walker) *ParsingState {
	if w != nil {
		w.emit(d)
	}

	return s
}
