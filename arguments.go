package latextree

import "fmt"

// parseArguments reads the argument run declared by a construct
// specification. Absent optional arguments leave nil entries, so argument
// indexes always line up with the specification.
func parseArguments(w *Walker, tz *Tokenizer, state *ParsingState, specs []ArgSpec) (*ParsedArguments, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	parsed := &ParsedArguments{Spec: specs, Args: make([]Node, len(specs))}

	for i, spec := range specs {
		node, err := parseArgument(w, tz, state, spec)
		if err != nil {
			if w.Tolerant() {
				w.recordError(err)
				break
			}
			return nil, err
		}
		parsed.Args[i] = node
	}

	first := true
	for _, n := range parsed.Args {
		if n == nil {
			continue
		}
		sp := n.Span()
		if first {
			parsed.Pos = sp.Pos
			first = false
		}
		parsed.End = sp.End
	}

	return parsed, nil
}

func parseArgument(w *Walker, tz *Tokenizer, state *ParsingState, spec ArgSpec) (Node, error) {
	switch spec.Kind {
	case ArgStar:
		return parseLiteralToken(tz, state, "*")
	case ArgToken:
		return parseLiteralToken(tz, state, spec.Open)
	case ArgMandatory:
		node, _, err := (&ExpressionParser{}).ParseNode(w, tz, state)
		return node, err
	case ArgOptional, ArgOptDelimited:
		return parseDelimitedArg(w, tz, state, spec.Open, spec.Close, false)
	case ArgDelimited:
		return parseDelimitedArg(w, tz, state, spec.Open, spec.Close, true)
	case ArgVerbatim:
		return parseVerbatimArg(w, tz, state)
	default:
		return nil, fmt.Errorf("unsupported argument kind %v", spec.Kind)
	}
}

// parseLiteralToken reads an optional literal like the star of \section*.
// An absent literal leaves a nil argument and the position untouched.
func parseLiteralToken(tz *Tokenizer, state *ParsingState, lit string) (Node, error) {
	if lit == "" {
		return nil, nil
	}

	save := tz.Pos()
	tz.SkipSpace()
	pos := tz.Pos()
	if !tz.matchString(pos, lit) {
		tz.MoveTo(save)
		return nil, nil
	}

	end := pos + runeCount(lit)
	tz.MoveTo(end)

	return &CharsNode{
		NodeInfo: NodeInfo{Pos: pos, End: end, St: state},
		Text:     lit,
	}, nil
}

// parseDelimitedArg reads a bracketed argument. The delimiter pair becomes
// a temporary group pair in a derived state, so nesting works even for
// pairs that are not groups otherwise, like [ and ].
func parseDelimitedArg(w *Walker, tz *Tokenizer, state *ParsingState, open, closer string, required bool) (Node, error) {
	argState := state
	if !argState.isGroupOpen(open) {
		argState = state.Derive(WithExtraGroupDelims([2]string{open, closer}))
	}

	tok, err := tz.PeekToken(argState)
	present := err == nil && tok.Kind == TokGroupOpen && tok.Arg == open
	if !present {
		if !required {
			return nil, nil
		}
		if err != nil && !IsEndOfStream(err) {
			return nil, err
		}
		return nil, &ParseError{
			Msg:          fmt.Sprintf("expected an argument delimited by %q and %q", open, closer),
			Pos:          tz.Pos(),
			OpenContexts: w.openContextList(),
			State:        state,
		}
	}

	tz.MovePastToken(tok)
	p := &DelimitedGroupParser{tok: tok}
	node, _, err := p.ParseNode(w, tz, argState)

	return node, err
}
