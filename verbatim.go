package latextree

import "fmt"

// verbatimPairs are the delimiter pairs that nest inside a verbatim
// argument. Any other delimiter closes at its next occurrence.
var verbatimPairs = map[rune]rune{
	'{': '}',
	'[': ']',
	'<': '>',
	'(': ')',
}

// parseVerbatimArg reads the delimiter-bracketed raw argument of verbatim
// macros like \verb. Nothing between the delimiters is tokenized, so escape
// characters, braces and comment starts go through untouched, and anything
// after the closing delimiter is left unread.
func parseVerbatimArg(w *Walker, tz *Tokenizer, state *ParsingState) (Node, error) {
	pos := tz.Pos()
	if tz.AtEnd() {
		return nil, &ParseError{
			Msg:          "expected a verbatim delimiter",
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
	}

	open := tz.src[pos]
	if isWhitespace(open) || isLetter(open) || open == '*' {
		return nil, &ParseError{
			Msg:          fmt.Sprintf("delimiter character %q is not allowed", open),
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
	}

	closer, paired := verbatimPairs[open]
	if !paired {
		closer = open
	}

	depth := 0
	end := -1
	for i := pos + 1; i < len(tz.src); i++ {
		r := tz.src[i]
		if paired && r == open {
			depth++
			continue
		}
		if r == closer {
			if depth == 0 {
				end = i
				break
			}
			depth--
		}
	}

	verbState := state.Derive(WithCharsOnly())

	if end < 0 {
		err := &ParseError{
			Msg:          fmt.Sprintf("verbatim argument opened with %q is not closed", open),
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
		if !w.Tolerant() {
			return nil, err
		}
		w.recordError(err)

		end = len(tz.src)
		tz.MoveTo(end)
		return &GroupNode{
			NodeInfo: NodeInfo{Pos: pos, End: end, St: state},
			Open:     string(open),
			Contents: NodeList{&CharsNode{
				NodeInfo: NodeInfo{Pos: pos + 1, End: end, St: verbState},
				Text:     string(tz.src[pos+1 : end]),
			}},
			Incomplete: true,
		}, nil
	}

	tz.MoveTo(end + 1)

	return &GroupNode{
		NodeInfo: NodeInfo{Pos: pos, End: end + 1, St: state},
		Open:     string(open),
		Close:    string(closer),
		Contents: NodeList{&CharsNode{
			NodeInfo: NodeInfo{Pos: pos + 1, End: end, St: verbState},
			Text:     string(tz.src[pos+1 : end]),
		}},
	}, nil
}

// ReadVerbatimEnvironmentBody reads raw text from the current position up
// to the \end tag of the named environment, without tokenizing it. On
// success the read position lands just past the end tag and the returned
// token describes the tag. When the tag never comes, everything to the end
// of input is handed back along with the error.
func (tz *Tokenizer) ReadVerbatimEnvironmentBody(name string, state *ParsingState) (string, Span, *Token, error) {
	marker := []rune(string(state.MacroEscape) + "end{" + name + "}")
	start := tz.pos

	// todo: an escaped \end{name} inside the body still terminates it
	for i := start; i+len(marker) <= len(tz.src); i++ {
		if !runesHavePrefix(tz.src, i, marker) {
			continue
		}

		body := string(tz.src[start:i])
		endTok := &Token{Kind: TokEndEnv, Arg: name, Pos: i, End: i + len(marker)}
		tz.MoveTo(endTok.End)

		return body, Span{Pos: start, End: i}, endTok, nil
	}

	body := string(tz.src[start:])
	tz.MoveTo(len(tz.src))

	return body, Span{Pos: start, End: len(tz.src)}, nil, &ParseError{
		Msg:   fmt.Sprintf("verbatim environment {%s} is not closed", name),
		Pos:   start,
		State: state,
	}
}
