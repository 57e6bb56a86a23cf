package latextree

import (
	"fmt"
	"strings"
)

// DelimitedGroupParser parses a group. The matching closer comes from the
// delimiter table of the active state, so the same parser serves braces,
// bracketed optional arguments and any extra pairs a construct declares.
// The engine hands it the already-read opening token; used standalone it
// reads the opener itself, requiring Open when one is set and any
// registered group opener otherwise.
type DelimitedGroupParser struct {
	Open string

	tok *Token
}

func (p *DelimitedGroupParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	tok := p.tok
	if tok == nil {
		next, err := readGroupOpener(w, tz, state, p.Open)
		if err != nil {
			return nil, nil, err
		}
		tok = next
	}

	open := tok.Arg
	closer, ok := state.groupCloser(open)
	if !ok {
		return nil, nil, &ParseError{
			Msg:   fmt.Sprintf("no closing delimiter registered for %q", open),
			Pos:   tok.Pos,
			State: state,
		}
	}

	if err := w.checkDepth(tok.Pos); err != nil {
		return nil, nil, err
	}
	w.pushContext(fmt.Sprintf("group %q", open), tok.Pos)
	defer w.popContext()

	body := &GeneralNodesParser{StopCondition: func(tok *Token) bool {
		return tok.Kind == TokGroupClose && tok.Arg == closer
	}}

	contents, carry, err := body.ParseNodes(w, tz, state)
	if err != nil {
		return nil, nil, err
	}

	node := &GroupNode{
		NodeInfo: NodeInfo{Pos: tok.Pos, End: tok.End, St: state},
		Open:     open,
		Contents: contents,
	}
	if len(contents) > 0 {
		node.End = contents.Span().End
	}

	if carry == nil || !carry.StopConditionMet {
		err := &ParseError{
			Msg:          fmt.Sprintf("expected %q to close the group opened with %q", closer, open),
			Pos:          tok.Pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
		if !w.Tolerant() {
			return nil, nil, err
		}
		w.recordError(err)
		node.Incomplete = true
		return node, nil, nil
	}

	end := carry.StopToken
	tz.MovePastToken(end)
	node.Close = closer
	node.End = end.End

	return node, nil, nil
}

// readGroupOpener reads the next token and requires it to open a group,
// leaving the reader untouched when it does not.
func readGroupOpener(w *Walker, tz *Tokenizer, state *ParsingState, want string) (*Token, error) {
	expected := "a group opening delimiter"
	if want != "" {
		expected = fmt.Sprintf("%q", want)
	}

	tok, err := tz.NextToken(state)
	if err != nil {
		if IsEndOfStream(err) {
			return nil, &ParseError{
				Msg:          fmt.Sprintf("expected %s", expected),
				Pos:          tz.Pos(),
				OpenContexts: w.openContextList(),
				State:        state,
			}
		}
		return nil, err
	}

	if tok.Kind != TokGroupOpen || (want != "" && tok.Arg != want) {
		tz.MoveToToken(tok)
		return nil, &ParseError{
			Msg:          fmt.Sprintf("expected %s", expected),
			Pos:          tok.Pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
	}

	return tok, nil
}

// ExpressionParser parses one expression the way mandatory arguments are
// read: a delimited group counts whole, anything else counts as a single
// token. Comments in between are read over.
type ExpressionParser struct{}

func (p *ExpressionParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	for {
		tok, err := tz.NextToken(state)
		if err != nil {
			if IsEndOfStream(err) {
				return nil, nil, &ParseError{
					Msg:          "missing mandatory argument",
					Pos:          tz.Pos(),
					OpenContexts: w.openContextList(),
					State:        state,
				}
			}
			return nil, nil, err
		}

		switch tok.Kind {
		case TokComment:
			continue

		case TokGroupOpen:
			g := &DelimitedGroupParser{tok: tok}
			return g.ParseNode(w, tz, state)

		case TokChars:
			if strings.Contains(tok.Arg, "\n") {
				return nil, nil, &ParseError{
					Msg:          "paragraph break instead of a mandatory argument",
					Pos:          tok.Pos,
					OpenContexts: w.openContextList(),
					State:        state,
				}
			}
			// one character only, the rest of the run stays unread
			first := []rune(tok.Arg)[0]
			end := tok.Pos + 1
			tz.MoveTo(end)
			return &CharsNode{
				NodeInfo: NodeInfo{Pos: tok.Pos, End: end, St: state},
				Text:     string(first),
			}, nil, nil

		case TokSpecials:
			// a paragraph break arrives as specials when its sequence is
			// registered
			if strings.Contains(tok.Arg, "\n") {
				return nil, nil, &ParseError{
					Msg:          "paragraph break instead of a mandatory argument",
					Pos:          tok.Pos,
					OpenContexts: w.openContextList(),
					State:        state,
				}
			}
			text := tok.Arg
			if tok.Spec != nil {
				text = tok.Spec.Text
			}
			return &SpecialsNode{
				NodeInfo: NodeInfo{Pos: tok.Pos, End: tok.End, St: state},
				Text:     text,
			}, nil, nil

		case TokMacro:
			return &MacroNode{
				NodeInfo:  NodeInfo{Pos: tok.Pos, End: tok.End, St: state},
				Name:      tok.Arg,
				PostSpace: tok.PostSpace,
			}, nil, nil

		default:
			return nil, nil, &ParseError{
				Msg:          fmt.Sprintf("cannot use a %v token as a mandatory argument", tok.Kind),
				Pos:          tok.Pos,
				OpenContexts: w.openContextList(),
				State:        state,
			}
		}
	}
}
