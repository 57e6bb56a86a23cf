package latextree

import "fmt"

// MathParser parses an inline or display math region whose opening
// delimiter token has already been read. The body runs in math mode and
// the region closes only at the closing delimiter of the pair that opened
// it; any other math delimiter inside is an error.
type MathParser struct {
	tok *Token
}

func (p *MathParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	delim, ok := state.mathDelimForOpen(p.tok.Arg)
	if !ok {
		return nil, nil, &ParseError{
			Msg:   fmt.Sprintf("unexpected closing math delimiter %q", p.tok.Arg),
			Pos:   p.tok.Pos,
			State: state,
		}
	}

	if err := w.checkDepth(p.tok.Pos); err != nil {
		return nil, nil, err
	}

	kind := "inline math"
	if delim.Display {
		kind = "display math"
	}
	w.pushContext(fmt.Sprintf("%s %q", kind, delim.Open), p.tok.Pos)
	defer w.popContext()

	mathState := state.Derive(WithMathMode(delim.Open, delim.Close, delim.Display))

	body := &GeneralNodesParser{StopCondition: func(tok *Token) bool {
		return tok.IsMath() && tok.Arg == delim.Close
	}}

	contents, carry, err := body.ParseNodes(w, tz, mathState)
	if err != nil {
		return nil, nil, err
	}

	node := &MathNode{
		NodeInfo: NodeInfo{Pos: p.tok.Pos, End: p.tok.End, St: state},
		Display:  delim.Display,
		Open:     delim.Open,
		Contents: contents,
	}
	if len(contents) > 0 {
		node.End = contents.Span().End
	}

	if carry == nil || !carry.StopConditionMet {
		err := &ParseError{
			Msg:          fmt.Sprintf("math region opened with %q is not closed", delim.Open),
			Pos:          p.tok.Pos,
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
	node.Close = delim.Close
	node.End = end.End

	return node, nil, nil
}
