package latextree

import (
	"errors"
	"fmt"
)

// collector is the engine behind the nodes parsers. It reads tokens one at
// a time, folds character runs and stray whitespace into chars nodes,
// dispatches construct tokens to their parsers and applies the state deltas
// they hand back, so later siblings see the updated state.
type collector struct {
	stop   func(*Token) bool
	single bool

	nodes      NodeList
	pending    []rune
	pendingPos int
	pendingEnd int
}

func (c *collector) collect(w *Walker, tz *Tokenizer, state *ParsingState) (NodeList, *Carryover, error) {
	for {
		tok, err := tz.NextToken(state)
		if err != nil {
			var eos *EndOfStream
			if errors.As(err, &eos) {
				c.pushFinalSpace(tz, eos.FinalSpace)
				c.flush(state)
				return c.nodes, &Carryover{State: state}, nil
			}

			var terr *TokenError
			if errors.As(err, &terr) && w.Tolerant() && terr.Recovery != nil {
				// keep the offending text as plain characters and move on
				w.recordError(terr)
				rec := terr.Recovery
				c.pushPreSpace(rec)
				c.pushCharsArg(rec)
				tz.MoveTo(rec.End)
				if c.single {
					c.flush(state)
					return c.nodes, &Carryover{State: state}, nil
				}
				continue
			}

			return nil, nil, err
		}

		// the stop token's pre-space still belongs to this scope
		c.pushPreSpace(tok)

		if c.stop != nil && c.stop(tok) {
			c.flush(state)
			return c.nodes, &Carryover{State: state, StopToken: tok, StopConditionMet: true}, nil
		}

		if tok.Kind == TokChars {
			c.pushCharsArg(tok)
			if c.single {
				c.flush(state)
				return c.nodes, &Carryover{State: state}, nil
			}
			continue
		}

		c.flush(state)

		next, err := c.handle(w, tz, state, tok)
		if err != nil {
			return nil, nil, err
		}
		state = next

		if c.single && len(c.nodes) > 0 {
			return c.nodes, &Carryover{State: state}, nil
		}
	}
}

func (c *collector) handle(w *Walker, tz *Tokenizer, state *ParsingState, tok *Token) (*ParsingState, error) {
	switch tok.Kind {
	case TokComment:
		// the comment's pre-space was already folded into the chars run, so
		// dropping it loses only the comment text itself
		if w.keepComments {
			c.append(&CommentNode{
				NodeInfo:  NodeInfo{Pos: tok.Pos, End: tok.End, St: state},
				Text:      tok.Arg,
				PostSpace: tok.PostSpace,
			})
		}
		return state, nil

	case TokMacro:
		spec, err := macroSpecFor(state, tok)
		if err != nil {
			return state, err
		}
		return c.parseChild(w, tz, state, spec.parser(tok), tok)

	case TokBeginEnv:
		spec, err := environmentSpecFor(state, tok)
		if err != nil {
			return state, err
		}
		return c.parseChild(w, tz, state, spec.parser(tok), tok)

	case TokEndEnv:
		return state, c.illegal(w, state, tok, fmt.Sprintf("unexpected \\end{%s}", tok.Arg))

	case TokGroupOpen:
		return c.parseChild(w, tz, state, &DelimitedGroupParser{tok: tok}, tok)

	case TokGroupClose:
		return state, c.illegal(w, state, tok, fmt.Sprintf("unexpected closing delimiter %q", tok.Arg))

	case TokSpecials:
		if tok.Spec == nil {
			return state, c.illegal(w, state, tok, fmt.Sprintf("specials %q without a specification", tok.Arg))
		}
		return c.parseChild(w, tz, state, tok.Spec.parser(tok), tok)

	case TokMathInline, TokMathDisplay:
		if state.InMathMode {
			return state, c.illegal(w, state, tok, fmt.Sprintf("unexpected math delimiter %q inside math mode", tok.Arg))
		}
		if _, ok := state.mathDelimForOpen(tok.Arg); !ok {
			return state, c.illegal(w, state, tok, fmt.Sprintf("unexpected closing math delimiter %q", tok.Arg))
		}
		return c.parseChild(w, tz, state, &MathParser{tok: tok}, tok)

	default:
		return state, c.illegal(w, state, tok, fmt.Sprintf("unexpected %v token", tok.Kind))
	}
}

// parseChild runs one construct parser. In tolerant mode a failed construct
// degrades to an error node spanning at least the construct's token, and
// the read position is pushed forward so the loop cannot stall.
func (c *collector) parseChild(w *Walker, tz *Tokenizer, state *ParsingState, p NodeParser, tok *Token) (*ParsingState, error) {
	node, carry, err := p.ParseNode(w, tz, state)
	if err != nil {
		if !w.Tolerant() || isFatal(err) {
			return state, err
		}

		w.recordError(err)
		end := tz.Pos()
		if end < tok.End {
			end = tok.End
			tz.MoveTo(end)
		}
		c.append(&ErrorNode{
			NodeInfo: NodeInfo{Pos: tok.Pos, End: end, St: state},
			Msg:      baseMessage(err),
		})

		return state, nil
	}

	if node != nil {
		c.append(node)
	}
	if carry != nil && carry.Delta != nil {
		state = w.ApplyDelta(state, carry.Delta)
	}

	return state, nil
}

func (c *collector) illegal(w *Walker, state *ParsingState, tok *Token, msg string) error {
	err := &ParseError{Msg: msg, Pos: tok.Pos, OpenContexts: w.openContextList(), State: state}
	if !w.Tolerant() {
		return err
	}

	w.recordError(err)
	c.append(&ErrorNode{
		NodeInfo: NodeInfo{Pos: tok.Pos, End: tok.End, St: state},
		Msg:      msg,
	})

	return nil
}

func (c *collector) pushPreSpace(tok *Token) {
	if tok.PreSpace == "" {
		return
	}
	if len(c.pending) == 0 {
		c.pendingPos = tok.Pos - runeCount(tok.PreSpace)
	}
	c.pending = append(c.pending, []rune(tok.PreSpace)...)
	c.pendingEnd = tok.Pos
}

func (c *collector) pushCharsArg(tok *Token) {
	if len(c.pending) == 0 {
		c.pendingPos = tok.Pos
	}
	c.pending = append(c.pending, []rune(tok.Arg)...)
	c.pendingEnd = tok.End
}

func (c *collector) pushFinalSpace(tz *Tokenizer, space string) {
	if space == "" {
		return
	}
	end := len(tz.src)
	if len(c.pending) == 0 {
		c.pendingPos = end - runeCount(space)
	}
	c.pending = append(c.pending, []rune(space)...)
	c.pendingEnd = end
}

func (c *collector) flush(state *ParsingState) {
	if len(c.pending) == 0 {
		return
	}

	c.append(&CharsNode{
		NodeInfo: NodeInfo{Pos: c.pendingPos, End: c.pendingEnd, St: state},
		Text:     string(c.pending),
	})
	c.pending = c.pending[:0]
}

func (c *collector) append(n Node) {
	c.nodes = append(c.nodes, n)
}

func macroSpecFor(state *ParsingState, tok *Token) (*MacroSpec, error) {
	if state.Context == nil {
		return nil, &UnknownConstructError{Kind: MacroConstruct, Name: tok.Arg, Pos: tok.Pos}
	}

	spec, err := state.Context.GetMacroSpec(tok.Arg)
	if err != nil {
		return nil, atTokenPos(err, tok)
	}

	return spec, nil
}

func environmentSpecFor(state *ParsingState, tok *Token) (*EnvironmentSpec, error) {
	if state.Context == nil {
		return nil, &UnknownConstructError{Kind: EnvironmentConstruct, Name: tok.Arg, Pos: tok.Pos}
	}

	spec, err := state.Context.GetEnvironmentSpec(tok.Arg)
	if err != nil {
		return nil, atTokenPos(err, tok)
	}

	return spec, nil
}

// atTokenPos pins an unknown-construct error to the token that raised it.
func atTokenPos(err error, tok *Token) error {
	var uerr *UnknownConstructError
	if errors.As(err, &uerr) {
		e := *uerr
		e.Pos = tok.Pos
		return &e
	}

	return err
}

// isFatal reports errors tolerant mode must not swallow: unknown constructs
// without a fallback and runaway nesting.
func isFatal(err error) bool {
	var uerr *UnknownConstructError
	if errors.As(err, &uerr) {
		return true
	}

	var derr *DepthError
	return errors.As(err, &derr)
}
