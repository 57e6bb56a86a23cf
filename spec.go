package latextree

import "fmt"

// MacroSpec describes how calls of one macro are parsed: the shape of the
// arguments that follow the call and an optional state delta taking effect
// after it. MakeParser, when set, replaces the standard call parser.
type MacroSpec struct {
	Name       string
	Args       []ArgSpec
	Delta      StateDelta
	MakeParser func(spec *MacroSpec, tok *Token) NodeParser
}

// EnvironmentSpec describes a \begin{...}...\end{...} environment: argument
// shape after \begin{name}, whether the body switches to math mode and in
// which flavor, whether the body is read verbatim, and extra categories
// visible inside the body.
type EnvironmentSpec struct {
	Name           string
	Args           []ArgSpec
	IsMathMode     bool
	MathDisplay    bool
	Verbatim       bool
	BodyCategories []Category
	Delta          StateDelta
	MakeParser     func(spec *EnvironmentSpec, tok *Token) NodeParser
}

// SpecialsSpec describes a plain-character sequence with special meaning,
// say ~ or && or a ligature. The tokenizer matches registered sequences
// before emitting character tokens.
type SpecialsSpec struct {
	Text       string
	Args       []ArgSpec
	Delta      StateDelta
	MakeParser func(spec *SpecialsSpec, tok *Token) NodeParser

	textRunes []rune
}

func (spec *MacroSpec) parser(tok *Token) NodeParser {
	if spec.MakeParser != nil {
		return spec.MakeParser(spec, tok)
	}

	return &macroCallParser{spec: spec, tok: tok}
}

func (spec *EnvironmentSpec) parser(tok *Token) NodeParser {
	if spec.MakeParser != nil {
		return spec.MakeParser(spec, tok)
	}

	return &environmentCallParser{spec: spec, tok: tok}
}

func (spec *SpecialsSpec) parser(tok *Token) NodeParser {
	if spec.MakeParser != nil {
		return spec.MakeParser(spec, tok)
	}

	return &specialsCallParser{spec: spec, tok: tok}
}

// macroCallParser parses the arguments following an already read macro
// token and assembles the macro node.
type macroCallParser struct {
	spec *MacroSpec
	tok  *Token
}

func (p *macroCallParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	args, err := parseArguments(w, tz, state, p.spec.Args)
	if err != nil {
		return nil, nil, err
	}

	end := p.tok.End
	if args != nil && args.End > end {
		end = args.End
	}

	node := &MacroNode{
		NodeInfo:  NodeInfo{Pos: p.tok.Pos, End: end, St: state},
		Name:      p.tok.Arg,
		PostSpace: p.tok.PostSpace,
		Args:      args,
	}

	return node, &Carryover{Delta: p.spec.Delta}, nil
}

// environmentCallParser parses arguments and body of an environment whose
// \begin token has already been read. The body runs in a derived state when
// the specification asks for math mode or extra categories, and is read
// verbatim without tokenization when the specification says so.
type environmentCallParser struct {
	spec *EnvironmentSpec
	tok  *Token
}

func (p *environmentCallParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	name := p.tok.Arg

	if err := w.checkDepth(p.tok.Pos); err != nil {
		return nil, nil, err
	}
	w.pushContext(fmt.Sprintf("environment {%s}", name), p.tok.Pos)
	defer w.popContext()

	args, err := parseArguments(w, tz, state, p.spec.Args)
	if err != nil {
		return nil, nil, err
	}

	if p.spec.Verbatim {
		return p.parseVerbatimBody(w, tz, state, args)
	}

	bodyState := state
	if len(p.spec.BodyCategories) > 0 {
		bodyState = bodyState.Derive(WithContext(bodyState.Context.Extended(p.spec.BodyCategories...)))
	}
	if p.spec.IsMathMode {
		// no delimiters here: the body is closed by \end{name}, not by a
		// math delimiter
		bodyState = bodyState.Derive(WithMathMode("", "", p.spec.MathDisplay))
	}

	stopAtEnd := func(tok *Token) bool { return tok.Kind == TokEndEnv }
	body := &GeneralNodesParser{StopCondition: stopAtEnd}

	nodes, carry, err := body.ParseNodes(w, tz, bodyState)
	if err != nil {
		return nil, nil, err
	}

	node := &EnvironmentNode{
		NodeInfo: NodeInfo{Pos: p.tok.Pos, End: p.argsEnd(args), St: state},
		Name:     name,
		Args:     args,
		Body:     nodes,
	}
	if len(nodes) > 0 {
		node.End = nodes.Span().End
	}

	if carry == nil || !carry.StopConditionMet {
		// ran out of input before \end{name}
		err := &ParseError{
			Msg:          fmt.Sprintf("unterminated environment {%s}", name),
			Pos:          p.tok.Pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
		if !w.Tolerant() {
			return nil, nil, err
		}
		w.recordError(err)
		node.Incomplete = true
		return node, &Carryover{Delta: p.spec.Delta}, nil
	}

	endTok := carry.StopToken
	if endTok.Arg != name {
		err := &ParseError{
			Msg:          fmt.Sprintf("expected \\end{%s}, found \\end{%s}", name, endTok.Arg),
			Pos:          endTok.Pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
		if !w.Tolerant() {
			return nil, nil, err
		}
		// leave the mismatched closer for the enclosing scope; its
		// pre-space already went to this body, so rewind to the tag itself
		w.recordError(err)
		tz.MoveTo(endTok.Pos)
		node.Incomplete = true
		return node, &Carryover{Delta: p.spec.Delta}, nil
	}

	tz.MovePastToken(endTok)
	node.End = endTok.End

	return node, &Carryover{Delta: p.spec.Delta}, nil
}

func (p *environmentCallParser) parseVerbatimBody(w *Walker, tz *Tokenizer, state *ParsingState, args *ParsedArguments) (Node, *Carryover, error) {
	name := p.tok.Arg

	raw, rawSpan, endTok, err := tz.ReadVerbatimEnvironmentBody(name, state)
	if err != nil {
		if !w.Tolerant() {
			return nil, nil, err
		}
		// keep whatever text there was as the body
		w.recordError(err)
	}

	charsState := state.Derive(WithCharsOnly())
	node := &EnvironmentNode{
		NodeInfo: NodeInfo{Pos: p.tok.Pos, End: rawSpan.End, St: state},
		Name:     name,
		Args:     args,
		Body: NodeList{&CharsNode{
			NodeInfo: NodeInfo{Pos: rawSpan.Pos, End: rawSpan.End, St: charsState},
			Text:     raw,
		}},
	}

	if endTok == nil {
		node.Incomplete = true
	} else {
		node.End = endTok.End
	}

	return node, &Carryover{Delta: p.spec.Delta}, nil
}

func (p *environmentCallParser) argsEnd(args *ParsedArguments) int {
	if args != nil && args.End > p.tok.End {
		return args.End
	}

	return p.tok.End
}

// specialsCallParser assembles the node for a specials token, parsing
// arguments if the specification declares any.
type specialsCallParser struct {
	spec *SpecialsSpec
	tok  *Token
}

func (p *specialsCallParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	var args *ParsedArguments
	if len(p.spec.Args) > 0 {
		var err error
		args, err = parseArguments(w, tz, state, p.spec.Args)
		if err != nil {
			return nil, nil, err
		}
	}

	end := p.tok.End
	if args != nil && args.End > end {
		end = args.End
	}

	node := &SpecialsNode{
		NodeInfo: NodeInfo{Pos: p.tok.Pos, End: end, St: state},
		Text:     p.spec.Text,
		Args:     args,
	}

	return node, &Carryover{Delta: p.spec.Delta}, nil
}
