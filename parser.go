package latextree

// NodesParser parses a run of sibling nodes out of the token stream.
// Implementations read tokens under the given state and report through the
// carryover how parsing ended and which state the enclosing scope should
// continue with.
type NodesParser interface {
	ParseNodes(w *Walker, tz *Tokenizer, state *ParsingState) (NodeList, *Carryover, error)
}

// NodeParser parses a single node. A nil node with a nil error means the
// construct produced nothing, like a pure state-switching call.
type NodeParser interface {
	ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error)
}

// Carryover is what a parser hands back to its caller besides the nodes:
// the parsing state for subsequent siblings, a delta still to be applied,
// and the token that met the stop condition, if one did.
type Carryover struct {
	State            *ParsingState
	Delta            StateDelta
	StopToken        *Token
	StopConditionMet bool
}

// GeneralNodesParser collects sibling nodes until the stop condition claims
// a token or input runs out. The stop token's pre-space still belongs to
// the collected siblings; the token itself is left to the caller, with the
// read position just past it.
type GeneralNodesParser struct {
	StopCondition func(tok *Token) bool
}

func (p *GeneralNodesParser) ParseNodes(w *Walker, tz *Tokenizer, state *ParsingState) (NodeList, *Carryover, error) {
	c := &collector{stop: p.StopCondition}
	return c.collect(w, tz, state)
}

// SingleNodeParser parses exactly one node: a full construct with its
// arguments, or one run of plain characters. Leading whitespace is
// consumed but not part of the node.
type SingleNodeParser struct{}

func (p *SingleNodeParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	tz.SkipSpace()

	c := &collector{single: true}
	nodes, carry, err := c.collect(w, tz, state)
	if err != nil {
		return nil, carry, err
	}

	if len(nodes) == 0 {
		return nil, carry, &EndOfStream{}
	}

	return nodes[len(nodes)-1], carry, nil
}
