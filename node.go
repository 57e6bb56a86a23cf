package latextree

// Node is one element of the parsed tree. The concrete types are CharsNode,
// GroupNode, CommentNode, MacroNode, EnvironmentNode, SpecialsNode, MathNode
// and ErrorNode; consumers dispatch with a type switch over those. Every
// node carries its source span and the parsing state it was produced under.
type Node interface {
	Span() Span
	State() *ParsingState
	isNode()
}

// NodeInfo carries the source span and parsing state common to all nodes.
// It is embedded by every concrete node type.
type NodeInfo struct {
	Pos int
	End int
	St  *ParsingState
}

func (i NodeInfo) Span() Span {
	return Span{Pos: i.Pos, End: i.End}
}

func (i NodeInfo) State() *ParsingState {
	return i.St
}

func (NodeInfo) isNode() {}

// CharsNode is a run of plain characters, whitespace included.
type CharsNode struct {
	NodeInfo
	Text string
}

// GroupNode is a delimited sub-region with no name of its own. Incomplete
// marks a group whose closer never came; Close stays empty then.
type GroupNode struct {
	NodeInfo
	Open       string
	Close      string
	Contents   NodeList
	Incomplete bool
}

// CommentNode holds a comment body, without the comment character, plus the
// whitespace that followed it up to the next line's content.
type CommentNode struct {
	NodeInfo
	Text      string
	PostSpace string
}

// MacroNode is a macro call with its parsed arguments.
type MacroNode struct {
	NodeInfo
	Name      string
	PostSpace string
	Args      *ParsedArguments
}

// EnvironmentNode is a begin/end delimited region. Incomplete marks a body
// that was closed implicitly during tolerant recovery.
type EnvironmentNode struct {
	NodeInfo
	Name       string
	Args       *ParsedArguments
	Body       NodeList
	Incomplete bool
}

// SpecialsNode is an occurrence of a registered specials sequence.
type SpecialsNode struct {
	NodeInfo
	Text string
	Args *ParsedArguments
}

// MathNode is an inline or display math region together with the delimiters
// that enclosed it.
type MathNode struct {
	NodeInfo
	Display    bool
	Open       string
	Close      string
	Contents   NodeList
	Incomplete bool
}

// ErrorNode marks a stretch of input that failed to parse. It only ever
// appears in tolerant mode, standing where the failed construct began.
type ErrorNode struct {
	NodeInfo
	Msg string
}

// NodeList is an ordered sequence of sibling nodes.
type NodeList []Node

// Span covers the list from the first node to the last, skipping nils.
func (l NodeList) Span() Span {
	first, last := l.First(), l.Last()
	if first == nil {
		return Span{}
	}

	return Span{Pos: first.Span().Pos, End: last.Span().End}
}

// First returns the first non-nil node, nil when there is none.
func (l NodeList) First() Node {
	for _, n := range l {
		if n != nil {
			return n
		}
	}

	return nil
}

// Last returns the last non-nil node, nil when there is none.
func (l NodeList) Last() Node {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i] != nil {
			return l[i]
		}
	}

	return nil
}

// Slice returns the sub-list covering [i, j).
func (l NodeList) Slice(i, j int) NodeList {
	if i < 0 {
		i = 0
	}
	if j > len(l) {
		j = len(l)
	}
	if i >= j {
		return nil
	}

	return l[i:j]
}

// Walk traverses the list depth first, calling fn for every node. Children
// are visited only while fn keeps returning true for their parent.
func (l NodeList) Walk(fn func(Node) bool) {
	for _, n := range l {
		if n == nil {
			continue
		}
		walkNode(n, fn)
	}
}

func walkNode(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}

	for _, child := range Children(n) {
		if child == nil {
			continue
		}
		walkNode(child, fn)
	}
}

// Children returns the direct child nodes of n in document order: parsed
// argument values first, then the contents or body.
func Children(n Node) []Node {
	var out []Node

	appendArgs := func(args *ParsedArguments) {
		for i := 0; i < args.Len(); i++ {
			if arg := args.Get(i); arg != nil {
				out = append(out, arg)
			}
		}
	}

	switch v := n.(type) {
	case *GroupNode:
		out = append(out, v.Contents...)
	case *MacroNode:
		appendArgs(v.Args)
	case *EnvironmentNode:
		appendArgs(v.Args)
		out = append(out, v.Body...)
	case *SpecialsNode:
		appendArgs(v.Args)
	case *MathNode:
		out = append(out, v.Contents...)
	}

	return out
}

// ContentText gathers the plain character content of the subtree, looking
// through groups and math regions but not into macro arguments.
func ContentText(n Node) string {
	switch v := n.(type) {
	case *CharsNode:
		return v.Text
	case *GroupNode:
		return v.Contents.ContentText()
	case *MathNode:
		return v.Contents.ContentText()
	case *SpecialsNode:
		return v.Text
	default:
		return ""
	}
}

// ContentText concatenates ContentText over the list.
func (l NodeList) ContentText() string {
	var out string
	for _, n := range l {
		if n == nil {
			continue
		}
		out += ContentText(n)
	}

	return out
}
