package latextree

import (
	"fmt"
	"strings"
)

// DumpString renders a tree one node per line, indented by depth, with each
// node's payload and source span. The format is stable and is meant for
// inspection and for golden comparisons in tests.
func DumpString(l NodeList) string {
	var b strings.Builder
	dumpList(&b, l, 0)
	return b.String()
}

func dumpList(b *strings.Builder, l NodeList, depth int) {
	for _, n := range l {
		if n == nil {
			continue
		}
		dumpNode(b, n, depth)
	}
}

func dumpNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	span := n.Span()

	switch v := n.(type) {
	case *CharsNode:
		fmt.Fprintf(b, "%schars %q @%d..%d\n", indent, v.Text, span.Pos, span.End)
	case *CommentNode:
		fmt.Fprintf(b, "%scomment %q @%d..%d\n", indent, v.Text, span.Pos, span.End)
	case *GroupNode:
		fmt.Fprintf(b, "%sgroup %q %q%s @%d..%d\n",
			indent, v.Open, v.Close, dumpFlag(v.Incomplete), span.Pos, span.End)
		dumpList(b, v.Contents, depth+1)
	case *MacroNode:
		fmt.Fprintf(b, "%smacro %q @%d..%d\n", indent, v.Name, span.Pos, span.End)
		dumpArgs(b, v.Args, depth+1)
	case *EnvironmentNode:
		fmt.Fprintf(b, "%senvironment %q%s @%d..%d\n",
			indent, v.Name, dumpFlag(v.Incomplete), span.Pos, span.End)
		dumpArgs(b, v.Args, depth+1)
		dumpList(b, v.Body, depth+1)
	case *SpecialsNode:
		fmt.Fprintf(b, "%sspecials %q @%d..%d\n", indent, v.Text, span.Pos, span.End)
		dumpArgs(b, v.Args, depth+1)
	case *MathNode:
		mode := "inline"
		if v.Display {
			mode = "display"
		}
		fmt.Fprintf(b, "%smath %s %q %q%s @%d..%d\n",
			indent, mode, v.Open, v.Close, dumpFlag(v.Incomplete), span.Pos, span.End)
		dumpList(b, v.Contents, depth+1)
	case *ErrorNode:
		fmt.Fprintf(b, "%serror %q @%d..%d\n", indent, v.Msg, span.Pos, span.End)
	default:
		fmt.Fprintf(b, "%s%T @%d..%d\n", indent, n, span.Pos, span.End)
	}
}

func dumpArgs(b *strings.Builder, args *ParsedArguments, depth int) {
	for i := 0; i < args.Len(); i++ {
		if arg := args.Get(i); arg != nil {
			dumpNode(b, arg, depth)
		}
	}
}

func dumpFlag(incomplete bool) string {
	if incomplete {
		return " incomplete"
	}

	return ""
}
