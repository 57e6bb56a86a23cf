package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	latextree "github.com/texkit/go-latextree"
)

func newNodesCmd() *cobra.Command {
	var format string
	var tolerant bool
	var comments bool
	var offset int
	var contextFiles []string
	var noDefault bool

	cmd := &cobra.Command{
		Use:   "nodes [file]",
		Short: "Parse markup and dump the node tree",
		Long: `Parse markup and dump the resulting node tree.

If a file is provided it is read whole; with no argument or with "-" the
input comes from stdin. The text format prints one node per line with its
source span, the json format nests children under their parents.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(args)
			if err != nil {
				return err
			}

			db, err := loadContext(contextFiles, noDefault)
			if err != nil {
				return err
			}

			w := latextree.NewWalker(source,
				latextree.WithTolerant(tolerant),
				latextree.WithKeepComments(comments))

			nodes, err := w.ParseAt(latextree.NewParsingState(db), offset)
			if err != nil {
				return parseFailure(w, err)
			}
			reportRecovered(w)
			log.Debugf("parsed %d top-level nodes", len(nodes))

			switch format {
			case "text":
				fmt.Print(latextree.DumpString(nodes))
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				if err := enc.Encode(jsonNodes(nodes)); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s", format)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&tolerant, "tolerant", false, "recover from markup errors instead of aborting")
	cmd.Flags().BoolVar(&comments, "comments", true, "keep comments as nodes in the tree")
	cmd.Flags().IntVar(&offset, "pos", 0, "rune offset to start parsing at")
	addContextFlags(cmd, &contextFiles, &noDefault)

	return cmd
}

type jsonNode struct {
	Kind       string      `json:"kind"`
	Pos        int         `json:"pos"`
	End        int         `json:"end"`
	Name       string      `json:"name,omitempty"`
	Text       string      `json:"text,omitempty"`
	Open       string      `json:"open,omitempty"`
	Close      string      `json:"close,omitempty"`
	Display    bool        `json:"display,omitempty"`
	Incomplete bool        `json:"incomplete,omitempty"`
	Args       []*jsonNode `json:"args,omitempty"`
	Children   []*jsonNode `json:"children,omitempty"`
}

func jsonNodes(nodes latextree.NodeList) []*jsonNode {
	out := make([]*jsonNode, 0, len(nodes))
	for _, n := range nodes {
		if jn := jsonNodeOf(n); jn != nil {
			out = append(out, jn)
		}
	}
	return out
}

func jsonNodeOf(n latextree.Node) *jsonNode {
	if n == nil {
		return nil
	}

	span := n.Span()
	jn := &jsonNode{Pos: span.Pos, End: span.End}

	switch v := n.(type) {
	case *latextree.CharsNode:
		jn.Kind = "chars"
		jn.Text = v.Text
	case *latextree.CommentNode:
		jn.Kind = "comment"
		jn.Text = v.Text
	case *latextree.GroupNode:
		jn.Kind = "group"
		jn.Open = v.Open
		jn.Close = v.Close
		jn.Incomplete = v.Incomplete
		jn.Children = jsonNodes(v.Contents)
	case *latextree.MacroNode:
		jn.Kind = "macro"
		jn.Name = v.Name
		jn.Args = jsonArgs(v.Args)
	case *latextree.EnvironmentNode:
		jn.Kind = "environment"
		jn.Name = v.Name
		jn.Incomplete = v.Incomplete
		jn.Args = jsonArgs(v.Args)
		jn.Children = jsonNodes(v.Body)
	case *latextree.SpecialsNode:
		jn.Kind = "specials"
		jn.Text = v.Text
		jn.Args = jsonArgs(v.Args)
	case *latextree.MathNode:
		jn.Kind = "math"
		jn.Open = v.Open
		jn.Close = v.Close
		jn.Display = v.Display
		jn.Incomplete = v.Incomplete
		jn.Children = jsonNodes(v.Contents)
	case *latextree.ErrorNode:
		jn.Kind = "error"
		jn.Text = v.Msg
	default:
		jn.Kind = fmt.Sprintf("%T", n)
	}

	return jn
}

func jsonArgs(args *latextree.ParsedArguments) []*jsonNode {
	out := make([]*jsonNode, 0, args.Len())
	for i := 0; i < args.Len(); i++ {
		if jn := jsonNodeOf(args.Get(i)); jn != nil {
			out = append(out, jn)
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
