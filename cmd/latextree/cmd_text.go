package main

import (
	"fmt"

	"github.com/spf13/cobra"

	latextree "github.com/texkit/go-latextree"
	"github.com/texkit/go-latextree/plaintext"
)

func newTextCmd() *cobra.Command {
	var mathPolicy string
	var strict bool
	var keepComments bool
	var tolerant bool
	var contextFiles []string
	var noDefault bool

	cmd := &cobra.Command{
		Use:   "text [file]",
		Short: "Render markup as plain text",
		Long: `Render markup as plain text, stripping commands and keeping their
readable content.

If a file is provided it is read whole; with no argument or with "-" the
input comes from stdin. The math policy decides what becomes of formulas:
"text" keeps their content, "with-delimiters" keeps the delimiters too,
"verbatim" copies the source span unchanged and "remove" drops them.`,
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

			policy, err := plaintext.ParseMathPolicy(mathPolicy)
			if err != nil {
				return err
			}

			w := latextree.NewWalker(source, latextree.WithTolerant(tolerant))

			nodes, err := w.Parse(latextree.NewParsingState(db))
			if err != nil {
				return parseFailure(w, err)
			}
			reportRecovered(w)

			r := plaintext.New(nil,
				plaintext.WithMathPolicy(policy),
				plaintext.WithSource(source),
				plaintext.WithComments(keepComments),
				plaintext.WithStrict(strict))

			out, err := r.Render(nodes)
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&mathPolicy, "math", "text", "math rendering policy (text, with-delimiters, verbatim, remove)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on constructs without a text rule")
	cmd.Flags().BoolVar(&keepComments, "keep-comments", false, "render comment text instead of dropping it")
	cmd.Flags().BoolVar(&tolerant, "tolerant", false, "recover from markup errors instead of aborting")
	addContextFlags(cmd, &contextFiles, &noDefault)

	return cmd
}
