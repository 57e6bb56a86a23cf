package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/texkit/go-latextree/texenc"
)

func newEncodeCmd() *cobra.Command {
	var nonASCIIOnly bool
	var unknownName string
	var protectName string
	var math bool

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Escape unicode text as markup",
		Long: `Escape unicode text as markup: reserved characters, accented letters,
typographic punctuation and symbols become their command equivalents.

If a file is provided it is read whole; with no argument or with "-" the
input comes from stdin. Characters outside ascii that no rule covers fall
to the unknown policy.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			unknown, err := texenc.ParseUnknownPolicy(unknownName)
			if err != nil {
				return err
			}

			protect, err := texenc.ParseProtectMode(protectName)
			if err != nil {
				return err
			}

			opts := []texenc.Option{
				texenc.WithUnknown(unknown),
				texenc.WithProtect(protect),
			}
			if nonASCIIOnly {
				opts = append(opts, texenc.NonASCIIOnly())
			}
			if math {
				opts = append(opts, texenc.InMathMode())
			}

			out, err := texenc.New(opts...).Encode(input)
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&nonASCIIOnly, "non-ascii-only", false, "leave ascii untouched, encode only unicode")
	cmd.Flags().StringVar(&unknownName, "unknown", "keep", "policy for unmapped characters (keep, replace, drop, fail, hex)")
	cmd.Flags().StringVar(&protectName, "protect", "none", "brace protection for replacements (none, braces, all)")
	cmd.Flags().BoolVar(&math, "math", false, "use the math-mode escape table")

	return cmd
}
