package latextree_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	latextree "github.com/texkit/go-latextree"
)

const categoriesYAML = `category: journal
macros:
  - name: articletitle
    args: om
environments:
  - name: abstractbox
    args: o
specials:
  - text: "~~"
---
category: math-extra
environments:
  - name: smallmath
    math: true
    inline: true
  - name: bigmath
    math: true
  - name: verbsnip
    verbatim: true
`

func TestReadCategories(t *testing.T) {
	cats, err := latextree.ReadCategories(strings.NewReader(categoriesYAML))
	if err != nil {
		t.Fatalf("Unable to read categories: %v", err)
	}

	var names []string
	for _, cat := range cats {
		names = append(names, cat.Name)
	}

	if diff := cmp.Diff([]string{"journal", "math-extra"}, names); diff != "" {
		t.Errorf("Categories do not match (-want +got):\n%s", diff)
	}
}

func TestAddCategoriesYAML(t *testing.T) {
	db := latextree.NewContextDb()
	if err := db.AddCategoriesYAML([]byte(categoriesYAML)); err != nil {
		t.Fatalf("Unable to add categories: %v", err)
	}

	t.Run("argument shapes are parsed", func(t *testing.T) {
		spec, err := db.GetMacroSpec("articletitle")
		if err != nil {
			t.Fatal(err)
		}

		want := []latextree.ArgSpec{
			{Kind: latextree.ArgOptional, Open: "[", Close: "]"},
			{Kind: latextree.ArgMandatory},
		}
		if diff := cmp.Diff(want, spec.Args); diff != "" {
			t.Errorf("Arguments do not match (-want +got):\n%s", diff)
		}
	})

	t.Run("environment flags carry over", func(t *testing.T) {
		small, err := db.GetEnvironmentSpec("smallmath")
		if err != nil {
			t.Fatal(err)
		}
		if !small.IsMathMode || small.MathDisplay {
			t.Errorf("Inline math environment does not match: %+v", small)
		}

		big, err := db.GetEnvironmentSpec("bigmath")
		if err != nil {
			t.Fatal(err)
		}
		if !big.IsMathMode || !big.MathDisplay {
			t.Errorf("Display math environment does not match: %+v", big)
		}

		verb, err := db.GetEnvironmentSpec("verbsnip")
		if err != nil {
			t.Fatal(err)
		}
		if !verb.Verbatim {
			t.Errorf("Verbatim environment does not match: %+v", verb)
		}
	})

	t.Run("specials are registered", func(t *testing.T) {
		if _, err := db.GetSpecialsSpec("~~"); err != nil {
			t.Errorf("Specials lookup failed: %v", err)
		}
	})

	t.Run("loaded grammar drives a parse", func(t *testing.T) {
		w := latextree.NewWalker("\\articletitle[a]{b} \\begin{smallmath}x\\end{smallmath}")
		nodes, err := w.Parse(latextree.NewParsingState(db))
		if err != nil {
			t.Fatalf("Unable to parse document: %v", err)
		}

		want := lines(
			`macro "articletitle" @0..19`,
			`  group "[" "]" @13..16`,
			`    chars "a" @14..15`,
			`  group "{" "}" @16..19`,
			`    chars "b" @17..18`,
			`chars " " @19..20`,
			`environment "smallmath" @20..53`,
			`  chars "x" @37..38`,
		)
		if got := latextree.DumpString(nodes); got != want {
			t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", want, got)
		}
	})
}

func TestReadCategoriesErrors(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "missing category name",
			input:   "macros:\n  - name: x\n",
			wantMsg: "missing category name",
		},
		{
			name:    "unknown key",
			input:   "category: c\ncolour: red\n",
			wantMsg: "category file",
		},
		{
			name:    "bad argument shape",
			input:   "category: c\nmacros:\n  - name: x\n    args: z\n",
			wantMsg: "unknown argument letter",
		},
		{
			name:    "duplicate macro",
			input:   "category: c\nmacros:\n  - name: x\n  - name: x\n",
			wantMsg: "duplicate macro",
		},
		{
			name:    "macro without a name",
			input:   "category: c\nmacros:\n  - args: m\n",
			wantMsg: "macro without a name",
		},
		{
			name:    "inline requires math",
			input:   "category: c\nenvironments:\n  - name: e\n    inline: true\n",
			wantMsg: "inline requires math",
		},
		{
			name:    "math and verbatim conflict",
			input:   "category: c\nenvironments:\n  - name: e\n    math: true\n    verbatim: true\n",
			wantMsg: "cannot be both math and verbatim",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := latextree.ReadCategories(strings.NewReader(tc.input))
			if err == nil {
				t.Fatalf("Expected an error, got none")
			}

			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("Error does not match: want %q in %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestAddCategoriesYAMLFrozen(t *testing.T) {
	db := latextree.NewContextDb()
	latextree.NewParsingState(db)

	err := db.AddCategoriesYAML([]byte("category: late\n"))
	if !errors.Is(err, latextree.ErrFrozen) {
		t.Errorf("Expected ErrFrozen, got %v", err)
	}
}
