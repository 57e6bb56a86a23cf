package latextree_test

import (
	"strings"
	"testing"

	latextree "github.com/texkit/go-latextree"
)

func TestCharsGroupParser(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		open   string
		close  string
		output string
		rest   int
	}{
		{
			name:  "interior stays literal",
			input: "{foo {bar} baz} tail",
			output: lines(
				`group "{" "}" @0..15`,
				`  chars "foo {bar} baz" @1..14`,
			),
			rest: 15,
		},
		{
			name:  "own pair nests",
			input: "{a{b}c}d",
			output: lines(
				`group "{" "}" @0..7`,
				`  chars "a{b}c" @1..6`,
			),
			rest: 7,
		},
		{
			name:  "custom pair ignores other delimiters",
			input: "<a{b>rest",
			open:  "<",
			close: ">",
			output: lines(
				`group "<" ">" @0..5`,
				`  chars "a{b" @1..4`,
			),
			rest: 5,
		},
		{
			name:  "leading space is skipped",
			input: "  {x}",
			output: lines(
				`group "{" "}" @2..5`,
				`  chars "x" @3..4`,
			),
			rest: 5,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			w := latextree.NewWalker(tc.input)
			state := latextree.NewParsingState(latextree.NewContextDb())

			p := &latextree.CharsGroupParser{Open: tc.open, Close: tc.close}
			node, _, err := p.ParseNode(w, w.Tokenizer(), state)
			if err != nil {
				t.Fatalf("Unable to parse group: %v", err)
			}

			if got := latextree.DumpString(latextree.NodeList{node}); got != tc.output {
				t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", tc.output, got)
			}

			if got := w.Tokenizer().Pos(); got != tc.rest {
				t.Errorf("Read position does not match: want %d, got %d", tc.rest, got)
			}
		})
	}

	t.Run("unterminated group fails strict", func(t *testing.T) {
		w := latextree.NewWalker("{oops")
		state := latextree.NewParsingState(latextree.NewContextDb())

		_, _, err := (&latextree.CharsGroupParser{}).ParseNode(w, w.Tokenizer(), state)
		if err == nil || !strings.Contains(err.Error(), "to close the group") {
			t.Errorf("Error does not match: got %v", err)
		}
	})

	t.Run("unterminated group degrades tolerant", func(t *testing.T) {
		w := latextree.NewWalker("{oops", latextree.WithTolerant(true))
		state := latextree.NewParsingState(latextree.NewContextDb())

		node, _, err := (&latextree.CharsGroupParser{}).ParseNode(w, w.Tokenizer(), state)
		if err != nil {
			t.Fatalf("Unable to parse group: %v", err)
		}

		want := lines(
			`group "{" "" incomplete @0..5`,
			`  chars "oops" @1..5`,
		)
		if got := latextree.DumpString(latextree.NodeList{node}); got != want {
			t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", want, got)
		}

		if len(w.Errors()) != 1 {
			t.Errorf("Recorded errors do not match: got %v", w.Errors())
		}
	})

	t.Run("missing opener fails", func(t *testing.T) {
		w := latextree.NewWalker("x")
		state := latextree.NewParsingState(latextree.NewContextDb())

		_, _, err := (&latextree.CharsGroupParser{}).ParseNode(w, w.Tokenizer(), state)
		if err == nil || !strings.Contains(err.Error(), `expected "{"`) {
			t.Errorf("Error does not match: got %v", err)
		}
	})
}

func TestCharsCommaSeparatedListParser(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:  "items are split and trimmed",
			input: "{a, b, c}",
			output: lines(
				`group "{" "}" @0..9`,
				`  chars "a" @1..2`,
				`  chars "b" @4..5`,
				`  chars "c" @7..8`,
			),
		},
		{
			name:  "separators inside nested groups do not split",
			input: "{x{y,z}w, q}",
			output: lines(
				`group "{" "}" @0..12`,
				`  chars "x{y,z}w" @1..8`,
				`  chars "q" @10..11`,
			),
		},
		{
			name:  "empty list has no items",
			input: "{}",
			output: lines(
				`group "{" "}" @0..2`,
			),
		},
		{
			name:  "empty items are kept",
			input: "{a,,b}",
			output: lines(
				`group "{" "}" @0..6`,
				`  chars "a" @1..2`,
				`  chars "" @3..3`,
				`  chars "b" @4..5`,
			),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			w := latextree.NewWalker(tc.input)
			state := latextree.NewParsingState(latextree.NewContextDb())

			node, _, err := (&latextree.CharsCommaSeparatedListParser{}).ParseNode(w, w.Tokenizer(), state)
			if err != nil {
				t.Fatalf("Unable to parse list: %v", err)
			}

			if got := latextree.DumpString(latextree.NodeList{node}); got != tc.output {
				t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", tc.output, got)
			}
		})
	}

	t.Run("unterminated list degrades tolerant", func(t *testing.T) {
		w := latextree.NewWalker("{a, b", latextree.WithTolerant(true))
		state := latextree.NewParsingState(latextree.NewContextDb())

		node, _, err := (&latextree.CharsCommaSeparatedListParser{}).ParseNode(w, w.Tokenizer(), state)
		if err != nil {
			t.Fatalf("Unable to parse list: %v", err)
		}

		want := lines(
			`group "{" "" incomplete @0..5`,
			`  chars "a" @1..2`,
			`  chars "b" @4..5`,
		)
		if got := latextree.DumpString(latextree.NodeList{node}); got != want {
			t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", want, got)
		}
	})

	t.Run("unterminated list fails strict", func(t *testing.T) {
		w := latextree.NewWalker("{a, b")
		state := latextree.NewParsingState(latextree.NewContextDb())

		_, _, err := (&latextree.CharsCommaSeparatedListParser{}).ParseNode(w, w.Tokenizer(), state)
		if err == nil || !strings.Contains(err.Error(), "to close the list") {
			t.Errorf("Error does not match: got %v", err)
		}
	})
}
