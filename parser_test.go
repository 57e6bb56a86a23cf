package latextree_test

import (
	"strings"
	"testing"

	latextree "github.com/texkit/go-latextree"
)

// lines joins dump lines into the golden form produced by DumpString.
func lines(ss ...string) string {
	return strings.Join(ss, "\n") + "\n"
}

func TestParse(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:  "words and paragraphs",
			input: "Hello world!\n\nBye.",
			output: lines(
				`chars "Hello world!" @0..12`,
				`specials "\n\n" @12..14`,
				`chars "Bye." @14..18`,
			),
		},
		{
			name:  "macro with a group argument",
			input: "\\textbf{Fat} cat",
			output: lines(
				`macro "textbf" @0..12`,
				`  group "{" "}" @7..12`,
				`    chars "Fat" @8..11`,
				`chars " cat" @12..16`,
			),
		},
		{
			name:  "starred and optional arguments",
			input: "\\section*[Short]{Long}",
			output: lines(
				`macro "section" @0..22`,
				`  chars "*" @8..9`,
				`  group "[" "]" @9..16`,
				`    chars "Short" @10..15`,
				`  group "{" "}" @16..22`,
				`    chars "Long" @17..21`,
			),
		},
		{
			name:  "absent optional argument",
			input: "\\item one",
			output: lines(
				`macro "item" @0..6`,
				`chars "one" @6..9`,
			),
		},
		{
			name:  "single-character mandatory argument",
			input: "\\frac12",
			output: lines(
				`macro "frac" @0..7`,
				`  chars "1" @5..6`,
				`  chars "2" @6..7`,
			),
		},
		{
			name:  "nested groups",
			input: "{a {b} c}",
			output: lines(
				`group "{" "}" @0..9`,
				`  chars "a " @1..3`,
				`  group "{" "}" @3..6`,
				`    chars "b" @4..5`,
				`  chars " c" @6..8`,
			),
		},
		{
			name:  "environment with body",
			input: "\\begin{center}x\\end{center}",
			output: lines(
				`environment "center" @0..27`,
				`  chars "x" @14..15`,
			),
		},
		{
			name:  "environment with an optional argument",
			input: "\\begin{enumerate}[i]\\item a\\end{enumerate}",
			output: lines(
				`environment "enumerate" @0..42`,
				`  group "[" "]" @17..20`,
				`    chars "i" @18..19`,
				`  macro "item" @20..26`,
				`  chars "a" @26..27`,
			),
		},
		{
			name:  "inline and display math",
			input: "$a+b$ and \\[x\\]",
			output: lines(
				`math inline "$" "$" @0..5`,
				`  chars "a+b" @1..4`,
				`chars " and " @5..10`,
				`math display "\\[" "\\]" @10..15`,
				`  chars "x" @12..13`,
			),
		},
		{
			name:  "math environment",
			input: "\\begin{align}x &= 1\\end{align}",
			output: lines(
				`environment "align" @0..30`,
				`  chars "x " @13..15`,
				`  specials "&" @15..16`,
				`  chars "= 1" @16..19`,
			),
		},
		{
			name:  "verbatim macro leaves the rest unread",
			input: "\\verb|a{b|c",
			output: lines(
				`macro "verb" @0..10`,
				`  group "|" "|" @5..10`,
				`    chars "a{b" @6..9`,
				`chars "c" @10..11`,
			),
		},
		{
			name:  "verbatim environment keeps the body raw",
			input: "\\begin{verbatim}\na \\x {\n\\end{verbatim}",
			output: lines(
				`environment "verbatim" @0..38`,
				`  chars "\na \\x {\n" @16..24`,
			),
		},
		{
			name:  "dash ligatures",
			input: "a --- b -- c",
			output: lines(
				`chars "a " @0..2`,
				`specials "---" @2..5`,
				`chars " b " @5..8`,
				`specials "--" @8..10`,
				`chars " c" @10..12`,
			),
		},
		{
			name:  "escaped special characters",
			input: "5\\% \\& x",
			output: lines(
				`chars "5" @0..1`,
				`macro "%" @1..3`,
				`chars " " @3..4`,
				`macro "&" @4..6`,
				`chars " x" @6..8`,
			),
		},
		{
			name:  "comment becomes a node",
			input: "a %note\nb",
			output: lines(
				`chars "a " @0..2`,
				`comment "note" @2..8`,
				`chars "b" @8..9`,
			),
		},
		{
			name:  "line break macro with an optional argument",
			input: "a\\\\[2mm]b",
			output: lines(
				`chars "a" @0..1`,
				`macro "\\" @1..8`,
				`  group "[" "]" @3..8`,
				`    chars "2mm" @4..7`,
				`chars "b" @8..9`,
			),
		},
		{
			name:  "unknown macro falls back to zero arguments",
			input: "\\unknowncmd x",
			output: lines(
				`macro "unknowncmd" @0..12`,
				`chars "x" @12..13`,
			),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := latextree.Parse(tc.input)
			if err != nil {
				t.Fatalf("Unable to parse document: %v", err)
			}

			if got := latextree.DumpString(nodes); got != tc.output {
				t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", tc.output, got)
			}
		})
	}
}

func TestParseTolerant(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output string
		errs   int
	}{
		{
			name:  "clean document records nothing",
			input: "fine \\textbf{text}",
			output: lines(
				`chars "fine " @0..5`,
				`macro "textbf" @5..18`,
				`  group "{" "}" @12..18`,
				`    chars "text" @13..17`,
			),
			errs: 0,
		},
		{
			name:  "unclosed group",
			input: "{a",
			output: lines(
				`group "{" "" incomplete @0..2`,
				`  chars "a" @1..2`,
			),
			errs: 1,
		},
		{
			name:  "unclosed environment",
			input: "\\begin{center}a",
			output: lines(
				`environment "center" incomplete @0..15`,
				`  chars "a" @14..15`,
			),
			errs: 1,
		},
		{
			name:  "mismatched end tag is left for the outer scope",
			input: "\\begin{itemize}a\\end{enumerate}",
			output: lines(
				`environment "itemize" incomplete @0..16`,
				`  chars "a" @15..16`,
				`error "unexpected \\end{enumerate}" @16..31`,
			),
			errs: 2,
		},
		{
			name:  "unclosed math region",
			input: "$x",
			output: lines(
				`math inline "$" "" incomplete @0..2`,
				`  chars "x" @1..2`,
			),
			errs: 1,
		},
		{
			name:  "trailing escape character folds into the text",
			input: "a\\",
			output: lines(
				`chars "a\\" @0..2`,
			),
			errs: 1,
		},
		{
			name:  "stray closing delimiter",
			input: "a}b",
			output: lines(
				`chars "a" @0..1`,
				`error "unexpected closing delimiter \"}\"" @1..2`,
				`chars "b" @2..3`,
			),
			errs: 1,
		},
		{
			name:  "unclosed verbatim argument",
			input: "\\verb|ab",
			output: lines(
				`macro "verb" @0..8`,
				`  group "|" "" incomplete @5..8`,
				`    chars "ab" @6..8`,
			),
			errs: 1,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			w := latextree.NewWalker(tc.input, latextree.WithTolerant(true))

			nodes, err := w.Parse(latextree.NewParsingState(latextree.StandardContext()))
			if err != nil {
				t.Fatalf("Unable to parse document: %v", err)
			}

			if got := latextree.DumpString(nodes); got != tc.output {
				t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", tc.output, got)
			}

			if got := len(w.Errors()); got != tc.errs {
				t.Errorf("Recorded errors do not match: want %d, got %d (%v)", tc.errs, got, w.Errors())
			}
		})
	}
}

func TestParseStrict(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "unclosed group",
			input:   "{a",
			wantMsg: `expected "}" to close the group opened with "{"`,
		},
		{
			name:    "unclosed environment",
			input:   "\\begin{center}a",
			wantMsg: "unterminated environment {center}",
		},
		{
			name:    "mismatched end tag",
			input:   "\\begin{itemize}a\\end{enumerate}",
			wantMsg: "expected \\end{itemize}, found \\end{enumerate}",
		},
		{
			name:    "unclosed math region",
			input:   "$x",
			wantMsg: `math region opened with "$" is not closed`,
		},
		{
			name:    "stray end tag",
			input:   "a\\end{center}",
			wantMsg: "unexpected \\end{center}",
		},
		{
			name:    "stray closing delimiter",
			input:   "a}b",
			wantMsg: `unexpected closing delimiter "}"`,
		},
		{
			name:    "trailing escape character",
			input:   "a\\",
			wantMsg: "expected macro name",
		},
		{
			name:    "unclosed verbatim environment",
			input:   "\\begin{verbatim}ab",
			wantMsg: "verbatim environment {verbatim} is not closed",
		},
		{
			name:    "paragraph break inside a mandatory argument",
			input:   "\\textbf\n\nx",
			wantMsg: "paragraph break instead of a mandatory argument",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := latextree.Parse(tc.input)
			if err == nil {
				t.Fatalf("Expected an error, got none")
			}

			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("Error does not match: want %q in %q", tc.wantMsg, err.Error())
			}
		})
	}
}

func TestParseAt(t *testing.T) {
	source := "one \\textbf{x}"

	w := latextree.NewWalker(source)
	nodes, err := w.ParseAt(latextree.NewParsingState(latextree.StandardContext()), 4)
	if err != nil {
		t.Fatalf("Unable to parse fragment: %v", err)
	}

	want := lines(
		`macro "textbf" @4..14`,
		`  group "{" "}" @11..14`,
		`    chars "x" @12..13`,
	)
	if got := latextree.DumpString(nodes); got != want {
		t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", want, got)
	}
}

func TestParseKeepComments(t *testing.T) {
	source := "a %x\nb"

	nodes, err := latextree.Parse(source, latextree.WithKeepComments(false))
	if err != nil {
		t.Fatalf("Unable to parse document: %v", err)
	}

	want := lines(
		`chars "a " @0..2`,
		`chars "b" @5..6`,
	)
	if got := latextree.DumpString(nodes); got != want {
		t.Errorf("Tree does not match:\nWANT:\n%sGOT:\n%s", want, got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	tt := []string{
		"plain text only",
		"Hello \\textbf{world} and $x+1$!\n\nNew paragraph. ",
		"\\begin{itemize}\\item a\\item b\\end{itemize} tail",
		"\\section*[s]{Long title} text %comment\nmore",
		"a\\\\[2mm]b --- c",
		"\\verb|raw|rest",
		"\\begin{verbatim}\nkeep {this} \\raw\n\\end{verbatim}\n",
	}

	for _, source := range tt {
		t.Run(source, func(t *testing.T) {
			nodes, err := latextree.Parse(source)
			if err != nil {
				t.Fatalf("Unable to parse document: %v", err)
			}

			total := len([]rune(source))

			// sibling spans tile the source with no gaps or overlaps
			pos := 0
			for _, n := range nodes {
				span := n.Span()
				if span.Pos != pos {
					t.Fatalf("Span starts at %d, want %d in:\n%s", span.Pos, pos, latextree.DumpString(nodes))
				}
				if span.End < span.Pos {
					t.Fatalf("Span ends before it starts: %d..%d", span.Pos, span.End)
				}
				pos = span.End
			}

			if pos != total {
				t.Errorf("Spans cover %d of %d runes", pos, total)
			}
		})
	}
}

func TestParseDeterminism(t *testing.T) {
	source := "\\section{T}\n\nBody $a^2$ %c\n\\begin{itemize}\\item x\\end{itemize}"

	first, err := latextree.Parse(source)
	if err != nil {
		t.Fatalf("Unable to parse document: %v", err)
	}

	second, err := latextree.Parse(source)
	if err != nil {
		t.Fatalf("Unable to parse document again: %v", err)
	}

	if a, b := latextree.DumpString(first), latextree.DumpString(second); a != b {
		t.Errorf("Trees do not match:\nFIRST:\n%sSECOND:\n%s", a, b)
	}
}
