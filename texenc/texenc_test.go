package texenc_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/texkit/go-latextree/texenc"
)

func TestEncode(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:   "reserved characters",
			input:  "100% & more #1",
			output: `100\% \& more \#1`,
		},
		{
			name:   "underscore and braces",
			input:  "a_b {c}",
			output: `a\_b \{c\}`,
		},
		{
			name:   "backslash",
			input:  `a\b`,
			output: `a\textbackslash{}b`,
		},
		{
			name:   "tilde and caret",
			input:  "~5^2",
			output: `\textasciitilde{}5\textasciicircum{}2`,
		},
		{
			name:   "accented letters",
			input:  "café",
			output: `caf\'e`,
		},
		{
			name:   "uppercase accents",
			input:  "Ångström",
			output: `\AA{}ngstr\"om`,
		},
		{
			name:   "cedilla and eszett",
			input:  "façade straße",
			output: `fa\c{c}ade stra\ss{}e`,
		},
		{
			name:   "dashes and quotes",
			input:  "“quote” — dash – range",
			output: "``quote'' --- dash -- range",
		},
		{
			name:   "dot run",
			input:  "wait... what",
			output: `wait\ldots{} what`,
		},
		{
			name:   "ellipsis character",
			input:  "wait… what",
			output: `wait\ldots{} what`,
		},
		{
			name:   "greek letter in text",
			input:  "the α particle",
			output: `the $\alpha$ particle`,
		},
		{
			name:   "math symbol in text",
			input:  "x ≤ y",
			output: `x $\le$ y`,
		},
		{
			name:   "plain ascii untouched",
			input:  "nothing to do here",
			output: "nothing to do here",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			enc := texenc.New()

			out, err := enc.Encode(tc.input)
			if err != nil {
				t.Fatalf("Unable to encode text: %v", err)
			}

			if out != tc.output {
				t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", tc.output, out)
			}
		})
	}
}

func TestEncodeNonASCIIOnly(t *testing.T) {
	enc := texenc.New(texenc.NonASCIIOnly())

	out, err := enc.Encode(`5% of \emph{é}`)
	if err != nil {
		t.Fatalf("Unable to encode text: %v", err)
	}

	want := `5% of \emph{\'e}`
	if out != want {
		t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", want, out)
	}
}

func TestEncodeUnknownPolicies(t *testing.T) {
	tt := []struct {
		name   string
		policy texenc.UnknownPolicy
		output string
	}{
		{name: "keep", policy: texenc.Keep(), output: "a☃b"},
		{name: "replace", policy: texenc.Replace("?"), output: "a?b"},
		{name: "drop", policy: texenc.Drop(), output: "ab"},
		{name: "hex", policy: texenc.Hex(), output: `a\x{2603}b`},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			enc := texenc.New(texenc.WithUnknown(tc.policy))

			out, err := enc.Encode("a☃b")
			if err != nil {
				t.Fatalf("Unable to encode text: %v", err)
			}

			if out != tc.output {
				t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", tc.output, out)
			}
		})
	}

	t.Run("fail", func(t *testing.T) {
		enc := texenc.New(texenc.WithUnknown(texenc.Fail()))

		_, err := enc.Encode("a☃b")
		if err == nil {
			t.Fatalf("Expected an error for an uncovered character")
		}

		if !strings.Contains(err.Error(), "no escape") {
			t.Fatalf("Error does not match: got %v", err)
		}
	})

	t.Run("covered characters do not hit the policy", func(t *testing.T) {
		enc := texenc.New(texenc.WithUnknown(texenc.Fail()))

		out, err := enc.Encode("café & α")
		if err != nil {
			t.Fatalf("Unable to encode text: %v", err)
		}

		want := `caf\'e \& $\alpha$`
		if out != want {
			t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", want, out)
		}
	})
}

func TestEncodeMathMode(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output string
	}{
		{
			name:   "symbols become bare commands",
			input:  "α≤β",
			output: `\alpha{}\le{}\beta{}`,
		},
		{
			name:   "subscript markers stay",
			input:  "x_i^2",
			output: "x_i^2",
		},
		{
			name:   "reserved characters still escape",
			input:  "50% {a}",
			output: `50\% \{a\}`,
		},
		{
			name:   "backslash",
			input:  `\`,
			output: `\backslash{}`,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			enc := texenc.New(texenc.InMathMode())

			out, err := enc.Encode(tc.input)
			if err != nil {
				t.Fatalf("Unable to encode text: %v", err)
			}

			if out != tc.output {
				t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", tc.output, out)
			}
		})
	}
}

func TestEncodeProtectModes(t *testing.T) {
	tt := []struct {
		name   string
		mode   texenc.ProtectMode
		input  string
		output string
	}{
		{
			name:   "none keeps replacements bare",
			mode:   texenc.ProtectNone,
			input:  "énd",
			output: `\'end`,
		},
		{
			name:   "braces wrap fusing replacements",
			mode:   texenc.ProtectBraces,
			input:  "énd",
			output: `{\'e}nd`,
		},
		{
			name:   "braces leave delimited replacements alone",
			mode:   texenc.ProtectBraces,
			input:  "5% …",
			output: `5\% \ldots{}`,
		},
		{
			name:   "all wraps everything",
			mode:   texenc.ProtectAll,
			input:  "a&b",
			output: `a{\&}b`,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			enc := texenc.New(texenc.WithProtect(tc.mode))

			out, err := enc.Encode(tc.input)
			if err != nil {
				t.Fatalf("Unable to encode text: %v", err)
			}

			if out != tc.output {
				t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", tc.output, out)
			}
		})
	}
}

func TestEncodeCustomRules(t *testing.T) {
	arrow := texenc.RegexRule{
		Pattern: regexp.MustCompile(`-->`),
		Rewrite: func(string) string { return `$\to$` },
	}

	bullet := texenc.FuncRule(func(r rune) (string, bool) {
		if r == '•' {
			return `\textbullet{}`, true
		}
		return "", false
	})

	extra := texenc.MapRule{'€': `\euro{}`}

	rules := append([]texenc.Rule{arrow, bullet, extra}, texenc.DefaultRules()...)
	enc := texenc.New(texenc.WithRules(rules...))

	out, err := enc.Encode("a --> b • 5€ & α")
	if err != nil {
		t.Fatalf("Unable to encode text: %v", err)
	}

	want := `a $\to$ b \textbullet{} 5\euro{} \& $\alpha$`
	if out != want {
		t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", want, out)
	}
}

func TestParseUnknownPolicy(t *testing.T) {
	tt := []struct {
		name   string
		output string
	}{
		{name: "keep", output: "☃"},
		{name: "replace", output: "?"},
		{name: "drop", output: ""},
		{name: "hex", output: `\x{2603}`},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			policy, err := texenc.ParseUnknownPolicy(tc.name)
			if err != nil {
				t.Fatalf("Unable to parse policy name: %v", err)
			}

			enc := texenc.New(texenc.WithUnknown(policy))

			out, err := enc.Encode("☃")
			if err != nil {
				t.Fatalf("Unable to encode text: %v", err)
			}

			if out != tc.output {
				t.Fatalf("Encoded text does not match:\nWANT:\n  %#v\nGOT:\n  %#v\n", tc.output, out)
			}
		})
	}

	t.Run("fail", func(t *testing.T) {
		policy, err := texenc.ParseUnknownPolicy("fail")
		if err != nil {
			t.Fatalf("Unable to parse policy name: %v", err)
		}

		enc := texenc.New(texenc.WithUnknown(policy))
		if _, err := enc.Encode("☃"); err == nil {
			t.Fatalf("Expected an error for an uncovered character")
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if _, err := texenc.ParseUnknownPolicy("panic"); err == nil {
			t.Fatalf("Expected an error for an unknown policy name")
		}
	})
}

func TestParseProtectMode(t *testing.T) {
	tt := []struct {
		name string
		mode texenc.ProtectMode
	}{
		{name: "none", mode: texenc.ProtectNone},
		{name: "braces", mode: texenc.ProtectBraces},
		{name: "all", mode: texenc.ProtectAll},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mode, err := texenc.ParseProtectMode(tc.name)
			if err != nil {
				t.Fatalf("Unable to parse mode name: %v", err)
			}

			if mode != tc.mode {
				t.Fatalf("Value does not match: want %v, got %v", tc.mode, mode)
			}
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		if _, err := texenc.ParseProtectMode("wrap"); err == nil {
			t.Fatalf("Expected an error for an unknown mode name")
		}
	})
}
