// Package plaintext renders parsed node trees to plain text. Rendering is
// table driven: a SpecDb maps construct names to replacement text or
// callbacks, math regions follow a configurable policy, everything else
// falls through to its character content.
package plaintext

import (
	"fmt"
	"regexp"
	"strings"

	latextree "github.com/texkit/go-latextree"
)

// MathPolicy selects what math regions become in the output.
type MathPolicy int

const (
	// MathText renders the math interior as regular text.
	MathText MathPolicy = iota

	// MathWithDelimiters renders the interior and keeps the enclosing
	// delimiters, or the begin and end tags for math environments.
	MathWithDelimiters

	// MathVerbatim copies the source span of the region unchanged. The
	// renderer needs the source for this, see WithSource.
	MathVerbatim

	// MathRemove drops math regions entirely.
	MathRemove
)

// ParseMathPolicy resolves the policy names used on the command line.
func ParseMathPolicy(name string) (MathPolicy, error) {
	switch name {
	case "text":
		return MathText, nil
	case "with-delimiters":
		return MathWithDelimiters, nil
	case "verbatim":
		return MathVerbatim, nil
	case "remove":
		return MathRemove, nil
	default:
		return 0, fmt.Errorf("unknown math policy %q", name)
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMathPolicy sets the policy for math regions, MathText when unset.
func WithMathPolicy(p MathPolicy) Option {
	return func(r *Renderer) {
		r.math = p
	}
}

// WithSource provides the parsed source text, so span-based policies can
// copy from it.
func WithSource(src string) Option {
	return func(r *Renderer) {
		r.src = []rune(src)
	}
}

// WithComments true keeps comment bodies in the output.
func WithComments(keep bool) Option {
	return func(r *Renderer) {
		r.keepComments = keep
	}
}

// WithStrict true turns constructs without a rendering rule into errors
// instead of rendering their contents.
func WithStrict(strict bool) Option {
	return func(r *Renderer) {
		r.strict = strict
	}
}

// Renderer turns node trees into plain text using the rules of its SpecDb.
type Renderer struct {
	specs        *SpecDb
	math         MathPolicy
	src          []rune
	keepComments bool
	strict       bool
}

// New creates a renderer over the given rule database, StandardSpecs when
// nil.
func New(specs *SpecDb, opts ...Option) *Renderer {
	if specs == nil {
		specs = StandardSpecs()
	}

	r := &Renderer{specs: specs}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

var blankRuns = regexp.MustCompile("\n([ \t]*\n){2,}")

// Render produces the plain text of the node list. Runs of blank lines in
// the result collapse to a single empty line.
func (r *Renderer) Render(nodes latextree.NodeList) (string, error) {
	out, err := r.RenderList(nodes)
	if err != nil {
		return "", err
	}

	return blankRuns.ReplaceAllString(out, "\n\n"), nil
}

// RenderList renders a node list without the blank line normalization.
// Rendering callbacks use it for sub-lists.
func (r *Renderer) RenderList(nodes latextree.NodeList) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := r.renderNode(&b, n); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

// ArgText renders the i-th argument of a construct, the empty string when
// the argument is absent. Group arguments render their interior only.
func (r *Renderer) ArgText(args *latextree.ParsedArguments, i int) (string, error) {
	n := args.Get(i)
	if n == nil {
		return "", nil
	}

	if g, ok := n.(*latextree.GroupNode); ok {
		return r.RenderList(g.Contents)
	}

	var b strings.Builder
	if err := r.renderNode(&b, n); err != nil {
		return "", err
	}

	return b.String(), nil
}

func (r *Renderer) renderNode(b *strings.Builder, n latextree.Node) error {
	switch v := n.(type) {
	case *latextree.CharsNode:
		b.WriteString(v.Text)
		return nil
	case *latextree.GroupNode:
		return r.renderList(b, v.Contents)
	case *latextree.CommentNode:
		if r.keepComments {
			b.WriteString(v.Text)
			b.WriteString(v.PostSpace)
		}
		return nil
	case *latextree.MacroNode:
		return r.renderMacro(b, v)
	case *latextree.EnvironmentNode:
		return r.renderEnvironment(b, v)
	case *latextree.SpecialsNode:
		return r.renderSpecials(b, v)
	case *latextree.MathNode:
		return r.renderMath(b, v)
	default:
		// error markers render as nothing, the damage is already recorded
		return nil
	}
}

func (r *Renderer) renderList(b *strings.Builder, nodes latextree.NodeList) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := r.renderNode(b, n); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) renderMacro(b *strings.Builder, m *latextree.MacroNode) error {
	rule := r.specs.macroRule(m.Name)
	if rule == nil {
		if r.strict {
			return fmt.Errorf("no text rule for macro \\%s", m.Name)
		}
		if err := r.renderContents(b, m); err != nil {
			return err
		}
		b.WriteString(m.PostSpace)
		return nil
	}

	var out string
	var err error

	if rule.Render != nil {
		out, err = rule.Render(m, r)
	} else {
		var vals []string
		if vals, err = r.argTexts(m.Args); err == nil {
			out = expandSlots(rule.Text, vals)
		}
	}
	if err != nil {
		return err
	}

	b.WriteString(out)
	b.WriteString(m.PostSpace)
	return nil
}

func (r *Renderer) renderEnvironment(b *strings.Builder, e *latextree.EnvironmentNode) error {
	rule := r.specs.environmentRule(e.Name)
	if rule == nil {
		if r.strict {
			return fmt.Errorf("no text rule for environment {%s}", e.Name)
		}
		return r.renderContents(b, e)
	}

	if rule.Math {
		return r.renderMathEnvironment(b, e)
	}

	if rule.Render != nil {
		out, err := rule.Render(e, r)
		if err != nil {
			return err
		}
		b.WriteString(out)
		return nil
	}

	body, err := r.RenderList(e.Body)
	if err != nil {
		return err
	}

	b.WriteString(expandSlots(rule.Text, []string{body}))
	return nil
}

func (r *Renderer) renderSpecials(b *strings.Builder, s *latextree.SpecialsNode) error {
	if rule := r.specs.specialsRule(s.Text); rule != nil {
		b.WriteString(rule.Replacement)
		return nil
	}

	if r.strict {
		return fmt.Errorf("no text rule for specials %q", s.Text)
	}

	b.WriteString(s.Text)
	return nil
}

func (r *Renderer) renderMath(b *strings.Builder, m *latextree.MathNode) error {
	switch r.math {
	case MathRemove:
		return nil
	case MathVerbatim:
		return r.writeSpan(b, m.Span())
	case MathWithDelimiters:
		b.WriteString(m.Open)
		if err := r.renderList(b, m.Contents); err != nil {
			return err
		}
		b.WriteString(m.Close)
		return nil
	default:
		return r.renderList(b, m.Contents)
	}
}

func (r *Renderer) renderMathEnvironment(b *strings.Builder, e *latextree.EnvironmentNode) error {
	switch r.math {
	case MathRemove:
		return nil
	case MathVerbatim:
		return r.writeSpan(b, e.Span())
	case MathWithDelimiters:
		body, err := r.RenderList(e.Body)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "\\begin{%s}%s\\end{%s}", e.Name, body, e.Name)
		return nil
	default:
		return r.renderList(b, e.Body)
	}
}

// renderContents renders the child content of a construct without a rule:
// argument groups first, then the body.
func (r *Renderer) renderContents(b *strings.Builder, n latextree.Node) error {
	for _, child := range latextree.Children(n) {
		if child == nil {
			continue
		}
		if err := r.renderNode(b, child); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) writeSpan(b *strings.Builder, sp latextree.Span) error {
	if r.src == nil {
		return fmt.Errorf("verbatim math policy requires the source text")
	}

	pos, end := sp.Pos, sp.End
	if pos < 0 {
		pos = 0
	}
	if end > len(r.src) {
		end = len(r.src)
	}
	if pos < end {
		b.WriteString(string(r.src[pos:end]))
	}

	return nil
}

func (r *Renderer) argTexts(args *latextree.ParsedArguments) ([]string, error) {
	vals := make([]string, args.Len())
	for i := range vals {
		v, err := r.ArgText(args, i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return vals, nil
}

// expandSlots substitutes %s slots with the values in order. Slots past the
// last value expand to nothing, values past the last slot are dropped.
func expandSlots(text string, vals []string) string {
	if !strings.Contains(text, "%s") {
		return text
	}

	var b strings.Builder
	next := 0
	for {
		i := strings.Index(text, "%s")
		if i < 0 {
			b.WriteString(text)
			break
		}

		b.WriteString(text[:i])
		if next < len(vals) {
			b.WriteString(vals[next])
		}
		next++
		text = text[i+2:]
	}

	return b.String()
}
