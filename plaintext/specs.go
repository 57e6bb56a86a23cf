package plaintext

import (
	"strings"

	latextree "github.com/texkit/go-latextree"
)

// MacroText is the rendering rule for one macro. Text is a replacement
// string whose %s slots resolve to the rendered arguments in declared
// order; Render, when set, takes over entirely.
type MacroText struct {
	Name   string
	Text   string
	Render func(m *latextree.MacroNode, r *Renderer) (string, error)
}

// EnvironmentText is the rendering rule for one environment. The %s slot
// of Text resolves to the rendered body. Math routes the environment
// through the renderer's math policy instead.
type EnvironmentText struct {
	Name   string
	Text   string
	Math   bool
	Render func(e *latextree.EnvironmentNode, r *Renderer) (string, error)
}

// SpecialsText replaces a specials sequence with fixed text.
type SpecialsText struct {
	Text        string
	Replacement string
}

// Category is a named batch of rendering rules, mirroring the grammar
// registry's category shape.
type Category struct {
	Name         string
	Macros       []MacroText
	Environments []EnvironmentText
	Specials     []SpecialsText
}

type specCategory struct {
	name         string
	macros       map[string]*MacroText
	environments map[string]*EnvironmentText
	specials     map[string]*SpecialsText
}

// SpecDb holds rendering rules by category. The newest category wins on
// name clashes, so callers override the standard tables by adding their
// own category on top.
type SpecDb struct {
	cats []specCategory
}

// NewSpecDb builds a rule database from the given categories, in order.
func NewSpecDb(cats ...Category) *SpecDb {
	db := &SpecDb{}
	for _, cat := range cats {
		db.AddCategory(cat)
	}

	return db
}

// AddCategory registers a category at the highest priority.
func (db *SpecDb) AddCategory(cat Category) {
	compiled := specCategory{
		name:         cat.Name,
		macros:       make(map[string]*MacroText, len(cat.Macros)),
		environments: make(map[string]*EnvironmentText, len(cat.Environments)),
		specials:     make(map[string]*SpecialsText, len(cat.Specials)),
	}

	for i := range cat.Macros {
		compiled.macros[cat.Macros[i].Name] = &cat.Macros[i]
	}
	for i := range cat.Environments {
		compiled.environments[cat.Environments[i].Name] = &cat.Environments[i]
	}
	for i := range cat.Specials {
		compiled.specials[cat.Specials[i].Text] = &cat.Specials[i]
	}

	db.cats = append(db.cats, compiled)
}

func (db *SpecDb) macroRule(name string) *MacroText {
	for i := len(db.cats) - 1; i >= 0; i-- {
		if rule, ok := db.cats[i].macros[name]; ok {
			return rule
		}
	}

	return nil
}

func (db *SpecDb) environmentRule(name string) *EnvironmentText {
	for i := len(db.cats) - 1; i >= 0; i-- {
		if rule, ok := db.cats[i].environments[name]; ok {
			return rule
		}
	}

	return nil
}

func (db *SpecDb) specialsRule(text string) *SpecialsText {
	for i := len(db.cats) - 1; i >= 0; i-- {
		if rule, ok := db.cats[i].specials[text]; ok {
			return rule
		}
	}

	return nil
}

// StandardSpecs returns the rule database covering the standard grammar
// categories.
func StandardSpecs() *SpecDb {
	return NewSpecDb(TextMacros(), TextEnvironments(), TextLigatures())
}

// TextMacros renders the standard macro set: headings become underlined
// titles, font commands keep their content, preamble commands disappear.
func TextMacros() Category {
	return Category{
		Name: "text-macros",
		Macros: []MacroText{
			{Name: "documentclass"},
			{Name: "usepackage"},
			{Name: "input"},
			{Name: "include"},
			{Name: "newcommand"},
			{Name: "renewcommand"},
			{Name: "providecommand"},
			{Name: "newenvironment"},
			{Name: "renewenvironment"},
			{Name: "def"},

			{Name: "part", Render: heading("=")},
			{Name: "chapter", Render: heading("=")},
			{Name: "section", Render: heading("=")},
			{Name: "subsection", Render: heading("-")},
			{Name: "subsubsection", Render: heading(".")},
			{Name: "paragraph", Render: heading("")},
			{Name: "subparagraph", Render: heading("")},

			{Name: "textbf", Text: "%s"},
			{Name: "textit", Text: "%s"},
			{Name: "textrm", Text: "%s"},
			{Name: "textsf", Text: "%s"},
			{Name: "texttt", Text: "%s"},
			{Name: "textsc", Text: "%s"},
			{Name: "textsl", Text: "%s"},
			{Name: "textup", Text: "%s"},
			{Name: "textmd", Text: "%s"},
			{Name: "emph", Text: "%s"},
			{Name: "underline", Text: "%s"},
			{Name: "sout", Text: "%s"},
			{Name: "mbox", Text: "%s"},
			{Name: "text", Text: "%s"},

			{Name: "bf"},
			{Name: "it"},
			{Name: "tt"},
			{Name: "rm"},
			{Name: "sf"},
			{Name: "sc"},
			{Name: "em"},
			{Name: "bfseries"},
			{Name: "mdseries"},
			{Name: "itshape"},
			{Name: "upshape"},
			{Name: "scshape"},
			{Name: "slshape"},
			{Name: "rmfamily"},
			{Name: "sffamily"},
			{Name: "ttfamily"},
			{Name: "tiny"},
			{Name: "scriptsize"},
			{Name: "footnotesize"},
			{Name: "small"},
			{Name: "normalsize"},
			{Name: "large"},
			{Name: "Large"},
			{Name: "LARGE"},
			{Name: "huge"},
			{Name: "Huge"},

			{Name: "label"},
			{Name: "ref", Text: "%s"},
			{Name: "eqref", Text: "(%s)"},
			{Name: "pageref", Text: "%s"},
			{Name: "cite", Render: citeText},
			{Name: "footnote", Text: "(%s%s)"},
			{Name: "caption", Text: "%s%s"},

			{Name: "par", Text: "\n\n"},
			{Name: `\`, Text: "\n"},
			{Name: "newline", Text: "\n"},
			{Name: "item", Render: itemBullet},
			{Name: "hspace", Text: " "},
			{Name: "vspace", Text: "\n"},
			{Name: "hskip", Text: " "},
			{Name: "vskip", Text: "\n"},
			{Name: "hline"},
			{Name: "cline"},
			{Name: "multicolumn", Render: multicolumnText},

			{Name: "includegraphics", Render: imageText},
			{Name: "url", Text: "%s"},
			{Name: "href", Render: linkText},
			{Name: "epigraph", Text: "%s\n%s\n"},
			{Name: "symbol"},
			{Name: "verb", Render: verbText},

			{Name: "dots", Text: "…"},
			{Name: "ldots", Text: "…"},
			{Name: "cdots", Text: "…"},
			{Name: "vdots", Text: "⋮"},
			{Name: "ddots", Text: "⋱"},

			{Name: "'", Render: accent("́")},
			{Name: "`", Render: accent("̀")},
			{Name: "^", Render: accent("̂")},
			{Name: `"`, Render: accent("̈")},
			{Name: "~", Render: accent("̃")},
			{Name: "=", Render: accent("̄")},
			{Name: ".", Render: accent("̇")},
			{Name: "c", Render: accent("̧")},
			{Name: "v", Render: accent("̌")},
			{Name: "u", Render: accent("̆")},
			{Name: "H", Render: accent("̋")},

			{Name: "%", Text: "%"},
			{Name: "&", Text: "&"},
			{Name: "#", Text: "#"},
			{Name: "$", Text: "$"},
			{Name: "_", Text: "_"},
			{Name: "{", Text: "{"},
			{Name: "}", Text: "}"},
			{Name: "-"},
			{Name: ",", Text: " "},
			{Name: ";", Text: " "},
			{Name: ":", Text: " "},
			{Name: "!"},
			{Name: " ", Text: " "},

			{Name: "frac", Text: "%s/%s"},
			{Name: "binom", Text: "(%s %s)"},
			{Name: "sqrt", Render: sqrtText},
			{Name: "overline", Render: accent("̅")},
			{Name: "hat", Render: accent("̂")},
			{Name: "bar", Render: accent("̄")},
			{Name: "vec", Render: accent("⃗")},
			{Name: "dot", Render: accent("̇")},
			{Name: "ddot", Render: accent("̈")},
			{Name: "mathrm", Text: "%s"},
			{Name: "mathbf", Text: "%s"},
			{Name: "mathit", Text: "%s"},
			{Name: "mathsf", Text: "%s"},
			{Name: "mathtt", Text: "%s"},
			{Name: "mathcal", Text: "%s"},
			{Name: "mathbb", Text: "%s"},
			{Name: "operatorname", Text: "%s"},
			{Name: "left", Text: "%s"},
			{Name: "right", Text: "%s"},
			{Name: "big", Text: "%s"},
			{Name: "bigl", Text: "%s"},
			{Name: "bigr", Text: "%s"},
			{Name: "Big", Text: "%s"},
			{Name: "Bigl", Text: "%s"},
			{Name: "Bigr", Text: "%s"},

			{Name: "le", Text: "≤"},
			{Name: "leq", Text: "≤"},
			{Name: "ge", Text: "≥"},
			{Name: "geq", Text: "≥"},
			{Name: "ne", Text: "≠"},
			{Name: "neq", Text: "≠"},
			{Name: "sim", Text: "∼"},
			{Name: "approx", Text: "≈"},
			{Name: "equiv", Text: "≡"},
			{Name: "times", Text: "×"},
			{Name: "cdot", Text: "·"},
			{Name: "div", Text: "÷"},
			{Name: "pm", Text: "±"},
			{Name: "mp", Text: "∓"},
			{Name: "cup", Text: "∪"},
			{Name: "cap", Text: "∩"},
			{Name: "subset", Text: "⊂"},
			{Name: "supset", Text: "⊃"},
			{Name: "subseteq", Text: "⊆"},
			{Name: "supseteq", Text: "⊇"},
			{Name: "in", Text: "∈"},
			{Name: "notin", Text: "∉"},
			{Name: "forall", Text: "∀"},
			{Name: "exists", Text: "∃"},
			{Name: "infty", Text: "∞"},
			{Name: "partial", Text: "∂"},
			{Name: "nabla", Text: "∇"},
			{Name: "sum", Text: "∑"},
			{Name: "prod", Text: "∏"},
			{Name: "int", Text: "∫"},
			{Name: "to", Text: "→"},
			{Name: "gets", Text: "←"},
			{Name: "leftarrow", Text: "←"},
			{Name: "rightarrow", Text: "→"},
			{Name: "Leftarrow", Text: "⇐"},
			{Name: "Rightarrow", Text: "⇒"},
			{Name: "Leftrightarrow", Text: "⇔"},
			{Name: "mapsto", Text: "↦"},

			{Name: "alpha", Text: "α"},
			{Name: "beta", Text: "β"},
			{Name: "gamma", Text: "γ"},
			{Name: "delta", Text: "δ"},
			{Name: "epsilon", Text: "ε"},
			{Name: "varepsilon", Text: "ε"},
			{Name: "zeta", Text: "ζ"},
			{Name: "eta", Text: "η"},
			{Name: "theta", Text: "θ"},
			{Name: "iota", Text: "ι"},
			{Name: "kappa", Text: "κ"},
			{Name: "lambda", Text: "λ"},
			{Name: "mu", Text: "μ"},
			{Name: "nu", Text: "ν"},
			{Name: "xi", Text: "ξ"},
			{Name: "pi", Text: "π"},
			{Name: "rho", Text: "ρ"},
			{Name: "sigma", Text: "σ"},
			{Name: "tau", Text: "τ"},
			{Name: "upsilon", Text: "υ"},
			{Name: "phi", Text: "φ"},
			{Name: "varphi", Text: "φ"},
			{Name: "chi", Text: "χ"},
			{Name: "psi", Text: "ψ"},
			{Name: "omega", Text: "ω"},
			{Name: "Gamma", Text: "Γ"},
			{Name: "Delta", Text: "Δ"},
			{Name: "Theta", Text: "Θ"},
			{Name: "Lambda", Text: "Λ"},
			{Name: "Xi", Text: "Ξ"},
			{Name: "Pi", Text: "Π"},
			{Name: "Sigma", Text: "Σ"},
			{Name: "Phi", Text: "Φ"},
			{Name: "Psi", Text: "Ψ"},
			{Name: "Omega", Text: "Ω"},
		},
	}
}

// TextEnvironments renders the standard environment set. Math environments
// carry the Math flag so the renderer's policy decides their fate, tabular
// and array go through the table assembler.
func TextEnvironments() Category {
	mathEnvs := []string{
		"math",
		"equation", "equation*",
		"displaymath",
		"align", "align*",
		"gather", "gather*",
		"multline", "multline*",
		"eqnarray", "eqnarray*",
	}

	cat := Category{
		Name: "text-environments",
		Environments: []EnvironmentText{
			{Name: "document", Text: "%s"},
			{Name: "abstract", Text: "%s"},
			{Name: "center", Text: "%s"},
			{Name: "flushleft", Text: "%s"},
			{Name: "flushright", Text: "%s"},
			{Name: "quote", Text: "%s"},
			{Name: "quotation", Text: "%s"},
			{Name: "verse", Text: "%s"},
			{Name: "titlepage", Text: "%s"},
			{Name: "itemize", Text: "%s"},
			{Name: "enumerate", Text: "%s"},
			{Name: "description", Text: "%s"},
			{Name: "figure", Text: "%s"},
			{Name: "figure*", Text: "%s"},
			{Name: "table", Text: "%s"},
			{Name: "table*", Text: "%s"},
			{Name: "minipage", Text: "%s"},
			{Name: "wrapfigure", Text: "%s"},
			{Name: "thebibliography", Text: "%s"},
			{Name: "verbatim", Text: "%s"},
			{Name: "verbatim*", Text: "%s"},
			{Name: "lstlisting", Text: "%s"},
			{Name: "comment"},
			{Name: "tabular", Render: tableText},
			{Name: "array", Render: tableText},
		},
	}

	for _, name := range mathEnvs {
		cat.Environments = append(cat.Environments, EnvironmentText{Name: name, Math: true})
	}

	return cat
}

// TextLigatures maps the standard specials to their unicode text.
func TextLigatures() Category {
	return Category{
		Name: "text-ligatures",
		Specials: []SpecialsText{
			{Text: "\n\n", Replacement: "\n\n"},
			{Text: "~", Replacement: " "},
			{Text: "&", Replacement: ""},
			{Text: "#", Replacement: "#"},
			{Text: "_", Replacement: "_"},
			{Text: "^", Replacement: "^"},
			{Text: "``", Replacement: "\""},
			{Text: "''", Replacement: "\""},
			{Text: "---", Replacement: "—"},
			{Text: "--", Replacement: "–"},
			{Text: "<<", Replacement: "«"},
			{Text: ">>", Replacement: "»"},
		},
	}
}

// heading renders a sectioning macro as its title underlined with the
// given character, or the bare title when the character is empty.
func heading(underline string) func(*latextree.MacroNode, *Renderer) (string, error) {
	return func(m *latextree.MacroNode, r *Renderer) (string, error) {
		title, err := r.ArgText(m.Args, 2)
		if err != nil {
			return "", err
		}

		title = strings.TrimSpace(title)
		if title == "" || underline == "" {
			return title + "\n", nil
		}

		return title + "\n" + strings.Repeat(underline, len([]rune(title))) + "\n", nil
	}
}

// itemBullet renders an item marker: the optional label when present, a
// star bullet otherwise. The macro's own post-space separates it from the
// item text.
func itemBullet(m *latextree.MacroNode, r *Renderer) (string, error) {
	if m.Args.Present(0) {
		return r.ArgText(m.Args, 0)
	}

	return "*", nil
}

func citeText(m *latextree.MacroNode, r *Renderer) (string, error) {
	key, err := r.ArgText(m.Args, 1)
	if err != nil {
		return "", err
	}

	if m.Args.Present(0) {
		note, err := r.ArgText(m.Args, 0)
		if err != nil {
			return "", err
		}
		return "[" + key + ", " + note + "]", nil
	}

	return "[" + key + "]", nil
}

func multicolumnText(m *latextree.MacroNode, r *Renderer) (string, error) {
	return r.ArgText(m.Args, 2)
}

// imageText stands in for an image: the alt option when one is given in
// the key=value options, the source reference otherwise.
func imageText(m *latextree.MacroNode, r *Renderer) (string, error) {
	src, err := r.ArgText(m.Args, 1)
	if err != nil {
		return "", err
	}

	if m.Args.Present(0) {
		opts, err := r.ArgText(m.Args, 0)
		if err != nil {
			return "", err
		}
		if kv, err := latextree.KeyValue(opts); err == nil && kv["alt"] != "" {
			src = kv["alt"]
		}
	}

	return "[" + strings.TrimSpace(src) + "]", nil
}

func linkText(m *latextree.MacroNode, r *Renderer) (string, error) {
	href, err := r.ArgText(m.Args, 0)
	if err != nil {
		return "", err
	}

	label, err := r.ArgText(m.Args, 1)
	if err != nil {
		return "", err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return href, nil
	}

	return label + " (" + href + ")", nil
}

func verbText(m *latextree.MacroNode, r *Renderer) (string, error) {
	return r.ArgText(m.Args, 1)
}

func sqrtText(m *latextree.MacroNode, r *Renderer) (string, error) {
	val, err := r.ArgText(m.Args, 1)
	if err != nil {
		return "", err
	}

	if m.Args.Present(0) {
		idx, err := r.ArgText(m.Args, 0)
		if err != nil {
			return "", err
		}
		return idx + "√" + val, nil
	}

	return "√" + val, nil
}

// accent appends a combining mark to the first rune of the argument.
func accent(mark string) func(*latextree.MacroNode, *Renderer) (string, error) {
	return func(m *latextree.MacroNode, r *Renderer) (string, error) {
		val, err := r.ArgText(m.Args, 0)
		if err != nil || val == "" {
			return val, err
		}

		runes := []rune(val)
		return string(runes[:1]) + mark + string(runes[1:]), nil
	}
}
