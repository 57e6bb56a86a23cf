package latextree

// StandardContext returns a fresh context database covering the common
// grammar: core text macros, sectioning, references, font switches, math
// and verbatim constructs and the usual ligatures. Unknown macros and
// environments fall back to zero-argument specifications, so documents with
// home-grown commands still parse; use NewContextDb for a strict registry.
func StandardContext() *ContextDb {
	db := NewContextDb()
	for _, cat := range StandardCategories() {
		// fresh categories on a fresh database, registration cannot fail
		_ = db.AddCategory(cat)
	}

	_ = db.SetUnknownMacroSpec(&MacroSpec{})
	_ = db.SetUnknownEnvironmentSpec(&EnvironmentSpec{})

	return db
}

// StandardCategories returns the categories StandardContext registers, in
// registration order, for databases that want only a subset.
func StandardCategories() []Category {
	return []Category{
		coreMacros(),
		coreEnvironments(),
		mathCategory(),
		verbatimCategory(),
		ligatureCategory(),
	}
}

func coreMacros() Category {
	return Category{
		Name: "latex-core",
		Macros: []MacroSpec{
			macro("documentclass", "om"),
			macro("usepackage", "om"),
			macro("input", "m"),
			macro("include", "m"),

			macro("newcommand", "smoom"),
			macro("renewcommand", "smoom"),
			macro("providecommand", "smoom"),
			macro("newenvironment", "moomm"),
			macro("renewenvironment", "moomm"),
			macro("def", "mm"),

			macro("part", "som"),
			macro("chapter", "som"),
			macro("section", "som"),
			macro("subsection", "som"),
			macro("subsubsection", "som"),
			macro("paragraph", "som"),
			macro("subparagraph", "som"),

			macro("textbf", "m"),
			macro("textit", "m"),
			macro("textrm", "m"),
			macro("textsf", "m"),
			macro("texttt", "m"),
			macro("textsc", "m"),
			macro("textsl", "m"),
			macro("textup", "m"),
			macro("textmd", "m"),
			macro("emph", "m"),
			macro("underline", "m"),
			macro("sout", "m"),
			macro("mbox", "m"),
			macro("text", "m"),

			// font and size declarations switch state for the rest of the
			// scope, they take no arguments
			macro("bf", ""),
			macro("it", ""),
			macro("tt", ""),
			macro("rm", ""),
			macro("sf", ""),
			macro("sc", ""),
			macro("em", ""),
			macro("bfseries", ""),
			macro("mdseries", ""),
			macro("itshape", ""),
			macro("upshape", ""),
			macro("scshape", ""),
			macro("slshape", ""),
			macro("rmfamily", ""),
			macro("sffamily", ""),
			macro("ttfamily", ""),
			macro("tiny", ""),
			macro("scriptsize", ""),
			macro("footnotesize", ""),
			macro("small", ""),
			macro("normalsize", ""),
			macro("large", ""),
			macro("Large", ""),
			macro("LARGE", ""),
			macro("huge", ""),
			macro("Huge", ""),

			macro("label", "m"),
			macro("ref", "m"),
			macro("eqref", "m"),
			macro("pageref", "m"),
			macro("cite", "om"),
			macro("footnote", "om"),
			macro("caption", "om"),

			macro("par", ""),
			macro(`\`, "t*o"),
			macro("newline", ""),
			macro("item", "o"),
			macro("hspace", "sm"),
			macro("vspace", "sm"),
			macro("hskip", ""),
			macro("vskip", ""),
			macro("hline", ""),
			macro("cline", "m"),
			macro("multicolumn", "mmm"),

			macro("includegraphics", "om"),
			macro("url", "v"),
			macro("href", "vm"),
			macro("epigraph", "mm"),
			macro("symbol", "m"),

			macro("dots", ""),
			macro("ldots", ""),
			macro("cdots", ""),
			macro("vdots", ""),
			macro("ddots", ""),

			// accents and escaped special characters
			macro("'", "m"),
			macro("`", "m"),
			macro("^", "m"),
			macro(`"`, "m"),
			macro("~", "m"),
			macro("=", "m"),
			macro(".", "m"),
			macro("c", "m"),
			macro("v", "m"),
			macro("u", "m"),
			macro("H", "m"),
			macro("%", ""),
			macro("&", ""),
			macro("#", ""),
			macro("$", ""),
			macro("_", ""),
			macro("{", ""),
			macro("}", ""),
			macro("-", ""),
			macro(",", ""),
			macro(";", ""),
			macro(":", ""),
			macro("!", ""),
			macro(" ", ""),
		},
	}
}

func coreEnvironments() Category {
	return Category{
		Name: "latex-environments",
		Environments: []EnvironmentSpec{
			environment("document", ""),
			environment("abstract", ""),
			environment("center", ""),
			environment("flushleft", ""),
			environment("flushright", ""),
			environment("quote", ""),
			environment("quotation", ""),
			environment("verse", ""),
			environment("titlepage", ""),
			environment("itemize", "o"),
			environment("enumerate", "o"),
			environment("description", "o"),
			environment("figure", "o"),
			environment("figure*", "o"),
			environment("table", "o"),
			environment("table*", "o"),
			environment("tabular", "om"),
			environment("array", "om"),
			environment("minipage", "om"),
			environment("wrapfigure", "omm"),
			environment("thebibliography", "m"),
		},
	}
}

func mathCategory() Category {
	displayEnvs := []string{
		"equation", "equation*",
		"displaymath",
		"align", "align*",
		"gather", "gather*",
		"multline", "multline*",
		"eqnarray", "eqnarray*",
	}

	cat := Category{
		Name: "latex-math",
		Macros: []MacroSpec{
			macro("frac", "mm"),
			macro("binom", "mm"),
			macro("sqrt", "om"),
			macro("overline", "m"),
			macro("hat", "m"),
			macro("bar", "m"),
			macro("vec", "m"),
			macro("dot", "m"),
			macro("ddot", "m"),
			macro("mathrm", "m"),
			macro("mathbf", "m"),
			macro("mathit", "m"),
			macro("mathsf", "m"),
			macro("mathtt", "m"),
			macro("mathcal", "m"),
			macro("mathbb", "m"),
			macro("operatorname", "m"),
			macro("left", "m"),
			macro("right", "m"),
			macro("big", "m"),
			macro("bigl", "m"),
			macro("bigr", "m"),
			macro("Big", "m"),
			macro("Bigl", "m"),
			macro("Bigr", "m"),
		},
		Environments: []EnvironmentSpec{
			mathEnvironment("math", false),
		},
	}

	for _, name := range displayEnvs {
		cat.Environments = append(cat.Environments, mathEnvironment(name, true))
	}

	return cat
}

func verbatimCategory() Category {
	return Category{
		Name: "latex-verbatim",
		Macros: []MacroSpec{
			macro("verb", "sv"),
		},
		Environments: []EnvironmentSpec{
			verbatimEnvironment("verbatim", ""),
			verbatimEnvironment("verbatim*", ""),
			verbatimEnvironment("lstlisting", "o"),
			verbatimEnvironment("comment", ""),
		},
	}
}

func ligatureCategory() Category {
	return Category{
		Name: "latex-ligatures",
		Specials: []SpecialsSpec{
			{Text: paragraphSpecials},
			{Text: "~"},
			{Text: "&"},
			{Text: "#"},
			{Text: "_"},
			{Text: "^"},
			{Text: "``"},
			{Text: "''"},
			{Text: "---"},
			{Text: "--"},
			{Text: "<<"},
			{Text: ">>"},
		},
	}
}

func macro(name, args string) MacroSpec {
	m := MacroSpec{Name: name}
	if args != "" {
		m.Args = MustArgSpec(args)
	}

	return m
}

func environment(name, args string) EnvironmentSpec {
	e := EnvironmentSpec{Name: name}
	if args != "" {
		e.Args = MustArgSpec(args)
	}

	return e
}

func mathEnvironment(name string, display bool) EnvironmentSpec {
	return EnvironmentSpec{Name: name, IsMathMode: true, MathDisplay: display}
}

func verbatimEnvironment(name, args string) EnvironmentSpec {
	e := EnvironmentSpec{Name: name, Verbatim: true}
	if args != "" {
		e.Args = MustArgSpec(args)
	}

	return e
}
