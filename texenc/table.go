package texenc

import "regexp"

var dotsRun = regexp.MustCompile(`\.{3,}`)

// DefaultRules is the builtin text-mode chain: reserved characters, dot
// runs, typographic punctuation, accented latin letters, then greek and
// math symbols wrapped in inline math.
func DefaultRules() []Rule {
	return []Rule{
		MapRule(textSpecials),
		RegexRule{Pattern: dotsRun, Rewrite: func(string) string { return `\ldots{}` }},
		MapRule(punctuation),
		MapRule(accentedLatin),
		mathWrapped(greekLetters),
		mathWrapped(mathSymbols),
	}
}

// MathRules is the builtin math-mode chain. Sub- and superscript markers
// and the tie stay untouched, symbol commands come out bare.
func MathRules() []Rule {
	return []Rule{
		MapRule(mathSpecials),
		MapRule(greekLetters),
		MapRule(mathSymbols),
	}
}

// mathWrapped derives a text-mode rule from a command table by enclosing
// every replacement in inline math delimiters.
func mathWrapped(table map[rune]string) MapRule {
	wrapped := make(MapRule, len(table))
	for r, out := range table {
		wrapped[r] = "$" + out + "$"
	}

	return wrapped
}

var textSpecials = map[rune]string{
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'_':  `\_`,
	'$':  `\$`,
	'{':  `\{`,
	'}':  `\}`,
	'~':  `\textasciitilde{}`,
	'^':  `\textasciicircum{}`,
	'\\': `\textbackslash{}`,
}

var mathSpecials = map[rune]string{
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'$':  `\$`,
	'{':  `\{`,
	'}':  `\}`,
	'\\': `\backslash{}`,
}

var punctuation = map[rune]string{
	'—':      "---",
	'–':      "--",
	'“':      "``",
	'”':      "''",
	'‘':      "`",
	'’':      "'",
	'«':      "<<",
	'»':      ">>",
	'…':      `\ldots{}`,
	'\u00a0': "~",
}

var accentedLatin = map[rune]string{
	'á': `\'a`, 'à': "\\`a", 'â': `\^a`, 'ä': `\"a`, 'ã': `\~a`, 'å': `\aa{}`, 'ā': `\=a`,
	'é': `\'e`, 'è': "\\`e", 'ê': `\^e`, 'ë': `\"e`, 'ē': `\=e`,
	'í': `\'i`, 'ì': "\\`i", 'î': `\^i`, 'ï': `\"i`, 'ī': `\=i`,
	'ó': `\'o`, 'ò': "\\`o", 'ô': `\^o`, 'ö': `\"o`, 'õ': `\~o`, 'ø': `\o{}`, 'ō': `\=o`,
	'ú': `\'u`, 'ù': "\\`u", 'û': `\^u`, 'ü': `\"u`, 'ū': `\=u`,
	'ý': `\'y`, 'ÿ': `\"y`,
	'ç': `\c{c}`, 'ñ': `\~n`, 'š': `\v{s}`, 'ž': `\v{z}`, 'č': `\v{c}`,
	'æ': `\ae{}`, 'œ': `\oe{}`, 'ß': `\ss{}`,

	'Á': `\'A`, 'À': "\\`A", 'Â': `\^A`, 'Ä': `\"A`, 'Ã': `\~A`, 'Å': `\AA{}`,
	'É': `\'E`, 'È': "\\`E", 'Ê': `\^E`, 'Ë': `\"E`,
	'Í': `\'I`, 'Ì': "\\`I", 'Î': `\^I`, 'Ï': `\"I`,
	'Ó': `\'O`, 'Ò': "\\`O", 'Ô': `\^O`, 'Ö': `\"O`, 'Õ': `\~O`, 'Ø': `\O{}`,
	'Ú': `\'U`, 'Ù': "\\`U", 'Û': `\^U`, 'Ü': `\"U`,
	'Ý': `\'Y`,
	'Ç': `\c{C}`, 'Ñ': `\~N`, 'Š': `\v{S}`, 'Ž': `\v{Z}`, 'Č': `\v{C}`,
	'Æ': `\AE{}`, 'Œ': `\OE{}`,
}

var greekLetters = map[rune]string{
	'α': `\alpha{}`, 'β': `\beta{}`, 'γ': `\gamma{}`, 'δ': `\delta{}`,
	'ε': `\varepsilon{}`, 'ζ': `\zeta{}`, 'η': `\eta{}`, 'θ': `\theta{}`,
	'ι': `\iota{}`, 'κ': `\kappa{}`, 'λ': `\lambda{}`, 'μ': `\mu{}`,
	'ν': `\nu{}`, 'ξ': `\xi{}`, 'π': `\pi{}`, 'ρ': `\rho{}`,
	'σ': `\sigma{}`, 'τ': `\tau{}`, 'υ': `\upsilon{}`, 'φ': `\varphi{}`,
	'χ': `\chi{}`, 'ψ': `\psi{}`, 'ω': `\omega{}`,
	'Γ': `\Gamma{}`, 'Δ': `\Delta{}`, 'Θ': `\Theta{}`, 'Λ': `\Lambda{}`,
	'Ξ': `\Xi{}`, 'Π': `\Pi{}`, 'Σ': `\Sigma{}`, 'Φ': `\Phi{}`,
	'Ψ': `\Psi{}`, 'Ω': `\Omega{}`,
}

var mathSymbols = map[rune]string{
	'≤': `\le{}`, '≥': `\ge{}`, '≠': `\ne{}`, '≈': `\approx{}`,
	'≡': `\equiv{}`, '∼': `\sim{}`,
	'×': `\times{}`, '·': `\cdot{}`, '÷': `\div{}`,
	'±': `\pm{}`, '∓': `\mp{}`,
	'∪': `\cup{}`, '∩': `\cap{}`,
	'⊂': `\subset{}`, '⊃': `\supset{}`, '⊆': `\subseteq{}`, '⊇': `\supseteq{}`,
	'∈': `\in{}`, '∉': `\notin{}`,
	'∀': `\forall{}`, '∃': `\exists{}`,
	'∞': `\infty{}`, '∂': `\partial{}`, '∇': `\nabla{}`,
	'∑': `\sum{}`, '∏': `\prod{}`, '∫': `\int{}`,
	'√': `\sqrt{}`,
	'→': `\to{}`, '←': `\gets{}`, '⇒': `\Rightarrow{}`, '⇐': `\Leftarrow{}`,
	'⇔': `\Leftrightarrow{}`, '↦': `\mapsto{}`,
}
