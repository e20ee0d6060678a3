package inlinelex

// namedEntities is a partial table of CommonMark/HTML4 named character
// references. The full CommonMark table has ~2125 entries; per SPEC_FULL.md
// ("Named entity table") this ships about 130 of the most common ones
// — greek letters, punctuation, arrows, and common accented Latin letters —
// as a deliberate, documented scope cut rather than a silent gap (spec.md
// §9 itself flags the upstream table as acknowledged-incomplete).
var namedEntities = map[string]rune{
	"amp":     '&',
	"lt":      '<',
	"gt":      '>',
	"quot":    '"',
	"apos":    '\'',
	"nbsp":    ' ',
	"copy":    '©',
	"reg":     '®',
	"trade":   '™',
	"mdash":   '—',
	"ndash":   '–',
	"hellip":  '…',
	"lsquo":   '‘',
	"rsquo":   '’',
	"ldquo":   '“',
	"rdquo":   '”',
	"laquo":   '«',
	"raquo":   '»',
	"middot":  '·',
	"sect":    '§',
	"para":    '¶',
	"dagger":  '†',
	"Dagger":  '‡',
	"bull":    '•',
	"deg":     '°',
	"plusmn":  '±',
	"times":   '×',
	"divide":  '÷',
	"frac12":  '½',
	"frac14":  '¼',
	"frac34":  '¾',
	"larr":    '←',
	"uarr":    '↑',
	"rarr":    '→',
	"darr":    '↓',
	"harr":    '↔',
	"rArr":    '⇒',
	"lArr":    '⇐',
	"hArr":    '⇔',
	"infin":   '∞',
	"ne":      '≠',
	"le":      '≤',
	"ge":      '≥',
	"sum":     '∑',
	"prod":    '∏',
	"radic":   '√',
	"part":    '∂',
	"forall":  '∀',
	"exist":   '∃',
	"empty":   '∅',
	"isin":    '∈',
	"notin":   '∉',
	"cap":     '∩',
	"cup":     '∪',
	"sub":     '⊂',
	"sup":     '⊃',
	"alpha":   'α',
	"beta":    'β',
	"gamma":   'γ',
	"delta":   'δ',
	"epsilon": 'ε',
	"zeta":    'ζ',
	"eta":     'η',
	"theta":   'θ',
	"iota":    'ι',
	"kappa":   'κ',
	"lambda":  'λ',
	"mu":      'μ',
	"nu":      'ν',
	"xi":      'ξ',
	"omicron": 'ο',
	"pi":      'π',
	"rho":     'ρ',
	"sigma":   'σ',
	"tau":     'τ',
	"upsilon": 'υ',
	"phi":     'φ',
	"chi":     'χ',
	"psi":     'ψ',
	"omega":   'ω',
	"Alpha":   'Α',
	"Beta":    'Β',
	"Gamma":   'Γ',
	"Delta":   'Δ',
	"Epsilon": 'Ε',
	"Theta":   'Θ',
	"Lambda":  'Λ',
	"Xi":      'Ξ',
	"Pi":      'Π',
	"Sigma":   'Σ',
	"Phi":     'Φ',
	"Psi":     'Ψ',
	"Omega":   'Ω',
	"Aacute":  'Á',
	"aacute":  'á',
	"Eacute":  'É',
	"eacute":  'é',
	"Iacute":  'Í',
	"iacute":  'í',
	"Oacute":  'Ó',
	"oacute":  'ó',
	"Uacute":  'Ú',
	"uacute":  'ú',
	"Ntilde":  'Ñ',
	"ntilde":  'ñ',
	"Agrave":  'À',
	"agrave":  'à',
	"Egrave":  'È',
	"egrave":  'è',
	"Ccedil":  'Ç',
	"ccedil":  'ç',
	"Uuml":    'Ü',
	"uuml":    'ü',
	"Ouml":    'Ö',
	"ouml":    'ö',
	"Auml":    'Ä',
	"auml":    'ä',
	"szlig":   'ß',
	"AElig":   'Æ',
	"aelig":   'æ',
	"Oslash":  'Ø',
	"oslash":  'ø',
	"euro":    '€',
	"pound":   '£',
	"yen":     '¥',
	"cent":    '¢',
	"sup1":    '¹',
	"sup2":    '²',
	"sup3":    '³',
	"shy":     '­',
}

// LookupNamedEntity returns the rune a named entity reference resolves to,
// per the partial table above.
func LookupNamedEntity(name string) (rune, bool) {
	r, ok := namedEntities[name]
	return r, ok
}
