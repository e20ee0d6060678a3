package token

import "fmt"

// InlineKind identifies a lexeme kind produced by the inline tokenizer.
type InlineKind int

// Inline token kinds, per §3.1.
const (
	InvalidInline InlineKind = iota
	InlineText
	InlineWhitespace
	InlineNewline
	Backtick
	EntityReference
	DecimalCharRef
	HexadecimalCharRef
	AbsoluteURI
	Email
	InlineLSquareBracket
	InlineRSquareBracket
	InlineLAngleBracket
	InlineRAngleBracket
	InlineLParen
	InlineRParen
	InlineSingleQuote
	InlineDoubleQuote
	ExclamationMark

	LDelimStar
	RDelimStar
	LRDelimStar
	LDelimUnderscore
	RDelimUnderscore
	LRDelimUnderscore
)

// IsDelim reports whether k is one of the six delimiter-run kinds that
// carry DelimContext instead of a lexeme.
func (k InlineKind) IsDelim() bool {
	switch k {
	case LDelimStar, RDelimStar, LRDelimStar, LDelimUnderscore, RDelimUnderscore, LRDelimUnderscore:
		return true
	default:
		return false
	}
}

// IsStarDelim reports whether k is one of the three star-run delimiter
// kinds.
func (k InlineKind) IsStarDelim() bool {
	switch k {
	case LDelimStar, RDelimStar, LRDelimStar:
		return true
	default:
		return false
	}
}

// CanOpen reports whether a delimiter-run kind may open emphasis/strong.
func (k InlineKind) CanOpen() bool {
	switch k {
	case LDelimStar, LRDelimStar, LDelimUnderscore, LRDelimUnderscore:
		return true
	default:
		return false
	}
}

// CanClose reports whether a delimiter-run kind may close emphasis/strong.
func (k InlineKind) CanClose() bool {
	switch k {
	case RDelimStar, LRDelimStar, RDelimUnderscore, LRDelimUnderscore:
		return true
	default:
		return false
	}
}

// IsBothFlanking reports whether a delimiter-run kind flanks on both sides
// (the "lr_" kinds), which is what triggers the rule 9/10 multiple-of-3
// check.
func (k InlineKind) IsBothFlanking() bool {
	switch k {
	case LRDelimStar, LRDelimUnderscore:
		return true
	default:
		return false
	}
}

// DelimContext carries the context a delimiter-run token kind needs instead
// of a lexeme: the original run length (shared identically by every
// single-character token materialized from that run), plus, for underscore
// runs only, whether the run is flanked by punctuation on either side. The
// inline parser does not read these two flags; an intraword underscore run
// never reaches it as delimiter tokens (the tokenizer emits it as text).
//
// Preserving "N tokens sharing one context record" (rather than one wide
// token) is deliberate: the inline parser must consume delimiters one at a
// time while still knowing the run they came from, to apply the rule 9/10
// check. See §3.1 and §9 "Context-carrying delimiter runs".
type DelimContext struct {
	RunLen          uint16
	PrecededByPunct bool
	FollowedByPunct bool
}

// Inline is a single inline-level lexeme.
type Inline struct {
	Kind    InlineKind
	Lexeme  []byte
	Context DelimContext
}

// NewInline returns a plain-lexeme Inline token.
func NewInline(kind InlineKind, lexeme []byte) Inline {
	return Inline{Kind: kind, Lexeme: lexeme}
}

// NewDelim returns a single delimiter-run token carrying ctx.
func NewDelim(kind InlineKind, ctx DelimContext) Inline {
	return Inline{Kind: kind, Context: ctx}
}

func (k InlineKind) String() string {
	switch k {
	case InlineText:
		return "text"
	case InlineWhitespace:
		return "whitespace"
	case InlineNewline:
		return "newline"
	case Backtick:
		return "backtick"
	case EntityReference:
		return "entity_reference"
	case DecimalCharRef:
		return "decimal_character_reference"
	case HexadecimalCharRef:
		return "hexadecimal_character_reference"
	case AbsoluteURI:
		return "absolute_uri"
	case Email:
		return "email"
	case InlineLSquareBracket:
		return "l_square_bracket"
	case InlineRSquareBracket:
		return "r_square_bracket"
	case InlineLAngleBracket:
		return "l_angle_bracket"
	case InlineRAngleBracket:
		return "r_angle_bracket"
	case InlineLParen:
		return "l_paren"
	case InlineRParen:
		return "r_paren"
	case InlineSingleQuote:
		return "single_quote"
	case InlineDoubleQuote:
		return "double_quote"
	case ExclamationMark:
		return "exclamation_mark"
	case LDelimStar:
		return "l_delim_star"
	case RDelimStar:
		return "r_delim_star"
	case LRDelimStar:
		return "lr_delim_star"
	case LDelimUnderscore:
		return "l_delim_underscore"
	case RDelimUnderscore:
		return "r_delim_underscore"
	case LRDelimUnderscore:
		return "lr_delim_underscore"
	default:
		return fmt.Sprintf("InvalidInlineKind%d", int(k))
	}
}

// Format implements fmt.Formatter: "%v" -> kind, "%+v" -> kind plus
// lexeme/context.
func (t Inline) Format(f fmt.State, c rune) {
	if c != 'v' {
		fmt.Fprintf(f, "%%!%c(token.Inline)", c)
		return
	}
	if !f.Flag('+') {
		fmt.Fprint(f, t.Kind.String())
		return
	}
	if t.Kind.IsDelim() {
		fmt.Fprintf(f, "%v run_len=%d", t.Kind, t.Context.RunLen)
		if !t.Kind.IsStarDelim() {
			fmt.Fprintf(f, " preceded_by_punct=%v followed_by_punct=%v", t.Context.PrecededByPunct, t.Context.FollowedByPunct)
		}
		return
	}
	if len(t.Lexeme) > 0 {
		fmt.Fprintf(f, "%v %q", t.Kind, t.Lexeme)
		return
	}
	fmt.Fprint(f, t.Kind.String())
}
