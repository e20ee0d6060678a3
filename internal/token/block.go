// Package token defines the lexeme-carrying token types shared by the
// block and inline tokenizers (§3.1 of the specification).
//
// A BlockToken (or InlineToken) is a tagged variant much like
// scandown.Block in the teacher repo: one struct whose fields are
// overloaded differently depending on Kind, rather than a Go type per
// token kind. Unlike scandown.Block — which represents a whole matched
// block-structure element spanning possibly many lines — these tokens are
// single lexemes off a character-level scan, matching this specification's
// tokenizer/parser split (tokenize first, parse the token stream second).
package token

import "fmt"

// BlockKind identifies a lexeme kind produced by the block tokenizer.
type BlockKind int

// Block token kinds, per §3.1.
const (
	InvalidBlock BlockKind = iota
	Text
	Pound
	Indent
	Newline
	Whitespace
	Colon
	LSquareBracket
	RSquareBracket
	LAngleBracket
	RAngleBracket
	LParen
	RParen
	SingleQuote
	DoubleQuote
	RuleStar
	RuleUnderline
	RuleDash
	RuleDashWithWhitespace
	RuleEquals
	BacktickFence
	TildeFence
	RAngleBracketBlockquote
	// Close is synthetic: injected by the container parser, never produced
	// by the tokenizer itself.
	Close
)

// hasNoLexeme reports the kinds the specification declares lexeme-less:
// their Lexeme is always empty, even though the scan matched real bytes.
func (k BlockKind) hasNoLexeme() bool {
	switch k {
	case Newline, Indent, RuleStar, RuleUnderline, RuleDashWithWhitespace, Close:
		return true
	default:
		return false
	}
}

// Block is a single block-level lexeme.
type Block struct {
	Kind   BlockKind
	Lexeme []byte
}

// NewBlock returns a Block token, clearing Lexeme for kinds the
// specification declares lexeme-less (§3.1 invariant).
func NewBlock(kind BlockKind, lexeme []byte) Block {
	if kind.hasNoLexeme() {
		lexeme = nil
	}
	return Block{Kind: kind, Lexeme: lexeme}
}

// String returns the kind's name.
func (k BlockKind) String() string {
	switch k {
	case Text:
		return "text"
	case Pound:
		return "pound"
	case Indent:
		return "indent"
	case Newline:
		return "newline"
	case Whitespace:
		return "whitespace"
	case Colon:
		return "colon"
	case LSquareBracket:
		return "l_square_bracket"
	case RSquareBracket:
		return "r_square_bracket"
	case LAngleBracket:
		return "l_angle_bracket"
	case RAngleBracket:
		return "r_angle_bracket"
	case LParen:
		return "l_paren"
	case RParen:
		return "r_paren"
	case SingleQuote:
		return "single_quote"
	case DoubleQuote:
		return "double_quote"
	case RuleStar:
		return "rule_star"
	case RuleUnderline:
		return "rule_underline"
	case RuleDash:
		return "rule_dash"
	case RuleDashWithWhitespace:
		return "rule_dash_with_whitespace"
	case RuleEquals:
		return "rule_equals"
	case BacktickFence:
		return "backtick_fence"
	case TildeFence:
		return "tilde_fence"
	case RAngleBracketBlockquote:
		return "r_angle_bracket_blockquote"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("InvalidBlockKind%d", int(k))
	}
}

// Format implements fmt.Formatter: "%v" -> kind, "%+v" -> kind plus lexeme.
func (t Block) Format(f fmt.State, c rune) {
	if c != 'v' {
		fmt.Fprintf(f, "%%!%c(token.Block)", c)
		return
	}
	if f.Flag('+') && len(t.Lexeme) > 0 {
		fmt.Fprintf(f, "%v %q", t.Kind, t.Lexeme)
		return
	}
	fmt.Fprint(f, t.Kind.String())
}

// IsInterrupting reports whether the kind is in the set that, as the second
// line-start token of a "maybe_close" paragraph, terminates that paragraph
// (§4.4 paragraph scanning).
func (k BlockKind) IsInterrupting() bool {
	switch k {
	case Newline, Pound, RuleStar, RuleUnderline, RuleDash, RuleDashWithWhitespace, RuleEquals, BacktickFence, TildeFence:
		return true
	default:
		return false
	}
}
