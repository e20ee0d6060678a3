package inlineparse

import (
	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/token"
)

// tryCodeSpan implements §4.6 production 1: `` `{n} … `{n} ``. Inside, every
// other inline token resolves to its literal character (a newline becomes
// a single space) rather than being escape/entity-resolved — code spans
// render raw source text.
func (p *Parser) tryCodeSpan() (*ast.Node, bool) {
	mark := p.tb.checkpoint()
	open, ok := p.tb.peek()
	if !ok || open.Kind != token.Backtick {
		return nil, false
	}
	width := len(open.Lexeme)
	p.tb.next()

	var buf []byte
	for i := 0; ; i++ {
		if i > loopBound {
			panic("inlineparse: loop_bound exceeded in tryCodeSpan")
		}
		tok, ok := p.tb.peek()
		if !ok {
			p.tb.rewind(mark)
			return nil, false
		}
		if tok.Kind == token.Backtick && len(tok.Lexeme) == width {
			p.tb.next()
			return ast.NewInlineCode(trimCodeSpanSpace(buf)), true
		}
		p.tb.next()
		buf = append(buf, literalCodeSpanBytes(tok)...)
	}
}

// literalCodeSpanBytes returns tok's contribution to a code span's raw
// content: its lexeme verbatim for lexeme-carrying kinds, a single space
// for a newline, and the single character a delimiter-run token
// represents (each token is exactly one character of its run; delimiter
// tokens carry no lexeme, per §3.1).
func literalCodeSpanBytes(tok token.Inline) []byte {
	switch tok.Kind {
	case token.InlineNewline:
		return []byte{' '}
	case token.LDelimStar, token.RDelimStar, token.LRDelimStar:
		return []byte{'*'}
	case token.LDelimUnderscore, token.RDelimUnderscore, token.LRDelimUnderscore:
		return []byte{'_'}
	case token.InlineLSquareBracket:
		return []byte{'['}
	case token.InlineRSquareBracket:
		return []byte{']'}
	case token.InlineLAngleBracket:
		return []byte{'<'}
	case token.InlineRAngleBracket:
		return []byte{'>'}
	case token.InlineLParen:
		return []byte{'('}
	case token.InlineRParen:
		return []byte{')'}
	case token.InlineSingleQuote:
		return []byte{'\''}
	case token.InlineDoubleQuote:
		return []byte{'"'}
	case token.ExclamationMark:
		return []byte{'!'}
	default:
		return tok.Lexeme
	}
}

// trimCodeSpanSpace strips exactly one leading and one trailing space, per
// §4.6, but only if the span begins and ends with a space and is not all
// spaces.
func trimCodeSpanSpace(b []byte) []byte {
	if len(b) < 2 || b[0] != ' ' || b[len(b)-1] != ' ' {
		return b
	}
	allSpace := true
	for _, c := range b {
		if c != ' ' {
			allSpace = false
			break
		}
	}
	if allSpace {
		return b
	}
	return b[1 : len(b)-1]
}
