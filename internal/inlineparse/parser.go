// Package inlineparse implements the InlineParser (§4.6): recursive
// descent with backtracking over the inline token stream inlinelex
// produces, turning one text-bearing block's bytes into a slice of AST
// inline nodes.
//
// Shaped like blockparse.LeafParser — a checkpoint/rewind tokenBuffer
// wrapping the tokenizer, tried productions in precedence order, a
// loop_bound guard turning a forgotten-consume bug into a panic rather
// than an infinite loop (§4.6 "Failure semantics").
package inlineparse

import (
	"errors"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/inlinelex"
	"github.com/sinclairtarget/atrus/internal/token"
	"github.com/sinclairtarget/atrus/internal/uri"
)

// loopBound is the generous fixed iteration limit §4.6 asks for: any
// parser loop that iterates past it without the token position advancing
// is a forgotten-consume bug, and panicking beats hanging forever.
const loopBound = 100000

// errNestedLink is an internal control-flow signal: encountering a link or
// image production while already inside a link's descriptor text means the
// *entire* outer link attempt must fail and backtrack (§4.6, "nested links
// are forbidden... aborts the outer parse via backtracking"), not just that
// one nested attempt.
var errNestedLink = errors.New("inlineparse: nested link aborts outer parse")

// Parser parses the inline content of a single text-bearing block.
type Parser struct {
	tb         *tokenBuffer
	inLinkText bool
}

// Parse tokenizes src with inlinelex and parses it to completion, returning
// its top-level inline children.
func Parse(src []byte) ([]*ast.Node, error) {
	p := &Parser{tb: newTokenBuffer(inlinelex.New(src))}
	nodes, err := p.parseSequence(false)
	if err != nil && !errors.Is(err, errNestedLink) {
		return nil, err
	}
	return nodes, nil
}

// parseSequence consumes tokens until EOF (or, if stopAtBracket, until a
// balanced closing `]`), dispatching each position to the highest-priority
// production that matches and falling through to literal-text rendering
// otherwise.
func (p *Parser) parseSequence(stopAtBracket bool) ([]*ast.Node, error) {
	nl := ast.NewNodeList(nil)
	bracketDepth := 0

	for i := 0; ; i++ {
		if i > loopBound {
			panic("inlineparse: loop_bound exceeded in parseSequence")
		}
		tok, ok := p.tb.peek()
		if !ok {
			break
		}

		if stopAtBracket && tok.Kind == token.InlineRSquareBracket && bracketDepth == 0 {
			break
		}

		if p.tryLeadingEscape(&nl) {
			continue
		}

		before := p.tb.checkpoint()

		if node, matched, err := p.tryOneProduction(); err != nil {
			return nil, err
		} else if matched {
			if p.tb.checkpoint() <= before {
				panic("inlineparse: production matched without consuming a token")
			}
			if node != nil {
				nl.Append(node)
			}
			continue
		}

		// Nothing matched: render this single token as literal text and
		// advance past it ourselves.
		tok, _ = p.tb.next()
		if tok.Kind == token.InlineLSquareBracket {
			bracketDepth++
		}
		if tok.Kind == token.InlineRSquareBracket && bracketDepth > 0 {
			bracketDepth--
		}
		appendLiteral(&nl, tok)
	}

	return nl.Slice(), nil
}

// tryOneProduction attempts, in §4.6's precedence order, the productions
// that can fire at the current position. ok reports whether one matched
// (node may be nil for matches that produce no node, though none currently
// do). A non-nil error is the nested-link abort signal propagating up.
func (p *Parser) tryOneProduction() (node *ast.Node, ok bool, err error) {
	tok, has := p.tb.peek()
	if !has {
		return nil, false, nil
	}

	switch tok.Kind {
	case token.Backtick:
		if n, matched := p.tryCodeSpan(); matched {
			return n, true, nil
		}
	case token.InlineLAngleBracket:
		if n, matched := p.tryAutolink(); matched {
			return n, true, nil
		}
	case token.ExclamationMark:
		if n, matched, aerr := p.tryImage(); aerr != nil {
			return nil, false, aerr
		} else if matched {
			return n, true, nil
		}
	case token.InlineLSquareBracket:
		if p.inLinkText {
			// A nested link/image construct aborts the whole outer parse.
			if n, matched, _ := p.tryLink(); matched {
				_ = n
				return nil, false, errNestedLink
			}
			return nil, false, nil
		}
		if n, matched, aerr := p.tryLink(); aerr != nil {
			return nil, false, aerr
		} else if matched {
			return n, true, nil
		}
	case token.LDelimStar, token.LRDelimStar, token.RDelimStar:
		if n, matched, eerr := p.tryEmphasisFamily(true); eerr != nil {
			return nil, false, eerr
		} else if matched {
			return n, true, nil
		}
	case token.LDelimUnderscore, token.LRDelimUnderscore, token.RDelimUnderscore:
		if n, matched, eerr := p.tryEmphasisFamily(false); eerr != nil {
			return nil, false, eerr
		} else if matched {
			return n, true, nil
		}
	}
	return nil, false, nil
}

// appendLiteral renders a single token that matched no production as
// literal bytes into nl, resolving character references, removing
// escapable backslashes, and mapping single-char/delimiter token kinds back
// to their source character — the "text resolution" §4.6 describes.
func appendLiteral(nl *ast.NodeList, tok token.Inline) {
	switch tok.Kind {
	case token.InlineText:
		nl.AppendText(resolveEscapes(tok.Lexeme))
	case token.InlineWhitespace:
		nl.AppendText(tok.Lexeme)
	case token.InlineNewline:
		nl.AppendByte('\n')
	case token.AbsoluteURI, token.Email:
		nl.AppendText(tok.Lexeme)
	case token.EntityReference:
		name := string(tok.Lexeme[1 : len(tok.Lexeme)-1])
		if r, known := inlinelex.LookupNamedEntity(name); known {
			nl.AppendText([]byte(string(r)))
		} else {
			nl.AppendText(tok.Lexeme)
		}
	case token.DecimalCharRef:
		if r, ok := decodeDecimalRef(tok.Lexeme); ok {
			nl.AppendText([]byte(string(r)))
		} else {
			nl.AppendText(tok.Lexeme)
		}
	case token.HexadecimalCharRef:
		if r, ok := decodeHexRef(tok.Lexeme); ok {
			nl.AppendText([]byte(string(r)))
		} else {
			nl.AppendText(tok.Lexeme)
		}
	case token.Backtick:
		nl.AppendText(tok.Lexeme)
	case token.LDelimStar, token.RDelimStar, token.LRDelimStar:
		nl.AppendByte('*')
	case token.LDelimUnderscore, token.RDelimUnderscore, token.LRDelimUnderscore:
		nl.AppendByte('_')
	case token.InlineLSquareBracket:
		nl.AppendByte('[')
	case token.InlineRSquareBracket:
		nl.AppendByte(']')
	case token.InlineLAngleBracket:
		nl.AppendByte('<')
	case token.InlineRAngleBracket:
		nl.AppendByte('>')
	case token.InlineLParen:
		nl.AppendByte('(')
	case token.InlineRParen:
		nl.AppendByte(')')
	case token.InlineSingleQuote:
		nl.AppendByte('\'')
	case token.InlineDoubleQuote:
		nl.AppendByte('"')
	case token.ExclamationMark:
		nl.AppendByte('!')
	}
}

// tryLeadingEscape handles a backslash-escape that the tokenizer has split
// across two tokens: matchText stops right before any character that is
// itself a decision point (*, _, [, ], etc.), so "\*" lexes as a text token
// ending in "\" followed by a separate delimiter token for "*". resolveEscapes
// alone can't see across that boundary, so this is tried before any
// production at the current position: if the pending text ends in an
// unescaped backslash and the next token is a single literal punctuation
// character, the two are merged into one escaped literal here, and the
// punctuation token never reaches production dispatch (so "\*foo\*" can't
// accidentally open emphasis).
func (p *Parser) tryLeadingEscape(nl *ast.NodeList) bool {
	tok, ok := p.tb.peek()
	if !ok || tok.Kind != token.InlineText || len(tok.Lexeme) == 0 {
		return false
	}
	lex := tok.Lexeme
	if lex[len(lex)-1] != '\\' {
		return false
	}
	trailing := 0
	for trailing < len(lex) && lex[len(lex)-1-trailing] == '\\' {
		trailing++
	}
	if trailing%2 == 0 {
		return false // all trailing backslashes are already paired off
	}
	next, ok := p.tb.peekAt(1)
	if !ok {
		return false
	}
	lit, isLit := literalPunctChar(next)
	if !isLit {
		return false
	}
	p.tb.next()
	p.tb.next()
	nl.AppendText(resolveEscapes(lex[:len(lex)-1]))
	nl.AppendByte(lit)
	return true
}

// literalPunctChar reports the single literal character a delimiter-run or
// single-char token kind represents, for kinds that backslash escaping can
// meaningfully apply to. Backtick is deliberately excluded: CommonMark
// doesn't let a backslash prevent a code span from opening.
func literalPunctChar(tok token.Inline) (byte, bool) {
	switch tok.Kind {
	case token.LDelimStar, token.RDelimStar, token.LRDelimStar:
		return '*', true
	case token.LDelimUnderscore, token.RDelimUnderscore, token.LRDelimUnderscore:
		return '_', true
	case token.InlineLSquareBracket:
		return '[', true
	case token.InlineRSquareBracket:
		return ']', true
	case token.InlineLAngleBracket:
		return '<', true
	case token.InlineRAngleBracket:
		return '>', true
	case token.InlineLParen:
		return '(', true
	case token.InlineRParen:
		return ')', true
	case token.InlineSingleQuote:
		return '\'', true
	case token.InlineDoubleQuote:
		return '"', true
	case token.ExclamationMark:
		return '!', true
	default:
		return 0, false
	}
}

// resolveEscapes removes the backslash from a backslash-escape of ASCII
// punctuation, preserving an unescapable backslash (one before anything
// else) literally, per §4.6 "Text resolution".
func resolveEscapes(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' && i+1 < len(b) && isEscapablePunct(b[i+1]) {
			out = append(out, b[i+1])
			i++
			continue
		}
		out = append(out, b[i])
	}
	return out
}

func isEscapablePunct(b byte) bool {
	switch {
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	default:
		return false
	}
}

func decodeDecimalRef(lexeme []byte) (rune, bool) {
	digits := lexeme[2 : len(lexeme)-1]
	var v int64
	for _, d := range digits {
		v = v*10 + int64(d-'0')
		if v > 0x10FFFF {
			return 0, false
		}
	}
	return runeFromCodepoint(v)
}

func decodeHexRef(lexeme []byte) (rune, bool) {
	digits := lexeme[3 : len(lexeme)-1] // "&#x" ... ";"
	var v int64
	for _, d := range digits {
		var n int64
		switch {
		case d >= '0' && d <= '9':
			n = int64(d - '0')
		case d >= 'a' && d <= 'f':
			n = int64(d-'a') + 10
		case d >= 'A' && d <= 'F':
			n = int64(d-'A') + 10
		}
		v = v*16 + n
		if v > 0x10FFFF {
			return 0, false
		}
	}
	return runeFromCodepoint(v)
}

func runeFromCodepoint(v int64) (rune, bool) {
	if v == 0 || v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
		return 0xFFFD, true
	}
	return rune(v), true
}

// normalizeURL is the URI-normalization helper SPEC_FULL.md adds, applied
// to every scanned link/image destination.
func normalizeURL(raw []byte) []byte {
	return uri.Normalize(raw)
}
