package inlineparse

import (
	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/token"
)

// tryAutolink implements §4.6 productions 2-3: `<ABSOLUTE_URI>` and
// `<EMAIL>`.
func (p *Parser) tryAutolink() (*ast.Node, bool) {
	mark := p.tb.checkpoint()
	open, ok := p.tb.peek()
	if !ok || open.Kind != token.InlineLAngleBracket {
		return nil, false
	}
	p.tb.next()

	body, ok := p.tb.peek()
	if !ok {
		p.tb.rewind(mark)
		return nil, false
	}

	var url []byte
	switch body.Kind {
	case token.AbsoluteURI:
		url = append([]byte(nil), body.Lexeme...)
	case token.Email:
		url = append([]byte("mailto:"), body.Lexeme...)
	default:
		p.tb.rewind(mark)
		return nil, false
	}
	p.tb.next()

	closeTok, ok := p.tb.peek()
	if !ok || closeTok.Kind != token.InlineRAngleBracket {
		p.tb.rewind(mark)
		return nil, false
	}
	p.tb.next()

	text := body.Lexeme
	return ast.NewLink(normalizeURL(url), nil, []*ast.Node{ast.NewText(append([]byte(nil), text...))}), true
}

// tryLink implements §4.6 production 5 (and, per SPEC_FULL.md, the
// shortcut/collapsed reference forms `[label]` / `[label][]`): the
// bracketed descriptor is parsed recursively as inline content, with
// nested links forbidden and bracket balance enforced by parseSequence's
// stopAtBracket mode. An explicit `(dest title?)` following the closing
// `]` takes the URL from there; otherwise the node is left with an empty
// URL for PostProcess to resolve against the LinkDefMap by its rendered
// text (§4.9's supplemented deferred-resolution feature).
func (p *Parser) tryLink() (*ast.Node, bool, error) {
	mark := p.tb.checkpoint()
	open, ok := p.tb.peek()
	if !ok || open.Kind != token.InlineLSquareBracket {
		return nil, false, nil
	}
	p.tb.next()

	wasInLinkText := p.inLinkText
	p.inLinkText = true
	children, err := p.parseSequence(true)
	p.inLinkText = wasInLinkText
	if err != nil {
		p.tb.rewind(mark)
		return nil, false, nil
	}

	closeTok, ok := p.tb.peek()
	if !ok || closeTok.Kind != token.InlineRSquareBracket {
		p.tb.rewind(mark)
		return nil, false, nil
	}
	p.tb.next()

	if url, title, ok := p.tryExplicitDestination(); ok {
		return ast.NewLink(url, title, children), true, nil
	}

	// Collapsed reference form: `[label][]`.
	collapsedMark := p.tb.checkpoint()
	if t1, ok := p.tb.peek(); ok && t1.Kind == token.InlineLSquareBracket {
		p.tb.next()
		if t2, ok := p.tb.peek(); ok && t2.Kind == token.InlineRSquareBracket {
			p.tb.next()
			return ast.NewLink(nil, nil, children), true, nil
		}
		p.tb.rewind(collapsedMark)
	}

	// Shortcut reference form: `[label]` on its own.
	return ast.NewLink(nil, nil, children), true, nil
}

// tryImage implements §4.6 production 4: `![desc](dest title?)`, plus the
// same shortcut/collapsed reference forms as tryLink. Its descriptor is
// additionally rendered to a plain-text alt string via the §4.8
// sub-renderer.
func (p *Parser) tryImage() (*ast.Node, bool, error) {
	mark := p.tb.checkpoint()
	bang, ok := p.tb.peek()
	if !ok || bang.Kind != token.ExclamationMark {
		return nil, false, nil
	}
	next, ok := p.tb.peekAt(1)
	if !ok || next.Kind != token.InlineLSquareBracket {
		return nil, false, nil
	}
	p.tb.next() // '!'
	p.tb.next() // '['

	children, err := p.parseSequence(true)
	if err != nil {
		p.tb.rewind(mark)
		return nil, false, nil
	}

	closeTok, ok := p.tb.peek()
	if !ok || closeTok.Kind != token.InlineRSquareBracket {
		p.tb.rewind(mark)
		return nil, false, nil
	}
	p.tb.next()

	alt := altTextOf(children)

	if url, title, ok := p.tryExplicitDestination(); ok {
		return ast.NewImage(url, title, alt), true, nil
	}

	collapsedMark := p.tb.checkpoint()
	if t1, ok := p.tb.peek(); ok && t1.Kind == token.InlineLSquareBracket {
		p.tb.next()
		if t2, ok := p.tb.peek(); ok && t2.Kind == token.InlineRSquareBracket {
			p.tb.next()
			return ast.NewImage(nil, nil, alt), true, nil
		}
		p.tb.rewind(collapsedMark)
	}

	return ast.NewImage(nil, nil, alt), true, nil
}

func altTextOf(children []*ast.Node) []byte {
	wrapper := ast.New(ast.Paragraph)
	wrapper.Children = children
	return []byte(ast.AltText(wrapper))
}

// tryExplicitDestination scans a `(dest title?)` group immediately
// following a descriptor's closing `]`, per §4.6: the URL via
// scanLinkDestination (angle-bracketed or bare, balanced parens), the
// title via scanLinkTitle (`(…)`/`"…"`/`'…'`, may span lines, no blank
// line), both normalized the same way as the block-level link reference
// definition parser.
func (p *Parser) tryExplicitDestination() (url, title []byte, ok bool) {
	mark := p.tb.checkpoint()
	lp, has := p.tb.peek()
	if !has || lp.Kind != token.InlineLParen {
		return nil, nil, false
	}
	p.tb.next()

	p.skipInlineSpace()
	dest, ok := p.scanLinkDestination()
	if !ok {
		p.tb.rewind(mark)
		return nil, nil, false
	}

	preTitle := p.tb.checkpoint()
	p.skipInlineSpace()
	ttl, hasTitle := p.scanLinkTitle()
	if !hasTitle {
		p.tb.rewind(preTitle)
	}
	p.skipInlineSpace()

	rp, has := p.tb.peek()
	if !has || rp.Kind != token.InlineRParen {
		p.tb.rewind(mark)
		return nil, nil, false
	}
	p.tb.next()

	return normalizeURL(dest), ttl, true
}

func (p *Parser) skipInlineSpace() {
	for {
		tok, ok := p.tb.peek()
		if !ok || (tok.Kind != token.InlineWhitespace && tok.Kind != token.InlineNewline) {
			return
		}
		p.tb.next()
	}
}

// scanLinkDestination mirrors blockparse's production at the inline token
// level: angle-bracketed (no raw `<`/`>`/newline) or bare (paren-balanced,
// stops at whitespace).
func (p *Parser) scanLinkDestination() ([]byte, bool) {
	tok, has := p.tb.peek()
	if !has {
		return nil, false
	}
	if tok.Kind == token.InlineLAngleBracket {
		p.tb.next()
		var buf []byte
		for {
			t, has := p.tb.peek()
			if !has || t.Kind == token.InlineNewline {
				return nil, false
			}
			if t.Kind == token.InlineRAngleBracket {
				p.tb.next()
				return buf, true
			}
			p.tb.next()
			buf = append(buf, literalCodeSpanBytes(t)...)
		}
	}

	var buf []byte
	depth := 0
	for {
		t, has := p.tb.peek()
		if !has {
			break
		}
		if t.Kind == token.InlineWhitespace || t.Kind == token.InlineNewline {
			break
		}
		if t.Kind == token.InlineLParen {
			depth++
		}
		if t.Kind == token.InlineRParen {
			if depth == 0 {
				break
			}
			depth--
		}
		p.tb.next()
		buf = append(buf, literalCodeSpanBytes(t)...)
	}
	if len(buf) == 0 {
		return nil, false
	}
	return buf, true
}

// scanLinkTitle mirrors blockparse's, at the inline token level.
func (p *Parser) scanLinkTitle() ([]byte, bool) {
	tok, has := p.tb.peek()
	if !has {
		return nil, false
	}
	var closeKind token.InlineKind
	switch tok.Kind {
	case token.InlineDoubleQuote:
		closeKind = token.InlineDoubleQuote
	case token.InlineSingleQuote:
		closeKind = token.InlineSingleQuote
	case token.InlineLParen:
		closeKind = token.InlineRParen
	default:
		return nil, false
	}
	p.tb.next()

	var buf []byte
	blankLines := 0
	for {
		t, has := p.tb.peek()
		if !has {
			return nil, false
		}
		if t.Kind == closeKind {
			p.tb.next()
			return buf, true
		}
		if t.Kind == token.InlineNewline {
			p.tb.next()
			blankLines++
			if blankLines > 1 {
				return nil, false
			}
			buf = append(buf, ' ')
			continue
		}
		blankLines = 0
		p.tb.next()
		buf = append(buf, literalCodeSpanBytes(t)...)
	}
}
