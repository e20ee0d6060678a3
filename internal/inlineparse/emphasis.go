package inlineparse

import (
	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/token"
)

// tryEmphasisFamily implements all four of §4.6's emphasis/strong
// productions (parseStarEmphasis, parseStarStrong, parseUnderscoreEmphasis,
// parseUnderscoreStrong) for one delimiter family at once: it first tries
// to open with two delimiters (strong), falling back to one (emphasis) if
// only a single delimiter is available or no valid two-wide close is ever
// found. When three or more delimiters of the same kind start at the open
// position, it opens one wide, so the strong nests inside the emphasis.
// This is a deliberate reading of §4.6's ordering: "any emphasis (*
// then _)" listed before "any strong (**/__)" is the choice of *which
// delimiter family* to try first (star before underscore), not emphasis
// over strong within a family — trying strong first within a family is
// what makes "**x**" resolve to one <strong> rather than a pair of nested
// <em> tags. Recorded as an Open Question resolution in DESIGN.md.
func (p *Parser) tryEmphasisFamily(isStar bool) (*ast.Node, bool, error) {
	open, has := p.tb.peek()
	if !has || !open.Kind.CanOpen() {
		return nil, false, nil
	}

	width := 1
	if t2, ok := p.tb.peekAt(1); ok && t2.Kind == open.Kind && sameFamily(t2.Kind, isStar) {
		width = 2
	}

	if width == 2 {
		// With a third delimiter of the same kind available, emphasis wraps
		// strong ("***x***" is emphasis[strong[x]]): open one wide here and
		// let the body's nested production take the other two as strong.
		if t3, ok := p.tb.peekAt(2); ok && t3.Kind == open.Kind {
			width = 1
		}
	}

	if width == 2 {
		mark := p.tb.checkpoint()
		p.tb.next()
		p.tb.next()
		children, ok, err := p.parseEmphasisBody(isStar, open, 2)
		if err != nil {
			return nil, false, err
		}
		if ok {
			n := ast.New(ast.Strong)
			n.Children = children
			return n, true, nil
		}
		p.tb.rewind(mark)
	}

	mark := p.tb.checkpoint()
	p.tb.next()
	children, ok, err := p.parseEmphasisBody(isStar, open, 1)
	if err != nil {
		return nil, false, err
	}
	if ok {
		n := ast.New(ast.Emphasis)
		n.Children = children
		return n, true, nil
	}
	p.tb.rewind(mark)
	return nil, false, nil
}

func sameFamily(k token.InlineKind, isStar bool) bool {
	if isStar {
		return k.IsStarDelim()
	}
	return !k.IsStarDelim() && k.IsDelim()
}

// parseEmphasisBody parses inline content looking for a close of the
// required width that satisfies CommonMark's rule 9/10 multiple-of-3
// check, recursing into nested productions (including nested
// emphasis/strong and links) for everything else. Fails (ok=false) if EOF,
// an enclosing link descriptor's `]`, or a nested-link abort is reached
// first.
func (p *Parser) parseEmphasisBody(isStar bool, open token.Inline, width int) ([]*ast.Node, bool, error) {
	nl := ast.NewNodeList(nil)

	for i := 0; ; i++ {
		if i > loopBound {
			panic("inlineparse: loop_bound exceeded in parseEmphasisBody")
		}
		tok, has := p.tb.peek()
		if !has {
			return nil, false, nil
		}
		if tok.Kind == token.InlineRSquareBracket {
			return nil, false, nil
		}

		if p.tryLeadingEscape(&nl) {
			continue
		}

		if sameFamily(tok.Kind, isStar) && tok.Kind.CanClose() {
			closeWidth := 1
			if t2, ok := p.tb.peekAt(1); ok && t2.Kind == tok.Kind {
				closeWidth = 2
			}
			if closeWidth >= width && validEmphasisMatch(open, tok) {
				for j := 0; j < width; j++ {
					p.tb.next()
				}
				return nl.Slice(), true, nil
			}
		}

		before := p.tb.checkpoint()
		node, matched, err := p.tryOneProduction()
		if err != nil {
			return nil, false, err
		}
		if matched {
			if p.tb.checkpoint() <= before {
				panic("inlineparse: production matched without consuming a token")
			}
			if node != nil {
				nl.Append(node)
			}
			continue
		}

		t, _ := p.tb.next()
		appendLiteral(&nl, t)
	}
}

// validEmphasisMatch applies the rule 9/10 check as §4.6 summarizes it
// (which runs may open or close at all is settled by the tokenizer's
// delimiter kinds): a both-sides-flanking delimiter on either end invalidates
// the match when the summed run lengths are a multiple of 3 unless both
// are individually multiples of 3.
func validEmphasisMatch(open, close token.Inline) bool {
	bothFlank := open.Kind.IsBothFlanking() || close.Kind.IsBothFlanking()
	if !bothFlank {
		return true
	}
	sum := int(open.Context.RunLen) + int(close.Context.RunLen)
	if sum%3 != 0 {
		return true
	}
	return open.Context.RunLen%3 == 0 && close.Context.RunLen%3 == 0
}
