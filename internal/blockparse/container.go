// Package blockparse implements the two block-level parsing components
// (§4.3, §4.4): ContainerParser, which tracks blockquote nesting and
// filters/annotates the raw block-token stream, and LeafParser, the
// recursive-descent-with-backtracking parser that turns that filtered
// stream into leaf-block AST nodes and populates a LinkDefMap.
//
// Grounded on scandown.BlockStack in the teacher for the overall shape —
// a stack of open containers driving a line-oriented scan loop — adapted
// from the teacher's list/heading/quote block grammar to this
// specification's blockquote-only container model and its distinct
// tokenizer/parser split.
package blockparse

import (
	"github.com/sinclairtarget/atrus/internal/token"
)

// containerEvent records a container-stack transition that happened as a
// side effect of producing a token, so ParseDocument can replay it against
// its own AST node stack without ContainerParser needing to know about
// ast.Node at all.
type containerEvent int

const (
	eventOpenBlockquote containerEvent = iota
	eventCloseBlockquote
)

// ContainerParser wraps a raw block-token TokenSource (typically a
// blocklex.Tokenizer), tracking a stack of open blockquote containers
// (§4.3: "maintains a stack of open containers") and presenting the
// LeafParser with the same TokenSource interface: container markers are
// consumed transparently, and a synthetic `close` token (§3.1) is injected
// whenever a line's markers run out in a way that isn't a lazy
// continuation (§4.3's lazy-continuation rule).
//
// depth counts the open containers; since blockquote is the only container
// kind this specification has, the stack itself needs no per-level
// payload beyond its count.
type ContainerParser struct {
	src TokenSource

	depth       int
	atLineStart bool
	pending     *token.Block
	events      []containerEvent
}

// NewContainerParser returns a ContainerParser reading raw block tokens
// from src.
func NewContainerParser(src TokenSource) *ContainerParser {
	return &ContainerParser{src: src, atLineStart: true}
}

// drainEvents returns and clears the container-stack transitions recorded
// since the last call.
func (cp *ContainerParser) drainEvents() []containerEvent {
	if len(cp.events) == 0 {
		return nil
	}
	ev := cp.events
	cp.events = nil
	return ev
}

// Next implements TokenSource.
func (cp *ContainerParser) Next() (token.Block, error) {
	if cp.pending != nil {
		tok := *cp.pending
		cp.pending = nil
		cp.advanceLineState(tok)
		return tok, nil
	}

	tok, err := cp.src.Next()
	if err != nil {
		return token.Block{}, err
	}

	if !cp.atLineStart {
		cp.advanceLineState(tok)
		return tok, nil
	}

	return cp.matchContainers(tok)
}

// matchContainers matches a new line's leading `>` markers against the
// stack of currently open containers, outermost first, starting from the
// token already read as tok. Three things can happen:
//
//   - Every open level is matched (possibly with nothing left over): any
//     further `>` markers beyond the open depth each open a new nested
//     level, and whatever real content token follows is returned.
//   - Markers run out with exactly the innermost level unmatched, and the
//     token that broke the match isn't one that would interrupt a
//     paragraph anyway: a lazy continuation line (§4.3) of that
//     innermost container's last paragraph. The token is passed straight
//     through; no container closes.
//   - Anything else (more than one level unmatched, or the breaking token
//     is itself an interrupting construct): every unmatched level closes.
//     A single synthetic `close` token is yielded so the LeafParser ends
//     whatever block it had in progress; the real token that broke the
//     match is buffered and replayed on the next call.
func (cp *ContainerParser) matchContainers(tok token.Block) (token.Block, error) {
	matched := 0
	for matched < cp.depth && tok.Kind == token.RAngleBracketBlockquote {
		matched++
		var err error
		tok, err = cp.src.Next()
		if err != nil {
			return token.Block{}, err
		}
	}

	if matched < cp.depth {
		unmatched := cp.depth - matched
		if unmatched == 1 && !tok.Kind.IsInterrupting() {
			cp.atLineStart = false
			cp.advanceLineState(tok)
			return tok, nil
		}

		for i := 0; i < unmatched; i++ {
			cp.events = append(cp.events, eventCloseBlockquote)
		}
		cp.depth = matched
		cp.pending = &tok
		cp.atLineStart = false
		return token.NewBlock(token.Close, nil), nil
	}

	for tok.Kind == token.RAngleBracketBlockquote {
		cp.depth++
		cp.events = append(cp.events, eventOpenBlockquote)
		var err error
		tok, err = cp.src.Next()
		if err != nil {
			return token.Block{}, err
		}
	}

	cp.atLineStart = false
	cp.advanceLineState(tok)
	return tok, nil
}

// advanceLineState resets atLineStart once a newline has passed through.
func (cp *ContainerParser) advanceLineState(tok token.Block) {
	if tok.Kind == token.Newline {
		cp.atLineStart = true
	}
}
