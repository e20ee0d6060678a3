package inlineparse

import (
	"github.com/sinclairtarget/atrus/internal/token"
)

// InlineSource is the pull-only interface inlinelex.Tokenizer satisfies.
type InlineSource interface {
	Next() (token.Inline, error)
}

// tokenBuffer is blockparse.tokenBuffer's shape, restated here for
// token.Inline: every token ever read is retained so a failed production
// can rewind to any earlier checkpoint, matching §4.6's "unbounded buffer
// that also supports checkpoint()/backtrack()".
type tokenBuffer struct {
	src InlineSource
	buf []token.Inline
	pos int
	err error
}

func newTokenBuffer(src InlineSource) *tokenBuffer {
	return &tokenBuffer{src: src}
}

func (tb *tokenBuffer) fill() bool {
	if tb.pos < len(tb.buf) {
		return true
	}
	if tb.err != nil {
		return false
	}
	tok, err := tb.src.Next()
	if err != nil {
		tb.err = err
		return false
	}
	tb.buf = append(tb.buf, tok)
	return true
}

func (tb *tokenBuffer) peek() (token.Inline, bool) {
	if !tb.fill() {
		return token.Inline{}, false
	}
	return tb.buf[tb.pos], true
}

// peekAt returns the token n positions ahead of pos (0 = next), without
// advancing.
func (tb *tokenBuffer) peekAt(n int) (token.Inline, bool) {
	for len(tb.buf) <= tb.pos+n {
		if !tb.fill() {
			return token.Inline{}, false
		}
	}
	return tb.buf[tb.pos+n], true
}

func (tb *tokenBuffer) next() (token.Inline, bool) {
	tok, ok := tb.peek()
	if ok {
		tb.pos++
	}
	return tok, ok
}

func (tb *tokenBuffer) checkpoint() int { return tb.pos }

func (tb *tokenBuffer) rewind(mark int) { tb.pos = mark }

func (tb *tokenBuffer) atEOF() bool {
	_, ok := tb.peek()
	return !ok
}
