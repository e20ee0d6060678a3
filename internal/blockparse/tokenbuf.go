package blockparse

import (
	"errors"
	"io"

	"github.com/sinclairtarget/atrus/internal/token"
)

// TokenSource is the single seam between the container and leaf layers
// (§9 "Dynamic dispatch. Only in one place"): the LeafParser only ever
// talks to a TokenSource, so it can sit either directly on a
// blocklex.Tokenizer or on a ContainerParser without caring which.
type TokenSource interface {
	Next() (token.Block, error)
}

// tokenBuffer adapts a pull-only TokenSource into something the leaf
// parser's backtracking productions can rewind: every token ever read is
// kept around, and a production that fails just restores pos to its
// checkpoint. This is scandown.BlockStack.Scan's priori/truncate pattern
// (grounded on the teacher) applied to a token index instead of a byte
// slice — truncation here is "stop reading past pos", not an actual slice
// truncation, since unlike the teacher's scratch buffer these tokens must
// stay valid for whichever production retries next.
type tokenBuffer struct {
	src  TokenSource
	buf  []token.Block
	pos  int
	err  error // sticky once the source is exhausted or fails
	errAt int  // index in buf at which err applies (== len(buf) when set)
}

func newTokenBuffer(src TokenSource) *tokenBuffer {
	return &tokenBuffer{src: src}
}

// fill ensures buf has at least one more unread token available, pulling
// from src if necessary. Returns false if no more tokens are available
// (EOF or error); the error, if any, is in tb.err.
func (tb *tokenBuffer) fill() bool {
	if tb.pos < len(tb.buf) {
		return true
	}
	if tb.err != nil && tb.errAt <= tb.pos {
		return false
	}
	tok, err := tb.src.Next()
	if err != nil {
		tb.err = err
		tb.errAt = len(tb.buf)
		return false
	}
	tb.buf = append(tb.buf, tok)
	return true
}

// peek returns the token at pos without advancing, and whether one was
// available.
func (tb *tokenBuffer) peek() (token.Block, bool) {
	if !tb.fill() {
		return token.Block{}, false
	}
	return tb.buf[tb.pos], true
}

// next returns the token at pos and advances past it.
func (tb *tokenBuffer) next() (token.Block, bool) {
	tok, ok := tb.peek()
	if ok {
		tb.pos++
	}
	return tok, ok
}

// checkpoint returns a mark that rewind can later restore.
func (tb *tokenBuffer) checkpoint() int { return tb.pos }

// rewind restores pos to a previously taken checkpoint.
func (tb *tokenBuffer) rewind(mark int) { tb.pos = mark }

// atEOF reports whether the underlying source is exhausted and every
// buffered token has been consumed.
func (tb *tokenBuffer) atEOF() bool {
	_, ok := tb.peek()
	return !ok && tb.err != nil
}

// readErr returns the sticky source error, if reading ever failed with
// something other than plain exhaustion. Exhaustion itself (io.EOF) is not
// surfaced here — callers check atEOF/peek instead — only a genuine
// failure from the token source.
func (tb *tokenBuffer) readErr() error {
	if tb.err == nil || errors.Is(tb.err, io.EOF) {
		return nil
	}
	return tb.err
}
