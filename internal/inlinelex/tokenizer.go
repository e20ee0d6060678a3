// Package inlinelex implements the inline-level tokenizer (§4.5): a
// character-level scanner over the concatenated text of one text-bearing
// block (a paragraph's or heading's already-assembled byte buffer),
// emitting inline tokens with delimiter-run context.
//
// Shaped the same way as blocklex.Tokenizer — a single Next() pulling
// from an in-memory buffer instead of a lines.Reader, since an inline
// block's bytes are already fully materialized by the time the leaf
// parser hands them over — with the run-matching helpers again mirroring
// scandown's "scan a run, report its width" style from the teacher.
package inlinelex

import (
	"io"

	"github.com/sinclairtarget/atrus/internal/scanio"
	"github.com/sinclairtarget/atrus/internal/token"
)

// topLevelState is the flanking-classification context the tokenizer
// carries between tokens, per §4.5.
type topLevelState int

const (
	stateWhitespace topLevelState = iota
	statePunct
	stateNormal
)

// Tokenizer scans inline tokens from a single text block's bytes.
//
// Not safe for concurrent use — driven by a single synchronous inline
// parse, like blocklex.Tokenizer.
type Tokenizer struct {
	src   []byte
	pos   int
	state topLevelState
	arena scanio.ByteArena // per-block inline scratch (§5), reset per block by construction

	// pending holds the remaining tokens of a delimiter run already
	// classified by the most recent scan step: a run of length N is
	// classified once but surfaced as N individual Next() calls (§3.1).
	pending []token.Inline
}

// New returns a Tokenizer scanning src, a single text block's bytes.
func New(src []byte) *Tokenizer {
	return &Tokenizer{src: src, state: stateWhitespace}
}

// Next returns the next inline token, or io.EOF once src is exhausted.
func (tz *Tokenizer) Next() (token.Inline, error) {
	if len(tz.pending) > 0 {
		tok := tz.pending[0]
		tz.pending = tz.pending[1:]
		return tok, nil
	}

	if tz.pos >= len(tz.src) {
		return token.Inline{}, io.EOF
	}

	rest := tz.src[tz.pos:]
	c := rest[0]

	if c == '\n' {
		tz.pos++
		tz.state = stateWhitespace
		return token.NewInline(token.InlineNewline, nil), nil
	}

	if kind, ok := singleCharKind(c); ok {
		tz.pos++
		tz.state = classify(c)
		return token.NewInline(kind, tz.copyLexeme(rest[:1])), nil
	}

	if c == '&' {
		if tok, n, ok := tz.scanCharRef(rest); ok {
			tz.pos += n
			tz.state = stateNormal
			return tok, nil
		}
	}

	if c == '`' {
		n := runWidth(rest, '`')
		tz.pos += n
		tz.state = stateNormal
		return token.NewInline(token.Backtick, tz.copyLexeme(rest[:n])), nil
	}

	if c == '*' {
		n := runWidth(rest, '*')
		first := tz.classifyStarRun(rest, n)
		tz.pos += n
		return first, nil
	}

	if c == '_' {
		n := runWidth(rest, '_')
		first := tz.classifyUnderscoreRun(rest, n)
		tz.pos += n
		return first, nil
	}

	if c == ' ' || c == '\t' {
		n := 0
		for n < len(rest) && (rest[n] == ' ' || rest[n] == '\t') {
			n++
		}
		tz.pos += n
		tz.state = stateWhitespace
		return token.NewInline(token.InlineWhitespace, tz.copyLexeme(rest[:n])), nil
	}

	if n, ok := scanAbsoluteURI(rest); ok {
		tz.pos += n
		tz.state = stateNormal
		return token.NewInline(token.AbsoluteURI, tz.copyLexeme(rest[:n])), nil
	}

	if n, ok := scanEmail(rest); ok {
		tz.pos += n
		tz.state = stateNormal
		return token.NewInline(token.Email, tz.copyLexeme(rest[:n])), nil
	}

	n := tz.matchText(rest)
	tz.pos += n
	tz.state = classify(rest[n-1])
	return token.NewInline(token.InlineText, tz.copyLexeme(rest[:n])), nil
}

func singleCharKind(c byte) (token.InlineKind, bool) {
	switch c {
	case '[':
		return token.InlineLSquareBracket, true
	case ']':
		return token.InlineRSquareBracket, true
	case '<':
		return token.InlineLAngleBracket, true
	case '>':
		return token.InlineRAngleBracket, true
	case '(':
		return token.InlineLParen, true
	case ')':
		return token.InlineRParen, true
	case '\'':
		return token.InlineSingleQuote, true
	case '"':
		return token.InlineDoubleQuote, true
	case '!':
		return token.ExclamationMark, true
	default:
		return 0, false
	}
}

// classify reports the top-level flanking state a byte puts the scanner
// into for the *next* token.
func classify(c byte) topLevelState {
	switch {
	case c == ' ' || c == '\t' || c == '\n':
		return stateWhitespace
	case isASCIIPunct(c):
		return statePunct
	default:
		return stateNormal
	}
}

// isASCIIPunct reports whether b is ASCII punctuation, per §9's documented
// ASCII-only classification limitation.
func isASCIIPunct(b byte) bool {
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

func isWhitespaceByte(b byte) bool { return b == ' ' || b == '\t' || b == '\n' }

func isAlnumByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func runWidth(s []byte, mark byte) int {
	n := 0
	for n < len(s) && s[n] == mark {
		n++
	}
	return n
}

// classifyStarRun classifies a run of n '*' at rest[:n] per §4.5 rule 5 and
// queues it as n single-character tokens sharing one DelimContext,
// returning the first.
func (tz *Tokenizer) classifyStarRun(rest []byte, n int) token.Inline {
	before := tz.state
	after := rest[n:]
	spaceAfter := len(after) == 0 || isWhitespaceByte(after[0])
	punctAfter := len(after) > 0 && isASCIIPunct(after[0])

	canOpen := !spaceAfter && (!punctAfter || before != stateNormal)
	canClose := before != stateWhitespace && (before != statePunct || spaceAfter || punctAfter)

	kind := delimKind(canOpen, canClose, token.LDelimStar, token.RDelimStar, token.LRDelimStar)
	tz.state = classify(rest[n-1])
	return tz.queueDelimRun(kind, n, token.DelimContext{RunLen: uint16(n)})
}

// classifyUnderscoreRun is classifyStarRun plus intraword disqualification
// (§4.5 rule 6): an underscore run flanked by alphanumerics on both sides
// may neither open nor close, so it is returned as a single InlineText
// token instead of delimiter tokens.
func (tz *Tokenizer) classifyUnderscoreRun(rest []byte, n int) token.Inline {
	before := tz.state
	var beforeByte byte
	if tz.pos > 0 {
		beforeByte = tz.src[tz.pos-1]
	}
	after := rest[n:]
	spaceAfter := len(after) == 0 || isWhitespaceByte(after[0])
	punctAfter := len(after) > 0 && isASCIIPunct(after[0])

	precededByPunct := isASCIIPunct(beforeByte)
	followedByPunct := punctAfter

	canOpen := !spaceAfter && (!punctAfter || before != stateNormal)
	canClose := before != stateWhitespace && (before != statePunct || spaceAfter || punctAfter)

	if isAlnumByte(beforeByte) && len(after) > 0 && isAlnumByte(after[0]) {
		tz.state = classify(rest[n-1])
		return token.NewInline(token.InlineText, tz.copyLexeme(rest[:n]))
	}

	kind := delimKind(canOpen, canClose, token.LDelimUnderscore, token.RDelimUnderscore, token.LRDelimUnderscore)
	tz.state = classify(rest[n-1])
	return tz.queueDelimRun(kind, n, token.DelimContext{
		RunLen:          uint16(n),
		PrecededByPunct: precededByPunct,
		FollowedByPunct: followedByPunct,
	})
}

func delimKind(canOpen, canClose bool, l, r, lr token.InlineKind) token.InlineKind {
	switch {
	case canOpen && canClose:
		return lr
	case canOpen:
		return l
	case canClose:
		return r
	default:
		// Neither flanking side applies. The tokenizer still reports a
		// definite kind — the inline parser's own failure-to-match path is
		// what degrades an unmatched delimiter to literal text, not the
		// tokenizer.
		return l
	}
}

// queueDelimRun materializes a classified run of n as n single-character
// tokens sharing ctx (§3.1), queuing tokens 2..n in tz.pending and
// returning the first.
func (tz *Tokenizer) queueDelimRun(kind token.InlineKind, n int, ctx token.DelimContext) token.Inline {
	for i := 1; i < n; i++ {
		tz.pending = append(tz.pending, token.NewDelim(kind, ctx))
	}
	return token.NewDelim(kind, ctx)
}

func (tz *Tokenizer) copyLexeme(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	tz.arena.Write(b)
	return tz.arena.Take().Bytes()
}
