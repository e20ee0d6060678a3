// Package blocklex implements the block-level tokenizer (§4.2): a
// character-level scanner that turns lines from a lines.Reader into a
// stream of block tokens, one at a time, never crossing a line boundary
// except that a newline token marks the end of one.
//
// The run-matching helpers (fence width, rule width, the leading-indent
// count) are the same shape as scandown/block.go's delimiter/fence/ruler/
// trimIndent helpers in the teacher — "scan a run of a marker byte,
// possibly with interior whitespace, return how wide it was" — adapted
// here to classify single lexemes at column granularity rather than whole
// multi-line block continuations.
package blocklex

import (
	"errors"
	"io"

	"github.com/sinclairtarget/atrus/internal/lines"
	"github.com/sinclairtarget/atrus/internal/scanio"
	"github.com/sinclairtarget/atrus/internal/token"
)

// Tokenizer scans block-level tokens from a lines.Reader.
//
// Not safe for concurrent use from multiple goroutines — like
// scandown.BlockStack, it exists to be driven by a single synchronous
// parse loop.
type Tokenizer struct {
	lr    *lines.Reader
	arena scanio.ByteArena // tokenization-scoped scratch (§3.4): lives for the whole parse

	line         []byte
	pos          int
	leadingPhase bool
	needLine     bool
	atEOF        bool
}

// New returns a Tokenizer reading lines from lr.
func New(lr *lines.Reader) *Tokenizer {
	return &Tokenizer{lr: lr, needLine: true}
}

// Next returns the next block token, or io.EOF once the stream (and its
// final newline) is exhausted.
func (tz *Tokenizer) Next() (token.Block, error) {
	for {
		if tz.needLine {
			if tz.atEOF {
				return token.Block{}, io.EOF
			}
			line, err := tz.lr.Next()
			if err != nil {
				if err == io.EOF {
					tz.atEOF = true
					return token.Block{}, io.EOF
				}
				tz.atEOF = true
				return token.Block{}, errors.Join(ErrRead, err)
			}
			tz.line = line
			tz.pos = 0
			tz.leadingPhase = true
			tz.needLine = false
		}

		if tz.pos >= len(tz.line) {
			// shouldn't happen: lines always end in '\n', handled below
			tz.needLine = true
			continue
		}

		c := tz.line[tz.pos]
		if c == '\n' {
			tz.pos++
			tz.needLine = true
			return token.NewBlock(token.Newline, nil), nil
		}

		if tz.leadingPhase {
			if tok, ok := tz.scanLeading(); ok {
				return tok, nil
			}
			// scanLeading matched nothing, consumed nothing and ended the
			// leading phase; loop again so the byte is scanned generically.
			continue
		}

		return tz.scanGeneric(), nil
	}
}

// ErrRead wraps an underlying line-reader failure.
var ErrRead = errors.New("blocklex: read failed")

// scanLeading handles the column-sensitive rules that only apply while
// still within "up to 3/4 leading columns" of the line: indent, the four
// rule kinds, the two fence kinds, and the blockquote marker (leading
// whitespace is itself returned as a token). Returns ok=false, having
// consumed nothing and ended the leading phase, when none of those match,
// so the caller falls through to generic scanning.
func (tz *Tokenizer) scanLeading() (token.Block, bool) {
	rest := tz.line[tz.pos:]
	c := rest[0]

	switch c {
	case '\t':
		tz.pos++
		tz.leadingPhase = false
		return token.NewBlock(token.Indent, nil), true

	case ' ':
		n := 0
		for n < len(rest) && rest[n] == ' ' {
			n++
		}
		if n >= 4 {
			tz.pos += 4
			tz.leadingPhase = false
			return token.NewBlock(token.Indent, nil), true
		}
		lex := tz.copyLexeme(rest[:n])
		tz.pos += n
		return token.NewBlock(token.Whitespace, lex), true
	}

	// From here on on we're at most 3 columns in; try markers that are
	// only valid at (near) column 0.
	if width, ok := scanFence(rest, '`'); ok {
		lex := tz.copyLexeme(rest[:width])
		tz.pos += width
		tz.leadingPhase = false
		return token.NewBlock(token.BacktickFence, lex), true
	}
	if width, ok := scanFence(rest, '~'); ok {
		lex := tz.copyLexeme(rest[:width])
		tz.pos += width
		tz.leadingPhase = false
		return token.NewBlock(token.TildeFence, lex), true
	}
	if width, _, ok := scanRule(rest, '*'); ok && width >= 3 {
		tz.pos += width
		tz.leadingPhase = false
		return token.NewBlock(token.RuleStar, nil), true
	}
	if width, hasWS, ok := scanRule(rest, '_'); ok && width >= 3 && !hasWS {
		tz.pos += width
		tz.leadingPhase = false
		return token.NewBlock(token.RuleUnderline, nil), true
	}
	if width, hasWS, ok := scanRule(rest, '-'); ok {
		tz.pos += width
		tz.leadingPhase = false
		if hasWS {
			return token.NewBlock(token.RuleDashWithWhitespace, nil), true
		}
		lex := tz.copyLexeme(rest[:width])
		return token.NewBlock(token.RuleDash, lex), true
	}
	if width, hasWS, ok := scanRule(rest, '='); ok && !hasWS {
		lex := tz.copyLexeme(rest[:width])
		tz.pos += width
		tz.leadingPhase = false
		return token.NewBlock(token.RuleEquals, lex), true
	}
	if c == '>' {
		width := 1
		// CommonMark allows a single optional space/tab right after the
		// marker to be "absorbed" into it rather than counted as content.
		if width < len(rest) && (rest[width] == ' ' || rest[width] == '\t') {
			width++
		}
		lex := tz.copyLexeme(rest[:width])
		tz.pos += width
		// leadingPhase stays true: unlike every other leading-column marker,
		// a blockquote marker nests, so the remainder of the line is tried
		// against scanLeading again — another '>' here opens a further
		// nesting level (§4.3's container stack), up to 3 spaces of
		// indentation can still precede it, and anything else correctly
		// falls through to scanGeneric as the container's content.
		return token.NewBlock(token.RAngleBracketBlockquote, lex), true
	}

	tz.leadingPhase = false
	return token.Block{}, false
}

// scanGeneric handles token recognition outside the line-start window:
// pound runs, single-character tokens, and the plain-text fallback.
func (tz *Tokenizer) scanGeneric() token.Block {
	rest := tz.line[tz.pos:]
	c := rest[0]

	if c == '#' {
		if n, ok := poundRunWidth(rest); ok {
			lex := tz.copyLexeme(rest[:n])
			tz.pos += n
			return token.NewBlock(token.Pound, lex)
		}
		// Not word-bounded (e.g. "a#b" or a run running off the end of the
		// line with no trailing space): treat as ordinary text below.
	}

	if kind, ok := singleCharKind(c); ok {
		lex := tz.copyLexeme(rest[:1])
		tz.pos++
		return token.NewBlock(kind, lex)
	}

	if c == ' ' || c == '\t' {
		n := 0
		for n < len(rest) && (rest[n] == ' ' || rest[n] == '\t') {
			n++
		}
		lex := tz.copyLexeme(rest[:n])
		tz.pos += n
		return token.NewBlock(token.Whitespace, lex)
	}

	// Plain text: accumulate until newline, whitespace, a word-bounded
	// pound run, or a character that starts one of the single-char tokens
	// above.
	n := 1 // c itself is never one of those (checked above), always consume it
	for n < len(rest) {
		b := rest[n]
		if b == '\n' || b == ' ' || b == '\t' {
			break
		}
		if _, ok := singleCharKind(b); ok {
			break
		}
		if b == '#' {
			if _, ok := poundRunWidth(rest[n:]); ok {
				break
			}
		}
		n++
	}
	lex := tz.copyLexeme(rest[:n])
	tz.pos += n
	return token.NewBlock(token.Text, lex)
}

// poundRunWidth returns the width of a run of '#' at the start of s,
// provided the run is immediately followed by a space, tab, or newline
// (i.e. word-bounded). Per §3.1, a pound run not so bounded is not a
// distinct token.
func poundRunWidth(s []byte) (width int, ok bool) {
	for width < len(s) && s[width] == '#' {
		width++
	}
	if width == 0 || width >= len(s) {
		return 0, false
	}
	switch s[width] {
	case ' ', '\t', '\n':
		return width, true
	default:
		return 0, false
	}
}

func singleCharKind(b byte) (token.BlockKind, bool) {
	switch b {
	case '[':
		return token.LSquareBracket, true
	case ']':
		return token.RSquareBracket, true
	case '<':
		return token.LAngleBracket, true
	case '>':
		return token.RAngleBracket, true
	case '(':
		return token.LParen, true
	case ')':
		return token.RParen, true
	case '\'':
		return token.SingleQuote, true
	case '"':
		return token.DoubleQuote, true
	case ':':
		return token.Colon, true
	default:
		return 0, false
	}
}

// scanFence returns the width of a run of >=3 of mark at the start of
// line, if present.
func scanFence(line []byte, mark byte) (width int, ok bool) {
	if len(line) == 0 || line[0] != mark {
		return 0, false
	}
	for width < len(line) && line[width] == mark {
		width++
	}
	if width < 3 {
		return 0, false
	}
	return width, true
}

// scanRule returns the width of a whitespace-interleaved run of mark (and
// ' '/'\t') at the start of line, and whether any interior whitespace was
// seen. A run must start with mark itself.
func scanRule(line []byte, mark byte) (width int, hasWhitespace bool, ok bool) {
	if len(line) == 0 || line[0] != mark {
		return 0, false, false
	}
	for width < len(line) {
		switch line[width] {
		case mark:
			width++
		case ' ', '\t':
			hasWhitespace = true
			width++
		case '\n':
			return width, hasWhitespace, true
		default:
			return width, hasWhitespace, true
		}
	}
	return width, hasWhitespace, true
}

func (tz *Tokenizer) copyLexeme(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	tz.arena.Write(b)
	return tz.arena.Take().Bytes()
}
