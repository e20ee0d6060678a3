package blockparse

import (
	"bytes"
	"fmt"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/linkdef"
	"github.com/sinclairtarget/atrus/internal/token"
)

// LeafParser is the recursive-descent-with-backtracking parser described
// in §4.4: repeated calls to ParseBlock each try the nine productions in
// precedence order over a buffered, checkpoint-able view of a TokenSource,
// rewinding on failure rather than ever un-reading from the source itself.
type LeafParser struct {
	tb       *tokenBuffer
	LinkDefs *linkdef.Map
}

// NewLeafParser returns a LeafParser reading from src.
func NewLeafParser(src TokenSource) *LeafParser {
	return &LeafParser{tb: newTokenBuffer(src), LinkDefs: &linkdef.Map{}}
}

// ParseBlock attempts to produce exactly one leaf-level AST node (or
// consume exactly one blank line, producing none). ok reports whether a
// node was produced; err is non-nil only at true end of input or on a
// propagated read failure.
func (lp *LeafParser) ParseBlock() (node *ast.Node, ok bool, err error) {
	if lp.tb.atEOF() {
		if rerr := lp.tb.readErr(); rerr != nil {
			return nil, false, rerr
		}
		return nil, false, errEOF
	}

	before := lp.tb.checkpoint()

	if n, matched := lp.tryIndentedCode(); matched {
		lp.assertProgress(before, "indented code")
		return n, true, nil
	}
	if n, matched := lp.tryFencedCode(); matched {
		lp.assertProgress(before, "fenced code")
		return n, true, nil
	}
	if n, matched := lp.tryATXHeading(); matched {
		lp.assertProgress(before, "atx heading")
		return n, true, nil
	}
	if n, matched := lp.tryThematicBreak(); matched {
		lp.assertProgress(before, "thematic break")
		return n, true, nil
	}
	if n, matched := lp.tryLinkRefDefinition(); matched {
		lp.assertProgress(before, "link reference definition")
		return n, true, nil
	}
	if lp.tryBlankLine() {
		return nil, false, nil
	}
	if n, matched := lp.trySetextHeading(); matched {
		lp.assertProgress(before, "setext heading")
		return n, true, nil
	}
	if n, matched := lp.tryParagraph(); matched {
		lp.assertProgress(before, "paragraph")
		return n, true, nil
	}

	// Raw text fallback: guarantee forward progress.
	tok, had := lp.tb.next()
	if !had {
		return nil, false, errEOF
	}
	lp.assertProgress(before, "raw text fallback")
	if len(tok.Lexeme) == 0 {
		return nil, false, nil
	}
	return ast.NewText(append([]byte(nil), tok.Lexeme...)), true, nil
}

// errEOF is returned by ParseBlock once the token source is exhausted.
var errEOF = fmt.Errorf("blockparse: end of input")

// assertProgress panics if a production reported success without actually
// advancing the token position — the forgotten-consume bug §4.4 requires
// turning into a fail-fast crash.
func (lp *LeafParser) assertProgress(before int, production string) {
	if lp.tb.checkpoint() <= before {
		panic(fmt.Sprintf("blockparse: production %q matched without consuming a token", production))
	}
}

// --- blank line ---------------------------------------------------------

func (lp *LeafParser) tryBlankLine() bool {
	mark := lp.tb.checkpoint()
	tok, ok := lp.tb.peek()
	if !ok || tok.Kind != token.Newline {
		lp.tb.rewind(mark)
		return false
	}
	lp.tb.next()
	return true
}

// --- thematic break ------------------------------------------------------

func (lp *LeafParser) tryThematicBreak() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()
	tok, ok := lp.tb.peek()
	if !ok {
		return nil, false
	}
	isRule := tok.Kind == token.RuleStar || tok.Kind == token.RuleUnderline ||
		tok.Kind == token.RuleDashWithWhitespace ||
		(tok.Kind == token.RuleDash && len(tok.Lexeme) >= 3)
	if !isRule {
		lp.tb.rewind(mark)
		return nil, false
	}
	lp.tb.next()
	if nl, ok := lp.tb.peek(); ok && nl.Kind == token.Newline {
		lp.tb.next()
	}
	return ast.New(ast.ThematicBreak), true
}

// --- ATX heading -----------------------------------------------------------

func (lp *LeafParser) tryATXHeading() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()

	if tok, ok := lp.tb.peek(); ok && tok.Kind == token.Whitespace {
		lp.tb.next()
	}

	tok, ok := lp.tb.peek()
	if !ok || tok.Kind != token.Pound {
		lp.tb.rewind(mark)
		return nil, false
	}
	depth := len(tok.Lexeme)
	if depth < 1 || depth > 6 {
		lp.tb.rewind(mark)
		return nil, false
	}
	lp.tb.next()

	var buf bytes.Buffer
	for {
		tok, ok := lp.tb.peek()
		if !ok || tok.Kind == token.Newline {
			if ok {
				lp.tb.next()
			}
			break
		}
		lp.tb.next()
		buf.Write(tok.Lexeme)
	}

	content := trimASCIISpace(buf.Bytes())
	content = trimClosingPoundRun(content)

	h := ast.NewHeading(depth)
	if len(content) > 0 {
		h.Append(ast.NewText(content))
	}
	return h, true
}

// trimClosingPoundRun strips a trailing run of '#' characters (with any
// preceding/following ASCII space) from an ATX heading's inner text, per
// §4.4: "trailing # runs with only trailing whitespace are treated as a
// closing sequence, not as content."
func trimClosingPoundRun(b []byte) []byte {
	end := len(b)
	i := end
	for i > 0 && b[i-1] == '#' {
		i--
	}
	if i == end {
		return b // no trailing #s at all
	}
	closing := trimASCIISpace(b[:i])
	return closing
}

func trimASCIISpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && (b[start] == ' ' || b[start] == '\t') {
		start++
	}
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return b[start:end]
}

// --- indented code block --------------------------------------------------

func (lp *LeafParser) tryIndentedCode() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()
	tok, ok := lp.tb.peek()
	if !ok || tok.Kind != token.Indent {
		lp.tb.rewind(mark)
		return nil, false
	}

	var lines [][]byte
	for {
		lineMark := lp.tb.checkpoint()
		tok, ok := lp.tb.peek()
		if !ok {
			break
		}
		if tok.Kind == token.Indent {
			lp.tb.next()
			lines = append(lines, lp.consumeRestOfLine())
			continue
		}
		if tok.Kind == token.Newline {
			// Blank line: tentatively include it, but only if a further
			// indented line follows; otherwise this blank ends the block
			// and must not be consumed here.
			lp.tb.next()
			var blanks [][]byte
			blanks = append(blanks, nil)
			for {
				nTok, ok := lp.tb.peek()
				if ok && nTok.Kind == token.Newline {
					lp.tb.next()
					blanks = append(blanks, nil)
					continue
				}
				break
			}
			if nTok, ok := lp.tb.peek(); ok && nTok.Kind == token.Indent {
				lines = append(lines, blanks...)
				continue
			}
			lp.tb.rewind(lineMark)
			break
		}
		break
	}

	if len(lines) == 0 {
		lp.tb.rewind(mark)
		return nil, false
	}

	// Trim leading/trailing blank lines.
	for len(lines) > 0 && lines[0] == nil {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == nil {
		lines = lines[:len(lines)-1]
	}

	var buf bytes.Buffer
	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(line)
	}
	return ast.NewCode(nil, buf.Bytes()), true
}

// consumeRestOfLine reads tokens through (and including) the next Newline,
// returning the concatenated lexeme bytes of everything but the newline
// itself.
func (lp *LeafParser) consumeRestOfLine() []byte {
	var buf bytes.Buffer
	for {
		tok, ok := lp.tb.next()
		if !ok || tok.Kind == token.Newline {
			break
		}
		buf.Write(tok.Lexeme)
	}
	return buf.Bytes()
}

// --- fenced code block -----------------------------------------------------

func (lp *LeafParser) tryFencedCode() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()

	indent := 0
	if tok, ok := lp.tb.peek(); ok && tok.Kind == token.Whitespace && len(tok.Lexeme) <= 3 {
		indent = len(tok.Lexeme)
		lp.tb.next()
	}

	tok, ok := lp.tb.peek()
	if !ok || (tok.Kind != token.BacktickFence && tok.Kind != token.TildeFence) {
		lp.tb.rewind(mark)
		return nil, false
	}
	fenceKind := tok.Kind
	fenceLen := len(tok.Lexeme)
	lp.tb.next()

	backtickFence := fenceKind == token.BacktickFence

	// Info string: the rest of the opening line.
	var info bytes.Buffer
	for {
		t, ok := lp.tb.peek()
		if !ok || t.Kind == token.Newline {
			if ok {
				lp.tb.next()
			}
			break
		}
		if backtickFence && bytes.IndexByte(t.Lexeme, '`') >= 0 {
			// A backtick in the info string of a backtick fence is invalid.
			lp.tb.rewind(mark)
			return nil, false
		}
		lp.tb.next()
		info.Write(t.Lexeme)
	}
	lang := trimASCIISpace(info.Bytes())

	var body bytes.Buffer
	first := true
	for {
		// leadingBytes is the literal leading whitespace of this line,
		// synthesized for Indent (which, per §3.1, carries no lexeme even
		// though it matched 4 real columns) rather than re-read from the
		// source — Indent's bytes are gone for good once tokenized.
		var leadingBytes []byte
		if t, ok := lp.tb.peek(); ok && t.Kind == token.Whitespace && len(t.Lexeme) <= 3 {
			leadingBytes = append([]byte(nil), t.Lexeme...)
			lp.tb.next()
		} else if t, ok := lp.tb.peek(); ok && t.Kind == token.Indent {
			leadingBytes = []byte("    ")
			lp.tb.next()
		}

		if t, ok := lp.tb.peek(); ok && t.Kind == fenceKind && len(t.Lexeme) >= fenceLen {
			lp.tb.next()
			// optional trailing whitespace then newline closes the fence
			if w, ok := lp.tb.peek(); ok && w.Kind == token.Whitespace {
				lp.tb.next()
			}
			if nl, ok := lp.tb.peek(); ok && nl.Kind == token.Newline {
				lp.tb.next()
			}
			return ast.NewCode(nonEmpty(lang), bytes.TrimRight(body.Bytes(), "\n")), true
		}

		rest := lp.consumeRestOfLine()
		line := append(leadingBytes, rest...)
		if backtickFence && bytes.ContainsRune(line, '`') {
			lp.tb.rewind(mark)
			return nil, false
		}
		strip := len(leadingBytes)
		if strip > indent {
			strip = indent
		}
		if strip > 0 {
			line = stripLeadingSpaces(line, strip)
		}
		if !first {
			body.WriteByte('\n')
		}
		first = false
		body.Write(line)

		if !lp.peekMore() {
			// Unterminated fence: it still closes at EOF.
			return ast.NewCode(nonEmpty(lang), bytes.TrimRight(body.Bytes(), "\n")), true
		}
	}
}

func stripLeadingSpaces(line []byte, n int) []byte {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}

func (lp *LeafParser) peekMore() bool {
	_, ok := lp.tb.peek()
	return ok
}

func nonEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

// --- setext heading (simplified: a single text line, then the underline) --

func (lp *LeafParser) trySetextHeading() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()

	var buf bytes.Buffer
	sawAny := false
	for {
		tok, ok := lp.tb.peek()
		if !ok || tok.Kind == token.Newline {
			if ok {
				lp.tb.next()
			}
			break
		}
		if !isParagraphSeedable(tok.Kind) {
			lp.tb.rewind(mark)
			return nil, false
		}
		lp.tb.next()
		buf.Write(tok.Lexeme)
		sawAny = true
	}
	if !sawAny {
		lp.tb.rewind(mark)
		return nil, false
	}

	tok, ok := lp.tb.peek()
	if !ok {
		lp.tb.rewind(mark)
		return nil, false
	}
	var depth int
	switch tok.Kind {
	case token.RuleEquals:
		depth = 1
	case token.RuleDash:
		depth = 2
	default:
		lp.tb.rewind(mark)
		return nil, false
	}
	lp.tb.next()
	if nl, ok := lp.tb.peek(); ok && nl.Kind == token.Newline {
		lp.tb.next()
	}

	h := ast.NewHeading(depth)
	content := trimASCIISpace(buf.Bytes())
	if len(content) > 0 {
		h.Append(ast.NewText(content))
	}
	return h, true
}

// isParagraphSeedable reports whether a token kind is plain inline-ish
// content rather than a construct that should preempt setext detection
// (a rule/fence/pound appearing here means some other production should
// have matched first; bail out and let paragraph handle it instead).
func isParagraphSeedable(k token.BlockKind) bool {
	switch k {
	case token.Text, token.Whitespace, token.Colon,
		token.LSquareBracket, token.RSquareBracket,
		token.LAngleBracket, token.RAngleBracket,
		token.LParen, token.RParen,
		token.SingleQuote, token.DoubleQuote:
		return true
	default:
		return false
	}
}

// --- paragraph -------------------------------------------------------------

func (lp *LeafParser) tryParagraph() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()
	tok, ok := lp.tb.peek()
	if !ok || tok.Kind == token.Newline || tok.Kind == token.Close {
		lp.tb.rewind(mark)
		return nil, false
	}

	var buf bytes.Buffer
	const (
		stateOpen = iota
		stateMaybeClose
	)
	state := stateOpen

loop:
	for {
		tok, ok := lp.tb.peek()
		if !ok {
			break
		}
		switch state {
		case stateOpen:
			if tok.Kind == token.Newline {
				lp.tb.next()
				buf.WriteByte('\n')
				state = stateMaybeClose
				continue
			}
			lp.tb.next()
			buf.Write(tok.Lexeme)
		case stateMaybeClose:
			switch {
			case tok.Kind == token.Close:
				lp.tb.next()
				break loop
			case tok.Kind.IsInterrupting():
				break loop
			default:
				lp.tb.next()
				buf.Write(tok.Lexeme)
				state = stateOpen
			}
		}
	}

	if buf.Len() == 0 {
		lp.tb.rewind(mark)
		return nil, false
	}

	p := ast.New(ast.Paragraph)
	p.Append(ast.NewText(bytes.TrimRight(buf.Bytes(), "\n")))
	return p, true
}

// --- link reference definition ---------------------------------------------

func (lp *LeafParser) tryLinkRefDefinition() (*ast.Node, bool) {
	mark := lp.tb.checkpoint()

	if tok, ok := lp.tb.peek(); ok && tok.Kind == token.Whitespace && len(tok.Lexeme) <= 3 {
		lp.tb.next()
	}

	if tok, ok := lp.tb.peek(); !ok || tok.Kind != token.LSquareBracket {
		lp.tb.rewind(mark)
		return nil, false
	}
	lp.tb.next()

	var label bytes.Buffer
	for {
		tok, ok := lp.tb.peek()
		if !ok || tok.Kind == token.Close {
			lp.tb.rewind(mark)
			return nil, false
		}
		if tok.Kind == token.RSquareBracket {
			lp.tb.next()
			break
		}
		if tok.Kind == token.Newline {
			lp.tb.rewind(mark)
			return nil, false
		}
		lp.tb.next()
		label.Write(tok.Lexeme)
	}
	if label.Len() == 0 || label.Len() > linkdef.MaxLabelBytes {
		lp.tb.rewind(mark)
		return nil, false
	}

	if tok, ok := lp.tb.peek(); !ok || tok.Kind != token.Colon {
		lp.tb.rewind(mark)
		return nil, false
	}
	lp.tb.next()

	lp.skipLinkWhitespace()

	url, ok := lp.scanLinkDestination()
	if !ok {
		lp.tb.rewind(mark)
		return nil, false
	}

	preTitle := lp.tb.checkpoint()
	lp.skipLinkWhitespace()
	title, hasTitle := lp.scanLinkTitle()
	if !hasTitle {
		lp.tb.rewind(preTitle)
	}

	// Consume the rest of the line; a definition must be followed by a
	// blank line or EOF to be considered cleanly terminated, but per
	// §9's resolution, a `close` mid-scan simply ends the whole attempt
	// via backtrack (handled above at each scan point); here we just
	// require the remainder of the line to be only whitespace+newline.
	restMark := lp.tb.checkpoint()
	for {
		tok, ok := lp.tb.peek()
		if !ok || tok.Kind == token.Newline {
			if ok {
				lp.tb.next()
			}
			break
		}
		if tok.Kind == token.Whitespace {
			lp.tb.next()
			continue
		}
		lp.tb.rewind(restMark)
		lp.tb.rewind(mark)
		return nil, false
	}

	def := ast.NewDefinition(label.Bytes(), url, title)
	_, _ = lp.LinkDefs.Define(linkdef.Definition{Label: def.Label, URL: def.URL, Title: def.Title})
	return def, true
}

func (lp *LeafParser) skipLinkWhitespace() {
	for {
		tok, ok := lp.tb.peek()
		if !ok {
			return
		}
		if tok.Kind == token.Whitespace || tok.Kind == token.Newline {
			lp.tb.next()
			continue
		}
		return
	}
}

// scanLinkDestination scans either an angle-bracketed or bare link
// destination, per §4.4/§4.6. A `close` token encountered mid-scan ends
// the attempt (ok=false), per §9's documented resolution.
func (lp *LeafParser) scanLinkDestination() (url []byte, ok bool) {
	tok, has := lp.tb.peek()
	if !has {
		return nil, false
	}
	if tok.Kind == token.LAngleBracket {
		lp.tb.next()
		var buf bytes.Buffer
		for {
			t, has := lp.tb.peek()
			if !has || t.Kind == token.Close || t.Kind == token.Newline {
				return nil, false
			}
			if t.Kind == token.RAngleBracket {
				lp.tb.next()
				return buf.Bytes(), true
			}
			lp.tb.next()
			buf.Write(t.Lexeme)
		}
	}

	var buf bytes.Buffer
	depth := 0
	for {
		t, has := lp.tb.peek()
		if !has || t.Kind == token.Close {
			return nil, false
		}
		if t.Kind == token.Newline || t.Kind == token.Whitespace {
			break
		}
		if t.Kind == token.LParen {
			depth++
		}
		if t.Kind == token.RParen {
			if depth == 0 {
				break
			}
			depth--
		}
		lp.tb.next()
		buf.Write(t.Lexeme)
	}
	if buf.Len() == 0 {
		return nil, false
	}
	return buf.Bytes(), true
}

// scanLinkTitle scans a `(...)`, `"..."`, or `'...'` delimited title.
func (lp *LeafParser) scanLinkTitle() (title []byte, ok bool) {
	tok, has := lp.tb.peek()
	if !has {
		return nil, false
	}
	var closeKind token.BlockKind
	switch tok.Kind {
	case token.DoubleQuote:
		closeKind = token.DoubleQuote
	case token.SingleQuote:
		closeKind = token.SingleQuote
	case token.LParen:
		closeKind = token.RParen
	default:
		return nil, false
	}
	lp.tb.next()

	var buf bytes.Buffer
	blankLines := 0
	for {
		t, has := lp.tb.peek()
		if !has || t.Kind == token.Close {
			return nil, false
		}
		if t.Kind == closeKind {
			lp.tb.next()
			return buf.Bytes(), true
		}
		if t.Kind == token.Newline {
			lp.tb.next()
			blankLines++
			if blankLines > 1 {
				return nil, false
			}
			buf.WriteByte('\n')
			continue
		}
		blankLines = 0
		lp.tb.next()
		buf.Write(t.Lexeme)
	}
}
