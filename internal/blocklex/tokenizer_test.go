package blocklex_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/atrus/internal/blocklex"
	"github.com/sinclairtarget/atrus/internal/lines"
	"github.com/sinclairtarget/atrus/internal/token"
)

func tokenize(t *testing.T, src string) []token.Block {
	t.Helper()
	tz := blocklex.New(lines.New(strings.NewReader(src)))
	var got []token.Block
	for {
		tok, err := tz.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, tok)
	}
	return got
}

func kinds(toks []token.Block) []token.BlockKind {
	out := make([]token.BlockKind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

// "Block tokenization stability" (§8): any line containing none of the
// tokenizer's decision characters yields exactly one text token followed by
// one newline.
func TestTokenizer_PlainLineIsOneTextTokenThenNewline(t *testing.T) {
	toks := tokenize(t, "helloworld\n")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Text, toks[0].Kind)
	assert.Equal(t, "helloworld", string(toks[0].Lexeme))
	assert.Equal(t, token.Newline, toks[1].Kind)
}

func TestTokenizer_FourSpaceIndent(t *testing.T) {
	toks := tokenize(t, "    code\n")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.Indent, toks[0].Kind)
	assert.Nil(t, toks[0].Lexeme)
	assert.Equal(t, token.Text, toks[1].Kind)
}

func TestTokenizer_TabIsIndent(t *testing.T) {
	toks := tokenize(t, "\tcode\n")
	assert.Equal(t, token.Indent, toks[0].Kind)
}

func TestTokenizer_OneToThreeSpacesAreWhitespace(t *testing.T) {
	toks := tokenize(t, "  text\n")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Whitespace, toks[0].Kind)
	assert.Equal(t, "  ", string(toks[0].Lexeme))
}

func TestTokenizer_BacktickFence(t *testing.T) {
	toks := tokenize(t, "```go\n")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.BacktickFence, toks[0].Kind)
	assert.Equal(t, "```", string(toks[0].Lexeme))
	assert.Equal(t, token.Text, toks[1].Kind)
	assert.Equal(t, "go", string(toks[1].Lexeme))
}

func TestTokenizer_TildeFence(t *testing.T) {
	toks := tokenize(t, "~~~~\n")
	assert.Equal(t, token.TildeFence, toks[0].Kind)
	assert.Equal(t, "~~~~", string(toks[0].Lexeme))
}

func TestTokenizer_TwoBackticksIsNotAFence(t *testing.T) {
	toks := tokenize(t, "``\n")
	assert.Equal(t, token.Text, toks[0].Kind)
}

func TestTokenizer_ThematicBreaks(t *testing.T) {
	assert.Equal(t, []token.BlockKind{token.RuleStar, token.Newline}, kinds(tokenize(t, "***\n")))
	assert.Equal(t, []token.BlockKind{token.RuleUnderline, token.Newline}, kinds(tokenize(t, "___\n")))

	dash := tokenize(t, "---\n")
	require.Len(t, dash, 2)
	assert.Equal(t, token.RuleDash, dash[0].Kind)
	assert.Equal(t, "---", string(dash[0].Lexeme))

	dashWS := tokenize(t, "- - -\n")
	assert.Equal(t, token.RuleDashWithWhitespace, dashWS[0].Kind)
	assert.Nil(t, dashWS[0].Lexeme)
}

func TestTokenizer_SetextUnderlineEquals(t *testing.T) {
	toks := tokenize(t, "===\n")
	assert.Equal(t, token.RuleEquals, toks[0].Kind)
	assert.Equal(t, "===", string(toks[0].Lexeme))
}

func TestTokenizer_BlockquoteMarkerAbsorbsOneSpace(t *testing.T) {
	toks := tokenize(t, "> quoted\n")
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, token.RAngleBracketBlockquote, toks[0].Kind)
	assert.Equal(t, "> ", string(toks[0].Lexeme))
	assert.Equal(t, token.Text, toks[1].Kind)
	assert.Equal(t, "quoted", string(toks[1].Lexeme))
}

func TestTokenizer_BlockquoteMarkerNoTrailingSpace(t *testing.T) {
	toks := tokenize(t, ">quoted\n")
	assert.Equal(t, ">", string(toks[0].Lexeme))
}

func TestTokenizer_PoundHeading(t *testing.T) {
	toks := tokenize(t, "## Heading\n")
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, token.Pound, toks[0].Kind)
	assert.Equal(t, "##", string(toks[0].Lexeme))
	assert.Equal(t, token.Whitespace, toks[1].Kind)
	assert.Equal(t, token.Text, toks[2].Kind)
	assert.Equal(t, "Heading", string(toks[2].Lexeme))
}

func TestTokenizer_PoundNotWordBoundedIsText(t *testing.T) {
	toks := tokenize(t, "a#b\n")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Text, toks[0].Kind)
	assert.Equal(t, "a#b", string(toks[0].Lexeme))
}

func TestTokenizer_MidLineBackticksAreText(t *testing.T) {
	toks := tokenize(t, "use `code` here\n")
	assert.Equal(t, token.Text, toks[0].Kind)
	assert.Equal(t, "use", string(toks[0].Lexeme))
}

func TestTokenizer_SingleCharTokens(t *testing.T) {
	toks := tokenize(t, "[a](b):'\"<>\n")
	got := kinds(toks)
	want := []token.BlockKind{
		token.LSquareBracket, token.Text, token.RSquareBracket,
		token.LParen, token.Text, token.RParen, token.Colon,
		token.SingleQuote, token.DoubleQuote, token.LAngleBracket,
		token.RAngleBracket, token.Newline,
	}
	assert.Equal(t, want, got)
}

func TestTokenizer_MultipleLines(t *testing.T) {
	toks := tokenize(t, "one\ntwo\n")
	got := kinds(toks)
	assert.Equal(t, []token.BlockKind{
		token.Text, token.Newline, token.Text, token.Newline,
	}, got)
}

func TestTokenizer_EmptyInputYieldsNoTokens(t *testing.T) {
	toks := tokenize(t, "")
	assert.Empty(t, toks)
}

func TestTokenizer_ReadError(t *testing.T) {
	tz := blocklex.New(lines.NewSize(strings.NewReader("abcdefgh\n"), 4))
	_, err := tz.Next()
	assert.Error(t, err)
}
