package blockparse_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/blocklex"
	"github.com/sinclairtarget/atrus/internal/blockparse"
	"github.com/sinclairtarget/atrus/internal/linkdef"
	"github.com/sinclairtarget/atrus/internal/lines"
)

func parse(t *testing.T, src string) (*ast.Node, *linkdef.Map) {
	t.Helper()
	tz := blocklex.New(lines.New(strings.NewReader(src)))
	root, defs, err := blockparse.ParseDocument(tz)
	require.NoError(t, err)
	return root, defs
}

// scenario 1: heading + paragraph.
func TestParseDocument_HeadingAndParagraph(t *testing.T) {
	root, _ := parse(t, "# Heading\nThis is a paragraph.\n")
	require.Len(t, root.Children, 2)

	h := root.Children[0]
	assert.Equal(t, ast.Heading, h.Kind)
	assert.Equal(t, 1, h.Depth)
	require.Len(t, h.Children, 1)
	assert.Equal(t, "Heading", string(h.Children[0].Value))

	p := root.Children[1]
	assert.Equal(t, ast.Paragraph, p.Kind)
	require.Len(t, p.Children, 1)
	assert.Equal(t, "This is a paragraph.", string(p.Children[0].Value))
}

// scenario 2: fenced code with a two-space strip.
func TestParseDocument_FencedCodeStripsCommonIndent(t *testing.T) {
	root, _ := parse(t, "  ```python\n  def foo():\n      pass\n  ```\n")
	require.Len(t, root.Children, 1)
	code := root.Children[0]
	assert.Equal(t, ast.Code, code.Kind)
	assert.Equal(t, "python", string(code.Lang))
	assert.Equal(t, "def foo():\n    pass", string(code.Value))
}

// scenario 3 (block-level half): link reference definition registers.
func TestParseDocument_LinkReferenceDefinition(t *testing.T) {
	root, defs := parse(t, "[foo][bar]\n\n[bar]: /url \"title\"\n")
	require.Len(t, root.Children, 2)

	p := root.Children[0]
	assert.Equal(t, ast.Paragraph, p.Kind)
	assert.Equal(t, "[foo][bar]", string(p.Children[0].Value))

	def := root.Children[1]
	assert.Equal(t, ast.Definition, def.Kind)
	assert.Equal(t, "bar", string(def.Label))
	assert.Equal(t, "/url", string(def.URL))
	assert.Equal(t, "title", string(def.Title))

	got, ok := defs.Lookup([]byte("BAR"))
	require.True(t, ok)
	assert.Equal(t, "/url", string(got.URL))
}

// scenario 5: blockquote lazy continuation, then an unprefixed interrupting
// line closes the container.
func TestParseDocument_BlockquoteLazyContinuation(t *testing.T) {
	root, _ := parse(t, ">This should\nrun on\nfor multiple lines.\n\n>foo\n# bar\n")
	require.Len(t, root.Children, 3)

	bq1 := root.Children[0]
	require.Equal(t, ast.Blockquote, bq1.Kind)
	require.Len(t, bq1.Children, 1)
	assert.Equal(t, ast.Paragraph, bq1.Children[0].Kind)
	assert.Equal(t, "This should\nrun on\nfor multiple lines.", string(bq1.Children[0].Children[0].Value))

	bq2 := root.Children[1]
	require.Equal(t, ast.Blockquote, bq2.Kind)
	require.Len(t, bq2.Children, 1)
	assert.Equal(t, "foo", string(bq2.Children[0].Children[0].Value))

	h := root.Children[2]
	assert.Equal(t, ast.Heading, h.Kind)
	assert.Equal(t, 1, h.Depth)
	assert.Equal(t, "bar", string(h.Children[0].Value))
}

// §4.3's container stack nests: a second leading `>` on the same line opens
// a further blockquote level rather than becoming paragraph content.
func TestParseDocument_NestedBlockquote(t *testing.T) {
	root, _ := parse(t, "> > b\n")
	require.Len(t, root.Children, 1)

	outer := root.Children[0]
	require.Equal(t, ast.Blockquote, outer.Kind)
	require.Len(t, outer.Children, 1)

	inner := outer.Children[0]
	require.Equal(t, ast.Blockquote, inner.Kind)
	require.Len(t, inner.Children, 1)

	p := inner.Children[0]
	assert.Equal(t, ast.Paragraph, p.Kind)
	assert.Equal(t, "b", string(p.Children[0].Value))
}

// A nested blockquote that closes both levels at once on a blank line still
// attaches its paragraph to the innermost container, not the outer one.
func TestParseDocument_NestedBlockquoteClosesOnBlankLine(t *testing.T) {
	root, _ := parse(t, "> > b\n\nafter\n")
	require.Len(t, root.Children, 2)

	outer := root.Children[0]
	require.Equal(t, ast.Blockquote, outer.Kind)
	inner := outer.Children[0]
	require.Equal(t, ast.Blockquote, inner.Kind)
	assert.Equal(t, "b", string(inner.Children[0].Children[0].Value))

	p := root.Children[1]
	assert.Equal(t, ast.Paragraph, p.Kind)
	assert.Equal(t, "after", string(p.Children[0].Value))
}

func TestParseDocument_ThematicBreak(t *testing.T) {
	for _, src := range []string{"***\n", "___\n", "- - -\n", "---\n"} {
		root, _ := parse(t, src)
		require.Len(t, root.Children, 1, "src=%q", src)
		assert.Equal(t, ast.ThematicBreak, root.Children[0].Kind, "src=%q", src)
	}
}

func TestParseDocument_IndentedCode(t *testing.T) {
	root, _ := parse(t, "    one\n    two\n")
	require.Len(t, root.Children, 1)
	code := root.Children[0]
	assert.Equal(t, ast.Code, code.Kind)
	assert.Equal(t, "one\ntwo", string(code.Value))
}

func TestParseDocument_SetextHeading(t *testing.T) {
	root, _ := parse(t, "Title\n===\n")
	require.Len(t, root.Children, 1)
	h := root.Children[0]
	assert.Equal(t, ast.Heading, h.Kind)
	assert.Equal(t, 1, h.Depth)
	assert.Equal(t, "Title", string(h.Children[0].Value))
}

func TestParseDocument_ATXHeadingTrimsClosingHashes(t *testing.T) {
	root, _ := parse(t, "## Heading ##\n")
	require.Len(t, root.Children, 1)
	h := root.Children[0]
	assert.Equal(t, 2, h.Depth)
	assert.Equal(t, "Heading", string(h.Children[0].Value))
}

func TestParseDocument_EmptyInputYieldsNoChildren(t *testing.T) {
	root, _ := parse(t, "")
	assert.Empty(t, root.Children)
}
