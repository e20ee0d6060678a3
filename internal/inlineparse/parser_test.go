package inlineparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/inlineparse"
)

func parse(t *testing.T, src string) []*ast.Node {
	t.Helper()
	nodes, err := inlineparse.Parse([]byte(src))
	require.NoError(t, err)
	return nodes
}

func TestParse_PlainText(t *testing.T) {
	nodes := parse(t, "hello world")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.Text, nodes[0].Kind)
	assert.Equal(t, "hello world", string(nodes[0].Value))
}

func TestParse_StarEmphasis(t *testing.T) {
	nodes := parse(t, "*foo*")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Emphasis, nodes[0].Kind)
	require.Len(t, nodes[0].Children, 1)
	assert.Equal(t, "foo", string(nodes[0].Children[0].Value))
}

func TestParse_StarStrong(t *testing.T) {
	nodes := parse(t, "**foo**")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Strong, nodes[0].Kind)
	assert.Equal(t, "foo", string(nodes[0].Children[0].Value))
}

func TestParse_UnderscoreEmphasisNotIntraword(t *testing.T) {
	nodes := parse(t, "foo_bar_baz")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.Text, nodes[0].Kind)
	assert.Equal(t, "foo_bar_baz", string(nodes[0].Value))
}

func TestParse_UnderscoreEmphasis(t *testing.T) {
	nodes := parse(t, "_foo_")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Emphasis, nodes[0].Kind)
	assert.Equal(t, "foo", string(nodes[0].Children[0].Value))
}

func TestParse_NestedStrongInsideEmphasis(t *testing.T) {
	nodes := parse(t, "*a **b** c*")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Emphasis, nodes[0].Kind)
	require.Len(t, nodes[0].Children, 3)
	assert.Equal(t, ast.Text, nodes[0].Children[0].Kind)
	assert.Equal(t, ast.Strong, nodes[0].Children[1].Kind)
	assert.Equal(t, "b", string(nodes[0].Children[1].Children[0].Value))
}

func TestParse_CodeSpan(t *testing.T) {
	nodes := parse(t, "`foo`")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.InlineCode, nodes[0].Kind)
	assert.Equal(t, "foo", string(nodes[0].Value))
}

func TestParse_CodeSpanStripsSurroundingSingleSpace(t *testing.T) {
	nodes := parse(t, "` foo `")
	require.Len(t, nodes, 1)
	assert.Equal(t, "foo", string(nodes[0].Value))
}

func TestParse_CodeSpanLiteralDelimiterInside(t *testing.T) {
	nodes := parse(t, "`*foo*`")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.InlineCode, nodes[0].Kind)
	assert.Equal(t, "*foo*", string(nodes[0].Value))
}

func TestParse_URIAutolink(t *testing.T) {
	nodes := parse(t, "<http://example.com>")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Link, nodes[0].Kind)
	assert.Equal(t, "http://example.com", string(nodes[0].URL))
	assert.Equal(t, "http://example.com", string(nodes[0].Children[0].Value))
}

func TestParse_EmailAutolink(t *testing.T) {
	nodes := parse(t, "<foo@example.com>")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Link, nodes[0].Kind)
	assert.Equal(t, "mailto:foo@example.com", string(nodes[0].URL))
}

func TestParse_ExplicitLink(t *testing.T) {
	nodes := parse(t, `[text](/url "title")`)
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Link, nodes[0].Kind)
	assert.Equal(t, "/url", string(nodes[0].URL))
	assert.Equal(t, "title", string(nodes[0].Title))
	assert.Equal(t, "text", string(nodes[0].Children[0].Value))
}

func TestParse_ExplicitImage(t *testing.T) {
	nodes := parse(t, `![alt text](/img.png)`)
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Image, nodes[0].Kind)
	assert.Equal(t, "/img.png", string(nodes[0].URL))
	assert.Equal(t, "alt text", string(nodes[0].Alt))
}

func TestParse_ShortcutReferenceLinkLeavesURLEmptyForPostProcess(t *testing.T) {
	nodes := parse(t, "[foo]")
	require.Len(t, nodes, 1)
	require.Equal(t, ast.Link, nodes[0].Kind)
	assert.Empty(t, nodes[0].URL)
	assert.Equal(t, "foo", string(nodes[0].Children[0].Value))
}

func TestParse_NestedLinkAbortsOuterParse(t *testing.T) {
	nodes := parse(t, "[a [b](/c) d]")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.Text, nodes[0].Kind)
	assert.Equal(t, "[a [b](/c) d]", string(nodes[0].Value))
}

func TestParse_EntityReference(t *testing.T) {
	nodes := parse(t, "&amp;")
	require.Len(t, nodes, 1)
	assert.Equal(t, "&", string(nodes[0].Value))
}

func TestParse_DecimalCharRef(t *testing.T) {
	nodes := parse(t, "&#65;")
	require.Len(t, nodes, 1)
	assert.Equal(t, "A", string(nodes[0].Value))
}

func TestParse_BackslashEscapeRemoved(t *testing.T) {
	nodes := parse(t, `\*foo\*`)
	require.Len(t, nodes, 1)
	assert.Equal(t, "*foo*", string(nodes[0].Value))
}

func TestParse_UnescapableBackslashPreserved(t *testing.T) {
	nodes := parse(t, `a\qb`)
	require.Len(t, nodes, 1)
	assert.Equal(t, `a\qb`, string(nodes[0].Value))
}
