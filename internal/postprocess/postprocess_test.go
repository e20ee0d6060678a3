package postprocess_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/linkdef"
	"github.com/sinclairtarget/atrus/internal/postprocess"
)

func TestRun_WrapsChildrenInSingleBlock(t *testing.T) {
	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	p.Append(ast.NewText([]byte("hello")))
	root.Append(p)

	out := postprocess.Run(root, &linkdef.Map{})

	require.True(t, out.IsPostProcessed)
	require.Len(t, out.Children, 1)
	assert.Equal(t, ast.Block, out.Children[0].Kind)
	require.Len(t, out.Children[0].Children, 1)
	assert.Equal(t, ast.Paragraph, out.Children[0].Children[0].Kind)
}

func TestRun_IsIdempotent(t *testing.T) {
	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	p.Append(ast.NewText([]byte("hello")))
	root.Append(p)

	first := postprocess.Run(root, &linkdef.Map{})
	require.Len(t, first.Children, 1)

	second := postprocess.Run(first, &linkdef.Map{})
	require.True(t, second.IsPostProcessed)
	require.Len(t, second.Children, 1)
	assert.Equal(t, ast.Block, second.Children[0].Kind)
	require.Len(t, second.Children[0].Children, 1)
	assert.Equal(t, ast.Paragraph, second.Children[0].Children[0].Kind)
}

func TestRun_ResolvesShortcutLinkAgainstLinkDefMap(t *testing.T) {
	defs := &linkdef.Map{}
	_, err := defs.Define(linkdef.Definition{Label: []byte("foo"), URL: []byte("/bar"), Title: []byte("a title")})
	require.NoError(t, err)

	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	link := ast.NewLink(nil, nil, []*ast.Node{ast.NewText([]byte("foo"))})
	p.Append(link)
	root.Append(p)

	out := postprocess.Run(root, defs)

	resolved := out.Children[0].Children[0].Children[0]
	require.Equal(t, ast.Link, resolved.Kind)
	assert.Equal(t, "/bar", string(resolved.URL))
	assert.Equal(t, "a title", string(resolved.Title))
}

func TestRun_ResolutionIsCaseInsensitive(t *testing.T) {
	defs := &linkdef.Map{}
	_, err := defs.Define(linkdef.Definition{Label: []byte("Foo Bar"), URL: []byte("/x")})
	require.NoError(t, err)

	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	link := ast.NewLink(nil, nil, []*ast.Node{ast.NewText([]byte("foo bar"))})
	p.Append(link)
	root.Append(p)

	out := postprocess.Run(root, defs)

	resolved := out.Children[0].Children[0].Children[0]
	assert.Equal(t, "/x", string(resolved.URL))
}

func TestRun_UnresolvedLinkFallsBackToLiteralBracketText(t *testing.T) {
	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	link := ast.NewLink(nil, nil, []*ast.Node{ast.NewText([]byte("foo"))})
	p.Append(link)
	root.Append(p)

	out := postprocess.Run(root, &linkdef.Map{})

	para := out.Children[0].Children[0]
	require.Len(t, para.Children, 1)
	assert.Equal(t, ast.Text, para.Children[0].Kind)
	assert.Equal(t, "[foo]", string(para.Children[0].Value))
}

func TestRun_UnresolvedLinkWithFormattingPreservesChildren(t *testing.T) {
	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	emph := ast.New(ast.Emphasis)
	emph.Append(ast.NewText([]byte("foo")))
	link := ast.NewLink(nil, nil, []*ast.Node{emph})
	p.Append(link)
	root.Append(p)

	out := postprocess.Run(root, &linkdef.Map{})

	para := out.Children[0].Children[0]
	require.Len(t, para.Children, 3)
	assert.Equal(t, ast.Text, para.Children[0].Kind)
	assert.Equal(t, "[", string(para.Children[0].Value))
	assert.Equal(t, ast.Emphasis, para.Children[1].Kind)
	assert.Equal(t, ast.Text, para.Children[2].Kind)
	assert.Equal(t, "]", string(para.Children[2].Value))
}

func TestRun_UnresolvedImageFallsBackToLiteralBracketText(t *testing.T) {
	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	img := ast.NewImage(nil, nil, []byte("alt text"))
	p.Append(img)
	root.Append(p)

	out := postprocess.Run(root, &linkdef.Map{})

	para := out.Children[0].Children[0]
	require.Len(t, para.Children, 1)
	assert.Equal(t, ast.Text, para.Children[0].Kind)
	assert.Equal(t, "![alt text]", string(para.Children[0].Value))
}

func TestRun_ResolvesImageAgainstLinkDefMap(t *testing.T) {
	defs := &linkdef.Map{}
	_, err := defs.Define(linkdef.Definition{Label: []byte("pic"), URL: []byte("/pic.png")})
	require.NoError(t, err)

	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	img := ast.NewImage(nil, nil, []byte("pic"))
	p.Append(img)
	root.Append(p)

	out := postprocess.Run(root, defs)

	resolved := out.Children[0].Children[0].Children[0]
	require.Equal(t, ast.Image, resolved.Kind)
	assert.Equal(t, "/pic.png", string(resolved.URL))
}

func TestRun_DoesNotTouchLinksThatAlreadyHaveAURL(t *testing.T) {
	root := ast.New(ast.Root)
	p := ast.New(ast.Paragraph)
	link := ast.NewLink([]byte("/already"), nil, []*ast.Node{ast.NewText([]byte("foo"))})
	p.Append(link)
	root.Append(p)

	out := postprocess.Run(root, &linkdef.Map{})

	resolved := out.Children[0].Children[0].Children[0]
	assert.Equal(t, ast.Link, resolved.Kind)
	assert.Equal(t, "/already", string(resolved.URL))
}
