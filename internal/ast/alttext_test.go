package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sinclairtarget/atrus/internal/ast"
)

func TestAltText(t *testing.T) {
	em := ast.New(ast.Emphasis)
	em.Append(ast.NewText([]byte("lighthouse")))

	img := ast.NewImage([]byte("u"), nil, []byte("a picture"))

	p := ast.New(ast.Paragraph)
	p.Append(ast.NewText([]byte("see the ")))
	p.Append(em)
	p.Append(ast.New(ast.Break))
	p.Append(img)

	assert.Equal(t, "see the lighthousea picture", ast.AltText(p))
}
