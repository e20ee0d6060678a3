package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sinclairtarget/atrus/internal/ast"
)

func TestNodeList_CoalescesAdjacentText(t *testing.T) {
	nl := ast.NewNodeList(nil)
	nl.AppendText([]byte("hello "))
	nl.AppendText([]byte("world"))
	nl.Append(ast.New(ast.Break))
	nl.AppendText([]byte("more"))

	children := nl.Slice()
	if assert.Len(t, children, 3) {
		assert.Equal(t, ast.Text, children[0].Kind)
		assert.Equal(t, "hello world", string(children[0].Value))
		assert.Equal(t, ast.Break, children[1].Kind)
	}

	// the trailing "more" was flushed by Slice into a 3rd child
	nl2 := ast.NewNodeList(nil)
	nl2.AppendText([]byte("a"))
	nl2.Append(ast.New(ast.Break))
	nl2.AppendText([]byte("b"))
	children2 := nl2.Slice()
	assert.Len(t, children2, 3)
}

func TestNodeList_LenPanicsOnPendingText(t *testing.T) {
	nl := ast.NewNodeList(nil)
	nl.AppendText([]byte("pending"))
	assert.Panics(t, func() { nl.Len() })
	nl.Flush()
	assert.NotPanics(t, func() { nl.Len() })
}

func TestNodeList_CustomFactory(t *testing.T) {
	var got []byte
	nl := ast.NewNodeList(func(b []byte) *ast.Node {
		got = append([]byte(nil), b...)
		return ast.NewText(b)
	})
	nl.AppendText([]byte("x"))
	nl.Flush()
	assert.Equal(t, []byte("x"), got)
}
