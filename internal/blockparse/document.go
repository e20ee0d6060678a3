package blockparse

import (
	"errors"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/linkdef"
)

// ParseDocument runs the full block-level parse (§4.3 + §4.4) over src,
// returning a Root AST node whose children are in source order and a
// populated LinkDefMap. It is the "outer loop" §4.3 describes: drive the
// LeafParser one block at a time, and after each call replay whatever
// container-stack transitions happened during its production against an
// AST node stack, attaching the produced node to whichever container was
// current at the time.
func ParseDocument(src TokenSource) (*ast.Node, *linkdef.Map, error) {
	cp := NewContainerParser(src)
	leaf := NewLeafParser(cp)

	root := ast.New(ast.Root)
	stack := []*ast.Node{root}

	for {
		node, produced, err := leaf.ParseBlock()
		events := cp.drainEvents()
		// A call's events are, at most, a leading run of opens (matching
		// however many new `>` markers started the node's own line) followed
		// by a trailing run of closes (discovered by the paragraph
		// production's one-token lookahead into whatever line comes next).
		// The produced node's content was read at the deepest point reached
		// by the leading opens, before any trailing close undoes them, so it
		// must attach there — not wherever the stack ends up once the whole
		// batch (opens and closes alike) has replayed.
		attached := !produced
		for _, ev := range events {
			if ev == eventCloseBlockquote && !attached {
				stack[len(stack)-1].Append(node)
				attached = true
			}
			switch ev {
			case eventOpenBlockquote:
				bq := ast.New(ast.Blockquote)
				stack[len(stack)-1].Append(bq)
				stack = append(stack, bq)
			case eventCloseBlockquote:
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			}
		}
		if !attached {
			stack[len(stack)-1].Append(node)
		}

		if err != nil {
			if errors.Is(err, errEOF) {
				return root, leaf.LinkDefs, nil
			}
			return root, leaf.LinkDefs, err
		}
	}
}
