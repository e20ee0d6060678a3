// Package postprocess implements §4.9 PostProcess: the final, idempotent
// transform applied to a fully inline-parsed document tree before it can be
// rendered to HTML.
//
// It does two things: wraps root.children in a single block node (so the
// JSON/HTML renderers always see a uniform root -> block -> ... shape), and
// resolves any link/image node an earlier stage left with an empty URL —
// the shortcut (`[label]`) and collapsed (`[label][]`) reference forms —
// against the LinkDefMap populated during block parsing. An unresolved
// reference falls back to its literal bracket text, per CommonMark.
package postprocess

import (
	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/linkdef"
)

// Run applies PostProcess to root, using defs to resolve deferred
// link/image references. Safe to call more than once on the same tree: the
// block-wrapping step only happens the first time, and re-resolving an
// already-resolved reference (or re-walking already-literal fallback text)
// is a no-op, so the result is stable under repeated application.
func Run(root *ast.Node, defs *linkdef.Map) *ast.Node {
	if !root.IsPostProcessed {
		block := ast.New(ast.Block)
		block.Children = root.Children
		root.Children = []*ast.Node{block}
		root.IsPostProcessed = true
	}
	root.Children = resolveDeferred(root.Children, defs)
	return root
}

// resolveDeferred walks children depth-first, resolving every link/image
// node with an empty URL against defs and replacing unresolved ones with
// their literal bracket text in place. It returns the (possibly
// longer-than-input, due to literal-text splicing) replacement slice.
func resolveDeferred(children []*ast.Node, defs *linkdef.Map) []*ast.Node {
	out := make([]*ast.Node, 0, len(children))
	for _, n := range children {
		if len(n.Children) > 0 {
			n.Children = resolveDeferred(n.Children, defs)
		}

		if (n.Kind == ast.Link || n.Kind == ast.Image) && len(n.URL) == 0 {
			label := labelFor(n)
			if def, ok := defs.Lookup(label); ok {
				n.URL = append([]byte(nil), def.URL...)
				if len(n.Title) == 0 {
					n.Title = append([]byte(nil), def.Title...)
				}
				out = append(out, n)
				continue
			}
			for _, m := range literalBracketText(n) {
				if k := len(out) - 1; k >= 0 && out[k].Kind == ast.Text && m.Kind == ast.Text {
					out[k] = ast.NewText(append(append([]byte(nil), out[k].Value...), m.Value...))
					continue
				}
				out = append(out, m)
			}
			continue
		}

		if k := len(out) - 1; k >= 0 && out[k].Kind == ast.Text && n.Kind == ast.Text {
			out[k] = ast.NewText(append(append([]byte(nil), out[k].Value...), n.Value...))
			continue
		}
		out = append(out, n)
	}
	return out
}

// labelFor returns the text LinkDefMap lookups key on: a link's rendered
// descriptor, or an image's already-flattened alt text.
func labelFor(n *ast.Node) []byte {
	if n.Kind == ast.Image {
		return n.Alt
	}
	return []byte(ast.AltText(n))
}

// literalBracketText rebuilds the source-level bracket form of an
// unresolved reference, coalescing the synthesized bracket characters into
// an adjacent text child where one exists; resolveDeferred then merges the
// result with any neighbouring text siblings so the "no adjacent text
// siblings" invariant (§4.7) still holds.
func literalBracketText(n *ast.Node) []*ast.Node {
	if n.Kind == ast.Image {
		val := append([]byte("!["), n.Alt...)
		val = append(val, ']')
		return []*ast.Node{ast.NewText(val)}
	}

	kids := n.Children
	if len(kids) == 0 {
		return []*ast.Node{ast.NewText([]byte("[]"))}
	}

	out := make([]*ast.Node, 0, len(kids)+2)
	if kids[0].Kind == ast.Text {
		kids[0].Value = append([]byte("["), kids[0].Value...)
	} else {
		out = append(out, ast.NewText([]byte("[")))
	}
	out = append(out, kids...)
	if last := kids[len(kids)-1]; last.Kind == ast.Text {
		last.Value = append(last.Value, ']')
	} else {
		out = append(out, ast.NewText([]byte("]")))
	}
	return out
}
