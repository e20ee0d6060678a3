// Package ast defines the document tree atrus parses Markdown into.
//
// A Node is a single tagged variant over every node kind in the tree
// (§3.2 of the specification this module implements), the same way
// jcorbin/soc's scandown.Block is one struct whose Delim/Width/Indent
// fields are overloaded differently per BlockType: rather than one Go type
// per AST node kind, Kind selects which of Node's fields are meaningful.
// Each Node owns its Children and byte payloads outright; tearing one down
// tears down the whole subtree (there are no back-edges, so plain value
// ownership is sufficient — no arena, no refcounting).
package ast

import (
	"fmt"
	"io"
)

// Kind identifies which variant of Node a value represents.
type Kind int

// Node kinds, per the specification's data model.
const (
	invalidKind Kind = iota
	Root
	Block
	Paragraph
	Blockquote
	Heading
	ThematicBreak
	Code
	InlineCode
	Text
	Emphasis
	Strong
	Link
	Image
	Definition
	Break
)

// Node is a single node of the parsed document tree.
type Node struct {
	Kind Kind

	Children []*Node

	// Depth is the heading level, 1..6. Heading only.
	Depth int

	// Value holds literal bytes: Code's body, InlineCode's body, or Text's
	// bytes.
	Value []byte

	// Lang is the fenced/indented code block's info-string language tag.
	// Code only.
	Lang []byte

	// URL is the link/image/definition destination.
	URL []byte

	// Title is the link/image/definition title.
	Title []byte

	// Label is the definition's link label, stored as written (lookups go
	// through an ASCII-lowercased key; see the linkdef package).
	Label []byte

	// Alt is the image's rendered-to-plain-text alternative text. Image
	// only.
	Alt []byte

	// IsPostProcessed marks a Root that has been through PostProcess. Root
	// only.
	IsPostProcessed bool
}

// New returns a new childless Node of the given kind.
func New(kind Kind) *Node { return &Node{Kind: kind} }

// NewText returns a new Text node wrapping value. The caller transfers
// ownership of value to the node; it must not be mutated afterward.
func NewText(value []byte) *Node { return &Node{Kind: Text, Value: value} }

// NewHeading returns a new childless Heading node of the given depth.
// Panics if depth is outside [1,6].
func NewHeading(depth int) *Node {
	if depth < 1 || depth > 6 {
		panic(fmt.Sprintf("ast: invalid heading depth %d", depth))
	}
	return &Node{Kind: Heading, Depth: depth}
}

// NewCode returns a new Code node.
func NewCode(lang, value []byte) *Node {
	return &Node{Kind: Code, Lang: lang, Value: value}
}

// NewInlineCode returns a new InlineCode node.
func NewInlineCode(value []byte) *Node { return &Node{Kind: InlineCode, Value: value} }

// NewDefinition returns a new Definition node.
func NewDefinition(label, url, title []byte) *Node {
	return &Node{Kind: Definition, Label: label, URL: url, Title: title}
}

// NewLink returns a new Link node with the given children.
func NewLink(url, title []byte, children []*Node) *Node {
	return &Node{Kind: Link, URL: url, Title: title, Children: children}
}

// NewImage returns a new Image node.
func NewImage(url, title, alt []byte) *Node {
	return &Node{Kind: Image, URL: url, Title: title, Alt: alt}
}

// Append adds a child to the node.
func (n *Node) Append(child *Node) { n.Children = append(n.Children, child) }

// LastChild returns the node's final child, or nil if it has none.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Walk visits n and every descendant, depth-first pre-order, calling fn on
// each. Walk stops early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Format implements fmt.Formatter, printing a one-line summary under %v and
// a more detailed "Kind attr=value" form under %+v — analogous to
// scandown.Block's Format in the teacher, which overloads the same pattern
// for debug-printing a tagged variant compactly.
func (n Node) Format(f fmt.State, c rune) {
	if c != 'v' {
		fmt.Fprintf(f, "%%!%c(ast.Node)", c)
		return
	}
	verbose := f.Flag('+')
	switch n.Kind {
	case Heading:
		fmt.Fprintf(f, "Heading%d", n.Depth)
		if verbose {
			fmt.Fprintf(f, " children=%d", len(n.Children))
		}
	case Code:
		if verbose {
			fmt.Fprintf(f, "Code lang=%q value=%q", n.Lang, n.Value)
		} else {
			io.WriteString(f, "Code")
		}
	case InlineCode:
		if verbose {
			fmt.Fprintf(f, "InlineCode value=%q", n.Value)
		} else {
			io.WriteString(f, "InlineCode")
		}
	case Text:
		if verbose {
			fmt.Fprintf(f, "Text %q", n.Value)
		} else {
			io.WriteString(f, "Text")
		}
	case Link:
		if verbose {
			fmt.Fprintf(f, "Link url=%q title=%q children=%d", n.URL, n.Title, len(n.Children))
		} else {
			io.WriteString(f, "Link")
		}
	case Image:
		if verbose {
			fmt.Fprintf(f, "Image url=%q title=%q alt=%q", n.URL, n.Title, n.Alt)
		} else {
			io.WriteString(f, "Image")
		}
	case Definition:
		if verbose {
			fmt.Fprintf(f, "Definition label=%q url=%q title=%q", n.Label, n.URL, n.Title)
		} else {
			io.WriteString(f, "Definition")
		}
	case Root:
		if verbose {
			fmt.Fprintf(f, "Root postProcessed=%v children=%d", n.IsPostProcessed, len(n.Children))
		} else {
			io.WriteString(f, "Root")
		}
	default:
		io.WriteString(f, n.Kind.String())
		if verbose {
			fmt.Fprintf(f, " children=%d", len(n.Children))
		}
	}
}

// String returns the Kind's name.
func (k Kind) String() string {
	switch k {
	case Root:
		return "Root"
	case Block:
		return "Block"
	case Paragraph:
		return "Paragraph"
	case Blockquote:
		return "Blockquote"
	case Heading:
		return "Heading"
	case ThematicBreak:
		return "ThematicBreak"
	case Code:
		return "Code"
	case InlineCode:
		return "InlineCode"
	case Text:
		return "Text"
	case Emphasis:
		return "Emphasis"
	case Strong:
		return "Strong"
	case Link:
		return "Link"
	case Image:
		return "Image"
	case Definition:
		return "Definition"
	case Break:
		return "Break"
	default:
		return fmt.Sprintf("InvalidKind%d", int(k))
	}
}
