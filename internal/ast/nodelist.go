package ast

// NodeList accumulates a block's children while enforcing the tree's "no
// adjacent text siblings" invariant: bytes destined for a text node are
// buffered here rather than appended as a node immediately, so that any run
// of AppendText calls collapses into a single Text child no matter how many
// separate tokens fed it.
//
// This mirrors how jcorbin/soc's scanio.ByteArena separates "accumulate
// bytes" from "take a token" — except the thing being taken here is a tree
// node, not a byte range, and the factory for that node is supplied by the
// caller so NodeList stays agnostic to how Text nodes get their byte
// storage allocated (arena-backed, copied, whatever the caller's permanent
// allocator wants).
type NodeList struct {
	children []*Node
	buf      []byte
	newText  func([]byte) *Node
}

// NewNodeList returns a NodeList that builds its Text nodes via newText. If
// newText is nil, NewText is used.
func NewNodeList(newText func([]byte) *Node) NodeList {
	if newText == nil {
		newText = NewText
	}
	return NodeList{newText: newText}
}

// AppendText buffers b into the running text accumulator without yet
// producing a node.
func (nl *NodeList) AppendText(b []byte) {
	nl.buf = append(nl.buf, b...)
}

// AppendByte buffers a single byte into the running text accumulator.
func (nl *NodeList) AppendByte(b byte) {
	nl.buf = append(nl.buf, b)
}

// Append flushes any pending text into a Text child, then appends node as
// the next child.
func (nl *NodeList) Append(node *Node) {
	nl.Flush()
	nl.children = append(nl.children, node)
}

// Flush forces any pending text into a Text child. A no-op if there is no
// pending text.
func (nl *NodeList) Flush() {
	if len(nl.buf) == 0 {
		return
	}
	text := nl.newText(nl.buf)
	nl.buf = nil
	nl.children = append(nl.children, text)
}

// Len returns the number of complete (flushed) children. Panics if text is
// pending, since that text has not yet become a counted child — callers
// must Flush first, exactly as the specification requires.
func (nl *NodeList) Len() int {
	if len(nl.buf) > 0 {
		panic("ast: NodeList.Len called with unflushed text pending")
	}
	return len(nl.children)
}

// Slice flushes any pending text and returns the accumulated children.
func (nl *NodeList) Slice() []*Node {
	nl.Flush()
	return nl.children
}
