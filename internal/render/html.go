package render

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/sinclairtarget/atrus/internal/ast"
)

// ErrNotPostProcessed is returned by HTML when asked to render a tree that
// hasn't been through postprocess.Run, per §6.1/§7: the HTML renderer
// assumes the single block wrapper and resolved link/image URLs
// PostProcess guarantees.
var ErrNotPostProcessed = errors.New("render: tree has not been post-processed")

// HTML serializes a post-processed root to HTML, per the per-node-kind
// mapping SPEC_FULL.md's domain stack section names: h1..h6, blockquote,
// pre/code, code, em, strong, a, img, br, hr, p.
func HTML(root *ast.Node) ([]byte, error) {
	if !root.IsPostProcessed {
		return nil, ErrNotPostProcessed
	}
	var buf bytes.Buffer
	for _, child := range root.Children {
		writeBlockHTML(&buf, child)
	}
	return buf.Bytes(), nil
}

func writeBlockHTML(buf *bytes.Buffer, n *ast.Node) {
	switch n.Kind {
	case ast.Root, ast.Block:
		for _, c := range n.Children {
			writeBlockHTML(buf, c)
		}
	case ast.Paragraph:
		buf.WriteString("<p>")
		for _, c := range n.Children {
			writeInlineHTML(buf, c)
		}
		buf.WriteString("</p>\n")
	case ast.Blockquote:
		buf.WriteString("<blockquote>\n")
		for _, c := range n.Children {
			writeBlockHTML(buf, c)
		}
		buf.WriteString("</blockquote>\n")
	case ast.Heading:
		tag := "h" + strconv.Itoa(n.Depth)
		buf.WriteString("<" + tag + ">")
		for _, c := range n.Children {
			writeInlineHTML(buf, c)
		}
		buf.WriteString("</" + tag + ">\n")
	case ast.ThematicBreak:
		buf.WriteString("<hr />\n")
	case ast.Code:
		buf.WriteString("<pre><code")
		if len(n.Lang) > 0 {
			buf.WriteString(` class="language-`)
			escapeHTMLAttr(buf, n.Lang)
			buf.WriteByte('"')
		}
		buf.WriteByte('>')
		escapeHTML(buf, n.Value)
		buf.WriteString("</code></pre>\n")
	case ast.Definition:
		// Reference definitions have no visible HTML representation.
	default:
		writeInlineHTML(buf, n)
	}
}

func writeInlineHTML(buf *bytes.Buffer, n *ast.Node) {
	switch n.Kind {
	case ast.Text:
		escapeHTML(buf, n.Value)
	case ast.InlineCode:
		buf.WriteString("<code>")
		escapeHTML(buf, n.Value)
		buf.WriteString("</code>")
	case ast.Emphasis:
		buf.WriteString("<em>")
		for _, c := range n.Children {
			writeInlineHTML(buf, c)
		}
		buf.WriteString("</em>")
	case ast.Strong:
		buf.WriteString("<strong>")
		for _, c := range n.Children {
			writeInlineHTML(buf, c)
		}
		buf.WriteString("</strong>")
	case ast.Link:
		buf.WriteString(`<a href="`)
		escapeHTMLAttr(buf, n.URL)
		buf.WriteByte('"')
		if len(n.Title) > 0 {
			buf.WriteString(` title="`)
			escapeHTMLAttr(buf, n.Title)
			buf.WriteByte('"')
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			writeInlineHTML(buf, c)
		}
		buf.WriteString("</a>")
	case ast.Image:
		buf.WriteString(`<img src="`)
		escapeHTMLAttr(buf, n.URL)
		buf.WriteString(`" alt="`)
		escapeHTMLAttr(buf, n.Alt)
		buf.WriteByte('"')
		if len(n.Title) > 0 {
			buf.WriteString(` title="`)
			escapeHTMLAttr(buf, n.Title)
			buf.WriteByte('"')
		}
		buf.WriteString(" />")
	case ast.Break:
		buf.WriteString("<br />\n")
	case ast.Definition:
		// No visible HTML representation.
	}
}

// escapeHTML escapes the four characters §6.1's domain stack section names
// ("&<>\"") for text content; escapeHTMLAttr is the same escaping, used at
// attribute-value positions for clarity at call sites.
func escapeHTML(buf *bytes.Buffer, b []byte) {
	for _, c := range b {
		switch c {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteByte(c)
		}
	}
}

func escapeHTMLAttr(buf *bytes.Buffer, b []byte) {
	escapeHTML(buf, b)
}
