// Package render implements the two serializer contracts §6.1 names:
// render_json (this file) and render_html (html.go).
package render

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/sinclairtarget/atrus/internal/ast"
)

// Whitespace selects render_json's output formatting, per §6.1.
type Whitespace int

const (
	Minified Whitespace = iota
	Indent2
	Indent4
)

// ErrUnknownKind is returned by JSON when it encounters a Node whose Kind
// has no defined JSON mapping.
var ErrUnknownKind = errors.New("render: node has no JSON type mapping")

// JSON serializes root to the §6.2 JSON shape. No library in the retrieval
// pack offers a JSON encoder, so this leans on the standard library's
// encoding/json for value escaping and indentation, wrapped in a small
// ordered-object type so key order matches §6.2 exactly rather than
// whatever order a plain map or struct-tag reflection would produce.
func JSON(root *ast.Node, ws Whitespace) ([]byte, error) {
	obj, err := nodeToJSON(root)
	if err != nil {
		return nil, err
	}
	if ws == Minified {
		return json.Marshal(obj)
	}
	indent := "  "
	if ws == Indent4 {
		indent = "    "
	}
	return json.MarshalIndent(obj, "", indent)
}

// kv is one ordered object member.
type kv struct {
	key string
	val interface{}
}

// orderedObj is a JSON object that marshals its members in insertion order,
// unlike map[string]interface{} (whose iteration order Go deliberately
// randomizes) or a tagged struct (whose field order encoding/json does
// respect, but one struct per node kind would be a lot of near-duplicate
// type declarations for a tagged variant like ast.Node).
type orderedObj []kv

func (o orderedObj) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.val)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func kindName(k ast.Kind) (string, bool) {
	switch k {
	case ast.Root:
		return "root", true
	case ast.Block:
		return "block", true
	case ast.Paragraph:
		return "paragraph", true
	case ast.Blockquote:
		return "blockquote", true
	case ast.Heading:
		return "heading", true
	case ast.ThematicBreak:
		return "thematicBreak", true
	case ast.Code:
		return "code", true
	case ast.InlineCode:
		return "inlineCode", true
	case ast.Text:
		return "text", true
	case ast.Emphasis:
		return "emphasis", true
	case ast.Strong:
		return "strong", true
	case ast.Link:
		return "link", true
	case ast.Image:
		return "image", true
	case ast.Definition:
		return "definition", true
	case ast.Break:
		return "break", true
	default:
		return "", false
	}
}

func nodeToJSON(n *ast.Node) (orderedObj, error) {
	name, ok := kindName(n.Kind)
	if !ok {
		return nil, ErrUnknownKind
	}
	obj := orderedObj{{"type", name}}

	switch n.Kind {
	case ast.Heading:
		obj = append(obj, kv{"depth", n.Depth})
		children, err := childrenJSON(n.Children)
		if err != nil {
			return nil, err
		}
		obj = append(obj, kv{"children", children})
	case ast.Code:
		obj = append(obj, kv{"lang", string(n.Lang)}, kv{"value", string(n.Value)})
	case ast.InlineCode, ast.Text:
		obj = append(obj, kv{"value", string(n.Value)})
	case ast.Link:
		obj = append(obj, kv{"url", string(n.URL)})
		if len(n.Title) > 0 {
			obj = append(obj, kv{"title", string(n.Title)})
		}
		children, err := childrenJSON(n.Children)
		if err != nil {
			return nil, err
		}
		obj = append(obj, kv{"children", children})
	case ast.Image:
		obj = append(obj, kv{"url", string(n.URL)}, kv{"title", string(n.Title)}, kv{"alt", string(n.Alt)})
	case ast.Definition:
		obj = append(obj, kv{"url", string(n.URL)}, kv{"title", string(n.Title)}, kv{"label", string(n.Label)})
	case ast.ThematicBreak, ast.Break:
		// No additional fields.
	default:
		// Root, Block, Paragraph, Blockquote, Emphasis, Strong: plain
		// containers, just children.
		children, err := childrenJSON(n.Children)
		if err != nil {
			return nil, err
		}
		obj = append(obj, kv{"children", children})
	}

	return obj, nil
}

func childrenJSON(children []*ast.Node) ([]orderedObj, error) {
	out := make([]orderedObj, 0, len(children))
	for _, c := range children {
		obj, err := nodeToJSON(c)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}
