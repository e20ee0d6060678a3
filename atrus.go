// Package atrus implements the library contract §6.1 describes: parse
// Markdown (MyST/CommonMark subset) bytes into a document tree, then render
// that tree to JSON or HTML.
//
// Parse wires together the full pipeline documented piece by piece under
// internal/: lines.Reader normalizes the byte stream, blocklex/blockparse
// turn it into a block-level tree with raw inline text still sitting in
// each paragraph/heading, inlinelex/inlineparse expand each of those into
// real inline nodes, and postprocess does the final block-wrapping and
// deferred link-reference resolution.
package atrus

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/sinclairtarget/atrus/internal/ast"
	"github.com/sinclairtarget/atrus/internal/blocklex"
	"github.com/sinclairtarget/atrus/internal/blockparse"
	"github.com/sinclairtarget/atrus/internal/inlineparse"
	"github.com/sinclairtarget/atrus/internal/lines"
	"github.com/sinclairtarget/atrus/internal/postprocess"
	"github.com/sinclairtarget/atrus/internal/render"
)

// Node and Kind are the AST types callers see; atrus re-exports them rather
// than wrapping, so package ast stays internal while its types are still
// part of this package's public contract.
type (
	Node = ast.Node
	Kind = ast.Kind
)

// Node kinds, re-exported from internal/ast for callers that need to switch
// on Kind (a renderer, a tree-walking linter, etc).
const (
	Root          = ast.Root
	Block         = ast.Block
	Paragraph     = ast.Paragraph
	Blockquote    = ast.Blockquote
	Heading       = ast.Heading
	ThematicBreak = ast.ThematicBreak
	Code          = ast.Code
	InlineCode    = ast.InlineCode
	Text          = ast.Text
	Emphasis      = ast.Emphasis
	Strong        = ast.Strong
	Link          = ast.Link
	Image         = ast.Image
	Definition    = ast.Definition
	Break         = ast.Break
)

// Whitespace selects RenderJSON's output formatting.
type Whitespace = render.Whitespace

const (
	Minified = render.Minified
	Indent2  = render.Indent2
	Indent4  = render.Indent4
)

// Error sentinels, per §7's error taxonomy. Library functions wrap these
// with additional context via fmt.Errorf's %w rather than defining their
// own error types, matching how cmd/soc/store.go and cmd/soc/list.go report
// errors against package-level sentinels in the teacher.
var (
	// ErrLineTooLong is returned when a source line exceeds the line
	// reader's buffer.
	ErrLineTooLong = errors.New("atrus: line exceeds maximum length")

	// ErrReadFailed is returned when the underlying byte stream errors.
	ErrReadFailed = errors.New("atrus: read failed")

	// ErrWriteFailed is returned by RenderJSON/RenderHTML when they cannot
	// produce output.
	ErrWriteFailed = errors.New("atrus: write failed")

	// ErrOutOfMemory exists for API-contract parity with §7's taxonomy; Go's
	// runtime has no recoverable out-of-memory signal an allocator can
	// return here (a real allocation failure crashes the process), so
	// nothing in this package can actually produce it today.
	ErrOutOfMemory = errors.New("atrus: out of memory")

	// ErrNotPostProcessed is returned by RenderHTML on a tree that was
	// parsed with ParseLevelPre and never post-processed.
	ErrNotPostProcessed = errors.New("atrus: tree has not been post-processed")
)

// ParseLevel controls whether Parse runs PostProcess before returning, per
// §6.1's parse_level option.
type ParseLevel int

const (
	// ParseLevelPost runs PostProcess: the returned tree is wrapped in a
	// single block node and has its deferred link/image references
	// resolved, and is safe to pass to RenderHTML.
	ParseLevelPost ParseLevel = iota

	// ParseLevelPre skips PostProcess: the returned tree is the raw
	// block+inline parse, unwrapped and with shortcut/collapsed reference
	// links left unresolved. RenderHTML refuses trees at this level.
	ParseLevelPre
)

// Options configures Parse.
type Options struct {
	ParseLevel ParseLevel
}

// Parse parses input as Markdown and returns the resulting document tree.
func Parse(input []byte, opts Options) (*Node, error) {
	lr := lines.New(bytes.NewReader(input))
	tz := blocklex.New(lr)

	root, defs, err := blockparse.ParseDocument(tz)
	if err != nil {
		switch {
		case errors.Is(err, lines.ErrLineTooLong):
			return nil, fmt.Errorf("%w: %w", ErrLineTooLong, err)
		case errors.Is(err, lines.ErrRead):
			return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
		default:
			return nil, err
		}
	}

	if err := expandInline(root); err != nil {
		return nil, err
	}

	if opts.ParseLevel == ParseLevelPost {
		root = postprocess.Run(root, defs)
	}

	return root, nil
}

// expandInline replaces every paragraph/heading's single raw-text child
// (left by the block parser) with the parsed inline node sequence it
// contains. It is the InlineTokenizer/InlineParser pipeline stage §2's
// pipeline diagram places between block parsing and PostProcess.
func expandInline(n *ast.Node) error {
	switch n.Kind {
	case ast.Paragraph, ast.Heading:
		if len(n.Children) == 1 && n.Children[0].Kind == ast.Text {
			nodes, err := inlineparse.Parse(n.Children[0].Value)
			if err != nil {
				return err
			}
			n.Children = nodes
		}
	case ast.Root, ast.Block, ast.Blockquote:
		for _, c := range n.Children {
			if err := expandInline(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderJSON serializes root to the §6.2 JSON shape.
func RenderJSON(root *Node, ws Whitespace) ([]byte, error) {
	out, err := render.JSON(root, ws)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return out, nil
}

// RenderHTML serializes a post-processed root to HTML. Returns
// ErrNotPostProcessed if root was parsed with ParseLevelPre (or otherwise
// never ran through PostProcess).
func RenderHTML(root *Node) ([]byte, error) {
	out, err := render.HTML(root)
	if err != nil {
		if errors.Is(err, render.ErrNotPostProcessed) {
			return nil, ErrNotPostProcessed
		}
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return out, nil
}

