// Package linkdef implements the insert-only link-reference-definition
// table (§3.3): a case-insensitive label -> definition lookup populated by
// the LeafBlockParser as it encounters `[label]: url "title"` productions,
// and consulted later (by PostProcess, per SPEC_FULL.md's deferred-resolution
// feature) to resolve `link`/`image` nodes written with an empty URL.
//
// Grounded on the same "normalize key, reject oversized input up front"
// shape as the teacher's block-level trimming helpers: rather than build a
// generic map wrapper, this is a small purpose-built type whose only two
// operations are Define and Lookup, matching jcorbin/soc's preference for
// narrow, single-purpose types over general collection abstractions.
package linkdef

import "errors"

// MaxLabelBytes is the longest label accepted by Define, per §3.3/§4.4 — a
// longer label is rejected (and never inserted) rather than silently
// truncated.
const MaxLabelBytes = 999

// ErrLabelTooLong is returned by Define when label exceeds MaxLabelBytes.
var ErrLabelTooLong = errors.New("linkdef: label exceeds maximum length")

// Definition is the subset of a definition AST node the map needs to carry;
// callers keep whatever node type they use (ast.Node) and pass its fields in
// here, or embed Definition and pass the whole thing — the map only reads
// these three.
type Definition struct {
	Label []byte
	URL   []byte
	Title []byte
}

// Map is a case-insensitive, insert-only label -> Definition table. The zero
// Map is ready to use. Not safe for concurrent use.
type Map struct {
	entries map[string]Definition
}

// Define registers def under its (ASCII-lowercased) label if no definition
// is already registered for that normalized label. Returns false, without
// modifying m, when the label is too long or already taken — first
// definition wins (§8 "LinkDefMap first-wins").
func (m *Map) Define(def Definition) (inserted bool, err error) {
	if len(def.Label) > MaxLabelBytes {
		return false, ErrLabelTooLong
	}
	key := NormalizeLabel(def.Label)
	if m.entries == nil {
		m.entries = make(map[string]Definition)
	}
	if _, exists := m.entries[key]; exists {
		return false, nil
	}
	m.entries[key] = def
	return true, nil
}

// Lookup returns the definition registered for label, if any.
func (m *Map) Lookup(label []byte) (Definition, bool) {
	if m.entries == nil {
		return Definition{}, false
	}
	def, ok := m.entries[NormalizeLabel(label)]
	return def, ok
}

// Len reports the number of distinct definitions registered.
func (m *Map) Len() int { return len(m.entries) }

// NormalizeLabel lowercases the ASCII letters in label; this, not
// strings.ToLower, is the normalization §3.3 specifies — non-ASCII bytes
// pass through untouched.
func NormalizeLabel(label []byte) string {
	out := make([]byte, len(label))
	for i, b := range label {
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		out[i] = b
	}
	return string(out)
}
