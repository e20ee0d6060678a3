// Package scanio provides scratch space for tokenizers: a bump-allocated
// byte arena that token handles can reference.
//
// Grounded on jcorbin/soc's internal/scanio.ByteArena: a single growable
// buffer, a write cursor, and lightweight handles (ByteArenaToken) into
// ranges of it. Reset() discards everything in O(1); nothing here frees
// token-by-token, matching the "abandon on backtrack, reclaim on next
// reset" scratch-arena policy this library needs per block/per document.
package scanio

import "fmt"

// ByteArena is an io.Writer that accumulates bytes into an internal buffer,
// handing out ByteArenaToken handles that reference ranges of it.
type ByteArena struct {
	buf []byte
	cur int
}

// Write appends p to the arena buffer.
func (arena *ByteArena) Write(p []byte) (int, error) {
	arena.buf = append(arena.buf, p...)
	return len(p), nil
}

// WriteByte appends a single byte to the arena buffer.
func (arena *ByteArena) WriteByte(b byte) error {
	arena.buf = append(arena.buf, b)
	return nil
}

// WriteString appends s to the arena buffer.
func (arena *ByteArena) WriteString(s string) (int, error) {
	arena.buf = append(arena.buf, s...)
	return len(s), nil
}

// Take returns a token referencing the bytes written since the last Take.
func (arena *ByteArena) Take() (token ByteArenaToken) {
	token.arena = arena
	token.start = arena.cur
	token.end = len(arena.buf)
	arena.cur = token.end
	return token
}

// Len returns the number of bytes currently buffered.
func (arena *ByteArena) Len() int { return len(arena.buf) }

// Reset discards all bytes from the arena, readying it for reuse. No token
// taken before a Reset remains valid afterward. The tokenizers in this
// module do not call it: each tokenizer owns its own arena.
func (arena *ByteArena) Reset() {
	arena.buf = arena.buf[:0]
	arena.cur = 0
}

// ByteArenaToken is a handle to a byte range within a ByteArena.
//
// A token becomes invalid once its arena is Reset, or once an earlier
// token's Truncate discards the bytes it references.
type ByteArenaToken struct {
	start, end int
	arena      *ByteArena
}

// Bytes returns the token's bytes. The caller must not retain the returned
// slice past the arena's next Reset.
func (token ByteArenaToken) Bytes() []byte {
	if token.arena == nil {
		return nil
	}
	if buf := token.arena.buf; token.start <= len(buf) && token.end <= len(buf) {
		return buf[token.start:token.end]
	}
	return nil
}

// Text returns a copy of the token's bytes as a string.
func (token ByteArenaToken) Text() string { return string(token.Bytes()) }

// Len returns the number of bytes the token spans.
func (token ByteArenaToken) Len() int { return token.end - token.start }

// Empty reports whether the token spans zero bytes.
func (token ByteArenaToken) Empty() bool { return token.end == token.start }

// Truncate discards all arena bytes from the token's start onward. Panics
// if the token's arena has already discarded those bytes.
func (token ByteArenaToken) Truncate() {
	if token.arena == nil || token.start > len(token.arena.buf) {
		panic("scanio: cannot truncate a token whose bytes are already gone")
	}
	token.arena.buf = token.arena.buf[:token.start]
	token.arena.cur = token.start
}

// Slice returns a sub-token token[i:j], where a negative j counts back from
// the end (so Slice(0, -1) is the whole token, Slice(1, -1) drops the first
// byte). Panics on an out-of-range result or a zero-valued token.
func (token ByteArenaToken) Slice(i, j int) ByteArenaToken {
	if token.arena == nil {
		panic("scanio: cannot slice a zero-valued token")
	}
	if j < 0 {
		token.end = token.end + 1 + j
	} else {
		token.end = token.start + j
	}
	token.start += i
	if n := len(token.arena.buf); token.end < token.start || token.start < 0 || token.start > n || token.end > n {
		panic(fmt.Sprintf("scanio: token slice [%d:%d] out of range vs arena len %d", i, j, n))
	}
	return token
}

// Index returns the index of the first instance of sep within the token's
// bytes, or -1 if sep is not present.
func (token ByteArenaToken) Index(sep []byte) int {
	return indexOf(token.Bytes(), sep)
}

// IndexByte returns the index of the first instance of c within the
// token's bytes, or -1 if c is not present.
func (token ByteArenaToken) IndexByte(c byte) int {
	for i, b := range token.Bytes() {
		if b == c {
			return i
		}
	}
	return -1
}

func indexOf(s, sep []byte) int {
	if len(sep) == 0 {
		return 0
	}
scan:
	for i := 0; i+len(sep) <= len(s); i++ {
		for j := range sep {
			if s[i+j] != sep[j] {
				continue scan
			}
		}
		return i
	}
	return -1
}

// Format implements fmt.Formatter, printing the token's text under %s/%v/%q.
func (token ByteArenaToken) Format(f fmt.State, c rune) {
	if token.arena == nil {
		f.Write([]byte("!(ERROR token has no arena)"))
		return
	}
	switch c {
	case 's', 'v':
		f.Write([]byte(token.Text()))
	case 'q':
		fmt.Fprintf(f, "%q", token.Text())
	default:
		fmt.Fprintf(f, "!(ERROR invalid format verb %%%c for token)", c)
	}
}
