package scanio_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sinclairtarget/atrus/internal/scanio"
)

func TestByteArena_TakeAndReset(t *testing.T) {
	var arena scanio.ByteArena

	arena.WriteString("hello ")
	hello := arena.Take()
	arena.WriteString("world")
	world := arena.Take()

	assert.Equal(t, "hello ", hello.Text())
	assert.Equal(t, "world", world.Text())
	assert.Equal(t, 11, arena.Len())

	arena.Reset()
	assert.Equal(t, 0, arena.Len())
	assert.Equal(t, "", hello.Text(), "token bytes are gone after Reset")
}

func TestByteArenaToken_Slice(t *testing.T) {
	var arena scanio.ByteArena
	arena.WriteString("foo bar baz")
	tok := arena.Take()

	assert.Equal(t, "foo", tok.Slice(0, 3).Text())
	assert.Equal(t, "baz", tok.Slice(8, -1).Text())
	assert.Equal(t, "bar", tok.Slice(4, 7).Text())
}

func TestByteArenaToken_Truncate(t *testing.T) {
	var arena scanio.ByteArena
	arena.WriteString("kept")
	kept := arena.Take()
	arena.WriteString("scratch attempt that failed")
	failed := arena.Take()

	failed.Truncate()

	assert.Equal(t, "kept", kept.Text())
	assert.Equal(t, 4, arena.Len())
}

func TestByteArenaToken_IndexByte(t *testing.T) {
	var arena scanio.ByteArena
	arena.WriteString("a=b=c")
	tok := arena.Take()

	assert.Equal(t, 1, tok.IndexByte('='))
	assert.Equal(t, -1, tok.IndexByte('z'))
	assert.Equal(t, 1, tok.Index([]byte("=")))
}

func TestByteArenaToken_Format(t *testing.T) {
	var arena scanio.ByteArena
	arena.WriteString("foo")
	tok := arena.Take()

	assert.Equal(t, "foo", fmt.Sprintf("%s", tok))
	assert.Equal(t, `"foo"`, fmt.Sprintf("%q", tok))

	var zero scanio.ByteArenaToken
	assert.Equal(t, "!(ERROR token has no arena)", fmt.Sprintf("%s", zero))
}
