package linkdef_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/atrus/internal/linkdef"
)

func TestMap_DefineAndLookup(t *testing.T) {
	var m linkdef.Map
	inserted, err := m.Define(linkdef.Definition{Label: []byte("Foo"), URL: []byte("/url")})
	require.NoError(t, err)
	assert.True(t, inserted)

	def, ok := m.Lookup([]byte("FOO"))
	require.True(t, ok)
	assert.Equal(t, "/url", string(def.URL))

	def, ok = m.Lookup([]byte("foo"))
	require.True(t, ok)
	assert.Equal(t, "/url", string(def.URL))
}

func TestMap_FirstDefinitionWins(t *testing.T) {
	var m linkdef.Map
	inserted, err := m.Define(linkdef.Definition{Label: []byte("bar"), URL: []byte("/first")})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = m.Define(linkdef.Definition{Label: []byte("BAR"), URL: []byte("/second")})
	require.NoError(t, err)
	assert.False(t, inserted)

	def, ok := m.Lookup([]byte("bar"))
	require.True(t, ok)
	assert.Equal(t, "/first", string(def.URL))
}

func TestMap_LabelTooLongIsRejected(t *testing.T) {
	var m linkdef.Map
	label := []byte(strings.Repeat("a", linkdef.MaxLabelBytes+1))
	inserted, err := m.Define(linkdef.Definition{Label: label, URL: []byte("/x")})
	assert.ErrorIs(t, err, linkdef.ErrLabelTooLong)
	assert.False(t, inserted)
	assert.Equal(t, 0, m.Len())
}

func TestMap_MaxLengthLabelIsAccepted(t *testing.T) {
	var m linkdef.Map
	label := []byte(strings.Repeat("a", linkdef.MaxLabelBytes))
	inserted, err := m.Define(linkdef.Definition{Label: label, URL: []byte("/x")})
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestMap_LookupMissing(t *testing.T) {
	var m linkdef.Map
	_, ok := m.Lookup([]byte("nope"))
	assert.False(t, ok)
}

func TestNormalizeLabel_OnlyLowercasesASCII(t *testing.T) {
	// É is multi-byte in UTF-8; NormalizeLabel only touches ASCII A-Z, so
	// those bytes must pass through unchanged rather than being mangled by
	// a rune-aware lowercasing.
	in := []byte("CAF")
	in = append(in, "É"...)
	want := "caf" + "É"
	assert.Equal(t, want, linkdef.NormalizeLabel(in))
}
