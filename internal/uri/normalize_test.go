package uri_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sinclairtarget/atrus/internal/uri"
)

func TestNormalize_PassesSafeBytesThrough(t *testing.T) {
	assert.Equal(t, "/a/b-c_d.e~f", string(uri.Normalize([]byte("/a/b-c_d.e~f"))))
}

func TestNormalize_PercentEncodesSpace(t *testing.T) {
	assert.Equal(t, "/a%20b", string(uri.Normalize([]byte("/a b"))))
}

func TestNormalize_PreservesExistingTriplet(t *testing.T) {
	assert.Equal(t, "/a%20b", string(uri.Normalize([]byte("/a%20b"))))
}

func TestNormalize_EncodesUnicodeByteByByte(t *testing.T) {
	assert.Equal(t, "%C3%A9", string(uri.Normalize([]byte("é"))))
}

func TestNormalize_EncodesSquareBrackets(t *testing.T) {
	assert.Equal(t, "http://foo.com/bar?bim%5B%5D=baz", string(uri.Normalize([]byte("http://foo.com/bar?bim[]=baz"))))
}
