package jstring_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jstring"
)

func cursorOf(s string) *jcursor.Cursor {
	return jcursor.New(append([]byte(s), 0))
}

func TestDecodeEmptyString(t *testing.T) {
	c := cursorOf(`""`)
	s, err := jstring.Decode(c)
	require.NoError(t, err)
	require.Equal(t, "", s.String())
}

func TestDecodeNoEscapes(t *testing.T) {
	c := cursorOf(`"hello world"`)
	s, err := jstring.Decode(c)
	require.NoError(t, err)
	require.Equal(t, "hello world", s.String())
}

func TestDecodeShortEscapes(t *testing.T) {
	c := cursorOf(`"a\"b\\c\/d\be\fg\nh\ri\tj"`)
	s, err := jstring.Decode(c)
	require.NoError(t, err)
	require.Equal(t, "a\"b\\c/d\be\fg\nh\ri\tj", s.String())
}

func TestDecodeLongRunCrossesWordBoundary(t *testing.T) {
	long := strings.Repeat("x", 97) // not a multiple of 8, crosses SWAR word boundary
	c := cursorOf(`"` + long + `"`)
	s, err := jstring.Decode(c)
	require.NoError(t, err)
	require.Equal(t, long, s.String())
}

func TestDecodeSupplementaryPlaneSurrogatePair(t *testing.T) {
	c := cursorOf("\"\x5cuD834\x5cuDD1E\"") // "\x5c" is a backslash: the escaped pair U+D834 U+DD1E
	s, err := jstring.Decode(c)
	require.NoError(t, err)
	require.Equal(t, "\xF0\x9D\x84\x9E", s.String())
}

func TestDecodeLoneHighSurrogateFails(t *testing.T) {
	c := cursorOf(`"\uD800"`)
	_, err := jstring.Decode(c)
	require.Error(t, err)
	var je *jerr.Error
	require.ErrorAs(t, err, &je)
	require.Equal(t, jerr.Surrogate, je.Class)
}

func TestDecodeLoneLowSurrogateFails(t *testing.T) {
	c := cursorOf(`"\uDC00"`)
	_, err := jstring.Decode(c)
	require.Error(t, err)
	var je *jerr.Error
	require.ErrorAs(t, err, &je)
	require.Equal(t, jerr.Surrogate, je.Class)
}

func TestDecodeRejectsRawControlByte(t *testing.T) {
	c := cursorOf("\"\x1f\"")
	_, err := jstring.Decode(c)
	require.Error(t, err)
}

func TestDecodeAcceptsDel(t *testing.T) {
	c := cursorOf("\"\x7f\"")
	s, err := jstring.Decode(c)
	require.NoError(t, err)
	require.Equal(t, "\x7f", s.String())
}
