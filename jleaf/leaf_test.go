package jleaf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jleaf"
)

func cursorOf(s string) *jcursor.Cursor {
	return jcursor.New(append([]byte(s), 0))
}

func TestDispatchNull(t *testing.T) {
	kind, _, err := jleaf.Dispatch(cursorOf("null"), nil)
	require.NoError(t, err)
	require.Equal(t, jleaf.KindNull, kind)
}

func TestDispatchString(t *testing.T) {
	kind, leaf, err := jleaf.Dispatch(cursorOf(`"hi"`), nil)
	require.NoError(t, err)
	require.Equal(t, jleaf.KindString, kind)
	require.Equal(t, "hi", leaf.Str.String())
}

func TestDispatchNumberDefaultPolicy(t *testing.T) {
	kind, leaf, err := jleaf.Dispatch(cursorOf("42"), nil)
	require.NoError(t, err)
	require.Equal(t, jleaf.KindInteger, kind)
	require.Equal(t, int64(42), leaf.Integer)
}

func TestDispatchCustomPolicy(t *testing.T) {
	custom := jleaf.FirstCustomKind()
	policy := func(c *jcursor.Cursor) (jleaf.Kind, jleaf.Leaf, error) {
		c.Advance(1) // consume the single-digit number
		return custom, jleaf.Leaf{Kind: custom}, nil
	}
	kind, _, err := jleaf.Dispatch(cursorOf("7"), policy)
	require.NoError(t, err)
	require.Equal(t, custom, kind)
}
