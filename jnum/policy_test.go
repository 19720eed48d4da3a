package jnum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jleaf"
	"github.com/lattice-substrate/inplace-json/jnum"
)

func TestStringifyPolicyKeepsRawSpan(t *testing.T) {
	c := jcursor.New(append([]byte("1.2300e+2"), 0))
	kind, leaf, err := jnum.StringifyPolicy(c)
	require.NoError(t, err)
	require.Equal(t, jnum.KindUnparsed, kind)
	require.Equal(t, "1.2300e+2", leaf.Str.String())
}

func TestPreciseDoublePolicyNormalizesSpelling(t *testing.T) {
	c1 := jcursor.New(append([]byte("100"), 0))
	kind1, leaf1, err := jnum.PreciseDoublePolicy(c1)
	require.NoError(t, err)
	require.Equal(t, jnum.KindPreciseDouble, kind1)

	c2 := jcursor.New(append([]byte("1e2"), 0))
	kind2, leaf2, err := jnum.PreciseDoublePolicy(c2)
	require.NoError(t, err)
	require.Equal(t, jnum.KindPreciseDouble, kind2)

	require.Equal(t, leaf1.Str.String(), leaf2.Str.String())
}

func TestDispatchWithStringifyPolicy(t *testing.T) {
	c := jcursor.New(append([]byte("-3.5"), 0))
	kind, leaf, err := jleaf.Dispatch(c, jnum.StringifyPolicy)
	require.NoError(t, err)
	require.Equal(t, jnum.KindUnparsed, kind)
	require.Equal(t, "-3.5", leaf.Str.String())
}
