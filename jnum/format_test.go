package jnum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/inplace-json/jnum"
)

func TestFormatDoubleShortestRoundTrip(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{100, "100"},
		{0.1, "0.1"},
		{1.5, "1.5"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{123456789, "123456789"},
	}
	for _, tc := range cases {
		got, err := jnum.FormatDouble(tc.in)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestFormatDoubleNegativeZero(t *testing.T) {
	got, err := jnum.FormatDouble(-0.0)
	require.NoError(t, err)
	require.Equal(t, "0", got)
}

func TestFormatDoubleRejectsNonFinite(t *testing.T) {
	_, err := jnum.FormatDouble(1)
	require.NoError(t, err)

	nan := 0.0
	nan = nan / nan
	_, err = jnum.FormatDouble(nan)
	require.ErrorIs(t, err, jnum.ErrNotFinite)
}
