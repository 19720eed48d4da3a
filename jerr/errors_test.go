package jerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/inplace-json/jerr"
)

func TestExitCode(t *testing.T) {
	require.Equal(t, 2, jerr.Structural.ExitCode())
	require.Equal(t, 2, jerr.Lexical.ExitCode())
	require.Equal(t, 10, jerr.InternalIO.ExitCode())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := jerr.Wrap(jerr.InternalIO, 5, cause, "reading %s", "file")
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "boom")
	require.Contains(t, err.Error(), "reading file")
}

func TestNewHasNoCause(t *testing.T) {
	err := jerr.New(jerr.Lexical, 3, "bad byte")
	require.Nil(t, err.Unwrap())
}
