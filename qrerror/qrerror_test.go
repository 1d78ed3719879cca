package qrerror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndIs(t *testing.T) {
	err := New(InvalidArgument, "bad version")
	assert.True(t, Is(err, InvalidArgument))
	assert.False(t, Is(err, IoError))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, InvalidArgument, kind)
}

func TestWrapNilIsNil(t *testing.T) {
	assert.Nil(t, Wrap(IoError, nil, "writing file"))
}

func TestWrapPreservesUnwrapChain(t *testing.T) {
	root := errors.New("disk full")
	wrapped := Wrap(IoError, root, "writing out.bmp")

	assert.True(t, Is(wrapped, IoError))
	assert.ErrorIs(t, wrapped, root)
}

func TestKindOfUnknownError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}
