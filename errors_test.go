package httpmsg

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	t.Run("same kind", func(t *testing.T) {
		require.ErrorIs(t, ErrTooLongStartLine, ErrMalformedStartLine)
		require.ErrorIs(t, ErrBodySizeMismatch, ErrIncompleteBody)
	})

	t.Run("different kinds", func(t *testing.T) {
		require.NotErrorIs(t, ErrMalformedHeader, ErrMalformedStartLine)
		require.NotErrorIs(t, ErrMalformedChunk, ErrAmbiguousFraming)
	})

	t.Run("foreign error", func(t *testing.T) {
		require.NotErrorIs(t, io.EOF, ErrMalformedStartLine)
		require.NotErrorIs(t, ErrMalformedStartLine, io.EOF)
	})
}

func TestWrapError(t *testing.T) {
	wrapped := WrapError(KindStreamFailure, io.ErrClosedPipe, "read failed")
	require.EqualError(t, wrapped, "read failed: io: read/write on closed pipe")
	require.ErrorIs(t, wrapped, ErrStream)
	require.ErrorIs(t, wrapped, io.ErrClosedPipe)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindMalformedChunk, KindOf(ErrMalformedChunk))
	require.Equal(t, KindMalformedChunk, KindOf(fmt.Errorf("decode: %w", ErrMalformedChunk)))
	require.Equal(t, KindOther, KindOf(io.EOF))
	require.Equal(t, KindOther, KindOf(errors.New("plain")))
}
