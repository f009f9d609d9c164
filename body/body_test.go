package body

import (
	"io"
	"testing"

	"github.com/indigo-web/httpmsg"
	"github.com/stretchr/testify/require"
)

// drain pulls the writable body until exhaustion, the way serializers do.
func drain(t *testing.T, w httpmsg.BodyWriter) string {
	var collected []byte

	for {
		span, err := w.Retrieve()
		collected = append(collected, span...)
		switch err {
		case nil:
		case io.EOF:
			return string(collected)
		default:
			require.NoError(t, err)
		}
	}
}

func TestBuffer(t *testing.T) {
	t.Run("write side", func(t *testing.T) {
		buff := NewBufferString("Hello, world!")
		require.EqualValues(t, 13, buff.Size())
		require.Equal(t, "Hello, world!", drain(t, buff))
		// the content survives a full retrieval
		require.Equal(t, "Hello, world!", drain(t, buff))
	})

	t.Run("read side", func(t *testing.T) {
		buff := NewBufferString("stale")
		require.NoError(t, buff.Open(httpmsg.Framing{Kind: httpmsg.FramingFixed, Length: 12}))

		n, err := buff.Accept([]byte("Hello, "))
		require.NoError(t, err)
		require.Equal(t, 7, n)
		n, err = buff.Accept([]byte("world"))
		require.NoError(t, err)
		require.Equal(t, 5, n)

		require.NoError(t, buff.Close())
		require.Equal(t, "Hello, world", buff.String())
		require.EqualValues(t, 12, buff.Size())
	})
}

func TestDiscard(t *testing.T) {
	d := NewDiscard()
	require.NoError(t, d.Open(httpmsg.Framing{Kind: httpmsg.FramingChunked}))

	n, err := d.Accept([]byte("does not"))
	require.NoError(t, err)
	require.Equal(t, 8, n)
	_, err = d.Accept([]byte(" matter"))
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.EqualValues(t, 15, d.Discarded())

	require.NoError(t, d.Open(httpmsg.Framing{Kind: httpmsg.FramingChunked}))
	require.Zero(t, d.Discarded())
}
