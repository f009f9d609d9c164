package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/body"
	"github.com/indigo-web/httpmsg/buffer"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/method"
	"github.com/indigo-web/httpmsg/status"
	"github.com/stretchr/testify/require"
)

// outcome records the single completion an async operation must deliver.
type outcome struct {
	calls int
	err   error
}

func (o *outcome) done(err error) {
	o.calls++
	o.err = err
}

func TestAsyncReadRequest(t *testing.T) {
	cfg := config.Default()

	t.Run("pipelined", func(t *testing.T) {
		raw := "GET /first HTTP/1.1\r\n\r\nPOST /second HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello"
		s := Async(rwPair{&fragmentedReader{data: []byte(raw), piece: 3}, io.Discard})
		buf := newScratch(cfg)
		request := httpmsg.NewRequest()
		sink := body.NewBuffer(nil)
		request.Body = sink

		var first outcome
		AsyncReadRequest(cfg, s, buf, request, first.done)
		require.Equal(t, 1, first.calls)
		require.NoError(t, first.err)
		require.Equal(t, "/first", request.Target)

		var second outcome
		AsyncReadRequest(cfg, s, buf, request, second.done)
		require.Equal(t, 1, second.calls)
		require.NoError(t, second.err)
		require.Equal(t, "/second", request.Target)
		require.Equal(t, "hello", sink.String())

		var third outcome
		AsyncReadRequest(cfg, s, buf, request, third.done)
		require.Equal(t, 1, third.calls)
		require.ErrorIs(t, third.err, io.EOF)
	})

	t.Run("read failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		s := Async(rwPair{&faultyReader{err: boom}, io.Discard})
		buf := newScratch(cfg)

		var result outcome
		AsyncReadRequest(cfg, s, buf, httpmsg.NewRequest(), result.done)
		require.Equal(t, 1, result.calls)
		require.ErrorIs(t, result.err, httpmsg.ErrStream)
		require.ErrorIs(t, result.err, boom)
	})

	t.Run("scratch overflow", func(t *testing.T) {
		s := Async(rwPair{bytes.NewReader([]byte("GET / HTTP/1.1\r\n\r\n")), io.Discard})

		var result outcome
		AsyncReadRequest(cfg, s, buffer.NewFlat(16, 32), httpmsg.NewRequest(), result.done)
		require.Equal(t, 1, result.calls)
		require.ErrorIs(t, result.err, ErrScratchOverflow)
	})
}

func TestAsyncReadResponse(t *testing.T) {
	cfg := config.Default()

	t.Run("until close", func(t *testing.T) {
		raw := "HTTP/1.1 200 OK\r\n\r\nstreamed"
		s := Async(rwPair{&fragmentedReader{data: []byte(raw), piece: 2}, io.Discard})
		buf := newScratch(cfg)
		response := httpmsg.NewResponse()
		sink := body.NewBuffer(nil)
		response.Body = sink

		var result outcome
		AsyncReadResponse(cfg, s, buf, response, method.GET, result.done)
		require.Equal(t, 1, result.calls)
		require.NoError(t, result.err)
		require.Equal(t, status.OK, response.Code)
		require.Equal(t, "streamed", sink.String())
	})
}

func TestAsyncWrite(t *testing.T) {
	cfg := config.Default()

	newPing := func() *httpmsg.Request {
		return httpmsg.NewRequest().
			WithMethod(method.POST).
			WithTarget("/ping").
			WithBody(body.NewBufferString("hello"))
	}

	t.Run("request matches the blocking dual", func(t *testing.T) {
		var blocking bytes.Buffer
		require.NoError(t, WriteRequest(cfg, &blocking, newPing()))

		var async bytes.Buffer
		var result outcome
		AsyncWriteRequest(cfg, Async(rwPair{bytes.NewReader(nil), &async}), newPing(), result.done)
		require.Equal(t, 1, result.calls)
		require.NoError(t, result.err)
		require.Equal(t, blocking.String(), async.String())
	})

	t.Run("response", func(t *testing.T) {
		response := httpmsg.NewResponse().WithBody(body.NewBufferString("pong"))
		var out bytes.Buffer

		var result outcome
		AsyncWriteResponse(cfg, Async(rwPair{bytes.NewReader(nil), &out}), response, method.GET, result.done)
		require.Equal(t, 1, result.calls)
		require.NoError(t, result.err)
		require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 4\r\n\r\npong", out.String())
	})

	t.Run("short writes are resumed", func(t *testing.T) {
		s := new(trickleStream)

		var result outcome
		AsyncWriteRequest(cfg, s, newPing(), result.done)
		require.Equal(t, 1, result.calls)
		require.NoError(t, result.err)
		require.Equal(t,
			"POST /ping HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello",
			string(s.wrote),
		)
	})

	t.Run("write failure", func(t *testing.T) {
		boom := errors.New("broken pipe")

		var result outcome
		AsyncWriteRequest(cfg, Async(rwPair{bytes.NewReader(nil), failingWriter{boom}}), newPing(), result.done)
		require.Equal(t, 1, result.calls)
		require.ErrorIs(t, result.err, httpmsg.ErrStream)
		require.ErrorIs(t, result.err, boom)
	})
}

// trickleStream accepts at most two bytes per write, forcing the writer to
// resume partially written spans.
type trickleStream struct {
	wrote []byte
}

func (t *trickleStream) AsyncRead(p []byte, cb Callback) {
	cb(0, io.EOF)
}

func (t *trickleStream) AsyncWrite(p []byte, cb Callback) {
	n := min(2, len(p))
	t.wrote = append(t.wrote, p[:n]...)
	cb(n, nil)
}
