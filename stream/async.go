package stream

import (
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/buffer"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/http1"
	"github.com/indigo-web/httpmsg/method"
)

// Callback delivers the outcome of one asynchronous stream operation.
type Callback func(n int, err error)

// AsyncStream is a non-blocking byte stream. Operations return immediately and
// report through the callback once the transfer settles. Completions may arrive
// on any execution context, but never concurrently for one stream: the next
// operation is only issued from within the previous completion.
type AsyncStream interface {
	AsyncRead(p []byte, cb Callback)
	AsyncWrite(p []byte, cb Callback)
}

// Async adapts a blocking stream into an AsyncStream completing in place.
func Async(rw io.ReadWriter) AsyncStream {
	return syncAdapter{rw}
}

type syncAdapter struct {
	rw io.ReadWriter
}

func (s syncAdapter) AsyncRead(p []byte, cb Callback) {
	cb(s.rw.Read(p))
}

func (s syncAdapter) AsyncWrite(p []byte, cb Callback) {
	cb(s.rw.Write(p))
}

// AsyncReadRequest is ReadRequest with every stream read made a suspension
// point. Done is called exactly once, with the same outcomes ReadRequest
// returns.
func AsyncReadRequest(
	cfg *config.Config,
	s AsyncStream,
	buf buffer.Dynamic,
	request *httpmsg.Request,
	done func(err error),
) {
	resetKeepingBody(request)
	p := http1.NewRequestParser(cfg, request)

	reader := asyncReader{
		stream:   s,
		buf:      buf,
		readSize: cfg.NET.ReadBufferSize.Default,
		parse:    p.Parse,
		finish:   p.Finish,
		done:     done,
	}
	reader.step()
}

// AsyncReadResponse is ReadResponse with every stream read made a suspension
// point. Done is called exactly once, with the same outcomes ReadResponse
// returns.
func AsyncReadResponse(
	cfg *config.Config,
	s AsyncStream,
	buf buffer.Dynamic,
	response *httpmsg.Response,
	answering method.Method,
	done func(err error),
) {
	body := response.Body
	response.Reset()
	response.Body = body

	p := http1.NewResponseParser(cfg, response)
	p.ForRequest(answering)

	reader := asyncReader{
		stream:   s,
		buf:      buf,
		readSize: cfg.NET.ReadBufferSize.Default,
		parse:    p.Parse,
		finish:   p.Finish,
		done:     done,
	}
	reader.step()
}

// AsyncWriteRequest is WriteRequest with every stream write made a suspension
// point. Done is called exactly once.
func AsyncWriteRequest(
	cfg *config.Config,
	s AsyncStream,
	request *httpmsg.Request,
	done func(err error),
) {
	ser := http1.NewRequestSerializer(cfg, request)
	writer := asyncWriter{stream: s, next: ser.Next, done: done}
	writer.step()
}

// AsyncWriteResponse is WriteResponse with every stream write made a suspension
// point. Done is called exactly once.
func AsyncWriteResponse(
	cfg *config.Config,
	s AsyncStream,
	response *httpmsg.Response,
	answering method.Method,
	done func(err error),
) {
	ser := http1.NewResponseSerializer(cfg, response)
	ser.ForRequest(answering)

	writer := asyncWriter{stream: s, next: ser.Next, done: done}
	writer.step()
}

// asyncReader is the drive loop unrolled around AsyncRead suspension points.
type asyncReader struct {
	stream   AsyncStream
	buf      buffer.Dynamic
	readSize int
	parse    func([]byte) (done bool, extra []byte, err error)
	finish   func() error
	done     func(err error)
}

func (a *asyncReader) step() {
	if data := a.buf.Bytes(); len(data) > 0 {
		done, extra, err := a.parse(data)
		if err != nil {
			a.done(err)
			return
		}

		if done {
			a.buf.Consume(len(data) - len(extra))
			a.done(nil)
			return
		}

		a.buf.Consume(len(data))
	}

	region := a.buf.Prepare(a.readSize)
	if region == nil {
		a.done(ErrScratchOverflow)
		return
	}

	a.stream.AsyncRead(region, a.onRead)
}

func (a *asyncReader) onRead(n int, err error) {
	a.buf.Commit(n)

	if n == 0 && err != nil {
		if err == io.EOF {
			a.done(a.finish())
		} else {
			a.done(httpmsg.WrapError(httpmsg.KindStreamFailure, err, "read"))
		}

		return
	}

	// an error delivered alongside bytes resurfaces on the next read
	a.step()
}

// asyncWriter is the write loop unrolled around AsyncWrite suspension points.
type asyncWriter struct {
	stream AsyncStream
	next   func() ([]byte, error)
	done   func(err error)
}

func (a *asyncWriter) step() {
	span, err := a.next()
	switch err {
	case nil:
	case io.EOF:
		a.done(nil)
		return
	default:
		a.done(err)
		return
	}

	a.write(span)
}

func (a *asyncWriter) write(span []byte) {
	a.stream.AsyncWrite(span, func(n int, err error) {
		if err != nil {
			a.done(httpmsg.WrapError(httpmsg.KindStreamFailure, err, "write"))
			return
		}

		if n < len(span) {
			a.write(span[n:])
			return
		}

		a.step()
	})
}
