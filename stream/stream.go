// Package stream drives the http1 codecs against abstract byte streams.
//
// The blocking entry points loop between one stream operation and one codec
// step until a whole message went through. Their asynchronous duals turn every
// stream operation into a suspension point instead, delivering a single
// completion once the message is done. Both share the scratch buffer
// discipline: bytes read past a message boundary stay committed in the
// caller-owned buffer and are observed first by the next read on the same
// connection, which is what keeps pipelined messages intact.
package stream

import (
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/buffer"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/http1"
	"github.com/indigo-web/httpmsg/method"
)

// ErrScratchOverflow is returned when the scratch buffer hit its size limit and
// cannot accommodate another stream read.
var ErrScratchOverflow = httpmsg.NewError(httpmsg.KindStreamFailure, "scratch buffer overflow")

// ReadRequest parses one request out of r into request, which is reset first,
// except for its Body: a pre-attached sink receives the content. A clean stream
// end right on a message boundary surfaces as io.EOF.
func ReadRequest(cfg *config.Config, r io.Reader, buf buffer.Dynamic, request *httpmsg.Request) error {
	resetKeepingBody(request)
	p := http1.NewRequestParser(cfg, request)

	return drive(r, buf, cfg.NET.ReadBufferSize.Default, p.Parse, p.Finish)
}

// ReadResponse parses one response out of r into response, which is reset
// first, except for its Body: a pre-attached sink receives the content.
// Answering names the method of the request this response answers, which may
// rule a body out; pass method.Unknown when it cannot be known. A clean stream
// end right on a message boundary surfaces as io.EOF.
func ReadResponse(
	cfg *config.Config,
	r io.Reader,
	buf buffer.Dynamic,
	response *httpmsg.Response,
	answering method.Method,
) error {
	body := response.Body
	response.Reset()
	response.Body = body

	p := http1.NewResponseParser(cfg, response)
	p.ForRequest(answering)

	return drive(r, buf, cfg.NET.ReadBufferSize.Default, p.Parse, p.Finish)
}

// WriteRequest serializes request into w. Requests with no framing settled are
// prepared implicitly, as if by Prepare.
func WriteRequest(cfg *config.Config, w io.Writer, request *httpmsg.Request) error {
	s := http1.NewRequestSerializer(cfg, request)
	return writeMessage(w, s.Next)
}

// WriteResponse serializes response into w. Answering names the method of the
// request being answered: responses to HEAD and successful responses to CONNECT
// are written without body octets. Responses with no framing settled are
// prepared implicitly, as if by Prepare.
func WriteResponse(
	cfg *config.Config,
	w io.Writer,
	response *httpmsg.Response,
	answering method.Method,
) error {
	s := http1.NewResponseSerializer(cfg, response)
	s.ForRequest(answering)

	return writeMessage(w, s.Next)
}

func resetKeepingBody(request *httpmsg.Request) {
	body := request.Body
	request.Reset()
	request.Body = body
}

// drive interleaves parser steps with stream reads until the message completes.
// Leftover bytes of a completed message stay committed in buf.
func drive(
	r io.Reader,
	buf buffer.Dynamic,
	readSize int,
	parse func([]byte) (done bool, extra []byte, err error),
	finish func() error,
) error {
	for {
		if data := buf.Bytes(); len(data) > 0 {
			done, extra, err := parse(data)
			if err != nil {
				return err
			}

			if done {
				buf.Consume(len(data) - len(extra))
				return nil
			}

			buf.Consume(len(data))
		}

		region := buf.Prepare(readSize)
		if region == nil {
			return ErrScratchOverflow
		}

		n, err := r.Read(region)
		buf.Commit(n)

		if n == 0 && err != nil {
			if err == io.EOF {
				return finish()
			}

			return httpmsg.WrapError(httpmsg.KindStreamFailure, err, "read")
		}

		// an error delivered alongside bytes resurfaces on the next read
	}
}

func writeMessage(w io.Writer, next func() ([]byte, error)) error {
	for {
		span, err := next()
		switch err {
		case nil:
		case io.EOF:
			return nil
		default:
			return err
		}

		if _, err = w.Write(span); err != nil {
			return httpmsg.WrapError(httpmsg.KindStreamFailure, err, "write")
		}
	}
}
