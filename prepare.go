package httpmsg

import (
	"strconv"

	"github.com/indigo-web/httpmsg/kv"
	"github.com/indigo-web/httpmsg/proto"
)

// Prepare decides the request framing from the attached body and stamps the framing
// fields accordingly, overwriting whatever Content-Length or Transfer-Encoding the
// fields carried before. Serializing a prepared message and parsing it back yields
// the same fields, which makes Prepare the natural last step before writing.
//
// A body of unknown size cannot be framed in an HTTP/1.0 request, as there is no
// chunked coding to fall back to.
func (r *Request) Prepare() error {
	if r.Body == nil {
		clearFraming(r.Fields)
		r.Framing = Framing{Kind: FramingNone}
		return nil
	}

	w, ok := r.Body.(BodyWriter)
	if !ok {
		return ErrUnwritableBody
	}

	size := w.Size()
	if size == SizeUnknown {
		if r.Proto == proto.HTTP10 {
			return ErrAmbiguousFraming
		}

		r.Fields.Delete("Content-Length")
		r.Fields.Set("Transfer-Encoding", "chunked")
		r.Framing = Framing{Kind: FramingChunked}
		return nil
	}

	stampLength(r.Fields, size)
	r.Framing = Framing{Kind: FramingFixed, Length: size}
	return nil
}

// Prepare decides the response framing from the status code, the protocol version
// and the attached body, stamping the framing fields accordingly. Bodyless codes
// drop the framing fields altogether; a body of unknown size falls back to the
// until-close framing when the version has no chunked coding.
func (r *Response) Prepare() error {
	if r.Bodyless() {
		clearFraming(r.Fields)
		r.Framing = Framing{Kind: FramingNone}
		return nil
	}

	if r.Body == nil {
		// an empty sized body rather than no framing at all: even responses without
		// content conventionally declare Content-Length: 0
		stampLength(r.Fields, 0)
		r.Framing = Framing{Kind: FramingFixed}
		return nil
	}

	w, ok := r.Body.(BodyWriter)
	if !ok {
		return ErrUnwritableBody
	}

	size := w.Size()
	if size == SizeUnknown {
		if r.Proto == proto.HTTP10 {
			clearFraming(r.Fields)
			r.Framing = Framing{Kind: FramingUntilClose}
			return nil
		}

		r.Fields.Delete("Content-Length")
		r.Fields.Set("Transfer-Encoding", "chunked")
		r.Framing = Framing{Kind: FramingChunked}
		return nil
	}

	stampLength(r.Fields, size)
	r.Framing = Framing{Kind: FramingFixed, Length: size}
	return nil
}

func clearFraming(fields kv.Sequence) {
	fields.Delete("Content-Length")
	fields.Delete("Transfer-Encoding")
}

func stampLength(fields kv.Sequence, size int64) {
	fields.Delete("Transfer-Encoding")
	fields.Set("Content-Length", strconv.FormatInt(size, 10))
}
