package httpmsg

import (
	"github.com/indigo-web/httpmsg/kv"
	"github.com/indigo-web/httpmsg/proto"
	"github.com/indigo-web/httpmsg/status"
)

// Response models a single HTTP/1.x response. The instance returned by NewResponse
// is a ready parse target; filled manually it is a serialization source.
type Response struct {
	Code status.Code
	// Reason is the reason phrase. Left empty, the canonical phrase of the code is
	// used on serialization.
	Reason string
	Proto  proto.Proto
	Fields kv.Sequence
	// Trailers are written after a chunked body on serialization. The parser never
	// fills them: arriving trailer fields are merged into Fields instead.
	Trailers kv.Sequence
	// Body is an arbitrary value. Operations decide whether it suits them through
	// the BodyWriter and BodyReader capabilities. Nil means no content.
	Body any
	// Framing is set by the parser or by Prepare and treated as immutable afterwards.
	Framing Framing
}

func NewResponse() *Response {
	return &Response{
		Code:     status.OK,
		Proto:    proto.HTTP11,
		Fields:   kv.New(),
		Trailers: kv.New(),
	}
}

func (r *Response) WithCode(code status.Code) *Response {
	r.Code = code
	return r
}

func (r *Response) WithReason(reason string) *Response {
	r.Reason = reason
	return r
}

func (r *Response) WithProto(p proto.Proto) *Response {
	r.Proto = p
	return r
}

// Header adds a header field with one or more values.
func (r *Response) Header(key string, values ...string) *Response {
	for _, value := range values {
		r.Fields.Add(key, value)
	}

	return r
}

// WithTrailer adds a trailer field to be written after a chunked body.
func (r *Response) WithTrailer(key, value string) *Response {
	r.Trailers.Add(key, value)
	return r
}

func (r *Response) WithBody(body any) *Response {
	r.Body = body
	return r
}

// Bodyless tells whether the status code forbids any body octets on the wire.
func (r *Response) Bodyless() bool {
	return bodylessCode(r.Code)
}

// KeepAlive tells whether the connection may carry further messages after this one,
// judging by the protocol version and the Connection field.
func (r *Response) KeepAlive() bool {
	return keepAlive(r.Proto, r.Fields)
}

// Reset brings the response back to the NewResponse state, keeping the allocated
// field storage for reuse.
func (r *Response) Reset() {
	r.Code = status.OK
	r.Reason = ""
	r.Proto = proto.HTTP11
	r.Fields.Clear()
	r.Trailers.Clear()
	r.Body = nil
	r.Framing = Framing{}
}

func bodylessCode(code status.Code) bool {
	return (code >= 100 && code < 200) ||
		code == status.NoContent ||
		code == status.NotModified
}
