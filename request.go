package httpmsg

import (
	"github.com/indigo-web/httpmsg/internal/strutil"
	"github.com/indigo-web/httpmsg/kv"
	"github.com/indigo-web/httpmsg/method"
	"github.com/indigo-web/httpmsg/proto"
)

// Request models a single HTTP/1.x request. The zero-ish instance returned by
// NewRequest is a ready parse target; filled manually it is a serialization source.
type Request struct {
	Method method.Method
	// RawMethod preserves the verbatim method token. It is authoritative whenever
	// Method is method.Extension.
	RawMethod string
	// Target is the request target exactly as it appeared on the wire. It is not
	// decomposed any further.
	Target string
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

func NewRequest() *Request {
	return &Request{
		Proto:    proto.HTTP11,
		Fields:   kv.New(),
		Trailers: kv.New(),
	}
}

// WithMethod sets the method along with its raw token.
func (r *Request) WithMethod(m method.Method) *Request {
	r.Method = m
	r.RawMethod = m.String()
	return r
}

// WithRawMethod sets an extension method by its verbatim token.
func (r *Request) WithRawMethod(token string) *Request {
	r.Method = method.Parse(token)
	r.RawMethod = token
	return r
}

func (r *Request) WithTarget(target string) *Request {
	r.Target = target
	return r
}

func (r *Request) WithProto(p proto.Proto) *Request {
	r.Proto = p
	return r
}

// Header adds a header field with one or more values.
func (r *Request) Header(key string, values ...string) *Request {
	for _, value := range values {
		r.Fields.Add(key, value)
	}

	return r
}

// WithTrailer adds a trailer field to be written after a chunked body.
func (r *Request) WithTrailer(key, value string) *Request {
	r.Trailers.Add(key, value)
	return r
}

func (r *Request) WithBody(body any) *Request {
	r.Body = body
	return r
}

// KeepAlive tells whether the connection may carry further messages after this one,
// judging by the protocol version and the Connection field.
func (r *Request) KeepAlive() bool {
	return keepAlive(r.Proto, r.Fields)
}

// Reset brings the request back to the NewRequest state, keeping the allocated
// field storage for reuse.
func (r *Request) Reset() {
	r.Method = method.Unknown
	r.RawMethod = ""
	r.Target = ""
	r.Proto = proto.HTTP11
	r.Fields.Clear()
	r.Trailers.Clear()
	r.Body = nil
	r.Framing = Framing{}
}

func keepAlive(p proto.Proto, fields kv.Sequence) bool {
	conn := strutil.StripWS(fields.Value("Connection"))

	if p == proto.HTTP10 {
		return strutil.CmpFold(conn, "keep-alive")
	}

	return !strutil.CmpFold(conn, "close")
}
