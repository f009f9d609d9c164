package http1

import (
	"io"
	"strconv"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/kv"
	"github.com/indigo-web/httpmsg/method"
	"github.com/indigo-web/httpmsg/proto"
	"github.com/indigo-web/httpmsg/status"
)

const crlf = "\r\n"

var (
	crlfSpan         = []byte(crlf)
	chunkZeroTrailer = []byte("0\r\n\r\n")
)

type serializerPhase uint8

const (
	eHead serializerPhase = iota + 1
	eFixed
	eChunkPull
	eChunkPayload
	eChunkCRLF
	eLastChunk
	eUnsized
	eDone
)

// serializer produces the wire form of a message span by span. The head span is
// accumulated in an own buffer; body content is borrowed from the body itself
// and never copied.
type serializer struct {
	phase     serializerPhase
	buff      []byte
	body      httpmsg.BodyWriter
	pending   []byte
	remaining int64
	eof       bool
	trailers  kv.Sequence
}

func (s *serializer) reset() {
	s.phase = eHead
	s.buff = s.buff[:0]
	s.body = nil
	s.pending = nil
	s.remaining = 0
	s.eof = false
	s.trailers = nil
}

// arm readies the body phases according to the framing. Bodyless framings go
// straight to the end.
func (s *serializer) arm(framing httpmsg.Framing, body any, trailers kv.Sequence) error {
	if !framing.HasBody() {
		s.phase = eDone
		return nil
	}

	w, ok := body.(httpmsg.BodyWriter)
	if !ok {
		return httpmsg.ErrUnwritableBody
	}

	s.body = w

	switch framing.Kind {
	case httpmsg.FramingFixed:
		s.remaining = framing.Length
		s.phase = eFixed
	case httpmsg.FramingChunked:
		s.trailers = trailers
		s.phase = eChunkPull
	case httpmsg.FramingUntilClose:
		s.phase = eUnsized
	}

	return nil
}

func (s *serializer) next() ([]byte, error) {
	switch s.phase {
	case eFixed:
		return s.fixedSpan()
	case eChunkPull:
		return s.chunkHead()
	case eChunkPayload:
		span := s.pending
		s.pending = nil
		s.phase = eChunkCRLF
		return span, nil
	case eChunkCRLF:
		if s.eof {
			s.phase = eLastChunk
		} else {
			s.phase = eChunkPull
		}

		return crlfSpan, nil
	case eLastChunk:
		return s.lastChunk()
	case eUnsized:
		return s.unsizedSpan()
	case eDone:
		return nil, io.EOF
	default:
		panic("unreachable code")
	}
}

// fixedSpan passes body spans through, holding them against the declared
// length. Both too much and too little content is a hard fault: the framing
// already promised an exact number of octets.
func (s *serializer) fixedSpan() ([]byte, error) {
	for {
		span, err := s.body.Retrieve()
		eof := false
		switch err {
		case nil:
		case io.EOF:
			eof = true
		default:
			return nil, err
		}

		if int64(len(span)) > s.remaining {
			return nil, httpmsg.ErrBodySizeMismatch
		}

		s.remaining -= int64(len(span))

		if eof {
			if s.remaining > 0 {
				return nil, httpmsg.ErrBodySizeMismatch
			}

			s.phase = eDone
			if len(span) == 0 {
				return nil, io.EOF
			}

			return span, nil
		}

		if len(span) > 0 {
			return span, nil
		}
	}
}

// chunkHead pulls the next non-empty body span and emits its size line. The
// span itself and the closing CRLF follow as separate calls.
func (s *serializer) chunkHead() ([]byte, error) {
	for {
		span, err := s.body.Retrieve()
		switch err {
		case nil:
			if len(span) == 0 {
				continue
			}
		case io.EOF:
			s.eof = true
			if len(span) == 0 {
				return s.lastChunk()
			}
		default:
			return nil, err
		}

		s.buff = strconv.AppendUint(s.buff[:0], uint64(len(span)), 16)
		s.buff = append(s.buff, crlf...)
		s.pending = span
		s.phase = eChunkPayload
		return s.buff, nil
	}
}

// lastChunk closes the chunked stream, appending the trailer section when
// there is one.
func (s *serializer) lastChunk() ([]byte, error) {
	s.phase = eDone

	if s.trailers == nil || s.trailers.Len() == 0 {
		return chunkZeroTrailer, nil
	}

	s.buff = append(s.buff[:0], "0\r\n"...)
	for key, value := range s.trailers.Pairs() {
		s.buff = append(s.buff, key...)
		s.buff = append(s.buff, ':', ' ')
		s.buff = append(s.buff, value...)
		s.buff = append(s.buff, crlf...)
	}

	s.buff = append(s.buff, crlf...)
	return s.buff, nil
}

func (s *serializer) unsizedSpan() ([]byte, error) {
	for {
		span, err := s.body.Retrieve()
		switch err {
		case nil:
			if len(span) > 0 {
				return span, nil
			}
		case io.EOF:
			s.phase = eDone
			if len(span) == 0 {
				return nil, io.EOF
			}

			return span, nil
		default:
			return nil, err
		}
	}
}

func (s *serializer) appendFields(fields kv.Sequence) {
	for key, value := range fields.Pairs() {
		s.buff = append(s.buff, key...)
		s.buff = append(s.buff, ':', ' ')
		s.buff = append(s.buff, value...)
		s.buff = append(s.buff, crlf...)
	}

	s.buff = append(s.buff, crlf...)
}

// RequestSerializer produces the wire form of the bound request.
type RequestSerializer struct {
	serializer
	request *httpmsg.Request
}

func NewRequestSerializer(cfg *config.Config, request *httpmsg.Request) *RequestSerializer {
	return &RequestSerializer{
		serializer: serializer{
			phase: eHead,
			buff:  make([]byte, 0, cfg.NET.WriteBufferSize.Default),
		},
		request: request,
	}
}

// Bind switches the serializer onto another request and restarts it.
func (s *RequestSerializer) Bind(request *httpmsg.Request) {
	s.request = request
	s.reset()
}

// Reset restarts the serialization of the bound request from the beginning.
func (s *RequestSerializer) Reset() {
	s.reset()
}

// Next returns the next wire-format span, io.EOF past the last one. The span is
// only valid until the next call. Requests with no framing settled are prepared
// implicitly, as if by Prepare.
func (s *RequestSerializer) Next() ([]byte, error) {
	if s.phase == eHead {
		return s.head()
	}

	return s.next()
}

func (s *RequestSerializer) head() ([]byte, error) {
	r := s.request

	if r.Framing.Kind == httpmsg.FramingNone && r.Body != nil {
		if err := r.Prepare(); err != nil {
			return nil, err
		}
	}

	token := r.RawMethod
	if len(token) == 0 {
		token = r.Method.String()
	}

	if len(token) == 0 || len(r.Target) == 0 {
		return nil, httpmsg.ErrMalformedStartLine
	}

	if r.Framing.Kind == httpmsg.FramingUntilClose {
		// requests cannot be delimited by closing the connection
		return nil, httpmsg.ErrAmbiguousFraming
	}

	if err := s.arm(r.Framing, r.Body, r.Trailers); err != nil {
		return nil, err
	}

	s.buff = append(s.buff[:0], token...)
	s.buff = append(s.buff, ' ')
	s.buff = append(s.buff, r.Target...)
	s.buff = append(s.buff, ' ')
	s.buff = append(s.buff, protoToken(r.Proto)...)
	s.buff = append(s.buff, crlf...)
	s.appendFields(r.Fields)

	return s.buff, nil
}

// ResponseSerializer produces the wire form of the bound response.
type ResponseSerializer struct {
	serializer
	response  *httpmsg.Response
	forMethod method.Method
}

func NewResponseSerializer(cfg *config.Config, response *httpmsg.Response) *ResponseSerializer {
	return &ResponseSerializer{
		serializer: serializer{
			phase: eHead,
			buff:  make([]byte, 0, cfg.NET.WriteBufferSize.Default),
		},
		response: response,
	}
}

// ForRequest tells which request method the response answers. Responses to HEAD
// and successful responses to CONNECT are then written without any body octets,
// leaving the fields exactly as they are. Bind clears the knob, Reset keeps it.
func (s *ResponseSerializer) ForRequest(m method.Method) {
	s.forMethod = m
}

// Bind switches the serializer onto another response and restarts it.
func (s *ResponseSerializer) Bind(response *httpmsg.Response) {
	s.response = response
	s.forMethod = method.Unknown
	s.reset()
}

// Reset restarts the serialization of the bound response from the beginning.
func (s *ResponseSerializer) Reset() {
	s.reset()
}

// Next returns the next wire-format span, io.EOF past the last one. The span is
// only valid until the next call. Responses with no framing settled are prepared
// implicitly, as if by Prepare.
func (s *ResponseSerializer) Next() ([]byte, error) {
	if s.phase == eHead {
		return s.head()
	}

	return s.next()
}

func (s *ResponseSerializer) head() ([]byte, error) {
	r := s.response

	if r.Code < 100 || r.Code > 999 {
		return nil, httpmsg.ErrMalformedStartLine
	}

	suppressed := s.forMethod == method.HEAD ||
		(s.forMethod == method.CONNECT && isSuccessful(r))

	if suppressed {
		s.phase = eDone
	} else {
		if r.Framing.Kind == httpmsg.FramingNone {
			if err := r.Prepare(); err != nil {
				return nil, err
			}
		}

		if err := s.arm(r.Framing, r.Body, r.Trailers); err != nil {
			return nil, err
		}
	}

	s.buff = append(s.buff[:0], protoToken(r.Proto)...)
	s.buff = append(s.buff, ' ')
	s.buff = appendCode(s.buff, r.Code)
	s.buff = append(s.buff, ' ')

	reason := r.Reason
	if len(reason) == 0 {
		reason = string(status.Text(r.Code))
	}

	s.buff = append(s.buff, reason...)
	s.buff = append(s.buff, crlf...)
	s.appendFields(r.Fields)

	return s.buff, nil
}

// protoToken falls back onto HTTP/1.1 for messages which never stated a version.
func protoToken(p proto.Proto) string {
	if p == proto.Unknown {
		return proto.HTTP11.String()
	}

	return p.String()
}

func appendCode(buff []byte, code status.Code) []byte {
	if str := status.StringCode(code); len(str) > 0 {
		return append(buff, str...)
	}

	return strconv.AppendUint(buff, uint64(code), 10)
}
