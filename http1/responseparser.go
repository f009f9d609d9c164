package http1

import (
	"bytes"
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/internal/buffer"
	"github.com/indigo-web/httpmsg/method"
	"github.com/indigo-web/httpmsg/proto"
	"github.com/indigo-web/httpmsg/status"
	"github.com/indigo-web/utils/uf"
)

// ResponseParser parses responses into the response instance it was bound to at
// construction. Strings placed into it alias internal buffers and stay valid only
// until the next message is parsed.
//
// Response framing depends on the request being answered, so ForRequest should
// be called before each message. Without it, responses are parsed as if the
// request method could not rule a body out.
type ResponseParser struct {
	state      parserState
	cfg        *config.Config
	response   *httpmsg.Response
	startLine  buffer.Buffer
	fields     fieldScanner
	chunked    chunkedParser
	forMethod  method.Method
	code       int
	codeDigits int
	sink       httpmsg.BodyReader
	bodyLeft   int64
	received   int64
}

func NewResponseParser(cfg *config.Config, response *httpmsg.Response) *ResponseParser {
	return &ResponseParser{
		state:     eStatusProto,
		cfg:       cfg,
		response:  response,
		startLine: buffer.New(cfg.StartLine.Size.Default, cfg.StartLine.Size.Maximal),
		fields:    newFieldScanner(cfg.Headers),
		chunked:   newChunkedParser(cfg.Body.MaxChunkSizeDigits),
	}
}

// ForRequest tells which request method the next response answers. Responses to
// HEAD never carry a body no matter what their fields declare, and a successful
// response to CONNECT turns the rest of the stream into a tunnel. The knob
// applies to one message and resets once it completes.
func (p *ResponseParser) ForRequest(m method.Method) {
	p.forMethod = m
}

// Parse processes as much of data as possible. Done reports a completely parsed
// response, with extra holding the bytes past its end. For bodies extending until
// the end of the stream the message is completed by Finish instead. Body content
// is routed into the bound response's Body if it is a BodyReader, discarded if
// the Body is nil.
//
// Once an error is returned, the parser must not be fed any further input.
func (p *ResponseParser) Parse(data []byte) (done bool, extra []byte, err error) {
	response := p.response
	startLine := &p.startLine

	switch p.state {
	case eStatusProto:
		goto statusProto
	case eStatusCode:
		goto statusCode
	case eReason:
		goto reason
	case eHeaders:
		goto headers
	case eFixedBody:
		goto fixedBody
	case eChunkedBody:
		goto chunkedBody
	case eTrailers:
		goto trailers
	case eUnsizedBody:
		goto unsizedBody
	default:
		panic("unreachable code")
	}

statusProto:
	{
		boundary := bytes.IndexByte(data, ' ')
		if boundary == -1 {
			if !startLine.Append(data) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			p.state = eStatusProto
			return false, nil, nil
		}

		var protocol proto.Proto
		if startLine.SegmentLength() == 0 {
			protocol = proto.FromBytes(data[:boundary])
		} else {
			if !startLine.Append(data[:boundary]) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			protocol = proto.FromBytes(startLine.Preview())
			startLine.Discard(0)
		}

		if protocol == proto.Unknown {
			return true, nil, httpmsg.ErrUnsupportedVersion
		}

		response.Proto = protocol
		data = data[boundary+1:]
		// fallthrough to statusCode
	}

statusCode:
	for i := 0; i < len(data); i++ {
		char := data[i]
		switch {
		case char >= '0' && char <= '9':
			if p.codeDigits++; p.codeDigits > 3 {
				return true, nil, httpmsg.ErrMalformedStartLine
			}

			p.code = p.code*10 + int(char-'0')
		case char == ' ':
			if p.codeDigits < 3 {
				return true, nil, httpmsg.ErrMalformedStartLine
			}

			response.Code = status.Code(p.code)
			data = data[i+1:]
			goto reason
		case char == '\r' || char == '\n':
			if p.codeDigits < 3 {
				return true, nil, httpmsg.ErrMalformedStartLine
			}

			// the reason phrase is plain missing, which is fine
			response.Code = status.Code(p.code)
			data = data[i:]
			goto reason
		default:
			return true, nil, httpmsg.ErrMalformedStartLine
		}
	}

	p.state = eStatusCode
	return false, nil, nil

reason:
	{
		boundary := bytes.IndexByte(data, '\n')
		if boundary == -1 {
			if !startLine.Append(data) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			p.state = eReason
			return false, nil, nil
		}

		if !startLine.Append(data[:boundary]) {
			return true, nil, httpmsg.ErrTooLongStartLine
		}

		if seglen := startLine.SegmentLength(); seglen > 0 && startLine.Preview()[seglen-1] == '\r' {
			startLine.Trunc(1)
		}

		response.Reason = uf.B2S(startLine.Finish())
		data = data[boundary+1:]
		p.fields.init(response.Fields)
		// fallthrough to headers
	}

headers:
	{
		done, rest, ferr := p.fields.Parse(data)
		if ferr != nil {
			return true, nil, ferr
		}

		if !done {
			p.state = eHeaders
			return false, nil, nil
		}

		data = rest
		// fallthrough to headersDone
	}

	{
		framing, ferr := responseFraming(response, p.forMethod, &p.fields)
		if ferr != nil {
			return true, nil, ferr
		}

		if framing.Kind == httpmsg.FramingFixed && framing.Length > p.cfg.Body.MaxSize {
			return true, nil, httpmsg.ErrBodyTooLarge
		}

		response.Framing = framing

		if err = p.openBody(framing); err != nil {
			return true, nil, err
		}

		switch framing.Kind {
		case httpmsg.FramingFixed:
			if framing.Length > 0 {
				p.bodyLeft = framing.Length
				goto fixedBody
			}

			goto complete
		case httpmsg.FramingChunked:
			p.chunked.init()
			goto chunkedBody
		case httpmsg.FramingUntilClose:
			goto unsizedBody
		default:
			goto complete
		}
	}

fixedBody:
	for p.bodyLeft > 0 {
		if len(data) == 0 {
			p.state = eFixedBody
			return false, nil, nil
		}

		span := data
		if int64(len(span)) > p.bodyLeft {
			span = span[:p.bodyLeft]
		}

		n, aerr := p.accept(span)
		if aerr != nil {
			return true, nil, aerr
		}

		p.bodyLeft -= int64(n)
		data = data[n:]
	}

	goto complete

chunkedBody:
	for {
		if len(data) == 0 {
			p.state = eChunkedBody
			return false, nil, nil
		}

		chunk, rest, cerr := p.chunked.Parse(data)
		switch cerr {
		case nil:
		case io.EOF:
			data = rest
			p.fields.beginTrailers()
			goto trailers
		default:
			return true, nil, cerr
		}

		for len(chunk) > 0 {
			n, aerr := p.accept(chunk)
			if aerr != nil {
				return true, nil, aerr
			}

			chunk = chunk[n:]
		}

		data = rest
	}

trailers:
	{
		done, rest, ferr := p.fields.Parse(data)
		if ferr != nil {
			return true, nil, ferr
		}

		if !done {
			p.state = eTrailers
			return false, nil, nil
		}

		data = rest
		goto complete
	}

unsizedBody:
	for len(data) > 0 {
		n, aerr := p.accept(data)
		if aerr != nil {
			return true, nil, aerr
		}

		data = data[n:]
	}

	p.state = eUnsizedBody
	return false, nil, nil

complete:
	if err = p.closeBody(); err != nil {
		return true, nil, err
	}

	p.cleanup()
	return true, data, nil
}

// Finish reacts to the end of the input stream. A body delimited by the stream
// end is thereby completed, reported with a nil error. Between messages Finish
// returns io.EOF; inside one, ErrIncompleteBody.
func (p *ResponseParser) Finish() error {
	switch {
	case p.state == eUnsizedBody:
		if err := p.closeBody(); err != nil {
			return err
		}

		p.cleanup()
		return nil
	case p.state == eStatusProto && p.startLine.SegmentLength() == 0:
		return io.EOF
	default:
		return httpmsg.ErrIncompleteBody
	}
}

// Reset abandons whatever was partially parsed and prepares the parser for a
// fresh message, including after an error.
func (p *ResponseParser) Reset() {
	p.cleanup()
	p.chunked.init()
	p.fields.init(p.response.Fields)
}

func (p *ResponseParser) cleanup() {
	p.state = eStatusProto
	p.startLine.Clear()
	p.forMethod = method.Unknown
	p.code = 0
	p.codeDigits = 0
	p.sink = nil
	p.bodyLeft = 0
	p.received = 0
}

func (p *ResponseParser) openBody(framing httpmsg.Framing) error {
	p.received = 0

	switch body := p.response.Body.(type) {
	case nil:
		return nil
	case httpmsg.BodyReader:
		p.sink = body
		if err := body.Open(framing); err != nil {
			return asBodyError(err)
		}

		return nil
	default:
		if framing.HasBody() {
			return httpmsg.ErrUnreadableBody
		}

		return nil
	}
}

func (p *ResponseParser) closeBody() error {
	if p.sink == nil {
		return nil
	}

	// Finish may land here again if the sink fails on the first try
	sink := p.sink
	p.sink = nil

	if err := sink.Close(); err != nil {
		return asBodyError(err)
	}

	return nil
}

func (p *ResponseParser) accept(span []byte) (int, error) {
	n, err := feedSink(p.sink, span)
	p.received += int64(n)
	if err == nil && p.received > p.cfg.Body.MaxSize {
		return n, httpmsg.ErrBodyTooLarge
	}

	return n, err
}
