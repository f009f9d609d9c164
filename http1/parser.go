// Package http1 converts between the message model and HTTP/1.x wire bytes.
//
// Both directions work incrementally. The parsers consume arbitrarily sliced
// input and suspend wherever it runs out; the serializers hand the wire form
// out span by span. Neither side ever buffers a whole body.
package http1

import (
	"bytes"
	"errors"
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/internal/buffer"
	"github.com/indigo-web/httpmsg/method"
	"github.com/indigo-web/httpmsg/proto"
	"github.com/indigo-web/utils/uf"
)

type parserState uint8

const (
	eMethod parserState = iota + 1
	eTarget
	eProtocol
	eStatusProto
	eStatusCode
	eReason
	eHeaders
	eHeaderKey
	eContentLength
	eContentLengthEnd
	eContentLengthCR
	eHeaderValue
	eHeaderValueCRLFCR
	eTrailers
	eFixedBody
	eChunkedBody
	eUnsizedBody
)

// RequestParser parses requests into the request instance it was bound to at
// construction. The request is not cleared between messages: reusing it for
// the next message is the caller's call to make, via Request.Reset.
//
// Strings placed into the bound request alias internal buffers and stay valid
// only until the next message is parsed.
type RequestParser struct {
	state     parserState
	cfg       *config.Config
	request   *httpmsg.Request
	startLine buffer.Buffer
	fields    fieldScanner
	chunked   chunkedParser
	sink      httpmsg.BodyReader
	bodyLeft  int64
	received  int64
}

func NewRequestParser(cfg *config.Config, request *httpmsg.Request) *RequestParser {
	return &RequestParser{
		state:     eMethod,
		cfg:       cfg,
		request:   request,
		startLine: buffer.New(cfg.StartLine.Size.Default, cfg.StartLine.Size.Maximal),
		fields:    newFieldScanner(cfg.Headers),
		chunked:   newChunkedParser(cfg.Body.MaxChunkSizeDigits),
	}
}

// Parse processes as much of data as possible. Done reports a completely parsed
// request, with extra holding the bytes past its end, which must be fed into the
// next Parse call first. Body content is routed into the bound request's Body if
// it is a BodyReader, discarded if the Body is nil.
//
// Once an error is returned, the parser must not be fed any further input.
func (p *RequestParser) Parse(data []byte) (done bool, extra []byte, err error) {
	request := p.request
	startLine := &p.startLine

	switch p.state {
	case eMethod:
		goto method
	case eTarget:
		goto target
	case eProtocol:
		goto protocol
	case eHeaders:
		goto headers
	case eFixedBody:
		goto fixedBody
	case eChunkedBody:
		goto chunkedBody
	case eTrailers:
		goto trailers
	default:
		panic("unreachable code")
	}

method:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ' ' {
			if !startLine.Append(data[:i]) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			request.Method = method.Parse(uf.B2S(startLine.Preview()))
			if request.Method == method.Unknown {
				return true, nil, httpmsg.ErrMalformedStartLine
			}

			if request.Method == method.Extension {
				request.RawMethod = uf.B2S(startLine.Finish())
			} else {
				// tokens of well-known methods need no buffer backing
				request.RawMethod = request.Method.String()
				startLine.Discard(0)
			}

			data = data[i+1:]
			goto target
		}

		if isProhibitedChar(char) {
			return true, nil, httpmsg.ErrMalformedStartLine
		}
	}

	if !startLine.Append(data) {
		return true, nil, httpmsg.ErrTooLongStartLine
	}

	p.state = eMethod
	return false, nil, nil

target:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char == ' ' {
			if !startLine.Append(data[:i]) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			request.Target = uf.B2S(startLine.Finish())
			if len(request.Target) == 0 {
				return true, nil, httpmsg.ErrMalformedStartLine
			}

			data = data[i+1:]
			goto protocol
		}

		if isProhibitedChar(char) {
			return true, nil, httpmsg.ErrMalformedStartLine
		}
	}

	if !startLine.Append(data) {
		return true, nil, httpmsg.ErrTooLongStartLine
	}

	p.state = eTarget
	return false, nil, nil

protocol:
	{
		boundary := bytes.IndexByte(data, '\n')
		if boundary == -1 {
			if !startLine.Append(data) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			p.state = eProtocol
			return false, nil, nil
		}

		var protocol proto.Proto
		if startLine.SegmentLength() == 0 {
			// the whole token arrived in one piece, no buffering needed
			protocol = proto.FromBytes(stripCR(data[:boundary]))
		} else {
			if !startLine.Append(data[:boundary]) {
				return true, nil, httpmsg.ErrTooLongStartLine
			}

			protocol = proto.FromBytes(stripCR(startLine.Preview()))
			startLine.Discard(0)
		}

		if protocol == proto.Unknown {
			return true, nil, httpmsg.ErrUnsupportedVersion
		}

		request.Proto = protocol
		data = data[boundary+1:]
		p.fields.init(request.Fields)
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
		framing, ferr := requestFraming(&p.fields)
		if ferr != nil {
			return true, nil, ferr
		}

		if framing.Kind == httpmsg.FramingFixed && framing.Length > p.cfg.Body.MaxSize {
			return true, nil, httpmsg.ErrBodyTooLarge
		}

		request.Framing = framing

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

complete:
	if err = p.closeBody(); err != nil {
		return true, nil, err
	}

	p.cleanup()
	return true, data, nil
}

// Finish reacts to the end of the input stream. Between messages it returns
// io.EOF; inside one, ErrIncompleteBody.
func (p *RequestParser) Finish() error {
	if p.state == eMethod && p.startLine.SegmentLength() == 0 {
		return io.EOF
	}

	return httpmsg.ErrIncompleteBody
}

// Reset abandons whatever was partially parsed and prepares the parser for a
// fresh message, including after an error.
func (p *RequestParser) Reset() {
	p.cleanup()
	p.chunked.init()
	p.fields.init(p.request.Fields)
}

func (p *RequestParser) cleanup() {
	p.state = eMethod
	p.startLine.Clear()
	p.sink = nil
	p.bodyLeft = 0
	p.received = 0
}

func (p *RequestParser) openBody(framing httpmsg.Framing) error {
	p.received = 0

	switch body := p.request.Body.(type) {
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

func (p *RequestParser) closeBody() error {
	if p.sink == nil {
		return nil
	}

	if err := p.sink.Close(); err != nil {
		return asBodyError(err)
	}

	return nil
}

func (p *RequestParser) accept(span []byte) (int, error) {
	n, err := feedSink(p.sink, span)
	p.received += int64(n)
	if err == nil && p.received > p.cfg.Body.MaxSize {
		return n, httpmsg.ErrBodyTooLarge
	}

	return n, err
}

// feedSink offers a span to the sink. A nil sink swallows everything.
func feedSink(sink httpmsg.BodyReader, span []byte) (int, error) {
	if sink == nil {
		return len(span), nil
	}

	n, err := sink.Accept(span)
	if err != nil {
		return n, asBodyError(err)
	}

	if n == 0 && len(span) > 0 {
		return 0, httpmsg.ErrBodyNotConsumed
	}

	return n, nil
}

// asBodyError passes library errors through and labels foreign ones as a
// rejected body, keeping them reachable via errors.Is.
func asBodyError(err error) error {
	var already *httpmsg.Error
	if errors.As(err, &already) {
		return err
	}

	return httpmsg.WrapError(httpmsg.KindBodyRejected, err, "body rejected")
}

func stripCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}

	return line
}

// isProhibitedChar reports control characters which never belong to a start
// line token.
func isProhibitedChar(char byte) bool {
	return char < 0x21 || char == 0x7F
}
