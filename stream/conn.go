package stream

import (
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/buffer"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/http1"
	"github.com/indigo-web/httpmsg/method"
)

// Conn bundles a blocking transport with a scratch buffer and reusable codecs
// for the lifetime of one connection. Unlike the free functions, which stand a
// fresh codec up per call, a Conn keeps its parse targets and internal buffers
// across messages, so sequential traffic does not allocate.
//
// A Conn is not safe for concurrent use. Parsed messages are owned by the Conn
// and stay valid only until the next read of the same message kind.
type Conn struct {
	cfg *config.Config
	rw  io.ReadWriter
	buf *buffer.Flat

	request   *httpmsg.Request
	requestP  *http1.RequestParser
	requestS  *http1.RequestSerializer
	response  *httpmsg.Response
	responseP *http1.ResponseParser
	responseS *http1.ResponseSerializer
}

func NewConn(cfg *config.Config, rw io.ReadWriter) *Conn {
	return &Conn{
		cfg: cfg,
		rw:  rw,
		buf: buffer.NewFlat(cfg.NET.ReadBufferSize.Default, cfg.NET.ReadBufferSize.Maximal),
	}
}

// Request returns the request instance incoming requests are parsed into,
// allowing a body sink to be attached before the first ReadRequest call.
func (c *Conn) Request() *httpmsg.Request {
	if c.request == nil {
		c.request = httpmsg.NewRequest()
	}

	return c.request
}

// Response returns the response instance incoming responses are parsed into,
// allowing a body sink to be attached before the first ReadResponse call.
func (c *Conn) Response() *httpmsg.Response {
	if c.response == nil {
		c.response = httpmsg.NewResponse()
	}

	return c.response
}

// ReadRequest reads the next request off the connection. The returned request
// is owned by the Conn and valid until the next ReadRequest call. After an
// error the byte stream position is undefined and the connection should be
// dropped.
func (c *Conn) ReadRequest() (*httpmsg.Request, error) {
	request := c.Request()
	if c.requestP == nil {
		c.requestP = http1.NewRequestParser(c.cfg, request)
	}

	resetKeepingBody(request)

	err := drive(c.rw, c.buf, c.cfg.NET.ReadBufferSize.Default, c.requestP.Parse, c.requestP.Finish)
	if err != nil {
		return nil, err
	}

	return request, nil
}

// ReadResponse reads the next response off the connection. Answering names the
// method of the request this response answers; pass method.Unknown when it
// cannot be known. The returned response is owned by the Conn and valid until
// the next ReadResponse call.
func (c *Conn) ReadResponse(answering method.Method) (*httpmsg.Response, error) {
	response := c.Response()
	if c.responseP == nil {
		c.responseP = http1.NewResponseParser(c.cfg, response)
	}

	body := response.Body
	response.Reset()
	response.Body = body
	c.responseP.ForRequest(answering)

	err := drive(c.rw, c.buf, c.cfg.NET.ReadBufferSize.Default, c.responseP.Parse, c.responseP.Finish)
	if err != nil {
		return nil, err
	}

	return response, nil
}

// WriteRequest serializes request into the connection.
func (c *Conn) WriteRequest(request *httpmsg.Request) error {
	if c.requestS == nil {
		c.requestS = http1.NewRequestSerializer(c.cfg, request)
	} else {
		c.requestS.Bind(request)
	}

	return writeMessage(c.rw, c.requestS.Next)
}

// WriteResponse serializes response into the connection. Answering names the
// method of the request being answered.
func (c *Conn) WriteResponse(response *httpmsg.Response, answering method.Method) error {
	if c.responseS == nil {
		c.responseS = http1.NewResponseSerializer(c.cfg, response)
	} else {
		c.responseS.Bind(response)
	}

	c.responseS.ForRequest(answering)

	return writeMessage(c.rw, c.responseS.Next)
}

// Leftover exposes the bytes read past the last message boundary. After a
// successful CONNECT these are the first bytes of the tunneled stream.
func (c *Conn) Leftover() []byte {
	return c.buf.Bytes()
}
