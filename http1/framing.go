package http1

import (
	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/method"
)

// requestFraming derives the body framing of a request from the scanned header
// section. Messages carrying both Content-Length and Transfer-Encoding are a
// classic smuggling vector and are rejected outright, as are transfer codings
// this implementation cannot undo.
func requestFraming(f *fieldScanner) (httpmsg.Framing, error) {
	if f.metContentLength && f.metTransferEncoding {
		return httpmsg.Framing{}, httpmsg.ErrAmbiguousFraming
	}

	switch {
	case f.metTransferEncoding && f.chunkedFinal:
		return httpmsg.Framing{Kind: httpmsg.FramingChunked}, nil
	case f.metTransferEncoding:
		// a coded request body with no chunked at the end has no readable extent
		return httpmsg.Framing{}, httpmsg.ErrAmbiguousFraming
	case f.metContentLength:
		return httpmsg.Framing{Kind: httpmsg.FramingFixed, Length: f.contentLength}, nil
	default:
		return httpmsg.Framing{Kind: httpmsg.FramingNone}, nil
	}
}

// responseFraming additionally respects the status code and the method of the
// request being answered: those may rule out body octets no matter what the
// fields declare. Responses, unlike requests, may also extend until the end of
// the stream.
func responseFraming(response *httpmsg.Response, forMethod method.Method, f *fieldScanner) (httpmsg.Framing, error) {
	if f.metContentLength && f.metTransferEncoding {
		return httpmsg.Framing{}, httpmsg.ErrAmbiguousFraming
	}

	if forMethod == method.HEAD || response.Bodyless() ||
		(forMethod == method.CONNECT && isSuccessful(response)) {
		return httpmsg.Framing{Kind: httpmsg.FramingNone}, nil
	}

	switch {
	case f.metTransferEncoding && f.chunkedFinal:
		return httpmsg.Framing{Kind: httpmsg.FramingChunked}, nil
	case f.metTransferEncoding:
		// undecodable codings leave closing the connection as the only delimiter
		return httpmsg.Framing{Kind: httpmsg.FramingUntilClose}, nil
	case f.metContentLength:
		return httpmsg.Framing{Kind: httpmsg.FramingFixed, Length: f.contentLength}, nil
	default:
		return httpmsg.Framing{Kind: httpmsg.FramingUntilClose}, nil
	}
}

func isSuccessful(response *httpmsg.Response) bool {
	return response.Code >= 200 && response.Code < 300
}
