package http1

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/internal/buffer"
	"github.com/indigo-web/httpmsg/internal/strutil"
	"github.com/indigo-web/httpmsg/kv"
	"github.com/indigo-web/utils/uf"
)

// maxContentLengthDigits keeps the accumulated value well within int64.
const maxContentLengthDigits = 18

// fieldScanner parses a section of field lines up to and including the empty
// line terminating it. Both parsers delegate their header sections to it, and
// the trailer section of a chunked body is fed through it as well, simply
// switched into the trailer mode, in which Content-Length and Transfer-Encoding
// are rejected instead of interpreted.
type fieldScanner struct {
	state   parserState
	limits  config.Headers
	buff    buffer.Buffer
	fields  kv.Sequence
	key     string
	number  int
	trailer bool

	metContentLength    bool
	prevContentLength   int64
	contentLength       int64
	clDigits            int
	metTransferEncoding bool
	chunkedFinal        bool
}

func newFieldScanner(limits config.Headers) fieldScanner {
	return fieldScanner{
		state:  eHeaderKey,
		limits: limits,
		buff:   buffer.New(limits.Space.Default, limits.Space.Maximal),
	}
}

func (f *fieldScanner) init(fields kv.Sequence) {
	f.state = eHeaderKey
	f.buff.Clear()
	f.fields = fields
	f.key = ""
	f.number = 0
	f.trailer = false
	f.metContentLength = false
	f.prevContentLength = 0
	f.contentLength = 0
	f.clDigits = 0
	f.metTransferEncoding = false
	f.chunkedFinal = false
}

// beginTrailers prepares the scanner for the trailer section of the same
// message. The headers limits keep counting, so trailers share them.
func (f *fieldScanner) beginTrailers() {
	f.state = eHeaderKey
	f.trailer = true
}

func (f *fieldScanner) Parse(data []byte) (done bool, extra []byte, err error) {
	buff := &f.buff

	switch f.state {
	case eHeaderKey:
		goto headerKey
	case eContentLength:
		goto contentLength
	case eContentLengthEnd:
		goto contentLengthEnd
	case eContentLengthCR:
		goto contentLengthCR
	case eHeaderValue:
		goto headerValue
	case eHeaderValueCRLFCR:
		goto headerValueCRLFCR
	default:
		panic("unreachable code")
	}

headerKey:
	{
		if len(data) == 0 {
			f.state = eHeaderKey
			return false, nil, nil
		}

		if buff.SegmentLength() == 0 {
			switch data[0] {
			case '\n':
				return true, data[1:], nil
			case '\r':
				data = data[1:]
				goto headerValueCRLFCR
			case ' ', '\t':
				// deprecated line folding
				return false, nil, httpmsg.ErrMalformedHeader
			}
		} else if data[0] == '\r' || data[0] == '\n' {
			// the buffered piece turned out to be a field line without a colon
			return false, nil, httpmsg.ErrMalformedHeader
		}

		colon := bytes.IndexByte(data, ':')
		if lf := bytes.IndexByte(data, '\n'); lf != -1 && (colon == -1 || lf < colon) {
			return false, nil, httpmsg.ErrMalformedHeader
		}

		if colon == -1 {
			if !buff.Append(data) {
				return false, nil, httpmsg.ErrHeadersTooLarge
			}

			f.state = eHeaderKey
			return false, nil, nil
		}

		if !buff.Append(data[:colon]) {
			return false, nil, httpmsg.ErrHeadersTooLarge
		}

		key := uf.B2S(buff.Finish())
		if len(key) == 0 {
			return false, nil, httpmsg.ErrMalformedHeader
		}

		f.key = key
		data = data[colon+1:]

		if f.number++; f.number > f.limits.Number.Maximal {
			return false, nil, httpmsg.ErrTooManyHeaders
		}

		if len(key) == 14 && strutil.CmpFold(key, "content-length") {
			if f.trailer {
				return false, nil, httpmsg.ErrMalformedHeader
			}

			if f.metContentLength {
				f.prevContentLength = f.contentLength
			}

			f.contentLength = 0
			f.clDigits = 0
			goto contentLength
		}

		if f.trailer && len(key) == 17 && strutil.CmpFold(key, "transfer-encoding") {
			return false, nil, httpmsg.ErrMalformedHeader
		}

		// fallthrough to headerValue
	}

headerValue:
	{
		lf := bytes.IndexByte(data, '\n')
		if lf == -1 {
			if !buff.Append(data) {
				return false, nil, httpmsg.ErrHeadersTooLarge
			}

			f.state = eHeaderValue
			return false, nil, nil
		}

		if !buff.Append(data[:lf]) {
			return false, nil, httpmsg.ErrHeadersTooLarge
		}

		if seglen := buff.SegmentLength(); seglen > 0 && buff.Preview()[seglen-1] == '\r' {
			buff.Trunc(1)
		}

		data = data[lf+1:]
		key, value := f.key, strutil.StripWS(uf.B2S(buff.Finish()))
		f.fields.Add(key, value)

		if !f.trailer && len(key) == 17 && strutil.CmpFold(key, "transfer-encoding") {
			if f.metTransferEncoding {
				return false, nil, httpmsg.ErrAmbiguousFraming
			}

			f.metTransferEncoding = true
			f.chunkedFinal = strutil.CmpFold(lastCoding(value), "chunked")
		}

		goto headerKey
	}

headerValueCRLFCR:
	if len(data) == 0 {
		f.state = eHeaderValueCRLFCR
		return false, nil, nil
	}

	if data[0] != '\n' {
		return false, nil, httpmsg.ErrMalformedHeader
	}

	return true, data[1:], nil

contentLength:
	for i := 0; i < len(data); i++ {
		char := data[i]
		if char >= '0' && char <= '9' {
			if f.clDigits++; f.clDigits > maxContentLengthDigits {
				return false, nil, httpmsg.ErrMalformedHeader
			}

			f.contentLength = f.contentLength*10 + int64(char-'0')
			continue
		}

		if (char == ' ' || char == '\t') && f.clDigits == 0 {
			// optional whitespace before the number
			continue
		}

		data = data[i:]
		goto contentLengthEnd
	}

	f.state = eContentLength
	return false, nil, nil

contentLengthEnd:
	if f.clDigits == 0 {
		return false, nil, httpmsg.ErrMalformedHeader
	}

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case ' ', '\t':
		case '\r':
			if err = f.finishContentLength(); err != nil {
				return false, nil, err
			}

			data = data[i+1:]
			goto contentLengthCR
		case '\n':
			if err = f.finishContentLength(); err != nil {
				return false, nil, err
			}

			data = data[i+1:]
			goto headerKey
		default:
			return false, nil, httpmsg.ErrMalformedHeader
		}
	}

	f.state = eContentLengthEnd
	return false, nil, nil

contentLengthCR:
	if len(data) == 0 {
		f.state = eContentLengthCR
		return false, nil, nil
	}

	if data[0] != '\n' {
		return false, nil, httpmsg.ErrMalformedHeader
	}

	data = data[1:]
	goto headerKey
}

// finishContentLength stores the parsed value as an ordinary field on top of
// interpreting it, so that the message model stays complete. The stored value
// is canonical: whitespace and leading zeroes are gone.
func (f *fieldScanner) finishContentLength() error {
	if f.metContentLength && f.contentLength != f.prevContentLength {
		return httpmsg.ErrAmbiguousFraming
	}

	f.metContentLength = true
	f.fields.Add(f.key, strconv.FormatInt(f.contentLength, 10))

	return nil
}

// lastCoding returns the last entry of a comma-separated codings list.
func lastCoding(value string) string {
	comma := strings.LastIndexByte(value, ',')
	return strutil.StripWS(value[comma+1:])
}
