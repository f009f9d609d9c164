package http1

import (
	"bytes"
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/internal/hexconv"
)

type chunkedParserState uint8

const (
	eChunkLength chunkedParserState = iota + 1
	eChunkExt
	eChunkLengthCR
	eChunkBody
	eChunkBodyDone
	eChunkBodyCRLF
)

// chunkedParser decodes the chunked transfer coding. It stops right past the
// size line of the final chunk: the trailer section which follows is ordinary
// field lines and is left to the field scanner.
type chunkedParser struct {
	state        chunkedParserState
	maxDigits    int
	lengthDigits int
	chunkLength  uint64
}

func newChunkedParser(maxDigits int) chunkedParser {
	return chunkedParser{state: eChunkLength, maxDigits: maxDigits}
}

func (c *chunkedParser) init() {
	c.state = eChunkLength
	c.lengthDigits = 0
	c.chunkLength = 0
}

// Parse returns a piece of chunk content when one is ready, nil otherwise. io.EOF
// signals that the final chunk was consumed, with extra pointing at the trailer
// section.
func (c *chunkedParser) Parse(data []byte) (chunk, extra []byte, err error) {
	switch c.state {
	case eChunkLength:
		goto chunkLength
	case eChunkExt:
		goto chunkExt
	case eChunkLengthCR:
		goto chunkLengthCR
	case eChunkBody:
		goto chunkBody
	case eChunkBodyDone:
		goto chunkBodyDone
	case eChunkBodyCRLF:
		goto chunkBodyCRLF
	default:
		panic("unreachable code")
	}

chunkLength:
	for i := 0; i < len(data); i++ {
		switch char := data[i]; char {
		case '\r':
			if c.lengthDigits == 0 {
				return nil, nil, httpmsg.ErrMalformedChunk
			}

			data = data[i+1:]
			goto chunkLengthCR
		case '\n':
			if c.lengthDigits == 0 {
				return nil, nil, httpmsg.ErrMalformedChunk
			}

			data = data[i:]
			goto chunkLengthCR
		case ';':
			if c.lengthDigits == 0 {
				return nil, nil, httpmsg.ErrMalformedChunk
			}

			data = data[i+1:]
			goto chunkExt
		default:
			val := hexconv.Halfbyte[char]
			if val == 0xFF {
				return nil, nil, httpmsg.ErrMalformedChunk
			}

			c.chunkLength = (c.chunkLength << 4) | uint64(val)
			if c.lengthDigits++; c.lengthDigits > c.maxDigits {
				return nil, nil, httpmsg.ErrMalformedChunk
			}
		}
	}

	c.state = eChunkLength
	return nil, nil, nil

chunkExt:
	{
		// chunk extensions are not supported, therefore completely ignored
		boundary := bytes.IndexByte(data, '\n')
		if boundary == -1 {
			c.state = eChunkExt
			return nil, nil, nil
		}

		data = data[boundary+1:]
		if c.chunkLength == 0 {
			goto finalChunk
		}

		goto chunkBody
	}

chunkLengthCR:
	if len(data) == 0 {
		c.state = eChunkLengthCR
		return nil, nil, nil
	}

	if data[0] != '\n' {
		return nil, nil, httpmsg.ErrMalformedChunk
	}

	data = data[1:]

	if c.chunkLength == 0 {
		goto finalChunk
	}

	goto chunkBody

chunkBody:
	{
		n := min(c.chunkLength, uint64(len(data)))
		c.chunkLength -= n
		chunk = data[:n]

		if c.chunkLength == 0 {
			c.state = eChunkBodyDone
		} else {
			c.state = eChunkBody
		}

		return chunk, data[n:], nil
	}

chunkBodyDone:
	// omit the len(data) == 0 check, as this label is only reachable from the
	// dispatch, which in turn runs on new data, implied to never be empty
	c.lengthDigits = 0
	switch data[0] {
	case '\r':
		data = data[1:]
		goto chunkBodyCRLF
	case '\n':
		data = data[1:]
		goto chunkLength
	default:
		return nil, nil, httpmsg.ErrMalformedChunk
	}

chunkBodyCRLF:
	if len(data) == 0 {
		c.state = eChunkBodyCRLF
		return nil, nil, nil
	}

	if data[0] != '\n' {
		return nil, nil, httpmsg.ErrMalformedChunk
	}

	data = data[1:]
	goto chunkLength

finalChunk:
	c.state = eChunkLength
	c.lengthDigits = 0
	return nil, data, io.EOF
}
