// Package body provides ready-made message body implementations: in-memory
// buffers, json models, files and plain io.Reader adapters. Any of them attaches
// to a message via WithBody; codecs later pick the capability they need through
// the httpmsg.BodyWriter and httpmsg.BodyReader interfaces.
package body

import (
	"io"

	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/utils/uf"
)

var (
	_ httpmsg.BodyWriter = new(Buffer)
	_ httpmsg.BodyReader = new(Buffer)
)

// Buffer is an in-memory body. It serves both directions: attached to an outgoing
// message it sends its bytes, attached to a parse target it collects the incoming
// content.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func NewBufferString(str string) *Buffer {
	return &Buffer{data: []byte(str)}
}

func (b *Buffer) Size() int64 {
	return int64(len(b.data))
}

// Retrieve returns the whole content as a single span. The buffer stays intact,
// so the same body may be serialized repeatedly.
func (b *Buffer) Retrieve() ([]byte, error) {
	return b.data, io.EOF
}

func (b *Buffer) Open(httpmsg.Framing) error {
	b.data = b.data[:0]
	return nil
}

func (b *Buffer) Accept(span []byte) (int, error) {
	b.data = append(b.data, span...)
	return len(span), nil
}

func (b *Buffer) Close() error {
	return nil
}

// Bytes returns the collected content. The slice is shared with the buffer, not
// copied.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) String() string {
	return uf.B2S(b.data)
}
