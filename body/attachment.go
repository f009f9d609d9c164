package body

import (
	"io"
	"os"

	"github.com/indigo-web/httpmsg"
	"github.com/pkg/errors"
)

// Spans are read from the underlying reader in pieces of at most this size.
const attachmentBuffSize = 16 * 1024

var _ httpmsg.BodyWriter = new(Attachment)

// Attachment adapts an arbitrary io.Reader into a writable body. Sizes below zero
// mark the length as unknown, leaving the framing decision to the protocol
// version.
type Attachment struct {
	content io.Reader
	size    int64
	// buff isn't allocated until the first span is actually pulled
	buff []byte
}

func NewAttachment(content io.Reader, size int64) *Attachment {
	if size < 0 {
		size = httpmsg.SizeUnknown
	}

	return &Attachment{content: content, size: size}
}

// NewFile opens the file at path and returns it as a writable body of a known
// size. The caller closes it once the message is sent.
func NewFile(path string) (*Attachment, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open body file")
	}

	stat, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		return nil, errors.Wrap(err, "stat body file")
	}
	if stat.IsDir() {
		_ = fd.Close()
		return nil, errors.Errorf("%s: is a directory", path)
	}

	return NewAttachment(fd, stat.Size()), nil
}

func (a *Attachment) Size() int64 {
	return a.size
}

func (a *Attachment) Retrieve() ([]byte, error) {
	if a.buff == nil {
		a.buff = make([]byte, attachmentBuffSize)
	}

	n, err := a.content.Read(a.buff)
	switch err {
	case nil:
		return a.buff[:n], nil
	case io.EOF:
		if n > 0 {
			return a.buff[:n], io.EOF
		}

		return nil, io.EOF
	default:
		return nil, errors.Wrap(err, "read attachment")
	}
}

// Close closes the underlying reader if it happens to be an io.Closer.
func (a *Attachment) Close() {
	if closer, ok := a.content.(io.Closer); ok {
		_ = closer.Close()
	}
}
