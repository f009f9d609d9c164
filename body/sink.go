package body

import (
	"os"

	"github.com/indigo-web/httpmsg"
	"github.com/pkg/errors"
)

var _ httpmsg.BodyReader = new(FileSink)

// FileSink streams the incoming content into a file. The file is created once the
// body framing is announced, so attaching a sink to a message which never arrives
// leaves the filesystem untouched.
type FileSink struct {
	path string
	file *os.File
}

func SaveTo(path string) *FileSink {
	return &FileSink{path: path}
}

func (f *FileSink) Open(httpmsg.Framing) error {
	file, err := os.Create(f.path)
	if err != nil {
		return errors.Wrap(err, "create sink file")
	}

	f.file = file
	return nil
}

func (f *FileSink) Accept(span []byte) (int, error) {
	n, err := f.file.Write(span)
	if err != nil {
		return n, errors.Wrap(err, "write sink file")
	}

	return n, nil
}

func (f *FileSink) Close() error {
	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil
	return err
}
