package body

import (
	"bytes"

	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// JSON encodes a value and returns it as a ready to attach body.
func JSON(value any) (*Buffer, error) {
	var out bytes.Buffer
	stream := json.ConfigDefault.BorrowStream(&out)
	stream.WriteVal(value)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)
	if err != nil {
		return nil, errors.Wrap(err, "encode json body")
	}

	return NewBuffer(out.Bytes()), nil
}

// JSON decodes the collected content into model, which must be a pointer.
func (b *Buffer) JSON(model any) error {
	iterator := json.ConfigDefault.BorrowIterator(b.data)
	iterator.ReadVal(model)
	err := iterator.Error
	json.ConfigDefault.ReturnIterator(iterator)

	return err
}
