package body

import "github.com/indigo-web/httpmsg"

var _ httpmsg.BodyReader = new(Limit)

// Limit caps the content size of the wrapped sink. Bodies declaring a bigger size
// upfront are refused before a single byte reaches the sink; bodies of unknown
// size are refused as soon as they cross the cap.
type Limit struct {
	sink     httpmsg.BodyReader
	max      int64
	received int64
}

func NewLimit(sink httpmsg.BodyReader, max int64) *Limit {
	return &Limit{sink: sink, max: max}
}

func (l *Limit) Open(framing httpmsg.Framing) error {
	if framing.Kind == httpmsg.FramingFixed && framing.Length > l.max {
		return httpmsg.ErrBodyTooLarge
	}

	l.received = 0
	return l.sink.Open(framing)
}

func (l *Limit) Accept(span []byte) (int, error) {
	if l.received+int64(len(span)) > l.max {
		return 0, httpmsg.ErrBodyTooLarge
	}

	n, err := l.sink.Accept(span)
	l.received += int64(n)
	return n, err
}

func (l *Limit) Close() error {
	return l.sink.Close()
}
