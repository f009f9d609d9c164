package body

import "github.com/indigo-web/httpmsg"

var _ httpmsg.BodyReader = new(Discard)

// Discard throws the incoming content away, tracking only how much of it there
// was. Useful to drain a message whose body is of no interest without breaking
// the message exchange.
type Discard struct {
	n int64
}

func NewDiscard() *Discard {
	return new(Discard)
}

func (d *Discard) Open(httpmsg.Framing) error {
	d.n = 0
	return nil
}

func (d *Discard) Accept(span []byte) (int, error) {
	d.n += int64(len(span))
	return len(span), nil
}

func (d *Discard) Close() error {
	return nil
}

// Discarded returns the number of content bytes thrown away so far.
func (d *Discard) Discarded() int64 {
	return d.n
}
