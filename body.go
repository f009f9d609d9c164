package httpmsg

// SizeUnknown is returned by BodyWriter.Size when the byte count cannot be known
// upfront. Such bodies are framed chunked whenever the protocol version allows it.
const SizeUnknown int64 = -1

// BodyWriter is the capability a body value must have in order to be serialized.
// Anything may be attached as a message body; whether it suits an operation is
// decided by these interfaces at the operation start, not midways.
type BodyWriter interface {
	// Size returns the total content length, or SizeUnknown.
	Size() int64
	// Retrieve returns the next span of the content. io.EOF signals the end, either
	// alongside the final span or on its own afterwards. The span is only valid
	// until the next call.
	Retrieve() ([]byte, error)
}

// BodyReader is the capability a body value must have in order to receive content
// from the parser.
type BodyReader interface {
	// Open announces the body framing before any content arrives.
	Open(framing Framing) error
	// Accept consumes up to len(span) leading bytes and returns how many. When less
	// than len(span) is consumed, the parser re-offers the remainder later. Zero
	// progress without an error violates the contract and faults the parse.
	Accept(span []byte) (n int, err error)
	// Close marks the content as fully delivered.
	Close() error
}
