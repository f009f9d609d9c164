package httpmsg

import "strconv"

// FramingKind tells how the body extent of a message is delimited on the wire.
type FramingKind uint8

const (
	// FramingNone marks messages which carry no body octets at all, regardless of
	// what the header fields declare. Responses to HEAD and codes like 204 fall here.
	FramingNone FramingKind = iota
	// FramingFixed marks a body of an exact, upfront known length.
	FramingFixed
	// FramingChunked marks a body in the chunked transfer coding.
	FramingChunked
	// FramingUntilClose marks a response body extending to the end of the stream.
	FramingUntilClose
)

func (k FramingKind) String() string {
	switch k {
	case FramingNone:
		return "none"
	case FramingFixed:
		return "fixed"
	case FramingChunked:
		return "chunked"
	case FramingUntilClose:
		return "until-close"
	default:
		return "unknown"
	}
}

// Framing is decided once per message: by the parser from the header fields, or by
// Prepare from the body. It is treated as immutable afterwards.
type Framing struct {
	Kind FramingKind
	// Length is meaningful for FramingFixed only.
	Length int64
}

func (f Framing) HasBody() bool {
	return f.Kind != FramingNone && !(f.Kind == FramingFixed && f.Length == 0)
}

func (f Framing) String() string {
	if f.Kind == FramingFixed {
		return "fixed(" + strconv.FormatInt(f.Length, 10) + ")"
	}

	return f.Kind.String()
}
