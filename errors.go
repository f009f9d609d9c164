package httpmsg

import "errors"

// Kind classifies everything that can go wrong while parsing or serializing a message.
// Callers are expected to branch on the kind; the sentinels below merely carry
// human-readable detail.
type Kind uint8

const (
	KindOther Kind = iota
	// KindMalformedStartLine covers unparsable request lines and status lines,
	// including unsupported protocol versions.
	KindMalformedStartLine
	// KindMalformedHeader covers broken field lines and violated header limits.
	KindMalformedHeader
	// KindAmbiguousFraming is reported when header fields contradict each other
	// about the body extent.
	KindAmbiguousFraming
	// KindMalformedChunk covers broken chunked transfer coding.
	KindMalformedChunk
	// KindIncompleteBody is reported when a body ends before its declared framing
	// is satisfied, on either direction of the transfer.
	KindIncompleteBody
	// KindBodyRejected is reported when the body receiver refuses the content, or
	// when a body value lacks the capability an operation requires.
	KindBodyRejected
	// KindStreamFailure wraps transport errors.
	KindStreamFailure
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func NewError(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// WrapError attaches a kind and a message to an underlying cause. The cause stays
// reachable through errors.Unwrap.
func WrapError(kind Kind, cause error, message string) error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches by kind, so errors.Is(err, ErrMalformedChunk) holds for any error of the
// malformed chunk kind regardless of the detail message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the kind of err. Foreign errors are reported as KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindOther
}

var (
	ErrMalformedStartLine = NewError(KindMalformedStartLine, "malformed start line")
	ErrTooLongStartLine   = NewError(KindMalformedStartLine, "start line is too long")
	ErrUnsupportedVersion = NewError(KindMalformedStartLine, "unsupported protocol version")

	ErrMalformedHeader = NewError(KindMalformedHeader, "malformed header field")
	ErrHeadersTooLarge = NewError(KindMalformedHeader, "too large header section")
	ErrTooManyHeaders  = NewError(KindMalformedHeader, "too many header fields")

	ErrAmbiguousFraming = NewError(KindAmbiguousFraming, "conflicting message framing")

	ErrMalformedChunk = NewError(KindMalformedChunk, "malformed chunk-encoded data")

	ErrIncompleteBody   = NewError(KindIncompleteBody, "message body ended prematurely")
	ErrBodySizeMismatch = NewError(KindIncompleteBody, "body does not match the declared length")

	ErrBodyRejected    = NewError(KindBodyRejected, "body rejected by the receiver")
	ErrBodyTooLarge    = NewError(KindBodyRejected, "body is too large")
	ErrUnwritableBody  = NewError(KindBodyRejected, "body cannot produce a byte stream")
	ErrUnreadableBody  = NewError(KindBodyRejected, "body cannot receive a byte stream")
	ErrBodyNotConsumed = NewError(KindBodyRejected, "body receiver made no progress")

	ErrStream = NewError(KindStreamFailure, "stream failure")
)
