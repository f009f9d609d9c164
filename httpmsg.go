// Package httpmsg models HTTP/1.x messages and converts them to and from wire
// bytes incrementally.
//
// The model layer (Request, Response, kv.Sequence field sequences and the body
// contracts) is independent from the codec layer: package http1 turns bytes into
// messages and back via resumable parsers and span-pull serializers, and package
// stream binds the codecs to io.Reader/io.Writer pairs or callback-style
// transports. All scratch memory is owned by the caller through buffer.Dynamic,
// so pipelined messages reuse leftover bytes without copying.
package httpmsg
