package http1

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/httpmsg"
	"github.com/indigo-web/httpmsg/body"
	"github.com/indigo-web/httpmsg/config"
	"github.com/indigo-web/httpmsg/kv"
	"github.com/indigo-web/httpmsg/method"
	"github.com/indigo-web/httpmsg/proto"
	"github.com/stretchr/testify/require"
)

func getRequestParser(cfg *config.Config) (*RequestParser, *httpmsg.Request) {
	request := httpmsg.NewRequest()
	return NewRequestParser(cfg, request), request
}

type wantedRequest struct {
	method method.Method
	target string
	proto  proto.Proto
	fields map[string][]string
}

func compareRequest(t *testing.T, wanted wantedRequest, actual *httpmsg.Request) {
	require.Equal(t, wanted.method, actual.Method)
	require.Equal(t, wanted.target, actual.Target)
	require.Equal(t, wanted.proto, actual.Proto)

	for key, values := range wanted.fields {
		require.Equal(t, values, slices.Collect(actual.Fields.Values(key)), key)
	}
}

func splitIntoParts(raw []byte, n int) (parts [][]byte) {
	for i := 0; i < len(raw); i += n {
		end := i + n
		if end > len(raw) {
			end = len(raw)
		}

		parts = append(parts, raw[i:end])
	}

	return parts
}

type parseFunc func([]byte) (bool, []byte, error)

func feedPartially(parse parseFunc, raw []byte, n int) (done bool, extra []byte, err error) {
	parts := splitIntoParts(raw, n)

	for i, chunk := range parts {
		done, extra, err = parse(chunk)
		if err != nil {
			return done, extra, err
		}
		if done {
			if i+1 < len(parts) {
				return true, extra, errors.New("not all chunks were fed")
			}

			break
		}
	}

	return done, extra, err
}

// recordingSink notes down everything the parser tells a body about.
type recordingSink struct {
	framings []httpmsg.Framing
	content  []byte
	perCall  int
	acceptEr error
	closed   int
}

func (r *recordingSink) Open(framing httpmsg.Framing) error {
	r.framings = append(r.framings, framing)
	r.content = r.content[:0]
	return nil
}

func (r *recordingSink) Accept(span []byte) (int, error) {
	if r.acceptEr != nil {
		return 0, r.acceptEr
	}

	n := len(span)
	if r.perCall > 0 && n > r.perCall {
		n = r.perCall
	}

	r.content = append(r.content, span[:n]...)
	return n, nil
}

func (r *recordingSink) Close() error {
	r.closed++
	return nil
}

// stuckSink claims zero progress forever, violating the Accept contract.
type stuckSink struct {
	recordingSink
}

func (s *stuckSink) Accept([]byte) (int, error) {
	return 0, nil
}

func TestParseRequest(t *testing.T) {
	cfg := config.Default()

	t.Run("simple GET", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)

		compareRequest(t, wantedRequest{
			method: method.GET,
			target: "/",
			proto:  proto.HTTP11,
		}, request)
		require.Equal(t, httpmsg.FramingNone, request.Framing.Kind)
	})

	t.Run("GET with headers", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nHello: World!\r\nEaster: Egg\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)

		compareRequest(t, wantedRequest{
			method: method.GET,
			target: "/",
			proto:  proto.HTTP11,
			fields: map[string][]string{
				"hello":  {"World!"},
				"easter": {"Egg"},
			},
		}, request)
	})

	t.Run("multiple header values", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nAccept: one,two\r\nAccept: three\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)

		compareRequest(t, wantedRequest{
			method: method.GET,
			target: "/",
			proto:  proto.HTTP11,
			fields: map[string][]string{
				"accept": {"one,two", "three"},
			},
		}, request)
	})

	t.Run("only lf", func(t *testing.T) {
		raw := "GET / HTTP/1.1\nHello: World!\n\n"
		parser, request := getRequestParser(cfg)
		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, "World!", request.Fields.Value("hello"))
	})

	t.Run("fuzz GET", func(t *testing.T) {
		raw := "GET /path/to/resource HTTP/1.1\r\nHello: World!\r\nEaster: Egg\r\n\r\n"
		parser, request := getRequestParser(cfg)

		for i := 1; i < len(raw); i++ {
			done, extra, err := feedPartially(parser.Parse, []byte(raw), i)
			require.NoError(t, err, i)
			require.True(t, done, i)
			require.Empty(t, extra)

			compareRequest(t, wantedRequest{
				method: method.GET,
				target: "/path/to/resource",
				proto:  proto.HTTP11,
				fields: map[string][]string{
					"hello":  {"World!"},
					"easter": {"Egg"},
				},
			}, request)
			request.Reset()
		}
	})

	t.Run("absolute form target", func(t *testing.T) {
		raw := "GET http://www.w3.org/pub/WWW/TheProject.html HTTP/1.1\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "http://www.w3.org/pub/WWW/TheProject.html", request.Target)
	})

	t.Run("extension method", func(t *testing.T) {
		raw := "PROPFIND /docs HTTP/1.1\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, method.Extension, request.Method)
		require.Equal(t, "PROPFIND", request.RawMethod)
	})

	t.Run("http10", func(t *testing.T) {
		raw := "GET / HTTP/1.0\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, proto.HTTP10, request.Proto)
	})

	t.Run("empty header value", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nX-Empty:\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.True(t, request.Fields.Has("x-empty"))
		require.Equal(t, "", request.Fields.Value("x-empty"))
	})

	t.Run("value whitespace stripped", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nPadded:  \tlots of air \t \r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "lots of air", request.Fields.Value("padded"))
	})

	t.Run("pipelined", func(t *testing.T) {
		raw := "GET /first HTTP/1.1\r\n\r\nGET /second HTTP/1.1\r\nHost: example.com\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "/first", request.Target)

		request.Reset()
		done, extra, err = parser.Parse(extra)
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, "/second", request.Target)
		require.Equal(t, "example.com", request.Fields.Value("host"))
	})

	t.Run("content-length body", func(t *testing.T) {
		raw := "POST /upload HTTP/1.1\r\nContent-Length: 13\r\n\r\nHello, world!"
		parser, request := getRequestParser(cfg)
		sink := body.NewBuffer(nil)
		request.Body = sink

		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, httpmsg.Framing{Kind: httpmsg.FramingFixed, Length: 13}, request.Framing)
		require.Equal(t, "13", request.Fields.Value("content-length"))
		require.Equal(t, "Hello, world!", sink.String())
	})

	t.Run("content-length is canonicalized", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nContent-Length:  007 \r\n\r\nseven b"
		parser, request := getRequestParser(cfg)
		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "7", request.Fields.Value("content-length"))
		require.Equal(t, int64(7), request.Framing.Length)
	})

	t.Run("duplicate identical content-lengths", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nContent-Length: 2\r\nContent-Length: 2\r\n\r\nhi"
		parser, request := getRequestParser(cfg)
		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, int64(2), request.Framing.Length)
	})

	t.Run("body discarded without a sink", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nContent-Length: 5\r\n\r\nhelloGET /next HTTP/1.1\r\n\r\n"
		parser, request := getRequestParser(cfg)
		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "GET /next HTTP/1.1\r\n\r\n", string(extra))
		require.Nil(t, request.Body)
	})

	t.Run("chunked body", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
			"d\r\nHello, world!\r\n0\r\n\r\n"
		parser, request := getRequestParser(cfg)
		sink := body.NewBuffer(nil)
		request.Body = sink

		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, httpmsg.FramingChunked, request.Framing.Kind)
		require.Equal(t, "Hello, world!", sink.String())
	})

	t.Run("chunked with trailers", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
			"5\r\nhello\r\n0\r\nChecksum: deadbeef\r\n\r\n"
		parser, request := getRequestParser(cfg)
		sink := body.NewBuffer(nil)
		request.Body = sink

		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, "hello", sink.String())
		// trailer fields end up among the ordinary ones
		require.Equal(t, "deadbeef", request.Fields.Value("checksum"))
	})

	t.Run("fuzz chunked", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
			"d\r\nHello, world!\r\n1a\r\nbut what's inside here?!\r\n\r\n0\r\nTag: v1\r\n\r\n"
		parser, request := getRequestParser(cfg)
		sink := body.NewBuffer(nil)

		for i := 1; i < len(raw); i++ {
			request.Reset()
			request.Body = sink

			done, extra, err := feedPartially(parser.Parse, []byte(raw), i)
			require.NoError(t, err, i)
			require.True(t, done, i)
			require.Empty(t, extra)
			require.Equal(t, "Hello, world!but what's inside here?!\r\n", sink.String(), i)
			require.Equal(t, "v1", request.Fields.Value("tag"), i)
		}
	})

	t.Run("sink learns the framing", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi"
		parser, request := getRequestParser(cfg)
		sink := new(recordingSink)
		request.Body = sink

		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, []httpmsg.Framing{{Kind: httpmsg.FramingFixed, Length: 2}}, sink.framings)
		require.Equal(t, 1, sink.closed)
	})

	t.Run("sink opened even without content", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\n\r\n"
		parser, request := getRequestParser(cfg)
		sink := new(recordingSink)
		request.Body = sink

		done, _, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, []httpmsg.Framing{{Kind: httpmsg.FramingNone}}, sink.framings)
		require.Equal(t, 1, sink.closed)
		require.Empty(t, sink.content)
	})

	t.Run("partial consumption is re-offered", func(t *testing.T) {
		raw := "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n0123456789"
		parser, request := getRequestParser(cfg)
		sink := &recordingSink{perCall: 3}
		request.Body = sink

		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, "0123456789", string(sink.content))
	})

	t.Run("fixed field sequence", func(t *testing.T) {
		raw := "GET / HTTP/1.1\r\nHost: example.com\r\nAccept: */*\r\n\r\n"
		parser, request := getRequestParser(cfg)
		fields := kv.NewFixed(4)
		request.Fields = fields

		done, extra, err := parser.Parse([]byte(raw))
		require.NoError(t, err)
		require.True(t, done)
		require.Empty(t, extra)
		require.Equal(t, "example.com", fields.Value("host"))
		require.Equal(t, "*/*", fields.Value("accept"))
		require.Zero(t, fields.Dropped())
	})
}

func TestParseRequestErrors(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		name string
		raw  string
		err  error
	}{
		{"empty method", " / HTTP/1.1\r\n\r\n", httpmsg.ErrMalformedStartLine},
		{"leading CRLF", "\r\nGET / HTTP/1.1\r\n\r\n", httpmsg.ErrMalformedStartLine},
		{"control char in method", "GE\x01T / HTTP/1.1\r\n\r\n", httpmsg.ErrMalformedStartLine},
		{"empty target", "GET  HTTP/1.1\r\n\r\n", httpmsg.ErrMalformedStartLine},
		{"unsupported version", "GET / HTTP/1.2\r\n\r\n", httpmsg.ErrUnsupportedVersion},
		{"not http at all", "GET / SMTP/1.1\r\n\r\n", httpmsg.ErrUnsupportedVersion},
		{"obsolete line folding", "GET / HTTP/1.1\r\nA: b\r\n c\r\n\r\n", httpmsg.ErrMalformedHeader},
		{"field line without colon", "GET / HTTP/1.1\r\nAbc\r\n\r\n", httpmsg.ErrMalformedHeader},
		{"empty field name", "GET / HTTP/1.1\r\n: v\r\n\r\n", httpmsg.ErrMalformedHeader},
		{"junk in content-length", "GET / HTTP/1.1\r\nContent-Length: 13b\r\n\r\n", httpmsg.ErrMalformedHeader},
		{"space inside content-length", "GET / HTTP/1.1\r\nContent-Length: 1 3\r\n\r\n", httpmsg.ErrMalformedHeader},
		{"empty content-length", "GET / HTTP/1.1\r\nContent-Length: \r\n\r\n", httpmsg.ErrMalformedHeader},
		{"content-length in trailers", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\nContent-Length: 5\r\n\r\n", httpmsg.ErrMalformedHeader},
		{"conflicting framings", "POST / HTTP/1.1\r\nContent-Length: 5\r\nTransfer-Encoding: chunked\r\n\r\n", httpmsg.ErrAmbiguousFraming},
		{"differing content-lengths", "POST / HTTP/1.1\r\nContent-Length: 5\r\nContent-Length: 6\r\n\r\n", httpmsg.ErrAmbiguousFraming},
		{"foreign final coding", "POST / HTTP/1.1\r\nTransfer-Encoding: gzip\r\n\r\n", httpmsg.ErrAmbiguousFraming},
		{"duplicate transfer-encoding", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\nTransfer-Encoding: chunked\r\n\r\n", httpmsg.ErrAmbiguousFraming},
		{"empty chunk size", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n\r\n", httpmsg.ErrMalformedChunk},
		{"junk chunk size", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\nxyz\r\n", httpmsg.ErrMalformedChunk},
		{"chunk without terminator", "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n2\r\nhiXX", httpmsg.ErrMalformedChunk},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parser, _ := getRequestParser(cfg)
			_, _, err := parser.Parse([]byte(tc.raw))
			require.ErrorIs(t, err, tc.err)
		})
	}

	t.Run("fed chunk by chunk", func(t *testing.T) {
		// errors must not depend on how the input is sliced
		for _, tc := range cases {
			for i := 1; i < len(tc.raw); i++ {
				parser, _ := getRequestParser(cfg)
				_, _, err := feedPartially(parser.Parse, []byte(tc.raw), i)
				require.ErrorIs(t, err, tc.err, "%s at piece size %d", tc.name, i)
			}
		}
	})
}

func TestParseRequestLimits(t *testing.T) {
	t.Run("start line overflow", func(t *testing.T) {
		cfg := config.Default()
		raw := "GET /" + uniuri.NewLen(cfg.StartLine.Size.Maximal) + " HTTP/1.1\r\n\r\n"
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, httpmsg.ErrTooLongStartLine)
	})

	t.Run("headers space overflow", func(t *testing.T) {
		cfg := config.Default()
		raw := "GET / HTTP/1.1\r\nX-Gigantic: " + uniuri.NewLen(cfg.Headers.Space.Maximal) + "\r\n\r\n"
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, httpmsg.ErrHeadersTooLarge)
	})

	t.Run("too many headers", func(t *testing.T) {
		cfg := config.Default()
		var b strings.Builder
		b.WriteString("GET / HTTP/1.1\r\n")
		for i := 0; i <= cfg.Headers.Number.Maximal; i++ {
			fmt.Fprintf(&b, "X-Filler-%d: yes\r\n", i)
		}
		b.WriteString("\r\n")

		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte(b.String()))
		require.ErrorIs(t, err, httpmsg.ErrTooManyHeaders)
	})

	t.Run("declared body too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 10
		raw := "POST / HTTP/1.1\r\nContent-Length: 11\r\n\r\n"
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, httpmsg.ErrBodyTooLarge)
	})

	t.Run("chunked body crosses the cap", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.MaxSize = 4
		raw := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n0\r\n\r\n"
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, httpmsg.ErrBodyTooLarge)
	})

	t.Run("chunk size digits", func(t *testing.T) {
		cfg := config.Default()
		raw := "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n" +
			strings.Repeat("0", cfg.Body.MaxChunkSizeDigits+1) + "\r\n\r\n"
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte(raw))
		require.ErrorIs(t, err, httpmsg.ErrMalformedChunk)
	})
}

func TestParseRequestSinkFaults(t *testing.T) {
	cfg := config.Default()

	t.Run("sink rejection", func(t *testing.T) {
		boom := errors.New("disk full")
		parser, request := getRequestParser(cfg)
		request.Body = &recordingSink{acceptEr: boom}

		_, _, err := parser.Parse([]byte("POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi"))
		require.ErrorIs(t, err, httpmsg.ErrBodyRejected)
		require.ErrorIs(t, err, boom)
	})

	t.Run("library error passes unwrapped", func(t *testing.T) {
		parser, request := getRequestParser(cfg)
		request.Body = &recordingSink{acceptEr: httpmsg.ErrBodyTooLarge}

		_, _, err := parser.Parse([]byte("POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi"))
		require.ErrorIs(t, err, httpmsg.ErrBodyTooLarge)
	})

	t.Run("zero progress", func(t *testing.T) {
		parser, request := getRequestParser(cfg)
		request.Body = new(stuckSink)

		_, _, err := parser.Parse([]byte("POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi"))
		require.ErrorIs(t, err, httpmsg.ErrBodyNotConsumed)
	})

	t.Run("unreadable body", func(t *testing.T) {
		parser, request := getRequestParser(cfg)
		request.Body = 42

		_, _, err := parser.Parse([]byte("POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi"))
		require.ErrorIs(t, err, httpmsg.ErrUnreadableBody)
	})

	t.Run("non-reader body tolerated without content", func(t *testing.T) {
		parser, request := getRequestParser(cfg)
		request.Body = 42

		done, _, err := parser.Parse([]byte("GET / HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
	})
}

func TestRequestFinish(t *testing.T) {
	cfg := config.Default()

	t.Run("between messages", func(t *testing.T) {
		parser, _ := getRequestParser(cfg)
		require.ErrorIs(t, parser.Finish(), io.EOF)

		done, _, err := parser.Parse([]byte("GET / HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		require.ErrorIs(t, parser.Finish(), io.EOF)
	})

	t.Run("mid start line", func(t *testing.T) {
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte("GET /part"))
		require.NoError(t, err)
		require.ErrorIs(t, parser.Finish(), httpmsg.ErrIncompleteBody)
	})

	t.Run("mid body", func(t *testing.T) {
		parser, _ := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte("POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nhal"))
		require.NoError(t, err)
		require.ErrorIs(t, parser.Finish(), httpmsg.ErrIncompleteBody)
	})

	t.Run("reset revives", func(t *testing.T) {
		parser, request := getRequestParser(cfg)
		_, _, err := parser.Parse([]byte("POST / HTTP/1.1\r\nContent-Le"))
		require.NoError(t, err)

		parser.Reset()
		request.Reset()
		done, _, err := parser.Parse([]byte("GET /fresh HTTP/1.1\r\n\r\n"))
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, "/fresh", request.Target)
	})
}

func BenchmarkParseRequest(b *testing.B) {
	bench := func(raw []byte) func(*testing.B) {
		return func(b *testing.B) {
			parser, request := getRequestParser(config.Default())
			b.SetBytes(int64(len(raw)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _, _ = parser.Parse(raw)
				request.Reset()
			}
		}
	}

	b.Run("with 5 headers", bench(generateRequest(5)))
	b.Run("with 10 headers", bench(generateRequest(10)))
	b.Run("with 50 headers", bench(generateRequest(50)))
}

func generateRequest(headers int) []byte {
	var b strings.Builder
	b.WriteString("GET /wherever/the/wind/blows HTTP/1.1\r\n")
	for i := 0; i < headers; i++ {
		fmt.Fprintf(&b, "X-Header-%d: %s\r\n", i, uniuri.New())
	}
	b.WriteString("\r\n")

	return []byte(b.String())
}
