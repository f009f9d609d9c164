package config

type (
	StartLineSize struct {
		Default, Maximal int
	}

	HeadersNumber struct {
		Default, Maximal int
	}

	HeadersSpace struct {
		Default, Maximal int
	}

	NETReadBufferSize struct {
		Default, Maximal int
	}

	NETWriteBufferSize struct {
		Default, Maximal int
	}
)

type (
	StartLine struct {
		// Size limits the accumulation buffer shared by all the start line tokens, covering
		// thereby request lines and status lines alike. Please note that setting the maximal
		// boundary too low might result in very ambiguous errors.
		Size StartLineSize
	}

	Headers struct {
		// Number is responsible for the amount of header fields.
		// Default value is used for pre-allocations.
		// Maximal value is the maximum number of fields allowed to be presented.
		Number HeadersNumber
		// Space limits the amount of memory occupied by the header section. Trailer
		// fields of chunked bodies share the same limit.
		Space HeadersSpace
	}

	Body struct {
		// MaxSize describes the maximal size of a body that can be processed. Messages
		// declaring (or streaming) more are rejected.
		MaxSize int64
		// MaxChunkSizeDigits limits the length of a single chunk-size value. 16 hex digits
		// saturate the whole 64-bit length range.
		MaxChunkSizeDigits int
	}

	NET struct {
		// ReadBufferSize is the sizing of the scratch buffer the stream helpers read into.
		ReadBufferSize NETReadBufferSize
		// WriteBufferSize is the sizing of the buffer accumulating serialized spans before
		// they are handed out.
		WriteBufferSize NETWriteBufferSize
	}
)

// Config holds settings used across the library, mainly restrictions, limitations
// and pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	StartLine StartLine
	Headers   Headers
	Body      Body
	NET       NET
}

// Default returns default config. Those are initially well-balanced, however maximal defaults
// are pretty permitting.
func Default() *Config {
	return &Config{
		StartLine: StartLine{
			Size: StartLineSize{
				Default: 2 * 1024,
				// allow at most 16kb of start line, which is effectively pretty much tolerant,
				// considering most web-entities limit it to 4-8kb.
				Maximal: 16 * 1024,
			},
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 64,
			},
			Space: HeadersSpace{
				Default: 1 * 1024,  // 1kb for headers must be fairly enough in most cases.
				Maximal: 16 * 1024, // However, there also might be extremely long cookies.
			},
		},
		Body: Body{
			MaxSize:            512 * 1024 * 1024, // 512 megabytes
			MaxChunkSizeDigits: 16,
		},
		NET: NET{
			ReadBufferSize: NETReadBufferSize{
				Default: 4 * 1024,
				Maximal: 64 * 1024,
			},
			WriteBufferSize: NETWriteBufferSize{
				Default: 2 * 1024,
				Maximal: 64 * 1024,
			},
		},
	}
}
