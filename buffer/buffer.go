package buffer

// Dynamic is a caller-owned scratch region the stream helpers read into. It outlives
// individual messages on purpose: bytes which arrived past a message boundary stay in
// the buffer and become the beginning of the next message on the same connection.
//
// The verbs follow the prepare/commit/consume discipline: a reader prepares a writable
// region, fills some prefix of it, commits the filled length, and later consumes the
// readable bytes as they are interpreted.
type Dynamic interface {
	// Prepare returns a writable region of exactly n bytes placed right past the
	// readable ones. Nil is returned if the buffer cannot fit n more bytes without
	// exceeding its size limit. The region is invalidated by any other call.
	Prepare(n int) []byte
	// Commit marks the first n bytes of the previously prepared region as readable.
	Commit(n int)
	// Bytes returns the readable region. It is invalidated by Prepare and Consume.
	Bytes() []byte
	// Consume drops n leading readable bytes.
	Consume(n int)
	// Len returns the readable length.
	Len() int
}

// Flat is a contiguous Dynamic implementation. It grows geometrically up to its size
// limit and realigns the readable region to the front when the writable tail runs out.
type Flat struct {
	mem      []byte
	begin    int
	end      int
	prepared int
	maxSize  int
}

var _ Dynamic = new(Flat)

func NewFlat(initialSize, maxSize int) *Flat {
	if initialSize > maxSize {
		initialSize = maxSize
	}

	return &Flat{
		mem:     make([]byte, initialSize),
		maxSize: maxSize,
	}
}

func (f *Flat) Prepare(n int) []byte {
	if tail := len(f.mem) - f.end; tail < n {
		if !f.realign(n) {
			return nil
		}
	}

	f.prepared = n
	return f.mem[f.end : f.end+n]
}

func (f *Flat) Commit(n int) {
	if n > f.prepared {
		n = f.prepared
	}

	f.end += n
	f.prepared = 0
}

func (f *Flat) Bytes() []byte {
	return f.mem[f.begin:f.end]
}

func (f *Flat) Consume(n int) {
	if n > f.Len() {
		n = f.Len()
	}

	f.begin += n
	if f.begin == f.end {
		f.begin, f.end = 0, 0
	}
}

func (f *Flat) Len() int {
	return f.end - f.begin
}

// Clear drops both the readable and the prepared regions, keeping the allocated space.
func (f *Flat) Clear() {
	f.begin, f.end, f.prepared = 0, 0, 0
}

func (f *Flat) realign(n int) bool {
	readable := f.Len()
	if readable+n > f.maxSize {
		return false
	}

	if readable+n <= len(f.mem) {
		copy(f.mem, f.mem[f.begin:f.end])
		f.begin, f.end = 0, readable
		return true
	}

	newsize := max(2*len(f.mem), readable+n)
	newsize = min(newsize, f.maxSize)

	newmem := make([]byte, newsize)
	copy(newmem, f.mem[f.begin:f.end])
	f.mem = newmem
	f.begin, f.end = 0, readable

	return true
}
