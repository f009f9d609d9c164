package kv

import (
	"iter"

	"github.com/indigo-web/httpmsg/internal/strutil"
)

// Fixed is a Sequence of a fixed capacity. Pairs added past the capacity are silently
// dropped and counted. After the construction no allocations are made, which makes it
// suitable for environments with strict memory budgets.
type Fixed struct {
	pairs      []Pair
	uniqueBuff []string
	dropped    int
}

var _ Sequence = new(Fixed)

func NewFixed(capacity int) *Fixed {
	return &Fixed{
		pairs:      make([]Pair, 0, capacity),
		uniqueBuff: make([]string, 0, capacity),
	}
}

func (f *Fixed) Add(key, value string) {
	if len(f.pairs) == cap(f.pairs) {
		f.dropped++
		return
	}

	f.pairs = append(f.pairs, Pair{Key: key, Value: value})
}

func (f *Fixed) Set(key, value string) {
	if f.Has(key) {
		// the replace path never grows the slice
		f.pairs = set(f.pairs, key, value)
		return
	}

	f.Add(key, value)
}

func (f *Fixed) Delete(key string) {
	f.pairs = del(f.pairs, key)
}

func (f *Fixed) Value(key string) string {
	for _, pair := range f.pairs {
		if strutil.CmpFold(key, pair.Key) {
			return pair.Value
		}
	}

	return ""
}

func (f *Fixed) Values(key string) iter.Seq[string] {
	return values(f.pairs, key)
}

func (f *Fixed) Keys() iter.Seq[string] {
	f.uniqueBuff = appendUnique(f.uniqueBuff[:0], f.pairs)

	return func(yield func(string) bool) {
		for _, key := range f.uniqueBuff {
			if !yield(key) {
				break
			}
		}
	}
}

func (f *Fixed) Pairs() iter.Seq2[string, string] {
	return pairs(f.pairs)
}

func (f *Fixed) Has(key string) bool {
	for _, pair := range f.pairs {
		if strutil.CmpFold(key, pair.Key) {
			return true
		}
	}

	return false
}

func (f *Fixed) Len() int {
	return len(f.pairs)
}

// Dropped returns a number of pairs which were discarded because the capacity was
// already reached by the moment they were added.
func (f *Fixed) Dropped() int {
	return f.dropped
}

func (f *Fixed) Clear() {
	f.pairs = f.pairs[:0]
	f.dropped = 0
}
