package kv

import (
	"iter"

	"github.com/indigo-web/httpmsg/internal/strutil"
)

// Storage is an associative structure for storing (string, string) pairs. It acts as a map but
// uses linear search instead, which proves to be more efficient on relatively low amount of
// entries, which often enough is the case.
type Storage struct {
	pairs      []Pair
	uniqueBuff []string
}

var _ Sequence = new(Storage)

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain unordered
// pairs.
func NewFromMap(m map[string][]string) *Storage {
	// this actually doesn't always allocate exactly enough sized slice, as we don't
	// count amount of _values_, only _keys_, where each key may contain more (or less)
	// than 1 value. But this doesn't actually matter, as this job is made just once
	// per message, so considered not to be a hot path
	kv := NewPrealloc(len(m))

	for key, values := range m {
		for _, value := range values {
			kv.Add(key, value)
		}
	}

	return kv
}

// Add appends a new pair of key and value.
func (s *Storage) Add(key, value string) {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
}

// Set replaces the first pair of the key, dropping the rest of the pairs of it. If the key
// wasn't presented before, the pair is appended.
func (s *Storage) Set(key, value string) {
	s.pairs = set(s.pairs, key, value)
}

// Delete drops all the pairs of the key, keeping the relative order of the others.
func (s *Storage) Delete(key string) {
	s.pairs = del(s.pairs, key)
}

// Value returns the first value, corresponding to the key. Otherwise, empty string is returned.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or custom value, defined
// via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strutil.CmpFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values iterates over all the values of the key in insertion order.
func (s *Storage) Values(key string) iter.Seq[string] {
	return values(s.pairs, key)
}

// Keys iterates over unique presented keys. The keys are snapshotted before the iteration
// begins, so deleting entries on the fly is safe.
func (s *Storage) Keys() iter.Seq[string] {
	s.uniqueBuff = appendUnique(s.uniqueBuff[:0], s.pairs)

	return func(yield func(string) bool) {
		for _, key := range s.uniqueBuff {
			if !yield(key) {
				break
			}
		}
	}
}

// Pairs iterates over the pairs in insertion order.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return pairs(s.pairs)
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

func (s *Storage) Empty() bool {
	return s.Len() == 0
}

// Clone creates a deep copy, which may be used later or stored somewhere safely. However,
// it comes at cost of multiple allocations.
func (s *Storage) Clone() *Storage {
	return &Storage{
		pairs:      clone(s.pairs),
		uniqueBuff: clone(s.uniqueBuff),
	}
}

// Expose exposes the underlying pairs slice.
func (s *Storage) Expose() []Pair {
	return s.pairs
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() {
	s.pairs = s.pairs[:0]
}

func set(pairs []Pair, key, value string) []Pair {
	for i := range pairs {
		if strutil.CmpFold(key, pairs[i].Key) {
			pairs[i] = Pair{Key: key, Value: value}
			return append(pairs[:i+1], del(pairs[i+1:], key)...)
		}
	}

	return append(pairs, Pair{Key: key, Value: value})
}

func del(pairs []Pair, key string) []Pair {
	kept := pairs[:0]

	for _, pair := range pairs {
		if !strutil.CmpFold(key, pair.Key) {
			kept = append(kept, pair)
		}
	}

	return kept
}

func values(pairs []Pair, key string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, pair := range pairs {
			if strutil.CmpFold(pair.Key, key) {
				if !yield(pair.Value) {
					break
				}
			}
		}
	}
}

func pairs(pairs []Pair) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

func appendUnique(buff []string, pairs []Pair) []string {
	for _, pair := range pairs {
		if contains(buff, pair.Key) {
			continue
		}

		buff = append(buff, pair.Key)
	}

	return buff
}

func contains(collection []string, key string) bool {
	for _, element := range collection {
		if strutil.CmpFold(element, key) {
			return true
		}
	}

	return false
}

func clone[T any](source []T) []T {
	if len(source) == 0 {
		return nil
	}

	newSlice := make([]T, len(source))
	copy(newSlice, source)

	return newSlice
}
