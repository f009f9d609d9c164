package kv

import "iter"

type Pair struct {
	Key, Value string
}

// Sequence is an ordered (string, string) pair collection with case-insensitive
// key lookup. Duplicate keys are legal and their relative order is preserved, as
// header field semantics demand. Parsers fill a Sequence through Add, serializers
// drain it through Pairs.
type Sequence interface {
	// Add appends a pair, keeping all the already existing pairs of the same key.
	Add(key, value string)
	// Set replaces the first pair of the key in-place and drops the remaining ones.
	// Absent keys are appended.
	Set(key, value string)
	// Delete drops all the pairs of the key.
	Delete(key string)
	// Value returns the first value of the key, or an empty string.
	Value(key string) string
	// Values iterates over all the values of the key in insertion order.
	Values(key string) iter.Seq[string]
	// Keys iterates over unique keys. The first spelling of a key wins.
	Keys() iter.Seq[string]
	// Pairs iterates over all the pairs in insertion order.
	Pairs() iter.Seq2[string, string]
	// Has indicates, whether there's an entry of the key.
	Has(key string) bool
	// Len returns a number of stored pairs.
	Len() int
	// Clear all the entries. Capacity stays intact.
	Clear()
}
