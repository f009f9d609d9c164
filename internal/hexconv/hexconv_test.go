package hexconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHalfbyte(t *testing.T) {
	require.EqualValues(t, 0x0, Halfbyte['0'])
	require.EqualValues(t, 0x9, Halfbyte['9'])
	require.EqualValues(t, 0xa, Halfbyte['a'])
	require.EqualValues(t, 0xf, Halfbyte['F'])
	require.EqualValues(t, 0xFF, Halfbyte['g'])
	require.EqualValues(t, 0xFF, Halfbyte[' '])
	require.EqualValues(t, 0xFF, Halfbyte['\r'])
}

func benchLocal(b *testing.B, str string) {
	b.SetBytes(int64(len(str)))
	b.ResetTimer()

	for range b.N {
		var result uint64

		for j := range str {
			result = (result << 4) | uint64(Halfbyte[str[j]])
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.Run("short", func(b *testing.B) {
		benchLocal(b, "123456789abcdef")
	})

	b.Run("long", func(b *testing.B) {
		benchLocal(b, strings.Repeat("123456789abcdef", 100))
	})
}
