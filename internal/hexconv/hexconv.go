package hexconv

// Halfbyte maps an ASCII character to the value of the hex digit it stands for.
// Entries of characters being no hex digits hold 0xFF.
var Halfbyte = makeTable()

func makeTable() (lut [256]byte) {
	for i := range lut {
		lut[i] = 0xFF
	}

	for c := byte('0'); c <= '9'; c++ {
		lut[c] = c - '0'
	}

	for c := byte('a'); c <= 'f'; c++ {
		lut[c] = c - 'a' + 0xa
	}

	for c := byte('A'); c <= 'F'; c++ {
		lut[c] = c - 'A' + 0xA
	}

	return lut
}
