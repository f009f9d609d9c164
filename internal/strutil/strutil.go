package strutil

// CmpFold reports whether two strings are equal case-insensitively. It cheats by
// ORing every pair of bytes with 0x20, which maps latin letters to their lowercase
// counterparts. Header keys and tokens never carry bytes for which the trick
// produces false positives.
func CmpFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i]|0x20 != b[i]|0x20 {
			return false
		}
	}

	return true
}

func LStripWS(str string) string {
	for i, c := range str {
		switch c {
		case ' ', '\t':
		default:
			return str[i:]
		}
	}

	return ""
}

func RStripWS(str string) string {
	for i := len(str); i > 0; i-- {
		switch str[i-1] {
		case ' ', '\t':
		default:
			return str[:i]
		}
	}

	return ""
}

// StripWS trims optional whitespace from both ends of a field value.
func StripWS(str string) string {
	return LStripWS(RStripWS(str))
}
