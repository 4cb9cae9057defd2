package segment

import "unicode/utf8"

// isBias reports whether r is a line break or tab. Bias runes are collapsed
// or skipped, never treated as content.
func isBias(r rune) bool {
	return r == '\r' || r == '\n' || r == '\t'
}

// isBlank reports whether r is a space or a bias rune.
func isBlank(r rune) bool {
	return r == ' ' || r == '\u00a0' || isBias(r)
}

// skipBlank returns the first position at or after pos that does not hold a
// blank rune.
func skipBlank(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !isBlank(r) {
			break
		}
		pos += size
	}
	return pos
}

// trimBlankRight returns the end of s[:end] with trailing blank runes removed.
func trimBlankRight(s string, start, end int) int {
	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !isBlank(r) {
			break
		}
		end -= size
	}
	return end
}

// protected reports whether the rune at pos continues a construct such as a
// URL, a number, a date or a time. It does when a rune exists at pos and it
// is neither blank nor rejected by stop.
func protected(s string, pos int, stop func(rune) bool) bool {
	if pos >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	if isBlank(r) {
		return false
	}
	return stop == nil || !stop(r)
}
