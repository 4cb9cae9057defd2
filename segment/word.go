package segment

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// quoteClass groups quote runes that open and close each other.
type quoteClass int

const (
	noQuote quoteClass = iota
	doubleQuote
	singleQuote
)

func classify(r rune) quoteClass {
	switch r {
	case '"', '„', '“', '”', '«', '»':
		return doubleQuote
	case '\'', '‚', '‘', '’':
		return singleQuote
	}
	return noQuote
}

// WordIterator walks the words of a text one at a time.
// An iterator must not be shared between goroutines.
type WordIterator struct {
	text string
	lang Language
	pos  int
	cur  Word
}

// NewWordIterator returns an iterator over the words of text.
func NewWordIterator(text string, l Language) (*WordIterator, error) {
	if l == nil {
		return nil, fmt.Errorf("segment: NewWordIterator: %w", ErrNilLanguage)
	}
	return &WordIterator{text: text, lang: l}, nil
}

// Next advances to the next word and reports whether there is one.
// The last word of the text is returned even without a trailing separator.
func (it *WordIterator) Next() bool {
	w, pos, ok := nextWord(it.text, it.pos, it.lang)
	it.pos = pos
	it.cur = w
	return ok
}

// Word returns the current word. Valid after Next returned true.
func (it *WordIterator) Word() Word {
	return it.cur
}

// Reset rewinds the iterator to the first word.
func (it *WordIterator) Reset() {
	it.pos = 0
	it.cur = Word{}
}

// nextWord scans s from pos and returns the next word and the position to
// continue from.
//
// Rule priority (highest first):
//   - Quotes open or close a quoted run; inside it nothing splits.
//   - A word separator ends the word, unless it is a dot, date separator or
//     time separator directly followed by more construct text (3.14,
//     31.10.2018, 14:30, example.com).
//   - Blank runes between words are skipped; line breaks and tabs inside
//     a word that the language does not treat as separators stay part of it.
func nextWord(s string, pos int, l Language) (Word, int, bool) {
	stop := func(r rune) bool { return l.IsWordSeparator(r) }

	start := skipBlank(s, pos)
	quoted := noQuote

	i := start
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		if q := classify(r); q != noQuote {
			if quoted != noQuote {
				if q == quoted {
					quoted = noQuote
				}
				i += size
				continue
			}
			if opensQuote(s, i, size, start, q) {
				quoted = q
				i += size
				continue
			}
		}

		if quoted != noQuote {
			i += size
			continue
		}

		if l.IsWordSeparator(r) {
			if isConstructSeparator(r, l) && protected(s, i+size, stop) {
				i += size
				continue
			}
			if i > start {
				return Word{newSpan(s[start:i], start)}, i + size, true
			}
			start = skipBlank(s, i+size)
			i = start
			continue
		}

		i += size
	}

	end := trimBlankRight(s, start, len(s))
	if end == start {
		return Word{}, len(s), false
	}
	return Word{newSpan(s[start:end], start)}, len(s), true
}

// opensQuote reports whether the quote at i starts a quoted run. A run needs
// a closing quote of the same class later in s; single quotes additionally
// open only at the start of a word so that apostrophes (geht's) stay
// literal.
func opensQuote(s string, i, size, start int, q quoteClass) bool {
	if q == singleQuote && i != start {
		return false
	}
	return strings.IndexFunc(s[i+size:], func(r rune) bool { return classify(r) == q }) >= 0
}

// isConstructSeparator reports whether r may appear inside a number, date,
// time or URL.
func isConstructSeparator(r rune, l Language) bool {
	return r == '.' || r == l.DateSeparator() || r == l.TimeSeparator()
}
