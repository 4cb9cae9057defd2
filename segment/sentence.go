package segment

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// SentenceIterator walks the sentences of a text one at a time.
//
// Masking happens once when the iterator is created; sentence boundaries are
// found lazily by Next. An iterator must not be shared between goroutines.
type SentenceIterator struct {
	masked string
	table  *Table
	sc     sentenceScanner
	shift  int // cumulative restored-minus-masked length of earlier sentences
	cur    Sentence
}

// NewSentenceIterator returns an iterator over the sentences of text.
func NewSentenceIterator(text string, l Language) (*SentenceIterator, error) {
	if l == nil {
		return nil, fmt.Errorf("segment: NewSentenceIterator: %w", ErrNilLanguage)
	}
	return newSentenceIterator(text, l), nil
}

func newSentenceIterator(text string, l Language) *SentenceIterator {
	masked, table := mask(text, l)
	return &SentenceIterator{
		masked: masked,
		table:  table,
		sc:     sentenceScanner{text: masked, lang: l},
	}
}

// Next advances to the next sentence and reports whether there is one.
func (it *SentenceIterator) Next() bool {
	begin, end, ok := it.sc.next()
	if !ok {
		it.cur = Sentence{}
		return false
	}
	it.cur, it.shift = restore(it.masked[begin:end], begin, it.shift, it.table)
	return true
}

// Sentence returns the current sentence. Valid after Next returned true.
func (it *SentenceIterator) Sentence() Sentence {
	return it.cur
}

// Reset rewinds the iterator to the first sentence.
func (it *SentenceIterator) Reset() {
	it.sc.pos = 0
	it.shift = 0
	it.cur = Sentence{}
}

// sentenceScanner finds sentence boundaries in masked text.
type sentenceScanner struct {
	text string
	lang Language
	pos  int // start of the not yet scanned remainder
}

// next returns the byte range of the next sentence in the masked text.
//
// A sentence ends after a punctuation mark (plus any directly following
// marks and closing quotes or brackets) when the end of input or a blank
// rune follows. A dot directly followed by other text does not end the
// sentence, except for the missing-space case "abgebucht.Ist". Any other
// mark ends the sentence regardless of what follows.
//
// Text after the last terminator is returned as a final sentence with
// trailing blanks trimmed.
func (sc *sentenceScanner) next() (begin, end int, ok bool) {
	s := sc.text
	start := skipBlank(s, sc.pos)

	i := start
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !sc.lang.IsPunctuation(r) {
			i += size
			continue
		}

		j := sc.cluster(i + size)
		if sc.boundary(i, r, j) {
			sc.pos = j
			return start, j, true
		}
		i = j
	}

	sc.pos = len(s)
	end = trimBlankRight(s, start, len(s))
	if end == start {
		return 0, 0, false
	}
	return start, end, true
}

// cluster extends a punctuation mark over directly following marks and
// closing quotes or brackets, e.g. `?!` or `."`. It returns the end of the
// cluster.
func (sc *sentenceScanner) cluster(pos int) int {
	for pos < len(sc.text) {
		r, size := utf8.DecodeRuneInString(sc.text[pos:])
		if !sc.lang.IsPunctuation(r) && !isClosing(r) {
			break
		}
		pos += size
	}
	return pos
}

// boundary decides whether the cluster [mark, next) ends a sentence.
func (sc *sentenceScanner) boundary(mark int, r rune, next int) bool {
	if !protected(sc.text, next, nil) {
		return true
	}
	if r != '.' {
		return true
	}
	return missingSpace(sc.text, mark, next)
}

// missingSpace reports whether a dot at mark is a sentence end written
// without the following space: a lowercase letter before the dot and an
// uppercase letter followed by a lowercase letter after it.
func missingSpace(s string, mark, next int) bool {
	prev, _ := utf8.DecodeLastRuneInString(s[:mark])
	if !unicode.IsLower(prev) {
		return false
	}
	r, size := utf8.DecodeRuneInString(s[next:])
	if !unicode.IsUpper(r) {
		return false
	}
	if next+size >= len(s) {
		return true
	}
	after, _ := utf8.DecodeRuneInString(s[next+size:])
	return unicode.IsLower(after)
}

// isClosing reports whether r closes a quotation or a bracket.
func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '’', '“', '”', '«', '»':
		return true
	}
	return false
}
