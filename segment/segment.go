// Package segment splits natural-language text into sentences and words
// with byte offsets into the original input.
//
// Sentence segmentation runs in three stages:
//
//   - Masking: URLs, e-mail addresses and the language's time, date and
//     abbreviation expressions are replaced with opaque placeholder tokens,
//     hiding their internal punctuation.
//   - Scanning: a state machine walks the masked text and ends a sentence at
//     a punctuation mark that is followed by whitespace or the end of input.
//   - Restoration: placeholders are expanded back and every sentence span is
//     shifted so that it indexes the original text.
//
// Word segmentation walks a single sentence (or any text) and splits it at
// the language's word separators. Quoted runs are never split, and dots,
// date separators and time separators inside numbers, dates, times and URLs
// do not end a word.
//
// The byte offset invariant text[s.Begin:s.End] == s.Text holds for every
// returned Sentence and Word.
//
// Language rules are supplied by a Language value passed to every entry
// point; package lang provides data-driven implementations.
//
// All package-level functions are safe for concurrent use by multiple
// goroutines. Iterators are not.
//
// Known limitations:
//
//   - Sentence splitting does not track quote or parenthesis nesting.
//     A terminator inside a quotation followed by a space ends the sentence.
//   - An abbreviation that really ends a sentence suppresses the break.
//   - Unbalanced quotes never open a quoted run, so they do not protect
//     anything from word splitting.
package segment

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNilLanguage is returned when an entry point is called without a Language.
var ErrNilLanguage = errors.New("nil language")

// Language supplies the language-specific rules used by the segmenters.
//
// The Strip methods must only replace substrings of text with tokens issued
// by tf; any other change to the text breaks offset restoration.
type Language interface {
	// IsPunctuation reports whether r is a sentence-ending punctuation mark.
	IsPunctuation(r rune) bool
	// IsWordSeparator reports whether r separates words.
	IsWordSeparator(r rune) bool
	// DateSeparator returns the rune separating date components.
	DateSeparator() rune
	// TimeSeparator returns the rune separating time components.
	TimeSeparator() rune

	StripTime(text string, tf *TokenFactory) string
	StripDate(text string, tf *TokenFactory) string
	StripAbbreviations(text string, tf *TokenFactory) string
}

// Sentences splits text into sentences.
// Returns nil for empty text or text consisting only of whitespace.
func Sentences(text string, l Language) ([]Sentence, error) {
	it, err := NewSentenceIterator(text, l)
	if err != nil {
		return nil, err
	}
	var out []Sentence
	for it.Next() {
		out = append(out, it.Sentence())
	}
	return out, nil
}

// SentenceSeq returns a sequence over the sentences of text. Every range
// over the sequence scans text from the beginning.
func SentenceSeq(text string, l Language) (iter.Seq[Sentence], error) {
	if l == nil {
		return nil, fmt.Errorf("segment: SentenceSeq: %w", ErrNilLanguage)
	}
	return func(yield func(Sentence) bool) {
		it := newSentenceIterator(text, l)
		for it.Next() {
			if !yield(it.Sentence()) {
				return
			}
		}
	}, nil
}

// Words splits text into words. Offsets are relative to text.
func Words(text string, l Language) ([]Word, error) {
	it, err := NewWordIterator(text, l)
	if err != nil {
		return nil, err
	}
	var out []Word
	for it.Next() {
		out = append(out, it.Word())
	}
	return out, nil
}

// Words splits the sentence into words. Offsets are relative to the text
// the sentence was segmented from, not to the sentence itself.
func (s Sentence) Words(l Language) ([]Word, error) {
	words, err := Words(s.Text, l)
	if err != nil {
		return nil, err
	}
	for i := range words {
		words[i].Begin += s.Begin
		words[i].End += s.Begin
	}
	return words, nil
}

// Strings returns the texts of spans, e.g. for comparison in tests or for
// callers that do not need offsets.
func Strings[S interface{ Sentence | Word }](spans []S) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		switch v := any(s).(type) {
		case Sentence:
			out[i] = v.Text
		case Word:
			out[i] = v.Text
		}
	}
	return out
}
