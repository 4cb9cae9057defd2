package segment

import (
	"fmt"
	"strings"
	"sync"
)

// Span is a contiguous region of a source string.
//
// Byte-offset invariant: source[s.Begin:s.End] == s.Text.
type Span struct {
	Text  string `json:"text"`  // The covered text
	Begin int    `json:"begin"` // Byte offset in the source string (inclusive)
	End   int    `json:"end"`   // Byte offset in the source string (exclusive)
}

func newSpan(text string, begin int) Span {
	return Span{Text: text, Begin: begin, End: begin + len(text)}
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Begin
}

// String returns a debug representation, e.g. "Hallo."[0:6].
func (s Span) String() string {
	return fmt.Sprintf("%q[%d:%d]", s.Text, s.Begin, s.End)
}

// Sentence is a span covering one sentence of the original input.
type Sentence struct {
	Span
	unformatted func() string
}

func newSentence(text string, begin int) Sentence {
	return Sentence{
		Span:        newSpan(text, begin),
		unformatted: sync.OnceValue(func() string { return unformat(text) }),
	}
}

// Unformatted returns the sentence text with line breaks and tabs collapsed
// to a single space. A line break directly after a hyphen is removed, which
// joins words wrapped across lines.
//
// The value is computed on first access and shared by all copies of s.
func (s Sentence) Unformatted() string {
	if s.unformatted == nil {
		return unformat(s.Text)
	}
	return s.unformatted()
}

// Word is a span covering one word.
type Word struct {
	Span
}

// unformat collapses every whitespace run that contains a line break or tab
// into one space. Runs made of spaces only are copied unchanged.
func unformat(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if !isBlankByte(s[i]) {
			b.WriteByte(s[i])
			i++
			continue
		}

		j := i
		broken := false
		for j < len(s) && isBlankByte(s[j]) {
			if s[j] != ' ' {
				broken = true
			}
			j++
		}

		switch {
		case !broken:
			b.WriteString(s[i:j])
		case i > 0 && s[i-1] == '-' && (s[i] == '\r' || s[i] == '\n'):
			// soft wrap: "Ur-\nlaub" -> "Ur-laub"
		default:
			b.WriteByte(' ')
		}
		i = j
	}

	return b.String()
}

func isBlankByte(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n' || c == '\t'
}
