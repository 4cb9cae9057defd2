package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// namespace is the default placeholder namespace. Tokens look like {seg_0}.
const namespace = "seg"

// Table maps placeholder tokens to the text they replaced, in the order the
// tokens were issued. A Table belongs to a single masking run.
type Table struct {
	prefix    string // "{" + namespace + "_"
	tokens    []string
	originals map[string]string
}

// Len returns the number of recorded tokens.
func (t *Table) Len() int {
	return len(t.tokens)
}

// Tokens returns the issued tokens in insertion order.
func (t *Table) Tokens() []string {
	out := make([]string, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Lookup returns the original text recorded for token.
func (t *Table) Lookup(token string) (string, bool) {
	s, ok := t.originals[token]
	return s, ok
}

// Expand replaces every token in s with its original text. Originals that
// themselves contain tokens are expanded as well.
func (t *Table) Expand(s string) string {
	if len(t.tokens) == 0 || !strings.Contains(s, t.prefix) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for {
		open := strings.Index(s, t.prefix)
		if open < 0 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			b.WriteString(s)
			break
		}
		end += open + 1

		b.WriteString(s[:open])
		if orig, ok := t.originals[s[open:end]]; ok {
			b.WriteString(t.Expand(orig))
		} else {
			b.WriteString(s[open:end])
		}
		s = s[end:]
	}

	return b.String()
}

// inToken reports whether byte position pos of s falls strictly inside a
// token, so that cutting s at pos would break it apart.
func (t *Table) inToken(s string, pos int) bool {
	if len(t.tokens) == 0 || pos <= 0 || pos >= len(s) {
		return false
	}
	limit := min(pos+len(t.prefix)-1, len(s))
	open := strings.LastIndex(s[:limit], t.prefix)
	if open < 0 || open >= pos {
		return false
	}
	end := strings.IndexByte(s[open:], '}')
	return end >= 0 && pos <= open+end
}

// TokenFactory issues unique placeholder tokens and records what they
// replace. The zero value is not usable; call NewTokenFactory.
type TokenFactory struct {
	table *Table
	next  int
}

// NewTokenFactory returns a factory whose tokens cannot occur in text.
func NewTokenFactory(text string) *TokenFactory {
	ns := namespace
	for n := 0; strings.Contains(text, "{"+ns+"_"); n++ {
		ns = namespace + strconv.Itoa(n)
	}
	return &TokenFactory{
		table: &Table{
			prefix:    "{" + ns + "_",
			originals: make(map[string]string),
		},
	}
}

// Consume records original and returns the token that stands in for it.
func (f *TokenFactory) Consume(original string) string {
	tok := f.table.prefix + strconv.Itoa(f.next) + "}"
	f.next++
	f.table.tokens = append(f.table.tokens, tok)
	f.table.originals[tok] = original
	return tok
}

// Table returns the table of tokens issued so far.
func (f *TokenFactory) Table() *Table {
	return f.table
}

// ReplaceAll replaces every match of re in text with a fresh token.
func (f *TokenFactory) ReplaceAll(text string, re *regexp.Regexp) string {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	spans := make([][2]int, len(locs))
	for i, loc := range locs {
		spans[i] = [2]int{loc[0], loc[1]}
	}
	return f.ReplaceSpans(text, spans)
}

// ReplaceSpans replaces each [begin, end) byte range of text with a fresh
// token. Ranges must be sorted. Empty ranges, ranges overlapping an earlier
// one, and ranges that would cut an existing token apart are left alone.
func (f *TokenFactory) ReplaceSpans(text string, spans [][2]int) string {
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, sp := range spans {
		begin, end := sp[0], sp[1]
		if begin < last || end <= begin || end > len(text) {
			continue
		}
		if f.table.inToken(text, begin) || f.table.inToken(text, end) {
			continue
		}
		b.WriteString(text[last:begin])
		b.WriteString(f.Consume(text[begin:end]))
		last = end
	}
	b.WriteString(text[last:])

	return b.String()
}
