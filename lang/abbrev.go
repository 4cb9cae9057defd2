package lang

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/az-ai-labs/textseg/segment"
)

// reDotted matches dotted word runs such as "Dr.", "z.B.", "z. B." or
// "U.S.A.". Parts may be separated by one space or no-break space.
var reDotted = regexp.MustCompile(`\p{L}+\.(?:[ \x{00a0}]?\p{L}+\.)*`)

// StripAbbreviations replaces known abbreviations and dotted initialisms
// (U.S.A.) with tokens from tf.
//
// Multi-word entries ("və s.") are replaced first. Each dotted run is then
// matched greedily: the longest prefix ending in a dot that is a known
// abbreviation wins, and scanning resumes right after it, so "Prof.Dr."
// yields two abbreviations. A run that matches nothing is retried from its
// second part.
func (p *Provider) StripAbbreviations(text string, tf *segment.TokenFactory) string {
	if strings.IndexByte(text, '.') < 0 {
		return text
	}
	if p.phrases != nil {
		text = tf.ReplaceSpans(text, p.phraseSpans(text))
	}

	var spans [][2]int
	pos := 0
	for pos < len(text) {
		loc := reDotted.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		n := 0
		if wordStart(text, start) {
			n = p.matchAbbrev(text[start:end])
		}
		if n == 0 {
			pos = start + strings.IndexByte(text[start:end], '.') + 1
			continue
		}
		spans = append(spans, [2]int{start, start + n})
		pos = start + n
	}

	return tf.ReplaceSpans(text, spans)
}

// phraseSpans returns the multi-word abbreviations in text that start a word.
func (p *Provider) phraseSpans(text string) [][2]int {
	var spans [][2]int
	for _, loc := range p.phrases.FindAllStringIndex(text, -1) {
		if wordStart(text, loc[0]) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
	}
	return spans
}

// matchAbbrev returns the length in bytes of the longest dotted prefix of
// cand that is an abbreviation, or 0. Spaces between parts are ignored for
// the lookup but counted in the length.
func (p *Provider) matchAbbrev(cand string) int {
	end := len(cand)
	for end > 0 {
		prefix := compact(cand[:end])
		if p.isAbbrev(prefix) || isInitialism(prefix) {
			return end
		}
		k := strings.LastIndexByte(cand[:end-1], '.')
		if k < 0 {
			break
		}
		end = k + 1
	}
	return 0
}

// isAbbrev looks s up in the abbreviation list. Caseless rule sets match in
// any case. Otherwise s must match as listed, except that a capital first
// letter is accepted for an entry written in lowercase ("Z.B." for "z.B."),
// so "no." never matches "No." and "Max." never matches "max.".
func (p *Provider) isAbbrev(s string) bool {
	if p.caseless {
		return p.abbrevs[p.fold(s)]
	}
	if p.abbrevs[s] {
		return true
	}
	r, size := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) && p.abbrevs[p.fold(s[:size])+s[size:]]
}

// compact removes the blanks between the parts of a dotted run.
func compact(s string) string {
	if !strings.ContainsAny(s, " \u00a0") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
}

// phrasePattern turns the words of a multi-word abbreviation into a pattern
// that accepts any run of spaces between them.
func phrasePattern(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, `[ \x{00a0}]+`)
}

// compilePhrases builds one alternation, longest phrase first so that the
// leftmost-first match is also the longest.
func compilePhrases(patterns []string, caseless bool) *regexp.Regexp {
	slices.SortStableFunc(patterns, func(a, b string) int { return len(b) - len(a) })
	expr := `(?:` + strings.Join(patterns, "|") + `)`
	if caseless {
		expr = `(?i)` + expr
	}
	return regexp.MustCompile(expr)
}

// isInitialism reports whether s consists of two or more single uppercase
// letters each followed by a dot.
func isInitialism(s string) bool {
	parts := 0
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if !unicode.IsUpper(r) || size >= len(s) || s[size] != '.' {
			return false
		}
		s = s[size+1:]
		parts++
	}
	return parts >= 2
}

// wordStart reports whether pos is not preceded by a letter or digit.
func wordStart(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
