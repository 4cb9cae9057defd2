package segment

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// reURL matches http(s)/ftp URLs and bare www. hosts up to the next blank.
	reURL = regexp.MustCompile(`(?i)\b(?:(?:https?|ftp)://|www\.)[^\s<>"]+`)

	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}`)
)

// urlTrailing lists punctuation that ends a sentence or clause rather than
// the URL it follows.
const urlTrailing = ".,;:!?)]'\""

// Mask replaces protected constructs in text with placeholder tokens and
// returns the masked text together with the table needed to restore it.
//
// The passes run in a fixed order: URLs and e-mail addresses, then the
// language's time, date and abbreviation expressions. Text containing none
// of them is returned unchanged with an empty table.
func Mask(text string, l Language) (string, *Table, error) {
	if l == nil {
		return "", nil, fmt.Errorf("segment: Mask: %w", ErrNilLanguage)
	}
	masked, table := mask(text, l)
	return masked, table, nil
}

func mask(text string, l Language) (string, *Table) {
	tf := NewTokenFactory(text)
	if text == "" {
		return "", tf.Table()
	}

	s := maskLinks(text, tf)
	s = l.StripTime(s, tf)
	s = l.StripDate(s, tf)
	s = l.StripAbbreviations(s, tf)
	return s, tf.Table()
}

// maskLinks hides URLs and e-mail addresses. Trailing punctuation stays in
// the text so that a URL at the end of a sentence still ends it.
func maskLinks(s string, tf *TokenFactory) string {
	if strings.Contains(s, "/") || strings.Contains(s, "www.") || strings.Contains(s, "WWW.") {
		locs := reURL.FindAllStringIndex(s, -1)
		spans := make([][2]int, 0, len(locs))
		for _, loc := range locs {
			end := loc[1]
			for end > loc[0] && strings.IndexByte(urlTrailing, s[end-1]) >= 0 {
				end--
			}
			spans = append(spans, [2]int{loc[0], end})
		}
		s = tf.ReplaceSpans(s, spans)
	}
	if strings.IndexByte(s, '@') >= 0 {
		s = tf.ReplaceAll(s, reEmail)
	}
	return s
}
