// Package lang provides rule-driven implementations of segment.Language.
//
// A Provider is built from Rules: punctuation marks, word separators, the
// date and time separators, a list of dotted abbreviations and regular
// expressions for time and date expressions. Rules are plain data and can be
// loaded from TOML:
//
//	code = "de"
//	punctuation = ".!?"
//	word_separators = " \r\n\t.,;:!?"
//	date_separator = "."
//	time_separator = ":"
//	abbreviations = ["z.B.", "Dr."]
//	time_patterns = ['\b\d{1,2}:\d{2}\b']
//	date_patterns = ['\b\d{1,2}\.\d{1,2}\.\d{4}\b']
//
// Abbreviations match as listed, with a capital first letter also accepted
// for lowercase entries. Rule sets with fold = "turkic" match them in any
// case using Azerbaijani case mapping. Entries with several words, such as
// "və s.", match across any run of spaces.
//
// Built-in rule sets for German (de), English (en) and Azerbaijani (az) are
// available through Builtin.
//
// A Provider is immutable and safe for concurrent use by multiple goroutines.
package lang

import (
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/textseg/segment"
)

// Rules is the data a Provider is built from.
type Rules struct {
	Code           string   `toml:"code"`            // BCP 47 language code, e.g. "de"
	Name           string   `toml:"name"`            // Display name
	Punctuation    string   `toml:"punctuation"`     // Sentence-ending marks, one rune each
	WordSeparators string   `toml:"word_separators"` // Word separators, one rune each
	DateSeparator  string   `toml:"date_separator"`  // Exactly one rune
	TimeSeparator  string   `toml:"time_separator"`  // Exactly one rune
	Fold           string   `toml:"fold"`            // "unicode" (default, case as listed) or "turkic" (caseless)
	Abbreviations  []string `toml:"abbreviations"`   // Dotted abbreviations, e.g. "z.B." or "və s."
	TimePatterns   []string `toml:"time_patterns"`   // RE2 patterns for time expressions, as DatePatterns
	DatePatterns   []string `toml:"date_patterns"`   // RE2 patterns; a capture group limits the masked span
}

// Provider implements segment.Language from Rules.
type Provider struct {
	code        string
	name        string
	punctuation string
	separators  string
	dateSep     rune
	timeSep     rune
	fold        func(string) string
	caseless    bool            // match abbreviations in any case
	abbrevs     map[string]bool // with trailing dot, folded when caseless
	phrases     *regexp.Regexp  // multi-word abbreviations such as "və s."
	timeRes     []*regexp.Regexp
	dateRes     []*regexp.Regexp
}

var _ segment.Language = (*Provider)(nil)

// New validates rules and compiles them into a Provider.
func New(r Rules) (*Provider, error) {
	if r.Punctuation == "" {
		return nil, errors.Errorf("lang: %s: no punctuation marks", r.Code)
	}
	dateSep, err := singleRune(r.Code, "date_separator", r.DateSeparator)
	if err != nil {
		return nil, err
	}
	timeSep, err := singleRune(r.Code, "time_separator", r.TimeSeparator)
	if err != nil {
		return nil, err
	}

	tag := language.Und
	if r.Code != "" {
		if tag, err = language.Parse(r.Code); err != nil {
			return nil, errors.Wrapf(err, "lang: invalid code %q", r.Code)
		}
	}
	fold, err := folder(r.Fold, tag)
	if err != nil {
		return nil, errors.Wrapf(err, "lang: %s", r.Code)
	}

	p := &Provider{
		code:        r.Code,
		name:        r.Name,
		punctuation: r.Punctuation,
		separators:  r.WordSeparators,
		dateSep:     dateSep,
		timeSep:     timeSep,
		fold:        fold,
		caseless:    r.Fold == "turkic",
		abbrevs:     make(map[string]bool, len(r.Abbreviations)),
	}

	var phrases []string
	for _, a := range r.Abbreviations {
		a = strings.TrimSpace(a)
		if !strings.HasSuffix(a, ".") {
			return nil, errors.Errorf("lang: %s: abbreviation %q must end with a dot", r.Code, a)
		}
		if words := strings.Fields(a); len(words) > 1 {
			phrases = append(phrases, phrasePattern(words))
			continue
		}
		if p.caseless {
			a = fold(a)
		}
		p.abbrevs[a] = true
	}
	if len(phrases) > 0 {
		p.phrases = compilePhrases(phrases, p.caseless)
	}

	if p.timeRes, err = compileAll(r.TimePatterns); err != nil {
		return nil, errors.Wrapf(err, "lang: %s: time pattern", r.Code)
	}
	if p.dateRes, err = compileAll(r.DatePatterns); err != nil {
		return nil, errors.Wrapf(err, "lang: %s: date pattern", r.Code)
	}

	return p, nil
}

// Load decodes TOML rules from r and builds a Provider.
// Unknown keys are rejected.
func Load(r io.Reader) (*Provider, error) {
	var rules Rules
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&rules); err != nil {
		return nil, errors.Wrap(err, "lang: decoding rules")
	}
	return New(rules)
}

// LoadFile reads TOML rules from path.
func LoadFile(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "lang: opening rules %s", path)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "lang: %s", path)
	}
	return p, nil
}

// Code returns the language code of the rules, e.g. "de".
func (p *Provider) Code() string { return p.code }

// Name returns the display name of the rules.
func (p *Provider) Name() string { return p.name }

// IsPunctuation reports whether r is a sentence-ending mark.
func (p *Provider) IsPunctuation(r rune) bool {
	return strings.ContainsRune(p.punctuation, r)
}

// IsWordSeparator reports whether r separates words.
func (p *Provider) IsWordSeparator(r rune) bool {
	return strings.ContainsRune(p.separators, r)
}

// DateSeparator returns the rune separating date components.
func (p *Provider) DateSeparator() rune { return p.dateSep }

// TimeSeparator returns the rune separating time components.
func (p *Provider) TimeSeparator() rune { return p.timeSep }

// StripTime replaces time expressions with tokens from tf.
func (p *Provider) StripTime(text string, tf *segment.TokenFactory) string {
	return replaceAll(text, p.timeRes, tf)
}

// StripDate replaces date expressions with tokens from tf.
func (p *Provider) StripDate(text string, tf *segment.TokenFactory) string {
	return replaceAll(text, p.dateRes, tf)
}

// replaceAll masks every match of res in turn. A pattern with a capture
// group masks only the group, so the rest of the match acts as context.
func replaceAll(text string, res []*regexp.Regexp, tf *segment.TokenFactory) string {
	for _, re := range res {
		if re.NumSubexp() == 0 {
			text = tf.ReplaceAll(text, re)
			continue
		}
		var spans [][2]int
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if m[2] >= 0 && m[3] > m[2] {
				spans = append(spans, [2]int{m[2], m[3]})
			}
		}
		text = tf.ReplaceSpans(text, spans)
	}
	return text
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}
	return res, nil
}

func singleRune(code, key, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Errorf("lang: %s: %s must be a single character, got %q", code, key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
