package lang

import (
	"embed"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/az-ai-labs/textseg/internal/azcase"
)

// DefaultCode is the code of the rule set used when none is requested.
const DefaultCode = "de"

//go:embed rules/*.toml
var rulesFS embed.FS

// builtins holds the embedded rule sets, each parsed once on first use.
var builtins = map[string]func() (*Provider, error){
	"de": sync.OnceValues(func() (*Provider, error) { return loadEmbedded("de") }),
	"en": sync.OnceValues(func() (*Provider, error) { return loadEmbedded("en") }),
	"az": sync.OnceValues(func() (*Provider, error) { return loadEmbedded("az") }),
}

// Builtin returns the embedded rule set for code (case-insensitive).
// The returned Provider is shared; it is immutable.
func Builtin(code string) (*Provider, error) {
	load, ok := builtins[strings.ToLower(code)]
	if !ok {
		return nil, errors.Errorf("lang: no built-in rules for %q (have %s)", code, strings.Join(Codes(), ", "))
	}
	return load()
}

// Codes returns the codes of the built-in rule sets in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(builtins))
	for c := range builtins {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

func loadEmbedded(code string) (*Provider, error) {
	f, err := rulesFS.Open("rules/" + code + ".toml")
	if err != nil {
		return nil, errors.Wrapf(err, "lang: opening built-in rules %s", code)
	}
	defer f.Close()
	return Load(f)
}

// folder returns the case folding used to match abbreviations.
// Turkic folding maps I to ı and İ to i.
func folder(kind string, tag language.Tag) (func(string) string, error) {
	switch kind {
	case "", "unicode":
		return func(s string) string {
			// A Caser keeps state, so each call gets its own.
			return cases.Lower(tag).String(s)
		}, nil
	case "turkic":
		return azcase.ToLower, nil
	}
	return nil, errors.Errorf("unknown fold %q", kind)
}
