// Package config holds the runtime configuration of the segment command.
//
// Values come from a .env file in the working directory (if present), then
// the process environment. Command-line flags override both.
package config

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/az-ai-labs/textseg/lang"
)

// Output formats.
const (
	FormatText = "text" // one span per line
	FormatJSON = "json" // one JSON object per line
)

// Cfg holds all runtime configuration.
type Cfg struct {
	Lang      string     // TEXTSEG_LANG, built-in rule set code
	RulesPath string     // TEXTSEG_RULES, TOML rules file; overrides Lang
	Format    string     // TEXTSEG_FORMAT, "text" or "json"
	Words     bool       // TEXTSEG_WORDS, emit words instead of sentences
	NFC       bool       // TEXTSEG_NFC, normalize input to NFC first
	Workers   int        // TEXTSEG_WORKERS, files processed concurrently
	ChunkSize int        // TEXTSEG_CHUNK, group sentences into chunks of this many graphemes (0 = off)
	Overlap   int        // TEXTSEG_OVERLAP, chunk overlap in graphemes
	LogLevel  slog.Level // TEXTSEG_LOG_LEVEL
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: a missing .env is not an error.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Cfg from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (*Cfg, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	c := &Cfg{
		Lang:      lang.DefaultCode,
		RulesPath: get("TEXTSEG_RULES"),
		Format:    FormatText,
		Workers:   runtime.NumCPU(),
		LogLevel:  slog.LevelInfo,
	}
	if v := get("TEXTSEG_LANG"); v != "" {
		c.Lang = v
	}
	if v := get("TEXTSEG_FORMAT"); v != "" {
		c.Format = strings.ToLower(v)
	}

	var err error
	if c.Words, err = parseBool(get, "TEXTSEG_WORDS"); err != nil {
		return nil, err
	}
	if c.NFC, err = parseBool(get, "TEXTSEG_NFC"); err != nil {
		return nil, err
	}
	if err = parseInt(get, "TEXTSEG_WORKERS", &c.Workers); err != nil {
		return nil, err
	}
	if err = parseInt(get, "TEXTSEG_CHUNK", &c.ChunkSize); err != nil {
		return nil, err
	}
	if err = parseInt(get, "TEXTSEG_OVERLAP", &c.Overlap); err != nil {
		return nil, err
	}
	if v := get("TEXTSEG_LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, errors.Wrap(err, "config: TEXTSEG_LOG_LEVEL")
		}
	}

	return c, c.Validate()
}

// Validate checks value ranges. It is called again after flags are applied.
func (c *Cfg) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("config: unknown format %q (want %s or %s)", c.Format, FormatText, FormatJSON)
	}
	if c.Workers < 1 {
		return errors.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkSize < 0 || c.Overlap < 0 {
		return errors.Errorf("config: chunk size and overlap must not be negative")
	}
	if c.ChunkSize > 0 && c.Words {
		return errors.New("config: chunking and word output are mutually exclusive")
	}
	return nil
}

// Language resolves the configured rule set: RulesPath when set, otherwise
// the built-in rules for Lang.
func (c *Cfg) Language() (*lang.Provider, error) {
	if c.RulesPath != "" {
		return lang.LoadFile(c.RulesPath)
	}
	return lang.Builtin(c.Lang)
}

func parseBool(get func(string) string, key string) (bool, error) {
	v := get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "config: %s", key)
	}
	return b, nil
}

func parseInt(get func(string) string, key string, dst *int) error {
	v := get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "config: %s", key)
	}
	*dst = n
	return nil
}
