// Command segment splits text into sentences, words or sentence chunks.
//
// Input is read from the files named on the command line, or from stdin
// when there are none:
//
//	segment -lang de brief.txt
//	segment -words -format json < brief.txt
//	segment -chunk 512 -overlap 50 *.txt
//	segment -check corpus/
//
// Output has one span per line. The text format is "begin<TAB>end<TAB>text"
// with byte offsets into the (optionally NFC-normalized) input; sentences are
// printed with line breaks collapsed. The json format emits one object per
// line.
//
// Defaults come from TEXTSEG_* environment variables and a .env file; see
// internal/config.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
	"golang.org/x/term"
	"golang.org/x/text/unicode/norm"

	"github.com/az-ai-labs/textseg/chunker"
	"github.com/az-ai-labs/textseg/internal/config"
	"github.com/az-ai-labs/textseg/lang"
	"github.com/az-ai-labs/textseg/segment"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "segment: %v\n", err)
		return exitUsage
	}

	fs := flag.NewFlagSet("segment", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "built-in rule set ("+strings.Join(lang.Codes(), ", ")+")")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "TOML rules `file`, overrides -lang")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: text or json")
	fs.BoolVar(&cfg.Words, "words", cfg.Words, "emit words instead of sentences")
	fs.BoolVar(&cfg.NFC, "nfc", cfg.NFC, "normalize input to NFC before segmenting")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "files processed concurrently")
	fs.IntVar(&cfg.ChunkSize, "chunk", cfg.ChunkSize, "group sentences into chunks of `n` graphemes")
	fs.IntVar(&cfg.Overlap, "overlap", cfg.Overlap, "chunk overlap in graphemes")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	checkDir := fs.String("check", "", "verify span invariants for every .txt file under `dir` and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: segment [flags] [file ...]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "segment: %v\n", err)
		return exitUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	l, err := cfg.Language()
	if err != nil {
		logger.Error("loading rules", "err", err)
		return exitError
	}
	logger.Debug("rules loaded", "code", l.Code(), "name", l.Name())

	p := &processor{cfg: cfg, lang: l, log: logger}

	if *checkDir != "" {
		return p.check(ctx, *checkDir, stdout)
	}

	if fs.NArg() == 0 {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fs.Usage()
			return exitUsage
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			logger.Error("reading stdin", "err", err)
			return exitError
		}
		out, err := p.segment("", data)
		if err != nil {
			logger.Error("segmenting stdin", "err", err)
			return exitError
		}
		if _, err := stdout.Write(out); err != nil {
			logger.Error("writing output", "err", err)
			return exitError
		}
		return exitOK
	}

	return p.files(ctx, fs.Args(), stdout)
}

// processor segments inputs with one configuration.
type processor struct {
	cfg  *config.Cfg
	lang segment.Language
	log  *slog.Logger
}

// record is one output line.
type record struct {
	File        string `json:"file,omitempty"`
	Index       int    `json:"index"`
	Begin       int    `json:"begin"`
	End         int    `json:"end"`
	Text        string `json:"text"`
	Unformatted string `json:"unformatted,omitempty"`
}

// files segments every path with at most cfg.Workers files in flight and
// writes the results in argument order.
func (p *processor) files(ctx context.Context, paths []string, stdout io.Writer) int {
	sem := semaphore.NewWeighted(int64(p.cfg.Workers))
	results := make([][]byte, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(paths); j++ {
				errs[j] = err
			}
			break
		}
		wg.Go(func() {
			defer sem.Release(1)
			results[i], errs[i] = p.file(path)
		})
	}
	wg.Wait()

	code := exitOK
	for i, path := range paths {
		if errs[i] != nil {
			p.log.Error("segmenting file", "file", path, "err", errs[i])
			code = exitError
			continue
		}
		if _, err := stdout.Write(results[i]); err != nil {
			p.log.Error("writing output", "err", err)
			return exitError
		}
	}
	return code
}

func (p *processor) file(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	p.log.Debug("segmenting", "file", path, "bytes", len(data))
	return p.segment(path, data)
}

// segment renders the spans of data in the configured mode and format.
func (p *processor) segment(name string, data []byte) ([]byte, error) {
	text := string(data)
	if p.cfg.NFC {
		text = norm.NFC.String(text)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	emit := func(r record) error {
		r.File = name
		if p.cfg.Format == config.FormatJSON {
			return enc.Encode(r)
		}
		shown := r.Unformatted
		if shown == "" {
			shown = r.Text
		}
		_, err := fmt.Fprintf(&buf, "%d\t%d\t%s\n", r.Begin, r.End, shown)
		return err
	}

	switch {
	case p.cfg.ChunkSize > 0:
		chunks, err := chunker.BySentence(text, p.lang, p.cfg.ChunkSize, p.cfg.Overlap)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			r := record{Index: c.Index, Begin: c.Start, End: c.End, Text: c.Text,
				Unformatted: strings.Join(strings.Fields(c.Text), " ")}
			if err := emit(r); err != nil {
				return nil, err
			}
		}

	case p.cfg.Words:
		words, err := segment.Words(text, p.lang)
		if err != nil {
			return nil, err
		}
		for i, w := range words {
			if err := emit(record{Index: i, Begin: w.Begin, End: w.End, Text: w.Text}); err != nil {
				return nil, err
			}
		}

	default:
		seq, err := segment.SentenceSeq(text, p.lang)
		if err != nil {
			return nil, err
		}
		i := 0
		for s := range seq {
			r := record{Index: i, Begin: s.Begin, End: s.End, Text: s.Text, Unformatted: s.Unformatted()}
			if err := emit(r); err != nil {
				return nil, err
			}
			i++
		}
	}

	return buf.Bytes(), nil
}
