package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/az-ai-labs/textseg/segment"
)

// checkStats aggregates the results of a -check run.
type checkStats struct {
	mu           sync.Mutex
	filesScanned int
	filesFailed  int
	totalBytes   int64
	sentences    int
	words        int
	maskOK       int
	maskFail     int
	violations   int
	outliers     int
	fileRatios   []fileRatio
}

type fileRatio struct {
	path       string
	sentences  int
	paragraphs int
	ratio      float64
}

// fileReport is the outcome of checking one file.
type fileReport struct {
	path       string
	bytes      int64
	sentences  int
	words      int
	paragraphs int
	maskFailed bool
	violations int
}

// check walks dir, verifies the span invariants of every .txt file and
// prints a summary. It fails when any file has a violation or cannot be
// checked.
func (p *processor) check(ctx context.Context, dir string, stdout io.Writer) int {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		p.log.Error("walking directory", "dir", dir, "err", err)
		return exitError
	}

	p.log.Info("checking files", "dir", dir, "files", len(paths))
	start := time.Now()

	stats := &checkStats{}
	sem := semaphore.NewWeighted(int64(p.cfg.Workers))
	var wg sync.WaitGroup
	code := exitOK
	for _, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			p.log.Error("check interrupted", "err", err)
			code = exitError
			break
		}
		wg.Go(func() {
			defer sem.Release(1)
			rep, err := p.checkFile(path)
			if err != nil {
				p.log.Error("checking file", "file", path, "err", err)
				stats.fail()
				return
			}
			stats.merge(rep)
		})
	}
	wg.Wait()

	flagSentenceOutliers(p, stats)
	p.log.Info("check finished", "elapsed", time.Since(start).Round(time.Millisecond))
	printStats(stdout, stats)

	if stats.violations > 0 || stats.maskFail > 0 || stats.filesFailed > 0 {
		return exitError
	}
	return code
}

func (p *processor) checkFile(path string) (fileReport, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fileReport{}, errors.Wrap(err, "reading input")
	}
	text := string(data)
	rep := fileReport{
		path:       path,
		bytes:      int64(len(data)),
		paragraphs: strings.Count(text, "\n\n") + 1,
	}

	masked, table, err := segment.Mask(text, p.lang)
	if err != nil {
		return rep, err
	}
	if got := table.Expand(masked); got != text {
		rep.maskFailed = true
		pos, gotByte, wantByte := firstDivergence(text, got)
		p.log.Warn("mask round trip failed", "file", path, "at", pos,
			"got", fmt.Sprintf("0x%02x", gotByte), "want", fmt.Sprintf("0x%02x", wantByte))
	}

	sentences, err := segment.Sentences(text, p.lang)
	if err != nil {
		return rep, err
	}
	rep.sentences = len(sentences)

	prevEnd := 0
	for _, s := range sentences {
		if s.Begin < prevEnd || s.End > len(text) || text[s.Begin:s.End] != s.Text {
			rep.violations++
			p.log.Warn("sentence span violated", "file", path, "begin", s.Begin, "end", s.End)
			continue
		}
		prevEnd = s.End

		words, err := s.Words(p.lang)
		if err != nil {
			return rep, err
		}
		rep.words += len(words)
		for _, w := range words {
			if w.Begin < s.Begin || w.End > s.End || text[w.Begin:w.End] != w.Text {
				rep.violations++
				p.log.Warn("word span violated", "file", path, "begin", w.Begin, "end", w.End)
			}
		}
	}

	p.log.Debug("checked", "file", filepath.Base(path), "sentences", rep.sentences, "words", rep.words)
	return rep, nil
}

func (s *checkStats) fail() {
	s.mu.Lock()
	s.filesFailed++
	s.mu.Unlock()
}

func (s *checkStats) merge(rep fileReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filesScanned++
	s.totalBytes += rep.bytes
	s.sentences += rep.sentences
	s.words += rep.words
	s.violations += rep.violations
	if rep.maskFailed {
		s.maskFail++
	} else {
		s.maskOK++
	}
	s.fileRatios = append(s.fileRatios, fileRatio{
		path:       rep.path,
		sentences:  rep.sentences,
		paragraphs: rep.paragraphs,
		ratio:      float64(rep.sentences) / float64(rep.paragraphs),
	})
}

// flagSentenceOutliers computes the median sentence/paragraph ratio across all
// files and flags any file whose ratio exceeds 3x the median.
func flagSentenceOutliers(p *processor, stats *checkStats) {
	if len(stats.fileRatios) == 0 {
		return
	}

	ratios := make([]float64, len(stats.fileRatios))
	for i, fr := range stats.fileRatios {
		ratios[i] = fr.ratio
	}
	med := computeMedian(ratios)

	for _, fr := range stats.fileRatios {
		if med > 0 && fr.ratio > 3*med {
			stats.outliers++
			p.log.Warn("sentence outlier", "file", fr.path, "sentences", fr.sentences,
				"paragraphs", fr.paragraphs, "ratio", fr.ratio, "median", med)
		}
	}
}

// firstDivergence finds the byte position where two strings first differ.
// Returns the position and the differing bytes from each string.
func firstDivergence(original, reconstructed string) (pos int, got, want byte) {
	n := min(len(original), len(reconstructed))
	for i := range n {
		if original[i] != reconstructed[i] {
			return i, reconstructed[i], original[i]
		}
	}
	pos = n
	if pos < len(reconstructed) {
		got = reconstructed[pos]
	}
	if pos < len(original) {
		want = original[pos]
	}
	return pos, got, want
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func printStats(w io.Writer, stats *checkStats) {
	fmt.Fprintf(w, "Files scanned:           %d\n", stats.filesScanned)
	fmt.Fprintf(w, "Files failed:            %d\n", stats.filesFailed)
	fmt.Fprintf(w, "Total bytes:             %d\n", stats.totalBytes)
	fmt.Fprintf(w, "Sentences:               %d\n", stats.sentences)
	fmt.Fprintf(w, "Words:                   %d\n", stats.words)
	fmt.Fprintf(w, "Mask round trip OK:      %d\n", stats.maskOK)
	fmt.Fprintf(w, "Mask round trip FAIL:    %d\n", stats.maskFail)
	fmt.Fprintf(w, "Span violations:         %d\n", stats.violations)
	fmt.Fprintf(w, "Sentence outliers:       %d\n", stats.outliers)
}
