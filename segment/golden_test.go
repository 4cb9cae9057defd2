package segment_test

import (
	"encoding/json"
	"flag"
	"os"
	"testing"

	"github.com/az-ai-labs/textseg/segment"
)

var updateGolden = flag.Bool("update", false, "regenerate golden test files")

// goldenCase holds one input and the expected segmentation. Words are
// grouped per sentence.
type goldenCase struct {
	Name        string     `json:"name"`
	Lang        string     `json:"lang"`
	Input       string     `json:"input"`
	Sentences   []string   `json:"sentences"`
	Unformatted []string   `json:"unformatted"`
	Words       [][]string `json:"words"`
}

const goldenPath = "testdata/golden.json"

func TestGolden(t *testing.T) {
	if *updateGolden {
		updateGoldenFile(t)
		return
	}

	data, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Skip("golden.json not found, run with -update to generate")
		}
		t.Fatalf("reading golden file: %v", err)
	}

	var cases []goldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing golden file: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			got := segmentCase(t, tc)
			checkGoldenSpans(t, tc.Input, tc.Lang)

			compareStringSlice(t, "Sentences", tc.Sentences, got.Sentences)
			compareStringSlice(t, "Unformatted", tc.Unformatted, got.Unformatted)
			if len(got.Words) != len(tc.Words) {
				t.Fatalf("Words: got %d sentences, want %d", len(got.Words), len(tc.Words))
			}
			for i := range tc.Words {
				compareStringSlice(t, "Words", tc.Words[i], got.Words[i])
			}
		})
	}
}

// segmentCase runs the full pipeline for tc and returns the result in
// golden form.
func segmentCase(t *testing.T, tc goldenCase) goldenCase {
	t.Helper()

	l := builtin(t, tc.Lang)
	sentences, err := segment.Sentences(tc.Input, l)
	if err != nil {
		t.Fatalf("Sentences: %v", err)
	}

	out := goldenCase{Name: tc.Name, Lang: tc.Lang, Input: tc.Input}
	for _, s := range sentences {
		out.Sentences = append(out.Sentences, s.Text)
		out.Unformatted = append(out.Unformatted, s.Unformatted())

		words, err := s.Words(l)
		if err != nil {
			t.Fatalf("Sentence.Words: %v", err)
		}
		out.Words = append(out.Words, segment.Strings(words))
	}
	return out
}

// checkGoldenSpans verifies the offset invariant for sentences and for the
// words of each sentence against the original input.
func checkGoldenSpans(t *testing.T, input, code string) {
	t.Helper()

	l := builtin(t, code)
	sentences, err := segment.Sentences(input, l)
	if err != nil {
		t.Fatal(err)
	}
	checkSentences(t, input, sentences)
	for _, s := range sentences {
		words, err := s.Words(l)
		if err != nil {
			t.Fatal(err)
		}
		for _, w := range words {
			if w.Begin < s.Begin || w.End > s.End || input[w.Begin:w.End] != w.Text {
				t.Errorf("word %v outside sentence %v or offset mismatch", w.Span, s.Span)
			}
		}
	}
}

func updateGoldenFile(t *testing.T) {
	t.Helper()

	data, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("reading golden file for update: %v", err)
	}

	var cases []goldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing golden file for update: %v", err)
	}

	for i := range cases {
		cases[i] = segmentCase(t, cases[i])
	}

	out, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		t.Fatalf("marshaling golden data: %v", err)
	}
	out = append(out, '\n')

	if err := os.WriteFile(goldenPath, out, 0o644); err != nil {
		t.Fatalf("writing golden file: %v", err)
	}

	t.Log("golden file updated, review with: git diff segment/testdata/golden.json")
}

func compareStringSlice(t *testing.T, label string, want, got []string) {
	t.Helper()

	if len(want) == 0 && len(got) == 0 {
		return
	}

	if len(got) != len(want) {
		t.Errorf("%s: got %d items, want %d\n  got:  %q\n  want: %q",
			label, len(got), len(want), got, want)
		return
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: got %q, want %q", label, i, got[i], want[i])
		}
	}
}
