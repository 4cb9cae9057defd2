package segment_test

import (
	"testing"
	"unicode/utf8"

	"github.com/az-ai-labs/textseg/lang"
	"github.com/az-ai-labs/textseg/segment"
)

func builtin(t testing.TB, code string) *lang.Provider {
	t.Helper()
	p, err := lang.Builtin(code)
	if err != nil {
		t.Fatalf("lang.Builtin(%q): %v", code, err)
	}
	return p
}

// checkSentences verifies the byte offset invariant against the original
// input and that sentences are ordered.
func checkSentences(t *testing.T, input string, sentences []segment.Sentence) {
	t.Helper()
	prevEnd := 0
	for i, s := range sentences {
		if s.Begin < prevEnd || s.End > len(input) || s.Len() != len(s.Text) {
			t.Fatalf("sentence %d out of order or range: %v", i, s.Span)
		}
		if got := input[s.Begin:s.End]; got != s.Text {
			t.Errorf("sentence %d: input[%d:%d]=%q, Text=%q", i, s.Begin, s.End, got, s.Text)
		}
		prevEnd = s.End
	}
}

func TestGreetingSingleSentence(t *testing.T) {
	t.Parallel()

	const input = "Guten Tag Herr Storch,\r\n\r\nvielen Dank für Ihre Mitteilung an uns."
	got, err := segment.Sentences(input, builtin(t, "de"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d sentences, want 1: %q", len(got), segment.Strings(got))
	}

	s := got[0]
	if s.Begin != 0 || s.End != len(input) || s.Text != input {
		t.Errorf("sentence = %v, want the whole input", s.Span)
	}
	if n := utf8.RuneCountInString(s.Text); n != 65 {
		t.Errorf("sentence has %d characters, want 65", n)
	}
	const want = "Guten Tag Herr Storch, vielen Dank für Ihre Mitteilung an uns."
	if got := s.Unformatted(); got != want {
		t.Errorf("Unformatted() = %q, want %q", got, want)
	}
}

func TestGreetingTwoSentences(t *testing.T) {
	t.Parallel()

	const input = "Guten Tag Herr Storch,\r\n\r\nvielen Dank für Ihre Mitteilung an uns. Schade, dass Sie uns verlassen möchten!"
	got, err := segment.Sentences(input, builtin(t, "de"))
	if err != nil {
		t.Fatal(err)
	}
	checkSentences(t, input, got)
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2: %q", len(got), segment.Strings(got))
	}

	second := got[1]
	if second.Text != "Schade, dass Sie uns verlassen möchten!" {
		t.Errorf("second sentence = %q", second.Text)
	}
	// Offsets are bytes; "ü" takes two, so character offset 66 is byte 67.
	if second.Begin != 67 {
		t.Errorf("second sentence begins at byte %d, want 67", second.Begin)
	}
	if n := utf8.RuneCountInString(input[:second.Begin]); n != 66 {
		t.Errorf("second sentence begins at character %d, want 66", n)
	}
}

func TestSentencesBuiltin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		code  string
		input string
		want  []string
	}{
		{"date", "de", "Termin am 31.10.2018 ist fix.",
			[]string{"Termin am 31.10.2018 ist fix."}},
		{"missing space", "de", "Der Betrag wurde abgebucht.Ist die Rechnung korrekt?",
			[]string{"Der Betrag wurde abgebucht.", "Ist die Rechnung korrekt?"}},
		{"abbreviations and time", "de", "Wir treffen uns z.B. morgen um 14.30 Uhr bei Dr. Müller. Bis dann!",
			[]string{"Wir treffen uns z.B. morgen um 14.30 Uhr bei Dr. Müller.", "Bis dann!"}},
		{"stacked abbreviations", "de", "Sprechstunde bei Prof.Dr. Weber. Danke.",
			[]string{"Sprechstunde bei Prof.Dr. Weber.", "Danke."}},
		{"ordinal date", "de", "Am 1. Januar 2020 beginnt es. Danach nicht.",
			[]string{"Am 1. Januar 2020 beginnt es.", "Danach nicht."}},
		{"url", "de", "Besuchen Sie https://www.example.de/pfad?a=1. Danke!",
			[]string{"Besuchen Sie https://www.example.de/pfad?a=1.", "Danke!"}},
		{"initialism", "de", "Er lebt in den U.S.A. seit Jahren. Gut.",
			[]string{"Er lebt in den U.S.A. seit Jahren.", "Gut."}},
		{"english time", "en", "Mr. Smith arrived at 10:30 a.m. yesterday. He left.",
			[]string{"Mr. Smith arrived at 10:30 a.m. yesterday.", "He left."}},
		{"english latin", "en", "Bring fruit, e.g. apples. Thanks.",
			[]string{"Bring fruit, e.g. apples.", "Thanks."}},
		{"azerbaijani", "az", "Prof. Əliyev gəldi. Sonra getdi.",
			[]string{"Prof. Əliyev gəldi.", "Sonra getdi."}},
		{"azerbaijani turkic case", "az", "AZ.R. PREZİDENTİ çıxış etdi. Sonra getdi.",
			[]string{"AZ.R. PREZİDENTİ çıxış etdi.", "Sonra getdi."}},
		{"azerbaijani phrase", "az", "Kitablar, dəftərlər və s. aldıq. Sonra getdik.",
			[]string{"Kitablar, dəftərlər və s. aldıq.", "Sonra getdik."}},
		{"spaced abbreviation", "de", "Wir haben z. B. Äpfel gekauft. Gut.",
			[]string{"Wir haben z. B. Äpfel gekauft.", "Gut."}},
		{"name ends sentence", "de", "Ich heiße Max. Wer bist du?",
			[]string{"Ich heiße Max.", "Wer bist du?"}},
		{"noun ends sentence", "de", "Das ist eine andere Art. Wir gehen.",
			[]string{"Das ist eine andere Art.", "Wir gehen."}},
		{"lowercase no", "en", "The answer is no. We left.",
			[]string{"The answer is no.", "We left."}},
		{"version number", "de", "Version 1.2. Danach kam mehr.",
			[]string{"Version 1.2.", "Danach kam mehr."}},
		{"date without year", "de", "Am 1.2. um 10 Uhr treffen wir uns. Bis dann.",
			[]string{"Am 1.2. um 10 Uhr treffen wir uns.", "Bis dann."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := segment.Sentences(tt.input, builtin(t, tt.code))
			if err != nil {
				t.Fatal(err)
			}
			checkSentences(t, tt.input, got)

			texts := segment.Strings(got)
			if len(texts) != len(tt.want) {
				t.Fatalf("got %q, want %q", texts, tt.want)
			}
			for i := range tt.want {
				if texts[i] != tt.want[i] {
					t.Errorf("[%d]: got %q, want %q", i, texts[i], tt.want[i])
				}
			}
		})
	}
}

func TestOffsetShift(t *testing.T) {
	t.Parallel()

	const input = "Am 31.10.2018 war es. Dann am 1.1.2019 um 9:05 auch. Ende."
	got, err := segment.Sentences(input, builtin(t, "de"))
	if err != nil {
		t.Fatal(err)
	}
	checkSentences(t, input, got)
	if len(got) != 3 {
		t.Fatalf("got %q, want 3 sentences", segment.Strings(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Begin != got[i-1].End+1 {
			t.Errorf("sentence %d begins at %d, want %d", i, got[i].Begin, got[i-1].End+1)
		}
	}
}

func TestQuotedWord(t *testing.T) {
	t.Parallel()

	const input = `Buchung des "Freude im Urlaub. Freude im Leben."-Pakets.`
	got, err := segment.Words(input, builtin(t, "de"))
	if err != nil {
		t.Fatal(err)
	}
	texts := segment.Strings(got)
	if len(texts) != 3 || texts[2] != `"Freude im Urlaub. Freude im Leben."-Pakets` {
		t.Errorf("Words() = %q", texts)
	}
}

func TestMaskIdempotentOnPlainText(t *testing.T) {
	t.Parallel()

	const input = "Das ist ein ganz normaler Satz ohne Besonderheiten"
	for _, code := range lang.Codes() {
		masked, table, err := segment.Mask(input, builtin(t, code))
		if err != nil {
			t.Fatal(err)
		}
		if masked != input || table.Len() != 0 {
			t.Errorf("%s: Mask() = %q with %d tokens, want input unchanged", code, masked, table.Len())
		}
	}
}

func BenchmarkSentences(b *testing.B) {
	p := builtin(b, "de")
	const input = "Guten Tag Herr Storch,\r\n\r\nvielen Dank für Ihre Mitteilung vom 31.10.2018 an uns. " +
		"Wir melden uns z.B. morgen um 14.30 Uhr. Schade, dass Sie uns verlassen möchten!"
	for b.Loop() {
		if _, err := segment.Sentences(input, p); err != nil {
			b.Fatal(err)
		}
	}
}
