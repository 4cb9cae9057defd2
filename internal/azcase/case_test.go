package azcase

import "testing"

func TestLower(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    rune
		want rune
	}{
		{"ascii I to dotless", 'I', 'ı'},
		{"dotted İ to i", 'İ', 'i'},
		{"lowercase a", 'A', 'a'},
		{"already lowercase", 'b', 'b'},
		{"schwa upper", 'Ə', 'ə'},
		{"dot unchanged", '.', '.'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Lower(tt.r); got != tt.want {
				t.Errorf("Lower(%q) = %q, want %q", tt.r, got, tt.want)
			}
		})
	}
}

func TestToLower(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"turkic I", "KITAB", "kıtab"},
		{"dotted İ", "İstanbul", "istanbul"},
		{"mixed", "Azərbaycan", "azərbaycan"},
		{"empty", "", ""},
		{"already lower", "kitab", "kitab"},
		{"dotted abbreviation", "AZ.R.", "az.r."},
		{"schwa abbreviation", "E.Ə.", "e.ə."},
		{"professor", "Prof.", "prof."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ToLower(tt.input); got != tt.want {
				t.Errorf("ToLower(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func BenchmarkToLower_AlreadyLower(b *testing.B) {
	s := "kitablarımızdan"
	for b.Loop() {
		ToLower(s)
	}
}

func BenchmarkToLower_Abbreviation(b *testing.B) {
	s := "Prof."
	for b.Loop() {
		ToLower(s)
	}
}
