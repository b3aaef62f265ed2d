package textnorm

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "accents_stripped",
			in:   "Informações não permitidas",
			want: []string{"informacoes", "nao", "permitidas"},
		},
		{
			name: "punctuation_becomes_space",
			in:   "beijo,em-público!",
			want: []string{"beijo", "publico"},
		},
		{
			name: "short_tokens_dropped",
			in:   "a lei do se eu ir",
			want: []string{"lei"},
		},
		{
			name: "empty_input",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace_only",
			in:   "   \t\n  ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokens(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// Re-normalizing already-normalized text must be a no-op at the token
// level.
func TestTokensIdempotent(t *testing.T) {
	inputs := []string{
		"Maconha recreativa é proibida?",
		"Beijo em público: tolerado, mas pode gerar multa.",
		"ÁÉÍÓÚ àèìòù ç ñ",
	}
	for _, in := range inputs {
		once := Tokens(in)
		again := Tokens(strings.Join(once, " "))
		if !reflect.DeepEqual(once, again) {
			t.Errorf("Tokens not idempotent for %q: %v vs %v", in, once, again)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("NÃO"); got != "nao" {
		t.Errorf("Fold(NÃO) = %q, want nao", got)
	}
	if got := Fold("coração"); got != "coracao" {
		t.Errorf("Fold(coração) = %q, want coracao", got)
	}
}
