package rag

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "strips_stopwords_and_short_tokens",
			message: "Posso beber cerveja na rua no Japão?",
			want:    []string{"beber", "cerveja", "rua", "japao"},
		},
		{
			name:    "only_stopwords_yields_empty",
			message: "que para com uma sobre",
			want:    []string{},
		},
		{
			name:    "deduplicates_repeated_terms",
			message: "cannabis cannabis cannabis maconha maconha",
			want:    []string{"cannabis", "maconha"},
		},
		{
			name:    "empty_message",
			message: "",
			want:    []string{},
		},
		{
			name:    "accented_stopwords_removed",
			message: "Vocês são permitidos beber álcool?",
			want:    []string{"permitidos", "beber", "alcool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.message)
			if got == nil {
				t.Fatal("ExtractKeywords returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}
