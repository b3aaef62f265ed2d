package rag

import (
	"reflect"
	"testing"
)

func TestDetectCountries(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "alias_lowercase",
			message: "quais são as leis no brasil?",
			want:    []string{"BR"},
		},
		{
			name:    "alias_mixed_case",
			message: "Posso beber cerveja na rua no Japão?",
			want:    []string{"JP"},
		},
		{
			name:    "demonym",
			message: "um cidadão americano precisa de visto?",
			want:    []string{"US"},
		},
		{
			name:    "bare_code",
			message: "Posso beber no AE?",
			want:    []string{"AE"},
		},
		{
			name:    "lowercase_code_ignored",
			message: "posso beber no ae?",
			want:    []string{},
		},
		{
			name:    "alias_and_code_deduplicated",
			message: "leis do brasil BR",
			want:    []string{"BR"},
		},
		{
			name:    "multiple_aliases_in_table_order",
			message: "comparar dubai com o brasil",
			want:    []string{"BR", "AE"},
		},
		{
			name:    "no_country",
			message: "informações gerais sobre leis",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCountries(tt.message)
			if got == nil {
				t.Fatal("DetectCountries returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectCountries(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}
