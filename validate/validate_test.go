package validate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cartilha-backend/web/types"

	"go.uber.org/zap"
)

type fakeTopicLookup struct {
	topics []types.StandardTopic
	err    error
}

func (f *fakeTopicLookup) GetStandardTopics(ctx context.Context, categoryID *int) ([]types.StandardTopic, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.topics, nil
}

func validInput() EntryInput {
	return EntryInput{
		CountryCode:      "BR",
		CategoryID:       1,
		Topic:            "Consumo de álcool",
		Status:           types.StatusYellow,
		LegalBasis:       "Lei Seca, art. 306",
		PlainExplanation: "Permitido apenas para maiores de dezoito anos em locais autorizados",
	}
}

func TestCheckFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*EntryInput)
		wantErr  string
		wantWarn string
	}{
		{
			name:   "valid_entry",
			mutate: func(in *EntryInput) {},
		},
		{
			name:    "bad_country_code",
			mutate:  func(in *EntryInput) { in.CountryCode = "BRA" },
			wantErr: "País inválido",
		},
		{
			name:    "missing_category",
			mutate:  func(in *EntryInput) { in.CategoryID = 0 },
			wantErr: "Categoria obrigatória",
		},
		{
			name:    "short_topic",
			mutate:  func(in *EntryInput) { in.Topic = "ab" },
			wantErr: "Tópico deve ter pelo menos 3 caracteres",
		},
		{
			name:    "invalid_status_not_coerced",
			mutate:  func(in *EntryInput) { in.Status = "amarelo" },
			wantErr: "Status inválido",
		},
		{
			name:    "short_legal_basis",
			mutate:  func(in *EntryInput) { in.LegalBasis = "Lei" },
			wantErr: "Base legal deve ter pelo menos 5 caracteres",
		},
		{
			name:    "short_explanation",
			mutate:  func(in *EntryInput) { in.PlainExplanation = "muito curta" },
			wantErr: "Explicação deve ter pelo menos 20 caracteres",
		},
		{
			name:    "blocked_word",
			mutate:  func(in *EntryInput) { in.PlainExplanation = "Esta explicação é fake mas tem tamanho suficiente" },
			wantErr: "Conteúdo contém palavra bloqueada: fake",
		},
		{
			name:     "placeholder_topic",
			mutate:   func(in *EntryInput) { in.Topic = "Teste de tópico" },
			wantWarn: "Tópico parece ser um placeholder",
		},
		{
			name:     "overlong_topic",
			mutate:   func(in *EntryInput) { in.Topic = strings.Repeat("a", 101) },
			wantWarn: "Tópico muito longo, considere resumir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			errs, warnings := CheckFields(in)

			if tt.wantErr == "" && tt.wantWarn == "" {
				if len(errs) != 0 || len(warnings) != 0 {
					t.Fatalf("CheckFields = errs %v, warnings %v, want none", errs, warnings)
				}
				return
			}
			if tt.wantErr != "" && !contains(errs, tt.wantErr) {
				t.Errorf("errors %v missing %q", errs, tt.wantErr)
			}
			if tt.wantWarn != "" && !contains(warnings, tt.wantWarn) {
				t.Errorf("warnings %v missing %q", warnings, tt.wantWarn)
			}
		})
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestValidateSuggestions(t *testing.T) {
	standards := []types.StandardTopic{
		{ID: 1, TopicName: "Consumo de álcool", CategoryID: 2, Keywords: []string{"alcool", "cerveja", "bebida"}},
		{ID: 2, TopicName: "Porte de arma", CategoryID: 3, Keywords: []string{"arma", "armamento"}},
	}

	tests := []struct {
		name      string
		topic     string
		wantTopic string
	}{
		{
			name:      "exact_match_wins",
			topic:     "consumo de álcool",
			wantTopic: "Consumo de álcool",
		},
		{
			name:      "partial_name_match",
			topic:     "Consumo de álcool na rua",
			wantTopic: "Consumo de álcool",
		},
		{
			name:      "keyword_hits_reach_threshold",
			topic:     "beber cerveja e outra bebida",
			wantTopic: "Consumo de álcool",
		},
		{
			name:      "keyword_substring_hits",
			topic:     "licença de armamento pesado",
			wantTopic: "Porte de arma",
		},
		{
			name:      "single_keyword_below_threshold",
			topic:     "bebida tradicional regional",
			wantTopic: "",
		},
		{
			name:      "no_relation_no_suggestion",
			topic:     "Gorjetas em restaurantes",
			wantTopic: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(&fakeTopicLookup{topics: standards}, zap.NewNop())
			in := validInput()
			in.Topic = tt.topic

			result := v.Validate(context.Background(), in)
			if result.Suggestions.Topic != tt.wantTopic {
				t.Errorf("suggestion = %q, want %q", result.Suggestions.Topic, tt.wantTopic)
			}
		})
	}
}

func TestValidateLookupFailureDegrades(t *testing.T) {
	v := NewValidator(&fakeTopicLookup{err: errors.New("connection refused")}, zap.NewNop())

	result := v.Validate(context.Background(), validInput())
	if !result.Valid {
		t.Errorf("Valid = false, want field validation unaffected by lookup failure")
	}
	if result.Suggestions.Topic != "" {
		t.Errorf("suggestion = %q, want none on lookup failure", result.Suggestions.Topic)
	}
	if result.Errors == nil || result.Warnings == nil {
		t.Error("Errors and Warnings must be non-nil slices")
	}
}
