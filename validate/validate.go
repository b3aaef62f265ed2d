// Package validate checks proposed cartilha entries before they are
// persisted and suggests standardized topic wording. Validation
// errors block persistence; they never block similarity scoring,
// which is advisory and runs on partial data.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cartilha-backend/web/types"

	"go.uber.org/zap"
)

// EntryInput is the admin form state under validation.
type EntryInput struct {
	CountryCode      string `json:"country_code"`
	CategoryID       int    `json:"category_id"`
	Topic            string `json:"topic"`
	Status           string `json:"status"`
	LegalBasis       string `json:"legal_basis"`
	PlainExplanation string `json:"plain_explanation"`
}

// StandardTopicLookup fetches curated topics, optionally scoped to a
// category.
type StandardTopicLookup interface {
	GetStandardTopics(ctx context.Context, categoryID *int) ([]types.StandardTopic, error)
}

var blockedWords = []string{"spam", "test123", "asdf", "xxx", "fake"}

var placeholderPattern = regexp.MustCompile(`(?i)^(test|teste|exemplo|sample|lorem)`)

// CheckFields validates the entry fields themselves. Pure; no store
// access. Malformed status is an error, never coerced.
func CheckFields(in EntryInput) (errs []string, warnings []string) {
	if len(in.CountryCode) != 2 {
		errs = append(errs, "País inválido")
	}
	if in.CategoryID < 1 {
		errs = append(errs, "Categoria obrigatória")
	}
	if len(strings.TrimSpace(in.Topic)) < 3 {
		errs = append(errs, "Tópico deve ter pelo menos 3 caracteres")
	}
	if !types.ValidStatus(in.Status) {
		errs = append(errs, "Status inválido")
	}
	if len(strings.TrimSpace(in.LegalBasis)) < 5 {
		errs = append(errs, "Base legal deve ter pelo menos 5 caracteres")
	}
	if len(strings.TrimSpace(in.PlainExplanation)) < 20 {
		errs = append(errs, "Explicação deve ter pelo menos 20 caracteres")
	}

	if len(in.Topic) > 100 {
		warnings = append(warnings, "Tópico muito longo, considere resumir")
	}
	if len(in.PlainExplanation) > 1000 {
		warnings = append(warnings, "Explicação muito longa, considere resumir")
	}

	allText := strings.ToLower(in.Topic + " " + in.LegalBasis + " " + in.PlainExplanation)
	for _, word := range blockedWords {
		if strings.Contains(allText, word) {
			errs = append(errs, fmt.Sprintf("Conteúdo contém palavra bloqueada: %s", word))
		}
	}

	if placeholderPattern.MatchString(in.Topic) {
		warnings = append(warnings, "Tópico parece ser um placeholder")
	}

	return errs, warnings
}

// Validator combines field checks with standard-topic suggestions.
type Validator struct {
	store  StandardTopicLookup
	logger *zap.Logger
}

func NewValidator(store StandardTopicLookup, logger *zap.Logger) *Validator {
	return &Validator{store: store, logger: logger}
}

// Validate returns the full validation verdict for a proposed entry.
// Suggestion lookup failures degrade to no suggestion.
func (v *Validator) Validate(ctx context.Context, in EntryInput) types.ValidationResult {
	errs, warnings := CheckFields(in)

	result := types.ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	if len(in.Topic) >= 3 {
		result.Suggestions = v.suggestTopic(ctx, in.Topic, in.CategoryID)
	}

	return result
}

// suggestTopic scores curated topics against the proposed label:
// exact name wins immediately, partial name counts 5, each keyword
// hit counts 2, and a suggestion needs at least 3 points.
func (v *Validator) suggestTopic(ctx context.Context, topic string, categoryID int) types.TopicSuggestion {
	var scope *int
	if categoryID > 0 {
		scope = &categoryID
	}

	standards, err := v.store.GetStandardTopics(ctx, scope)
	if err != nil {
		v.logger.Warn("Standard topic lookup failed, skipping suggestion", zap.Error(err))
		return types.TopicSuggestion{}
	}
	if len(standards) == 0 {
		return types.TopicSuggestion{}
	}

	normalized := strings.ToLower(strings.TrimSpace(topic))

	var best *types.StandardTopic
	bestScore := 0
	for i := range standards {
		std := &standards[i]
		name := strings.ToLower(std.TopicName)

		if name == normalized {
			return types.TopicSuggestion{Topic: std.TopicName, Category: std.CategoryID}
		}

		score := 0
		if strings.Contains(name, normalized) || strings.Contains(normalized, name) {
			score += 5
		}
		for _, kw := range std.Keywords {
			if strings.Contains(normalized, strings.ToLower(kw)) {
				score += 2
			}
		}

		if score > bestScore {
			bestScore = score
			best = std
		}
	}

	if best != nil && bestScore >= 3 {
		return types.TopicSuggestion{Topic: best.TopicName, Category: best.CategoryID}
	}
	return types.TopicSuggestion{}
}
