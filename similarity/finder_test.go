package similarity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cartilha-backend/config"
	"cartilha-backend/web/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeEntryLookup struct {
	entries []types.LegalEntry
	err     error
}

func (f *fakeEntryLookup) GetEntriesByScope(ctx context.Context, countryCode string, categoryID *int) ([]types.LegalEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func testFinderConfig() *config.Config {
	return &config.Config{
		TopicPruneThreshold:   0.4,
		CombinedKeepThreshold: 0.35,
		TopicWeight:           0.6,
		ContentWeight:         0.4,
		MaxSimilarCandidates:  5,
	}
}

func TestFindSimilarSpellingVariant(t *testing.T) {
	finder := NewFinder(testFinderConfig(), nil, zap.NewNop())

	existing := []types.LegalEntry{
		{
			ID:               uuid.New(),
			CountryCode:      "AE",
			Topic:            "Beijo em público",
			Status:           types.StatusYellow,
			PlainExplanation: "Tolerado mas pode gerar multa",
		},
	}
	proposed := ProposedEntry{
		CountryCode:      "AE",
		Topic:            "Beijo em publico",
		PlainExplanation: "Pode resultar em multa",
	}

	got := finder.FindSimilar(proposed, existing)
	if len(got) != 1 {
		t.Fatalf("FindSimilar returned %d candidates, want 1", len(got))
	}
	if got[0].Reason != ReasonSpelling {
		t.Errorf("Reason = %q, want %q", got[0].Reason, ReasonSpelling)
	}
	if got[0].Score < 60 {
		t.Errorf("Score = %d, want >= 60", got[0].Score)
	}
	if got[0].Topic != "Beijo em público" {
		t.Errorf("Topic = %q, want the existing entry's topic", got[0].Topic)
	}
}

func TestFindSimilarPrunesUnrelated(t *testing.T) {
	finder := NewFinder(testFinderConfig(), nil, zap.NewNop())

	existing := []types.LegalEntry{
		{
			ID:               uuid.New(),
			CountryCode:      "BR",
			Topic:            "Aborto",
			Status:           types.StatusRed,
			PlainExplanation: "Proibido salvo exceções legais",
		},
	}
	proposed := ProposedEntry{
		CountryCode:      "BR",
		Topic:            "Maconha recreativa",
		PlainExplanation: "Uso recreativo é crime",
	}

	if got := finder.FindSimilar(proposed, existing); len(got) != 0 {
		t.Fatalf("FindSimilar returned %d candidates, want 0", len(got))
	}
}

func TestFindSimilarThresholdAndCap(t *testing.T) {
	finder := NewFinder(testFinderConfig(), nil, zap.NewNop())

	// More matching entries than the candidate cap allows.
	existing := make([]types.LegalEntry, 0, 8)
	for i := 0; i < 8; i++ {
		existing = append(existing, types.LegalEntry{
			ID:               uuid.New(),
			CountryCode:      "BR",
			Topic:            fmt.Sprintf("Consumo de alcool %d", i),
			Status:           types.StatusYellow,
			PlainExplanation: "Permitido apenas para maiores de idade",
		})
	}
	proposed := ProposedEntry{
		CountryCode:      "BR",
		Topic:            "Consumo de alcool",
		PlainExplanation: "Permitido apenas para maiores de idade",
	}

	got := finder.FindSimilar(proposed, existing)
	if len(got) != 5 {
		t.Fatalf("FindSimilar returned %d candidates, want cap of 5", len(got))
	}
	for i, c := range got {
		if c.Score < 35 {
			t.Errorf("candidate %d score = %d, below keep threshold", i, c.Score)
		}
		if i > 0 && got[i-1].Score < c.Score {
			t.Errorf("candidates not sorted: %d before %d", got[i-1].Score, c.Score)
		}
	}
}

func TestFindSimilarExactDuplicate(t *testing.T) {
	finder := NewFinder(testFinderConfig(), nil, zap.NewNop())

	existing := []types.LegalEntry{
		{
			ID:               uuid.New(),
			CountryCode:      "JP",
			Topic:            "Porte de arma",
			Status:           types.StatusRed,
			PlainExplanation: "Estritamente proibido",
			LegalBasis:       "Lei de controle de armas",
		},
	}
	proposed := ProposedEntry{
		CountryCode:      "JP",
		Topic:            "porte de arma",
		PlainExplanation: "Estritamente proibido",
		LegalBasis:       "Lei de controle de armas",
	}

	got := finder.FindSimilar(proposed, existing)
	if len(got) != 1 {
		t.Fatalf("FindSimilar returned %d candidates, want 1", len(got))
	}
	if got[0].Score != 100 {
		t.Errorf("Score = %d, want 100 for identical topic and content", got[0].Score)
	}
	if got[0].Reason != ReasonIdentical {
		t.Errorf("Reason = %q, want %q", got[0].Reason, ReasonIdentical)
	}
}

func TestCheckEntryStoreFailure(t *testing.T) {
	store := &fakeEntryLookup{err: errors.New("connection refused")}
	finder := NewFinder(testFinderConfig(), store, zap.NewNop())

	got := finder.CheckEntry(context.Background(), ProposedEntry{CountryCode: "BR", Topic: "Aborto"})
	if got == nil {
		t.Fatal("CheckEntry returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("CheckEntry returned %d candidates on store failure, want 0", len(got))
	}
}

func TestFindSimilarZeroConfigFallsBackToDefaults(t *testing.T) {
	finder := NewFinder(&config.Config{}, nil, zap.NewNop())

	existing := []types.LegalEntry{
		{
			ID:               uuid.New(),
			CountryCode:      "US",
			Topic:            "Jaywalking",
			Status:           types.StatusYellow,
			PlainExplanation: "Atravessar fora da faixa pode gerar multa",
		},
	}
	proposed := ProposedEntry{
		CountryCode:      "US",
		Topic:            "Jaywalking",
		PlainExplanation: "Atravessar fora da faixa pode gerar multa",
	}

	got := finder.FindSimilar(proposed, existing)
	if len(got) != 1 || got[0].Score != 100 {
		t.Fatalf("expected one exact match with score 100, got %+v", got)
	}
}
