package rag

import (
	"context"
	"errors"
	"testing"

	"cartilha-backend/config"
	"cartilha-backend/web/types"

	"go.uber.org/zap"
)

type fakeSearchStore struct {
	hybridEntries  []types.RetrievedEntry
	hybridErr      error
	keywordEntries []types.RetrievedEntry
	keywordErr     error

	hybridQuery    string
	hybridCountry  *string
	keywordUsed    string
	keywordCountry *string
}

func (f *fakeSearchStore) SearchEntriesHybrid(ctx context.Context, query string, countryCode *string, categoryID *int, limit int) ([]types.RetrievedEntry, error) {
	f.hybridQuery = query
	f.hybridCountry = countryCode
	return f.hybridEntries, f.hybridErr
}

func (f *fakeSearchStore) SearchEntriesByKeyword(ctx context.Context, keyword string, countryCode *string, limit int) ([]types.RetrievedEntry, error) {
	f.keywordUsed = keyword
	f.keywordCountry = countryCode
	return f.keywordEntries, f.keywordErr
}

func testRetrieverConfig() *config.Config {
	return &config.Config{RAGResults: 5, MaxSearchKeywords: 5}
}

func entry(topic, explanation string) types.RetrievedEntry {
	return types.RetrievedEntry{
		CountryCode:      "BR",
		CountryName:      "Brasil",
		Topic:            topic,
		Status:           types.StatusYellow,
		PlainExplanation: explanation,
	}
}

func TestRetrieveHybridSuccess(t *testing.T) {
	store := &fakeSearchStore{
		hybridEntries: []types.RetrievedEntry{entry("Consumo de álcool", "Permitido para maiores")},
	}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	got := r.Retrieve(context.Background(), []string{"alcool", "rua"}, "", []string{"BR"})
	if len(got) != 1 {
		t.Fatalf("Retrieve returned %d entries, want 1", len(got))
	}
	if store.hybridQuery != "alcool rua" {
		t.Errorf("hybrid query = %q, want %q", store.hybridQuery, "alcool rua")
	}
	if store.hybridCountry == nil || *store.hybridCountry != "BR" {
		t.Errorf("hybrid country = %v, want BR", store.hybridCountry)
	}
	if store.keywordUsed != "" {
		t.Error("fallback path ran despite hybrid search succeeding")
	}
}

func TestRetrieveDetectedCountryWinsOverContext(t *testing.T) {
	store := &fakeSearchStore{hybridEntries: []types.RetrievedEntry{entry("a", "b")}}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	r.Retrieve(context.Background(), []string{"leis"}, "jp", []string{"BR", "US"})
	if store.hybridCountry == nil || *store.hybridCountry != "BR" {
		t.Errorf("target country = %v, want detected BR over context jp", store.hybridCountry)
	}
}

func TestRetrieveContextCountryUppercased(t *testing.T) {
	store := &fakeSearchStore{hybridEntries: []types.RetrievedEntry{entry("a", "b")}}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	r.Retrieve(context.Background(), []string{"leis"}, "jp", nil)
	if store.hybridCountry == nil || *store.hybridCountry != "JP" {
		t.Errorf("target country = %v, want JP from browsing context", store.hybridCountry)
	}
}

func TestRetrieveHybridErrorFallsBack(t *testing.T) {
	store := &fakeSearchStore{
		hybridErr:      errors.New("function does not exist"),
		keywordEntries: []types.RetrievedEntry{entry("Gorjetas", "Não obrigatórias")},
	}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	got := r.Retrieve(context.Background(), []string{"gorjetas"}, "", nil)
	if len(got) != 1 || got[0].Topic != "Gorjetas" {
		t.Fatalf("expected fallback entry, got %v", got)
	}
	if store.keywordUsed != "gorjetas" {
		t.Errorf("fallback keyword = %q, want first keyword", store.keywordUsed)
	}
}

func TestRetrieveEmptyHybridFallsBack(t *testing.T) {
	store := &fakeSearchStore{
		keywordEntries: []types.RetrievedEntry{entry("Visto", "Exigido para permanência longa")},
	}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	got := r.Retrieve(context.Background(), []string{"visto"}, "", nil)
	if len(got) != 1 || got[0].Topic != "Visto" {
		t.Fatalf("expected fallback entry when hybrid returns nothing, got %v", got)
	}
}

func TestRetrieveBothPathsFail(t *testing.T) {
	store := &fakeSearchStore{
		hybridErr:  errors.New("down"),
		keywordErr: errors.New("also down"),
	}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	got := r.Retrieve(context.Background(), []string{"leis"}, "", nil)
	if got == nil {
		t.Fatal("Retrieve returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("Retrieve returned %d entries with both paths down, want 0", len(got))
	}
}

func TestRetrieveCapsResults(t *testing.T) {
	many := make([]types.RetrievedEntry, 0, 8)
	for i := 0; i < 8; i++ {
		many = append(many, entry("Tópico", "explicação"))
	}
	store := &fakeSearchStore{hybridEntries: many}
	r := NewRetriever(testRetrieverConfig(), store, zap.NewNop())

	got := r.Retrieve(context.Background(), []string{"leis"}, "", nil)
	if len(got) != 5 {
		t.Fatalf("Retrieve returned %d entries, want cap of 5", len(got))
	}
}

func TestRankByKeywordHits(t *testing.T) {
	entries := []types.RetrievedEntry{
		entry("Gorjetas em restaurantes", "costume, não lei"),
		entry("Consumo de álcool na rua", "permitido beber cerveja em público"),
		entry("Cerveja em eventos", "venda de cerveja liberada"),
	}

	got := rankByKeywordHits(entries, []string{"cerveja", "beber"}, 2)
	if len(got) != 2 {
		t.Fatalf("rankByKeywordHits returned %d entries, want 2", len(got))
	}
	if got[0].Topic != "Consumo de álcool na rua" {
		t.Errorf("best match = %q, want the two-hit entry first", got[0].Topic)
	}
	if got[1].Topic != "Cerveja em eventos" {
		t.Errorf("second match = %q, want the one-hit entry", got[1].Topic)
	}
}
