package rag

import (
	"context"
	"sort"
	"strings"

	"cartilha-backend/config"
	"cartilha-backend/web/types"

	"go.uber.org/zap"
)

// SearchStore is the persistence boundary for retrieval. Both methods
// return entries already flattened to a single country_name field; a
// nil countryCode means unscoped.
type SearchStore interface {
	// SearchEntriesHybrid runs the server-side lexical+semantic search
	// function. Its ranking is opaque to this package. A nil
	// categoryID means all categories; chat has no category context,
	// so retrieval always passes nil here.
	SearchEntriesHybrid(ctx context.Context, query string, countryCode *string, categoryID *int, limit int) ([]types.RetrievedEntry, error)
	// SearchEntriesByKeyword is the resilient fallback: approved
	// entries, optional country equality, ilike on topic/explanation.
	SearchEntriesByKeyword(ctx context.Context, keyword string, countryCode *string, limit int) ([]types.RetrievedEntry, error)
}

// Retriever finds the knowledge entries most relevant to a chat turn.
type Retriever struct {
	cfg    *config.Config
	store  SearchStore
	logger *zap.Logger
}

func NewRetriever(cfg *config.Config, store SearchStore, logger *zap.Logger) *Retriever {
	return &Retriever{cfg: cfg, store: store, logger: logger}
}

// Retrieve returns up to the configured cap of entries for the given
// keywords and country hints. A country detected in the message wins
// over the browsing context. Persistence failures on either path
// degrade to an empty result; retrieval must never surface an error
// to the user.
func (r *Retriever) Retrieve(ctx context.Context, keywords []string, explicitCountry string, detectedCountries []string) []types.RetrievedEntry {
	limit := r.cfg.RAGResults
	if limit <= 0 {
		limit = 5
	}
	maxKeywords := r.cfg.MaxSearchKeywords
	if maxKeywords <= 0 {
		maxKeywords = 5
	}

	var targetCountry *string
	if len(detectedCountries) > 0 {
		code := detectedCountries[0]
		targetCountry = &code
	} else if explicitCountry != "" {
		code := strings.ToUpper(explicitCountry)
		targetCountry = &code
	}

	queryKeywords := keywords
	if len(queryKeywords) > maxKeywords {
		queryKeywords = queryKeywords[:maxKeywords]
	}
	query := strings.Join(queryKeywords, " ")

	if query != "" || targetCountry != nil {
		entries, err := r.store.SearchEntriesHybrid(ctx, query, targetCountry, nil, limit)
		if err != nil {
			r.logger.Warn("Hybrid search failed, falling back to keyword query",
				zap.Error(err),
				zap.String("query", query))
		} else if len(entries) > 0 {
			if len(entries) > limit {
				entries = entries[:limit]
			}
			return entries
		}
	}

	return r.retrieveFallback(ctx, keywords, targetCountry, limit)
}

// retrieveFallback trades ranking precision for resilience: a single
// ilike query on the highest-priority keyword, then a naive
// term-frequency re-rank against the full keyword list.
func (r *Retriever) retrieveFallback(ctx context.Context, keywords []string, targetCountry *string, limit int) []types.RetrievedEntry {
	keyword := ""
	if len(keywords) > 0 {
		keyword = keywords[0]
	}

	entries, err := r.store.SearchEntriesByKeyword(ctx, keyword, targetCountry, limit*2)
	if err != nil {
		r.logger.Warn("Keyword fallback query failed, returning no entries",
			zap.Error(err),
			zap.String("keyword", keyword))
		return []types.RetrievedEntry{}
	}

	return rankByKeywordHits(entries, keywords, limit)
}

// rankByKeywordHits counts how many keywords appear as substrings in
// topic + explanation, case-insensitive, and keeps the best matches.
func rankByKeywordHits(entries []types.RetrievedEntry, keywords []string, limit int) []types.RetrievedEntry {
	type scored struct {
		entry types.RetrievedEntry
		hits  int
	}

	ranked := make([]scored, 0, len(entries))
	for _, entry := range entries {
		text := strings.ToLower(entry.Topic + " " + entry.PlainExplanation)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		ranked = append(ranked, scored{entry: entry, hits: hits})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].hits > ranked[j].hits
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	result := make([]types.RetrievedEntry, 0, len(ranked))
	for _, s := range ranked {
		result = append(result, s.entry)
	}
	return result
}
