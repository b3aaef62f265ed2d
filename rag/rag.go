package rag

import (
	"context"

	"cartilha-backend/config"
	"cartilha-backend/web/types"

	"go.uber.org/zap"
)

// Pipeline runs one full RAG pass per chat turn. Stateless between
// calls; overlapping invocations never share mutable state, so stale
// results are the caller's concern.
type Pipeline struct {
	retriever *Retriever
	logger    *zap.Logger
}

func New(cfg *config.Config, store SearchStore, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		retriever: NewRetriever(cfg, store, logger),
		logger:    logger,
	}
}

// Perform extracts keywords and country hints from the message,
// retrieves matching entries and assembles the completion prompt.
// Always returns a usable prompt, even when retrieval comes back
// empty.
func (p *Pipeline) Perform(ctx context.Context, message string, chatCtx *types.ChatContext) (string, types.RAGResult) {
	keywords := ExtractKeywords(message)
	detectedCountries := DetectCountries(message)

	explicitCountry := ""
	if chatCtx != nil {
		explicitCountry = chatCtx.CountryCode
	}

	entries := p.retriever.Retrieve(ctx, keywords, explicitCountry, detectedCountries)

	p.logger.Debug("RAG pass complete",
		zap.Int("keywords", len(keywords)),
		zap.Strings("detected_countries", detectedCountries),
		zap.Int("entries", len(entries)))

	prompt := BuildPrompt(message, entries, chatCtx)

	return prompt, types.RAGResult{
		Entries:           entries,
		Keywords:          keywords,
		DetectedCountries: detectedCountries,
	}
}
