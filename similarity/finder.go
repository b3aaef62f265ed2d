package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"

	"cartilha-backend/config"
	"cartilha-backend/web/types"

	"go.uber.org/zap"
)

// EntryLookup fetches existing entries scoped to one country and,
// optionally, one category. A nil categoryID means all categories.
type EntryLookup interface {
	GetEntriesByScope(ctx context.Context, countryCode string, categoryID *int) ([]types.LegalEntry, error)
}

// ProposedEntry is the in-progress admin form state scored against
// existing entries. Partial data is fine: scoring is advisory and
// runs even when validation would reject the entry.
type ProposedEntry struct {
	CountryCode      string
	CategoryID       *int
	Topic            string
	PlainExplanation string
	LegalBasis       string
}

// Finder detects near-duplicate entries while an admin types.
type Finder struct {
	cfg    *config.Config
	store  EntryLookup
	logger *zap.Logger
}

func NewFinder(cfg *config.Config, store EntryLookup, logger *zap.Logger) *Finder {
	return &Finder{cfg: cfg, store: store, logger: logger}
}

// CheckEntry fetches the country/category scope from the store and
// scores the proposed entry against it. Duplicate detection is
// advisory, not blocking: a failed scope query yields an empty
// candidate list, never an error.
func (f *Finder) CheckEntry(ctx context.Context, proposed ProposedEntry) []types.SimilarityCandidate {
	existing, err := f.store.GetEntriesByScope(ctx, proposed.CountryCode, proposed.CategoryID)
	if err != nil {
		f.logger.Warn("Duplicate scope query failed, returning no candidates",
			zap.Error(err),
			zap.String("country_code", proposed.CountryCode))
		return []types.SimilarityCandidate{}
	}
	return f.FindSimilar(proposed, existing)
}

// FindSimilar scores proposed against a snapshot of existing entries
// and returns the candidates above threshold, best first, capped.
// Pure over its inputs; the snapshot is never mutated.
func (f *Finder) FindSimilar(proposed ProposedEntry, existing []types.LegalEntry) []types.SimilarityCandidate {
	topicPrune := f.cfg.TopicPruneThreshold
	if topicPrune <= 0 || topicPrune > 1 {
		topicPrune = 0.4
	}
	combinedKeep := f.cfg.CombinedKeepThreshold
	if combinedKeep <= 0 || combinedKeep > 1 {
		combinedKeep = 0.35
	}
	topicWeight := f.cfg.TopicWeight
	contentWeight := f.cfg.ContentWeight
	if topicWeight <= 0 || contentWeight <= 0 || topicWeight+contentWeight > 1 {
		topicWeight, contentWeight = 0.6, 0.4
	}
	maxCandidates := f.cfg.MaxSimilarCandidates
	if maxCandidates <= 0 {
		maxCandidates = 5
	}

	proposedContent := proposed.PlainExplanation + " " + proposed.LegalBasis

	candidates := make([]types.SimilarityCandidate, 0)
	for _, entry := range existing {
		topicSim := ClassifyTopics(proposed.Topic, entry.Topic)

		// Cheap prune before the content comparison
		if topicSim.Score < topicPrune {
			continue
		}

		contentSim := Jaccard(proposedContent, entry.PlainExplanation+" "+entry.LegalBasis)
		combined := topicWeight*topicSim.Score + contentWeight*contentSim
		if combined < combinedKeep {
			continue
		}

		score := int(math.Round(combined * 100))
		reason := topicSim.Reason
		if reason == "" {
			reason = fmt.Sprintf("%d%% similar", score)
		}

		candidates = append(candidates, types.SimilarityCandidate{
			ID:               entry.ID,
			Topic:            entry.Topic,
			Status:           entry.Status,
			LegalBasis:       entry.LegalBasis,
			PlainExplanation: entry.PlainExplanation,
			CulturalNote:     entry.CulturalNote,
			Score:            score,
			Reason:           reason,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score == candidates[j].Score {
			return candidates[i].Topic < candidates[j].Topic
		}
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}
