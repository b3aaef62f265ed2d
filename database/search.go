package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cartilha-backend/web/types"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// Embedder turns a search query into the vector the hybrid search
// function compares against stored entry embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SearchService adapts the store for the retrieval pipeline: it owns
// query embedding and flattens the country join to a single
// country_name field before any scoring code sees the rows.
type SearchService struct {
	store    *PostgresStore
	embedder Embedder
	logger   *zap.Logger
}

// NewSearchService builds the retrieval boundary. embedder may be nil
// when no embedding host is configured; the hybrid function then
// ranks lexically only.
func NewSearchService(store *PostgresStore, embedder Embedder, logger *zap.Logger) *SearchService {
	return &SearchService{store: store, embedder: embedder, logger: logger}
}

func scanRetrieved(rows *sql.Rows) ([]types.RetrievedEntry, error) {
	var entries []types.RetrievedEntry
	for rows.Next() {
		var entry types.RetrievedEntry
		var culturalNote sql.NullString
		err := rows.Scan(
			&entry.CountryCode,
			&entry.CountryName,
			&entry.Topic,
			&entry.Status,
			&entry.PlainExplanation,
			&entry.LegalBasis,
			&culturalNote,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan retrieved entry: %w", err)
		}
		entry.CountryCode = strings.TrimSpace(entry.CountryCode)
		if culturalNote.Valid {
			entry.CulturalNote = &culturalNote.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SearchEntriesHybrid calls the server-side search_entries_hybrid
// function. Embedding failures are not fatal here: the lexical leg
// still ranks, and the caller falls back further on a query error.
func (s *SearchService) SearchEntriesHybrid(ctx context.Context, query string, countryCode *string, categoryID *int, limit int) ([]types.RetrievedEntry, error) {
	var embedding any
	if s.embedder != nil && query != "" {
		vec, err := s.embedder.Embed(ctx, query)
		if err != nil {
			s.logger.Warn("Query embedding failed, hybrid search runs lexical-only", zap.Error(err))
		} else {
			embedding = pgvector.NewVector(vec)
		}
	}

	var country sql.NullString
	if countryCode != nil {
		country = sql.NullString{String: strings.ToUpper(*countryCode), Valid: true}
	}
	var category sql.NullInt64
	if categoryID != nil {
		category = sql.NullInt64{Int64: int64(*categoryID), Valid: true}
	}

	rows, err := s.store.DB.QueryContext(ctx,
		`SELECT country_code, country_name, topic, status, plain_explanation, legal_basis, cultural_note
         FROM search_entries_hybrid($1::vector, $2, $3, $4, $5)`,
		embedding, query, country, category, limit)
	if err != nil {
		return nil, fmt.Errorf("hybrid search query failed: %w", err)
	}
	defer rows.Close()

	return scanRetrieved(rows)
}

// EmbedEntry computes and stores the embedding for an entry's text.
// A no-op without an embedder; the hybrid search then ranks that
// entry lexically.
func (s *SearchService) EmbedEntry(ctx context.Context, id uuid.UUID, text string) error {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed entry text: %w", err)
	}
	return s.store.SetEntryEmbedding(ctx, id, pgvector.NewVector(vec))
}

// SearchEntriesByKeyword is the fallback path: approved entries,
// optional country equality, ilike on topic or explanation.
func (s *SearchService) SearchEntriesByKeyword(ctx context.Context, keyword string, countryCode *string, limit int) ([]types.RetrievedEntry, error) {
	var country sql.NullString
	if countryCode != nil {
		country = sql.NullString{String: strings.ToUpper(*countryCode), Valid: true}
	}

	query := `
        SELECT e.country_code, c.name, e.topic, e.status,
               e.plain_explanation, e.legal_basis, e.cultural_note
        FROM cartilha_entries e
        JOIN countries c ON c.code = e.country_code
        WHERE e.moderation_status = 'approved'
          AND ($1 = '' OR e.topic ILIKE '%' || $1 || '%' OR e.plain_explanation ILIKE '%' || $1 || '%')
          AND ($2::CHAR(2) IS NULL OR e.country_code = $2)
        ORDER BY e.updated_at DESC
        LIMIT $3
    `
	rows, err := s.store.DB.QueryContext(ctx, query, keyword, country, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search query failed: %w", err)
	}
	defer rows.Close()

	return scanRetrieved(rows)
}
