package database

import (
	"context"
	"fmt"

	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

type PostgresStore struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(connStr string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	logger.Info("Successfully connected to the database")
	return &PostgresStore{DB: db, logger: logger}, nil
}

// EnsureSchema creates the required tables, indexes and the hybrid
// search function if they do not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	// The vector extension needs superuser on some hosts; the hybrid
	// search function degrades to lexical ranking without it.
	if _, err := s.DB.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		s.logger.Warn("Could not create vector extension, semantic ranking unavailable", zap.Error(err))
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS countries (
            code CHAR(2) PRIMARY KEY,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS categories (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS cartilha_entries (
            id UUID PRIMARY KEY,
            country_code CHAR(2) NOT NULL REFERENCES countries(code),
            category_id INTEGER NOT NULL REFERENCES categories(id),
            topic TEXT NOT NULL,
            status TEXT NOT NULL CHECK (status IN ('green', 'yellow', 'red')),
            legal_basis TEXT NOT NULL DEFAULT '',
            plain_explanation TEXT NOT NULL DEFAULT '',
            cultural_note TEXT,
            moderation_status TEXT NOT NULL DEFAULT 'approved'
                CHECK (moderation_status IN ('pending', 'approved', 'rejected')),
            embedding vector(768),
            created_at TIMESTAMPTZ DEFAULT NOW(),
            updated_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_entries_country ON cartilha_entries(country_code)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_country_category ON cartilha_entries(country_code, category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_moderation ON cartilha_entries(moderation_status)`,
		`CREATE TABLE IF NOT EXISTS standard_topics (
            id SERIAL PRIMARY KEY,
            topic_name TEXT NOT NULL,
            category_id INTEGER REFERENCES categories(id),
            keywords TEXT[] DEFAULT '{}'::TEXT[]
        )`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	// Server-side hybrid search: semantic distance and lexical rank
	// blended 0.7/0.3. Either leg is skipped when its input is NULL,
	// so the function stays usable without embeddings.
	const searchFn = `
        CREATE OR REPLACE FUNCTION search_entries_hybrid(
            query_embedding vector(768),
            query_text TEXT,
            target_country CHAR(2),
            target_category INT,
            result_limit INT
        ) RETURNS TABLE (
            country_code CHAR(2),
            country_name TEXT,
            topic TEXT,
            status TEXT,
            plain_explanation TEXT,
            legal_basis TEXT,
            cultural_note TEXT
        ) AS $$
            SELECT e.country_code, c.name, e.topic, e.status,
                   e.plain_explanation, e.legal_basis, e.cultural_note
            FROM cartilha_entries e
            JOIN countries c ON c.code = e.country_code
            WHERE e.moderation_status = 'approved'
              AND (target_country IS NULL OR e.country_code = target_country)
              AND (target_category IS NULL OR e.category_id = target_category)
              AND (
                    (query_embedding IS NOT NULL AND e.embedding IS NOT NULL)
                 OR (query_text IS NOT NULL AND query_text <> '' AND
                     to_tsvector('portuguese', e.topic || ' ' || e.plain_explanation)
                         @@ plainto_tsquery('portuguese', query_text))
              )
            ORDER BY
                (CASE WHEN query_embedding IS NULL OR e.embedding IS NULL THEN 0
                      ELSE 0.7 * (1 - (e.embedding <=> query_embedding)) END)
              + (CASE WHEN query_text IS NULL OR query_text = '' THEN 0
                      ELSE 0.3 * ts_rank(
                          to_tsvector('portuguese', e.topic || ' ' || e.plain_explanation),
                          plainto_tsquery('portuguese', query_text)) END) DESC
            LIMIT result_limit
        $$ LANGUAGE sql STABLE`

	if _, err := s.DB.ExecContext(ctx, searchFn); err != nil {
		return fmt.Errorf("failed to create hybrid search function: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
