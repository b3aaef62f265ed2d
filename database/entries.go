package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cartilha-backend/web/types"

	apperrors "cartilha-backend/errors"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// scanEntry reads one cartilha_entries row.
func scanEntry(row interface{ Scan(dest ...any) error }) (types.LegalEntry, error) {
	var entry types.LegalEntry
	var culturalNote sql.NullString
	err := row.Scan(
		&entry.ID,
		&entry.CountryCode,
		&entry.CategoryID,
		&entry.Topic,
		&entry.Status,
		&entry.LegalBasis,
		&entry.PlainExplanation,
		&culturalNote,
		&entry.ModerationStatus,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return types.LegalEntry{}, err
	}
	entry.CountryCode = strings.TrimSpace(entry.CountryCode)
	if culturalNote.Valid {
		entry.CulturalNote = &culturalNote.String
	}
	return entry, nil
}

const entryColumns = `id, country_code, category_id, topic, status, legal_basis,
       plain_explanation, cultural_note, moderation_status, created_at, updated_at`

// GetEntriesByScope returns all entries for a country, optionally
// narrowed to one category. The duplicate finder scores against this
// snapshot.
func (s *PostgresStore) GetEntriesByScope(ctx context.Context, countryCode string, categoryID *int) ([]types.LegalEntry, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ` + entryColumns + ` FROM cartilha_entries WHERE country_code = $1`)
	args := []any{strings.ToUpper(countryCode)}

	if categoryID != nil {
		builder.WriteString(fmt.Sprintf(" AND category_id = $%d", len(args)+1))
		args = append(args, *categoryID)
	}
	builder.WriteString(" ORDER BY created_at")

	rows, err := s.DB.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by scope: %w", err)
	}
	defer rows.Close()

	var entries []types.LegalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListEntries returns entries with optional country and moderation
// filters, newest first.
func (s *PostgresStore) ListEntries(ctx context.Context, countryCode, moderationStatus string) ([]types.LegalEntry, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ` + entryColumns + ` FROM cartilha_entries WHERE 1=1`)
	var args []any

	if countryCode != "" {
		args = append(args, strings.ToUpper(countryCode))
		builder.WriteString(fmt.Sprintf(" AND country_code = $%d", len(args)))
	}
	if moderationStatus != "" {
		args = append(args, moderationStatus)
		builder.WriteString(fmt.Sprintf(" AND moderation_status = $%d", len(args)))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	rows, err := s.DB.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []types.LegalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) GetEntry(ctx context.Context, id uuid.UUID) (types.LegalEntry, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM cartilha_entries WHERE id = $1`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.LegalEntry{}, apperrors.ErrNotFound
	}
	if err != nil {
		return types.LegalEntry{}, fmt.Errorf("failed to fetch entry: %w", err)
	}
	return entry, nil
}

// CreateEntry inserts a new entry and returns its generated ID.
// Status must already be validated by the caller.
func (s *PostgresStore) CreateEntry(ctx context.Context, entry types.LegalEntry) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()

	moderation := entry.ModerationStatus
	if moderation == "" {
		moderation = types.ModerationApproved
	}

	var culturalNote sql.NullString
	if entry.CulturalNote != nil {
		culturalNote = sql.NullString{String: *entry.CulturalNote, Valid: true}
	}

	query := `
        INSERT INTO cartilha_entries
            (id, country_code, category_id, topic, status, legal_basis,
             plain_explanation, cultural_note, moderation_status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
    `
	_, err := s.DB.ExecContext(ctx, query,
		id, strings.ToUpper(entry.CountryCode), entry.CategoryID, entry.Topic, entry.Status,
		entry.LegalBasis, entry.PlainExplanation, culturalNote, moderation, now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return id, nil
}

// UpdateEntry overwrites an existing entry's content fields. Used by
// the admin "overwrite" affordance when a duplicate candidate is
// accepted as the same entry.
func (s *PostgresStore) UpdateEntry(ctx context.Context, id uuid.UUID, entry types.LegalEntry) error {
	var culturalNote sql.NullString
	if entry.CulturalNote != nil {
		culturalNote = sql.NullString{String: *entry.CulturalNote, Valid: true}
	}

	query := `
        UPDATE cartilha_entries
        SET topic = $2, status = $3, legal_basis = $4, plain_explanation = $5,
            cultural_note = $6, category_id = $7, updated_at = NOW()
        WHERE id = $1
    `
	res, err := s.DB.ExecContext(ctx, query,
		id, entry.Topic, entry.Status, entry.LegalBasis, entry.PlainExplanation,
		culturalNote, entry.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM cartilha_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetModerationStatus applies an approve/reject decision.
func (s *PostgresStore) SetModerationStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status != types.ModerationPending && status != types.ModerationApproved && status != types.ModerationRejected {
		return apperrors.ErrInvalidInput
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE cartilha_entries SET moderation_status = $2, updated_at = NOW() WHERE id = $1`,
		id, status)
	if err != nil {
		return fmt.Errorf("failed to set moderation status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetEntryEmbedding stores the embedding used by the semantic leg of
// the hybrid search.
func (s *PostgresStore) SetEntryEmbedding(ctx context.Context, id uuid.UUID, embedding pgvector.Vector) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE cartilha_entries SET embedding = $2::vector WHERE id = $1`, id, embedding)
	if err != nil {
		return fmt.Errorf("failed to store entry embedding: %w", err)
	}
	return nil
}
