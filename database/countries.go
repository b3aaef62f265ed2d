package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cartilha-backend/web/types"

	apperrors "cartilha-backend/errors"

	"github.com/lib/pq"
)

func (s *PostgresStore) ListCountries(ctx context.Context) ([]types.Country, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT code, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	var countries []types.Country
	for rows.Next() {
		var c types.Country
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		c.Code = strings.TrimSpace(c.Code)
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

func (s *PostgresStore) GetCountry(ctx context.Context, code string) (types.Country, error) {
	var c types.Country
	err := s.DB.QueryRowContext(ctx,
		`SELECT code, name FROM countries WHERE code = $1`, strings.ToUpper(code)).
		Scan(&c.Code, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Country{}, apperrors.ErrNotFound
	}
	if err != nil {
		return types.Country{}, fmt.Errorf("failed to fetch country: %w", err)
	}
	c.Code = strings.TrimSpace(c.Code)
	return c, nil
}

// GetCountryStats aggregates entry status counts per country for the
// home page badges.
func (s *PostgresStore) GetCountryStats(ctx context.Context) ([]types.CountryStats, error) {
	query := `
        SELECT country_code,
               COUNT(*) FILTER (WHERE status = 'green'),
               COUNT(*) FILTER (WHERE status = 'yellow'),
               COUNT(*) FILTER (WHERE status = 'red')
        FROM cartilha_entries
        WHERE moderation_status = 'approved'
        GROUP BY country_code
        ORDER BY country_code
    `
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query country stats: %w", err)
	}
	defer rows.Close()

	var stats []types.CountryStats
	for rows.Next() {
		var st types.CountryStats
		if err := rows.Scan(&st.CountryCode, &st.Green, &st.Yellow, &st.Red); err != nil {
			return nil, fmt.Errorf("failed to scan country stats: %w", err)
		}
		st.CountryCode = strings.TrimSpace(st.CountryCode)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// CompareEntries returns approved entries for several countries at
// once, optionally narrowed to one category, for the side-by-side
// comparison view.
func (s *PostgresStore) CompareEntries(ctx context.Context, countryCodes []string, categoryID *int) ([]types.LegalEntry, error) {
	codes := make([]string, 0, len(countryCodes))
	for _, c := range countryCodes {
		codes = append(codes, strings.ToUpper(strings.TrimSpace(c)))
	}

	var builder strings.Builder
	builder.WriteString(`SELECT ` + entryColumns + `
        FROM cartilha_entries
        WHERE moderation_status = 'approved' AND country_code = ANY($1)`)
	args := []any{pq.Array(codes)}

	if categoryID != nil {
		builder.WriteString(fmt.Sprintf(" AND category_id = $%d", len(args)+1))
		args = append(args, *categoryID)
	}
	builder.WriteString(" ORDER BY country_code, topic")

	rows, err := s.DB.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparison entries: %w", err)
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

func (s *PostgresStore) ListCategories(ctx context.Context) ([]types.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
