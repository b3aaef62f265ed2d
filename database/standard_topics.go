package database

import (
	"context"
	"fmt"
	"strings"

	"cartilha-backend/web/types"

	"github.com/lib/pq"
)

// GetStandardTopics returns curated topic labels, optionally scoped
// to one category. Feeds the topic-suggestion step of validation.
func (s *PostgresStore) GetStandardTopics(ctx context.Context, categoryID *int) ([]types.StandardTopic, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT id, topic_name, category_id, keywords FROM standard_topics`)
	var args []any

	if categoryID != nil {
		builder.WriteString(" WHERE category_id = $1")
		args = append(args, *categoryID)
	}
	builder.WriteString(" ORDER BY topic_name")

	rows, err := s.DB.QueryContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query standard topics: %w", err)
	}
	defer rows.Close()

	var topics []types.StandardTopic
	for rows.Next() {
		var topic types.StandardTopic
		if err := rows.Scan(&topic.ID, &topic.TopicName, &topic.CategoryID, pq.Array(&topic.Keywords)); err != nil {
			return nil, fmt.Errorf("failed to scan standard topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// UpsertStandardTopic creates or renames a curated topic.
func (s *PostgresStore) UpsertStandardTopic(ctx context.Context, topic types.StandardTopic) error {
	if topic.ID > 0 {
		_, err := s.DB.ExecContext(ctx,
			`UPDATE standard_topics SET topic_name = $2, category_id = $3, keywords = $4 WHERE id = $1`,
			topic.ID, topic.TopicName, topic.CategoryID, pq.Array(topic.Keywords))
		if err != nil {
			return fmt.Errorf("failed to update standard topic: %w", err)
		}
		return nil
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO standard_topics (topic_name, category_id, keywords) VALUES ($1, $2, $3)`,
		topic.TopicName, topic.CategoryID, pq.Array(topic.Keywords))
	if err != nil {
		return fmt.Errorf("failed to insert standard topic: %w", err)
	}
	return nil
}
