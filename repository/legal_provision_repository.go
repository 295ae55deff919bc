package repository

import (
	"context"
	"fmt"
	"strings"

	"plaintdraft-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LegalProvisionRepository searches statutory provisions used as drafting context
type LegalProvisionRepository struct {
	db *pgxpool.Pool
}

// NewLegalProvisionRepository creates a new legal provision repository
func NewLegalProvisionRepository(db *pgxpool.Pool) *LegalProvisionRepository {
	return &LegalProvisionRepository{db: db}
}

// Upsert inserts a provision or replaces the one with the same act and section
func (r *LegalProvisionRepository) Upsert(ctx context.Context, p *models.LegalProvision) error {
	query := `
		INSERT INTO legal_provisions (act, section, title, body, topics)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (act, section) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			topics = EXCLUDED.topics
		RETURNING id`

	topics := p.Topics
	if topics == nil {
		topics = []string{}
	}
	err := r.db.QueryRow(ctx, query, p.Act, p.Section, p.Title, p.Text, topics).Scan(&p.ID)
	return mapError(err)
}

// SearchByTopic returns provisions tagged with topic or whose text matches it,
// best match first. An empty topic returns nothing.
func (r *LegalProvisionRepository) SearchByTopic(ctx context.Context, topic string, limit int) ([]models.LegalProvision, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return []models.LegalProvision{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT id, act, section, title, body, topics,
			ts_rank(search_vector, plainto_tsquery('english', $1)) AS rank
		FROM legal_provisions
		WHERE $2 = ANY(topics)
			OR search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ($2 = ANY(topics)) DESC, rank DESC, act, section
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, topic, strings.ToLower(topic), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal provisions: %w", err)
	}
	defer rows.Close()

	provisions := make([]models.LegalProvision, 0)
	for rows.Next() {
		var p models.LegalProvision
		var rank float32
		if err := rows.Scan(&p.ID, &p.Act, &p.Section, &p.Title, &p.Text, &p.Topics, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan legal provision: %w", err)
		}
		p.Rank = float64(rank)
		provisions = append(provisions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal provisions: %w", err)
	}

	return provisions, nil
}
