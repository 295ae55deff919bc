package repository

import (
	"context"
	"errors"
	"fmt"

	"plaintdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaintRepository handles database operations for plaints
type PlaintRepository struct {
	db *pgxpool.Pool
}

// NewPlaintRepository creates a new plaint repository
func NewPlaintRepository(db *pgxpool.Pool) *PlaintRepository {
	return &PlaintRepository{db: db}
}

const plaintColumns = `id, advocate_id, status, case_record, court_fee,
	generated_content, document_file_id, created_at, updated_at, completed_at`

func scanPlaint(row pgx.Row) (*models.Plaint, error) {
	p := &models.Plaint{}
	err := row.Scan(
		&p.ID,
		&p.AdvocateID,
		&p.Status,
		&p.CaseRecord,
		&p.CourtFee,
		&p.GeneratedContent,
		&p.DocumentFileID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CompletedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// Create inserts a plaint and fills in its id and timestamps
func (r *PlaintRepository) Create(ctx context.Context, p *models.Plaint) error {
	query := `
		INSERT INTO plaints (advocate_id, status, case_record, court_fee)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.AdvocateID,
		p.Status,
		p.CaseRecord,
		p.CourtFee,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	return mapError(err)
}

// GetByID retrieves a plaint by ID
func (r *PlaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plaint, error) {
	query := `SELECT ` + plaintColumns + ` FROM plaints WHERE id = $1`
	return scanPlaint(r.db.QueryRow(ctx, query, id))
}

// Update writes the case record, status and fee. When from is given the row
// is only written while its status is one of them.
func (r *PlaintRepository) Update(ctx context.Context, p *models.Plaint, from ...models.PlaintStatus) error {
	query := `
		UPDATE plaints SET
			status = $2,
			case_record = $3,
			court_fee = $4,
			updated_at = NOW()
		WHERE id = $1 AND (cardinality($5::text[]) = 0 OR status = ANY($5))
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.Status,
		p.CaseRecord,
		p.CourtFee,
		statusNames(from),
	).Scan(&p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) && len(from) > 0 {
		return r.missOrConflict(ctx, p.ID)
	}
	return mapError(err)
}

// UpdateStatus changes only the status. When from is given the change only
// applies while the current status is one of them.
func (r *PlaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PlaintStatus, from ...models.PlaintStatus) error {
	query := `
		UPDATE plaints SET status = $2, updated_at = NOW()
		WHERE id = $1 AND (cardinality($3::text[]) = 0 OR status = ANY($3))`

	err := rowsAffected(r.db.Exec(ctx, query, id, status, statusNames(from)))
	if errors.Is(err, ErrNotFound) && len(from) > 0 {
		return r.missOrConflict(ctx, id)
	}
	return err
}

// SetGenerated stores the generated text and rendered document and marks a
// submitted plaint generated
func (r *PlaintRepository) SetGenerated(ctx context.Context, id uuid.UUID, content string, fileID uuid.UUID) error {
	query := `
		UPDATE plaints SET
			status = $2,
			generated_content = $3,
			document_file_id = $4,
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status = $5`

	err := rowsAffected(r.db.Exec(ctx, query, id, models.StatusGenerated, content, fileID, models.StatusSubmitted))
	if errors.Is(err, ErrNotFound) {
		return r.missOrConflict(ctx, id)
	}
	return err
}

// missOrConflict explains why a conditional update matched no row
func (r *PlaintRepository) missOrConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM plaints WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapError(err)
	}
	if exists {
		return ErrStatusConflict
	}
	return ErrNotFound
}

func statusNames(statuses []models.PlaintStatus) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

// ListByAdvocateID lists an advocate's plaints, newest first
func (r *PlaintRepository) ListByAdvocateID(ctx context.Context, advocateID uuid.UUID, status *models.PlaintStatus, limit, offset int) ([]*models.Plaint, error) {
	query := `SELECT ` + plaintColumns + ` FROM plaints WHERE advocate_id = $1`

	args := []interface{}{advocateID}
	argIndex := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plaints := make([]*models.Plaint, 0)
	for rows.Next() {
		p, err := scanPlaint(rows)
		if err != nil {
			return nil, err
		}
		plaints = append(plaints, p)
	}

	return plaints, rows.Err()
}

// Delete deletes a plaint
func (r *PlaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return rowsAffected(r.db.Exec(ctx, `DELETE FROM plaints WHERE id = $1`, id))
}
