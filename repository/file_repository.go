package repository

import (
	"context"

	"plaintdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileRepository handles database operations for rendered documents
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `id, advocate_id, plaint_id, filename, mime_type, size, page_count, storage_path, created_at`

func scanFile(row pgx.Row) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(
		&f.ID,
		&f.AdvocateID,
		&f.PlaintID,
		&f.Filename,
		&f.MimeType,
		&f.Size,
		&f.PageCount,
		&f.StoragePath,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return f, nil
}

// Create inserts a file record. A zero ID is assigned by the database.
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (
			id, advocate_id, plaint_id, filename, mime_type, size, page_count, storage_path
		) VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	var id *uuid.UUID
	if file.ID != uuid.Nil {
		id = &file.ID
	}

	err := r.db.QueryRow(
		ctx, query,
		id,
		file.AdvocateID,
		file.PlaintID,
		file.Filename,
		file.MimeType,
		file.Size,
		file.PageCount,
		file.StoragePath,
	).Scan(&file.ID, &file.CreatedAt)

	return mapError(err)
}

// GetByID retrieves a file by ID
func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return scanFile(r.db.QueryRow(ctx, query, id))
}

// ListByPlaintID retrieves every rendering of a plaint, newest first
func (r *FileRepository) ListByPlaintID(ctx context.Context, plaintID uuid.UUID) ([]*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE plaint_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, plaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]*models.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// Delete deletes a file record
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return rowsAffected(r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id))
}
