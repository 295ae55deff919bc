package repository

import (
	"context"

	"plaintdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenerationJobRepository handles database operations for generation jobs
type GenerationJobRepository struct {
	db *pgxpool.Pool
}

// NewGenerationJobRepository creates a new generation job repository
func NewGenerationJobRepository(db *pgxpool.Pool) *GenerationJobRepository {
	return &GenerationJobRepository{db: db}
}

const jobColumns = `id, plaint_id, status, current_step, steps, file_id, error_message,
	created_at, updated_at, completed_at`

func scanJob(row pgx.Row) (*models.GenerationJob, error) {
	job := &models.GenerationJob{}
	err := row.Scan(
		&job.ID,
		&job.PlaintID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.FileID,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if job.Steps == nil {
		job.Steps = make(models.GenerationSteps, 0)
	}
	return job, nil
}

// Create creates a new generation job
func (r *GenerationJobRepository) Create(ctx context.Context, job *models.GenerationJob) error {
	query := `
		INSERT INTO generation_jobs (
			plaint_id, status, current_step, steps, error_message
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.PlaintID,
		job.Status,
		job.CurrentStep,
		job.Steps,
		job.ErrorMessage,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return mapError(err)
}

// GetByID retrieves a generation job by ID
func (r *GenerationJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE id = $1`
	return scanJob(r.db.QueryRow(ctx, query, id))
}

// GetLatestByPlaintID retrieves the most recent job for a plaint
func (r *GenerationJobRepository) GetLatestByPlaintID(ctx context.Context, plaintID uuid.UUID) (*models.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs
		WHERE plaint_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	return scanJob(r.db.QueryRow(ctx, query, plaintID))
}

// UpdateStatus updates the status of a generation job
func (r *GenerationJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.GenerationJobStatus) error {
	query := `UPDATE generation_jobs SET status = $2, updated_at = NOW() WHERE id = $1`
	return rowsAffected(r.db.Exec(ctx, query, id, status))
}

// UpdateProgress records the current step and the step list
func (r *GenerationJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.GenerationSteps) error {
	query := `
		UPDATE generation_jobs SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	return rowsAffected(r.db.Exec(ctx, query, id, currentStep, steps))
}

// Complete marks a generation job as completed with the rendered document
func (r *GenerationJobRepository) Complete(ctx context.Context, id uuid.UUID, fileID uuid.UUID) error {
	query := `
		UPDATE generation_jobs SET
			status = $2,
			file_id = $3,
			completed_at = NOW(),
			updated_at = NOW()
		WHERE id = $1`

	return rowsAffected(r.db.Exec(ctx, query, id, models.JobStatusCompleted, fileID))
}

// Fail marks a generation job as failed
func (r *GenerationJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE generation_jobs SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	return rowsAffected(r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage))
}
