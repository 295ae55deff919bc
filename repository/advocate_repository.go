package repository

import (
	"context"
	"strings"

	"plaintdraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdvocateRepository handles database operations for advocate accounts
type AdvocateRepository struct {
	db *pgxpool.Pool
}

// NewAdvocateRepository creates a new advocate repository
func NewAdvocateRepository(db *pgxpool.Pool) *AdvocateRepository {
	return &AdvocateRepository{db: db}
}

const advocateColumns = `id, email, password_hash, name, enrolment_number, address, phone, created_at, updated_at`

func scanAdvocate(row pgx.Row) (*models.AdvocateAccount, error) {
	a := &models.AdvocateAccount{}
	err := row.Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.Name,
		&a.EnrolmentNumber,
		&a.Address,
		&a.Phone,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

// Create inserts an advocate. Emails are stored lower case.
func (r *AdvocateRepository) Create(ctx context.Context, a *models.AdvocateAccount) error {
	query := `
		INSERT INTO advocates (email, password_hash, name, enrolment_number, address, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	err := r.db.QueryRow(ctx, query,
		a.Email,
		a.PasswordHash,
		a.Name,
		a.EnrolmentNumber,
		a.Address,
		a.Phone,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	return mapError(err)
}

// GetByEmail retrieves an advocate by email, ignoring case
func (r *AdvocateRepository) GetByEmail(ctx context.Context, email string) (*models.AdvocateAccount, error) {
	query := `SELECT ` + advocateColumns + ` FROM advocates WHERE email = $1`
	return scanAdvocate(r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
}

// GetByID retrieves an advocate by ID
func (r *AdvocateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdvocateAccount, error) {
	query := `SELECT ` + advocateColumns + ` FROM advocates WHERE id = $1`
	return scanAdvocate(r.db.QueryRow(ctx, query, id))
}
