package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"plaintdraft-backend/courtfee"
	"plaintdraft-backend/models"
	"plaintdraft-backend/repository"
	"plaintdraft-backend/validation"
)

var (
	ErrPlaintNotFound = errors.New("plaint not found")
	ErrNotEditable    = errors.New("plaint can no longer be edited")
	ErrForbidden      = errors.New("plaint belongs to another advocate")
)

// ValidationError lists the labels of missing or invalid case record fields
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// PlaintStore persists plaints
type PlaintStore interface {
	Create(ctx context.Context, p *models.Plaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plaint, error)
	Update(ctx context.Context, p *models.Plaint, from ...models.PlaintStatus) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PlaintStatus, from ...models.PlaintStatus) error
	SetGenerated(ctx context.Context, id uuid.UUID, content string, fileID uuid.UUID) error
	ListByAdvocateID(ctx context.Context, advocateID uuid.UUID, status *models.PlaintStatus, limit, offset int) ([]*models.Plaint, error)
}

// PlaintService handles business logic for plaints
type PlaintService struct {
	plaintRepo PlaintStore
	logger     *zap.Logger
}

// PlaintServiceOption is a functional option for PlaintService
type PlaintServiceOption func(*PlaintService)

// WithPlaintRepository sets the plaint repository
func WithPlaintRepository(repo PlaintStore) PlaintServiceOption {
	return func(s *PlaintService) {
		s.plaintRepo = repo
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PlaintServiceOption {
	return func(s *PlaintService) {
		s.logger = logger
	}
}

// NewPlaintService creates a new plaint service
func NewPlaintService(opts ...PlaintServiceOption) *PlaintService {
	s := &PlaintService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// courtFeeFor returns the fee to store with a record, nil when the claim is unreadable
func courtFeeFor(rec models.CaseRecord) *float64 {
	fee := courtfee.Calculate(rec.ClaimAmount)
	if !fee.Valid {
		return nil
	}
	return &fee.Amount
}

// CreatePlaintRequest represents a request to create a plaint
type CreatePlaintRequest struct {
	AdvocateID uuid.UUID
	CaseRecord models.CaseRecord
}

// CreatePlaintResult represents the result of creating a plaint
type CreatePlaintResult struct {
	Plaint *models.Plaint
}

// CreatePlaint stores a new draft plaint. Incomplete records are accepted;
// validation happens when the plaint is rendered or generated.
func (s *PlaintService) CreatePlaint(ctx context.Context, req CreatePlaintRequest) (*CreatePlaintResult, error) {
	if s.plaintRepo == nil {
		return nil, errors.New("plaint repository not set")
	}

	rec := req.CaseRecord.Clone()
	plaint := &models.Plaint{
		AdvocateID: req.AdvocateID,
		Status:     models.StatusDraft,
		CaseRecord: rec,
		CourtFee:   courtFeeFor(rec),
	}

	if err := s.plaintRepo.Create(ctx, plaint); err != nil {
		return nil, fmt.Errorf("failed to create plaint: %w", err)
	}

	s.logger.Info("Plaint created",
		zap.String("plaint_id", plaint.ID.String()),
		zap.String("advocate_id", req.AdvocateID.String()))

	return &CreatePlaintResult{Plaint: plaint}, nil
}

// GetPlaintRequest represents a request to get a plaint
type GetPlaintRequest struct {
	ID         uuid.UUID
	AdvocateID uuid.UUID
}

// GetPlaintResult represents the result of getting a plaint
type GetPlaintResult struct {
	Plaint *models.Plaint
}

// GetPlaint retrieves a plaint owned by the requesting advocate
func (s *PlaintService) GetPlaint(ctx context.Context, req GetPlaintRequest) (*GetPlaintResult, error) {
	if s.plaintRepo == nil {
		return nil, errors.New("plaint repository not set")
	}

	plaint, err := s.owned(ctx, req.ID, req.AdvocateID)
	if err != nil {
		return nil, err
	}
	return &GetPlaintResult{Plaint: plaint}, nil
}

func (s *PlaintService) owned(ctx context.Context, id, advocateID uuid.UUID) (*models.Plaint, error) {
	plaint, err := s.plaintRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaintNotFound
		}
		return nil, err
	}
	if plaint.AdvocateID != advocateID {
		return nil, ErrForbidden
	}
	return plaint, nil
}

// UpdatePlaintRequest represents a request to replace a plaint's case record
type UpdatePlaintRequest struct {
	ID         uuid.UUID
	AdvocateID uuid.UUID
	CaseRecord models.CaseRecord
}

// UpdatePlaintResult represents the result of updating a plaint
type UpdatePlaintResult struct {
	Plaint *models.Plaint
}

// UpdatePlaint replaces the case record. Editing a generated plaint returns
// it to draft so the stored document is regenerated.
func (s *PlaintService) UpdatePlaint(ctx context.Context, req UpdatePlaintRequest) (*UpdatePlaintResult, error) {
	if s.plaintRepo == nil {
		return nil, errors.New("plaint repository not set")
	}

	plaint, err := s.owned(ctx, req.ID, req.AdvocateID)
	if err != nil {
		return nil, err
	}
	if !plaint.Editable() {
		return nil, ErrNotEditable
	}

	plaint.CaseRecord = req.CaseRecord.Clone()
	plaint.CourtFee = courtFeeFor(plaint.CaseRecord)
	plaint.Status = models.StatusDraft

	if err := s.plaintRepo.Update(ctx, plaint, models.EditableStatuses...); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlaintNotFound
		}
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrNotEditable
		}
		return nil, fmt.Errorf("failed to update plaint: %w", err)
	}

	return &UpdatePlaintResult{Plaint: plaint}, nil
}

// ListPlaintsRequest represents a request to list plaints
type ListPlaintsRequest struct {
	AdvocateID uuid.UUID
	Status     *models.PlaintStatus
	Limit      int
	Offset     int
}

// ListPlaintsResult represents the result of listing plaints
type ListPlaintsResult struct {
	Plaints []*models.Plaint
}

// ListPlaints lists plaints for an advocate
func (s *PlaintService) ListPlaints(ctx context.Context, req ListPlaintsRequest) (*ListPlaintsResult, error) {
	if s.plaintRepo == nil {
		return nil, errors.New("plaint repository not set")
	}

	plaints, err := s.plaintRepo.ListByAdvocateID(ctx, req.AdvocateID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListPlaintsResult{Plaints: plaints}, nil
}

// ArchivePlaintRequest represents a request to archive a plaint
type ArchivePlaintRequest struct {
	ID         uuid.UUID
	AdvocateID uuid.UUID
}

// ArchivePlaint moves a draft or generated plaint to archived. Archiving
// twice is a no-op; a plaint with a generation job running cannot be archived.
func (s *PlaintService) ArchivePlaint(ctx context.Context, req ArchivePlaintRequest) error {
	if s.plaintRepo == nil {
		return errors.New("plaint repository not set")
	}

	plaint, err := s.owned(ctx, req.ID, req.AdvocateID)
	if err != nil {
		return err
	}
	if plaint.Status == models.StatusArchived {
		return nil
	}
	if !plaint.Editable() {
		return ErrNotEditable
	}

	if err := s.plaintRepo.UpdateStatus(ctx, plaint.ID, models.StatusArchived, models.EditableStatuses...); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlaintNotFound
		}
		if errors.Is(err, repository.ErrStatusConflict) {
			return ErrNotEditable
		}
		return fmt.Errorf("failed to archive plaint: %w", err)
	}
	return nil
}

// ValidateRecord returns a ValidationError when rec cannot be rendered
func ValidateRecord(rec models.CaseRecord) error {
	missing := validation.Validate(rec, courtfee.Calculate(rec.ClaimAmount))
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
