package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plaintdraft-backend/courtfee"
	"plaintdraft-backend/draft"
	"plaintdraft-backend/drafting"
	"plaintdraft-backend/models"
	"plaintdraft-backend/render"
	"plaintdraft-backend/repository"
	"plaintdraft-backend/storage"
	"plaintdraft-backend/validation"
)

// JobStore persists generation jobs
type JobStore interface {
	Create(ctx context.Context, job *models.GenerationJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GenerationJob, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.GenerationJobStatus) error
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.GenerationSteps) error
	Complete(ctx context.Context, id uuid.UUID, fileID uuid.UUID) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// FileStore persists metadata of rendered documents
type FileStore interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
}

// ProvisionSearcher finds statutory provisions for a topic
type ProvisionSearcher interface {
	SearchByTopic(ctx context.Context, topic string, limit int) ([]models.LegalProvision, error)
}

// DraftService renders plaints and runs generation jobs
type DraftService struct {
	plaintRepo    PlaintStore
	jobRepo       JobStore
	fileRepo      FileStore
	provisionRepo ProvisionSearcher
	storage       storage.Storage

	composer  *draft.Composer
	paginator *render.Paginator
	generator drafting.Generator
	validator drafting.Validator

	topics        []string
	provisionsPer int
	jobTimeout    time.Duration

	logger *zap.Logger
	wg     sync.WaitGroup
}

// DraftServiceOption is a functional option for DraftService
type DraftServiceOption func(*DraftService)

// DraftWithPlaintRepository sets the plaint repository
func DraftWithPlaintRepository(repo PlaintStore) DraftServiceOption {
	return func(s *DraftService) {
		s.plaintRepo = repo
	}
}

// DraftWithGenerationJobRepository sets the generation job repository
func DraftWithGenerationJobRepository(repo JobStore) DraftServiceOption {
	return func(s *DraftService) {
		s.jobRepo = repo
	}
}

// DraftWithFileRepository sets the file repository
func DraftWithFileRepository(repo FileStore) DraftServiceOption {
	return func(s *DraftService) {
		s.fileRepo = repo
	}
}

// DraftWithProvisionRepository sets the legal provision repository
func DraftWithProvisionRepository(repo ProvisionSearcher) DraftServiceOption {
	return func(s *DraftService) {
		s.provisionRepo = repo
	}
}

// DraftWithStorage sets where rendered documents are kept
func DraftWithStorage(st storage.Storage) DraftServiceOption {
	return func(s *DraftService) {
		s.storage = st
	}
}

// DraftWithComposer sets the template composer
func DraftWithComposer(c *draft.Composer) DraftServiceOption {
	return func(s *DraftService) {
		s.composer = c
	}
}

// DraftWithPaginator sets the page layout
func DraftWithPaginator(p *render.Paginator) DraftServiceOption {
	return func(s *DraftService) {
		s.paginator = p
	}
}

// DraftWithGenerator sets the drafting strategy used by generation jobs
func DraftWithGenerator(g drafting.Generator) DraftServiceOption {
	return func(s *DraftService) {
		s.generator = g
	}
}

// DraftWithValidator sets the check applied to generated text
func DraftWithValidator(v drafting.Validator) DraftServiceOption {
	return func(s *DraftService) {
		s.validator = v
	}
}

// DraftWithTopics sets the provision topics searched for every job
func DraftWithTopics(topics ...string) DraftServiceOption {
	return func(s *DraftService) {
		s.topics = topics
	}
}

// DraftWithJobTimeout bounds a background job
func DraftWithJobTimeout(d time.Duration) DraftServiceOption {
	return func(s *DraftService) {
		s.jobTimeout = d
	}
}

// DraftWithLogger sets the logger
func DraftWithLogger(logger *zap.Logger) DraftServiceOption {
	return func(s *DraftService) {
		s.logger = logger
	}
}

// DefaultTopics are searched for provisions when none are configured
var DefaultTopics = []string{"breach", "damages", "jurisdiction", "limitation", "plaint"}

// NewDraftService creates a new draft service
func NewDraftService(opts ...DraftServiceOption) *DraftService {
	s := &DraftService{
		topics:        DefaultTopics,
		provisionsPer: 3,
		jobTimeout:    5 * time.Minute,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.composer == nil {
		s.composer = draft.NewComposer()
	}
	if s.paginator == nil {
		s.paginator = render.NewPaginator()
	}
	if s.generator == nil {
		s.generator = drafting.NewTemplateGenerator(s.composer)
	}
	if s.validator == nil {
		s.validator = drafting.NewStructureValidator()
	}
	return s
}

// Generation step names
const (
	StepValidatingFields     = "Validating Fields"
	StepRetrievingProvisions = "Retrieving Provisions"
	StepDraftingPlaint       = "Drafting Plaint"
	StepValidatingDraft      = "Validating Draft"
	StepRenderingPDF         = "Rendering PDF"
	StepStoringDocument      = "Storing Document"
)

var stepOrder = []string{
	StepValidatingFields,
	StepRetrievingProvisions,
	StepDraftingPlaint,
	StepValidatingDraft,
	StepRenderingPDF,
	StepStoringDocument,
}

var (
	ErrJobNotFound       = errors.New("generation job not found")
	ErrJobCreationFailed = errors.New("failed to create generation job")
	ErrFileNotFound      = errors.New("file not found")
	ErrDraftRejected     = errors.New("generated draft failed validation")
)

// ValidateRecordResult reports whether a record can be rendered
type ValidateRecordResult struct {
	Missing []string     `json:"missing"`
	Fee     courtfee.Fee `json:"fee"`
	Valid   bool         `json:"valid"`
}

// Validate computes the fee for rec and lists its missing fields
func (s *DraftService) Validate(_ context.Context, rec models.CaseRecord) *ValidateRecordResult {
	fee := courtfee.Calculate(rec.ClaimAmount)
	missing := validation.Validate(rec, fee)
	if missing == nil {
		missing = []string{}
	}
	return &ValidateRecordResult{Missing: missing, Fee: fee, Valid: len(missing) == 0}
}

// PreviewResult carries the composed draft text
type PreviewResult struct {
	Text string       `json:"text"`
	Fee  courtfee.Fee `json:"fee"`
}

// Preview composes the draft text for rec without rendering it. Incomplete
// records return a *ValidationError.
func (s *DraftService) Preview(_ context.Context, rec models.CaseRecord) (*PreviewResult, error) {
	snapshot := rec.Clone()
	if err := ValidateRecord(snapshot); err != nil {
		return nil, err
	}
	d := s.composer.Compose(snapshot)
	return &PreviewResult{Text: d.String(), Fee: d.Fee}, nil
}

// RenderPDFResult is a rendered plaint
type RenderPDFResult struct {
	PDF      []byte
	Filename string
	Pages    int
	Fee      courtfee.Fee
}

// RenderPDF runs the whole pipeline for rec and returns the PDF bytes.
// Nothing is stored. Incomplete records return a *ValidationError before
// any layout happens.
func (s *DraftService) RenderPDF(_ context.Context, rec models.CaseRecord) (*RenderPDFResult, error) {
	snapshot := rec.Clone()
	if err := ValidateRecord(snapshot); err != nil {
		return nil, err
	}

	d := s.composer.Compose(snapshot)
	doc := s.paginator.Layout(render.Input{
		Body:      d.Body,
		Documents: d.Documents,
		Footer:    d.Verification,
	})

	pdf, err := render.RenderPDF(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return &RenderPDFResult{
		PDF:      pdf,
		Filename: models.PlaintFilename,
		Pages:    len(doc.Pages),
		Fee:      d.Fee,
	}, nil
}

// GenerateDraftRequest represents a request to generate a stored plaint
type GenerateDraftRequest struct {
	PlaintID   uuid.UUID
	AdvocateID uuid.UUID
}

// GenerateDraftResult represents the result of creating a generation job
type GenerateDraftResult struct {
	JobID uuid.UUID
}

// GenerateDraft validates the plaint, creates a generation job and returns
// immediately. The work happens in ProcessDraft.
func (s *DraftService) GenerateDraft(ctx context.Context, req GenerateDraftRequest) (*GenerateDraftResult, error) {
	if s.plaintRepo == nil {
		return nil, errors.New("plaint repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	plaint, err := s.ownedPlaint(ctx, req.PlaintID, req.AdvocateID)
	if err != nil {
		return nil, err
	}
	if !plaint.Editable() {
		return nil, ErrNotEditable
	}
	if err := ValidateRecord(plaint.CaseRecord); err != nil {
		return nil, err
	}

	// Only one request can move the plaint to submitted
	if err := s.plaintRepo.UpdateStatus(ctx, plaint.ID, models.StatusSubmitted, models.EditableStatuses...); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrNotEditable
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPlaintNotFound
		}
		return nil, fmt.Errorf("failed to submit plaint: %w", err)
	}

	job := &models.GenerationJob{
		PlaintID: plaint.ID,
		Status:   models.JobStatusPending,
		Steps:    models.PendingSteps(stepOrder...),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.logger.Error("Failed to create generation job", zap.Error(err))
		if statusErr := s.plaintRepo.UpdateStatus(ctx, plaint.ID, plaint.Status, models.StatusSubmitted); statusErr != nil {
			s.logger.Warn("Failed to release submitted plaint",
				zap.String("plaint_id", plaint.ID.String()), zap.Error(statusErr))
		}
		return nil, ErrJobCreationFailed
	}

	return &GenerateDraftResult{JobID: job.ID}, nil
}

func (s *DraftService) ownedPlaint(ctx context.Context, id, advocateID uuid.UUID) (*models.Plaint, error) {
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

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID      uuid.UUID
	AdvocateID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.GenerationJob
}

// GetJobStatus retrieves a generation job of one of the advocate's plaints
func (s *DraftService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("generation job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if _, err := s.ownedPlaint(ctx, job.PlaintID, req.AdvocateID); err != nil {
		if errors.Is(err, ErrPlaintNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	return &GetJobStatusResult{Job: job}, nil
}

// ProcessDraftAsync runs ProcessDraft in a goroutine with its own deadline.
// Wait blocks until every started job has returned.
func (s *DraftService) ProcessDraftAsync(jobID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		if err := s.ProcessDraft(ctx, jobID); err != nil {
			s.logger.Error("Generation job failed",
				zap.String("job_id", jobID.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until background jobs finish
func (s *DraftService) Wait() {
	s.wg.Wait()
}

// ProcessDraft performs the generation work: it drafts, checks, renders and
// stores the plaint, recording progress on the job as it goes.
func (s *DraftService) ProcessDraft(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil {
		return errors.New("generation job repository not set")
	}
	if s.plaintRepo == nil {
		return errors.New("plaint repository not set")
	}
	if s.fileRepo == nil || s.storage == nil {
		return errors.New("file repository and storage must be set")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load generation job: %w", err)
	}

	plaint, err := s.plaintRepo.GetByID(ctx, job.PlaintID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load plaint: "+err.Error())
		return err
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	fileID, err := s.process(ctx, jobID, plaint)
	if err != nil {
		s.markJobFailed(ctx, jobID, err.Error())
		if statusErr := s.plaintRepo.UpdateStatus(ctx, plaint.ID, models.StatusDraft, models.StatusSubmitted); statusErr != nil {
			s.logger.Warn("Failed to return plaint to draft",
				zap.String("plaint_id", plaint.ID.String()), zap.Error(statusErr))
		}
		return err
	}

	if err := s.jobRepo.Complete(ctx, jobID, fileID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	s.logger.Info("Generation job completed",
		zap.String("job_id", jobID.String()),
		zap.String("plaint_id", plaint.ID.String()),
		zap.String("file_id", fileID.String()))
	return nil
}

func (s *DraftService) process(ctx context.Context, jobID uuid.UUID, plaint *models.Plaint) (uuid.UUID, error) {
	rec := plaint.CaseRecord.Clone()

	err := s.runStep(ctx, jobID, StepValidatingFields, func() error {
		return ValidateRecord(rec)
	})
	if err != nil {
		return uuid.Nil, err
	}

	var provisions []models.LegalProvision
	err = s.runStep(ctx, jobID, StepRetrievingProvisions, func() error {
		found, err := s.retrieveProvisions(ctx)
		if err != nil {
			s.logger.Warn("Failed to retrieve provisions, continuing with none",
				zap.String("job_id", jobID.String()), zap.Error(err))
			return nil
		}
		provisions = found
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	var text string
	err = s.runStep(ctx, jobID, StepDraftingPlaint, func() error {
		out, err := s.generator.GenerateDraft(ctx, rec, provisions)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	err = s.runStep(ctx, jobID, StepValidatingDraft, func() error {
		res, err := s.validator.ValidateDraft(ctx, text)
		if err != nil {
			return err
		}
		if !res.IsValid {
			return fmt.Errorf("%w: %s", ErrDraftRejected, strings.Join(res.Errors, "; "))
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	var pdf []byte
	var pages int
	err = s.runStep(ctx, jobID, StepRenderingPDF, func() error {
		d := s.composer.Compose(rec)
		doc := s.paginator.Layout(render.Input{
			Body:      text,
			Documents: d.Documents,
			Footer:    d.Verification,
		})
		out, err := render.RenderPDF(doc)
		if err != nil {
			return err
		}
		pdf, pages = out, len(doc.Pages)
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	fileID := uuid.New()
	err = s.runStep(ctx, jobID, StepStoringDocument, func() error {
		path, err := s.storage.Save(ctx, fileID, models.PlaintFilename, bytes.NewReader(pdf))
		if err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		file := &models.File{
			ID:          fileID,
			AdvocateID:  plaint.AdvocateID,
			PlaintID:    plaint.ID,
			Filename:    models.PlaintFilename,
			MimeType:    "application/pdf",
			Size:        int64(len(pdf)),
			PageCount:   pages,
			StoragePath: path,
		}
		if err := s.fileRepo.Create(ctx, file); err != nil {
			if rmErr := s.storage.Remove(ctx, path); rmErr != nil {
				s.logger.Warn("Failed to remove orphaned document", zap.String("path", path), zap.Error(rmErr))
			}
			return fmt.Errorf("failed to record document: %w", err)
		}
		return s.plaintRepo.SetGenerated(ctx, plaint.ID, text, fileID)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return fileID, nil
}

// retrieveProvisions searches every topic concurrently and merges the
// results in topic order, dropping repeats.
func (s *DraftService) retrieveProvisions(ctx context.Context) ([]models.LegalProvision, error) {
	if s.provisionRepo == nil || len(s.topics) == 0 {
		return nil, nil
	}

	results := make([][]models.LegalProvision, len(s.topics))
	g, gctx := errgroup.WithContext(ctx)
	for i, topic := range s.topics {
		g.Go(func() error {
			found, err := s.provisionRepo.SearchByTopic(gctx, topic, s.provisionsPer)
			if err != nil {
				return fmt.Errorf("search %q: %w", topic, err)
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []models.LegalProvision
	for _, found := range results {
		for _, p := range found {
			key := p.Citation()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, p)
		}
	}
	return merged, nil
}

func (s *DraftService) runStep(ctx context.Context, jobID uuid.UUID, name string, fn func() error) error {
	if err := s.updateStepStatus(ctx, jobID, name, models.StepInProgress); err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	if err := fn(); err != nil {
		if stepErr := s.updateStepStatus(ctx, jobID, name, models.StepFailed); stepErr != nil {
			s.logger.Warn("Failed to mark step failed", zap.String("step", name), zap.Error(stepErr))
		}
		return fmt.Errorf("%s: %w", strings.ToLower(name), err)
	}
	if err := s.updateStepStatus(ctx, jobID, name, models.StepCompleted); err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return nil
}

// updateStepStatus updates the status of a specific step in the generation job
func (s *DraftService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	if steps.SetStatus(stepName, status) && status == models.StepInProgress {
		currentStep = stepName
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *DraftService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	// the job context may already be done; record the failure regardless
	ctx = context.WithoutCancel(ctx)
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		s.logger.Error("Failed to mark job failed",
			zap.String("job_id", jobID.String()), zap.Error(err))
	}
}

// OpenDocumentRequest represents a request to download a rendered document
type OpenDocumentRequest struct {
	FileID     uuid.UUID
	AdvocateID uuid.UUID
}

// OpenDocument returns a stored document's metadata and contents. The
// caller closes the reader.
func (s *DraftService) OpenDocument(ctx context.Context, req OpenDocumentRequest) (*models.File, io.ReadCloser, error) {
	if s.fileRepo == nil || s.storage == nil {
		return nil, nil, errors.New("file repository and storage must be set")
	}

	file, err := s.fileRepo.GetByID(ctx, req.FileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}
	if file.AdvocateID != req.AdvocateID {
		return nil, nil, ErrForbidden
	}

	rc, err := s.storage.Open(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}
	return file, rc, nil
}
