package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"plaintdraft-backend/models"
	"plaintdraft-backend/service"
)

// PlaintService stores advocates' plaints
type PlaintService interface {
	CreatePlaint(ctx context.Context, req service.CreatePlaintRequest) (*service.CreatePlaintResult, error)
	GetPlaint(ctx context.Context, req service.GetPlaintRequest) (*service.GetPlaintResult, error)
	UpdatePlaint(ctx context.Context, req service.UpdatePlaintRequest) (*service.UpdatePlaintResult, error)
	ListPlaints(ctx context.Context, req service.ListPlaintsRequest) (*service.ListPlaintsResult, error)
	ArchivePlaint(ctx context.Context, req service.ArchivePlaintRequest) error
}

// DraftService renders plaints and runs generation jobs
type DraftService interface {
	Validate(ctx context.Context, rec models.CaseRecord) *service.ValidateRecordResult
	Preview(ctx context.Context, rec models.CaseRecord) (*service.PreviewResult, error)
	RenderPDF(ctx context.Context, rec models.CaseRecord) (*service.RenderPDFResult, error)
	GenerateDraft(ctx context.Context, req service.GenerateDraftRequest) (*service.GenerateDraftResult, error)
	ProcessDraftAsync(jobID uuid.UUID)
	GetJobStatus(ctx context.Context, req service.GetJobStatusRequest) (*service.GetJobStatusResult, error)
	OpenDocument(ctx context.Context, req service.OpenDocumentRequest) (*models.File, io.ReadCloser, error)
}

// PlaintHandler handles HTTP requests for stored plaints
type PlaintHandler struct {
	plaintService PlaintService
	draftService  DraftService
}

// NewPlaintHandler creates a new plaint handler
func NewPlaintHandler(plaintService PlaintService, draftService DraftService) *PlaintHandler {
	return &PlaintHandler{
		plaintService: plaintService,
		draftService:  draftService,
	}
}

// CaseRecordRequest is the body of every endpoint that takes a case record
type CaseRecordRequest struct {
	CaseRecord models.CaseRecord `json:"case_record"`
}

// CreatePlaint handles POST /api/plaints
func (h *PlaintHandler) CreatePlaint(c *gin.Context) {
	var req CaseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.plaintService.CreatePlaint(c.Request.Context(), service.CreatePlaintRequest{
		AdvocateID: AdvocateID(c),
		CaseRecord: req.CaseRecord,
	})
	if err != nil {
		respondServiceError(c, err, "CREATE_FAILED")
		return
	}

	respondData(c, http.StatusCreated, result.Plaint)
}

// ListPlaints handles GET /api/plaints?status=&limit=&offset=
func (h *PlaintHandler) ListPlaints(c *gin.Context) {
	req := service.ListPlaintsRequest{AdvocateID: AdvocateID(c)}

	if s := c.Query("status"); s != "" {
		status := models.PlaintStatus(s)
		req.Status = &status
	}
	for _, q := range []struct {
		name string
		dst  *int
	}{{"limit", &req.Limit}, {"offset", &req.Offset}} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid "+q.name)
			return
		}
		*q.dst = n
	}

	result, err := h.plaintService.ListPlaints(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "LIST_FAILED")
		return
	}

	respondData(c, http.StatusOK, result.Plaints)
}

// GetPlaint handles GET /api/plaints/:id
func (h *PlaintHandler) GetPlaint(c *gin.Context) {
	id, ok := parseID(c, "plaint")
	if !ok {
		return
	}

	result, err := h.plaintService.GetPlaint(c.Request.Context(), service.GetPlaintRequest{
		ID:         id,
		AdvocateID: AdvocateID(c),
	})
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}

	respondData(c, http.StatusOK, result.Plaint)
}

// UpdatePlaint handles PUT /api/plaints/:id
func (h *PlaintHandler) UpdatePlaint(c *gin.Context) {
	id, ok := parseID(c, "plaint")
	if !ok {
		return
	}

	var req CaseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.plaintService.UpdatePlaint(c.Request.Context(), service.UpdatePlaintRequest{
		ID:         id,
		AdvocateID: AdvocateID(c),
		CaseRecord: req.CaseRecord,
	})
	if err != nil {
		respondServiceError(c, err, "UPDATE_FAILED")
		return
	}

	respondData(c, http.StatusOK, result.Plaint)
}

// ArchivePlaint handles DELETE /api/plaints/:id
func (h *PlaintHandler) ArchivePlaint(c *gin.Context) {
	id, ok := parseID(c, "plaint")
	if !ok {
		return
	}

	err := h.plaintService.ArchivePlaint(c.Request.Context(), service.ArchivePlaintRequest{
		ID:         id,
		AdvocateID: AdvocateID(c),
	})
	if err != nil {
		respondServiceError(c, err, "ARCHIVE_FAILED")
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": id, "status": models.StatusArchived})
}

// GenerateDraft handles POST /api/plaints/:id/generate
func (h *PlaintHandler) GenerateDraft(c *gin.Context) {
	id, ok := parseID(c, "plaint")
	if !ok {
		return
	}

	// Create job (synchronous, fast)
	result, err := h.draftService.GenerateDraft(c.Request.Context(), service.GenerateDraftRequest{
		PlaintID:   id,
		AdvocateID: AdvocateID(c),
	})
	if err != nil {
		respondServiceError(c, err, "GENERATION_FAILED")
		return
	}

	// Processing outlives the request; clients poll the job
	h.draftService.ProcessDraftAsync(result.JobID)

	respondData(c, http.StatusAccepted, gin.H{
		"job_id":  result.JobID,
		"status":  models.JobStatusPending,
		"message": "Generation job created. Poll /api/jobs/:id for updates.",
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *PlaintHandler) GetJobStatus(c *gin.Context) {
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	result, err := h.draftService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{
		JobID:      id,
		AdvocateID: AdvocateID(c),
	})
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}

	respondData(c, http.StatusOK, result.Job)
}
