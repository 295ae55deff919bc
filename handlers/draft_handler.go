package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"plaintdraft-backend/courtfee"
	"plaintdraft-backend/formschema"
	"plaintdraft-backend/service"
)

// DraftHandler serves the stateless drafting endpoints and stored documents
type DraftHandler struct {
	draftService DraftService
	schema       *formschema.Schema
}

// NewDraftHandler creates a new draft handler. A nil schema serves the built-in form.
func NewDraftHandler(draftService DraftService, schema *formschema.Schema) *DraftHandler {
	if schema == nil {
		schema = formschema.Default()
	}
	return &DraftHandler{draftService: draftService, schema: schema}
}

// FormSchema handles GET /api/form-schema
func (h *DraftHandler) FormSchema(c *gin.Context) {
	respondData(c, http.StatusOK, h.schema)
}

// CourtFeeRequest carries the claim amount as typed into the form
type CourtFeeRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// CourtFee handles POST /api/court-fee
func (h *DraftHandler) CourtFee(c *gin.Context) {
	var req CourtFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	fee := courtfee.Calculate(req.Amount)
	if !fee.Valid {
		respondError(c, http.StatusUnprocessableEntity, "INVALID_AMOUNT",
			fmt.Sprintf("%q is not a valid claim amount", req.Amount))
		return
	}

	respondData(c, http.StatusOK, fee)
}

// ValidatePlaint handles POST /api/plaints/validate
func (h *DraftHandler) ValidatePlaint(c *gin.Context) {
	var req CaseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	respondData(c, http.StatusOK, h.draftService.Validate(c.Request.Context(), req.CaseRecord))
}

// PreviewPlaint handles POST /api/plaints/preview
func (h *DraftHandler) PreviewPlaint(c *gin.Context) {
	var req CaseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.draftService.Preview(c.Request.Context(), req.CaseRecord)
	if err != nil {
		respondServiceError(c, err, "PREVIEW_FAILED")
		return
	}

	respondData(c, http.StatusOK, result)
}

// RenderPlaint handles POST /api/plaints/render and returns the PDF itself
func (h *DraftHandler) RenderPlaint(c *gin.Context) {
	var req CaseRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.draftService.RenderPDF(c.Request.Context(), req.CaseRecord)
	if err != nil {
		respondServiceError(c, err, "RENDER_FAILED")
		return
	}

	c.Header("Content-Disposition", attachment(result.Filename))
	c.Header("X-Page-Count", fmt.Sprint(result.Pages))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// GetFile handles GET /api/files/:id
func (h *DraftHandler) GetFile(c *gin.Context) {
	id, ok := parseID(c, "file")
	if !ok {
		return
	}

	file, rc, err := h.draftService.OpenDocument(c.Request.Context(), service.OpenDocumentRequest{
		FileID:     id,
		AdvocateID: AdvocateID(c),
	})
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, rc, map[string]string{
		"Content-Disposition": attachment(file.Filename),
	})
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
