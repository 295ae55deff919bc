// Package handlers exposes the plaint services over HTTP with gin.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"plaintdraft-backend/auth"
	"plaintdraft-backend/service"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondServiceError maps service and auth errors onto HTTP statuses.
// Anything unrecognised is a 500 carrying fallbackCode.
func respondServiceError(c *gin.Context, err error, fallbackCode string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_FAILED",
				"message": "Required fields are missing or invalid",
				"fields":  verr.Missing,
			},
		})
	case errors.Is(err, service.ErrPlaintNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Plaint not found")
	case errors.Is(err, service.ErrJobNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Generation job not found")
	case errors.Is(err, service.ErrFileNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "File not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to access this resource")
	case errors.Is(err, service.ErrNotEditable):
		respondError(c, http.StatusConflict, "NOT_EDITABLE", err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(c, http.StatusConflict, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrMissingFields):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}

// parseID reads the :id path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}
