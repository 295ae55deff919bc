package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"plaintdraft-backend/auth"
	"plaintdraft-backend/models"
)

// AuthService registers advocates and issues tokens
type AuthService interface {
	TokenVerifier
	Register(ctx context.Context, req auth.RegisterRequest) (*models.AdvocateAccount, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error)
	Advocate(ctx context.Context, id uuid.UUID) (*models.AdvocateAccount, error)
}

// AuthHandler handles HTTP requests for advocate accounts
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	advocate, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "REGISTRATION_FAILED")
		return
	}

	respondData(c, http.StatusCreated, advocate)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "LOGIN_FAILED")
		return
	}

	respondData(c, http.StatusOK, result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	advocate, err := h.auth.Advocate(c.Request.Context(), AdvocateID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Advocate not found")
		return
	}
	respondData(c, http.StatusOK, advocate)
}
