package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"plaintdraft-backend/formschema"
)

// RouterConfig collects what NewRouter wires together
type RouterConfig struct {
	Logger        *zap.Logger
	AuthService   AuthService
	PlaintService PlaintService
	DraftService  DraftService
	FormSchema    *formschema.Schema
}

// NewRouter builds the gin engine with every API route
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authHandler := NewAuthHandler(cfg.AuthService)
	plaintHandler := NewPlaintHandler(cfg.PlaintService, cfg.DraftService)
	draftHandler := NewDraftHandler(cfg.DraftService, cfg.FormSchema)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/form-schema", draftHandler.FormSchema)
		api.POST("/court-fee", draftHandler.CourtFee)
		api.POST("/plaints/validate", draftHandler.ValidatePlaint)
		api.POST("/plaints/preview", draftHandler.PreviewPlaint)
		api.POST("/plaints/render", draftHandler.RenderPlaint)
	}

	secured := api.Group("", AuthMiddleware(cfg.AuthService))
	{
		secured.GET("/auth/me", authHandler.Me)

		secured.POST("/plaints", plaintHandler.CreatePlaint)
		secured.GET("/plaints", plaintHandler.ListPlaints)
		secured.GET("/plaints/:id", plaintHandler.GetPlaint)
		secured.PUT("/plaints/:id", plaintHandler.UpdatePlaint)
		secured.DELETE("/plaints/:id", plaintHandler.ArchivePlaint)
		secured.POST("/plaints/:id/generate", plaintHandler.GenerateDraft)

		secured.GET("/jobs/:id", plaintHandler.GetJobStatus)
		secured.GET("/files/:id", draftHandler.GetFile)
	}

	return r
}
