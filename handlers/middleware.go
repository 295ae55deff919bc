package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const advocateIDKey = "advocate_id"

// TokenVerifier resolves a bearer token to the advocate it was issued to
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

// RequestLogger logs every request once it has been served
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Info("Request served", fields...)
		}
	}
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header
// and stores the advocate id on the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			c.Abort()
			return
		}

		id, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(advocateIDKey, id)
		c.Next()
	}
}

// AdvocateID returns the id stored by AuthMiddleware
func AdvocateID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(advocateIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}
