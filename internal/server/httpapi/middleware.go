package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dpavlenko/cashcard/internal/common"
)

const identityKey = "caller_identity"

// requestLogger tags every request with a generated id and logs the
// outcome with a per-request child logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		log := s.logger.With("request_id", requestID)
		start := time.Now()

		c.Next()

		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// basicAuth resolves the caller identity from HTTP Basic credentials,
// verifying the password against the stored hash on every request. There
// is no session state: each request stands alone.
func (s *Server) basicAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="cashcard"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "authentication required"})
			return
		}

		identity, err := s.users.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if errors.Is(err, common.ErrorUnauthenticated) {
				c.Header("WWW-Authenticate", `Basic realm="cashcard"`)
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "invalid credentials"})
				return
			}
			s.logger.Error(c.Request.Context(), "authentication failed", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: "internal error"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// callerIdentity returns the identity resolved by the basicAuth middleware.
func callerIdentity(c *gin.Context) string {
	identity, ok := c.Get(identityKey)
	if !ok {
		return ""
	}
	return identity.(string)
}
