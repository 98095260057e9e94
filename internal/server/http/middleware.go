package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/models"
)

const (
	userContextKey      = "auth_user"
	requestIDContextKey = "request_id"
	requestIDHeader     = "X-Request-Id"
)

// uniformAuthError is the single body returned for every credential
// failure: wrong password, unknown token, revoked token, malformed
// credential. Clients cannot tell the causes apart.
var uniformAuthError = gin.H{"error": "authentication failed"}

// requestID tags each request with a fresh id, echoed in the response
// header for correlation.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(requestIDContextKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// extractBearer pulls the credential out of the Authorization header.
// An absent or non-Bearer header yields "".
func extractBearer(c *gin.Context) string {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, common.BearerPrefix)
}

// authGate guards every protected route. It resolves the bearer credential
// to a user before any handler logic runs; on failure the request is
// short-circuited with the uniform authentication error, and the internal
// cause goes to the log only.
func (s *Server) authGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		user, err := s.users.Authenticate(ctx, extractBearer(c))
		if err != nil {
			if isAuthFailure(err) {
				s.logger.Debug(ctx, "request rejected", "cause", err.Error(), "request_id", c.GetString(requestIDContextKey))
				c.AbortWithStatusJSON(http.StatusUnauthorized, uniformAuthError)
				return
			}
			s.logger.Error(ctx, "token resolution failed", "error", err.Error(), "request_id", c.GetString(requestIDContextKey))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// isAuthFailure reports whether err is a credential failure rather than a
// server-side problem. Credential failures map to the uniform 401;
// everything else is a 500.
func isAuthFailure(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) ||
		errors.Is(err, common.ErrTokenMalformed) ||
		errors.Is(err, common.ErrTokenUnknown) ||
		errors.Is(err, common.ErrTokenRevoked) ||
		errors.Is(err, common.ErrOrphanToken)
}

// currentUser returns the identity the gate attached to the request.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}
