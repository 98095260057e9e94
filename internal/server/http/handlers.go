package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mpetrovs/trove/internal/common"
	"github.com/mpetrovs/trove/internal/server/models"
	"github.com/mpetrovs/trove/internal/server/services"
)

// RegisterRequest is the payload for POST /api/register.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginRequest is the payload for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TroveRequest is the payload for POST /api/trove.
type TroveRequest struct {
	TroveText string `json:"trove_text"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) register(c *gin.Context) {
	ctx := c.Request.Context()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.users.Register(ctx, services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, common.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrDuplicateEmail.Error()})
		default:
			s.serverError(c, "registration failed", err)
		}
		return
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, user.Public())
}

func (s *Server) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, uniformAuthError)
			return
		}
		// Covers ErrHashFormat too: corrupted storage is a server problem
		// and must never read as a wrong password.
		s.serverError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// revoke reports success regardless of whether the credential matched a
// live token. Only a store failure is an error.
func (s *Server) revoke(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.users.Revoke(ctx, extractBearer(c)); err != nil {
		s.serverError(c, "revocation failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) troveCurrent(c *gin.Context) {
	user := currentUser(c)

	trove, err := s.troves.Current(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no trove"})
			return
		}
		s.serverError(c, "trove read failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trove_text": trove.Text,
		"created_at": trove.CreatedAt,
	})
}

func (s *Server) troveSave(c *gin.Context) {
	user := currentUser(c)

	var req TroveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	trove, err := s.troves.Save(c.Request.Context(), user.ID, req.TroveText)
	if err != nil {
		s.serverError(c, "trove save failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         trove.ID,
		"created_at": trove.CreatedAt,
	})
}

func (s *Server) troveUploadURL(c *gin.Context) {
	user := currentUser(c)

	key, url, err := s.troves.NewUploadURL(c.Request.Context(), user.ID)
	if err != nil {
		s.serverError(c, "upload presign failed", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
}

func (s *Server) troveDownloadURL(c *gin.Context) {
	user := currentUser(c)

	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	url, err := s.troves.DownloadURL(c.Request.Context(), user.ID, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		s.serverError(c, "download presign failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) deleteAccount(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	if err := s.users.DeleteAccount(ctx, user.ID); err != nil {
		s.serverError(c, "account deletion failed", err)
		return
	}

	s.logger.Info(ctx, "account deleted", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) listUsers(c *gin.Context) {
	if !currentUser(c).Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.serverError(c, "user listing failed", err)
		return
	}

	result := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) getUser(c *gin.Context) {
	caller := currentUser(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if id != caller.ID && !caller.Admin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	user, err := s.users.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		s.serverError(c, "user lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, user.Public())
}

// serverError logs the underlying cause and answers with a generic 500.
// Internal detail never reaches the client.
func (s *Server) serverError(c *gin.Context, msg string, err error) {
	s.logger.Error(c.Request.Context(), msg, "error", err.Error(), "request_id", c.GetString(requestIDContextKey))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
