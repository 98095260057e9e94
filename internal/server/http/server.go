// Package http exposes the trove server over HTTP. It owns the routing
// table, the authentication gate in front of every protected route, and
// the mapping from service errors to response codes. Handlers hold no
// business logic of their own.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mpetrovs/trove/internal/logging"
	"github.com/mpetrovs/trove/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	users   *services.UserService
	troves  *services.TroveService
	engine  *gin.Engine
}

func NewServer(address string, l logging.Logger, us *services.UserService, ts *services.TroveService) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		troves:  ts,
	}
	s.engine = s.buildRouter()

	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID())

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/revoke", s.revoke)

	protected := api.Group("", s.authGate())
	protected.GET("/trove", s.troveCurrent)
	protected.POST("/trove", s.troveSave)
	protected.POST("/trove/file", s.troveUploadURL)
	protected.GET("/trove/file", s.troveDownloadURL)
	protected.DELETE("/account", s.deleteAccount)
	protected.GET("/users", s.listUsers)
	protected.GET("/users/:id", s.getUser)

	return r
}

// Handler returns the HTTP handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
