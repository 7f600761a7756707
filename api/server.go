// Package api - thin HTTP layer over the estimate engine.
// The API is only responsible for input ingestion, engine orchestration and
// output serialization. It never prices anything itself.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solar-estimate/api/envelope"
	"solar-estimate/core/engine"
	"solar-estimate/core/output"
)

// Options configures a Server
type Options struct {
	Version      string
	Company      output.Company
	Logger       *zap.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the API server
type Server struct {
	handler *Handler
	router  *gin.Engine
	opts    Options
	http    *http.Server
}

// NewServer creates a new API server around eng
func NewServer(eng *engine.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(Correlation(), Recovery(opts.Logger), RequestLogger(opts.Logger))

	s := &Server{
		handler: NewHandler(eng, opts.Company, opts.Logger),
		router:  router,
		opts:    opts,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.POST("/estimates", s.handler.CreateEstimate)
	v1.POST("/estimates/recalculate", s.handler.Recalculate)
	v1.POST("/estimates/export", s.handler.Export)
	v1.POST("/surveys/validate", s.handler.ValidateSurvey)
	v1.GET("/rules", s.handler.Rules)

	s.router.NoRoute(func(c *gin.Context) {
		envelope.NotFound(c, "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	envelope.Success(c, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.opts.Version,
		Rules:   s.handler.engine.Rules().Version,
	})
}

// Handler returns the http.Handler for use in tests or custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on addr and blocks until it stops
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}
	s.opts.Logger.Info("api listening", zap.String("addr", addr), zap.String("version", s.opts.Version))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
