package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/smartrecipe/analyzer/config"
	"github.com/smartrecipe/analyzer/internal/api"
	"github.com/smartrecipe/analyzer/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance with all routes registered
func New(cfg *config.Config, db *gorm.DB) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	llmService := service.NewLLMService(cfg)
	if !llmService.Configured() {
		log.Printf("Warning: DEEPSEEK_API_KEY not set; recipe generation will be unavailable")
	}

	api.RegisterRoutes(router, db, llmService, cfg)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
